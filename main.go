// Command gridrace starts the Grid Race Arena server.
//
// It serves two surfaces on one HTTP listener:
//   - /ws?match=<match_id>  WebSocket feed of live match events
//   - /mcp                  MCP endpoint for competing agents
//
// Persistence and settlement are optional: set DATABASE_URL to record
// matches, rounds, and moves to Postgres, and SETTLEMENT_URL to hand
// completed matches to the wallet service. Without them the server runs
// fully in memory.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/apexarena/gridrace/game/arena"
	"github.com/apexarena/gridrace/game/match"
	"github.com/apexarena/gridrace/game/service"
	"github.com/apexarena/gridrace/settlement"
	"github.com/apexarena/gridrace/storage"
	"github.com/apexarena/gridrace/transport/mcp"
	"github.com/apexarena/gridrace/transport/websocket"
	"github.com/apexarena/gridrace/workers"
)

const (
	Version = "1.0.0"
	AppName = "Grid Race Arena Server"
)

var (
	port        = flag.Int("port", 8080, "HTTP server port")
	host        = flag.String("host", "localhost", "HTTP server host")
	templateDir = flag.String("template-dir", getTemplateDirDefault(), "Directory containing arena template JSON files")
	debug       = flag.Bool("debug", false, "Enable debug logging")
	version     = flag.Bool("version", false, "Show version information")
)

// getTemplateDirDefault honors the TEMPLATE_DIR environment variable, then
// falls back to the local templates directory.
func getTemplateDirDefault() string {
	if dir := os.Getenv("TEMPLATE_DIR"); dir != "" {
		return dir
	}
	return "templates"
}

func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	} else {
		log.Println("Loaded environment variables from .env file")
	}

	flag.Parse()

	if *version {
		fmt.Printf("%s v%s\n", AppName, Version)
		os.Exit(0)
	}

	if *debug {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	} else {
		log.SetFlags(log.LstdFlags)
	}

	log.Printf("Starting %s v%s", AppName, Version)

	hub := websocket.NewHub()
	go hub.Run()

	registry, svc, recorder, err := initializeServices(hub)
	if err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}

	poller, err := workers.NewRoundPoller(registry)
	if err != nil {
		log.Fatalf("Failed to create round poller: %v", err)
	}
	if err := poller.Start(); err != nil {
		log.Fatalf("Failed to start round poller: %v", err)
	}

	mcpServer := mcp.NewServer(svc)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		matchID := r.URL.Query().Get("match")
		if matchID == "" {
			http.Error(w, "match query parameter is required", http.StatusBadRequest)
			return
		}
		hub.ServeWS(w, r, matchID)
	})
	mux.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpServer.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	})

	addr := fmt.Sprintf("%s:%d", *host, *port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("HTTP server listening on %s", addr)
		log.Printf("WebSocket: ws://%s/ws?match=<match_id>", addr)
		log.Printf("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}
	poller.Stop()
	if recorder != nil {
		recorder.Close()
	}
	log.Println("Server stopped")
}

// initializeServices wires the arena manager, the match registry with its
// collaborators, and the match service.
func initializeServices(hub *websocket.Hub) (*match.Registry, service.MatchService, *storage.Recorder, error) {
	dir := *templateDir
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		log.Printf("Template directory %q not found, using built-in default arena only", dir)
		dir = ""
	}
	arenas, err := arena.NewManager(dir)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create arena manager: %w", err)
	}

	deps := match.Collaborators{Broadcast: hub}

	var recorder *storage.Recorder
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		db, err := storage.Open(dsn)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to open database: %w", err)
		}
		recorder = storage.NewRecorder(db)
		deps.Recorder = recorder
		log.Println("Match recording enabled")
	} else {
		log.Println("DATABASE_URL not set, running without persistence")
	}

	if url := os.Getenv("SETTLEMENT_URL"); url != "" {
		deps.Settlement = settlement.NewClient(url, os.Getenv("SETTLEMENT_TOKEN"))
		log.Println("Settlement handoff enabled")
	} else {
		log.Println("SETTLEMENT_URL not set, prize payouts are log-only")
	}

	registry := match.NewRegistry(deps)
	return registry, service.NewMatchService(registry, arenas), recorder, nil
}
