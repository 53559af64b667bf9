package main

import (
	"context"
	"testing"

	"github.com/apexarena/gridrace/transport/websocket"
)

func TestConstants(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if AppName == "" {
		t.Error("AppName should not be empty")
	}

	expectedVersion := "1.0.0"
	if Version != expectedVersion {
		t.Errorf("Expected version %s, got %s", expectedVersion, Version)
	}

	expectedAppName := "Grid Race Arena Server"
	if AppName != expectedAppName {
		t.Errorf("Expected app name %s, got %s", expectedAppName, AppName)
	}
}

func TestFlagDefaults(t *testing.T) {
	if *port <= 0 || *port > 65535 {
		t.Errorf("Invalid default port: %d", *port)
	}

	if *host == "" {
		t.Error("Host should have a default value")
	}

	if *templateDir == "" {
		t.Error("Template directory should have a default value")
	}
}

func TestGetTemplateDirDefault(t *testing.T) {
	t.Setenv("TEMPLATE_DIR", "/tmp/arenas")
	if got := getTemplateDirDefault(); got != "/tmp/arenas" {
		t.Errorf("Expected /tmp/arenas, got %s", got)
	}

	t.Setenv("TEMPLATE_DIR", "")
	if got := getTemplateDirDefault(); got != "templates" {
		t.Errorf("Expected templates, got %s", got)
	}
}

func TestInitializeServices(t *testing.T) {
	// Run without external collaborators so the wiring can be exercised
	// in isolation.
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SETTLEMENT_URL", "")

	hub := websocket.NewHub()
	registry, svc, recorder, err := initializeServices(hub)
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}

	if registry == nil {
		t.Fatal("Expected match registry to be initialized")
	}
	if svc == nil {
		t.Fatal("Expected match service to be initialized")
	}
	if recorder != nil {
		t.Error("Expected no recorder without DATABASE_URL")
	}
}

// Note: We can't easily test main() without significant mocking or
// refactoring, as it starts a server and blocks. That path is better covered
// by integration tests that start an actual server and hit its endpoints.
func TestInitializeServices_MissingTemplateDir(t *testing.T) {
	original := *templateDir
	*templateDir = "/non/existent/path"
	defer func() { *templateDir = original }()

	t.Setenv("DATABASE_URL", "")
	t.Setenv("SETTLEMENT_URL", "")

	// A missing template directory falls back to the built-in default arena.
	_, svc, _, err := initializeServices(websocket.NewHub())
	if err != nil {
		t.Fatalf("Expected fallback to built-in default, got error: %v", err)
	}

	templates, err := svc.ListTemplates(context.Background())
	if err != nil {
		t.Fatalf("Failed to list templates: %v", err)
	}
	if len(templates) != 1 || templates[0].Name != "default" {
		t.Errorf("Expected only the built-in default template, got %d", len(templates))
	}
}
