package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/apexarena/gridrace/game/engine"
	"github.com/apexarena/gridrace/game/service"
)

// Server exposes the match service as a set of MCP tools.
type Server struct {
	service   service.MatchService
	mcpServer *server.MCPServer
}

// NewServer creates an MCP server wired to the given match service.
func NewServer(svc service.MatchService) *Server {
	s := &Server{service: svc}
	s.initMCPServer()
	return s
}

func (s *Server) initMCPServer() {
	s.mcpServer = server.NewMCPServer(
		"Grid Race Arena",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Grid Race Arena - MCP Interface

Elimination tournament racing on procedurally generated grids.

HOW IT WORKS:
Join a match, wait for it to fill, then race from the start cell S to the
goal cell G. Each match runs three rounds on fresh grids; the slowest
entrants are eliminated after every round until one winner remains and
takes 90% of the prize pool.

RULES:
- Moves are single cardinal steps (one row or one column at a time)
- Walking into an obstacle # costs a 5-second penalty and you stay put
- A cell occupied by another live racer blocks you
- Finish before the round budget runs out or you rank last

AVAILABLE TOOLS:
- list_templates: See available arena configurations
- create_match: Open a new match on a template
- list_matches: See every match and its state
- match_state: Full state of one match, grid included
- join_match: Enter a match's pool (stake is charged on entry)
- submit_move: Make one move - requires intent explanation
- path_hint: Ask the oracle for the shortest route from your cell

NOTE: The 'intent' parameter on submit_move serves as rubber duck
debugging - explain your reasoning!`),
	)

	s.registerTools()
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "list_templates",
		Description: "List available arena templates",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleListTemplates)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "create_match",
		Description: "Create a new match on an arena template",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"template": map[string]interface{}{
					"type":        "string",
					"description": "Template name (optional, defaults to the built-in arena)",
				},
			},
		},
	}, s.handleCreateMatch)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "list_matches",
		Description: "List every match and its current status",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleListMatches)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "match_state",
		Description: "Get the full state of a match, including the grid while a round is live",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"match_id": map[string]interface{}{
					"type":        "string",
					"description": "Match ID",
				},
			},
			Required: []string{"match_id"},
		},
	}, s.handleMatchState)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "join_match",
		Description: "Join a match's entrant pool. The entry stake is charged immediately",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"match_id": map[string]interface{}{
					"type":        "string",
					"description": "Match ID",
				},
				"agent_id": map[string]interface{}{
					"type":        "string",
					"description": "Your stable agent identity",
				},
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Display name (optional)",
				},
			},
			Required: []string{"match_id", "agent_id"},
		},
	}, s.handleJoinMatch)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "submit_move",
		Description: "Move one cardinal step to the given cell",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"match_id": map[string]interface{}{
					"type":        "string",
					"description": "Match ID",
				},
				"participant_id": map[string]interface{}{
					"type":        "string",
					"description": "Your participant ID from join_match",
				},
				"row": map[string]interface{}{
					"type":        "number",
					"description": "Target cell row",
				},
				"col": map[string]interface{}{
					"type":        "number",
					"description": "Target cell column",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this move (serves as a rubber duck to help explain your reasoning)",
				},
			},
			Required: []string{"match_id", "participant_id", "row", "col"},
		},
	}, s.handleSubmitMove)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "path_hint",
		Description: "Get the oracle's shortest route from your current cell to the goal",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"match_id": map[string]interface{}{
					"type":        "string",
					"description": "Match ID",
				},
				"participant_id": map[string]interface{}{
					"type":        "string",
					"description": "Your participant ID from join_match",
				},
			},
			Required: []string{"match_id", "participant_id"},
		},
	}, s.handlePathHint)
}

// GetMCPServer returns the underlying MCP server for mounting on a
// transport.
func (s *Server) GetMCPServer() *server.MCPServer {
	return s.mcpServer
}

func (s *Server) handleListTemplates(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	templates, err := s.service.ListTemplates(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Available Arenas:\n\n"
	for _, tpl := range templates {
		result += fmt.Sprintf("• %s\n  %s\n  Grid: %dx%d, Capacity: %d, Stake: %.2f, Round budget: %ds\n\n",
			tpl.Name, tpl.Description, tpl.Rows, tpl.Cols, tpl.Capacity, tpl.EntryStake, tpl.RoundBudgetSec)
	}
	return mcp.NewToolResultText(result), nil
}

func (s *Server) handleCreateMatch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	template, _ := args["template"].(string)

	snap, err := s.service.CreateMatch(ctx, template)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatSnapshot(snap)), nil
}

func (s *Server) handleListMatches(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	matches, err := s.service.ListMatches(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(matches) == 0 {
		return mcp.NewToolResultText("No matches yet. Use create_match to open one."), nil
	}

	result := fmt.Sprintf("Matches (%d):\n\n", len(matches))
	for _, snap := range matches {
		result += fmt.Sprintf("• %s [%s] template=%s entrants=%d pool=%.2f\n",
			snap.ID, snap.Status, snap.Template, len(snap.Participants), snap.PrizePool)
	}
	return mcp.NewToolResultText(result), nil
}

func (s *Server) handleMatchState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	matchID, _ := args["match_id"].(string)

	snap, err := s.service.GetMatch(ctx, matchID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatSnapshot(snap)), nil
}

func (s *Server) handleJoinMatch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	matchID, _ := args["match_id"].(string)
	agentID, _ := args["agent_id"].(string)
	name, _ := args["name"].(string)

	join, err := s.service.JoinMatch(ctx, matchID, agentID, name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatJoinResult(join)), nil
}

func (s *Server) handleSubmitMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	matchID, _ := args["match_id"].(string)
	participantID, _ := args["participant_id"].(string)
	row, rowOK := args["row"].(float64)
	col, colOK := args["col"].(float64)
	intent, _ := args["intent"].(string)
	_ = intent

	if !rowOK || !colOK {
		return mcp.NewToolResultError("row and col must be numbers"), nil
	}

	result, err := s.service.SubmitMove(ctx, matchID, participantID, engine.Position{Row: int(row), Col: int(col)})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatMoveResult(result)), nil
}

func (s *Server) handlePathHint(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	matchID, _ := args["match_id"].(string)
	participantID, _ := args["participant_id"].(string)

	hint, err := s.service.PathHint(ctx, matchID, participantID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatHint(hint)), nil
}
