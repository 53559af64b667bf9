// Package service provides the business logic layer between the transports
// and the match engine.
//
// MatchService is the single entry point the WebSocket, MCP, and CLI
// surfaces call into. It resolves arena templates, owns the match registry
// handle, and translates engine state into transport-friendly DTOs. Every
// operation takes a context so transports can carry deadlines, though match
// operations themselves are short lock-protected memory transitions.
package service
