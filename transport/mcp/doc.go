// Package mcp exposes the match service to AI agents over the Model
// Context Protocol.
//
// Each tool maps onto one MatchService operation: agents create and join
// matches, submit single-cell moves, ask the path oracle for a hint, and
// read match state rendered as an ASCII grid. Tool handlers call the
// service directly and return plain-text results, so any MCP-capable agent
// can compete without speaking the WebSocket protocol.
package mcp
