// Package server implements the MCP (Model Context Protocol) server for the
// card recognizer.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake. The reply lists the loaded ranks, the
//     reject threshold and the image-processing backend in its instructions
//     and serverInfo
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - cards_detect: Detect and classify every card in an image, optionally
//     returning an annotated overlay
//   - cards_templates: List the loaded rank templates
//   - image_load: Load an image and get its metadata
//
// # Templates
//
// The template library is loaded before the server starts. A missing or
// mis-sized template stops startup; the server never runs with a partial
// library.
//
// # Image Caching
//
// Loaded images are cached by path and reused across tool calls for the
// lifetime of the process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes.
//     A line that is not JSON gets -32700 with a null id
//   - message: Human-readable error description
//   - data: The Go error string
//
// A scene without cards is not an error; cards_detect returns an empty list.
package server
