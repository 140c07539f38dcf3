package server

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/ironsheep/cardmatch/internal/card"
	"github.com/ironsheep/cardmatch/internal/imaging"
	"github.com/ironsheep/cardmatch/internal/pipeline"
	"github.com/ironsheep/cardmatch/internal/rank"
)

// protocolVersion is the MCP revision the server speaks.
const protocolVersion = "2024-11-05"

// Server handles MCP protocol communication
type Server struct {
	cache    *imaging.ImageCache
	detector *pipeline.Detector
	library  *rank.Library
	version  string
}

// MCPRequest represents an incoming JSON-RPC request
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// New creates a server that answers card tools with detector. lib is the
// library detector was built from and is only used for reporting.
func New(detector *pipeline.Detector, lib *rank.Library, version string) *Server {
	return &Server{
		cache:    imaging.NewImageCache(),
		detector: detector,
		library:  lib,
		version:  version,
	}
}

// Serve processes newline-delimited JSON-RPC requests from r until EOF and
// writes responses to w.
func (s *Server) Serve(r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	// Increase buffer size for large requests
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	encoder := json.NewEncoder(w)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var resp *MCPResponse
		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			log.Printf("Failed to parse request: %v", err)
			// JSON-RPC answers unreadable requests with a null id.
			resp = s.errorResponse(nil, -32700, "Parse error", err.Error())
		} else {
			resp = s.handleRequest(&req)
		}
		if resp != nil {
			if err := encoder.Encode(resp); err != nil {
				log.Printf("Failed to encode response: %v", err)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}

	return nil
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(req *MCPRequest) *MCPResponse {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		// Client acknowledgment, no response needed
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(req)
	case "ping":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{},
		}
	default:
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error: &MCPError{
				Code:    -32601,
				Message: fmt.Sprintf("Method not found: %s", req.Method),
			},
		}
	}
}

// InitializeResult is the initialize payload. Besides the handshake it tells
// the client which ranks this server can name and how it was built.
type InitializeResult struct {
	ProtocolVersion string                 `json:"protocolVersion"`
	Capabilities    map[string]interface{} `json:"capabilities"`
	ServerInfo      ServerInfo             `json:"serverInfo"`
	Instructions    string                 `json:"instructions"`
}

// ServerInfo identifies the server build.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	// Backend is the contour and warp implementation, "go" or "gocv".
	Backend string `json:"backend"`
}

func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: &InitializeResult{
			ProtocolVersion: protocolVersion,
			Capabilities: map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			ServerInfo: ServerInfo{
				Name:    "cardmatch",
				Version: s.version,
				Backend: pipeline.Backend(),
			},
			Instructions: s.instructions(),
		},
	}
}

// instructions summarizes the loaded library for the client's model.
func (s *Server) instructions() string {
	names := s.library.Names()
	ranks := "no ranks"
	if len(names) > 0 {
		ranks = strings.Join(names, ", ")
	}
	return fmt.Sprintf(
		"Finds playing cards in photographs and names their rank. Templates loaded: %d (%s). "+
			"Call cards_detect with an absolute image path. A card whose closest template differs by %.0f or more "+
			"gray levels is reported as %q.",
		len(names), ranks, s.detector.Threshold(), card.Unrecognized)
}
