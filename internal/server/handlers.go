package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ironsheep/cardmatch/internal/card"
	"github.com/ironsheep/cardmatch/internal/imaging"
	"github.com/ironsheep/cardmatch/internal/pipeline"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "cards_detect").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "cards_detect":
		return s.handleCardsDetect(args)
	case "cards_templates":
		return s.handleCardsTemplates()
	case "image_load":
		return s.handleImageLoad(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

type pathArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadSceneInfo(s.cache, a.Path)
}

type cardsDetectArgs struct {
	Path     string `json:"path"`
	Annotate bool   `json:"annotate"`
}

// CardsDetectResult is the cards_detect payload: the scene report plus the
// optional annotated overlay.
type CardsDetectResult struct {
	pipeline.Report
	Recognized int    `json:"recognized"`
	Annotated  string `json:"annotated_png_base64,omitempty"`
}

func (s *Server) handleCardsDetect(args json.RawMessage) (interface{}, error) {
	var a cardsDetectArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("path is required")
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	cards, err := s.detector.Process(context.Background(), img)
	if err != nil {
		return nil, fmt.Errorf("failed to process %s: %w", a.Path, err)
	}

	report := pipeline.NewReport(a.Path, img, cards)
	result := &CardsDetectResult{Report: report, Recognized: report.Recognized()}
	if a.Annotate {
		encoded, err := imaging.EncodePNGBase64(s.detector.Annotate(img, cards))
		if err != nil {
			return nil, err
		}
		result.Annotated = encoded
	}
	return result, nil
}

// TemplateInfo describes one loaded template.
type TemplateInfo struct {
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// CardsTemplatesResult is the cards_templates payload.
type CardsTemplatesResult struct {
	Count           int            `json:"count"`
	GlyphWidth      int            `json:"glyph_width"`
	GlyphHeight     int            `json:"glyph_height"`
	RejectThreshold float64        `json:"reject_threshold"`
	Templates       []TemplateInfo `json:"templates"`
}

func (s *Server) handleCardsTemplates() (interface{}, error) {
	templates := s.library.Templates()
	result := &CardsTemplatesResult{
		Count:           len(templates),
		GlyphWidth:      card.GlyphWidth,
		GlyphHeight:     card.GlyphHeight,
		RejectThreshold: s.detector.Threshold(),
		Templates:       make([]TemplateInfo, len(templates)),
	}
	for i, t := range templates {
		b := t.Image.Bounds()
		result.Templates[i] = TemplateInfo{Name: t.Name, Width: b.Dx(), Height: b.Dy()}
	}
	return result, nil
}
