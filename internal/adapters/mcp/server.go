// Package mcp exposes transcript analysis as Model Context Protocol tools.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/eixo/medical-scribe/internal/core/domain"
	"github.com/eixo/medical-scribe/internal/core/engine/clinical"
	"github.com/eixo/medical-scribe/internal/core/ports"
)

const (
	ToolAnalyze = "analyze_transcript"
	ToolCID10   = "list_cid10"
)

type Server struct {
	analyzer ports.TranscriptAnalyzer
	mcp      *server.MCPServer
}

func NewServer(analyzer ports.TranscriptAnalyzer, version string) *Server {
	s := &Server{
		analyzer: analyzer,
		mcp:      server.NewMCPServer("medical-scribe", version, server.WithToolCapabilities(false)),
	}

	s.mcp.AddTool(mcp.NewTool(ToolAnalyze,
		mcp.WithDescription("Structure an anonymized Portuguese consultation transcript into a SOAP note with CID-10 hypothesis, vitals, medications, allergies and severity."),
		mcp.WithString("transcript",
			mcp.Required(),
			mcp.Description("Raw consultation transcript, one utterance per line or sentence."),
		),
	), s.handleAnalyze)

	s.mcp.AddTool(mcp.NewTool(ToolCID10,
		mcp.WithDescription("List the keyword to CID-10 table in matching priority order."),
	), s.handleCID10)

	return s
}

// ServeStdio blocks until stdin closes.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

func (s *Server) handleAnalyze(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	transcript, err := req.RequireString("transcript")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.analyzer.Analyze(ctx, transcript)
	if err != nil {
		if domain.IsKind(err, domain.ErrInsufficientInput) {
			return mcp.NewToolResultError(result.Message), nil
		}
		return nil, fmt.Errorf("analyze transcript: %w", err)
	}

	return jsonResult(analysisView{Result: result, VitalAlerts: result.Record.Vitals.Alerts()})
}

func (s *Server) handleCID10(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(map[string]any{"entries": clinical.CIDTable()})
}

type analysisView struct {
	Result      domain.ProcessingResult `json:"result"`
	VitalAlerts []domain.VitalAlert     `json:"vital_alerts"`
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal tool result: %w", err)
	}
	return mcp.NewToolResultText(string(raw)), nil
}
