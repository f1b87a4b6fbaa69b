package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/eixo/medical-scribe/internal/core/engine"
	"github.com/eixo/medical-scribe/internal/core/usecase"
)

func newTestServer() *Server {
	e := engine.New(engine.WithClock(func() time.Time {
		return time.Date(2026, 3, 2, 14, 30, 0, 0, time.UTC)
	}))
	return NewServer(usecase.NewAnalyzeTranscriptUseCase(e, nil), "test")
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func textOf(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if res == nil || len(res.Content) == 0 {
		t.Fatalf("expected content, got %+v", res)
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", res.Content[0])
	}
	return text.Text
}

func TestAnalyzeToolReturnsResultAndAlerts(t *testing.T) {
	s := newTestServer()
	res, err := s.handleAnalyze(context.Background(), callRequest(ToolAnalyze, map[string]any{
		"transcript": "Tenho hipertensão e uso losartana. Vamos examinar: PA 160x100, FC 88.",
	}))
	if err != nil {
		t.Fatalf("handleAnalyze() error = %v", err)
	}
	if res.IsError {
		t.Fatalf("expected success, got error result %q", textOf(t, res))
	}

	var view struct {
		Result struct {
			Success bool `json:"success"`
			Record  struct {
				Diagnosis struct {
					Code string `json:"code"`
				} `json:"diagnosis"`
			} `json:"record"`
		} `json:"result"`
		VitalAlerts []struct {
			Vital string `json:"vital"`
		} `json:"vital_alerts"`
	}
	if err := json.Unmarshal([]byte(textOf(t, res)), &view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !view.Result.Success || view.Result.Record.Diagnosis.Code != "I10" {
		t.Fatalf("unexpected result: %+v", view.Result)
	}
	if len(view.VitalAlerts) != 1 || view.VitalAlerts[0].Vital != "pa" {
		t.Fatalf("expected one pa alert, got %+v", view.VitalAlerts)
	}
}

func TestAnalyzeToolShortTranscriptIsToolError(t *testing.T) {
	res, err := newTestServer().handleAnalyze(context.Background(), callRequest(ToolAnalyze, map[string]any{
		"transcript": "oi",
	}))
	if err != nil {
		t.Fatalf("handleAnalyze() error = %v", err)
	}
	if !res.IsError {
		t.Fatalf("expected tool error result")
	}
	if !strings.Contains(textOf(t, res), "Mínimo de 10 caracteres") {
		t.Fatalf("unexpected message %q", textOf(t, res))
	}
}

func TestAnalyzeToolMissingArgument(t *testing.T) {
	res, err := newTestServer().handleAnalyze(context.Background(), callRequest(ToolAnalyze, map[string]any{}))
	if err != nil {
		t.Fatalf("handleAnalyze() error = %v", err)
	}
	if !res.IsError {
		t.Fatalf("expected tool error for missing transcript")
	}
}

func TestCID10ToolListsTable(t *testing.T) {
	res, err := newTestServer().handleCID10(context.Background(), callRequest(ToolCID10, nil))
	if err != nil {
		t.Fatalf("handleCID10() error = %v", err)
	}
	var body struct {
		Entries []json.RawMessage `json:"entries"`
	}
	if err := json.Unmarshal([]byte(textOf(t, res)), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Entries) != 83 {
		t.Fatalf("expected 83 entries, got %d", len(body.Entries))
	}
}
