package cmd

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

func callTool(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]interface{}) (string, bool) {
	t.Helper()
	req := mcp.CallToolRequest{Params: mcp.CallToolParams{Arguments: args}}
	res, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if len(res.Content) != 1 {
		t.Fatalf("expected one content item, got %d", len(res.Content))
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", res.Content[0])
	}
	return text.Text, res.IsError
}

func TestMCPStepHandler_TextInfo(t *testing.T) {
	acc, _ := editableText(animals, 0)
	srv := newMCPServer(testSession(t, acc, nil))

	out, isErr := callTool(t, srv.stepHandler("info"), map[string]interface{}{"phrase": "elephant"})
	if isErr {
		t.Fatalf("unexpected tool error: %s", out)
	}
	for _, want := range []string{"ok: true", "action: info", "found: true", "text: elephant", "start: 4", "end: 12"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestMCPStepHandler_SetCursorFromJSONNumber(t *testing.T) {
	acc, text := editableText(animals, 0)
	srv := newMCPServer(testSession(t, acc, nil))

	out, isErr := callTool(t, srv.stepHandler("set-cursor"), map[string]interface{}{"offset": float64(9)})
	if isErr {
		t.Fatalf("unexpected tool error: %s", out)
	}
	if text.Caret != 9 {
		t.Errorf("caret = %d, want 9", text.Caret)
	}
}

func TestMCPStepHandler_InvalidQuery(t *testing.T) {
	acc, _ := editableText(animals, 0)
	srv := newMCPServer(testSession(t, acc, nil))

	out, isErr := callTool(t, srv.stepHandler("select"), map[string]interface{}{"start": "dog"})
	if !isErr {
		t.Fatalf("expected a tool error, got %s", out)
	}
}

func TestMCPHandleDo(t *testing.T) {
	acc, text := editableText(animals, 0)
	srv := newMCPServer(testSession(t, acc, nil))

	out, isErr := callTool(t, srv.handleDo, map[string]interface{}{
		"steps": []interface{}{
			map[string]interface{}{"move": map[string]interface{}{"phrase": "tiger", "to": "end"}},
			map[string]interface{}{"cursor": nil},
		},
	})
	if isErr {
		t.Fatalf("unexpected tool error: %s", out)
	}
	if text.Caret != 18 {
		t.Errorf("caret = %d, want 18", text.Caret)
	}
	for _, want := range []string{"ok: true", "completed: 2", "offset: 18"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestMCPHandleDo_NoSteps(t *testing.T) {
	acc, _ := editableText(animals, 0)
	srv := newMCPServer(testSession(t, acc, nil))

	if _, isErr := callTool(t, srv.handleDo, map[string]interface{}{"steps": []interface{}{}}); !isErr {
		t.Error("expected an error for an empty batch")
	}
	if _, isErr := callTool(t, srv.handleDo, map[string]interface{}{"steps": "move"}); !isErr {
		t.Error("expected an error for a non-list batch")
	}
}
