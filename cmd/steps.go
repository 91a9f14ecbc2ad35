package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mj1618/desktop-text/internal/a11y"
	"github.com/mj1618/desktop-text/internal/phrase"
	"github.com/mj1618/desktop-text/internal/platform"
)

// StepResult is the output of a single command, do step or MCP tool call.
type StepResult struct {
	Step       int             `yaml:"step,omitempty"        json:"step,omitempty"`
	OK         bool            `yaml:"ok"                    json:"ok"`
	Action     string          `yaml:"action"                json:"action"`
	Error      string          `yaml:"error,omitempty"       json:"error,omitempty"`
	Found      *bool           `yaml:"found,omitempty"       json:"found,omitempty"`
	Offset     *int            `yaml:"offset,omitempty"      json:"offset,omitempty"`
	Text       string          `yaml:"text,omitempty"        json:"text,omitempty"`
	Start      *int            `yaml:"start,omitempty"       json:"start,omitempty"`
	End        *int            `yaml:"end,omitempty"         json:"end,omitempty"`
	StartPoint *platform.Point `yaml:"start_point,omitempty" json:"start_point,omitempty"`
	EndPoint   *platform.Point `yaml:"end_point,omitempty"   json:"end_point,omitempty"`
	Method     string          `yaml:"method,omitempty"      json:"method,omitempty"`
	Editable   *bool           `yaml:"editable,omitempty"    json:"editable,omitempty"`
	Elapsed    string          `yaml:"elapsed,omitempty"     json:"elapsed,omitempty"`
	Matched    *bool           `yaml:"matched,omitempty"     json:"matched,omitempty"`
	Branch     string          `yaml:"branch,omitempty"      json:"branch,omitempty"`
	Substeps   []StepResult    `yaml:"substeps,omitempty"    json:"substeps,omitempty"`
}

const stepTypes = "cursor, set-cursor, move, info, select, replace, editable, sleep"

// errNoSession is returned for steps that need the accessibility thread
// when none is running.
var errNoSession = errors.New("accessibility session not open")

func executeStep(ctx context.Context, s *session, action string, params map[string]interface{}) (StepResult, error) {
	if s == nil && action != "sleep" {
		return StepResult{Action: action}, errNoSession
	}
	switch action {
	case "cursor":
		return executeGetCursor(ctx, s)
	case "set-cursor":
		offset := intParam(params, "offset", -1)
		if offset < 0 {
			return StepResult{Action: action}, fmt.Errorf("offset must be >= 0")
		}
		return executeSetCursor(ctx, s, offset)
	case "move":
		q, err := queryFromParams(params)
		if err != nil {
			return StepResult{Action: action}, err
		}
		to, err := a11y.ParseBoundary(stringParam(params, "to", "start"))
		if err != nil {
			return StepResult{Action: action}, err
		}
		return executeMove(ctx, s, q, to)
	case "info", "select", "replace":
		q, err := queryFromParams(params)
		if err != nil {
			return StepResult{Action: action}, err
		}
		switch action {
		case "info":
			return executeInfo(ctx, s, q)
		case "select":
			return executeSelect(ctx, s, q)
		}
		return executeReplace(ctx, s, q, stringParam(params, "with", ""))
	case "editable":
		return executeEditable(ctx, s)
	case "sleep":
		return executeSleep(ctx, params)
	default:
		return StepResult{Action: action}, fmt.Errorf("unknown step type %q (supported: %s)", action, stepTypes)
	}
}

func executeGetCursor(ctx context.Context, s *session) (StepResult, error) {
	offset, ok, err := a11y.GetCursorOffset(ctx, s.dispatcher)
	if err != nil {
		return StepResult{Action: "cursor"}, err
	}
	result := StepResult{Action: "cursor", Found: &ok}
	if ok {
		result.Offset = &offset
	}
	return result, nil
}

func executeSetCursor(ctx context.Context, s *session, offset int) (StepResult, error) {
	ok, err := a11y.SetCursorOffset(ctx, s.dispatcher, offset)
	if err != nil {
		return StepResult{Action: "set-cursor"}, err
	}
	result := StepResult{Action: "set-cursor", Found: &ok}
	if ok {
		result.Offset = &offset
	}
	return result, nil
}

func executeMove(ctx context.Context, s *session, q phrase.TextQuery, to a11y.Boundary) (StepResult, error) {
	ok, err := a11y.MoveCursor(ctx, s.dispatcher, q, to)
	if err != nil {
		return StepResult{Action: "move"}, err
	}
	return StepResult{Action: "move", Found: &ok}, nil
}

func executeInfo(ctx context.Context, s *session, q phrase.TextQuery) (StepResult, error) {
	info, err := a11y.GetTextInfo(ctx, s.dispatcher, q)
	if err != nil {
		return StepResult{Action: "info"}, err
	}
	result := StepResult{Action: "info"}
	applyTextInfo(&result, info)
	return result, nil
}

func executeSelect(ctx context.Context, s *session, q phrase.TextQuery) (StepResult, error) {
	sel, err := s.controller.SelectText(ctx, q)
	if err != nil {
		return StepResult{Action: "select"}, err
	}
	result := StepResult{Action: "select"}
	applySelection(&result, sel)
	return result, nil
}

func executeReplace(ctx context.Context, s *session, q phrase.TextQuery, with string) (StepResult, error) {
	sel, err := s.controller.ReplaceText(ctx, q, with)
	if err != nil {
		return StepResult{Action: "replace"}, err
	}
	result := StepResult{Action: "replace"}
	applySelection(&result, sel)
	return result, nil
}

func executeEditable(ctx context.Context, s *session) (StepResult, error) {
	editable, err := a11y.IsEditableFocused(ctx, s.dispatcher)
	if err != nil {
		return StepResult{Action: "editable"}, err
	}
	return StepResult{Action: "editable", Editable: &editable}, nil
}

func executeSleep(ctx context.Context, params map[string]interface{}) (StepResult, error) {
	ms := intParam(params, "ms", 0)
	if ms <= 0 {
		return StepResult{Action: "sleep"}, fmt.Errorf("ms must be > 0")
	}
	select {
	case <-time.After(time.Duration(ms) * time.Millisecond):
	case <-ctx.Done():
		return StepResult{Action: "sleep"}, ctx.Err()
	}
	return StepResult{Action: "sleep", Elapsed: fmt.Sprintf("%dms", ms)}, nil
}

func applyTextInfo(result *StepResult, info *a11y.TextInfo) {
	found := info != nil
	result.Found = &found
	if !found {
		return
	}
	start, end := info.Start, info.End
	result.Text = info.Text
	result.Start, result.End = &start, &end
	result.StartPoint, result.EndPoint = info.StartPoint, info.EndPoint
}

func applySelection(result *StepResult, sel *a11y.Selection) {
	if sel == nil {
		applyTextInfo(result, nil)
		return
	}
	applyTextInfo(result, &sel.TextInfo)
	result.Method = "native"
	if sel.Dragged {
		result.Method = "drag"
	}
}

// Parameter extraction helpers for step maps

func stringParam(params map[string]interface{}, key, defaultVal string) string {
	if v, ok := params[key]; ok && v != nil {
		if s, ok := v.(string); ok {
			return s
		}
		// Handle numeric values that YAML may parse as int/float
		return fmt.Sprintf("%v", v)
	}
	return defaultVal
}

func intParam(params map[string]interface{}, key string, defaultVal int) int {
	if v, ok := params[key]; ok {
		switch n := v.(type) {
		case int:
			return n
		case float64:
			return int(n)
		case int64:
			return int(n)
		}
	}
	return defaultVal
}

func boolParam(params map[string]interface{}, key string, defaultVal bool) bool {
	if v, ok := params[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return defaultVal
}
