package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/mj1618/desktop-text/internal/a11y"
	"github.com/mj1618/desktop-text/internal/output"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// DoResult is the YAML output of a batch do command.
type DoResult struct {
	OK        bool         `yaml:"ok"              json:"ok"`
	Action    string       `yaml:"action"          json:"action"`
	Steps     int          `yaml:"steps"           json:"steps"`
	Completed int          `yaml:"completed"       json:"completed"`
	Error     string       `yaml:"error,omitempty" json:"error,omitempty"`
	Results   []StepResult `yaml:"results"         json:"results"`
}

var doCmd = &cobra.Command{
	Use:   "do",
	Short: "Execute multiple text operations in a batch",
	Long: `Execute a sequence of operations from a YAML list on stdin.

Each step is an operation name with its parameters as a map, using the same
names as the command flags. All steps share one accessibility session, and by
default execution stops on the first error.

Supported step types: ` + stepTypes + `

Control steps:
  try: [steps]                       run steps, never fail the batch
  if-found: {query} then/else        branch on whether the query matches
  if-editable: {} then/else          branch on whether the focus is editable

Example:
  desktop-text do <<'EOF'
  - if-found: { phrase: "teh" }
    then:
      - replace: { phrase: "teh", with: "the" }
  - move: { phrase: "regards", to: end }
  - cursor: {}
  EOF`,
	Args: cobra.NoArgs,
	RunE: runDo,
}

func init() {
	rootCmd.AddCommand(doCmd)
	doCmd.Flags().Bool("stop-on-error", true, "Stop execution on first error")
}

// maxDoDepth bounds nesting of try and if blocks.
const maxDoDepth = 8

func runDo(cmd *cobra.Command, args []string) error {
	stopOnError, _ := cmd.Flags().GetBool("stop-on-error")

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("failed to read stdin: %w", err)
	}
	rawSteps, err := parseDoSteps(data)
	if err != nil {
		return err
	}

	return withSession(func(s *session) error {
		dc := &DoContext{Ctx: cmd.Context(), Session: s, StopOnError: stopOnError}
		dc.ExecuteSteps(rawSteps, 0)
		return output.Print(dc.Result(len(rawSteps)))
	})
}

func parseDoSteps(data []byte) ([]map[string]interface{}, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("no steps provided on stdin; pipe a YAML list of operations")
	}
	var rawSteps []map[string]interface{}
	if err := yaml.Unmarshal(data, &rawSteps); err != nil {
		return nil, fmt.Errorf("failed to parse YAML steps: %w", err)
	}
	if len(rawSteps) == 0 {
		return nil, fmt.Errorf("no steps provided; expected a YAML list of operations")
	}
	return rawSteps, nil
}

// DoContext runs a list of steps against one session and collects their
// results. A nil Session makes every condition false and every text
// operation fail, which leaves sleep and the control steps usable.
type DoContext struct {
	Ctx         context.Context
	Session     *session
	StopOnError bool

	Results    []StepResult
	HasFailure bool
	LastErr    string
}

// Result summarises the executed steps.
func (d *DoContext) Result(total int) DoResult {
	completed := 0
	for _, r := range d.Results {
		if r.OK {
			completed++
		}
	}
	return DoResult{
		OK:        !d.HasFailure,
		Action:    "do",
		Steps:     total,
		Completed: completed,
		Error:     d.LastErr,
		Results:   d.Results,
	}
}

// ExecuteSteps runs steps in order, appending one result per step.
func (d *DoContext) ExecuteSteps(steps []map[string]interface{}, depth int) {
	results, failed, lastErr := d.run(steps, depth, d.StopOnError)
	d.Results = append(d.Results, results...)
	if failed {
		d.HasFailure = true
		d.LastErr = lastErr
	}
}

func (d *DoContext) ctx() context.Context {
	if d.Ctx == nil {
		return context.Background()
	}
	return d.Ctx
}

func (d *DoContext) run(steps []map[string]interface{}, depth int, stopOnError bool) (results []StepResult, failed bool, lastErr string) {
	for i, step := range steps {
		result := d.runStep(step, depth)
		result.Step = i + 1
		results = append(results, result)
		if result.OK {
			continue
		}
		failed = true
		lastErr = fmt.Sprintf("step %d: %s", result.Step, result.Error)
		if stopOnError {
			break
		}
	}
	return results, failed, lastErr
}

func (d *DoContext) runStep(step map[string]interface{}, depth int) StepResult {
	if depth >= maxDoDepth {
		return StepResult{Error: fmt.Sprintf("steps nested deeper than %d", maxDoDepth)}
	}
	if raw, ok := step["try"]; ok {
		return d.runTry(raw, depth)
	}
	if raw, ok := step["if-found"]; ok {
		return d.runIf("if-found", raw, step, depth, d.queryMatches)
	}
	if raw, ok := step["if-editable"]; ok {
		return d.runIf("if-editable", raw, step, depth, d.focusEditable)
	}

	action, params, err := parseRegularStep(step)
	if err != nil {
		return StepResult{Error: err.Error()}
	}
	result, err := executeStep(d.ctx(), d.Session, action, params)
	if err != nil {
		result.OK = false
		result.Error = err.Error()
		return result
	}
	result.OK = true
	return result
}

// runTry executes its substeps and always succeeds; a failing substep
// ends the block.
func (d *DoContext) runTry(raw interface{}, depth int) StepResult {
	result := StepResult{Action: "try", OK: true}
	substeps, err := parseSubsteps(raw)
	if err != nil {
		result.OK = false
		result.Error = err.Error()
		return result
	}
	result.Substeps, _, _ = d.run(substeps, depth+1, true)
	return result
}

func (d *DoContext) runIf(action string, raw interface{}, step map[string]interface{}, depth int, cond func(map[string]interface{}) (bool, error)) StepResult {
	result := StepResult{Action: action}
	params, err := paramsOf(raw)
	if err != nil {
		result.Error = fmt.Sprintf("%s: %v", action, err)
		return result
	}
	thenSteps, err := parseSubsteps(step["then"])
	if err != nil {
		result.Error = fmt.Sprintf("then: %v", err)
		return result
	}
	elseSteps, err := parseSubsteps(step["else"])
	if err != nil {
		result.Error = fmt.Sprintf("else: %v", err)
		return result
	}

	matched, err := cond(params)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.Matched = &matched
	branch := elseSteps
	result.Branch = "else"
	if matched {
		branch = thenSteps
		result.Branch = "then"
	}

	substeps, failed, lastErr := d.run(branch, depth+1, d.StopOnError)
	result.Substeps = substeps
	result.OK = !failed
	if failed {
		result.Error = lastErr
	}
	return result
}

func (d *DoContext) queryMatches(params map[string]interface{}) (bool, error) {
	q, err := queryFromParams(params)
	if err != nil {
		return false, err
	}
	if d.Session == nil {
		return false, nil
	}
	info, err := a11y.GetTextInfo(d.ctx(), d.Session.dispatcher, q)
	if err != nil {
		return false, err
	}
	return info != nil, nil
}

func (d *DoContext) focusEditable(map[string]interface{}) (bool, error) {
	if d.Session == nil {
		return false, nil
	}
	return a11y.IsEditableFocused(d.ctx(), d.Session.dispatcher)
}

// parseRegularStep splits a step map into its single operation name and
// parameters. Branch keys belong to conditionals and are ignored.
func parseRegularStep(step map[string]interface{}) (string, map[string]interface{}, error) {
	var actions []string
	for k := range step {
		if k == "then" || k == "else" {
			continue
		}
		actions = append(actions, k)
	}
	if len(actions) != 1 {
		sort.Strings(actions)
		return "", nil, fmt.Errorf("expected exactly one operation key, got %d %v", len(actions), actions)
	}
	action := actions[0]
	params, err := paramsOf(step[action])
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", action, err)
	}
	return action, params, nil
}

func paramsOf(raw interface{}) (map[string]interface{}, error) {
	switch p := raw.(type) {
	case nil:
		return map[string]interface{}{}, nil
	case map[string]interface{}:
		return p, nil
	default:
		return nil, fmt.Errorf("parameters must be a map, got %T", raw)
	}
}

// parseSubsteps converts a decoded YAML or JSON list into step maps.
func parseSubsteps(raw interface{}) ([]map[string]interface{}, error) {
	if raw == nil {
		return nil, nil
	}
	list, ok := raw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("expected a list of steps, got %T", raw)
	}
	steps := make([]map[string]interface{}, 0, len(list))
	for i, item := range list {
		m, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("step %d: expected a map, got %T", i+1, item)
		}
		steps = append(steps, m)
	}
	return steps, nil
}
