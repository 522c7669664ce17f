package harness

import (
	"fmt"

	"github.com/typograf/typograf"
	"github.com/typograf/typograf/rules"
)

// CaseResult is the outcome of one case.
type CaseResult struct {
	Name   string   `json:"name"`
	Input  string   `json:"input"`
	Output string   `json:"output"`
	Fired  []string `json:"fired"`
	Pass   bool     `json:"pass"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every case with a want clause matched.
	Pass bool `json:"pass"`

	// Cases holds per-case outcomes in scenario order.
	Cases []CaseResult `json:"cases"`

	// Errors lists the mismatches and failures. Empty when Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a passing result to accumulate into.
func NewResult() *Result {
	return &Result{Pass: true}
}

// AddError records a failure and flips the result to failing.
func (r *Result) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
	r.Pass = false
}

// Run builds the scenario's engine and executes every case in order.
//
// The returned error covers infrastructure problems only (an engine that
// cannot be built). Case mismatches and per-case processing errors land in
// the Result, so one bad case never hides the rest.
func Run(scenario *Scenario) (*Result, error) {
	settings, err := scenarioSettings(scenario)
	if err != nil {
		return nil, err
	}

	tokens := make([]string, len(scenario.Cases))
	for i := range tokens {
		tokens[i] = fmt.Sprintf("%s-%02d", runToken(scenario), i)
	}

	var fired *[]string
	opts := []typograf.Option{
		typograf.WithTokenGenerator(typograf.NewFixedGenerator(tokens...)),
		typograf.WithHook(typograf.Hook{
			After: func(ev typograf.RuleEvent) { *fired = append(*fired, ev.Rule) },
		}),
	}
	if scenario.Lang != "" {
		opts = append(opts, typograf.WithLang(scenario.Lang))
	}
	if scenario.Mode != "" {
		opts = append(opts, typograf.WithMode(typograf.Mode(scenario.Mode)))
	}
	if len(scenario.Disable) > 0 {
		opts = append(opts, typograf.WithDisable(scenario.Disable...))
	}
	if len(scenario.Enable) > 0 {
		opts = append(opts, typograf.WithEnable(scenario.Enable...))
	}
	for rule, s := range settings {
		opts = append(opts, typograf.WithSettings(rule, s))
	}

	engine, err := typograf.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: build engine: %w", scenario.Name, err)
	}

	result := NewResult()
	for _, c := range scenario.Cases {
		var caseFired []string
		fired = &caseFired

		var callOpts []typograf.ProcessOption
		if c.Lang != "" {
			callOpts = append(callOpts, typograf.Lang(c.Lang))
		}
		if c.Mode != "" {
			callOpts = append(callOpts, typograf.OutputMode(typograf.Mode(c.Mode)))
		}

		cr := CaseResult{Name: c.Name, Input: c.Input, Pass: true}
		out, err := engine.Process(c.Input, callOpts...)
		if err != nil {
			cr.Pass = false
			result.AddError(fmt.Sprintf("case %s: %v", c.Name, err))
		} else {
			if c.Want != "" && out != c.Want {
				cr.Pass = false
				result.AddError(fmt.Sprintf("case %s: got %q, want %q", c.Name, out, c.Want))
			}
			for _, a := range c.Assertions {
				if aerr := evalAssertion(c.Name, a, c.Input, out); aerr != nil {
					cr.Pass = false
					result.AddError(aerr.Error())
				}
			}
		}
		cr.Output = out
		cr.Fired = caseFired
		result.Cases = append(result.Cases, cr)
	}
	return result, nil
}

func runToken(s *Scenario) string {
	if s.RunToken != "" {
		return s.RunToken
	}
	return DefaultRunToken
}

func scenarioSettings(s *Scenario) (map[string]rules.Settings, error) {
	if len(s.Settings) == 0 {
		return nil, nil
	}
	out := make(map[string]rules.Settings, len(s.Settings))
	for rule, m := range s.Settings {
		set := rules.Settings{}
		for key, v := range m {
			val, err := rules.ValueOf(v)
			if err != nil {
				return nil, fmt.Errorf("settings %s.%s: %w", rule, key, err)
			}
			set[key] = val
		}
		out[rule] = set
	}
	return out, nil
}
