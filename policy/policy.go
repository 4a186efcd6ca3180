// Package policy provides CEL-based admission checks for job requests.
//
// Rules are written as CEL boolean expressions over the request's semantic
// projection and compiled once into an Engine; evaluation is pure
// computation with no I/O, safe for concurrent use. A typical rule:
//
//	policy.Rule{
//		Name:       "prod-requires-approval",
//		Expression: `tenant["environment"] != "prod" || bool(policy["require_approval"])`,
//	}
package policy

import (
	"fmt"

	"github.com/google/cel-go/cel"

	"github.com/autopilot-ai/sdk"
	"github.com/autopilot-ai/sdk/job"
)

// Rule is a named admission rule. The expression must evaluate to a
// boolean: true admits the request, false rejects it.
type Rule struct {
	// Name identifies the rule in rejection errors.
	Name string

	// Expression is the CEL source. Available variables:
	//   job_type  string
	//   tenant    map[string]dyn (tenant_id, project_id, environment)
	//   payload   map[string]dyn
	//   policy    map[string]dyn (max_duration_ms, max_attempts, dry_run,
	//             require_approval)
	Expression string
}

type compiledRule struct {
	name    string
	program cel.Program
}

// Engine holds compiled admission rules. Construct with NewEngine; the zero
// value admits everything.
type Engine struct {
	rules []compiledRule
}

// NewEngine compiles the given rules into an engine. It returns a
// configuration error if any expression fails to compile or does not
// evaluate to a boolean.
func NewEngine(rules ...Rule) (*Engine, error) {
	env, err := cel.NewEnv(
		cel.Variable("job_type", cel.StringType),
		cel.Variable("tenant", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("payload", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("policy", cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		return nil, sdk.NewConfigurationError("policy.NewEngine", err)
	}

	e := &Engine{rules: make([]compiledRule, 0, len(rules))}
	for _, r := range rules {
		if r.Name == "" {
			return nil, sdk.NewConfigurationError("policy.NewEngine",
				fmt.Errorf("rule name is required"))
		}
		ast, iss := env.Compile(r.Expression)
		if iss != nil && iss.Err() != nil {
			return nil, sdk.NewConfigurationError("policy.NewEngine",
				fmt.Errorf("rule %q: %w", r.Name, iss.Err()))
		}
		if !ast.OutputType().IsExactType(cel.BoolType) {
			return nil, sdk.NewConfigurationError("policy.NewEngine",
				fmt.Errorf("rule %q must evaluate to bool, got %s", r.Name, ast.OutputType()))
		}
		prg, err := env.Program(ast)
		if err != nil {
			return nil, sdk.NewConfigurationError("policy.NewEngine",
				fmt.Errorf("rule %q: %w", r.Name, err))
		}
		e.rules = append(e.rules, compiledRule{name: r.Name, program: prg})
	}
	return e, nil
}

// Check evaluates every rule against the request's semantic projection and
// returns a policy error naming the first rule that rejects it. A nil
// engine admits everything.
func (e *Engine) Check(req *job.Request) error {
	if e == nil || len(e.rules) == 0 {
		return nil
	}

	proj := req.Projection()
	activation := map[string]any{
		"job_type": proj.JobType,
		"tenant":   proj.Tenant,
		"payload":  proj.Payload,
		"policy":   proj.Policy,
	}

	for _, rule := range e.rules {
		out, _, err := rule.program.Eval(activation)
		if err != nil {
			return sdk.NewPolicyError("Engine.Check",
				fmt.Errorf("rule %q: %w", rule.name, err))
		}
		admitted, ok := out.Value().(bool)
		if !ok {
			return sdk.NewPolicyError("Engine.Check",
				fmt.Errorf("rule %q produced non-boolean result %v", rule.name, out.Value()))
		}
		if !admitted {
			return sdk.NewPolicyError("Engine.Check", sdk.ErrPolicyRejected).
				WithContext(map[string]any{
					"rule":       rule.name,
					"request_id": req.RequestID,
				})
		}
	}
	return nil
}
