package policy

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autopilot-ai/sdk"
	"github.com/autopilot-ai/sdk/job"
)

func request(t *testing.T, env string, payload map[string]any, opts ...job.Option) *job.Request {
	t.Helper()
	req, err := job.New(context.Background(), "scan.dependency",
		job.TenantContext{TenantID: "acme", Environment: env}, payload, opts...)
	require.NoError(t, err)
	return req
}

func TestNewEngine_CompileErrors(t *testing.T) {
	tests := []struct {
		name string
		rule Rule
	}{
		{"missing name", Rule{Expression: "true"}},
		{"syntax error", Rule{Name: "broken", Expression: "][ nonsense"}},
		{"non-boolean result", Rule{Name: "not-bool", Expression: `"a string"`}},
		{"unknown variable", Rule{Name: "unknown", Expression: "no_such_var == 1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEngine(tt.rule)
			require.Error(t, err)
			assert.True(t, errors.Is(err, &sdk.PipelineError{Kind: sdk.KindConfiguration}))
		})
	}
}

func TestEngine_Admits(t *testing.T) {
	engine, err := NewEngine(
		Rule{Name: "known-job-types", Expression: `job_type.startsWith("scan.")`},
		Rule{Name: "tenant-required", Expression: `tenant["tenant_id"] != ""`},
	)
	require.NoError(t, err)

	req := request(t, "staging", map[string]any{"repo": "r"})
	assert.NoError(t, engine.Check(req))
}

func TestEngine_Rejects(t *testing.T) {
	engine, err := NewEngine(
		Rule{Name: "no-prod", Expression: `tenant["environment"] != "prod"`},
	)
	require.NoError(t, err)

	err = engine.Check(request(t, "prod", map[string]any{"repo": "r"}))
	require.Error(t, err)
	assert.True(t, errors.Is(err, sdk.ErrPolicyRejected))

	var pe *sdk.PipelineError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "no-prod", pe.Context["rule"])
}

func TestEngine_PayloadAndPolicyVariables(t *testing.T) {
	engine, err := NewEngine(
		Rule{Name: "bounded-depth", Expression: `!("depth" in payload) || int(payload["depth"]) <= 5`},
		Rule{Name: "bounded-attempts", Expression: `int(policy["max_attempts"]) <= 10`},
	)
	require.NoError(t, err)

	ok := request(t, "staging", map[string]any{"depth": 3},
		job.WithPolicy(job.Policy{MaxAttempts: 2, MaxDuration: time.Minute}))
	assert.NoError(t, engine.Check(ok))

	tooDeep := request(t, "staging", map[string]any{"depth": 9})
	require.Error(t, engine.Check(tooDeep))
}

func TestEngine_NilAdmitsEverything(t *testing.T) {
	var engine *Engine
	assert.NoError(t, engine.Check(request(t, "prod", nil)))

	empty, err := NewEngine()
	require.NoError(t, err)
	assert.NoError(t, empty.Check(request(t, "prod", nil)))
}

func TestEngine_EvalErrorSurfaces(t *testing.T) {
	engine, err := NewEngine(
		Rule{Name: "missing-key", Expression: `payload["absent"] == "x"`},
	)
	require.NoError(t, err)

	err = engine.Check(request(t, "staging", map[string]any{"present": 1}))
	require.Error(t, err)
	assert.True(t, errors.Is(err, &sdk.PipelineError{Kind: sdk.KindPolicy}))
}
