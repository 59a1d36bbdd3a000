package action

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elizaos/eliza-go/pkg/types"
)

func newTestMessage() *types.Memory {
	return &types.Memory{
		ID:       types.NewUUID(),
		EntityID: types.NewUUID(),
		RoomID:   types.NewUUID(),
		Content:  types.Content{Text: "go south"},
	}
}

func succeedingAction(name string, calls *[]string) *Action {
	return &Action{
		Name: name,
		Handler: func(ctx context.Context, msg *types.Memory, state *types.State, opts *HandlerOptions, cb Callback, responses []*types.Memory) (*Result, error) {
			*calls = append(*calls, name)
			return &Result{Success: true}, nil
		},
	}
}

func TestExecuteSingleStep(t *testing.T) {
	catalog := NewCatalog()

	var seenDirection any
	require.NoError(t, catalog.RegisterAction(&Action{
		Name: "MOVE",
		Parameters: []Parameter{
			{Name: "direction", Required: true, Schema: &Schema{Type: "string", Enum: []any{"north", "south"}}},
		},
		Handler: func(ctx context.Context, msg *types.Memory, state *types.State, opts *HandlerOptions, cb Callback, responses []*types.Memory) (*Result, error) {
			seenDirection = opts.Parameters["direction"]
			return &Result{Success: true, Values: map[string]any{"moved": true}}, nil
		},
	}))

	executor := NewExecutor(catalog, nil)
	plan := PlanFromContent(&types.Content{
		Actions: []string{"MOVE"},
		Params:  map[string]map[string]any{"MOVE": {"direction": "south"}},
	})

	result, err := executor.Execute(context.Background(), plan, newTestMessage(), types.NewState(), nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "south", seenDirection)
	assert.Equal(t, []string{"MOVE"}, result.ExecutedActions)
	require.Len(t, result.Steps, 1)
	assert.Equal(t, StepCompleted, result.Steps[0].Status)
	assert.Equal(t, true, result.State.Values["moved"])
}

func TestExecuteMissingRequiredParamSkips(t *testing.T) {
	catalog := NewCatalog()

	invoked := false
	require.NoError(t, catalog.RegisterAction(&Action{
		Name: "MOVE",
		Parameters: []Parameter{
			{Name: "direction", Required: true, Schema: &Schema{Type: "string"}},
		},
		Handler: func(ctx context.Context, msg *types.Memory, state *types.State, opts *HandlerOptions, cb Callback, responses []*types.Memory) (*Result, error) {
			invoked = true
			return &Result{Success: true}, nil
		},
	}))

	executor := NewExecutor(catalog, nil)
	plan := PlanFromContent(&types.Content{Actions: []string{"MOVE"}})

	result, err := executor.Execute(context.Background(), plan, newTestMessage(), types.NewState(), nil, nil)
	require.NoError(t, err)

	assert.False(t, invoked, "handler must not run with missing required parameter")
	require.Len(t, result.Steps, 1)
	assert.Equal(t, StepSkipped, result.Steps[0].Status)
	assert.Equal(t, SkipParameterErrors, result.Steps[0].SkipReason)
	require.NotEmpty(t, result.Steps[0].ParameterErrors)
	assert.Contains(t, result.Steps[0].ParameterErrors[0], "direction")
}

func TestExecuteUnknownActionSkips(t *testing.T) {
	executor := NewExecutor(NewCatalog(), nil)
	plan := PlanFromContent(&types.Content{Actions: []string{"NOPE"}})

	result, err := executor.Execute(context.Background(), plan, newTestMessage(), types.NewState(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, StepSkipped, result.Steps[0].Status)
	assert.Equal(t, SkipUnknownAction, result.Steps[0].SkipReason)
}

func TestExecuteValidateFalseSkips(t *testing.T) {
	catalog := NewCatalog()
	require.NoError(t, catalog.RegisterAction(&Action{
		Name: "GUARDED",
		Validate: func(ctx context.Context, msg *types.Memory, state *types.State) (bool, error) {
			return false, nil
		},
		Handler: func(ctx context.Context, msg *types.Memory, state *types.State, opts *HandlerOptions, cb Callback, responses []*types.Memory) (*Result, error) {
			t.Fatal("handler must not run when validate returns false")
			return nil, nil
		},
	}))

	executor := NewExecutor(catalog, nil)
	plan := PlanFromContent(&types.Content{Actions: []string{"GUARDED"}})

	result, err := executor.Execute(context.Background(), plan, newTestMessage(), types.NewState(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, SkipNotValid, result.Steps[0].SkipReason)
}

func TestExecuteDependencyCascadeSkip(t *testing.T) {
	catalog := NewCatalog()

	var calls []string
	require.NoError(t, catalog.RegisterAction(&Action{
		Name: "FAILING",
		Handler: func(ctx context.Context, msg *types.Memory, state *types.State, opts *HandlerOptions, cb Callback, responses []*types.Memory) (*Result, error) {
			return nil, errors.New("boom")
		},
	}))
	require.NoError(t, catalog.RegisterAction(succeedingAction("DEPENDENT", &calls)))
	require.NoError(t, catalog.RegisterAction(succeedingAction("GRANDCHILD", &calls)))
	require.NoError(t, catalog.RegisterAction(succeedingAction("INDEPENDENT", &calls)))

	executor := NewExecutor(catalog, &RetryPolicy{OnError: OnErrorContinue})
	plan := &Plan{Steps: []*Step{
		{ID: "step-1", Action: "FAILING"},
		{ID: "step-2", Action: "DEPENDENT", Dependencies: []string{"step-1"}},
		{ID: "step-3", Action: "GRANDCHILD", Dependencies: []string{"step-2"}},
		{ID: "step-4", Action: "INDEPENDENT"},
	}}

	result, err := executor.Execute(context.Background(), plan, newTestMessage(), types.NewState(), nil, nil)
	require.NoError(t, err)

	assert.Equal(t, StepFailed, result.Steps[0].Status)
	assert.Equal(t, StepSkipped, result.Steps[1].Status)
	assert.Equal(t, SkipDependency, result.Steps[1].SkipReason)
	assert.Equal(t, StepSkipped, result.Steps[2].Status)
	assert.Equal(t, StepCompleted, result.Steps[3].Status)
	assert.Equal(t, []string{"INDEPENDENT"}, calls)
}

func TestExecuteAbortStopsPlan(t *testing.T) {
	catalog := NewCatalog()

	var calls []string
	require.NoError(t, catalog.RegisterAction(&Action{
		Name: "FAILING",
		Handler: func(ctx context.Context, msg *types.Memory, state *types.State, opts *HandlerOptions, cb Callback, responses []*types.Memory) (*Result, error) {
			return nil, errors.New("boom")
		},
	}))
	require.NoError(t, catalog.RegisterAction(succeedingAction("NEXT", &calls)))

	executor := NewExecutor(catalog, nil) // default abort
	plan := &Plan{Steps: []*Step{
		{ID: "step-1", Action: "FAILING"},
		{ID: "step-2", Action: "NEXT"},
	}}

	result, err := executor.Execute(context.Background(), plan, newTestMessage(), types.NewState(), nil, nil)
	require.NoError(t, err)

	assert.Equal(t, StepFailed, result.Steps[0].Status)
	assert.Equal(t, StepSkipped, result.Steps[1].Status)
	assert.Equal(t, SkipPlanAborted, result.Steps[1].SkipReason)
	assert.Empty(t, calls)
}

func TestExecuteRetries(t *testing.T) {
	catalog := NewCatalog()

	attempts := 0
	require.NoError(t, catalog.RegisterAction(&Action{
		Name: "FLAKY",
		Handler: func(ctx context.Context, msg *types.Memory, state *types.State, opts *HandlerOptions, cb Callback, responses []*types.Memory) (*Result, error) {
			attempts++
			if attempts < 3 {
				return nil, errors.New("transient")
			}
			return &Result{Success: true}, nil
		},
	}))

	executor := NewExecutor(catalog, &RetryPolicy{
		MaxRetries:        3,
		Backoff:           time.Millisecond,
		BackoffMultiplier: 2,
		OnError:           OnErrorAbort,
	})
	plan := PlanFromContent(&types.Content{Actions: []string{"FLAKY"}})

	result, err := executor.Execute(context.Background(), plan, newTestMessage(), types.NewState(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, StepCompleted, result.Steps[0].Status)
}

func TestExecuteThreadsStateBetweenSteps(t *testing.T) {
	catalog := NewCatalog()

	require.NoError(t, catalog.RegisterAction(&Action{
		Name: "PRODUCER",
		Handler: func(ctx context.Context, msg *types.Memory, state *types.State, opts *HandlerOptions, cb Callback, responses []*types.Memory) (*Result, error) {
			return &Result{Success: true, Values: map[string]any{"token": "abc123"}}, nil
		},
	}))

	var observed any
	require.NoError(t, catalog.RegisterAction(&Action{
		Name: "CONSUMER",
		Handler: func(ctx context.Context, msg *types.Memory, state *types.State, opts *HandlerOptions, cb Callback, responses []*types.Memory) (*Result, error) {
			observed = state.Values["token"]
			return &Result{Success: true}, nil
		},
	}))

	executor := NewExecutor(catalog, nil)
	plan := PlanFromContent(&types.Content{Actions: []string{"PRODUCER", "CONSUMER"}})

	original := types.NewState()
	_, err := executor.Execute(context.Background(), plan, newTestMessage(), original, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "abc123", observed)
	// The caller's state is untouched; only the working copy is extended.
	assert.NotContains(t, original.Values, "token")
}

func TestExecuteHandlerPanicBecomesFailure(t *testing.T) {
	catalog := NewCatalog()
	require.NoError(t, catalog.RegisterAction(&Action{
		Name: "PANICKY",
		Handler: func(ctx context.Context, msg *types.Memory, state *types.State, opts *HandlerOptions, cb Callback, responses []*types.Memory) (*Result, error) {
			panic("oh no")
		},
	}))

	executor := NewExecutor(catalog, &RetryPolicy{OnError: OnErrorContinue})
	plan := PlanFromContent(&types.Content{Actions: []string{"PANICKY"}})

	result, err := executor.Execute(context.Background(), plan, newTestMessage(), types.NewState(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, StepFailed, result.Steps[0].Status)
	assert.Contains(t, result.Steps[0].Result.Error, "oh no")
}

func TestExecuteDeadlineStopsRemainder(t *testing.T) {
	catalog := NewCatalog()

	var calls []string
	require.NoError(t, catalog.RegisterAction(&Action{
		Name: "SLOW",
		Handler: func(ctx context.Context, msg *types.Memory, state *types.State, opts *HandlerOptions, cb Callback, responses []*types.Memory) (*Result, error) {
			calls = append(calls, "SLOW")
			time.Sleep(30 * time.Millisecond)
			return &Result{Success: true}, nil
		},
	}))
	require.NoError(t, catalog.RegisterAction(succeedingAction("AFTER", &calls)))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	executor := NewExecutor(catalog, nil)
	plan := PlanFromContent(&types.Content{Actions: []string{"SLOW", "AFTER"}})

	result, err := executor.Execute(ctx, plan, newTestMessage(), types.NewState(), nil, nil)
	require.NoError(t, err)

	// The in-flight step completes, the remainder is skipped.
	assert.Equal(t, StepCompleted, result.Steps[0].Status)
	assert.Equal(t, StepSkipped, result.Steps[1].Status)
	assert.Equal(t, SkipDeadline, result.Steps[1].SkipReason)
	assert.Equal(t, []string{"SLOW"}, calls)
}
