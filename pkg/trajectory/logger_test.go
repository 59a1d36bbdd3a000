package trajectory

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elizaos/eliza-go/pkg/types"
)

func TestTrajectoryLifecycle(t *testing.T) {
	l := NewLogger("")
	agentID := types.NewUUID()

	trajID := l.StartTrajectory(agentID, &StartOptions{EpisodeID: "ep-1"})
	stepID, err := l.StartStep(trajID, map[string]any{"balance": 100}, "user said hi")
	require.NoError(t, err)

	require.NoError(t, l.RecordLLMCall(trajID, LLMCall{
		Model:    "TEXT_LARGE",
		Response: "hello there",
		Purpose:  PurposeResponse,
	}))
	require.NoError(t, l.RecordProviderAccess(trajID, ProviderAccess{
		ProviderName: "recentMessages",
		Data:         map[string]any{"count": 3},
	}))
	require.NoError(t, l.RecordAction(trajID, ActionAttempt{
		ActionName: "REPLY",
		Success:    true,
	}))
	require.NoError(t, l.CompleteStep(trajID, stepID, 1.5, true, nil))

	traj, err := l.EndTrajectory(trajID, StatusCompleted, map[string]any{"extra": "x"})
	require.NoError(t, err)

	assert.Equal(t, agentID, traj.AgentID)
	assert.Equal(t, "ep-1", traj.EpisodeID)
	require.Len(t, traj.Steps, 1)

	step := traj.Steps[0]
	assert.Equal(t, 1, step.StepNumber)
	assert.Equal(t, 1.5, step.Reward)
	assert.True(t, step.Done)
	require.Len(t, step.LLMCalls, 1)
	assert.Equal(t, "REPLY", step.Action.ActionName)

	assert.Equal(t, 1.5, traj.TotalReward)
	assert.Equal(t, 1, traj.Metrics["episode_length"])
	assert.Equal(t, "completed", traj.Metrics["final_status"])
	assert.Equal(t, "x", traj.Metrics["extra"])

	// The trajectory is no longer active.
	_, err = l.StartStep(trajID, nil, "")
	assert.Error(t, err)
}

func TestRecordLLMCallEstimatesTokens(t *testing.T) {
	l := NewLogger("")
	trajID := l.StartTrajectory(types.NewUUID(), nil)
	_, err := l.StartStep(trajID, nil, "")
	require.NoError(t, err)

	require.NoError(t, l.RecordLLMCall(trajID, LLMCall{
		UserPrompt: "What is the weather like today in Paris?",
		Response:   "Sunny with light clouds.",
	}))

	traj, err := l.EndTrajectory(trajID, StatusCompleted, nil)
	require.NoError(t, err)

	call := traj.Steps[0].LLMCalls[0]
	require.NotNil(t, call.PromptTokens)
	require.NotNil(t, call.CompletionTokens)
	assert.Greater(t, *call.PromptTokens, 0)
	assert.Greater(t, *call.CompletionTokens, 0)
	assert.NotEmpty(t, call.CallID)
	assert.Equal(t, PurposeOther, call.Purpose)
}

func TestRecordWithoutOpenStepFails(t *testing.T) {
	l := NewLogger("")
	trajID := l.StartTrajectory(types.NewUUID(), nil)

	assert.Error(t, l.RecordLLMCall(trajID, LLMCall{Response: "x"}))
	assert.Error(t, l.RecordAction(trajID, ActionAttempt{ActionName: "X"}))
}

func TestEndTrajectoryFlushesJSONL(t *testing.T) {
	dir := t.TempDir()
	l := NewLogger(dir)

	trajID := l.StartTrajectory(types.NewUUID(), &StartOptions{ScenarioID: "sc-1"})
	stepID, err := l.StartStep(trajID, nil, "obs")
	require.NoError(t, err)
	require.NoError(t, l.CompleteStep(trajID, stepID, 0.5, true, nil))

	_, err = l.EndTrajectory(trajID, StatusCompleted, nil)
	require.NoError(t, err)
	l.Flush()

	f, err := os.Open(filepath.Join(dir, "trajectories.jsonl"))
	require.NoError(t, err)
	defer f.Close()

	scanner := bufio.NewScanner(f)
	require.True(t, scanner.Scan())

	var decoded Trajectory
	require.NoError(t, json.Unmarshal(scanner.Bytes(), &decoded))
	assert.Equal(t, "sc-1", decoded.ScenarioID)
	assert.Equal(t, 0.5, decoded.TotalReward)
	require.Len(t, decoded.Steps, 1)
}
