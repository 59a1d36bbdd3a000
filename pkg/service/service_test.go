package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRuntime struct{}

func (fakeRuntime) GetSetting(key string) any { return nil }
func (fakeRuntime) AgentName() string         { return "test-agent" }

type fakeService struct {
	serviceType string
	startErr    error
	stopErr     error
	events      *[]string
}

func (s *fakeService) Type() string { return s.serviceType }

func (s *fakeService) Start(ctx context.Context, rt Runtime) error {
	*s.events = append(*s.events, "start:"+s.serviceType)
	return s.startErr
}

func (s *fakeService) Stop(ctx context.Context) error {
	*s.events = append(*s.events, "stop:"+s.serviceType)
	return s.stopErr
}

func TestManagerStartOrderAndReverseStop(t *testing.T) {
	m := NewManager()

	var events []string
	require.NoError(t, m.Register(&fakeService{serviceType: "browser", events: &events}))
	require.NoError(t, m.Register(&fakeService{serviceType: "pdf", events: &events}))
	require.NoError(t, m.Register(&fakeService{serviceType: "video", events: &events}))

	require.NoError(t, m.Start(context.Background(), fakeRuntime{}))
	m.Stop(context.Background())

	assert.Equal(t, []string{
		"start:browser", "start:pdf", "start:video",
		"stop:video", "stop:pdf", "stop:browser",
	}, events)
}

func TestManagerDuplicateTypeRejected(t *testing.T) {
	m := NewManager()

	var events []string
	require.NoError(t, m.Register(&fakeService{serviceType: "browser", events: &events}))
	err := m.Register(&fakeService{serviceType: "browser", events: &events})
	assert.Error(t, err)
}

func TestManagerStartFailureRollsBack(t *testing.T) {
	m := NewManager()

	var events []string
	require.NoError(t, m.Register(&fakeService{serviceType: "first", events: &events}))
	require.NoError(t, m.Register(&fakeService{serviceType: "broken", startErr: errors.New("boom"), events: &events}))
	require.NoError(t, m.Register(&fakeService{serviceType: "never", events: &events}))

	err := m.Start(context.Background(), fakeRuntime{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")

	// The already started service was torn down; the later one never ran.
	assert.Equal(t, []string{"start:first", "start:broken", "stop:first"}, events)
}

func TestManagerStopFailureDoesNotBlockOthers(t *testing.T) {
	m := NewManager()

	var events []string
	require.NoError(t, m.Register(&fakeService{serviceType: "a", events: &events}))
	require.NoError(t, m.Register(&fakeService{serviceType: "b", stopErr: errors.New("stuck"), events: &events}))

	require.NoError(t, m.Start(context.Background(), fakeRuntime{}))
	m.Stop(context.Background())

	assert.Contains(t, events, "stop:a")
	assert.Contains(t, events, "stop:b")
}

func TestManagerGet(t *testing.T) {
	m := NewManager()

	var events []string
	s := &fakeService{serviceType: "browser", events: &events}
	require.NoError(t, m.Register(s))

	assert.Equal(t, s, m.Get("browser"))
	assert.Nil(t, m.Get("missing"))
	assert.Equal(t, []string{"browser"}, m.Types())
}
