package memory

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/minju-kim98/personal-ai-hub/job"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixed = time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)

func newStore() *Store {
	return New(WithClock(func() time.Time { return fixed }))
}

func createJob(t *testing.T, s *Store) string {
	t.Helper()
	id, err := s.Create(context.Background(), &job.Job{
		UserID: "u1",
		Kind:   job.KindTravel,
		Input:  json.RawMessage(`{"destination":"부산"}`),
	})
	require.NoError(t, err)
	return id
}

func TestCreateAndGet(t *testing.T) {
	s := newStore()
	ctx := context.Background()
	id := createJob(t, s)
	assert.NotEmpty(t, id)

	j, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, job.StatusPending, j.Status)
	assert.Equal(t, fixed, j.CreatedAt)
	assert.Nil(t, j.CompletedAt)

	in, err := s.LoadInput(ctx, id)
	require.NoError(t, err)
	assert.JSONEq(t, `{"destination":"부산"}`, string(in))

	_, err = s.Get(ctx, "missing")
	assert.ErrorIs(t, err, job.ErrNotFound)
}

func TestCreateRejectsDuplicateID(t *testing.T) {
	s := newStore()
	ctx := context.Background()
	_, err := s.Create(ctx, &job.Job{ID: "fixed", Kind: job.KindProposal})
	require.NoError(t, err)
	_, err = s.Create(ctx, &job.Job{ID: "fixed", Kind: job.KindProposal})
	assert.Error(t, err)
}

func TestMergeProgressReplacesWholesale(t *testing.T) {
	s := newStore()
	ctx := context.Background()
	id := createJob(t, s)

	require.NoError(t, s.MergeProgress(ctx, id, map[string]any{"current_step": "planning", "research_topics": []string{"a"}}))
	require.NoError(t, s.MergeProgress(ctx, id, map[string]any{"current_step": "writing"}))

	j, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, job.StatusProcessing, j.Status)
	assert.Equal(t, map[string]any{"current_step": "writing"}, j.Progress)
}

func TestReturnedJobIsACopy(t *testing.T) {
	s := newStore()
	ctx := context.Background()
	id := createJob(t, s)
	require.NoError(t, s.MergeProgress(ctx, id, map[string]any{"n": 1}))

	j, err := s.Get(ctx, id)
	require.NoError(t, err)
	j.Progress["n"] = 2

	again, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.EqualValues(t, 1, again.Progress["n"])
}

func TestTerminalJobRejectsWrites(t *testing.T) {
	s := newStore()
	ctx := context.Background()
	id := createJob(t, s)

	require.NoError(t, s.SetStatus(ctx, id, job.StatusProcessing))
	require.NoError(t, job.Complete(ctx, s, id, map[string]any{"title": "부산 여행"}))

	j, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, job.StatusCompleted, j.Status)
	require.NotNil(t, j.CompletedAt)
	assert.Equal(t, fixed, *j.CompletedAt)

	assert.ErrorIs(t, s.MergeProgress(ctx, id, map[string]any{"late": true}), job.ErrTerminal)
	assert.ErrorIs(t, s.SetOutput(ctx, id, nil), job.ErrTerminal)
	assert.ErrorIs(t, s.SetError(ctx, id, "late"), job.ErrTerminal)
	assert.ErrorIs(t, s.SetCompletedNow(ctx, id), job.ErrTerminal)
	assert.ErrorIs(t, s.SetStatus(ctx, id, job.StatusFailed), job.ErrTerminal)
	_, err = s.CreateArtifact(ctx, job.KindTravel, id, nil)
	assert.ErrorIs(t, err, job.ErrTerminal)

	j, err = s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, job.StatusCompleted, j.Status)
	assert.Empty(t, j.Error)
	assert.Nil(t, j.Progress)
}

func TestIllegalTransition(t *testing.T) {
	s := newStore()
	ctx := context.Background()
	id := createJob(t, s)

	err := s.SetStatus(ctx, id, job.StatusCompleted)
	var se *job.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, job.StatusPending, se.From)
	assert.Equal(t, job.StatusCompleted, se.To)
}

func TestFailFromPending(t *testing.T) {
	s := newStore()
	ctx := context.Background()
	id := createJob(t, s)

	require.NoError(t, job.Fail(ctx, s, id, "boom"))
	j, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, job.StatusFailed, j.Status)
	assert.Equal(t, "boom", j.Error)
}

func TestArtifactOncePerJob(t *testing.T) {
	s := newStore()
	ctx := context.Background()
	id := createJob(t, s)

	_, err := s.GetArtifact(ctx, id)
	assert.ErrorIs(t, err, job.ErrNotFound)

	a, err := s.CreateArtifact(ctx, job.KindTravel, id, map[string]any{"title": "t"})
	require.NoError(t, err)
	assert.Equal(t, id, a.JobID)
	assert.Equal(t, job.KindTravel, a.Kind)

	_, err = s.CreateArtifact(ctx, job.KindTravel, id, map[string]any{"title": "again"})
	assert.ErrorIs(t, err, job.ErrArtifactExists)

	got, err := s.GetArtifact(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "t", got.Fields["title"])

	_, err = s.CreateArtifact(ctx, job.KindTravel, "missing", nil)
	assert.ErrorIs(t, err, job.ErrNotFound)
}

func TestReporter(t *testing.T) {
	s := newStore()
	ctx := context.Background()
	id := createJob(t, s)

	r := job.NewReporter(s, id)
	require.NoError(t, r.Step(ctx, "market_research", "시장 조사 중..."))

	j, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "market_research", j.Progress["current_step"])
	assert.Equal(t, job.StatusProcessing, j.Status)
}
