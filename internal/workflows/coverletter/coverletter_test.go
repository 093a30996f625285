package coverletter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/minju-kim98/personal-ai-hub/internal/store/memory"
	"github.com/minju-kim98/personal-ai-hub/internal/testutil"
	"github.com/minju-kim98/personal-ai-hub/internal/workflows"
	"github.com/minju-kim98/personal-ai-hub/job"
	"github.com/minju-kim98/personal-ai-hub/model"
	"github.com/minju-kim98/personal-ai-hub/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const userID = "user-1"

type fixture struct {
	store   *memory.Store
	gateway *testutil.Gateway
	wf      *Workflow
	jobID   string
}

func addDocument(t *testing.T, s *memory.Store, id string, c job.Category, content string, age time.Duration) {
	t.Helper()
	_, err := s.CreateDocument(context.Background(), &job.Document{
		ID:        id,
		UserID:    userID,
		Category:  c,
		Title:     id,
		Content:   content,
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Add(age),
	})
	require.NoError(t, err)
}

// newFixture scripts every model except the comparison, which the caller adds.
func newFixture(t *testing.T, priorLetters int) *fixture {
	t.Helper()
	s := memory.New()
	addDocument(t, s, "resume", job.CategoryResume, "백엔드 개발 5년", 0)
	addDocument(t, s, "portfolio", job.CategoryPortfolio, "결제 시스템 구축", 0)
	for i := range priorLetters {
		addDocument(t, s, fmt.Sprintf("letter-%d", i), job.CategoryCoverLetter, fmt.Sprintf("예전 자기소개서 %d", i), time.Duration(i)*time.Hour)
	}

	g := testutil.NewGateway().
		On(model.AliasGPT5Mini, "회사를 조사", testutil.Text("성장 중인 핀테크 회사")).
		On(model.AliasGPT5Mini, "채용 공고를 분석", testutil.Text("```json\n{\"position\": \"백엔드\", \"questions\": [\"지원동기\"]}\n```")).
		On(model.AliasClaudeSonnet45, "자기소개서 작성 전문", testutil.Text(`{"지원동기": "초안"}`)).
		On(model.AliasClaudeSonnet45, "피드백을 반영", testutil.Text(`{"지원동기": "수정본"}`))

	wf, err := Build(workflows.Deps{Gateway: g, Jobs: s, Documents: s})
	require.NoError(t, err)

	raw, err := json.Marshal(Input{CompanyName: "토스", JobPosting: "Go 백엔드 개발자 모집"})
	require.NoError(t, err)
	id, err := s.Create(context.Background(), &job.Job{UserID: userID, Kind: job.KindCoverLetter, Input: raw})
	require.NoError(t, err)

	return &fixture{store: s, gateway: g, wf: wf, jobID: id}
}

func (f *fixture) scores(scores ...float64) {
	replies := make([]testutil.Reply, len(scores))
	for i, score := range scores {
		replies[i] = testutil.Text(fmt.Sprintf(`{"similarity_score": %g, "is_same_person": false, "feedback": "더 담백하게"}`, score))
	}
	f.gateway.On(model.AliasClaudeHaiku45, "같은 사람이", replies...)
}

func (f *fixture) run(t *testing.T) (*workflow.Result[State], error) {
	t.Helper()
	ctx := context.Background()
	raw, err := f.store.LoadInput(ctx, f.jobID)
	require.NoError(t, err)
	return f.wf.run(ctx, workflows.Request{JobID: f.jobID, UserID: userID, Input: raw})
}

func TestBuildRequiresDependencies(t *testing.T) {
	_, err := Build(workflows.Deps{Gateway: testutil.NewGateway(), Jobs: memory.New()})
	assert.Error(t, err)
}

func TestGraphTopology(t *testing.T) {
	f := newFixture(t, 0)
	g := f.wf.Graph()

	assert.Equal(t, StepCollectDocuments, g.Entry())
	assert.Equal(t, []string{StepResearchCompany}, g.Successors(StepCollectDocuments))
	assert.ElementsMatch(t, []string{StepRevise, StepFinalize}, g.Successors(StepCompareIdentity))
	assert.Equal(t, []string{StepCompareIdentity}, g.Successors(StepRevise))
	assert.Equal(t, []string{workflow.End}, g.Successors(StepFinalize))
}

func TestDecide(t *testing.T) {
	letters := []string{"a"}
	tests := []struct {
		name  string
		state State
		want  string
	}{
		{"passing score", State{Score: 85, Iteration: 1, PriorLetters: letters}, routeFinalize},
		{"iterations spent", State{Score: 10, Iteration: MaxIterations, PriorLetters: letters}, routeFinalize},
		{"nothing to compare", State{Score: 10, Iteration: 1}, routeFinalize},
		{"keep revising", State{Score: 84.9, Iteration: 9, PriorLetters: letters}, routeRevise},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(&tt.state))
		})
	}
}

func TestRevisionLoopBound(t *testing.T) {
	low := make([]float64, 12)
	for i := range low {
		low[i] = 40
	}

	tests := []struct {
		name         string
		scores       []float64
		wantCompares int
	}{
		{"first draft passes", []float64{92}, 1},
		{"passes on third comparison", []float64{60, 70, 85}, 3},
		{"never passes", low, MaxIterations},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, 2)
			f.scores(tt.scores...)

			res, err := f.run(t)
			require.NoError(t, err)

			assert.Equal(t, workflow.TerminationComplete, res.Termination)
			assert.Equal(t, tt.wantCompares, res.Visits(StepCompareIdentity))
			assert.Equal(t, tt.wantCompares-1, res.Visits(StepRevise))
			assert.Equal(t, tt.wantCompares, res.State.Iteration)
			assert.Len(t, res.State.History, tt.wantCompares-1)

			j, err := f.store.Get(context.Background(), f.jobID)
			require.NoError(t, err)
			assert.Equal(t, job.StatusCompleted, j.Status)
			assert.InDelta(t, float64(tt.wantCompares), j.Output["iterations"], 0)

			art, err := f.store.GetArtifact(context.Background(), f.jobID)
			require.NoError(t, err)
			assert.Equal(t, job.KindCoverLetter, art.Kind)
			assert.Equal(t, "토스", art.Fields["company_name"])
			assert.Len(t, art.Fields["revision_history"], tt.wantCompares-1)
		})
	}
}

func TestNoPriorLettersFinalizesAfterOneComparison(t *testing.T) {
	f := newFixture(t, 0)
	f.scores(10)

	res, err := f.run(t)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Visits(StepCompareIdentity))
	assert.Zero(t, res.Visits(StepRevise))
	assert.Equal(t, []string{
		StepCollectDocuments, StepResearchCompany, StepAnalyzeJobPosting,
		StepGenerateDraft, StepCompareIdentity, StepFinalize,
	}, res.Path)
}

func TestCollectDocuments(t *testing.T) {
	f := newFixture(t, 5)
	addDocument(t, f.store, "newer-resume", job.CategoryResume, "최신 이력서", 10*time.Hour)
	f.scores(90)

	res, err := f.run(t)
	require.NoError(t, err)

	assert.Equal(t, "최신 이력서", res.State.Resume)
	assert.Equal(t, "결제 시스템 구축", res.State.Portfolio)
	assert.Equal(t, []string{"예전 자기소개서 4", "예전 자기소개서 3", "예전 자기소개서 2"}, res.State.PriorLetters)
}

func TestCollectDocumentsHonorsDocumentIDs(t *testing.T) {
	f := newFixture(t, 0)
	addDocument(t, f.store, "6f1c1f4e-52c6-4c43-9a59-4a2f6f0b8d11", job.CategoryCoverLetter, "선택한 자소서", time.Hour)
	addDocument(t, f.store, "0b3b7d55-2c1e-4f5c-a0d8-7e6f1b9f4c22", job.CategoryCoverLetter, "제외된 자소서", 2*time.Hour)
	f.scores(90)

	raw, err := json.Marshal(Input{
		CompanyName: "토스",
		JobPosting:  "Go 백엔드 개발자 모집",
		DocumentIDs: []string{"6f1c1f4e-52c6-4c43-9a59-4a2f6f0b8d11"},
	})
	require.NoError(t, err)

	res, err := f.wf.run(context.Background(), workflows.Request{JobID: f.jobID, UserID: userID, Input: raw})
	require.NoError(t, err)
	assert.Equal(t, []string{"선택한 자소서"}, res.State.PriorLetters)
	assert.Equal(t, "백엔드 개발 5년", res.State.Resume)
}

func TestFallbacks(t *testing.T) {
	f := newFixture(t, 0)
	f.gateway = testutil.NewGateway().
		On(model.AliasGPT5Mini, "회사를 조사", testutil.Text("조사 결과")).
		On(model.AliasGPT5Mini, "채용 공고를 분석", testutil.Text("분석할 수 없습니다")).
		On(model.AliasClaudeSonnet45, "자기소개서 작성 전문", testutil.Text("그냥 평문 초안")).
		On(model.AliasClaudeHaiku45, "같은 사람이", testutil.Text("판단 불가"))
	f.wf.deps.Gateway = f.gateway

	res, err := f.run(t)
	require.NoError(t, err)

	assert.Equal(t, defaultRequirements(), res.State.Requirements)
	assert.Equal(t, map[string]any{"자기소개서": "그냥 평문 초안"}, res.State.Draft)
	assert.InDelta(t, fallbackScore, res.State.Score, 0)
	assert.Equal(t, fallbackFeedback, res.State.Feedback)

	j, err := f.store.Get(context.Background(), f.jobID)
	require.NoError(t, err)
	assert.Equal(t, job.StatusCompleted, j.Status)
	assert.Equal(t, "comparing", j.Progress["current_step"])
	assert.Equal(t, "동일인물 유사도: 80%", j.Progress["message"])
}

func TestMissingScoreDefaults(t *testing.T) {
	f := newFixture(t, 0)
	f.gateway.On(model.AliasClaudeHaiku45, "같은 사람이", testutil.Text(`{"feedback": "좋아요"}`))

	res, err := f.run(t)
	require.NoError(t, err)
	assert.InDelta(t, fallbackScore, res.State.Score, 0)
	assert.Equal(t, "좋아요", res.State.Feedback)
}

func TestOutOfRangeScoreFallsBack(t *testing.T) {
	f := newFixture(t, 0)
	f.gateway.On(model.AliasClaudeHaiku45, "같은 사람이", testutil.Text(`{"similarity_score": 140, "feedback": "완벽"}`))

	res, err := f.run(t)
	require.NoError(t, err)
	assert.InDelta(t, fallbackScore, res.State.Score, 0)
	assert.Equal(t, fallbackFeedback, res.State.Feedback)
}

func TestReviseFallbackKeepsDraft(t *testing.T) {
	f := newFixture(t, 1)
	f.gateway = testutil.NewGateway().
		On(model.AliasGPT5Mini, "", testutil.Text("{}")).
		On(model.AliasClaudeSonnet45, "자기소개서 작성 전문", testutil.Text(`{"지원동기": "초안"}`)).
		On(model.AliasClaudeSonnet45, "피드백을 반영", testutil.Text("수정할 수 없습니다")).
		On(model.AliasClaudeHaiku45, "같은 사람이", testutil.Text(`{"similarity_score": 50}`), testutil.Text(`{"similarity_score": 88}`))
	f.wf.deps.Gateway = f.gateway

	res, err := f.run(t)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"지원동기": "초안"}, res.State.Draft)
	require.Len(t, res.State.History, 1)
	assert.InDelta(t, 50.0, res.State.History[0].Score, 0)
	assert.InDelta(t, 88.0, res.State.Score, 0)
}

func TestStepFailureStopsRun(t *testing.T) {
	f := newFixture(t, 1)
	boom := errors.New("provider down")
	f.gateway = testutil.NewGateway().
		On(model.AliasGPT5Mini, "회사를 조사", testutil.Fail(boom))
	f.wf.deps.Gateway = f.gateway

	res, err := f.run(t)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	var stepErr *workflow.StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, StepResearchCompany, stepErr.StepName)
	assert.Equal(t, workflow.TerminationError, res.Termination)

	_, err = f.store.GetArtifact(context.Background(), f.jobID)
	assert.ErrorIs(t, err, job.ErrNotFound)
	assert.Equal(t, 1, len(f.gateway.Calls()))
}

func TestInvalidInput(t *testing.T) {
	f := newFixture(t, 0)
	err := f.wf.Run(context.Background(), workflows.Request{
		JobID:  f.jobID,
		UserID: userID,
		Input:  json.RawMessage(`{"company_name": "토스"}`),
	})
	assert.Error(t, err)
	assert.Empty(t, f.gateway.Calls())
}
