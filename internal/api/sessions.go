package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/minju-kim98/personal-ai-hub/internal/launcher"
	"github.com/minju-kim98/personal-ai-hub/internal/workflows"
	"github.com/minju-kim98/personal-ai-hub/internal/workflows/coverletter"
	"github.com/minju-kim98/personal-ai-hub/internal/workflows/proposal"
	"github.com/minju-kim98/personal-ai-hub/internal/workflows/translate"
	"github.com/minju-kim98/personal-ai-hub/internal/workflows/travel"
	"github.com/minju-kim98/personal-ai-hub/internal/workflows/weeklyreport"
	"github.com/minju-kim98/personal-ai-hub/job"
)

// inputCheckers validate a submission before a job is created, so bad
// requests get a 400 instead of a failed job.
var inputCheckers = map[job.Kind]func(json.RawMessage) error{
	job.KindCoverLetter:  check[coverletter.Input],
	job.KindProposal:     check[proposal.Input],
	job.KindTranslate:    check[translate.Input],
	job.KindWeeklyReport: check[weeklyreport.Input],
	job.KindTravel: func(raw json.RawMessage) error {
		in, err := workflows.DecodeInput[travel.Input](raw)
		if err != nil {
			return err
		}
		_, _, err = in.Dates()
		return err
	},
}

func check[T any](raw json.RawMessage) error {
	_, err := workflows.DecodeInput[T](raw)
	return err
}

var submitMessages = map[job.Kind]string{
	job.KindCoverLetter:  "자기소개서 생성이 시작되었습니다.",
	job.KindProposal:     "기획서 생성이 시작되었습니다.",
	job.KindTranslate:    "번역이 시작되었습니다.",
	job.KindTravel:       "여행 계획 생성이 시작되었습니다.",
	job.KindWeeklyReport: "주간업무보고서 생성이 시작되었습니다.",
}

// kindFromPath maps "cover-letter" to cover_letter.
func kindFromPath(v string) job.Kind {
	return job.Kind(strings.ReplaceAll(v, "-", "_"))
}

type submitResponse struct {
	SessionID string     `json:"session_id"`
	Status    job.Status `json:"status"`
	Message   string     `json:"message"`
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	kind := kindFromPath(chi.URLParam(r, "kind"))
	checkInput, ok := inputCheckers[kind]
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown workflow %q", chi.URLParam(r, "kind")))
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read body")
		return
	}
	if err := checkInput(body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	j, err := s.submitter.Submit(r.Context(), kind, UserID(r.Context()), body)
	switch {
	case errors.Is(err, launcher.ErrUnknownKind):
		writeError(w, http.StatusNotFound, err.Error())
		return
	case err != nil:
		s.log(r).ErrorContext(r.Context(), "submit failed", "kind", kind, "error", err)
		writeError(w, http.StatusInternalServerError, "could not start job")
		return
	}

	writeJSON(w, http.StatusAccepted, submitResponse{
		SessionID: j.ID,
		Status:    job.StatusProcessing,
		Message:   submitMessages[kind],
	})
}

type sessionResponse struct {
	SessionID   string         `json:"session_id"`
	Kind        job.Kind       `json:"kind"`
	Status      job.Status     `json:"status"`
	Progress    map[string]any `json:"progress,omitempty"`
	Error       string         `json:"error,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
}

// ownedJob loads the job in the {id} path parameter. Another user's job is
// reported as missing.
func (s *Server) ownedJob(w http.ResponseWriter, r *http.Request) (*job.Job, bool) {
	j, err := s.jobs.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, job.ErrNotFound) || (err == nil && j.UserID != UserID(r.Context())) {
		writeError(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	if err != nil {
		s.log(r).ErrorContext(r.Context(), "load job failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not load session")
		return nil, false
	}
	return j, true
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	j, ok := s.ownedJob(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{
		SessionID:   j.ID,
		Kind:        j.Kind,
		Status:      j.Status,
		Progress:    j.Progress,
		Error:       j.Error,
		CreatedAt:   j.CreatedAt,
		CompletedAt: j.CompletedAt,
	})
}

type resultResponse struct {
	SessionID string         `json:"session_id"`
	Kind      job.Kind       `json:"kind"`
	Output    map[string]any `json:"output"`
	Artifact  *job.Artifact  `json:"artifact,omitempty"`
}

func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	j, ok := s.ownedJob(w, r)
	if !ok {
		return
	}
	if j.Status != job.StatusCompleted {
		writeError(w, http.StatusConflict, fmt.Sprintf("session is %s", j.Status))
		return
	}

	resp := resultResponse{SessionID: j.ID, Kind: j.Kind, Output: j.Output}
	a, err := s.jobs.GetArtifact(r.Context(), j.ID)
	switch {
	case err == nil:
		resp.Artifact = a
	case !errors.Is(err, job.ErrNotFound):
		s.log(r).ErrorContext(r.Context(), "load artifact failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not load result")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
