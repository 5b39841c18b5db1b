package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/swiftdrop/dispatch-backend/internal/dispatch"
)

type stubRunner struct {
	report *dispatch.RunReport
	err    error
	calls  int
}

func (s *stubRunner) Run(context.Context) (*dispatch.RunReport, error) {
	s.calls++
	return s.report, s.err
}

func TestDispatchRunReturnsReport(t *testing.T) {
	runner := &stubRunner{report: &dispatch.RunReport{
		StartedAt:      time.Now().UTC(),
		FinishedAt:     time.Now().UTC(),
		AssignedTotal:  3,
		PostponedTotal: 1,
	}}
	handler := DispatchRun(runner, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/dispatch/run", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if runner.calls != 1 {
		t.Fatalf("expected one engine run got %d", runner.calls)
	}

	var envelope struct {
		Data dispatch.RunReport `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.AssignedTotal != 3 || envelope.Data.PostponedTotal != 1 {
		t.Fatalf("unexpected totals: %+v", envelope.Data)
	}
}

func TestDispatchRunPropagatesFailure(t *testing.T) {
	handler := DispatchRun(&stubRunner{err: errors.New("db down")}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/dispatch/run", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", rec.Code)
	}
}

func TestDispatchRunWithoutEngine(t *testing.T) {
	handler := DispatchRun(nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/dispatch/run", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", rec.Code)
	}
}
