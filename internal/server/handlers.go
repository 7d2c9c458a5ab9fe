package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/abhisek/lovesim/internal/apperr"
	"github.com/abhisek/lovesim/internal/evaluation"
	"github.com/abhisek/lovesim/internal/result"
	"github.com/abhisek/lovesim/internal/scenario"
	"github.com/abhisek/lovesim/internal/session"
)

type problemsResponse struct {
	Problems []scenario.Problem `json:"problems"`
}

func (s *Server) handleOK(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// withTimeout derives the context an orchestrator call runs under.
func (s *Server) withTimeout(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), s.timeout)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var profile scenario.Profile
	if e := decode(r, apperr.OpGenerate, &profile); e != nil {
		writeError(w, r, e)
		return
	}

	ctx, cancel := s.withTimeout(r)
	defer cancel()
	problems, err := s.scenarios.Generate(ctx, session.FromContext(ctx), profile)
	if err != nil {
		writeError(w, r, apperr.ClassifyContext(ctx, apperr.OpGenerate, err))
		return
	}
	writeJSON(w, http.StatusOK, problemsResponse{Problems: problems})
}

func (s *Server) handleNextSituation(w http.ResponseWriter, r *http.Request) {
	var in scenario.NextInput
	if e := decode(r, apperr.OpNext, &in); e != nil {
		writeError(w, r, e)
		return
	}

	ctx, cancel := s.withTimeout(r)
	defer cancel()
	p, err := s.scenarios.Next(ctx, session.FromContext(ctx), in)
	if err != nil {
		writeError(w, r, apperr.ClassifyContext(ctx, apperr.OpNext, err))
		return
	}
	writeJSON(w, http.StatusOK, problemsResponse{Problems: []scenario.Problem{*p}})
}

func (s *Server) handleEvaluateChoice(w http.ResponseWriter, r *http.Request) {
	var req evaluation.Request
	if e := decode(r, apperr.OpEvaluate, &req); e != nil {
		writeError(w, r, e)
		return
	}

	ctx, cancel := s.withTimeout(r)
	defer cancel()
	ev, err := s.grader.Evaluate(ctx, session.FromContext(ctx), req)
	if err != nil {
		writeError(w, r, apperr.ClassifyContext(ctx, apperr.OpEvaluate, err))
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	var req result.Request
	if e := decode(r, apperr.OpResult, &req); e != nil {
		writeError(w, r, e)
		return
	}

	ctx, cancel := s.withTimeout(r)
	defer cancel()
	report, err := s.reporter.Aggregate(ctx, session.FromContext(ctx), req)
	if err != nil {
		writeError(w, r, apperr.ClassifyContext(ctx, apperr.OpResult, err))
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]scenario.Preset{"presets": scenario.Presets()})
}

func (s *Server) handlePreset(w http.ResponseWriter, r *http.Request) {
	p, ok := scenario.PresetByID(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "プリセットが見つかりません"})
		return
	}
	writeJSON(w, http.StatusOK, p)
}
