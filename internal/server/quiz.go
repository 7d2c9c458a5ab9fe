package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/abhisek/lovesim/internal/apperr"
	"github.com/abhisek/lovesim/internal/progress"
	"github.com/abhisek/lovesim/internal/quiz"
	"github.com/abhisek/lovesim/internal/scenario"
	"github.com/abhisek/lovesim/internal/session"
)

type answerRequest struct {
	Choice scenario.Letter `json:"choice" validate:"oneof=a b c d"`
}

// quizError maps workflow state errors to 409s and everything else through
// the usual classification.
func quizError(ctx context.Context, op apperr.Op, err error) *apperr.Error {
	switch {
	case errors.Is(err, quiz.ErrBusy):
		return apperr.Conflict(op, "", err)
	case errors.Is(err, quiz.ErrNotStarted):
		return apperr.Conflict(op, "クイズが開始されていません", err)
	case errors.Is(err, progress.ErrInvalidTransition):
		return apperr.Conflict(op, "現在の状態ではその操作はできません", err)
	}
	return apperr.ClassifyContext(ctx, op, err)
}

func (s *Server) handleQuizStart(w http.ResponseWriter, r *http.Request) {
	var profile scenario.Profile
	if e := decode(r, apperr.OpGenerate, &profile); e != nil {
		writeError(w, r, e)
		return
	}

	ctx, cancel := s.withTimeout(r)
	defer cancel()
	snap, err := s.quiz.Start(ctx, session.FromContext(ctx), profile)
	if err != nil {
		writeError(w, r, quizError(ctx, apperr.OpGenerate, err))
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleQuizAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if e := decode(r, apperr.OpQuiz, &req); e != nil {
		writeError(w, r, e)
		return
	}

	ctx, cancel := s.withTimeout(r)
	defer cancel()
	res, err := s.quiz.Answer(ctx, session.FromContext(ctx), req.Choice)
	if err != nil {
		writeError(w, r, quizError(ctx, apperr.OpQuiz, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleQuizAdvance(w http.ResponseWriter, r *http.Request) {
	snap, err := s.quiz.Advance(r.Context(), session.FromContext(r.Context()))
	if err != nil {
		writeError(w, r, quizError(r.Context(), apperr.OpQuiz, err))
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleQuizGet(w http.ResponseWriter, r *http.Request) {
	snap, err := s.quiz.Get(session.FromContext(r.Context()))
	if err != nil {
		writeError(w, r, quizError(r.Context(), apperr.OpQuiz, err))
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleQuizReset(w http.ResponseWriter, r *http.Request) {
	if err := s.quiz.Reset(session.FromContext(r.Context())); err != nil {
		writeError(w, r, quizError(r.Context(), apperr.OpQuiz, err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
