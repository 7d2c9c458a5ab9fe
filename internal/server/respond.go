package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/abhisek/lovesim/internal/apperr"
	"github.com/abhisek/lovesim/internal/logging"
	"github.com/abhisek/lovesim/internal/validation"
)

const maxBodyBytes = 1 << 20

type errorBody struct {
	Error   string          `json:"error"`
	Details []apperr.Detail `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, r *http.Request, e *apperr.Error) {
	log := logging.FromContext(r.Context()).With(
		zap.String("op", string(e.Op)),
		zap.String("kind", e.Kind.String()),
	)
	if e.Err != nil {
		log = log.With(zap.Error(e.Err))
	}
	switch status := e.Status(); {
	case status >= 500:
		log.Error("request failed")
	case status == apperr.StatusClientClosedRequest:
		log.Info("request aborted by client")
	default:
		log.Info("request rejected")
	}
	writeJSON(w, e.Status(), errorBody{Error: e.Message, Details: e.Details})
}

// decode reads a JSON body into v and runs its validation tags.
func decode(r *http.Request, op apperr.Op, v any) *apperr.Error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		msg := "リクエストボディが不正なJSONです"
		if errors.Is(err, io.EOF) {
			msg = "リクエストボディが空です"
		}
		e := apperr.Validation(op, []apperr.Detail{{Field: "body", Message: msg}})
		e.Err = err
		return e
	}
	if fes := validation.Validate(v); len(fes) > 0 {
		details := make([]apperr.Detail, len(fes))
		for i, fe := range fes {
			details[i] = apperr.Detail{Field: fe.Field, Message: fe.Message}
		}
		return apperr.Validation(op, details)
	}
	return nil
}
