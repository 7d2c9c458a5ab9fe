// Package apperr classifies failures at the HTTP boundary into a small set
// of kinds, each with a status code and a user-facing message.
package apperr

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/abhisek/lovesim/internal/jsonextract"
	"github.com/abhisek/lovesim/internal/llm"
)

// Kind tags an error with the category the client sees.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuth
	KindRateLimited
	KindConflict
	KindEmptyLLMResponse
	KindMalformedLLMResponse
	KindInvalidResponseShape
	KindUpstreamUnavailable
	KindTimeout
	KindAborted
)

// StatusClientClosedRequest is the non-standard status used when the
// caller went away before the response was ready.
const StatusClientClosedRequest = 499

var kindNames = map[Kind]string{
	KindInternal:             "internal",
	KindValidation:           "validation",
	KindAuth:                 "auth",
	KindRateLimited:          "rate_limited",
	KindConflict:             "conflict",
	KindEmptyLLMResponse:     "empty_llm_response",
	KindMalformedLLMResponse: "malformed_llm_response",
	KindInvalidResponseShape: "invalid_response_shape",
	KindUpstreamUnavailable:  "upstream_unavailable",
	KindTimeout:              "timeout",
	KindAborted:              "aborted",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Status returns the HTTP status code for k.
func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindConflict:
		return http.StatusConflict
	case KindEmptyLLMResponse, KindMalformedLLMResponse, KindInvalidResponseShape:
		return http.StatusBadGateway
	case KindUpstreamUnavailable:
		return http.StatusServiceUnavailable
	case KindTimeout:
		return http.StatusGatewayTimeout
	case KindAborted:
		return StatusClientClosedRequest
	default:
		return http.StatusInternalServerError
	}
}

// Op names the operation that failed. It selects the fallback message.
type Op string

const (
	OpGenerate Op = "generate"
	OpNext     Op = "next"
	OpEvaluate Op = "evaluate"
	OpResult   Op = "result"
	OpQuiz     Op = "quiz"
)

var opMessages = map[Op]string{
	OpGenerate: "問題の生成中にエラーが発生しました。しばらく待ってから再度お試しください。",
	OpNext:     "次のシチュエーション生成中にエラーが発生しました",
	OpEvaluate: "選択肢の評価中にエラーが発生しました",
	OpResult:   "結果生成中にエラーが発生しました",
	OpQuiz:     "クイズの処理中にエラーが発生しました",
}

const (
	msgValidation  = "入力内容に問題があります"
	msgAuth        = "外部APIキーが不正です。管理者にお問い合わせください。"
	msgRateLimited = "API利用制限に達しました。しばらく待ってから再度お試しください。"
	msgConflict    = "前の回答を処理中です。完了までお待ちください。"
	msgUnavailable = "LLMサービスに接続できません（DNS/ネットワーク）。ネットワーク設定またはプロキシを確認してください。"
	msgTimeout     = "外部サービスの応答がタイムアウトしました。時間をおいて再度お試しください。"
	msgAborted     = "リクエストが中断されました。"
)

// Message returns the user-facing message for a kind raised by op.
func Message(kind Kind, op Op) string {
	switch kind {
	case KindValidation:
		return msgValidation
	case KindAuth:
		return msgAuth
	case KindRateLimited:
		return msgRateLimited
	case KindConflict:
		return msgConflict
	case KindUpstreamUnavailable:
		return msgUnavailable
	case KindTimeout:
		return msgTimeout
	case KindAborted:
		return msgAborted
	}
	if m, ok := opMessages[op]; ok {
		return m
	}
	return "サーバー内部でエラーが発生しました"
}

// Detail describes one invalid request field.
type Detail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is the error type handlers render.
type Error struct {
	Kind    Kind
	Op      Op
	Message string
	Details []Detail
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s %s: %s", e.Op, e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Status returns the HTTP status code for the error.
func (e *Error) Status() int { return e.Kind.Status() }

// New builds an Error with the default message for kind and op.
func New(kind Kind, op Op, err error) *Error {
	return &Error{Kind: kind, Op: op, Message: Message(kind, op), Err: err}
}

// Validation builds a 400 error carrying per-field details.
func Validation(op Op, details []Detail) *Error {
	return &Error{Kind: KindValidation, Op: op, Message: msgValidation, Details: details}
}

// Conflict builds a 409 error. An empty msg uses the default text.
func Conflict(op Op, msg string, err error) *Error {
	e := New(KindConflict, op, err)
	if msg != "" {
		e.Message = msg
	}
	return e
}

// Classify maps err to an *Error for op. Errors that are already *Error
// pass through unchanged.
func Classify(op Op, err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		if ae.Op == "" {
			ae.Op = op
		}
		return ae
	}
	return New(kindOf(err), op, err)
}

// ClassifyContext is Classify, except that an expired or canceled ctx
// decides the kind. SDKs do not always wrap the context error they hit.
func ClassifyContext(ctx context.Context, op Op, err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return Classify(op, err)
	}
	switch ctx.Err() {
	case context.DeadlineExceeded:
		return New(KindTimeout, op, err)
	case context.Canceled:
		return New(KindAborted, op, err)
	}
	return Classify(op, err)
}

func kindOf(err error) Kind {
	var (
		authErr    *llm.ErrAuth
		rateErr    *llm.ErrRateLimit
		shapeErr   *llm.ErrInvalidResponse
		tokensErr  *llm.ErrMaxTokensExceeded
		unavailErr *llm.ErrProviderUnavailable
		syntaxErr  *jsonextract.SyntaxError
		netErr     net.Error
	)

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.Is(err, context.Canceled):
		return KindAborted
	case errors.As(err, &authErr):
		return KindAuth
	case errors.As(err, &rateErr):
		return KindRateLimited
	case errors.Is(err, jsonextract.ErrEmpty), errors.Is(err, llm.ErrEmptyResponse):
		return KindEmptyLLMResponse
	case errors.As(err, &syntaxErr), errors.As(err, &tokensErr):
		return KindMalformedLLMResponse
	case errors.As(err, &shapeErr):
		return KindInvalidResponseShape
	case errors.As(err, &netErr) && netErr.Timeout():
		return KindTimeout
	case errors.As(err, &netErr), errors.As(err, &unavailErr):
		return KindUpstreamUnavailable
	default:
		return KindInternal
	}
}
