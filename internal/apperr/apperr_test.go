package apperr

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/lovesim/internal/jsonextract"
	"github.com/abhisek/lovesim/internal/llm"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		kind   Kind
		status int
	}{
		{"deadline", fmt.Errorf("call: %w", context.DeadlineExceeded), KindTimeout, http.StatusGatewayTimeout},
		{"canceled", context.Canceled, KindAborted, 499},
		{"auth", &llm.ErrAuth{Err: errors.New("401")}, KindAuth, http.StatusUnauthorized},
		{"rate limit", &llm.ErrRateLimit{}, KindRateLimited, http.StatusTooManyRequests},
		{"empty", fmt.Errorf("decode: %w", jsonextract.ErrEmpty), KindEmptyLLMResponse, http.StatusBadGateway},
		{"empty provider reply", &llm.ErrInvalidResponse{Err: llm.ErrEmptyResponse}, KindEmptyLLMResponse, http.StatusBadGateway},
		{"syntax", &jsonextract.SyntaxError{Extracted: "x", Err: errors.New("bad")}, KindMalformedLLMResponse, http.StatusBadGateway},
		{"truncated", &llm.ErrMaxTokensExceeded{}, KindMalformedLLMResponse, http.StatusBadGateway},
		{"shape", &llm.ErrInvalidResponse{Err: errors.New("missing problems")}, KindInvalidResponseShape, http.StatusBadGateway},
		{"unavailable", &llm.ErrProviderUnavailable{}, KindUpstreamUnavailable, http.StatusServiceUnavailable},
		{"dns", &net.DNSError{Err: "no such host", Name: "api.example.com", IsNotFound: true}, KindUpstreamUnavailable, http.StatusServiceUnavailable},
		{"net timeout", &net.DNSError{Err: "i/o timeout", IsTimeout: true}, KindTimeout, http.StatusGatewayTimeout},
		{"unknown", errors.New("boom"), KindInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(OpGenerate, tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.kind, got.Kind)
			assert.Equal(t, tt.status, got.Status())
			assert.ErrorIs(t, got, tt.err)
		})
	}
}

func TestClassify_Nil(t *testing.T) {
	assert.Nil(t, Classify(OpResult, nil))
	assert.Nil(t, ClassifyContext(context.Background(), OpResult, nil))
}

func TestClassify_PassesThroughAppError(t *testing.T) {
	orig := Validation("", []Detail{{Field: "my.age", Message: "required"}})
	got := Classify(OpEvaluate, fmt.Errorf("wrapped: %w", orig))
	assert.Same(t, orig, got)
	assert.Equal(t, OpEvaluate, got.Op)
	assert.Equal(t, http.StatusBadRequest, got.Status())
}

func TestClassifyContext(t *testing.T) {
	expired, cancel := context.WithTimeout(context.Background(), 0)
	defer cancel()
	<-expired.Done()

	got := ClassifyContext(expired, OpNext, errors.New("sdk: request failed"))
	assert.Equal(t, KindTimeout, got.Kind)

	canceled, cancel2 := context.WithCancel(context.Background())
	cancel2()
	got = ClassifyContext(canceled, OpNext, errors.New("sdk: request failed"))
	assert.Equal(t, KindAborted, got.Kind)
	assert.Equal(t, "リクエストが中断されました。", got.Message)

	got = ClassifyContext(context.Background(), OpNext, &llm.ErrRateLimit{})
	assert.Equal(t, KindRateLimited, got.Kind)
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "問題の生成中にエラーが発生しました。しばらく待ってから再度お試しください。", Message(KindInternal, OpGenerate))
	assert.Equal(t, "次のシチュエーション生成中にエラーが発生しました", Message(KindMalformedLLMResponse, OpNext))
	assert.Equal(t, "選択肢の評価中にエラーが発生しました", Message(KindInvalidResponseShape, OpEvaluate))
	assert.Equal(t, "結果生成中にエラーが発生しました", Message(KindEmptyLLMResponse, OpResult))

	// Kinds with a fixed message ignore the operation.
	assert.Equal(t, Message(KindAuth, OpGenerate), Message(KindAuth, OpResult))
	assert.Equal(t, "API利用制限に達しました。しばらく待ってから再度お試しください。", Message(KindRateLimited, OpNext))
}

func TestConflict(t *testing.T) {
	e := Conflict(OpQuiz, "", nil)
	assert.Equal(t, http.StatusConflict, e.Status())
	assert.NotEmpty(t, e.Message)

	e = Conflict(OpQuiz, "custom", errors.New("busy"))
	assert.Equal(t, "custom", e.Message)
	assert.Contains(t, e.Error(), "busy")
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "invalid_response_shape", KindInvalidResponseShape.String())
	assert.Equal(t, "kind(99)", Kind(99).String())
}
