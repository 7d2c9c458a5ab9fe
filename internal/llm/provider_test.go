package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestMockProvider_ReturnsCannedResponses(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"a":1}`), Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		MockResponse{Content: json.RawMessage(`{"b":2}`)},
	)

	resp1, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "first"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp1.Content) != `{"a":1}` {
		t.Fatalf("expected {\"a\":1}, got %s", resp1.Content)
	}
	if resp1.Usage.InputTokens != 10 {
		t.Fatalf("expected 10 input tokens, got %d", resp1.Usage.InputTokens)
	}
	if resp1.StopReason != "end" {
		t.Fatalf("expected stop reason 'end', got %q", resp1.StopReason)
	}

	resp2, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "second"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp2.Content) != `{"b":2}` {
		t.Fatalf("expected {\"b\":2}, got %s", resp2.Content)
	}
}

func TestMockProvider_EmptyQueueReturnsError(t *testing.T) {
	mock := NewMockProvider()
	_, err := mock.Generate(context.Background(), Request{})
	if err == nil {
		t.Fatal("expected error from empty queue")
	}
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got: %T", err)
	}
}

func TestMockProvider_RecordsCalls(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{}`)},
	)

	req := Request{
		System:   "sys",
		Messages: []Message{{Role: RoleUser, Content: "hello"}},
	}
	_, _ = mock.Generate(context.Background(), req)

	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
	if mock.Calls[0].System != "sys" {
		t.Fatalf("expected system 'sys', got %q", mock.Calls[0].System)
	}
}

func TestMockProvider_ReturnsConfiguredError(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrRateLimit{RetryAfter: 0}},
	)

	_, err := mock.Generate(context.Background(), Request{})
	if err == nil {
		t.Fatal("expected error")
	}
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got: %T", err)
	}
}

func TestMockProvider_ModelID(t *testing.T) {
	mock := NewMockProvider()
	if mock.ModelID() != "mock" {
		t.Fatalf("expected 'mock', got %q", mock.ModelID())
	}
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	if p := PurposeFrom(ctx); p != "unknown" {
		t.Fatalf("expected 'unknown', got %q", p)
	}

	ctx = WithPurpose(ctx, "scenario-gen")
	if p := PurposeFrom(ctx); p != "scenario-gen" {
		t.Fatalf("expected 'scenario-gen', got %q", p)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "anthropic without key",
			cfg:     Config{Provider: "anthropic"},
			wantErr: true,
		},
		{
			name:    "anthropic with key",
			cfg:     Config{Provider: "anthropic", Anthropic: AnthropicConfig{APIKey: "sk-test"}},
			wantErr: false,
		},
		{
			name:    "openai without key",
			cfg:     Config{Provider: "openai"},
			wantErr: true,
		},
		{
			name:    "openai with key",
			cfg:     Config{Provider: "openai", OpenAI: OpenAIConfig{APIKey: "sk-test"}},
			wantErr: false,
		},
		{
			name:    "mock needs no key",
			cfg:     Config{Provider: "mock"},
			wantErr: false,
		},
		{
			name:    "unknown provider",
			cfg:     Config{Provider: "unknown"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMockProvider_FallbackAfterQueue(t *testing.T) {
	mock := NewMockProvider(TextResponse("queued"))
	mock.Fallback = func(req Request) MockResponse {
		return TextResponse("fallback:" + req.Messages[0].Content)
	}

	first, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "a"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "b"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Text() != "queued" || second.Text() != "fallback:b" {
		t.Fatalf("got %q then %q", first.Text(), second.Text())
	}
	last, ok := mock.LastCall()
	if !ok || last.Messages[0].Content != "b" {
		t.Fatalf("LastCall() = %+v, %v", last, ok)
	}
}

func TestMockProvider_RepliesByPurpose(t *testing.T) {
	mock := NewMockProvider()
	mock.Replies = map[string]MockResponse{PurposeResult: TextResponse(`{"report":true}`)}
	mock.Fallback = func(Request) MockResponse { return TextResponse("fallback") }

	resp, err := mock.Generate(WithPurpose(context.Background(), PurposeResult), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text() != `{"report":true}` {
		t.Fatalf("got %q", resp.Text())
	}

	resp, err = mock.Generate(WithPurpose(context.Background(), PurposeEvaluation), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text() != "fallback" {
		t.Fatalf("got %q", resp.Text())
	}

	bare := NewMockProvider()
	var unavailable *ErrProviderUnavailable
	if _, err := bare.Generate(context.Background(), Request{}); !errors.As(err, &unavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestMockProvider_CanceledContext(t *testing.T) {
	mock := NewMockProvider(TextResponse("never"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := mock.Generate(ctx, Request{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestResponse_TextTrims(t *testing.T) {
	r := &Response{Content: json.RawMessage("\n  {\"a\":1}\n")}
	if r.Text() != `{"a":1}` {
		t.Fatalf("Text() = %q", r.Text())
	}
	var nilResp *Response
	if nilResp.Text() != "" {
		t.Fatal("nil response should have empty text")
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("LOVESIM_LLM_PROVIDER", "gemini")
	t.Setenv("LOVESIM_GEMINI_API_KEY", "g-key")
	t.Setenv("LOVESIM_OPENAI_API_KEY", "o-key")
	t.Setenv("LOVESIM_IMAGE_SIZE", "512x512")
	t.Setenv("LOVESIM_LLM_TIMEOUT", "45s")

	cfg := ConfigFromEnv()
	if cfg.Provider != "gemini" || cfg.Gemini.APIKey != "g-key" {
		t.Fatalf("unexpected provider config: %+v", cfg)
	}
	if cfg.Image.APIKey != "o-key" {
		t.Errorf("image key = %q, want OpenAI key reused", cfg.Image.APIKey)
	}
	if cfg.Image.Size != "512x512" {
		t.Errorf("image size = %q, want 512x512", cfg.Image.Size)
	}
	if cfg.Timeout != 45*time.Second {
		t.Errorf("timeout = %s, want 45s", cfg.Timeout)
	}
	if !cfg.HasImages() {
		t.Error("expected images to be enabled")
	}
}

func TestResolveConfig_DiscoversVendorKey(t *testing.T) {
	t.Setenv("LOVESIM_LLM_PROVIDER", "")
	t.Setenv("LOVESIM_OPENAI_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")
	t.Setenv("OPENROUTER_API_KEY", "")

	cfg, err := ResolveConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Provider != "anthropic" || cfg.Anthropic.APIKey != "sk-ant" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.HasImages() {
		t.Error("images need an OpenAI key")
	}
}

func TestNewProvider_MockIsDecorated(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "mock"
	p, err := NewProvider(context.Background(), cfg, nil, NewMemory(10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := p.(*MemoryProvider); !ok {
		t.Fatalf("expected memory decorator on top, got %T", p)
	}
	if p.ModelID() != "mock" {
		t.Fatalf("ModelID() = %q", p.ModelID())
	}

	if _, err := NewProvider(context.Background(), Config{Provider: "nope"}, nil, nil); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}
