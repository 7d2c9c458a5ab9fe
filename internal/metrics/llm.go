package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/abhisek/lovesim/internal/llm"
)

type provider struct {
	inner   llm.Provider
	metrics *Metrics
}

// WrapProvider instruments p. Calls are labelled with the purpose carried
// by the context.
func (m *Metrics) WrapProvider(p llm.Provider) llm.Provider {
	return &provider{inner: p, metrics: m}
}

func (p *provider) Generate(ctx context.Context, req llm.Request) (*llm.Response, error) {
	purpose := llm.PurposeFrom(ctx)
	if purpose == "" {
		purpose = "unknown"
	}
	start := time.Now()
	resp, err := p.inner.Generate(ctx, req)
	p.metrics.llmDuration.WithLabelValues(purpose).Observe(time.Since(start).Seconds())
	p.metrics.llmRequests.WithLabelValues(purpose, outcome(err)).Inc()

	if resp != nil {
		model := resp.Model
		if model == "" {
			model = p.inner.ModelID()
		}
		p.metrics.llmTokens.WithLabelValues(model, "input").Add(float64(resp.Usage.InputTokens))
		p.metrics.llmTokens.WithLabelValues(model, "output").Add(float64(resp.Usage.OutputTokens))
		if cost := llm.LookupCost(model); cost != nil {
			p.metrics.llmCost.WithLabelValues(model).Add(cost.Cost(resp.Usage.InputTokens, resp.Usage.OutputTokens))
		}
	}
	return resp, err
}

func (p *provider) ModelID() string {
	return p.inner.ModelID()
}

type imageGenerator struct {
	inner   llm.ImageGenerator
	metrics *Metrics
}

// WrapImageGenerator instruments g. A nil g stays nil.
func (m *Metrics) WrapImageGenerator(g llm.ImageGenerator) llm.ImageGenerator {
	if g == nil {
		return nil
	}
	return &imageGenerator{inner: g, metrics: m}
}

func (g *imageGenerator) GenerateImage(ctx context.Context, prompt string) (*llm.Image, error) {
	start := time.Now()
	img, err := g.inner.GenerateImage(ctx, prompt)
	g.metrics.imageDuration.Observe(time.Since(start).Seconds())
	g.metrics.imageRequests.WithLabelValues(outcome(err)).Inc()
	return img, err
}

func outcome(err error) string {
	var (
		rateLimit   *llm.ErrRateLimit
		invalid     *llm.ErrInvalidResponse
		unavailable *llm.ErrProviderUnavailable
		auth        *llm.ErrAuth
		truncated   *llm.ErrMaxTokensExceeded
	)
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.As(err, &rateLimit):
		return "rate_limited"
	case errors.As(err, &auth):
		return "auth"
	case errors.As(err, &truncated):
		return "truncated"
	case errors.As(err, &invalid):
		return "invalid"
	case errors.As(err, &unavailable):
		return "unavailable"
	default:
		return "error"
	}
}
