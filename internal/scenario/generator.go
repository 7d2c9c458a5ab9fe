// Package scenario generates the dating-simulation situations a player
// reacts to: the opening situation for a profile and each follow-up.
package scenario

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/lovesim/internal/jsonextract"
	"github.com/abhisek/lovesim/internal/llm"
	"github.com/abhisek/lovesim/internal/logging"
	"github.com/abhisek/lovesim/internal/ops"
	"github.com/abhisek/lovesim/internal/session"
)

// Generator produces problems through an LLM provider, optionally
// illustrating the first one with an image.
type Generator struct {
	provider llm.Provider
	images   llm.ImageGenerator
	events   *ops.Bus
	config   Config
	now      func() time.Time
}

// New creates a Generator. images and events may be nil.
func New(provider llm.Provider, images llm.ImageGenerator, events *ops.Bus, cfg Config) *Generator {
	return &Generator{
		provider: provider,
		images:   images,
		events:   events,
		config:   cfg,
		now:      time.Now,
	}
}

// problemsOutput is the raw LLM payload before validation.
type problemsOutput struct {
	Problems []problemOutput `json:"problems"`
}

type problemOutput struct {
	Question      string   `json:"question"`
	Choices       Choices  `json:"choices"`
	EstimatedTime *float64 `json:"estimatedTime"`
}

// Generate produces the opening problems for a profile. The model is asked
// for a single situation; the quiz length is tracked separately.
func (g *Generator) Generate(ctx context.Context, sess session.Context, profile Profile) ([]Problem, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeScenario)
	g.events.Emit(ops.SourceScenario, "generate-started", "", map[string]any{"topic": profile.Topic()})

	out, img, model, err := g.run(ctx, sess, buildGeneratePrompt(profile), buildGenerateImagePrompt(profile))
	if err != nil {
		g.events.Emit(ops.SourceScenario, "generate-failed", "", map[string]any{"error": err.Error()})
		return nil, err
	}

	now := g.now()
	problems := make([]Problem, 0, len(out))
	for i, raw := range out {
		p := g.toProblem(raw, i, now)
		p.Type = TypeLove
		p.Subject = SubjectLove
		p.Metadata.Topic = profile.Topic()
		p.Metadata.Model = model
		problems = append(problems, p)
	}
	if img != nil {
		problems[0].SceneImage = img
	}

	logging.FromContext(ctx).Info("scenario generated",
		zap.Int("problems", len(problems)),
		zap.Bool("image", img != nil),
	)
	g.events.Emit(ops.SourceScenario, "question-ready", problems[0].ID, map[string]any{
		"question": problems[0].Question,
	})
	return problems, nil
}

// Next produces exactly one follow-up problem for the chosen reaction.
func (g *Generator) Next(ctx context.Context, sess session.Context, in NextInput) (*Problem, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeNextScenario)
	g.events.Emit(ops.SourceNext, "next-started", "", map[string]any{"selectedChoice": in.SelectedChoice})

	out, img, model, err := g.run(ctx, sess, buildNextPrompt(in), buildNextImagePrompt(in))
	if err != nil {
		g.events.Emit(ops.SourceNext, "next-failed", "", map[string]any{"error": err.Error()})
		return nil, err
	}
	if len(out) > 1 {
		logging.FromContext(ctx).Debug("dropping extra follow-up problems", zap.Int("returned", len(out)))
	}

	p := g.toProblem(out[0], 0, g.now())
	p.Type = TypeGeneral
	p.Metadata.Model = model
	p.SceneImage = img

	g.events.Emit(ops.SourceNext, "question-ready", p.ID, map[string]any{"question": p.Question})
	return &p, nil
}

// run performs the text call and, concurrently, the optional image call.
// Image failures never fail the operation.
func (g *Generator) run(ctx context.Context, sess session.Context, prompt, imagePrompt string) ([]problemOutput, *SceneImage, string, error) {
	imgCtx, cancelImg := context.WithCancel(ctx)
	defer cancelImg()
	imgCh := g.startImage(imgCtx, imagePrompt)

	resp, err := g.provider.Generate(ctx, llm.Request{
		System:         systemPrompt,
		Messages:       []llm.Message{{Role: llm.RoleUser, Content: prompt}},
		ConversationID: sess.ID,
		MaxTokens:      g.config.MaxTokens,
		Temperature:    g.config.Temperature,
	})
	if err != nil {
		return nil, nil, "", fmt.Errorf("generate scenario: %w", err)
	}

	out, err := g.decode(resp.Text())
	if err != nil {
		return nil, nil, "", err
	}

	model := resp.Model
	if model == "" {
		model = g.provider.ModelID()
	}

	var img *SceneImage
	if imgCh != nil {
		select {
		case img = <-imgCh:
		case <-ctx.Done():
			logging.FromContext(ctx).Warn("scene image abandoned", zap.Error(ctx.Err()))
		}
	}
	return out, img, model, nil
}

func (g *Generator) startImage(ctx context.Context, prompt string) <-chan *SceneImage {
	if g.images == nil {
		return nil
	}
	ch := make(chan *SceneImage, 1)
	go func() {
		ch <- g.generateImage(ctx, prompt)
	}()
	return ch
}

func (g *Generator) generateImage(ctx context.Context, prompt string) *SceneImage {
	img, err := g.images.GenerateImage(ctx, prompt)
	if err != nil {
		logging.FromContext(ctx).Warn("scene image generation failed", zap.Error(err))
		return nil
	}
	if img == nil {
		return nil
	}
	if len(img.Data) > 0 {
		return &SceneImage{Data: img.DataURI()}
	}
	if img.URL != "" {
		return &SceneImage{URL: img.URL}
	}
	return nil
}

// decode extracts the JSON payload, checks it against ProblemsSchema and
// runs the validator chain on every problem.
func (g *Generator) decode(text string) ([]problemOutput, error) {
	raw, err := jsonextract.Raw(text)
	if err != nil {
		return nil, fmt.Errorf("extract scenario JSON: %w", err)
	}
	if err := llm.ValidateJSON(ProblemsSchema, raw); err != nil {
		return nil, err
	}

	var out problemsOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, &llm.ErrInvalidResponse{Content: raw, Err: err}
	}
	if len(out.Problems) == 0 {
		return nil, &llm.ErrInvalidResponse{Content: raw, Err: errors.New("no problems returned")}
	}

	for i := range out.Problems {
		candidate := Problem{Question: out.Problems[i].Question, Choices: out.Problems[i].Choices}
		for _, v := range g.config.Validators {
			if verr := v.Validate(&candidate); verr != nil {
				return nil, &llm.ErrInvalidResponse{
					Content: raw,
					Err:     fmt.Errorf("problem %d: %w", i, verr),
				}
			}
		}
	}
	return out.Problems, nil
}

func (g *Generator) toProblem(raw problemOutput, index int, now time.Time) Problem {
	meta := &Metadata{}
	if raw.EstimatedTime != nil && *raw.EstimatedTime > 0 {
		meta.EstimatedTime = int(math.Round(*raw.EstimatedTime))
	}
	return Problem{
		ID:         fmt.Sprintf("%d-%d", now.UnixMilli(), index),
		Difficulty: DifficultyDefault,
		Question:   raw.Question,
		Choices:    raw.Choices,
		Metadata:   meta,
		CreatedAt:  now,
	}
}
