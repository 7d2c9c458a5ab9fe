package llm

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"

	openai "github.com/sashabaranov/go-openai"
)

// Image is a generated picture. Exactly one of Data or URL is set.
type Image struct {
	// Data is the raw PNG bytes when the provider returned base64 content.
	Data []byte

	// URL is a remote location when the provider returned a link instead.
	URL string
}

// DataURI renders Data as a data: URI, or returns URL when Data is empty.
func (img *Image) DataURI() string {
	if img == nil {
		return ""
	}
	if len(img.Data) > 0 {
		return "data:image/png;base64," + base64.StdEncoding.EncodeToString(img.Data)
	}
	return img.URL
}

// ImageGenerator produces a single illustration for a text prompt.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (*Image, error)
}

// ImageConfig configures the OpenAI image generator.
type ImageConfig struct {
	APIKey  string
	Model   string // Default: "dall-e-3"
	Size    string // Default: "1024x1024"
	BaseURL string
}

// OpenAIImageGenerator implements ImageGenerator with the OpenAI images API.
type OpenAIImageGenerator struct {
	client *openai.Client
	model  string
	size   string
}

// NewOpenAIImageGenerator creates an image generator.
func NewOpenAIImageGenerator(cfg ImageConfig) (*OpenAIImageGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required for image generation")
	}
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = openai.CreateImageModelDallE3
	}
	size := cfg.Size
	if size == "" {
		size = openai.CreateImageSize1024x1024
	}
	return &OpenAIImageGenerator{
		client: openai.NewClientWithConfig(config),
		model:  model,
		size:   size,
	}, nil
}

func (g *OpenAIImageGenerator) GenerateImage(ctx context.Context, prompt string) (*Image, error) {
	resp, err := g.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         prompt,
		Model:          g.model,
		Size:           g.size,
		N:              1,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		return nil, mapCallError(ctx, err, openaiStatus)
	}
	if len(resp.Data) == 0 {
		return nil, &ErrInvalidResponse{Err: errors.New("no images in response")}
	}

	first := resp.Data[0]
	if first.B64JSON != "" {
		data, err := base64.StdEncoding.DecodeString(first.B64JSON)
		if err != nil {
			return nil, &ErrInvalidResponse{Err: fmt.Errorf("decode image: %w", err)}
		}
		return &Image{Data: data}, nil
	}
	if first.URL != "" {
		return &Image{URL: first.URL}, nil
	}
	return nil, &ErrInvalidResponse{Err: errors.New("image has neither data nor url")}
}

// MockImageGenerator returns a fixed image or error and counts calls.
type MockImageGenerator struct {
	mu      sync.Mutex
	Image   *Image
	Err     error
	Prompts []string
}

func (m *MockImageGenerator) GenerateImage(_ context.Context, prompt string) (*Image, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Prompts = append(m.Prompts, prompt)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Image, nil
}
