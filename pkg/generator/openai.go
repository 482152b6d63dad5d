package generator

import (
	"bytes"
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/standup/pkg/file"
	"github.com/dmitrymomot/standup/pkg/logger"
)

const (
	DefaultModel      = "gpt-4o-mini"
	DefaultImageModel = "dall-e-2"
	DefaultBaseURL    = "https://api.openai.com/v1"
	DefaultImageDir   = "topics"

	imageSize      = "512x512"
	defaultTimeout = 60 * time.Second

	// DefaultMaxImageBytes caps a downloaded illustration.
	DefaultMaxImageBytes = 8 << 20
)

// OpenAIConfig configures the OpenAI generator.
type OpenAIConfig struct {
	// APIKey is required for authentication with OpenAI
	APIKey string

	// Model used for topic completions. Default: gpt-4o-mini
	Model string

	// ImageModel used for illustrations. Default: dall-e-2
	ImageModel string

	// BaseURL of the API. Default: https://api.openai.com/v1
	BaseURL string

	// Prompt replaces DefaultPrompt.
	Prompt string

	// Storage keeps downloaded illustrations. GenerateImage fails without it.
	Storage file.Storage

	// ImageDir is the storage directory for illustrations. Default: topics
	ImageDir string

	// MaxImageBytes rejects larger downloads. Default: 8 MiB
	MaxImageBytes int64

	// HTTPClient allows custom HTTP client configuration
	// Default: http.Client with 60s timeout
	HTTPClient *http.Client

	Logger *slog.Logger
}

// OpenAI implements Generator using OpenAI's API.
type OpenAI struct {
	apiKey     string
	model      string
	imageModel string
	baseURL    string
	prompt     string
	storage    file.Storage
	imageDir   string
	maxImage   int64
	client     *http.Client
	logger     *slog.Logger
}

var _ Generator = (*OpenAI)(nil)

// NewOpenAI creates a new OpenAI generator.
func NewOpenAI(cfg OpenAIConfig) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, ErrAPIKeyRequired
	}

	g := &OpenAI{
		apiKey:     cfg.APIKey,
		model:      cmp.Or(cfg.Model, DefaultModel),
		imageModel: cmp.Or(cfg.ImageModel, DefaultImageModel),
		baseURL:    strings.TrimSuffix(cmp.Or(cfg.BaseURL, DefaultBaseURL), "/"),
		prompt:     cmp.Or(cfg.Prompt, DefaultPrompt),
		storage:    cfg.Storage,
		imageDir:   cmp.Or(cfg.ImageDir, DefaultImageDir),
		maxImage:   cfg.MaxImageBytes,
		client:     cfg.HTTPClient,
		logger:     cfg.Logger,
	}
	if g.client == nil {
		g.client = &http.Client{Timeout: defaultTimeout}
	}
	if g.maxImage <= 0 {
		g.maxImage = DefaultMaxImageBytes
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	g.logger = g.logger.With(logger.Component("generator"))

	return g, nil
}

// GenerateTopics asks the model for new topics.
func (g *OpenAI) GenerateTopics(ctx context.Context) ([]string, error) {
	req := chatRequest{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "user", Content: g.prompt},
		},
		Temperature: 1.0,
		// Discourages every suggestion ending in "this week".
		PresencePenalty: 1.0,
	}

	var resp chatResponse
	if err := g.call(ctx, "/chat/completions", req, &resp); err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, errors.Join(ErrGenerate, ErrMalformedResponse, errors.New("no choices returned"))
	}

	topics := ParseTopics(resp.Choices[0].Message.Content)
	g.logger.DebugContext(ctx, "topics generated", logger.Count(len(topics)))
	return topics, nil
}

// GenerateImage creates an illustration for prompt, downloads it and keeps
// it in the configured storage.
func (g *OpenAI) GenerateImage(ctx context.Context, prompt string) (ImageRef, error) {
	if g.storage == nil {
		return ImageRef{}, errors.Join(ErrGenerate, ErrStorageNotSet)
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return ImageRef{}, errors.Join(ErrGenerate, ErrEmptyPrompt)
	}

	req := imageRequest{
		Model:  g.imageModel,
		Prompt: prompt,
		N:      1,
		Size:   imageSize,
	}

	var resp imageResponse
	if err := g.call(ctx, "/images/generations", req, &resp); err != nil {
		return ImageRef{}, err
	}
	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return ImageRef{}, errors.Join(ErrGenerate, ErrMalformedResponse, errors.New("no image url returned"))
	}

	return g.store(ctx, resp.Data[0].URL)
}

// store downloads src and puts it in storage under a name derived from the
// URL path, falling back to a random name.
func (g *OpenAI) store(ctx context.Context, src string) (ImageRef, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return ImageRef{}, errors.Join(ErrGenerate, fmt.Errorf("failed to create download request: %w", err))
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return ImageRef{}, errors.Join(ErrGenerate, fmt.Errorf("image download failed: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return ImageRef{}, errors.Join(ErrGenerate, fmt.Errorf("image download returned status %d", resp.StatusCode))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, g.maxImage+1))
	if err != nil {
		return ImageRef{}, errors.Join(ErrGenerate, fmt.Errorf("image download failed: %w", err))
	}
	if int64(len(data)) > g.maxImage {
		return ImageRef{}, errors.Join(ErrGenerate, fmt.Errorf("image exceeds %d bytes", g.maxImage))
	}

	contentType := resp.Header.Get("Content-Type")
	name := imageName(src, contentType)
	key := path.Join(g.imageDir, name)
	if g.storage.Exists(ctx, key) {
		key = path.Join(g.imageDir, uuid.NewString()+"-"+name)
	}

	stored, err := g.storage.Put(ctx, key, bytes.NewReader(data), contentType)
	if err != nil {
		return ImageRef{}, errors.Join(ErrGenerate, err)
	}

	g.logger.InfoContext(ctx, "illustration stored",
		slog.String("path", stored.Path), slog.Int64("bytes", stored.Size))
	return ImageRef{Name: stored.Path, URL: g.storage.URL(stored.Path)}, nil
}

func imageName(src, contentType string) string {
	name := ""
	if u, err := url.Parse(src); err == nil {
		name = path.Base(u.Path)
	}
	if name == "" || name == "." || name == "/" {
		name = uuid.NewString() + file.ExtensionFor(contentType)
	}
	return file.SanitizeFilename(name)
}

// call posts body as JSON to endpoint and decodes a 200 answer into out.
func (g *OpenAI) call(ctx context.Context, endpoint string, body, out any) error {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return errors.Join(ErrGenerate, fmt.Errorf("failed to marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return errors.Join(ErrGenerate, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	start := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		return errors.Join(ErrGenerate, fmt.Errorf("API request failed: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Join(ErrGenerate, fmt.Errorf("failed to read response: %w", err))
	}

	g.logger.DebugContext(ctx, "OpenAI request completed",
		slog.String("endpoint", endpoint),
		slog.Int("status", resp.StatusCode),
		logger.Duration(time.Since(start)))

	if resp.StatusCode != http.StatusOK {
		var errorResp errorResponse
		message := strings.TrimSpace(string(respBody))
		if err := json.Unmarshal(respBody, &errorResp); err == nil && errorResp.Error.Message != "" {
			message = errorResp.Error.Message
		}
		if resp.StatusCode == http.StatusTooManyRequests || strings.Contains(message, "rate limit") {
			return errors.Join(ErrGenerate, fmt.Errorf("%w: %s", ErrRateLimited, message))
		}
		return errors.Join(ErrGenerate, fmt.Errorf("OpenAI API returned status %d: %s", resp.StatusCode, message))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return errors.Join(ErrGenerate, fmt.Errorf("%w: %v", ErrMalformedResponse, err))
	}
	return nil
}

// OpenAI API request/response types

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model           string        `json:"model"`
	Messages        []chatMessage `json:"messages"`
	Temperature     float64       `json:"temperature"`
	PresencePenalty float64       `json:"presence_penalty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type imageRequest struct {
	Model  string `json:"model,omitempty"`
	Prompt string `json:"prompt"`
	N      int    `json:"n"`
	Size   string `json:"size"`
}

type imageResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}
