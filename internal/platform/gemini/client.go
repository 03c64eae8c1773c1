package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/phrazzld/wallet-wrapped/internal/config"
	"github.com/phrazzld/wallet-wrapped/internal/generation"
	"google.golang.org/genai"
)

// ContentGenerator is the slice of the genai client the adapter uses.
// *genai.Models satisfies it.
type ContentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// Client implements generation.AIClient using Gemini structured output.
type Client struct {
	models     ContentGenerator
	model      string
	maxRetries int
	retryDelay time.Duration
	logger     *slog.Logger
}

// NewClient creates a Client backed by the Gemini API.
func NewClient(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Client, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrInvalidConfig, err)
	}
	return NewClientWithGenerator(client.Models, logger, cfg)
}

// NewClientWithGenerator creates a Client over an existing content generator.
func NewClientWithGenerator(models ContentGenerator, logger *slog.Logger, cfg config.LLMConfig) (*Client, error) {
	if models == nil {
		return nil, fmt.Errorf("%w: content generator cannot be nil", generation.ErrInvalidConfig)
	}
	if logger == nil {
		return nil, fmt.Errorf("%w: logger cannot be nil", generation.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		logger.Warn("invalid max retries value, using default", "max_retries", 3)
		maxRetries = 3
	}
	delay := cfg.RetryDelaySeconds
	if delay < 1 {
		logger.Warn("invalid retry delay value, using default", "retry_delay_seconds", 2)
		delay = 2
	}

	return &Client{
		models:     models,
		model:      cfg.ModelName,
		maxRetries: maxRetries,
		retryDelay: time.Duration(delay) * time.Second,
		logger:     logger.With("component", "gemini_client", "model", cfg.ModelName),
	}, nil
}

// CallStructuredJSON implements generation.AIClient.
func (c *Client) CallStructuredJSON(ctx context.Context, req generation.StructuredRequest, out any) error {
	if strings.TrimSpace(req.Prompt) == "" {
		return fmt.Errorf("%w: empty prompt", generation.ErrInvalidResponse)
	}
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	genCfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction(req), genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    toGenaiSchema(req.Schema),
	}
	contents := genai.Text(req.Prompt)

	attempt := 0
	operation := func() error {
		attempt++
		c.logger.DebugContext(ctx, "making Gemini API call",
			"attempt", attempt,
			"max_attempts", c.maxRetries+1)

		text, err := c.generate(ctx, contents, genCfg)
		if err != nil {
			return err
		}
		if err := generation.DecodeStructured([]byte(text), out); err != nil {
			return backoff.Permanent(err)
		}
		return nil
	}

	err := backoff.RetryNotify(operation, c.backoff(ctx), func(err error, next time.Duration) {
		c.logger.WarnContext(ctx, "Gemini API call failed, retrying",
			"attempt", attempt,
			"error", err,
			"delay_ms", next.Milliseconds())
	})
	if err == nil {
		c.logger.DebugContext(ctx, "Gemini API call successful", "attempt", attempt)
		return nil
	}

	if ctxErr := ctx.Err(); errors.Is(ctxErr, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", generation.ErrTimeout, err)
	}
	switch {
	case errors.Is(err, generation.ErrContentBlocked),
		errors.Is(err, generation.ErrInvalidResponse),
		errors.Is(err, generation.ErrSchemaValidation),
		errors.Is(err, generation.ErrUpstream):
		return err
	case ctx.Err() != nil:
		return fmt.Errorf("%w: %v", generation.ErrTransientFailure, ctx.Err())
	default:
		return fmt.Errorf("%w: after %d attempts: %v", generation.ErrTransientFailure, attempt, err)
	}
}

func (c *Client) backoff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retryDelay
	b.Multiplier = 2
	b.RandomizationFactor = 0.5
	b.MaxInterval = 16 * c.retryDelay
	b.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(c.maxRetries)), ctx)
}

// generate makes one API call and returns the response text. Errors that
// retrying cannot fix are wrapped in backoff.Permanent.
func (c *Client) generate(
	ctx context.Context,
	contents []*genai.Content,
	cfg *genai.GenerateContentConfig,
) (string, error) {
	resp, err := c.models.GenerateContent(ctx, c.model, contents, cfg)
	if err != nil {
		if ctx.Err() != nil {
			return "", backoff.Permanent(err)
		}
		if code, ok := apiErrorCode(err); ok && !retryableStatus(code) {
			return "", backoff.Permanent(fmt.Errorf("%w: gemini returned %d: %v", generation.ErrUpstream, code, err))
		}
		return "", err
	}

	switch {
	case resp == nil:
		return "", backoff.Permanent(fmt.Errorf("%w: nil response", generation.ErrInvalidResponse))
	case resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "":
		return "", backoff.Permanent(fmt.Errorf("%w: prompt blocked: %s",
			generation.ErrContentBlocked, resp.PromptFeedback.BlockReason))
	case len(resp.Candidates) == 0:
		return "", backoff.Permanent(fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse))
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", backoff.Permanent(fmt.Errorf("%w: content blocked by safety filters", generation.ErrContentBlocked))
	}
	if candidate.Content == nil {
		return "", backoff.Permanent(fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse))
	}

	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			text.WriteString(part.Text)
		}
	}
	if strings.TrimSpace(text.String()) == "" {
		return "", backoff.Permanent(fmt.Errorf("%w: empty text in response", generation.ErrInvalidResponse))
	}
	return text.String(), nil
}

func apiErrorCode(err error) (int, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code, true
	}
	return 0, false
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code == http.StatusRequestTimeout || code >= 500
}

// systemInstruction appends the request context to the system prompt.
func systemInstruction(req generation.StructuredRequest) string {
	var b strings.Builder
	b.WriteString(req.System)
	b.WriteString("\n\nRequest context:\n")
	fmt.Fprintf(&b, "- address: %s\n", req.Vars.Address)
	fmt.Fprintf(&b, "- snapshotAt: %s\n", req.Vars.SnapshotAt)
	if len(req.Tools) > 0 {
		fmt.Fprintf(&b, "- data sources: %s\n", strings.Join(req.Tools, ", "))
	}
	return b.String()
}
