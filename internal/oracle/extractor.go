// Package oracle turns rendered crawl documents into structured candidate
// records using a Claude model. Responses are untrusted: they are parsed
// defensively and coerced into the candidate shape, with model-reported
// errors carried through rather than raised.
package oracle

import (
	"context"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/praxisdata/clinic-enrich/internal/model"
	"github.com/praxisdata/clinic-enrich/internal/resilience"
	"github.com/praxisdata/clinic-enrich/pkg/anthropic"
)

// DefaultModel is the extraction model used when config does not override it.
const DefaultModel = "claude-haiku-4-5-20251001"

// DefaultMaxDocumentChars caps the document portion of a prompt. Longer
// documents keep their head and tail halves with a truncation marker between.
const DefaultMaxDocumentChars = 80000

const truncationMarker = "\n...[Content truncated]...\n"

// Extractor produces one candidate record per practice document.
type Extractor interface {
	Extract(ctx context.Context, practice, document string) (model.CandidateRecord, error)
}

// Claude is the Anthropic-backed Extractor. Requests are paced through a
// shared rate limiter and retried on transient API failures.
type Claude struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	maxChars  int
	limiter   *rate.Limiter
	retry     resilience.RetryConfig
}

// ClaudeOption configures a Claude extractor.
type ClaudeOption func(*Claude)

// WithModel overrides the extraction model.
func WithModel(m string) ClaudeOption {
	return func(c *Claude) { c.model = m }
}

// WithMaxDocumentChars overrides the document size cap. Values below 1 keep
// the default.
func WithMaxDocumentChars(n int) ClaudeOption {
	return func(c *Claude) {
		if n > 0 {
			c.maxChars = n
		}
	}
}

// WithRequestInterval overrides the minimum spacing between API requests.
func WithRequestInterval(d time.Duration) ClaudeOption {
	return func(c *Claude) { c.limiter = rate.NewLimiter(rate.Every(d), 1) }
}

// WithRetry overrides the API retry schedule.
func WithRetry(cfg resilience.RetryConfig) ClaudeOption {
	return func(c *Claude) { c.retry = cfg }
}

// NewClaude creates a Claude extractor. Default pacing is one request per 4s.
func NewClaude(client anthropic.Client, opts ...ClaudeOption) *Claude {
	c := &Claude{
		client:    client,
		model:     DefaultModel,
		maxTokens: 2048,
		maxChars:  DefaultMaxDocumentChars,
		limiter:   rate.NewLimiter(rate.Every(4*time.Second), 1),
		retry: resilience.RetryConfig{
			MaxAttempts:    3,
			InitialBackoff: 2 * time.Second,
			MaxBackoff:     30 * time.Second,
			Multiplier:     2,
			JitterFraction: 0.5,
			OnRetry:        resilience.RetryLogger("oracle", "extract"),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Extract sends the practice document to the model and parses its JSON
// answer. A response the model itself marks as failed, or one that cannot be
// parsed, comes back as a candidate with Err set; a returned error means the
// API could not be reached at all.
func (c *Claude) Extract(ctx context.Context, practice, document string) (model.CandidateRecord, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return model.CandidateRecord{}, eris.Wrap(err, "oracle: rate limit wait")
	}

	prompt := fmt.Sprintf("Practice Name: %s\n\nWebsite Content:\n\n%s", practice, Truncate(document, c.maxChars))

	resp, err := resilience.DoVal(ctx, c.retry, func(ctx context.Context) (*anthropic.MessageResponse, error) {
		return c.client.CreateMessage(ctx, anthropic.MessageRequest{
			Model:     c.model,
			MaxTokens: c.maxTokens,
			System:    extractionSystemPrompt + "\n\n" + documentStructurePrompt,
			Messages:  []anthropic.Message{{Role: "user", Content: prompt}},
		})
	})
	if err != nil {
		return model.CandidateRecord{}, eris.Wrap(err, "oracle: extract "+practice)
	}

	resp.Usage.LogUsage(c.model, "extract")

	cand := ParseCandidate(resp.Text())
	if cand.Practice == "" {
		cand.Practice = practice
	}
	if cand.Err != "" {
		zap.L().Warn("oracle: extraction reported error",
			zap.String("practice", practice),
			zap.String("error", cand.Err),
		)
	}
	return cand, nil
}

// Truncate caps s at max characters, keeping the head and tail halves with a
// marker between them so both contact details (usually early) and fee pages
// (often late) survive.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	half := max / 2
	return s[:half] + truncationMarker + s[len(s)-half:]
}
