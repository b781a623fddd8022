// Package verify spot-checks emitted clips by transcribing them through
// the OpenAI speech-to-text API and comparing the result against the
// clip's reference text by word error rate.
package verify

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/sync/errgroup"

	"github.com/liepalab/eafprep/internal/normalize"
)

// languageCode is the ISO 639-1 code passed to the API. The corpora are
// Lithuanian speech.
const languageCode = "lt"

// MaxRecommendedParallel is the upper limit for concurrent API requests.
// Higher values tend to trigger rate limiting.
const MaxRecommendedParallel = 10

// Default retry configuration.
const (
	defaultMaxRetries = 5
	defaultBaseDelay  = 1 * time.Second
	defaultMaxDelay   = 30 * time.Second
)

// Transcriber transcribes one audio clip to text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// audioTranscriber is the slice of the OpenAI client we use.
// *openai.Client implements this implicitly; tests inject mocks.
type audioTranscriber interface {
	CreateTranscription(ctx context.Context, req openai.AudioRequest) (openai.AudioResponse, error)
}

// Compile-time interface compliance checks.
var (
	_ Transcriber      = (*OpenAITranscriber)(nil)
	_ audioTranscriber = (*openai.Client)(nil)
)

// OpenAITranscriber transcribes clips via the OpenAI API with exponential
// backoff on transient failures.
type OpenAITranscriber struct {
	client audioTranscriber
	retry  RetryConfig
}

// TranscriberOption configures an OpenAITranscriber.
type TranscriberOption func(*OpenAITranscriber)

// WithRetry overrides the retry configuration.
func WithRetry(cfg RetryConfig) TranscriberOption {
	return func(t *OpenAITranscriber) {
		t.retry = cfg
	}
}

// withClient injects a mock client (tests only).
func withClient(c audioTranscriber) TranscriberOption {
	return func(t *OpenAITranscriber) {
		t.client = c
	}
}

// NewOpenAITranscriber creates a transcriber for the given API key.
func NewOpenAITranscriber(apiKey string, opts ...TranscriberOption) (*OpenAITranscriber, error) {
	if apiKey == "" {
		return nil, ErrAPIKeyMissing
	}

	t := &OpenAITranscriber{
		client: openai.NewClient(apiKey),
		retry: RetryConfig{
			MaxRetries: defaultMaxRetries,
			BaseDelay:  defaultBaseDelay,
			MaxDelay:   defaultMaxDelay,
		},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Transcribe converts one clip to text.
func (t *OpenAITranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	req := openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: audioPath,
		Format:   openai.AudioResponseFormatJSON,
		Language: languageCode,
	}

	return RetryWithBackoff(ctx, t.retry, func() (string, error) {
		resp, err := t.client.CreateTranscription(ctx, req)
		if err != nil {
			return "", classify(err)
		}
		return resp.Text, nil
	}, retryable)
}

// Clip pairs an emitted audio clip with its reference transcription.
type Clip struct {
	Path string
	Text string
}

// ClipResult is the verification outcome for one clip.
type ClipResult struct {
	Clip       Clip
	Hypothesis string
	WER        float64
}

// Report aggregates a verification run.
type Report struct {
	Results []ClipResult
	Mean    float64 // Mean WER across all clips.
}

// Run transcribes all clips with up to parallel concurrent requests and
// scores each against its reference text. Results keep input order.
func Run(ctx context.Context, t Transcriber, clips []Clip, parallel int) (Report, error) {
	if parallel < 1 {
		parallel = 1
	}
	if parallel > MaxRecommendedParallel {
		parallel = MaxRecommendedParallel
	}

	results := make([]ClipResult, len(clips))

	g, ctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, parallel)

	for i, clip := range clips {
		g.Go(func() error {
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return ctx.Err()
			}
			defer func() { <-sem }()

			hyp, err := t.Transcribe(ctx, clip.Path)
			if err != nil {
				return fmt.Errorf("clip %s: %w", clip.Path, err)
			}

			results[i] = ClipResult{
				Clip:       clip,
				Hypothesis: hyp,
				WER:        WER(normalize.Words(clip.Text), normalize.Words(hyp)),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	var sum float64
	for _, r := range results {
		sum += r.WER
	}
	report := Report{Results: results}
	if len(results) > 0 {
		report.Mean = sum / float64(len(results))
	}
	return report, nil
}
