package verify

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

// mockClient scripts CreateTranscription responses per audio path.
type mockClient struct {
	mu        sync.Mutex
	responses map[string]string
	errs      map[string]error
	failTimes int // number of leading calls that fail with a rate limit
	calls     int
}

func (m *mockClient) CreateTranscription(_ context.Context, req openai.AudioRequest) (openai.AudioResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	if m.calls <= m.failTimes {
		return openai.AudioResponse{}, &openai.APIError{
			HTTPStatusCode: http.StatusTooManyRequests,
			Message:        "slow down",
		}
	}
	if err, ok := m.errs[req.FilePath]; ok {
		return openai.AudioResponse{}, err
	}
	return openai.AudioResponse{Text: m.responses[req.FilePath]}, nil
}

func newTestTranscriber(t *testing.T, client *mockClient) *OpenAITranscriber {
	t.Helper()
	tr, err := NewOpenAITranscriber("test-key", withClient(client), WithRetry(fastRetry(3)))
	if err != nil {
		t.Fatal(err)
	}
	return tr
}

func TestNewOpenAITranscriber_RequiresKey(t *testing.T) {
	t.Parallel()

	if _, err := NewOpenAITranscriber(""); !errors.Is(err, ErrAPIKeyMissing) {
		t.Errorf("NewOpenAITranscriber(\"\") error = %v, want %v", err, ErrAPIKeyMissing)
	}
}

func TestTranscribe_RequestShape(t *testing.T) {
	t.Parallel()

	client := &mockClient{responses: map[string]string{"clip.mp3": "labas"}}
	tr := newTestTranscriber(t, client)

	got, err := tr.Transcribe(context.Background(), "clip.mp3")
	if err != nil {
		t.Fatalf("Transcribe() error: %v", err)
	}
	if got != "labas" {
		t.Errorf("Transcribe() = %q, want %q", got, "labas")
	}
}

func TestTranscribe_RetriesRateLimit(t *testing.T) {
	t.Parallel()

	client := &mockClient{
		responses: map[string]string{"clip.mp3": "labas"},
		failTimes: 2,
	}
	tr := newTestTranscriber(t, client)

	got, err := tr.Transcribe(context.Background(), "clip.mp3")
	if err != nil {
		t.Fatalf("Transcribe() error: %v", err)
	}
	if got != "labas" {
		t.Errorf("Transcribe() = %q, want %q", got, "labas")
	}
	if client.calls != 3 {
		t.Errorf("client called %d times, want 3", client.calls)
	}
}

func TestTranscribe_AuthFailureNotRetried(t *testing.T) {
	t.Parallel()

	client := &mockClient{
		errs: map[string]error{
			"clip.mp3": &openai.APIError{HTTPStatusCode: http.StatusUnauthorized, Message: "bad key"},
		},
	}
	tr := newTestTranscriber(t, client)

	_, err := tr.Transcribe(context.Background(), "clip.mp3")
	if !errors.Is(err, ErrAuthFailed) {
		t.Errorf("Transcribe() error = %v, want %v", err, ErrAuthFailed)
	}
	if client.calls != 1 {
		t.Errorf("client called %d times, want 1", client.calls)
	}
}

// scriptedTranscriber returns canned hypotheses for Run tests.
type scriptedTranscriber struct {
	hyps map[string]string
	err  error
}

func (s *scriptedTranscriber) Transcribe(_ context.Context, audioPath string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.hyps[audioPath], nil
}

func TestRun(t *testing.T) {
	t.Parallel()

	clips := []Clip{
		{Path: "a.mp3", Text: "labas rytas"},
		{Path: "b.mp3", Text: "vienas du"},
	}
	// Exact match for the first clip, one of two words wrong for the second.
	tr := &scriptedTranscriber{hyps: map[string]string{
		"a.mp3": "labas rytas",
		"b.mp3": "vienas keturi",
	}}

	report, err := Run(context.Background(), tr, clips, 2)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if len(report.Results) != 2 {
		t.Fatalf("Run() returned %d results, want 2", len(report.Results))
	}

	// Input order is preserved regardless of completion order.
	if report.Results[0].Clip.Path != "a.mp3" || report.Results[1].Clip.Path != "b.mp3" {
		t.Errorf("result order = %q, %q", report.Results[0].Clip.Path, report.Results[1].Clip.Path)
	}
	if report.Results[0].WER != 0 {
		t.Errorf("exact match WER = %v, want 0", report.Results[0].WER)
	}
	if report.Results[1].WER != 0.5 {
		t.Errorf("substitution WER = %v, want 0.5", report.Results[1].WER)
	}
	if report.Mean != 0.25 {
		t.Errorf("Mean = %v, want 0.25", report.Mean)
	}
}

func TestRun_NormalizesBeforeScoring(t *testing.T) {
	t.Parallel()

	clips := []Clip{{Path: "a.mp3", Text: "Labas, Rytas!"}}
	tr := &scriptedTranscriber{hyps: map[string]string{"a.mp3": "labas rytas"}}

	report, err := Run(context.Background(), tr, clips, 1)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if report.Results[0].WER != 0 {
		t.Errorf("WER = %v, want 0 after normalization", report.Results[0].WER)
	}
}

func TestRun_TranscriberFailureFailsRun(t *testing.T) {
	t.Parallel()

	clips := []Clip{{Path: "a.mp3", Text: "labas"}}
	tr := &scriptedTranscriber{err: ErrQuotaExceeded}

	if _, err := Run(context.Background(), tr, clips, 1); !errors.Is(err, ErrQuotaExceeded) {
		t.Errorf("Run() error = %v, want %v", err, ErrQuotaExceeded)
	}
}

func TestRun_NoClips(t *testing.T) {
	t.Parallel()

	report, err := Run(context.Background(), &scriptedTranscriber{}, nil, 4)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if len(report.Results) != 0 || report.Mean != 0 {
		t.Errorf("report = %+v, want empty", report)
	}
}
