package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func retryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: 1 * time.Millisecond,
		MaxWait:     10 * time.Millisecond,
		Multiplier:  2.0,
	}
}

var lessonContent = json.RawMessage(`{"title":"Compound Interest"}`)

func unavailable() MockResponse {
	return MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}}
}

func TestRetryAttempts(t *testing.T) {
	tests := []struct {
		name      string
		responses []MockResponse
		wantCalls int
		wantErr   bool
	}{
		{
			"first attempt succeeds",
			[]MockResponse{{Content: lessonContent}},
			1, false,
		},
		{
			"transient failure then success",
			[]MockResponse{unavailable(), {Content: lessonContent}},
			2, false,
		},
		{
			"all attempts exhausted",
			[]MockResponse{unavailable(), unavailable(), unavailable()},
			3, true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(tt.responses...)
			p := WithRetry(mock, retryConfig())

			resp, err := p.Generate(context.Background(), Request{})
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
			} else {
				if err != nil {
					t.Fatalf("Generate: %v", err)
				}
				if string(resp.Content) != string(lessonContent) {
					t.Errorf("content = %s", resp.Content)
				}
			}
			if mock.CallCount() != tt.wantCalls {
				t.Errorf("calls = %d, want %d", mock.CallCount(), tt.wantCalls)
			}
		})
	}
}

func TestRetrySkipsMaxTokens(t *testing.T) {
	// A too-small token limit fails the same way every time; retrying
	// only burns quota.
	mock := NewMockProvider(
		MockResponse{Err: &ErrMaxTokensExceeded{Content: json.RawMessage(`{}`)}},
	)
	p := WithRetry(mock, retryConfig())

	_, err := p.Generate(context.Background(), Request{})
	var maxTok *ErrMaxTokensExceeded
	if !errors.As(err, &maxTok) {
		t.Fatalf("err = %T, want ErrMaxTokensExceeded", err)
	}
	if mock.CallCount() != 1 {
		t.Errorf("calls = %d, want 1", mock.CallCount())
	}
}

func TestRetryInvalidResponseOnce(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrInvalidResponse{Content: json.RawMessage(`bad`), Err: errors.New("bad")}},
		MockResponse{Err: &ErrInvalidResponse{Content: json.RawMessage(`bad`), Err: errors.New("bad")}},
		MockResponse{Content: lessonContent}, // never reached
	)
	p := WithRetry(mock, retryConfig())

	if _, err := p.Generate(context.Background(), Request{}); err == nil {
		t.Fatal("expected error")
	}
	if mock.CallCount() != 2 {
		t.Errorf("calls = %d, want 2 (one retry, then give up)", mock.CallCount())
	}
}

func TestRetryStopsOnCancelledContext(t *testing.T) {
	mock := NewMockProvider(
		unavailable(),
		unavailable(),
		MockResponse{Content: lessonContent},
	)
	p := WithRetry(mock, retryConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := p.Generate(ctx, Request{}); err == nil {
		t.Fatal("expected error")
	}
}

func TestRetryHonorsRetryAfter(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrRateLimit{RetryAfter: 1 * time.Millisecond, Err: errors.New("429")}},
		MockResponse{Content: lessonContent},
	)
	p := WithRetry(mock, retryConfig())

	resp, err := p.Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if string(resp.Content) != string(lessonContent) {
		t.Errorf("content = %s", resp.Content)
	}
	if mock.CallCount() != 2 {
		t.Errorf("calls = %d, want 2", mock.CallCount())
	}
}

// breakingStreamer delivers one chunk, then fails, on every call.
type breakingStreamer struct {
	calls int
}

func (b *breakingStreamer) Generate(ctx context.Context, req Request) (*Response, error) {
	return nil, &ErrProviderUnavailable{Err: errors.New("down")}
}

func (b *breakingStreamer) GenerateStream(ctx context.Context, req Request, onDelta func(chunk string)) (*Response, error) {
	b.calls++
	onDelta("The lesson begins")
	return nil, &ErrProviderUnavailable{Err: errors.New("connection dropped")}
}

func (b *breakingStreamer) ModelID() string { return "breaking" }

func TestRetryStreamNotRestartedAfterFirstDelta(t *testing.T) {
	// Restarting a stream that already delivered text would duplicate
	// output at the consumer.
	inner := &breakingStreamer{}
	p := WithRetry(inner, retryConfig()).(*RetryProvider)

	var got string
	_, err := p.GenerateStream(context.Background(), Request{}, func(chunk string) {
		got += chunk
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if inner.calls != 1 {
		t.Errorf("stream attempts = %d, want 1", inner.calls)
	}
	if got != "The lesson begins" {
		t.Errorf("delivered = %q, want the single chunk", got)
	}
}

func TestRetryStreamRetriesBeforeFirstDelta(t *testing.T) {
	// The mock fails before producing any delta, so the stream is safe
	// to restart.
	mock := NewMockProvider(
		unavailable(),
		MockResponse{Content: json.RawMessage(`"All about interest rates."`)},
	)
	p := WithRetry(mock, retryConfig()).(*RetryProvider)

	var got string
	_, err := p.GenerateStream(context.Background(), Request{}, func(chunk string) {
		got += chunk
	})
	if err != nil {
		t.Fatalf("GenerateStream: %v", err)
	}
	if got != "All about interest rates." {
		t.Errorf("delivered = %q", got)
	}
	if mock.CallCount() != 2 {
		t.Errorf("calls = %d, want 2", mock.CallCount())
	}
}

func TestRetryModelIDDelegates(t *testing.T) {
	p := WithRetry(NewMockProvider(), retryConfig())
	if p.ModelID() != "mock" {
		t.Errorf("model = %q, want mock", p.ModelID())
	}
}
