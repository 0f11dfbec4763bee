package human

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestSeededAsker_ReturnsConfiguredResponse(t *testing.T) {
	asker := NewSeededAsker("Summarise the latest thread for me")

	got, err := asker.Ask(context.Background(), "How can I assist you today?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Summarise the latest thread for me" {
		t.Errorf("unexpected response: %q", got)
	}
}

func TestSeededAsker_MissingResponseIsNotAnError(t *testing.T) {
	asker := NewSeededAsker("")

	got, err := asker.Ask(context.Background(), "anything?")
	if err != nil {
		t.Fatalf("a missing seed must not fail the cycle, got: %v", err)
	}
	if got != "" {
		t.Errorf("expected empty response, got %q", got)
	}
}

func TestConsoleAsker_ReadsLine(t *testing.T) {
	in := strings.NewReader("check the weather agent\n")
	var out strings.Builder
	asker := NewConsoleAskerIO(in, &out)

	got, err := asker.Ask(context.Background(), "How can I assist you today?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "check the weather agent" {
		t.Errorf("unexpected response: %q", got)
	}
	if !strings.Contains(out.String(), "How can I assist you today?") {
		t.Errorf("question was not printed: %q", out.String())
	}
}

func TestConsoleAsker_ContextCancelled(t *testing.T) {
	// A reader that never produces input.
	blocked, w := newBlockedReader()
	defer w.close()
	var out strings.Builder
	asker := NewConsoleAskerIO(blocked, &out)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := asker.Ask(ctx, "still there?")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got: %v", err)
	}
}

// blockedReader blocks Read until closed.
type blockedReader struct{ ch chan struct{} }

func newBlockedReader() (*blockedReader, *blockedReader) {
	r := &blockedReader{ch: make(chan struct{})}
	return r, r
}

func (b *blockedReader) Read([]byte) (int, error) {
	<-b.ch
	return 0, errors.New("closed")
}

func (b *blockedReader) close() { close(b.ch) }
