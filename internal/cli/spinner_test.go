package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer is a bytes.Buffer safe for the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func drawingSpinner(ctx context.Context, msg string) (*Spinner, *syncBuffer) {
	var buf syncBuffer
	s := newSpinnerWithContext(ctx, msg)
	s.w = &buf
	s.draw = true
	return s, &buf
}

func TestSpinnerDraws(t *testing.T) {
	s, buf := drawingSpinner(context.Background(), "Simulating 3 nodes...")
	s.Start()
	time.Sleep(3 * spinnerInterval)
	s.Stop()

	out := buf.String()
	if !strings.Contains(out, "Simulating 3 nodes...") {
		t.Errorf("output %q does not contain the message", out)
	}
	if !strings.HasSuffix(out, "\r") {
		t.Errorf("line was not cleared: %q", out)
	}
	if s.Cancelled() {
		t.Error("Cancelled() = true after Stop")
	}
}

func TestSpinnerSilentWithoutTerminal(t *testing.T) {
	s, buf := drawingSpinner(context.Background(), "quiet")
	s.draw = false
	s.Start()
	time.Sleep(2 * spinnerInterval)
	s.Stop()

	if buf.String() != "" {
		t.Errorf("output = %q, want nothing", buf.String())
	}
}

func TestSpinnerCancelled(t *testing.T) {
	tests := []struct {
		name string
		ctx  func() (context.Context, context.CancelFunc)
	}{
		{"cancel", func() (context.Context, context.CancelFunc) { return context.WithCancel(context.Background()) }},
		{"timeout", func() (context.Context, context.CancelFunc) {
			return context.WithTimeout(context.Background(), 20*time.Millisecond)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := tt.ctx()
			s, _ := drawingSpinner(ctx, "working")
			s.Start()

			if tt.name == "cancel" {
				cancel()
			}
			time.Sleep(60 * time.Millisecond)
			defer cancel()

			if !s.Cancelled() {
				t.Error("Cancelled() = false after the context ended")
			}
			s.Stop()
		})
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner("stopping")
	s.Start()

	s.Stop()
	s.Stop()
	s.StopWithSuccess("done")
	s.StopWithError("failed")
}
