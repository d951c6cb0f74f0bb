package cli

import (
	"context"
	"testing"
	"time"

	"github.com/jkessling/reachview/pkg/observability"
)

func TestSpinnerBasic(t *testing.T) {
	s := newSpinner("Extracting around node 12...")
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	// Stop cancels the internal context, so Cancelled reports true after
	// a normal stop as well.
	if !s.Cancelled() {
		t.Error("Stop should cancel the spinner context")
	}
}

func TestSpinnerWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s := newSpinnerWithContext(ctx, "Extracting...")
	s.Start()

	cancel()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context cancellation")
	}
}

func TestSpinnerWithTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	s := newSpinnerWithContext(ctx, "Fetching remote dump...")
	s.Start()

	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context timeout")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner("Extracting...")
	s.Start()

	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerSetMessage(t *testing.T) {
	s := newSpinner("Extracting...")
	s.SetMessage("Rendering dot, html...")

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.message != "Rendering dot, html..." {
		t.Errorf("message = %q", s.message)
	}
	// The clear width keeps track of the widest message shown.
	if s.width < len("Rendering dot, html...") {
		t.Errorf("width = %d, should cover the longest message", s.width)
	}
}

func TestSpinnerStageHooks(t *testing.T) {
	s := newSpinner("Extracting around node 3...")
	unwatch := watchStages(s)
	defer unwatch()

	observability.Pipeline().OnParseComplete(context.Background(), 120, 340)
	s.mu.Lock()
	parsed := s.message
	s.mu.Unlock()
	if parsed != "Walking 120 nodes, 340 edges..." {
		t.Errorf("message after parse = %q", parsed)
	}

	observability.Pipeline().OnRenderStart(context.Background(), []string{"dot", "svg"})
	s.mu.Lock()
	rendering := s.message
	s.mu.Unlock()
	if rendering != "Rendering dot, svg..." {
		t.Errorf("message after render start = %q", rendering)
	}

	unwatch()
	if _, ok := observability.Pipeline().(observability.NoopPipelineHooks); !ok {
		t.Error("unwatch should restore the no-op hooks")
	}
}

func TestSpinnerStopWithSuccess(t *testing.T) {
	s := newSpinner("Extracting...")
	s.Start()
	time.Sleep(50 * time.Millisecond)
	s.StopWithSuccess("Rendered neighborhood of node 7")
}

func TestSpinnerStopWithError(t *testing.T) {
	s := newSpinner("Extracting...")
	s.Start()
	time.Sleep(50 * time.Millisecond)
	s.StopWithError("Start node not found")
}
