package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/jkessling/reachview/pkg/observability"
)

// Spinner is the terminal progress indicator shown while a dump is
// parsed, walked and rendered. The message follows the pipeline stage
// when stage hooks are attached with watchStages.
type Spinner struct {
	message string
	width   int // widest message shown so far, for clearing
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	stopped chan struct{}
	frames  []string
	mu      sync.Mutex
}

// newSpinner creates a spinner with an initial message.
func newSpinner(message string) *Spinner {
	return newSpinnerWithContext(context.Background(), message)
}

// newSpinnerWithContext creates a spinner that stops when the context is
// cancelled, so Ctrl-C during a long extraction leaves a clean line.
func newSpinnerWithContext(ctx context.Context, message string) *Spinner {
	spinnerCtx, cancel := context.WithCancel(ctx)
	return &Spinner{
		message: message,
		width:   len(message),
		ctx:     spinnerCtx,
		cancel:  cancel,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
		frames:  []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
	}
}

// SetMessage replaces the spinner message. Safe to call from hook
// callbacks while the animation is running.
func (s *Spinner) SetMessage(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = message
	s.width = max(s.width, len(message))
}

// Start begins the spinner animation.
func (s *Spinner) Start() {
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		i := 0
		for {
			select {
			case <-s.ctx.Done():
				s.clearLine()
				return
			case <-s.done:
				return
			case <-ticker.C:
				frame := s.frames[i%len(s.frames)]
				s.mu.Lock()
				fmt.Fprintf(os.Stderr, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.message))
				s.mu.Unlock()
				i++
			}
		}
	}()
}

// Stop stops the spinner and clears the line.
func (s *Spinner) Stop() {
	s.cancel()
	select {
	case <-s.done:
	default:
		close(s.done)
	}
	<-s.stopped
	s.clearLine()
}

func (s *Spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(os.Stderr, "\r%s\r", strings.Repeat(" ", s.width+4))
}

// StopWithSuccess stops the spinner and shows a success message.
func (s *Spinner) StopWithSuccess(message string) {
	s.Stop()
	printSuccess("%s", message)
}

// StopWithError stops the spinner and shows an error message.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled returns true if the spinner was stopped due to context cancellation.
func (s *Spinner) Cancelled() bool {
	return s.ctx.Err() != nil
}

// stageHooks advance the spinner message as the pipeline reports
// progress, so a long run shows which stage it is in.
type stageHooks struct {
	observability.NoopPipelineHooks
	spinner *Spinner
}

func (h *stageHooks) OnParseComplete(_ context.Context, nodes, edges int) {
	h.spinner.SetMessage(fmt.Sprintf("Walking %d nodes, %d edges...", nodes, edges))
}

func (h *stageHooks) OnRenderStart(_ context.Context, formats []string) {
	h.spinner.SetMessage(fmt.Sprintf("Rendering %s...", strings.Join(formats, ", ")))
}

// watchStages attaches the spinner to the pipeline hooks and returns a
// function restoring the no-op hooks.
func watchStages(s *Spinner) func() {
	observability.SetPipelineHooks(&stageHooks{spinner: s})
	return func() {
		observability.SetPipelineHooks(observability.NoopPipelineHooks{})
	}
}
