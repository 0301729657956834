package cli

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// spinner animates a single status line for steps that report no progress
// (rendering a saved plan). It is only started on a terminal.
type spinner struct {
	w     io.Writer
	start time.Time

	mu    sync.Mutex
	label string
	width int

	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// startSpinner begins animating label on w until finish is called or ctx ends.
func startSpinner(ctx context.Context, w io.Writer, label string) *spinner {
	s := &spinner{
		w:     w,
		start: time.Now(),
		label: label,
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	go s.run(ctx)
	return s
}

func (s *spinner) run(ctx context.Context) {
	defer close(s.done)
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	for frame := 0; ; frame++ {
		s.draw(spinnerFrames[frame%len(spinnerFrames)])
		select {
		case <-ctx.Done():
			return
		case <-s.stop:
			return
		case <-ticker.C:
		}
	}
}

func (s *spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	elapsed := time.Since(s.start).Truncate(100 * time.Millisecond)
	text := fmt.Sprintf("%s %s", s.label, elapsed)
	s.width = max(s.width, len(text)+2)
	fmt.Fprintf(s.w, "\r%s %s", styleAccent.Render(frame), StyleDim.Render(text))
}

// setLabel replaces the text shown next to the animation.
func (s *spinner) setLabel(label string) {
	s.mu.Lock()
	s.label = label
	s.mu.Unlock()
}

// finish stops the animation, clears the line and returns the elapsed time.
// It is safe to call more than once.
func (s *spinner) finish() time.Duration {
	s.once.Do(func() {
		close(s.stop)
		<-s.done
		s.mu.Lock()
		fmt.Fprintf(s.w, "\r%*s\r", s.width, "")
		s.mu.Unlock()
	})
	return time.Since(s.start)
}
