package cli

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"
)

// spinnerFrames is the glyph cycle drawn while an analysis runs.
var spinnerFrames = []string{"⠋", "⠙", "⠸", "⠴", "⠦", "⠇"}

// spinnerInterval is the redraw period.
const spinnerInterval = 100 * time.Millisecond

// Spinner animates a progress glyph on stderr while a long operation
// (dominator computation, graphviz rendering) runs. It stops on Stop or
// when the parent context ends, whichever comes first.
type Spinner struct {
	label  string
	parent context.Context
	halt   chan struct{}
	idle   chan struct{}
	once   sync.Once
}

// newSpinner creates a spinner that only stops via Stop.
func newSpinner(label string) *Spinner {
	return newSpinnerWithContext(context.Background(), label)
}

// newSpinnerWithContext creates a spinner tied to ctx. Cancelling ctx
// stops the animation; Cancelled reports whether that happened.
func newSpinnerWithContext(ctx context.Context, label string) *Spinner {
	return &Spinner{
		label:  label,
		parent: ctx,
		halt:   make(chan struct{}),
		idle:   make(chan struct{}),
	}
}

// Start launches the animation goroutine.
func (s *Spinner) Start() {
	go func() {
		defer close(s.idle)
		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()

		for frame := 0; ; frame++ {
			select {
			case <-s.parent.Done():
				s.erase()
				return
			case <-s.halt:
				return
			case <-ticker.C:
				glyph := spinnerFrames[frame%len(spinnerFrames)]
				fmt.Fprintf(os.Stderr, "\r%s %s", styleIconSpinner.Render(glyph), StyleDim.Render(s.label))
			}
		}
	}()
}

// Stop ends the animation and clears the line. Safe to call more than
// once, and after the context has already cancelled the spinner.
func (s *Spinner) Stop() {
	s.once.Do(func() { close(s.halt) })
	<-s.idle
	s.erase()
}

// StopWithSuccess stops the spinner and prints a success line.
func (s *Spinner) StopWithSuccess(message string) {
	s.Stop()
	printSuccess("%s", message)
}

// StopWithError stops the spinner and prints an error line.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled reports whether the parent context ended. A plain Stop does
// not count as cancellation.
func (s *Spinner) Cancelled() bool {
	return s.parent.Err() != nil
}

// erase clears the spinner's line with a carriage return and the ANSI
// erase-line sequence.
func (s *Spinner) erase() {
	fmt.Fprint(os.Stderr, "\r\x1b[2K")
}
