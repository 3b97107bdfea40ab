package ui

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner animates a waiting message on a terminal. On anything else it
// stays silent.
type Spinner struct {
	w       io.Writer
	message string
	active  bool
	done    chan struct{}
	wg      sync.WaitGroup
}

// NewSpinner creates a spinner that writes to w, usually os.Stderr.
func NewSpinner(w io.Writer, message string) *Spinner {
	f, ok := w.(*os.File)
	return &Spinner{
		w:       w,
		message: message,
		active:  ok && isatty.IsTerminal(f.Fd()),
		done:    make(chan struct{}),
	}
}

// Start begins the animation after a short delay, so fast exchanges never
// draw it.
func (s *Spinner) Start() {
	if !s.active {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		select {
		case <-s.done:
			return
		case <-time.After(150 * time.Millisecond):
		}

		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()
		for i := 0; ; i++ {
			fmt.Fprintf(s.w, "\r%s %s", Bold.Render(spinnerFrames[i%len(spinnerFrames)]), s.message)
			select {
			case <-s.done:
				fmt.Fprint(s.w, "\r\033[K")
				return
			case <-ticker.C:
			}
		}
	}()
}

// Stop ends the animation and clears its line.
func (s *Spinner) Stop() {
	if !s.active {
		return
	}
	close(s.done)
	s.wg.Wait()
}
