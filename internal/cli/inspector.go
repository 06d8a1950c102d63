package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/aretw0/surveyor"
	"golang.org/x/term"
)

// LineInspector drives single-step mode from line-oriented input:
// an empty line takes one more step, "c" continues without pausing,
// "s" prints the status again and "q" stops the run.
type LineInspector struct {
	out   io.Writer
	lines chan string
	once  sync.Once
	in    io.Reader
}

// NewLineInspector reads commands from in and writes prompts to out.
func NewLineInspector(in io.Reader, out io.Writer) *LineInspector {
	return &LineInspector{in: in, out: out, lines: make(chan string)}
}

// ChooseInspector returns a LineInspector when in is an interactive terminal
// and the flag-waiting inspector otherwise.
func ChooseInspector(in *os.File, out io.Writer) surveyor.Inspector {
	if term.IsTerminal(int(in.Fd())) {
		return NewLineInspector(in, out)
	}
	return surveyor.WaitForFlags()
}

// The reader goroutine outlives a single Inspect call, since a blocked read cannot be cancelled.
func (li *LineInspector) start() {
	li.once.Do(func() {
		go func() {
			defer close(li.lines)
			scanner := bufio.NewScanner(li.in)
			for scanner.Scan() {
				li.lines <- strings.TrimSpace(scanner.Text())
			}
		}()
	})
}

// Inspect implements surveyor.Inspector.
func (li *LineInspector) Inspect(ctx context.Context, s *surveyor.Surveyor) error {
	li.start()
	for {
		fmt.Fprintf(li.out, "[step %d] %s\n[enter] step  [c] continue  [s] status  [q] quit > ", s.CurrentStep(), s.String())

		changed := s.Flags().Changed()
		if s.Flags().Released() {
			// Released from elsewhere (signal or HTTP control).
			fmt.Fprintln(li.out)
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-changed:
			continue
		case line, ok := <-li.lines:
			if !ok {
				// Input closed: stop pausing rather than spin.
				s.Flags().DisableSingleStep()
				return nil
			}
			switch strings.ToLower(line) {
			case "":
				return nil
			case "c", "continue":
				s.Flags().DisableSingleStep()
				return nil
			case "q", "quit":
				s.Flags().RequestStop()
				return nil
			case "s", "status":
				continue
			default:
				fmt.Fprintf(li.out, "unknown command %q\n", line)
			}
		}
	}
}
