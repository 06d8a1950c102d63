package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/aretw0/surveyor/internal/config"
	"github.com/aretw0/surveyor/internal/presentation/graph"
	"github.com/aretw0/surveyor/internal/presentation/tui"
	"github.com/aretw0/surveyor/pkg/domain"
)

// RunOptions contains all the configuration for the run command.
type RunOptions struct {
	Config config.Config
	// Report renders a markdown summary once the run ends.
	Report      bool
	ReportLimit int
	// GraphPath, if set, receives a Mermaid lineage graph of the archived paths.
	GraphPath string
	Quiet     bool

	In     *os.File
	Out    io.Writer
	ErrOut io.Writer
}

// Execute runs one exploration to completion, to its step bound, or until stopped.
func Execute(ctx context.Context, opts RunOptions) error {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.ErrOut == nil {
		opts.ErrOut = os.Stderr
	}

	logger, err := createLogger(opts.ErrOut, opts.Config.Log)
	if err != nil {
		return err
	}

	sigCtx := NewSignalContext(ctx)
	defer sigCtx.Cancel()

	session, err := NewSession(sigCtx, opts.Config, SessionOptions{
		Logger:    logger,
		Inspector: ChooseInspector(opts.In, opts.Out),
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := session.Close(); err != nil {
			logger.Error("failed to close store", "error", err)
		}
	}()

	if !opts.Quiet {
		tui.PrintBanner(opts.Out)
		printSystemMessage(opts.Out, "Exploring %d root(s), depth %d, branching %d (pid %d: SIGUSR1 stops, SIGUSR2 single-steps)",
			opts.Config.Program.Roots, opts.Config.Program.Depth, opts.Config.Program.Branching, os.Getpid())
	}

	start := time.Now()
	runErr := session.Run(sigCtx)
	elapsed := time.Since(start)

	s := session.Surveyor
	if sig := sigCtx.Signal(); sig != nil && !opts.Quiet {
		printSystemMessage(opts.Out, "Interrupted by %v.", sig)
	}
	if !opts.Quiet {
		printSystemMessage(opts.Out, "%s", tui.StatusLine(s.String(), s.Done()))
	}

	if opts.GraphPath != "" {
		if err := writeGraph(opts.GraphPath, s.Deadended(), s.Errored()); err != nil {
			logger.Error("failed to write lineage graph", "error", err)
		}
	}

	if opts.Report {
		report := tui.Report{
			Snapshot:  s.Snapshot(),
			Deadended: s.Deadended(),
			Errored:   s.Errored(),
			Elapsed:   elapsed,
			Limit:     opts.ReportLimit,
		}
		if err := renderReport(opts.Out, report); err != nil {
			logger.Error("failed to render report", "error", err)
		}
	}

	return runErr
}

func renderReport(w io.Writer, report tui.Report) error {
	render, err := tui.NewRenderer()
	if err != nil {
		return err
	}
	out, err := render(report.Markdown())
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, out)
	return err
}

func writeGraph(path string, deadended, errored []domain.Record) error {
	records := append(append([]domain.Record(nil), deadended...), errored...)
	data := graph.GenerateMermaid(records, graph.OverlayFor(deadended, errored))
	return os.WriteFile(path, []byte(data), 0o644)
}
