package control

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
)

// NotifySignals maps OS signals onto f until ctx is done or the returned stop function is called.
// On Unix, SIGUSR1 requests a stop and SIGUSR2 enables single-step mode.
func NotifySignals(ctx context.Context, f *Flags, logger *slog.Logger) (stop func()) {
	if logger == nil {
		logger = slog.Default()
	}
	sigs := controlSignals()
	if len(sigs) == 0 {
		return func() {}
	}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sigs...)

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case sig := <-ch:
				Dispatch(f, sig, logger)
			}
		}
	}()

	return func() {
		signal.Stop(ch)
		cancel()
		<-done
	}
}

// Dispatch applies a single signal to f. Unknown signals are ignored.
func Dispatch(f *Flags, sig os.Signal, logger *slog.Logger) {
	switch {
	case isStopSignal(sig):
		logger.Warn("stop requested by signal", "signal", sig.String())
		f.RequestStop()
	case isPauseSignal(sig):
		logger.Warn("single-step requested by signal", "signal", sig.String())
		f.EnableSingleStep()
	}
}
