//go:build unix

package control

import (
	"os"
	"syscall"
)

func controlSignals() []os.Signal {
	return []os.Signal{syscall.SIGUSR1, syscall.SIGUSR2}
}

func isStopSignal(sig os.Signal) bool  { return sig == syscall.SIGUSR1 }
func isPauseSignal(sig os.Signal) bool { return sig == syscall.SIGUSR2 }
