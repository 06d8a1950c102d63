//go:build !unix

package control

import "os"

func controlSignals() []os.Signal { return nil }

func isStopSignal(os.Signal) bool  { return false }
func isPauseSignal(os.Signal) bool { return false }
