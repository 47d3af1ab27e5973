//go:build !windows

package tail

import (
	"os"
	"os/signal"
	"syscall"
)

// Notify relays stop signals and SIGCONT to a channel for Run.
func Notify() (<-chan os.Signal, func()) {
	ch := make(chan os.Signal, 4)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM, syscall.SIGCONT)
	return ch, func() { signal.Stop(ch) }
}

func isResume(sig os.Signal) bool {
	return sig == syscall.SIGCONT
}
