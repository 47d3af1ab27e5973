//go:build windows

package tail

import (
	"os"
	"os/signal"
)

// Notify relays stop signals to a channel for Run. Windows has no resume
// signal, so tail relies on the retry timer alone.
func Notify() (<-chan os.Signal, func()) {
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, os.Interrupt)
	return ch, func() { signal.Stop(ch) }
}

func isResume(os.Signal) bool {
	return false
}
