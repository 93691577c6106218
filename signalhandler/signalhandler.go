package signalhandler

import (
	"os"
	"os/signal"
	"syscall"
)

// SetupHandler runs cleanup and exits on SIGINT or SIGTERM, so the log
// file and the catalog are flushed when a pass is interrupted. The returned
// function stops watching for signals.
func SetupHandler(cleanup func()) (stop func()) {
	sigChan := make(chan os.Signal, 1)
	done := make(chan struct{})

	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigChan:
			if cleanup != nil {
				cleanup()
			}
			os.Exit(130)
		case <-done:
		}
	}()

	return func() {
		signal.Stop(sigChan)
		close(done)
	}
}
