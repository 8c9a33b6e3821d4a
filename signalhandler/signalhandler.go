package signalhandler

import (
	"context"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"pdiff/logging"
)

// SetupHandler returns a context that is cancelled on the first SIGINT or SIGTERM.
// Cancellation stops the scheduling of new pairs; pairs already running finish.
// A second signal exits immediately.
func SetupHandler(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigChan := make(chan os.Signal, 2)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			logging.LogWarning("Received %s, finishing in-flight comparisons", sig)
			cancel()
		case <-ctx.Done():
			signal.Stop(sigChan)
			return
		}

		<-sigChan
		os.Exit(130)
	}()

	return ctx, cancel
}

// GetOptimalProcs returns the number of comparison workers for the system
func GetOptimalProcs() int {
	procs := runtime.GOMAXPROCS(0)
	if n := runtime.NumCPU(); n < procs {
		procs = n
	}
	if procs < 1 {
		procs = 1
	}
	return procs
}
