// Package panics turns panics in goroutines into logged, orderly exits.
package panics

import (
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/altcoinj/altcoin/infrastructure/logger"
)

const exitHandlerTimeout = 5 * time.Second

// HandlePanic recovers a panic, logs it together with the stack trace of
// the code that spawned the goroutine, flushes the log and exits.
func HandlePanic(log *logger.Logger, goroutineName string, spawnStackTrace []byte) {
	err := recover()
	if err == nil {
		return
	}

	reason := fmt.Sprintf("Fatal error in goroutine `%s`: %+v", goroutineName, err)
	exit(log, reason, debug.Stack(), spawnStackTrace)
}

// GoroutineWrapperFunc returns a function starting named goroutines whose
// panics are handled by HandlePanic.
func GoroutineWrapperFunc(log *logger.Logger) func(name string, f func()) {
	return func(name string, f func()) {
		stackTrace := debug.Stack()
		go func() {
			defer HandlePanic(log, name, stackTrace)
			f()
		}()
	}
}

// Exit logs the given reason and exits once the log is flushed.
func Exit(log *logger.Logger, reason string) {
	exit(log, reason, nil, nil)
}

func exit(log *logger.Logger, reason string, currentThreadStackTrace []byte, spawnStackTrace []byte) {
	exitHandlerDone := make(chan struct{})
	go func() {
		log.Criticalf("Exiting: %s", reason)
		if spawnStackTrace != nil {
			log.Criticalf("Goroutine spawned at: %s", spawnStackTrace)
		}
		if currentThreadStackTrace != nil {
			log.Criticalf("Stack trace: %s", currentThreadStackTrace)
		}
		log.Backend().Close()
		close(exitHandlerDone)
	}()

	select {
	case <-time.After(exitHandlerTimeout):
		fmt.Fprintln(os.Stderr, "Couldn't exit gracefully.")
	case <-exitHandlerDone:
	}
	os.Exit(1)
}
