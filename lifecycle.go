package enrich

import (
	"sync"
)

// lifecycleCoordinator encapsulates the shutdown sequence for an Enricher.
// It is a wiring helper: it doesn't own channels; it orchestrates cancellation,
// waits, queue clearing, and channel closures in a deterministic order.
//
// Close() is safe for concurrent calls; the sequence executes exactly once.

type lifecycleCoordinator struct {
	cancelRun func()
	cancelCtx func()
	// workerWG ensures the drain run has fully stopped (in-flight Process
	// included) before the queue is cleared and channels are closed
	workerWG         *sync.WaitGroup
	clearQueue       func()
	closeCompletions func()
	// notifierWG ensures the notifier delivered everything before events close
	notifierWG  *sync.WaitGroup
	closeEvents func()
	closeErrors func()

	once sync.Once
}

func newLifecycleCoordinator(
	cancelRun func(),
	cancelCtx func(),
	workerWG *sync.WaitGroup,
	clearQueue func(),
	closeCompletions func(),
	notifierWG *sync.WaitGroup,
	closeEvents func(),
	closeErrors func(),
) *lifecycleCoordinator {
	return &lifecycleCoordinator{
		cancelRun:        cancelRun,
		cancelCtx:        cancelCtx,
		workerWG:         workerWG,
		clearQueue:       clearQueue,
		closeCompletions: closeCompletions,
		notifierWG:       notifierWG,
		closeEvents:      closeEvents,
		closeErrors:      closeErrors,
	}
}

// Close executes the shutdown sequence exactly once:
// 1) request cooperative cancellation of the current run
// 2) cancel the internal context
// 3) wait for the drain goroutine to exit (current Process call finishes)
// 4) clear the queue so no further work can be observed
// 5) close the completions channel to stop the notifier
// 6) wait for the notifier to deliver pending events and exit
// 7) close events, then errors
func (lc *lifecycleCoordinator) Close() {
	lc.once.Do(func() {
		if lc.cancelRun != nil {
			lc.cancelRun()
		}
		if lc.cancelCtx != nil {
			lc.cancelCtx()
		}
		if lc.workerWG != nil {
			lc.workerWG.Wait()
		}
		if lc.clearQueue != nil {
			lc.clearQueue()
		}
		if lc.closeCompletions != nil {
			lc.closeCompletions()
		}
		if lc.notifierWG != nil {
			lc.notifierWG.Wait()
		}
		if lc.closeEvents != nil {
			lc.closeEvents()
		}
		if lc.closeErrors != nil {
			lc.closeErrors()
		}
	})
}
