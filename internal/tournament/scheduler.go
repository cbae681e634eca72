package tournament

import (
	"context"
	"time"

	"github.com/rxtech-lab/argo-arena/internal/types"
	"go.uber.org/zap"
)

// Start begins periodic ticking. The first tick runs synchronously before
// Start returns; later ticks run every TickInterval on a background goroutine
// until Stop is called or ctx is done. Starting a running engine is a no-op.
func (e *Engine) Start(ctx context.Context) {
	e.runMu.Lock()

	if e.running {
		e.runMu.Unlock()
		e.log.Warn("Tournament already running")

		return
	}

	e.running = true
	stop := make(chan struct{})
	done := make(chan struct{})
	e.stop = stop
	e.done = done

	e.runMu.Unlock()

	e.setStatus(types.EngineStatusRunning)
	e.log.Info("Tournament started",
		zap.Duration("tick_interval", e.cfg.TickInterval),
		zap.Int("agents", e.AgentCount()),
	)

	if _, err := e.Tick(ctx); err != nil {
		e.log.Warn("Initial tick failed", zap.Error(err))
	}

	go e.loop(ctx, stop, done)
}

func (e *Engine) loop(ctx context.Context, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(e.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			e.markStopped()

			return
		case <-ticker.C:
			// Stop may have raced with the ticker.
			select {
			case <-stop:
				return
			default:
			}

			if _, err := e.Tick(ctx); err != nil {
				e.log.Warn("Tick failed", zap.Error(err))
			}
		}
	}
}

// Stop disarms the scheduler. A tick already in progress runs to completion;
// use Wait to block until the loop has exited. Stopping a stopped engine is a no-op.
func (e *Engine) Stop() {
	e.runMu.Lock()

	if !e.running {
		e.runMu.Unlock()

		return
	}

	e.running = false
	close(e.stop)

	e.runMu.Unlock()

	e.setStatus(types.EngineStatusStopped)
	e.log.Info("Tournament stopped")
}

// markStopped is used when the loop exits because its context ended.
func (e *Engine) markStopped() {
	e.runMu.Lock()

	if !e.running {
		e.runMu.Unlock()

		return
	}

	e.running = false

	e.runMu.Unlock()

	e.setStatus(types.EngineStatusStopped)
	e.log.Info("Tournament stopped: context done")
}

// Wait blocks until the scheduler loop started by the last Start has exited.
func (e *Engine) Wait() {
	e.runMu.Lock()
	done := e.done
	e.runMu.Unlock()

	if done != nil {
		<-done
	}
}

func (e *Engine) IsRunning() bool {
	e.runMu.Lock()
	defer e.runMu.Unlock()

	return e.running
}

func (e *Engine) setStatus(status types.EngineStatus) {
	e.stats.SetStatus(status)

	if err := e.stats.Flush(); err != nil {
		e.log.Warn("Failed to write stats", zap.Error(err))
	}

	cb := e.getCallbacks()
	if cb.OnStatusChange != nil {
		(*cb.OnStatusChange)(status)
	}
}
