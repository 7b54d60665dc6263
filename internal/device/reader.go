package device

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Reader is the background half of the scan pipeline: it polls the Channel
// on a fixed short interval, frames bytes into lines, and hands each parsed
// UID to the emit callback.  It never touches UI or session state — the
// callback is expected to be an asynchronous, ordered hand-off to the
// serializing execution context.
//
// Safe to stop via its context or the Stop method.
type Reader struct {
	ch       Channel
	interval time.Duration
	emit     func(uid string)
	logger   *zap.Logger
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewReader creates a reader but does not start it.  Call Start to begin
// the background loop.
func NewReader(ch Channel, interval time.Duration, emit func(uid string), logger *zap.Logger) *Reader {
	if interval <= 0 {
		interval = 10 * time.Millisecond
	}
	return &Reader{
		ch:       ch,
		interval: interval,
		emit:     emit,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Start begins the background polling loop.  With an absent channel the
// scan pipeline is disabled entirely and the loop never runs.  The loop
// exits when ctx is cancelled or Stop is called.
func (r *Reader) Start(ctx context.Context) {
	if !r.ch.Available() {
		r.logger.Info("scan pipeline disabled (no device channel)")
		close(r.done)
		return
	}

	ctx, r.cancel = context.WithCancel(ctx)

	go r.loop(ctx)

	r.logger.Info("scan pipeline started",
		zap.Duration("poll_interval", r.interval))
}

// Stop signals the reader to exit and waits for it to finish.
func (r *Reader) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
	<-r.done
}

func (r *Reader) loop(ctx context.Context) {
	defer close(r.done)

	var framer LineFramer

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, b := range r.ch.Read() {
				line, ok := framer.Feed(b)
				if !ok {
					continue
				}
				r.handleLine(line)
			}
		}
	}
}

func (r *Reader) handleLine(line string) {
	if line == "" {
		return
	}

	uid, ok := ParseScan(line)
	if ok {
		r.emit(uid)
		return
	}

	if IsScanLine(line) {
		// Recognized prefix but unparsable payload: discard, no decision.
		r.logger.Debug("malformed scan line discarded", zap.String("line", line))
		return
	}

	// Passthrough diagnostic from the firmware.
	r.logger.Debug("device message", zap.String("line", line))
}
