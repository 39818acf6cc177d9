package compliance

import (
	"github.com/facebookgo/clock"
)

// startPollingLocked starts the interval scheduler for the current request.
func (t *Tracker) startPollingLocked() {
	t.stopPollingLocked()
	ticker := t.clock.Ticker(t.cfg.PollInterval)
	stopCh := make(chan struct{})
	t.ticker = ticker
	t.stopCh = stopCh

	t.wg.Add(1)
	go t.pollLoop(ticker, stopCh)
	t.logger.Info("Polling started", "request_id", t.requestID, "interval", t.cfg.PollInterval)
}

// stopPollingLocked cancels the scheduler if one is running.
func (t *Tracker) stopPollingLocked() {
	if t.ticker == nil {
		return
	}
	t.ticker.Stop()
	close(t.stopCh)
	t.ticker = nil
	t.stopCh = nil
}

// pollLoop drives Poll on every tick until stopped. Ticks that arrive while
// a poll is in flight are dropped by the ticker.
func (t *Tracker) pollLoop(ticker *clock.Ticker, stopCh chan struct{}) {
	defer t.wg.Done()
	for {
		select {
		case <-stopCh:
			return
		case <-t.ctx.Done():
			return
		case <-ticker.C:
			select {
			case <-stopCh:
				return
			default:
			}
			state, _ := t.Poll(t.ctx)
			if state.Terminal() {
				return
			}
		}
	}
}
