package download

import (
	"context"
	"time"
)

// Loop calls tick every interval until ctx is done. dispatch runs tick on
// the goroutine that owns the Service (fyne.DoAndWait in the GUI); nil
// calls it directly.
func Loop(ctx context.Context, interval time.Duration, dispatch func(func()), tick func()) {
	if dispatch == nil {
		dispatch = func(fn func()) { fn() }
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			dispatch(tick)
		}
	}
}
