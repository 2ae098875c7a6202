package game

import (
	"time"

	"voxel-world/internal/config"
)

// unfocusedFPS caps the frame rate while the window is in the background.
const unfocusedFPS = 30

// FPSLimiter paces the frame loop to the configured frame rate.
type FPSLimiter struct {
	next time.Time
	now  func() time.Time
}

func NewFPSLimiter() *FPSLimiter {
	return &FPSLimiter{now: time.Now}
}

// Wait blocks until the next frame is due. A limit of 0 disables pacing.
// Uses a hybrid sleep/spin approach for precision on high caps.
func (f *FPSLimiter) Wait(unfocused bool) {
	limit := config.GetFPSLimit()
	if unfocused && (limit <= 0 || limit > unfocusedFPS) {
		limit = unfocusedFPS
	}
	if limit <= 0 {
		f.next = time.Time{}
		return
	}

	target := time.Second / time.Duration(limit)
	if f.next.IsZero() {
		f.next = f.now().Add(target)
	} else {
		f.next = f.next.Add(target)
	}

	for {
		remaining := f.next.Sub(f.now())
		if remaining <= 0 {
			break
		}
		if remaining > 200*time.Microsecond {
			time.Sleep(remaining - 200*time.Microsecond)
		}
	}

	// resync after a hitch instead of racing to catch up
	if late := f.now().Sub(f.next); late > target {
		f.next = f.now().Add(target)
	}
}
