package timer

import (
	"time"

	"github.com/verte-zerg/tuidoro/internal/model"
)

// RestoreKind classifies a persisted timer record at startup.
type RestoreKind int

// Restoration outcomes.
const (
	RestoreNone RestoreKind = iota
	RestoreCompleted
	RestoreRunning
	RestorePaused
)

func (k RestoreKind) String() string {
	switch k {
	case RestoreCompleted:
		return "completed"
	case RestoreRunning:
		return "running"
	case RestorePaused:
		return "paused"
	default:
		return "none"
	}
}

// Restoration is what survived from the previous process.
type Restoration struct {
	Kind             RestoreKind
	Mode             model.Mode
	TotalSeconds     int
	RemainingSeconds int
	// Deadline is the persisted end instant of a running restore.
	Deadline time.Time
}

// Completed reports whether the countdown finished while nothing was running.
func (r Restoration) Completed() bool {
	return r.Kind == RestoreCompleted
}

// classify applies the restoration protocol to rec at instant now. The
// second result reports whether the record should be dropped.
func classify(rec model.PersistedTimer, now time.Time) (Restoration, bool) {
	if !rec.Mode.Valid() || rec.TotalSeconds <= 0 || rec.RemainingSeconds < 0 || rec.RemainingSeconds > rec.TotalSeconds {
		return Restoration{}, false
	}
	if rec.IsRunning && rec.TargetEndTime != nil {
		target := *rec.TargetEndTime
		if !now.Before(target) {
			return Restoration{
				Kind:         RestoreCompleted,
				Mode:         rec.Mode,
				TotalSeconds: rec.TotalSeconds,
			}, true
		}
		remaining := ceilSeconds(target.Sub(now))
		if remaining > rec.TotalSeconds {
			remaining = rec.TotalSeconds
		}
		return Restoration{
			Kind:             RestoreRunning,
			Mode:             rec.Mode,
			TotalSeconds:     rec.TotalSeconds,
			RemainingSeconds: remaining,
			Deadline:         target,
		}, false
	}
	if !rec.IsRunning && rec.RemainingSeconds > 0 {
		return Restoration{
			Kind:             RestorePaused,
			Mode:             rec.Mode,
			TotalSeconds:     rec.TotalSeconds,
			RemainingSeconds: rec.RemainingSeconds,
		}, false
	}
	return Restoration{}, false
}

func ceilSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}
