package alerts

import "time"

// Evaluate applies two-level hysteresis with a one-window latch to a series
// of rolling means.
//
// The recent window [now-W, now] decides first: no points means Unknown, any
// point at or above the threshold means Unsafe, and all points below the
// reopen value means Safe. When every recent point sits between the reopen
// value and the threshold, the verdict stays Unsafe if the previous window
// [now-2W, now-W] tripped, and is Safe otherwise. W is the evaluation window.
func Evaluate(means Series, now time.Time, cfg ThresholdConfig) Verdict {
	recent := means.Window(now.Add(-cfg.EvaluationWindow), now)
	if len(recent) == 0 {
		return VerdictUnknown
	}

	tripped := false
	allBelowReopen := true
	for _, p := range recent {
		if p.Value >= cfg.Threshold {
			tripped = true
		}
		if p.Value >= cfg.ReopenValue {
			allBelowReopen = false
		}
	}
	if tripped {
		return VerdictUnsafe
	}
	if allBelowReopen {
		return VerdictSafe
	}

	// Every recent point is inside [reopen, threshold): stay latched when the
	// window before this one tripped.
	previous := means.Window(now.Add(-2*cfg.EvaluationWindow), now.Add(-cfg.EvaluationWindow))
	for _, p := range previous {
		if p.Value >= cfg.Threshold {
			return VerdictUnsafe
		}
	}
	return VerdictSafe
}
