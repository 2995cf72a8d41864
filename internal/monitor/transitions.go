package monitor

// Change is one alert channel transition between two summaries.
type Change struct {
	Channel string
	Raised  bool // true = RAISED, false = CLEARED
}

// Diff compares two summaries and returns the transitions to publish.
// A channel raises when it becomes true from any non-true state and clears
// only when it goes from true to false. An unknown verdict on either side
// never emits: a flapping collaborator must not look like a flapping alert.
// prev may be nil (first pass after startup).
func Diff(prev, cur *AlertsSummary) []Change {
	var changes []Change
	for _, ch := range watchChannels {
		var before *bool
		if prev != nil {
			before = ch.get(prev)
		}
		after := ch.get(cur)

		if after == nil {
			continue
		}
		wasTrue := before != nil && *before
		if *after && !wasTrue {
			changes = append(changes, Change{Channel: ch.name, Raised: true})
		}
		if !*after && wasTrue {
			changes = append(changes, Change{Channel: ch.name, Raised: false})
		}
	}
	return changes
}
