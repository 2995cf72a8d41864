package alerts

import (
	"sort"
	"time"
)

// Series is a time-ordered sequence of samples for one channel. Construct
// with NewSeries, which sorts once; every method assumes ascending order.
type Series []Sample

// NewSeries copies the samples and sorts them by time ascending, so
// out-of-order input never corrupts later queries.
func NewSeries(samples []Sample) Series {
	s := make(Series, len(samples))
	copy(s, samples)
	sort.SliceStable(s, func(i, j int) bool { return s[i].Time.Before(s[j].Time) })
	return s
}

// Window returns the sub-series with times in [from, to]. The result shares
// backing storage with s.
func (s Series) Window(from, to time.Time) Series {
	lo := sort.Search(len(s), func(i int) bool { return !s[i].Time.Before(from) })
	hi := sort.Search(len(s), func(i int) bool { return s[i].Time.After(to) })
	if lo >= hi {
		return nil
	}
	return s[lo:hi]
}

// Latest returns the most recent sample, or false when the series is empty.
func (s Series) Latest() (Sample, bool) {
	if len(s) == 0 {
		return Sample{}, false
	}
	return s[len(s)-1], true
}

// RollingMean returns the causal rolling mean of the series: for each sample
// at time t, the mean of every value in (t-window, t]. An empty series yields
// an empty result.
func (s Series) RollingMean(window time.Duration) Series {
	if len(s) == 0 {
		return nil
	}
	out := make(Series, len(s))
	start := 0
	sum := 0.0
	for i, smp := range s {
		sum += smp.Value
		cutoff := smp.Time.Add(-window)
		for !s[start].Time.After(cutoff) {
			sum -= s[start].Value
			start++
		}
		out[i] = Sample{Time: smp.Time, Value: sum / float64(i-start+1)}
	}
	return out
}
