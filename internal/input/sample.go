package input

import "time"

// Sample is a single measurement from one device channel: the value read
// and the moment the hardware reported it. Samples are immutable values;
// filtering produces new Samples rather than mutating old ones.
type Sample struct {
	Value     float64   `json:"value"`
	Timestamp time.Time `json:"timestamp"`
}

// NewSample creates a sample with the given value, stamped now (UTC).
// Producers that know the hardware timestamp should construct the
// Sample literal directly instead.
func NewSample(value float64) Sample {
	return Sample{
		Value:     value,
		Timestamp: time.Now().UTC(),
	}
}

// clampTo returns the sample with its value limited to [min, max],
// preserving the original timestamp.
func (s Sample) clampTo(min, max float64) Sample {
	if s.Value > max {
		s.Value = max
	} else if s.Value < min {
		s.Value = min
	}
	return s
}
