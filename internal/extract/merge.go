package extract

import "math"

const (
	// minWritable is the smallest magnitude written from a code row.
	minWritable = 100
	// replaceFactor is how much larger a candidate must be to replace a
	// non-total field.
	replaceFactor = 1.5
)

// MergeOutcome describes what the conflict policy did with a candidate.
type MergeOutcome int

const (
	MergeSet MergeOutcome = iota
	MergeReplaced
	MergeKept
)

func (o MergeOutcome) String() string {
	switch o {
	case MergeSet:
		return "set"
	case MergeReplaced:
		return "replaced"
	default:
		return "kept"
	}
}

// mergeValue writes v into f under the conflict policy: an empty field takes
// any value, totals take the larger magnitude, other fields require a
// candidate more than 1.5 times larger. A known value is never cleared.
func mergeValue(r *YearRecord, f Field, v float64) MergeOutcome {
	old, known := r.Get(f)
	if !known {
		r.set(f, v)
		return MergeSet
	}

	threshold := math.Abs(old)
	if !f.IsTotal() {
		threshold *= replaceFactor
	}
	if math.Abs(v) > threshold {
		r.set(f, v)
		return MergeReplaced
	}
	return MergeKept
}
