package parallel

// Range is a half-open index range [Start, End).
type Range struct {
	Start, End int
}

// Len returns the number of indices in the range.
func (r Range) Len() int { return r.End - r.Start }

// SplitRange partitions [0, n) into at most parts contiguous, disjoint
// ranges of near-equal size, in ascending order. No range is shorter than
// minLen unless n itself is. Returns nil for n <= 0.
func SplitRange(n, parts, minLen int) []Range {
	if n <= 0 {
		return nil
	}
	if minLen < 1 {
		minLen = 1
	}
	if parts < 1 {
		parts = 1
	}
	if limit := n / minLen; parts > limit {
		parts = max(limit, 1)
	}

	ranges := make([]Range, 0, parts)
	size, rem := n/parts, n%parts
	start := 0
	for i := range parts {
		end := start + size
		if i < rem {
			end++
		}
		ranges = append(ranges, Range{Start: start, End: end})
		start = end
	}
	return ranges
}
