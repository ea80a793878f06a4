package services

import "fmt"

// PointBuckets are the only point values a submission can be awarded.
// Rank extra rules read per-bucket sub-totals, so points are grouped by
// bucket rather than just summed.
var PointBuckets = []int{5, 10, 15, 20, 25}

// PointsTally holds the grand total and the sub-total contributed by
// each point bucket for one member's approved submissions.
type PointsTally struct {
	Total   int         `json:"total"`
	Buckets map[int]int `json:"buckets"`
}

// BucketPoints returns the summed points contributed by the given
// buckets, e.g. BucketPoints(10, 15, 20).
func (t *PointsTally) BucketPoints(buckets ...int) int {
	sum := 0
	for _, b := range buckets {
		sum += t.Buckets[b]
	}
	return sum
}

// TallyPoints groups per-submission award amounts into the fixed point
// buckets. A value outside the bucket set is a contract violation by
// whatever wrote it, so the whole calculation is rejected.
func TallyPoints(amounts []int) (*PointsTally, error) {
	tally := &PointsTally{Buckets: make(map[int]int, len(PointBuckets))}
	for _, b := range PointBuckets {
		tally.Buckets[b] = 0
	}

	for _, amount := range amounts {
		if _, ok := tally.Buckets[amount]; !ok {
			return nil, fmt.Errorf("invalid point value %d: must be one of %v", amount, PointBuckets)
		}
		tally.Buckets[amount] += amount
		tally.Total += amount
	}
	return tally, nil
}

// IsValidPointValue reports whether v is one of the fixed point buckets.
func IsValidPointValue(v int) bool {
	for _, b := range PointBuckets {
		if v == b {
			return true
		}
	}
	return false
}
