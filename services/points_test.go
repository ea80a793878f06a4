package services

import "testing"

func TestTallyPointsGroupsIntoBuckets(t *testing.T) {
	tally, err := TallyPoints([]int{5, 10, 10, 20, 25, 25})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tally.Total != 95 {
		t.Fatalf("expected total 95, got %d", tally.Total)
	}
	if tally.Buckets[5] != 5 {
		t.Fatalf("expected 5 points in the 5 bucket, got %d", tally.Buckets[5])
	}
	if tally.Buckets[10] != 20 {
		t.Fatalf("expected 20 points in the 10 bucket, got %d", tally.Buckets[10])
	}
	if tally.Buckets[15] != 0 {
		t.Fatalf("expected empty 15 bucket, got %d", tally.Buckets[15])
	}
	if tally.Buckets[25] != 50 {
		t.Fatalf("expected 50 points in the 25 bucket, got %d", tally.Buckets[25])
	}
}

func TestTallyPointsEmptyInput(t *testing.T) {
	tally, err := TallyPoints(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tally.Total != 0 {
		t.Fatalf("expected zero total, got %d", tally.Total)
	}
	for _, b := range PointBuckets {
		if tally.Buckets[b] != 0 {
			t.Fatalf("expected empty bucket %d, got %d", b, tally.Buckets[b])
		}
	}
}

func TestTallyPointsRejectsOutOfSetValues(t *testing.T) {
	for _, bad := range []int{0, -5, 7, 12, 30, 100} {
		if _, err := TallyPoints([]int{10, bad, 20}); err == nil {
			t.Fatalf("expected error for value %d", bad)
		}
	}
}

func TestBucketPoints(t *testing.T) {
	tally, err := TallyPoints([]int{10, 15, 15, 20, 25})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := tally.BucketPoints(10, 15, 20); got != 60 {
		t.Fatalf("expected 60 from the 10/15/20 buckets, got %d", got)
	}
	if got := tally.BucketPoints(5); got != 0 {
		t.Fatalf("expected 0 from the 5 bucket, got %d", got)
	}
}
