package feed

import (
	"sync"
	"testing"
)

func TestCapTracker_EnforcesConfiguredCap(t *testing.T) {
	tracker := NewCapTracker(map[string]int{"Busy Feed": 2})

	admitted := 0
	for i := 0; i < 5; i++ {
		if tracker.Allow("Busy Feed") {
			admitted++
		}
	}

	if admitted != 2 {
		t.Errorf("Expected exactly 2 admissions for cap 2, got %d", admitted)
	}
	if tracker.Count("Busy Feed") != 2 {
		t.Errorf("Expected running count 2, got %d", tracker.Count("Busy Feed"))
	}
}

func TestCapTracker_UnconfiguredSourceIsUnbounded(t *testing.T) {
	tracker := NewCapTracker(map[string]int{})

	if tracker.Cap("anything") != UnboundedCap {
		t.Errorf("Unconfigured cap must be the unbounded sentinel, got %d", tracker.Cap("anything"))
	}

	for i := 0; i < 1000; i++ {
		if !tracker.Allow("anything") {
			t.Fatalf("Admission %d unexpectedly rejected for unconfigured source", i)
		}
	}
}

func TestCapTracker_ZeroCapDropsEverything(t *testing.T) {
	tracker := NewCapTracker(map[string]int{"Muted": 0})

	if tracker.Allow("Muted") {
		t.Error("Explicit zero cap must admit nothing")
	}
}

func TestCapTracker_KeysAreIndependent(t *testing.T) {
	tracker := NewCapTracker(map[string]int{"A": 1, "B": 1})

	if !tracker.Allow("A") {
		t.Error("First admission for A must pass")
	}
	if !tracker.Allow("B") {
		t.Error("A's count must not affect B")
	}
	if tracker.Allow("A") {
		t.Error("Second admission for A must be rejected")
	}
}

func TestCapTracker_ConcurrentAdmissions(t *testing.T) {
	tracker := NewCapTracker(map[string]int{"Shared": 50})

	var wg sync.WaitGroup
	admitted := make(chan struct{}, 200)
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				if tracker.Allow("Shared") {
					admitted <- struct{}{}
				}
			}
		}()
	}
	wg.Wait()
	close(admitted)

	total := 0
	for range admitted {
		total++
	}
	if total != 50 {
		t.Errorf("Expected exactly 50 concurrent admissions, got %d", total)
	}
}
