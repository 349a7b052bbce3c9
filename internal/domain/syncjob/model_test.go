package syncjob

import "testing"

func TestCanTransition(t *testing.T) {
	t.Parallel()

	cases := []struct {
		from Status
		to   Status
		want bool
	}{
		{StatusPending, StatusInProgress, true},
		{StatusPending, StatusFailed, true},
		{StatusPending, StatusCompleted, false},
		{StatusInProgress, StatusCompleted, true},
		{StatusInProgress, StatusFailed, true},
		{StatusInProgress, StatusPending, false},
		{StatusCompleted, StatusFailed, false},
		{StatusCompleted, StatusInProgress, false},
		{StatusFailed, StatusCompleted, false},
		{StatusFailed, StatusInProgress, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Fatalf("unexpected transition result %s->%s: got=%v want=%v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestPredecessors(t *testing.T) {
	t.Parallel()

	got := Predecessors(StatusFailed)
	if len(got) != 2 || got[0] != StatusPending || got[1] != StatusInProgress {
		t.Fatalf("unexpected predecessors for failed: %v", got)
	}
	if got := Predecessors(StatusPending); len(got) != 0 {
		t.Fatalf("expected no predecessors for pending, got %v", got)
	}
}

func TestTypeValid(t *testing.T) {
	t.Parallel()

	if !TypeStanding.Valid() {
		t.Fatalf("expected standing to be valid")
	}
	if Type("resync").Valid() {
		t.Fatalf("expected unknown type to be invalid")
	}
}
