package teammatch

import (
	"math"
	"testing"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"  Bådminton-Club Één, Gent!! ": "badminton club een gent",
		"BC  Gent\tA":                   "bc gent a",
		"Smash/Ghent (2)":               "smash ghent 2",
		"":                              "",
	}
	for input, want := range cases {
		if got := Normalize(input); got != want {
			t.Fatalf("unexpected normalized name for %q: got=%q want=%q", input, got, want)
		}
	}
}

func TestParseTeamNumber(t *testing.T) {
	t.Parallel()

	if got := ParseTeamNumber("BC Gent 2"); got == nil || *got != 2 {
		t.Fatalf("expected team number 2, got %v", got)
	}
	if got := ParseTeamNumber("Smash 3H"); got == nil || *got != 3 {
		t.Fatalf("expected team number 3, got %v", got)
	}
	for _, name := range []string{"BC Gent A", "12", "Gent 1HE"} {
		if got := ParseTeamNumber(name); got != nil {
			t.Fatalf("expected no team number for %q, got %d", name, *got)
		}
	}
}

func TestRank_PrefersExactNameAboveHighThreshold(t *testing.T) {
	t.Parallel()

	matches := Rank(Subject{Name: "BC Gent A", ClubName: "BC Gent"}, []Candidate{
		{TeamID: "y", Name: "BC Gent B"},
		{TeamID: "x", Name: "BC Gent A"},
	})
	if len(matches) != 2 {
		t.Fatalf("unexpected match count: got=%d want=2", len(matches))
	}
	if matches[0].TeamID != "x" {
		t.Fatalf("unexpected best match: got=%s want=x", matches[0].TeamID)
	}
	if matches[0].Score < 0.95 {
		t.Fatalf("expected exact name score >= 0.95, got %v", matches[0].Score)
	}
	if matches[1].Score >= matches[0].Score {
		t.Fatalf("expected y to score below x: x=%v y=%v", matches[0].Score, matches[1].Score)
	}
	if DefaultThresholds().Classify(matches[0].Score) != TierHigh {
		t.Fatalf("expected high tier for %v", matches[0].Score)
	}
}

func TestRank_UnknownTeamStaysBelowMidThreshold(t *testing.T) {
	t.Parallel()

	matches := Rank(Subject{Name: "Unknown BC"}, []Candidate{
		{TeamID: "t-1", Name: "Smash Antwerpen 1"},
		{TeamID: "t-2", Name: "Shuttle Team Gent 2"},
	})
	if len(matches) != 2 {
		t.Fatalf("unexpected match count: got=%d want=2", len(matches))
	}
	for _, item := range matches {
		if DefaultThresholds().Classify(item.Score) != TierNone {
			t.Fatalf("expected %s below mid threshold, got %v", item.TeamID, item.Score)
		}
	}
	if matches[0].Score < matches[1].Score {
		t.Fatalf("expected descending scores: %v", matches)
	}
}

func TestRank_GenderIsHardFilter(t *testing.T) {
	t.Parallel()

	matches := Rank(Subject{Name: "Gent 1", Gender: "Heren"}, []Candidate{
		{TeamID: "women", Name: "Gent 1", Gender: "F"},
		{TeamID: "mixed", Name: "Gent 2", Gender: "MX"},
		{TeamID: "men", Name: "Gent 3", Gender: "M"},
		{TeamID: "unknown", Name: "Gent 4"},
	})

	seen := make(map[string]bool, len(matches))
	for _, item := range matches {
		seen[item.TeamID] = true
	}
	if seen["women"] || seen["mixed"] {
		t.Fatalf("expected other categories to be excluded, got %v", matches)
	}
	if !seen["men"] || !seen["unknown"] {
		t.Fatalf("expected compatible candidates to remain, got %v", matches)
	}
}

func TestRank_TieBreaksByExactNameThenID(t *testing.T) {
	t.Parallel()

	subject := Subject{Name: "Royal Badminton Club Gent 1", ClubName: "RBC"}
	matches := Rank(subject, []Candidate{
		{TeamID: "t-01", Name: "Royal Badminton Club Genk 1", ClubName: "RBC"},
		{TeamID: "t-02", Name: "Royal Badminton Club Gent 1"},
		{TeamID: "t-00", Name: "Royal Badminton Club Gent 1"},
	})
	if len(matches) != 3 {
		t.Fatalf("unexpected match count: got=%d want=3", len(matches))
	}
	for _, item := range matches {
		if math.Abs(item.Score-1) > 1e-9 {
			t.Fatalf("expected all scores clamped to 1, got %v", matches)
		}
	}

	want := []string{"t-00", "t-02", "t-01"}
	for i, id := range want {
		if matches[i].TeamID != id {
			t.Fatalf("unexpected order at %d: got=%s want=%s", i, matches[i].TeamID, id)
		}
	}
}

func TestRank_IsDeterministic(t *testing.T) {
	t.Parallel()

	candidates := []Candidate{
		{TeamID: "c", Name: "Gent 2"},
		{TeamID: "a", Name: "Gent 3"},
		{TeamID: "b", Name: "Gent 4"},
	}
	first := Rank(Subject{Name: "Gent 1"}, candidates)
	for i := 0; i < 10; i++ {
		again := Rank(Subject{Name: "Gent 1"}, candidates)
		for idx := range first {
			if first[idx] != again[idx] {
				t.Fatalf("rank is not deterministic: first=%v again=%v", first, again)
			}
		}
	}
	if first[0].TeamID != "a" {
		t.Fatalf("expected equal scores ordered by id, got %v", first)
	}
}

func TestThresholds(t *testing.T) {
	t.Parallel()

	th := Thresholds{High: 0.9, Mid: 0.7}
	if err := th.Validate(); err != nil {
		t.Fatalf("validate thresholds: %v", err)
	}
	if th.Classify(0.9) != TierHigh || th.Classify(0.7) != TierMedium || th.Classify(0.69) != TierNone {
		t.Fatalf("unexpected classification boundaries")
	}
	if err := (Thresholds{High: 0.5, Mid: 0.7}).Validate(); err == nil {
		t.Fatalf("expected error when high < mid")
	}
	if got := Top([]Match{{TeamID: "a"}, {TeamID: "b"}, {TeamID: "c"}}, 2); len(got) != 2 {
		t.Fatalf("unexpected top length: %d", len(got))
	}
}

func TestTeamDesignator(t *testing.T) {
	t.Parallel()

	two := 2
	tests := []struct {
		name   string
		number *int
		want   string
	}{
		{name: "BC Gent 1", want: "1"},
		{name: "Smash 3H", want: "3"},
		{name: "BC Gent B", want: "b"},
		{name: "BC Gent", want: ""},
		{name: "A", want: ""},
		{name: "BC Gent A", number: &two, want: "2"},
	}
	for _, tt := range tests {
		if got := TeamDesignator(tt.name, tt.number); got != tt.want {
			t.Fatalf("TeamDesignator(%q)=%q want=%q", tt.name, got, tt.want)
		}
	}
}

func TestRank_DifferentDesignatorNeverAccepted(t *testing.T) {
	t.Parallel()

	one, two := 1, 2
	tests := []struct {
		name      string
		subject   Subject
		candidate Candidate
	}{
		{
			name:      "team number",
			subject:   Subject{Name: "BC Gent 1", ClubName: "BC Gent", TeamNumber: &one},
			candidate: Candidate{TeamID: "gent-2", Name: "BC Gent 2", ClubName: "BC Gent", TeamNumber: &two},
		},
		{
			name:      "team letter",
			subject:   Subject{Name: "BC Gent A", ClubName: "BC Gent"},
			candidate: Candidate{TeamID: "gent-b", Name: "BC Gent B", ClubName: "BC Gent"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches := Rank(tt.subject, []Candidate{tt.candidate})
			if len(matches) != 1 {
				t.Fatalf("unexpected match count: got=%d want=1", len(matches))
			}
			got := matches[0]
			if !got.Conflict {
				t.Fatalf("expected designator conflict for %s", tt.candidate.Name)
			}
			if got.Score > DesignatorConflictCap {
				t.Fatalf("unexpected score: got=%v want<=%v", got.Score, DesignatorConflictCap)
			}
			if tier := DefaultThresholds().TierOf(got); tier != TierNone {
				t.Fatalf("unexpected tier: got=%s want=%s", tier, TierNone)
			}
			if tier := (Thresholds{High: 0.4, Mid: 0.3}).TierOf(got); tier != TierNone {
				t.Fatalf("conflict must stay unaccepted under low thresholds, got=%s", tier)
			}
		})
	}
}
