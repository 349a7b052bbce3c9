package tournamentteam

import (
	"testing"
	"time"
)

func TestTeam_HoldsManualDecision(t *testing.T) {
	t.Parallel()

	teamID := "team-1"
	tests := []struct {
		name string
		row  Team
		want bool
	}{
		{name: "manual match", row: Team{MatchType: MatchTypeManual, MatchedTeamID: &teamID, IsMatched: true}, want: true},
		{name: "ignored", row: Team{MatchType: MatchTypeManual}, want: true},
		{name: "manual match lost its team", row: Team{MatchType: MatchTypeManual, IsMatched: true}, want: false},
		{name: "automatic", row: Team{MatchType: MatchTypeAutomaticHigh, MatchedTeamID: &teamID, IsMatched: true}, want: false},
	}
	for _, tt := range tests {
		if got := tt.row.HoldsManualDecision(); got != tt.want {
			t.Fatalf("%s: unexpected result: got=%v want=%v", tt.name, got, tt.want)
		}
	}
}

func TestTeam_ClearMatch(t *testing.T) {
	t.Parallel()

	teamID := "team-1"
	now := time.Now()
	row := Team{MatchType: MatchTypeManual, MatchedTeamID: &teamID, MatchScore: 0.8, MatchedAt: &now, IsMatched: true}
	row.ClearMatch()

	if row.MatchedTeamID != nil || row.MatchedAt != nil || row.IsMatched || row.MatchScore != 0 || row.MatchType != MatchTypeNone {
		t.Fatalf("unexpected row after clear: %+v", row)
	}
}
