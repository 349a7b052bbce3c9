package memory

import (
	"time"

	"github.com/riskibarqy/tournament-sync/internal/domain/team"
)

const SeedSeason = 2026

// SeedTeams returns a small set of internal club teams for local runs.
func SeedTeams() []team.Team {
	createdAt := time.Date(2026, time.January, 5, 9, 0, 0, 0, time.UTC)
	number := func(v int) *int { return &v }

	return []team.Team{
		{ID: "seed-smash-h1", ClubID: "club-smash", ClubName: "BC Smash", Name: "BC Smash 1", TeamNumber: number(1), Gender: "M", Season: SeedSeason, CreatedAt: createdAt},
		{ID: "seed-smash-h2", ClubID: "club-smash", ClubName: "BC Smash", Name: "BC Smash 2", TeamNumber: number(2), Gender: "M", Season: SeedSeason, CreatedAt: createdAt},
		{ID: "seed-smash-d1", ClubID: "club-smash", ClubName: "BC Smash", Name: "BC Smash 1", TeamNumber: number(1), Gender: "F", Season: SeedSeason, CreatedAt: createdAt},
		{ID: "seed-smash-g1", ClubID: "club-smash", ClubName: "BC Smash", Name: "BC Smash 1", TeamNumber: number(1), Gender: "MX", Season: SeedSeason, CreatedAt: createdAt},
		{ID: "seed-gentse-h1", ClubID: "club-gentse", ClubName: "Gentse BC", Name: "Gentse BC 1", TeamNumber: number(1), Gender: "M", Season: SeedSeason, CreatedAt: createdAt},
		{ID: "seed-olympia-g1", ClubID: "club-olympia", ClubName: "Olympia", Name: "Olympia 1G", TeamNumber: number(1), Gender: "MX", Season: SeedSeason, CreatedAt: createdAt},
	}
}
