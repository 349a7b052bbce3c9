package team

import (
	"fmt"
	"strings"
	"time"
)

// Team is an internal club team that external teams are matched against.
type Team struct {
	ID         string
	ClubID     string
	ClubName   string
	Name       string
	TeamNumber *int
	Gender     string
	Season     int
	CreatedAt  time.Time
}

func (t Team) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("team id is required")
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("team name is required")
	}
	if t.Season <= 0 {
		return fmt.Errorf("team season must be > 0")
	}

	return nil
}

// CandidateQuery scopes the internal teams considered for one external team.
// An empty ClubName means the whole season.
type CandidateQuery struct {
	Season   int
	ClubName string
}
