package memory

import (
	"sync"

	"github.com/riskibarqy/tournament-sync/internal/domain/competition"
	"github.com/riskibarqy/tournament-sync/internal/domain/syncjob"
	"github.com/riskibarqy/tournament-sync/internal/domain/team"
	"github.com/riskibarqy/tournament-sync/internal/domain/teamreview"
	"github.com/riskibarqy/tournament-sync/internal/domain/tournamentteam"
)

// Store is the shared state behind the in-memory repositories. One lock
// covers every table so multi-entity writes are atomic.
type Store struct {
	mu sync.RWMutex

	events    map[string]competition.Event
	subEvents map[string]competition.SubEvent
	draws     map[string]competition.Draw

	teams     map[string]team.Team
	teamOrder []string

	tournamentTeams map[tournamentteam.Key]tournamentteam.Team

	reviews     map[string]teamreview.Review
	reviewOrder []string

	jobLogs  map[string]syncjob.Log
	jobOrder []string
}

func NewStore() *Store {
	return &Store{
		events:          make(map[string]competition.Event),
		subEvents:       make(map[string]competition.SubEvent),
		draws:           make(map[string]competition.Draw),
		teams:           make(map[string]team.Team),
		tournamentTeams: make(map[tournamentteam.Key]tournamentteam.Team),
		reviews:         make(map[string]teamreview.Review),
		jobLogs:         make(map[string]syncjob.Log),
	}
}
