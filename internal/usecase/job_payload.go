package usecase

import (
	"strings"

	"github.com/riskibarqy/tournament-sync/internal/domain/syncjob"
)

// discoveryLaneKey serialises listing runs. They only read local state; the
// per-code discoveries they emit run on their tournament's lane.
const discoveryLaneKey = "*discovery*"

// JobPayload is the input of one job. Each job type has exactly one variant.
type JobPayload interface {
	JobType() syncjob.Type
	laneKey() string
	refs() jobRefs
}

type jobRefs struct {
	TournamentCode string
	EventCode      string
	DrawCode       string
}

// DiscoveryPayload discovers one tournament. With an empty TournamentCode it
// lists recently changed tournaments and emits one DiscoveryPayload per code.
type DiscoveryPayload struct {
	TournamentCode string `json:"tournament_code,omitempty" validate:"omitempty,max=64"`
}

func (DiscoveryPayload) JobType() syncjob.Type { return syncjob.TypeDiscovery }

func (p DiscoveryPayload) laneKey() string {
	if key := normalizeLaneKey(p.TournamentCode); key != "" {
		return key
	}
	return discoveryLaneKey
}

func (p DiscoveryPayload) refs() jobRefs {
	return jobRefs{TournamentCode: strings.TrimSpace(p.TournamentCode)}
}

type CompetitionStructurePayload struct {
	TournamentCode string `json:"tournament_code" validate:"required,max=64"`
	EventCode      string `json:"event_code,omitempty" validate:"omitempty,max=64"`
}

func (CompetitionStructurePayload) JobType() syncjob.Type {
	return syncjob.TypeCompetitionStructure
}

func (p CompetitionStructurePayload) laneKey() string { return normalizeLaneKey(p.TournamentCode) }

func (p CompetitionStructurePayload) refs() jobRefs {
	return jobRefs{TournamentCode: strings.TrimSpace(p.TournamentCode), EventCode: strings.TrimSpace(p.EventCode)}
}

type TournamentStructurePayload struct {
	TournamentCode string `json:"tournament_code" validate:"required,max=64"`
	EventCode      string `json:"event_code,omitempty" validate:"omitempty,max=64"`
}

func (TournamentStructurePayload) JobType() syncjob.Type {
	return syncjob.TypeTournamentStructure
}

func (p TournamentStructurePayload) laneKey() string { return normalizeLaneKey(p.TournamentCode) }

func (p TournamentStructurePayload) refs() jobRefs {
	return jobRefs{TournamentCode: strings.TrimSpace(p.TournamentCode), EventCode: strings.TrimSpace(p.EventCode)}
}

// StandingPayload confirms a draw. EventCode scopes the draw lookup to one
// sub-event; without it the draw code must be unique inside the tournament.
type StandingPayload struct {
	TournamentCode string `json:"tournament_code" validate:"required,max=64"`
	EventCode      string `json:"event_code,omitempty" validate:"omitempty,max=64"`
	DrawCode       string `json:"draw_code" validate:"required,max=64"`
}

func (StandingPayload) JobType() syncjob.Type { return syncjob.TypeStanding }

func (p StandingPayload) laneKey() string { return normalizeLaneKey(p.TournamentCode) }

func (p StandingPayload) refs() jobRefs {
	return jobRefs{
		TournamentCode: strings.TrimSpace(p.TournamentCode),
		EventCode:      strings.TrimSpace(p.EventCode),
		DrawCode:       strings.TrimSpace(p.DrawCode),
	}
}

func normalizeLaneKey(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// JobResult is the outcome of one job. FollowUps are enqueued only after the
// job completed.
type JobResult interface {
	ItemCount() int
	FollowUps() []JobPayload
}

type DiscoveryResult struct {
	Tournaments int      `json:"tournaments"`
	Created     int      `json:"created"`
	NotModified int      `json:"not_modified"`
	Queued      int      `json:"queued,omitempty"`
	EventIDs    []string `json:"event_ids,omitempty"`

	next []JobPayload
}

func (r DiscoveryResult) ItemCount() int          { return r.Tournaments }
func (r DiscoveryResult) FollowUps() []JobPayload { return r.next }

type StructureResult struct {
	EventID        string `json:"event_id,omitempty"`
	SubEvents      int    `json:"sub_events"`
	Draws          int    `json:"draws"`
	Teams          int    `json:"teams"`
	HighMatches    int    `json:"high_matches"`
	MediumMatches  int    `json:"medium_matches"`
	Unmatched      int    `json:"unmatched"`
	ReviewsCreated int    `json:"reviews_created"`
	NoData         bool   `json:"no_data,omitempty"`
	Skipped        string `json:"skipped,omitempty"`
}

func (r StructureResult) ItemCount() int        { return r.SubEvents + r.Draws + r.Teams }
func (StructureResult) FollowUps() []JobPayload { return nil }

type StandingResult struct {
	DrawID  string `json:"draw_id,omitempty"`
	Skipped string `json:"skipped,omitempty"`
}

func (r StandingResult) ItemCount() int {
	if r.DrawID == "" {
		return 0
	}
	return 1
}

func (StandingResult) FollowUps() []JobPayload { return nil }
