package teammatch

import (
	"fmt"
	"math"
	"sort"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

const (
	ClubBonus       = 0.05
	TeamNumberBonus = 0.05

	// DesignatorConflictCap bounds the score of a candidate whose team
	// designator differs from the subject's, e.g. "BC Gent 1" against
	// "BC Gent 2".
	DesignatorConflictCap = 0.5
)

// Subject is the external team being matched.
type Subject struct {
	Name       string
	ClubName   string
	Gender     string
	TeamNumber *int
}

// Candidate is an internal team the subject may match.
type Candidate struct {
	TeamID     string
	Name       string
	ClubName   string
	Gender     string
	TeamNumber *int
}

type Match struct {
	TeamID    string
	Score     float64
	NameScore float64
	ExactName bool
	// Conflict is set when both sides name a team designator and they
	// differ. Such a match is never accepted automatically.
	Conflict bool
}

// Rank scores every compatible candidate and returns them best first.
// Candidates of another gender category are excluded, whatever their name.
// Ties are broken by exact normalized name, then by team id.
// A candidate carrying a different team designator than the subject scores
// at most DesignatorConflictCap.
func Rank(subject Subject, candidates []Candidate) []Match {
	subjectName := Normalize(subject.Name)
	subjectClub := Normalize(subject.ClubName)
	subjectNumber := subject.TeamNumber
	if subjectNumber == nil {
		subjectNumber = ParseTeamNumber(subject.Name)
	}
	subjectDesignator := TeamDesignator(subject.Name, subjectNumber)

	out := make([]Match, 0, len(candidates))
	for _, candidate := range candidates {
		if !GenderCompatible(subject.Gender, candidate.Gender) {
			continue
		}

		candidateName := Normalize(candidate.Name)
		nameScore := similarity(subjectName, candidateName)
		score := nameScore

		if subjectClub != "" && subjectClub == Normalize(candidate.ClubName) {
			score += ClubBonus
		}

		candidateNumber := candidate.TeamNumber
		if candidateNumber == nil {
			candidateNumber = ParseTeamNumber(candidate.Name)
		}
		if subjectNumber != nil && candidateNumber != nil && *subjectNumber == *candidateNumber {
			score += TeamNumberBonus
		}

		candidateDesignator := TeamDesignator(candidate.Name, candidateNumber)
		conflict := subjectDesignator != "" && candidateDesignator != "" && subjectDesignator != candidateDesignator
		if conflict {
			score = math.Min(score, DesignatorConflictCap)
		}

		out = append(out, Match{
			TeamID:    candidate.TeamID,
			Score:     clamp(score),
			NameScore: nameScore,
			ExactName: subjectName != "" && subjectName == candidateName,
			Conflict:  conflict,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		if out[i].ExactName != out[j].ExactName {
			return out[i].ExactName
		}
		return out[i].TeamID < out[j].TeamID
	})

	return out
}

// Top returns at most n leading matches.
func Top(matches []Match, n int) []Match {
	if n <= 0 || len(matches) <= n {
		return matches
	}
	return matches[:n]
}

func similarity(left, right string) float64 {
	if left == "" || right == "" {
		return 0
	}
	if left == right {
		return 1
	}

	longest := utf8.RuneCountInString(left)
	if n := utf8.RuneCountInString(right); n > longest {
		longest = n
	}
	distance := levenshtein.ComputeDistance(left, right)
	return clamp(1 - float64(distance)/float64(longest))
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

type Tier string

const (
	TierHigh   Tier = "high"
	TierMedium Tier = "medium"
	TierNone   Tier = "none"
)

// Thresholds decide how a best score is accepted. Scores at or above High are
// accepted automatically with high confidence, scores in [Mid, High) with
// medium confidence, anything lower goes to human review.
type Thresholds struct {
	High float64
	Mid  float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{High: 0.9, Mid: 0.75}
}

func (t Thresholds) Validate() error {
	if t.Mid <= 0 || t.Mid > 1 {
		return fmt.Errorf("mid threshold must be in (0,1], got %v", t.Mid)
	}
	if t.High < t.Mid || t.High > 1 {
		return fmt.Errorf("high threshold must be in [mid,1], got %v", t.High)
	}
	return nil
}

// TierOf classifies a ranked match. A designator conflict is never
// accepted, whatever the thresholds.
func (t Thresholds) TierOf(m Match) Tier {
	if m.Conflict {
		return TierNone
	}
	return t.Classify(m.Score)
}

func (t Thresholds) Classify(score float64) Tier {
	switch {
	case score >= t.High:
		return TierHigh
	case score >= t.Mid:
		return TierMedium
	default:
		return TierNone
	}
}
