package coach

import (
	"fmt"
	"strings"
	"time"

	"github.com/johnquangdev/meeting-coach/internal/domain/entities"
)

// Agenda check statuses
const (
	AgendaChecked  = "success"
	AgendaNoAgenda = "no_agenda"
)

// maxRemainingInNudge caps how many remaining items an off-agenda nudge lists
const maxRemainingInNudge = 3

// AgendaStatus reports agenda coverage for the meeting so far
type AgendaStatus struct {
	Status         string      `json:"status"`
	Message        string      `json:"message,omitempty"`
	OnAgenda       bool        `json:"on_agenda"`
	CurrentTopic   string      `json:"current_topic"`
	CoveredItems   []string    `json:"covered_items"`
	RemainingItems []string    `json:"remaining_items"`
	CoveragePct    float64     `json:"coverage_pct"`
	Nudge          *EmitResult `json:"-"`
}

// CheckAgendaStatus classifies agenda items as covered or remaining and nudges on drift.
// Matching is case-insensitive containment in either direction.
func CheckAgendaStatus(state *entities.MeetingState, now time.Time) AgendaStatus {
	if len(state.AgendaItems) == 0 {
		return AgendaStatus{
			Status:   AgendaNoAgenda,
			Message:  "No agenda was set for this meeting.",
			OnAgenda: true,
		}
	}

	discussed := make([]string, 0, len(state.Topics))
	for _, t := range state.Topics {
		discussed = append(discussed, t.Topic)
	}

	covered := []string{}
	remaining := []string{}
	for _, item := range state.AgendaItems {
		if matchesAny(item, discussed) {
			covered = append(covered, item)
		} else {
			remaining = append(remaining, item)
		}
	}

	onAgenda := true
	if state.CurrentTopic != "" {
		onAgenda = matchesAny(state.CurrentTopic, state.AgendaItems)
	}

	status := AgendaStatus{
		Status:         AgendaChecked,
		OnAgenda:       onAgenda,
		CurrentTopic:   state.CurrentTopic,
		CoveredItems:   covered,
		RemainingItems: remaining,
		CoveragePct:    entities.RoundOneDecimal(float64(len(covered)) / float64(len(state.AgendaItems)) * 100),
	}

	if !onAgenda && state.CurrentTopic != "" {
		listed := remaining
		if len(listed) > maxRemainingInNudge {
			listed = listed[:maxRemainingInNudge]
		}
		message := fmt.Sprintf("The discussion seems off-agenda. Remaining items: %s", strings.Join(listed, ", "))
		result := EmitNudge(state, entities.NudgeTopic, message, entities.PriorityLow, now)
		status.Nudge = &result
	}

	return status
}

// labelsMatch reports whether either label contains the other, ignoring case
func labelsMatch(a, b string) bool {
	a, b = strings.ToLower(a), strings.ToLower(b)
	return strings.Contains(a, b) || strings.Contains(b, a)
}

func matchesAny(label string, candidates []string) bool {
	for _, c := range candidates {
		if labelsMatch(label, c) {
			return true
		}
	}
	return false
}
