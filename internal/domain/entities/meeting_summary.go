package entities

// MeetingSummary is the post-meeting report compiled from MeetingState
type MeetingSummary struct {
	DurationPlannedMinutes int               `json:"duration_planned_minutes"`
	DurationActualMinutes  float64           `json:"duration_actual_minutes"`
	OnTime                 bool              `json:"on_time"`
	Topics                 []TopicDuration   `json:"topics"`
	ActionItems            []ActionItem      `json:"action_items"`
	Participation          ParticipationStat `json:"participation"`
	CoachingStats          CoachingStats     `json:"coaching_stats"`
}

// TopicDuration is the time spent on one topic entry
type TopicDuration struct {
	Topic           string  `json:"topic"`
	DurationMinutes float64 `json:"duration_minutes"`
}

// ParticipationStat aggregates speaker turns
type ParticipationStat struct {
	TotalSpeakerTurns       int     `json:"total_speaker_turns"`
	CoacheeTurns            int     `json:"coachee_turns"`
	OtherTurns              int     `json:"other_turns"`
	CoacheeParticipationPct float64 `json:"coachee_participation_pct"`
}

// CoachingStats counts emitted nudges by category
type CoachingStats struct {
	TotalNudges int                   `json:"total_nudges"`
	Breakdown   map[NudgeCategory]int `json:"breakdown"`
}
