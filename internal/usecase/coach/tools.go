package coach

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/johnquangdev/meeting-coach/internal/domain/entities"
)

// Tool names exposed to the agent
const (
	ToolEmitNudge                 = "emit_nudge"
	ToolEmitParticipationReminder = "emit_participation_reminder"
	ToolEmitTimeWarning           = "emit_time_warning"
	ToolTrackActionItem           = "track_action_item"
	ToolUpdateCurrentTopic        = "update_current_topic"
	ToolLogSpeakerTurn            = "log_speaker_turn"
	ToolCheckAgendaStatus         = "check_agenda_status"
	ToolGenerateMeetingSummary    = "generate_meeting_summary"
)

// ToolNames lists every tool the dispatcher understands
var ToolNames = []string{
	ToolEmitNudge,
	ToolEmitParticipationReminder,
	ToolEmitTimeWarning,
	ToolTrackActionItem,
	ToolUpdateCurrentTopic,
	ToolLogSpeakerTurn,
	ToolCheckAgendaStatus,
	ToolGenerateMeetingSummary,
}

// Dispatch runs one agent tool call against the meeting and returns the tool result.
// Unknown tools and undecodable arguments produce status "error"; nothing is mutated.
func (m *Meeting) Dispatch(name string, args map[string]any) map[string]any {
	switch name {
	case ToolEmitNudge:
		category, err := argString(args, "nudge_type")
		if err != nil {
			return toolError(err)
		}
		message, err := argString(args, "message")
		if err != nil {
			return toolError(err)
		}
		priority, err := argString(args, "priority")
		if err != nil {
			return toolError(err)
		}
		return emitResultMap(m.EmitNudge(entities.NudgeCategory(category), message, entities.NudgePriority(priority)))

	case ToolEmitParticipationReminder:
		minutes, err := argInt(args, "minutes_silent")
		if err != nil {
			return toolError(err)
		}
		return emitResultMap(m.EmitParticipationReminder(minutes))

	case ToolEmitTimeWarning:
		kind, err := argString(args, "warning_type")
		if err != nil {
			return toolError(err)
		}
		minutes, err := argInt(args, "minutes_info")
		if err != nil {
			return toolError(err)
		}
		return emitResultMap(m.EmitTimeWarning(kind, minutes))

	case ToolTrackActionItem:
		assignee, err := argString(args, "assignee")
		if err != nil {
			return toolError(err)
		}
		description, err := argString(args, "description")
		if err != nil {
			return toolError(err)
		}
		deadline, _ := argString(args, "deadline")
		item, result := m.RecordActionItem(assignee, description, deadline)
		return map[string]any{
			"status":       "success",
			"action_item":  item,
			"nudge_status": string(result.Status),
		}

	case ToolUpdateCurrentTopic:
		topic, err := argString(args, "topic")
		if err != nil {
			return toolError(err)
		}
		return map[string]any{
			"status": string(m.UpdateCurrentTopic(topic)),
			"topic":  topic,
		}

	case ToolLogSpeakerTurn:
		speaker, err := argString(args, "speaker_name")
		if err != nil {
			return toolError(err)
		}
		isCoachee, err := argBool(args, "is_user")
		if err != nil {
			return toolError(err)
		}
		m.LogSpeakerTurn(speaker, isCoachee)
		return map[string]any{
			"status":     "success",
			"speaker":    speaker,
			"is_coachee": isCoachee,
		}

	case ToolCheckAgendaStatus:
		status := m.CheckAgendaStatus()
		if status.Status == AgendaNoAgenda {
			return map[string]any{
				"status":  status.Status,
				"message": status.Message,
			}
		}
		return map[string]any{
			"status":          status.Status,
			"on_agenda":       status.OnAgenda,
			"current_topic":   status.CurrentTopic,
			"covered_items":   status.CoveredItems,
			"remaining_items": status.RemainingItems,
			"coverage_pct":    status.CoveragePct,
		}

	case ToolGenerateMeetingSummary:
		return map[string]any{
			"status":  "success",
			"summary": m.CompileSummary(),
		}
	}

	return toolError(fmt.Errorf("unknown tool: %s", name))
}

func emitResultMap(r EmitResult) map[string]any {
	out := map[string]any{"status": string(r.Status)}
	if r.Status == EmitInvalid {
		out["status"] = "error"
	}
	if r.Nudge != nil {
		out["nudge"] = *r.Nudge
	}
	if r.Reason != "" {
		out["reason"] = r.Reason
	}
	return out
}

func toolError(err error) map[string]any {
	return map[string]any{
		"status": "error",
		"reason": err.Error(),
	}
}

func argString(args map[string]any, key string) (string, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return "", fmt.Errorf("missing argument %q", key)
	}
	switch s := v.(type) {
	case string:
		return s, nil
	case fmt.Stringer:
		return s.String(), nil
	}
	return "", fmt.Errorf("argument %q must be a string", key)
}

// argInt accepts JSON numbers and numeric strings
func argInt(args map[string]any, key string) (int, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return 0, fmt.Errorf("missing argument %q", key)
	}
	switch n := v.(type) {
	case float64:
		return int(math.Round(n)), nil
	case float32:
		return int(math.Round(float64(n))), nil
	case int:
		return n, nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, fmt.Errorf("argument %q must be an integer: %w", key, err)
		}
		return i, nil
	}
	return 0, fmt.Errorf("argument %q must be an integer", key)
}

func argBool(args map[string]any, key string) (bool, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return false, nil
	}
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		parsed, err := strconv.ParseBool(b)
		if err != nil {
			return false, fmt.Errorf("argument %q must be a boolean: %w", key, err)
		}
		return parsed, nil
	}
	return false, fmt.Errorf("argument %q must be a boolean", key)
}
