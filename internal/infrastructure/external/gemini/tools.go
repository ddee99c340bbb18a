package gemini

import (
	"google.golang.org/genai"

	"github.com/johnquangdev/meeting-coach/internal/usecase/coach"
)

func str(description string, enum ...string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeString, Description: description, Enum: enum}
}

// ToolDeclarations describes every coaching tool to the model
func ToolDeclarations() []*genai.FunctionDeclaration {
	return []*genai.FunctionDeclaration{
		{
			Name:        coach.ToolEmitNudge,
			Description: "Send a short coaching nudge to the user. Rate limited to one every 2 minutes unless priority is high.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"nudge_type": str("Kind of nudge",
						"participation", "time", "action_item", "topic", "decision", "summary_suggestion"),
					"message":  str("The nudge text, one short sentence"),
					"priority": str("Urgency of the nudge", "low", "medium", "high"),
				},
				Required: []string{"nudge_type", "message", "priority"},
			},
		},
		{
			Name:        coach.ToolEmitParticipationReminder,
			Description: "Remind the user to contribute after a long silence.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"minutes_silent": {Type: genai.TypeInteger, Description: "Minutes since the user last spoke"},
				},
				Required: []string{"minutes_silent"},
			},
		},
		{
			Name:        coach.ToolEmitTimeWarning,
			Description: "Warn the user about remaining time, overtime or a long running topic.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"warning_type": str("Kind of warning", coach.TimeWarningRemaining, coach.TimeWarningOvertime, "topic"),
					"minutes_info": {Type: genai.TypeInteger, Description: "Minutes remaining, over, or spent on the topic"},
				},
				Required: []string{"warning_type", "minutes_info"},
			},
		},
		{
			Name:        coach.ToolTrackActionItem,
			Description: "Record an action item mentioned in the meeting.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"assignee":    str("Who owns the action item"),
					"description": str("What needs to be done"),
					"deadline":    str("When it is due, if mentioned"),
				},
				Required: []string{"assignee", "description"},
			},
		},
		{
			Name:        coach.ToolUpdateCurrentTopic,
			Description: "Record that the discussion moved to a new topic.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"topic": str("Short label for the topic now being discussed"),
				},
				Required: []string{"topic"},
			},
		},
		{
			Name:        coach.ToolLogSpeakerTurn,
			Description: "Log that someone started speaking.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"speaker_name": str("Name or label of the speaker"),
					"is_user":      {Type: genai.TypeBoolean, Description: "True when the speaker is the coached user"},
				},
				Required: []string{"speaker_name", "is_user"},
			},
		},
		{
			Name:        coach.ToolCheckAgendaStatus,
			Description: "Compare the discussion so far with the agenda.",
			Parameters:  &genai.Schema{Type: genai.TypeObject, Properties: map[string]*genai.Schema{}},
		},
		{
			Name:        coach.ToolGenerateMeetingSummary,
			Description: "Compile the final meeting summary. Call once when the meeting ends.",
			Parameters:  &genai.Schema{Type: genai.TypeObject, Properties: map[string]*genai.Schema{}},
		},
	}
}
