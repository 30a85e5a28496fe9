package plan

import (
	"github.com/veloracrm/spade/internal/intent"
	"github.com/veloracrm/spade/internal/tools"
)

// templates maps each intent to its fixed plan. This is a lookup table, not
// a planner: step order and tool names are static per intent, and inputs are
// hydrated later by the processor.
var templates = map[intent.Intent][]Step{
	intent.CreateLead: {
		{
			Description:     "Identify the lead's email address",
			Tool:            tools.NameIdentifyLeadEmail,
			SuccessCriteria: "Email address extracted or marked missing",
		},
		{
			Description:     "Create the lead record",
			Tool:            tools.NameCreateRecord,
			Inputs:          map[string]any{"record_type": "lead"},
			SuccessCriteria: "Lead record exists in the CRM",
		},
		{
			Description:     "Send a welcome email to the lead",
			Tool:            tools.NameSendEmail,
			SuccessCriteria: "Welcome email delivered",
		},
	},
	intent.CreateTask: {
		{
			Description:     "Create the task record",
			Tool:            tools.NameCreateRecord,
			Inputs:          map[string]any{"record_type": "task"},
			SuccessCriteria: "Task record exists in the CRM",
		},
		{
			Description:     "Schedule a reminder for the task",
			Tool:            tools.NameCreateReminder,
			SuccessCriteria: "Reminder is queued",
		},
		{
			Description:     "Attach related knowledge to the task",
			Tool:            tools.NameFetchKnowledge,
			SuccessCriteria: "Relevant snippets linked to the task",
		},
	},
	intent.ScheduleMeeting: {
		{
			Description:     "Check calendar availability",
			Tool:            tools.NameCheckCalendar,
			SuccessCriteria: "Open slot identified",
		},
		{
			Description:     "Create the meeting record",
			Tool:            tools.NameCreateRecord,
			Inputs:          map[string]any{"record_type": "meeting"},
			SuccessCriteria: "Meeting record exists in the CRM",
		},
		{
			Description:     "Notify the attendees",
			Tool:            tools.NameSendNotification,
			SuccessCriteria: "Attendees notified of the proposed time",
		},
	},
	intent.ProcessTranscript: {
		{
			Description:     "Extract action items from the transcript",
			Tool:            tools.NameExtractActionItems,
			SuccessCriteria: "Action items captured",
		},
		{
			Description:     "Identify participant email addresses",
			Tool:            tools.NameIdentifyLeadEmail,
			SuccessCriteria: "Participant emails captured or marked missing",
		},
		{
			Description:     "Create follow-up task records",
			Tool:            tools.NameCreateRecord,
			Inputs:          map[string]any{"record_type": "task"},
			SuccessCriteria: "Follow-up tasks exist in the CRM",
		},
		{
			Description:     "Summarize the conversation",
			Tool:            tools.NameGenerateSummary,
			SuccessCriteria: "Summary attached to the transcript",
		},
	},
	intent.CreateSOP: {
		{
			Description:     "Gather related process knowledge",
			Tool:            tools.NameFetchKnowledge,
			SuccessCriteria: "Background material collected",
		},
		{
			Description:     "Draft the standard operating procedure",
			Tool:            tools.NameGenerateSOP,
			SuccessCriteria: "SOP draft produced",
		},
		{
			Description:     "Publish the SOP",
			Tool:            tools.NamePublishContent,
			SuccessCriteria: "SOP visible in the shared space",
		},
	},
	intent.Unknown: {
		{
			Description:     "Ask a clarifying question",
			Tool:            tools.NameAskQuestion,
			SuccessCriteria: "User provides additional detail",
		},
	},
}

// Build returns a fresh copy of the plan for the given intent. Unrecognized
// intents get the clarification plan.
func Build(it intent.Intent) Plan {
	steps, ok := templates[it]
	if !ok {
		steps = templates[intent.Unknown]
	}

	out := make([]Step, len(steps))
	for i, s := range steps {
		inputs := make(map[string]any, len(s.Inputs))
		for k, v := range s.Inputs {
			inputs[k] = v
		}
		s.Inputs = inputs
		out[i] = s
	}
	return Plan{Steps: out}
}
