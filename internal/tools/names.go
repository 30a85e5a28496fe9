package tools

// Tool vocabulary. Plan templates and policy rules reference tools by these
// names; the registry decides which get real implementations and which stay
// stubbed.
const (
	NameAskQuestion        = "ask_question"
	NameIdentifyLeadEmail  = "identify_lead_email"
	NameCreateRecord       = "create_record"
	NameCreateReminder     = "create_reminder"
	NameFetchKnowledge     = "fetch_knowledge"
	NameCheckCalendar      = "check_calendar"
	NameExtractActionItems = "extract_action_items"
	NameGenerateSummary    = "generate_summary"
	NameGenerateSOP        = "generate_sop"

	NameSendEmail        = "send_email"
	NameSendSMS          = "send_sms"
	NameSendChat         = "send_chat"
	NameAPIPost          = "api_post"
	NameSendNotification = "send_notification"

	NameDeleteData     = "delete_data"
	NameBulkUpdate     = "bulk_update"
	NameCreatePayment  = "create_payment"
	NamePublishContent = "publish_content"
)
