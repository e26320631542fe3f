package models

type Intent string

const (
	IntentProductSearch    Intent = "product_search"
	IntentStyleAdvice      Intent = "style_advice"
	IntentPreferenceUpdate Intent = "preference_update"
	IntentQuestion         Intent = "question"
	IntentGeneral          Intent = "general"
	IntentUnknown          Intent = "unknown"
)

// IntentResult is what the intent classifier returns for one message.
type IntentResult struct {
	Intent     Intent            `json:"intent"`
	Confidence float64           `json:"confidence"`
	Extracted  map[string]string `json:"extracted,omitempty"`
}

type Action string

const (
	ActionSearchProduct       Action = "SEARCH_PRODUCT"
	ActionStyleAdvice         Action = "STYLE_ADVICE"
	ActionMemorizePreference  Action = "MEMORIZE_PREFERENCE"
	ActionGeneralConversation Action = "GENERAL_CONVERSATION"
	ActionAskQuestion         Action = "ASK_QUESTION"
)

// ActionFor maps a classified intent to the action the assistant takes.
func ActionFor(intent Intent) Action {
	switch intent {
	case IntentProductSearch:
		return ActionSearchProduct
	case IntentStyleAdvice:
		return ActionStyleAdvice
	case IntentPreferenceUpdate:
		return ActionMemorizePreference
	case IntentQuestion:
		return ActionAskQuestion
	default:
		return ActionGeneralConversation
	}
}

type ChatMessage struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required,max=2000"`
}

// ChatReply is the assistant answer for one turn.
type ChatReply struct {
	Action      Action          `json:"action"`
	Intent      Intent          `json:"intent"`
	Reply       string          `json:"reply"`
	Query       string          `json:"query,omitempty"`
	Products    []ProductRecord `json:"products,omitempty"`
	Source      Source          `json:"source,omitempty"`
	Preferences *Preferences    `json:"preferences,omitempty"`
}
