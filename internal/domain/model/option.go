package model

// Option keys persisted in the option store.
const (
	// OptionOpenAIAPIKey holds the provider API key, encrypted at rest.
	OptionOpenAIAPIKey = "openai_api_key"

	// OptionModelPreference holds the chat model identifier in plaintext.
	OptionModelPreference = "model_preference"
)

// DefaultModel is used when no model preference has been stored.
const DefaultModel = "gpt-3.5-turbo-0125"

// OptionKeys returns every option key owned by the service. Uninstall deletes
// exactly this set.
func OptionKeys() []string {
	return []string{OptionOpenAIAPIKey, OptionModelPreference}
}

// ModelChoice is a selectable entry on the settings page.
type ModelChoice struct {
	ID    string
	Label string
}

// BaselineModels returns the model choices offered even when the provider's
// model list cannot be fetched.
func BaselineModels() []ModelChoice {
	return []ModelChoice{
		{ID: DefaultModel, Label: "GPT-3.5 Turbo (Lower Costs)"},
		{ID: "gpt-4-0125-preview", Label: "GPT-4 Turbo (Better Performance)"},
	}
}
