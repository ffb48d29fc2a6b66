// Package models contains data types and constants for the Gemini generative-language API.
package models

// Endpoints for the generative-language API
const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	APIVersion     = "v1beta"
	// GenerateMethod is appended to models/{model}
	GenerateMethod = "generateContent"
)

// ReplyPath is the gjson path of the reply text inside a generateContent response
const ReplyPath = "candidates.0.content.parts.0.text"

// Texts shown in place of a reply
const (
	LoadingText       = "Loading..."
	NoResponseText    = "Oops, no response."
	NetworkErrorText  = "Network error. Try again."
	AssistantName     = "Pulse"
	DefaultModelName  = "gemini-2.0-flash"
	APIKeyEnv         = "GEMINI_API_KEY"
	FallbackAPIKeyEnv = "PULSE_API_KEY"
)

// Model describes a model that can serve generateContent
type Model struct {
	Name        string
	Description string
}

// Available models
var (
	Model20Flash = Model{
		Name:        "gemini-2.0-flash",
		Description: "Fast general-purpose model",
	}

	Model25Flash = Model{
		Name:        "gemini-2.5-flash",
		Description: "Balanced speed and reasoning",
	}

	Model25Pro = Model{
		Name:        "gemini-2.5-pro",
		Description: "Strongest reasoning, slower",
	}

	// DefaultModel is the recommended default
	DefaultModel = Model20Flash
)

// AllModels returns every known model in display order
func AllModels() []Model {
	return []Model{Model20Flash, Model25Flash, Model25Pro}
}

// ModelFromName returns the model with the given name. Unknown names are
// passed through unchanged so newer models work without a release.
func ModelFromName(name string) Model {
	if name == "" {
		return DefaultModel
	}
	for _, m := range AllModels() {
		if m.Name == name {
			return m
		}
	}
	return Model{Name: name}
}
