package models

import (
	"encoding/json"
	"testing"
)

func TestAllModels(t *testing.T) {
	models := AllModels()

	if len(models) != 3 {
		t.Errorf("AllModels() returned %d models, expected 3", len(models))
	}

	for _, model := range models {
		if model.Name == "" {
			t.Error("Model name should not be empty")
		}
		if model.Description == "" {
			t.Errorf("Model %s should have a description", model.Name)
		}
	}
}

func TestModelFromName(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"gemini-2.0-flash", "gemini-2.0-flash"},
		{"gemini-2.5-flash", "gemini-2.5-flash"},
		{"gemini-2.5-pro", "gemini-2.5-pro"},
		// Unknown names pass through
		{"gemini-9.9-ultra", "gemini-9.9-ultra"},
		{"", DefaultModel.Name},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := ModelFromName(tt.name)
			if model.Name != tt.expected {
				t.Errorf("ModelFromName(%s) = %v, want %v", tt.name, model.Name, tt.expected)
			}
		})
	}
}

func TestSender(t *testing.T) {
	for _, s := range []Sender{SenderUser, SenderAssistant, SenderPending} {
		if !s.IsValid() {
			t.Errorf("Sender %q should be valid", s)
		}
	}
	if Sender("Vedra").IsValid() {
		t.Error("unknown sender should be invalid")
	}
}

func TestMessageConstructors(t *testing.T) {
	u := UserMessage("t1", "hi")
	if u.Sender != SenderUser || u.Text != "hi" || u.TurnID != "t1" {
		t.Errorf("UserMessage() = %+v", u)
	}

	p := PendingMessage("t1")
	if !p.IsPending() || p.Text != LoadingText || p.TurnID != "t1" {
		t.Errorf("PendingMessage() = %+v", p)
	}

	a := AssistantMessage("hello")
	if a.IsPending() || a.Sender != SenderAssistant || a.TurnID != "" {
		t.Errorf("AssistantMessage() = %+v", a)
	}
}

func TestNewGenerateRequest(t *testing.T) {
	data, err := json.Marshal(NewGenerateRequest("What is Go?"))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	expected := `{"contents":[{"parts":[{"text":"What is Go?"}]}]}`
	if string(data) != expected {
		t.Errorf("body = %s, want %s", data, expected)
	}
}
