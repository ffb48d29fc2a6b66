package models

// Candidate represents a single response candidate
type Candidate struct {
	Text         string
	FinishReason string
}

// Usage carries the token accounting reported with a response
type Usage struct {
	PromptTokens    int64
	CandidateTokens int64
	TotalTokens     int64
}

// ModelOutput represents a parsed generateContent response
type ModelOutput struct {
	Candidates   []Candidate
	ModelVersion string
	Usage        Usage
}

// Text returns the first candidate's text
func (m *ModelOutput) Text() string {
	if m == nil || len(m.Candidates) == 0 {
		return ""
	}
	return m.Candidates[0].Text
}

// FinishReason returns the first candidate's finish reason
func (m *ModelOutput) FinishReason() string {
	if m == nil || len(m.Candidates) == 0 {
		return ""
	}
	return m.Candidates[0].FinishReason
}
