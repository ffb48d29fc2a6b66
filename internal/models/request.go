package models

// Part is a single piece of prompt content
type Part struct {
	Text string `json:"text"`
}

// Content groups the parts of one prompt
type Content struct {
	Parts []Part `json:"parts"`
}

// GenerateRequest is the generateContent request body
type GenerateRequest struct {
	Contents []Content `json:"contents"`
}

// NewGenerateRequest builds a request whose sole content is prompt
func NewGenerateRequest(prompt string) GenerateRequest {
	return GenerateRequest{
		Contents: []Content{{Parts: []Part{{Text: prompt}}}},
	}
}
