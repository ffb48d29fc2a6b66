// Package api provides the client for the Gemini generative-language REST API.
package api

// GJSON paths for extracting values from generateContent responses.
const (
	PathCandidates = "candidates"

	// Candidate paths (relative to candidate object)
	PathCandText         = "content.parts.0.text"
	PathCandFinishReason = "finishReason"

	PathModelVersion    = "modelVersion"
	PathPromptTokens    = "usageMetadata.promptTokenCount"
	PathCandidateTokens = "usageMetadata.candidatesTokenCount"
	PathTotalTokens     = "usageMetadata.totalTokenCount"

	// Present when the prompt itself was blocked
	PathBlockReason = "promptFeedback.blockReason"

	// Error envelope returned with non-2xx statuses
	PathErrorMessage = "error.message"
	PathErrorStatus  = "error.status"
)

// maxErrorBody bounds the response body kept on an APIError
const maxErrorBody = 4096

// maxResponseBody bounds how much of a successful response is read
const maxResponseBody = 8 << 20
