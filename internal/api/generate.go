package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"time"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"

	apierrors "github.com/srynk/pulse/internal/errors"
	"github.com/srynk/pulse/internal/models"
)

// GenerateContent sends prompt as the sole content of a generateContent call
// and returns the parsed response. The API key is not checked beforehand; a
// missing key is rejected by the server like any other bad request.
func (c *GeminiClient) GenerateContent(ctx context.Context, prompt string) (*models.ModelOutput, error) {
	if prompt == "" {
		return nil, fmt.Errorf("prompt cannot be empty: %w", apierrors.ErrEmptyInput)
	}

	if c.IsClosed() {
		return nil, apierrors.ErrClientClosed
	}

	model := c.GetModel()
	endpoint := c.endpoint(model)

	if c.apiKey == "" {
		c.warnKeyOnce.Do(func() {
			c.logger.Warn("no API key configured; requests will be rejected",
				"env", models.APIKeyEnv)
		})
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, apierrors.NewNetworkError("rate limit wait", endpoint, err)
		}
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	payload, err := json.Marshal(models.NewGenerateRequest(prompt))
	if err != nil {
		return nil, fmt.Errorf("failed to build payload: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		endpoint+"?key="+url.QueryEscape(c.apiKey),
		bytes.NewReader(payload),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apierrors.NewNetworkError("generate content", endpoint, redactURL(err, endpoint))
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errorBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Debug("generate content rejected",
			"model", model.Name,
			"status", resp.StatusCode,
			"duration", time.Since(start))
		return nil, apierrors.NewAPIErrorWithBody(resp.StatusCode, endpoint, errorMessage(resp.StatusCode, errorBody), string(errorBody))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, apierrors.NewNetworkError("read response", endpoint, redactURL(err, endpoint))
	}

	output, err := parseResponse(body, model.Name)
	if err != nil {
		c.logger.Debug("generate content unusable", "model", model.Name, "error", err)
		return nil, err
	}

	c.logger.Debug("generate content",
		"model", output.ModelVersion,
		"finish_reason", output.FinishReason(),
		"prompt_tokens", output.Usage.PromptTokens,
		"candidate_tokens", output.Usage.CandidateTokens,
		"duration", time.Since(start))

	return output, nil
}

// parseResponse extracts candidates from a generateContent body. A body that
// is not JSON is a ParseError; JSON without reply text is ErrNoContent.
func parseResponse(body []byte, modelName string) (*models.ModelOutput, error) {
	if !gjson.ValidBytes(body) {
		return nil, apierrors.NewParseError("response body is not valid JSON", "")
	}

	root := gjson.ParseBytes(body)

	output := &models.ModelOutput{
		ModelVersion: root.Get(PathModelVersion).String(),
		Usage: models.Usage{
			PromptTokens:    root.Get(PathPromptTokens).Int(),
			CandidateTokens: root.Get(PathCandidateTokens).Int(),
			TotalTokens:     root.Get(PathTotalTokens).Int(),
		},
	}
	if output.ModelVersion == "" {
		output.ModelVersion = modelName
	}

	root.Get(PathCandidates).ForEach(func(_, cand gjson.Result) bool {
		output.Candidates = append(output.Candidates, models.Candidate{
			Text:         cand.Get(PathCandText).String(),
			FinishReason: cand.Get(PathCandFinishReason).String(),
		})
		return true
	})

	if output.Text() == "" {
		reason := "no candidates"
		switch {
		case root.Get(PathBlockReason).Exists():
			reason = "prompt blocked: " + root.Get(PathBlockReason).String()
		case output.FinishReason() != "":
			reason = "finish reason " + output.FinishReason()
		case len(output.Candidates) > 0:
			reason = "candidate has no text"
		}
		return nil, fmt.Errorf("%w: %s", apierrors.ErrNoContent, reason)
	}

	return output, nil
}

// errorMessage picks the server's message out of an error envelope
func errorMessage(status int, body []byte) string {
	if gjson.ValidBytes(body) {
		if msg := gjson.GetBytes(body, PathErrorMessage).String(); msg != "" {
			return msg
		}
		if st := gjson.GetBytes(body, PathErrorStatus).String(); st != "" {
			return st
		}
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return "generate content failed"
}

// redactURL strips the key-bearing URL from transport errors
func redactURL(err error, endpoint string) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		urlErr.URL = endpoint
	}
	return err
}
