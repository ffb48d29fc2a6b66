package api

import (
	"io"
	"strings"
	"sync"

	fhttp "github.com/bogdanfinn/fhttp"
)

// mockBody serves canned bytes and remembers whether it was closed
type mockBody struct {
	*strings.Reader
	closed bool
}

func (b *mockBody) Close() error {
	b.closed = true
	return nil
}

// MockHttpClient records requests and answers with a canned response
type MockHttpClient struct {
	Response *fhttp.Response
	Err      error

	mu       sync.Mutex
	requests []*fhttp.Request
	bodies   []string
}

// Do implements HTTPDoer
func (m *MockHttpClient) Do(req *fhttp.Request) (*fhttp.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)
	if req.Body != nil {
		data, _ := io.ReadAll(req.Body)
		m.bodies = append(m.bodies, string(data))
	} else {
		m.bodies = append(m.bodies, "")
	}
	return m.Response, m.Err
}

// LastRequest returns the most recent request and its body
func (m *MockHttpClient) LastRequest() (*fhttp.Request, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return nil, ""
	}
	return m.requests[len(m.requests)-1], m.bodies[len(m.bodies)-1]
}

// RequestCount returns how many requests were sent
func (m *MockHttpClient) RequestCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// NewMockHttpClient creates a new MockHttpClient with a successful response
func NewMockHttpClient(body string, statusCode int) *MockHttpClient {
	return &MockHttpClient{
		Response: &fhttp.Response{
			StatusCode: statusCode,
			Body:       &mockBody{Reader: strings.NewReader(body)},
			Header:     make(fhttp.Header),
		},
	}
}

// NewMockHttpClientWithError creates a new MockHttpClient that returns an error
func NewMockHttpClientWithError(err error) *MockHttpClient {
	return &MockHttpClient{Err: err}
}

// bodyClosed reports whether the canned response body was closed
func (m *MockHttpClient) bodyClosed() bool {
	b, ok := m.Response.Body.(*mockBody)
	return ok && b.closed
}

// replyJSON builds a minimal generateContent response carrying text
func replyJSON(text string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)
	return `{"candidates":[{"content":{"parts":[{"text":"` + r.Replace(text) + `"}],"role":"model"},"finishReason":"STOP"}],` +
		`"usageMetadata":{"promptTokenCount":4,"candidatesTokenCount":7,"totalTokenCount":11},"modelVersion":"gemini-2.0-flash"}`
}
