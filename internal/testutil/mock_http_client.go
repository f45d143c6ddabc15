package testutil

import (
	"context"
	"net/http"
	"sync"

	ierr "github.com/brokerdesk/brokerdesk/internal/errors"
	"github.com/brokerdesk/brokerdesk/internal/httpclient"
)

// MockHTTPClient serves registered responses keyed by method and URL
type MockHTTPClient struct {
	mu        sync.RWMutex
	responses map[string]*httpclient.Response
	requests  []*httpclient.Request
}

var _ httpclient.Client = (*MockHTTPClient)(nil)

func NewMockHTTPClient() *MockHTTPClient {
	return &MockHTTPClient{
		responses: make(map[string]*httpclient.Response),
	}
}

func (m *MockHTTPClient) RegisterResponse(method, url string, resp *httpclient.Response) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[method+" "+url] = resp
}

// RegisterPDFResponse serves body as a PDF for GET url
func (m *MockHTTPClient) RegisterPDFResponse(url string, body []byte) {
	m.RegisterResponse(http.MethodGet, url, &httpclient.Response{
		StatusCode: http.StatusOK,
		Body:       body,
		Headers:    map[string]string{"Content-Type": "application/pdf"},
	})
}

func (m *MockHTTPClient) Send(ctx context.Context, req *httpclient.Request) (*httpclient.Response, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	resp, ok := m.responses[req.Method+" "+req.URL]
	m.mu.Unlock()

	if !ok {
		return nil, ierr.NewErrorf("no mock response for %s %s", req.Method, req.URL).
			WithHint("Remote request failed").
			Mark(ierr.ErrHTTPClient)
	}
	if resp.StatusCode >= 400 {
		return resp, ierr.NewErrorf("%s %s returned %d", req.Method, req.URL, resp.StatusCode).
			WithReportableDetails(map[string]any{"status_code": resp.StatusCode}).
			Mark(ierr.ErrHTTPClient)
	}
	return resp, nil
}

// Requests returns the requests sent so far
func (m *MockHTTPClient) Requests() []*httpclient.Request {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*httpclient.Request(nil), m.requests...)
}

func (m *MockHTTPClient) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = make(map[string]*httpclient.Response)
	m.requests = nil
}
