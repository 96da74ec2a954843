package httputil

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeResponse(status int, body string) *http.Response {
	u, _ := url.Parse("https://api.hevyapp.com/v1/routines/r1")
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Request:    &http.Request{URL: u},
	}
}

func TestErrorFromResponse_SuccessIsNil(t *testing.T) {
	assert.NoError(t, ErrorFromResponse(makeResponse(200, `{"ok":true}`)))
	assert.NoError(t, ErrorFromResponse(makeResponse(204, "")))
}

func TestErrorFromResponse_CapturesStatusAndBody(t *testing.T) {
	err := ErrorFromResponse(makeResponse(429, `{"error":"rate limited"}`))
	require.Error(t, err)

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 429, httpErr.StatusCode)
	assert.Contains(t, httpErr.Body, "rate limited")
	assert.Contains(t, httpErr.URL, "/v1/routines/r1")
	assert.Contains(t, err.Error(), "429")
}

func TestErrorFromResponse_TruncatesLongBodies(t *testing.T) {
	long := strings.Repeat("x", MaxErrorBodySize*2)
	err := ErrorFromResponse(makeResponse(500, long))

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Len(t, httpErr.Body, MaxErrorBodySize+3) // "..." suffix
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"nil", nil, false},
		{"server error", &HTTPError{StatusCode: 500}, true},
		{"bad gateway", &HTTPError{StatusCode: 502}, true},
		{"rate limited", &HTTPError{StatusCode: 429}, true},
		{"bad request", &HTTPError{StatusCode: 400}, false},
		{"unauthorized", &HTTPError{StatusCode: 401}, false},
		{"not found", &HTTPError{StatusCode: 404}, false},
		{"wrapped http error", fmt.Errorf("update: %w", &HTTPError{StatusCode: 503}), true},
		{"transport error", errors.New("connection reset"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.retryable, IsRetryable(tt.err))
		})
	}
}
