package transport

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captured хранит то, что тестовый сервер увидел в запросе.
type captured struct {
	method      string
	query       string
	body        string
	contentType string
}

func newCapturingServer(t *testing.T, response string) (*httptest.Server, <-chan captured) {
	t.Helper()

	requests := make(chan captured, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		requests <- captured{
			method:      r.Method,
			query:       r.URL.RawQuery,
			body:        string(b),
			contentType: r.Header.Get("Content-Type"),
		}
		_, _ = io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)

	return srv, requests
}

func TestHTTPTransport_Get(t *testing.T) {
	srv, requests := newCapturingServer(t, "1")

	body, err := NewHTTPTransport(time.Second).Get(t.Context(), srv.URL+"/track", "data=abc&test=1")
	require.NoError(t, err)

	got := <-requests
	assert.Equal(t, "1", body)
	assert.Equal(t, http.MethodGet, got.method)
	assert.Equal(t, "data=abc&test=1", got.query)
}

func TestHTTPTransport_Post(t *testing.T) {
	srv, requests := newCapturingServer(t, "0")

	body, err := NewHTTPTransport(time.Second).Post(t.Context(), srv.URL+"/track", "data=abc")
	require.NoError(t, err)

	got := <-requests
	assert.Equal(t, "0", body)
	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, contentTypeForm, got.contentType)
	assert.Equal(t, "data=abc", got.body)
	assert.Empty(t, got.query)
}

func TestHTTPTransport_UnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewHTTPTransport(time.Second).Post(t.Context(), srv.URL, "data=abc")
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
}

func TestHTTPTransport_ConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewHTTPTransport(time.Second).Get(t.Context(), url, "data=abc")
	assert.Error(t, err)
}

func TestTrackResource(t *testing.T) {
	assert.Equal(t, "https://api.mixpanel.com/track", Track(""))
	assert.Equal(t, "http://proxy.local/track", Track("http://proxy.local"))
	assert.Equal(t, "http://proxy.local/mp/track", Track("http://proxy.local/mp/"))
}
