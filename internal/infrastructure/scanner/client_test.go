package scanner

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/deds0099/nexaapp/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(url string, attempts int) *Client {
	client := NewClient(ClientConfig{
		WebhookURL:        url,
		Timeout:           5 * time.Second,
		MaxAttempts:       attempts,
		RequestsPerSecond: 1000,
	}, log.New(io.Discard))
	client.backoffBase = time.Millisecond
	return client
}

func TestNewClient_Defaults(t *testing.T) {
	client := NewClient(ClientConfig{WebhookURL: "https://example.com/hook"}, log.New(io.Discard))

	assert.Equal(t, "https://example.com/hook", client.webhookURL)
	assert.Equal(t, 1, client.maxAttempts)
	assert.NotNil(t, client.http)
	assert.NotNil(t, client.rateLimiter)
}

func TestAnalyze_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		data, _ := io.ReadAll(file)

		assert.Equal(t, "lunch.jpg", header.Filename)
		assert.Equal(t, []byte("jpeg-bytes"), data)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"output": {"calorias_totais_kcal": 500}}]`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, 3)

	body, err := client.Analyze(context.Background(), domain.ImageUpload{Filename: "lunch.jpg", Data: []byte("jpeg-bytes")})

	require.NoError(t, err)
	assert.JSONEq(t, `[{"output": {"calorias_totais_kcal": 500}}]`, string(body))
}

func TestAnalyze_ClientErrorNotRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(server.URL, 3)

	body, err := client.Analyze(context.Background(), domain.ImageUpload{Data: []byte("x")})

	assert.Nil(t, body)
	assert.ErrorIs(t, err, domain.ErrTransportFailure)
	assert.Contains(t, err.Error(), "404")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestAnalyze_ServerErrorRetries(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"calorias_totais_kcal": 1}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, 3)

	body, err := client.Analyze(context.Background(), domain.ImageUpload{Data: []byte("x")})

	require.NoError(t, err)
	assert.JSONEq(t, `{"calorias_totais_kcal": 1}`, string(body))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestAnalyze_ServerErrorExhaustsAttempts(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL, 2)

	_, err := client.Analyze(context.Background(), domain.ImageUpload{Data: []byte("x")})

	assert.ErrorIs(t, err, domain.ErrTransportFailure)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestAnalyze_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := newTestClient(url, 1)

	_, err := client.Analyze(context.Background(), domain.ImageUpload{Data: []byte("x")})
	assert.ErrorIs(t, err, domain.ErrTransportFailure)
}

func TestAnalyze_CancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, 3)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Analyze(ctx, domain.ImageUpload{Data: []byte("x")})
	assert.ErrorIs(t, err, domain.ErrTransportFailure)
}
