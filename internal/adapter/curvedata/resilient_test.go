package curvedata

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func testClientConfig() ResilientClientConfig {
	return ResilientClientConfig{
		EnableCircuitBreaker: false,
		MaxRetries:           3,
		InitialInterval:      time.Millisecond,
		MaxInterval:          5 * time.Millisecond,
	}
}

func TestResilientClientRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewResilientClient(5*time.Second, testClientConfig())
	req, _ := http.NewRequest(http.MethodGet, server.URL, nil)

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	resp.Body.Close()

	if got := calls.Load(); got != 3 {
		t.Errorf("server called %d times, want 3 (two retries)", got)
	}
}

func TestResilientClientDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewResilientClient(5*time.Second, testClientConfig())
	req, _ := http.NewRequest(http.MethodGet, server.URL, nil)

	if _, err := client.Do(req); err == nil {
		t.Fatal("expected an error for HTTP 404")
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("server called %d times, want 1 (no retries on 4xx)", got)
	}
}

func TestResilientClientCircuitOpens(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	config := testClientConfig()
	config.EnableCircuitBreaker = true
	config.MaxFailures = 2
	config.CircuitTimeout = time.Minute
	config.MaxRetries = 0

	client := NewResilientClient(5*time.Second, config)

	// Trip the breaker.
	for i := 0; i < 3; i++ {
		req, _ := http.NewRequest(http.MethodGet, server.URL, nil)
		client.Do(req) //nolint:errcheck // failures are the point
	}

	req, _ := http.NewRequest(http.MethodGet, server.URL, nil)
	_, err := client.Do(req)
	if err == nil {
		t.Fatal("expected the open circuit to reject the request")
	}
}

func TestDefaultResilientClientConfigEnvOverride(t *testing.T) {
	t.Setenv("CURVE_FETCH_RETRY_MAX_ATTEMPTS", "7")
	t.Setenv("CURVE_FETCH_CIRCUIT_BREAKER_ENABLED", "false")

	config := DefaultResilientClientConfig()
	if config.MaxRetries != 7 {
		t.Errorf("MaxRetries = %d, want 7", config.MaxRetries)
	}
	if config.EnableCircuitBreaker {
		t.Error("EnableCircuitBreaker = true, want false from env")
	}
}
