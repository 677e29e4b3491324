package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestRestyClientSendsHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "portal-test" {
			t.Errorf("expected default user agent, got %q", got)
		}
		if got := r.Header.Get("Accept-Language"); got != "it-IT" {
			t.Errorf("expected accept-language header, got %q", got)
		}
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	client := NewRestyClientWithOptions(Options{Timeout: time.Second, UserAgent: "portal-test"})
	resp, err := client.Get(context.Background(), srv.URL, map[string]string{"Accept-Language": "it-IT"})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if resp.StatusCode() != http.StatusTeapot || string(resp.Body()) != "ok" {
		t.Fatalf("unexpected response %d %q", resp.StatusCode(), resp.Body())
	}
}

func TestRestyClientRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewRestyClientWithOptions(Options{Timeout: time.Second, RetryCount: 2})
	resp, err := client.Get(context.Background(), srv.URL, nil)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if resp.StatusCode() != http.StatusOK {
		t.Fatalf("expected retry to succeed, got %d", resp.StatusCode())
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 calls, got %d", calls.Load())
	}
}
