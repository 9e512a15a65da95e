package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestDoSendsSessionHeader(t *testing.T) {
	var gotSession, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSession = r.Header.Get(SessionHeader)
		gotPath = r.URL.RequestURI()
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte(`{"code":10000}`))
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second, func() string { return "sess-42" })
	resp, err := client.Do(context.Background(), http.MethodGet, "/api/v1/session/latest?x=1", nil, nil)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if gotSession != "sess-42" || gotPath != "/api/v1/session/latest?x=1" {
		t.Fatalf("unexpected request session=%q path=%q", gotSession, gotPath)
	}
	if resp.StatusCode != http.StatusTeapot || string(resp.Body) != `{"code":10000}` {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestDoTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := New(srv.URL, 20*time.Millisecond, nil)
	if _, err := client.Do(context.Background(), http.MethodGet, "/", nil, nil); err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestSetTimeoutIgnoresNonPositive(t *testing.T) {
	client := New("http://x", time.Second, nil)
	client.SetTimeout(0)
	if client.Timeout() != time.Second {
		t.Fatalf("timeout changed to %s", client.Timeout())
	}
}
