package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cosmozoom/tilegate/domain/tile"
)

func TestFetch_Success(t *testing.T) {
	payload := []byte{0xFF, 0xD8, 0xFF, 0xE0} // JPEG magic
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write(payload)
	}))
	defer srv.Close()

	c := New(Config{UserAgent: "tilegate-test"})
	defer c.Close()

	out := c.Fetch(context.Background(), srv.URL+"/tile.jpg", 5*time.Second)
	if out.Kind != tile.OutcomeSuccess {
		t.Fatalf("kind = %s, want success (err: %v)", out.Kind, out.Err)
	}
	if out.StatusCode != 200 {
		t.Errorf("status = %d, want 200", out.StatusCode)
	}
	if out.ContentType != "image/jpeg" {
		t.Errorf("content type = %s, want image/jpeg", out.ContentType)
	}
	if string(out.Body) != string(payload) {
		t.Errorf("body = %v, want %v", out.Body, payload)
	}
}

func TestFetch_UpstreamHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such tile", http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(Config{})
	defer c.Close()

	out := c.Fetch(context.Background(), srv.URL, 5*time.Second)
	if out.Kind != tile.OutcomeHTTPError {
		t.Fatalf("kind = %s, want http_error", out.Kind)
	}
	if out.StatusCode != 404 {
		t.Errorf("status = %d, want 404", out.StatusCode)
	}
}

func TestFetch_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release // hold the connection open past the deadline
	}))
	defer srv.Close()
	defer close(release)

	c := New(Config{})
	defer c.Close()

	start := time.Now()
	out := c.Fetch(context.Background(), srv.URL, 100*time.Millisecond)
	elapsed := time.Since(start)

	if out.Kind != tile.OutcomeTimeout {
		t.Fatalf("kind = %s, want timeout (err: %v)", out.Kind, out.Err)
	}
	if elapsed > 2*time.Second {
		t.Errorf("timeout took %v, want bounded overhead past 100ms", elapsed)
	}
}

func TestFetch_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	c := New(Config{})
	defer c.Close()

	out := c.Fetch(context.Background(), srv.URL, time.Second)
	if out.Kind != tile.OutcomeNetworkError {
		t.Fatalf("kind = %s, want network_error", out.Kind)
	}
	if out.Err == nil {
		t.Error("expected a cause for network error")
	}
}

func TestFetch_ClientDisconnectAborts(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
	}))
	defer srv.Close()
	defer close(release)

	c := New(Config{})
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan tile.Outcome, 1)
	go func() {
		done <- c.Fetch(ctx, srv.URL, 30*time.Second)
	}()

	<-entered
	cancel() // simulate the client going away

	select {
	case out := <-done:
		if out.Kind != tile.OutcomeNetworkError {
			t.Errorf("kind = %s, want network_error for canceled fetch", out.Kind)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("fetch was not aborted after cancellation")
	}
}
