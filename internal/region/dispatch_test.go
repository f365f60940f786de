package region

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestHTTPDispatcher_Invoke(t *testing.T) {
	var gotPath, gotKey string
	var gotBody dispatchPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("X-API-Key")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(upReport("eu-west-1"))
	}))
	defer srv.Close()

	d := NewHTTPDispatcher(srv.URL+"/%s", "secret", time.Second)
	req := mustRequest(t, "https://example.com", nil)
	req.TimeoutMS = 9000

	got, err := d.Invoke(context.Background(), "eu-west-1", req)
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if !got.OverallUp || got.Region != "eu-west-1" {
		t.Fatalf("report wrong: %+v", got)
	}
	if !strings.HasPrefix(gotPath, "/eu-west-1") || !strings.HasSuffix(gotPath, "/check") {
		t.Fatalf("endpoint path wrong: %s", gotPath)
	}
	if gotKey != "secret" {
		t.Fatalf("api key not forwarded")
	}
	if gotBody.URL != "https://example.com" || gotBody.TimeoutMS != 9000 {
		t.Fatalf("payload wrong: %+v", gotBody)
	}
}

func TestHTTPDispatcher_Non2xxIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	d := NewHTTPDispatcher(srv.URL+"/%s", "", time.Second)
	if _, err := d.Invoke(context.Background(), "eu-west-1", mustRequest(t, "https://example.com", nil)); err == nil {
		t.Fatalf("502 must surface as an error for the orchestrator to synthesize")
	}
}

func TestHTTPDispatcher_MissingTemplate(t *testing.T) {
	d := NewHTTPDispatcher("", "", time.Second)
	if _, err := d.Invoke(context.Background(), "eu-west-1", mustRequest(t, "https://example.com", nil)); err == nil {
		t.Fatalf("missing endpoint template must fail the invoke")
	}
}

func TestHTTPDispatcher_FillsRegionWhenAbsent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rep := upReport("")
		_ = json.NewEncoder(w).Encode(rep)
	}))
	defer srv.Close()

	d := NewHTTPDispatcher(srv.URL+"/%s", "", time.Second)
	got, err := d.Invoke(context.Background(), "eu-west-1", mustRequest(t, "https://example.com", nil))
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if got.Region != "eu-west-1" {
		t.Fatalf("region should be filled from the request: %q", got.Region)
	}
}
