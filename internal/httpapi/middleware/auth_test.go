package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func do(t *testing.T, mw func(http.Handler) http.Handler, key string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if key != "" {
		req.Header.Set("X-API-Key", key)
	}
	rec := httptest.NewRecorder()
	mw(okHandler).ServeHTTP(rec, req)
	return rec.Code
}

func TestRequireAny(t *testing.T) {
	keys := Keys{Public: []string{"pub_key"}, Admin: []string{"adm_key"}}

	if got := do(t, RequireAny(keys), "pub_key"); got != http.StatusOK {
		t.Fatalf("public key: want 200 got %d", got)
	}
	if got := do(t, RequireAny(keys), "adm_key"); got != http.StatusOK {
		t.Fatalf("admin key: want 200 got %d", got)
	}
	if got := do(t, RequireAny(keys), "wrong"); got != http.StatusUnauthorized {
		t.Fatalf("wrong key: want 401 got %d", got)
	}
	if got := do(t, RequireAny(keys), ""); got != http.StatusUnauthorized {
		t.Fatalf("missing key: want 401 got %d", got)
	}

	// no keys configured means open
	if got := do(t, RequireAny(Keys{}), ""); got != http.StatusOK {
		t.Fatalf("open deployment: want 200 got %d", got)
	}
}

func TestRequireAdmin(t *testing.T) {
	keys := Keys{Public: []string{"pub_key"}, Admin: []string{"adm_key"}}

	if got := do(t, RequireAdmin(keys), "adm_key"); got != http.StatusOK {
		t.Fatalf("admin key: want 200 got %d", got)
	}
	if got := do(t, RequireAdmin(keys), "pub_key"); got != http.StatusForbidden {
		t.Fatalf("public key on admin route: want 403 got %d", got)
	}
	if got := do(t, RequireAdmin(keys), ""); got != http.StatusForbidden {
		t.Fatalf("missing key: want 403 got %d", got)
	}

	if got := do(t, RequireAdmin(Keys{Public: []string{"pub_key"}}), ""); got != http.StatusOK {
		t.Fatalf("no admin keys configured means open, got %d", got)
	}
}

func TestReadAuth_BearerHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer tok123")
	if got := readAuth(req); got != "tok123" {
		t.Fatalf("bearer parse wrong: %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-API-Key", "  key456 ")
	if got := readAuth(req); got != "key456" {
		t.Fatalf("x-api-key parse wrong: %q", got)
	}
}
