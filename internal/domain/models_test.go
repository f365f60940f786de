package domain

import (
	"errors"
	"testing"
	"time"
)

func TestNewCheckRequest_NormalizesAndDerives(t *testing.T) {
	cases := []struct {
		name       string
		in         string
		wantURL    string
		wantScheme string
		wantHost   string
		wantPort   int
	}{
		{"https", "https://example.com", "https://example.com", "https", "example.com", 443},
		{"http", "http://example.com/path", "http://example.com/path", "http", "example.com", 80},
		{"schemeless_gets_https", "example.com", "https://example.com", "https", "example.com", 443},
		{"explicit_port_wins", "https://example.com:8443", "https://example.com:8443", "https", "example.com", 8443},
		{"whitespace_trimmed", "  https://example.com ", "https://example.com", "https", "example.com", 443},
	}
	for _, tc := range cases {
		req, err := NewCheckRequest(tc.in, nil, 0)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if req.URL != tc.wantURL || req.Scheme != tc.wantScheme || req.Host != tc.wantHost || req.Port != tc.wantPort {
			t.Fatalf("%s: got %+v", tc.name, req)
		}
	}
}

func TestNewCheckRequest_RejectsBadInput(t *testing.T) {
	bad := []string{
		"",
		"   ",
		"ftp://example.com",
		"https://",
		"https://example.com:99999",
		"https://example.com:nope",
	}
	for _, in := range bad {
		if _, err := NewCheckRequest(in, nil, 0); !errors.Is(err, ErrInvalidURL) {
			t.Fatalf("%q: want ErrInvalidURL, got %v", in, err)
		}
	}
}

func TestNewCheckRequest_CleansRegions(t *testing.T) {
	req, err := NewCheckRequest("https://example.com", []string{" eu-west-1 ", "", "us-east-1"}, 0)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if len(req.Regions) != 2 || req.Regions[0] != "eu-west-1" || req.Regions[1] != "us-east-1" {
		t.Fatalf("regions wrong: %+v", req.Regions)
	}
}

func TestCheckRequest_Timeout(t *testing.T) {
	req, _ := NewCheckRequest("https://example.com", nil, 2500)
	if req.Timeout() != 2500*time.Millisecond {
		t.Fatalf("timeout wrong: %v", req.Timeout())
	}
	none, _ := NewCheckRequest("https://example.com", nil, 0)
	if none.Timeout() != 0 {
		t.Fatalf("zero timeout should stay zero: %v", none.Timeout())
	}
}

func TestCheckRequest_HostPort(t *testing.T) {
	std, _ := NewCheckRequest("https://example.com", nil, 0)
	if std.HostPort() != "example.com" {
		t.Fatalf("default port should yield bare host, got %q", std.HostPort())
	}
	odd, _ := NewCheckRequest("http://127.0.0.1:8081", nil, 0)
	if odd.HostPort() != "127.0.0.1:8081" {
		t.Fatalf("explicit port should be kept, got %q", odd.HostPort())
	}
}
