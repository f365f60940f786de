package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/ApurboBarua17/Website-status-checker/internal/domain"
)

func main() {
	api := flag.String("api", envOr("API_BASE", "http://localhost:8080"), "base URL of a running checker API")
	rawURL := flag.String("url", "", "site URL to check, e.g. https://example.com")
	regions := flag.String("regions", "", "comma-separated regions; empty checks the API's own region")
	timeoutMS := flag.Int("timeout-ms", 0, "per-region budget override in milliseconds")
	apiKey := flag.String("key", os.Getenv("API_KEY"), "API key, if the server requires one")
	flag.Parse()

	if *rawURL == "" {
		fmt.Fprintln(os.Stderr, "usage: cli -url https://example.com [-regions us-east-1,eu-west-1]")
		os.Exit(2)
	}

	var regionList []string
	for _, r := range strings.Split(*regions, ",") {
		if r = strings.TrimSpace(r); r != "" {
			regionList = append(regionList, r)
		}
	}

	payload := map[string]any{"url": *rawURL}
	if *timeoutMS > 0 {
		payload["timeout_ms"] = *timeoutMS
	}

	if len(regionList) == 0 {
		var report domain.RegionReport
		if err := post(*api+"/check", *apiKey, payload, &report); err != nil {
			fmt.Fprintln(os.Stderr, "check failed:", err)
			os.Exit(1)
		}
		printRegion(report)
		if !report.OverallUp {
			os.Exit(1)
		}
		return
	}

	payload["regions"] = regionList
	var report domain.AggregatedReport
	if err := post(*api+"/check-multi", *apiKey, payload, &report); err != nil {
		fmt.Fprintln(os.Stderr, "check failed:", err)
		os.Exit(1)
	}

	fmt.Printf("%s  consensus=%s  (%d/%d regions up)\n",
		report.Request.URL, report.Consensus, report.RegionsUp, len(report.RegionReports))
	fmt.Println(report.Summary)
	for _, r := range report.RegionReports {
		printRegion(r)
	}
	if report.Consensus == domain.ConsensusDown {
		os.Exit(1)
	}
}

func printRegion(r domain.RegionReport) {
	fmt.Printf("  [%s] %-8s %s  (%.0f ms)\n", r.Region, r.Status, r.Summary, r.DurationMS)
	for _, e := range r.External {
		verdict := "unknown"
		if e.Up != nil {
			verdict = "down"
			if *e.Up {
				verdict = "up"
			}
		}
		cached := ""
		if e.CacheHit {
			cached = " (cached)"
		}
		fmt.Printf("      external %s: %s%s\n", e.Provider, verdict, cached)
	}
}

func post(endpoint, apiKey string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("API returned %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
