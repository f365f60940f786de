// cmd/preflight/main.go
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

func main() {
	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		os.Exit(1)
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	region := strings.TrimSpace(os.Getenv("REGION"))
	defaultRegions := strings.TrimSpace(os.Getenv("DEFAULT_REGIONS"))
	template := strings.TrimSpace(os.Getenv("REGION_ENDPOINT_TEMPLATE"))
	apiAddr := strings.TrimSpace(os.Getenv("ADDR"))
	db := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	pub := strings.TrimSpace(os.Getenv("PUBLIC_API_KEYS"))
	allowed := strings.TrimSpace(os.Getenv("ALLOWED_ORIGINS"))

	if region == "" {
		warn("REGION is empty; this instance will identify as \"local\".")
	} else {
		ok("REGION=" + region)
	}

	// Multi-region needs a dispatch template with exactly one %s slot.
	if hasForeignRegion(defaultRegions, region) {
		switch {
		case template == "":
			fail("DEFAULT_REGIONS set but REGION_ENDPOINT_TEMPLATE is empty (remote regions cannot be dispatched).")
		case strings.Count(template, "%s") != 1:
			fail("REGION_ENDPOINT_TEMPLATE must contain exactly one %s placeholder, e.g. https://checker-%s.example.com")
		default:
			ok("REGION_ENDPOINT_TEMPLATE=" + template)
		}
	}

	if db == "" {
		warn("DATABASE_URL empty — external verdicts are cached per-instance in memory only.")
	} else if !strings.HasPrefix(db, "postgres://") && !strings.HasPrefix(db, "postgresql://") {
		fail("DATABASE_URL does not look like a postgres DSN.")
	} else {
		ok("DATABASE_URL present")
	}

	if pub == "" {
		warn("PUBLIC_API_KEYS empty — the check endpoints are open to anyone who can reach them.")
	} else if strings.Contains(pub, " ") {
		warn("PUBLIC_API_KEYS contains spaces; use comma-separated with no spaces, e.g. key1,key2")
	} else {
		ok("PUBLIC_API_KEYS present")
	}

	if apiAddr == "" {
		warn("ADDR is empty; default 127.0.0.1:8080 will be used.")
	} else {
		ok("ADDR=" + apiAddr)
	}

	if allowed == "" {
		warn("ALLOWED_ORIGINS empty — CORS will allow every origin.")
	} else {
		ok("ALLOWED_ORIGINS=" + allowed)
	}

	checkTimeoutBudgets(warn, ok)

	ok("preflight passed")
}

// hasForeignRegion reports whether the configured default regions name a
// region other than this instance's own.
func hasForeignRegion(defaultRegions, region string) bool {
	for _, r := range strings.Split(defaultRegions, ",") {
		if r = strings.TrimSpace(r); r != "" && r != region {
			return true
		}
	}
	return false
}

// checkTimeoutBudgets warns when a child timeout exceeds its parent's. The
// engine does not enforce this relationship at runtime; it is a deployment
// contract, so it is checked here.
func checkTimeoutBudgets(warn, ok func(string)) {
	get := func(key string, def int) int {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				return n
			}
		}
		return def
	}

	dns := get("DNS_TIMEOUT_MS", 3000)
	port := get("PORT_TIMEOUT_MS", 5000)
	httpT := get("HTTP_TIMEOUT_MS", 10000)
	extOverall := get("EXTERNAL_OVERALL_TIMEOUT_MS", 5000)
	extPer := get("EXTERNAL_TIMEOUT_MS", 3000)
	regionT := get("REGION_TIMEOUT_MS", 15000)
	multi := get("MULTI_TIMEOUT_MS", 20000)

	sane := true
	for name, pair := range map[string][2]int{
		"DNS_TIMEOUT_MS > REGION_TIMEOUT_MS":              {dns, regionT},
		"PORT_TIMEOUT_MS > REGION_TIMEOUT_MS":             {port, regionT},
		"HTTP_TIMEOUT_MS > REGION_TIMEOUT_MS":             {httpT, regionT},
		"EXTERNAL_OVERALL_TIMEOUT_MS > REGION_TIMEOUT_MS": {extOverall, regionT},
		"EXTERNAL_TIMEOUT_MS > EXTERNAL_OVERALL_TIMEOUT_MS": {extPer, extOverall},
		"REGION_TIMEOUT_MS > MULTI_TIMEOUT_MS":              {regionT, multi},
	} {
		if pair[0] > pair[1] {
			warn("timeout budget inverted: " + name)
			sane = false
		}
	}
	if sane {
		ok("timeout budgets nest correctly")
	}
}
