// Command smoke probes a running directory-api instance and verifies the
// public contract: expected status codes and the response envelope shape.
// It exits non-zero when any critical check fails, so deploy pipelines can
// gate on it.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"
)

type check struct {
	Name       string
	Method     string
	Path       string
	WantStatus int
	WantData   bool
	Critical   bool
}

type result struct {
	Check    check
	Status   int
	Pass     bool
	Duration time.Duration
	Err      error
}

func defaultChecks(prefix string) []check {
	return []check{
		{Name: "health", Method: http.MethodGet, Path: "/health", WantStatus: http.StatusOK, Critical: true},
		{Name: "readiness", Method: http.MethodGet, Path: "/ready", WantStatus: http.StatusOK, Critical: true},
		{Name: "listings", Method: http.MethodGet, Path: prefix + "/businesses", WantStatus: http.StatusOK, WantData: true, Critical: true},
		{Name: "listing detail 404", Method: http.MethodGet, Path: prefix + "/businesses/smoke-missing-id", WantStatus: http.StatusNotFound},
		{Name: "categories", Method: http.MethodGet, Path: prefix + "/categories", WantStatus: http.StatusOK, WantData: true},
		{Name: "cities", Method: http.MethodGet, Path: prefix + "/cities", WantStatus: http.StatusOK, WantData: true},
		{Name: "social links", Method: http.MethodGet, Path: prefix + "/social-links", WantStatus: http.StatusOK},
		{Name: "admin requires auth", Method: http.MethodGet, Path: prefix + "/admin/ownership-claims", WantStatus: http.StatusUnauthorized, Critical: true},
	}
}

func main() {
	var (
		base    string
		prefix  string
		timeout time.Duration
	)
	flag.StringVar(&base, "base", "http://localhost:8080", "API base URL")
	flag.StringVar(&prefix, "prefix", "/api/v1", "API route prefix")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	client := &http.Client{Timeout: timeout}
	checks := defaultChecks(prefix)

	var failed, criticalFailed int
	results := make([]result, 0, len(checks))
	for _, chk := range checks {
		res := run(client, base, chk)
		if !res.Pass {
			failed++
			if chk.Critical {
				criticalFailed++
			}
		}
		results = append(results, res)
	}

	report(results)
	fmt.Printf("Failed: %d (critical: %d)\n", failed, criticalFailed)
	if criticalFailed > 0 {
		os.Exit(1)
	}
}

func run(client *http.Client, base string, chk check) result {
	res := result{Check: chk}

	url := strings.TrimRight(base, "/") + chk.Path
	req, err := http.NewRequest(chk.Method, url, nil)
	if err != nil {
		res.Err = err
		return res
	}

	start := time.Now()
	resp, err := client.Do(req)
	res.Duration = time.Since(start)
	if err != nil {
		res.Err = err
		return res
	}
	defer resp.Body.Close()

	res.Status = resp.StatusCode
	if resp.StatusCode != chk.WantStatus {
		return res
	}
	if chk.WantData {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			res.Err = fmt.Errorf("read body: %w", err)
			return res
		}
		var envelope struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(body, &envelope); err != nil {
			res.Err = fmt.Errorf("decode envelope: %w", err)
			return res
		}
		if len(envelope.Data) == 0 {
			res.Err = fmt.Errorf("envelope has no data field")
			return res
		}
	}

	res.Pass = true
	return res
}

func report(results []result) {
	log.SetFlags(0)
	for _, res := range results {
		status := "PASS"
		if !res.Pass {
			status = "FAIL"
		}
		log.Printf("[%s] %-22s %s %s -> %d (%s)", status, res.Check.Name, res.Check.Method, res.Check.Path, res.Status, res.Duration)
		if res.Err != nil {
			log.Printf("       error: %v", res.Err)
		}
	}
}
