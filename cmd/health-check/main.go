// Package main provides a standalone health check command for NutriPlan
// This command can be used for Docker health checks and monitoring scripts
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/nutriplan/backend/internal/infrastructure/config"
	"github.com/nutriplan/backend/pkg/healthcheck"
)

const (
	exitCodeSuccess = 0
	exitCodeFailure = 1
	exitCodeError   = 2
)

// Options holds command-line configuration
type Options struct {
	URL        string
	Timeout    time.Duration
	Verbose    bool
	RetryCount int
	RetryDelay time.Duration
	ConfigPath string
}

func main() {
	opts := parseFlags()
	os.Exit(run(opts))
}

// parseFlags parses command-line flags
func parseFlags() Options {
	opts := Options{}

	flag.StringVar(&opts.URL, "url", "", "Readiness endpoint URL (e.g., http://localhost:8080/ready)")
	flag.DurationVar(&opts.Timeout, "timeout", 10*time.Second, "Request timeout")
	flag.BoolVar(&opts.Verbose, "verbose", false, "Print every check")
	flag.IntVar(&opts.RetryCount, "retry", 0, "Number of retries on failure")
	flag.DurationVar(&opts.RetryDelay, "retry-delay", time.Second, "Delay between retries")
	flag.StringVar(&opts.ConfigPath, "config", "", "Configuration file path, used to derive the URL")

	flag.Parse()

	if opts.URL == "" {
		opts.URL = detectURL(opts.ConfigPath)
	}
	return opts
}

// detectURL builds the readiness URL from the server configuration
func detectURL(configPath string) string {
	cfg, err := config.Load(configPath)
	if err != nil {
		return "http://localhost:8080/ready"
	}
	host := cfg.Server.Host
	if host == "" || host == "0.0.0.0" {
		host = "localhost"
	}
	return fmt.Sprintf("http://%s:%d%s", host, cfg.Server.Port, cfg.Monitoring.ReadinessPath)
}

func run(opts Options) int {
	var (
		response *healthcheck.Response
		err      error
	)
	for attempt := 0; attempt <= opts.RetryCount; attempt++ {
		if attempt > 0 {
			time.Sleep(opts.RetryDelay)
		}
		response, err = probe(opts)
		if err == nil && response.Status != healthcheck.StatusUnhealthy {
			break
		}
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "health check failed: %v\n", err)
		return exitCodeError
	}

	fmt.Printf("%s (%s)\n", response.Status, response.Version)
	if opts.Verbose {
		for _, check := range response.Checks {
			fmt.Printf("  %-10s %-9s %s\n", check.Name, check.Status, check.Message)
		}
	}

	if response.Status == healthcheck.StatusUnhealthy {
		return exitCodeFailure
	}
	return exitCodeSuccess
}

func probe(opts Options) (*healthcheck.Response, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, opts.URL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var response healthcheck.Response
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", resp.Status, err)
	}
	return &response, nil
}
