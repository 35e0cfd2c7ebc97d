package config

import (
	"os"
	"strings"
	"time"
)

const (
	accountServiceURLEnv  = "ACCOUNT_SERVICE_URL"
	accessPollIntervalEnv = "ACCESS_POLL_INTERVAL"
	accessCheckTimeoutEnv = "ACCESS_CHECK_TIMEOUT"
	accessPrivilegedEnv   = "ACCESS_PRIVILEGED_SUBJECTS"

	defaultAccessPollInterval = 10 * time.Second
	defaultAccessCheckTimeout = 5 * time.Second
)

type AccessConfig struct {
	AccountServiceURL  string
	PollInterval       time.Duration
	CheckTimeout       time.Duration
	PrivilegedSubjects []string
}

func LoadAccessConfig() (*AccessConfig, error) {
	interval := defaultAccessPollInterval
	if v := os.Getenv(accessPollIntervalEnv); v != "" {
		parsed, err := time.ParseDuration(v)
		if err != nil || parsed <= 0 {
			return nil, ErrInvalidPollInterval
		}
		interval = parsed
	}

	timeout := defaultAccessCheckTimeout
	if v := os.Getenv(accessCheckTimeoutEnv); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil && parsed > 0 {
			timeout = parsed
		}
	}

	return &AccessConfig{
		AccountServiceURL:  os.Getenv(accountServiceURLEnv),
		PollInterval:       interval,
		CheckTimeout:       timeout,
		PrivilegedSubjects: splitList(os.Getenv(accessPrivilegedEnv)),
	}, nil
}

// Enabled reports whether access polling has a backend to query.
func (c *AccessConfig) Enabled() bool {
	return c != nil && c.AccountServiceURL != ""
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}
