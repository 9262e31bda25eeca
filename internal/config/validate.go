// This file adds a lightweight linter/validator for Config values. It
// performs static checks over a decoded Config and returns a list of issues
// (errors and warnings) that callers can surface in a CLI or tests.
package config

import (
	"fmt"
	"net/url"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a configuration warning that should be surfaced
	// to users but may not necessarily block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding.
//
// Path is a dotted path into the config (e.g. "aws.data_bucket",
// "remote.heart_endpoint"). Message is human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a
// single error in contexts that expect one.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// Validate performs static validation of a Config. It does not mutate the
// config; callers decide whether warnings are fatal.
func Validate(c Config) []Issue {
	var issues []Issue

	if strings.TrimSpace(c.Addr) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "addr",
			Message:  "listen address must not be empty",
		})
	}

	issues = append(issues, validateEndpoint("remote.heart_endpoint", c.Remote.HeartEndpoint)...)
	issues = append(issues, validateEndpoint("remote.lung_endpoint", c.Remote.LungEndpoint)...)
	issues = append(issues, validateEndpoint("remote.patients_endpoint", c.Remote.PatientsEndpoint)...)
	issues = append(issues, validateEndpoint("remote.blood_sugar_endpoint", c.Remote.BloodSugarEndpoint)...)

	if c.Remote.TimeoutSeconds < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "remote.timeout_seconds",
			Message:  "timeout must not be negative",
		})
	}
	if c.Remote.MaxRetries < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "remote.max_retries",
			Message:  "retry count must not be negative",
		})
	}

	if c.AWS.DataBucket == "" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "aws.data_bucket",
			Message:  "no data bucket configured; archived spreadsheet reports will fail",
		})
	}
	if c.AWS.UploadBucket == "" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "aws.upload_bucket",
			Message:  "no upload bucket configured; upload-mode reports will fail",
		})
	}
	if c.AWS.PresignTTLSeconds < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "aws.presign_ttl_seconds",
			Message:  "presign TTL must not be negative",
		})
	}

	switch c.Metrics.Backend {
	case "", "none":
	case "pushgateway":
		if c.Metrics.PushgatewayURL == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "metrics.pushgateway_url",
				Message:  "pushgateway backend selected but no URL configured",
			})
		}
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "metrics.backend",
			Message:  fmt.Sprintf("unknown metrics backend %q (want none or pushgateway)", c.Metrics.Backend),
		})
	}

	return issues
}

func validateEndpoint(path, endpoint string) []Issue {
	if endpoint == "" {
		return []Issue{{
			Severity: SeverityWarning,
			Path:     path,
			Message:  "endpoint not configured; reports depending on it will fail",
		}}
	}
	u, err := url.Parse(endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return []Issue{{
			Severity: SeverityError,
			Path:     path,
			Message:  fmt.Sprintf("endpoint %q is not an absolute URL", endpoint),
		}}
	}
	return nil
}
