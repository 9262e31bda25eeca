// Package config defines the canonical, JSON-serializable configuration
// model for the analytics service. It is intentionally small, explicit, and
// dependency-free so a deployment can be described in one file, loaded from
// disk, and passed through the program without additional glue code.
//
// Design goals:
//
//  1. Stability: changes to this package should be additive and backwards-
//     compatible whenever possible.
//  2. Clarity: Go field names mirror the JSON structure of the config file.
//  3. Minimalism: no third-party config libraries; decoding is performed by
//     the standard library, with env-var overrides for deploy-time secrets.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config is the top-level object decoded from the config file.
type Config struct {
	// Addr is the listen address of the HTTP boundary, e.g. ":8080".
	Addr string `json:"addr"`

	AWS     AWSConfig     `json:"aws"`
	Remote  RemoteConfig  `json:"remote"`
	SQL     SQLConfig     `json:"sql"`
	Metrics MetricsConfig `json:"metrics"`
}

// AWSConfig locates the dataset and upload buckets. Credentials come from
// the ambient AWS environment (env vars, shared config, instance role).
type AWSConfig struct {
	Region       string `json:"region"`
	DataBucket   string `json:"data_bucket"`
	UploadBucket string `json:"upload_bucket"`

	// PresignTTLSeconds bounds the lifetime of presigned artifact URLs.
	// Zero means the sink default (1 hour).
	PresignTTLSeconds int `json:"presign_ttl_seconds"`
}

// PresignTTL returns the configured TTL as a duration.
func (a AWSConfig) PresignTTL() time.Duration {
	return time.Duration(a.PresignTTLSeconds) * time.Second
}

// RemoteConfig names the analytics endpoints the remote dataset source
// POSTs to, plus the HTTP client knobs shared by all of them.
type RemoteConfig struct {
	HeartEndpoint      string `json:"heart_endpoint"`
	LungEndpoint       string `json:"lung_endpoint"`
	PatientsEndpoint   string `json:"patients_endpoint"`
	BloodSugarEndpoint string `json:"blood_sugar_endpoint"`

	TimeoutSeconds int `json:"timeout_seconds"`
	MaxRetries     int `json:"max_retries"`
}

// Timeout returns the configured per-request timeout as a duration.
func (r RemoteConfig) Timeout() time.Duration {
	return time.Duration(r.TimeoutSeconds) * time.Second
}

// SQLConfig configures the optional direct-SQL dataset source.
type SQLConfig struct {
	// DSN is the connection string for pgx (e.g., postgresql://...).
	// Empty disables the sql source variant.
	DSN string `json:"dsn"`
}

// MetricsConfig selects the metrics backend.
type MetricsConfig struct {
	// Backend is "" or "none" for no metrics, "pushgateway" for prompush.
	Backend        string `json:"backend"`
	PushgatewayURL string `json:"pushgateway_url"`
	Job            string `json:"job"`
}

// Default returns the built-in configuration, matching the upstream
// service's deployment.
func Default() Config {
	return Config{
		Addr: ":8080",
		Remote: RemoteConfig{
			HeartEndpoint:      "https://e-react-node-backend-22ed6864d5f3.herokuapp.com/getHeart_disease_analysis",
			LungEndpoint:       "https://e-react-node-backend-22ed6864d5f3.herokuapp.com/getLung_cancer_analysis",
			PatientsEndpoint:   "https://e-react-node-backend-22ed6864d5f3.herokuapp.com/getPatients_analysis",
			BloodSugarEndpoint: "https://e-react-node-backend-22ed6864d5f3.herokuapp.com/getBlood_sugar_analysis",
			TimeoutSeconds:     30,
			MaxRetries:         3,
		},
		AWS: AWSConfig{
			PresignTTLSeconds: 3600,
		},
	}
}

// Load reads the JSON config at path over the defaults, then applies env
// overrides. An empty path keeps defaults + env only.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := json.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

// applyEnv overlays deploy-time environment variables. Env wins over file.
func (c *Config) applyEnv() {
	setString(&c.Addr, "ANALYTICS_ADDR")
	setString(&c.AWS.Region, "AWS_BUCKET_REGION")
	setString(&c.AWS.DataBucket, "AWS_BUCKET_NAME")
	setString(&c.AWS.UploadBucket, "AWS_UPLOAD_BUCKET")
	setInt(&c.AWS.PresignTTLSeconds, "ANALYTICS_PRESIGN_TTL_SECONDS")
	setString(&c.Remote.HeartEndpoint, "ANALYTICS_HEART_ENDPOINT")
	setString(&c.Remote.LungEndpoint, "ANALYTICS_LUNG_ENDPOINT")
	setString(&c.Remote.PatientsEndpoint, "ANALYTICS_PATIENTS_ENDPOINT")
	setString(&c.Remote.BloodSugarEndpoint, "ANALYTICS_BLOOD_SUGAR_ENDPOINT")
	setString(&c.SQL.DSN, "ANALYTICS_SQL_DSN")
	setString(&c.Metrics.Backend, "ANALYTICS_METRICS_BACKEND")
	setString(&c.Metrics.PushgatewayURL, "ANALYTICS_PUSHGATEWAY_URL")
	setString(&c.Metrics.Job, "ANALYTICS_METRICS_JOB")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
