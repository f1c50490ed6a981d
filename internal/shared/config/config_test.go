package config

import (
	"strings"
	"testing"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ENCRYPTION_KEY", "0123456789abcdef0123456789abcdef")
	t.Setenv("AGGREGATOR_CLIENT_ID", "client-id")
	t.Setenv("AGGREGATOR_SECRET", "client-secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Port = %s, want 8080", cfg.Server.Port)
	}
	if cfg.Aggregator.Environment != "sandbox" {
		t.Errorf("Aggregator.Environment = %s, want sandbox", cfg.Aggregator.Environment)
	}
	if cfg.Payments.Environment != "sandbox" {
		t.Errorf("Payments.Environment = %s, want sandbox", cfg.Payments.Environment)
	}
	if !cfg.Scheduler.Enabled {
		t.Error("scheduler should default to enabled")
	}
	if len(cfg.Scheduler.ScheduleTimes) != 3 {
		t.Errorf("ScheduleTimes = %v, want 3 defaults", cfg.Scheduler.ScheduleTimes)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	tests := []struct {
		name  string
		unset string
		want  string
	}{
		{name: "jwt secret", unset: "JWT_SECRET", want: "JWT_SECRET"},
		{name: "encryption key", unset: "ENCRYPTION_KEY", want: "ENCRYPTION_KEY"},
		{name: "aggregator credentials", unset: "AGGREGATOR_CLIENT_ID", want: "AGGREGATOR_CLIENT_ID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.unset, "")

			_, err := Load()
			if err == nil {
				t.Fatal("Load() succeeded with missing required variable")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not name %s", err, tt.want)
			}
		})
	}
}

func TestLoad_EncryptionKeyLength(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ENCRYPTION_KEY", "short")

	if _, err := Load(); err == nil {
		t.Fatal("Load() accepted a short encryption key")
	}
}

func TestLoad_EnvironmentValidation(t *testing.T) {
	tests := []struct {
		name    string
		envVar  string
		value   string
		wantErr bool
	}{
		{name: "aggregator production", envVar: "AGGREGATOR_ENV", value: "production"},
		{name: "payments production", envVar: "PAYMENTS_ENV", value: "production"},
		{name: "aggregator typo", envVar: "AGGREGATOR_ENV", value: "prod", wantErr: true},
		{name: "payments staging", envVar: "PAYMENTS_ENV", value: "staging", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.envVar, tt.value)

			_, err := Load()
			if (err != nil) != tt.wantErr {
				t.Errorf("Load() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_ScheduleTimeValidation(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SCHEDULER_TIMES", "06:00,25:99")

	if _, err := Load(); err == nil {
		t.Fatal("Load() accepted a malformed schedule time")
	}
}

func TestLoad_TLSRequiresCertPaths(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TLS_ENABLED", "true")

	if _, err := Load(); err == nil {
		t.Fatal("Load() accepted TLS without certificate paths")
	}

	t.Setenv("TLS_CERT_PATH", "/etc/tls/cert.pem")
	t.Setenv("TLS_KEY_PATH", "/etc/tls/key.pem")

	if _, err := Load(); err != nil {
		t.Fatalf("Load() failed with certificate paths set: %v", err)
	}
}

func TestConnString(t *testing.T) {
	db := DatabaseConfig{Host: "db", Port: 5433, User: "u", Password: "p", DBName: "horizon", SSLMode: "require"}
	got := db.ConnString()
	want := "host=db port=5433 user=u password=p dbname=horizon sslmode=require"
	if got != want {
		t.Errorf("ConnString() = %q, want %q", got, want)
	}
}
