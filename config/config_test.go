package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// writeTempConfig writes content to a YAML file in a temp dir and returns its path.
func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "probe.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

const minimalConfig = `probe:
  name: "TestProbe"
  version: "1.0"
`

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("LIGHTER_HOST", "")
	t.Setenv("APP_ENV", "")

	cfg, err := LoadConfig(writeTempConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Probe.Name != "TestProbe" {
		t.Errorf("unexpected name: %s", cfg.Probe.Name)
	}
	if cfg.Lighter.Host != DefaultLighterHost {
		t.Errorf("unexpected host: %s", cfg.Lighter.Host)
	}
	if cfg.Lighter.Timeout != DefaultTimeout {
		t.Errorf("unexpected timeout: %s", cfg.Lighter.Timeout)
	}
	if cfg.Storage.Report.Compression != "snappy" {
		t.Errorf("unexpected compression: %s", cfg.Storage.Report.Compression)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("LIGHTER_HOST", "")
	t.Setenv("APP_ENV", "")

	content := minimalConfig + `lighter:
  host: "http://localhost:8080/"
  timeout: 5s
  connection_pool:
    max_idle_conns: 3
logging:
  level: "debug"
`
	cfg, err := LoadConfig(writeTempConfig(t, content))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Lighter.Host != "http://localhost:8080" {
		t.Errorf("trailing slash not trimmed: %s", cfg.Lighter.Host)
	}
	if cfg.Lighter.Timeout != 5*time.Second {
		t.Errorf("unexpected timeout: %s", cfg.Lighter.Timeout)
	}
	if cfg.Lighter.ConnectionPool.MaxIdleConns != 3 {
		t.Errorf("unexpected max idle conns: %d", cfg.Lighter.ConnectionPool.MaxIdleConns)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("unexpected level: %s", cfg.Logging.Level)
	}
}

func TestLoadConfigHostFromEnv(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("LIGHTER_HOST", " https://api.example.com ")

	cfg, err := LoadConfig(writeTempConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Lighter.Host != "https://api.example.com" {
		t.Errorf("unexpected host: %q", cfg.Lighter.Host)
	}
}

func TestLoadConfigValidation(t *testing.T) {
	t.Setenv("LIGHTER_HOST", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("S3_BUCKET", "")

	cases := map[string]struct {
		content string
		wantErr string
	}{
		"missing name": {
			content: "probe:\n  version: \"1\"\n",
			wantErr: "probe.name",
		},
		"bad host": {
			content: minimalConfig + "lighter:\n  host: \"ftp://example.com\"\n",
			wantErr: "lighter.host",
		},
		"s3 without bucket": {
			content: minimalConfig + "storage:\n  s3:\n    enabled: true\n    region: us-east-1\n    access_key_id: a\n    secret_access_key: b\n",
			wantErr: "storage.s3.bucket",
		},
		"invalid bucket": {
			content: minimalConfig + "storage:\n  s3:\n    enabled: true\n    bucket: Bad_Bucket\n    region: us-east-1\n    access_key_id: a\n    secret_access_key: b\n",
			wantErr: "is invalid",
		},
		"unknown compression": {
			content: minimalConfig + "storage:\n  report:\n    compression: brotli\n",
			wantErr: "compression",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(writeTempConfig(t, tc.content))
			if err == nil {
				t.Fatalf("expected error containing %q", tc.wantErr)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("error %q does not mention %q", err, tc.wantErr)
			}
		})
	}
}

func TestProductionRequiresHTTPS(t *testing.T) {
	t.Setenv("LIGHTER_HOST", "http://insecure.example.com")
	t.Setenv("APP_ENV", "prod")

	if _, err := LoadConfig(writeTempConfig(t, minimalConfig)); err == nil {
		t.Fatal("expected https to be enforced in production")
	}
}

func TestS3EnvOverrides(t *testing.T) {
	t.Setenv("LIGHTER_HOST", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("AWS_ACCESS_KEY_ID", "key")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")
	t.Setenv("AWS_REGION", "eu-west-1")
	t.Setenv("S3_BUCKET", "probe-reports")

	content := minimalConfig + "storage:\n  s3:\n    enabled: true\n"
	cfg, err := LoadConfig(writeTempConfig(t, content))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Storage.S3.Bucket != "probe-reports" || cfg.Storage.S3.Region != "eu-west-1" {
		t.Fatalf("env overrides not applied: %+v", cfg.Storage.S3)
	}
}

func TestIsValidS3Bucket(t *testing.T) {
	valid := []string{"abc", "probe-reports", "a.b.c"}
	invalid := []string{"ab", "UPPER", "a..b", ".abc", "abc.", "under_score"}
	for _, name := range valid {
		if !isValidS3Bucket(name) {
			t.Errorf("expected %q to be valid", name)
		}
	}
	for _, name := range invalid {
		if isValidS3Bucket(name) {
			t.Errorf("expected %q to be invalid", name)
		}
	}
}

func TestAppEnvironmentAliases(t *testing.T) {
	cases := map[string]string{
		"":        EnvironmentDevelopment,
		"prod":    EnvironmentProduction,
		"STAGE":   EnvironmentStaging,
		"testnet": EnvironmentStaging,
		"custom":  "custom",
	}
	for in, want := range cases {
		t.Setenv("APP_ENV", in)
		if got := AppEnvironment(); got != want {
			t.Errorf("APP_ENV=%q: got %q want %q", in, got, want)
		}
	}
	if !IsProductionLike(EnvironmentStaging) || IsProductionLike(EnvironmentDevelopment) {
		t.Error("unexpected IsProductionLike result")
	}
}

func TestResolveConfigPath(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	t.Setenv("APP_ENV", "staging")
	if got := ResolveConfigPath(""); got != DefaultConfigPath {
		t.Fatalf("expected default path without env file, got %s", got)
	}

	if err := os.MkdirAll("config", 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile("config/probe.staging.yml", []byte(minimalConfig), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := ResolveConfigPath(DefaultConfigPath); got != "config/probe.staging.yml" {
		t.Fatalf("expected staging file, got %s", got)
	}
	if got := ResolveConfigPath("custom.yml"); got != "custom.yml" {
		t.Fatalf("explicit path must win, got %s", got)
	}
}
