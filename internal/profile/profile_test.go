package profile

import (
	"os"
	"path/filepath"
	"testing"
)

func clearEnvVars() {
	envVars := []string{
		"VENTUREMIND_DRIVER",
		"VENTUREMIND_DSN",
		"VENTUREMIND_RATE_LIMIT_RPS",
		"VENTUREMIND_RATE_LIMIT_BURST",
	}
	for _, envVar := range envVars {
		os.Unsetenv(envVar)
	}
}

func TestFromEnv(t *testing.T) {
	tests := []struct {
		name     string
		envVar   string
		envValue string
		check    func(*Profile) bool
	}{
		{
			name:     "VENTUREMIND_DRIVER",
			envVar:   "VENTUREMIND_DRIVER",
			envValue: "postgres",
			check:    func(p *Profile) bool { return p.Driver == "postgres" },
		},
		{
			name:     "VENTUREMIND_DSN",
			envVar:   "VENTUREMIND_DSN",
			envValue: "postgres://vm:vm@localhost:5432/vm?sslmode=disable",
			check:    func(p *Profile) bool { return p.DSN == "postgres://vm:vm@localhost:5432/vm?sslmode=disable" },
		},
		{
			name:     "VENTUREMIND_RATE_LIMIT_RPS",
			envVar:   "VENTUREMIND_RATE_LIMIT_RPS",
			envValue: "2.5",
			check:    func(p *Profile) bool { return p.RateLimitRPS == 2.5 },
		},
		{
			name:     "VENTUREMIND_RATE_LIMIT_BURST",
			envVar:   "VENTUREMIND_RATE_LIMIT_BURST",
			envValue: "50",
			check:    func(p *Profile) bool { return p.RateLimitBurst == 50 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnvVars()
			os.Setenv(tt.envVar, tt.envValue)
			defer clearEnvVars()

			profile := &Profile{}
			profile.FromEnv()

			if !tt.check(profile) {
				t.Errorf("%s: env value %q not applied", tt.name, tt.envValue)
			}
		})
	}
}

func TestValidateDefaults(t *testing.T) {
	clearEnvVars()
	dir := t.TempDir()

	profile := &Profile{
		Mode:   "invalid-mode",
		Data:   dir,
		Driver: "sqlite",
	}
	if err := profile.Validate(); err != nil {
		t.Fatalf("Validate() returned error: %v", err)
	}

	if profile.Mode != "demo" {
		t.Errorf("Mode = %q, want fallback to demo", profile.Mode)
	}
	if profile.DSN != filepath.Join(dir, "venturemind_demo.db") {
		t.Errorf("DSN = %q, want sqlite file under data dir", profile.DSN)
	}
	if profile.RateLimitRPS != 10 {
		t.Errorf("RateLimitRPS = %v, want default 10", profile.RateLimitRPS)
	}
	if profile.RateLimitBurst != 20 {
		t.Errorf("RateLimitBurst = %v, want default 20", profile.RateLimitBurst)
	}
}

func TestIsDev(t *testing.T) {
	for mode, want := range map[string]bool{
		"demo": true,
		"dev":  true,
		"prod": false,
	} {
		profile := &Profile{Mode: mode}
		if got := profile.IsDev(); got != want {
			t.Errorf("IsDev() with mode %q = %v, want %v", mode, got, want)
		}
	}
}

func TestValidateMissingDataDir(t *testing.T) {
	clearEnvVars()

	profile := &Profile{
		Mode:   "dev",
		Data:   "/nonexistent/venturemind-data",
		Driver: "sqlite",
	}
	if err := profile.Validate(); err == nil {
		t.Error("Validate() should fail for an inaccessible data dir")
	}
}
