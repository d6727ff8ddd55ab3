package config

import "testing"

func TestValidateClampsInterval(t *testing.T) {
	cfg := Default()
	cfg.RefreshIntervalSeconds = 0

	errs := cfg.Validate()
	if len(errs) == 0 {
		t.Fatal("expected a finding for zero interval")
	}
	if cfg.RefreshIntervalSeconds != 1 {
		t.Fatalf("interval = %d, want clamped to 1", cfg.RefreshIntervalSeconds)
	}
}

func TestValidateClampsRootPID(t *testing.T) {
	cfg := Default()
	cfg.RootPID = -5

	cfg.Validate()
	if cfg.RootPID != 1 {
		t.Fatalf("root pid = %d, want clamped to 1", cfg.RootPID)
	}
}

func TestValidateRejectsBadEnums(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "verbose"
	cfg.LogFormat = "xml"
	cfg.SortColumn = "threads"

	errs := cfg.Validate()
	if len(errs) != 3 {
		t.Fatalf("got %d findings, want 3: %v", len(errs), errs)
	}
}

func TestDefaultIsValid(t *testing.T) {
	if errs := Default().Validate(); len(errs) != 0 {
		t.Fatalf("default config must validate cleanly: %v", errs)
	}
}
