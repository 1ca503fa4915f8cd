package config

import "testing"

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Preferences.PageSize != 72 {
		t.Errorf("PageSize = %d, want 72", cfg.Preferences.PageSize)
	}
	if !cfg.Preferences.AutoLoadState {
		t.Errorf("AutoLoadState should default to true")
	}
	if cfg.Emulator.Command != "retroarch" {
		t.Errorf("Command = %q", cfg.Emulator.Command)
	}
	if cfg.Emulator.DownloadDir == "" {
		t.Errorf("DownloadDir should have a default")
	}
}

func TestIsConfigured(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.IsConfigured() {
		t.Fatalf("empty server settings should not count as configured")
	}

	cfg.Server.URL = "http://romm.local"
	if cfg.IsConfigured() {
		t.Fatalf("URL without a token should not count as configured")
	}

	cfg.Server.Token = "secret"
	if !cfg.IsConfigured() {
		t.Fatalf("URL and token should count as configured")
	}
}
