package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if cfg.ServerBaseURL != "http://127.0.0.1:8080" {
		t.Errorf("unexpected server base url: %s", cfg.ServerBaseURL)
	}
	if cfg.DatabaseFile != "noteleaf.db" {
		t.Errorf("unexpected database file: %s", cfg.DatabaseFile)
	}
	if cfg.RequestTimeout != 10*time.Second {
		t.Errorf("unexpected request timeout: %s", cfg.RequestTimeout)
	}
}

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()

	os.Args = []string{"client", "-a", "http://example.com:9090", "-f", "/tmp/cache.db", "-t", "30"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	if cfg.ServerBaseURL != "http://example.com:9090" {
		t.Errorf("unexpected server base url: %s", cfg.ServerBaseURL)
	}
	if cfg.DatabaseFile != "/tmp/cache.db" {
		t.Errorf("unexpected database file: %s", cfg.DatabaseFile)
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Errorf("unexpected request timeout: %s", cfg.RequestTimeout)
	}
}

func TestParseFlags_IgnoresForeignFlags(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()

	os.Args = []string{"client", "-z", "whatever", "-a", "http://example.com"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	if cfg.ServerBaseURL != "http://example.com" {
		t.Errorf("unexpected server base url: %s", cfg.ServerBaseURL)
	}
}
