package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "peerchat.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeFile(t, `
bind_ip: 192.168.0.9
peers:
  - 10.0.0.5:9000
  - 10.0.0.6:9001
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.BindIP != "192.168.0.9" {
		t.Fatalf("BindIP = %q", cfg.BindIP)
	}
	if len(cfg.Peers) != 2 || cfg.Peers[0] != "10.0.0.5:9000" || cfg.Peers[1] != "10.0.0.6:9001" {
		t.Fatalf("Peers = %v", cfg.Peers)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	cfg, err := Load(writeFile(t, ""))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.BindIP != "" || len(cfg.Peers) != 0 {
		t.Fatalf("empty file should load zero values, got %+v", cfg)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("want error for missing file")
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	if _, err := Load(writeFile(t, "peers: [unterminated")); err == nil {
		t.Fatal("want parse error")
	}
}
