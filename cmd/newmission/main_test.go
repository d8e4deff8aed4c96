package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{
		"HarborHeist": "harbor_heist",
		"Lockup":      "lockup",
		"BombShop2":   "bomb_shop2",
	}
	for in, want := range tests {
		if got := toSnakeCase(in); got != want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCreate(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missions")

	path, err := create(dir, "HarborHeist")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if filepath.Base(path) != "harbor_heist.lua" {
		t.Errorf("Expected harbor_heist.lua, got %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read mission: %v", err)
	}
	content := string(data)
	if !strings.HasPrefix(content, "-- HarborHeist\n") {
		t.Errorf("Expected mission name header, got:\n%s", content)
	}
	if !strings.Contains(content, "function on_frame(t)") {
		t.Error("Expected an on_frame hook")
	}
	if strings.Contains(content, "{{.") {
		t.Error("Template placeholders left in output")
	}

	if _, err := create(dir, "HarborHeist"); err == nil {
		t.Error("Expected error when the mission already exists")
	}
}

func TestCreateRejectsLowercase(t *testing.T) {
	if _, err := create(t.TempDir(), "heist"); err == nil {
		t.Error("Expected error for lowercase name")
	}
	if _, err := create(t.TempDir(), ""); err == nil {
		t.Error("Expected error for empty name")
	}
}
