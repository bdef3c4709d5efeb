package main

import (
	"testing"

	"wakeplay/cmd"
)

func TestVersion(t *testing.T) {
	// Test default version
	if version != "dev" {
		t.Errorf("Expected default version to be 'dev', got %s", version)
	}
}

func TestMainPackageIntegration(t *testing.T) {
	// This test verifies that the main package properly integrates with cmd package
	originalVersion := cmd.GetVersion()
	defer cmd.SetVersion(originalVersion)

	versions := []string{"dev", "1.0.0", "v2.0.0-rc1"}
	for _, v := range versions {
		cmd.SetVersion(v)
		if got := cmd.GetVersion(); got != v {
			t.Errorf("Expected version %s, got %s", v, got)
		}
	}
}
