package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "guardrails.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return configPath
}

func TestLoadGuardrailsConfig_Overrides(t *testing.T) {
	configContent := `strict_mode: false
toxicity_threshold: 0.9
enable_competitor_filter: true
`
	configPath := writeConfig(t, configContent)

	os.Setenv("GUARDRAILS_CONFIG_PATH", configPath)
	defer os.Unsetenv("GUARDRAILS_CONFIG_PATH")

	cfg, err := LoadGuardrailsConfig()
	if err != nil {
		t.Fatalf("LoadGuardrailsConfig() failed: %v", err)
	}

	if cfg.StrictMode {
		t.Error("Expected strict_mode=false from config file")
	}
	if cfg.ToxicityThreshold != 0.9 {
		t.Errorf("Expected toxicity_threshold=0.9, got %f", cfg.ToxicityThreshold)
	}
	if !cfg.EnableCompetitorFilter {
		t.Error("Expected enable_competitor_filter=true from config file")
	}

	// Keys left out keep their defaults.
	if !cfg.EnablePIIDetection {
		t.Error("Expected enable_pii_detection to keep its default")
	}
	if cfg.HallucinationThreshold != 0.5 {
		t.Errorf("Expected default hallucination_threshold=0.5, got %f", cfg.HallucinationThreshold)
	}
}

func TestLoadGuardrailsConfig_ExplicitFalseOverridesDefault(t *testing.T) {
	configPath := writeConfig(t, "enable_pii_detection: false\n")

	os.Setenv("GUARDRAILS_CONFIG_PATH", configPath)
	defer os.Unsetenv("GUARDRAILS_CONFIG_PATH")

	cfg, err := LoadGuardrailsConfig()
	if err != nil {
		t.Fatalf("LoadGuardrailsConfig() failed: %v", err)
	}

	if cfg.EnablePIIDetection {
		t.Error("Expected explicit enable_pii_detection=false to override the default")
	}
}

func TestLoadGuardrailsConfig_MissingFileUsesDefaults(t *testing.T) {
	os.Setenv("GUARDRAILS_CONFIG_PATH", filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	defer os.Unsetenv("GUARDRAILS_CONFIG_PATH")

	cfg, err := LoadGuardrailsConfig()
	if err != nil {
		t.Fatalf("Missing config file should not be an error, got: %v", err)
	}

	if !cfg.StrictMode {
		t.Error("Expected default strict_mode=true")
	}
	if cfg.EnableCompetitorFilter {
		t.Error("Expected default enable_competitor_filter=false")
	}
	if cfg.ToxicityThreshold != 0.7 {
		t.Errorf("Expected default toxicity_threshold=0.7, got %f", cfg.ToxicityThreshold)
	}
}

func TestLoadGuardrailsConfig_InvalidYAML(t *testing.T) {
	configPath := writeConfig(t, "strict_mode: [unclosed\n")

	os.Setenv("GUARDRAILS_CONFIG_PATH", configPath)
	defer os.Unsetenv("GUARDRAILS_CONFIG_PATH")

	_, err := LoadGuardrailsConfig()
	if err == nil {
		t.Fatal("Expected error for malformed YAML")
	}
	if !strings.Contains(err.Error(), "failed to parse YAML") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestLoadGuardrailsConfig_ThresholdOutOfRange(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"toxicity too high", "toxicity_threshold: 1.5\n", "invalid toxicity_threshold"},
		{"hallucination negative", "hallucination_threshold: -0.1\n", "invalid hallucination_threshold"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			configPath := writeConfig(t, test.content)

			os.Setenv("GUARDRAILS_CONFIG_PATH", configPath)
			defer os.Unsetenv("GUARDRAILS_CONFIG_PATH")

			_, err := LoadGuardrailsConfig()
			if err == nil {
				t.Fatal("Expected validation error")
			}
			if !strings.Contains(err.Error(), test.want) {
				t.Errorf("Error: %v, want substring: %s", err, test.want)
			}
		})
	}
}
