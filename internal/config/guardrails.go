package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/AghaSalikAli/Taste-Karachi/internal/guardrails"
)

// guardrailsFile mirrors configs/guardrails.yaml. Pointer fields distinguish
// absent keys from explicit false/zero, so a partial file merges with the
// built-in defaults.
type guardrailsFile struct {
	EnablePIIDetection          *bool    `yaml:"enable_pii_detection"`
	EnablePromptInjectionFilter *bool    `yaml:"enable_prompt_injection_filter"`
	EnableOffTopicDetection     *bool    `yaml:"enable_off_topic_detection"`
	EnableHallucinationFilter   *bool    `yaml:"enable_hallucination_filter"`
	EnableToxicityFilter        *bool    `yaml:"enable_toxicity_filter"`
	EnableCompetitorFilter      *bool    `yaml:"enable_competitor_filter"`
	ToxicityThreshold           *float64 `yaml:"toxicity_threshold"`
	HallucinationThreshold      *float64 `yaml:"hallucination_threshold"`
	StrictMode                  *bool    `yaml:"strict_mode"`
}

// LoadGuardrailsConfig reads the guardrail settings from the path in
// GUARDRAILS_CONFIG_PATH, falling back to configs/guardrails.yaml. A missing
// file is not an error; the defaults apply unchanged.
func LoadGuardrailsConfig() (guardrails.Config, error) {
	path := os.Getenv("GUARDRAILS_CONFIG_PATH")
	if path == "" {
		path = "configs/guardrails.yaml"
	}

	cfg := guardrails.DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var file guardrailsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return cfg, fmt.Errorf("failed to parse YAML: %w", err)
	}

	applyOverrides(&cfg, file)

	if err := validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyOverrides(cfg *guardrails.Config, file guardrailsFile) {
	if file.EnablePIIDetection != nil {
		cfg.EnablePIIDetection = *file.EnablePIIDetection
	}
	if file.EnablePromptInjectionFilter != nil {
		cfg.EnablePromptInjectionFilter = *file.EnablePromptInjectionFilter
	}
	if file.EnableOffTopicDetection != nil {
		cfg.EnableOffTopicDetection = *file.EnableOffTopicDetection
	}
	if file.EnableHallucinationFilter != nil {
		cfg.EnableHallucinationFilter = *file.EnableHallucinationFilter
	}
	if file.EnableToxicityFilter != nil {
		cfg.EnableToxicityFilter = *file.EnableToxicityFilter
	}
	if file.EnableCompetitorFilter != nil {
		cfg.EnableCompetitorFilter = *file.EnableCompetitorFilter
	}
	if file.ToxicityThreshold != nil {
		cfg.ToxicityThreshold = *file.ToxicityThreshold
	}
	if file.HallucinationThreshold != nil {
		cfg.HallucinationThreshold = *file.HallucinationThreshold
	}
	if file.StrictMode != nil {
		cfg.StrictMode = *file.StrictMode
	}
}

func validate(cfg guardrails.Config) error {
	if cfg.ToxicityThreshold < 0 || cfg.ToxicityThreshold > 1 {
		return fmt.Errorf("invalid toxicity_threshold %v: must be within [0, 1]", cfg.ToxicityThreshold)
	}
	if cfg.HallucinationThreshold < 0 || cfg.HallucinationThreshold > 1 {
		return fmt.Errorf("invalid hallucination_threshold %v: must be within [0, 1]", cfg.HallucinationThreshold)
	}
	return nil
}
