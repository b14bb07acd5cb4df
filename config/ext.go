package config

import (
	"fmt"
	"maps"
	"os"

	"linkrelay/models"

	"gopkg.in/yaml.v3"
)

var ExtractorConfigPath = "ext-cfg.yaml"

var extractorConfigs = make(map[string]*models.ExtractorConfig)

func LoadExtractorConfigs() error {
	extractorConfigs = make(map[string]*models.ExtractorConfig)

	_, err := os.Stat(ExtractorConfigPath)
	if os.IsNotExist(err) {
		return nil
	}
	data, err := os.ReadFile(ExtractorConfigPath)
	if err != nil {
		return fmt.Errorf("failed reading config file: %w", err)
	}

	var rawConfig map[string]*models.ExtractorConfig

	if err := yaml.Unmarshal(data, &rawConfig); err != nil {
		return fmt.Errorf("failed parsing config file: %w", err)
	}
	maps.Copy(extractorConfigs, rawConfig)

	return nil
}

func GetExtractorConfig(codeName string) *models.ExtractorConfig {
	if config, exists := extractorConfigs[codeName]; exists {
		return config
	}
	return nil
}

func IsExtractorDisabled(codeName string) bool {
	cfg := GetExtractorConfig(codeName)
	return cfg != nil && cfg.IsDisabled
}
