package config

import (
	"encoding/json"
	"log"
	"os"
)

type Config struct {
	App      AppConfig                `json:"app"`
	Engine   EngineConfig             `json:"engine"`
	Gateways map[string]GatewayConfig `json:"gateways"`
	Memory   MemoryConfig             `json:"memory"`
	Policy   PolicyConfig             `json:"policy"`
}

type AppConfig struct {
	Name      string `json:"name"`
	Workspace string `json:"workspace"`
}

type EngineConfig struct {
	// ClarificationThreshold below which the engine asks instead of acting.
	// Zero means the built-in default.
	ClarificationThreshold float64 `json:"clarification_threshold"`
}

type GatewayConfig struct {
	Token   string `json:"token"`
	Enabled bool   `json:"enabled"`
}

type MemoryConfig struct {
	Type string `json:"type"`
	Path string `json:"path"`
}

type PolicyConfig struct {
	// RulesPath points at a YAML rule file extending the built-in gate
	// vocabularies. Optional.
	RulesPath string `json:"rules_path"`
}

func LoadConfig(path string) *Config {
	file, err := os.Open(path)
	if err != nil {
		log.Fatalf("failed to open config file: %v", err)
	}
	defer file.Close()

	var cfg Config
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&cfg); err != nil {
		log.Fatalf("failed to decode config file: %v", err)
	}

	return &cfg
}

// GetTelegramConfig returns telegram config if enabled
func (c *Config) GetTelegramConfig() (GatewayConfig, bool) {
	tg, ok := c.Gateways["telegram"]
	if ok && tg.Enabled {
		return tg, true
	}
	return GatewayConfig{}, false
}
