package governance

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RuleFile is the on-disk override format for deployment-specific policy.
// Listed tools extend (never replace) the built-in vocabularies.
type RuleFile struct {
	Outbound      []string `yaml:"outbound"`
	Irreversible  []string `yaml:"irreversible"`
	DenyTools     []string `yaml:"deny_tools"`
	DenyArguments []string `yaml:"deny_arguments"`
}

// LoadRules applies a YAML rule file to the gate.
func (g *Gate) LoadRules(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read policy rules: %w", err)
	}

	var rf RuleFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return fmt.Errorf("failed to parse policy rules: %w", err)
	}

	for _, name := range rf.Outbound {
		g.Outbound[name] = true
	}
	for _, name := range rf.Irreversible {
		g.Irreversible[name] = true
	}
	for _, name := range rf.DenyTools {
		g.DenyTool(name)
	}
	for _, pattern := range rf.DenyArguments {
		if err := g.DenyArguments(pattern); err != nil {
			return fmt.Errorf("invalid deny pattern %q: %w", pattern, err)
		}
	}
	return nil
}
