// pkg/target/rules.go
package target

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// RulesSuffix is the file name suffix of target descriptor files
const RulesSuffix = ".target.toml"

// Rules describes one buildable target, e.g. the game or the editor
type Rules struct {
	Name                 string   `toml:"name"`
	Type                 Type     `toml:"type"`
	DefaultBuildSettings string   `toml:"default_build_settings"`
	ExtraModuleNames     []string `toml:"extra_module_names"`
}

// LoadRules reads and parses <dir>/<name>.target.toml
func LoadRules(dir, name string) (*Rules, error) {
	path := filepath.Join(dir, name+RulesSuffix)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("target '%s' not found in %s", name, dir)
		}
		return nil, fmt.Errorf("reading target '%s': %w", name, err)
	}

	var rules Rules
	if _, err := toml.Decode(string(data), &rules); err != nil {
		return nil, fmt.Errorf("failed to parse target '%s': %w", name, err)
	}

	if rules.Name == "" {
		rules.Name = name
	}
	if !containsFold(types, rules.Type) {
		return nil, fmt.Errorf("target '%s' has unknown type %q", name, rules.Type)
	}
	rules.Type = canonical(types, rules.Type)

	return &rules, nil
}

// ListRules loads every target descriptor in dir, sorted by name
func ListRules(dir string) ([]*Rules, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading targets directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), RulesSuffix) {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), RulesSuffix))
	}
	sort.Strings(names)

	all := make([]*Rules, 0, len(names))
	for _, name := range names {
		rules, err := LoadRules(dir, name)
		if err != nil {
			return nil, err
		}
		all = append(all, rules)
	}
	return all, nil
}

// IsEditor reports whether the target builds the editor
func (r *Rules) IsEditor() bool {
	return r.Type == Editor
}
