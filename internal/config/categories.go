package config

import (
	"strings"

	"github.com/theirongolddev/balancebuddy/internal/model"
)

// CategoryChoices returns the built-in categories followed by the configured
// extras. Blank and case-insensitive duplicates are dropped.
func (c Config) CategoryChoices() []string {
	seen := make(map[string]bool)
	var out []string
	add := func(name string) {
		name = strings.TrimSpace(name)
		key := strings.ToLower(name)
		if name == "" || seen[key] {
			return
		}
		seen[key] = true
		out = append(out, name)
	}
	for _, name := range model.DefaultCategories {
		add(name)
	}
	for _, name := range c.Categories.Extra {
		add(name)
	}
	return out
}
