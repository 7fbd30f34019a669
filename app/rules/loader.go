package rules

import (
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// stringList accepts a YAML sequence, a bare scalar (coerced to a
// single-element list), or null/""/false (coerced to an empty list).
type stringList []string

func (l *stringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, node := range value.Content {
			if node.Kind == yaml.ScalarNode && node.Value != "" && node.Tag != "!!null" {
				out = append(out, node.Value)
			}
		}
		*l = out
	case yaml.ScalarNode:
		if isEmptyScalar(value) {
			*l = nil
			return nil
		}
		*l = []string{value.Value}
	default:
		*l = nil
	}
	return nil
}

// capMap accepts a YAML mapping of source key to integer cap.
// Non-mapping values and malformed cap values are dropped, leaving
// the affected sources on the unbounded default.
type capMap map[string]int

func (m *capMap) UnmarshalYAML(value *yaml.Node) error {
	out := capMap{}
	if value.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(value.Content); i += 2 {
			key := value.Content[i]
			var limit int
			if err := value.Content[i+1].Decode(&limit); err != nil {
				continue
			}
			out[key.Value] = limit
		}
	}
	*m = out
	return nil
}

// pinList accepts a sequence of pin mappings or a single bare mapping.
// Entries that do not decode as a pin are dropped.
type pinList []Pin

func (l *pinList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		out := make([]Pin, 0, len(value.Content))
		for _, node := range value.Content {
			var pin Pin
			if err := node.Decode(&pin); err == nil {
				out = append(out, pin)
			}
		}
		*l = out
	case yaml.MappingNode:
		var pin Pin
		if err := value.Decode(&pin); err == nil {
			*l = []Pin{pin}
		}
	default:
		*l = nil
	}
	return nil
}

func isEmptyScalar(node *yaml.Node) bool {
	if node.Tag == "!!null" || node.Value == "" {
		return true
	}
	return node.Tag == "!!bool" && node.Value == "false"
}

type rawRules struct {
	MinTitleLength yaml.Node `yaml:"min_title_length"`
	MaxItems       yaml.Node `yaml:"max_items"`
	MaxAgeDays     yaml.Node `yaml:"max_age_days"`

	IncludeKeywords   stringList `yaml:"include_keywords"`
	BlocklistKeywords stringList `yaml:"blocklist_keywords"`
	IncludeSources    stringList `yaml:"include_sources"`
	ExcludeSources    stringList `yaml:"exclude_sources"`
	IncludeAuthors    stringList `yaml:"include_authors"`
	ExcludeAuthors    stringList `yaml:"exclude_authors"`
	IncludeTags       stringList `yaml:"include_tags"`
	ExcludeTags       stringList `yaml:"exclude_tags"`

	MaxPerSource capMap  `yaml:"max_per_source"`
	Pin          pinList `yaml:"pin"`
}

// Load reads the rules document, merging it over the defaults.
// Rule-document problems never abort the run: an absent or unreadable
// file yields the defaults, and malformed fields fall back
// individually.
func Load(path string) *Rules {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("Failed to read rules document, using defaults", "path", path, "error", err)
		}
		return Defaults()
	}

	var raw rawRules
	if err := yaml.Unmarshal(data, &raw); err != nil {
		slog.Warn("Failed to parse rules document, using defaults", "path", path, "error", err)
		return Defaults()
	}

	rules := Defaults()
	rules.MinTitleLength = intOr(raw.MinTitleLength, DefaultMinTitleLength)
	rules.MaxItems = intOr(raw.MaxItems, DefaultMaxItems)
	rules.MaxAgeDays = intOr(raw.MaxAgeDays, DefaultMaxAgeDays)
	rules.IncludeKeywords = listOr(raw.IncludeKeywords)
	rules.BlocklistKeywords = listOr(raw.BlocklistKeywords)
	rules.IncludeSources = listOr(raw.IncludeSources)
	rules.ExcludeSources = listOr(raw.ExcludeSources)
	rules.IncludeAuthors = listOr(raw.IncludeAuthors)
	rules.ExcludeAuthors = listOr(raw.ExcludeAuthors)
	rules.IncludeTags = listOr(raw.IncludeTags)
	rules.ExcludeTags = listOr(raw.ExcludeTags)
	if raw.MaxPerSource != nil {
		rules.MaxPerSource = raw.MaxPerSource
	}
	if raw.Pin != nil {
		rules.Pins = raw.Pin
	}

	return rules
}

// intOr resolves an integer scalar, falling back to the default for
// absent, malformed, zero, or negative values. Zero and negatives
// coerce to the default so that an emptied-out key behaves like an
// unset one and a negative global cap cannot disable truncation.
func intOr(node yaml.Node, def int) int {
	if node.Kind == 0 {
		return def
	}
	var v int
	if err := node.Decode(&v); err != nil {
		return def
	}
	if v <= 0 {
		return def
	}
	return v
}

func listOr(l stringList) []string {
	if l == nil {
		return []string{}
	}
	return l
}
