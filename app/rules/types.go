package rules

// Rules is the fully-defaulted filter/ranking policy consumed by the
// evaluator and the pipeline. Loaded once per run, immutable after.
type Rules struct {
	MinTitleLength int
	MaxItems       int
	MaxAgeDays     int

	IncludeKeywords   []string
	BlocklistKeywords []string
	IncludeSources    []string
	ExcludeSources    []string
	IncludeAuthors    []string
	ExcludeAuthors    []string
	IncludeTags       []string
	ExcludeTags       []string

	MaxPerSource map[string]int
	Pins         []Pin
}

// Pin describes one editorial entry that is unconditionally included
// at the top of the output.
type Pin struct {
	URL   string `yaml:"url"`
	Title string `yaml:"title"`
	Note  string `yaml:"note"`
}

const (
	DefaultMinTitleLength = 0
	DefaultMaxItems       = 500
	DefaultMaxAgeDays     = 36500
)

// Defaults returns the rule set used when the rules document is
// absent, empty, or unreadable.
func Defaults() *Rules {
	return &Rules{
		MinTitleLength:    DefaultMinTitleLength,
		MaxItems:          DefaultMaxItems,
		MaxAgeDays:        DefaultMaxAgeDays,
		IncludeKeywords:   []string{},
		BlocklistKeywords: []string{},
		IncludeSources:    []string{},
		ExcludeSources:    []string{},
		IncludeAuthors:    []string{},
		ExcludeAuthors:    []string{},
		IncludeTags:       []string{},
		ExcludeTags:       []string{},
		MaxPerSource:      map[string]int{},
		Pins:              []Pin{},
	}
}
