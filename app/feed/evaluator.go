package feed

import (
	"cmp"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/cases"

	"github.com/g4dge/antifeed/app/rules"
)

// predicate is one independent named check. Adding a rule means
// adding an entry here; existing predicates are never touched.
type predicate struct {
	name string
	fn   func(e *Evaluator, item Item) bool
}

var predicates = []predicate{
	{"include_keywords", (*Evaluator).includeKeywords},
	{"blocklist_keywords", (*Evaluator).blocklistKeywords},
	{"max_age_days", (*Evaluator).maxAge},
	{"include_sources", (*Evaluator).includeSources},
	{"exclude_sources", (*Evaluator).excludeSources},
	{"include_authors", (*Evaluator).includeAuthors},
	{"exclude_authors", (*Evaluator).excludeAuthors},
	{"include_tags", (*Evaluator).includeTags},
	{"exclude_tags", (*Evaluator).excludeTags},
	{"min_title_length", (*Evaluator).minTitleLength},
}

// Evaluator decides keep/drop for canonical items against a resolved
// rule set. The reference time is fixed at construction so every item
// in a run ages against the same instant.
type Evaluator struct {
	rules *rules.Rules
	now   time.Time
}

func NewEvaluator(r *rules.Rules, now time.Time) *Evaluator {
	return &Evaluator{rules: r, now: now}
}

// Allowed returns whether the item passes every predicate, and on
// rejection the name of the first failing one.
func (e *Evaluator) Allowed(item Item) (bool, string) {
	for _, p := range predicates {
		if !p.fn(e, item) {
			return false, p.name
		}
	}
	return true, ""
}

func (e *Evaluator) includeKeywords(item Item) bool {
	if len(e.rules.IncludeKeywords) == 0 {
		return true
	}
	return matchesAny(item.Title+" "+item.Summary, e.rules.IncludeKeywords)
}

// Blocklist needles match as plain case-folded substrings, so "spam"
// also blocks "Spamalot".
func (e *Evaluator) blocklistKeywords(item Item) bool {
	return !matchesAny(item.Title+" "+item.Summary, e.rules.BlocklistKeywords)
}

func (e *Evaluator) maxAge(item Item) bool {
	return ageDays(item.IsoDate, e.now) <= float64(e.rules.MaxAgeDays)
}

func (e *Evaluator) includeSources(item Item) bool {
	if len(e.rules.IncludeSources) == 0 {
		return true
	}
	domain := Domain(item.Link)
	srcHit := fold(cmp.Or(item.Source, domain))
	for _, source := range e.rules.IncludeSources {
		needle := fold(source)
		if needle == srcHit || needle == domain {
			return true
		}
	}
	return false
}

func (e *Evaluator) excludeSources(item Item) bool {
	domain := Domain(item.Link)
	srcHit := fold(cmp.Or(item.Source, domain))
	for _, source := range e.rules.ExcludeSources {
		needle := fold(source)
		if needle == "" {
			continue
		}
		if strings.Contains(srcHit, needle) || needle == domain {
			return false
		}
	}
	return true
}

func (e *Evaluator) includeAuthors(item Item) bool {
	if len(e.rules.IncludeAuthors) == 0 {
		return true
	}
	return matchesAny(item.Author, e.rules.IncludeAuthors)
}

func (e *Evaluator) excludeAuthors(item Item) bool {
	return !matchesAny(item.Author, e.rules.ExcludeAuthors)
}

func (e *Evaluator) includeTags(item Item) bool {
	if len(e.rules.IncludeTags) == 0 {
		return true
	}
	return hasAnyTag(item.Tags, e.rules.IncludeTags)
}

func (e *Evaluator) excludeTags(item Item) bool {
	return !hasAnyTag(item.Tags, e.rules.ExcludeTags)
}

func (e *Evaluator) minTitleLength(item Item) bool {
	return utf8.RuneCountInString(item.Title) >= e.rules.MinTitleLength
}

func fold(s string) string {
	return cases.Fold().String(s)
}

func matchesAny(text string, needles []string) bool {
	if len(needles) == 0 {
		return false
	}
	folded := fold(text)
	for _, needle := range needles {
		if needle == "" {
			continue
		}
		if strings.Contains(folded, fold(needle)) {
			return true
		}
	}
	return false
}

// hasAnyTag is exact case-folded membership, not substring.
func hasAnyTag(tags, wanted []string) bool {
	if len(tags) == 0 || len(wanted) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		set[fold(tag)] = struct{}{}
	}
	for _, want := range wanted {
		if _, ok := set[fold(want)]; ok {
			return true
		}
	}
	return false
}

// ageDays treats a malformed timestamp as age zero, so such items are
// never rejected on age grounds.
func ageDays(iso string, now time.Time) float64 {
	t, err := time.Parse(TimeLayout, iso)
	if err != nil {
		return 0
	}
	return now.Sub(t).Hours() / 24
}

// Domain extracts the lower-cased host of a link with any leading
// "www." stripped; empty string when the link is unparseable.
func Domain(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	return strings.TrimPrefix(host, "www.")
}
