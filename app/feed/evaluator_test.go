package feed

import (
	"testing"
	"time"

	"github.com/g4dge/antifeed/app/rules"
)

var evalNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func isoDaysAgo(days int) string {
	return evalNow.AddDate(0, 0, -days).Format(TimeLayout)
}

func baseItem() Item {
	return Item{
		ID:      "abc",
		Title:   "Go 1.23 Released",
		Link:    "https://go.dev/blog/go1.23",
		Summary: "The latest Go release notes",
		IsoDate: isoDaysAgo(1),
		Source:  "The Go Blog",
		Author:  "The Go Team",
		Tags:    []string{"go", "release"},
	}
}

func TestEvaluator_DefaultsAllowEverything(t *testing.T) {
	e := NewEvaluator(rules.Defaults(), evalNow)

	ok, reason := e.Allowed(baseItem())
	if !ok {
		t.Errorf("Default rules must allow every item, rejected by %s", reason)
	}

	ok, reason = e.Allowed(Item{IsoDate: isoDaysAgo(0)})
	if !ok {
		t.Errorf("Default rules must allow an empty item, rejected by %s", reason)
	}
}

func TestEvaluator_IncludeKeywords(t *testing.T) {
	r := rules.Defaults()
	r.IncludeKeywords = []string{"golang", "release"}
	e := NewEvaluator(r, evalNow)

	if ok, _ := e.Allowed(baseItem()); !ok {
		t.Error("Item with 'release' in title must pass")
	}

	miss := baseItem()
	miss.Title = "Python 3.13 Notes"
	miss.Summary = "Nothing relevant"
	if ok, reason := e.Allowed(miss); ok || reason != "include_keywords" {
		t.Errorf("Item without any include keyword must fail include_keywords, got ok=%t reason=%s", ok, reason)
	}

	summaryHit := miss
	summaryHit.Summary = "Now with Golang bindings"
	if ok, _ := e.Allowed(summaryHit); !ok {
		t.Error("Case-folded keyword in summary must pass")
	}
}

func TestEvaluator_BlocklistSubstringMatching(t *testing.T) {
	r := rules.Defaults()
	r.BlocklistKeywords = []string{"spam"}
	e := NewEvaluator(r, evalNow)

	blocked := baseItem()
	blocked.Title = "Buy Spam Now"
	if ok, reason := e.Allowed(blocked); ok || reason != "blocklist_keywords" {
		t.Errorf("Blocklisted title must be rejected, got ok=%t reason=%s", ok, reason)
	}

	// Substring policy: "Spamalot" contains "spam" after folding
	substring := baseItem()
	substring.Title = "Spamalot"
	if ok, _ := e.Allowed(substring); ok {
		t.Error("Substring matching must also reject 'Spamalot'")
	}

	clean := baseItem()
	if ok, _ := e.Allowed(clean); !ok {
		t.Error("Clean item must pass the blocklist")
	}
}

func TestEvaluator_MaxAge(t *testing.T) {
	r := rules.Defaults()
	r.MaxAgeDays = 7
	e := NewEvaluator(r, evalNow)

	fresh := baseItem()
	fresh.IsoDate = isoDaysAgo(3)
	if ok, _ := e.Allowed(fresh); !ok {
		t.Error("Item within max age must pass")
	}

	stale := baseItem()
	stale.IsoDate = isoDaysAgo(30)
	if ok, reason := e.Allowed(stale); ok || reason != "max_age_days" {
		t.Errorf("Stale item must be rejected on age, got ok=%t reason=%s", ok, reason)
	}

	malformed := baseItem()
	malformed.IsoDate = "not-a-timestamp"
	if ok, _ := e.Allowed(malformed); !ok {
		t.Error("Malformed isoDate must be treated as age zero, never rejected on age")
	}
}

func TestEvaluator_IncludeSources(t *testing.T) {
	r := rules.Defaults()
	r.IncludeSources = []string{"the go blog"}
	e := NewEvaluator(r, evalNow)

	if ok, _ := e.Allowed(baseItem()); !ok {
		t.Error("Source title must match case-insensitively")
	}

	other := baseItem()
	other.Source = "Another Blog"
	if ok, reason := e.Allowed(other); ok || reason != "include_sources" {
		t.Errorf("Unlisted source must be rejected, got ok=%t reason=%s", ok, reason)
	}

	// Equality, not substring: a partial source name must not match
	r.IncludeSources = []string{"go blog"}
	if ok, _ := e.Allowed(baseItem()); ok {
		t.Error("Include sources must match exactly, not by substring")
	}

	// Domain matching when the source field is listed by domain
	r.IncludeSources = []string{"go.dev"}
	if ok, _ := e.Allowed(baseItem()); !ok {
		t.Error("Listed domain must match the item's link domain")
	}
}

func TestEvaluator_ExcludeSources(t *testing.T) {
	r := rules.Defaults()
	r.ExcludeSources = []string{"go blog"}
	e := NewEvaluator(r, evalNow)

	// Substring against the source title
	if ok, reason := e.Allowed(baseItem()); ok || reason != "exclude_sources" {
		t.Errorf("Substring of source title must exclude, got ok=%t reason=%s", ok, reason)
	}

	// Exact match against the domain
	r.ExcludeSources = []string{"go.dev"}
	if ok, _ := e.Allowed(baseItem()); ok {
		t.Error("Exact domain match must exclude")
	}

	// Partial domain is not an exact domain match and the source
	// title does not contain it
	r.ExcludeSources = []string{"o.dev"}
	if ok, _ := e.Allowed(baseItem()); !ok {
		t.Error("Partial domain must not exclude")
	}
}

func TestEvaluator_ExcludeSourcesUsesDomainWhenSourceEmpty(t *testing.T) {
	r := rules.Defaults()
	r.ExcludeSources = []string{"example"}
	e := NewEvaluator(r, evalNow)

	item := baseItem()
	item.Source = ""
	item.Link = "https://www.example.com/post"
	if ok, _ := e.Allowed(item); ok {
		t.Error("With empty source, the www-stripped domain is the match target")
	}
}

func TestEvaluator_Authors(t *testing.T) {
	r := rules.Defaults()
	r.IncludeAuthors = []string{"go team"}
	e := NewEvaluator(r, evalNow)

	if ok, _ := e.Allowed(baseItem()); !ok {
		t.Error("Author substring must match case-insensitively")
	}

	other := baseItem()
	other.Author = "Someone Else"
	if ok, reason := e.Allowed(other); ok || reason != "include_authors" {
		t.Errorf("Unlisted author must be rejected, got ok=%t reason=%s", ok, reason)
	}

	r = rules.Defaults()
	r.ExcludeAuthors = []string{"team"}
	e = NewEvaluator(r, evalNow)
	if ok, reason := e.Allowed(baseItem()); ok || reason != "exclude_authors" {
		t.Errorf("Excluded author substring must reject, got ok=%t reason=%s", ok, reason)
	}
}

func TestEvaluator_Tags(t *testing.T) {
	r := rules.Defaults()
	r.IncludeTags = []string{"RELEASE"}
	e := NewEvaluator(r, evalNow)

	if ok, _ := e.Allowed(baseItem()); !ok {
		t.Error("Tag membership must be case-folded")
	}

	// Exact membership, not substring
	r.IncludeTags = []string{"rele"}
	if ok, reason := e.Allowed(baseItem()); ok || reason != "include_tags" {
		t.Errorf("Partial tag must not match, got ok=%t reason=%s", ok, reason)
	}

	r = rules.Defaults()
	r.ExcludeTags = []string{"go"}
	e = NewEvaluator(r, evalNow)
	if ok, reason := e.Allowed(baseItem()); ok || reason != "exclude_tags" {
		t.Errorf("Shared excluded tag must reject, got ok=%t reason=%s", ok, reason)
	}

	untagged := baseItem()
	untagged.Tags = nil
	if ok, _ := e.Allowed(untagged); !ok {
		t.Error("Item without tags must pass an exclude_tags rule")
	}
}

func TestEvaluator_MinTitleLength(t *testing.T) {
	r := rules.Defaults()
	r.MinTitleLength = 10
	e := NewEvaluator(r, evalNow)

	short := baseItem()
	short.Title = "Short"
	if ok, reason := e.Allowed(short); ok || reason != "min_title_length" {
		t.Errorf("Short title must be rejected, got ok=%t reason=%s", ok, reason)
	}

	if ok, _ := e.Allowed(baseItem()); !ok {
		t.Error("Long enough title must pass")
	}
}

// Toggling any single list between empty and non-empty changes only
// that predicate's effect.
func TestEvaluator_PredicatesAreIndependent(t *testing.T) {
	item := baseItem()

	mutations := []func(*rules.Rules){
		func(r *rules.Rules) { r.IncludeKeywords = []string{"no-such-needle"} },
		func(r *rules.Rules) { r.BlocklistKeywords = []string{"go"} },
		func(r *rules.Rules) { r.IncludeSources = []string{"other source"} },
		func(r *rules.Rules) { r.ExcludeSources = []string{"go blog"} },
		func(r *rules.Rules) { r.IncludeAuthors = []string{"nobody"} },
		func(r *rules.Rules) { r.ExcludeAuthors = []string{"go team"} },
		func(r *rules.Rules) { r.IncludeTags = []string{"missing"} },
		func(r *rules.Rules) { r.ExcludeTags = []string{"go"} },
	}

	for i, mutate := range mutations {
		r := rules.Defaults()
		e := NewEvaluator(r, evalNow)
		if ok, reason := e.Allowed(item); !ok {
			t.Fatalf("Mutation %d baseline: item must pass default rules, rejected by %s", i, reason)
		}

		mutate(r)
		e = NewEvaluator(r, evalNow)
		if ok, _ := e.Allowed(item); ok {
			t.Errorf("Mutation %d: toggled predicate must now reject the item", i)
		}
	}
}

func TestDomain(t *testing.T) {
	cases := []struct {
		link string
		want string
	}{
		{"https://www.example.com/post", "example.com"},
		{"https://Example.COM/post", "example.com"},
		{"https://sub.example.com:8080/post", "sub.example.com"},
		{"", ""},
		{"://not a url", ""},
	}

	for _, c := range cases {
		if got := Domain(c.link); got != c.want {
			t.Errorf("Domain(%q) = %q, want %q", c.link, got, c.want)
		}
	}
}
