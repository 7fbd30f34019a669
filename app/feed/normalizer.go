package feed

import (
	"cmp"
	"crypto/sha1"
	"encoding/hex"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// Normalize converts one parsed entry plus its feed metadata into a
// canonical Item. It never fails: every missing field degrades to its
// documented default.
func Normalize(entry *gofeed.Item, feedTitle, category string, now time.Time) Item {
	ts := resolveTimestamp(entry, now)
	link := strings.TrimSpace(entry.Link)

	// Same link always hashes to the same id across runs. Entries
	// without a link fall back to title+timestamp.
	raw := link
	if raw == "" {
		raw = entry.Title + ts
	}

	return Item{
		ID:       HashID(raw),
		Title:    strings.TrimSpace(entry.Title),
		Link:     link,
		Summary:  strings.TrimSpace(entry.Description),
		IsoDate:  ts,
		Source:   feedTitle,
		Category: category,
		Author:   strings.TrimSpace(extractAuthor(entry)),
		Tags:     collectTags(entry),
		Image:    extractFirstImage(entry),
		Pinned:   false,
	}
}

// HashID derives the stable item identifier from its key material.
func HashID(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// resolveTimestamp picks the entry's published time, then its updated
// time, then the current fetch time. The order is significant.
func resolveTimestamp(entry *gofeed.Item, now time.Time) string {
	if entry.PublishedParsed != nil {
		return entry.PublishedParsed.UTC().Format(TimeLayout)
	}
	if entry.UpdatedParsed != nil {
		return entry.UpdatedParsed.UTC().Format(TimeLayout)
	}
	return now.UTC().Format(TimeLayout)
}

func extractAuthor(entry *gofeed.Item) string {
	if len(entry.Authors) > 0 && entry.Authors[0] != nil {
		return cmp.Or(entry.Authors[0].Name, entry.Authors[0].Email)
	}
	if entry.Author != nil {
		return cmp.Or(entry.Author.Name, entry.Author.Email)
	}
	return ""
}

func collectTags(entry *gofeed.Item) []string {
	tags := make([]string, 0, len(entry.Categories))
	for _, category := range entry.Categories {
		if category != "" {
			tags = append(tags, category)
		}
	}
	return tags
}

// extractFirstImage looks for a media thumbnail, then a media content
// URL, then an image-typed enclosure.
func extractFirstImage(entry *gofeed.Item) string {
	if media, ok := entry.Extensions["media"]; ok {
		for _, key := range []string{"thumbnail", "content"} {
			if exts := media[key]; len(exts) > 0 {
				if url := exts[0].Attrs["url"]; url != "" {
					return url
				}
			}
		}
	}

	for _, enclosure := range entry.Enclosures {
		if enclosure == nil {
			continue
		}
		if strings.HasPrefix(enclosure.Type, "image/") && enclosure.URL != "" {
			return enclosure.URL
		}
	}

	return ""
}
