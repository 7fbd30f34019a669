package opml

import (
	"bytes"
	"cmp"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Feed describes a single feed source collected from the OPML outline.
// Category is the nearest enclosing named outline group, or empty.
type Feed struct {
	Title    string
	URL      string
	Category string
}

// Parse reads an OPML document and collects feed descriptors from its
// outline tree. Tolerant to attribute casing and arbitrary nesting.
// A malformed document is a hard error: an empty feed list would be
// indistinguishable from "no sources configured".
func Parse(path string) ([]Feed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read OPML at %s: %w", path, err)
	}

	feeds, err := parse(data)
	if err != nil {
		var syntaxErr *xml.SyntaxError
		if errors.As(err, &syntaxErr) {
			return nil, fmt.Errorf("OPML is not well-formed: %s\nHINT: Unescaped '&' is common; use '&amp;' in text/title.%s",
				syntaxErr.Error(), contextAround(data, syntaxErr.Line))
		}
		return nil, fmt.Errorf("OPML is not well-formed: %w", err)
	}

	return feeds, nil
}

// parse walks every outline element. An outline carrying a feed URL
// contributes a descriptor; any named outline acts as a folder whose
// name becomes the category of its descendants.
func parse(data []byte) ([]Feed, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))

	feeds := []Feed{}
	groups := []string{""}

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := token.(type) {
		case xml.StartElement:
			group := groups[len(groups)-1]

			if !strings.EqualFold(t.Name.Local, "outline") {
				groups = append(groups, group)
				continue
			}

			attrs := make(map[string]string, len(t.Attr))
			for _, attr := range t.Attr {
				attrs[strings.ToLower(attr.Name.Local)] = attr.Value
			}

			xmlURL := cmp.Or(attrs["xmlurl"], attrs["url"], attrs["htmlurl"])
			text := cmp.Or(attrs["text"], attrs["title"])

			if xmlURL != "" {
				feeds = append(feeds, Feed{Title: text, URL: xmlURL, Category: group})
			}

			// Children inherit this outline's name as their group
			groups = append(groups, cmp.Or(text, group))
		case xml.EndElement:
			groups = groups[:len(groups)-1]
		}
	}

	return feeds, nil
}

// contextAround renders a few numbered lines around the failing line
// so a human can fix the document without opening an XML validator.
func contextAround(data []byte, line int) string {
	if line <= 0 {
		return ""
	}

	lines := strings.Split(string(data), "\n")
	start := max(0, line-3)
	end := min(len(lines), line+2)
	if start >= end {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n---- OPML context around line %d ----\n", line)
	for i := start; i < end; i++ {
		fmt.Fprintf(&b, "%4d: %s\n", i+1, lines[i])
	}
	b.WriteString("---------------------------------------")
	return b.String()
}
