package inbound

import (
	"strings"

	"golang.org/x/net/html"
)

var (
	skipTags = map[string]bool{"script": true, "style": true, "head": true, "title": true}
	// tags that end a line of text
	blockTags = map[string]bool{
		"br": true, "p": true, "div": true, "tr": true, "li": true, "table": true,
		"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
		"ul": true, "ol": true, "blockquote": true, "pre": true, "hr": true,
	}
	cellTags = map[string]bool{"td": true, "th": true}
)

// StripHTML converts an HTML email body to readable plain text.
func StripHTML(s string) string {
	z := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	skip := 0

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return tidy(b.String())
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if skipTags[tag] && tt == html.StartTagToken {
				skip++
			}
			writeBreak(&b, tag)
		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if skipTags[tag] && skip > 0 {
				skip--
			}
			writeBreak(&b, tag)
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		}
	}
}

func writeBreak(b *strings.Builder, tag string) {
	switch {
	case blockTags[tag]:
		b.WriteByte('\n')
	case cellTags[tag]:
		b.WriteByte(' ')
	}
}

// tidy collapses runs of whitespace within lines and drops empty lines.
func tidy(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
