// Copyright (c) 2026 Danmu. All rights reserved.

package comment

import (
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// SanitizeTitle strips HTML tags a provider embeds in episode/media titles
// (bold tags around a matched search term are common) and unescapes HTML
// entities, collapsing runs of whitespace left behind, and replaces ":"
// with the full-width "：".
func SanitizeTitle(raw string) string {
	if raw == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return strings.ReplaceAll(strings.TrimSpace(html.UnescapeString(raw)), ":", "：")
	}

	text := html.UnescapeString(doc.Text())
	fields := strings.Fields(text)
	return strings.ReplaceAll(strings.Join(fields, " "), ":", "：")
}
