// Copyright (c) 2026 Danmu. All rights reserved.

/*
Package comment packs and normalizes danmaku comment streams.

Every scraper returns raw comments in the same shape before the engine ever
sees them: a packed positional string for rendering hints (timestamp, mode,
color, source provider) plus the free-text body. This package owns both the
wire encoding of that packed field and the dedup/collapse pass scrapers run
before handing comments back.

Normalization Pipeline:

 1. Dedupe by upstream cid.
 2. Group survivors by text body.
 3. Collapse groups of size >= 2 into their earliest-timestamp member,
    suffixing its body with " X{n}".
 4. Return unsorted; DB insertion order is the caller's concern.
*/
package comment

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Mode is the rendering lane a comment scrolls through.
type Mode int

const (
	ModeScroll Mode = 1
	ModeBottom Mode = 4
	ModeTop    Mode = 5
)

// maxColor is the exclusive upper bound of a 24-bit RGB color value.
const maxColor = 1 << 24

// Raw is a single comment as returned by a scraper before normalization.
type Raw struct {
	CID string
	P   string
	M   string
	T   float64
}

// Comment is a normalized, deduplicated comment ready for DB insertion.
type Comment struct {
	CID string
	P   string
	M   string
	T   float64
}

// Pack renders the positional "p" field:
// "<t:%.2f>,<mode:int>,<color:int>,[<provider>]".
// provider may be empty, in which case the trailing segment is omitted.
func Pack(t float64, mode Mode, color int, provider string) (string, error) {
	if mode != ModeScroll && mode != ModeBottom && mode != ModeTop {
		return "", fmt.Errorf("comment: mode %d is not one of {1,4,5}", mode)
	}
	if color < 0 || color >= maxColor {
		return "", fmt.Errorf("comment: color %d is out of 24-bit range", color)
	}

	if provider == "" {
		return fmt.Sprintf("%.2f,%d,%d", t, mode, color), nil
	}
	return fmt.Sprintf("%.2f,%d,%d,%s", t, mode, color, provider), nil
}

// Unpack parses a packed "p" field back into its components. provider is ""
// when the field carries no trailing segment.
func Unpack(p string) (t float64, mode Mode, color int, provider string, err error) {
	parts := strings.SplitN(p, ",", 4)
	if len(parts) < 3 {
		return 0, 0, 0, "", fmt.Errorf("comment: malformed packed field %q", p)
	}

	t, err = strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, 0, 0, "", fmt.Errorf("comment: invalid timestamp in %q: %w", p, err)
	}

	modeInt, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, 0, "", fmt.Errorf("comment: invalid mode in %q: %w", p, err)
	}
	mode = Mode(modeInt)

	color, err = strconv.Atoi(parts[2])
	if err != nil {
		return 0, 0, 0, "", fmt.Errorf("comment: invalid color in %q: %w", p, err)
	}

	if len(parts) == 4 {
		provider = parts[3]
	}
	return t, mode, color, provider, nil
}

// Normalize dedupes raw comments by cid, then collapses groups of identical
// text into a single earliest-timestamp comment suffixed "{m} X{n}".
func Normalize(raw []Raw) []Comment {
	deduped := dedupeByCID(raw)

	groups := make(map[string][]Raw)
	order := make([]string, 0, len(deduped))
	for _, r := range deduped {
		if _, seen := groups[r.M]; !seen {
			order = append(order, r.M)
		}
		groups[r.M] = append(groups[r.M], r)
	}

	out := make([]Comment, 0, len(deduped))
	for _, m := range order {
		group := groups[m]
		out = append(out, collapse(group))
	}
	return out
}

// dedupeByCID keeps the first occurrence of each cid, in input order.
func dedupeByCID(raw []Raw) []Raw {
	seen := make(map[string]bool, len(raw))
	out := make([]Raw, 0, len(raw))
	for _, r := range raw {
		if seen[r.CID] {
			continue
		}
		seen[r.CID] = true
		out = append(out, r)
	}
	return out
}

// collapse reduces a same-text group to its earliest-timestamp comment,
// appending " X{n}" to the body when the group has more than one member.
func collapse(group []Raw) Comment {
	earliest := group[0]
	for _, r := range group[1:] {
		if r.T < earliest.T {
			earliest = r
		}
	}

	body := earliest.M
	if len(group) >= 2 {
		body = fmt.Sprintf("%s X%d", body, len(group))
	}

	return Comment{
		CID: earliest.CID,
		P:   earliest.P,
		M:   body,
		T:   earliest.T,
	}
}

// SortByTime orders comments ascending by timestamp; comments sharing a
// timestamp keep their relative input order.
func SortByTime(comments []Comment) {
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].T < comments[j].T
	})
}
