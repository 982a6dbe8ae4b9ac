// Copyright (c) 2026 Danmu. All rights reserved.

/*
Package search implements component G: the search-and-match pipeline that
fans a free-text query out across every enabled scraper, reconciles the
results against the local catalogue, and resolves dandanplay-compatible
match requests.
*/
package search

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/sorahq/danmu/pkg/seasonparse"
)

// Query is a free-text keyword decomposed into a title plus optional
// season/episode hints.
type Query struct {
	Title   string
	Season  *int
	Episode *int
}

var (
	reSeasonEpisode = regexp.MustCompile(`(?i)^(.*?)\s*S(\d{1,2})E(\d{1,4})\s*$`)
	reSeasonWord    = regexp.MustCompile(`(?i)^(.*?)\s*(?:S|Season)\s*(\d+)\s*$`)
	reChineseUnit   = regexp.MustCompile(`^(.*?)\s*第\s*([一二三四五六七八九十壹贰叁肆伍陆柒捌玖拾\d])\s*[季部]\s*$`)
	reUnicodeRoman  = regexp.MustCompile(`^(.*?)\s+([Ⅰ-Ⅻ])\s*$`)
	reASCIIRoman    = regexp.MustCompile(`(?i)^(.*?)\s+([IVXLCDM]+)\s*$`)
	reTrailingYear  = regexp.MustCompile(`\d{4}\s*$`)
	reTrailingDigit = regexp.MustCompile(`^(.*?)\s+(\d{1,2})\s*$`)
)

func intPtr(n int) *int { return &n }

// ParseQuery decomposes keyword into a [Query] by trying each pattern in
// priority order and returning on the first match; priority 7 is the
// fallthrough of "no season/episode, title = keyword".
func ParseQuery(keyword string) Query {
	keyword = strings.TrimSpace(keyword)

	// 1. "<title> S<dd>E<dddd>"
	if m := reSeasonEpisode.FindStringSubmatch(keyword); m != nil {
		season, sErr := strconv.Atoi(m[2])
		episode, eErr := strconv.Atoi(m[3])
		if sErr == nil && eErr == nil {
			title := stripTrailingSeasonQualifier(strings.TrimSpace(m[1]))
			return Query{Title: title, Season: intPtr(season), Episode: intPtr(episode)}
		}
	}

	// 2. "<title> (S|Season) <d>"
	if m := reSeasonWord.FindStringSubmatch(keyword); m != nil {
		if season, err := strconv.Atoi(m[2]); err == nil {
			return Query{Title: strings.TrimSpace(m[1]), Season: intPtr(season)}
		}
	}

	// 3. "<title> 第 <num> (季|部)"
	if m := reChineseUnit.FindStringSubmatch(keyword); m != nil {
		if season, ok := resolveChineseOrArabic(m[2]); ok {
			return Query{Title: strings.TrimSpace(m[1]), Season: intPtr(season)}
		}
	}

	// 4. "<title> <unicode-roman Ⅰ..Ⅻ>"
	if m := reUnicodeRoman.FindStringSubmatch(keyword); m != nil {
		r := []rune(m[2])[0]
		if season, ok := seasonparse.UnicodeRomanNumeral(r); ok {
			return Query{Title: strings.TrimSpace(m[1]), Season: intPtr(season)}
		}
	}

	// 5. "<title> <ASCII-roman>"
	if m := reASCIIRoman.FindStringSubmatch(keyword); m != nil {
		if season, ok := seasonparse.RomanToInt(strings.ToUpper(m[2])); ok {
			return Query{Title: strings.TrimSpace(m[1]), Season: intPtr(season)}
		}
	}

	// 6. "<title> <1-2 digit number>", unless keyword already ends in a
	// 4-digit year (e.g. a release year, not a season marker).
	if !reTrailingYear.MatchString(keyword) {
		if m := reTrailingDigit.FindStringSubmatch(keyword); m != nil {
			if season, err := strconv.Atoi(m[2]); err == nil {
				return Query{Title: strings.TrimSpace(m[1]), Season: intPtr(season)}
			}
		}
	}

	// 7. fallthrough
	return Query{Title: keyword}
}

// stripTrailingSeasonQualifier removes a trailing Chinese season qualifier
// (e.g. "第二季") a title may still carry ahead of an explicit "S<d>E<d>"
// suffix, so "Fate/Zero 第二季 S2E3" reduces to "Fate/Zero" rather than
// "Fate/Zero 第二季".
func stripTrailingSeasonQualifier(title string) string {
	if m := reChineseUnit.FindStringSubmatch(title); m != nil {
		return strings.TrimSpace(m[1])
	}
	return title
}

func resolveChineseOrArabic(s string) (int, bool) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	r := []rune(s)[0]
	return seasonparse.ChineseNumeral(r)
}
