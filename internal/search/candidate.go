// Copyright (c) 2026 Danmu. All rights reserved.

package search

import (
	"regexp"
	"strings"
)

// Candidate is one search hit fanned out from a provider, after the
// pipeline's filter/correct/sort passes.
type Candidate struct {
	ProviderName        string
	MediaID             string
	Title               string
	Type                string
	Season              int
	ImageURL            string
	DisplayOrder        int
	CurrentEpisodeIndex *int
}

var movieKeywords = []string{"剧场版", "劇場版", "movie", "映画"}

// applyTypeCorrection rewrites any tv_series candidate whose title
// contains a movie-signaling keyword (case-insensitive) to "movie".
func applyTypeCorrection(candidates []Candidate) []Candidate {
	for i := range candidates {
		if candidates[i].Type != "tv_series" {
			continue
		}
		lower := strings.ToLower(candidates[i].Title)
		for _, kw := range movieKeywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				candidates[i].Type = "movie"
				break
			}
		}
	}
	return candidates
}

// applySeasonFilter drops candidates that aren't a tv_series matching the
// parsed season, when the query carried one.
func applySeasonFilter(candidates []Candidate, season *int) []Candidate {
	if season == nil {
		return candidates
	}
	kept := candidates[:0]
	for _, c := range candidates {
		if c.Type == "tv_series" && c.Season == *season {
			kept = append(kept, c)
		}
	}
	return kept
}

// applyEpisodeEcho stamps every surviving candidate with the parsed
// episode index (or leaves it nil).
func applyEpisodeEcho(candidates []Candidate, episode *int) []Candidate {
	for i := range candidates {
		candidates[i].CurrentEpisodeIndex = episode
	}
	return candidates
}

var (
	reBracketed = regexp.MustCompile(`[\[【(（][^\]】)）]*[\]】)）]`)
)

// normalizeForAliasMatch strips bracketed regions, lowercases, removes
// spaces, and folds fullwidth colon/quote punctuation to ":" so alias and
// candidate titles compare on the same footing.
func normalizeForAliasMatch(s string) string {
	s = reBracketed.ReplaceAllString(s, "")
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "：", ":")
	s = strings.ReplaceAll(s, "\"", ":")
	return s
}

// applyAliasFilter keeps a candidate iff any normalized alias contains, or
// is contained by, the normalized candidate title. An empty aliases slice
// means the filter is skipped (the caller didn't have any to apply).
func applyAliasFilter(candidates []Candidate, aliases []string) []Candidate {
	if len(aliases) == 0 {
		return candidates
	}

	normalizedAliases := make([]string, len(aliases))
	for i, a := range aliases {
		normalizedAliases[i] = normalizeForAliasMatch(a)
	}

	kept := candidates[:0]
	for _, c := range candidates {
		title := normalizeForAliasMatch(c.Title)
		for _, alias := range normalizedAliases {
			if alias == "" {
				continue
			}
			if strings.Contains(title, alias) || strings.Contains(alias, title) {
				kept = append(kept, c)
				break
			}
		}
	}
	return kept
}
