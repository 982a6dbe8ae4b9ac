// Copyright (c) 2026 Danmu. All rights reserved.

/*
Package seasonparse recovers a season number from a raw episode or work
title returned by an upstream provider.

Providers rarely expose a season field directly; it has to be read out of
the title string itself ("某番剧 第二季", "Foo Season 2", "Bar Ⅲ"). Patterns
are tried in a fixed priority order and the first one that matches wins —
later patterns exist only to cover titles the earlier ones don't touch.
*/
package seasonparse

import (
	"regexp"
	"strconv"
	"strings"
)

// chineseNumerals maps both formal (banknote) and simple CJK digits to
// their Arabic value, as used in "第三季" / "叁之章".
var chineseNumerals = map[rune]int{
	'一': 1, '二': 2, '三': 3, '四': 4, '五': 5, '六': 6, '七': 7, '八': 8, '九': 9, '十': 10,
	'壹': 1, '贰': 2, '叁': 3, '肆': 4, '伍': 5, '陆': 6, '柒': 7, '捌': 8, '玖': 9, '拾': 10,
}

// unicodeRoman maps the dedicated Unicode Roman numeral code points
// (Ⅰ-Ⅻ) to their value; these are distinct runes from plain ASCII letters.
var unicodeRoman = map[rune]int{
	'Ⅰ': 1, 'Ⅱ': 2, 'Ⅲ': 3, 'Ⅳ': 4, 'Ⅴ': 5, 'Ⅵ': 6,
	'Ⅶ': 7, 'Ⅷ': 8, 'Ⅸ': 9, 'Ⅹ': 10, 'Ⅺ': 11, 'Ⅻ': 12,
}

var asciiRomanValue = map[byte]int{'I': 1, 'V': 5, 'X': 10, 'L': 50, 'C': 100, 'D': 500, 'M': 1000}

var (
	reSxx          = regexp.MustCompile(`(?i)(?:S|Season)\s*(\d+)`)
	reChineseUnit  = regexp.MustCompile(`第\s*([一二三四五六七八九十壹贰叁肆伍陆柒捌玖拾\d])\s*[季部幕]`)
	reChineseZhang = regexp.MustCompile(`([一二三四五六七八九十壹贰叁肆伍陆柒捌玖拾])\s*之\s*章`)
	reUnicodeRoman = regexp.MustCompile(`\s+([Ⅰ-Ⅻ])(?:\s|$)`)
	reASCIIRoman   = regexp.MustCompile(`(?i)\s+([IVXLCDM]+)\b`)
)

// FromTitle returns the season number encoded in title, defaulting to 1
// when no pattern matches. It never returns an error: an unparseable or
// empty title simply means season 1.
func FromTitle(title string) int {
	if title == "" {
		return 1
	}

	if m := reSxx.FindStringSubmatch(title); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n
		}
	}

	if m := reChineseUnit.FindStringSubmatch(title); m != nil {
		if n, ok := resolveNumeral(m[1]); ok {
			return n
		}
	}

	if m := reChineseZhang.FindStringSubmatch(title); m != nil {
		r := []rune(m[1])[0]
		if n, ok := chineseNumerals[r]; ok {
			return n
		}
	}

	if m := reUnicodeRoman.FindStringSubmatch(title); m != nil {
		r := []rune(m[1])[0]
		if n, ok := unicodeRoman[r]; ok {
			return n
		}
	}

	if m := reASCIIRoman.FindStringSubmatch(title); m != nil {
		if n, ok := romanToInt(strings.ToUpper(m[1])); ok {
			return n
		}
	}

	return 1
}

// ChineseNumeral reports the Arabic value of a single CJK numeral rune
// ("一".."十", "壹".."拾"), for callers outside this package that need the
// same table (internal/search's query parser, in particular).
func ChineseNumeral(r rune) (int, bool) {
	n, ok := chineseNumerals[r]
	return n, ok
}

// UnicodeRomanNumeral reports the value of a dedicated Unicode Roman
// numeral code point (Ⅰ-Ⅻ).
func UnicodeRomanNumeral(r rune) (int, bool) {
	n, ok := unicodeRoman[r]
	return n, ok
}

// RomanToInt converts an upper-cased ASCII roman numeral to its integer
// value. Exported for internal/search's query parser.
func RomanToInt(s string) (int, bool) {
	return romanToInt(s)
}

// resolveNumeral interprets a single captured "第N季" digit, which is
// either an Arabic numeral or a CJK numeral character.
func resolveNumeral(s string) (int, bool) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	r := []rune(s)[0]
	n, ok := chineseNumerals[r]
	return n, ok
}

// romanToInt converts an ASCII roman numeral (already upper-cased) to its
// integer value using the standard subtractive-pair rule. Returns false if
// the string contains a character outside the roman numeral alphabet.
func romanToInt(s string) (int, bool) {
	total := 0
	for i := 0; i < len(s); i++ {
		v, ok := asciiRomanValue[s[i]]
		if !ok {
			return 0, false
		}
		if i+1 < len(s) {
			next, ok := asciiRomanValue[s[i+1]]
			if ok && v < next {
				total += next - v
				i++
				continue
			}
		}
		total += v
	}
	return total, true
}
