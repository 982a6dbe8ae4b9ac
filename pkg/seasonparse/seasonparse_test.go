// Copyright (c) 2026 Danmu. All rights reserved.

package seasonparse_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sorahq/danmu/pkg/seasonparse"
)

func TestFromTitle_DefaultsToOne(t *testing.T) {
	assert.Equal(t, 1, seasonparse.FromTitle(""))
	assert.Equal(t, 1, seasonparse.FromTitle("A Title With No Season Marker"))
}

func TestFromTitle_SxxPattern(t *testing.T) {
	assert.Equal(t, 2, seasonparse.FromTitle("Attack on Titan S02"))
	assert.Equal(t, 3, seasonparse.FromTitle("Some Show Season 3"))
}

func TestFromTitle_ChineseUnitPattern(t *testing.T) {
	assert.Equal(t, 2, seasonparse.FromTitle("某动画 第二季"))
	assert.Equal(t, 3, seasonparse.FromTitle("某动画 第3部"))
	assert.Equal(t, 1, seasonparse.FromTitle("某动画 第一幕"))
}

func TestFromTitle_ZhangPattern(t *testing.T) {
	assert.Equal(t, 4, seasonparse.FromTitle("肆之章"))
}

func TestFromTitle_UnicodeRomanPattern(t *testing.T) {
	assert.Equal(t, 3, seasonparse.FromTitle("Fate/Zero Ⅲ"))
}

func TestFromTitle_ASCIIRomanPattern(t *testing.T) {
	assert.Equal(t, 3, seasonparse.FromTitle("Some Anime III"))
	assert.Equal(t, 4, seasonparse.FromTitle("Some Anime IV"))
	assert.Equal(t, 9, seasonparse.FromTitle("Some Anime IX"))
}

func TestFromTitle_PriorityPrefersEarlierPattern(t *testing.T) {
	// "S02" must win over any trailing roman-looking token.
	assert.Equal(t, 2, seasonparse.FromTitle("Some Show S02 Ⅲ"))
}
