// Copyright (c) 2026 Danmu. All rights reserved.

package comment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sorahq/danmu/pkg/comment"
)

func TestSanitizeTitle_StripsTagsAndUnescapesEntities(t *testing.T) {
	got := comment.SanitizeTitle("<b>Attack</b> on Titan &middot; S04")
	assert.Equal(t, "Attack on Titan · S04", got)
}

func TestSanitizeTitle_CollapsesWhitespace(t *testing.T) {
	got := comment.SanitizeTitle("Some   <em>Show</em>\nTitle")
	assert.Equal(t, "Some Show Title", got)
}

func TestSanitizeTitle_EmptyInputReturnsEmpty(t *testing.T) {
	assert.Equal(t, "", comment.SanitizeTitle(""))
}
