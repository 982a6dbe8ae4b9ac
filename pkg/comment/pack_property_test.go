// Copyright (c) 2026 Danmu. All rights reserved.

package comment_test

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/sorahq/danmu/pkg/comment"
)

// TestPack_RoundTripsForAnyValidInput checks that Pack followed by Unpack
// recovers the original fields for every valid mode/color/provider
// combination, not just the handful of fixed cases above.
func TestPack_RoundTripsForAnyValidInput(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	modes := gen.OneConstOf(comment.ModeScroll, comment.ModeBottom, comment.ModeTop)

	properties.Property("pack/unpack round-trips to two decimal places", prop.ForAll(
		func(t float64, mode comment.Mode, color int, provider string) bool {
			rounded := float64(int(t*100)) / 100

			p, err := comment.Pack(rounded, mode, color, provider)
			if err != nil {
				return false
			}

			gotT, gotMode, gotColor, gotProvider, err := comment.Unpack(p)
			if err != nil {
				return false
			}
			return gotT == rounded && gotMode == mode && gotColor == color && gotProvider == provider
		},
		gen.Float64Range(0, 100000),
		modes,
		gen.IntRange(0, (1<<24)-1),
		gen.OneConstOf("", "tencent", "iqiyi", "bilibili-with-dash"),
	))

	properties.TestingRun(t)
}
