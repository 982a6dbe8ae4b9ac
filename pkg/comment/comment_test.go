// Copyright (c) 2026 Danmu. All rights reserved.

package comment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sorahq/danmu/pkg/comment"
)

func TestPack_RoundTripsThroughUnpack(t *testing.T) {
	p, err := comment.Pack(10.5, comment.ModeScroll, 16777215, "tencent")
	require.NoError(t, err)
	assert.Equal(t, "10.50,1,16777215,tencent", p)

	gotT, gotMode, gotColor, gotProvider, err := comment.Unpack(p)
	require.NoError(t, err)
	assert.Equal(t, 10.5, gotT)
	assert.Equal(t, comment.ModeScroll, gotMode)
	assert.Equal(t, 16777215, gotColor)
	assert.Equal(t, "tencent", gotProvider)
}

func TestPack_OmitsProviderSegmentWhenEmpty(t *testing.T) {
	p, err := comment.Pack(0, comment.ModeBottom, 0, "")
	require.NoError(t, err)
	assert.Equal(t, "0.00,4,0", p)

	_, _, _, provider, err := comment.Unpack(p)
	require.NoError(t, err)
	assert.Empty(t, provider)
}

func TestPack_RejectsInvalidMode(t *testing.T) {
	_, err := comment.Pack(1, comment.Mode(2), 0, "")
	assert.Error(t, err)
}

func TestPack_RejectsOutOfRangeColor(t *testing.T) {
	_, err := comment.Pack(1, comment.ModeScroll, -1, "")
	assert.Error(t, err)

	_, err = comment.Pack(1, comment.ModeScroll, 1<<24, "")
	assert.Error(t, err)
}

func TestUnpack_RejectsMalformedField(t *testing.T) {
	_, _, _, _, err := comment.Unpack("not-enough-parts")
	assert.Error(t, err)
}

// TestNormalize_CollapsesDuplicateText: four upstream comments with
// identical text at t=10.0/10.5/11.0/12.0 collapse into one comment
// "233 X4" at t=10.0.
func TestNormalize_CollapsesDuplicateText(t *testing.T) {
	p, err := comment.Pack(10.0, comment.ModeScroll, 16777215, "tencent")
	require.NoError(t, err)

	raw := []comment.Raw{
		{CID: "1", P: p, M: "233", T: 10.0},
		{CID: "2", P: p, M: "233", T: 10.5},
		{CID: "3", P: p, M: "233", T: 11.0},
		{CID: "4", P: p, M: "233", T: 12.0},
	}

	got := comment.Normalize(raw)

	require.Len(t, got, 1)
	assert.Equal(t, "233 X4", got[0].M)
	assert.Equal(t, 10.0, got[0].T)
	assert.Equal(t, "1", got[0].CID)
}

func TestNormalize_DedupesByCIDBeforeGrouping(t *testing.T) {
	raw := []comment.Raw{
		{CID: "1", M: "hello", T: 1.0},
		{CID: "1", M: "hello", T: 2.0},
	}

	got := comment.Normalize(raw)

	require.Len(t, got, 1)
	assert.Equal(t, "hello", got[0].M)
	assert.Equal(t, 1.0, got[0].T)
}

func TestNormalize_LeavesSingletonGroupsUnsuffixed(t *testing.T) {
	raw := []comment.Raw{
		{CID: "1", M: "unique comment", T: 5.0},
	}

	got := comment.Normalize(raw)

	require.Len(t, got, 1)
	assert.Equal(t, "unique comment", got[0].M)
}

func TestSortByTime_OrdersAscendingAndStable(t *testing.T) {
	in := []comment.Comment{
		{CID: "b", T: 2.0},
		{CID: "a", T: 1.0},
		{CID: "c", T: 1.0},
	}

	comment.SortByTime(in)

	require.Len(t, in, 3)
	assert.Equal(t, "a", in[0].CID)
	assert.Equal(t, "c", in[1].CID)
	assert.Equal(t, "b", in[2].CID)
}
