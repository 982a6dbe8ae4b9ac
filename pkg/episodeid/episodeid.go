// Copyright (c) 2026 Danmu. All rights reserved.

// Package episodeid computes the deterministic 64-bit episode identifier.
//
// Episode ids are never database-generated: the same (work, source_order,
// episode_index) triple must always produce the same id so that player-side
// bookmarks survive duplicate imports.
package episodeid

import "fmt"

const (
	// prefix is the fixed leading digit sequence of every episode id.
	prefix = 25_000000_000000

	workSlot         = 1_000_000
	sourceOrderSlot  = 10_000
	episodeIndexSlot = 10_000
)

// Compute builds the deterministic episode id.
//
//	id = 25·10^12 + workID·10^6 + sourceOrder·10^4 + episodeIndex
//
// sourceOrder is the 1-based rank of the Source among its Work's sources
// ordered by id ascending. Returns an error if any field would overflow its
// slot, per §6 ("each field must fit its slot or the import is aborted with
// a fatal error").
func Compute(workID int64, sourceOrder, episodeIndex int) (int64, error) {
	if workID < 0 || workID >= workSlot {
		return 0, fmt.Errorf("episodeid: work id %d does not fit its 10^6 slot", workID)
	}
	if sourceOrder < 1 || sourceOrder >= workSlot/sourceOrderSlot {
		return 0, fmt.Errorf("episodeid: source order %d does not fit its two-digit slot", sourceOrder)
	}
	if episodeIndex < 0 || episodeIndex >= episodeIndexSlot {
		return 0, fmt.Errorf("episodeid: episode index %d does not fit its 10^4 slot", episodeIndex)
	}

	return prefix + workID*workSlot + int64(sourceOrder)*sourceOrderSlot + int64(episodeIndex), nil
}
