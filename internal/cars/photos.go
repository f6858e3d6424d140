package car

// NormalizePhotos enforces the gallery invariant: a non-empty list has exactly
// one primary photo and densely renumbered sort_order. When no entry is
// flagged primary, or the primary was removed, the first entry is promoted.
// When several are flagged, the first flagged entry wins.
func NormalizePhotos(photos []PhotoDraft) []PhotoDraft {
	if len(photos) == 0 {
		return photos
	}

	out := make([]PhotoDraft, len(photos))
	copy(out, photos)

	primary := -1
	for i := range out {
		if out[i].IsPrimary {
			primary = i
			break
		}
	}
	if primary == -1 {
		primary = 0
	}

	for i := range out {
		out[i].IsPrimary = i == primary
		out[i].SortOrder = i
	}
	return out
}
