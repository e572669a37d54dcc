package engine

// Sequence picks the crises for a run: the player's selection (or every
// offered id when the selection is empty), shuffled, capped at limit.
// Selected ids that are not offered are ignored.
func Sequence(rng Rand, offered, selected []string, limit int) ([]string, error) {
	candidates := filterOffered(offered, selected)
	if len(candidates) == 0 {
		candidates = dedupe(offered)
	}
	if len(candidates) == 0 || limit <= 0 {
		return nil, ErrEmptySelection
	}

	shuffle(rng, candidates)
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

// shuffle is Fisher–Yates: j is drawn uniformly from [0, i].
func shuffle(rng Rand, ids []string) {
	for i := len(ids) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		ids[i], ids[j] = ids[j], ids[i]
	}
}

func filterOffered(offered, selected []string) []string {
	known := make(map[string]bool, len(offered))
	for _, id := range offered {
		known[id] = true
	}
	out := make([]string, 0, len(selected))
	seen := make(map[string]bool, len(selected))
	for _, id := range selected {
		if !known[id] || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
