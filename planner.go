package statechart

// ancestorsFunc resolves a state's root-to-id path, as provided by the
// Registry. It is the only dependency the planner has on the rest of the
// framework, keeping the LCA arithmetic pure and independently testable.
type ancestorsFunc[S comparable] func(S) ([]S, error)

// plan computes the exit count (number of leaf-most instances to destroy,
// in reverse-entry order) and the entry path (identifiers to construct,
// in root-to-leaf order) for a transition from `from` to `to`.
//
// Self-transition (from == to) tears the state down and re-enters it: one
// exit, one entry. Otherwise the longest common prefix of the two
// ancestor paths is the least common ancestor; everything below it on the
// `from` side is exited and everything below it on the `to` side is
// entered. When `to` is itself an ancestor of `from` the common prefix
// covers the whole `to` path, so nothing would be entered — the planner
// additionally exits and re-enters `to` so its entry effect still fires
// once per arrival.
func plan[S comparable](ancestors ancestorsFunc[S], from, to S) (exitCount int, enterPath []S, err error) {
	if from == to {
		return 1, []S{to}, nil
	}

	a, err := ancestors(from)
	if err != nil {
		return 0, nil, err
	}
	b, err := ancestors(to)
	if err != nil {
		return 0, nil, err
	}

	k := 0
	for k < len(a) && k < len(b) && a[k] == b[k] {
		k++
	}

	if k == len(b) {
		// `to` is a proper ancestor of `from`: exit everything deeper than
		// `to`, then exit and re-enter `to` itself.
		return len(a) - k + 1, []S{to}, nil
	}

	return len(a) - k, append([]S(nil), b[k:]...), nil
}
