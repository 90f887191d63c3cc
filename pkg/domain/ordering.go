package domain

import "fmt"

// Ordering algebra for contiguous position lists. The functions operate on a
// slice of record IDs sorted by current position; index equals position. All
// shift-then-insert and close-gap logic funnels through here so the
// off-by-one surface is tested independently of storage.

// InsertAt returns order with id inserted at position at. Passing at == len
// appends. The input slice is not modified.
func InsertAt(order []string, id string, at int) ([]string, error) {
	if at < 0 || at > len(order) {
		return nil, ValidationError{Field: "position", Reason: fmt.Sprintf("position %d out of range [0,%d]", at, len(order))}
	}
	out := make([]string, 0, len(order)+1)
	out = append(out, order[:at]...)
	out = append(out, id)
	out = append(out, order[at:]...)
	return out, nil
}

// Remove returns order with id removed, the index it occupied, and whether
// it was present. The input slice is not modified.
func Remove(order []string, id string) ([]string, int, bool) {
	for i, existing := range order {
		if existing == id {
			out := make([]string, 0, len(order)-1)
			out = append(out, order[:i]...)
			out = append(out, order[i+1:]...)
			return out, i, true
		}
	}
	return order, -1, false
}

// MoveTo returns order with id relocated to position to, applying the
// close-gap then open-gap sequence. A move to the current position returns
// the input order unchanged so sibling positions see no churn.
func MoveTo(order []string, id string, to int) ([]string, error) {
	if to < 0 || to >= len(order) {
		return nil, ValidationError{Field: "position", Reason: fmt.Sprintf("position %d out of range [0,%d]", to, len(order)-1)}
	}
	without, from, ok := Remove(order, id)
	if !ok {
		return nil, NotFoundError{ID: id}
	}
	if from == to {
		return order, nil
	}
	return InsertAt(without, id, to)
}

// CheckContiguous verifies that positions form exactly {0..n-1}.
func CheckContiguous(positions []int) error {
	seen := make([]bool, len(positions))
	for _, p := range positions {
		if p < 0 || p >= len(positions) {
			return fmt.Errorf("position %d outside [0,%d)", p, len(positions))
		}
		if seen[p] {
			return fmt.Errorf("duplicate position %d", p)
		}
		seen[p] = true
	}
	return nil
}
