package domain

import (
	"reflect"
	"testing"
)

func TestInsertAtShiftsFollowers(t *testing.T) {
	order := []string{"a", "b", "c"}

	out, err := InsertAt(order, "x", 0)
	if err != nil {
		t.Fatalf("insert at head: %v", err)
	}
	if !reflect.DeepEqual(out, []string{"x", "a", "b", "c"}) {
		t.Fatalf("unexpected order after head insert: %v", out)
	}

	out, err = InsertAt(order, "x", 3)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if !reflect.DeepEqual(out, []string{"a", "b", "c", "x"}) {
		t.Fatalf("unexpected order after append: %v", out)
	}

	if !reflect.DeepEqual(order, []string{"a", "b", "c"}) {
		t.Fatalf("input slice mutated: %v", order)
	}
}

func TestInsertAtRejectsOutOfRange(t *testing.T) {
	if _, err := InsertAt([]string{"a"}, "x", -1); !IsValidation(err) {
		t.Fatalf("expected validation error for negative position, got %v", err)
	}
	if _, err := InsertAt([]string{"a"}, "x", 2); !IsValidation(err) {
		t.Fatalf("expected validation error past end, got %v", err)
	}
}

func TestRemoveClosesGap(t *testing.T) {
	out, at, ok := Remove([]string{"a", "b", "c"}, "b")
	if !ok || at != 1 {
		t.Fatalf("expected removal at index 1, got at=%d ok=%v", at, ok)
	}
	if !reflect.DeepEqual(out, []string{"a", "c"}) {
		t.Fatalf("unexpected order: %v", out)
	}

	if _, _, ok := Remove([]string{"a"}, "z"); ok {
		t.Fatalf("expected miss for unknown id")
	}
}

func TestMoveToSingleList(t *testing.T) {
	order := []string{"a", "b", "c"}

	out, err := MoveTo(order, "b", 0)
	if err != nil {
		t.Fatalf("move to head: %v", err)
	}
	if !reflect.DeepEqual(out, []string{"b", "a", "c"}) {
		t.Fatalf("unexpected order: %v", out)
	}

	out, err = MoveTo(order, "a", 2)
	if err != nil {
		t.Fatalf("move to tail: %v", err)
	}
	if !reflect.DeepEqual(out, []string{"b", "c", "a"}) {
		t.Fatalf("unexpected order: %v", out)
	}
}

func TestMoveToCurrentPositionIsNoop(t *testing.T) {
	order := []string{"a", "b", "c"}
	out, err := MoveTo(order, "b", 1)
	if err != nil {
		t.Fatalf("noop move: %v", err)
	}
	if !reflect.DeepEqual(out, order) {
		t.Fatalf("expected unchanged order, got %v", out)
	}
}

func TestMoveToErrors(t *testing.T) {
	if _, err := MoveTo([]string{"a", "b"}, "a", 2); !IsValidation(err) {
		t.Fatalf("expected validation error out of range, got %v", err)
	}
	if _, err := MoveTo([]string{"a", "b"}, "z", 0); !IsNotFound(err) {
		t.Fatalf("expected not found for unknown id, got %v", err)
	}
}

func TestCheckContiguous(t *testing.T) {
	if err := CheckContiguous([]int{2, 0, 1}); err != nil {
		t.Fatalf("valid permutation rejected: %v", err)
	}
	if err := CheckContiguous(nil); err != nil {
		t.Fatalf("empty list rejected: %v", err)
	}
	if err := CheckContiguous([]int{0, 0, 1}); err == nil {
		t.Fatalf("expected duplicate detection")
	}
	if err := CheckContiguous([]int{0, 2, 3}); err == nil {
		t.Fatalf("expected gap detection")
	}
}
