package models

import (
	"math/rand"
	"testing"
)

func assertDense(t *testing.T, l BlockList, context string) {
	t.Helper()
	if !l.IsDense() {
		orders := make([]int, 0, len(l))
		for _, b := range l {
			orders = append(orders, b.Order)
		}
		t.Fatalf("%s: order values %v are not a dense permutation", context, orders)
	}
}

func TestBlockList_InsertAppendsAtEnd(t *testing.T) {
	var l BlockList
	l = l.Insert(BlockTypeGoals, "Goals", "")
	l = l.Insert(BlockTypeCustom, "Extra", "")
	assertDense(t, l, "after inserts")
	if l[len(l)-1].Label != "Extra" {
		t.Errorf("expected appended block last, got %q", l[len(l)-1].Label)
	}
	if l[len(l)-1].Order != len(l)-1 {
		t.Errorf("expected appended block order %d, got %d", len(l)-1, l[len(l)-1].Order)
	}
}

func TestBlockList_DeleteCompacts(t *testing.T) {
	l := DefaultBlocks()
	id := l[1].ID
	l = l.Delete(id)
	assertDense(t, l, "after delete")
	for _, b := range l {
		if b.ID == id {
			t.Error("deleted block still present")
		}
	}
}

func TestBlockList_MoveBoundariesAreNoOps(t *testing.T) {
	l := DefaultBlocks()
	top := l[0].ID
	bottom := l[len(l)-1].ID

	moved := l.MoveUp(top)
	if moved[0].ID != top {
		t.Error("MoveUp on first block should be a no-op")
	}
	moved = l.MoveDown(bottom)
	if moved[len(moved)-1].ID != bottom {
		t.Error("MoveDown on last block should be a no-op")
	}
	assertDense(t, moved, "after boundary moves")
}

func TestBlockList_MoveSwapsNeighbors(t *testing.T) {
	l := DefaultBlocks()
	first, second := l[0].ID, l[1].ID

	l = l.MoveDown(first)
	assertDense(t, l, "after MoveDown")
	if l[0].ID != second || l[1].ID != first {
		t.Errorf("expected swap, got %s then %s", l[0].ID, l[1].ID)
	}

	l = l.MoveUp(first)
	assertDense(t, l, "after MoveUp")
	if l[0].ID != first {
		t.Errorf("expected %s back on top, got %s", first, l[0].ID)
	}
}

func TestBlockList_MoveIgnoresSliceOrder(t *testing.T) {
	// Operations must sort by Order first, not trust slice positions.
	l := BlockList{
		{ID: "c", Type: BlockTypeCustom, Order: 2},
		{ID: "a", Type: BlockTypeGoals, Order: 0},
		{ID: "b", Type: BlockTypeTimeline, Order: 1},
	}
	out := l.MoveUp("b")
	assertDense(t, out, "after MoveUp on shuffled slice")
	if out[0].ID != "b" || out[1].ID != "a" {
		t.Errorf("expected b,a,c ordering, got %s,%s,%s", out[0].ID, out[1].ID, out[2].ID)
	}
}

func TestBlockList_RandomOperationsKeepDensity(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	l := DefaultBlocks()

	for i := 0; i < 500; i++ {
		switch rng.Intn(4) {
		case 0:
			l = l.Insert(BlockTypeCustom, "Custom", "text")
		case 1:
			if len(l) > 0 {
				l = l.Delete(l[rng.Intn(len(l))].ID)
			}
		case 2:
			if len(l) > 0 {
				l = l.MoveUp(l[rng.Intn(len(l))].ID)
			}
		case 3:
			if len(l) > 0 {
				l = l.MoveDown(l[rng.Intn(len(l))].ID)
			}
		}
		assertDense(t, l, "after random operation")
	}
}

func TestBlockList_EditInPlace(t *testing.T) {
	l := DefaultBlocks()
	id := l[2].ID
	l = l.Relabel(id, "Deliverables & Scope")
	l = l.SetContent(id, "Three design rounds.")
	assertDense(t, l, "after edits")
	if l[2].Label != "Deliverables & Scope" || l[2].Content != "Three design rounds." {
		t.Errorf("in-place edit lost: %+v", l[2])
	}
}
