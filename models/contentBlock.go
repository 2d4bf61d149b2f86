package models

import (
	"sort"

	"github.com/google/uuid"
)

// ContentBlock is one reorderable section of a proposal document.
// Order values always form a dense 0-based permutation; every mutating
// operation below re-establishes that invariant before returning.
type ContentBlock struct {
	ID      string    `json:"id"`
	Type    BlockType `json:"type"`
	Label   string    `json:"label"`
	Content string    `json:"content"`
	Order   int       `json:"order"`
}

// BlockList holds the ordered blocks of one proposal. It is a value type:
// operations return the updated list so callers can keep it inside the
// serialized proposal column.
type BlockList []ContentBlock

// sortedCopy returns the blocks sorted by Order. Mutations always start
// from this copy; slice insertion order is never trusted to match Order.
func (l BlockList) sortedCopy() BlockList {
	out := make(BlockList, len(l))
	copy(out, l)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// normalize compacts Order to 0..N-1 following the current sort order.
func (l BlockList) normalize() BlockList {
	out := l.sortedCopy()
	for i := range out {
		out[i].Order = i
	}
	return out
}

// Insert appends a block at the end of the list.
func (l BlockList) Insert(blockType BlockType, label string, content string) BlockList {
	out := l.normalize()
	out = append(out, ContentBlock{
		ID:      uuid.NewString(),
		Type:    blockType,
		Label:   label,
		Content: content,
		Order:   len(out),
	})
	return out
}

// Delete removes the block and compacts the remaining order values.
func (l BlockList) Delete(id string) BlockList {
	out := l.sortedCopy()
	for i, b := range out {
		if b.ID == id {
			out = append(out[:i], out[i+1:]...)
			break
		}
	}
	return out.normalize()
}

// MoveUp swaps the block with its previous neighbor. No-op at the top.
func (l BlockList) MoveUp(id string) BlockList {
	out := l.normalize()
	for i := range out {
		if out[i].ID == id {
			if i == 0 {
				return out
			}
			out[i].Order, out[i-1].Order = out[i-1].Order, out[i].Order
			return out.sortedCopy()
		}
	}
	return out
}

// MoveDown swaps the block with its next neighbor. No-op at the bottom.
func (l BlockList) MoveDown(id string) BlockList {
	out := l.normalize()
	for i := range out {
		if out[i].ID == id {
			if i == len(out)-1 {
				return out
			}
			out[i].Order, out[i+1].Order = out[i+1].Order, out[i].Order
			return out.sortedCopy()
		}
	}
	return out
}

// Relabel updates the block's label in place.
func (l BlockList) Relabel(id string, label string) BlockList {
	out := l.sortedCopy()
	for i := range out {
		if out[i].ID == id {
			out[i].Label = label
			break
		}
	}
	return out
}

// SetContent updates the block's content in place.
func (l BlockList) SetContent(id string, content string) BlockList {
	out := l.sortedCopy()
	for i := range out {
		if out[i].ID == id {
			out[i].Content = content
			break
		}
	}
	return out
}

// IsDense reports whether the order values are exactly {0..N-1}.
func (l BlockList) IsDense() bool {
	seen := make([]bool, len(l))
	for _, b := range l {
		if b.Order < 0 || b.Order >= len(l) || seen[b.Order] {
			return false
		}
		seen[b.Order] = true
	}
	return true
}

// DefaultBlocks is the starter template every new proposal begins with.
func DefaultBlocks() BlockList {
	var l BlockList
	l = l.Insert(BlockTypeGoals, "Project Goals", "")
	l = l.Insert(BlockTypeSuccess, "What Success Looks Like", "")
	l = l.Insert(BlockTypeDeliverables, "Scope of Work", "")
	l = l.Insert(BlockTypeTimeline, "Timeline", "")
	return l
}
