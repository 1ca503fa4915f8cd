package gallery

import "github.com/romdeck/romdeck/internal/domain"

// Selection tracks multi-selected rom IDs plus the anchor index used for
// shift-range extension. The anchor points into the filtered view's current
// ordering; it goes stale when that ordering changes, which is accepted
// because selection is session-scoped and purely visual.
type Selection struct {
	ids       map[int]struct{}
	lastIndex int
}

// NewSelection creates an empty selection
func NewSelection() *Selection {
	return &Selection{ids: make(map[int]struct{}), lastIndex: -1}
}

// Add puts a rom ID into the selection set
func (s *Selection) Add(id int) { s.ids[id] = struct{}{} }

// Remove drops a rom ID from the selection set
func (s *Selection) Remove(id int) { delete(s.ids, id) }

// Contains reports whether a rom ID is selected
func (s *Selection) Contains(id int) bool {
	_, ok := s.ids[id]
	return ok
}

// Count returns the number of selected items
func (s *Selection) Count() int { return len(s.ids) }

// IDs returns the selected rom IDs in unspecified order
func (s *Selection) IDs() []int {
	ids := make([]int, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	return ids
}

// LastIndex returns the current range anchor (-1 when unset)
func (s *Selection) LastIndex() int { return s.lastIndex }

// Clear empties the selection and resets the anchor
func (s *Selection) Clear() {
	s.ids = make(map[int]struct{})
	s.lastIndex = -1
}

// Toggle flips a single item at index and updates the anchor. Returns the
// new selected state of the item.
func (s *Selection) Toggle(view []domain.Rom, index int) bool {
	if index < 0 || index >= len(view) {
		return false
	}
	id := view[index].ID
	s.lastIndex = index
	if s.Contains(id) {
		s.Remove(id)
		return false
	}
	s.Add(id)
	return true
}

// SelectRange extends or shrinks the selection between the anchor and index
// over the view's current ordering.
//
// Selecting adds the open interval between the endpoints (the clicked item
// itself is added separately) and anchors the next range at index.
// Deselecting removes the closed interval endpoints included, and anchors at
// index-1 so a follow-up range starts just outside the cleared span.
func (s *Selection) SelectRange(view []domain.Rom, index int, willSelect bool) {
	if index < 0 || index >= len(view) {
		return
	}
	if s.lastIndex < 0 {
		s.lastIndex = index
		return
	}

	start, end := s.lastIndex, index
	if start > end {
		start, end = end, start
	}

	if willSelect {
		for i := start + 1; i < end; i++ {
			s.Add(view[i].ID)
		}
		s.lastIndex = index
		return
	}

	for i := start; i <= end && i < len(view); i++ {
		s.Remove(view[i].ID)
	}
	s.lastIndex = index - 1
}
