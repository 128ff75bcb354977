package tabular

import "sort"

// Selection tracks selected row ids in storage decoupled from the row slice,
// so re-filtering never drops or corrupts ids that are merely hidden. Range
// operations work over the currently visible order the caller passes in.
type Selection struct {
	ids     map[string]struct{}
	idField string
}

// NewSelection builds an empty selection keyed by idField.
func NewSelection(idField string) *Selection {
	if idField == "" {
		idField = "id"
	}
	return &Selection{ids: make(map[string]struct{}), idField: idField}
}

// Toggle flips membership of id when additive (ctrl-click); otherwise it
// replaces the whole selection with just this row (plain click).
func (s *Selection) Toggle(id string, additive bool) {
	if !additive {
		s.ids = map[string]struct{}{id: {}}
		return
	}
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
	} else {
		s.ids[id] = struct{}{}
	}
}

// SelectRange adds every row between anchor and target, inclusive, in the
// given visible order (shift-click). When either end is not visible the
// range is empty and nothing changes.
func (s *Selection) SelectRange(anchorID, targetID string, visible []Row) {
	from, to := -1, -1
	for i, row := range visible {
		switch rowID(row, s.idField) {
		case anchorID:
			from = i
		case targetID:
			to = i
		}
	}
	if anchorID == targetID {
		to = from
	}
	if from == -1 || to == -1 {
		return
	}
	if from > to {
		from, to = to, from
	}
	for _, row := range visible[from : to+1] {
		s.ids[rowID(row, s.idField)] = struct{}{}
	}
}

// SelectAllVisible adds every currently visible row.
func (s *Selection) SelectAllVisible(visible []Row) {
	for _, row := range visible {
		s.ids[rowID(row, s.idField)] = struct{}{}
	}
}

// Invert flips membership of every visible row; hidden selections stay put.
func (s *Selection) Invert(visible []Row) {
	for _, row := range visible {
		id := rowID(row, s.idField)
		if _, ok := s.ids[id]; ok {
			delete(s.ids, id)
		} else {
			s.ids[id] = struct{}{}
		}
	}
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.ids = make(map[string]struct{})
}

// Has reports whether id is selected.
func (s *Selection) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Len reports the number of selected ids.
func (s *Selection) Len() int { return len(s.ids) }

// IDs returns the selected ids in deterministic order.
func (s *Selection) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
