package tabular

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Density trades information density for readability.
type Density int

const (
	DensityComfortable Density = iota
	DensityCompact
	DensityDense
)

// RowHeight returns the pixel row height for the mode.
func (d Density) RowHeight() int {
	switch d {
	case DensityCompact:
		return 40
	case DensityDense:
		return 32
	default:
		return 48
	}
}

var (
	ErrDuplicateColumn     = errors.New("tabular: duplicate column key")
	ErrUnknownColumn       = errors.New("tabular: unknown column")
	ErrColumnNotSortable   = errors.New("tabular: column is not sortable")
	ErrColumnNotFilterable = errors.New("tabular: column is not filterable")
	ErrColumnNotEditable   = errors.New("tabular: column is not editable")
	ErrRowNotFound         = errors.New("tabular: row not found")
)

// Callbacks are the seams toward the hosting UI layer. Nil entries are
// skipped; callbacks run outside the engine lock.
type Callbacks struct {
	OnSort            func(SortSpec)
	OnFilterChange    func(FilterSet)
	OnSelectionChange func([]string)
	OnDensityChange   func(Density)
}

// EngineConfig wires the dependencies of an Engine.
type EngineConfig struct {
	Columns      []Column
	IDField      string
	SearchFields []string
	Save         SaveFunc
	SuccessDelay time.Duration
	Callbacks    Callbacks
}

// Engine owns the view state of one table instance: rows, filter/sort/search
// state, selection, the inline-edit session, and the density mode. All
// transforms recompute from the full record set, so reapplying them is
// idempotent.
type Engine struct {
	mu           sync.Mutex
	columns      []Column
	idField      string
	searchFields []string
	rows         []Row
	filters      FilterSet
	sortSpec     SortSpec
	search       string
	density      Density
	selection    *Selection
	edit         *EditSession
	cb           Callbacks
}

// NewEngine validates the column set and builds an idle engine.
func NewEngine(cfg EngineConfig) (*Engine, error) {
	seen := make(map[string]struct{}, len(cfg.Columns))
	for _, col := range cfg.Columns {
		if col.Key == "" {
			return nil, fmt.Errorf("%w: empty key", ErrUnknownColumn)
		}
		if _, dup := seen[col.Key]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateColumn, col.Key)
		}
		seen[col.Key] = struct{}{}
	}

	idField := cfg.IDField
	if idField == "" {
		idField = "id"
	}

	edit := NewEditSession(cfg.Save)
	if cfg.SuccessDelay > 0 {
		edit.WithSuccessDelay(cfg.SuccessDelay)
	}

	return &Engine{
		columns:      append([]Column(nil), cfg.Columns...),
		idField:      idField,
		searchFields: append([]string(nil), cfg.SearchFields...),
		filters:      make(FilterSet),
		selection:    NewSelection(idField),
		edit:         edit,
		cb:           cfg.Callbacks,
	}, nil
}

// SetRows replaces the record set. Selection is kept: ids referring to rows
// that no longer exist simply stop matching anything.
func (e *Engine) SetRows(rows []Row) {
	e.mu.Lock()
	e.rows = append([]Row(nil), rows...)
	e.mu.Unlock()
}

// Visible recomputes the rendered view: search, then filters, then sort.
func (e *Engine) Visible() []Row {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.visibleLocked()
}

func (e *Engine) visibleLocked() []Row {
	rows := ApplySearch(e.rows, e.search, e.searchFields)
	rows = ApplyFilters(rows, e.filters)
	return ApplySort(rows, e.sortSpec, e.columns)
}

// SetSort activates the given sort; an empty key clears it.
func (e *Engine) SetSort(spec SortSpec) error {
	e.mu.Lock()
	if spec.Key != "" {
		col, ok := e.columnLocked(spec.Key)
		if !ok {
			e.mu.Unlock()
			return fmt.Errorf("%w: %s", ErrUnknownColumn, spec.Key)
		}
		if !col.Sortable {
			e.mu.Unlock()
			return fmt.Errorf("%w: %s", ErrColumnNotSortable, spec.Key)
		}
	}
	e.sortSpec = spec
	cb := e.cb.OnSort
	e.mu.Unlock()

	if cb != nil {
		cb(spec)
	}
	return nil
}

// Sort returns the active sort spec.
func (e *Engine) Sort() SortSpec {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sortSpec
}

// SetFilter installs a filter on the column; a nil filter removes the
// constraint.
func (e *Engine) SetFilter(columnKey string, filter Filter) error {
	e.mu.Lock()
	col, ok := e.columnLocked(columnKey)
	if !ok {
		e.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownColumn, columnKey)
	}
	if !col.Filterable {
		e.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrColumnNotFilterable, columnKey)
	}
	if filter == nil {
		delete(e.filters, columnKey)
	} else {
		e.filters[columnKey] = filter
	}
	cb := e.cb.OnFilterChange
	snapshot := e.filtersLocked()
	e.mu.Unlock()

	if cb != nil {
		cb(snapshot)
	}
	return nil
}

// ClearFilters removes every active filter.
func (e *Engine) ClearFilters() {
	e.mu.Lock()
	e.filters = make(FilterSet)
	cb := e.cb.OnFilterChange
	e.mu.Unlock()

	if cb != nil {
		cb(FilterSet{})
	}
}

// Filters returns a copy of the active filter set.
func (e *Engine) Filters() FilterSet {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.filtersLocked()
}

// SetSearch sets the free-text search term.
func (e *Engine) SetSearch(term string) {
	e.mu.Lock()
	e.search = term
	e.mu.Unlock()
}

// SetDensity switches the display density.
func (e *Engine) SetDensity(d Density) {
	e.mu.Lock()
	e.density = d
	cb := e.cb.OnDensityChange
	e.mu.Unlock()

	if cb != nil {
		cb(d)
	}
}

// Density returns the current display density.
func (e *Engine) Density() Density {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.density
}

// ToggleRow flips (additive) or replaces (plain click) the selection.
func (e *Engine) ToggleRow(id string, additive bool) {
	e.mu.Lock()
	e.selection.Toggle(id, additive)
	e.notifySelectionAndUnlock()
}

// SelectRange selects the inclusive id range over the visible order.
func (e *Engine) SelectRange(anchorID, targetID string) {
	e.mu.Lock()
	e.selection.SelectRange(anchorID, targetID, e.visibleLocked())
	e.notifySelectionAndUnlock()
}

// SelectAllVisible selects every currently visible row.
func (e *Engine) SelectAllVisible() {
	e.mu.Lock()
	e.selection.SelectAllVisible(e.visibleLocked())
	e.notifySelectionAndUnlock()
}

// InvertSelection flips selection of the visible rows; hidden ids stay.
func (e *Engine) InvertSelection() {
	e.mu.Lock()
	e.selection.Invert(e.visibleLocked())
	e.notifySelectionAndUnlock()
}

// ClearSelection deselects everything.
func (e *Engine) ClearSelection() {
	e.mu.Lock()
	e.selection.Clear()
	e.notifySelectionAndUnlock()
}

// SelectedIDs returns the selected ids in deterministic order.
func (e *Engine) SelectedIDs() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selection.IDs()
}

// notifySelectionAndUnlock releases the lock and fires the selection callback.
func (e *Engine) notifySelectionAndUnlock() {
	cb := e.cb.OnSelectionChange
	ids := e.selection.IDs()
	e.mu.Unlock()

	if cb != nil {
		cb(ids)
	}
}

// StartEdit begins an inline edit on the given cell. The current value is
// looked up from the record set so Cancel can restore it.
func (e *Engine) StartEdit(id, columnKey string) error {
	e.mu.Lock()
	col, ok := e.columnLocked(columnKey)
	if !ok {
		e.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownColumn, columnKey)
	}
	if !col.Editable {
		e.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrColumnNotEditable, columnKey)
	}
	var current any
	found := false
	for _, row := range e.rows {
		if rowID(row, e.idField) == id {
			current = row[columnKey]
			found = true
			break
		}
	}
	e.mu.Unlock()

	if !found {
		return fmt.Errorf("%w: %s", ErrRowNotFound, id)
	}
	return e.edit.StartEdit(id, columnKey, current)
}

// SetPendingValue records in-progress input for the active edit.
func (e *Engine) SetPendingValue(value any) error {
	return e.edit.SetPending(value)
}

// CommitEdit saves the given value through the injected callback; see
// EditSession.CommitEdit for the failure contract.
func (e *Engine) CommitEdit(ctx context.Context, value any) error {
	return e.edit.CommitEdit(ctx, value)
}

// CancelEdit abandons the active edit unconditionally.
func (e *Engine) CancelEdit() {
	e.edit.CancelEdit()
}

// Edit exposes the edit session for state inspection.
func (e *Engine) Edit() *EditSession {
	return e.edit
}

// Layout negotiates column widths against the viewport using the currently
// visible rows as the content sample.
func (e *Engine) Layout(viewportWidth int) []Column {
	e.mu.Lock()
	defer e.mu.Unlock()
	return ComputeColumnWidths(e.columns, e.visibleLocked(), viewportWidth)
}

// Columns returns a copy of the column descriptors.
func (e *Engine) Columns() []Column {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Column(nil), e.columns...)
}

func (e *Engine) columnLocked(key string) (Column, bool) {
	for _, col := range e.columns {
		if col.Key == key {
			return col, true
		}
	}
	return Column{}, false
}

func (e *Engine) filtersLocked() FilterSet {
	out := make(FilterSet, len(e.filters))
	for k, v := range e.filters {
		out[k] = v
	}
	return out
}
