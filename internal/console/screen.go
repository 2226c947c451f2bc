package console

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// ErrNoDialog is returned when Save is invoked without an open dialog.
var ErrNoDialog = errors.New("no open dialog")

type State string

const (
	StateLoading  State = "loading"
	StateReady    State = "ready"
	StateSaving   State = "saving"
	StateDeleting State = "deleting"
	StateError    State = "error"
)

// ResourceOps is the slice of the API client a screen needs. The generic
// resource client satisfies it directly.
type ResourceOps[T any] interface {
	List(ctx context.Context, filters map[string]string) ([]T, error)
	Create(ctx context.Context, data T) (T, error)
	Update(ctx context.Context, id string, partial map[string]any) (T, error)
	Delete(ctx context.Context, id string) error
}

// Screen drives one management view: a list of records plus an optional
// edit dialog. Mutations always re-fetch the list from the server rather
// than patching local state.
type Screen[T any] struct {
	mu       sync.Mutex
	title    string
	ops      ResourceOps[T]
	notifier *Notifier
	defaults func() map[string]any
	confirm  func(id string) bool

	state      State
	items      []T
	form       map[string]any
	dialogOpen bool
	editingID  string
	lastErr    error
}

// NewScreen builds a screen. defaults seeds the create dialog; confirm
// gates deletion and may be nil, in which case every delete proceeds.
func NewScreen[T any](title string, ops ResourceOps[T], notifier *Notifier, defaults func() map[string]any, confirm func(id string) bool) *Screen[T] {
	if defaults == nil {
		defaults = func() map[string]any { return map[string]any{} }
	}
	if confirm == nil {
		confirm = func(string) bool { return true }
	}
	return &Screen[T]{
		title:    title,
		ops:      ops,
		notifier: notifier,
		defaults: defaults,
		confirm:  confirm,
		state:    StateLoading,
	}
}

func (s *Screen[T]) Title() string { return s.title }

func (s *Screen[T]) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Screen[T]) Items() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Screen[T]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Screen[T]) DialogOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dialogOpen
}

// Form returns a copy of the dialog's working record.
func (s *Screen[T]) Form() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneForm(s.form)
}

// Load fetches the list and settles the screen into Ready.
func (s *Screen[T]) Load(ctx context.Context) error {
	s.setState(StateLoading)
	return s.refresh(ctx)
}

// OpenDialog starts an edit for record, or a create when record is nil.
// Editing works on a copy so cancel leaves the list untouched.
func (s *Screen[T]) OpenDialog(record map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if record == nil {
		s.form = s.defaults()
		s.editingID = ""
	} else {
		s.form = cloneForm(record)
		s.editingID = idOf(record)
	}
	s.dialogOpen = true
}

func (s *Screen[T]) CloseDialog() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dialogOpen = false
	s.form = nil
	s.editingID = ""
}

func (s *Screen[T]) SetField(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.form == nil {
		s.form = map[string]any{}
	}
	s.form[key] = value
}

// Save dispatches create or update depending on whether the dialog was
// opened with an existing record, then re-fetches the whole list. On
// failure the previous list survives and an error notification is raised.
func (s *Screen[T]) Save(ctx context.Context) error {
	s.mu.Lock()
	if !s.dialogOpen {
		s.mu.Unlock()
		return ErrNoDialog
	}
	form := cloneForm(s.form)
	editingID := s.editingID
	s.state = StateSaving
	s.mu.Unlock()

	var err error
	if editingID == "" {
		var data T
		if err = decodeForm(form, &data); err == nil {
			_, err = s.ops.Create(ctx, data)
		}
	} else {
		delete(form, "id")
		_, err = s.ops.Update(ctx, editingID, form)
	}
	if err != nil {
		s.fail(err)
		return err
	}
	s.CloseDialog()
	s.notifier.Info("保存しました")
	return s.refresh(ctx)
}

// Delete asks for confirmation, removes the record, then re-fetches.
func (s *Screen[T]) Delete(ctx context.Context, id string) error {
	if !s.confirm(id) {
		return nil
	}
	s.setState(StateDeleting)
	if err := s.ops.Delete(ctx, id); err != nil {
		s.fail(err)
		return err
	}
	s.notifier.Info("削除しました")
	return s.refresh(ctx)
}

func (s *Screen[T]) refresh(ctx context.Context) error {
	items, err := s.ops.List(ctx, nil)
	if err != nil {
		s.fail(err)
		return err
	}
	s.mu.Lock()
	s.items = items
	s.state = StateReady
	s.lastErr = nil
	s.mu.Unlock()
	return nil
}

func (s *Screen[T]) fail(err error) {
	s.mu.Lock()
	s.state = StateError
	s.lastErr = err
	s.mu.Unlock()
	s.notifier.Error(err.Error())
}

func (s *Screen[T]) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

func cloneForm(form map[string]any) map[string]any {
	out := make(map[string]any, len(form))
	for key, value := range form {
		out[key] = value
	}
	return out
}

func decodeForm(form map[string]any, out any) error {
	raw, err := json.Marshal(form)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func idOf(record map[string]any) string {
	switch v := record["id"].(type) {
	case string:
		return v
	case float64:
		return fmt.Sprintf("%.0f", v)
	case int64:
		return fmt.Sprintf("%d", v)
	case int:
		return fmt.Sprintf("%d", v)
	case json.Number:
		return v.String()
	default:
		return ""
	}
}
