package console

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// fakeOps is an in-memory stand-in for the API resource client.
type fakeOps struct {
	items   []item
	nextID  int64
	failAll bool

	creates int
	updates int
	deletes int
}

var errBackend = errors.New("backend unavailable")

func (f *fakeOps) List(ctx context.Context, filters map[string]string) ([]item, error) {
	if f.failAll {
		return nil, errBackend
	}
	out := make([]item, len(f.items))
	copy(out, f.items)
	return out, nil
}

func (f *fakeOps) Create(ctx context.Context, data item) (item, error) {
	if f.failAll {
		return item{}, errBackend
	}
	f.creates++
	f.nextID++
	data.ID = f.nextID
	f.items = append(f.items, data)
	return data, nil
}

func (f *fakeOps) Update(ctx context.Context, id string, partial map[string]any) (item, error) {
	if f.failAll {
		return item{}, errBackend
	}
	f.updates++
	for i, it := range f.items {
		if idOf(map[string]any{"id": it.ID}) == id {
			if name, ok := partial["name"].(string); ok {
				f.items[i].Name = name
			}
			return f.items[i], nil
		}
	}
	return item{}, errBackend
}

func (f *fakeOps) Delete(ctx context.Context, id string) error {
	if f.failAll {
		return errBackend
	}
	f.deletes++
	kept := f.items[:0]
	for _, it := range f.items {
		if idOf(map[string]any{"id": it.ID}) != id {
			kept = append(kept, it)
		}
	}
	f.items = kept
	return nil
}

func newTestScreen(ops *fakeOps, confirm func(string) bool) (*Screen[item], *Notifier) {
	notifier := NewNotifier(time.Minute)
	defaults := func() map[string]any { return map[string]any{"name": "新規"} }
	return NewScreen[item]("テスト", ops, notifier, defaults, confirm), notifier
}

func TestScreenLoadSettlesReady(t *testing.T) {
	ops := &fakeOps{items: []item{{ID: 1, Name: "a"}}, nextID: 1}
	screen, _ := newTestScreen(ops, nil)

	assert.Equal(t, StateLoading, screen.State())
	require.NoError(t, screen.Load(context.Background()))
	assert.Equal(t, StateReady, screen.State())
	assert.Len(t, screen.Items(), 1)
}

func TestScreenLoadFailureEntersErrorState(t *testing.T) {
	ops := &fakeOps{failAll: true}
	screen, notifier := newTestScreen(ops, nil)

	require.Error(t, screen.Load(context.Background()))
	assert.Equal(t, StateError, screen.State())
	assert.ErrorIs(t, screen.Err(), errBackend)

	notices := notifier.Active()
	require.Len(t, notices, 1)
	assert.Equal(t, NoticeError, notices[0].Kind)
}

func TestOpenDialogSeedsDefaultsForCreate(t *testing.T) {
	screen, _ := newTestScreen(&fakeOps{}, nil)

	screen.OpenDialog(nil)
	assert.True(t, screen.DialogOpen())
	assert.Equal(t, "新規", screen.Form()["name"])
}

func TestOpenDialogCopiesRecordForEdit(t *testing.T) {
	screen, _ := newTestScreen(&fakeOps{}, nil)

	record := map[string]any{"id": int64(1), "name": "a"}
	screen.OpenDialog(record)
	screen.SetField("name", "b")

	assert.Equal(t, "a", record["name"], "editing works on a copy")
	assert.Equal(t, "b", screen.Form()["name"])
}

func TestSaveCreatesWhenDialogOpenedEmpty(t *testing.T) {
	ops := &fakeOps{}
	screen, _ := newTestScreen(ops, nil)
	require.NoError(t, screen.Load(context.Background()))

	screen.OpenDialog(nil)
	screen.SetField("name", "追加")
	require.NoError(t, screen.Save(context.Background()))

	assert.Equal(t, 1, ops.creates)
	assert.Zero(t, ops.updates)
	assert.False(t, screen.DialogOpen())
	require.Len(t, screen.Items(), 1)
	assert.Equal(t, "追加", screen.Items()[0].Name)
	assert.Equal(t, StateReady, screen.State())
}

func TestSaveWithoutDialogIsRejected(t *testing.T) {
	ops := &fakeOps{items: []item{{ID: 1, Name: "a"}}, nextID: 1}
	screen, _ := newTestScreen(ops, nil)
	require.NoError(t, screen.Load(context.Background()))

	err := screen.Save(context.Background())
	assert.ErrorIs(t, err, ErrNoDialog)
	assert.Zero(t, ops.creates, "nothing reaches the API without an open dialog")
	assert.Zero(t, ops.updates)
	assert.Equal(t, StateReady, screen.State())
}

func TestSaveUpdatesWhenDialogOpenedWithRecord(t *testing.T) {
	ops := &fakeOps{items: []item{{ID: 1, Name: "旧"}}, nextID: 1}
	screen, _ := newTestScreen(ops, nil)
	require.NoError(t, screen.Load(context.Background()))

	screen.OpenDialog(map[string]any{"id": int64(1), "name": "旧"})
	screen.SetField("name", "新")
	require.NoError(t, screen.Save(context.Background()))

	assert.Equal(t, 1, ops.updates)
	assert.Zero(t, ops.creates)
	assert.Equal(t, "新", screen.Items()[0].Name)
}

func TestSaveFailureKeepsPriorItems(t *testing.T) {
	ops := &fakeOps{items: []item{{ID: 1, Name: "a"}}, nextID: 1}
	screen, notifier := newTestScreen(ops, nil)
	require.NoError(t, screen.Load(context.Background()))

	ops.failAll = true
	screen.OpenDialog(nil)
	screen.SetField("name", "b")
	require.Error(t, screen.Save(context.Background()))

	assert.Equal(t, StateError, screen.State())
	assert.Len(t, screen.Items(), 1, "prior list survives a failed save")

	notices := notifier.Active()
	require.Len(t, notices, 1)
	assert.Equal(t, NoticeError, notices[0].Kind)
}

func TestDeleteIsConfirmGated(t *testing.T) {
	ops := &fakeOps{items: []item{{ID: 1, Name: "a"}}, nextID: 1}
	answer := false
	screen, _ := newTestScreen(ops, func(string) bool { return answer })
	require.NoError(t, screen.Load(context.Background()))

	require.NoError(t, screen.Delete(context.Background(), "1"))
	assert.Zero(t, ops.deletes, "declined confirmation never reaches the API")
	assert.Len(t, screen.Items(), 1)

	answer = true
	require.NoError(t, screen.Delete(context.Background(), "1"))
	assert.Equal(t, 1, ops.deletes)
	assert.Empty(t, screen.Items())
}

func TestNotifierExpiresAfterTTL(t *testing.T) {
	notifier := NewNotifier(6 * time.Second)
	current := time.Now()
	notifier.now = func() time.Time { return current }

	notifier.Info("保存しました")
	require.Len(t, notifier.Active(), 1)

	current = current.Add(5 * time.Second)
	require.Len(t, notifier.Active(), 1)

	current = current.Add(2 * time.Second)
	assert.Empty(t, notifier.Active())
}

func TestNotifierDismiss(t *testing.T) {
	notifier := NewNotifier(time.Minute)
	id := notifier.Error("失敗しました")
	require.Len(t, notifier.Active(), 1)

	notifier.Dismiss(id)
	assert.Empty(t, notifier.Active())
}

func TestSearchScreenQueriesOnlyOnSearch(t *testing.T) {
	queries := 0
	var gotFilters map[string]string
	screen := NewSearchScreen[item]("検索", NewNotifier(time.Minute), func(ctx context.Context, filters map[string]string) ([]item, error) {
		queries++
		gotFilters = filters
		return []item{{ID: 1, Name: "hit"}}, nil
	})

	screen.SetFilter("level", "error")
	screen.SetFilter("search", "ログイン")
	screen.SetFilter("search", "")
	assert.Zero(t, queries, "editing criteria does not query")

	require.NoError(t, screen.Search(context.Background()))
	assert.Equal(t, 1, queries)
	assert.Equal(t, map[string]string{"level": "error"}, gotFilters)
	assert.Len(t, screen.Items(), 1)
	assert.Equal(t, StateReady, screen.State())
}

func TestSearchScreenFailure(t *testing.T) {
	notifier := NewNotifier(time.Minute)
	screen := NewSearchScreen[item]("検索", notifier, func(ctx context.Context, filters map[string]string) ([]item, error) {
		return nil, errBackend
	})

	require.Error(t, screen.Search(context.Background()))
	assert.Equal(t, StateError, screen.State())
	require.Len(t, notifier.Active(), 1)
}
