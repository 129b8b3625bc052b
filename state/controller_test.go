package state_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"melbgo/gate"
	"melbgo/mq/goch"
	"melbgo/state"
	"melbgo/store/mem"
	st "melbgo/store/store"
	"melbgo/trip"
)

const testSecret = "s3cret"

type fixture struct {
	store      st.DocumentStore
	queue      *goch.ChannelDocumentMessageQueue
	controller *state.Controller
}

func setup(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store: mem.NewInMemoryDocumentStore(),
		queue: goch.NewChannelDocumentMessageQueue(16),
	}
	adapter := state.NewAdapter(f.store, f.queue)
	f.controller = state.NewController(trip.ID, adapter, gate.New(testSecret, nil))
	t.Cleanup(func() {
		f.controller.Close()
		_ = f.queue.Close()
	})
	return f
}

func (f *fixture) start(t *testing.T) {
	t.Helper()
	assert.NoError(t, f.controller.Start())
}

func (f *fixture) login(t *testing.T) {
	t.Helper()
	assert.True(t, f.controller.Login(testSecret))
}

func (f *fixture) storedDoc(t *testing.T) *trip.Document {
	t.Helper()
	doc, exists, err := f.store.Get(trip.ID)
	assert.NoError(t, err)
	assert.True(t, exists)
	return doc
}

func TestStart_SeedsAbsentDocument(t *testing.T) {
	f := setup(t)
	f.start(t)

	view := f.controller.State()
	assert.False(t, view.Loading)
	assert.True(t, view.Connected)
	assert.Len(t, view.Days, 12)
	assert.Equal(t, trip.SchemaVersion, view.Version)
	assert.Empty(t, view.Expenses)

	stored := f.storedDoc(t)
	assert.Len(t, stored.Days, 12)
	assert.Equal(t, trip.SchemaVersion, stored.Version)
}

func TestStart_AdoptsExistingDocument(t *testing.T) {
	f := setup(t)

	existing := trip.SeedDocument()
	existing.Todos = []trip.Todo{{ID: "t9", Text: "existing todo", Category: "todo"}}
	_, err := f.store.CreateIfAbsent(trip.ID, existing)
	assert.NoError(t, err)

	f.start(t)

	view := f.controller.State()
	assert.Len(t, view.Todos, 1)
	assert.Equal(t, "existing todo", view.Todos[0].Text)
}

func TestReadOnly_MutationsSilentlyNoOp(t *testing.T) {
	f := setup(t)
	f.start(t)

	before := f.controller.State()

	// No login: everything below must change nothing and return no error.
	assert.NoError(t, f.controller.AddTodo("should vanish", "todo"))
	assert.NoError(t, f.controller.AddExpense(trip.Expense{
		Title: "ghost", Amount: 10, Currency: trip.AUD, Payer: "我", Involved: []string{"我"},
	}))
	assert.NoError(t, f.controller.SetDayTips(0, "ghost tips"))
	f.controller.DeleteTodo(before.Todos[0].ID)

	after := f.controller.State()
	assert.Equal(t, before.Todos, after.Todos)
	assert.Equal(t, before.Expenses, after.Expenses)
	assert.Equal(t, before.Days[0].Tips, after.Days[0].Tips)

	stored := f.storedDoc(t)
	assert.Equal(t, before.Todos, stored.Todos)
}

func TestLogin_WrongSecret(t *testing.T) {
	f := setup(t)
	f.start(t)

	assert.False(t, f.controller.Login("nope"))
	assert.Equal(t, gate.StatusReadOnly, f.controller.Status())

	f.login(t)
	assert.Equal(t, gate.StatusAuthorized, f.controller.Status())

	f.controller.Logout()
	assert.Equal(t, gate.StatusReadOnly, f.controller.Status())
}

func TestSaveEvent_InsertsSortedAndPersists(t *testing.T) {
	f := setup(t)
	f.start(t)
	f.login(t)

	ev := trip.NewEvent("", "00:30", "night walk", trip.EventActivity)
	assert.NoError(t, f.controller.SaveEvent(0, ev))

	events := f.controller.State().Days[0].Events
	assert.Equal(t, "night walk", events[0].Title, "earliest time must sort first")
	for i := 1; i < len(events); i++ {
		assert.LessOrEqual(t, events[i-1].Time, events[i].Time, "events must stay time ordered")
	}

	assert.Eventually(t, func() bool {
		stored := f.storedDoc(t)
		return len(stored.Days[0].Events) == len(events)
	}, 2*time.Second, 10*time.Millisecond, "write must land in the store")
}

func TestSaveEvent_EditReplacesById(t *testing.T) {
	f := setup(t)
	f.start(t)
	f.login(t)

	original := f.controller.State().Days[0].Events[0]
	edited := original
	edited.Title = "renamed"

	assert.NoError(t, f.controller.SaveEvent(0, edited))

	events := f.controller.State().Days[0].Events
	count := 0
	for _, e := range events {
		if e.ID == original.ID {
			count++
			assert.Equal(t, "renamed", e.Title)
		}
	}
	assert.Equal(t, 1, count, "edit must replace, never duplicate")
}

func TestSaveEvent_RejectsInvalid(t *testing.T) {
	f := setup(t)
	f.start(t)
	f.login(t)

	err := f.controller.SaveEvent(0, trip.Event{ID: "x", Time: "10:00", Title: "bad", Kind: trip.EventFlight})
	assert.Error(t, err, "flight without details must be rejected")

	err = f.controller.SaveEvent(99, trip.NewEvent("y", "10:00", "nowhere", trip.EventFood))
	assert.Error(t, err, "day index out of range must be rejected")
}

func TestDeleteEvent(t *testing.T) {
	f := setup(t)
	f.start(t)
	f.login(t)

	target := f.controller.State().Days[0].Events[0].ID
	assert.NoError(t, f.controller.DeleteEvent(0, target))

	for _, e := range f.controller.State().Days[0].Events {
		assert.NotEqual(t, target, e.ID)
	}

	// Unknown id deletes nothing and errors nothing.
	before := len(f.controller.State().Days[0].Events)
	assert.NoError(t, f.controller.DeleteEvent(0, "no-such-event"))
	assert.Len(t, f.controller.State().Days[0].Events, before)
}

func TestExpenses_AddValidateDelete(t *testing.T) {
	f := setup(t)
	f.start(t)
	f.login(t)

	assert.Error(t, f.controller.AddExpense(trip.Expense{Title: "", Amount: 5, Currency: trip.AUD, Payer: "我", Involved: []string{"我"}}))
	assert.Error(t, f.controller.AddExpense(trip.Expense{Title: "x", Amount: 0, Currency: trip.AUD, Payer: "我", Involved: []string{"我"}}))
	assert.Error(t, f.controller.AddExpense(trip.Expense{Title: "x", Amount: 5, Currency: trip.AUD, Payer: "我"}))

	assert.NoError(t, f.controller.AddExpense(trip.Expense{
		Title: "flat white", Amount: 5.5, Currency: trip.AUD, Payer: "我", Involved: []string{"我", "旅伴"}, Category: "food",
	}))
	expenses := f.controller.State().Expenses
	assert.Len(t, expenses, 1)
	assert.NotEmpty(t, expenses[0].ID, "expense id must be assigned")

	f.controller.DeleteExpense(expenses[0].ID)
	assert.Empty(t, f.controller.State().Expenses)
}

func TestTodoCategory_DeleteReassignsAndProtectsDefaults(t *testing.T) {
	f := setup(t)
	f.start(t)
	f.login(t)

	cat, err := f.controller.AddTodoCategory("臨時", "red")
	assert.NoError(t, err)
	assert.False(t, cat.IsDefault)

	assert.NoError(t, f.controller.AddTodo("需要歸類", cat.ID))

	assert.NoError(t, f.controller.DeleteTodoCategory(cat.ID))

	view := f.controller.State()
	for _, c := range view.TodoCategories {
		assert.NotEqual(t, cat.ID, c.ID, "deleted category must be gone")
	}
	found := false
	for _, todo := range view.Todos {
		if todo.Text == "需要歸類" {
			found = true
			assert.Equal(t, "todo", todo.Category, "orphaned todos move to the general list")
		}
	}
	assert.True(t, found)

	assert.Error(t, f.controller.DeleteTodoCategory("todo"), "seed categories are permanent")
	assert.Error(t, f.controller.DeleteTodoCategory("does-not-exist"))
}

func TestExpenseCategory_DeleteReassignsToOther(t *testing.T) {
	f := setup(t)
	f.start(t)
	f.login(t)

	cat, err := f.controller.AddExpenseCategory("酒吧", "purple")
	assert.NoError(t, err)

	assert.NoError(t, f.controller.AddExpense(trip.Expense{
		Title: "beer", Amount: 15, Currency: trip.AUD, Payer: "我", Involved: []string{"我"}, Category: cat.ID,
	}))

	assert.NoError(t, f.controller.DeleteExpenseCategory(cat.ID))

	view := f.controller.State()
	assert.Equal(t, "other", view.Expenses[0].Category)
	assert.Error(t, f.controller.DeleteExpenseCategory("other"), "seed categories are permanent")
}

func TestLinks_MergedViewAndDerivedDelete(t *testing.T) {
	f := setup(t)
	f.start(t)
	f.login(t)

	links := f.controller.Links()
	var derived *trip.MergedLink
	for i := range links {
		if links[i].Source == trip.LinkSourceEvent {
			derived = &links[i]
			break
		}
	}
	if derived == nil {
		t.Fatal("seed itinerary should project at least one derived link")
	}

	assert.NoError(t, f.controller.DeleteLink(*derived))

	ev := f.controller.State().Days[derived.DayIndex].Events[derived.EventIndex]
	assert.Empty(t, ev.BookingURL, "deleting a derived link clears the event booking url")
	for _, l := range f.controller.Links() {
		if l.Source == trip.LinkSourceEvent {
			assert.NotEqual(t, derived.ID, l.ID)
		}
	}
}

func TestLinks_ManualSaveAndDelete(t *testing.T) {
	f := setup(t)
	f.start(t)
	f.login(t)

	manualBefore := len(f.controller.State().Links)

	ml := trip.MergedLink{
		BookingLink: trip.BookingLink{Title: "Tram ticket", Kind: "transport", URL: "https://example.com/tram"},
		Source:      trip.LinkSourceManual,
	}
	assert.NoError(t, f.controller.SaveLink(ml))
	assert.Len(t, f.controller.State().Links, manualBefore+1)

	assert.Error(t, f.controller.SaveLink(trip.MergedLink{Source: trip.LinkSourceManual}), "title and url are required")

	saved := f.controller.State().Links[manualBefore]
	assert.NoError(t, f.controller.DeleteLink(trip.MergedLink{
		BookingLink: trip.BookingLink{ID: saved.ID},
		Source:      trip.LinkSourceManual,
	}))
	assert.Len(t, f.controller.State().Links, manualBefore)
}

func TestSchemaUpgrade_RefreshesDaysKeepsLedger(t *testing.T) {
	f := setup(t)

	stale := trip.SeedDocument()
	stale.Version = 0
	stale.Days = []trip.Day{{Day: 1, Date: "2026-01-21", Events: []trip.Event{}}}
	stale.Expenses = []trip.Expense{{ID: "e1", Title: "kept", Amount: 10, Currency: trip.AUD, Payer: "我", Involved: []string{"我"}}}
	_, err := f.store.CreateIfAbsent(trip.ID, stale)
	assert.NoError(t, err)

	f.start(t)

	view := f.controller.State()
	assert.Len(t, view.Days, 12, "stale schema refreshes the itinerary")
	assert.Equal(t, trip.SchemaVersion, view.Version)
	assert.Len(t, view.Expenses, 1, "user-entered ledger survives the upgrade")
	assert.Equal(t, "kept", view.Expenses[0].Title)

	assert.Eventually(t, func() bool {
		stored := f.storedDoc(t)
		return stored.Version == trip.SchemaVersion && len(stored.Days) == 12
	}, 2*time.Second, 10*time.Millisecond, "upgrade patch must land in the store")

	stored := f.storedDoc(t)
	assert.Len(t, stored.Expenses, 1)
}

func TestRemoteChange_ReachesController(t *testing.T) {
	f := setup(t)
	f.start(t)

	// A second writer patches through its own adapter, as another
	// device would.
	other := state.NewAdapter(f.store, f.queue)
	todos := []trip.Todo{{ID: "r1", Text: "from the other device", Category: "todo"}}
	assert.NoError(t, other.Patch(trip.ID, st.FieldPatch{trip.FieldTodos: todos}))

	assert.Eventually(t, func() bool {
		view := f.controller.State()
		return len(view.Todos) == 1 && view.Todos[0].ID == "r1"
	}, 2*time.Second, 10*time.Millisecond, "remote change must reach the controller")
}

func TestWatch_DeliversInitialAndUpdatedStates(t *testing.T) {
	f := setup(t)
	f.start(t)
	f.login(t)

	id, states := f.controller.Watch()
	defer f.controller.Unwatch(id)

	select {
	case view := <-states:
		assert.Len(t, view.Days, 12)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for initial state")
	}

	assert.NoError(t, f.controller.AddTodo("watched", "todo"))

	deadline := time.After(2 * time.Second)
	for {
		select {
		case view := <-states:
			for _, todo := range view.Todos {
				if todo.Text == "watched" {
					return
				}
			}
		case <-deadline:
			t.Fatal("timed out waiting for mutation to reach the watcher")
		}
	}
}

// failingStore simulates an unreachable backend.
type failingStore struct{}

func (failingStore) Get(string) (*trip.Document, bool, error) {
	return nil, false, fmt.Errorf("backend unreachable")
}

func (failingStore) CreateIfAbsent(string, *trip.Document) (bool, error) {
	return false, fmt.Errorf("backend unreachable")
}

func (failingStore) Patch(string, st.FieldPatch) error {
	return fmt.Errorf("backend unreachable")
}

func TestOffline_FallsBackToDefaults(t *testing.T) {
	queue := goch.NewChannelDocumentMessageQueue(16)
	defer queue.Close()

	adapter := state.NewAdapter(failingStore{}, queue)
	controller := state.NewController(trip.ID, adapter, gate.New(testSecret, nil))
	defer controller.Close()

	assert.NoError(t, controller.Start())

	view := controller.State()
	assert.False(t, view.Loading, "offline startup must still finish loading")
	assert.False(t, view.Connected)
	assert.Len(t, view.Days, 12, "defaults back the view when the store is down")
	assert.Len(t, view.TodoCategories, 5)
}
