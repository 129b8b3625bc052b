package state

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/r3labs/diff/v3"

	"melbgo/gate"
	st "melbgo/store/store"
	"melbgo/trip"
)

// CollectionStatus tracks how far one collection has come since startup.
type CollectionStatus string

const (
	StatusUninitialized CollectionStatus = "uninitialized"
	StatusLoading       CollectionStatus = "loading"
	StatusSynced        CollectionStatus = "synced"
)

// ViewState is one consistent snapshot handed to presentation code.
type ViewState struct {
	trip.Document
	Loading    bool `json:"loading"`
	Connected  bool `json:"connected"`
	Authorized bool `json:"authorized"`
}

// Controller owns the in-memory trip state. It subscribes to the live
// document feed, reconciles remote snapshots into its collections, and
// applies every mutation optimistically: local state first, persistence
// in the background, last writer wins.
type Controller struct {
	mu       sync.RWMutex
	tripID   string
	adapter  *Adapter
	gate     *gate.Gate
	doc      trip.Document
	status   map[trip.Field]CollectionStatus
	loading   bool
	connected bool

	seeded    bool
	upgrading bool

	// patches serializes background writes so they land in mutation
	// order; concurrent goroutines would let a stale whole-field write
	// overtake a newer one.
	patches     chan st.FieldPatch
	patchesDone chan struct{}
	closed      bool

	unsubscribe func()
	watchers    map[uuid.UUID]chan ViewState
}

func NewController(tripID string, adapter *Adapter, g *gate.Gate) *Controller {
	status := make(map[trip.Field]CollectionStatus, len(trip.CollectionFields))
	for _, f := range trip.CollectionFields {
		status[f] = StatusUninitialized
	}
	c := &Controller{
		tripID:      tripID,
		adapter:     adapter,
		gate:        g,
		status:      status,
		loading:     true,
		patches:     make(chan st.FieldPatch, 64),
		patchesDone: make(chan struct{}),
		watchers:    make(map[uuid.UUID]chan ViewState),
	}
	go c.patchWorker()
	return c
}

func (c *Controller) patchWorker() {
	defer close(c.patchesDone)
	for patch := range c.patches {
		if err := c.adapter.Patch(c.tripID, patch); err != nil {
			log.Printf("Update failed: %v", err)
		}
	}
}

// enqueuePatchLocked hands a patch to the worker. Callers hold c.mu, so
// enqueue order is mutation order.
func (c *Controller) enqueuePatchLocked(patch st.FieldPatch) {
	if c.closed {
		return
	}
	c.patches <- patch
}

// Start begins the live subscription. The first snapshot seeds an
// absent document; later snapshots reconcile remote changes, own-write
// echoes included.
func (c *Controller) Start() error {
	c.mu.Lock()
	for _, f := range trip.CollectionFields {
		c.status[f] = StatusLoading
	}
	c.mu.Unlock()

	unsub, err := c.adapter.Subscribe(c.tripID, c.handleSnapshot, c.handleError)
	if err != nil {
		return fmt.Errorf("failed to start trip subscription: %w", err)
	}
	c.mu.Lock()
	c.unsubscribe = unsub
	c.mu.Unlock()
	return nil
}

// Close cancels the subscription, flushes pending writes, and releases
// all watchers.
func (c *Controller) Close() {
	c.mu.Lock()
	unsub := c.unsubscribe
	c.unsubscribe = nil
	for id, ch := range c.watchers {
		delete(c.watchers, id)
		close(ch)
	}
	alreadyClosed := c.closed
	c.closed = true
	c.mu.Unlock()

	if !alreadyClosed {
		close(c.patches)
		<-c.patchesDone
	}
	if unsub != nil {
		unsub()
	}
}

// Watch registers a view-state stream. Every local mutation and every
// reconciled remote snapshot produces one state. Slow consumers only
// ever lag by dropped intermediate states, never by blocked writers.
func (c *Controller) Watch() (uuid.UUID, <-chan ViewState) {
	id := uuid.New()
	ch := make(chan ViewState, 1)

	c.mu.Lock()
	c.watchers[id] = ch
	view := c.viewLocked()
	c.mu.Unlock()

	ch <- view
	return id, ch
}

func (c *Controller) Unwatch(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ch, ok := c.watchers[id]; ok {
		delete(c.watchers, id)
		close(ch)
	}
}

// handleSnapshot reconciles one delivery of the live feed.
func (c *Controller) handleSnapshot(snap Snapshot) {
	if !snap.Exists {
		c.seedAbsentDocument()
		return
	}

	incoming := snap.Doc.Clone()
	healMissingCollections(incoming)

	c.mu.Lock()
	c.connected = true
	for _, f := range trip.CollectionFields {
		// Echo idempotence: a snapshot confirming our own write must
		// not churn local state, so unchanged collections are kept.
		if !collectionsEqual(fieldValue(&c.doc, f), fieldValue(incoming, f)) {
			setFieldValue(&c.doc, f, fieldValue(incoming, f))
		}
		c.status[f] = StatusSynced
	}
	c.doc.Version = incoming.Version

	if incoming.Version < trip.SchemaVersion {
		// A stale schema refreshes the itinerary only; user-entered
		// collections survive the upgrade untouched.
		c.doc.Days = trip.DefaultDays()
		c.doc.Version = trip.SchemaVersion
		if !c.upgrading {
			c.upgrading = true
			c.enqueuePatchLocked(st.FieldPatch{
				trip.FieldDays:    trip.DefaultDays(),
				trip.FieldVersion: trip.SchemaVersion,
			})
		}
	} else {
		c.upgrading = false
	}
	c.loading = false
	view := c.viewLocked()
	c.mu.Unlock()

	c.broadcast(view)
}

func (c *Controller) seedAbsentDocument() {
	c.mu.Lock()
	if c.seeded {
		c.mu.Unlock()
		return
	}
	c.seeded = true
	seed := trip.SeedDocument()
	c.doc = *seed.Clone()
	for _, f := range trip.CollectionFields {
		c.status[f] = StatusSynced
	}
	c.loading = false
	c.connected = true
	view := c.viewLocked()
	c.mu.Unlock()

	c.broadcast(view)

	if _, err := c.adapter.CreateIfAbsent(c.tripID, seed); err != nil {
		log.Printf("failed to seed trip document: %v", err)
	}
}

// handleError keeps the controller usable when the backend is
// unreachable: collections that never loaded fall back to the built-in
// defaults and the state reports offline.
func (c *Controller) handleError(err error) {
	log.Printf("trip subscription error: %v", err)

	c.mu.Lock()
	c.connected = false
	if c.loading {
		seed := trip.SeedDocument()
		for _, f := range trip.CollectionFields {
			if c.status[f] != StatusSynced {
				setFieldValue(&c.doc, f, fieldValue(seed, f))
				c.status[f] = StatusSynced
			}
		}
		c.doc.Version = trip.SchemaVersion
		c.loading = false
	}
	view := c.viewLocked()
	c.mu.Unlock()

	c.broadcast(view)
}

// apply is the single mutation path. The gate is consulted first and a
// read-only device gets a silent no-op. Otherwise the change lands in
// local state synchronously and the patch for the named fields is
// written in the background; a failed write is logged and never rolled
// back.
func (c *Controller) apply(fields []trip.Field, mutate func(*trip.Document)) bool {
	if !c.gate.Authorized() {
		return false
	}

	c.mu.Lock()
	mutate(&c.doc)
	c.doc.Sanitize()
	patch := make(st.FieldPatch, len(fields))
	for _, f := range fields {
		patch[f] = fieldValue(&c.doc, f)
	}
	c.enqueuePatchLocked(patch)
	view := c.viewLocked()
	c.mu.Unlock()

	c.broadcast(view)
	return true
}

func (c *Controller) viewLocked() ViewState {
	return ViewState{
		Document:   *c.doc.Clone(),
		Loading:    c.loading,
		Connected:  c.connected,
		Authorized: c.gate.Authorized(),
	}
}

func (c *Controller) broadcast(view ViewState) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, ch := range c.watchers {
		select {
		case ch <- view:
		default:
			// Replace the stale pending state with the newest one.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- view:
			default:
			}
		}
	}
}

// State returns the current consistent view.
func (c *Controller) State() ViewState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.viewLocked()
}

// Document returns a copy of the current trip document.
func (c *Controller) Document() trip.Document {
	return c.State().Document
}

// Login presents the shared secret to the gate.
func (c *Controller) Login(secret string) bool {
	ok := c.gate.Authorize(secret)
	if ok {
		c.broadcast(c.State())
	}
	return ok
}

// Logout drops edit privileges. Callers confirm with the user first.
func (c *Controller) Logout() {
	c.gate.Logout()
	c.broadcast(c.State())
}

func (c *Controller) Status() gate.Status {
	return c.gate.Status()
}

// TodayIndex locates the itinerary day for the given YYYY-MM-DD date.
func (c *Controller) TodayIndex(date string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return trip.TodayIndex(c.doc.Days, date)
}

// SaveEvent inserts or replaces one itinerary event and restores the
// time ordering of the day.
func (c *Controller) SaveEvent(dayIndex int, ev trip.Event) error {
	if err := ev.Validate(); err != nil {
		return err
	}
	if err := c.checkDayIndex(dayIndex); err != nil {
		return err
	}
	if ev.ID == "" {
		ev.ID = newID()
	}
	c.apply([]trip.Field{trip.FieldDays}, func(doc *trip.Document) {
		day := &doc.Days[dayIndex]
		replaced := false
		for i := range day.Events {
			if day.Events[i].ID == ev.ID {
				day.Events[i] = ev
				replaced = true
				break
			}
		}
		if !replaced {
			day.Events = append(day.Events, ev)
		}
		day.SortEvents()
	})
	return nil
}

// DeleteEvent removes one itinerary event. Deleting an unknown id is a
// no-op by design of whole-field writes.
func (c *Controller) DeleteEvent(dayIndex int, eventID string) error {
	if err := c.checkDayIndex(dayIndex); err != nil {
		return err
	}
	c.apply([]trip.Field{trip.FieldDays}, func(doc *trip.Document) {
		day := &doc.Days[dayIndex]
		kept := day.Events[:0]
		for _, e := range day.Events {
			if e.ID != eventID {
				kept = append(kept, e)
			}
		}
		day.Events = kept
	})
	return nil
}

// SetDayTips overwrites the free-text tips of one day.
func (c *Controller) SetDayTips(dayIndex int, tips string) error {
	if err := c.checkDayIndex(dayIndex); err != nil {
		return err
	}
	c.apply([]trip.Field{trip.FieldDays}, func(doc *trip.Document) {
		doc.Days[dayIndex].Tips = tips
	})
	return nil
}

// AddExpense appends one ledger entry in its original currency.
func (c *Controller) AddExpense(e trip.Expense) error {
	if e.Title == "" {
		return fmt.Errorf("expense title must not be empty")
	}
	if e.Amount <= 0 {
		return fmt.Errorf("expense amount must be positive")
	}
	if len(e.Involved) == 0 {
		return fmt.Errorf("expense must involve at least one user")
	}
	if e.ID == "" {
		e.ID = newID()
	}
	if e.Category == "" {
		e.Category = "other"
	}
	c.apply([]trip.Field{trip.FieldExpenses}, func(doc *trip.Document) {
		doc.Expenses = append(doc.Expenses, e)
	})
	return nil
}

func (c *Controller) DeleteExpense(id string) {
	c.apply([]trip.Field{trip.FieldExpenses}, func(doc *trip.Document) {
		kept := doc.Expenses[:0]
		for _, e := range doc.Expenses {
			if e.ID != id {
				kept = append(kept, e)
			}
		}
		doc.Expenses = kept
	})
}

func (c *Controller) AddTodo(text, category string) error {
	if text == "" {
		return fmt.Errorf("todo text must not be empty")
	}
	if category == "" {
		category = "todo"
	}
	todo := trip.Todo{ID: newID(), Text: text, Category: category}
	c.apply([]trip.Field{trip.FieldTodos}, func(doc *trip.Document) {
		doc.Todos = append(doc.Todos, todo)
	})
	return nil
}

func (c *Controller) ToggleTodo(id string) {
	c.apply([]trip.Field{trip.FieldTodos}, func(doc *trip.Document) {
		for i := range doc.Todos {
			if doc.Todos[i].ID == id {
				doc.Todos[i].IsCompleted = !doc.Todos[i].IsCompleted
			}
		}
	})
}

func (c *Controller) DeleteTodo(id string) {
	c.apply([]trip.Field{trip.FieldTodos}, func(doc *trip.Document) {
		kept := doc.Todos[:0]
		for _, t := range doc.Todos {
			if t.ID != id {
				kept = append(kept, t)
			}
		}
		doc.Todos = kept
	})
}

// AddTodoCategory creates a user-defined todo category.
func (c *Controller) AddTodoCategory(label, color string) (trip.Category, error) {
	cat, err := newCategory(label, color)
	if err != nil {
		return trip.Category{}, err
	}
	c.apply([]trip.Field{trip.FieldTodoCategories}, func(doc *trip.Document) {
		doc.TodoCategories = append(doc.TodoCategories, cat)
	})
	return cat, nil
}

// DeleteTodoCategory removes a user-defined category. Its todos move to
// the general list so none are orphaned. Seed categories are permanent.
func (c *Controller) DeleteTodoCategory(id string) error {
	if err := c.checkDeletable(c.Document().TodoCategories, id); err != nil {
		return err
	}
	c.apply([]trip.Field{trip.FieldTodoCategories, trip.FieldTodos}, func(doc *trip.Document) {
		doc.TodoCategories = removeCategory(doc.TodoCategories, id)
		for i := range doc.Todos {
			if doc.Todos[i].Category == id {
				doc.Todos[i].Category = "todo"
			}
		}
	})
	return nil
}

// AddExpenseCategory creates a user-defined expense category.
func (c *Controller) AddExpenseCategory(label, color string) (trip.Category, error) {
	cat, err := newCategory(label, color)
	if err != nil {
		return trip.Category{}, err
	}
	c.apply([]trip.Field{trip.FieldExpenseCategories}, func(doc *trip.Document) {
		doc.ExpenseCategories = append(doc.ExpenseCategories, cat)
	})
	return cat, nil
}

// DeleteExpenseCategory removes a user-defined category, reassigning its
// expenses to the catch-all bucket.
func (c *Controller) DeleteExpenseCategory(id string) error {
	if err := c.checkDeletable(c.Document().ExpenseCategories, id); err != nil {
		return err
	}
	c.apply([]trip.Field{trip.FieldExpenseCategories, trip.FieldExpenses}, func(doc *trip.Document) {
		doc.ExpenseCategories = removeCategory(doc.ExpenseCategories, id)
		for i := range doc.Expenses {
			if doc.Expenses[i].Category == id {
				doc.Expenses[i].Category = "other"
			}
		}
	})
	return nil
}

// Links returns the merged booking-links view: event-derived rows first,
// then the manually stored ones.
func (c *Controller) Links() []trip.MergedLink {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return trip.MergeLinks(c.doc.Days, c.doc.Links)
}

// SaveLink dispatches an edit from the links hub back to where the row
// actually lives: the links collection for manual rows, the owning
// event for derived rows.
func (c *Controller) SaveLink(ml trip.MergedLink) error {
	switch ml.Source {
	case trip.LinkSourceEvent:
		return c.saveEventLink(ml)
	default:
		return c.saveManualLink(ml.BookingLink)
	}
}

func (c *Controller) saveManualLink(l trip.BookingLink) error {
	if l.Title == "" || l.URL == "" {
		return fmt.Errorf("link title and url must not be empty")
	}
	if l.ID == "" {
		l.ID = newID()
	}
	c.apply([]trip.Field{trip.FieldLinks}, func(doc *trip.Document) {
		for i := range doc.Links {
			if doc.Links[i].ID == l.ID {
				doc.Links[i] = l
				return
			}
		}
		doc.Links = append(doc.Links, l)
	})
	return nil
}

func (c *Controller) saveEventLink(ml trip.MergedLink) error {
	if err := c.checkEventIndex(ml.DayIndex, ml.EventIndex); err != nil {
		return err
	}
	c.apply([]trip.Field{trip.FieldDays}, func(doc *trip.Document) {
		ev := &doc.Days[ml.DayIndex].Events[ml.EventIndex]
		ev.Title = ml.Title
		ev.BookingURL = ml.URL
		ev.Notes = ml.Details
	})
	return nil
}

// DeleteLink removes a manual row, or clears the booking URL of the
// owning event for a derived row so it drops out of the merged view.
func (c *Controller) DeleteLink(ml trip.MergedLink) error {
	if ml.Source == trip.LinkSourceEvent {
		if err := c.checkEventIndex(ml.DayIndex, ml.EventIndex); err != nil {
			return err
		}
		c.apply([]trip.Field{trip.FieldDays}, func(doc *trip.Document) {
			doc.Days[ml.DayIndex].Events[ml.EventIndex].BookingURL = ""
		})
		return nil
	}
	c.apply([]trip.Field{trip.FieldLinks}, func(doc *trip.Document) {
		kept := doc.Links[:0]
		for _, l := range doc.Links {
			if l.ID != ml.ID {
				kept = append(kept, l)
			}
		}
		doc.Links = kept
	})
	return nil
}

func (c *Controller) checkDayIndex(dayIndex int) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if dayIndex < 0 || dayIndex >= len(c.doc.Days) {
		return fmt.Errorf("day index %d out of range", dayIndex)
	}
	return nil
}

func (c *Controller) checkEventIndex(dayIndex, eventIndex int) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if dayIndex < 0 || dayIndex >= len(c.doc.Days) {
		return fmt.Errorf("day index %d out of range", dayIndex)
	}
	if eventIndex < 0 || eventIndex >= len(c.doc.Days[dayIndex].Events) {
		return fmt.Errorf("event index %d out of range on day %d", eventIndex, dayIndex)
	}
	return nil
}

func (c *Controller) checkDeletable(cats []trip.Category, id string) error {
	for _, cat := range cats {
		if cat.ID != id {
			continue
		}
		if cat.IsDefault {
			return fmt.Errorf("category %s is a default category and cannot be deleted", id)
		}
		return nil
	}
	return fmt.Errorf("category %s does not exist", id)
}

func newCategory(label, color string) (trip.Category, error) {
	if label == "" {
		return trip.Category{}, fmt.Errorf("category label must not be empty")
	}
	if color == "" {
		color = "slate"
	}
	return trip.Category{
		ID:    fmt.Sprintf("cat_%d", time.Now().UnixMilli()),
		Label: label,
		Color: color,
	}, nil
}

func removeCategory(cats []trip.Category, id string) []trip.Category {
	kept := cats[:0]
	for _, cat := range cats {
		if cat.ID != id {
			kept = append(kept, cat)
		}
	}
	return kept
}

func newID() string {
	return fmt.Sprintf("%d", time.Now().UnixMilli())
}

// healMissingCollections substitutes the built-in defaults for fields a
// partially written document never had.
func healMissingCollections(doc *trip.Document) {
	if len(doc.Days) == 0 {
		doc.Days = trip.DefaultDays()
	}
	if doc.Todos == nil {
		doc.Todos = trip.DefaultTodos()
	}
	if doc.Links == nil {
		doc.Links = trip.DefaultLinks()
	}
	if len(doc.TodoCategories) == 0 {
		doc.TodoCategories = trip.DefaultTodoCategories()
	}
	if len(doc.ExpenseCategories) == 0 {
		doc.ExpenseCategories = trip.DefaultExpenseCategories()
	}
	doc.Sanitize()
}

func collectionsEqual(a, b any) bool {
	changes, err := diff.Diff(a, b)
	return err == nil && len(changes) == 0
}

func fieldValue(doc *trip.Document, f trip.Field) any {
	switch f {
	case trip.FieldDays:
		return trip.CloneDays(doc.Days)
	case trip.FieldExpenses:
		return trip.CloneExpenses(doc.Expenses)
	case trip.FieldLinks:
		return append([]trip.BookingLink{}, doc.Links...)
	case trip.FieldTodos:
		return append([]trip.Todo{}, doc.Todos...)
	case trip.FieldTodoCategories:
		return append([]trip.Category{}, doc.TodoCategories...)
	case trip.FieldExpenseCategories:
		return append([]trip.Category{}, doc.ExpenseCategories...)
	case trip.FieldVersion:
		return doc.Version
	}
	return nil
}

func setFieldValue(doc *trip.Document, f trip.Field, v any) {
	st.Apply(doc, st.FieldPatch{f: v})
}
