package trip

import (
	"fmt"
	"sort"
	"strings"
)

// ID is the fixed key of the single trip document for this deployment.
const ID = "melbourne-trip-2026"

// SchemaVersion is the compiled-in target version of the trip document.
// A stored document with a lower (or missing) version gets its days
// collection refreshed from the built-in defaults on load.
const SchemaVersion = 2

// Users of the shared ledger, in display order. The first entry is the
// device owner in all settlement summaries.
var Users = []string{"我", "旅伴"}

type Weather string

const (
	WeatherSunny        Weather = "sunny"
	WeatherCloudy       Weather = "cloudy"
	WeatherRain         Weather = "rain"
	WeatherPartlyCloudy Weather = "partly-cloudy"
)

type EventKind string

const (
	EventFood      EventKind = "food"
	EventActivity  EventKind = "activity"
	EventTransport EventKind = "transport"
	EventHotel     EventKind = "hotel"
	EventFlight    EventKind = "flight"
)

type Currency string

const (
	AUD Currency = "AUD"
	TWD Currency = "TWD"
)

// FlightDetails is the payload of the flight event variant.
type FlightDetails struct {
	FlightNumber   string `json:"flightNumber"`
	Airline        string `json:"airline"`
	DepartCode     string `json:"departCode"`
	ArriveCode     string `json:"arriveCode"`
	DepartTerminal string `json:"departTerminal,omitempty"`
	ArriveTerminal string `json:"arriveTerminal,omitempty"`
	Duration       string `json:"duration,omitempty"`
}

// Event is one itinerary entry. Kind tags the variant; FlightDetails is
// present exactly when Kind is EventFlight (checked by Validate, and by
// the constructors below which are the only paths the controller uses).
type Event struct {
	ID            string         `json:"id"`
	Time          string         `json:"time"` // "HH:MM", lexicographic order == chronological order
	Title         string         `json:"title"`
	Location      string         `json:"location"`
	Lat           float64        `json:"lat,omitempty"`
	Lng           float64        `json:"lng,omitempty"`
	Notes         string         `json:"notes,omitempty"`
	Kind          EventKind      `json:"type"`
	BookingURL    string         `json:"bookingUrl,omitempty"`
	NavLink       string         `json:"navLink,omitempty"`
	FlightDetails *FlightDetails `json:"flightDetails,omitempty"`
}

// NewEvent builds a non-flight event.
func NewEvent(id, hhmm, title string, kind EventKind) Event {
	if kind == EventFlight {
		kind = EventActivity
	}
	return Event{ID: id, Time: hhmm, Title: title, Kind: kind}
}

// NewFlightEvent builds a flight event carrying its details.
func NewFlightEvent(id, hhmm, title string, details FlightDetails) Event {
	return Event{ID: id, Time: hhmm, Title: title, Kind: EventFlight, FlightDetails: &details}
}

// Validate checks the kind/payload pairing invariant.
func (e Event) Validate() error {
	if e.Kind == EventFlight && e.FlightDetails == nil {
		return fmt.Errorf("flight event %s has no flight details", e.ID)
	}
	if e.Kind != EventFlight && e.FlightDetails != nil {
		return fmt.Errorf("%s event %s carries flight details", e.Kind, e.ID)
	}
	return nil
}

// NavURL returns the navigation target for this event: the explicit
// navLink when set, otherwise a Google Maps search for the location.
// Empty when the event has no location at all.
func (e Event) NavURL() string {
	if e.NavLink != "" {
		return e.NavLink
	}
	if e.Location != "" {
		return "https://www.google.com/maps/search/?api=1&query=" + queryEscape(e.Location)
	}
	return ""
}

func queryEscape(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == ' ':
			b.WriteString("%20")
		case r < 0x80 && (r == '-' || r == '.' || r == '_' || r == '~' ||
			(r >= '0' && r <= '9') || (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')):
			b.WriteRune(r)
		default:
			for _, c := range []byte(string(r)) {
				fmt.Fprintf(&b, "%%%02X", c)
			}
		}
	}
	return b.String()
}

// Day is one itinerary day. Ordinals are 1-based and contiguous;
// slice order is chronological order.
type Day struct {
	Day     int     `json:"day"`
	Date    string  `json:"date"` // YYYY-MM-DD
	Weekday string  `json:"weekday"`
	Weather Weather `json:"weather"`
	Temp    float64 `json:"temp"`
	Tips    string  `json:"tips"`
	Events  []Event `json:"events"`
}

// SortEvents restores the events-sorted-by-time invariant after an
// insert or edit. Sort is stable so same-minute events keep their
// insertion order.
func (d *Day) SortEvents() {
	sort.SliceStable(d.Events, func(i, j int) bool {
		return d.Events[i].Time < d.Events[j].Time
	})
}

// Expense is one ledger entry. Amount stays in the entry currency and is
// never normalized at write time.
type Expense struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Amount   float64  `json:"amount"`
	Currency Currency `json:"currency"`
	Payer    string   `json:"payer"`
	Involved []string `json:"involved"` // at least one user
	Category string   `json:"category"`
}

// Category belongs to one of the two independent category lists.
// Seed categories carry well-known ids and IsDefault; user-created ones
// get cat_<unix-ms> ids and may be deleted.
type Category struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Color     string `json:"color"`
	IsDefault bool   `json:"isDefault"`
}

// BookingLink is a manually entered link record. Links derived from
// itinerary events are projected at read time, never stored.
type BookingLink struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Kind    string `json:"type"`
	URL     string `json:"url"`
	Details string `json:"details"`
}

type Todo struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	IsCompleted bool   `json:"isCompleted"`
	Category    string `json:"category"`
}

// Field names the top-level document fields addressable by a patch.
type Field string

const (
	FieldDays              Field = "days"
	FieldExpenses          Field = "expenses"
	FieldLinks             Field = "links"
	FieldTodos             Field = "todos"
	FieldTodoCategories    Field = "todoCategories"
	FieldExpenseCategories Field = "expenseCategories"
	FieldVersion           Field = "version"
)

// CollectionFields lists the six collection fields, version excluded.
var CollectionFields = []Field{
	FieldDays, FieldExpenses, FieldLinks,
	FieldTodos, FieldTodoCategories, FieldExpenseCategories,
}

// Document is the whole trip document: six collections plus the schema
// version stamp. Exactly one exists per deployment.
type Document struct {
	Days              []Day         `json:"days"`
	Expenses          []Expense     `json:"expenses"`
	Links             []BookingLink `json:"links"`
	Todos             []Todo        `json:"todos"`
	TodoCategories    []Category    `json:"todoCategories"`
	ExpenseCategories []Category    `json:"expenseCategories"`
	Version           int           `json:"version"`
}

// Sanitize normalizes a document for serialization: nil collections
// become empty slices so a patch never writes a null field.
func (d *Document) Sanitize() {
	if d.Days == nil {
		d.Days = []Day{}
	}
	for i := range d.Days {
		if d.Days[i].Events == nil {
			d.Days[i].Events = []Event{}
		}
	}
	if d.Expenses == nil {
		d.Expenses = []Expense{}
	}
	for i := range d.Expenses {
		if d.Expenses[i].Involved == nil {
			d.Expenses[i].Involved = []string{}
		}
	}
	if d.Links == nil {
		d.Links = []BookingLink{}
	}
	if d.Todos == nil {
		d.Todos = []Todo{}
	}
	if d.TodoCategories == nil {
		d.TodoCategories = []Category{}
	}
	if d.ExpenseCategories == nil {
		d.ExpenseCategories = []Category{}
	}
}

// TodayIndex returns the index of the day matching the given YYYY-MM-DD
// date, the last day when the date falls after the trip, and 0 before it.
func TodayIndex(days []Day, date string) int {
	for i, d := range days {
		if d.Date == date {
			return i
		}
	}
	if len(days) > 0 && date > days[len(days)-1].Date {
		return len(days) - 1
	}
	return 0
}
