package store

import (
	"melbgo/trip"
)

// FieldPatch carries the top-level fields of a patch. Values are the
// domain slices (or the int version stamp) and replace the stored field
// wholesale; unnamed fields are never touched.
type FieldPatch map[trip.Field]any

// DocumentStore is the persistence boundary for the single trip
// document. Implementations must be safe for concurrent use.
type DocumentStore interface {
	// Get returns the document and whether it exists.
	Get(tripID string) (*trip.Document, bool, error)
	// CreateIfAbsent writes seed once if no document exists. Racing a
	// concurrent creator is accepted: last writer wins, no transaction.
	CreateIfAbsent(tripID string, seed *trip.Document) (created bool, err error)
	// Patch merges only the named top-level fields into the document.
	Patch(tripID string, fields FieldPatch) error
}

// Apply merges a patch into a document in memory. Shared by the store
// implementations and by tests asserting patch semantics.
func Apply(doc *trip.Document, fields FieldPatch) {
	for f, v := range fields {
		switch f {
		case trip.FieldDays:
			if days, ok := v.([]trip.Day); ok {
				doc.Days = days
			}
		case trip.FieldExpenses:
			if expenses, ok := v.([]trip.Expense); ok {
				doc.Expenses = expenses
			}
		case trip.FieldLinks:
			if links, ok := v.([]trip.BookingLink); ok {
				doc.Links = links
			}
		case trip.FieldTodos:
			if todos, ok := v.([]trip.Todo); ok {
				doc.Todos = todos
			}
		case trip.FieldTodoCategories:
			if cats, ok := v.([]trip.Category); ok {
				doc.TodoCategories = cats
			}
		case trip.FieldExpenseCategories:
			if cats, ok := v.([]trip.Category); ok {
				doc.ExpenseCategories = cats
			}
		case trip.FieldVersion:
			if version, ok := v.(int); ok {
				doc.Version = version
			}
		}
	}
}
