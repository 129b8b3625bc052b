package store

import (
	"testing"

	"melbgo/trip"
)

func TestApply(t *testing.T) {
	base := func() *trip.Document {
		return &trip.Document{
			Days:    []trip.Day{{Day: 1, Date: "2026-01-21"}},
			Todos:   []trip.Todo{{ID: "t1", Text: "old"}},
			Version: 1,
		}
	}

	tests := []struct {
		name   string
		fields FieldPatch
		check  func(t *testing.T, doc *trip.Document)
	}{
		{
			name:   "Replace one collection",
			fields: FieldPatch{trip.FieldTodos: []trip.Todo{{ID: "t2", Text: "new"}}},
			check: func(t *testing.T, doc *trip.Document) {
				if len(doc.Todos) != 1 || doc.Todos[0].ID != "t2" {
					t.Errorf("todos not replaced: %+v", doc.Todos)
				}
				if len(doc.Days) != 1 || doc.Version != 1 {
					t.Errorf("untouched fields changed: days=%d version=%d", len(doc.Days), doc.Version)
				}
			},
		},
		{
			name: "Version and days together",
			fields: FieldPatch{
				trip.FieldDays:    []trip.Day{{Day: 1}, {Day: 2}},
				trip.FieldVersion: 2,
			},
			check: func(t *testing.T, doc *trip.Document) {
				if len(doc.Days) != 2 || doc.Version != 2 {
					t.Errorf("multi-field patch failed: days=%d version=%d", len(doc.Days), doc.Version)
				}
			},
		},
		{
			name:   "Wrong value type is ignored",
			fields: FieldPatch{trip.FieldTodos: "not a slice"},
			check: func(t *testing.T, doc *trip.Document) {
				if len(doc.Todos) != 1 || doc.Todos[0].ID != "t1" {
					t.Errorf("mistyped value must not clobber the field: %+v", doc.Todos)
				}
			},
		},
		{
			name:   "Empty patch",
			fields: FieldPatch{},
			check: func(t *testing.T, doc *trip.Document) {
				if len(doc.Todos) != 1 || len(doc.Days) != 1 || doc.Version != 1 {
					t.Error("empty patch must change nothing")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := base()
			Apply(doc, tt.fields)
			tt.check(t, doc)
		})
	}
}
