package pg

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	st "melbgo/store/store"
	"melbgo/trip"
)

// GORMDocumentStore is a GORM-based PostgreSQL implementation of
// st.DocumentStore.
type GORMDocumentStore struct {
	db *gorm.DB
}

// NewGORMDocumentStore creates and returns a new instance of GORMDocumentStore.
func NewGORMDocumentStore(db *gorm.DB) st.DocumentStore {
	return &GORMDocumentStore{
		db: db,
	}
}

func (s *GORMDocumentStore) Get(tripID string) (*trip.Document, bool, error) {
	var model TripDocumentModel
	result := s.db.First(&model, "id = ?", tripID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get trip document %s: %w", tripID, result.Error)
	}

	doc, err := modelToDocument(&model)
	if err != nil {
		return nil, false, err
	}
	return doc, true, nil
}

func (s *GORMDocumentStore) CreateIfAbsent(tripID string, seed *trip.Document) (bool, error) {
	if seed == nil {
		return false, fmt.Errorf("seed document for %s is nil", tripID)
	}

	var existing TripDocumentModel
	result := s.db.Select("id").First(&existing, "id = ?", tripID)
	if result.Error == nil {
		return false, nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("failed to check trip document %s: %w", tripID, result.Error)
	}

	model, err := documentToModel(tripID, seed)
	if err != nil {
		return false, err
	}
	if result := s.db.Create(model); result.Error != nil {
		// A concurrent creator got there first. Accepted race, no
		// transaction: the other writer wins.
		if strings.Contains(result.Error.Error(), "duplicate key value violates unique constraint") {
			return false, nil
		}
		return false, fmt.Errorf("failed to create trip document %s: %w", tripID, result.Error)
	}
	return true, nil
}

func (s *GORMDocumentStore) Patch(tripID string, fields st.FieldPatch) error {
	if len(fields) == 0 {
		return nil
	}

	updates := make(map[string]interface{}, len(fields))
	for f, v := range fields {
		column, ok := fieldColumns[f]
		if !ok {
			return fmt.Errorf("unknown document field %q", f)
		}
		if f == trip.FieldVersion {
			version, ok := v.(int)
			if !ok {
				return fmt.Errorf("version patch value must be int, got %T", v)
			}
			updates[column] = version
			continue
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal field %s: %w", f, err)
		}
		updates[column] = JSONB(raw)
	}

	result := s.db.Model(&TripDocumentModel{}).Where("id = ?", tripID).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to patch trip document %s: %w", tripID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("trip document %s not found for patch", tripID)
	}
	return nil
}

var fieldColumns = map[trip.Field]string{
	trip.FieldDays:              "days",
	trip.FieldExpenses:          "expenses",
	trip.FieldLinks:             "links",
	trip.FieldTodos:             "todos",
	trip.FieldTodoCategories:    "todo_categories",
	trip.FieldExpenseCategories: "expense_categories",
	trip.FieldVersion:           "schema_version",
}

func documentToModel(tripID string, doc *trip.Document) (*TripDocumentModel, error) {
	sanitized := doc.Clone()

	model := &TripDocumentModel{ID: tripID, SchemaVersion: sanitized.Version}
	for field, target := range map[trip.Field]*JSONB{
		trip.FieldDays:              &model.Days,
		trip.FieldExpenses:          &model.Expenses,
		trip.FieldLinks:             &model.Links,
		trip.FieldTodos:             &model.Todos,
		trip.FieldTodoCategories:    &model.TodoCategories,
		trip.FieldExpenseCategories: &model.ExpenseCategories,
	} {
		raw, err := json.Marshal(collectionValue(sanitized, field))
		if err != nil {
			return nil, fmt.Errorf("failed to marshal field %s: %w", field, err)
		}
		*target = JSONB(raw)
	}
	return model, nil
}

func modelToDocument(model *TripDocumentModel) (*trip.Document, error) {
	doc := &trip.Document{Version: model.SchemaVersion}
	for field, raw := range map[trip.Field]JSONB{
		trip.FieldDays:              model.Days,
		trip.FieldExpenses:          model.Expenses,
		trip.FieldLinks:             model.Links,
		trip.FieldTodos:             model.Todos,
		trip.FieldTodoCategories:    model.TodoCategories,
		trip.FieldExpenseCategories: model.ExpenseCategories,
	} {
		if len(raw) == 0 {
			continue
		}
		if err := json.Unmarshal(raw, collectionTarget(doc, field)); err != nil {
			return nil, fmt.Errorf("failed to unmarshal field %s: %w", field, err)
		}
	}
	doc.Sanitize()
	return doc, nil
}

func collectionValue(doc *trip.Document, field trip.Field) interface{} {
	switch field {
	case trip.FieldDays:
		return doc.Days
	case trip.FieldExpenses:
		return doc.Expenses
	case trip.FieldLinks:
		return doc.Links
	case trip.FieldTodos:
		return doc.Todos
	case trip.FieldTodoCategories:
		return doc.TodoCategories
	default:
		return doc.ExpenseCategories
	}
}

func collectionTarget(doc *trip.Document, field trip.Field) interface{} {
	switch field {
	case trip.FieldDays:
		return &doc.Days
	case trip.FieldExpenses:
		return &doc.Expenses
	case trip.FieldLinks:
		return &doc.Links
	case trip.FieldTodos:
		return &doc.Todos
	case trip.FieldTodoCategories:
		return &doc.TodoCategories
	default:
		return &doc.ExpenseCategories
	}
}
