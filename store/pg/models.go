package pg

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// JSONB stores one collection as a raw jsonb column value.
type JSONB []byte

func (j JSONB) Value() (driver.Value, error) {
	if len(j) == 0 {
		return []byte("[]"), nil
	}
	return []byte(j), nil
}

func (j *JSONB) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*j = nil
	case []byte:
		*j = append((*j)[0:0], v...)
	case string:
		*j = JSONB(v)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", value)
	}
	return nil
}

func (JSONB) GormDataType() string {
	return "jsonb"
}

// TripDocumentModel is the single-row-per-trip storage shape: one jsonb
// column per collection plus the integer schema version stamp.
type TripDocumentModel struct {
	ID                string `gorm:"size:255;primaryKey"`
	Days              JSONB  `gorm:"type:jsonb;not null"`
	Expenses          JSONB  `gorm:"type:jsonb;not null"`
	Links             JSONB  `gorm:"type:jsonb;not null"`
	Todos             JSONB  `gorm:"type:jsonb;not null"`
	TodoCategories    JSONB  `gorm:"type:jsonb;not null"`
	ExpenseCategories JSONB  `gorm:"type:jsonb;not null"`
	SchemaVersion     int    `gorm:"not null;default:0"`
	// meta data
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for TripDocumentModel.
func (TripDocumentModel) TableName() string {
	return "trip_documents"
}
