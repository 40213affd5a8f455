package vote

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Vote is an anonymize-by-reference ballot record. The unique index on
// MemberID is the storage-level half of the duplicate-vote guard. Votes are
// immutable once created; no update or delete path exists.
type Vote struct {
	ID       string    `gorm:"primaryKey;size:36" json:"id"`
	MemberID uint      `gorm:"not null;unique" json:"member_id"`
	CastAt   time.Time `gorm:"not null" json:"cast_at"`
	Choices  ChoiceMap `gorm:"type:json;not null" json:"votes"`
}

// ChoiceMap maps position id to the chosen candidate id, stored as a JSON
// column.
type ChoiceMap map[uint]uint

// Scan implements the Scanner interface for database deserialization.
func (cm *ChoiceMap) Scan(value interface{}) error {
	if value == nil {
		*cm = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("unsupported type for ChoiceMap")
	}

	return json.Unmarshal(bytes, cm)
}

// Value implements the driver Valuer interface for database serialization.
func (cm ChoiceMap) Value() (driver.Value, error) {
	if cm == nil {
		return nil, nil
	}
	return json.Marshal(cm)
}
