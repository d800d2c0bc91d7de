package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// PlanDocument is a custom type for storing a full TripPlan as JSONB in
// PostgreSQL
type PlanDocument struct {
	TripPlan
}

// Value implements the driver.Valuer interface
func (d PlanDocument) Value() (driver.Value, error) {
	return json.Marshal(d.TripPlan)
}

// Scan implements the sql.Scanner interface
func (d *PlanDocument) Scan(src interface{}) error {
	if src == nil {
		*d = PlanDocument{}
		return nil
	}

	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported source type %T for PlanDocument", src)
	}

	return json.Unmarshal(data, &d.TripPlan)
}
