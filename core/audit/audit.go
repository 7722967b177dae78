package audit

import (
	"time"

	"github.com/goccy/go-json"
	"gorm.io/gorm"
)

// Update types stored in change records.
const (
	UpdateCreate     = "create"
	UpdateUpdate     = "update"
	UpdateDeactivate = "deactivate"
)

// ChangeRecord represents one row of the 'change_records' table. Every
// storage mutation writes exactly one record; an update that changes
// nothing writes none.
type ChangeRecord struct {
	ID          uint      `gorm:"column:id;primaryKey" json:"id"`
	Table       string    `gorm:"column:table_name;size:64;index:idx_change_records_target" json:"table_name"`
	RecordID    uint      `gorm:"column:record_id;index:idx_change_records_target" json:"record_id"`
	UpdateType  string    `gorm:"column:update_type;size:16" json:"update_type"`
	UpdateBy    string    `gorm:"column:update_by;size:64;index" json:"update_by"`
	BeforeValue string    `gorm:"column:before_value;type:text" json:"before_value,omitempty"`
	AfterValue  string    `gorm:"column:after_value;type:text" json:"after_value,omitempty"`
	Timestamp   time.Time `gorm:"column:timestamp;index" json:"timestamp"`
}

// TableName overrides the table name.
func (ChangeRecord) TableName() string {
	return "change_records"
}

// Snapshot serializes an entity state for the before and after
// columns. A nil value yields an empty string, which is how creations
// mark "no previous state".
func Snapshot(v any) string {
	if v == nil {
		return ""
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(raw)
}

// Record appends one change record inside the caller's transaction so
// the history commits or rolls back together with the change itself.
func Record(tx *gorm.DB, change *ChangeRecord) error {
	if change.Timestamp.IsZero() {
		change.Timestamp = time.Now()
	}
	return tx.Create(change).Error
}

// Filter narrows a history listing. Zero values leave the dimension
// unconstrained.
type Filter struct {
	Table    string
	RecordID uint
	JobID    string
	From     time.Time
	To       time.Time
	Limit    int
}

// List returns matching change records, oldest first.
func List(db *gorm.DB, filter Filter) ([]ChangeRecord, error) {
	q := db.Model(&ChangeRecord{})
	if filter.Table != "" {
		q = q.Where("table_name = ?", filter.Table)
	}
	if filter.RecordID != 0 {
		q = q.Where("record_id = ?", filter.RecordID)
	}
	if filter.JobID != "" {
		q = q.Where("update_by = ?", filter.JobID)
	}
	if !filter.From.IsZero() {
		q = q.Where("timestamp >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		q = q.Where("timestamp <= ?", filter.To)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var records []ChangeRecord
	err := q.Order("timestamp asc, id asc").Find(&records).Error
	return records, err
}
