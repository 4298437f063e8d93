package models

import (
	"time"

	"gorm.io/datatypes"
)

// Import/export log kinds.
const (
	LogTypeImport = "import"
	LogTypeExport = "export"
)

// ImportExportLog is the append-only audit record written once per import or export call.
type ImportExportLog struct {
	ID                uint           `json:"id" gorm:"primaryKey;autoIncrement"`
	Type              string         `json:"type" gorm:"type:varchar(16);not null;index"`
	Filename          string         `json:"filename,omitempty" gorm:"type:varchar(255)"`
	RecordsProcessed  int            `json:"recordsProcessed" gorm:"not null;default:0"`
	RecordsSuccessful int            `json:"recordsSuccessful" gorm:"not null;default:0"`
	RecordsFailed     int            `json:"recordsFailed" gorm:"not null;default:0"`
	Filters           datatypes.JSON `json:"filters,omitempty"`
	Details           string         `json:"details,omitempty" gorm:"type:text"`
	CreatedAt         time.Time      `json:"createdAt"`
}
