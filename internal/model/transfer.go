package model

import (
	"time"

	"gorm.io/gorm"
)

type TransferResult string

const (
	ResultCopied TransferResult = "COPIED"
	ResultFailed TransferResult = "FAILED"
)

// Transfer is the persisted outcome of one folder's transfer attempt.
type Transfer struct {
	gorm.Model
	TrackingID    string         `gorm:"uniqueIndex;not null"`
	SourceFolder  string         `gorm:"not null"`
	TargetFolder  string
	ArchiveFolder string
	Result        TransferResult `gorm:"not null"`
	Status        string         `gorm:"not null"`
	StartedAt     time.Time      `gorm:"not null"`
	FinishedAt    time.Time      `gorm:"not null"`
}
