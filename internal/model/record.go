package model

import "time"

type TrackingRecord struct {
	TrackingID    string    `json:"tracking_id"`
	Owner         string    `json:"owner"`
	SourceFolder  string    `json:"source_folder"`
	TargetFolder  string    `json:"target_folder"`
	ArchiveFolder string    `json:"archive_folder,omitempty"`
	Status        Status    `json:"status"`
	StartedAt     time.Time `json:"started_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
