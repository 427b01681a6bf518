package repository

import (
	"time"

	"dropzone/internal/db"
	"dropzone/internal/model"

	"gorm.io/gorm/clause"
)

type TransferRepository struct{}

func NewTransferRepository() *TransferRepository {
	return &TransferRepository{}
}

// Save stores the final state of a transfer. Saving the same tracking id
// again overwrites the earlier row.
func (r *TransferRepository) Save(rec model.TrackingRecord, finishedAt time.Time) error {
	result := model.ResultFailed
	if rec.Status.Kind == model.StatusCopied {
		result = model.ResultCopied
	}

	transfer := model.Transfer{
		TrackingID:    rec.TrackingID,
		SourceFolder:  rec.SourceFolder,
		TargetFolder:  rec.TargetFolder,
		ArchiveFolder: rec.ArchiveFolder,
		Result:        result,
		Status:        rec.Status.String(),
		StartedAt:     rec.StartedAt,
		FinishedAt:    finishedAt,
	}

	return db.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tracking_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"target_folder", "archive_folder", "result", "status", "finished_at", "updated_at"}),
	}).Create(&transfer).Error
}

type Stats struct {
	Total  int64
	Copied int64
	Failed int64
}

func (r *TransferRepository) GetStats() (Stats, error) {
	var stats Stats
	if err := db.DB.Model(&model.Transfer{}).Count(&stats.Total).Error; err != nil {
		return stats, err
	}

	if err := db.DB.Model(&model.Transfer{}).
		Where("result = ?", model.ResultCopied).
		Count(&stats.Copied).Error; err != nil {
		return stats, err
	}

	stats.Failed = stats.Total - stats.Copied
	return stats, nil
}

func (r *TransferRepository) GetRecent(limit int) ([]model.Transfer, error) {
	var transfers []model.Transfer
	result := db.DB.
		Order("finished_at desc").
		Limit(limit).
		Find(&transfers)

	return transfers, result.Error
}

func (r *TransferRepository) GetFailed() ([]model.Transfer, error) {
	var transfers []model.Transfer
	result := db.DB.
		Where("result = ?", model.ResultFailed).
		Order("finished_at desc").
		Find(&transfers)

	return transfers, result.Error
}
