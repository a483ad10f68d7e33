package repository

import (
	"time"

	"course_gen_backend/internal/model"

	"gorm.io/gorm"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

// Upsert 按 (用户, 章节) 查找：有则累加重做次数并覆盖分数，无则插入 attempts=1。
// 唯一索引兜底，重复行不可能出现。
func (r *ProgressRepository) Upsert(userID, chapterID uint, score, totalQuestions, correctAnswers int) (*model.UserProgress, error) {
	var progress model.UserProgress

	err := r.DB.Transaction(func(tx *gorm.DB) error {
		findErr := tx.Where("user_id = ? AND chapter_id = ?", userID, chapterID).
			First(&progress).Error

		now := time.Now()

		if findErr == gorm.ErrRecordNotFound {
			progress = model.UserProgress{
				UserID:         userID,
				ChapterID:      chapterID,
				Score:          score,
				TotalQuestions: totalQuestions,
				CorrectAnswers: correctAnswers,
				Attempts:       1,
				CompletedAt:    &now,
			}
			return tx.Create(&progress).Error
		}
		if findErr != nil {
			return findErr
		}

		progress.Score = score
		progress.TotalQuestions = totalQuestions
		progress.CorrectAnswers = correctAnswers
		progress.Attempts++
		progress.CompletedAt = &now
		return tx.Save(&progress).Error
	})

	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func (r *ProgressRepository) FindByUserAndChapter(userID, chapterID uint) (*model.UserProgress, error) {
	var progress model.UserProgress
	err := r.DB.Where("user_id = ? AND chapter_id = ?", userID, chapterID).
		First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}
