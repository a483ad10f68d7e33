package service

import (
	"errors"

	"course_gen_backend/internal/model"
	"course_gen_backend/internal/repository"
	"course_gen_backend/internal/util"

	"gorm.io/gorm"
)

type ProgressService struct {
	progressRepo *repository.ProgressRepository
	courseRepo   *repository.CourseRepository
}

func NewProgressService(progressRepo *repository.ProgressRepository, courseRepo *repository.CourseRepository) *ProgressService {
	return &ProgressService{
		progressRepo: progressRepo,
		courseRepo:   courseRepo,
	}
}

// RecordQuizResult 章节必须存在才能记成绩，分数由服务端按对错重新计算
func (s *ProgressService) RecordQuizResult(userID, chapterID uint, totalQuestions, correctAnswers int) (*model.UserProgress, error) {
	if _, err := s.courseRepo.FindChapter(chapterID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrChapterNotFound
		}
		return nil, err
	}

	score := 0
	if totalQuestions > 0 {
		score = correctAnswers * 100 / totalQuestions
	}

	return s.progressRepo.Upsert(userID, chapterID, score, totalQuestions, correctAnswers)
}

func (s *ProgressService) GetProgress(userID, chapterID uint) (*model.UserProgress, error) {
	progress, err := s.progressRepo.FindByUserAndChapter(userID, chapterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrProgressNotFound
		}
		return nil, err
	}
	return progress, nil
}
