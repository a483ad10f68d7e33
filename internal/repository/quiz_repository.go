package repository

import (
	"course_gen_backend/internal/model"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

func (r *QuizRepository) CreateBatch(quizzes []model.Quiz) error {
	if len(quizzes) == 0 {
		return nil
	}
	return r.DB.Create(&quizzes).Error
}

func (r *QuizRepository) ListByCourse(courseID uint) ([]model.Quiz, error) {
	var quizzes []model.Quiz
	err := r.DB.Where("course_id = ?", courseID).
		Order("module_index ASC").
		Find(&quizzes).Error
	return quizzes, err
}
