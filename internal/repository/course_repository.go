package repository

import (
	"course_gen_backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

// CreateWithChapters 课程和章节在一个事务里落库，章节按传入顺序定位 1..n。
// 失败时整体回滚，不会留下没有章节的孤儿课程。
func (r *CourseRepository) CreateWithChapters(course *model.Course, chapters []model.Chapter) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(course).Error; err != nil {
			return err
		}

		for i := range chapters {
			chapters[i].CourseID = course.ID
			chapters[i].Position = i + 1
		}
		if len(chapters) > 0 {
			if err := tx.Create(&chapters).Error; err != nil {
				return err
			}
		}
		course.Chapters = chapters
		return nil
	})
}

func (r *CourseRepository) FindByID(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.Preload("Chapters", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).First(&course, id).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepository) ListByUser(userID uint) ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&courses).Error
	return courses, err
}

// Delete 先删章节再删测验最后删课程，显式满足引用约束，不依赖数据库级联
func (r *CourseRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var course model.Course
		if err := tx.First(&course, id).Error; err != nil {
			return err
		}

		// 章节和测验物理删除。软删的幽灵行会继续占住
		// (course_id, position) 唯一索引，挡住后续重建
		if err := tx.Unscoped().Where("course_id = ?", id).Delete(&model.Chapter{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("course_id = ?", id).Delete(&model.Quiz{}).Error; err != nil {
			return err
		}
		return tx.Delete(&course).Error
	})
}

// ReplaceChapters 重新生成课程时整体替换模块和章节，单事务
func (r *CourseRepository) ReplaceChapters(course *model.Course, chapters []model.Chapter) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		// 旧章节物理删除，否则软删行占着 (course_id, position)
		// 唯一索引，新章节插不进去
		if err := tx.Unscoped().Where("course_id = ?", course.ID).Delete(&model.Chapter{}).Error; err != nil {
			return err
		}

		for i := range chapters {
			chapters[i].CourseID = course.ID
			chapters[i].Position = i + 1
		}
		if len(chapters) > 0 {
			if err := tx.Create(&chapters).Error; err != nil {
				return err
			}
		}

		return tx.Model(course).Select("title", "module_count", "modules").Updates(course).Error
	})
}

func (r *CourseRepository) UpdateThumbnail(id uint, thumbnail string) error {
	return r.DB.Model(&model.Course{}).
		Where("id = ?", id).
		Update("thumbnail", thumbnail).Error
}

func (r *CourseRepository) UpdateChapterQuiz(chapterID uint, quiz []byte) error {
	return r.DB.Model(&model.Chapter{}).
		Where("id = ?", chapterID).
		Update("quiz", quiz).Error
}

func (r *CourseRepository) FindChapter(chapterID uint) (*model.Chapter, error) {
	var chapter model.Chapter
	err := r.DB.First(&chapter, chapterID).Error
	if err != nil {
		return nil, err
	}
	return &chapter, nil
}
