package service

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"course_gen_backend/internal/config"
	"course_gen_backend/internal/model"
	"course_gen_backend/internal/repository"
	"course_gen_backend/internal/util"
	"course_gen_backend/pkg/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newCourseService(t *testing.T) (*CourseService, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	ai := NewAIService(config.AIConfig{})
	search := NewVideoSearchService(config.YouTubeConfig{
		CacheFile: filepath.Join(t.TempDir(), "cache.json"),
	})
	gen := NewCourseGenService(ai, search)
	gen.searchPause = 0

	svc := NewCourseService(
		repository.NewUserRepository(db),
		repository.NewCourseRepository(db),
		repository.NewQuizRepository(db),
		gen,
		NewThumbnailService(),
		nil,
	)
	return svc, db
}

func testIdentity() UserIdentity {
	return UserIdentity{ExternalID: "ext-1", Email: "a@example.com", Name: "Alice"}
}

func scienceCourseInput(moduleCount int) CreateCourseInput {
	input := CreateCourseInput{
		Title:      "Foundations of Physics",
		Category:   "science",
		Difficulty: "beginner",
		Duration:   6,
	}
	titles := []string{"Motion", "Forces", "Energy", "Waves"}
	for i := 0; i < moduleCount; i++ {
		input.Modules = append(input.Modules, CourseModuleInput{
			Title:   titles[i%len(titles)],
			Content: strings.Repeat("Lesson text with enough substance to quiz on later. ", 5),
		})
	}
	return input
}

func TestCreateCoursePersistsOrderedChapters(t *testing.T) {
	svc, db := newCourseService(t)

	course, invalid, err := svc.CreateCourse(testIdentity(), scienceCourseInput(3))
	require.NoError(t, err)
	require.Empty(t, invalid)
	require.NotZero(t, course.ID)
	assert.Equal(t, 3, course.ModuleCount)

	found, err := svc.GetCourse(context.Background(), course.ID)
	require.NoError(t, err)
	require.Len(t, found.Chapters, 3)
	for i, ch := range found.Chapters {
		assert.Equal(t, i+1, ch.Position)
	}

	var modules []model.CourseModule
	require.NoError(t, json.Unmarshal(found.Modules, &modules))
	assert.Len(t, modules, 3)

	// 同一分类的封面字节级一致
	assert.Equal(t, NewThumbnailService().Generate("science"), found.Thumbnail)

	// 调用方用户被解析或创建
	var userCount int64
	db.Model(&model.User{}).Where("external_id = ?", "ext-1").Count(&userCount)
	assert.EqualValues(t, 1, userCount)
}

func TestCreateCourseReusesExistingUser(t *testing.T) {
	svc, db := newCourseService(t)

	_, _, err := svc.CreateCourse(testIdentity(), scienceCourseInput(1))
	require.NoError(t, err)
	_, _, err = svc.CreateCourse(testIdentity(), scienceCourseInput(2))
	require.NoError(t, err)

	var userCount int64
	db.Model(&model.User{}).Count(&userCount)
	assert.EqualValues(t, 1, userCount)
}

func TestCreateCourseRejectsBadURLs(t *testing.T) {
	svc, _ := newCourseService(t)

	input := scienceCourseInput(2)
	input.Modules[0].Videos = []string{"https://youtu.be/dQw4w9WgXcQ"}
	input.Modules[1].Videos = []string{"not a url", "ftp://bad"}

	course, invalid, err := svc.CreateCourse(testIdentity(), input)
	require.NoError(t, err)
	assert.Nil(t, course)
	require.Len(t, invalid, 2)
	assert.Contains(t, invalid[0], "module 2")
}

func TestCreateCourseNormalizesURLs(t *testing.T) {
	svc, _ := newCourseService(t)

	input := scienceCourseInput(1)
	input.Modules[0].Videos = []string{
		"https://youtu.be/dQw4w9WgXcQ",
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ",
	}

	course, invalid, err := svc.CreateCourse(testIdentity(), input)
	require.NoError(t, err)
	require.Empty(t, invalid)
	require.NotNil(t, course)

	found, err := svc.GetCourse(context.Background(), course.ID)
	require.NoError(t, err)
	require.Len(t, found.Chapters, 1)

	var videos []string
	require.NoError(t, json.Unmarshal(found.Chapters[0].Videos, &videos))
	assert.Equal(t, []string{"https://www.youtube.com/watch?v=dQw4w9WgXcQ"}, videos)
}

func TestGenerateDraftNotPersisted(t *testing.T) {
	svc, db := newCourseService(t)

	draft := svc.GenerateDraft(GenerateCourseInput{
		Topic:       "go",
		Category:    "programming",
		Difficulty:  "beginner",
		Duration:    10,
		ModuleCount: 3,
	})
	require.NotNil(t, draft)
	assert.Len(t, draft.Modules, 3)
	assert.NotEmpty(t, draft.CourseTitle)

	var courseCount int64
	db.Model(&model.Course{}).Count(&courseCount)
	assert.Zero(t, courseCount)
}

func TestDeleteCourseNotFound(t *testing.T) {
	svc, _ := newCourseService(t)

	err := svc.DeleteCourse(context.Background(), 9999)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}

func TestRegenerateCourseReplacesChapters(t *testing.T) {
	svc, _ := newCourseService(t)

	course, _, err := svc.CreateCourse(testIdentity(), scienceCourseInput(2))
	require.NoError(t, err)
	originalChapterIDs := []uint{course.Chapters[0].ID, course.Chapters[1].ID}

	updated, err := svc.RegenerateCourse(context.Background(), course.ID, "rust")
	require.NoError(t, err)
	require.Len(t, updated.Chapters, 2)
	for _, ch := range updated.Chapters {
		assert.NotContains(t, originalChapterIDs, ch.ID)
	}
	assert.Contains(t, updated.Title, "Rust")
}

func TestRefreshThumbnailDeterministic(t *testing.T) {
	svc, _ := newCourseService(t)

	course, _, err := svc.CreateCourse(testIdentity(), scienceCourseInput(1))
	require.NoError(t, err)

	first, err := svc.RefreshThumbnail(context.Background(), course.ID)
	require.NoError(t, err)
	second, err := svc.RefreshThumbnail(context.Background(), course.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, course.Thumbnail, first)
}

func TestGenerateQuizzesReportsPerChapter(t *testing.T) {
	svc, _ := newCourseService(t)

	course, _, err := svc.CreateCourse(testIdentity(), scienceCourseInput(2))
	require.NoError(t, err)

	// AI 未配置，每章都应报错而不是整个请求失败
	results, err := svc.GenerateQuizzes(context.Background(), course.ID, 3)
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.NotEmpty(t, r.Error)
		assert.Zero(t, r.Generated)
	}
}
