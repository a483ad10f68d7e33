package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"course_gen_backend/internal/model"
	"course_gen_backend/internal/repository"
	"course_gen_backend/internal/util"
	"course_gen_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// 课程详情缓存 10 分钟，写路径全部主动失效
const courseCacheTTL = 10 * time.Minute

type CourseService struct {
	userRepo   *repository.UserRepository
	courseRepo *repository.CourseRepository
	quizRepo   *repository.QuizRepository
	courseGen  *CourseGenService
	thumbnail  *ThumbnailService
	cache      *redis.Client
}

func NewCourseService(
	userRepo *repository.UserRepository,
	courseRepo *repository.CourseRepository,
	quizRepo *repository.QuizRepository,
	courseGen *CourseGenService,
	thumbnail *ThumbnailService,
	cache *redis.Client,
) *CourseService {
	return &CourseService{
		userRepo:   userRepo,
		courseRepo: courseRepo,
		quizRepo:   quizRepo,
		courseGen:  courseGen,
		thumbnail:  thumbnail,
		cache:      cache,
	}
}

// GenerateCourseInput 生成管线的参数
type GenerateCourseInput struct {
	Topic        string
	Category     string
	Difficulty   string
	Duration     int
	ModuleCount  int
	IncludeQuiz  bool
	IncludeVideo bool
}

// UserIdentity 建课请求携带的调用方身份，来自 JWT claims
type UserIdentity struct {
	ExternalID string
	Email      string
	Name       string
}

// CourseModuleInput 落库建课时的单个模块
type CourseModuleInput struct {
	Title      string   `json:"title" binding:"required"`
	Content    string   `json:"content"`
	Objectives []string `json:"objectives"`
	Videos     []string `json:"videos"`
}

// CreateCourseInput 落库建课的入参，内容由客户端提供（通常来自结构化生成接口）
type CreateCourseInput struct {
	Title        string              `json:"title" binding:"required"`
	Category     string              `json:"category" binding:"required"`
	Difficulty   string              `json:"difficulty" binding:"required,oneof=beginner intermediate advanced"`
	Duration     int                 `json:"duration"`
	IncludeQuiz  bool                `json:"includeQuiz"`
	IncludeVideo bool                `json:"includeVideo"`
	Modules      []CourseModuleInput `json:"modules" binding:"required,min=1"`
}

// GenerateDraft 跑完整生成管线但不落库，产出可直接回给客户端的草稿。
// 草稿阶段永不失败，AI 不可用时是本地模板。
func (s *CourseService) GenerateDraft(input GenerateCourseInput) *CourseDraft {
	draft := s.courseGen.Generate(input.Topic, input.Category, input.Difficulty, input.Duration, input.ModuleCount, input.IncludeQuiz)
	if input.IncludeVideo {
		s.courseGen.EnrichVideos(draft, input.Topic, input.Difficulty)
	}
	return draft
}

// CreateCourse 解析或创建调用方用户后把课程和章节落库。
// 视频地址逐条规范化，任何一条不合法整单拒绝并列出坏地址。
func (s *CourseService) CreateCourse(identity UserIdentity, input CreateCourseInput) (*model.Course, []string, error) {
	var invalid []string
	for i := range input.Modules {
		normalized, bad := util.NormalizeVideoURLs(input.Modules[i].Videos)
		for _, b := range bad {
			invalid = append(invalid, fmt.Sprintf("module %d: %s", i+1, b))
		}
		input.Modules[i].Videos = normalized
	}
	if len(invalid) > 0 {
		return nil, invalid, nil
	}

	user, err := s.userRepo.FindOrCreate(identity.ExternalID, identity.Email, identity.Name)
	if err != nil {
		return nil, nil, err
	}

	modules := make([]model.CourseModule, 0, len(input.Modules))
	chapters := make([]model.Chapter, 0, len(input.Modules))
	for _, m := range input.Modules {
		modules = append(modules, model.CourseModule{
			Title:      m.Title,
			Objectives: m.Objectives,
			Videos:     m.Videos,
		})

		videosJSON, err := json.Marshal(m.Videos)
		if err != nil {
			return nil, nil, err
		}
		chapters = append(chapters, model.Chapter{
			Title:   m.Title,
			Content: m.Content,
			Videos:  datatypes.JSON(videosJSON),
		})
	}

	modulesJSON, err := json.Marshal(modules)
	if err != nil {
		return nil, nil, err
	}

	course := &model.Course{
		UserID:       user.ID,
		Title:        input.Title,
		Category:     input.Category,
		Difficulty:   model.Difficulty(input.Difficulty),
		Duration:     input.Duration,
		ModuleCount:  len(input.Modules),
		Modules:      datatypes.JSON(modulesJSON),
		IncludeQuiz:  input.IncludeQuiz,
		IncludeVideo: input.IncludeVideo,
		Thumbnail:    s.thumbnail.Generate(input.Category),
	}

	if err := s.courseRepo.CreateWithChapters(course, chapters); err != nil {
		return nil, nil, err
	}
	return course, nil, nil
}

func (s *CourseService) draftToCourseDocs(draft *CourseDraft) (datatypes.JSON, []model.Chapter, error) {
	modules := make([]model.CourseModule, 0, len(draft.Modules))
	chapters := make([]model.Chapter, 0, len(draft.Modules))

	for _, m := range draft.Modules {
		modules = append(modules, model.CourseModule{
			Title:       m.Title,
			Description: m.Description,
			Objectives:  m.Objectives,
			Videos:      m.Videos,
		})

		videosJSON, err := json.Marshal(m.Videos)
		if err != nil {
			return nil, nil, err
		}
		chapter := model.Chapter{
			Title:   m.Title,
			Content: m.Content,
			Videos:  datatypes.JSON(videosJSON),
		}
		if len(m.Quiz) > 0 {
			quizJSON, err := json.Marshal(m.Quiz)
			if err != nil {
				return nil, nil, err
			}
			chapter.Quiz = datatypes.JSON(quizJSON)
		}
		chapters = append(chapters, chapter)
	}

	modulesJSON, err := json.Marshal(modules)
	if err != nil {
		return nil, nil, err
	}
	return datatypes.JSON(modulesJSON), chapters, nil
}

func courseCacheKey(id uint) string {
	return fmt.Sprintf("course:%d", id)
}

// GetCourse 读多写少，前面加一层 redis。缓存故障退化为直连数据库
func (s *CourseService) GetCourse(ctx context.Context, id uint) (*model.Course, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, courseCacheKey(id)).Result()
		if err == nil {
			var course model.Course
			if json.Unmarshal([]byte(cached), &course) == nil {
				return &course, nil
			}
		}
	}

	course, err := s.courseRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(course); err == nil {
			s.cache.Set(ctx, courseCacheKey(id), data, courseCacheTTL)
		}
	}
	return course, nil
}

func (s *CourseService) ListCourses(userID uint) ([]model.Course, error) {
	return s.courseRepo.ListByUser(userID)
}

func (s *CourseService) DeleteCourse(ctx context.Context, id uint) error {
	err := s.courseRepo.Delete(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrCourseNotFound
		}
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

// RegenerateCourse 保留课程身份和参数，重跑生成管线整体替换模块和章节
func (s *CourseService) RegenerateCourse(ctx context.Context, id uint, topic string) (*model.Course, error) {
	course, err := s.courseRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	if strings.TrimSpace(topic) == "" {
		topic = course.Title
	}

	draft := s.courseGen.Generate(topic, course.Category, string(course.Difficulty), course.Duration, course.ModuleCount, course.IncludeQuiz)
	if course.IncludeVideo {
		s.courseGen.EnrichVideos(draft, topic, string(course.Difficulty))
	}

	modulesJSON, chapters, err := s.draftToCourseDocs(draft)
	if err != nil {
		return nil, err
	}

	course.Title = draft.CourseTitle
	course.ModuleCount = len(draft.Modules)
	course.Modules = modulesJSON

	if err := s.courseRepo.ReplaceChapters(course, chapters); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)

	return s.courseRepo.FindByID(id)
}

// RefreshThumbnail 重新生成封面，分类变更或历史数据缺封面时调用
func (s *CourseService) RefreshThumbnail(ctx context.Context, id uint) (string, error) {
	course, err := s.courseRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", util.ErrCourseNotFound
		}
		return "", err
	}

	thumbnail := s.thumbnail.Generate(course.Category)
	if err := s.courseRepo.UpdateThumbnail(id, thumbnail); err != nil {
		return "", err
	}
	s.invalidate(ctx, id)
	return thumbnail, nil
}

// ChapterQuizResult 批量出题的单章结果
type ChapterQuizResult struct {
	ChapterID uint   `json:"chapterId"`
	Title     string `json:"title"`
	Generated int    `json:"generated"`
	Error     string `json:"error,omitempty"`
}

// GenerateQuizzes 对课程的每个章节出题，单章失败不中断，逐章汇报成败
func (s *CourseService) GenerateQuizzes(ctx context.Context, courseID uint, perChapter int) ([]ChapterQuizResult, error) {
	course, err := s.courseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	if perChapter < 1 {
		perChapter = 3
	}

	results := make([]ChapterQuizResult, 0, len(course.Chapters))
	for i := range course.Chapters {
		chapter := &course.Chapters[i]
		result := ChapterQuizResult{ChapterID: chapter.ID, Title: chapter.Title}

		drafts, err := s.courseGen.GenerateQuiz(chapter.Title, chapter.Content, perChapter)
		if err != nil {
			result.Error = err.Error()
			results = append(results, result)
			continue
		}

		if err := s.storeChapterQuizzes(course.ID, i, chapter, drafts); err != nil {
			logger.Log.Warn("chapter quiz persist failed",
				zap.Uint("chapterId", chapter.ID),
				zap.Error(err))
			result.Error = err.Error()
		} else {
			result.Generated = len(drafts)
		}
		results = append(results, result)
	}

	s.invalidate(ctx, courseID)
	return results, nil
}

func (s *CourseService) storeChapterQuizzes(courseID uint, moduleIndex int, chapter *model.Chapter, drafts []QuizDraft) error {
	quizzes := make([]model.Quiz, 0, len(drafts))
	for _, d := range drafts {
		optionsJSON, err := json.Marshal(d.Options)
		if err != nil {
			return err
		}
		quizzes = append(quizzes, model.Quiz{
			CourseID:    courseID,
			ModuleIndex: moduleIndex,
			Question:    d.Question,
			Options:     datatypes.JSON(optionsJSON),
			Answer:      d.Answer,
			Explanation: d.Explanation,
			Type:        model.QuestionType(d.Type),
		})
	}
	if err := s.quizRepo.CreateBatch(quizzes); err != nil {
		return err
	}

	quizJSON, err := json.Marshal(drafts)
	if err != nil {
		return err
	}
	chapter.Quiz = datatypes.JSON(quizJSON)
	return s.courseRepo.UpdateChapterQuiz(chapter.ID, quizJSON)
}

func (s *CourseService) ListQuizzes(courseID uint) ([]model.Quiz, error) {
	return s.quizRepo.ListByCourse(courseID)
}

func (s *CourseService) invalidate(ctx context.Context, id uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, courseCacheKey(id)).Err(); err != nil {
		logger.Log.Warn("course cache invalidation failed", zap.Uint("courseId", id), zap.Error(err))
	}
}
