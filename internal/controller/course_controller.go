package controller

import (
	"errors"
	"strconv"

	"course_gen_backend/internal/service"
	"course_gen_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// CourseController 课程生命周期：生成、查询、重生成、删除、出题
type CourseController struct {
	CourseService *service.CourseService
}

func NewCourseController(courseService *service.CourseService) *CourseController {
	return &CourseController{CourseService: courseService}
}

// GenerateCourseRequest 结构化生成请求
// swagger:model GenerateCourseRequest
type GenerateCourseRequest struct {
	Topic        string `json:"topic" binding:"required"`
	Category     string `json:"category" binding:"required"`
	Difficulty   string `json:"difficulty" binding:"required,oneof=beginner intermediate advanced"`
	Duration     int    `json:"duration" binding:"required,min=1,max=100"`
	ModuleCount  int    `json:"moduleCount" binding:"required,min=1,max=12"`
	IncludeQuiz  bool   `json:"includeQuiz"`
	IncludeVideo bool   `json:"includeVideo"`
}

// RegenerateRequest 重生成请求，topic 为空沿用原课程标题
// swagger:model RegenerateRequest
type RegenerateRequest struct {
	Topic string `json:"topic"`
}

// GenerateQuizzesRequest 批量出题请求
// swagger:model GenerateQuizzesRequest
type GenerateQuizzesRequest struct {
	QuestionsPerChapter int `json:"questionsPerChapter" binding:"min=0,max=10"`
}

func courseIDParam(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid course id")
		return 0, false
	}
	return uint(id), true
}

// Create godoc
// @Summary 建课落库
// @Description 客户端提供完整课程内容（通常来自结构化生成接口）。视频地址逐条校验，存在非法地址时整单拒绝并列出
// @Tags 课程
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.CreateCourseInput true "课程内容"
// @Success 201 {object} util.Response{data=model.Course} "创建成功"
// @Failure 400 {object} util.Response "参数错误或存在非法视频地址"
// @Failure 401 {object} util.Response "未授权"
// @Router /api/courses [post]
func (c *CourseController) Create(ctx *gin.Context) {
	var req service.CreateCourseInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	course, invalid, err := c.CourseService.CreateCourse(service.UserIdentity{
		ExternalID: user.ExternalID,
		Email:      user.Email,
		Name:       user.Name,
	}, req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	if len(invalid) > 0 {
		util.BadRequestWithItems(ctx, "invalid video urls", invalid)
		return
	}

	util.Created(ctx, course)
}

// GenerateStructured godoc
// @Summary 结构化生成课程草稿
// @Description 跑生成管线并返回规范化草稿，不落库。AI 不可用时返回本地模板课程
// @Tags 课程
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body GenerateCourseRequest true "生成参数"
// @Success 200 {object} util.Response{data=service.CourseDraft} "课程草稿"
// @Failure 400 {object} util.Response "参数错误"
// @Failure 401 {object} util.Response "未授权"
// @Router /api/courses/structured [post]
func (c *CourseController) GenerateStructured(ctx *gin.Context) {
	var req GenerateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	draft := c.CourseService.GenerateDraft(service.GenerateCourseInput{
		Topic:        req.Topic,
		Category:     req.Category,
		Difficulty:   req.Difficulty,
		Duration:     req.Duration,
		ModuleCount:  req.ModuleCount,
		IncludeQuiz:  req.IncludeQuiz,
		IncludeVideo: req.IncludeVideo,
	})

	util.Success(ctx, draft)
}

// Get godoc
// @Summary 课程详情
// @Tags 课程
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "课程ID"
// @Success 200 {object} util.Response{data=model.Course} "成功"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/courses/{id} [get]
func (c *CourseController) Get(ctx *gin.Context) {
	id, ok := courseIDParam(ctx)
	if !ok {
		return
	}

	course, err := c.CourseService.GetCourse(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, course)
}

// List godoc
// @Summary 当前用户的课程列表
// @Tags 课程
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Course} "成功"
// @Router /api/courses [get]
func (c *CourseController) List(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	courses, err := c.CourseService.ListCourses(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, courses)
}

// Delete godoc
// @Summary 删除课程及其章节和测验
// @Tags 课程
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "课程ID"
// @Success 200 {object} util.Response "删除成功"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/courses/{id} [delete]
func (c *CourseController) Delete(ctx *gin.Context) {
	id, ok := courseIDParam(ctx)
	if !ok {
		return
	}

	if err := c.CourseService.DeleteCourse(ctx.Request.Context(), id); err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"deleted": id})
}

// Regenerate godoc
// @Summary 重新生成课程内容
// @Description 保留课程身份和生成参数，整体替换模块与章节
// @Tags 课程
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "课程ID"
// @Param body body RegenerateRequest false "可选的新主题"
// @Success 200 {object} util.Response{data=model.Course} "成功"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/courses/{id}/regenerate [post]
func (c *CourseController) Regenerate(ctx *gin.Context) {
	id, ok := courseIDParam(ctx)
	if !ok {
		return
	}

	var req RegenerateRequest
	_ = ctx.ShouldBindJSON(&req)

	course, err := c.CourseService.RegenerateCourse(ctx.Request.Context(), id, req.Topic)
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, course)
}

// Thumbnail godoc
// @Summary 重新生成课程封面
// @Tags 课程
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "课程ID"
// @Success 200 {object} util.Response "封面 SVG"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/courses/{id}/thumbnail [post]
func (c *CourseController) Thumbnail(ctx *gin.Context) {
	id, ok := courseIDParam(ctx)
	if !ok {
		return
	}

	thumbnail, err := c.CourseService.RefreshThumbnail(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"thumbnail": thumbnail})
}

// GenerateQuizzes godoc
// @Summary 为课程各章节批量出题
// @Description 逐章调用出题链路并汇报每章结果，内容过短或解析失败的章节单独标注错误
// @Tags 课程
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "课程ID"
// @Param body body GenerateQuizzesRequest false "每章题数，默认 3"
// @Success 200 {object} util.Response{data=[]service.ChapterQuizResult} "逐章结果"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/courses/{id}/quizzes [post]
func (c *CourseController) GenerateQuizzes(ctx *gin.Context) {
	id, ok := courseIDParam(ctx)
	if !ok {
		return
	}

	var req GenerateQuizzesRequest
	_ = ctx.ShouldBindJSON(&req)

	results, err := c.CourseService.GenerateQuizzes(ctx.Request.Context(), id, req.QuestionsPerChapter)
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, results)
}

// ListQuizzes godoc
// @Summary 课程测验题列表
// @Tags 课程
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "课程ID"
// @Success 200 {object} util.Response{data=[]model.Quiz} "成功"
// @Router /api/courses/{id}/quizzes [get]
func (c *CourseController) ListQuizzes(ctx *gin.Context) {
	id, ok := courseIDParam(ctx)
	if !ok {
		return
	}

	quizzes, err := c.CourseService.ListQuizzes(id)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, quizzes)
}
