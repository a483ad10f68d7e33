package controller

import (
	"errors"
	"strconv"

	"course_gen_backend/internal/service"
	"course_gen_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// ProgressController 测验成绩记录与查询
type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

// QuizResultRequest 提交测验成绩
// swagger:model QuizResultRequest
type QuizResultRequest struct {
	ChapterID      uint `json:"chapterId" binding:"required"`
	TotalQuestions int  `json:"totalQuestions" binding:"required,min=1"`
	CorrectAnswers int  `json:"correctAnswers" binding:"min=0"`
}

// Record godoc
// @Summary 提交章节测验成绩
// @Description 重复提交覆盖分数并累加重做次数，分数按对错比例由服务端计算
// @Tags 学习进度
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body QuizResultRequest true "成绩"
// @Success 200 {object} util.Response{data=model.UserProgress} "成功"
// @Failure 404 {object} util.Response "章节不存在"
// @Router /api/quiz-progress [post]
func (c *ProgressController) Record(ctx *gin.Context) {
	var req QuizResultRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if req.CorrectAnswers > req.TotalQuestions {
		util.BadRequest(ctx, "correctAnswers cannot exceed totalQuestions")
		return
	}

	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	progress, err := c.ProgressService.RecordQuizResult(user.UserID, req.ChapterID, req.TotalQuestions, req.CorrectAnswers)
	if err != nil {
		if errors.Is(err, util.ErrChapterNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, progress)
}

// Get godoc
// @Summary 查询章节测验进度
// @Tags 学习进度
// @Produce json
// @Security ApiKeyAuth
// @Param chapterId query int true "章节ID"
// @Success 200 {object} util.Response "进度或显式的无进度标记"
// @Router /api/quiz-progress [get]
func (c *ProgressController) Get(ctx *gin.Context) {
	chapterID, err := strconv.ParseUint(ctx.Query("chapterId"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid chapterId")
		return
	}

	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	progress, err := c.ProgressService.GetProgress(user.UserID, uint(chapterID))
	if err != nil {
		// 没有记录不算错误，返回显式的无进度标记
		if errors.Is(err, util.ErrProgressNotFound) {
			util.Success(ctx, gin.H{"found": false})
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"found": true, "progress": progress})
}
