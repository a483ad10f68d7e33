package controller

import (
	"strings"

	"course_gen_backend/internal/service"
	"course_gen_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// VideoController 视频搜索与可播性校验
type VideoController struct {
	VideoSearchService *service.VideoSearchService
}

func NewVideoController(videoSearchService *service.VideoSearchService) *VideoController {
	return &VideoController{VideoSearchService: videoSearchService}
}

// Search godoc
// @Summary 按关键词搜视频
// @Description 结果走 7 天磁盘缓存，查不到和上游故障都返回空结果
// @Tags 视频
// @Produce json
// @Security ApiKeyAuth
// @Param q query string true "搜索词"
// @Success 200 {object} util.Response "videoId 与播放地址，可能为空"
// @Failure 400 {object} util.Response "缺少搜索词"
// @Router /api/video-search [get]
func (c *VideoController) Search(ctx *gin.Context) {
	query := strings.TrimSpace(ctx.Query("q"))
	if query == "" {
		util.BadRequest(ctx, "query parameter q is required")
		return
	}

	videoID := c.VideoSearchService.Lookup(query)
	if videoID == "" {
		util.Success(ctx, gin.H{"found": false})
		return
	}

	util.Success(ctx, gin.H{
		"found":   true,
		"videoId": videoID,
		"url":     util.CanonicalWatchURL(videoID),
	})
}

// Validate godoc
// @Summary 校验视频可播性
// @Description 接受 11 位视频 ID 或任意 YouTube 链接形式
// @Tags 视频
// @Produce json
// @Security ApiKeyAuth
// @Param id query string false "视频 ID"
// @Param url query string false "视频链接"
// @Success 200 {object} util.Response{data=service.VideoVerdict} "判定结果"
// @Failure 400 {object} util.Response "参数缺失或无法解析"
// @Failure 502 {object} util.Response "上游接口不可用"
// @Router /api/video-validate [get]
func (c *VideoController) Validate(ctx *gin.Context) {
	raw := ctx.Query("id")
	if raw == "" {
		raw = ctx.Query("url")
	}
	if raw == "" {
		util.BadRequest(ctx, "either id or url is required")
		return
	}

	videoID := util.ExtractYouTubeVideoID(raw)
	if videoID == "" {
		// 裸 ID 不会被链接正则命中，单独放行
		if len(raw) == 11 && !strings.ContainsAny(raw, "/?&=.") {
			videoID = raw
		} else {
			util.BadRequest(ctx, "could not extract a video id")
			return
		}
	}

	verdict, err := c.VideoSearchService.ValidateVideo(videoID)
	if err != nil {
		util.BadGateway(ctx, "video lookup failed")
		return
	}

	util.Success(ctx, verdict)
}
