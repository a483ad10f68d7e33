package controller

import (
	"course_gen_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// HealthController 探活接口，报告依赖组件状态
type HealthController struct {
	DB    *gorm.DB
	Cache *redis.Client
}

func NewHealthController(db *gorm.DB, cache *redis.Client) *HealthController {
	return &HealthController{DB: db, Cache: cache}
}

// Check godoc
// @Summary 健康检查
// @Tags 系统
// @Produce json
// @Success 200 {object} util.Response "组件状态"
// @Router /api/health [get]
func (c *HealthController) Check(ctx *gin.Context) {
	status := gin.H{
		"status":   "ok",
		"database": "ok",
		"cache":    "ok",
	}

	if c.DB != nil {
		if sqlDB, err := c.DB.DB(); err != nil || sqlDB.Ping() != nil {
			status["database"] = "unavailable"
			status["status"] = "degraded"
		}
	}

	if c.Cache != nil {
		if err := c.Cache.Ping(ctx.Request.Context()).Err(); err != nil {
			status["cache"] = "unavailable"
			status["status"] = "degraded"
		}
	}

	util.Success(ctx, status)
}
