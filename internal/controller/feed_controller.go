package controller

import (
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type FeedController struct {
	Hub *service.ProgressHub
}

func NewFeedController(hub *service.ProgressHub) *FeedController {
	return &FeedController{Hub: hub}
}

// ServeProgressFeed godoc
// @Summary 进度实时推送
// @Description 升级为 WebSocket，课时进度变化时向面板下发事件
// @Tags 面板
// @Security ApiKeyAuth
// @Success 101 "Switching Protocols"
// @Router /api/ws/progress [get]
func (c *FeedController) ServeProgressFeed(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	c.Hub.ServeWS(ctx.Writer, ctx.Request, claims.UserID)
}
