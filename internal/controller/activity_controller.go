package controller

import (
	"errors"
	"lms_backend/internal/model"
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ActivityController struct {
	ActivityService *service.ActivityService
}

func NewActivityController(activityService *service.ActivityService) *ActivityController {
	return &ActivityController{ActivityService: activityService}
}

// swagger:model StartActivityRequest
type StartActivityRequest struct {
	Type       string `json:"type" binding:"required,oneof=LESSON QUIZ"`
	ResourceID uint   `json:"resourceId" binding:"required"`
}

// StartActivity godoc
// @Summary 开始活动会话
// @Description 为当前用户打开一条活动记录并返回其ID
// @Tags 活动
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body StartActivityRequest true "活动类型与资源ID"
// @Success 201 {object} util.Response{data=model.Activity} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/activities/start [post]
func (c *ActivityController) StartActivity(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req StartActivityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	activity, err := c.ActivityService.StartActivity(claims.UserID, model.ActivityType(req.Type), req.ResourceID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, activity)
}

// swagger:model EndActivityRequest
type EndActivityRequest struct {
	CompletionStatus string `json:"completionStatus"`
}

// EndActivity godoc
// @Summary 结束活动会话
// @Description 关闭活动记录，耗时并入课时进度
// @Tags 活动
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "活动ID"
// @Param   body body EndActivityRequest false "完成状态"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 403 {object} util.Response "无权操作该活动"
// @Failure 404 {object} util.Response "活动不存在或已关闭"
// @Router /api/activities/{id}/end [post]
func (c *ActivityController) EndActivity(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	activityID := util.MustParseUint(ctx.Param("id"))

	var req EndActivityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		util.BadRequest(ctx, err.Error())
		return
	}

	activity, err := c.ActivityService.EndActivity(claims.UserID, activityID, req.CompletionStatus)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrActivityNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{
		"activity":  activity,
		"timeSpent": activity.TimeSpent(),
	})
}

// TotalTime godoc
// @Summary 获取学习总时长
// @Description 当前用户所有已关闭活动的累计秒数
// @Tags 活动
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=object} "成功"
// @Router /api/activities/time [get]
func (c *ActivityController) TotalTime(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	total, err := c.ActivityService.TotalTime(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"totalSeconds": total})
}
