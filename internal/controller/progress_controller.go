package controller

import (
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

// swagger:model UpdateCompletionRequest
type UpdateCompletionRequest struct {
	Completed *bool `json:"completed" binding:"required"`
}

// UpdateCompletion godoc
// @Summary 标记课时完成状态
// @Description 按最近一次显式信号覆盖 completed 标记，观看时长不变
// @Tags 进度
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   lessonId path int true "课时ID"
// @Param   body body UpdateCompletionRequest true "完成标记"
// @Success 200 {object} util.Response{data=model.Progress} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/progress/{lessonId} [put]
func (c *ProgressController) UpdateCompletion(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	lessonID := util.MustParseUint(ctx.Param("lessonId"))

	var req UpdateCompletionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	progress, err := c.ProgressService.UpdateCompletion(claims.UserID, lessonID, *req.Completed)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, progress)
}

// GetUserProgress godoc
// @Summary 获取当前用户全部课时进度
// @Tags 进度
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Progress} "成功"
// @Router /api/progress [get]
func (c *ProgressController) GetUserProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	records, err := c.ProgressService.GetUserProgress(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, records)
}
