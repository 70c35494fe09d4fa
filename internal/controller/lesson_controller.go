package controller

import (
	"errors"
	"lms_backend/internal/model"
	"lms_backend/internal/service"
	"lms_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type LessonController struct {
	LessonService *service.LessonService
}

func NewLessonController(lessonService *service.LessonService) *LessonController {
	return &LessonController{LessonService: lessonService}
}

// bindLessonForm 解析 multipart 表单；file 可选，给了 file 就必须带合法 contentType
func bindLessonForm(ctx *gin.Context) (title, description string, order int, upload *service.ContentUpload, err error) {
	title = ctx.PostForm("title")
	description = ctx.PostForm("description")
	if title == "" {
		return "", "", 0, nil, errors.New("title is required")
	}

	if v := ctx.PostForm("order"); v != "" {
		order, err = strconv.Atoi(v)
		if err != nil {
			return "", "", 0, nil, errors.New("order must be an integer")
		}
	}

	file, ferr := ctx.FormFile("file")
	if ferr != nil {
		return title, description, order, nil, nil
	}

	contentType := model.ContentType(ctx.PostForm("contentType"))
	switch contentType {
	case model.ContentVideo, model.ContentPDF, model.ContentImage:
	default:
		return "", "", 0, nil, errors.New("contentType must be one of VIDEO, PDF, IMAGE")
	}

	return title, description, order, &service.ContentUpload{File: file, Type: contentType}, nil
}

// ListLessons godoc
// @Summary 学科下的课时列表
// @Tags 课时管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   disciplineId path int true "学科ID"
// @Success 200 {object} util.Response{data=[]model.Lesson} "成功"
// @Router /api/admin/disciplines/{disciplineId}/lessons [get]
func (c *LessonController) ListLessons(ctx *gin.Context) {
	disciplineID := util.MustParseUint(ctx.Param("disciplineId"))

	lessons, err := c.LessonService.ListByDiscipline(disciplineID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, lessons)
}

// CreateLesson godoc
// @Summary 创建课时
// @Description multipart 表单，file 与 contentType 可选；视频会在上传后探测时长
// @Tags 课时管理
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   disciplineId path int true "学科ID"
// @Param   title formData string true "标题"
// @Param   description formData string false "描述"
// @Param   order formData int false "排序号"
// @Param   contentType formData string false "VIDEO | PDF | IMAGE"
// @Param   file formData file false "媒体文件"
// @Success 201 {object} util.Response{data=model.Lesson} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/admin/disciplines/{disciplineId}/lessons [post]
func (c *LessonController) CreateLesson(ctx *gin.Context) {
	disciplineID := util.MustParseUint(ctx.Param("disciplineId"))

	title, description, order, upload, err := bindLessonForm(ctx)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson, err := c.LessonService.CreateLesson(ctx.Request.Context(), disciplineID, title, description, order, upload)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, lesson)
}

// UpdateLesson godoc
// @Summary 更新课时
// @Description 带新文件时替换旧内容并清理旧资源
// @Tags 课时管理
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   disciplineId path int true "学科ID"
// @Param   lessonId path int true "课时ID"
// @Param   title formData string true "标题"
// @Param   description formData string false "描述"
// @Param   order formData int false "排序号"
// @Param   contentType formData string false "VIDEO | PDF | IMAGE"
// @Param   file formData file false "媒体文件"
// @Success 200 {object} util.Response{data=model.Lesson} "成功"
// @Failure 404 {object} util.Response "课时不存在"
// @Router /api/admin/disciplines/{disciplineId}/lessons/{lessonId} [put]
func (c *LessonController) UpdateLesson(ctx *gin.Context) {
	disciplineID := util.MustParseUint(ctx.Param("disciplineId"))
	lessonID := util.MustParseUint(ctx.Param("lessonId"))

	title, description, order, upload, err := bindLessonForm(ctx)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson, err := c.LessonService.UpdateLesson(ctx.Request.Context(), disciplineID, lessonID, title, description, order, upload)
	if err != nil {
		if errors.Is(err, util.ErrLessonNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, lesson)
}

// DeleteLesson godoc
// @Summary 删除课时
// @Description 同时清理挂载的媒体资源
// @Tags 课时管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   disciplineId path int true "学科ID"
// @Param   lessonId path int true "课时ID"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "课时不存在"
// @Router /api/admin/disciplines/{disciplineId}/lessons/{lessonId} [delete]
func (c *LessonController) DeleteLesson(ctx *gin.Context) {
	disciplineID := util.MustParseUint(ctx.Param("disciplineId"))
	lessonID := util.MustParseUint(ctx.Param("lessonId"))

	if err := c.LessonService.DeleteLesson(ctx.Request.Context(), disciplineID, lessonID); err != nil {
		if errors.Is(err, util.ErrLessonNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, nil)
}

// RemoveContent godoc
// @Summary 移除课时内容
// @Description 解除课时与内容的关联并删除媒体文件
// @Tags 课时管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   lessonId path int true "课时ID"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "课时不存在"
// @Router /api/admin/lessons/{lessonId}/content [delete]
func (c *LessonController) RemoveContent(ctx *gin.Context) {
	lessonID := util.MustParseUint(ctx.Param("lessonId"))

	if err := c.LessonService.RemoveContent(ctx.Request.Context(), lessonID); err != nil {
		if errors.Is(err, util.ErrLessonNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, nil)
}
