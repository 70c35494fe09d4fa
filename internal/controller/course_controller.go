package controller

import (
	"errors"
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService *service.CourseService
}

func NewCourseController(courseService *service.CourseService) *CourseController {
	return &CourseController{CourseService: courseService}
}

// swagger:model CourseRequest
type CourseRequest struct {
	Code        string `json:"code" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

// ListPublicCourses godoc
// @Summary 公开课程目录
// @Description 注册页选课用的课程概要列表，无需登录
// @Tags 课程
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.Course} "成功"
// @Router /api/courses [get]
func (c *CourseController) ListPublicCourses(ctx *gin.Context) {
	courses, err := c.CourseService.ListPublicCourses()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, courses)
}

// GetCourse godoc
// @Summary 课程详情
// @Description 课程及其学科、课时、测验的完整树
// @Tags 课程
// @Produce  json
// @Security ApiKeyAuth
// @Param   courseId path int true "课程ID"
// @Success 200 {object} util.Response{data=model.Course} "成功"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/courses/{courseId} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	courseID := util.MustParseUint(ctx.Param("courseId"))

	course, err := c.CourseService.GetCourse(courseID)
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, course)
}

// ListCourses godoc
// @Summary 全部课程
// @Tags 课程管理
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Course} "成功"
// @Router /api/admin/courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	courses, err := c.CourseService.ListCourses()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, courses)
}

// CreateCourse godoc
// @Summary 创建课程
// @Tags 课程管理
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body CourseRequest true "课程信息"
// @Success 201 {object} util.Response{data=model.Course} "创建成功"
// @Failure 409 {object} util.Response "课程编码已存在"
// @Router /api/admin/courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	var req CourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.CreateCourse(req.Code, req.Title, req.Description)
	if err != nil {
		if errors.Is(err, util.ErrCourseCodeTaken) {
			util.Error(ctx, 409, "课程编码已存在")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, course)
}

// UpdateCourse godoc
// @Summary 更新课程
// @Tags 课程管理
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "课程ID"
// @Param   body body CourseRequest true "课程信息"
// @Success 200 {object} util.Response{data=model.Course} "成功"
// @Failure 404 {object} util.Response "课程不存在"
// @Failure 409 {object} util.Response "课程编码已存在"
// @Router /api/admin/courses/{courseId} [put]
func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	courseID := util.MustParseUint(ctx.Param("courseId"))

	var req CourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.UpdateCourse(courseID, req.Code, req.Title, req.Description)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrCourseNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrCourseCodeTaken):
			util.Error(ctx, 409, "课程编码已存在")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, course)
}

// DeleteCourse godoc
// @Summary 删除课程
// @Tags 课程管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/admin/courses/{courseId} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	courseID := util.MustParseUint(ctx.Param("courseId"))

	if err := c.CourseService.DeleteCourse(courseID); err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, nil)
}

// swagger:model DisciplineRequest
type DisciplineRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

// CreateDiscipline godoc
// @Summary 创建学科
// @Description 新学科追加到课程末尾，排序号自动分配
// @Tags 课程管理
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   courseId path int true "课程ID"
// @Param   body body DisciplineRequest true "学科信息"
// @Success 201 {object} util.Response{data=model.Discipline} "创建成功"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/admin/courses/{courseId}/disciplines [post]
func (c *CourseController) CreateDiscipline(ctx *gin.Context) {
	courseID := util.MustParseUint(ctx.Param("courseId"))

	var req DisciplineRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	discipline, err := c.CourseService.CreateDiscipline(courseID, req.Title, req.Description)
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, discipline)
}

// UpdateDiscipline godoc
// @Summary 更新学科
// @Tags 课程管理
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   disciplineId path int true "学科ID"
// @Param   body body DisciplineRequest true "学科信息"
// @Success 200 {object} util.Response{data=model.Discipline} "成功"
// @Failure 404 {object} util.Response "学科不存在"
// @Router /api/admin/disciplines/{disciplineId} [put]
func (c *CourseController) UpdateDiscipline(ctx *gin.Context) {
	disciplineID := util.MustParseUint(ctx.Param("disciplineId"))

	var req DisciplineRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	discipline, err := c.CourseService.UpdateDiscipline(disciplineID, req.Title, req.Description)
	if err != nil {
		if errors.Is(err, util.ErrDisciplineNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, discipline)
}

// DeleteDiscipline godoc
// @Summary 删除学科
// @Tags 课程管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   disciplineId path int true "学科ID"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "学科不存在"
// @Router /api/admin/disciplines/{disciplineId} [delete]
func (c *CourseController) DeleteDiscipline(ctx *gin.Context) {
	disciplineID := util.MustParseUint(ctx.Param("disciplineId"))

	if err := c.CourseService.DeleteDiscipline(disciplineID); err != nil {
		if errors.Is(err, util.ErrDisciplineNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, nil)
}
