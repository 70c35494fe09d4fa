package controller

import (
	"errors"
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type EnrollmentController struct {
	EnrollmentService *service.EnrollmentService
}

func NewEnrollmentController(enrollmentService *service.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{EnrollmentService: enrollmentService}
}

// swagger:model EnrollRequest
type EnrollRequest struct {
	CourseID uint `json:"courseId" binding:"required"`
}

// Enroll godoc
// @Summary 选课
// @Tags 选课
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body EnrollRequest true "课程ID"
// @Success 201 {object} util.Response{data=model.Enrollment} "创建成功"
// @Failure 404 {object} util.Response "课程不存在"
// @Failure 409 {object} util.Response "已选该课程"
// @Router /api/enrollments [post]
func (c *EnrollmentController) Enroll(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req EnrollRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	enrollment, err := c.EnrollmentService.Enroll(claims.UserID, req.CourseID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrCourseNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrAlreadyEnrolled):
			util.Error(ctx, 409, "已选该课程")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, enrollment)
}

// Unenroll godoc
// @Summary 退课
// @Tags 选课
// @Produce  json
// @Security ApiKeyAuth
// @Param   courseId path int true "课程ID"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "未选该课程"
// @Router /api/enrollments/{courseId} [delete]
func (c *EnrollmentController) Unenroll(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	courseID := util.MustParseUint(ctx.Param("courseId"))

	if err := c.EnrollmentService.Unenroll(claims.UserID, courseID); err != nil {
		if errors.Is(err, util.ErrNotEnrolled) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, nil)
}

// ListStudents godoc
// @Summary 学员列表
// @Description 全部学员及其选课记录
// @Tags 学员管理
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.User} "成功"
// @Router /api/admin/students [get]
func (c *EnrollmentController) ListStudents(ctx *gin.Context) {
	students, err := c.EnrollmentService.ListStudents()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, students)
}

// DeleteStudent godoc
// @Summary 删除学员
// @Description 仅限学员角色账号，级联清理其选课数据
// @Tags 学员管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "学员ID"
// @Success 200 {object} util.Response "成功"
// @Failure 403 {object} util.Response "目标不是学员账号"
// @Failure 404 {object} util.Response "学员不存在"
// @Router /api/admin/students/{id} [delete]
func (c *EnrollmentController) DeleteStudent(ctx *gin.Context) {
	studentID := util.MustParseUint(ctx.Param("id"))

	if err := c.EnrollmentService.DeleteStudent(studentID); err != nil {
		switch {
		case errors.Is(err, util.ErrUserNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, nil)
}
