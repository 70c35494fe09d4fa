package controller

import (
	"errors"
	"lms_backend/internal/model"
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

// swagger:model SubmitQuizRequest
type SubmitQuizRequest struct {
	Answers   []int `json:"answers" binding:"required"`
	TimeSpent int   `json:"timeSpent"`
}

// quizView 学员侧题目视图，不暴露正确答案
type quizView struct {
	ID          uint           `json:"id"`
	Code        string         `json:"code"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	CourseID    uint           `json:"courseId"`
	Questions   []questionView `json:"questions"`
}

type questionView struct {
	ID      uint     `json:"id"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

func newQuizView(quiz *model.Quiz) quizView {
	view := quizView{
		ID:          quiz.ID,
		Code:        quiz.Code,
		Title:       quiz.Title,
		Description: quiz.Description,
		CourseID:    quiz.CourseID,
		Questions:   make([]questionView, 0, len(quiz.Questions)),
	}
	for _, q := range quiz.Questions {
		view.Questions = append(view.Questions, questionView{
			ID:      q.ID,
			Text:    q.Text,
			Options: q.Options,
		})
	}
	return view
}

// GetQuiz godoc
// @Summary 获取测验题目
// @Description 学员作答用的题目视图，不含正确答案
// @Tags 测验
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "测验ID"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 404 {object} util.Response "测验不存在"
// @Router /api/quizzes/{id} [get]
func (c *QuizController) GetQuiz(ctx *gin.Context) {
	quizID := util.MustParseUint(ctx.Param("id"))

	quiz, err := c.QuizService.GetQuiz(quizID)
	if err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, newQuizView(quiz))
}

// Submit godoc
// @Summary 提交测验（保留每次作答）
// @Description 评分后每次提交都落库，保留完整作答历史
// @Tags 测验
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "测验ID"
// @Param   body body SubmitQuizRequest true "答案下标序列"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 404 {object} util.Response "测验不存在"
// @Router /api/quizzes/{id}/submit [post]
func (c *QuizController) Submit(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	quizID := util.MustParseUint(ctx.Param("id"))

	var req SubmitQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, persisted, err := c.QuizService.Submit(claims.UserID, quizID, req.Answers, req.TimeSpent, service.AppendOnlyPolicy{})
	if err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{
		"score":     result.Score,
		"persisted": persisted,
		"result":    result,
	})
}

// SubmitInCourse godoc
// @Summary 提交课程内测验（保留最佳成绩）
// @Description 校验测验归属课程后评分，仅在严格高于历史最佳时落库
// @Tags 测验
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   courseId path int true "课程ID"
// @Param   quizId path int true "测验ID"
// @Param   body body SubmitQuizRequest true "答案下标序列"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 404 {object} util.Response "测验不存在或不属于该课程"
// @Router /api/courses/{courseId}/quizzes/{quizId}/submit [post]
func (c *QuizController) SubmitInCourse(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	courseID := util.MustParseUint(ctx.Param("courseId"))
	quizID := util.MustParseUint(ctx.Param("quizId"))

	var req SubmitQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, persisted, err := c.QuizService.SubmitInCourse(claims.UserID, courseID, quizID, req.Answers, req.TimeSpent, service.BestAttemptPolicy{})
	if err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{
		"score":     result.Score,
		"persisted": persisted,
		"result":    result,
	})
}

// MyResults godoc
// @Summary 获取当前用户的测验成绩
// @Tags 测验
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.QuizResult} "成功"
// @Router /api/quiz-results [get]
func (c *QuizController) MyResults(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	results, err := c.QuizService.ResultsForUser(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, results)
}

// swagger:model QuizRequest
type QuizRequest struct {
	Code        string                  `json:"code" binding:"required"`
	Title       string                  `json:"title" binding:"required"`
	Description string                  `json:"description"`
	Questions   []service.QuestionInput `json:"questions"`
}

// ListByCourse godoc
// @Summary 课程下的测验列表
// @Tags 测验管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   courseId path int true "课程ID"
// @Success 200 {object} util.Response{data=[]model.Quiz} "成功"
// @Router /api/admin/courses/{courseId}/quizzes [get]
func (c *QuizController) ListByCourse(ctx *gin.Context) {
	courseID := util.MustParseUint(ctx.Param("courseId"))

	quizzes, err := c.QuizService.ListByCourse(courseID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, quizzes)
}

// CreateQuiz godoc
// @Summary 创建测验
// @Tags 测验管理
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   courseId path int true "课程ID"
// @Param   body body QuizRequest true "测验内容"
// @Success 201 {object} util.Response{data=model.Quiz} "创建成功"
// @Failure 409 {object} util.Response "测验编码已存在"
// @Router /api/admin/courses/{courseId}/quizzes [post]
func (c *QuizController) CreateQuiz(ctx *gin.Context) {
	courseID := util.MustParseUint(ctx.Param("courseId"))

	var req QuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.QuizService.CreateQuiz(courseID, req.Code, req.Title, req.Description, req.Questions)
	if err != nil {
		if errors.Is(err, util.ErrQuizCodeTaken) {
			util.Error(ctx, 409, "测验编码已存在")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, quiz)
}

// UpdateQuiz godoc
// @Summary 更新测验
// @Description 整体替换测验信息与题目
// @Tags 测验管理
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   courseId path int true "课程ID"
// @Param   quizId path int true "测验ID"
// @Param   body body QuizRequest true "测验内容"
// @Success 200 {object} util.Response{data=model.Quiz} "成功"
// @Failure 404 {object} util.Response "测验不存在"
// @Router /api/admin/courses/{courseId}/quizzes/{quizId} [put]
func (c *QuizController) UpdateQuiz(ctx *gin.Context) {
	courseID := util.MustParseUint(ctx.Param("courseId"))
	quizID := util.MustParseUint(ctx.Param("quizId"))

	var req QuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.QuizService.UpdateQuiz(courseID, quizID, req.Code, req.Title, req.Description, req.Questions)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrQuizNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrQuizCodeTaken):
			util.Error(ctx, 409, "测验编码已存在")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, quiz)
}

// DeleteQuiz godoc
// @Summary 删除测验
// @Tags 测验管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   courseId path int true "课程ID"
// @Param   quizId path int true "测验ID"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "测验不存在"
// @Router /api/admin/courses/{courseId}/quizzes/{quizId} [delete]
func (c *QuizController) DeleteQuiz(ctx *gin.Context) {
	courseID := util.MustParseUint(ctx.Param("courseId"))
	quizID := util.MustParseUint(ctx.Param("quizId"))

	if err := c.QuizService.DeleteQuiz(courseID, quizID); err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, nil)
}

// QuizResults godoc
// @Summary 测验的全部成绩
// @Tags 测验管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   courseId path int true "课程ID"
// @Param   quizId path int true "测验ID"
// @Success 200 {object} util.Response{data=[]model.QuizResult} "成功"
// @Router /api/admin/courses/{courseId}/quizzes/{quizId}/results [get]
func (c *QuizController) QuizResults(ctx *gin.Context) {
	courseID := util.MustParseUint(ctx.Param("courseId"))
	quizID := util.MustParseUint(ctx.Param("quizId"))

	results, err := c.QuizService.ResultsForQuiz(courseID, quizID)
	if err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, results)
}
