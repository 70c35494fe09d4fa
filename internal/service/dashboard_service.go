package service

import (
	"context"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
)

// DashboardCourse 学生端课程视图，附带按课程/学科两级的完成度
type DashboardCourse struct {
	ID                uint                  `json:"id"`
	Title             string                `json:"title"`
	Description       string                `json:"description"`
	CompletedTime     int                   `json:"completedTime"`
	CompletionPercent float64               `json:"completionPercent"`
	Disciplines       []DashboardDiscipline `json:"disciplines"`
	Quizzes           []model.Quiz          `json:"quizzes"`
}

type DashboardDiscipline struct {
	ID                uint              `json:"id"`
	Title             string            `json:"title"`
	Description       string            `json:"description"`
	CompletionPercent float64           `json:"completionPercent"`
	Lessons           []DashboardLesson `json:"lessons"`
}

type DashboardLesson struct {
	ID       uint            `json:"id"`
	Title    string          `json:"title"`
	Progress *model.Progress `json:"progress"`
}

type QuizResultView struct {
	ID        uint    `json:"id"`
	Score     float64 `json:"score"`
	TimeSpent int     `json:"timeSpent"`
	Quiz      struct {
		ID     uint   `json:"id"`
		Title  string `json:"title"`
		Course struct {
			Title string `json:"title"`
		} `json:"course"`
	} `json:"quiz"`
}

type Dashboard struct {
	Courses     []DashboardCourse `json:"courses"`
	QuizResults []QuizResultView  `json:"quizResults"`
}

type DashboardService struct {
	EnrollmentRepo *repository.EnrollmentRepository
	ProgressRepo   *repository.ProgressRepository
	QuizRepo       *repository.QuizRepository
	Cache          *DashboardCache
}

func NewDashboardService(
	enrollmentRepo *repository.EnrollmentRepository,
	progressRepo *repository.ProgressRepository,
	quizRepo *repository.QuizRepository,
	cache *DashboardCache,
) *DashboardService {
	return &DashboardService{
		EnrollmentRepo: enrollmentRepo,
		ProgressRepo:   progressRepo,
		QuizRepo:       quizRepo,
		Cache:          cache,
	}
}

// completionPercent 完成度 = 完成数/总数*100，无课时记 0
func completionPercent(completed, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(completed) / float64(total) * 100
}

// GetDashboard 组装用户的聚合视图：选课课程树 + 本人进度 + 本人成绩
func (s *DashboardService) GetDashboard(ctx context.Context, userID uint) (*Dashboard, error) {
	var cached Dashboard
	if s.Cache.Get(ctx, userID, &cached) {
		return &cached, nil
	}

	enrollments, err := s.EnrollmentRepo.FindByUser(userID)
	if err != nil {
		return nil, err
	}

	// 一次查出全部相关课时的进度，避免逐课时回表
	var lessonIDs []uint
	for _, enrollment := range enrollments {
		if enrollment.Course == nil {
			continue
		}
		for _, discipline := range enrollment.Course.Disciplines {
			for _, lesson := range discipline.Lessons {
				lessonIDs = append(lessonIDs, lesson.ID)
			}
		}
	}

	progresses, err := s.ProgressRepo.FindByUserAndLessons(userID, lessonIDs)
	if err != nil {
		return nil, err
	}
	progressByLesson := make(map[uint]*model.Progress, len(progresses))
	for i := range progresses {
		progressByLesson[progresses[i].LessonID] = &progresses[i]
	}

	dashboard := &Dashboard{
		Courses:     make([]DashboardCourse, 0, len(enrollments)),
		QuizResults: []QuizResultView{},
	}

	for _, enrollment := range enrollments {
		course := enrollment.Course
		if course == nil {
			continue
		}

		courseLessons, courseCompleted := 0, 0
		disciplines := make([]DashboardDiscipline, 0, len(course.Disciplines))
		for _, discipline := range course.Disciplines {
			lessons := make([]DashboardLesson, 0, len(discipline.Lessons))
			disciplineCompleted := 0
			for _, lesson := range discipline.Lessons {
				progress := progressByLesson[lesson.ID]
				if progress != nil && progress.Completed {
					disciplineCompleted++
				}
				lessons = append(lessons, DashboardLesson{
					ID:       lesson.ID,
					Title:    lesson.Title,
					Progress: progress,
				})
			}
			courseLessons += len(discipline.Lessons)
			courseCompleted += disciplineCompleted

			disciplines = append(disciplines, DashboardDiscipline{
				ID:                discipline.ID,
				Title:             discipline.Title,
				Description:       discipline.Description,
				CompletionPercent: completionPercent(disciplineCompleted, len(discipline.Lessons)),
				Lessons:           lessons,
			})
		}

		dashboard.Courses = append(dashboard.Courses, DashboardCourse{
			ID:                course.ID,
			Title:             course.Title,
			Description:       course.Description,
			CompletedTime:     enrollment.CompletedTime,
			CompletionPercent: completionPercent(courseCompleted, courseLessons),
			Disciplines:       disciplines,
			Quizzes:           course.Quizzes,
		})
	}

	results, err := s.QuizRepo.ResultsByUser(userID)
	if err != nil {
		return nil, err
	}
	for _, result := range results {
		view := QuizResultView{
			ID:        result.ID,
			Score:     result.Score,
			TimeSpent: result.TimeSpent,
		}
		if result.Quiz != nil {
			view.Quiz.ID = result.Quiz.ID
			view.Quiz.Title = result.Quiz.Title
			if result.Quiz.Course != nil {
				view.Quiz.Course.Title = result.Quiz.Course.Title
			}
		}
		dashboard.QuizResults = append(dashboard.QuizResults, view)
	}

	s.Cache.Set(ctx, userID, dashboard)
	return dashboard, nil
}
