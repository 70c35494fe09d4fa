package service

import (
	"context"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LessonService 课时及其媒体内容的生命周期。
// 一个课时同一时刻至多一份 Content：替换时旧的物理文件同步删除。
type LessonService struct {
	LessonRepo *repository.LessonRepository
	Storage    *StorageService
}

func NewLessonService(lessonRepo *repository.LessonRepository, storage *StorageService) *LessonService {
	return &LessonService{LessonRepo: lessonRepo, Storage: storage}
}

// ContentUpload 解析后的上传载荷，video/pdf/image 三选一
type ContentUpload struct {
	File *multipart.FileHeader
	Type model.ContentType
}

func uploadDir(contentType model.ContentType) string {
	switch contentType {
	case model.ContentVideo:
		return util.UploadDirVideos
	case model.ContentPDF:
		return util.UploadDirPDFs
	default:
		return util.UploadDirImages
	}
}

func (s *LessonService) ListByDiscipline(disciplineID uint) ([]model.Lesson, error) {
	return s.LessonRepo.FindByDiscipline(disciplineID)
}

func (s *LessonService) storeUpload(ctx context.Context, upload *ContentUpload) (*model.Content, error) {
	src, err := upload.File.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	filename := uuid.New().String() + strings.ToLower(filepath.Ext(upload.File.Filename))
	objectName := uploadDir(upload.Type) + "/" + filename
	contentType := upload.File.Header.Get("Content-Type")

	url, err := s.Storage.Upload(ctx, objectName, src, upload.File.Size, contentType)
	if err != nil {
		return nil, err
	}

	content := &model.Content{
		Type:     upload.Type,
		URL:      url,
		Filename: filename,
		MimeType: contentType,
		Size:     upload.File.Size,
	}

	// 视频上传后用 ffprobe 补时长，拿不到就留 0，不阻塞创建
	if upload.Type == model.ContentVideo {
		if local, ok := s.Storage.Provider.(*LocalStorageProvider); ok {
			if info, err := util.GetVideoInfo(local.LocalPathOf(objectName)); err == nil {
				content.Duration = info.Duration
			} else {
				logger.Log.Warn("video probe failed", zap.String("file", filename), zap.Error(err))
			}
		}
	}

	return content, nil
}

// deleteAsset 尽力删除物理文件，失败只记日志（记录已经不可达）
func (s *LessonService) deleteAsset(ctx context.Context, content *model.Content) {
	objectName := uploadDir(content.Type) + "/" + content.Filename
	if err := s.Storage.Delete(ctx, objectName); err != nil {
		logger.Log.Warn("asset delete failed", zap.String("file", content.Filename), zap.Error(err))
	}
}

func (s *LessonService) CreateLesson(ctx context.Context, disciplineID uint, title, description string, order int, upload *ContentUpload) (*model.Lesson, error) {
	lesson := &model.Lesson{
		Title:        title,
		Description:  description,
		Order:        order,
		DisciplineID: disciplineID,
	}

	if upload != nil {
		content, err := s.storeUpload(ctx, upload)
		if err != nil {
			return nil, err
		}
		if err := s.LessonRepo.CreateContent(content); err != nil {
			return nil, err
		}
		lesson.ContentID = &content.ID
		lesson.Content = content
	}

	if err := s.LessonRepo.Create(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

// UpdateLesson 替换内容时更新 Content 行并删除旧物理文件
func (s *LessonService) UpdateLesson(ctx context.Context, disciplineID, lessonID uint, title, description string, order int, upload *ContentUpload) (*model.Lesson, error) {
	lesson, err := s.LessonRepo.FindByIDInDiscipline(lessonID, disciplineID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}

	if upload != nil {
		newContent, err := s.storeUpload(ctx, upload)
		if err != nil {
			return nil, err
		}

		if lesson.Content != nil {
			old := *lesson.Content
			newContent.BaseModel = lesson.Content.BaseModel
			if err := s.LessonRepo.UpdateContent(newContent); err != nil {
				return nil, err
			}
			s.deleteAsset(ctx, &old)
		} else {
			if err := s.LessonRepo.CreateContent(newContent); err != nil {
				return nil, err
			}
			lesson.ContentID = &newContent.ID
		}
		lesson.Content = newContent
	}

	lesson.Title = title
	lesson.Description = description
	lesson.Order = order
	if err := s.LessonRepo.Update(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *LessonService) DeleteLesson(ctx context.Context, disciplineID, lessonID uint) error {
	lesson, err := s.LessonRepo.FindByIDInDiscipline(lessonID, disciplineID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return util.ErrLessonNotFound
		}
		return err
	}

	if lesson.Content != nil {
		if err := s.LessonRepo.DeleteContent(lesson.Content.ID); err != nil {
			return err
		}
		s.deleteAsset(ctx, lesson.Content)
	}

	return s.LessonRepo.Delete(lessonID)
}

// RemoveContent 仅移除课时的内容绑定与文件，保留课时本身
func (s *LessonService) RemoveContent(ctx context.Context, lessonID uint) error {
	lesson, err := s.LessonRepo.FindByID(lessonID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return util.ErrLessonNotFound
		}
		return err
	}
	if lesson.Content == nil {
		return nil
	}

	if err := s.LessonRepo.ClearContent(lessonID); err != nil {
		return err
	}
	if err := s.LessonRepo.DeleteContent(lesson.Content.ID); err != nil {
		return err
	}
	s.deleteAsset(ctx, lesson.Content)
	return nil
}
