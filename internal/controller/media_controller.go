package controller

import (
	"errors"
	"fmt"
	"io"
	"lms_backend/internal/service"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"
	"lms_backend/pkg/monitoring"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type MediaController struct {
	Storage *service.StorageService
}

func NewMediaController(storage *service.StorageService) *MediaController {
	return &MediaController{Storage: storage}
}

var mediaCategories = map[string]bool{
	util.UploadDirVideos: true,
	util.UploadDirPDFs:   true,
	util.UploadDirImages: true,
}

// parseRange 解析单段 Range 头，end 缺省取 size-1。
// 返回 ok=false 表示没有可用的 Range，调用方走整档下载。
func parseRange(header string, size int64) (start, end int64, ok bool) {
	if !strings.HasPrefix(header, "bytes=") {
		return 0, 0, false
	}

	// 多段请求只取第一段
	spec := strings.TrimPrefix(header, "bytes=")
	if i := strings.Index(spec, ","); i >= 0 {
		spec = spec[:i]
	}

	parts := strings.SplitN(spec, "-", 2)
	if len(parts) != 2 || parts[0] == "" {
		return 0, 0, false
	}

	start, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil || start < 0 {
		return 0, 0, false
	}

	end = size - 1
	if tail := strings.TrimSpace(parts[1]); tail != "" {
		end, err = strconv.ParseInt(tail, 10, 64)
		if err != nil {
			return 0, 0, false
		}
	}
	if end > size-1 {
		end = size - 1
	}

	return start, end, true
}

// StreamMedia godoc
// @Summary 媒体流式下载
// @Description 支持单段 Range 请求的断点续传，视频拖进度条依赖此接口
// @Tags 媒体
// @Produce  octet-stream
// @Security ApiKeyAuth
// @Param   category path string true "videos | pdfs | images"
// @Param   filename path string true "文件名"
// @Success 200 "完整文件"
// @Success 206 "部分内容"
// @Failure 404 {object} util.Response "文件不存在"
// @Failure 416 {object} util.Response "区间不可满足"
// @Router /uploads/{category}/{filename} [get]
func (c *MediaController) StreamMedia(ctx *gin.Context) {
	category := ctx.Param("category")
	filename := ctx.Param("filename")

	if !mediaCategories[category] || strings.Contains(filename, "..") {
		util.NotFound(ctx)
		return
	}

	objectName := category + "/" + filename
	file, size, err := c.Storage.Open(ctx.Request.Context(), objectName)
	if err != nil {
		if errors.Is(err, service.ErrAssetNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	defer file.Close()

	contentType := util.MediaContentType(filename)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	ctx.Header("Accept-Ranges", "bytes")
	ctx.Header("Content-Type", contentType)

	start, end, ranged := parseRange(ctx.GetHeader("Range"), size)
	if !ranged {
		ctx.Header("Content-Length", strconv.FormatInt(size, 10))
		ctx.Status(http.StatusOK)
		written, err := io.Copy(ctx.Writer, file)
		if err != nil {
			logger.Log.Debug("media stream aborted", zap.String("file", objectName), zap.Error(err))
		}
		monitoring.MediaBytesServed.WithLabelValues(category).Add(float64(written))
		return
	}

	if start >= size || start > end {
		ctx.Header("Content-Range", fmt.Sprintf("bytes */%d", size))
		util.Error(ctx, http.StatusRequestedRangeNotSatisfiable, "range not satisfiable")
		return
	}

	if _, err := file.Seek(start, io.SeekStart); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	chunkSize := end - start + 1
	ctx.Header("Content-Range", fmt.Sprintf("bytes %d-%d/%d", start, end, size))
	ctx.Header("Content-Length", strconv.FormatInt(chunkSize, 10))
	ctx.Status(http.StatusPartialContent)

	written, err := io.CopyN(ctx.Writer, file, chunkSize)
	if err != nil {
		// 播放器拖动进度条时经常提前断开，不算错误
		logger.Log.Debug("media stream aborted", zap.String("file", objectName), zap.Error(err))
	}
	monitoring.MediaBytesServed.WithLabelValues(category).Add(float64(written))
}
