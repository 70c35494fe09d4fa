package service

import (
	"context"
	"encoding/json"
	"fmt"
	"lms_backend/pkg/logger"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const dashboardCacheTTL = time.Minute

// DashboardCache 聚合视图的读穿缓存。
// rdb 为 nil 时所有方法退化为 no-op（测试环境不起 Redis）。
type DashboardCache struct {
	Redis *redis.Client
}

func NewDashboardCache(rdb *redis.Client) *DashboardCache {
	return &DashboardCache{Redis: rdb}
}

func (c *DashboardCache) key(userID uint) string {
	return fmt.Sprintf("dashboard:%d", userID)
}

func (c *DashboardCache) Get(ctx context.Context, userID uint, dest interface{}) bool {
	if c == nil || c.Redis == nil {
		return false
	}
	data, err := c.Redis.Get(ctx, c.key(userID)).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false
	}
	return true
}

func (c *DashboardCache) Set(ctx context.Context, userID uint, value interface{}) {
	if c == nil || c.Redis == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.Redis.Set(ctx, c.key(userID), data, dashboardCacheTTL).Err(); err != nil {
		logger.Log.Warn("dashboard cache set failed", zap.Error(err))
	}
}

// Invalidate 进度/成绩写路径调用，失败只记日志不影响主流程
func (c *DashboardCache) Invalidate(ctx context.Context, userID uint) {
	if c == nil || c.Redis == nil {
		return
	}
	if err := c.Redis.Del(ctx, c.key(userID)).Err(); err != nil {
		logger.Log.Warn("dashboard cache invalidate failed", zap.Error(err))
	}
}
