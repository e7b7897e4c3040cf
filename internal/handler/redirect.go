package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"onelink-platform/internal/device"
	"onelink-platform/internal/model"
	"onelink-platform/internal/shortcode"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RedirectHandler 短码重定向处理器：识别设备平台，记点击，跳转到对应商店
type RedirectHandler struct {
	db    *gorm.DB
	redis *redis.Client
}

// NewRedirectHandler 创建处理器实例
func NewRedirectHandler(db *gorm.DB, redisClient *redis.Client) *RedirectHandler {
	return &RedirectHandler{db: db, redis: redisClient}
}

// IndexPage 控制台首页
func (h *RedirectHandler) IndexPage(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", nil)
}

// HealthCheck 健康检查
func (h *RedirectHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now()})
}

// RedirectToStore godoc
// @Summary 短链接重定向
// @Description 根据 User-Agent 识别平台，307 跳转到对应商店链接
// @Tags Redirect
// @Param   code  path   string  true  "短码"
// @Success 307 "重定向到目标商店"
// @Failure 404 {object} gin.H "短码不存在"
// @Router /{code} [get]
func (h *RedirectHandler) RedirectToStore(c *gin.Context) {
	code := c.Param("code")

	project, err := h.lookupProject(c.Request.Context(), code)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "链接不存在或已禁用"})
		return
	}

	// 一次请求只解析一次 UA，选路和埋点用同一份结果，保证二者不会不一致
	info := device.Describe(c.Request.UserAgent())

	h.recordClick(project, info, c.ClientIP())

	// 307 保持请求方法不变
	c.Redirect(http.StatusTemporaryRedirect, resolveDestination(project, info.Platform))
}

// resolveDestination 三选一的路由决策
// ios -> iOS 商店；android -> Play 商店；其它 -> 兜底地址，没配兜底就回落到 Android
func resolveDestination(project *model.Project, platform device.Platform) string {
	switch platform {
	case device.PlatformIOS:
		return project.IOSURL
	case device.PlatformAndroid:
		return project.AndroidURL
	default:
		if project.FallbackURL != "" {
			return project.FallbackURL
		}
		return project.AndroidURL
	}
}

// lookupProject 先查缓存再查库，只返回启用中的项目
func (h *RedirectHandler) lookupProject(ctx context.Context, code string) (*model.Project, error) {
	cacheKey := "project:" + code

	if h.redis != nil {
		cacheCtx, cancel := context.WithTimeout(ctx, 1*time.Second)
		defer cancel()
		if val, err := h.redis.Get(cacheCtx, cacheKey).Result(); err == nil {
			var cached model.Project
			if json.Unmarshal([]byte(val), &cached) == nil && cached.IsActive {
				return &cached, nil
			}
		}
	}

	var project model.Project
	err := h.db.WithContext(ctx).
		Where("short_code = ? AND is_active = ?", code, true).First(&project).Error
	if err != nil {
		return nil, err
	}

	if h.redis != nil {
		cacheCtx, cancel := context.WithTimeout(ctx, 1*time.Second)
		defer cancel()
		if projectBytes, err := json.Marshal(project); err == nil {
			h.redis.Set(cacheCtx, cacheKey, projectBytes, projectCacheTTL)
		}
	}
	return &project, nil
}

// recordClick 写入一条点击记录
// 只存 IP 哈希不存原始 IP；写失败只记日志，不影响跳转
func (h *RedirectHandler) recordClick(project *model.Project, info device.Info, clientIP string) {
	click := model.Click{
		ProjectID:      project.ID,
		Platform:       string(info.Platform),
		DeviceFamily:   info.DeviceFamily,
		OSFamily:       info.OSFamily,
		OSVersion:      info.OSVersion,
		Browser:        info.Browser,
		BrowserVersion: info.BrowserVersion,
		IPHash:         shortcode.HashIP(clientIP),
		Country:        device.Unknown, // TODO: 接入 GeoIP 后替换
	}

	if err := h.db.Create(&click).Error; err != nil {
		zap.S().Errorf("记录点击失败 (project_id=%d): %v", project.ID, err)
	}
}
