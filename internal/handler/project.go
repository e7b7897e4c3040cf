package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"onelink-platform/internal/model"
	"onelink-platform/internal/shortcode"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const projectCacheTTL = 24 * time.Hour

// CodeGenerator 提供唯一短码和完整短链接，*shortcode.Generator 是生产实现
type CodeGenerator interface {
	UniqueCode(ctx context.Context) (string, error)
	ShortURL(code string) string
}

// ProjectHandler 项目增删改查处理器
type ProjectHandler struct {
	db        *gorm.DB
	redis     *redis.Client
	generator CodeGenerator
}

// NewProjectHandler 创建处理器实例
func NewProjectHandler(db *gorm.DB, redisClient *redis.Client, generator CodeGenerator) *ProjectHandler {
	return &ProjectHandler{db: db, redis: redisClient, generator: generator}
}

// CreateProjectRequest 创建项目的请求体
type CreateProjectRequest struct {
	AppName     string `json:"app_name" binding:"required,min=1,max=100" example:"Bait App"`
	IOSURL      string `json:"ios_url" binding:"required,url" example:"https://apps.apple.com/app/id123456789"`
	AndroidURL  string `json:"android_url" binding:"required,url" example:"https://play.google.com/store/apps/details?id=com.ordenaris.bait"`
	FallbackURL string `json:"fallback_url" binding:"omitempty,url" example:"https://www.ordenaris.com"`
}

// UpdateProjectRequest 更新项目的请求体
// 每个字段都是可选的，只更新传了的字段；用指针逐个判断，不走反射
type UpdateProjectRequest struct {
	AppName     *string `json:"app_name" binding:"omitempty,min=1,max=100"`
	IOSURL      *string `json:"ios_url" binding:"omitempty,url"`
	AndroidURL  *string `json:"android_url" binding:"omitempty,url"`
	FallbackURL *string `json:"fallback_url" binding:"omitempty,url"`
}

// ProjectResponse 项目响应体
// 显式按字段拷贝，附带两个计算字段：完整短链接和点击总数
type ProjectResponse struct {
	ID          uint      `json:"id"`
	AppName     string    `json:"app_name"`
	IOSURL      string    `json:"ios_url"`
	AndroidURL  string    `json:"android_url"`
	FallbackURL string    `json:"fallback_url"`
	ShortCode   string    `json:"short_code"`
	ShortURL    string    `json:"short_url"`
	IsActive    bool      `json:"is_active"`
	TotalClicks int64     `json:"total_clicks"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// newProjectResponse 组装响应
func newProjectResponse(p *model.Project, shortURL string, totalClicks int64) ProjectResponse {
	return ProjectResponse{
		ID:          p.ID,
		AppName:     p.AppName,
		IOSURL:      p.IOSURL,
		AndroidURL:  p.AndroidURL,
		FallbackURL: p.FallbackURL,
		ShortCode:   p.ShortCode,
		ShortURL:    shortURL,
		IsActive:    p.IsActive,
		TotalClicks: totalClicks,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// countClicks 统计某个项目的点击总数
func (h *ProjectHandler) countClicks(projectID uint) int64 {
	var count int64
	h.db.Model(&model.Click{}).Where("project_id = ?", projectID).Count(&count)
	return count
}

// findOwnedProject 按 ID 查找属于当前用户的项目
func (h *ProjectHandler) findOwnedProject(c *gin.Context) (*model.Project, bool) {
	projectID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的项目 ID"})
		return nil, false
	}

	var project model.Project
	err = h.db.Where("id = ? AND user_id = ?", projectID, c.GetUint("user_id")).First(&project).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "项目不存在"})
		return nil, false
	}
	return &project, true
}

// invalidateCache 使某个短码的缓存失效
func (h *ProjectHandler) invalidateCache(code string) {
	if h.redis == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	h.redis.Del(ctx, "project:"+code)
}

// CreateProject godoc
// @Summary 创建项目
// @Description 为一个 App 创建短链接项目，自动分配唯一短码
// @Tags Project
// @Security ApiKeyAuth
// @Accept  json
// @Produce  json
// @Param   project  body   CreateProjectRequest  true  "项目信息"
// @Success 201 {object} ProjectResponse "成功响应"
// @Failure 400 {object} gin.H "请求无效"
// @Failure 500 {object} gin.H "服务器内部错误"
// @Router /api/projects [post]
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求数据: " + err.Error()})
		return
	}

	userID := c.GetUint("user_id")

	// 预查询避开明显冲突；并发下两个请求仍可能拿到同一个短码，
	// 数据库唯一索引是最终保证，插入冲突时重新生成再试，同样受次数上限约束
	var project model.Project
	created := false
	for attempt := 0; attempt < shortcode.MaxAttempts && !created; attempt++ {
		code, err := h.generator.UniqueCode(c.Request.Context())
		if err != nil {
			zap.S().Errorf("生成唯一短码失败: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "生成短码失败，请稍后重试"})
			return
		}

		project = model.Project{
			UserID:      userID,
			AppName:     req.AppName,
			IOSURL:      req.IOSURL,
			AndroidURL:  req.AndroidURL,
			FallbackURL: req.FallbackURL,
			ShortCode:   code,
			IsActive:    true,
		}

		err = h.db.Create(&project).Error
		switch {
		case err == nil:
			created = true
		case errors.Is(err, gorm.ErrDuplicatedKey):
			zap.S().Warnf("短码 %s 插入时冲突，重新生成", code)
		default:
			zap.S().Errorf("创建项目失败: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "创建项目失败"})
			return
		}
	}
	if !created {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "生成短码失败，请稍后重试"})
		return
	}

	c.JSON(http.StatusCreated, newProjectResponse(&project, h.generator.ShortURL(project.ShortCode), 0))
}

// ListProjects godoc
// @Summary 项目列表
// @Description 列出当前用户的所有项目，支持 skip/limit 分页
// @Tags Project
// @Security ApiKeyAuth
// @Produce  json
// @Param   skip   query   int  false  "跳过条数"
// @Param   limit  query   int  false  "返回条数上限"
// @Success 200 {array} ProjectResponse "成功响应"
// @Router /api/projects [get]
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if limit <= 0 || limit > 100 {
		limit = 100
	}

	var projects []model.Project
	err := h.db.Where("user_id = ?", c.GetUint("user_id")).
		Order("created_at DESC").Offset(skip).Limit(limit).Find(&projects).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取项目列表失败"})
		return
	}

	result := make([]ProjectResponse, 0, len(projects))
	for i := range projects {
		p := &projects[i]
		result = append(result, newProjectResponse(p, h.generator.ShortURL(p.ShortCode), h.countClicks(p.ID)))
	}
	c.JSON(http.StatusOK, result)
}

// GetProject godoc
// @Summary 项目详情
// @Tags Project
// @Security ApiKeyAuth
// @Produce  json
// @Param   id  path   int  true  "项目 ID"
// @Success 200 {object} ProjectResponse "成功响应"
// @Failure 404 {object} gin.H "项目不存在"
// @Router /api/projects/{id} [get]
func (h *ProjectHandler) GetProject(c *gin.Context) {
	project, ok := h.findOwnedProject(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, newProjectResponse(project, h.generator.ShortURL(project.ShortCode), h.countClicks(project.ID)))
}

// UpdateProject godoc
// @Summary 更新项目
// @Description 所有字段可选，只更新传了的字段
// @Tags Project
// @Security ApiKeyAuth
// @Accept  json
// @Produce  json
// @Param   id       path   int                   true  "项目 ID"
// @Param   project  body   UpdateProjectRequest  true  "要更新的字段"
// @Success 200 {object} ProjectResponse "成功响应"
// @Failure 404 {object} gin.H "项目不存在"
// @Router /api/projects/{id} [put]
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	project, ok := h.findOwnedProject(c)
	if !ok {
		return
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求数据: " + err.Error()})
		return
	}

	// 逐字段判断，有值才赋值
	if req.AppName != nil {
		project.AppName = *req.AppName
	}
	if req.IOSURL != nil {
		project.IOSURL = *req.IOSURL
	}
	if req.AndroidURL != nil {
		project.AndroidURL = *req.AndroidURL
	}
	if req.FallbackURL != nil {
		project.FallbackURL = *req.FallbackURL
	}

	if err := h.db.Save(project).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "更新项目失败"})
		return
	}

	h.invalidateCache(project.ShortCode)
	c.JSON(http.StatusOK, newProjectResponse(project, h.generator.ShortURL(project.ShortCode), h.countClicks(project.ID)))
}

// DeleteProject godoc
// @Summary 删除项目
// @Description 同时级联删除该项目的所有点击记录
// @Tags Project
// @Security ApiKeyAuth
// @Param   id  path   int  true  "项目 ID"
// @Success 204 "删除成功"
// @Failure 404 {object} gin.H "项目不存在"
// @Router /api/projects/{id} [delete]
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	project, ok := h.findOwnedProject(c)
	if !ok {
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", project.ID).Delete(&model.Click{}).Error; err != nil {
			return err
		}
		return tx.Delete(project).Error
	})
	if err != nil {
		zap.S().Errorf("删除项目失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "删除失败"})
		return
	}

	h.invalidateCache(project.ShortCode)
	c.Status(http.StatusNoContent)
}

// ToggleProject godoc
// @Summary 启用/停用项目
// @Tags Project
// @Security ApiKeyAuth
// @Produce  json
// @Param   id  path   int  true  "项目 ID"
// @Success 200 {object} gin.H "成功响应"
// @Failure 404 {object} gin.H "项目不存在"
// @Router /api/projects/{id}/toggle [put]
func (h *ProjectHandler) ToggleProject(c *gin.Context) {
	var project model.Project
	if err := h.db.First(&project, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "项目不存在"})
		return
	}

	newStatus := !project.IsActive
	h.db.Model(&project).Update("is_active", newStatus)
	h.invalidateCache(project.ShortCode)
	c.JSON(http.StatusOK, gin.H{"message": "状态更新成功", "is_active": newStatus})
}
