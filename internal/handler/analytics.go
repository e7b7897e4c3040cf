package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"onelink-platform/internal/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AnalyticsHandler 统计相关处理器
type AnalyticsHandler struct {
	db *gorm.DB
}

// NewAnalyticsHandler 创建处理器实例
func NewAnalyticsHandler(db *gorm.DB) *AnalyticsHandler {
	return &AnalyticsHandler{db: db}
}

// CountryClicks 按国家聚合的点击数
type CountryClicks struct {
	Country string `json:"country"`
	Clicks  int64  `json:"clicks" gorm:"column:clicks"`
}

// DailyClicks 按天聚合的点击数
type DailyClicks struct {
	Date   string `json:"date" gorm:"column:date"`
	Clicks int64  `json:"clicks" gorm:"column:clicks"`
}

// ProjectSummaryResponse 单个项目的统计摘要
type ProjectSummaryResponse struct {
	ProjectID      uint            `json:"project_id"`
	AppName        string          `json:"app_name"`
	TotalClicks    int64           `json:"total_clicks"`
	IOSClicks      int64           `json:"ios_clicks"`
	AndroidClicks  int64           `json:"android_clicks"`
	OtherClicks    int64           `json:"other_clicks"`
	ConversionRate string          `json:"conversion_rate"`
	TopCountries   []CountryClicks `json:"top_countries"`
	ClicksByDay    []DailyClicks   `json:"clicks_by_day"`
}

// findOwnedProject 校验项目归属
func (h *AnalyticsHandler) findOwnedProject(c *gin.Context) (*model.Project, bool) {
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

func (h *AnalyticsHandler) countByPlatform(projectID uint, platform string) int64 {
	var count int64
	h.db.Model(&model.Click{}).
		Where("project_id = ? AND platform = ?", projectID, platform).Count(&count)
	return count
}

// ProjectSummary godoc
// @Summary 项目统计摘要
// @Description 点击总数、分平台点击数、移动端转化率、Top 国家、近 7 天每日点击
// @Tags Analytics
// @Security ApiKeyAuth
// @Produce  json
// @Param   id  path   int  true  "项目 ID"
// @Success 200 {object} ProjectSummaryResponse "成功响应"
// @Failure 404 {object} gin.H "项目不存在"
// @Router /api/analytics/projects/{id}/summary [get]
func (h *AnalyticsHandler) ProjectSummary(c *gin.Context) {
	project, ok := h.findOwnedProject(c)
	if !ok {
		return
	}

	var totalClicks int64
	h.db.Model(&model.Click{}).Where("project_id = ?", project.ID).Count(&totalClicks)

	iosClicks := h.countByPlatform(project.ID, "ios")
	androidClicks := h.countByPlatform(project.ID, "android")
	otherClicks := h.countByPlatform(project.ID, "other")

	// 移动端点击占比
	conversionRate := "0%"
	if totalClicks > 0 {
		mobileClicks := iosClicks + androidClicks
		conversionRate = fmt.Sprintf("%.1f%%", float64(mobileClicks)/float64(totalClicks)*100)
	}

	topCountries := []CountryClicks{}
	h.db.Model(&model.Click{}).
		Select("country, COUNT(id) AS clicks").
		Where("project_id = ?", project.ID).
		Group("country").Order("clicks DESC").Limit(5).
		Scan(&topCountries)

	// 近 7 天每日点击
	sevenDaysAgo := time.Now().AddDate(0, 0, -7)
	clicksByDay := []DailyClicks{}
	h.db.Model(&model.Click{}).
		Select("DATE(created_at) AS date, COUNT(id) AS clicks").
		Where("project_id = ? AND created_at >= ?", project.ID, sevenDaysAgo).
		Group("DATE(created_at)").Order("date").
		Scan(&clicksByDay)

	c.JSON(http.StatusOK, ProjectSummaryResponse{
		ProjectID:      project.ID,
		AppName:        project.AppName,
		TotalClicks:    totalClicks,
		IOSClicks:      iosClicks,
		AndroidClicks:  androidClicks,
		OtherClicks:    otherClicks,
		ConversionRate: conversionRate,
		TopCountries:   topCountries,
		ClicksByDay:    clicksByDay,
	})
}

// ListClicks godoc
// @Summary 项目点击明细
// @Description 分页返回单个项目的点击记录，按时间倒序
// @Tags Analytics
// @Security ApiKeyAuth
// @Produce  json
// @Param   id     path    int  true   "项目 ID"
// @Param   skip   query   int  false  "跳过条数"
// @Param   limit  query   int  false  "返回条数上限"
// @Success 200 {array} model.Click "成功响应"
// @Failure 404 {object} gin.H "项目不存在"
// @Router /api/analytics/projects/{id}/clicks [get]
func (h *AnalyticsHandler) ListClicks(c *gin.Context) {
	project, ok := h.findOwnedProject(c)
	if !ok {
		return
	}

	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if limit <= 0 || limit > 100 {
		limit = 100
	}

	var clicks []model.Click
	err := h.db.Where("project_id = ?", project.ID).
		Order("created_at DESC").Offset(skip).Limit(limit).Find(&clicks).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取点击记录失败"})
		return
	}
	c.JSON(http.StatusOK, clicks)
}

// TopProject 点击量最高的项目
type TopProject struct {
	ProjectID uint   `json:"project_id"`
	AppName   string `json:"app_name"`
	Clicks    int64  `json:"clicks"`
}

// DashboardResponse 用户所有项目的汇总
type DashboardResponse struct {
	TotalProjects      int64            `json:"total_projects"`
	TotalClicks        int64            `json:"total_clicks"`
	PlatformBreakdown  map[string]int64 `json:"platform_breakdown"`
	MostPopularProject *TopProject      `json:"most_popular_project"`
}

// Dashboard godoc
// @Summary 用户仪表盘
// @Description 当前用户所有项目的汇总：项目数、总点击、分平台点击、最热项目
// @Tags Analytics
// @Security ApiKeyAuth
// @Produce  json
// @Success 200 {object} DashboardResponse "成功响应"
// @Router /api/analytics/dashboard [get]
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	userID := c.GetUint("user_id")

	var totalProjects int64
	h.db.Model(&model.Project{}).Where("user_id = ?", userID).Count(&totalProjects)

	// Session 让这个查询可以安全复用
	ownedClicks := h.db.Model(&model.Click{}).
		Joins("JOIN projects ON projects.id = clicks.project_id").
		Where("projects.user_id = ?", userID).
		Session(&gorm.Session{})

	var totalClicks int64
	ownedClicks.Count(&totalClicks)

	var platformRows []struct {
		Platform string `gorm:"column:platform"`
		Clicks   int64  `gorm:"column:clicks"`
	}
	ownedClicks.
		Select("clicks.platform, COUNT(clicks.id) AS clicks").
		Group("clicks.platform").
		Scan(&platformRows)

	breakdown := make(map[string]int64, len(platformRows))
	for _, row := range platformRows {
		breakdown[row.Platform] = row.Clicks
	}

	var top struct {
		ProjectID uint   `gorm:"column:project_id"`
		AppName   string `gorm:"column:app_name"`
		Clicks    int64  `gorm:"column:clicks"`
	}
	var mostPopular *TopProject
	err := ownedClicks.
		Select("clicks.project_id, projects.app_name, COUNT(clicks.id) AS clicks").
		Group("clicks.project_id, projects.app_name").
		Order("clicks DESC").Limit(1).
		Scan(&top).Error
	if err == nil && top.ProjectID != 0 {
		mostPopular = &TopProject{ProjectID: top.ProjectID, AppName: top.AppName, Clicks: top.Clicks}
	}

	c.JSON(http.StatusOK, DashboardResponse{
		TotalProjects:      totalProjects,
		TotalClicks:        totalClicks,
		PlatformBreakdown:  breakdown,
		MostPopularProject: mostPopular,
	})
}
