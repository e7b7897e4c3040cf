package handler

import (
	"testing"

	"onelink-platform/internal/model"
	"onelink-platform/internal/shortcode"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testBaseURL = "http://sho.rt"

// setupTest 为集成测试初始化一个干净的环境
// 内存数据库 + 不依赖 Redis + 假的认证中间件（固定 user_id=1）
func setupTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	// 1. 设置测试模式
	gin.SetMode(gin.TestMode)

	// 2. 初始化内存数据库
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("无法连接到内存数据库: %v", err)
	}

	// 3. 自动迁移
	if err := db.AutoMigrate(&model.User{}, &model.Project{}, &model.Click{}); err != nil {
		t.Fatalf("数据库迁移失败: %v", err)
	}

	// 4. 初始化各 Handler，测试中不依赖 Redis，传入 nil
	logger := zap.NewNop().Sugar()
	generator := shortcode.NewGenerator(shortcode.NewGormStore(db), testBaseURL, shortcode.DefaultCodeLength, logger)

	redirectHandler := NewRedirectHandler(db, nil)
	projectHandler := NewProjectHandler(db, nil, generator)
	analyticsHandler := NewAnalyticsHandler(db)

	// 5. 设置路由
	router := gin.New()
	router.GET("/:code", redirectHandler.RedirectToStore)

	api := router.Group("/api")
	api.Use(fakeAuth(1))
	{
		api.POST("/projects", projectHandler.CreateProject)
		api.GET("/projects", projectHandler.ListProjects)
		api.GET("/projects/:id", projectHandler.GetProject)
		api.PUT("/projects/:id", projectHandler.UpdateProject)
		api.DELETE("/projects/:id", projectHandler.DeleteProject)

		api.GET("/analytics/projects/:id/summary", analyticsHandler.ProjectSummary)
		api.GET("/analytics/projects/:id/clicks", analyticsHandler.ListClicks)
		api.GET("/analytics/dashboard", analyticsHandler.Dashboard)
	}

	// 6. 清理
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	return router, db
}

// fakeAuth 在测试里代替 JWT 中间件，直接注入用户信息
func fakeAuth(userID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("username", "tester")
		c.Set("role", "user")
		c.Next()
	}
}

// seedProject 直接往库里写一个项目
func seedProject(t *testing.T, db *gorm.DB, userID uint, code, fallbackURL string) model.Project {
	t.Helper()
	project := model.Project{
		UserID:      userID,
		AppName:     "Bait App",
		IOSURL:      "https://apps.apple.com/app/id123456789",
		AndroidURL:  "https://play.google.com/store/apps/details?id=com.ordenaris.bait",
		FallbackURL: fallbackURL,
		ShortCode:   code,
		IsActive:    true,
	}
	if err := db.Create(&project).Error; err != nil {
		t.Fatalf("写入测试项目失败: %v", err)
	}
	return project
}

// seedClick 直接往库里写一条点击记录
func seedClick(t *testing.T, db *gorm.DB, projectID uint, platform string) {
	t.Helper()
	click := model.Click{
		ProjectID: projectID,
		Platform:  platform,
		IPHash:    shortcode.HashIP("192.0.2.1"),
		Country:   "Unknown",
	}
	if err := db.Create(&click).Error; err != nil {
		t.Fatalf("写入测试点击失败: %v", err)
	}
}
