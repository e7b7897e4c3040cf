package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"onelink-platform/internal/model"
	"onelink-platform/internal/shortcode"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func doJSON(router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != nil {
		bodyBytes, _ := json.Marshal(body)
		reader = bytes.NewBuffer(bodyBytes)
	} else {
		reader = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateProject(t *testing.T) {
	router, db := setupTest(t)

	w := doJSON(router, http.MethodPost, "/api/projects", CreateProjectRequest{
		AppName:     "Bait App",
		IOSURL:      "https://apps.apple.com/app/id123456789",
		AndroidURL:  "https://play.google.com/store/apps/details?id=com.ordenaris.bait",
		FallbackURL: "https://www.ordenaris.com",
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp ProjectResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	// 短码长度固定，字符都来自既定字符集
	assert.Len(t, resp.ShortCode, shortcode.DefaultCodeLength)
	for _, char := range resp.ShortCode {
		assert.True(t, strings.ContainsRune(shortcode.Charset, char))
	}

	// 完整短链接 = 基础地址 + / + 短码
	assert.Equal(t, testBaseURL+"/"+resp.ShortCode, resp.ShortURL)
	assert.True(t, resp.IsActive)
	assert.Equal(t, int64(0), resp.TotalClicks)

	// 落库成功
	var stored model.Project
	assert.NoError(t, db.Where("short_code = ?", resp.ShortCode).First(&stored).Error)
	assert.Equal(t, uint(1), stored.UserID)
}

// scriptedGenerator 按给定序列返回短码，用来构造确定性的插入冲突
type scriptedGenerator struct {
	codes []string
	calls int
}

func (g *scriptedGenerator) UniqueCode(_ context.Context) (string, error) {
	if g.calls >= len(g.codes) {
		return "", shortcode.ErrAttemptsExhausted
	}
	code := g.codes[g.calls]
	g.calls++
	return code, nil
}

func (g *scriptedGenerator) ShortURL(code string) string {
	return testBaseURL + "/" + code
}

// newScriptedRouter 只挂创建路由，短码来源可控
func newScriptedRouter(db *gorm.DB, gen *scriptedGenerator) *gin.Engine {
	handler := NewProjectHandler(db, nil, gen)
	router := gin.New()
	router.POST("/api/projects", fakeAuth(1), handler.CreateProject)
	return router
}

// TestCreateProject_InsertConflictRetry 第一枚短码撞上唯一索引，换一枚之后创建成功
func TestCreateProject_InsertConflictRetry(t *testing.T) {
	_, db := setupTest(t)
	seedProject(t, db, 1, "dup111", "")

	gen := &scriptedGenerator{codes: []string{"dup111", "new222"}}
	router := newScriptedRouter(db, gen)

	w := doJSON(router, http.MethodPost, "/api/projects", CreateProjectRequest{
		AppName:    "Bait App",
		IOSURL:     "https://apps.apple.com/app/id123456789",
		AndroidURL: "https://play.google.com/store/apps/details?id=com.ordenaris.bait",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp ProjectResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "new222", resp.ShortCode)
	// 冲突消耗了一次尝试
	assert.Equal(t, 2, gen.calls)

	var count int64
	db.Model(&model.Project{}).Where("short_code = ?", "new222").Count(&count)
	assert.Equal(t, int64(1), count)
}

// TestCreateProject_InsertConflictExhausted 次数用尽仍然冲突时返回 500，库里不留半成品
func TestCreateProject_InsertConflictExhausted(t *testing.T) {
	_, db := setupTest(t)
	seedProject(t, db, 1, "dup999", "")

	codes := make([]string, shortcode.MaxAttempts)
	for i := range codes {
		codes[i] = "dup999"
	}
	gen := &scriptedGenerator{codes: codes}
	router := newScriptedRouter(db, gen)

	w := doJSON(router, http.MethodPost, "/api/projects", CreateProjectRequest{
		AppName:    "Bait App",
		IOSURL:     "https://apps.apple.com/app/id123456789",
		AndroidURL: "https://play.google.com/store/apps/details?id=com.ordenaris.bait",
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, shortcode.MaxAttempts, gen.calls)

	// 只剩种子那一条
	var count int64
	db.Model(&model.Project{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCreateProject_Validation(t *testing.T) {
	router, _ := setupTest(t)

	tests := []struct {
		name string
		req  CreateProjectRequest
	}{
		{"缺少 app_name", CreateProjectRequest{
			IOSURL:     "https://apps.apple.com/app/id1",
			AndroidURL: "https://play.google.com/store/apps/details?id=a",
		}},
		{"缺少 android_url", CreateProjectRequest{
			AppName: "App",
			IOSURL:  "https://apps.apple.com/app/id1",
		}},
		{"ios_url 不是合法 URL", CreateProjectRequest{
			AppName:    "App",
			IOSURL:     "not-a-url",
			AndroidURL: "https://play.google.com/store/apps/details?id=a",
		}},
		{"fallback_url 不是合法 URL", CreateProjectRequest{
			AppName:     "App",
			IOSURL:      "https://apps.apple.com/app/id1",
			AndroidURL:  "https://play.google.com/store/apps/details?id=a",
			FallbackURL: "nope",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(router, http.MethodPost, "/api/projects", tt.req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestListProjects(t *testing.T) {
	router, db := setupTest(t)

	first := seedProject(t, db, 1, "aaa111", "")
	seedProject(t, db, 1, "bbb222", "")
	// 别的用户的项目不应该出现在列表里
	seedProject(t, db, 2, "ccc333", "")

	seedClick(t, db, first.ID, "ios")
	seedClick(t, db, first.ID, "android")

	w := doJSON(router, http.MethodGet, "/api/projects", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp []ProjectResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp, 2)

	for _, item := range resp {
		assert.Equal(t, testBaseURL+"/"+item.ShortCode, item.ShortURL)
		if item.ID == first.ID {
			assert.Equal(t, int64(2), item.TotalClicks)
		}
	}
}

func TestListProjects_Pagination(t *testing.T) {
	router, db := setupTest(t)
	seedProject(t, db, 1, "pag111", "")
	seedProject(t, db, 1, "pag222", "")
	seedProject(t, db, 1, "pag333", "")

	w := doJSON(router, http.MethodGet, "/api/projects?skip=1&limit=1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp []ProjectResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp, 1)
}

func TestGetProject(t *testing.T) {
	router, db := setupTest(t)
	project := seedProject(t, db, 1, "get111", "")
	other := seedProject(t, db, 2, "get222", "")

	w := doJSON(router, http.MethodGet, fmt.Sprintf("/api/projects/%d", project.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp ProjectResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, project.ID, resp.ID)
	assert.Equal(t, "Bait App", resp.AppName)

	// 其他用户的项目按不存在处理
	w = doJSON(router, http.MethodGet, fmt.Sprintf("/api/projects/%d", other.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// TestUpdateProject_Partial 只更新传了的字段，其余保持原样
func TestUpdateProject_Partial(t *testing.T) {
	router, db := setupTest(t)
	project := seedProject(t, db, 1, "upd111", "https://www.ordenaris.com")

	newName := "Renamed App"
	w := doJSON(router, http.MethodPut, fmt.Sprintf("/api/projects/%d", project.ID), UpdateProjectRequest{
		AppName: &newName,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var stored model.Project
	assert.NoError(t, db.First(&stored, project.ID).Error)
	assert.Equal(t, "Renamed App", stored.AppName)
	// 没传的字段不动
	assert.Equal(t, project.IOSURL, stored.IOSURL)
	assert.Equal(t, project.AndroidURL, stored.AndroidURL)
	assert.Equal(t, project.FallbackURL, stored.FallbackURL)
}

func TestUpdateProject_InvalidURL(t *testing.T) {
	router, db := setupTest(t)
	project := seedProject(t, db, 1, "upd222", "")

	badURL := "not-a-url"
	w := doJSON(router, http.MethodPut, fmt.Sprintf("/api/projects/%d", project.ID), UpdateProjectRequest{
		IOSURL: &badURL,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// TestDeleteProject 删除项目时级联删除点击记录
func TestDeleteProject(t *testing.T) {
	router, db := setupTest(t)
	project := seedProject(t, db, 1, "del111", "")
	seedClick(t, db, project.ID, "ios")
	seedClick(t, db, project.ID, "android")

	w := doJSON(router, http.MethodDelete, fmt.Sprintf("/api/projects/%d", project.ID), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	var projectCount, clickCount int64
	db.Model(&model.Project{}).Where("id = ?", project.ID).Count(&projectCount)
	db.Model(&model.Click{}).Where("project_id = ?", project.ID).Count(&clickCount)
	assert.Equal(t, int64(0), projectCount)
	assert.Equal(t, int64(0), clickCount)
}
