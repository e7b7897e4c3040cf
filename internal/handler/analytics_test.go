package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProjectSummary(t *testing.T) {
	router, db := setupTest(t)
	project := seedProject(t, db, 1, "sum111", "")

	seedClick(t, db, project.ID, "ios")
	seedClick(t, db, project.ID, "ios")
	seedClick(t, db, project.ID, "android")
	seedClick(t, db, project.ID, "other")

	w := doJSON(router, http.MethodGet, fmt.Sprintf("/api/analytics/projects/%d/summary", project.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp ProjectSummaryResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, project.ID, resp.ProjectID)
	assert.Equal(t, int64(4), resp.TotalClicks)
	assert.Equal(t, int64(2), resp.IOSClicks)
	assert.Equal(t, int64(1), resp.AndroidClicks)
	assert.Equal(t, int64(1), resp.OtherClicks)
	// 移动端 3/4
	assert.Equal(t, "75.0%", resp.ConversionRate)

	// 点击都落在今天，按天聚合应该只有一组
	assert.Len(t, resp.ClicksByDay, 1)
	assert.Equal(t, int64(4), resp.ClicksByDay[0].Clicks)

	// GeoIP 未接入，国家都是 Unknown
	assert.Len(t, resp.TopCountries, 1)
	assert.Equal(t, "Unknown", resp.TopCountries[0].Country)
	assert.Equal(t, int64(4), resp.TopCountries[0].Clicks)
}

func TestProjectSummary_Empty(t *testing.T) {
	router, db := setupTest(t)
	project := seedProject(t, db, 1, "sum222", "")

	w := doJSON(router, http.MethodGet, fmt.Sprintf("/api/analytics/projects/%d/summary", project.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp ProjectSummaryResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(0), resp.TotalClicks)
	assert.Equal(t, "0%", resp.ConversionRate)
}

func TestProjectSummary_NotOwned(t *testing.T) {
	router, db := setupTest(t)
	other := seedProject(t, db, 2, "sum333", "")

	w := doJSON(router, http.MethodGet, fmt.Sprintf("/api/analytics/projects/%d/summary", other.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListClicks(t *testing.T) {
	router, db := setupTest(t)
	project := seedProject(t, db, 1, "lst111", "")
	for i := 0; i < 5; i++ {
		seedClick(t, db, project.ID, "ios")
	}

	w := doJSON(router, http.MethodGet, fmt.Sprintf("/api/analytics/projects/%d/clicks?limit=3", project.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp []map[string]any
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp, 3)
}

func TestDashboard(t *testing.T) {
	router, db := setupTest(t)

	popular := seedProject(t, db, 1, "dsh111", "")
	quiet := seedProject(t, db, 1, "dsh222", "")
	// 别的用户的数据不计入
	foreign := seedProject(t, db, 2, "dsh333", "")

	seedClick(t, db, popular.ID, "ios")
	seedClick(t, db, popular.ID, "ios")
	seedClick(t, db, popular.ID, "android")
	seedClick(t, db, quiet.ID, "other")
	seedClick(t, db, foreign.ID, "ios")

	w := doJSON(router, http.MethodGet, "/api/analytics/dashboard", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp DashboardResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, int64(2), resp.TotalProjects)
	assert.Equal(t, int64(4), resp.TotalClicks)
	assert.Equal(t, int64(2), resp.PlatformBreakdown["ios"])
	assert.Equal(t, int64(1), resp.PlatformBreakdown["android"])
	assert.Equal(t, int64(1), resp.PlatformBreakdown["other"])

	if assert.NotNil(t, resp.MostPopularProject) {
		assert.Equal(t, popular.ID, resp.MostPopularProject.ProjectID)
		assert.Equal(t, int64(3), resp.MostPopularProject.Clicks)
	}
}

func TestDashboard_Empty(t *testing.T) {
	router, _ := setupTest(t)

	w := doJSON(router, http.MethodGet, "/api/analytics/dashboard", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp DashboardResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(0), resp.TotalProjects)
	assert.Equal(t, int64(0), resp.TotalClicks)
	assert.Nil(t, resp.MostPopularProject)
}
