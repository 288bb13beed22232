package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapterHTTP "github.com/ritmoapp/ritmo-stats-engine/internal/adapters/handler/http"
	"github.com/ritmoapp/ritmo-stats-engine/internal/adapters/handler/http/middleware"
	"github.com/ritmoapp/ritmo-stats-engine/internal/adapters/repository"
	"github.com/ritmoapp/ritmo-stats-engine/internal/core/domain"
	"github.com/ritmoapp/ritmo-stats-engine/internal/core/services"
)

func setupHabitRouter() (*gin.Engine, *repository.InMemoryHabitRepository) {
	gin.SetMode(gin.TestMode)

	habitRepo := repository.NewInMemoryHabitRepository()
	svc := services.NewHabitService(habitRepo)
	handler := adapterHTTP.NewHabitHandler(svc)

	r := gin.New()

	r.Use(func(c *gin.Context) {
		if userID := c.GetHeader("X-User-ID"); userID != "" {
			c.Set(middleware.ContextUserIDKey, userID)
		}
		c.Next()
	})

	api := r.Group("/api/v1")
	handler.RegisterRoutes(api)

	return r, habitRepo
}

func doJSON(r *gin.Engine, method, path, userID string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}

	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHabitHandler_Create(t *testing.T) {
	userID := "habit-user-1"

	t.Run("Success: 201 with created habit", func(t *testing.T) {
		r, _ := setupHabitRouter()

		w := doJSON(r, "POST", "/api/v1/habits", userID, gin.H{
			"title":         "Read",
			"color":         "#FF5733",
			"frequency":     "daily",
			"has_end_goal":  true,
			"end_goal_days": 30,
		})

		assert.Equal(t, http.StatusCreated, w.Code)

		var habit domain.Habit
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &habit))
		assert.NotEmpty(t, habit.ID)
		assert.Equal(t, userID, habit.UserID)
		assert.Equal(t, 30, habit.TotalDays)
	})

	t.Run("Validation: 400 on missing title", func(t *testing.T) {
		r, _ := setupHabitRouter()

		w := doJSON(r, "POST", "/api/v1/habits", userID, gin.H{"color": "#FF5733"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Validation: 400 on bad color", func(t *testing.T) {
		r, _ := setupHabitRouter()

		w := doJSON(r, "POST", "/api/v1/habits", userID, gin.H{
			"title": "Read",
			"color": "red",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "color")
	})

	t.Run("Validation: 400 on out-of-range custom day", func(t *testing.T) {
		r, _ := setupHabitRouter()

		w := doJSON(r, "POST", "/api/v1/habits", userID, gin.H{
			"title":       "Read",
			"custom_days": []int{1, 9},
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHabitHandler_List(t *testing.T) {
	userID := "habit-user-1"

	r, repo := setupHabitRouter()

	h, err := domain.NewHabit(userID, "Read", "", "", "", domain.HabitFreqDaily, nil, nil, false, 0)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), h))

	other, err := domain.NewHabit("someone-else", "Run", "", "", "", domain.HabitFreqDaily, nil, nil, false, 0)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), other))

	w := doJSON(r, "GET", "/api/v1/habits", userID, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), h.ID)
	assert.NotContains(t, w.Body.String(), other.ID)
}

func TestHabitHandler_Update(t *testing.T) {
	userID := "habit-user-1"

	t.Run("Success: 200 and new title", func(t *testing.T) {
		r, repo := setupHabitRouter()

		h, err := domain.NewHabit(userID, "Read", "", "", "", domain.HabitFreqDaily, nil, nil, false, 0)
		require.NoError(t, err)
		require.NoError(t, repo.Create(context.Background(), h))

		w := doJSON(r, "PUT", "/api/v1/habits/"+h.ID, userID, gin.H{
			"title":   "Read more",
			"version": 1,
		})

		assert.Equal(t, http.StatusOK, w.Code)

		stored, err := repo.GetByID(context.Background(), h.ID)
		require.NoError(t, err)
		assert.Equal(t, "Read more", stored.Title)
	})

	t.Run("Conflict: 409 on stale version", func(t *testing.T) {
		r, repo := setupHabitRouter()

		h, err := domain.NewHabit(userID, "Read", "", "", "", domain.HabitFreqDaily, nil, nil, false, 0)
		require.NoError(t, err)
		h.Version = 3
		require.NoError(t, repo.Create(context.Background(), h))

		w := doJSON(r, "PUT", "/api/v1/habits/"+h.ID, userID, gin.H{
			"title":   "Read more",
			"version": 2,
		})

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "version conflict")
	})

	t.Run("NotFound: 404 for foreign habit", func(t *testing.T) {
		r, repo := setupHabitRouter()

		h, err := domain.NewHabit("someone-else", "Read", "", "", "", domain.HabitFreqDaily, nil, nil, false, 0)
		require.NoError(t, err)
		require.NoError(t, repo.Create(context.Background(), h))

		w := doJSON(r, "PUT", "/api/v1/habits/"+h.ID, userID, gin.H{"title": "Hijacked"})

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHabitHandler_ArchiveAndDelete(t *testing.T) {
	userID := "habit-user-1"

	t.Run("Archive: 200 and habit leaves active stats", func(t *testing.T) {
		r, repo := setupHabitRouter()

		h, err := domain.NewHabit(userID, "Read", "", "", "", domain.HabitFreqDaily, nil, nil, false, 0)
		require.NoError(t, err)
		require.NoError(t, repo.Create(context.Background(), h))

		w := doJSON(r, "POST", "/api/v1/habits/"+h.ID+"/archive", userID, nil)

		assert.Equal(t, http.StatusOK, w.Code)

		stored, err := repo.GetByID(context.Background(), h.ID)
		require.NoError(t, err)
		assert.NotNil(t, stored.ArchivedAt)
	})

	t.Run("Delete: 204 then 404 on re-read", func(t *testing.T) {
		r, repo := setupHabitRouter()

		h, err := domain.NewHabit(userID, "Read", "", "", "", domain.HabitFreqDaily, nil, nil, false, 0)
		require.NoError(t, err)
		require.NoError(t, repo.Create(context.Background(), h))

		w := doJSON(r, "DELETE", "/api/v1/habits/"+h.ID, userID, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = doJSON(r, "GET", "/api/v1/habits/"+h.ID, userID, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
