package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapterHTTP "github.com/ritmoapp/ritmo-stats-engine/internal/adapters/handler/http"
	"github.com/ritmoapp/ritmo-stats-engine/internal/adapters/repository"
	"github.com/ritmoapp/ritmo-stats-engine/internal/core/domain"
	"github.com/ritmoapp/ritmo-stats-engine/internal/core/services"
	"github.com/ritmoapp/ritmo-stats-engine/internal/core/workers"
)

const (
	e2eSecret = "e2e-secret"
	e2eIssuer = "ritmo-auth"
)

func e2eRouter() (*gin.Engine, *repository.InMemoryHabitRepository) {
	gin.SetMode(gin.TestMode)

	habitRepo := repository.NewInMemoryHabitRepository()
	completionRepo := repository.NewInMemoryCompletionRepository()

	streakWorker := workers.NewStreakWorker(habitRepo, completionRepo)

	tokenService := services.NewTokenService(e2eSecret, e2eIssuer)
	habitService := services.NewHabitService(habitRepo)
	completionService := services.NewCompletionService(completionRepo, habitRepo, streakWorker)
	statsService := services.NewStatsService(habitRepo, completionRepo)

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		HabitHandler:      adapterHTTP.NewHabitHandler(habitService),
		CompletionHandler: adapterHTTP.NewCompletionHandler(completionService),
		StatsHandler:      adapterHTTP.NewStatsHandler(statsService),
		TokenService:      tokenService,
		StartTime:         time.Now(),
	})

	return router, habitRepo
}

func e2eToken(t *testing.T, userID string) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"iss": e2eIssuer,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(e2eSecret))
	require.NoError(t, err)
	return signed
}

func e2eRequest(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestEndToEnd_HabitStatsLifecycle(t *testing.T) {
	router, habitRepo := e2eRouter()
	token := e2eToken(t, "e2e-tester-1")

	var habitID string
	today := domain.DayKey(time.Now())
	yesterday := domain.DayKey(time.Now().AddDate(0, 0, -1))

	t.Run("1. Create Habit", func(t *testing.T) {
		w := e2eRequest(t, router, http.MethodPost, "/api/v1/habits", token, gin.H{
			"title":         "Morning Run",
			"color":         "#FF5733",
			"frequency":     "daily",
			"has_end_goal":  true,
			"end_goal_days": 30,
		})

		assert.Equal(t, http.StatusCreated, w.Code)

		var habit domain.Habit
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &habit))
		assert.NotEmpty(t, habit.ID)
		habitID = habit.ID

		// Backdate the creation so yesterday falls inside the habit's
		// active window.
		stored, err := habitRepo.GetByID(context.Background(), habitID)
		require.NoError(t, err)
		stored.CreatedAt = time.Now().AddDate(0, 0, -7)
	})

	t.Run("2. Mark Two Days", func(t *testing.T) {
		require.NotEmpty(t, habitID)

		for _, day := range []string{yesterday, today} {
			w := e2eRequest(t, router, http.MethodPut, "/api/v1/habits/"+habitID+"/completions", token, gin.H{
				"day":           day,
				"all_completed": true,
			})
			assert.Equal(t, http.StatusOK, w.Code)
		}
	})

	t.Run("3. Streaks Reflect The Marks", func(t *testing.T) {
		w := e2eRequest(t, router, http.MethodGet, "/api/v1/stats/streaks", token, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var overview domain.StreakOverview
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &overview))
		assert.Equal(t, 2, overview.GlobalStreak)
		require.Len(t, overview.Habits, 1)
		assert.Equal(t, 2, overview.Habits[0].CurrentStreak)
	})

	t.Run("4. Prediction Counts The Progress", func(t *testing.T) {
		w := e2eRequest(t, router, http.MethodGet, "/api/v1/stats/predictions", token, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Predictions []domain.Prediction `json:"predictions"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Predictions, 1)
		assert.Equal(t, habitID, resp.Predictions[0].HabitID)
		assert.True(t, resp.Predictions[0].CanStillSucceed)
	})

	t.Run("5. Unmark Today Shrinks The Streak", func(t *testing.T) {
		w := e2eRequest(t, router, http.MethodDelete, "/api/v1/habits/"+habitID+"/completions/"+today, token, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = e2eRequest(t, router, http.MethodGet, "/api/v1/stats/streaks", token, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var overview domain.StreakOverview
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &overview))
		assert.Equal(t, 1, overview.GlobalStreak, "yesterday still counts while today is pending")
	})

	t.Run("6. Delete Habit", func(t *testing.T) {
		w := e2eRequest(t, router, http.MethodDelete, "/api/v1/habits/"+habitID, token, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = e2eRequest(t, router, http.MethodGet, "/api/v1/habits", token, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), habitID)
	})

	t.Run("7. Auth Errors", func(t *testing.T) {
		w := e2eRequest(t, router, http.MethodGet, "/api/v1/habits", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		badToken := e2eToken(t, "e2e-tester-1") + "tampered"
		w = e2eRequest(t, router, http.MethodGet, "/api/v1/habits", badToken, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("8. Health Reports Degraded Dependencies", func(t *testing.T) {
		w := e2eRequest(t, router, http.MethodGet, "/health", "", nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "unreachable")
	})
}
