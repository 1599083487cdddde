package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carlelieser/avatarmon/internal/export"
	"github.com/carlelieser/avatarmon/internal/generation"
	"github.com/carlelieser/avatarmon/internal/handlers"
	"github.com/carlelieser/avatarmon/internal/middleware"
	"github.com/carlelieser/avatarmon/internal/models"
	"github.com/carlelieser/avatarmon/internal/purchases"
	"github.com/carlelieser/avatarmon/internal/quota"
	"github.com/carlelieser/avatarmon/internal/store"
)

// fakeJobClient completes every job on the first status poll.
type fakeJobClient struct {
	mu      sync.Mutex
	creates int
}

func (f *fakeJobClient) Create(req models.GenerationRequest) (models.JobState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	return models.JobState{ID: "job-1", Status: models.StatusQueued}, nil
}

func (f *fakeJobClient) GetStatus(id string) (models.JobState, error) {
	return models.JobState{ID: id, Status: models.StatusCompleted, Progress: 100, ImageURL: "https://cdn.example.com/out.png"}, nil
}

func (f *fakeJobClient) Cancel(id string) error { return nil }

// fakeCleaner records remote avatar deletions.
type fakeCleaner struct {
	deletedAvatars []string
	clearedUsers   []string
}

func (f *fakeCleaner) DeleteAvatar(userID, filename string) error {
	f.deletedAvatars = append(f.deletedAvatars, filename)
	return nil
}

func (f *fakeCleaner) DeleteUserAvatars(userID string) error {
	f.clearedUsers = append(f.clearedUsers, userID)
	return nil
}

type testEnv struct {
	router  *gin.Engine
	stores  *store.Manager
	service *generation.Service
	client  *fakeJobClient
	cleaner *fakeCleaner
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	stores := store.NewManager(nil)
	client := &fakeJobClient{}
	service := generation.NewService(client, stores, nil,
		generation.WithPollInterval(50*time.Millisecond),
		generation.WithTimeout(time.Second),
	)
	cleaner := &fakeCleaner{}

	imageServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("png-bytes"))
	}))
	t.Cleanup(imageServer.Close)

	cacheDir := t.TempDir()
	galleryDir := t.TempDir()
	exporters := func(userID string) *export.Exporter {
		return export.NewExporter(export.DirGallery{Dir: galleryDir}, export.NoShareSheet{}, cacheDir)
	}

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(middleware.UserIDKey, "user-1")
	})

	generateHandler := handlers.NewGenerateHandler(service, nil)
	historyHandler := handlers.NewHistoryHandler(stores, cleaner)
	exportHandler := handlers.NewExportHandler(stores, exporters, nil)
	quotaHandler := handlers.NewQuotaHandler(service, stores)
	purchaseHandler := handlers.NewPurchaseHandler(purchases.NewService(stores), stores)
	settingsHandler := handlers.NewSettingsHandler(stores)

	router.POST("/generate", generateHandler.Start)
	router.GET("/generate/:id", generateHandler.Status)
	router.POST("/generate/:id/cancel", generateHandler.Cancel)
	router.DELETE("/generate/:id", generateHandler.Clear)
	router.GET("/quota", quotaHandler.Get)
	router.GET("/history", historyHandler.List)
	router.POST("/history", historyHandler.Save)
	router.DELETE("/history", historyHandler.Clear)
	router.DELETE("/history/:id", historyHandler.Delete)
	router.POST("/history/:id/export", exportHandler.Export)
	router.GET("/purchase", purchaseHandler.Get)
	router.POST("/purchase", purchaseHandler.Purchase)
	router.POST("/purchase/restore", purchaseHandler.Restore)
	router.GET("/settings", settingsHandler.Get)
	router.PATCH("/settings", settingsHandler.Update)

	return &testEnv{router: router, stores: stores, service: service, client: client, cleaner: cleaner}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func validForm() models.AvatarForm {
	return models.AvatarForm{
		Source: models.AvatarSource{
			Type: models.SourcePhoto,
			Photos: []models.PhotoItem{
				{Base64: "aGVsbG8=", Width: 512, Height: 512, MimeType: "image/png"},
			},
		},
		Style:       models.StyleAnime,
		AspectRatio: models.AspectSquare,
	}
}

func waitForJob(t *testing.T, env *testEnv, userID string) {
	t.Helper()
	select {
	case <-env.service.ForUser(userID).Done():
	case <-time.After(2 * time.Second):
		t.Fatal("generation did not finish")
	}
}

func TestGenerate_StartAndPoll(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, "POST", "/generate", validForm())
	require.Equal(t, http.StatusAccepted, w.Code)

	var started models.GenerateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &started))
	assert.Equal(t, "job-1", started.ID)

	waitForJob(t, env, "user-1")

	w = env.do(t, "GET", "/generate/job-1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var job models.JobResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &job))
	assert.Equal(t, models.StatusCompleted, job.Status)
	assert.Equal(t, 100, job.Progress)
	assert.Equal(t, "https://cdn.example.com/out.png", job.ImageURL)
}

func TestGenerate_InvalidForm(t *testing.T) {
	env := newTestEnv(t)

	form := validForm()
	form.Style = "oil-painting"

	w := env.do(t, "POST", "/generate", form)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerate_DailyLimit(t *testing.T) {
	env := newTestEnv(t)
	st := env.stores.ForUser("user-1")
	for i := 0; i < quota.FreeDailyLimit; i++ {
		st.IncrementDailyUsage(time.Now())
	}

	w := env.do(t, "POST", "/generate", validForm())
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "DAILY_LIMIT_REACHED")
}

func TestGenerate_UnknownJob(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, "GET", "/generate/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGenerate_CancelClearsToIdle(t *testing.T) {
	env := newTestEnv(t)

	env.do(t, "POST", "/generate", validForm())
	w := env.do(t, "POST", "/generate/job-1/cancel", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	waitForJob(t, env, "user-1")

	w = env.do(t, "GET", "/generate/job-1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGenerate_ClearAfterFinish(t *testing.T) {
	env := newTestEnv(t)

	env.do(t, "POST", "/generate", validForm())
	waitForJob(t, env, "user-1")

	w := env.do(t, "DELETE", "/generate/job-1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, "GET", "/generate/job-1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestQuota_Get(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, "GET", "/quota", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.QuotaResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.HasPremium)
	assert.Equal(t, quota.FreeDailyLimit, resp.DailyLimit)
	assert.Equal(t, "5", resp.Remaining)

	env.stores.ForUser("user-1").SetPremium(true, time.Now())
	w = env.do(t, "GET", "/quota", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "unlimited", resp.Remaining)
}

func historyRecord(id string) models.GenerationRecord {
	return models.GenerationRecord{
		ID:          id,
		ImageURL:    "https://cdn.example.com/" + id + ".png",
		Style:       models.StyleAnime,
		AspectRatio: models.AspectSquare,
		CreatedAt:   time.Now(),
	}
}

func TestHistory_SaveListDelete(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, "POST", "/history", historyRecord("a"))
	require.Equal(t, http.StatusCreated, w.Code)
	env.do(t, "POST", "/history", historyRecord("b"))

	w = env.do(t, "GET", "/history", nil)
	var resp models.HistoryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Generations, 2)
	assert.Equal(t, "b", resp.Generations[0].ID)

	w = env.do(t, "DELETE", "/history/a", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, "GET", "/history", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Generations, 1)

	w = env.do(t, "DELETE", "/history", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, "GET", "/history", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Generations)
}

func TestHistory_DeleteRemovesStoredAvatar(t *testing.T) {
	env := newTestEnv(t)

	imageServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("png-bytes"))
	}))
	defer imageServer.Close()

	record := historyRecord("a")
	record.ImageURL = imageServer.URL + "/a.png"
	env.do(t, "POST", "/history", record)
	env.do(t, "POST", "/history/a/export", map[string]string{"kind": "gallery"})

	w := env.do(t, "DELETE", "/history/a", nil)
	require.Equal(t, http.StatusOK, w.Code)

	history := env.stores.ForUser("user-1").History()
	require.Len(t, env.cleaner.deletedAvatars, 1)
	assert.Contains(t, env.cleaner.deletedAvatars[0], "avatar-")
	assert.Empty(t, history)
}

func TestHistory_DeleteUnexportedSkipsCleanup(t *testing.T) {
	env := newTestEnv(t)

	env.do(t, "POST", "/history", historyRecord("a"))
	w := env.do(t, "DELETE", "/history/a", nil)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Empty(t, env.cleaner.deletedAvatars)
}

func TestHistory_ClearRemovesStoredAvatars(t *testing.T) {
	env := newTestEnv(t)

	env.do(t, "POST", "/history", historyRecord("a"))
	env.do(t, "POST", "/history", historyRecord("b"))

	w := env.do(t, "DELETE", "/history", nil)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, []string{"user-1"}, env.cleaner.clearedUsers)
	assert.Empty(t, env.stores.ForUser("user-1").History())
}

func TestHistory_SaveInvalidRecord(t *testing.T) {
	env := newTestEnv(t)

	record := historyRecord("a")
	record.ImageURL = ""

	w := env.do(t, "POST", "/history", record)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExport_Gallery(t *testing.T) {
	env := newTestEnv(t)

	imageServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("png-bytes"))
	}))
	defer imageServer.Close()

	record := historyRecord("a")
	record.ImageURL = imageServer.URL + "/a.png"
	env.do(t, "POST", "/history", record)

	w := env.do(t, "POST", "/history/a/export", map[string]string{"kind": "gallery"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.ExportResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.LocalURI)

	// The record is stamped as exported.
	history := env.stores.ForUser("user-1").History()
	require.Len(t, history, 1)
	assert.Equal(t, resp.LocalURI, history[0].LocalURI)
	assert.NotNil(t, history[0].ExportedAt)
}

func TestExport_UnknownRecord(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, "POST", "/history/missing/export", map[string]string{"kind": "gallery"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExport_InvalidKind(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, "POST", "/history", historyRecord("a"))

	w := env.do(t, "POST", "/history/a/export", map[string]string{"kind": "email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPurchase_Flow(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, "GET", "/purchase", nil)
	var resp models.PurchaseResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.HasPremium)

	w = env.do(t, "POST", "/purchase", map[string]bool{"cancelled": false})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.HasPremium)
	assert.NotNil(t, resp.PurchaseDate)

	w = env.do(t, "POST", "/purchase/restore", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPurchase_Cancelled(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, "POST", "/purchase", map[string]bool{"cancelled": true})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "PURCHASE_CANCELLED")
	assert.False(t, env.stores.ForUser("user-1").User().HasPremium)
}

func TestPurchase_RestoreWithoutPurchase(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, "POST", "/purchase/restore", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSettings_Update(t *testing.T) {
	env := newTestEnv(t)

	style := models.StyleCyberpunk
	done := true
	w := env.do(t, "PATCH", "/settings", map[string]interface{}{
		"preferredStyle":     style,
		"onboardingComplete": done,
	})
	require.Equal(t, http.StatusOK, w.Code)

	user := env.stores.ForUser("user-1").User()
	assert.Equal(t, models.StyleCyberpunk, user.PreferredStyle)
	assert.True(t, user.OnboardingComplete)

	w = env.do(t, "PATCH", "/settings", map[string]string{"preferredStyle": "oil-painting"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
