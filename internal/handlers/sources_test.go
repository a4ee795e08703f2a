package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jibe0123/mysteryfactory/internal/config"
	"github.com/jibe0123/mysteryfactory/internal/models"
	"github.com/jibe0123/mysteryfactory/pkg/logger"
)

type fakeSourceRepo struct {
	byID map[string]*models.Source
}

func newFakeSourceRepo() *fakeSourceRepo {
	return &fakeSourceRepo{byID: make(map[string]*models.Source)}
}

func (f *fakeSourceRepo) Create(s *models.Source) error {
	f.byID[s.ID] = s
	return nil
}

func (f *fakeSourceRepo) GetByID(id string) (*models.Source, error) {
	if s, ok := f.byID[id]; ok {
		return s, nil
	}
	return nil, models.ErrSourceNotFound
}

func (f *fakeSourceRepo) List(limit, offset int) ([]*models.Source, error) {
	out := make([]*models.Source, 0, len(f.byID))
	for _, s := range f.byID {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeSourceRepo) ListActive() ([]*models.Source, error) {
	var out []*models.Source
	for _, s := range f.byID {
		if s.Status == models.SourceActive {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSourceRepo) Update(s *models.Source) error {
	if _, ok := f.byID[s.ID]; !ok {
		return models.ErrSourceNotFound
	}
	f.byID[s.ID] = s
	return nil
}

func (f *fakeSourceRepo) Delete(id string) error {
	delete(f.byID, id)
	return nil
}

func newTestSourceHandler(repo *fakeSourceRepo) *SourceHandler {
	cfg := &config.Config{}
	return NewSourceHandler(cfg, logger.New("info", "development"), nil, repo)
}

func TestCreateSource_ValidPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newTestSourceHandler(newFakeSourceRepo())

	body, _ := json.Marshal(createSourceRequest{Platform: models.PlatformTikTok, URL: "https://tiktok.com/@creator", Name: "creator"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sources", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r := gin.New()
	r.POST("/api/v1/sources", h.CreateSource)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	var created models.Source
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, models.SourceActive, created.Status)
}

func TestCreateSource_InvalidPlatformRejected(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newTestSourceHandler(newFakeSourceRepo())

	body, _ := json.Marshal(createSourceRequest{Platform: "myspace", URL: "https://myspace.com/creator"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sources", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r := gin.New()
	r.POST("/api/v1/sources", h.CreateSource)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetSource_NotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newTestSourceHandler(newFakeSourceRepo())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sources/missing", nil)
	w := httptest.NewRecorder()

	r := gin.New()
	r.GET("/api/v1/sources/:id", h.GetSource)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateSource_ChangesStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := newFakeSourceRepo()
	repo.byID["src-1"] = &models.Source{ID: "src-1", Platform: models.PlatformYouTube, URL: "https://youtube.com/channel/UC123", Status: models.SourceActive}
	h := newTestSourceHandler(repo)

	body, _ := json.Marshal(updateSourceRequest{Status: models.SourceInactive})
	req := httptest.NewRequest(http.MethodPut, "/api/v1/sources/src-1", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r := gin.New()
	r.PUT("/api/v1/sources/:id", h.UpdateSource)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.SourceInactive, repo.byID["src-1"].Status)
}

func TestDeleteSource_RemovesRow(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := newFakeSourceRepo()
	repo.byID["src-1"] = &models.Source{ID: "src-1"}
	h := newTestSourceHandler(repo)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/sources/src-1", nil)
	w := httptest.NewRecorder()

	r := gin.New()
	r.DELETE("/api/v1/sources/:id", h.DeleteSource)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	_, ok := repo.byID["src-1"]
	assert.False(t, ok)
}
