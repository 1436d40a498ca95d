package handlers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/regionmap/internal/application/snapshot"
	"github.com/turtacn/regionmap/internal/domain/representative"
	"github.com/turtacn/regionmap/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/regionmap/internal/interfaces/http/handlers"
	"github.com/turtacn/regionmap/internal/testutil"
	apperrors "github.com/turtacn/regionmap/pkg/errors"
)

func representativeRouter(h *handlers.RepresentativeHandler) *gin.Engine {
	r := gin.New()
	r.GET("/representatives", h.List)
	r.POST("/representatives/refresh", h.Refresh)
	r.POST("/representatives", h.Create)
	r.GET("/representatives/:id", h.Get)
	r.PUT("/representatives/:id", h.Update)
	r.DELETE("/representatives/:id", h.Delete)
	return r
}

func TestRepresentativeHandler_ListAndRefresh(t *testing.T) {
	e := newEnv(t)
	r := representativeRouter(handlers.NewRepresentativeHandler(e.store, nil))

	w := do(r, http.MethodGet, "/representatives", "")
	require.Equal(t, http.StatusOK, w.Code)
	var snap snapshot.Snapshot
	decode(t, w, &snap)
	assert.Equal(t, uint64(1), snap.Version)
	assert.Len(t, snap.Representatives, 2)

	w = do(r, http.MethodPost, "/representatives/refresh", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"version":2`)

	e.src.Fail(apperrors.New(apperrors.CodeRepresentativeSourceFailed, "provider down"))
	w = do(r, http.MethodPost, "/representatives/refresh", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestRepresentativeHandler_ReadOnly(t *testing.T) {
	e := newEnv(t)
	r := representativeRouter(handlers.NewRepresentativeHandler(e.store, nil))

	w := do(r, http.MethodPost, "/representatives", `{"name":"X","regionId":["RU-TVE"]}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = do(r, http.MethodDelete, "/representatives/1", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func editorRouter(t *testing.T) (*gin.Engine, *testutil.MockRepository) {
	e := newEnv(t)
	repo := new(testutil.MockRepository)
	editor := snapshot.NewEditor(repo, e.store, nil, nil, logging.NewNopLogger())
	return representativeRouter(handlers.NewRepresentativeHandler(e.store, editor)), repo
}

func TestRepresentativeHandler_Create(t *testing.T) {
	r, repo := editorRouter(t)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(rep *representative.Representative) bool {
		return rep.Name == "Смирнов Олег" && len(rep.RegionIDs) == 1
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*representative.Representative).ID = 42
	}).Return(nil)

	w := do(r, http.MethodPost, "/representatives", `{"name":"Смирнов Олег","regionId":"RU-TVE","email":"o@example.ru"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var rep representative.Representative
	decode(t, w, &rep)
	assert.Equal(t, int64(42), rep.ID)
	repo.AssertExpectations(t)
}

func TestRepresentativeHandler_CreateInvalid(t *testing.T) {
	r, repo := editorRouter(t)

	w := do(r, http.MethodPost, "/representatives", `{"name":"","regionId":["RU-TVE"]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/representatives", `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/representatives", `{"id":3,"name":"Смирнов Олег","regionId":["RU-TVE"]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRepresentativeHandler_UpdateUsesPathID(t *testing.T) {
	r, repo := editorRouter(t)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(rep *representative.Representative) bool {
		return rep.ID == 7
	})).Return(nil)

	w := do(r, http.MethodPut, "/representatives/7", `{"id":99,"name":"Иванов Иван","regionId":["ЦФО"]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	repo.AssertExpectations(t)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRepresentativeHandler_UpdateMissing(t *testing.T) {
	r, repo := editorRouter(t)
	repo.On("Update", mock.Anything, mock.Anything).
		Return(apperrors.New(apperrors.CodeRepresentativeNotFound, "representative not found"))

	w := do(r, http.MethodPut, "/representatives/100", `{"name":"Иванов Иван","regionId":["ЦФО"]}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRepresentativeHandler_GetAndDelete(t *testing.T) {
	r, repo := editorRouter(t)
	repo.On("Get", mock.Anything, int64(1)).Return(&representative.Representative{ID: 1, Name: "Иванов Иван"}, nil)
	repo.On("Get", mock.Anything, int64(5)).Return(nil, apperrors.New(apperrors.CodeRepresentativeNotFound, "representative not found"))
	repo.On("Delete", mock.Anything, int64(1)).Return(nil)

	w := do(r, http.MethodGet, "/representatives/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Иванов Иван")

	w = do(r, http.MethodGet, "/representatives/5", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodGet, "/representatives/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodDelete, "/representatives/1", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	repo.AssertExpectations(t)
}

//Personal.AI order the ending
