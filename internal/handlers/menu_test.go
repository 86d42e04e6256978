package handlers_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trafficshawarma/storefront/internal/handlers"
	"github.com/trafficshawarma/storefront/internal/models"
)

func TestMenuHandlerList(t *testing.T) {
	svc := &mockMenuService{
		ListFunc: func(ctx context.Context) ([]models.MenuItem, error) {
			return []models.MenuItem{
				{ID: "menu_1", Name: "Chicken Shawarma", Price: 35, Category: "Shawarma"},
			}, nil
		},
	}
	handler := handlers.NewMenuHandler(svc, newTestAuditLogger())

	req := httptest.NewRequest("GET", "/menu", nil)
	recorder := httptest.NewRecorder()
	handler.List(recorder, req)

	require.Equal(t, 200, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Chicken Shawarma")
}

func TestMenuHandlerCreate(t *testing.T) {
	var created models.MenuItem
	svc := &mockMenuService{
		CreateFunc: func(ctx context.Context, item models.MenuItem) (*models.MenuItem, error) {
			created = item
			item.ID = "menu_1"
			return &item, nil
		},
	}
	handler := handlers.NewMenuHandler(svc, newTestAuditLogger())

	req := httptest.NewRequest("POST", "/admin/menu",
		strings.NewReader(`{"name":"Beef Shawarma","price":40,"category":"Shawarma"}`))
	recorder := httptest.NewRecorder()
	handler.Create(recorder, req)

	require.Equal(t, 201, recorder.Code)
	assert.Equal(t, "Beef Shawarma", created.Name)
	assert.True(t, created.Available, "availability defaults to true")
}

func TestMenuHandlerCreateValidation(t *testing.T) {
	handler := handlers.NewMenuHandler(&mockMenuService{}, newTestAuditLogger())

	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"price":40,"category":"Shawarma"}`},
		{"zero price", `{"name":"Beef","price":0,"category":"Shawarma"}`},
		{"missing category", `{"name":"Beef","price":40}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/admin/menu", strings.NewReader(tc.body))
			recorder := httptest.NewRecorder()
			handler.Create(recorder, req)

			assert.Equal(t, 400, recorder.Code)
		})
	}
}

func TestMenuHandlerUpdateNotFound(t *testing.T) {
	svc := &mockMenuService{
		UpdateFunc: func(ctx context.Context, id string, updates models.MenuItemUpdate) (*models.MenuItem, error) {
			return nil, models.ErrNotFound
		},
	}
	handler := handlers.NewMenuHandler(svc, newTestAuditLogger())

	req := httptest.NewRequest("PUT", "/admin/menu/menu_missing", strings.NewReader(`{"price":45}`))
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "menu_missing")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	recorder := httptest.NewRecorder()
	handler.Update(recorder, req)

	assert.Equal(t, 404, recorder.Code)
}

func TestMenuHandlerUpdateRejectsNonPositivePrice(t *testing.T) {
	handler := handlers.NewMenuHandler(&mockMenuService{}, newTestAuditLogger())

	req := httptest.NewRequest("PUT", "/admin/menu/menu_1", strings.NewReader(`{"price":-1}`))
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "menu_1")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	recorder := httptest.NewRecorder()
	handler.Update(recorder, req)

	assert.Equal(t, 400, recorder.Code)
}

func TestMenuHandlerDelete(t *testing.T) {
	var deleted string
	svc := &mockMenuService{
		DeleteFunc: func(ctx context.Context, id string) error {
			deleted = id
			return nil
		},
	}
	handler := handlers.NewMenuHandler(svc, newTestAuditLogger())

	req := httptest.NewRequest("DELETE", "/admin/menu/menu_1", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "menu_1")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	recorder := httptest.NewRecorder()
	handler.Delete(recorder, req)

	require.Equal(t, 200, recorder.Code)
	assert.Equal(t, "menu_1", deleted)
}

func TestMenuHandlerSeed(t *testing.T) {
	svc := &mockMenuService{
		SeedMenuFunc: func(ctx context.Context) (int, int, error) {
			return 14, 0, nil
		},
	}
	handler := handlers.NewMenuHandler(svc, newTestAuditLogger())

	req := httptest.NewRequest("POST", "/admin/menu/seed", nil)
	recorder := httptest.NewRecorder()
	handler.Seed(recorder, req)

	require.Equal(t, 200, recorder.Code)
	assert.JSONEq(t, `{"success": true, "successful": 14, "failed": 0}`, recorder.Body.String())
}
