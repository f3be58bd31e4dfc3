package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"camo-tracker/middleware"
	"camo-tracker/models"
	"camo-tracker/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testToken = "gateway-secret"

type nopAuditor struct{}

func (nopAuditor) Emit(string, string, string, map[string]any) {}

type testEnv struct {
	app *fiber.App
	db  *gorm.DB
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent), TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, models.AutoMigrate(db))

	seed := &services.CatalogDocument{
		Classes: []services.ClassSeed{{Slug: "smg", Label: "SMGs"}},
		Weapons: []services.WeaponSeed{{Slug: "mp5", DisplayName: "MP5", Class: "smg"}},
		CamoTemplates: []services.CamoTemplateSeed{
			{Slug: "granite", Name: "Granite", Kind: "base", SortOrder: ptr(1), Weapons: []string{services.AllWeapons}},
			{Slug: "woodland", Name: "Woodland", Kind: "base", SortOrder: ptr(2), Weapons: []string{services.AllWeapons}},
		},
	}
	_, err = services.NewCatalogSeeder(db).Seed(context.Background(), seed)
	require.NoError(t, err)

	catalog := services.NewCatalogService(db)
	tracker := services.NewTrackerService(catalog, services.NewProgressStore(db), nopAuditor{})
	profiles := services.NewProfileService(db, nopAuditor{}, "")

	app := fiber.New()
	app.Use(middleware.GatewayAuthMiddleware(testToken, "/health"))
	SetupCatalogRoutes(app, catalog)
	SetupTrackerRoutes(app, tracker)
	SetupProfileRoutes(app, profiles)
	SetupAuthRoutes(app, profiles)
	SetupLogRoutes(app, services.NewAuditService(db))
	return &testEnv{app: app, db: db}
}

func ptr[T any](v T) *T { return &v }

func (e *testEnv) do(t *testing.T, method, path, userID string, body any) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", "Bearer "+testToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func (e *testEnv) camoID(t *testing.T, slug string) string {
	t.Helper()
	var id string
	require.NoError(t, e.db.Raw(`SELECT weapon_camos.id FROM weapon_camos
		JOIN camo_templates ON camo_templates.id = weapon_camos.camo_template_id
		WHERE camo_templates.slug = ?`, slug).Scan(&id).Error)
	return id
}

func TestGateway(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = env.app.Test(httptest.NewRequest(http.MethodGet, "/catalog/classes", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req := httptest.NewRequest(http.MethodGet, "/catalog/classes", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	resp, err = env.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestTrackerRoutes(t *testing.T) {
	env := newTestEnv(t)
	woodland := env.camoID(t, "woodland")

	status, body := env.do(t, http.MethodGet, "/tracker/camos?mode=mp", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["sign_in_required"])

	status, body = env.do(t, http.MethodPost, "/tracker/camos/toggle", "", fiber.Map{"item_id": woodland, "checked": true})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "log in required", body["error"])

	status, body = env.do(t, http.MethodPost, "/tracker/camos/toggle", "u1", fiber.Map{"mode": "mp", "item_id": woodland, "checked": true})
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["affected"], 2)

	status, body = env.do(t, http.MethodGet, "/tracker/camos?mode=mp", "u1", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["sign_in_required"])
	parents := body["parents"].([]any)
	require.Len(t, parents, 1)
	completion := parents[0].(map[string]any)["completion"].(map[string]any)
	assert.Equal(t, true, completion["complete"])

	status, _ = env.do(t, http.MethodPost, "/tracker/camos/toggle", "u1", fiber.Map{"item_id": "missing", "checked": true})
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = env.do(t, http.MethodPost, "/tracker/camos/toggle", "u1", fiber.Map{"checked": true})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = env.do(t, http.MethodGet, "/tracker/skins", "u1", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = env.do(t, http.MethodGet, "/tracker/camos?mode=br", "u1", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestCheckAllRoute(t *testing.T) {
	env := newTestEnv(t)
	granite := env.camoID(t, "granite")
	woodland := env.camoID(t, "woodland")

	status, _ := env.do(t, http.MethodPost, "/tracker/camos/toggle", "u1", fiber.Map{"item_id": granite, "checked": true})
	require.Equal(t, http.StatusOK, status)

	status, body := env.do(t, http.MethodPost, "/tracker/camos/check-all", "u1", fiber.Map{"item_ids": []string{granite, woodland}})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []any{granite}, body["skipped"])
	assert.Equal(t, []any{woodland}, body["toggled"])
}

func TestProfileAndAuthRoutes(t *testing.T) {
	env := newTestEnv(t)

	status, _ := env.do(t, http.MethodGet, "/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = env.do(t, http.MethodGet, "/profile", "u1", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, body := env.do(t, http.MethodPost, "/profile", "u1", fiber.Map{"username": "Ghost", "email": "ghost@example.com"})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "Ghost", body["username"])

	status, _ = env.do(t, http.MethodPut, "/profile", "u1", fiber.Map{"account_level": 5000})
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = env.do(t, http.MethodPut, "/profile", "u1", fiber.Map{"account_level": 42, "prestige": 4})
	require.Equal(t, http.StatusOK, status)
	badge := body["prestige_badge"].(map[string]any)
	assert.Equal(t, "Prestige 4", badge["label"])

	status, body = env.do(t, http.MethodPost, "/auth/check-username", "", fiber.Map{"username": "GHOST"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["available"])

	status, body = env.do(t, http.MethodPost, "/auth/check-username", "", fiber.Map{"username": "ghost", "exclude_user_id": "u1"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["available"])

	status, body = env.do(t, http.MethodPost, "/auth/resolve-username", "", fiber.Map{"identifier": "ghost"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ghost@example.com", body["email"])

	status, _ = env.do(t, http.MethodPost, "/auth/resolve-username", "", fiber.Map{"identifier": "nobody"})
	assert.Equal(t, http.StatusNotFound, status)
}

func TestLogRoute(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, http.MethodPost, "/logs", "", fiber.Map{"level": "error"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Missing message", body["error"])

	status, _ = env.do(t, http.MethodPost, "/logs", "u9", fiber.Map{"user_id": "spoofed", "message": "Camo status updated", "context": fiber.Map{"status": true}})
	require.Equal(t, http.StatusOK, status)

	var entry models.AuditLog
	require.NoError(t, env.db.First(&entry).Error)
	require.NotNil(t, entry.UserID)
	assert.Equal(t, "u9", *entry.UserID)
}
