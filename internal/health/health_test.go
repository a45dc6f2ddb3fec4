package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/latoulicious/anglerslog/pkg/database"
	"github.com/latoulicious/anglerslog/pkg/database/migration"
	"github.com/latoulicious/anglerslog/pkg/database/schema"
	"github.com/latoulicious/anglerslog/pkg/logging"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewSQLiteDB(filepath.Join(t.TempDir(), "health.db"), false)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestCheckDatabase(t *testing.T) {
	db := newTestDB(t)

	report, err := CheckDatabase(context.Background(), db)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", report.Driver)
	assert.NotEmpty(t, report.Version)
	assert.Len(t, report.MissingTables, len(schema.AllTables)+1)
	assert.False(t, report.Slow())

	require.NoError(t, migration.RunMigration(db, logging.NewNopLogger()))

	report, err = CheckDatabase(context.Background(), db)
	require.NoError(t, err)
	assert.Empty(t, report.MissingTables)
	assert.Equal(t, len(schema.AllTables)+1, report.Tables)

	// the probe table did not survive its transaction
	assert.False(t, db.Migrator().HasTable("anglerslog_check"))
}

func TestHealthHandler(t *testing.T) {
	db := newTestDB(t)

	s := NewServer(":0", nil)
	s.AddCheck("database", Ping(db))

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body Health
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, map[string]bool{"database": true}, body.Components)

	s.AddCheck("backup", func(context.Context) error { return errors.New("last backup failed") })

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	body = Health{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "unhealthy", body.Status)
	assert.False(t, body.Components["backup"])
	assert.True(t, body.Components["database"])
	assert.Equal(t, []string{"backup: last backup failed"}, body.Errors)
}

func TestStatusHandler(t *testing.T) {
	s := NewServer(":0", nil)
	s.AddDetail("journal", func() interface{} { return "Lake Journal" })

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body Status
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "AnglersLog", body.Application)
	assert.Equal(t, "starting", body.Status)
	assert.Equal(t, "Lake Journal", body.Details["journal"])
	assert.NotEmpty(t, body.Version.GoVersion)
}

func TestServer_StartShutdown(t *testing.T) {
	s := NewServer("127.0.0.1:0", nil)
	require.NoError(t, s.Start())

	resp, err := http.Get("http://" + s.Addr() + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))

	_, err = http.Get("http://" + s.Addr() + "/health")
	assert.Error(t, err)
}
