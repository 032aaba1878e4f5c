// Package testkit provides shared helpers for HTTP and database tests.
package testkit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// OpenDB opens a file-backed SQLite database in the test's temp directory.
// A file DB (rather than :memory:) is shared across connections in the pool,
// which concurrent reservation tests depend on.
func OpenDB(t *testing.T, models ...interface{}) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000", filepath.Join(t.TempDir(), "test.db"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err, "open test database")

	if len(models) > 0 {
		require.NoError(t, db.AutoMigrate(models...), "migrate test schema")
	}

	return db
}

// Response wraps a recorded HTTP response with decode helpers.
type Response struct {
	*httptest.ResponseRecorder
}

// JSON decodes the response body into dest.
func (r *Response) JSON(t *testing.T, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.Body.Bytes(), dest), "decode response body")
}

// Do fires a JSON request against handler and returns the recorded response.
// body may be nil, a []byte, or any value to be JSON-encoded.
func Do(t *testing.T, handler http.Handler, method, target string, body interface{}, headers ...string) *Response {
	t.Helper()

	var buf *bytes.Reader
	switch b := body.(type) {
	case nil:
		buf = bytes.NewReader(nil)
	case []byte:
		buf = bytes.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err, "encode request body")
		buf = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	// headers come in key, value pairs
	require.Zero(t, len(headers)%2, "headers must be key/value pairs")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return &Response{rec}
}

// AuthHeader builds the key/value pair for a Bearer token, for use with Do:
//
//	testkit.Do(t, h, "POST", "/api/orders", in, testkit.AuthHeader(token)...)
func AuthHeader(token string) []string {
	return []string{"Authorization", "Bearer " + token}
}
