package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	_ "modernc.org/sqlite"

	"mingle/auth"
	"mingle/config"
	"mingle/database"
	"mingle/utils"
)

// setupTest stands up the full router over a fresh SQLite database and
// returns it with the token service used to mint caller identities.
func setupTest(t *testing.T) (*gin.Engine, *auth.TokenService) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	config.Load()

	db, err := database.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.CreateTables(db); err != nil {
		t.Fatalf("create tables: %v", err)
	}
	database.DB = db

	tokens := auth.NewTokenService("test-secret", time.Hour)
	return NewRouter(tokens), tokens
}

func createTestUser(t *testing.T, username string) string {
	t.Helper()

	hashed, err := utils.HashPassword("SecurePass123!")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	id := utils.GenerateUUID()
	now := time.Now().Unix()
	_, err = database.DB.Exec(
		"INSERT INTO users (id, username, email, password, first_name, last_name, display_name, avatar, bio, created_at, updated_at) VALUES (?, ?, ?, ?, 'Test', 'User', 'Test User', '', '', ?, ?)",
		id, username, username+"@example.com", hashed, now, now,
	)
	if err != nil {
		t.Fatalf("insert user %s: %v", username, err)
	}
	return id
}

func doRequest(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return body
}

func issueToken(t *testing.T, tokens *auth.TokenService, userID string) string {
	t.Helper()

	token, err := tokens.Issue(userID)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

// listedUserIDs extracts the IDs from a {"users": [...]} response.
func listedUserIDs(t *testing.T, w *httptest.ResponseRecorder) []string {
	t.Helper()

	body := decodeBody(t, w)
	raw, ok := body["users"].([]interface{})
	if !ok {
		t.Fatalf("response %q has no users list", w.Body.String())
	}

	ids := make([]string, 0, len(raw))
	for _, entry := range raw {
		user, ok := entry.(map[string]interface{})
		if !ok {
			t.Fatalf("unexpected users entry %v", entry)
		}
		ids = append(ids, user["id"].(string))
	}
	return ids
}

func containsID(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func wantStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status = %d, want %d (body %s)", w.Code, want, w.Body.String())
	}
}
