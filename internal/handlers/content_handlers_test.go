package handlers

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/joaopmafra/sapie/internal/services"
)

func TestGetRootRequiresAuth(t *testing.T) {
	env := setupTestEnv(t)

	resp := performRequest(t, env.app, http.MethodGet, "/api/content/root", nil, nil)
	body := decodeJSONMap(t, resp)

	assertErrorResponse(t, resp.StatusCode, body, http.StatusUnauthorized, "Authorization token is required")
}

func TestGetRootCreatesAndReturnsSameDirectory(t *testing.T) {
	env := setupTestEnv(t)
	user, token := createTestUser(t, env, "alice@example.com")

	resp := performRequest(t, env.app, http.MethodGet, "/api/content/root", nil, authHeaders(token))
	body := decodeJSONMap(t, resp)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	if body["name"] != services.RootDirectoryName {
		t.Fatalf("expected name %q, got %v", services.RootDirectoryName, body["name"])
	}
	if body["parentId"] != nil {
		t.Fatalf("expected parentId null, got %v", body["parentId"])
	}
	if body["ownerId"] != user.ID.String() {
		t.Fatalf("expected ownerId %q, got %v", user.ID, body["ownerId"])
	}
	if body["type"] != "directory" {
		t.Fatalf("expected type %q, got %v", "directory", body["type"])
	}

	// A second call returns the same record, not a duplicate.
	resp2 := performRequest(t, env.app, http.MethodGet, "/api/content/root", nil, authHeaders(token))
	body2 := decodeJSONMap(t, resp2)

	if resp2.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp2.StatusCode)
	}
	if body2["id"] != body["id"] {
		t.Fatalf("expected same root id %v on second call, got %v", body["id"], body2["id"])
	}
}

func TestRootDirectoriesAreIsolatedPerUser(t *testing.T) {
	env := setupTestEnv(t)
	_, aliceToken := createTestUser(t, env, "alice@example.com")
	_, bobToken := createTestUser(t, env, "bob@example.com")

	aliceRoot := decodeJSONMap(t, performRequest(t, env.app, http.MethodGet, "/api/content/root", nil, authHeaders(aliceToken)))
	bobRoot := decodeJSONMap(t, performRequest(t, env.app, http.MethodGet, "/api/content/root", nil, authHeaders(bobToken)))

	if aliceRoot["id"] == bobRoot["id"] {
		t.Fatalf("expected distinct roots per user, both got %v", aliceRoot["id"])
	}
}

func TestListChildren(t *testing.T) {
	env := setupTestEnv(t)
	_, token := createTestUser(t, env, "alice@example.com")

	root := decodeJSONMap(t, performRequest(t, env.app, http.MethodGet, "/api/content/root", nil, authHeaders(token)))
	rootID := root["id"].(string)

	t.Run("empty directory yields empty list", func(t *testing.T) {
		resp := performRequest(t, env.app, http.MethodGet, "/api/content/?parentId="+rootID, nil, authHeaders(token))
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
		}
		children := decodeJSONSlice(t, resp)
		if len(children) != 0 {
			t.Fatalf("expected no children, got %d", len(children))
		}
	})

	t.Run("missing parentId is rejected", func(t *testing.T) {
		resp := performRequest(t, env.app, http.MethodGet, "/api/content/", nil, authHeaders(token))
		body := decodeJSONMap(t, resp)
		assertErrorResponse(t, resp.StatusCode, body, http.StatusBadRequest, "parentId query parameter is required")
	})

	t.Run("created notes appear in listing", func(t *testing.T) {
		create := performJSONRequest(t, env.app, http.MethodPost, "/api/content/", map[string]any{
			"name":     "Algebra Notes",
			"parentId": rootID,
		}, authHeaders(token))
		if create.StatusCode != http.StatusCreated {
			t.Fatalf("expected status %d, got %d", http.StatusCreated, create.StatusCode)
		}
		created := decodeJSONMap(t, create)
		if created["type"] != "note" {
			t.Fatalf("expected type %q, got %v", "note", created["type"])
		}
		if created["parentId"] != rootID {
			t.Fatalf("expected parentId %q, got %v", rootID, created["parentId"])
		}

		resp := performRequest(t, env.app, http.MethodGet, "/api/content/?parentId="+rootID, nil, authHeaders(token))
		children := decodeJSONSlice(t, resp)
		if len(children) != 1 {
			t.Fatalf("expected one child, got %d", len(children))
		}
		if children[0]["name"] != "Algebra Notes" {
			t.Fatalf("expected child name %q, got %v", "Algebra Notes", children[0]["name"])
		}
	})

	t.Run("another user's listing of the same parent is empty", func(t *testing.T) {
		_, bobToken := createTestUser(t, env, "bob@example.com")
		resp := performRequest(t, env.app, http.MethodGet, "/api/content/?parentId="+rootID, nil, authHeaders(bobToken))
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
		}
		children := decodeJSONSlice(t, resp)
		if len(children) != 0 {
			t.Fatalf("expected cross-tenant listing to be empty, got %d children", len(children))
		}
	})
}

func TestCreateContentValidation(t *testing.T) {
	env := setupTestEnv(t)
	_, token := createTestUser(t, env, "alice@example.com")

	root := decodeJSONMap(t, performRequest(t, env.app, http.MethodGet, "/api/content/root", nil, authHeaders(token)))
	rootID := root["id"].(string)

	t.Run("rejects malformed json", func(t *testing.T) {
		headers := authHeaders(token)
		headers["Content-Type"] = "application/json"
		resp := performRequest(t, env.app, http.MethodPost, "/api/content/", strings.NewReader("{"), headers)
		body := decodeJSONMap(t, resp)
		assertErrorResponse(t, resp.StatusCode, body, http.StatusBadRequest, "invalid request body")
	})

	t.Run("rejects empty name", func(t *testing.T) {
		resp := performJSONRequest(t, env.app, http.MethodPost, "/api/content/", map[string]any{
			"name":     "  ",
			"parentId": rootID,
		}, authHeaders(token))
		body := decodeJSONMap(t, resp)
		assertErrorResponse(t, resp.StatusCode, body, http.StatusBadRequest, "name is required")
	})

	t.Run("rejects unknown parent", func(t *testing.T) {
		resp := performJSONRequest(t, env.app, http.MethodPost, "/api/content/", map[string]any{
			"name":     "Orphan",
			"parentId": "00000000-0000-0000-0000-000000000001",
		}, authHeaders(token))
		body := decodeJSONMap(t, resp)
		assertErrorResponse(t, resp.StatusCode, body, http.StatusNotFound, "Parent directory not found")
	})
}

func TestCreateContentConflictOnDuplicateName(t *testing.T) {
	env := setupTestEnv(t)
	_, token := createTestUser(t, env, "alice@example.com")

	root := decodeJSONMap(t, performRequest(t, env.app, http.MethodGet, "/api/content/root", nil, authHeaders(token)))
	rootID := root["id"].(string)

	payload := map[string]any{"name": "X", "parentId": rootID}

	first := performJSONRequest(t, env.app, http.MethodPost, "/api/content/", payload, authHeaders(token))
	if first.StatusCode != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, first.StatusCode)
	}

	second := performJSONRequest(t, env.app, http.MethodPost, "/api/content/", payload, authHeaders(token))
	if second.StatusCode != http.StatusConflict {
		t.Fatalf("expected status %d, got %d", http.StatusConflict, second.StatusCode)
	}

	resp := performRequest(t, env.app, http.MethodGet, "/api/content/?parentId="+rootID, nil, authHeaders(token))
	children := decodeJSONSlice(t, resp)
	if len(children) != 1 {
		t.Fatalf("expected exactly one record after conflict, got %d", len(children))
	}
}

func TestCreateContentForbiddenForNonOwner(t *testing.T) {
	env := setupTestEnv(t)
	_, aliceToken := createTestUser(t, env, "alice@example.com")
	_, bobToken := createTestUser(t, env, "bob@example.com")

	aliceRoot := decodeJSONMap(t, performRequest(t, env.app, http.MethodGet, "/api/content/root", nil, authHeaders(aliceToken)))
	aliceRootID := aliceRoot["id"].(string)

	resp := performJSONRequest(t, env.app, http.MethodPost, "/api/content/", map[string]any{
		"name":     "Intrusion",
		"parentId": aliceRootID,
	}, authHeaders(bobToken))
	body := decodeJSONMap(t, resp)
	assertErrorResponse(t, resp.StatusCode, body, http.StatusForbidden, "You do not own the parent directory")

	// No record was inserted under Alice's root.
	listing := performRequest(t, env.app, http.MethodGet, "/api/content/?parentId="+aliceRootID, nil, authHeaders(aliceToken))
	children := decodeJSONSlice(t, listing)
	if len(children) != 0 {
		t.Fatalf("expected no children after forbidden create, got %d", len(children))
	}
}

func TestNotePayloadRoundTrip(t *testing.T) {
	env := setupTestEnv(t)
	_, token := createTestUser(t, env, "alice@example.com")

	root := decodeJSONMap(t, performRequest(t, env.app, http.MethodGet, "/api/content/root", nil, authHeaders(token)))
	rootID := root["id"].(string)

	created := decodeJSONMap(t, performJSONRequest(t, env.app, http.MethodPost, "/api/content/", map[string]any{
		"name":     "Geometry Notes",
		"parentId": rootID,
	}, authHeaders(token)))
	noteID := created["id"].(string)

	headers := authHeaders(token)
	headers["Content-Type"] = "text/markdown"
	upload := performRequest(t, env.app, http.MethodPut, "/api/content/"+noteID+"/payload", strings.NewReader("# Triangles"), headers)
	uploaded := decodeJSONMap(t, upload)

	if upload.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, upload.StatusCode)
	}
	if uploaded["contentUrl"] == nil {
		t.Fatal("expected contentUrl to be set after upload")
	}
	if size, ok := uploaded["size"].(float64); !ok || int(size) != len("# Triangles") {
		t.Fatalf("expected size %d, got %v", len("# Triangles"), uploaded["size"])
	}

	download := performRequest(t, env.app, http.MethodGet, "/api/content/"+noteID+"/payload", nil, authHeaders(token))
	if download.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, download.StatusCode)
	}
	defer download.Body.Close()
	buf := new(strings.Builder)
	if _, err := io.Copy(buf, download.Body); err != nil {
		t.Fatalf("failed reading payload body: %v", err)
	}
	if buf.String() != "# Triangles" {
		t.Fatalf("expected payload %q, got %q", "# Triangles", buf.String())
	}
}

func TestPayloadRejectedForDirectories(t *testing.T) {
	env := setupTestEnv(t)
	_, token := createTestUser(t, env, "alice@example.com")

	root := decodeJSONMap(t, performRequest(t, env.app, http.MethodGet, "/api/content/root", nil, authHeaders(token)))
	rootID := root["id"].(string)

	headers := authHeaders(token)
	headers["Content-Type"] = "text/markdown"
	resp := performRequest(t, env.app, http.MethodPut, "/api/content/"+rootID+"/payload", strings.NewReader("nope"), headers)
	body := decodeJSONMap(t, resp)
	assertErrorResponse(t, resp.StatusCode, body, http.StatusBadRequest, "Only notes carry a payload")
}

func TestGetContentOwnership(t *testing.T) {
	env := setupTestEnv(t)
	_, aliceToken := createTestUser(t, env, "alice@example.com")
	_, bobToken := createTestUser(t, env, "bob@example.com")

	aliceRoot := decodeJSONMap(t, performRequest(t, env.app, http.MethodGet, "/api/content/root", nil, authHeaders(aliceToken)))
	aliceRootID := aliceRoot["id"].(string)

	t.Run("owner can fetch", func(t *testing.T) {
		resp := performRequest(t, env.app, http.MethodGet, "/api/content/"+aliceRootID, nil, authHeaders(aliceToken))
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
		}
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		resp := performRequest(t, env.app, http.MethodGet, "/api/content/"+aliceRootID, nil, authHeaders(bobToken))
		body := decodeJSONMap(t, resp)
		assertErrorResponse(t, resp.StatusCode, body, http.StatusForbidden, "You do not own this content")
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		resp := performRequest(t, env.app, http.MethodGet, "/api/content/00000000-0000-0000-0000-000000000002", nil, authHeaders(aliceToken))
		body := decodeJSONMap(t, resp)
		assertErrorResponse(t, resp.StatusCode, body, http.StatusNotFound, "Content not found")
	})
}
