package handlers

import (
	"net/http"
	"testing"
)

func TestGetUserProfile(t *testing.T) {
	r, tokens := setupTest(t)

	johnID := createTestUser(t, "johndoe")
	sarahID := createTestUser(t, "sarahdoe")
	johnToken := issueToken(t, tokens, johnID)
	sarahToken := issueToken(t, tokens, sarahID)

	wantStatus(t, doRequest(t, r, http.MethodGet, "/users/no-such-user", "", nil), http.StatusNotFound)

	// Establish one follow edge and one post, then check the counters.
	wantStatus(t, doRequest(t, r, http.MethodPost, "/user/"+sarahID+"/follow-request", johnToken, nil), http.StatusOK)
	wantStatus(t, doRequest(t, r, http.MethodPost, "/user/"+johnID+"/follow-respond/accepted", sarahToken, nil), http.StatusOK)
	createTestPost(t, r, sarahToken, "hello")

	w := doRequest(t, r, http.MethodGet, "/users/"+sarahID, "", nil)
	wantStatus(t, w, http.StatusOK)

	user := decodeBody(t, w)["user"].(map[string]interface{})
	if user["follower_count"].(float64) != 1 {
		t.Fatalf("follower_count = %v, want 1", user["follower_count"])
	}
	if user["following_count"].(float64) != 0 {
		t.Fatalf("following_count = %v, want 0", user["following_count"])
	}
	if user["post_count"].(float64) != 1 {
		t.Fatalf("post_count = %v, want 1", user["post_count"])
	}
}

func TestSearchUsers(t *testing.T) {
	r, _ := setupTest(t)

	johnID := createTestUser(t, "johndoe")
	createTestUser(t, "sarahdoe")

	wantStatus(t, doRequest(t, r, http.MethodGet, "/users/search", "", nil), http.StatusBadRequest)

	ids := listedUserIDs(t, doRequest(t, r, http.MethodGet, "/users/search?q=john", "", nil))
	if !containsID(ids, johnID) {
		t.Fatalf("search results = %v, want to contain %s", ids, johnID)
	}

	all := listedUserIDs(t, doRequest(t, r, http.MethodGet, "/users", "", nil))
	if len(all) != 2 {
		t.Fatalf("users = %d, want 2", len(all))
	}
}
