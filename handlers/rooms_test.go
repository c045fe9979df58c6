// Copyright (c) 2026 Jiho Seo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/moimlab/moim/models"
	"github.com/moimlab/moim/roomcode"
	"github.com/moimlab/moim/testutil"
)

func TestCreateRoom(t *testing.T) {
	db := testutil.SetupTestDB(t)

	cfg := testutil.GetTestConfig()
	handler := NewRoomHandler(db, cfg)

	req := testutil.MakeRequest("POST", "/rooms", nil, nil)
	w := httptest.NewRecorder()

	handler.CreateRoom(w, req)

	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.CreateRoomResponse
	testutil.AssertJSON(t, w, &resp)

	if !roomcode.Valid(resp.Room.Code) {
		t.Errorf("Expected a valid room code, got '%s'", resp.Room.Code)
	}
	if resp.ExpiresIn == "" {
		t.Error("Expected non-empty expires_in")
	}

	ttl := resp.Room.ExpiresAt.Sub(resp.Room.CreatedAt)
	if ttl != cfg.RoomTTL {
		t.Errorf("Expected TTL %v, got %v", cfg.RoomTTL, ttl)
	}

	// Verify room was created in database
	var code string
	err := db.QueryRow("SELECT code FROM room WHERE id = $1", resp.Room.ID).Scan(&code)
	if err != nil {
		t.Fatalf("Failed to query room: %v", err)
	}
	if code != resp.Room.Code {
		t.Errorf("Expected stored code '%s', got '%s'", resp.Room.Code, code)
	}
}

func TestCreateRoomWithCreator(t *testing.T) {
	db := testutil.SetupTestDB(t)

	handler := NewRoomHandler(db, testutil.GetTestConfig())

	body := map[string]string{"creator_user_id": "u1"}
	req := testutil.MakeRequest("POST", "/rooms", body, nil)
	w := httptest.NewRecorder()

	handler.CreateRoom(w, req)

	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.CreateRoomResponse
	testutil.AssertJSON(t, w, &resp)

	if resp.Room.CreatorUserID == nil || *resp.Room.CreatorUserID != "u1" {
		t.Error("Expected creator_user_id 'u1' on the created room")
	}
}

func TestGetRoom(t *testing.T) {
	db := testutil.SetupTestDB(t)

	handler := NewRoomHandler(db, testutil.GetTestConfig())

	roomID := testutil.CreateTestRoom(t, db, "RM2345")
	testutil.JoinTestUser(t, db, roomID, "u1", "Alice", "#FF5733", []string{"team"})
	testutil.JoinTestUser(t, db, roomID, "u2", "Bob", "#3357FF", nil)

	tests := []struct {
		name           string
		code           string
		expectedStatus int
	}{
		{"existing room", "RM2345", http.StatusOK},
		{"lowercase code is normalized", "rm2345", http.StatusOK},
		{"unknown room", "ZZZZ99", http.StatusNotFound},
		{"malformed code", "nope", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("GET", "/rooms/"+tt.code, nil, nil)
			req.SetPathValue("code", tt.code)
			w := httptest.NewRecorder()

			handler.GetRoom(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus == http.StatusOK {
				var resp models.RoomWithUsers
				testutil.AssertJSON(t, w, &resp)

				if resp.Room.ID != roomID {
					t.Errorf("Expected room id '%s', got '%s'", roomID, resp.Room.ID)
				}
				if len(resp.Users) != 2 {
					t.Fatalf("Expected 2 users, got %d", len(resp.Users))
				}
				if resp.Users[0].Name != "Alice" {
					t.Errorf("Expected first user 'Alice', got '%s'", resp.Users[0].Name)
				}
				if len(resp.Users[0].Tags) != 1 || resp.Users[0].Tags[0] != "team" {
					t.Errorf("Expected tags [team], got %v", resp.Users[0].Tags)
				}
				if resp.ExpiresIn == "" {
					t.Error("Expected non-empty expires_in")
				}
			}
		})
	}
}

func TestGetRoomExpired(t *testing.T) {
	db := testutil.SetupTestDB(t)

	handler := NewRoomHandler(db, testutil.GetTestConfig())

	testutil.CreateExpiredRoom(t, db, "GN2222")

	req := testutil.MakeRequest("GET", "/rooms/GN2222", nil, nil)
	req.SetPathValue("code", "GN2222")
	w := httptest.NewRecorder()

	handler.GetRoom(w, req)

	testutil.AssertStatus(t, w, http.StatusGone)
}

func TestJoinRoom(t *testing.T) {
	db := testutil.SetupTestDB(t)

	handler := NewRoomHandler(db, testutil.GetTestConfig())
	testutil.CreateTestRoom(t, db, "RM2345")

	tests := []struct {
		name           string
		requestBody    interface{}
		expectedStatus int
	}{
		{
			name: "valid join",
			requestBody: models.JoinRoomRequest{
				UserID: "u1",
				Name:   "Alice",
				Color:  "#FF5733",
				Tags:   []string{"team"},
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "missing user_id",
			requestBody: models.JoinRoomRequest{
				Name:  "Alice",
				Color: "#FF5733",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "missing name",
			requestBody: models.JoinRoomRequest{
				UserID: "u2",
				Color:  "#FF5733",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "name too long",
			requestBody: models.JoinRoomRequest{
				UserID: "u2",
				Name:   strings.Repeat("a", 51),
				Color:  "#FF5733",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "invalid color",
			requestBody: models.JoinRoomRequest{
				UserID: "u2",
				Name:   "Bob",
				Color:  "red",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "tag too long",
			requestBody: models.JoinRoomRequest{
				UserID: "u2",
				Name:   "Bob",
				Color:  "#3357FF",
				Tags:   []string{strings.Repeat("g", 21)},
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid JSON",
			requestBody:    "not json",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req *http.Request
			if str, ok := tt.requestBody.(string); ok {
				req = httptest.NewRequest("POST", "/rooms/RM2345/users", strings.NewReader(str))
			} else {
				req = testutil.MakeRequest("POST", "/rooms/RM2345/users", tt.requestBody, nil)
			}
			req.SetPathValue("code", "RM2345")
			w := httptest.NewRecorder()

			handler.JoinRoom(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}
}

func TestJoinRoomRejoin(t *testing.T) {
	db := testutil.SetupTestDB(t)

	handler := NewRoomHandler(db, testutil.GetTestConfig())
	roomID := testutil.CreateTestRoom(t, db, "RM2345")

	join := func(name string) *httptest.ResponseRecorder {
		req := testutil.MakeRequest("POST", "/rooms/RM2345/users", models.JoinRoomRequest{
			UserID: "u1",
			Name:   name,
			Color:  "#FF5733",
		}, nil)
		req.SetPathValue("code", "RM2345")
		w := httptest.NewRecorder()
		handler.JoinRoom(w, req)
		return w
	}

	w := join("Alice")
	testutil.AssertStatus(t, w, http.StatusCreated)

	// Rejoining with the same user_id refreshes the profile
	w = join("Alicia")
	testutil.AssertStatus(t, w, http.StatusOK)

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM room_user WHERE room_id = $1`, roomID).Scan(&count); err != nil {
		t.Fatalf("Failed to count users: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 roster row after rejoin, got %d", count)
	}

	var name string
	if err := db.QueryRow(`SELECT name FROM room_user WHERE room_id = $1 AND user_id = 'u1'`, roomID).Scan(&name); err != nil {
		t.Fatalf("Failed to query user: %v", err)
	}
	if name != "Alicia" {
		t.Errorf("Expected updated name 'Alicia', got '%s'", name)
	}
}

func TestUpdateUser(t *testing.T) {
	db := testutil.SetupTestDB(t)

	handler := NewRoomHandler(db, testutil.GetTestConfig())
	roomID := testutil.CreateTestRoom(t, db, "RM2345")
	testutil.JoinTestUser(t, db, roomID, "u1", "Alice", "#FF5733", nil)

	t.Run("successful update", func(t *testing.T) {
		req := testutil.MakeRequest("PUT", "/rooms/RM2345/users/u1", models.UpdateUserRequest{
			Name:  "Alice B",
			Color: "#33AA55",
			Tags:  []string{"team", "design"},
		}, nil)
		req.SetPathValue("code", "RM2345")
		req.SetPathValue("userID", "u1")
		w := httptest.NewRecorder()

		handler.UpdateUser(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)

		var resp models.RoomUser
		testutil.AssertJSON(t, w, &resp)

		if resp.Name != "Alice B" {
			t.Errorf("Expected name 'Alice B', got '%s'", resp.Name)
		}
		if len(resp.Tags) != 2 {
			t.Errorf("Expected 2 tags, got %v", resp.Tags)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		req := testutil.MakeRequest("PUT", "/rooms/RM2345/users/ghost", models.UpdateUserRequest{
			Name:  "Ghost",
			Color: "#000000",
		}, nil)
		req.SetPathValue("code", "RM2345")
		req.SetPathValue("userID", "ghost")
		w := httptest.NewRecorder()

		handler.UpdateUser(w, req)

		testutil.AssertStatus(t, w, http.StatusNotFound)
	})
}

func TestDeleteUser(t *testing.T) {
	db := testutil.SetupTestDB(t)

	handler := NewRoomHandler(db, testutil.GetTestConfig())
	roomID := testutil.CreateTestRoom(t, db, "RM2345")
	testutil.JoinTestUser(t, db, roomID, "u1", "Alice", "#FF5733", nil)
	testutil.AddTestSelection(t, db, roomID, "u1", "2026-09-01", false, "09:00", "12:00")

	req := testutil.MakeRequest("DELETE", "/rooms/RM2345/users/u1", nil, nil)
	req.SetPathValue("code", "RM2345")
	req.SetPathValue("userID", "u1")
	w := httptest.NewRecorder()

	handler.DeleteUser(w, req)

	testutil.AssertStatus(t, w, http.StatusNoContent)

	// Roster row and the user's selections are both gone
	var users, selections int
	if err := db.QueryRow(`SELECT COUNT(*) FROM room_user WHERE room_id = $1`, roomID).Scan(&users); err != nil {
		t.Fatalf("Failed to count users: %v", err)
	}
	if err := db.QueryRow(`SELECT COUNT(*) FROM time_selection WHERE room_id = $1`, roomID).Scan(&selections); err != nil {
		t.Fatalf("Failed to count selections: %v", err)
	}
	if users != 0 || selections != 0 {
		t.Errorf("Expected user and selections removed, got %d users, %d selections", users, selections)
	}

	// Removing again is a 404
	req = testutil.MakeRequest("DELETE", "/rooms/RM2345/users/u1", nil, nil)
	req.SetPathValue("code", "RM2345")
	req.SetPathValue("userID", "u1")
	w = httptest.NewRecorder()

	handler.DeleteUser(w, req)

	testutil.AssertStatus(t, w, http.StatusNotFound)
}
