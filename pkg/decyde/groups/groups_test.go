package groups

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ross-mclain-br/decyde/pkg/decyde/auth"
	"github.com/ross-mclain-br/decyde/pkg/decyde/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	models.AutoMigrate(db)
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) models.User {
	hash, _ := auth.HashPassword("password123")
	user := models.User{
		Email:        email,
		PasswordHash: hash,
		Name:         "Test User",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

func setupTestRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := NewHandler(db)

	groups := r.Group("/groups")
	groups.Use(auth.AuthMiddleware())
	handler.RegisterRoutes(groups)
	handler.RegisterMemberRoutes(groups)

	return r
}

func getAuthHeader(user models.User) string {
	token, _ := auth.GenerateToken(user.ID, user.Email)
	return "Bearer " + token
}

func TestCreateGroup(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "test@example.com")

	body := CreateGroupRequest{
		Name:        "Movie Night",
		Description: "Friday picks",
		Color:       "#ff6b6b",
	}
	jsonBody, _ := json.Marshal(body)

	req, _ := http.NewRequest("POST", "/groups", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", getAuthHeader(user))
	resp := httptest.NewRecorder()

	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var response GroupResponse
	json.Unmarshal(resp.Body.Bytes(), &response)

	if response.Name != "Movie Night" {
		t.Errorf("Expected name 'Movie Night', got %s", response.Name)
	}
	if response.OwnerID != user.ID {
		t.Errorf("Expected owner %d, got %d", user.ID, response.OwnerID)
	}

	// Group creation inserts the owner's membership in the same transaction
	var membership models.UserGroup
	if err := db.Where("user_id = ? AND group_id = ?", user.ID, response.ID).First(&membership).Error; err != nil {
		t.Errorf("Expected owner membership to exist: %v", err)
	}
}

func TestListGroups(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "test@example.com")

	group := models.Group{OwnerID: user.ID, Name: "Movie Night"}
	db.Create(&group)
	db.Create(&models.UserGroup{UserID: user.ID, GroupID: group.ID})

	req, _ := http.NewRequest("GET", "/groups", nil)
	req.Header.Set("Authorization", getAuthHeader(user))
	resp := httptest.NewRecorder()

	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var groups []GroupResponse
	json.Unmarshal(resp.Body.Bytes(), &groups)

	if len(groups) != 1 {
		t.Errorf("Expected 1 group, got %d", len(groups))
	}
}

func TestGetGroupNotMember(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "test@example.com")
	owner := createTestUser(t, db, "owner@example.com")

	// Create group without adding user as member
	group := models.Group{OwnerID: owner.ID, Name: "Private Group"}
	db.Create(&group)

	req, _ := http.NewRequest("GET", fmt.Sprintf("/groups/%d", group.ID), nil)
	req.Header.Set("Authorization", getAuthHeader(user))
	resp := httptest.NewRecorder()

	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", resp.Code)
	}
}

func TestUpdateGroup(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "test@example.com")

	group := models.Group{OwnerID: user.ID, Name: "Movie Night"}
	db.Create(&group)
	db.Create(&models.UserGroup{UserID: user.ID, GroupID: group.ID})

	body := UpdateGroupRequest{Name: "Series Night", Color: "#1e90ff"}
	jsonBody, _ := json.Marshal(body)

	req, _ := http.NewRequest("PUT", fmt.Sprintf("/groups/%d", group.ID), bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", getAuthHeader(user))
	resp := httptest.NewRecorder()

	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var response GroupResponse
	json.Unmarshal(resp.Body.Bytes(), &response)

	if response.Name != "Series Night" {
		t.Errorf("Expected name 'Series Night', got %s", response.Name)
	}
	if response.Color != "#1e90ff" {
		t.Errorf("Expected color '#1e90ff', got %s", response.Color)
	}
}

func TestUpdateGroupNotOwner(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	owner := createTestUser(t, db, "owner@example.com")
	member := createTestUser(t, db, "member@example.com")

	group := models.Group{OwnerID: owner.ID, Name: "Movie Night"}
	db.Create(&group)
	db.Create(&models.UserGroup{UserID: owner.ID, GroupID: group.ID})
	db.Create(&models.UserGroup{UserID: member.ID, GroupID: group.ID})

	body := UpdateGroupRequest{Name: "Hijacked"}
	jsonBody, _ := json.Marshal(body)

	req, _ := http.NewRequest("PUT", fmt.Sprintf("/groups/%d", group.ID), bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", getAuthHeader(member))
	resp := httptest.NewRecorder()

	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", resp.Code)
	}
}

func TestListMembers(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	owner := createTestUser(t, db, "owner@example.com")
	member := createTestUser(t, db, "member@example.com")

	group := models.Group{OwnerID: owner.ID, Name: "Movie Night"}
	db.Create(&group)
	db.Create(&models.UserGroup{UserID: owner.ID, GroupID: group.ID})
	db.Create(&models.UserGroup{UserID: member.ID, GroupID: group.ID})

	req, _ := http.NewRequest("GET", fmt.Sprintf("/groups/%d/members", group.ID), nil)
	req.Header.Set("Authorization", getAuthHeader(owner))
	resp := httptest.NewRecorder()

	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var members []MemberResponse
	json.Unmarshal(resp.Body.Bytes(), &members)

	if len(members) != 2 {
		t.Errorf("Expected 2 members, got %d", len(members))
	}
	ownerCount := 0
	for _, m := range members {
		if m.IsOwner {
			ownerCount++
		}
	}
	if ownerCount != 1 {
		t.Errorf("Expected exactly 1 owner flag, got %d", ownerCount)
	}
}

func TestRemoveMember(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	owner := createTestUser(t, db, "owner@example.com")
	member := createTestUser(t, db, "member@example.com")

	group := models.Group{OwnerID: owner.ID, Name: "Movie Night"}
	db.Create(&group)
	db.Create(&models.UserGroup{UserID: owner.ID, GroupID: group.ID})
	db.Create(&models.UserGroup{UserID: member.ID, GroupID: group.ID})

	req, _ := http.NewRequest("DELETE", fmt.Sprintf("/groups/%d/members/%d", group.ID, member.ID), nil)
	req.Header.Set("Authorization", getAuthHeader(owner))
	resp := httptest.NewRecorder()

	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestMemberCanLeave(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	owner := createTestUser(t, db, "owner@example.com")
	member := createTestUser(t, db, "member@example.com")

	group := models.Group{OwnerID: owner.ID, Name: "Movie Night"}
	db.Create(&group)
	db.Create(&models.UserGroup{UserID: owner.ID, GroupID: group.ID})
	db.Create(&models.UserGroup{UserID: member.ID, GroupID: group.ID})

	req, _ := http.NewRequest("DELETE", fmt.Sprintf("/groups/%d/members/%d", group.ID, member.ID), nil)
	req.Header.Set("Authorization", getAuthHeader(member))
	resp := httptest.NewRecorder()

	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestCannotRemoveOwner(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	owner := createTestUser(t, db, "owner@example.com")

	group := models.Group{OwnerID: owner.ID, Name: "Movie Night"}
	db.Create(&group)
	db.Create(&models.UserGroup{UserID: owner.ID, GroupID: group.ID})

	req, _ := http.NewRequest("DELETE", fmt.Sprintf("/groups/%d/members/%d", group.ID, owner.ID), nil)
	req.Header.Set("Authorization", getAuthHeader(owner))
	resp := httptest.NewRecorder()

	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d: %s", resp.Code, resp.Body.String())
	}
}
