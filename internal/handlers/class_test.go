package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/classclarus/classroom-api/internal/database"
	"github.com/classclarus/classroom-api/internal/dto"
	"github.com/classclarus/classroom-api/internal/joincode"
	"github.com/classclarus/classroom-api/internal/models"
	"github.com/classclarus/classroom-api/internal/repository"
	"github.com/classclarus/classroom-api/internal/services"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type classTestEnv struct {
	db      *gorm.DB
	handler *ClassHandler
}

func setupClassTestEnv(t *testing.T) classTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.MigrateDB(db))

	classRepo := repository.NewClassRepository(db)
	classService := services.NewClassService(classRepo)
	handler := NewClassHandler(classService, zap.NewNop())

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return classTestEnv{db: db, handler: handler}
}

func TestClassHandler_CreateClass(t *testing.T) {
	env := setupClassTestEnv(t)

	user := createJoinTestUser(t, env.db, "owner@example.com")

	body, err := json.Marshal(map[string]string{"name": "Homeroom"})
	require.NoError(t, err)

	c, w := joinTestContext(http.MethodPost, "/api/classes", body, user.ID)
	env.handler.CreateClass(c)

	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.ClassDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "Homeroom", response.Name)
	require.Equal(t, user.ID, response.OwnerID)

	// Three distinct valid codes, one per joinable role.
	codes := []string{response.StudentCode, response.TeacherCode, response.GuardianCode}
	seen := make(map[string]bool)
	for _, code := range codes {
		require.True(t, joincode.Valid(code))
		require.False(t, seen[code], "duplicate code %q", code)
		seen[code] = true
	}
}

func TestClassHandler_ListClasses_CodesOnlyForOwner(t *testing.T) {
	env := setupClassTestEnv(t)

	owner := createJoinTestUser(t, env.db, "owner@example.com")
	user := createJoinTestUser(t, env.db, "member@example.com")

	owned := createJoinTestClass(t, env.db, user.ID, "Owned Class", "AAAAAA", "BBBBBB", "CCCCCC")
	joined := createJoinTestClass(t, env.db, owner.ID, "Joined Class", "DDDDDD", "EEEEEE", "FFFFFF")
	require.NoError(t, env.db.Create(&models.ClassMembership{
		ClassID: joined.ID,
		UserID:  user.ID,
		Role:    models.RoleStudent,
	}).Error)

	c, w := joinTestContext(http.MethodGet, "/api/classes", nil, user.ID)
	env.handler.ListClasses(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Classes []dto.ClassWithRoleDTO `json:"classes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Classes, 2)

	require.Equal(t, owned.ID, response.Classes[0].ID)
	require.Equal(t, models.RoleOwner, response.Classes[0].Role)
	require.NotEmpty(t, response.Classes[0].StudentCode)

	// Join codes are never exposed to plain members.
	require.Equal(t, joined.ID, response.Classes[1].ID)
	require.Equal(t, models.RoleStudent, response.Classes[1].Role)
	require.Empty(t, response.Classes[1].StudentCode)
	require.Empty(t, response.Classes[1].TeacherCode)
	require.Empty(t, response.Classes[1].GuardianCode)
}
