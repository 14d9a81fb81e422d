package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/classclarus/classroom-api/internal/database"
	"github.com/classclarus/classroom-api/internal/dto"
	"github.com/classclarus/classroom-api/internal/models"
	"github.com/classclarus/classroom-api/internal/repository"
	"github.com/classclarus/classroom-api/internal/services"
	"github.com/classclarus/classroom-api/internal/store"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type leaveTestEnv struct {
	db      *gorm.DB
	handler *LeaveHandler
}

func setupLeaveTestEnv(t *testing.T) leaveTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.MigrateDB(db))

	logger := zap.NewNop()
	userRepo := repository.NewUserRepository(db)
	classRepo := repository.NewClassRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)
	st := store.New(db)

	resolver := services.NewCodeResolver(orgRepo, classRepo, userRepo)
	guardians := services.NewGuardianService(userRepo, logger)
	memberships := services.NewMembershipService(resolver, guardians, classRepo, orgRepo, st, logger)
	handler := NewLeaveHandler(memberships, logger)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return leaveTestEnv{db: db, handler: handler}
}

func TestLeaveHandler_LeaveClass_RemovesAllRoles(t *testing.T) {
	env := setupLeaveTestEnv(t)

	owner := createJoinTestUser(t, env.db, "owner@example.com")
	user := createJoinTestUser(t, env.db, "multi@example.com")
	class := createJoinTestClass(t, env.db, owner.ID, "Math", "ABCDEF", "GHJKLM", "NPQRST")

	// Simultaneously teacher and admin on the same class.
	for _, role := range []models.Role{models.RoleTeacher, models.RoleAdmin} {
		require.NoError(t, env.db.Create(&models.ClassMembership{
			ClassID: class.ID,
			UserID:  user.ID,
			Role:    role,
		}).Error)
	}

	body, err := json.Marshal(map[string]uint64{"classId": class.ID})
	require.NoError(t, err)

	c, w := joinTestContext(http.MethodPost, "/api/leave/class", body, user.ID)
	env.handler.LeaveClass(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.LeaveResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.True(t, response.Success)
	require.Equal(t, "class", response.EntityType)
	require.Equal(t, class.ID, response.EntityID)

	// One call removes every role row, not one.
	var count int64
	require.NoError(t, env.db.Model(&models.ClassMembership{}).
		Where("class_id = ? AND user_id = ?", class.ID, user.ID).
		Count(&count).Error)
	require.Zero(t, count)
}

func TestLeaveHandler_LeaveClass_OwnerForbidden(t *testing.T) {
	env := setupLeaveTestEnv(t)

	owner := createJoinTestUser(t, env.db, "owner@example.com")
	member := createJoinTestUser(t, env.db, "member@example.com")
	class := createJoinTestClass(t, env.db, owner.ID, "Math", "ABCDEF", "GHJKLM", "NPQRST")

	require.NoError(t, env.db.Create(&models.ClassMembership{
		ClassID: class.ID,
		UserID:  member.ID,
		Role:    models.RoleStudent,
	}).Error)

	body, err := json.Marshal(map[string]uint64{"classId": class.ID})
	require.NoError(t, err)

	c, w := joinTestContext(http.MethodPost, "/api/leave/class", body, owner.ID)
	env.handler.LeaveClass(c)

	require.Equal(t, http.StatusForbidden, w.Code)

	// Zero write operations: class and roster intact.
	var count int64
	require.NoError(t, env.db.Model(&models.Class{}).Where("id = ?", class.ID).Count(&count).Error)
	require.EqualValues(t, 1, count)
	require.NoError(t, env.db.Model(&models.ClassMembership{}).
		Where("class_id = ?", class.ID).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestLeaveHandler_LeaveClass_NotAMember(t *testing.T) {
	env := setupLeaveTestEnv(t)

	owner := createJoinTestUser(t, env.db, "owner@example.com")
	stranger := createJoinTestUser(t, env.db, "stranger@example.com")
	class := createJoinTestClass(t, env.db, owner.ID, "Math", "ABCDEF", "GHJKLM", "NPQRST")

	body, err := json.Marshal(map[string]uint64{"classId": class.ID})
	require.NoError(t, err)

	c, w := joinTestContext(http.MethodPost, "/api/leave/class", body, stranger.ID)
	env.handler.LeaveClass(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestLeaveHandler_LeaveClass_UnknownClass(t *testing.T) {
	env := setupLeaveTestEnv(t)

	user := createJoinTestUser(t, env.db, "user@example.com")

	body, err := json.Marshal(map[string]uint64{"classId": 9999})
	require.NoError(t, err)

	c, w := joinTestContext(http.MethodPost, "/api/leave/class", body, user.ID)
	env.handler.LeaveClass(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestLeaveHandler_LeaveOrganization(t *testing.T) {
	env := setupLeaveTestEnv(t)

	owner := createJoinTestUser(t, env.db, "owner@example.com")
	user := createJoinTestUser(t, env.db, "teacher@example.com")
	org := createJoinTestOrganization(t, env.db, owner.ID, "District", "ZYXWVU")

	require.NoError(t, env.db.Create(&models.OrganizationMembership{
		OrganizationID: org.ID,
		UserID:         user.ID,
		Role:           models.RoleTeacher,
	}).Error)

	body, err := json.Marshal(map[string]uint64{"organizationId": org.ID})
	require.NoError(t, err)

	c, w := joinTestContext(http.MethodPost, "/api/leave/organization", body, user.ID)
	env.handler.LeaveOrganization(c)

	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, env.db.Model(&models.OrganizationMembership{}).
		Where("organization_id = ? AND user_id = ?", org.ID, user.ID).
		Count(&count).Error)
	require.Zero(t, count)
}

func TestLeaveHandler_LeaveOrganization_OwnerForbidden(t *testing.T) {
	env := setupLeaveTestEnv(t)

	owner := createJoinTestUser(t, env.db, "owner@example.com")
	org := createJoinTestOrganization(t, env.db, owner.ID, "District", "ZYXWVU")

	body, err := json.Marshal(map[string]uint64{"organizationId": org.ID})
	require.NoError(t, err)

	c, w := joinTestContext(http.MethodPost, "/api/leave/organization", body, owner.ID)
	env.handler.LeaveOrganization(c)

	require.Equal(t, http.StatusForbidden, w.Code)
}
