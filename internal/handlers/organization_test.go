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

type organizationTestEnv struct {
	db         *gorm.DB
	handler    *OrganizationHandler
	orgService *services.OrganizationService
}

func setupOrganizationTestEnv(t *testing.T) organizationTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.MigrateDB(db))

	orgRepo := repository.NewOrganizationRepository(db)
	orgService := services.NewOrganizationService(orgRepo)
	handler := NewOrganizationHandler(orgService, zap.NewNop())

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return organizationTestEnv{
		db:         db,
		handler:    handler,
		orgService: orgService,
	}
}

func TestOrganizationHandler_CreateOrganization(t *testing.T) {
	env := setupOrganizationTestEnv(t)

	user := createJoinTestUser(t, env.db, "owner@example.com")

	body, err := json.Marshal(map[string]string{"name": "New District"})
	require.NoError(t, err)

	c, w := joinTestContext(http.MethodPost, "/api/organizations", body, user.ID)
	env.handler.CreateOrganization(c)

	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.OrganizationDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "New District", response.Name)
	require.Equal(t, user.ID, response.OwnerID)
	require.True(t, joincode.Valid(response.JoinCode))
}

func TestOrganizationHandler_CreateOrganization_EmptyName(t *testing.T) {
	env := setupOrganizationTestEnv(t)

	user := createJoinTestUser(t, env.db, "owner@example.com")

	body, err := json.Marshal(map[string]string{"name": "   "})
	require.NoError(t, err)

	c, w := joinTestContext(http.MethodPost, "/api/organizations", body, user.ID)
	env.handler.CreateOrganization(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrganizationHandler_ListOrganizations(t *testing.T) {
	env := setupOrganizationTestEnv(t)

	owner := createJoinTestUser(t, env.db, "owner@example.com")
	user := createJoinTestUser(t, env.db, "member@example.com")

	_, err := env.orgService.CreateOrganization(services.CreateOrganizationInput{
		Name:    "Owned District",
		OwnerID: user.ID,
	})
	require.NoError(t, err)

	joined, err := env.orgService.CreateOrganization(services.CreateOrganizationInput{
		Name:    "Joined District",
		OwnerID: owner.ID,
	})
	require.NoError(t, err)
	require.NoError(t, env.db.Create(&models.OrganizationMembership{
		OrganizationID: joined.ID,
		UserID:         user.ID,
		Role:           models.RoleTeacher,
	}).Error)

	c, w := joinTestContext(http.MethodGet, "/api/organizations", nil, user.ID)
	env.handler.ListOrganizations(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Organizations []dto.OrganizationWithRoleDTO `json:"organizations"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Organizations, 2)

	// Owned first, tagged with the display-only owner role.
	require.Equal(t, "Owned District", response.Organizations[0].Name)
	require.Equal(t, models.RoleOwner, response.Organizations[0].Role)
	require.Equal(t, "Joined District", response.Organizations[1].Name)
	require.Equal(t, models.RoleTeacher, response.Organizations[1].Role)
}
