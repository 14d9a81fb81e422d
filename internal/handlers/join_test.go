package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/classclarus/classroom-api/internal/constants"
	"github.com/classclarus/classroom-api/internal/database"
	"github.com/classclarus/classroom-api/internal/dto"
	"github.com/classclarus/classroom-api/internal/joincode"
	"github.com/classclarus/classroom-api/internal/models"
	"github.com/classclarus/classroom-api/internal/repository"
	"github.com/classclarus/classroom-api/internal/services"
	"github.com/classclarus/classroom-api/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type joinTestEnv struct {
	db          *gorm.DB
	handler     *JoinHandler
	memberships *services.MembershipService
}

func setupJoinTestEnv(t *testing.T) joinTestEnv {
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
	handler := NewJoinHandler(memberships, logger)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return joinTestEnv{
		db:          db,
		handler:     handler,
		memberships: memberships,
	}
}

func joinTestContext(method, url string, body []byte, userID uint64) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(constants.ContextKeyUserID, userID)

	return c, w
}

func createJoinTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	user := &models.User{
		Email:        email,
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: "hashed",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createJoinTestClass(t *testing.T, db *gorm.DB, ownerID uint64, name, studentCode, teacherCode, guardianCode string) *models.Class {
	class := &models.Class{
		Name:         name,
		OwnerID:      ownerID,
		StudentCode:  studentCode,
		TeacherCode:  teacherCode,
		GuardianCode: guardianCode,
	}
	require.NoError(t, db.Create(class).Error)
	return class
}

func createJoinTestOrganization(t *testing.T, db *gorm.DB, ownerID uint64, name, code string) *models.Organization {
	org := &models.Organization{Name: name, OwnerID: ownerID}
	require.NoError(t, db.Create(org).Error)
	require.NoError(t, db.Create(&models.OrgJoinCode{Code: code, OrganizationID: org.ID}).Error)
	return org
}

func TestJoinHandler_JoinClass_AsStudent(t *testing.T) {
	env := setupJoinTestEnv(t)

	owner := createJoinTestUser(t, env.db, "owner@example.com")
	student := createJoinTestUser(t, env.db, "student@example.com")
	guardian := createJoinTestUser(t, env.db, "guardian@example.com")
	class := createJoinTestClass(t, env.db, owner.ID, "Math", "ABCDEF", "GHJKLM", "NPQRST")

	// Pre-existing guardian of the joining student.
	require.NoError(t, env.db.Create(&models.GuardianLink{
		GuardianID: guardian.ID,
		StudentID:  student.ID,
	}).Error)

	// Lowercase with surrounding whitespace exercises normalization.
	body, err := json.Marshal(map[string]string{"code": "  abcdef "})
	require.NoError(t, err)

	c, w := joinTestContext(http.MethodPost, "/api/join/class", body, student.ID)
	env.handler.JoinClass(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.JoinResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.True(t, response.Success)
	require.Equal(t, "class", response.EntityType)
	require.Equal(t, class.ID, response.EntityID)
	require.Equal(t, models.RoleStudent, response.Role)

	var membership models.ClassMembership
	require.NoError(t, env.db.Where("class_id = ? AND user_id = ? AND role = ?",
		class.ID, student.ID, models.RoleStudent).First(&membership).Error)

	// The join assigns the student a personal guardian code.
	var fresh models.User
	require.NoError(t, env.db.First(&fresh, student.ID).Error)
	require.NotNil(t, fresh.StudentGuardianCode)
	require.True(t, joincode.Valid(*fresh.StudentGuardianCode))

	// The pre-existing guardian landed on the class roster in the same commit.
	var guardianMembership models.ClassMembership
	require.NoError(t, env.db.Where("class_id = ? AND user_id = ? AND role = ?",
		class.ID, guardian.ID, models.RoleGuardian).First(&guardianMembership).Error)
}

func TestJoinHandler_Join_IdempotentThenConflict(t *testing.T) {
	env := setupJoinTestEnv(t)

	owner := createJoinTestUser(t, env.db, "owner@example.com")
	user := createJoinTestUser(t, env.db, "teacher@example.com")
	org := createJoinTestOrganization(t, env.db, owner.ID, "District", "ZYXWVU")

	body, err := json.Marshal(map[string]string{"code": "ZYXWVU"})
	require.NoError(t, err)

	c, w := joinTestContext(http.MethodPost, "/api/join", body, user.ID)
	env.handler.Join(c)
	require.Equal(t, http.StatusOK, w.Code)

	var response dto.JoinResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "organization", response.EntityType)
	require.Equal(t, models.RoleTeacher, response.Role)

	// Second join hits the already-member branch with entity detail.
	c, w = joinTestContext(http.MethodPost, "/api/join", body, user.ID)
	env.handler.Join(c)
	require.Equal(t, http.StatusConflict, w.Code)

	var conflict map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &conflict))
	require.Equal(t, "Already a member", conflict["error"])
	require.Equal(t, "organization", conflict["entityType"])
	require.Equal(t, float64(org.ID), conflict["entityId"])
	require.Equal(t, string(models.RoleTeacher), conflict["role"])

	var count int64
	require.NoError(t, env.db.Model(&models.OrganizationMembership{}).
		Where("organization_id = ? AND user_id = ?", org.ID, user.ID).
		Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestJoinHandler_Join_OwnerPrecedence(t *testing.T) {
	env := setupJoinTestEnv(t)

	owner := createJoinTestUser(t, env.db, "owner@example.com")
	class := createJoinTestClass(t, env.db, owner.ID, "Science", "ABCDEF", "GHJKLM", "NPQRST")

	body, err := json.Marshal(map[string]string{"code": class.TeacherCode})
	require.NoError(t, err)

	c, w := joinTestContext(http.MethodPost, "/api/join", body, owner.ID)
	env.handler.Join(c)

	require.Equal(t, http.StatusConflict, w.Code)

	var conflict map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &conflict))
	require.Equal(t, string(models.RoleOwner), conflict["role"])

	var count int64
	require.NoError(t, env.db.Model(&models.ClassMembership{}).
		Where("class_id = ?", class.ID).Count(&count).Error)
	require.Zero(t, count)
}

func TestJoinHandler_JoinClass_GuardianCodeRequiresSelection(t *testing.T) {
	env := setupJoinTestEnv(t)

	owner := createJoinTestUser(t, env.db, "owner@example.com")
	student := createJoinTestUser(t, env.db, "student@example.com")
	guardian := createJoinTestUser(t, env.db, "guardian@example.com")

	code := "QQQQQQ"
	require.NoError(t, env.db.Model(&models.User{}).Where("id = ?", student.ID).
		Update("student_guardian_code", code).Error)

	classA := createJoinTestClass(t, env.db, owner.ID, "Math", "AAAAAA", "BBBBBB", "CCCCCC")
	classB := createJoinTestClass(t, env.db, owner.ID, "Science", "DDDDDD", "EEEEEE", "FFFFFF")
	for _, classID := range []uint64{classA.ID, classB.ID} {
		require.NoError(t, env.db.Create(&models.ClassMembership{
			ClassID: classID,
			UserID:  student.ID,
			Role:    models.RoleStudent,
		}).Error)
	}

	body, err := json.Marshal(map[string]string{"code": code})
	require.NoError(t, err)

	c, w := joinTestContext(http.MethodPost, "/api/join/class", body, guardian.ID)
	env.handler.JoinClass(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.ClassSelectionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.False(t, response.Success)
	require.True(t, response.RequiresClassSelection)
	require.Len(t, response.Classes, 2)

	// Disambiguation writes nothing.
	var count int64
	require.NoError(t, env.db.Model(&models.ClassMembership{}).
		Where("user_id = ?", guardian.ID).Count(&count).Error)
	require.Zero(t, count)
	require.NoError(t, env.db.Model(&models.GuardianLink{}).
		Where("guardian_id = ?", guardian.ID).Count(&count).Error)
	require.Zero(t, count)

	// Resubmitting with an explicit selection commits the join.
	body, err = json.Marshal(map[string]interface{}{
		"code":             code,
		"selectedClassIds": []uint64{classA.ID, classB.ID},
	})
	require.NoError(t, err)

	c, w = joinTestContext(http.MethodPost, "/api/join/class", body, guardian.ID)
	env.handler.JoinClass(c)

	require.Equal(t, http.StatusOK, w.Code)

	var joined dto.JoinResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &joined))
	require.True(t, joined.Success)
	require.Equal(t, models.RoleGuardian, joined.Role)
	require.ElementsMatch(t, []uint64{classA.ID, classB.ID}, joined.ClassIDs)

	require.NoError(t, env.db.Model(&models.ClassMembership{}).
		Where("user_id = ? AND role = ?", guardian.ID, models.RoleGuardian).
		Count(&count).Error)
	require.EqualValues(t, 2, count)

	var link models.GuardianLink
	require.NoError(t, env.db.Where("guardian_id = ? AND student_id = ?",
		guardian.ID, student.ID).First(&link).Error)
}

func TestJoinHandler_JoinClass_GuardianCodeUnknownSelection(t *testing.T) {
	env := setupJoinTestEnv(t)

	owner := createJoinTestUser(t, env.db, "owner@example.com")
	student := createJoinTestUser(t, env.db, "student@example.com")
	guardian := createJoinTestUser(t, env.db, "guardian@example.com")

	code := "QQQQQQ"
	require.NoError(t, env.db.Model(&models.User{}).Where("id = ?", student.ID).
		Update("student_guardian_code", code).Error)

	class := createJoinTestClass(t, env.db, owner.ID, "Math", "AAAAAA", "BBBBBB", "CCCCCC")
	require.NoError(t, env.db.Create(&models.ClassMembership{
		ClassID: class.ID,
		UserID:  student.ID,
		Role:    models.RoleStudent,
	}).Error)

	body, err := json.Marshal(map[string]interface{}{
		"code":             code,
		"selectedClassIds": []uint64{class.ID + 100},
	})
	require.NoError(t, err)

	c, w := joinTestContext(http.MethodPost, "/api/join/class", body, guardian.ID)
	env.handler.JoinClass(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestJoinHandler_JoinClass_GuardianCodeNoClasses(t *testing.T) {
	env := setupJoinTestEnv(t)

	student := createJoinTestUser(t, env.db, "student@example.com")
	guardian := createJoinTestUser(t, env.db, "guardian@example.com")

	code := "QQQQQQ"
	require.NoError(t, env.db.Model(&models.User{}).Where("id = ?", student.ID).
		Update("student_guardian_code", code).Error)

	body, err := json.Marshal(map[string]string{"code": code})
	require.NoError(t, err)

	c, w := joinTestContext(http.MethodPost, "/api/join/class", body, guardian.ID)
	env.handler.JoinClass(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestJoinHandler_Join_InvalidCodeFormat(t *testing.T) {
	env := setupJoinTestEnv(t)
	user := createJoinTestUser(t, env.db, "user@example.com")

	for _, code := range []string{"ABC", "ABCDEFG", "ABCDE1", "ABCDEO"} {
		body, err := json.Marshal(map[string]string{"code": code})
		require.NoError(t, err)

		c, w := joinTestContext(http.MethodPost, "/api/join", body, user.ID)
		env.handler.Join(c)
		require.Equal(t, http.StatusBadRequest, w.Code, "code %q", code)
	}
}

func TestJoinHandler_Join_CodeNotFound(t *testing.T) {
	env := setupJoinTestEnv(t)
	user := createJoinTestUser(t, env.db, "user@example.com")

	body, err := json.Marshal(map[string]string{"code": "ABCDEF"})
	require.NoError(t, err)

	c, w := joinTestContext(http.MethodPost, "/api/join", body, user.ID)
	env.handler.Join(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestJoinHandler_JoinOrganization_AlwaysTeacher(t *testing.T) {
	env := setupJoinTestEnv(t)

	owner := createJoinTestUser(t, env.db, "owner@example.com")
	user := createJoinTestUser(t, env.db, "user@example.com")
	org := createJoinTestOrganization(t, env.db, owner.ID, "District", "ZYXWVU")

	body, err := json.Marshal(map[string]string{"code": "zyxwvu"})
	require.NoError(t, err)

	c, w := joinTestContext(http.MethodPost, "/api/join/organization", body, user.ID)
	env.handler.JoinOrganization(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.JoinResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "organization", response.EntityType)
	require.Equal(t, org.ID, response.EntityID)
	require.Equal(t, models.RoleTeacher, response.Role)
}

func TestJoinHandler_JoinOrganization_ClassCodeRejected(t *testing.T) {
	env := setupJoinTestEnv(t)

	owner := createJoinTestUser(t, env.db, "owner@example.com")
	user := createJoinTestUser(t, env.db, "user@example.com")
	class := createJoinTestClass(t, env.db, owner.ID, "Math", "ABCDEF", "GHJKLM", "NPQRST")

	body, err := json.Marshal(map[string]string{"code": class.StudentCode})
	require.NoError(t, err)

	// The organization endpoint never falls through to class codes.
	c, w := joinTestContext(http.MethodPost, "/api/join/organization", body, user.ID)
	env.handler.JoinOrganization(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}
