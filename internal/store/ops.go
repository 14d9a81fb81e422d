package store

import (
	"time"

	"github.com/classclarus/classroom-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Link ops insert with ON CONFLICT DO NOTHING so that two racing joins at
// worst insert one row; replaying a committed join is a data-layer no-op.
// Unlink and delete ops are plain deletes; removing an absent row is a no-op.

type LinkClassRole struct {
	ClassID uint64
	UserID  uint64
	Role    models.Role
}

func (op LinkClassRole) Apply(tx *gorm.DB) error {
	m := models.ClassMembership{
		ClassID:  op.ClassID,
		UserID:   op.UserID,
		Role:     op.Role,
		JoinedAt: time.Now(),
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&m).Error
}

// UnlinkClassRoles removes every listed role the user holds on the class in
// one statement, so a multi-role leave is atomic with respect to concurrent
// writes touching the same class.
type UnlinkClassRoles struct {
	ClassID uint64
	UserID  uint64
	Roles   []models.Role
}

func (op UnlinkClassRoles) Apply(tx *gorm.DB) error {
	if len(op.Roles) == 0 {
		return nil
	}
	return tx.Where("class_id = ? AND user_id = ? AND role IN ?", op.ClassID, op.UserID, op.Roles).
		Delete(&models.ClassMembership{}).Error
}

type LinkOrgRole struct {
	OrganizationID uint64
	UserID         uint64
	Role           models.Role
}

func (op LinkOrgRole) Apply(tx *gorm.DB) error {
	m := models.OrganizationMembership{
		OrganizationID: op.OrganizationID,
		UserID:         op.UserID,
		Role:           op.Role,
		JoinedAt:       time.Now(),
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&m).Error
}

type UnlinkOrgRoles struct {
	OrganizationID uint64
	UserID         uint64
	Roles          []models.Role
}

func (op UnlinkOrgRoles) Apply(tx *gorm.DB) error {
	if len(op.Roles) == 0 {
		return nil
	}
	return tx.Where("organization_id = ? AND user_id = ? AND role IN ?", op.OrganizationID, op.UserID, op.Roles).
		Delete(&models.OrganizationMembership{}).Error
}

// LinkGuardian creates the symmetric guardian/child pair. One row carries both
// directions.
type LinkGuardian struct {
	GuardianID uint64
	StudentID  uint64
}

func (op LinkGuardian) Apply(tx *gorm.DB) error {
	l := models.GuardianLink{
		GuardianID: op.GuardianID,
		StudentID:  op.StudentID,
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&l).Error
}

type UnlinkGuardian struct {
	GuardianID uint64
	StudentID  uint64
}

func (op UnlinkGuardian) Apply(tx *gorm.DB) error {
	return tx.Where("guardian_id = ? AND student_id = ?", op.GuardianID, op.StudentID).
		Delete(&models.GuardianLink{}).Error
}

type UnlinkGroupStudent struct {
	GroupID uint64
	UserID  uint64
}

func (op UnlinkGroupStudent) Apply(tx *gorm.DB) error {
	return tx.Where("group_id = ? AND user_id = ?", op.GroupID, op.UserID).
		Delete(&models.GroupStudent{}).Error
}

type UnlinkTeamStudent struct {
	TeamID uint64
	UserID uint64
}

func (op UnlinkTeamStudent) Apply(tx *gorm.DB) error {
	return tx.Where("team_id = ? AND user_id = ?", op.TeamID, op.UserID).
		Delete(&models.TeamStudent{}).Error
}

// SetStudentGuardianCode is a single-field update, used when a joining student
// has no personal guardian code yet.
type SetStudentGuardianCode struct {
	UserID uint64
	Code   string
}

func (op SetStudentGuardianCode) Apply(tx *gorm.DB) error {
	return tx.Model(&models.User{}).Where("id = ?", op.UserID).
		Update("student_guardian_code", op.Code).Error
}

func deleteByIDs(tx *gorm.DB, model interface{}, ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}
	return tx.Where("id IN ?", ids).Delete(model).Error
}

type DeleteBehaviorLogs struct{ IDs []uint64 }

func (op DeleteBehaviorLogs) Apply(tx *gorm.DB) error {
	return deleteByIDs(tx, &models.BehaviorLog{}, op.IDs)
}

type DeleteRewardRedemptions struct{ IDs []uint64 }

func (op DeleteRewardRedemptions) Apply(tx *gorm.DB) error {
	return deleteByIDs(tx, &models.RewardRedemption{}, op.IDs)
}

type DeleteStudentExpectations struct{ IDs []uint64 }

func (op DeleteStudentExpectations) Apply(tx *gorm.DB) error {
	return deleteByIDs(tx, &models.StudentExpectation{}, op.IDs)
}

type DeleteClassRosterEntries struct{ IDs []uint64 }

func (op DeleteClassRosterEntries) Apply(tx *gorm.DB) error {
	return deleteByIDs(tx, &models.ClassRosterEntry{}, op.IDs)
}

type DeleteDashboardPreferences struct{ IDs []uint64 }

func (op DeleteDashboardPreferences) Apply(tx *gorm.DB) error {
	return deleteByIDs(tx, &models.DashboardPreference{}, op.IDs)
}

type DeleteTermsAcceptances struct{ IDs []uint64 }

func (op DeleteTermsAcceptances) Apply(tx *gorm.DB) error {
	return deleteByIDs(tx, &models.TermsAcceptance{}, op.IDs)
}

type DeletePendingMembers struct{ IDs []uint64 }

func (op DeletePendingMembers) Apply(tx *gorm.DB) error {
	return deleteByIDs(tx, &models.PendingMember{}, op.IDs)
}

type DeleteUserFiles struct{ IDs []uint64 }

func (op DeleteUserFiles) Apply(tx *gorm.DB) error {
	return deleteByIDs(tx, &models.UserFile{}, op.IDs)
}

// DeleteClass removes a class and cascades to everything scoped under it:
// memberships, groups and teams with their student links, child records,
// pending members and the class's dashboard preferences.
type DeleteClass struct{ ID uint64 }

func (op DeleteClass) Apply(tx *gorm.DB) error {
	var groupIDs []uint64
	if err := tx.Model(&models.Group{}).Where("class_id = ?", op.ID).
		Pluck("id", &groupIDs).Error; err != nil {
		return err
	}
	if len(groupIDs) > 0 {
		var teamIDs []uint64
		if err := tx.Model(&models.Team{}).Where("group_id IN ?", groupIDs).
			Pluck("id", &teamIDs).Error; err != nil {
			return err
		}
		if len(teamIDs) > 0 {
			if err := tx.Where("team_id IN ?", teamIDs).Delete(&models.TeamStudent{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", teamIDs).Delete(&models.Team{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("group_id IN ?", groupIDs).Delete(&models.GroupStudent{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id IN ?", groupIDs).Delete(&models.Group{}).Error; err != nil {
			return err
		}
	}

	for _, model := range []interface{}{
		&models.ClassMembership{},
		&models.BehaviorLog{},
		&models.RewardRedemption{},
		&models.StudentExpectation{},
		&models.ClassRosterEntry{},
		&models.DashboardPreference{},
		&models.PendingMember{},
	} {
		if err := tx.Where("class_id = ?", op.ID).Delete(model).Error; err != nil {
			return err
		}
	}

	return tx.Where("id = ?", op.ID).Delete(&models.Class{}).Error
}

// DeleteOrganization removes an organization, its join code, its memberships
// and every class it contains (via the class cascade).
type DeleteOrganization struct{ ID uint64 }

func (op DeleteOrganization) Apply(tx *gorm.DB) error {
	var classIDs []uint64
	if err := tx.Model(&models.Class{}).Where("organization_id = ?", op.ID).
		Pluck("id", &classIDs).Error; err != nil {
		return err
	}
	for _, classID := range classIDs {
		if err := (DeleteClass{ID: classID}).Apply(tx); err != nil {
			return err
		}
	}

	if err := tx.Where("organization_id = ?", op.ID).Delete(&models.OrgJoinCode{}).Error; err != nil {
		return err
	}
	if err := tx.Where("organization_id = ?", op.ID).Delete(&models.OrganizationMembership{}).Error; err != nil {
		return err
	}
	return tx.Where("id = ?", op.ID).Delete(&models.Organization{}).Error
}

type DeleteUser struct{ ID uint64 }

func (op DeleteUser) Apply(tx *gorm.DB) error {
	return tx.Where("id = ?", op.ID).Delete(&models.User{}).Error
}
