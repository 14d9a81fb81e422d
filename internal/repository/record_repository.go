package repository

import (
	"github.com/classclarus/classroom-api/internal/models"
	"gorm.io/gorm"
)

// GormRecordRepository is a GORM implementation of RecordRepository
type GormRecordRepository struct {
	db *gorm.DB
}

// NewRecordRepository creates a new RecordRepository
func NewRecordRepository(db *gorm.DB) RecordRepository {
	return &GormRecordRepository{db: db}
}

// BehaviorLogsOf lists behavior logs where the user is subject or author
func (r *GormRecordRepository) BehaviorLogsOf(userID uint64) ([]models.BehaviorLog, error) {
	var logs []models.BehaviorLog
	err := r.db.Where("student_id = ? OR created_by_id = ?", userID, userID).
		Find(&logs).Error
	return logs, err
}

// RewardRedemptionsOf lists redemptions where the user is subject or author
func (r *GormRecordRepository) RewardRedemptionsOf(userID uint64) ([]models.RewardRedemption, error) {
	var redemptions []models.RewardRedemption
	err := r.db.Where("student_id = ? OR created_by_id = ?", userID, userID).
		Find(&redemptions).Error
	return redemptions, err
}

// StudentExpectationsOf lists expectations where the user is the subject
func (r *GormRecordRepository) StudentExpectationsOf(userID uint64) ([]models.StudentExpectation, error) {
	var expectations []models.StudentExpectation
	err := r.db.Where("student_id = ?", userID).Find(&expectations).Error
	return expectations, err
}

// ClassRosterEntriesOf lists roster entries where the user is the subject
func (r *GormRecordRepository) ClassRosterEntriesOf(userID uint64) ([]models.ClassRosterEntry, error) {
	var entries []models.ClassRosterEntry
	err := r.db.Where("student_id = ?", userID).Find(&entries).Error
	return entries, err
}

// DashboardPreferencesOf lists dashboard preferences for the user
func (r *GormRecordRepository) DashboardPreferencesOf(userID uint64) ([]models.DashboardPreference, error) {
	var prefs []models.DashboardPreference
	err := r.db.Where("user_id = ?", userID).Find(&prefs).Error
	return prefs, err
}

// TermsAcceptancesOf lists terms acceptances for the user
func (r *GormRecordRepository) TermsAcceptancesOf(userID uint64) ([]models.TermsAcceptance, error) {
	var acceptances []models.TermsAcceptance
	err := r.db.Where("user_id = ?", userID).Find(&acceptances).Error
	return acceptances, err
}

// PendingMembersByEmail lists pending-member rows matching the email
func (r *GormRecordRepository) PendingMembersByEmail(email string) ([]models.PendingMember, error) {
	var pending []models.PendingMember
	err := r.db.Where("email = ?", email).Find(&pending).Error
	return pending, err
}

// FilesOwnedBy lists files the user owns
func (r *GormRecordRepository) FilesOwnedBy(userID uint64) ([]models.UserFile, error) {
	var files []models.UserFile
	err := r.db.Where("owner_id = ?", userID).Find(&files).Error
	return files, err
}

// GroupMembershipsOf lists group-student rows for the user
func (r *GormRecordRepository) GroupMembershipsOf(userID uint64) ([]models.GroupStudent, error) {
	var memberships []models.GroupStudent
	err := r.db.Where("user_id = ?", userID).Find(&memberships).Error
	return memberships, err
}

// TeamMembershipsOf lists team-student rows for the user
func (r *GormRecordRepository) TeamMembershipsOf(userID uint64) ([]models.TeamStudent, error) {
	var memberships []models.TeamStudent
	err := r.db.Where("user_id = ?", userID).Find(&memberships).Error
	return memberships, err
}
