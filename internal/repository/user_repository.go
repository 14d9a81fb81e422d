package repository

import (
	"github.com/classclarus/classroom-api/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindBySessionToken finds a user by their opaque session token
func (r *GormUserRepository) FindBySessionToken(token string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("session_token = ?", token).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByStudentGuardianCode finds the student carrying the personal guardian code
func (r *GormUserRepository) FindByStudentGuardianCode(code string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("student_guardian_code = ?", code).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateSessionToken sets or clears the session token
func (r *GormUserRepository) UpdateSessionToken(id uint64, token *string) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).
		Update("session_token", token).Error
}

// Guardians lists the guardians of a student
func (r *GormUserRepository) Guardians(studentID uint64) ([]models.User, error) {
	var guardians []models.User
	err := r.db.
		Joins("JOIN guardian_links ON guardian_links.guardian_id = users.id").
		Where("guardian_links.student_id = ?", studentID).
		Find(&guardians).Error
	if err != nil {
		return nil, err
	}
	return guardians, nil
}

// GuardianLinks lists every guardian/child pair the user participates in, from
// either side
func (r *GormUserRepository) GuardianLinks(userID uint64) ([]models.GuardianLink, error) {
	var links []models.GuardianLink
	err := r.db.Where("guardian_id = ? OR student_id = ?", userID, userID).
		Find(&links).Error
	if err != nil {
		return nil, err
	}
	return links, nil
}

// StudentGuardianCodeExists reports whether any student already carries the code
func (r *GormUserRepository) StudentGuardianCodeExists(code string) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("student_guardian_code = ?", code).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
