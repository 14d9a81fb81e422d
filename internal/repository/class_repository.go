package repository

import (
	"github.com/classclarus/classroom-api/internal/database"
	"github.com/classclarus/classroom-api/internal/models"
	"github.com/classclarus/classroom-api/internal/utils"
	"gorm.io/gorm"
)

// GormClassRepository is a GORM implementation of ClassRepository
type GormClassRepository struct {
	db *gorm.DB
}

// NewClassRepository creates a new ClassRepository
func NewClassRepository(db *gorm.DB) ClassRepository {
	return &GormClassRepository{db: db}
}

// Create creates a class
func (r *GormClassRepository) Create(class *models.Class) error {
	return r.db.Create(class).Error
}

// FindByID finds a class by ID
func (r *GormClassRepository) FindByID(id uint64) (*models.Class, error) {
	var class models.Class
	if err := r.db.Preload("Organization").First(&class, id).Error; err != nil {
		return nil, err
	}
	return &class, nil
}

// FindByAnyCode matches the code against all three class code columns in one
// query. Which column matched is recovered by comparing against the result.
func (r *GormClassRepository) FindByAnyCode(code string) (*models.Class, error) {
	var class models.Class
	err := r.db.Preload("Organization").
		Where("student_code = ? OR teacher_code = ? OR guardian_code = ?", code, code, code).
		First(&class).Error
	if err != nil {
		return nil, err
	}
	return &class, nil
}

// RolesOf returns every role the user currently holds on the class
func (r *GormClassRepository) RolesOf(classID, userID uint64) ([]models.Role, error) {
	var roles []models.Role
	err := r.db.Model(&models.ClassMembership{}).
		Where("class_id = ? AND user_id = ?", classID, userID).
		Pluck("role", &roles).Error
	if err != nil {
		return nil, err
	}
	return roles, nil
}

// ClassesOfStudent lists the classes a user is enrolled in as a student
func (r *GormClassRepository) ClassesOfStudent(userID uint64) ([]models.Class, error) {
	var classes []models.Class
	err := r.db.Preload("Organization").
		Joins("JOIN class_memberships ON class_memberships.class_id = classes.id").
		Where("class_memberships.user_id = ? AND class_memberships.role = ?", userID, models.RoleStudent).
		Find(&classes).Error
	if err != nil {
		return nil, err
	}
	return classes, nil
}

// MembershipsOfUser lists every class role row the user holds
func (r *GormClassRepository) MembershipsOfUser(userID uint64) ([]models.ClassMembership, error) {
	var memberships []models.ClassMembership
	err := r.db.Preload("Class").
		Where("user_id = ?", userID).
		Find(&memberships).Error
	if err != nil {
		return nil, err
	}
	return memberships, nil
}

// PageOfMemberships lists a page of the user's class role rows plus the total count
func (r *GormClassRepository) PageOfMemberships(userID uint64, params utils.PaginationParams) ([]models.ClassMembership, int64, error) {
	query := r.db.Model(&models.ClassMembership{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var memberships []models.ClassMembership
	err := query.Preload("Class").
		Scopes(database.Paginate(params)).
		Find(&memberships).Error
	if err != nil {
		return nil, 0, err
	}
	return memberships, total, nil
}

// OwnedBy lists classes the user owns
func (r *GormClassRepository) OwnedBy(userID uint64) ([]models.Class, error) {
	var classes []models.Class
	if err := r.db.Where("owner_id = ?", userID).Find(&classes).Error; err != nil {
		return nil, err
	}
	return classes, nil
}

// CodeExists reports whether the code is already assigned to any class code column
func (r *GormClassRepository) CodeExists(code string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Class{}).
		Where("student_code = ? OR teacher_code = ? OR guardian_code = ?", code, code, code).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
