package repository

import (
	"github.com/classclarus/classroom-api/internal/database"
	"github.com/classclarus/classroom-api/internal/models"
	"github.com/classclarus/classroom-api/internal/utils"
	"gorm.io/gorm"
)

// GormOrganizationRepository is a GORM implementation of OrganizationRepository
type GormOrganizationRepository struct {
	db *gorm.DB
}

// NewOrganizationRepository creates a new OrganizationRepository
func NewOrganizationRepository(db *gorm.DB) OrganizationRepository {
	return &GormOrganizationRepository{db: db}
}

// Create creates an organization together with its join code atomically
func (r *GormOrganizationRepository) Create(org *models.Organization, code *models.OrgJoinCode) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(org).Error; err != nil {
			return err
		}
		code.OrganizationID = org.ID
		return tx.Create(code).Error
	})
}

// FindByID finds an organization by ID
func (r *GormOrganizationRepository) FindByID(id uint64) (*models.Organization, error) {
	var org models.Organization
	if err := r.db.First(&org, id).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

// FindByJoinCode resolves an organization join code
func (r *GormOrganizationRepository) FindByJoinCode(code string) (*models.Organization, error) {
	var joinCode models.OrgJoinCode
	err := r.db.Preload("Organization").
		Where("code = ?", code).
		First(&joinCode).Error
	if err != nil {
		return nil, err
	}
	return &joinCode.Organization, nil
}

// RolesOf returns every role the user currently holds on the organization
func (r *GormOrganizationRepository) RolesOf(organizationID, userID uint64) ([]models.Role, error) {
	var roles []models.Role
	err := r.db.Model(&models.OrganizationMembership{}).
		Where("organization_id = ? AND user_id = ?", organizationID, userID).
		Pluck("role", &roles).Error
	if err != nil {
		return nil, err
	}
	return roles, nil
}

// MembershipsOfUser lists every organization role row the user holds
func (r *GormOrganizationRepository) MembershipsOfUser(userID uint64) ([]models.OrganizationMembership, error) {
	var memberships []models.OrganizationMembership
	err := r.db.Preload("Organization").
		Where("user_id = ?", userID).
		Find(&memberships).Error
	if err != nil {
		return nil, err
	}
	return memberships, nil
}

// PageOfMemberships lists a page of the user's organization role rows plus the total count
func (r *GormOrganizationRepository) PageOfMemberships(userID uint64, params utils.PaginationParams) ([]models.OrganizationMembership, int64, error) {
	query := r.db.Model(&models.OrganizationMembership{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var memberships []models.OrganizationMembership
	err := query.Preload("Organization").
		Scopes(database.Paginate(params)).
		Find(&memberships).Error
	if err != nil {
		return nil, 0, err
	}
	return memberships, total, nil
}

// OwnedBy lists organizations the user owns
func (r *GormOrganizationRepository) OwnedBy(userID uint64) ([]models.Organization, error) {
	var orgs []models.Organization
	if err := r.db.Where("owner_id = ?", userID).Find(&orgs).Error; err != nil {
		return nil, err
	}
	return orgs, nil
}

// JoinCodeExists reports whether the code is already assigned
func (r *GormOrganizationRepository) JoinCodeExists(code string) (bool, error) {
	var count int64
	err := r.db.Model(&models.OrgJoinCode{}).Where("code = ?", code).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
