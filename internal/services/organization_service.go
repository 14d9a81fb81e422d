package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/classclarus/classroom-api/internal/joincode"
	"github.com/classclarus/classroom-api/internal/models"
	"github.com/classclarus/classroom-api/internal/repository"
	"github.com/classclarus/classroom-api/internal/utils"
)

var (
	ErrInvalidEntityName = errors.New("name cannot be empty")
)

const entityCodeMaxAttempts = 10

// OrganizationService provides business logic for organization operations.
type OrganizationService struct {
	orgRepo repository.OrganizationRepository
}

// NewOrganizationService creates a new OrganizationService.
func NewOrganizationService(orgRepo repository.OrganizationRepository) *OrganizationService {
	return &OrganizationService{
		orgRepo: orgRepo,
	}
}

// CreateOrganizationInput represents parameters to create a new organization.
type CreateOrganizationInput struct {
	Name    string
	OwnerID uint64
}

// CreateOrganization creates an organization and issues its join code. The
// creator becomes the owner; ownership is a field on the entity, never a
// membership row.
func (s *OrganizationService) CreateOrganization(input CreateOrganizationInput) (*models.Organization, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrInvalidEntityName
	}

	code, err := s.uniqueJoinCode()
	if err != nil {
		return nil, err
	}

	org := &models.Organization{
		Name:    strings.TrimSpace(input.Name),
		OwnerID: input.OwnerID,
	}
	joinCode := &models.OrgJoinCode{Code: code}

	if err := s.orgRepo.Create(org, joinCode); err != nil {
		return nil, fmt.Errorf("failed to create organization: %w", err)
	}
	org.JoinCode = joinCode
	return org, nil
}

// ListForUser returns the organizations the user belongs to, with their role.
func (s *OrganizationService) ListForUser(userID uint64) ([]models.OrganizationMembership, error) {
	memberships, err := s.orgRepo.MembershipsOfUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	return memberships, nil
}

// ListPageForUser returns a page of the user's organization role rows plus
// the total count.
func (s *OrganizationService) ListPageForUser(userID uint64, params utils.PaginationParams) ([]models.OrganizationMembership, int64, error) {
	memberships, total, err := s.orgRepo.PageOfMemberships(userID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list organizations: %w", err)
	}
	return memberships, total, nil
}

// ListOwnedBy returns the organizations the user owns.
func (s *OrganizationService) ListOwnedBy(userID uint64) ([]models.Organization, error) {
	orgs, err := s.orgRepo.OwnedBy(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list owned organizations: %w", err)
	}
	return orgs, nil
}

func (s *OrganizationService) uniqueJoinCode() (string, error) {
	for attempt := 0; attempt < entityCodeMaxAttempts; attempt++ {
		code, err := joincode.Generate()
		if err != nil {
			return "", fmt.Errorf("failed to generate join code: %w", err)
		}
		taken, err := s.orgRepo.JoinCodeExists(code)
		if err != nil {
			return "", fmt.Errorf("failed to check join code uniqueness: %w", err)
		}
		if !taken {
			return code, nil
		}
	}
	return "", ErrCodeGenerationExhausted
}
