package services

import (
	"fmt"
	"strings"

	"github.com/classclarus/classroom-api/internal/joincode"
	"github.com/classclarus/classroom-api/internal/models"
	"github.com/classclarus/classroom-api/internal/repository"
	"github.com/classclarus/classroom-api/internal/utils"
)

// ClassService provides business logic for class operations.
type ClassService struct {
	classRepo repository.ClassRepository
}

// NewClassService creates a new ClassService.
func NewClassService(classRepo repository.ClassRepository) *ClassService {
	return &ClassService{
		classRepo: classRepo,
	}
}

// CreateClassInput represents parameters to create a new class.
type CreateClassInput struct {
	Name           string
	OwnerID        uint64
	OrganizationID *uint64
}

// CreateClass creates a class and issues its three role codes.
func (s *ClassService) CreateClass(input CreateClassInput) (*models.Class, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrInvalidEntityName
	}

	codes := make([]string, 0, 3)
	for len(codes) < 3 {
		code, err := s.uniqueClassCode(codes)
		if err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}

	class := &models.Class{
		Name:           strings.TrimSpace(input.Name),
		OwnerID:        input.OwnerID,
		OrganizationID: input.OrganizationID,
		StudentCode:    codes[0],
		TeacherCode:    codes[1],
		GuardianCode:   codes[2],
	}

	if err := s.classRepo.Create(class); err != nil {
		return nil, fmt.Errorf("failed to create class: %w", err)
	}
	return class, nil
}

// ListForUser returns the class role rows the user holds, with classes
// hydrated.
func (s *ClassService) ListForUser(userID uint64) ([]models.ClassMembership, error) {
	memberships, err := s.classRepo.MembershipsOfUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list classes: %w", err)
	}
	return memberships, nil
}

// ListPageForUser returns a page of the user's class role rows plus the total
// count.
func (s *ClassService) ListPageForUser(userID uint64, params utils.PaginationParams) ([]models.ClassMembership, int64, error) {
	memberships, total, err := s.classRepo.PageOfMemberships(userID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list classes: %w", err)
	}
	return memberships, total, nil
}

// ListOwnedBy returns the classes the user owns.
func (s *ClassService) ListOwnedBy(userID uint64) ([]models.Class, error) {
	classes, err := s.classRepo.OwnedBy(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list owned classes: %w", err)
	}
	return classes, nil
}

func (s *ClassService) uniqueClassCode(pending []string) (string, error) {
	for attempt := 0; attempt < entityCodeMaxAttempts; attempt++ {
		code, err := joincode.Generate()
		if err != nil {
			return "", fmt.Errorf("failed to generate class code: %w", err)
		}

		duplicate := false
		for _, p := range pending {
			if p == code {
				duplicate = true
				break
			}
		}
		if duplicate {
			continue
		}

		taken, err := s.classRepo.CodeExists(code)
		if err != nil {
			return "", fmt.Errorf("failed to check class code uniqueness: %w", err)
		}
		if !taken {
			return code, nil
		}
	}
	return "", ErrCodeGenerationExhausted
}
