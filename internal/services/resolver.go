package services

import (
	"errors"
	"fmt"

	"github.com/classclarus/classroom-api/internal/joincode"
	"github.com/classclarus/classroom-api/internal/models"
	"github.com/classclarus/classroom-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrInvalidCodeFormat   = errors.New("code must be exactly 6 characters from the allowed alphabet")
	ErrCodeNotFound        = errors.New("code not found")
	ErrNoClassesForStudent = errors.New("student is not enrolled in any class")
)

// ResolutionKind tags what a join code resolved to.
type ResolutionKind string

const (
	ResolvedOrganization      ResolutionKind = "organization"
	ResolvedClass             ResolutionKind = "class"
	ResolvedGuardianOfStudent ResolutionKind = "guardianOfStudent"
)

// Resolution is the outcome of resolving a normalized join code.
type Resolution struct {
	Kind         ResolutionKind
	Organization *models.Organization

	// Class resolutions
	Class       *models.Class
	MatchedRole models.Role

	// Guardian-of-student resolutions
	Student          *models.User
	CandidateClasses []models.Class
}

// CodeResolver maps a raw user-supplied code to an entity and the role the
// code grants. Format validation always runs before any database access.
type CodeResolver struct {
	orgRepo   repository.OrganizationRepository
	classRepo repository.ClassRepository
	userRepo  repository.UserRepository
}

// NewCodeResolver creates a new CodeResolver.
func NewCodeResolver(
	orgRepo repository.OrganizationRepository,
	classRepo repository.ClassRepository,
	userRepo repository.UserRepository,
) *CodeResolver {
	return &CodeResolver{
		orgRepo:   orgRepo,
		classRepo: classRepo,
		userRepo:  userRepo,
	}
}

// ResolveAny resolves a code against organization join codes first, then the
// class code columns. Used by the legacy combined /join endpoint.
func (r *CodeResolver) ResolveAny(raw string) (*Resolution, error) {
	code := joincode.Normalize(raw)
	if !joincode.Valid(code) {
		return nil, ErrInvalidCodeFormat
	}

	if res, err := r.resolveOrganization(code); err != nil {
		return nil, err
	} else if res != nil {
		return res, nil
	}

	if res, err := r.resolveClass(code); err != nil {
		return nil, err
	} else if res != nil {
		return res, nil
	}

	return nil, ErrCodeNotFound
}

// ResolveOrganization resolves a code against organization join codes only.
func (r *CodeResolver) ResolveOrganization(raw string) (*Resolution, error) {
	code := joincode.Normalize(raw)
	if !joincode.Valid(code) {
		return nil, ErrInvalidCodeFormat
	}

	res, err := r.resolveOrganization(code)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, ErrCodeNotFound
	}
	return res, nil
}

// ResolveClassJoin resolves a code for the class-join endpoint: the class code
// columns first, then personal student guardian codes. A guardian-code match
// resolves to the student; the caller decides among the candidate classes.
func (r *CodeResolver) ResolveClassJoin(raw string) (*Resolution, error) {
	code := joincode.Normalize(raw)
	if !joincode.Valid(code) {
		return nil, ErrInvalidCodeFormat
	}

	if res, err := r.resolveClass(code); err != nil {
		return nil, err
	} else if res != nil {
		return res, nil
	}

	student, err := r.userRepo.FindByStudentGuardianCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCodeNotFound
		}
		return nil, fmt.Errorf("failed to look up student guardian code: %w", err)
	}

	classes, err := r.classRepo.ClassesOfStudent(student.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load student classes: %w", err)
	}
	if len(classes) == 0 {
		return nil, ErrNoClassesForStudent
	}

	return &Resolution{
		Kind:             ResolvedGuardianOfStudent,
		Student:          student,
		CandidateClasses: classes,
	}, nil
}

func (r *CodeResolver) resolveOrganization(code string) (*Resolution, error) {
	org, err := r.orgRepo.FindByJoinCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up organization join code: %w", err)
	}
	return &Resolution{
		Kind:         ResolvedOrganization,
		Organization: org,
	}, nil
}

func (r *CodeResolver) resolveClass(code string) (*Resolution, error) {
	class, err := r.classRepo.FindByAnyCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up class code: %w", err)
	}

	var role models.Role
	switch code {
	case class.StudentCode:
		role = models.RoleStudent
	case class.TeacherCode:
		role = models.RoleTeacher
	case class.GuardianCode:
		role = models.RoleGuardian
	default:
		return nil, ErrCodeNotFound
	}

	return &Resolution{
		Kind:        ResolvedClass,
		Class:       class,
		MatchedRole: role,
	}, nil
}
