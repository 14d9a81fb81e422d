package services

import (
	"errors"
	"fmt"

	"github.com/classclarus/classroom-api/internal/models"
	"github.com/classclarus/classroom-api/internal/repository"
	"github.com/classclarus/classroom-api/internal/store"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrClassNotFound         = errors.New("class not found")
	ErrOrganizationNotFound  = errors.New("organization not found")
	ErrNotAMember            = errors.New("user is not a member")
	ErrCannotLeaveAsOwner    = errors.New("owners cannot leave their own entity")
	ErrInvalidClassSelection = errors.New("selected class is not a valid target for this code")
)

// AlreadyMemberError carries enough detail for the UI to redirect without
// re-prompting.
type AlreadyMemberError struct {
	EntityType string
	EntityID   uint64
	Role       models.Role
}

func (e *AlreadyMemberError) Error() string {
	return fmt.Sprintf("already a member of %s %d as %s", e.EntityType, e.EntityID, e.Role)
}

// RoleSet is a user's full role state on one entity, read fresh before every
// mutation.
type RoleSet struct {
	IsOwner bool
	Roles   []models.Role
}

// Member reports whether any role (ownership included) is held.
func (rs RoleSet) Member() bool {
	return rs.IsOwner || len(rs.Roles) > 0
}

// Has reports whether a specific role row exists.
func (rs RoleSet) Has(role models.Role) bool {
	for _, r := range rs.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Primary returns the display role: ownership always wins, then the first
// held role in precedence order.
func (rs RoleSet) Primary(precedence []models.Role) models.Role {
	if rs.IsOwner {
		return models.RoleOwner
	}
	for _, role := range precedence {
		if rs.Has(role) {
			return role
		}
	}
	return ""
}

// JoinResult describes a committed join.
type JoinResult struct {
	EntityType string
	EntityID   uint64
	ClassIDs   []uint64 // set for multi-class guardian joins
	Role       models.Role
}

// ClassSelection is the disambiguation payload returned when a guardian code
// resolves to a student enrolled in several classes and the caller has not yet
// chosen among them. No writes occur.
type ClassSelection struct {
	StudentName string
	Classes     []models.Class
}

// MembershipService evaluates role state and applies join/leave mutations as
// single atomic transactions.
type MembershipService struct {
	resolver  *CodeResolver
	guardians *GuardianService
	classRepo repository.ClassRepository
	orgRepo   repository.OrganizationRepository
	store     *store.Store
	logger    *zap.Logger
}

// NewMembershipService creates a new MembershipService.
func NewMembershipService(
	resolver *CodeResolver,
	guardians *GuardianService,
	classRepo repository.ClassRepository,
	orgRepo repository.OrganizationRepository,
	st *store.Store,
	logger *zap.Logger,
) *MembershipService {
	return &MembershipService{
		resolver:  resolver,
		guardians: guardians,
		classRepo: classRepo,
		orgRepo:   orgRepo,
		store:     st,
		logger:    logger,
	}
}

// ClassRoleSet reads the caller's current role state on a class.
func (s *MembershipService) ClassRoleSet(class *models.Class, userID uint64) (RoleSet, error) {
	roles, err := s.classRepo.RolesOf(class.ID, userID)
	if err != nil {
		return RoleSet{}, fmt.Errorf("failed to evaluate class roles: %w", err)
	}
	return RoleSet{IsOwner: class.OwnerID == userID, Roles: roles}, nil
}

// OrgRoleSet reads the caller's current role state on an organization.
func (s *MembershipService) OrgRoleSet(org *models.Organization, userID uint64) (RoleSet, error) {
	roles, err := s.orgRepo.RolesOf(org.ID, userID)
	if err != nil {
		return RoleSet{}, fmt.Errorf("failed to evaluate organization roles: %w", err)
	}
	return RoleSet{IsOwner: org.OwnerID == userID, Roles: roles}, nil
}

// JoinWithCode is the legacy combined join: the code may belong to an
// organization or a class.
func (s *MembershipService) JoinWithCode(userID uint64, raw string) (*JoinResult, error) {
	res, err := s.resolver.ResolveAny(raw)
	if err != nil {
		return nil, err
	}

	switch res.Kind {
	case ResolvedOrganization:
		return s.joinOrganization(userID, res.Organization)
	case ResolvedClass:
		return s.joinClassAs(userID, res.Class, res.MatchedRole)
	default:
		return nil, ErrCodeNotFound
	}
}

// JoinOrganization joins via an organization join code. Organization joins
// always grant the teacher role.
func (s *MembershipService) JoinOrganization(userID uint64, raw string) (*JoinResult, error) {
	res, err := s.resolver.ResolveOrganization(raw)
	if err != nil {
		return nil, err
	}
	return s.joinOrganization(userID, res.Organization)
}

// JoinClass joins via a class code or a personal student guardian code. When
// the guardian code's student is enrolled in several classes and no selection
// was submitted, the returned ClassSelection asks the caller to choose; no
// writes occur on that path.
func (s *MembershipService) JoinClass(userID uint64, raw string, selectedClassIDs []uint64) (*JoinResult, *ClassSelection, error) {
	res, err := s.resolver.ResolveClassJoin(raw)
	if err != nil {
		return nil, nil, err
	}

	if res.Kind == ResolvedClass {
		result, err := s.joinClassAs(userID, res.Class, res.MatchedRole)
		return result, nil, err
	}

	return s.joinAsGuardianOfStudent(userID, res.Student, res.CandidateClasses, selectedClassIDs)
}

// LeaveClass removes every role the caller holds on the class in one
// transaction.
func (s *MembershipService) LeaveClass(userID, classID uint64) error {
	class, err := s.classRepo.FindByID(classID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrClassNotFound
		}
		return fmt.Errorf("failed to load class: %w", err)
	}

	if class.OwnerID == userID {
		return ErrCannotLeaveAsOwner
	}

	roles, err := s.classRepo.RolesOf(classID, userID)
	if err != nil {
		return fmt.Errorf("failed to evaluate class roles: %w", err)
	}
	if len(roles) == 0 {
		return ErrNotAMember
	}

	ops := []store.Op{store.UnlinkClassRoles{ClassID: classID, UserID: userID, Roles: roles}}
	if err := s.store.Transact(ops); err != nil {
		return fmt.Errorf("failed to leave class: %w", err)
	}
	return nil
}

// LeaveOrganization removes every role the caller holds on the organization
// in one transaction.
func (s *MembershipService) LeaveOrganization(userID, organizationID uint64) error {
	org, err := s.orgRepo.FindByID(organizationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrganizationNotFound
		}
		return fmt.Errorf("failed to load organization: %w", err)
	}

	if org.OwnerID == userID {
		return ErrCannotLeaveAsOwner
	}

	roles, err := s.orgRepo.RolesOf(organizationID, userID)
	if err != nil {
		return fmt.Errorf("failed to evaluate organization roles: %w", err)
	}
	if len(roles) == 0 {
		return ErrNotAMember
	}

	ops := []store.Op{store.UnlinkOrgRoles{OrganizationID: organizationID, UserID: userID, Roles: roles}}
	if err := s.store.Transact(ops); err != nil {
		return fmt.Errorf("failed to leave organization: %w", err)
	}
	return nil
}

func (s *MembershipService) joinOrganization(userID uint64, org *models.Organization) (*JoinResult, error) {
	roleSet, err := s.OrgRoleSet(org, userID)
	if err != nil {
		return nil, err
	}
	if roleSet.Member() {
		return nil, &AlreadyMemberError{
			EntityType: "organization",
			EntityID:   org.ID,
			Role:       roleSet.Primary(models.OrganizationRolePrecedence),
		}
	}

	ops := []store.Op{store.LinkOrgRole{OrganizationID: org.ID, UserID: userID, Role: models.RoleTeacher}}
	if err := s.store.Transact(ops); err != nil {
		return nil, fmt.Errorf("failed to join organization: %w", err)
	}

	return &JoinResult{
		EntityType: "organization",
		EntityID:   org.ID,
		Role:       models.RoleTeacher,
	}, nil
}

func (s *MembershipService) joinClassAs(userID uint64, class *models.Class, role models.Role) (*JoinResult, error) {
	roleSet, err := s.ClassRoleSet(class, userID)
	if err != nil {
		return nil, err
	}
	if roleSet.Member() {
		return nil, &AlreadyMemberError{
			EntityType: "class",
			EntityID:   class.ID,
			Role:       roleSet.Primary(models.ClassRolePrecedence),
		}
	}

	ops := []store.Op{store.LinkClassRole{ClassID: class.ID, UserID: userID, Role: role}}

	if role == models.RoleStudent {
		// A joining student gets a personal guardian code, and their existing
		// guardians come onto the roster in the same commit.
		_, codeOps, err := s.guardians.EnsureGuardianCodeOps(userID)
		if err != nil {
			return nil, err
		}
		ops = append(ops, codeOps...)
		ops = append(ops, s.guardians.GuardianLinkOps(userID, class.ID)...)
	}

	if err := s.store.Transact(ops); err != nil {
		return nil, fmt.Errorf("failed to join class: %w", err)
	}

	return &JoinResult{
		EntityType: "class",
		EntityID:   class.ID,
		Role:       role,
	}, nil
}

func (s *MembershipService) joinAsGuardianOfStudent(
	userID uint64,
	student *models.User,
	candidates []models.Class,
	selectedClassIDs []uint64,
) (*JoinResult, *ClassSelection, error) {
	var targets []models.Class
	if len(selectedClassIDs) == 0 {
		if len(candidates) > 1 {
			return nil, &ClassSelection{
				StudentName: student.FirstName + " " + student.LastName,
				Classes:     candidates,
			}, nil
		}
		targets = candidates
	} else {
		byID := make(map[uint64]models.Class, len(candidates))
		for _, class := range candidates {
			byID[class.ID] = class
		}
		for _, id := range selectedClassIDs {
			class, ok := byID[id]
			if !ok {
				return nil, nil, ErrInvalidClassSelection
			}
			targets = append(targets, class)
		}
	}

	var ops []store.Op
	var joined []uint64
	for i := range targets {
		class := targets[i]
		roleSet, err := s.ClassRoleSet(&class, userID)
		if err != nil {
			return nil, nil, err
		}
		if roleSet.Member() {
			continue
		}
		ops = append(ops, store.LinkClassRole{ClassID: class.ID, UserID: userID, Role: models.RoleGuardian})
		joined = append(joined, class.ID)
	}

	if len(joined) == 0 {
		return nil, nil, &AlreadyMemberError{
			EntityType: "class",
			EntityID:   targets[0].ID,
			Role:       models.RoleGuardian,
		}
	}

	// Link the guardian/student pair alongside the roster links.
	ops = append(ops, store.LinkGuardian{GuardianID: userID, StudentID: student.ID})

	if err := s.store.Transact(ops); err != nil {
		return nil, nil, fmt.Errorf("failed to join as guardian: %w", err)
	}

	result := &JoinResult{
		EntityType: "class",
		Role:       models.RoleGuardian,
		ClassIDs:   joined,
	}
	if len(joined) == 1 {
		result.EntityID = joined[0]
	}
	return result, nil, nil
}
