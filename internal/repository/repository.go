package repository

import (
	"github.com/classclarus/classroom-api/internal/models"
	"github.com/classclarus/classroom-api/internal/utils"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// FindBySessionToken finds a user by their opaque session token
	FindBySessionToken(token string) (*models.User, error)

	// FindByStudentGuardianCode finds the student carrying the personal
	// guardian code
	FindByStudentGuardianCode(code string) (*models.User, error)

	// UpdateSessionToken sets or clears the session token
	UpdateSessionToken(id uint64, token *string) error

	// Guardians lists the guardians of a student
	Guardians(studentID uint64) ([]models.User, error)

	// GuardianLinks lists every guardian/child pair the user participates in,
	// from either side
	GuardianLinks(userID uint64) ([]models.GuardianLink, error)

	// StudentGuardianCodeExists reports whether any student already carries
	// the code
	StudentGuardianCodeExists(code string) (bool, error)
}

// ClassRepository defines the interface for class data access
type ClassRepository interface {
	// Create creates a class
	Create(class *models.Class) error

	// FindByID finds a class by ID
	FindByID(id uint64) (*models.Class, error)

	// FindByAnyCode matches the code against studentCode, teacherCode and
	// guardianCode in one query
	FindByAnyCode(code string) (*models.Class, error)

	// RolesOf returns every role the user currently holds on the class (fresh
	// read, no caching)
	RolesOf(classID, userID uint64) ([]models.Role, error)

	// ClassesOfStudent lists the classes a user is enrolled in as a student,
	// with organizations hydrated
	ClassesOfStudent(userID uint64) ([]models.Class, error)

	// MembershipsOfUser lists every class role row the user holds, with
	// classes hydrated
	MembershipsOfUser(userID uint64) ([]models.ClassMembership, error)

	// PageOfMemberships lists a page of the user's class role rows plus the
	// total count
	PageOfMemberships(userID uint64, params utils.PaginationParams) ([]models.ClassMembership, int64, error)

	// OwnedBy lists classes the user owns
	OwnedBy(userID uint64) ([]models.Class, error)

	// CodeExists reports whether the code is already assigned to any of the
	// three class code columns
	CodeExists(code string) (bool, error)
}

// OrganizationRepository defines the interface for organization data access
type OrganizationRepository interface {
	// Create creates an organization together with its join code
	Create(org *models.Organization, code *models.OrgJoinCode) error

	// FindByID finds an organization by ID
	FindByID(id uint64) (*models.Organization, error)

	// FindByJoinCode resolves an organization join code
	FindByJoinCode(code string) (*models.Organization, error)

	// RolesOf returns every role the user currently holds on the organization
	RolesOf(organizationID, userID uint64) ([]models.Role, error)

	// MembershipsOfUser lists every organization role row the user holds,
	// with organizations hydrated
	MembershipsOfUser(userID uint64) ([]models.OrganizationMembership, error)

	// PageOfMemberships lists a page of the user's organization role rows
	// plus the total count
	PageOfMemberships(userID uint64, params utils.PaginationParams) ([]models.OrganizationMembership, int64, error)

	// OwnedBy lists organizations the user owns
	OwnedBy(userID uint64) ([]models.Organization, error)

	// JoinCodeExists reports whether the code is already assigned
	JoinCodeExists(code string) (bool, error)
}

// RecordRepository collects the per-user child records that account deletion
// must remove outright.
type RecordRepository interface {
	BehaviorLogsOf(userID uint64) ([]models.BehaviorLog, error)
	RewardRedemptionsOf(userID uint64) ([]models.RewardRedemption, error)
	StudentExpectationsOf(userID uint64) ([]models.StudentExpectation, error)
	ClassRosterEntriesOf(userID uint64) ([]models.ClassRosterEntry, error)
	DashboardPreferencesOf(userID uint64) ([]models.DashboardPreference, error)
	TermsAcceptancesOf(userID uint64) ([]models.TermsAcceptance, error)
	PendingMembersByEmail(email string) ([]models.PendingMember, error)
	FilesOwnedBy(userID uint64) ([]models.UserFile, error)
	GroupMembershipsOf(userID uint64) ([]models.GroupStudent, error)
	TeamMembershipsOf(userID uint64) ([]models.TeamStudent, error)
}
