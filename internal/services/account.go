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

var ErrUserNotFound = errors.New("user not found")

// deleteBatchSize keeps each transact call under the backing store's
// per-transaction operation limit. Batches run sequentially; a failure partway
// through leaves earlier batches committed, and re-invoking the endpoint
// re-derives the remaining work from current state.
const deleteBatchSize = 100

// AccountService orchestrates self-service account deletion: it walks every
// relationship type reachable from the user, unlinks non-owned memberships,
// deletes orphaned per-user records, deletes owned entities, and finally the
// user record itself.
type AccountService struct {
	userRepo   repository.UserRepository
	classRepo  repository.ClassRepository
	orgRepo    repository.OrganizationRepository
	recordRepo repository.RecordRepository
	store      *store.Store
	logger     *zap.Logger
}

// NewAccountService creates a new AccountService.
func NewAccountService(
	userRepo repository.UserRepository,
	classRepo repository.ClassRepository,
	orgRepo repository.OrganizationRepository,
	recordRepo repository.RecordRepository,
	st *store.Store,
	logger *zap.Logger,
) *AccountService {
	return &AccountService{
		userRepo:   userRepo,
		classRepo:  classRepo,
		orgRepo:    orgRepo,
		recordRepo: recordRepo,
		store:      st,
		logger:     logger,
	}
}

// DeleteAccount deletes the caller's own account and all data referencing it.
func (s *AccountService) DeleteAccount(userID uint64) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	s.logger.Info("starting account deletion", zap.Uint64("user_id", userID))

	var ops []store.Op

	unlinkOps, err := s.collectMembershipUnlinks(userID)
	if err != nil {
		return err
	}
	ops = append(ops, unlinkOps...)

	relationOps, err := s.collectRelationUnlinks(userID)
	if err != nil {
		return err
	}
	ops = append(ops, relationOps...)

	orphanOps, err := s.collectOrphanDeletes(user)
	if err != nil {
		return err
	}
	ops = append(ops, orphanOps...)

	ownedOps, err := s.collectOwnedDeletes(userID)
	if err != nil {
		return err
	}
	ops = append(ops, ownedOps...)

	ops = append(ops, store.DeleteUser{ID: userID})

	s.logger.Info("executing account deletion",
		zap.Uint64("user_id", userID),
		zap.Int("operations", len(ops)),
	)

	if err := s.store.TransactBatched(ops, deleteBatchSize); err != nil {
		return fmt.Errorf("failed to delete account data: %w", err)
	}
	return nil
}

// collectMembershipUnlinks emits one unlink per role actually held on every
// class and organization the user does not own. Role state is re-fetched per
// entity so concurrent changes since the initial load are not replayed.
// Owned entities are skipped: they are destroyed wholesale later and
// unlinking first would be redundant.
func (s *AccountService) collectMembershipUnlinks(userID uint64) ([]store.Op, error) {
	ownedClasses, err := s.classRepo.OwnedBy(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load owned classes: %w", err)
	}
	ownedClassIDs := make(map[uint64]bool, len(ownedClasses))
	for _, class := range ownedClasses {
		ownedClassIDs[class.ID] = true
	}

	ownedOrgs, err := s.orgRepo.OwnedBy(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load owned organizations: %w", err)
	}
	ownedOrgIDs := make(map[uint64]bool, len(ownedOrgs))
	for _, org := range ownedOrgs {
		ownedOrgIDs[org.ID] = true
	}

	var ops []store.Op

	classMemberships, err := s.classRepo.MembershipsOfUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load class memberships: %w", err)
	}
	seenClasses := make(map[uint64]bool)
	for _, membership := range classMemberships {
		classID := membership.ClassID
		if seenClasses[classID] || ownedClassIDs[classID] {
			continue
		}
		seenClasses[classID] = true

		roles, err := s.classRepo.RolesOf(classID, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to re-fetch class roles: %w", err)
		}
		if len(roles) > 0 {
			ops = append(ops, store.UnlinkClassRoles{ClassID: classID, UserID: userID, Roles: roles})
		}
	}

	orgMemberships, err := s.orgRepo.MembershipsOfUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load organization memberships: %w", err)
	}
	seenOrgs := make(map[uint64]bool)
	for _, membership := range orgMemberships {
		orgID := membership.OrganizationID
		if seenOrgs[orgID] || ownedOrgIDs[orgID] {
			continue
		}
		seenOrgs[orgID] = true

		roles, err := s.orgRepo.RolesOf(orgID, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to re-fetch organization roles: %w", err)
		}
		if len(roles) > 0 {
			ops = append(ops, store.UnlinkOrgRoles{OrganizationID: orgID, UserID: userID, Roles: roles})
		}
	}

	return ops, nil
}

// collectRelationUnlinks severs group/team memberships and guardian pairs.
// Guardian links are walked from both sides: deleting the user must sever the
// pair regardless of which side initiated it.
func (s *AccountService) collectRelationUnlinks(userID uint64) ([]store.Op, error) {
	var ops []store.Op

	groups, err := s.recordRepo.GroupMembershipsOf(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load group memberships: %w", err)
	}
	for _, membership := range groups {
		ops = append(ops, store.UnlinkGroupStudent{GroupID: membership.GroupID, UserID: userID})
	}

	teams, err := s.recordRepo.TeamMembershipsOf(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load team memberships: %w", err)
	}
	for _, membership := range teams {
		ops = append(ops, store.UnlinkTeamStudent{TeamID: membership.TeamID, UserID: userID})
	}

	links, err := s.userRepo.GuardianLinks(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load guardian links: %w", err)
	}
	for _, link := range links {
		ops = append(ops, store.UnlinkGuardian{GuardianID: link.GuardianID, StudentID: link.StudentID})
	}

	return ops, nil
}

// collectOrphanDeletes gathers the per-user child records that must be
// deleted outright regardless of ownership. Pending members are matched by
// email, best-effort, skipped when the user has none.
func (s *AccountService) collectOrphanDeletes(user *models.User) ([]store.Op, error) {
	var ops []store.Op

	logs, err := s.recordRepo.BehaviorLogsOf(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load behavior logs: %w", err)
	}
	if ids := behaviorLogIDs(logs); len(ids) > 0 {
		ops = append(ops, store.DeleteBehaviorLogs{IDs: ids})
	}

	redemptions, err := s.recordRepo.RewardRedemptionsOf(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load reward redemptions: %w", err)
	}
	if len(redemptions) > 0 {
		ids := make([]uint64, len(redemptions))
		for i, r := range redemptions {
			ids[i] = r.ID
		}
		ops = append(ops, store.DeleteRewardRedemptions{IDs: ids})
	}

	expectations, err := s.recordRepo.StudentExpectationsOf(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load student expectations: %w", err)
	}
	if len(expectations) > 0 {
		ids := make([]uint64, len(expectations))
		for i, e := range expectations {
			ids[i] = e.ID
		}
		ops = append(ops, store.DeleteStudentExpectations{IDs: ids})
	}

	entries, err := s.recordRepo.ClassRosterEntriesOf(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster entries: %w", err)
	}
	if len(entries) > 0 {
		ids := make([]uint64, len(entries))
		for i, e := range entries {
			ids[i] = e.ID
		}
		ops = append(ops, store.DeleteClassRosterEntries{IDs: ids})
	}

	prefs, err := s.recordRepo.DashboardPreferencesOf(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load dashboard preferences: %w", err)
	}
	if len(prefs) > 0 {
		ids := make([]uint64, len(prefs))
		for i, p := range prefs {
			ids[i] = p.ID
		}
		ops = append(ops, store.DeleteDashboardPreferences{IDs: ids})
	}

	acceptances, err := s.recordRepo.TermsAcceptancesOf(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load terms acceptances: %w", err)
	}
	if len(acceptances) > 0 {
		ids := make([]uint64, len(acceptances))
		for i, a := range acceptances {
			ids[i] = a.ID
		}
		ops = append(ops, store.DeleteTermsAcceptances{IDs: ids})
	}

	if user.Email != "" {
		pending, err := s.recordRepo.PendingMembersByEmail(user.Email)
		if err != nil {
			s.logger.Warn("failed to load pending members, skipping",
				zap.Uint64("user_id", user.ID),
				zap.Error(err),
			)
		} else if len(pending) > 0 {
			ids := make([]uint64, len(pending))
			for i, p := range pending {
				ids[i] = p.ID
			}
			ops = append(ops, store.DeletePendingMembers{IDs: ids})
		}
	}

	return ops, nil
}

// collectOwnedDeletes destroys the entities the user owns. Owned classes and
// organizations cascade to their rosters and child records; files go with the
// account.
func (s *AccountService) collectOwnedDeletes(userID uint64) ([]store.Op, error) {
	var ops []store.Op

	orgs, err := s.orgRepo.OwnedBy(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load owned organizations: %w", err)
	}
	for _, org := range orgs {
		ops = append(ops, store.DeleteOrganization{ID: org.ID})
	}

	classes, err := s.classRepo.OwnedBy(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load owned classes: %w", err)
	}
	for _, class := range classes {
		ops = append(ops, store.DeleteClass{ID: class.ID})
	}

	files, err := s.recordRepo.FilesOwnedBy(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load owned files: %w", err)
	}
	if len(files) > 0 {
		ids := make([]uint64, len(files))
		for i, f := range files {
			ids[i] = f.ID
		}
		ops = append(ops, store.DeleteUserFiles{IDs: ids})
	}

	return ops, nil
}

func behaviorLogIDs(logs []models.BehaviorLog) []uint64 {
	ids := make([]uint64, len(logs))
	for i, l := range logs {
		ids[i] = l.ID
	}
	return ids
}
