package services

import (
	"errors"
	"fmt"

	"github.com/classclarus/classroom-api/internal/joincode"
	"github.com/classclarus/classroom-api/internal/models"
	"github.com/classclarus/classroom-api/internal/repository"
	"github.com/classclarus/classroom-api/internal/store"
	"go.uber.org/zap"
)

var ErrCodeGenerationExhausted = errors.New("failed to generate a unique guardian code")

const guardianCodeMaxAttempts = 10

// GuardianService issues per-student guardian codes and links a student's
// existing guardians onto classes the student joins. Both operations are
// idempotent.
type GuardianService struct {
	userRepo repository.UserRepository
	logger   *zap.Logger
}

// NewGuardianService creates a new GuardianService.
func NewGuardianService(userRepo repository.UserRepository, logger *zap.Logger) *GuardianService {
	return &GuardianService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// EnsureGuardianCodeOps returns the student's guardian code and, when the
// student has none yet, the single field-update op that assigns a fresh one.
// Codes already assigned are returned unchanged with no write.
func (s *GuardianService) EnsureGuardianCodeOps(studentID uint64) (string, []store.Op, error) {
	student, err := s.userRepo.FindByID(studentID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to load student: %w", err)
	}
	if student.StudentGuardianCode != nil && *student.StudentGuardianCode != "" {
		return *student.StudentGuardianCode, nil, nil
	}

	for attempt := 0; attempt < guardianCodeMaxAttempts; attempt++ {
		code, err := joincode.Generate()
		if err != nil {
			return "", nil, fmt.Errorf("failed to generate guardian code: %w", err)
		}

		taken, err := s.userRepo.StudentGuardianCodeExists(code)
		if err != nil {
			return "", nil, fmt.Errorf("failed to check guardian code uniqueness: %w", err)
		}
		if taken {
			continue
		}

		ops := []store.Op{store.SetStudentGuardianCode{UserID: studentID, Code: code}}
		return code, ops, nil
	}

	return "", nil, ErrCodeGenerationExhausted
}

// GuardianLinkOps returns one class-guardian link op for each existing
// guardian of the student. A student without guardians yields an empty list.
// A read failure is logged and swallowed so it never blocks the student's own
// join.
func (s *GuardianService) GuardianLinkOps(studentID, classID uint64) []store.Op {
	guardians, err := s.userRepo.Guardians(studentID)
	if err != nil {
		s.logger.Error("failed to query guardians for student",
			zap.Uint64("student_id", studentID),
			zap.Uint64("class_id", classID),
			zap.Error(err),
		)
		return nil
	}

	ops := make([]store.Op, 0, len(guardians))
	for _, guardian := range guardians {
		ops = append(ops, store.LinkClassRole{
			ClassID: classID,
			UserID:  guardian.ID,
			Role:    models.RoleGuardian,
		})
	}
	return ops
}
