package service

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/roster-api/internal/models"
	"github.com/noah-isme/roster-api/internal/repository"
	appErrors "github.com/noah-isme/roster-api/pkg/errors"
)

const (
	commonStudentsKeyPrefix = "roster:common:"
	// commonStudentsGenerationKey lives outside the prefix so invalidation does not remove it.
	commonStudentsGenerationKey = "roster:common-generation"
)

type rosterStore interface {
	RegisterTeacher(ctx context.Context, email string) error
	RegisterStudent(ctx context.Context, email string) error
	RegisterStudentsBulk(ctx context.Context, emails []string) error
	AssignStudentToTeacher(ctx context.Context, teacherEmail, studentEmail string) error
	AssignStudentsToTeacherBulk(ctx context.Context, teacherEmail string, studentEmails []string) error
	FindTeacherByEmail(ctx context.Context, email string) (*models.Teacher, error)
	FindTeachersByEmails(ctx context.Context, emails []string) ([]models.Teacher, error)
	FindStudentByEmail(ctx context.Context, email string) (*models.Student, error)
	ListCommonStudents(ctx context.Context, teacherEmails []string) ([]string, error)
	SuspendStudent(ctx context.Context, email string) error
	ListNotifiableStudents(ctx context.Context, teacherEmail string, mentions []string) ([]string, error)
}

type rosterCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Invalidate(ctx context.Context, pattern string) error
}

// RosterService implements the roster business rules on top of the roster store.
type RosterService struct {
	store  rosterStore
	cache  rosterCache
	logger *zap.Logger
}

// NewRosterService constructs a RosterService. cache may be nil.
func NewRosterService(store rosterStore, cache rosterCache, logger *zap.Logger) *RosterService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RosterService{store: store, cache: cache, logger: logger}
}

// RegisterTeacherStudentMap registers the teacher and students if needed and assigns every
// student to the teacher. Existing records and assignments are left untouched.
func (s *RosterService) RegisterTeacherStudentMap(ctx context.Context, teacherEmail string, studentEmails []string) error {
	teacher := normalizeEmail(teacherEmail)
	students := normalizeEmails(studentEmails)

	if len(students) == 0 {
		return s.ignoreDuplicate("register teacher", s.store.RegisterTeacher(ctx, teacher))
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return s.ignoreDuplicate("register teacher", s.store.RegisterTeacher(groupCtx, teacher))
	})
	group.Go(func() error {
		return s.ignoreDuplicate("register students", s.store.RegisterStudentsBulk(groupCtx, students))
	})
	if err := group.Wait(); err != nil {
		return err
	}

	if err := s.ignoreDuplicate("assign students", s.store.AssignStudentsToTeacherBulk(ctx, teacher, students)); err != nil {
		return err
	}

	s.invalidateCommonStudents(ctx)
	s.logger.Info("teacher roster registered", zap.String("teacher", teacher), zap.Int("students", len(students)))
	return nil
}

// GetCommonStudentsFromTeachers returns the students assigned to every given teacher.
// It fails with ErrUserNotFound listing the unknown teachers before computing anything.
func (s *RosterService) GetCommonStudentsFromTeachers(ctx context.Context, teacherEmails []string) ([]string, error) {
	teachers := normalizeEmails(teacherEmails)
	if len(teachers) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "at least one teacher email is required")
	}

	found, err := s.store.FindTeachersByEmails(ctx, teachers)
	if err != nil {
		return nil, s.storeError("look up teachers", err)
	}
	if missing := missingTeachers(teachers, found); len(missing) > 0 {
		return nil, appErrors.WithEmails(appErrors.ErrUserNotFound, "teacher(s) not found", missing...)
	}

	var key string
	if generation, ok := s.commonStudentsGeneration(ctx); ok {
		key = commonStudentsKey(generation, teachers)
		var cached []string
		if hit, _ := s.cache.Get(ctx, key, &cached); hit {
			return cached, nil
		}
	}

	students, err := s.store.ListCommonStudents(ctx, teachers)
	if err != nil {
		return nil, s.storeError("list common students", err)
	}
	if students == nil {
		students = []string{}
	}

	if key != "" {
		_ = s.cache.Set(ctx, key, students, 0)
	}
	return students, nil
}

// SuspendStudent marks an existing student as suspended. Suspending twice is accepted.
func (s *RosterService) SuspendStudent(ctx context.Context, studentEmail string) error {
	email := normalizeEmail(studentEmail)

	if _, err := s.store.FindStudentByEmail(ctx, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.WithEmails(appErrors.ErrUserNotFound, "student not found", email)
		}
		return s.storeError("look up student", err)
	}

	if err := s.store.SuspendStudent(ctx, email); err != nil {
		return s.storeError("suspend student", err)
	}

	s.logger.Info("student suspended", zap.String("student", email))
	return nil
}

// GetNotifiableStudents resolves the recipients of a notification: the teacher's roster plus
// every student mentioned in the body, excluding suspended students. Unknown mentions are dropped.
func (s *RosterService) GetNotifiableStudents(ctx context.Context, teacherEmail, notification string) ([]string, error) {
	teacher := normalizeEmail(teacherEmail)

	if _, err := s.store.FindTeacherByEmail(ctx, teacher); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.WithEmails(appErrors.ErrUserNotFound, "teacher not found", teacher)
		}
		return nil, s.storeError("look up teacher", err)
	}

	mentions := ExtractMentions(notification)
	recipients, err := s.store.ListNotifiableStudents(ctx, teacher, mentions)
	if err != nil {
		return nil, s.storeError("list notifiable students", err)
	}
	if recipients == nil {
		recipients = []string{}
	}

	s.logger.Debug("notification recipients resolved",
		zap.String("teacher", teacher),
		zap.Int("mentions", len(mentions)),
		zap.Int("recipients", len(recipients)),
	)
	return recipients, nil
}

// RegisterTeacher creates a single teacher, failing with ErrDuplicateUser when one exists.
func (s *RosterService) RegisterTeacher(ctx context.Context, teacherEmail string) error {
	email := normalizeEmail(teacherEmail)
	if err := s.store.RegisterTeacher(ctx, email); err != nil {
		if repository.IsDuplicate(err) {
			return appErrors.WithEmails(appErrors.ErrDuplicateUser, "teacher already exists", email)
		}
		return s.storeError("register teacher", err)
	}
	return nil
}

// RegisterStudent creates a single student, failing with ErrDuplicateUser when one exists.
func (s *RosterService) RegisterStudent(ctx context.Context, studentEmail string) error {
	email := normalizeEmail(studentEmail)
	if err := s.store.RegisterStudent(ctx, email); err != nil {
		if repository.IsDuplicate(err) {
			return appErrors.WithEmails(appErrors.ErrDuplicateUser, "student already exists", email)
		}
		return s.storeError("register student", err)
	}
	return nil
}

// AssignStudent links an existing student to an existing teacher.
func (s *RosterService) AssignStudent(ctx context.Context, teacherEmail, studentEmail string) error {
	teacher := normalizeEmail(teacherEmail)
	student := normalizeEmail(studentEmail)

	var missing []string
	if _, err := s.store.FindTeacherByEmail(ctx, teacher); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return s.storeError("look up teacher", err)
		}
		missing = append(missing, teacher)
	}
	if _, err := s.store.FindStudentByEmail(ctx, student); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return s.storeError("look up student", err)
		}
		missing = append(missing, student)
	}
	if len(missing) > 0 {
		return appErrors.WithEmails(appErrors.ErrUserNotFound, "user(s) not found", missing...)
	}

	if err := s.ignoreDuplicate("assign student", s.store.AssignStudentToTeacher(ctx, teacher, student)); err != nil {
		return err
	}
	s.invalidateCommonStudents(ctx)
	return nil
}

func (s *RosterService) ignoreDuplicate(op string, err error) error {
	if err == nil {
		return nil
	}
	if repository.IsDuplicate(err) {
		s.logger.Debug("duplicate entry ignored", zap.String("op", op))
		return nil
	}
	return s.storeError(op, err)
}

func (s *RosterService) storeError(op string, err error) error {
	if repository.KindOf(err) == repository.KindInvalidCredentials {
		s.logger.Error("data store rejected credentials", zap.String("op", op), zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrAuthentication.Code, appErrors.ErrAuthentication.Status, appErrors.ErrAuthentication.Message)
	}
	s.logger.Error("roster store failure", zap.String("op", op), zap.Error(err))
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to %s", op))
}

// commonStudentsGeneration returns the current cache generation, starting a new one when
// none is stored. ok is false when results must not be cached.
func (s *RosterService) commonStudentsGeneration(ctx context.Context) (string, bool) {
	if s.cache == nil {
		return "", false
	}
	var generation string
	hit, err := s.cache.Get(ctx, commonStudentsGenerationKey, &generation)
	if err != nil {
		return "", false
	}
	if hit && generation != "" {
		return generation, true
	}
	generation = uuid.NewString()
	if err := s.cache.Set(ctx, commonStudentsGenerationKey, generation, 0); err != nil {
		return "", false
	}
	return generation, true
}

// invalidateCommonStudents starts a new generation. Results computed under the old one are
// never read again.
func (s *RosterService) invalidateCommonStudents(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, commonStudentsGenerationKey, uuid.NewString(), 0); err != nil {
		s.logger.Warn("common students generation not advanced", zap.Error(err))
	}
	_ = s.cache.Invalidate(ctx, commonStudentsKeyPrefix+"*")
}

// commonStudentsKey hashes the sorted teacher set with length-prefixed entries, so no email
// content can make two sets collide.
func commonStudentsKey(generation string, teachers []string) string {
	sorted := append([]string(nil), teachers...)
	sort.Strings(sorted)
	digest := sha256.New()
	for _, teacher := range sorted {
		fmt.Fprintf(digest, "%d:%s", len(teacher), teacher)
	}
	return commonStudentsKeyPrefix + generation + ":" + hex.EncodeToString(digest.Sum(nil))
}

func missingTeachers(requested []string, found []models.Teacher) []string {
	known := make(map[string]struct{}, len(found))
	for _, teacher := range found {
		known[teacher.Email] = struct{}{}
	}
	var missing []string
	for _, email := range requested {
		if _, ok := known[email]; !ok {
			missing = append(missing, email)
		}
	}
	return missing
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(email)
}

func normalizeEmails(emails []string) []string {
	seen := make(map[string]struct{}, len(emails))
	result := make([]string, 0, len(emails))
	for _, email := range emails {
		email = normalizeEmail(email)
		if email == "" {
			continue
		}
		if _, ok := seen[email]; ok {
			continue
		}
		seen[email] = struct{}{}
		result = append(result, email)
	}
	return result
}
