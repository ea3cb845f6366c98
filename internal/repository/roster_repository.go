package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/roster-api/internal/models"
)

// bulkBatchSize bounds the rows per multi-row INSERT so the bind parameters stay under
// every supported driver's limit.
const bulkBatchSize = 500

type queryObserver interface {
	ObserveDBQuery(label string, duration time.Duration)
}

// RosterRepository persists teachers, students and the assignments between them.
// Every method reports driver failures through translateError.
type RosterRepository struct {
	db       *sqlx.DB
	builder  sq.StatementBuilderType
	observer queryObserver
}

// NewRosterRepository constructs a RosterRepository. observer may be nil.
func NewRosterRepository(db *sqlx.DB, observer queryObserver) *RosterRepository {
	var format sq.PlaceholderFormat = sq.Question
	if sqlx.BindType(db.DriverName()) == sqlx.DOLLAR {
		format = sq.Dollar
	}
	return &RosterRepository{
		db:       db,
		builder:  sq.StatementBuilder.PlaceholderFormat(format),
		observer: observer,
	}
}

// RegisterTeacher inserts a teacher. An existing email yields KindDuplicateEntry.
func (r *RosterRepository) RegisterTeacher(ctx context.Context, email string) error {
	defer r.observe("register_teacher", time.Now())
	const query = `INSERT INTO teachers (id, email) VALUES (?, ?)`
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(query), uuid.NewString(), email); err != nil {
		return translateError("register teacher", err)
	}
	return nil
}

// RegisterStudent inserts a student. An existing email yields KindDuplicateEntry.
func (r *RosterRepository) RegisterStudent(ctx context.Context, email string) error {
	defer r.observe("register_student", time.Now())
	const query = `INSERT INTO students (id, email) VALUES (?, ?)`
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(query), uuid.NewString(), email); err != nil {
		return translateError("register student", err)
	}
	return nil
}

// RegisterStudentsBulk inserts all students in one transaction, skipping emails already registered.
func (r *RosterRepository) RegisterStudentsBulk(ctx context.Context, emails []string) error {
	if len(emails) == 0 {
		return nil
	}
	defer r.observe("register_students_bulk", time.Now())

	rows := make([][]interface{}, 0, len(emails))
	for _, email := range emails {
		rows = append(rows, []interface{}{uuid.NewString(), email})
	}
	return r.insertBatches(ctx, "register students bulk", "students", []string{"id", "email"}, rows)
}

// AssignStudentToTeacher links one student to a teacher. An active link yields KindDuplicateEntry.
func (r *RosterRepository) AssignStudentToTeacher(ctx context.Context, teacherEmail, studentEmail string) error {
	defer r.observe("assign_student", time.Now())
	const query = `INSERT INTO teacher_student_map (id, teacher_email, student_email) VALUES (?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(query), uuid.NewString(), teacherEmail, studentEmail); err != nil {
		return translateError("assign student to teacher", err)
	}
	return nil
}

// AssignStudentsToTeacherBulk links every student to the teacher in one transaction, skipping active links.
func (r *RosterRepository) AssignStudentsToTeacherBulk(ctx context.Context, teacherEmail string, studentEmails []string) error {
	if len(studentEmails) == 0 {
		return nil
	}
	defer r.observe("assign_students_bulk", time.Now())

	rows := make([][]interface{}, 0, len(studentEmails))
	for _, studentEmail := range studentEmails {
		rows = append(rows, []interface{}{uuid.NewString(), teacherEmail, studentEmail})
	}
	columns := []string{"id", "teacher_email", "student_email"}
	return r.insertBatches(ctx, "assign students to teacher bulk", "teacher_student_map", columns, rows)
}

// FindTeacherByEmail fetches a non-deleted teacher. Absence is reported as sql.ErrNoRows.
func (r *RosterRepository) FindTeacherByEmail(ctx context.Context, email string) (*models.Teacher, error) {
	defer r.observe("find_teacher", time.Now())
	const query = `SELECT id, email, is_deleted FROM teachers WHERE email = ? AND is_deleted = FALSE`
	var teacher models.Teacher
	if err := r.db.GetContext(ctx, &teacher, r.db.Rebind(query), email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, translateError("find teacher", err)
	}
	return &teacher, nil
}

// FindTeachersByEmails fetches the non-deleted teachers among emails. Unknown emails are simply absent.
func (r *RosterRepository) FindTeachersByEmails(ctx context.Context, emails []string) ([]models.Teacher, error) {
	if len(emails) == 0 {
		return nil, nil
	}
	defer r.observe("find_teachers", time.Now())

	query, args, err := sqlx.In(`SELECT id, email, is_deleted FROM teachers WHERE email IN (?) AND is_deleted = FALSE`, emails)
	if err != nil {
		return nil, fmt.Errorf("build teachers lookup: %w", err)
	}
	var teachers []models.Teacher
	if err := r.db.SelectContext(ctx, &teachers, r.db.Rebind(query), args...); err != nil {
		return nil, translateError("find teachers", err)
	}
	return teachers, nil
}

// FindStudentByEmail fetches a non-deleted student. Absence is reported as sql.ErrNoRows.
func (r *RosterRepository) FindStudentByEmail(ctx context.Context, email string) (*models.Student, error) {
	defer r.observe("find_student", time.Now())
	const query = `SELECT id, email, is_deleted, is_suspended FROM students WHERE email = ? AND is_deleted = FALSE`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, r.db.Rebind(query), email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, translateError("find student", err)
	}
	return &student, nil
}

// ListCommonStudents returns the students assigned to every one of the given teachers.
func (r *RosterRepository) ListCommonStudents(ctx context.Context, teacherEmails []string) ([]string, error) {
	distinct := uniqueStrings(teacherEmails)
	if len(distinct) == 0 {
		return nil, nil
	}
	defer r.observe("list_common_students", time.Now())

	const base = `
SELECT student_email
FROM teacher_student_map
WHERE teacher_email IN (?)
    AND is_deleted = FALSE
GROUP BY student_email
HAVING COUNT(DISTINCT teacher_email) = ?
ORDER BY student_email`
	query, args, err := sqlx.In(base, distinct, len(distinct))
	if err != nil {
		return nil, fmt.Errorf("build common students query: %w", err)
	}
	var students []string
	if err := r.db.SelectContext(ctx, &students, r.db.Rebind(query), args...); err != nil {
		return nil, translateError("list common students", err)
	}
	return students, nil
}

// SuspendStudent flags the student as suspended. Existence is not checked here.
func (r *RosterRepository) SuspendStudent(ctx context.Context, email string) error {
	defer r.observe("suspend_student", time.Now())
	const query = `UPDATE students SET is_suspended = TRUE WHERE email = ?`
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(query), email); err != nil {
		return translateError("suspend student", err)
	}
	return nil
}

// ListNotifiableStudents returns active, unsuspended students that are either on the
// teacher's roster or among mentions, in a single query.
func (r *RosterRepository) ListNotifiableStudents(ctx context.Context, teacherEmail string, mentions []string) ([]string, error) {
	defer r.observe("list_notifiable_students", time.Now())

	base := `
SELECT DISTINCT s.email
FROM students s
WHERE s.is_deleted = FALSE
    AND s.is_suspended = FALSE
    AND (s.email IN (
            SELECT tsm.student_email
            FROM teacher_student_map tsm
            WHERE tsm.teacher_email = ? AND tsm.is_deleted = FALSE
        )`
	args := []interface{}{teacherEmail}
	if len(mentions) > 0 {
		base += `
        OR s.email IN (?)`
		args = append(args, mentions)
	}
	base += `)
ORDER BY s.email`

	query, args, err := sqlx.In(base, args...)
	if err != nil {
		return nil, fmt.Errorf("build notifiable students query: %w", err)
	}
	var students []string
	if err := r.db.SelectContext(ctx, &students, r.db.Rebind(query), args...); err != nil {
		return nil, translateError("list notifiable students", err)
	}
	return students, nil
}

// insertBatches writes rows with ON CONFLICT DO NOTHING in chunks of bulkBatchSize.
// All chunks share one transaction, so a failure leaves nothing behind.
func (r *RosterRepository) insertBatches(ctx context.Context, op, table string, columns []string, rows [][]interface{}) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return translateError(op, err)
	}
	defer tx.Rollback() //nolint:errcheck

	for start := 0; start < len(rows); start += bulkBatchSize {
		end := min(start+bulkBatchSize, len(rows))
		insert := r.builder.Insert(table).Columns(columns...).Suffix("ON CONFLICT DO NOTHING")
		for _, row := range rows[start:end] {
			insert = insert.Values(row...)
		}
		query, args, err := insert.ToSql()
		if err != nil {
			return fmt.Errorf("build %s insert: %w", op, err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return translateError(op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return translateError(op, err)
	}
	return nil
}

func (r *RosterRepository) observe(label string, start time.Time) {
	if r.observer == nil {
		return
	}
	r.observer.ObserveDBQuery(label, time.Since(start))
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, value := range values {
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		result = append(result, value)
	}
	return result
}
