package repository

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/roster-api/migrations"
	"github.com/noah-isme/roster-api/pkg/config"
	"github.com/noah-isme/roster-api/pkg/database"
)

func newSQLiteRoster(t *testing.T) (*RosterRepository, *sqlx.DB) {
	t.Helper()
	db, err := database.Open(context.Background(), config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	goose.SetLogger(goose.NopLogger())
	require.NoError(t, migrations.Up(db.DB, config.DriverSQLite))
	return NewRosterRepository(db, nil), db
}

func TestRosterRepositorySQLiteDuplicates(t *testing.T) {
	repo, db := newSQLiteRoster(t)
	ctx := context.Background()

	require.NoError(t, repo.RegisterTeacher(ctx, "teacherken@gmail.com"))
	err := repo.RegisterTeacher(ctx, "teacherken@gmail.com")
	require.Error(t, err)
	assert.True(t, IsDuplicate(err))

	require.NoError(t, repo.RegisterStudent(ctx, "studentjon@gmail.com"))
	require.NoError(t, repo.RegisterStudentsBulk(ctx, []string{"studentjon@gmail.com", "studenthon@gmail.com", "studenthon@gmail.com"}))

	var students int
	require.NoError(t, db.Get(&students, "SELECT COUNT(*) FROM students"))
	assert.Equal(t, 2, students)

	require.NoError(t, repo.AssignStudentToTeacher(ctx, "teacherken@gmail.com", "studentjon@gmail.com"))
	require.NoError(t, repo.AssignStudentsToTeacherBulk(ctx, "teacherken@gmail.com", []string{"studentjon@gmail.com", "studenthon@gmail.com"}))
	err = repo.AssignStudentToTeacher(ctx, "teacherken@gmail.com", "studenthon@gmail.com")
	assert.True(t, IsDuplicate(err))

	var links int
	require.NoError(t, db.Get(&links, "SELECT COUNT(*) FROM teacher_student_map"))
	assert.Equal(t, 2, links)
}

func TestRosterRepositorySQLiteCommonStudents(t *testing.T) {
	repo, db := newSQLiteRoster(t)
	ctx := context.Background()

	require.NoError(t, repo.RegisterStudentsBulk(ctx, []string{"a@x.com", "b@x.com", "c@x.com", "d@x.com"}))
	require.NoError(t, repo.AssignStudentsToTeacherBulk(ctx, "t1@x.com", []string{"a@x.com", "b@x.com", "c@x.com"}))
	require.NoError(t, repo.AssignStudentsToTeacherBulk(ctx, "t2@x.com", []string{"b@x.com", "c@x.com", "d@x.com"}))
	require.NoError(t, repo.AssignStudentsToTeacherBulk(ctx, "t3@x.com", []string{"d@x.com"}))

	common, err := repo.ListCommonStudents(ctx, []string{"t1@x.com", "t2@x.com"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b@x.com", "c@x.com"}, common)

	single, err := repo.ListCommonStudents(ctx, []string{"t1@x.com"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a@x.com", "b@x.com", "c@x.com"}, single)

	disjoint, err := repo.ListCommonStudents(ctx, []string{"t1@x.com", "t3@x.com"})
	require.NoError(t, err)
	assert.Empty(t, disjoint)

	_, err = db.Exec("UPDATE teacher_student_map SET is_deleted = TRUE WHERE teacher_email = 't2@x.com' AND student_email = 'c@x.com'")
	require.NoError(t, err)
	common, err = repo.ListCommonStudents(ctx, []string{"t1@x.com", "t2@x.com"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b@x.com"}, common)
}

func TestRosterRepositorySQLiteNotifiableStudents(t *testing.T) {
	repo, db := newSQLiteRoster(t)
	ctx := context.Background()

	require.NoError(t, repo.RegisterTeacher(ctx, "teacherken@gmail.com"))
	require.NoError(t, repo.RegisterStudentsBulk(ctx, []string{"studentbob@gmail.com", "studentmary@gmail.com", "studentagnes@gmail.com", "studentgone@gmail.com"}))
	require.NoError(t, repo.AssignStudentsToTeacherBulk(ctx, "teacherken@gmail.com", []string{"studentbob@gmail.com", "studentmary@gmail.com"}))
	require.NoError(t, repo.SuspendStudent(ctx, "studentmary@gmail.com"))
	_, err := db.Exec("UPDATE students SET is_deleted = TRUE WHERE email = 'studentgone@gmail.com'")
	require.NoError(t, err)

	recipients, err := repo.ListNotifiableStudents(ctx, "teacherken@gmail.com", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"studentbob@gmail.com"}, recipients)

	recipients, err = repo.ListNotifiableStudents(ctx, "teacherken@gmail.com", []string{
		"studentagnes@gmail.com",
		"studentbob@gmail.com",
		"studentmary@gmail.com",
		"studentgone@gmail.com",
		"nobody@gmail.com",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"studentagnes@gmail.com", "studentbob@gmail.com"}, recipients)

	student, err := repo.FindStudentByEmail(ctx, "studentmary@gmail.com")
	require.NoError(t, err)
	assert.True(t, student.IsSuspended)

	_, err = repo.FindStudentByEmail(ctx, "studentgone@gmail.com")
	assert.Error(t, err)
}
