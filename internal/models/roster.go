package models

// Teacher is a registered teacher identified by email.
type Teacher struct {
	ID        string `db:"id" json:"id"`
	Email     string `db:"email" json:"email"`
	IsDeleted bool   `db:"is_deleted" json:"-"`
}

// Student is a registered student identified by email.
type Student struct {
	ID          string `db:"id" json:"id"`
	Email       string `db:"email" json:"email"`
	IsDeleted   bool   `db:"is_deleted" json:"-"`
	IsSuspended bool   `db:"is_suspended" json:"is_suspended"`
}

// Assignment records that a student is on a teacher's roster.
type Assignment struct {
	ID           string `db:"id" json:"id"`
	TeacherEmail string `db:"teacher_email" json:"teacher_email"`
	StudentEmail string `db:"student_email" json:"student_email"`
	IsDeleted    bool   `db:"is_deleted" json:"-"`
}
