package dto

// RegisterRequest registers a teacher together with their students.
type RegisterRequest struct {
	Teacher  string   `json:"teacher" validate:"required"`
	Students []string `json:"students" validate:"required"`
}

// SuspendRequest suspends a single student.
type SuspendRequest struct {
	Student string `json:"student" validate:"required"`
}

// NotificationRequest asks for the recipients of a notification.
type NotificationRequest struct {
	Teacher      string `json:"teacher" validate:"required"`
	Notification string `json:"notification" validate:"required"`
}

// TeacherRequest registers a single teacher.
type TeacherRequest struct {
	Email string `json:"email" validate:"required"`
}

// StudentRequest registers a single student.
type StudentRequest struct {
	Email string `json:"email" validate:"required"`
}

// AssignmentRequest assigns an existing student to an existing teacher.
type AssignmentRequest struct {
	Teacher string `json:"teacher" validate:"required"`
	Student string `json:"student" validate:"required"`
}

// CommonStudentsResponse lists students shared by the requested teachers.
type CommonStudentsResponse struct {
	Students []string `json:"students"`
}

// NotificationRecipientsResponse lists students who should receive a notification.
type NotificationRecipientsResponse struct {
	Recipients []string `json:"recipients"`
}
