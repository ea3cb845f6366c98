package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/roster-api/internal/dto"
	appErrors "github.com/noah-isme/roster-api/pkg/errors"
	"github.com/noah-isme/roster-api/pkg/response"
)

type rosterService interface {
	RegisterTeacherStudentMap(ctx context.Context, teacherEmail string, studentEmails []string) error
	GetCommonStudentsFromTeachers(ctx context.Context, teacherEmails []string) ([]string, error)
	SuspendStudent(ctx context.Context, studentEmail string) error
	GetNotifiableStudents(ctx context.Context, teacherEmail, notification string) ([]string, error)
	RegisterTeacher(ctx context.Context, teacherEmail string) error
	RegisterStudent(ctx context.Context, studentEmail string) error
	AssignStudent(ctx context.Context, teacherEmail, studentEmail string) error
}

// RosterHandler exposes the teacher/student roster endpoints.
type RosterHandler struct {
	service  rosterService
	validate *validator.Validate
}

// NewRosterHandler builds a new handler.
func NewRosterHandler(service rosterService, validate *validator.Validate) *RosterHandler {
	if validate == nil {
		validate = validator.New()
	}
	return &RosterHandler{service: service, validate: validate}
}

// RegisterRoutes mounts the roster endpoints on r.
func (h *RosterHandler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/register", h.Register)
	r.GET("/commonstudents", h.CommonStudents)
	r.POST("/suspend", h.Suspend)
	r.POST("/retrievefornotifications", h.Notifications)
	r.POST("/teachers", h.CreateTeacher)
	r.POST("/students", h.CreateStudent)
	r.POST("/assignments", h.Assign)
}

// Register godoc
// @Summary Register a teacher and their students
// @Description Creates missing teachers and students and assigns every student to the teacher. Existing records are kept.
// @Tags Roster
// @Accept json
// @Param payload body dto.RegisterRequest true "Teacher and students"
// @Success 204
// @Failure 400 {object} response.Envelope
// @Router /register [post]
func (h *RosterHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !h.bind(c, &req) {
		return
	}
	if err := h.checkEmails(append([]string{req.Teacher}, req.Students...)...); err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.RegisterTeacherStudentMap(c.Request.Context(), req.Teacher, req.Students); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// CommonStudents godoc
// @Summary List students common to all given teachers
// @Tags Roster
// @Produce json
// @Param teacher query []string true "Teacher email, repeatable" collectionFormat(multi)
// @Success 200 {object} response.Envelope{data=dto.CommonStudentsResponse}
// @Failure 404 {object} response.Envelope
// @Router /commonstudents [get]
func (h *RosterHandler) CommonStudents(c *gin.Context) {
	teachers := c.QueryArray("teacher")
	if len(teachers) == 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "at least one teacher email is required"))
		return
	}
	if err := h.checkEmails(teachers...); err != nil {
		response.Error(c, err)
		return
	}
	students, err := h.service.GetCommonStudentsFromTeachers(c.Request.Context(), teachers)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.CommonStudentsResponse{Students: students})
}

// Suspend godoc
// @Summary Suspend a student
// @Tags Roster
// @Accept json
// @Param payload body dto.SuspendRequest true "Student to suspend"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /suspend [post]
func (h *RosterHandler) Suspend(c *gin.Context) {
	var req dto.SuspendRequest
	if !h.bind(c, &req) {
		return
	}
	if err := h.checkEmails(req.Student); err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.SuspendStudent(c.Request.Context(), req.Student); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Notifications godoc
// @Summary Resolve the recipients of a notification
// @Description Returns the teacher's unsuspended students plus any unsuspended student mentioned as @email.
// @Tags Roster
// @Accept json
// @Produce json
// @Param payload body dto.NotificationRequest true "Teacher and notification text"
// @Success 200 {object} response.Envelope{data=dto.NotificationRecipientsResponse}
// @Failure 404 {object} response.Envelope
// @Router /retrievefornotifications [post]
func (h *RosterHandler) Notifications(c *gin.Context) {
	var req dto.NotificationRequest
	if !h.bind(c, &req) {
		return
	}
	if strings.TrimSpace(req.Notification) == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "empty notification message"))
		return
	}
	if err := h.checkEmails(req.Teacher); err != nil {
		response.Error(c, err)
		return
	}
	recipients, err := h.service.GetNotifiableStudents(c.Request.Context(), req.Teacher, req.Notification)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NotificationRecipientsResponse{Recipients: recipients})
}

// CreateTeacher godoc
// @Summary Register a single teacher
// @Tags Roster
// @Accept json
// @Param payload body dto.TeacherRequest true "Teacher"
// @Success 201
// @Failure 409 {object} response.Envelope
// @Router /teachers [post]
func (h *RosterHandler) CreateTeacher(c *gin.Context) {
	var req dto.TeacherRequest
	if !h.bind(c, &req) {
		return
	}
	if err := h.checkEmails(req.Email); err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.RegisterTeacher(c.Request.Context(), req.Email); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

// CreateStudent godoc
// @Summary Register a single student
// @Tags Roster
// @Accept json
// @Param payload body dto.StudentRequest true "Student"
// @Success 201
// @Failure 409 {object} response.Envelope
// @Router /students [post]
func (h *RosterHandler) CreateStudent(c *gin.Context) {
	var req dto.StudentRequest
	if !h.bind(c, &req) {
		return
	}
	if err := h.checkEmails(req.Email); err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.RegisterStudent(c.Request.Context(), req.Email); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

// Assign godoc
// @Summary Assign an existing student to an existing teacher
// @Tags Roster
// @Accept json
// @Param payload body dto.AssignmentRequest true "Assignment"
// @Success 201
// @Failure 404 {object} response.Envelope
// @Router /assignments [post]
func (h *RosterHandler) Assign(c *gin.Context) {
	var req dto.AssignmentRequest
	if !h.bind(c, &req) {
		return
	}
	if err := h.checkEmails(req.Teacher, req.Student); err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.AssignStudent(c.Request.Context(), req.Teacher, req.Student); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

func (h *RosterHandler) bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid request payload"))
		return false
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, validationMessage(err)))
		return false
	}
	return true
}

func (h *RosterHandler) checkEmails(emails ...string) error {
	var invalid []string
	for _, email := range emails {
		if h.validate.Var(strings.TrimSpace(email), "required,email") != nil {
			invalid = append(invalid, email)
		}
	}
	if len(invalid) == 0 {
		return nil
	}
	return appErrors.WithEmails(appErrors.ErrValidation, "invalid emails: "+strings.Join(invalid, ", "), invalid...)
}

func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return strings.ToLower(fieldErrs[0].Field()) + " is required"
	}
	return "invalid request payload"
}
