package server

import (
	"strings"
	"time"

	"taska/internal/domain/models"

	"github.com/go-playground/validator"
)

const (
	msgInvalidEmail     = "Please enter a valid email"
	msgShortPassword    = "Password must be at least 6 characters"
	msgFullNameRequired = "Full name is required"
	msgRoleRequired     = "Please select a role"

	msgPasswordLength = "Password must be at least 8 characters"
	msgPasswordUpper  = "Password must contain at least one uppercase letter"
	msgPasswordLower  = "Password must contain at least one lowercase letter"
	msgPasswordDigit  = "Password must contain at least one digit"
	msgPasswordSymbol = "Password must contain at least one symbol"
)

var allowedUserRoles = map[string]bool{
	"web":     true,
	"ios":     true,
	"android": true,
	"SQA":     true,
}

var allowedTaskPriorities = map[string]bool{
	"Low":    true,
	"Normal": true,
	"High":   true,
}

var allowedTaskStatuses = map[string]bool{
	"Pending": true,
	"Active":  true,
	"Closed":  true,
}

var allowedAssignees = map[string]bool{
	"Syed Muqarab": true,
	"Saud Haris":   true,
	"Saeed":        true,
}

var allowedAssigners = map[string]bool{
	"Majid": true,
	"Kaif":  true,
	"Ahmer": true,
}

var valid = validator.New()

func loginFieldErrors(req *models.LoginRequest) map[string]string {
	errs := map[string]string{}

	req.Email = strings.TrimSpace(req.Email)
	if err := valid.Var(req.Email, "required,email"); err != nil {
		errs["email"] = msgInvalidEmail
	}
	if len(req.Password) < 6 {
		errs["password"] = msgShortPassword
	}

	return errs
}

func signupFieldErrors(req *models.SignupRequest) map[string]string {
	errs := map[string]string{}

	req.FullName = strings.TrimSpace(req.FullName)
	if len(req.FullName) < 2 {
		errs["fullName"] = msgFullNameRequired
	}
	if !allowedUserRoles[req.Role] {
		errs["role"] = msgRoleRequired
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := valid.Var(req.Email, "required,email"); err != nil {
		errs["email"] = msgInvalidEmail
	}
	if msg := signupPasswordError(req.Password); msg != "" {
		errs["password"] = msg
	}

	return errs
}

// Правила проверяются в фиксированном порядке, возвращается первое нарушенное.
func signupPasswordError(password string) string {
	if len(password) < 8 {
		return msgPasswordLength
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		default:
			hasSymbol = true
		}
	}

	switch {
	case !hasUpper:
		return msgPasswordUpper
	case !hasLower:
		return msgPasswordLower
	case !hasDigit:
		return msgPasswordDigit
	case !hasSymbol:
		return msgPasswordSymbol
	}
	return ""
}

func taskFieldErrors(name, due, assignee, assigned, priority, status, description string) map[string]string {
	errs := map[string]string{}

	if strings.TrimSpace(name) == "" {
		errs["name"] = "Title is required"
	} else if len(name) > 100 {
		errs["name"] = "Title must be at most 100 characters"
	}
	if due == "" {
		errs["due"] = "Due date is required"
	} else if _, err := time.Parse(models.DueDateLayout, due); err != nil {
		errs["due"] = "Please enter a valid due date"
	}
	if !allowedAssignees[assignee] {
		errs["assignee"] = "Please select an assignee"
	}
	if !allowedAssigners[assigned] {
		errs["assigned"] = "Please select who assigned the task"
	}
	if !allowedTaskPriorities[priority] {
		errs["priority"] = "Please select a priority"
	}
	if !allowedTaskStatuses[status] {
		errs["status"] = "Please select a status"
	}
	if len(description) > 500 {
		errs["description"] = "Description must be at most 500 characters"
	}

	return errs
}
