package models

import (
	"sync"
	"time"
)

type User struct {
	ID        string `json:"id" validate:"uuid"`
	FullName  string `json:"fullName" validate:"required,min=2,max=100"`
	Role      string `json:"role" validate:"required,oneof=web ios android SQA"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6,max=100"`
	Confirmed bool   `json:"confirmed"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type SignupRequest struct {
	FullName string `json:"fullName" validate:"required,min=2,max=100"`
	Role     string `json:"role" validate:"required,oneof=web ios android SQA"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=100"`
}

type Task struct {
	ID          int64  `json:"id"`
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Due         string `json:"due" validate:"required"`
	Assignee    string `json:"assignee" validate:"required"`
	Assigned    string `json:"assigned" validate:"required"`
	Priority    string `json:"priority" validate:"required,oneof=Low Normal High"`
	Status      string `json:"status" validate:"required,oneof=Pending Active Closed"`
	Description string `json:"description" validate:"omitempty,max=500"`
	UserID      string `json:"user_id,omitempty"`
}

type CreateTaskRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Due         string `json:"due" validate:"required"`
	Assignee    string `json:"assignee" validate:"required"`
	Assigned    string `json:"assigned" validate:"required"`
	Priority    string `json:"priority" validate:"required,oneof=Low Normal High"`
	Status      string `json:"status" validate:"required,oneof=Pending Active Closed"`
	Description string `json:"description" validate:"omitempty,max=500"`
}

// UpdateTaskRequest несёт полную замену записи, частичных обновлений нет.
type UpdateTaskRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Due         string `json:"due" validate:"required"`
	Assignee    string `json:"assignee" validate:"required"`
	Assigned    string `json:"assigned" validate:"required"`
	Priority    string `json:"priority" validate:"required,oneof=Low Normal High"`
	Status      string `json:"status" validate:"required,oneof=Pending Active Closed"`
	Description string `json:"description" validate:"omitempty,max=500"`
}

const DueDateLayout = "2006-01-02"

var (
	idMu       sync.Mutex
	lastTaskID int64
)

// NewTaskID выводит идентификатор из момента создания; при совпадении
// миллисекунд значение сдвигается за предыдущее.
func NewTaskID() int64 {
	idMu.Lock()
	defer idMu.Unlock()
	id := time.Now().UnixMilli()
	if id <= lastTaskID {
		id = lastTaskID + 1
	}
	lastTaskID = id
	return id
}
