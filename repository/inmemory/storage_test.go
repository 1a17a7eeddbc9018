package storage

import (
	"context"
	"testing"

	"taska/internal/domain/errors"
	"taska/internal/domain/models"

	"github.com/stretchr/testify/assert"
)

func TestNewStorage(t *testing.T) {
	s := NewStorage()

	assert.NotNil(t, s)
	assert.NotNil(t, s.users)
	assert.NotNil(t, s.tasks)
	assert.Empty(t, s.users)
	assert.Empty(t, s.tasks)
}

func testTask(id int64, name string) models.Task {
	return models.Task{
		ID:       id,
		Name:     name,
		Due:      "2024-01-20",
		Assignee: "Saeed",
		Assigned: "Majid",
		Priority: "Low",
		Status:   "Pending",
		UserID:   "user123",
	}
}

func TestStorageAddTask(t *testing.T) {
	tests := []struct {
		name  string
		setup []models.Task
		add   models.Task
		want  struct {
			count   int
			lastID  int64
			ordered []int64
		}
	}{
		{
			name: "append to empty collection",
			add:  testTask(1, "first"),
			want: struct {
				count   int
				lastID  int64
				ordered []int64
			}{
				count:   1,
				lastID:  1,
				ordered: []int64{1},
			},
		},
		{
			name:  "append preserves previous entries and order",
			setup: []models.Task{testTask(1, "first"), testTask(2, "second")},
			add:   testTask(3, "third"),
			want: struct {
				count   int
				lastID  int64
				ordered []int64
			}{
				count:   3,
				lastID:  3,
				ordered: []int64{1, 2, 3},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStorage()
			ctx := context.Background()
			for i := range tt.setup {
				assert.NoError(t, s.AddTask(ctx, &tt.setup[i]))
			}

			assert.NoError(t, s.AddTask(ctx, &tt.add))

			tasks, err := s.GetTasks(ctx, "user123")
			assert.NoError(t, err)
			assert.Len(t, tasks, tt.want.count)
			ids := make([]int64, 0, len(tasks))
			for _, task := range tasks {
				ids = append(ids, task.ID)
			}
			assert.Equal(t, tt.want.ordered, ids)
			assert.Equal(t, tt.want.lastID, tasks[len(tasks)-1].ID)
			assert.Equal(t, tt.add, tasks[len(tasks)-1])
		})
	}
}

func TestStorageUpdateTask(t *testing.T) {
	tests := []struct {
		name   string
		setup  []models.Task
		update models.Task
		want   struct {
			names []string
		}
	}{
		{
			name:   "replace matching entry in place",
			setup:  []models.Task{testTask(1, "first"), testTask(2, "second"), testTask(3, "third")},
			update: testTask(2, "renamed"),
			want: struct {
				names []string
			}{
				names: []string{"first", "renamed", "third"},
			},
		},
		{
			name:   "unknown id is a no-op",
			setup:  []models.Task{testTask(1, "first"), testTask(2, "second")},
			update: testTask(42, "phantom"),
			want: struct {
				names []string
			}{
				names: []string{"first", "second"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStorage()
			ctx := context.Background()
			for i := range tt.setup {
				assert.NoError(t, s.AddTask(ctx, &tt.setup[i]))
			}

			assert.NoError(t, s.UpdateTask(ctx, &tt.update))

			tasks, err := s.GetTasks(ctx, "user123")
			assert.NoError(t, err)
			names := make([]string, 0, len(tasks))
			for _, task := range tasks {
				names = append(names, task.Name)
			}
			assert.Equal(t, tt.want.names, names)
		})
	}
}

func TestStorageUpdateTaskReplacesWholeRecord(t *testing.T) {
	s := NewStorage()
	ctx := context.Background()
	original := testTask(1, "first")
	assert.NoError(t, s.AddTask(ctx, &original))

	replacement := models.Task{
		ID:          1,
		Name:        "first",
		Due:         "2024-02-01",
		Assignee:    "Saud Haris",
		Assigned:    "Kaif",
		Priority:    "High",
		Status:      "Active",
		Description: "updated inline",
		UserID:      "user123",
	}
	assert.NoError(t, s.UpdateTask(ctx, &replacement))

	got, err := s.GetTaskByID(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, replacement, *got)
}

func TestStorageRemoveTask(t *testing.T) {
	tests := []struct {
		name   string
		setup  []models.Task
		remove int64
		want   struct {
			remaining []int64
		}
	}{
		{
			name:   "remove matching entry",
			setup:  []models.Task{testTask(1, "first"), testTask(2, "second"), testTask(3, "third")},
			remove: 2,
			want: struct {
				remaining []int64
			}{
				remaining: []int64{1, 3},
			},
		},
		{
			name:   "unknown id is a no-op",
			setup:  []models.Task{testTask(1, "first")},
			remove: 42,
			want: struct {
				remaining []int64
			}{
				remaining: []int64{1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStorage()
			ctx := context.Background()
			for i := range tt.setup {
				assert.NoError(t, s.AddTask(ctx, &tt.setup[i]))
			}

			assert.NoError(t, s.RemoveTask(ctx, tt.remove))

			tasks, err := s.GetTasks(ctx, "user123")
			assert.NoError(t, err)
			ids := make([]int64, 0, len(tasks))
			for _, task := range tasks {
				ids = append(ids, task.ID)
			}
			assert.Equal(t, tt.want.remaining, ids)
		})
	}
}

func TestStorageRemoveTaskIdempotent(t *testing.T) {
	s := NewStorage()
	ctx := context.Background()
	first := testTask(1, "first")
	second := testTask(2, "second")
	assert.NoError(t, s.AddTask(ctx, &first))
	assert.NoError(t, s.AddTask(ctx, &second))

	assert.NoError(t, s.RemoveTask(ctx, 1))
	assert.NoError(t, s.RemoveTask(ctx, 1))

	tasks, err := s.GetTasks(ctx, "user123")
	assert.NoError(t, err)
	assert.Len(t, tasks, 1)
	assert.Equal(t, int64(2), tasks[0].ID)
}

func TestStorageGetTasksFiltersByOwner(t *testing.T) {
	s := NewStorage()
	ctx := context.Background()

	mine := testTask(1, "mine")
	foreign := testTask(2, "foreign")
	foreign.UserID = "user456"
	assert.NoError(t, s.AddTask(ctx, &mine))
	assert.NoError(t, s.AddTask(ctx, &foreign))

	tasks, err := s.GetTasks(ctx, "user123")
	assert.NoError(t, err)
	assert.Len(t, tasks, 1)
	assert.Equal(t, "mine", tasks[0].Name)

	empty, err := s.GetTasks(ctx, "nobody")
	assert.NoError(t, err)
	assert.Empty(t, empty)
}

func TestStorageGetTaskByID(t *testing.T) {
	s := NewStorage()
	ctx := context.Background()
	task := testTask(7, "lookup")
	assert.NoError(t, s.AddTask(ctx, &task))

	got, err := s.GetTaskByID(ctx, 7)
	assert.NoError(t, err)
	assert.Equal(t, task, *got)

	_, err = s.GetTaskByID(ctx, 8)
	assert.Equal(t, errors.ErrTaskNotFound, err)
}

func TestStorageCreateUser(t *testing.T) {
	tests := []struct {
		name  string
		setup []models.User
		user  models.User
		want  struct {
			err error
		}
	}{
		{
			name: "create assigns id",
			user: models.User{FullName: "Syed Muqarab", Role: "web", Email: "syed@example.com", Password: "hash"},
			want: struct {
				err error
			}{
				err: nil,
			},
		},
		{
			name:  "duplicate email rejected",
			setup: []models.User{{FullName: "Syed Muqarab", Role: "web", Email: "syed@example.com", Password: "hash"}},
			user:  models.User{FullName: "Impostor", Role: "ios", Email: "syed@example.com", Password: "hash"},
			want: struct {
				err error
			}{
				err: errors.ErrUserAlreadyExists,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStorage()
			for i := range tt.setup {
				assert.NoError(t, s.CreateUser(&tt.setup[i]))
			}

			err := s.CreateUser(&tt.user)
			assert.Equal(t, tt.want.err, err)
			if tt.want.err == nil {
				assert.NotEmpty(t, tt.user.ID)

				got, err := s.GetUserByID(tt.user.ID)
				assert.NoError(t, err)
				assert.Equal(t, tt.user.Email, got.Email)
			}
		})
	}
}

func TestStorageGetUserByEmail(t *testing.T) {
	s := NewStorage()
	user := models.User{FullName: "Saud Haris", Role: "ios", Email: "saud@example.com", Password: "hash"}
	assert.NoError(t, s.CreateUser(&user))

	got, err := s.GetUserByEmail("saud@example.com")
	assert.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = s.GetUserByEmail("nobody@example.com")
	assert.Equal(t, errors.ErrUserNotFound, err)
}

func TestStorageConfirmUser(t *testing.T) {
	s := NewStorage()
	user := models.User{FullName: "Saud Haris", Role: "ios", Email: "saud@example.com", Password: "hash"}
	assert.NoError(t, s.CreateUser(&user))
	assert.False(t, user.Confirmed)

	assert.NoError(t, s.ConfirmUser(user.ID))

	got, err := s.GetUserByID(user.ID)
	assert.NoError(t, err)
	assert.True(t, got.Confirmed)

	assert.Equal(t, errors.ErrUserNotFound, s.ConfirmUser("ghost"))
}
