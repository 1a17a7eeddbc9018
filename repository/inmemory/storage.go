package storage

import (
	"context"
	"sync"

	"taska/internal/domain/errors"
	"taska/internal/domain/models"

	"github.com/google/uuid"
)

type Storage struct {
	mu    sync.RWMutex
	users map[string]models.User
	tasks []models.Task
}

func NewStorage() *Storage {
	return &Storage{
		users: make(map[string]models.User),
		tasks: []models.Task{},
	}
}

func (s *Storage) GetUserByID(id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, exists := s.users[id]
	if !exists {
		return nil, errors.ErrUserNotFound
	}
	return &user, nil
}

func (s *Storage) GetUserByEmail(email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Email == email {
			return &user, nil
		}
	}
	return nil, errors.ErrUserNotFound
}

func (s *Storage) CreateUser(user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existingUser := range s.users {
		if existingUser.Email == user.Email {
			return errors.ErrUserAlreadyExists
		}
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	s.users[user.ID] = *user
	return nil
}

func (s *Storage) ConfirmUser(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, exists := s.users[id]
	if !exists {
		return errors.ErrUserNotFound
	}
	user.Confirmed = true
	s.users[id] = user
	return nil
}

func (s *Storage) AddTask(ctx context.Context, task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append(s.tasks, *task)
	return nil
}

func (s *Storage) GetTasks(ctx context.Context, userID string) ([]models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tasks := []models.Task{}
	for _, t := range s.tasks {
		if t.UserID == userID {
			tasks = append(tasks, t)
		}
	}
	return tasks, nil
}

func (s *Storage) GetTaskByID(ctx context.Context, id int64) (*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			task := s.tasks[i]
			return &task, nil
		}
	}
	return nil, errors.ErrTaskNotFound
}

// Неизвестный ID — тихий no-op, не ошибка.
func (s *Storage) UpdateTask(ctx context.Context, task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tasks {
		if s.tasks[i].ID == task.ID {
			s.tasks[i] = *task
			return nil
		}
	}
	return nil
}

func (s *Storage) RemoveTask(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	filtered := s.tasks[:0]
	for _, t := range s.tasks {
		if t.ID != id {
			filtered = append(filtered, t)
		}
	}
	s.tasks = filtered
	return nil
}
