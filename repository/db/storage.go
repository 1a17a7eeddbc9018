package db

import (
	"context"
	"log"
	"time"

	"taska/internal/domain/errors"
	"taska/internal/domain/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Storage работает через пул соединений: обработчики gin выполняют
// запросы параллельно, одиночное соединение здесь не годится.
type Storage struct {
	pool              *pgxpool.Pool
	sqlAddTask        string
	sqlGetTaskByID    string
	sqlGetTasks       string
	sqlUpdateTask     string
	sqlRemoveTask     string
	sqlCreateUser     string
	sqlGetUserByID    string
	sqlGetUserByEmail string
	sqlConfirmUser    string
}

func NewStorage(connStr string) (*Storage, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		log.Println("[ERROR] Не удалось разобрать строку подключения:", err)
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		log.Println("[ERROR] Не удалось подключиться к базе данных:", err)
		pool.Close()
		return nil, err
	}

	s := &Storage{
		pool:              pool,
		sqlAddTask:        `INSERT INTO tasks (id, name, due, assignee, assigned_by, priority, status, description, user_id) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		sqlGetTaskByID:    `SELECT id, name, due, assignee, assigned_by, priority, status, description, user_id FROM tasks WHERE id = $1`,
		sqlGetTasks:       `SELECT id, name, due, assignee, assigned_by, priority, status, description, user_id FROM tasks WHERE user_id = $1 ORDER BY id`,
		sqlUpdateTask:     `UPDATE tasks SET name = $1, due = $2, assignee = $3, assigned_by = $4, priority = $5, status = $6, description = $7 WHERE id = $8`,
		sqlRemoveTask:     `DELETE FROM tasks WHERE id = $1`,
		sqlCreateUser:     `INSERT INTO users (id, full_name, role, email, password, confirmed) VALUES ($1, $2, $3, $4, $5, $6)`,
		sqlGetUserByID:    `SELECT id, full_name, role, email, password, confirmed FROM users WHERE id = $1`,
		sqlGetUserByEmail: `SELECT id, full_name, role, email, password, confirmed FROM users WHERE email = $1`,
		sqlConfirmUser:    `UPDATE users SET confirmed = true WHERE id = $1`,
	}
	log.Println("[SUCCESS] Соединение с базой данных установлено успешно")
	return s, nil
}

func (s *Storage) Close() {
	s.pool.Close()
}

func (s *Storage) AddTask(ctx context.Context, task *models.Task) error {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	_, err := s.pool.Exec(ctx, s.sqlAddTask, task.ID, task.Name, task.Due, task.Assignee, task.Assigned, task.Priority, task.Status, task.Description, task.UserID)
	if err != nil {
		log.Println("[ERROR] Не удалось добавить задачу:", err)
		return errors.ErrConflict
	}
	log.Println("[SUCCESS] Задача успешно добавлена:", task.ID)
	return nil
}

func (s *Storage) GetTaskByID(ctx context.Context, id int64) (*models.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	row := s.pool.QueryRow(ctx, s.sqlGetTaskByID, id)
	task := &models.Task{}
	if err := row.Scan(&task.ID, &task.Name, &task.Due, &task.Assignee, &task.Assigned, &task.Priority, &task.Status, &task.Description, &task.UserID); err != nil {
		if err == pgx.ErrNoRows {
			return nil, errors.ErrTaskNotFound
		}
		log.Println("[ERROR] Ошибка при получении задачи:", err)
		return nil, err
	}
	return task, nil
}

func (s *Storage) GetTasks(ctx context.Context, userID string) ([]models.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	rows, err := s.pool.Query(ctx, s.sqlGetTasks, userID)
	if err != nil {
		log.Println("[ERROR] Не удалось получить задачи:", err)
		return nil, err
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		task := models.Task{}
		if err := rows.Scan(&task.ID, &task.Name, &task.Due, &task.Assignee, &task.Assigned, &task.Priority, &task.Status, &task.Description, &task.UserID); err != nil {
			log.Println("[ERROR] Ошибка при чтении задач:", err)
			return nil, err
		}
		tasks = append(tasks, task)
	}
	log.Println("[SUCCESS] Получено задач:", len(tasks))
	return tasks, nil
}

// Нулевое число затронутых строк не ошибка: замена по неизвестному ID — тихий no-op.
func (s *Storage) UpdateTask(ctx context.Context, task *models.Task) error {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	ct, err := s.pool.Exec(ctx, s.sqlUpdateTask, task.Name, task.Due, task.Assignee, task.Assigned, task.Priority, task.Status, task.Description, task.ID)
	if err != nil {
		log.Println("[ERROR] Не удалось обновить задачу:", err)
		return err
	}
	if ct.RowsAffected() == 0 {
		log.Println("[WARN] Обновление несуществующей задачи:", task.ID)
		return nil
	}
	log.Println("[SUCCESS] Задача успешно обновлена:", task.ID)
	return nil
}

func (s *Storage) RemoveTask(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	ct, err := s.pool.Exec(ctx, s.sqlRemoveTask, id)
	if err != nil {
		log.Println("[ERROR] Не удалось удалить задачу:", err)
		return err
	}
	if ct.RowsAffected() == 0 {
		log.Println("[WARN] Удаление несуществующей задачи:", id)
		return nil
	}
	log.Println("[SUCCESS] Задача успешно удалена:", id)
	return nil
}

func (s *Storage) CreateUser(user *models.User) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	_, err := s.pool.Exec(ctx, s.sqlCreateUser, user.ID, user.FullName, user.Role, user.Email, user.Password, user.Confirmed)
	if err != nil {
		log.Println("[ERROR] Не удалось создать пользователя:", err)
		return errors.ErrUserAlreadyExists
	}
	log.Println("[SUCCESS] Пользователь успешно создан:", user.ID)
	return nil
}

func (s *Storage) GetUserByID(id string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	row := s.pool.QueryRow(ctx, s.sqlGetUserByID, id)
	user := &models.User{}
	if err := row.Scan(&user.ID, &user.FullName, &user.Role, &user.Email, &user.Password, &user.Confirmed); err != nil {
		if err == pgx.ErrNoRows {
			return nil, errors.ErrUserNotFound
		}
		log.Println("[ERROR] Ошибка при получении пользователя:", err)
		return nil, err
	}
	return user, nil
}

func (s *Storage) GetUserByEmail(email string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	row := s.pool.QueryRow(ctx, s.sqlGetUserByEmail, email)
	user := &models.User{}
	if err := row.Scan(&user.ID, &user.FullName, &user.Role, &user.Email, &user.Password, &user.Confirmed); err != nil {
		if err == pgx.ErrNoRows {
			return nil, errors.ErrUserNotFound
		}
		log.Println("[ERROR] Ошибка при получении пользователя:", err)
		return nil, err
	}
	return user, nil
}

func (s *Storage) ConfirmUser(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	ct, err := s.pool.Exec(ctx, s.sqlConfirmUser, id)
	if err != nil {
		log.Println("[ERROR] Не удалось подтвердить пользователя:", err)
		return err
	}
	if ct.RowsAffected() == 0 {
		return errors.ErrUserNotFound
	}
	log.Println("[SUCCESS] Email пользователя подтверждён:", id)
	return nil
}
