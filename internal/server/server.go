package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"taska/internal/domain/errors"
	"taska/internal/domain/models"

	"github.com/gin-gonic/gin"
)

type Repository interface {
	GetUserByID(id string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	CreateUser(user *models.User) error
	ConfirmUser(id string) error
}

type TaskRepository interface {
	AddTask(ctx context.Context, task *models.Task) error
	GetTasks(ctx context.Context, userID string) ([]models.Task, error)
	GetTaskByID(ctx context.Context, id int64) (*models.Task, error)
	UpdateTask(ctx context.Context, task *models.Task) error
	RemoveTask(ctx context.Context, id int64) error
}

type TaskAPI struct {
	httpSrv *http.Server
	users   Repository
	tasks   TaskRepository
	cfg     *Config
}

func NewTaskAPI(users Repository, tasks TaskRepository, cfg *Config) *TaskAPI {
	if users == nil || tasks == nil {
		return nil
	}
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = defaultJWTSecret
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}

	httpSrv := http.Server{
		Addr: fmt.Sprintf("%s:%d", cfg.Addr, cfg.Port),
	}

	api := TaskAPI{
		httpSrv: &httpSrv,
		users:   users,
		tasks:   tasks,
		cfg:     cfg,
	}

	api.configRoutes()

	return &api
}

func (api *TaskAPI) Start() error {
	if api.httpSrv == nil {
		return errors.ErrInternalServer
	}

	if api.httpSrv.Addr == "" || api.httpSrv.Addr == ":0" {
		api.httpSrv.Addr = ":8080"
	}

	return api.httpSrv.ListenAndServe()
}

func (api *TaskAPI) Shutdown(ctx context.Context) error {
	if api.httpSrv == nil {
		return nil
	}
	return api.httpSrv.Shutdown(ctx)
}

func (api *TaskAPI) configRoutes() {
	router := gin.Default()

	router.Use(GzipRequestDecompress(), GzipResponseCompress())

	router.NoMethod(func(ctx *gin.Context) {
		ctx.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
	})

	router.NoRoute(func(ctx *gin.Context) {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Page Not Found", "home": "/"})
	})

	users := router.Group("/users")
	{
		users.POST("/login", api.login)
		users.POST("/register", api.signup)
		users.POST("/logout", api.logout)
		users.GET("/confirm", api.confirmEmail)
		users.GET("/me", api.SessionAuth(), api.currentUser)
	}

	tasks := router.Group("/tasks")
	tasks.Use(api.SessionAuth())
	{
		tasks.GET("", api.getTasks)
		tasks.GET(":taskID", api.getTaskByID)
		tasks.POST("", api.createTask)
		tasks.PUT(":taskID", api.updateTask)
		tasks.DELETE(":taskID", api.deleteTask)
	}

	api.httpSrv.Handler = router
}

func (api *TaskAPI) getTasks(ctx *gin.Context) {
	userID := ctx.GetString("user_id")

	tasks, err := api.tasks.GetTasks(ctx.Request.Context(), userID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": errors.ErrInternalServer.Error()})
		return
	}
	// Пустой список — нормальное состояние представления, не 404.
	ctx.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

func (api *TaskAPI) getTaskByID(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("taskID"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": errors.ErrBadRequest.Error()})
		return
	}

	task, err := api.tasks.GetTaskByID(ctx.Request.Context(), id)
	if err != nil {
		if err == errors.ErrTaskNotFound {
			ctx.JSON(http.StatusNotFound, gin.H{"error": errors.ErrTaskNotFound.Error()})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": errors.ErrInternalServer.Error()})
		}
		return
	}
	if task.UserID != ctx.GetString("user_id") {
		ctx.JSON(http.StatusForbidden, gin.H{"error": errors.ErrForbidden.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"task": task})
}

func (api *TaskAPI) createTask(ctx *gin.Context) {
	var req models.CreateTaskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": errors.ErrBadRequest.Error()})
		return
	}

	fieldErrs := taskFieldErrors(req.Name, req.Due, req.Assignee, req.Assigned, req.Priority, req.Status, req.Description)
	if len(fieldErrs) > 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"errors": fieldErrs})
		return
	}

	task := models.Task{
		ID:          models.NewTaskID(),
		Name:        req.Name,
		Due:         req.Due,
		Assignee:    req.Assignee,
		Assigned:    req.Assigned,
		Priority:    req.Priority,
		Status:      req.Status,
		Description: req.Description,
		UserID:      ctx.GetString("user_id"),
	}

	if err := api.tasks.AddTask(ctx.Request.Context(), &task); err != nil {
		if err == errors.ErrConflict {
			ctx.JSON(http.StatusConflict, gin.H{"error": errors.ErrConflict.Error()})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": errors.ErrInternalServer.Error()})
		}
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"task": task})
}

func (api *TaskAPI) updateTask(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("taskID"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": errors.ErrBadRequest.Error()})
		return
	}

	var req models.UpdateTaskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": errors.ErrBadRequest.Error()})
		return
	}

	fieldErrs := taskFieldErrors(req.Name, req.Due, req.Assignee, req.Assigned, req.Priority, req.Status, req.Description)
	if len(fieldErrs) > 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"errors": fieldErrs})
		return
	}

	existing, err := api.tasks.GetTaskByID(ctx.Request.Context(), id)
	if err != nil {
		if err == errors.ErrTaskNotFound {
			ctx.JSON(http.StatusNotFound, gin.H{"error": errors.ErrTaskNotFound.Error()})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": errors.ErrInternalServer.Error()})
		}
		return
	}
	if existing.UserID != ctx.GetString("user_id") {
		ctx.JSON(http.StatusForbidden, gin.H{"error": errors.ErrForbidden.Error()})
		return
	}

	task := models.Task{
		ID:          id,
		Name:        req.Name,
		Due:         req.Due,
		Assignee:    req.Assignee,
		Assigned:    req.Assigned,
		Priority:    req.Priority,
		Status:      req.Status,
		Description: req.Description,
		UserID:      existing.UserID,
	}

	if err := api.tasks.UpdateTask(ctx.Request.Context(), &task); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": errors.ErrInternalServer.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"task": task})
}

func (api *TaskAPI) deleteTask(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("taskID"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": errors.ErrBadRequest.Error()})
		return
	}

	existing, err := api.tasks.GetTaskByID(ctx.Request.Context(), id)
	if err != nil {
		if err == errors.ErrTaskNotFound {
			ctx.JSON(http.StatusNotFound, gin.H{"error": errors.ErrTaskNotFound.Error()})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": errors.ErrInternalServer.Error()})
		}
		return
	}
	if existing.UserID != ctx.GetString("user_id") {
		ctx.JSON(http.StatusForbidden, gin.H{"error": errors.ErrForbidden.Error()})
		return
	}

	if err := api.tasks.RemoveTask(ctx.Request.Context(), id); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": errors.ErrInternalServer.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "task deleted successfully"})
}
