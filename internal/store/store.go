package store

import (
	"context"
	"time"

	"github.com/brightpixel/companion/internal/types"
)

// Store defines the persistence contract for clients, projects, companion
// tasks, users, sessions, and share feedback.
type Store interface {
	// Clients
	CreateClient(ctx context.Context, req types.CreateClientRequest) (*types.Client, error)
	GetClient(ctx context.Context, id int64) (*types.Client, error)
	ListClients(ctx context.Context, filter types.ClientFilter) ([]types.ClientWithProjects, error)
	UpdateClient(ctx context.Context, id int64, req types.UpdateClientRequest) (*types.Client, error)
	DeleteClient(ctx context.Context, id int64) error

	// Projects
	CreateProject(ctx context.Context, req types.CreateProjectRequest) (*types.Project, error)
	GetProject(ctx context.Context, id int64) (*types.Project, error)
	ListProjects(ctx context.Context, clientID int64) ([]types.Project, error)
	UpdateProject(ctx context.Context, id int64, req types.UpdateProjectRequest) (*types.Project, error)
	DeleteProject(ctx context.Context, id int64) error

	// Companion tasks
	CreateTask(ctx context.Context, clientID int64, taskType types.TaskType, status types.TaskStatus) (*types.CompanionTask, error)
	GetTask(ctx context.Context, id int64) (*types.CompanionTask, error)
	ListTasks(ctx context.Context, clientID int64) ([]types.CompanionTask, error)
	UpdateTask(ctx context.Context, id int64, req types.UpdateTaskRequest) (*types.CompanionTask, error)
	DeleteTask(ctx context.Context, id int64) error
	CompleteTask(ctx context.Context, id int64, content string, metadata *string) (*types.CompanionTask, error)
	FailTask(ctx context.Context, id int64, message string) (*types.CompanionTask, error)
	LatestCompletedTask(ctx context.Context, clientID int64, taskType types.TaskType) (*types.CompanionTask, error)
	SetShareToken(ctx context.Context, id int64, token string) error
	GetTaskByShareToken(ctx context.Context, token string) (*types.CompanionTask, error)
	RevertStaleTasks(ctx context.Context, olderThan time.Time, message string) (int64, error)

	// Users and sessions
	CreateUser(ctx context.Context, email, name, passwordHash string) (*types.User, error)
	GetUser(ctx context.Context, id int64) (*types.User, error)
	GetUserByEmail(ctx context.Context, email string) (*types.User, error)
	CreateSession(ctx context.Context, session types.Session) error
	GetSession(ctx context.Context, id string) (*types.Session, error)
	DeleteSession(ctx context.Context, id string) error
	PurgeExpiredSessions(ctx context.Context, now time.Time) (int64, error)

	// Share feedback
	CreateComment(ctx context.Context, taskID int64, req types.CreateCommentRequest) (*types.SiteMapComment, error)
	ListComments(ctx context.Context, taskID int64) ([]types.SiteMapComment, error)
	SetCommentResolved(ctx context.Context, taskID, commentID int64, resolved bool) (*types.SiteMapComment, error)

	GetStats(ctx context.Context) (*types.StoreStats, error)
	Close() error
}
