package types

import "time"

// Phase represents a client's position in the fixed project pipeline.
type Phase string

const (
	PhaseDiscovery  Phase = "Discovery"
	PhasePlanning   Phase = "Planning"
	PhaseDesignDev  Phase = "Design and Development"
	PhasePostLaunch Phase = "Post Launch Management"
)

// Phases lists all pipeline phases in order.
var Phases = []Phase{PhaseDiscovery, PhasePlanning, PhaseDesignDev, PhasePostLaunch}

// TaskType represents the kind of AI deliverable a companion task produces.
type TaskType string

const (
	TaskCompanyAnalysis   TaskType = "company_analysis"
	TaskProposal          TaskType = "proposal"
	TaskContract          TaskType = "contract"
	TaskSiteMap           TaskType = "site_map"
	TaskStatusUpdate      TaskType = "status_update"
	TaskScheduleDiscovery TaskType = "schedule_discovery"
)

// TaskTypes lists every valid deliverable type.
var TaskTypes = []TaskType{
	TaskCompanyAnalysis,
	TaskProposal,
	TaskContract,
	TaskSiteMap,
	TaskStatusUpdate,
	TaskScheduleDiscovery,
}

// ValidTaskType reports whether t is a known deliverable type.
func ValidTaskType(t TaskType) bool {
	for _, tt := range TaskTypes {
		if t == tt {
			return true
		}
	}
	return false
}

// TaskStatus represents the lifecycle state of a companion task.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
)

// Client represents an agency client being tracked through the pipeline.
type Client struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	ContactName  string    `json:"contactName,omitempty"`
	ContactTitle string    `json:"contactTitle,omitempty"`
	Email        string    `json:"email,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Website      string    `json:"website,omitempty"`
	Industry     string    `json:"industry,omitempty"`
	Status       Phase     `json:"status"`
	ProjectValue float64   `json:"projectValue"`
	TotalValue   float64   `json:"totalValue"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Project belongs to a client and contributes to its aggregate total value.
type Project struct {
	ID          int64      `json:"id"`
	ClientID    int64      `json:"clientId"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	Value       float64    `json:"value"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// CompanionTask represents one generated-or-pending client deliverable.
// Content carries the generated artifact (HTML or plain text); on a failed
// generation it carries the failure message instead. Metadata is an optional
// JSON string with auxiliary data such as proposal pricing.
type CompanionTask struct {
	ID          int64      `json:"id"`
	ClientID    int64      `json:"clientId"`
	Type        TaskType   `json:"type"`
	Status      TaskStatus `json:"status"`
	Content     *string    `json:"content"`
	Metadata    *string    `json:"metadata"`
	ShareToken  *string    `json:"shareToken,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// User is an agency staff account.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Session is a server-side login session referenced by a cookie.
type Session struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// SiteMapComment is public feedback left on a shared site-map deliverable.
type SiteMapComment struct {
	ID        int64     `json:"id"`
	TaskID    int64     `json:"taskId"`
	Author    string    `json:"author"`
	Section   string    `json:"section,omitempty"`
	Body      string    `json:"body"`
	Resolved  bool      `json:"resolved"`
	CreatedAt time.Time `json:"createdAt"`
}

// ClientWithProjects embeds a client's project summaries for list responses.
type ClientWithProjects struct {
	Client
	Projects []Project `json:"projects"`
}

// CreateClientRequest is the payload for POST /api/clients.
type CreateClientRequest struct {
	Name         string  `json:"name"`
	ContactName  string  `json:"contactName"`
	ContactTitle string  `json:"contactTitle"`
	Email        string  `json:"email"`
	Phone        string  `json:"phone"`
	Website      string  `json:"website"`
	Industry     string  `json:"industry"`
	Status       Phase   `json:"status"`
	ProjectValue float64 `json:"projectValue"`
}

// UpdateClientRequest is the payload for PATCH /api/clients/{id}.
// Nil fields are left unchanged.
type UpdateClientRequest struct {
	Name         *string  `json:"name,omitempty"`
	ContactName  *string  `json:"contactName,omitempty"`
	ContactTitle *string  `json:"contactTitle,omitempty"`
	Email        *string  `json:"email,omitempty"`
	Phone        *string  `json:"phone,omitempty"`
	Website      *string  `json:"website,omitempty"`
	Industry     *string  `json:"industry,omitempty"`
	Status       *Phase   `json:"status,omitempty"`
	ProjectValue *float64 `json:"projectValue,omitempty"`
}

// CreateProjectRequest is the payload for POST /api/projects.
type CreateProjectRequest struct {
	ClientID    int64      `json:"clientId"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Value       float64    `json:"value"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
}

// UpdateProjectRequest is the payload for PATCH /api/projects/{id}.
type UpdateProjectRequest struct {
	Name        *string    `json:"name,omitempty"`
	Description *string    `json:"description,omitempty"`
	Status      *string    `json:"status,omitempty"`
	Value       *float64   `json:"value,omitempty"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
}

// CreateTaskRequest is the payload for POST /api/clients/{id}/companion-tasks.
type CreateTaskRequest struct {
	Type     TaskType `json:"type"`
	Content  *string  `json:"content,omitempty"`
	Metadata *string  `json:"metadata,omitempty"`
}

// UpdateTaskRequest is the payload for PATCH /api/companion-tasks/{id}.
type UpdateTaskRequest struct {
	Status   *TaskStatus `json:"status,omitempty"`
	Content  *string     `json:"content,omitempty"`
	Metadata *string     `json:"metadata,omitempty"`
}

// GenerateRequest is the payload for POST /api/clients/{id}/generate/{type}.
type GenerateRequest struct {
	DiscoveryNotes string `json:"discoveryNotes,omitempty"`
}

// RegisterRequest is the payload for POST /api/register.
type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// LoginRequest is the payload for POST /api/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateCommentRequest is the payload for the public share feedback endpoint.
type CreateCommentRequest struct {
	Author  string `json:"author"`
	Section string `json:"section,omitempty"`
	Body    string `json:"body"`
}

// ClientFilter narrows GET /api/clients results. ProjectStatus matches
// clients that have at least one project in that status.
type ClientFilter struct {
	Search        string
	Status        Phase
	Industry      string
	ProjectStatus string
	Sort          string
}

// StoreStats reports aggregate store counts for the health endpoint.
type StoreStats struct {
	ClientCount int64 `json:"client_count"`
	TaskCount   int64 `json:"task_count"`
}

// HealthResponse is the GET /api/health payload.
type HealthResponse struct {
	Status      string `json:"status"`
	Version     string `json:"version"`
	Model       string `json:"model"`
	ClientCount int64  `json:"client_count"`
	TaskCount   int64  `json:"task_count"`
}
