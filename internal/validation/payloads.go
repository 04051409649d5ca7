package validation

import (
	"github.com/brightpixel/companion/internal/types"
)

const (
	maxNameLength    = 200
	maxTextLength    = 2000
	maxCommentLength = 5000
	minPasswordRunes = 8
)

func phaseStrings() []string {
	out := make([]string, len(types.Phases))
	for i, p := range types.Phases {
		out[i] = string(p)
	}
	return out
}

// TaskTypeStrings returns the enumerated deliverable types as strings,
// used both for validation and for 400 responses listing valid values.
func TaskTypeStrings() []string {
	out := make([]string, len(types.TaskTypes))
	for i, t := range types.TaskTypes {
		out[i] = string(t)
	}
	return out
}

// ValidateCreateClient validates a client creation payload.
func ValidateCreateClient(req types.CreateClientRequest) []ValidationError {
	var c Collector
	c.Add(ValidateRequired("name", req.Name))
	c.Add(ValidateMaxLength("name", req.Name, maxNameLength))
	c.Add(ValidateMaxLength("contactName", req.ContactName, maxNameLength))
	c.Add(ValidateEmail("email", req.Email))
	c.Add(ValidateURL("website", req.Website))
	c.Add(ValidateNonNegative("projectValue", req.ProjectValue))
	if req.Status != "" {
		c.Add(ValidateEnum("status", string(req.Status), phaseStrings()))
	}
	return c.Errors()
}

// ValidateUpdateClient validates a client patch payload.
func ValidateUpdateClient(req types.UpdateClientRequest) []ValidationError {
	var c Collector
	if req.Name != nil {
		c.Add(ValidateRequired("name", *req.Name))
		c.Add(ValidateMaxLength("name", *req.Name, maxNameLength))
	}
	if req.Email != nil {
		c.Add(ValidateEmail("email", *req.Email))
	}
	if req.Website != nil {
		c.Add(ValidateURL("website", *req.Website))
	}
	if req.Status != nil {
		c.Add(ValidateEnum("status", string(*req.Status), phaseStrings()))
	}
	if req.ProjectValue != nil {
		c.Add(ValidateNonNegative("projectValue", *req.ProjectValue))
	}
	return c.Errors()
}

// ValidateCreateProject validates a project creation payload.
func ValidateCreateProject(req types.CreateProjectRequest) []ValidationError {
	var c Collector
	c.Add(ValidateRequired("name", req.Name))
	c.Add(ValidateMaxLength("name", req.Name, maxNameLength))
	c.Add(ValidateMaxLength("description", req.Description, maxTextLength))
	c.Add(ValidateNonNegative("value", req.Value))
	if req.ClientID <= 0 {
		c.Add(&ValidationError{Field: "clientId", Message: "is required"})
	}
	return c.Errors()
}

// ValidateCreateTask validates a manual companion-task creation payload.
func ValidateCreateTask(req types.CreateTaskRequest) []ValidationError {
	var c Collector
	c.Add(ValidateEnum("type", string(req.Type), TaskTypeStrings()))
	return c.Errors()
}

// ValidateRegister validates a registration payload.
func ValidateRegister(req types.RegisterRequest) []ValidationError {
	var c Collector
	c.Add(ValidateRequired("email", req.Email))
	c.Add(ValidateEmail("email", req.Email))
	c.Add(ValidateRequired("name", req.Name))
	c.Add(ValidateMinLength("password", req.Password, minPasswordRunes))
	return c.Errors()
}

// ValidateComment validates public site-map feedback.
func ValidateComment(req types.CreateCommentRequest) []ValidationError {
	var c Collector
	c.Add(ValidateRequired("author", req.Author))
	c.Add(ValidateMaxLength("author", req.Author, maxNameLength))
	c.Add(ValidateRequired("body", req.Body))
	c.Add(ValidateMaxLength("body", req.Body, maxCommentLength))
	return c.Errors()
}
