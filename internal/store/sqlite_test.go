package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/brightpixel/companion/internal/types"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestClient(t *testing.T, db *SQLiteStore) *types.Client {
	t.Helper()
	client, err := db.CreateClient(context.Background(), types.CreateClientRequest{
		Name:         "Acme Web Co",
		ContactName:  "Dana Reyes",
		Email:        "dana@acme.example",
		Website:      "https://acme.example",
		Industry:     "Retail",
		ProjectValue: 12000,
	})
	if err != nil {
		t.Fatal(err)
	}
	return client
}

func TestNewSQLiteStore(t *testing.T) {
	newTestStore(t)
}

func TestCreateClient(t *testing.T) {
	db := newTestStore(t)

	client := createTestClient(t, db)

	if client.ID == 0 {
		t.Error("expected ID to be set")
	}
	if client.Status != types.PhaseDiscovery {
		t.Errorf("expected default status %q, got %q", types.PhaseDiscovery, client.Status)
	}
	if client.ProjectValue != 12000 {
		t.Errorf("expected project value 12000, got %v", client.ProjectValue)
	}
	if client.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}
}

func TestCreateClientExplicitStatus(t *testing.T) {
	db := newTestStore(t)

	client, err := db.CreateClient(context.Background(), types.CreateClientRequest{
		Name:   "Planning Co",
		Status: types.PhasePlanning,
	})
	if err != nil {
		t.Fatal(err)
	}
	if client.Status != types.PhasePlanning {
		t.Errorf("expected status %q, got %q", types.PhasePlanning, client.Status)
	}
}

func TestGetClientNotFound(t *testing.T) {
	db := newTestStore(t)

	_, err := db.GetClient(context.Background(), 999)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateClient(t *testing.T) {
	db := newTestStore(t)
	client := createTestClient(t, db)

	name := "Acme Web Company"
	status := types.PhaseDesignDev
	updated, err := db.UpdateClient(context.Background(), client.ID, types.UpdateClientRequest{
		Name:   &name,
		Status: &status,
	})
	if err != nil {
		t.Fatal(err)
	}

	if updated.Name != name {
		t.Errorf("expected name %q, got %q", name, updated.Name)
	}
	if updated.Status != status {
		t.Errorf("expected status %q, got %q", status, updated.Status)
	}
	if updated.Industry != client.Industry {
		t.Errorf("untouched field changed: industry %q -> %q", client.Industry, updated.Industry)
	}
}

func TestListClientsFilters(t *testing.T) {
	db := newTestStore(t)
	ctx := context.Background()

	for i, seed := range []struct {
		name     string
		industry string
		status   types.Phase
	}{
		{"Harbor Coffee", "Food", types.PhaseDiscovery},
		{"Summit Legal", "Legal", types.PhasePlanning},
		{"Harbor Freight Gym", "Fitness", types.PhasePlanning},
	} {
		_, err := db.CreateClient(ctx, types.CreateClientRequest{
			Name:         seed.name,
			Industry:     seed.industry,
			Status:       seed.status,
			ProjectValue: float64(1000 * (i + 1)),
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	all, err := db.ListClients(ctx, types.ClientFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 clients, got %d", len(all))
	}

	byStatus, err := db.ListClients(ctx, types.ClientFilter{Status: types.PhasePlanning})
	if err != nil {
		t.Fatal(err)
	}
	if len(byStatus) != 2 {
		t.Errorf("expected 2 planning clients, got %d", len(byStatus))
	}

	bySearch, err := db.ListClients(ctx, types.ClientFilter{Search: "harbor"})
	if err != nil {
		t.Fatal(err)
	}
	if len(bySearch) != 2 {
		t.Errorf("expected 2 search matches, got %d", len(bySearch))
	}

	byIndustry, err := db.ListClients(ctx, types.ClientFilter{Industry: "Legal"})
	if err != nil {
		t.Fatal(err)
	}
	if len(byIndustry) != 1 || byIndustry[0].Name != "Summit Legal" {
		t.Errorf("unexpected industry filter result: %+v", byIndustry)
	}

	byName, err := db.ListClients(ctx, types.ClientFilter{Sort: "name"})
	if err != nil {
		t.Fatal(err)
	}
	if byName[0].Name != "Harbor Coffee" {
		t.Errorf("expected name sort to start with Harbor Coffee, got %q", byName[0].Name)
	}

	// Value sort orders by the project-derived aggregate.
	if _, err := db.CreateProject(ctx, types.CreateProjectRequest{
		ClientID: byName[1].ID,
		Name:     "Retainer",
		Value:    4000,
	}); err != nil {
		t.Fatal(err)
	}
	byValue, err := db.ListClients(ctx, types.ClientFilter{Sort: "value"})
	if err != nil {
		t.Fatal(err)
	}
	if byValue[0].ID != byName[1].ID || byValue[0].TotalValue != 4000 {
		t.Errorf("expected value sort to lead with the funded client, got %+v", byValue[0].Client)
	}
}

func TestListClientsProjectStatusFilter(t *testing.T) {
	db := newTestStore(t)
	ctx := context.Background()

	launched := createTestClient(t, db)
	idle := createTestClient(t, db)

	if _, err := db.CreateProject(ctx, types.CreateProjectRequest{
		ClientID: launched.ID,
		Name:     "Marketing Site",
		Status:   "completed",
		Value:    5000,
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := db.CreateProject(ctx, types.CreateProjectRequest{
		ClientID: idle.ID,
		Name:     "Brand Refresh",
		Value:    2500,
	}); err != nil {
		t.Fatal(err)
	}

	completed, err := db.ListClients(ctx, types.ClientFilter{ProjectStatus: "completed"})
	if err != nil {
		t.Fatal(err)
	}
	if len(completed) != 1 || completed[0].ID != launched.ID {
		t.Errorf("expected only the client with a completed project, got %+v", completed)
	}

	active, err := db.ListClients(ctx, types.ClientFilter{ProjectStatus: "active"})
	if err != nil {
		t.Fatal(err)
	}
	if len(active) != 1 || active[0].ID != idle.ID {
		t.Errorf("expected only the client with an active project, got %+v", active)
	}

	none, err := db.ListClients(ctx, types.ClientFilter{ProjectStatus: "on_hold"})
	if err != nil {
		t.Fatal(err)
	}
	if len(none) != 0 {
		t.Errorf("expected no matches for on_hold, got %d", len(none))
	}
}

func TestProjectTotalValue(t *testing.T) {
	db := newTestStore(t)
	ctx := context.Background()
	client := createTestClient(t, db)

	p1, err := db.CreateProject(ctx, types.CreateProjectRequest{
		ClientID: client.ID,
		Name:     "Website redesign",
		Value:    8000,
	})
	if err != nil {
		t.Fatal(err)
	}
	p2, err := db.CreateProject(ctx, types.CreateProjectRequest{
		ClientID: client.ID,
		Name:     "SEO retainer",
		Value:    2000,
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := db.GetClient(ctx, client.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.TotalValue != 10000 {
		t.Errorf("expected total value 10000, got %v", got.TotalValue)
	}

	value := 9000.0
	if _, err := db.UpdateProject(ctx, p1.ID, types.UpdateProjectRequest{Value: &value}); err != nil {
		t.Fatal(err)
	}
	got, err = db.GetClient(ctx, client.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.TotalValue != 11000 {
		t.Errorf("expected total value 11000 after update, got %v", got.TotalValue)
	}

	if err := db.DeleteProject(ctx, p2.ID); err != nil {
		t.Fatal(err)
	}
	got, err = db.GetClient(ctx, client.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.TotalValue != 9000 {
		t.Errorf("expected total value 9000 after delete, got %v", got.TotalValue)
	}
}

func TestCreateProjectUnknownClient(t *testing.T) {
	db := newTestStore(t)

	_, err := db.CreateProject(context.Background(), types.CreateProjectRequest{
		ClientID: 42,
		Name:     "Orphan project",
	})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteClientCascades(t *testing.T) {
	db := newTestStore(t)
	ctx := context.Background()
	client := createTestClient(t, db)

	project, err := db.CreateProject(ctx, types.CreateProjectRequest{
		ClientID: client.ID,
		Name:     "Launch site",
		Value:    5000,
	})
	if err != nil {
		t.Fatal(err)
	}
	task, err := db.CreateTask(ctx, client.ID, types.TaskProposal, types.TaskPending)
	if err != nil {
		t.Fatal(err)
	}

	if err := db.DeleteClient(ctx, client.ID); err != nil {
		t.Fatal(err)
	}

	if _, err := db.GetClient(ctx, client.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected client gone, got %v", err)
	}
	if _, err := db.GetProject(ctx, project.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected project gone, got %v", err)
	}
	if _, err := db.GetTask(ctx, task.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected task gone, got %v", err)
	}
}

func TestTaskLifecycle(t *testing.T) {
	db := newTestStore(t)
	ctx := context.Background()
	client := createTestClient(t, db)

	task, err := db.CreateTask(ctx, client.ID, types.TaskCompanyAnalysis, types.TaskInProgress)
	if err != nil {
		t.Fatal(err)
	}
	if task.Status != types.TaskInProgress {
		t.Errorf("expected in_progress, got %q", task.Status)
	}
	if task.Content != nil {
		t.Error("expected nil content on new task")
	}

	metadata := `{"keywords":["coffee shop"]}`
	done, err := db.CompleteTask(ctx, task.ID, "<html>report</html>", &metadata)
	if err != nil {
		t.Fatal(err)
	}
	if done.Status != types.TaskCompleted {
		t.Errorf("expected completed, got %q", done.Status)
	}
	if done.Content == nil || *done.Content != "<html>report</html>" {
		t.Errorf("unexpected content: %v", done.Content)
	}
	if done.Metadata == nil || *done.Metadata != metadata {
		t.Errorf("metadata did not round-trip: %v", done.Metadata)
	}
	if done.CompletedAt == nil {
		t.Error("expected completed_at to be set")
	}
}

func TestFailTaskRevertsToPending(t *testing.T) {
	db := newTestStore(t)
	ctx := context.Background()
	client := createTestClient(t, db)

	task, err := db.CreateTask(ctx, client.ID, types.TaskProposal, types.TaskInProgress)
	if err != nil {
		t.Fatal(err)
	}

	failed, err := db.FailTask(ctx, task.ID, "Generation failed: model timeout. Please try again.")
	if err != nil {
		t.Fatal(err)
	}
	if failed.Status != types.TaskPending {
		t.Errorf("expected pending after failure, got %q", failed.Status)
	}
	if failed.Content == nil || *failed.Content != "Generation failed: model timeout. Please try again." {
		t.Errorf("unexpected failure content: %v", failed.Content)
	}
	if failed.CompletedAt != nil {
		t.Error("expected no completed_at on failed task")
	}
}

func TestInFlightTaskDeduplication(t *testing.T) {
	db := newTestStore(t)
	ctx := context.Background()
	client := createTestClient(t, db)

	first, err := db.CreateTask(ctx, client.ID, types.TaskSiteMap, types.TaskInProgress)
	if err != nil {
		t.Fatal(err)
	}

	_, err = db.CreateTask(ctx, client.ID, types.TaskSiteMap, types.TaskInProgress)
	if !errors.Is(err, ErrGenerationInFlight) {
		t.Fatalf("expected ErrGenerationInFlight, got %v", err)
	}

	// A different type for the same client is fine.
	if _, err := db.CreateTask(ctx, client.ID, types.TaskContract, types.TaskInProgress); err != nil {
		t.Fatal(err)
	}

	// Completing the first frees the slot.
	if _, err := db.CompleteTask(ctx, first.ID, "done", nil); err != nil {
		t.Fatal(err)
	}
	if _, err := db.CreateTask(ctx, client.ID, types.TaskSiteMap, types.TaskInProgress); err != nil {
		t.Fatal(err)
	}
}

func TestLatestCompletedTask(t *testing.T) {
	db := newTestStore(t)
	ctx := context.Background()
	client := createTestClient(t, db)

	if _, err := db.LatestCompletedTask(ctx, client.ID, types.TaskCompanyAnalysis); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound with no tasks, got %v", err)
	}

	for i := 0; i < 2; i++ {
		task, err := db.CreateTask(ctx, client.ID, types.TaskCompanyAnalysis, types.TaskInProgress)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := db.CompleteTask(ctx, task.ID, fmt.Sprintf("analysis %d", i), nil); err != nil {
			t.Fatal(err)
		}
	}

	latest, err := db.LatestCompletedTask(ctx, client.ID, types.TaskCompanyAnalysis)
	if err != nil {
		t.Fatal(err)
	}
	if latest.Content == nil || *latest.Content != "analysis 1" {
		t.Errorf("expected latest completed analysis, got %v", latest.Content)
	}
}

func TestShareToken(t *testing.T) {
	db := newTestStore(t)
	ctx := context.Background()
	client := createTestClient(t, db)

	task, err := db.CreateTask(ctx, client.ID, types.TaskSiteMap, types.TaskInProgress)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.CompleteTask(ctx, task.ID, "- Home\n- About", nil); err != nil {
		t.Fatal(err)
	}
	if err := db.SetShareToken(ctx, task.ID, "tok-123"); err != nil {
		t.Fatal(err)
	}

	got, err := db.GetTaskByShareToken(ctx, "tok-123")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != task.ID {
		t.Errorf("expected task %d, got %d", task.ID, got.ID)
	}

	if _, err := db.GetTaskByShareToken(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown token, got %v", err)
	}
}

func TestRevertStaleTasks(t *testing.T) {
	db := newTestStore(t)
	ctx := context.Background()
	client := createTestClient(t, db)

	stale, err := db.CreateTask(ctx, client.ID, types.TaskStatusUpdate, types.TaskInProgress)
	if err != nil {
		t.Fatal(err)
	}

	// Nothing is older than a cutoff in the past.
	n, err := db.RevertStaleTasks(ctx, time.Now().Add(-time.Hour), "Generation timed out. Please try again.")
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("expected 0 reverted, got %d", n)
	}

	n, err = db.RevertStaleTasks(ctx, time.Now().Add(time.Hour), "Generation timed out. Please try again.")
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("expected 1 reverted, got %d", n)
	}

	got, err := db.GetTask(ctx, stale.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != types.TaskPending {
		t.Errorf("expected pending after revert, got %q", got.Status)
	}
	if got.Content == nil || *got.Content != "Generation timed out. Please try again." {
		t.Errorf("unexpected revert message: %v", got.Content)
	}
}

func TestUpdateTaskMetadataRoundTrip(t *testing.T) {
	db := newTestStore(t)
	ctx := context.Background()
	client := createTestClient(t, db)

	task, err := db.CreateTask(ctx, client.ID, types.TaskProposal, types.TaskPending)
	if err != nil {
		t.Fatal(err)
	}

	metadata := `{"pricing":{"projectTotalFee":15000,"carePlanMonthly":150}}`
	status := types.TaskCompleted
	content := "Proposal body"
	updated, err := db.UpdateTask(ctx, task.ID, types.UpdateTaskRequest{
		Status:   &status,
		Content:  &content,
		Metadata: &metadata,
	})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Metadata == nil || *updated.Metadata != metadata {
		t.Errorf("metadata did not round-trip: %v", updated.Metadata)
	}
	if updated.CompletedAt == nil {
		t.Error("expected completed_at when status moves to completed")
	}

	got, err := db.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Metadata == nil || *got.Metadata != metadata {
		t.Errorf("metadata lost on re-read: %v", got.Metadata)
	}
}

func TestUsersAndSessions(t *testing.T) {
	db := newTestStore(t)
	ctx := context.Background()

	user, err := db.CreateUser(ctx, "pat@brightpixel.dev", "Pat", "hash")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := db.CreateUser(ctx, "pat@brightpixel.dev", "Pat Again", "hash2"); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}

	byEmail, err := db.GetUserByEmail(ctx, "pat@brightpixel.dev")
	if err != nil {
		t.Fatal(err)
	}
	if byEmail.ID != user.ID {
		t.Errorf("expected user %d, got %d", user.ID, byEmail.ID)
	}

	session := types.Session{
		ID:        "sess-1",
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(time.Hour),
		CreatedAt: time.Now(),
	}
	if err := db.CreateSession(ctx, session); err != nil {
		t.Fatal(err)
	}

	got, err := db.GetSession(ctx, "sess-1")
	if err != nil {
		t.Fatal(err)
	}
	if got.UserID != user.ID {
		t.Errorf("expected session user %d, got %d", user.ID, got.UserID)
	}

	if err := db.DeleteSession(ctx, "sess-1"); err != nil {
		t.Fatal(err)
	}
	if _, err := db.GetSession(ctx, "sess-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestExpiredSession(t *testing.T) {
	db := newTestStore(t)
	ctx := context.Background()

	user, err := db.CreateUser(ctx, "lee@brightpixel.dev", "Lee", "hash")
	if err != nil {
		t.Fatal(err)
	}
	expired := types.Session{
		ID:        "sess-old",
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(-time.Minute),
		CreatedAt: time.Now().Add(-time.Hour),
	}
	if err := db.CreateSession(ctx, expired); err != nil {
		t.Fatal(err)
	}

	if _, err := db.GetSession(ctx, "sess-old"); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}

	// Expired sessions are removed on read.
	if _, err := db.GetSession(ctx, "sess-old"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second read, got %v", err)
	}
}

func TestPurgeExpiredSessions(t *testing.T) {
	db := newTestStore(t)
	ctx := context.Background()

	user, err := db.CreateUser(ctx, "sam@brightpixel.dev", "Sam", "hash")
	if err != nil {
		t.Fatal(err)
	}
	for i, exp := range []time.Time{
		time.Now().Add(-time.Hour),
		time.Now().Add(-time.Minute),
		time.Now().Add(time.Hour),
	} {
		s := types.Session{
			ID:        fmt.Sprintf("sess-%d", i),
			UserID:    user.ID,
			ExpiresAt: exp,
			CreatedAt: time.Now(),
		}
		if err := db.CreateSession(ctx, s); err != nil {
			t.Fatal(err)
		}
	}

	n, err := db.PurgeExpiredSessions(ctx, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("expected 2 purged, got %d", n)
	}
	if _, err := db.GetSession(ctx, "sess-2"); err != nil {
		t.Errorf("live session should survive purge: %v", err)
	}
}

func TestSiteMapComments(t *testing.T) {
	db := newTestStore(t)
	ctx := context.Background()
	client := createTestClient(t, db)

	task, err := db.CreateTask(ctx, client.ID, types.TaskSiteMap, types.TaskCompleted)
	if err != nil {
		t.Fatal(err)
	}

	comment, err := db.CreateComment(ctx, task.ID, types.CreateCommentRequest{
		Author:  "Dana",
		Section: "Services",
		Body:    "Can we split this into two pages?",
	})
	if err != nil {
		t.Fatal(err)
	}
	if comment.Resolved {
		t.Error("new comment should not be resolved")
	}

	comments, err := db.ListComments(ctx, task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(comments) != 1 {
		t.Fatalf("expected 1 comment, got %d", len(comments))
	}

	resolved, err := db.SetCommentResolved(ctx, task.ID, comment.ID, true)
	if err != nil {
		t.Fatal(err)
	}
	if !resolved.Resolved {
		t.Error("expected comment resolved")
	}

	// Wrong task id does not match the comment.
	if _, err := db.SetCommentResolved(ctx, task.ID+1, comment.ID, false); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for mismatched task, got %v", err)
	}
}

func TestGetStats(t *testing.T) {
	db := newTestStore(t)
	ctx := context.Background()

	client := createTestClient(t, db)
	if _, err := db.CreateTask(ctx, client.ID, types.TaskProposal, types.TaskPending); err != nil {
		t.Fatal(err)
	}

	stats, err := db.GetStats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.ClientCount != 1 || stats.TaskCount != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}
