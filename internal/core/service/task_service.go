package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/primetrade/taskhub/internal/core/domain"
	"github.com/primetrade/taskhub/internal/core/ports"
)

// TaskService implements task CRUD with role and ownership enforcement.
//
// Access policy: admins see and touch every task; everyone else is scoped to
// tasks they own. Ownership misses surface as domain.ErrTaskNotFound for
// reads and mutations alike, so callers cannot probe for other users' tasks.
type TaskService struct {
	tasks  ports.TaskRepository
	users  ports.UserRepository
	audit  ports.ActivityRecorder
	logger zerolog.Logger
}

func NewTaskService(tasks ports.TaskRepository, users ports.UserRepository, logger zerolog.Logger) *TaskService {
	return &TaskService{tasks: tasks, users: users, logger: logger}
}

// WithAuditRecorder enables audit-trail events for task mutations.
func (s *TaskService) WithAuditRecorder(r ports.ActivityRecorder) *TaskService {
	s.audit = r
	return s
}

// Create stores a new task owned by the actor. Status defaults to pending.
func (s *TaskService) Create(ctx context.Context, actor *domain.User, in ports.TaskInput) (*ports.TaskView, error) {
	status := domain.TaskStatus(in.Status)
	if in.Status == "" {
		status = domain.StatusPending
	}

	now := time.Now().UTC()
	task := &domain.Task{
		Title:       in.Title,
		Description: in.Description,
		Status:      status,
		OwnerID:     actor.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.tasks.Create(ctx, task)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create task")
		return nil, err
	}

	s.logger.Info().Str("task_id", created.ID).Str("owner_id", actor.ID).Msg("task created")
	s.record(actor, domain.ActionTaskCreated, created.ID)

	return s.toView(created, actor), nil
}

// List returns the actor's tasks, or every task for an admin.
func (s *TaskService) List(ctx context.Context, actor *domain.User) ([]*ports.TaskView, error) {
	var (
		tasks []*domain.Task
		err   error
	)
	if actor.IsAdmin() {
		tasks, err = s.tasks.FindAll(ctx)
	} else {
		tasks, err = s.tasks.FindByOwner(ctx, actor.ID)
	}
	if err != nil {
		return nil, err
	}
	return s.toViews(ctx, tasks, actor)
}

// Get returns a single task the actor is allowed to see.
func (s *TaskService) Get(ctx context.Context, actor *domain.User, id string) (*ports.TaskView, error) {
	task, err := s.findAccessible(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return s.viewWithOwner(ctx, task, actor)
}

// Update rewrites title/description and, when provided, the status of a task
// the actor is allowed to touch. Ownership never changes.
func (s *TaskService) Update(ctx context.Context, actor *domain.User, id string, in ports.TaskInput) (*ports.TaskView, error) {
	task, err := s.findAccessible(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	task.Title = in.Title
	task.Description = in.Description
	if in.Status != "" {
		task.Status = domain.TaskStatus(in.Status)
	}
	task.UpdatedAt = time.Now().UTC()

	updated, err := s.tasks.Update(ctx, task)
	if err != nil {
		return nil, err
	}

	s.record(actor, domain.ActionTaskUpdated, updated.ID)
	return s.viewWithOwner(ctx, updated, actor)
}

// Delete removes a task the actor is allowed to touch.
func (s *TaskService) Delete(ctx context.Context, actor *domain.User, id string) error {
	task, err := s.findAccessible(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.tasks.Delete(ctx, task.ID); err != nil {
		return err
	}

	s.logger.Info().Str("task_id", task.ID).Str("actor_id", actor.ID).Msg("task deleted")
	s.record(actor, domain.ActionTaskDeleted, task.ID)
	return nil
}

// ListByUser returns the tasks of an arbitrary user. Role enforcement happens
// at the route layer; this verifies the target user exists.
func (s *TaskService) ListByUser(ctx context.Context, userID string) ([]*ports.TaskView, error) {
	owner, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	tasks, err := s.tasks.FindByOwner(ctx, owner.ID)
	if err != nil {
		return nil, err
	}

	views := make([]*ports.TaskView, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, s.toView(t, owner))
	}
	return views, nil
}

// findAccessible resolves a task under the actor's access policy: admins by
// id, everyone else scoped to their own tasks.
func (s *TaskService) findAccessible(ctx context.Context, actor *domain.User, id string) (*domain.Task, error) {
	if actor.IsAdmin() {
		return s.tasks.FindByID(ctx, id)
	}
	return s.tasks.FindByIDAndOwner(ctx, id, actor.ID)
}

// viewWithOwner enriches a task with its owner's public fields, resolving the
// owner when it is not the actor (admin paths).
func (s *TaskService) viewWithOwner(ctx context.Context, task *domain.Task, actor *domain.User) (*ports.TaskView, error) {
	if task.OwnerID == actor.ID {
		return s.toView(task, actor), nil
	}
	owner, err := s.users.FindByID(ctx, task.OwnerID)
	if err != nil {
		// Task outlived its owner; return the view without owner details
		// rather than failing the read.
		s.logger.Warn().Str("task_id", task.ID).Str("owner_id", task.OwnerID).Msg("task owner missing")
		return s.toView(task, &domain.User{ID: task.OwnerID}), nil
	}
	return s.toView(task, owner), nil
}

func (s *TaskService) toViews(ctx context.Context, tasks []*domain.Task, actor *domain.User) ([]*ports.TaskView, error) {
	owners := map[string]*domain.User{actor.ID: actor}
	views := make([]*ports.TaskView, 0, len(tasks))
	for _, t := range tasks {
		owner, ok := owners[t.OwnerID]
		if !ok {
			u, err := s.users.FindByID(ctx, t.OwnerID)
			if err != nil {
				u = &domain.User{ID: t.OwnerID}
			}
			owners[t.OwnerID] = u
			owner = u
		}
		views = append(views, s.toView(t, owner))
	}
	return views, nil
}

func (s *TaskService) toView(task *domain.Task, owner *domain.User) *ports.TaskView {
	return &ports.TaskView{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
		OwnerID:     task.OwnerID,
		OwnerName:   owner.Name,
		OwnerEmail:  owner.Email,
	}
}

func (s *TaskService) record(actor *domain.User, action, targetID string) {
	if s.audit == nil {
		return
	}
	s.audit.Record(domain.ActivityEvent{
		Action:     action,
		ActorID:    actor.ID,
		ActorEmail: actor.Email,
		TargetID:   targetID,
		Timestamp:  time.Now().UTC(),
	})
}
