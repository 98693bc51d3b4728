package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"main/model"
	"main/repository"

	"github.com/google/uuid"
)

type TodosService struct {
	repo *repository.TodosRepo
}

func NewTodosService(repo *repository.TodosRepo) *TodosService {
	return &TodosService{repo: repo}
}

// Get the user's todos
func (svc *TodosService) GetUserTodos(ctx context.Context, userID string) ([]*model.Todos, error) {
	todos, err := svc.repo.GetUserTodos(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	// Sort todos by priority and due date
	sort.Slice(todos, func(i, j int) bool {
		// First sort by completion status (incomplete first)
		if todos[i].Complete != todos[j].Complete {
			return !todos[i].Complete
		}

		// Then by overdue status for incomplete todos
		if !todos[i].Complete && !todos[j].Complete {
			iOverdue := !todos[i].DueDate.IsZero() && todos[i].DueDate.Before(now)
			jOverdue := !todos[j].DueDate.IsZero() && todos[j].DueDate.Before(now)
			if iOverdue != jOverdue {
				return iOverdue // Show overdue items first
			}
		}

		// Then by priority
		if todos[i].Priority != todos[j].Priority {
			return getPriorityWeight(todos[i].Priority) > getPriorityWeight(todos[j].Priority)
		}

		// Then by due date (if exists)
		if !todos[i].DueDate.IsZero() && !todos[j].DueDate.IsZero() {
			return todos[i].DueDate.Before(todos[j].DueDate)
		}

		// Finally by creation date
		return todos[i].CreatedAt.Before(todos[j].CreatedAt)
	})

	return todos, nil
}

// Create Todo
func (svc *TodosService) CreateTodo(ctx context.Context, todo *model.Todos) error {
	if todo.UserID == "" {
		return errors.New("user ID is required")
	}
	if todo.TodoName == "" {
		return errors.New("todo name is required")
	}

	validatedTags, err := svc.validateTags(todo.Tags)
	if err != nil {
		return err
	}
	todo.Tags = validatedTags

	if err := validatePriority(todo.Priority); err != nil {
		return err
	}

	now := time.Now()
	if todo.CreatedAt.IsZero() {
		todo.CreatedAt = now
	}
	if todo.UpdatedAt.IsZero() {
		todo.UpdatedAt = now
	}
	if todo.TodoID == "" {
		todo.TodoID = uuid.New().String()
	}

	if !todo.DueDate.IsZero() && todo.DueDate.Before(now) {
		return errors.New("due date cannot be in the past")
	}
	if !todo.ReminderAt.IsZero() {
		if todo.ReminderAt.Before(now) {
			return errors.New("reminder time cannot be in the past")
		}
		if !todo.DueDate.IsZero() && todo.ReminderAt.After(todo.DueDate) {
			return errors.New("reminder time cannot be after due date")
		}
	}

	return svc.repo.CreateTodo(ctx, todo)
}

// Get a single todo
func (svc *TodosService) GetTodo(ctx context.Context, userID string, todoID string) (*model.Todos, error) {
	return svc.repo.GetTodosByID(ctx, userID, todoID)
}

// update Todos
func (svc *TodosService) UpdateTodo(ctx context.Context, todoID string, userID string, updates *model.Todos) (*model.Todos, error) {
	existing, err := svc.repo.GetTodosByID(ctx, userID, todoID)
	if err != nil {
		return nil, err
	}

	if updates.TodoName != "" {
		existing.TodoName = updates.TodoName
	}
	if updates.Description != "" {
		existing.Description = updates.Description
	}

	if updates.Priority != "" {
		if err := validatePriority(updates.Priority); err != nil {
			return nil, err
		}
		existing.Priority = updates.Priority
	}

	if updates.Tags != nil {
		validatedTags, err := svc.validateTags(updates.Tags)
		if err != nil {
			return nil, err
		}
		existing.Tags = validatedTags
	}

	existing.UpdatedAt = time.Now()
	existing.Complete = updates.Complete

	if !updates.DueDate.IsZero() {
		if updates.DueDate.Before(time.Now()) {
			return nil, errors.New("due date cannot be in the past")
		}
		existing.DueDate = updates.DueDate
	}

	if !updates.ReminderAt.IsZero() {
		if updates.ReminderAt.Before(time.Now()) {
			return nil, errors.New("reminder time cannot be in the past")
		}
		if !existing.DueDate.IsZero() && updates.ReminderAt.After(existing.DueDate) {
			return nil, errors.New("reminder time cannot be after due date")
		}
		existing.ReminderAt = updates.ReminderAt
	}

	if err := svc.repo.UpdateTodo(ctx, todoID, userID, existing); err != nil {
		return nil, err
	}

	return existing, nil
}

// Delete todos
func (svc *TodosService) DeleteTodo(ctx context.Context, todoID string, userID string) error {
	if _, err := svc.repo.GetTodosByID(ctx, userID, todoID); err != nil {
		return err
	}
	return svc.repo.DeleteTodo(ctx, todoID, userID)
}

// Toggle Todo Complete Status
func (svc *TodosService) ToggleTodoComplete(ctx context.Context, todoID string, userID string) (*model.Todos, error) {
	existing, err := svc.repo.GetTodosByID(ctx, userID, todoID)
	if err != nil {
		return nil, err
	}

	existing.Complete = !existing.Complete
	existing.UpdatedAt = time.Now()

	if err := svc.repo.UpdateTodo(ctx, todoID, userID, existing); err != nil {
		return nil, err
	}

	return existing, nil
}

// Search Todos
func (svc *TodosService) SearchTodos(ctx context.Context, userID string, searchText string) ([]*model.Todos, error) {
	todos, err := svc.repo.GetUserTodos(ctx, userID)
	if err != nil {
		return nil, err
	}

	if searchText == "" {
		return []*model.Todos{}, nil
	}

	searchText = strings.ToLower(searchText)
	var results []*model.Todos
	for _, todo := range todos {
		if strings.Contains(strings.ToLower(todo.TodoName), searchText) ||
			strings.Contains(strings.ToLower(todo.Description), searchText) {
			results = append(results, todo)
		}
	}

	return results, nil
}

// Get Overdue Todos
func (svc *TodosService) GetOverdueTodos(ctx context.Context, userID string) ([]*model.Todos, error) {
	todos, err := svc.repo.GetUserTodos(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var overdueTodos []*model.Todos
	for _, todo := range todos {
		if !todo.Complete && !todo.DueDate.IsZero() && todo.DueDate.Before(now) {
			overdueTodos = append(overdueTodos, todo)
		}
	}

	return overdueTodos, nil
}

// Get Upcoming Todos
func (svc *TodosService) GetUpcomingTodos(ctx context.Context, userID string, days int) ([]*model.Todos, error) {
	if days <= 0 {
		return nil, errors.New("days must be positive")
	}

	todos, err := svc.repo.GetUserTodos(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	deadline := now.AddDate(0, 0, days)

	var upcomingTodos []*model.Todos
	for _, todo := range todos {
		if !todo.Complete && !todo.DueDate.IsZero() && todo.DueDate.After(now) && todo.DueDate.Before(deadline) {
			upcomingTodos = append(upcomingTodos, todo)
		}
	}

	return upcomingTodos, nil
}

// Get User Tags
func (svc *TodosService) GetUserTags(ctx context.Context, userID string) ([]string, error) {
	todos, err := svc.repo.GetUserTodos(ctx, userID)
	if err != nil {
		return nil, err
	}

	tagMap := make(map[string]bool)
	for _, todo := range todos {
		for _, tag := range todo.Tags {
			tagMap[tag] = true
		}
	}

	var uniqueTags []string
	for tag := range tagMap {
		uniqueTags = append(uniqueTags, tag)
	}
	sort.Strings(uniqueTags)

	return uniqueTags, nil
}

// Todo Stats
func (svc *TodosService) GetTodoStats(ctx context.Context, userID string) (*model.TodoStats, error) {
	todos, err := svc.repo.GetUserTodos(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &model.TodoStats{
		Total: len(todos),
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())

	for _, todo := range todos {
		if todo.Complete {
			stats.Completed++
		} else {
			stats.Pending++
		}

		switch todo.Priority {
		case model.PriorityHigh:
			stats.HighPriority++
		case model.PriorityMedium:
			stats.MediumPriority++
		case model.PriorityLow:
			stats.LowPriority++
		}

		if !todo.Complete && !todo.DueDate.IsZero() {
			if todo.DueDate.Before(now) {
				stats.Overdue++
			} else if todo.DueDate.Before(today) {
				stats.DueToday++
			}
		}

		if !todo.ReminderAt.IsZero() {
			stats.WithReminders++
		}
	}

	return stats, nil
}

// helper
func validatePriority(p model.Priority) error {
	switch p {
	case model.PriorityLow, model.PriorityMedium, model.PriorityHigh:
		return nil
	case "": // empty priority is valid
		return nil
	default:
		return errors.New("invalid priority level")
	}
}

func (svc *TodosService) validateTags(tags []string) ([]string, error) {
	if len(tags) == 0 {
		return nil, nil
	}
	var validTags []string
	for _, tag := range tags {
		if tag != "" {
			validTags = append(validTags, tag)
		}
	}
	if len(validTags) > 5 {
		return nil, errors.New("cannot exceed 5 tags per todo")
	}

	for _, tag := range validTags {
		if len(tag) > 20 {
			return nil, errors.New("tag cannot exceed 20 characters")
		}
	}

	return validTags, nil
}

func getPriorityWeight(p model.Priority) int {
	switch p {
	case model.PriorityHigh:
		return 3
	case model.PriorityMedium:
		return 2
	case model.PriorityLow:
		return 1
	default:
		return 0
	}
}
