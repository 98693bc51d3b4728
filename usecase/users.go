package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"main/model"
	"main/repository"
	"main/services"
	"main/utils"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type UserService struct {
	repo *repository.UserRepo
}

func NewUserService(repo *repository.UserRepo) *UserService {
	return &UserService{repo: repo}
}

// CreateUser registers a new account with a hashed password.
func (svc *UserService) CreateUser(ctx context.Context, user *model.User) error {
	if user.Username == "" || user.Password == "" || user.Email == "" {
		return errors.New("username, email and password are required")
	}
	if !utils.ValidatePassword(user.Password) {
		return errors.New("password does not meet complexity requirements")
	}
	if err := utils.Validate.Struct(user); err != nil {
		return fmt.Errorf("invalid user data: %w", err)
	}

	existing, err := svc.repo.FindUserByUsername(ctx, user.Username)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	if existing != nil {
		return repository.ErrConflict
	}

	hashed, err := services.HashPassword(user.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = hashed

	if user.UserID == "" {
		user.UserID = utils.GenerateUserID()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	if err := svc.repo.AddUser(ctx, user); err != nil {
		return err
	}

	utils.TrackRegistration()
	return nil
}

// Authenticate checks username and password, returning the user on success.
func (svc *UserService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	user, err := svc.repo.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := services.VerifyPassword(user.Password, password)
	if err != nil || !ok {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (svc *UserService) GetUser(ctx context.Context, userID string) (*model.User, error) {
	return svc.repo.FindUser(ctx, userID)
}

// ChangePassword verifies the old password before storing the new hash.
func (svc *UserService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	user, err := svc.repo.FindUser(ctx, userID)
	if err != nil {
		return err
	}

	ok, err := services.VerifyPassword(user.Password, oldPassword)
	if err != nil || !ok {
		return ErrInvalidCredentials
	}

	if oldPassword == newPassword {
		return errors.New("new password must differ from the old password")
	}
	if !utils.ValidatePassword(newPassword) {
		return errors.New("password does not meet complexity requirements")
	}

	hashed, err := services.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	modified, err := svc.repo.UpdateUserPassword(ctx, userID, hashed)
	if err != nil {
		return err
	}
	if modified == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ChangeEmail updates the account email.
func (svc *UserService) ChangeEmail(ctx context.Context, userID, newEmail string) error {
	user, err := svc.repo.FindUser(ctx, userID)
	if err != nil {
		return err
	}
	if user.Email == newEmail {
		return errors.New("new email must differ from the current email")
	}

	modified, err := svc.repo.UpdateUserEmail(ctx, userID, newEmail)
	if err != nil {
		return err
	}
	if modified == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteUser removes the account permanently.
func (svc *UserService) DeleteUser(ctx context.Context, userID string) error {
	deleted, err := svc.repo.DeleteUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return repository.ErrNotFound
	}
	return nil
}
