package service

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/recipebox/recipebox/internal/model"
	"github.com/recipebox/recipebox/internal/repository"
)

var ErrSelfModeration = fmt.Errorf("admins cannot ban, demote or delete themselves: %w", ErrValidation)

// UserService holds the account moderation actions.
type UserService struct {
	userRepository repository.UserRepository
}

func NewUserService(userRepository repository.UserRepository) *UserService {
	return &UserService{userRepository: userRepository}
}

func (s *UserService) ByID(id string) (*model.User, error) {
	user, err := s.userRepository.ByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *UserService) List() ([]*model.User, error) {
	return s.userRepository.List()
}

func (s *UserService) Ban(actorID, userID string) error {
	if actorID == userID {
		return ErrSelfModeration
	}
	err := s.userRepository.SetBanned(userID, true)
	if err != nil {
		return mapUserErr("ban user", err)
	}
	slog.Info("user banned", "user_id", userID, "by", actorID)
	return nil
}

func (s *UserService) Unban(actorID, userID string) error {
	err := s.userRepository.SetBanned(userID, false)
	if err != nil {
		return mapUserErr("unban user", err)
	}
	slog.Info("user unbanned", "user_id", userID, "by", actorID)
	return nil
}

func (s *UserService) SetRole(actorID, userID, role string) error {
	if !model.ValidRole(role) {
		return ErrInvalidRole
	}
	if actorID == userID && role != model.RoleAdmin {
		return ErrSelfModeration
	}
	err := s.userRepository.SetRole(userID, role)
	if err != nil {
		return mapUserErr("set role", err)
	}
	slog.Info("user role changed", "user_id", userID, "role", role, "by", actorID)
	return nil
}

func (s *UserService) Delete(actorID, userID string) error {
	if actorID == userID {
		return ErrSelfModeration
	}
	err := s.userRepository.Delete(userID)
	if err != nil {
		return mapUserErr("delete user", err)
	}
	slog.Info("user deleted", "user_id", userID, "by", actorID)
	return nil
}

// PromoteByEmail grants the admin role to an existing account.
func (s *UserService) PromoteByEmail(email string) (*model.User, error) {
	user, err := s.userRepository.ByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, mapUserErr("find user", err)
	}

	err = s.userRepository.SetRole(user.ID, model.RoleAdmin)
	if err != nil {
		return nil, mapUserErr("promote user", err)
	}

	user.Role = model.RoleAdmin
	slog.Info("user promoted to admin", "user_id", user.ID, "email", user.Email)
	return user, nil
}

func mapUserErr(action string, err error) error {
	if errors.Is(err, repository.ErrUserNotFound) {
		return ErrUserNotFound
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}
