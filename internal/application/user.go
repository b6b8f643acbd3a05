package app

import (
	"context"

	"scroll-stitch/internal/domain/entity"
	"scroll-stitch/internal/domain/port"
)

type UserService struct {
	repo port.UserRepository
}

func NewUserService(repo port.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) Get(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.repo.Get(ctx, userID, chatID)
}

func (s *UserService) SetState(ctx context.Context, userID, chatID int64, state entity.UserState) (*entity.User, error) {
	user, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	user.SetState(state)
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// BeginCapture переводит пользователя в съёмку прокрутки; новые кадры ждём снизу (справа)
func (s *UserService) BeginCapture(ctx context.Context, userID, chatID int64, direction entity.ScrollDirection) (*entity.User, error) {
	user, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	user.SetState(entity.StateCapturing)
	user.Direction = direction
	user.Hint = entity.Trailing
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *UserService) SetHint(ctx context.Context, userID, chatID int64, hint entity.Edge) (*entity.User, error) {
	if _, err := s.repo.Get(ctx, userID, chatID); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateHint(ctx, userID, hint); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, userID, chatID)
}

func (s *UserService) Cancel(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.SetState(ctx, userID, chatID, entity.StateMainMenu)
}
