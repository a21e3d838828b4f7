package service

import (
	"Clipper/internal/api/dto"
	"Clipper/internal/repository"
	"context"
	"strings"
)

type UserService interface {
	GetUserByWhopID(ctx context.Context, whopID string) (*dto.UserDTO, error)
}

type userServiceImpl struct {
	userRepo repository.UserRepo
}

func NewUserService(userRepo repository.UserRepo) UserService {
	return &userServiceImpl{userRepo: userRepo}
}

func (s *userServiceImpl) GetUserByWhopID(ctx context.Context, whopID string) (*dto.UserDTO, error) {
	whopID = strings.TrimSpace(whopID)
	if whopID == "" {
		return nil, ErrMissingWhopID
	}
	user, err := s.userRepo.GetUserByWhopID(ctx, whopID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return dto.ToUserDTO(user)
}
