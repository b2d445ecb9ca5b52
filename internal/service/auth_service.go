package service

import (
	"context"
	"errors"
	"time"

	"github.com/bausingcode/bausing-backend/internal/config"
	"github.com/bausingcode/bausing-backend/internal/dto"
	"github.com/bausingcode/bausing-backend/internal/model"
	"github.com/bausingcode/bausing-backend/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AuthService authenticates back-office operators and manages their accounts.
type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	CreateAdminUser(ctx context.Context, req dto.CreateAdminUserRequest) (*dto.AdminUserResponse, error)
	ListAdminUsers(ctx context.Context) ([]dto.AdminUserResponse, error)
	DeactivateAdminUser(ctx context.Context, id uuid.UUID) error
}

type authService struct {
	repo repository.AdminUserRepository
	cfg  *config.Config
}

func NewAuthService(repo repository.AdminUserRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, cfg: cfg}
}

func mapAdminUser(u model.AdminUser) dto.AdminUserResponse {
	return dto.AdminUserResponse{
		ID:       u.ID.String(),
		Email:    u.Email,
		Name:     u.Name,
		Role:     u.Role,
		IsActive: u.IsActive,
	}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.New("credenciales invalidas")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.New("credenciales invalidas")
	}
	return s.issueTokens(user)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("refresh token invalido o expirado")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("claims invalidos")
	}
	idStr, ok := claims["admin_id"].(string)
	if !ok {
		return nil, errors.New("token mal formado")
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, errors.New("token mal formado")
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil || !user.IsActive {
		return nil, errors.New("usuario no encontrado o inactivo")
	}
	return s.issueTokens(user)
}

func (s *authService) issueTokens(user *model.AdminUser) (*dto.LoginResponse, error) {
	accessToken, err := s.generateToken(user, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.generateToken(user, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		User:         mapAdminUser(*user),
	}, nil
}

func (s *authService) CreateAdminUser(ctx context.Context, req dto.CreateAdminUserRequest) (*dto.AdminUserResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, err
	}
	user := &model.AdminUser{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: string(hash),
		Role:         req.Role,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	resp := mapAdminUser(*user)
	return &resp, nil
}

func (s *authService) ListAdminUsers(ctx context.Context) ([]dto.AdminUserResponse, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.AdminUserResponse, len(users))
	for i, u := range users {
		resp[i] = mapAdminUser(u)
	}
	return resp, nil
}

func (s *authService) DeactivateAdminUser(ctx context.Context, id uuid.UUID) error {
	return s.repo.Deactivate(ctx, id)
}

func (s *authService) generateToken(user *model.AdminUser, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"admin_id": user.ID.String(),
		"email":    user.Email,
		"role":     user.Role,
		"exp":      time.Now().Add(duration).Unix(),
		"iat":      time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
