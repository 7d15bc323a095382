package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"semillero.org/semillerodigital/internal/entity"
	"semillero.org/semillerodigital/internal/modules/user/dto"
	"semillero.org/semillerodigital/internal/modules/user/repository"
	"semillero.org/semillerodigital/pkg/apperror"
	"semillero.org/semillerodigital/pkg/googleauth"
	"semillero.org/semillerodigital/pkg/token"
)

// GoogleAuthClient is the slice of the Google OAuth wrapper the auth flow
// needs. *googleauth.Client satisfies it.
type GoogleAuthClient interface {
	AuthURL() string
	Exchange(ctx context.Context, code string) (googleauth.Tokens, error)
	Refresh(ctx context.Context, refreshToken string) (googleauth.Tokens, error)
	UserInfo(ctx context.Context, accessToken string) (*googleauth.UserInfo, error)
}

type AuthService interface {
	Register(ctx context.Context, input dto.RegisterInput) (*dto.AuthResponse, error)
	Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error)
	GoogleAuthURL() string
	GoogleCallback(ctx context.Context, code string) (*dto.AuthResponse, error)
	Me(ctx context.Context, userID string) (*entity.PublicProfile, error)
	RefreshGoogleToken(ctx context.Context, userID string) (*dto.RefreshResponse, error)
}

type authService struct {
	repo               repository.UserRepository
	google             GoogleAuthClient
	tokens             *token.Service
	coordinatorDomains []string
	teacherDomains     []string
}

func NewAuthService(repo repository.UserRepository, google GoogleAuthClient, tokens *token.Service, coordinatorDomains, teacherDomains []string) AuthService {
	return &authService{
		repo:               repo,
		google:             google,
		tokens:             tokens,
		coordinatorDomains: coordinatorDomains,
		teacherDomains:     teacherDomains,
	}
}

func (s *authService) Register(ctx context.Context, input dto.RegisterInput) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, apperror.New(http.StatusBadRequest, "El email ya está registrado", apperror.ErrBadRequest)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	role := entity.RoleStudent
	if input.Role != "" {
		role = input.Role
	}

	hash := string(hashed)
	user := &entity.User{
		Email:        email,
		PasswordHash: &hash,
		AuthMethod:   entity.AuthMethodLocal,
		Name:         strings.TrimSpace(input.Name),
		Role:         role,
		IsActive:     true,
		LastLogin:    time.Now(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.buildAuthResponse(user)
}

func (s *authService) Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrInvalidCredentials
		}
		return nil, err
	}

	if user.PasswordHash == nil {
		return nil, apperror.New(http.StatusUnauthorized, "Esta cuenta usa inicio de sesión con Google", apperror.ErrUnauthorized)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, apperror.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, apperror.ErrAccountDeactivated
	}

	user.LastLogin = time.Now()
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	return s.buildAuthResponse(user)
}

func (s *authService) GoogleAuthURL() string {
	return s.google.AuthURL()
}

func (s *authService) GoogleCallback(ctx context.Context, code string) (*dto.AuthResponse, error) {
	tokens, err := s.google.Exchange(ctx, code)
	if err != nil {
		return nil, apperror.New(http.StatusInternalServerError, "No se pudo completar la autenticación", err)
	}

	info, err := s.google.UserInfo(ctx, tokens.AccessToken)
	if err != nil {
		return nil, apperror.New(http.StatusInternalServerError, "No se pudo completar la autenticación", err)
	}

	email := strings.ToLower(info.Email)

	// First match wins: a local account with the same email is linked to the
	// Google identity on its first OAuth login.
	user, err := s.repo.FindByGoogleIDOrEmail(ctx, info.ID, email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		googleID := info.ID
		user = &entity.User{
			Email:      email,
			GoogleID:   &googleID,
			AuthMethod: entity.AuthMethodGoogle,
			Name:       info.Name,
			Picture:    info.Picture,
			Role:       s.resolveRole(email),
			IsActive:   true,
		}
		applyGoogleTokens(user, tokens)

		if err := s.repo.Create(ctx, user); err != nil {
			return nil, err
		}

		return s.buildAuthResponse(user)
	}

	if !user.IsActive {
		return nil, apperror.ErrAccountDeactivated
	}

	if user.GoogleID == nil {
		googleID := info.ID
		user.GoogleID = &googleID
	}
	if user.AuthMethod == entity.AuthMethodLocal {
		user.AuthMethod = entity.AuthMethodBoth
	}
	user.Name = info.Name
	user.Picture = info.Picture
	applyGoogleTokens(user, tokens)

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	return s.buildAuthResponse(user)
}

func (s *authService) Me(ctx context.Context, userID string) (*entity.PublicProfile, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(http.StatusNotFound, "Usuario no encontrado", apperror.ErrNotFound)
		}
		return nil, err
	}

	profile := user.PublicProfile()
	return &profile, nil
}

func (s *authService) RefreshGoogleToken(ctx context.Context, userID string) (*dto.RefreshResponse, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, apperror.New(http.StatusUnauthorized, "Token de actualización no disponible", apperror.ErrUnauthorized)
	}

	if user.GoogleTokens.RefreshToken == "" {
		return nil, apperror.New(http.StatusUnauthorized, "Token de actualización no disponible", apperror.ErrUnauthorized)
	}

	tokens, err := s.google.Refresh(ctx, user.GoogleTokens.RefreshToken)
	if err != nil {
		return nil, apperror.New(http.StatusInternalServerError, "No se pudo refrescar el token", err)
	}

	applyGoogleTokens(user, tokens)
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	return &dto.RefreshResponse{
		Message:    "Token actualizado correctamente",
		ExpiryDate: *user.GoogleTokens.ExpiryDate,
	}, nil
}

// resolveRole escalates the default role on first Google login when the email
// matches a coordinator or teacher domain.
func (s *authService) resolveRole(email string) string {
	for _, domain := range s.coordinatorDomains {
		if strings.Contains(email, "@"+domain) {
			return entity.RoleCoordinator
		}
	}
	for _, domain := range s.teacherDomains {
		if strings.Contains(email, "@"+domain) {
			return entity.RoleTeacher
		}
	}
	return entity.RoleStudent
}

func applyGoogleTokens(user *entity.User, tokens googleauth.Tokens) {
	expiry := tokens.ExpiryDate
	user.GoogleTokens.AccessToken = tokens.AccessToken
	if tokens.RefreshToken != "" {
		user.GoogleTokens.RefreshToken = tokens.RefreshToken
	}
	user.GoogleTokens.ExpiryDate = &expiry
	user.LastLogin = time.Now()
}

func (s *authService) buildAuthResponse(user *entity.User) (*dto.AuthResponse, error) {
	signed, _, err := s.tokens.Issue(user)
	if err != nil {
		log.Error().Err(err).Str("user", user.Email).Msg("failed to sign session token")
		return nil, err
	}

	return &dto.AuthResponse{
		Token: signed,
		User:  user.PublicProfile(),
	}, nil
}
