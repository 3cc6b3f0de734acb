package services

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"braindump_backend/internal/auth"
	"braindump_backend/internal/email"
	"braindump_backend/internal/logger"
	"braindump_backend/internal/models"
	"braindump_backend/internal/repositories"
	"braindump_backend/internal/services/dto"
	"braindump_backend/pkg/apperrors"
)

const (
	refreshTokenTTL = 30 * 24 * time.Hour
	resetTokenTTL   = time.Hour
)

type AuthService interface {
	Register(req *dto.RegisterRequest) (*dto.UserResponse, error)
	Login(req *dto.LoginRequest) (*dto.LoginResponse, error)
	// RefreshToken rotates the refresh token: the presented token is
	// consumed and a new pair is issued.
	RefreshToken(req *dto.RefreshTokenRequest) (*dto.LoginResponse, error)
	Logout(req *dto.LogoutRequest) error
	VerifyEmail(req *dto.VerifyEmailRequest) error
	RequestPasswordReset(req *dto.PasswordResetRequest) error
	ResetPassword(req *dto.ResetPasswordRequest) error
	ChangePassword(userID string, req *dto.ChangePasswordRequest) error
	GetUser(userID string) (*dto.UserResponse, error)
}

type AuthServiceImpl struct {
	userRepo    repositories.UserRepository
	tokenRepo   repositories.RefreshTokenRepository
	profileRepo repositories.ProfileRepository
	emails      email.Provider
}

func NewAuthService(
	userRepo repositories.UserRepository,
	tokenRepo repositories.RefreshTokenRepository,
	profileRepo repositories.ProfileRepository,
	emails email.Provider,
) AuthService {
	return &AuthServiceImpl{
		userRepo:    userRepo,
		tokenRepo:   tokenRepo,
		profileRepo: profileRepo,
		emails:      emails,
	}
}

func (s *AuthServiceImpl) Register(req *dto.RegisterRequest) (*dto.UserResponse, error) {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.ErrWeakPassword
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Email:             req.Email,
		PasswordHash:      hash,
		Status:            models.UserStatusPending,
		VerificationToken: generateToken(),
	}

	if err := s.userRepo.Create(user); err != nil {
		if apperrors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, apperrors.InternalError(err)
	}

	profile := &models.Profile{
		UserID:             user.ID,
		DisplayName:        req.DisplayName,
		SubscriptionStatus: models.SubscriptionStatusFree,
		DailyDumpCount:     0,
	}
	if err := s.profileRepo.Create(profile); err != nil {
		return nil, apperrors.InternalError(err)
	}
	user.Profile = profile

	// Delivery failure must not fail registration; the token can be
	// re-sent later.
	if err := s.emails.SendVerification(user.Email, user.VerificationToken); err != nil {
		logger.WithError(err).Warn("failed to send verification email", "email", user.Email)
	}

	return toUserResponse(user), nil
}

func (s *AuthServiceImpl) Login(req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if err := checkUserStatus(user); err != nil {
		return nil, err
	}

	return s.issueTokens(user)
}

func (s *AuthServiceImpl) RefreshToken(req *dto.RefreshTokenRequest) (*dto.LoginResponse, error) {
	stored, err := s.tokenRepo.FindByToken(req.RefreshToken)
	if err != nil {
		if apperrors.Is(err, repositories.ErrRefreshTokenNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, apperrors.InternalError(err)
	}

	if time.Now().After(stored.ExpiresAt) {
		_ = s.tokenRepo.DeleteByToken(stored.Token)
		return nil, apperrors.ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(stored.UserID)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}
	// The account may have been suspended or un-verified since the token
	// was issued; a rotation must not outlive the account's standing.
	if err := checkUserStatus(user); err != nil {
		return nil, err
	}

	if err := s.tokenRepo.DeleteByToken(stored.Token); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return s.issueTokens(user)
}

func (s *AuthServiceImpl) Logout(req *dto.LogoutRequest) error {
	// Unknown tokens are treated as already logged out.
	return s.tokenRepo.DeleteByToken(req.RefreshToken)
}

func (s *AuthServiceImpl) VerifyEmail(req *dto.VerifyEmailRequest) error {
	user, err := s.userRepo.FindByVerificationToken(req.Token)
	if err != nil {
		return apperrors.ErrInvalidToken
	}
	if err := s.userRepo.VerifyUser(user.ID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *AuthServiceImpl) RequestPasswordReset(req *dto.PasswordResetRequest) error {
	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		// Do not reveal whether the address is registered.
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil
		}
		return apperrors.InternalError(err)
	}

	exp := time.Now().Add(resetTokenTTL)
	user.ResetToken = generateToken()
	user.ResetTokenExp = &exp
	if err := s.userRepo.Update(user); err != nil {
		return apperrors.InternalError(err)
	}

	if err := s.emails.SendPasswordReset(user.Email, user.ResetToken); err != nil {
		logger.WithError(err).Warn("failed to send password reset email", "email", user.Email)
	}
	return nil
}

func (s *AuthServiceImpl) ResetPassword(req *dto.ResetPasswordRequest) error {
	user, err := s.userRepo.FindByResetToken(req.Token)
	if err != nil {
		return apperrors.ErrInvalidToken
	}
	if user.ResetTokenExp == nil || time.Now().After(*user.ResetTokenExp) {
		return apperrors.ErrInvalidToken
	}

	if err := auth.ValidatePassword(req.NewPassword); err != nil {
		return apperrors.ErrWeakPassword
	}
	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return apperrors.InternalError(err)
	}

	user.PasswordHash = hash
	user.ResetToken = ""
	user.ResetTokenExp = nil
	if err := s.userRepo.Update(user); err != nil {
		return apperrors.InternalError(err)
	}

	// Every session is revoked after a reset.
	return s.tokenRepo.DeleteByUserID(user.ID)
}

func (s *AuthServiceImpl) ChangePassword(userID string, req *dto.ChangePasswordRequest) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.CurrentPassword, user.PasswordHash) {
		return apperrors.ErrInvalidCredentials
	}
	if err := auth.ValidatePassword(req.NewPassword); err != nil {
		return apperrors.ErrWeakPassword
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return apperrors.InternalError(err)
	}
	user.PasswordHash = hash
	if err := s.userRepo.Update(user); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *AuthServiceImpl) GetUser(userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return toUserResponse(user), nil
}

func (s *AuthServiceImpl) issueTokens(user *models.User) (*dto.LoginResponse, error) {
	accessToken, err := auth.GenerateToken(user.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	refresh := &models.RefreshToken{
		UserID:    user.ID,
		Token:     generateToken(),
		ExpiresAt: time.Now().Add(refreshTokenTTL),
	}
	if err := s.tokenRepo.Create(refresh); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refresh.Token,
		User:         toUserResponse(user),
	}, nil
}

// checkUserStatus rejects accounts that must not hold a session: a
// suspended account, or a pending one that never verified its email.
func checkUserStatus(user *models.User) error {
	switch user.Status {
	case models.UserStatusSuspended:
		return apperrors.ErrUserSuspended
	case models.UserStatusPending:
		if !user.IsVerified {
			return apperrors.ErrUserNotVerified
		}
	}
	return nil
}

func toUserResponse(user *models.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:         user.ID,
		Email:      user.Email,
		Status:     user.Status,
		IsVerified: user.IsVerified,
		Profile:    user.Profile,
	}
}

// generateToken returns a 64-character hex token from a CSPRNG.
func generateToken() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
