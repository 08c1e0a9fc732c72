package services

import (
	"context"
	"errors"
	"strings"
	"time"

	apperrors "github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/common/errors"
	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/models"
	awspkg "github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/pkg/aws"
	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/repository"
	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/sender"
	"golang.org/x/crypto/bcrypt"
	"go.uber.org/zap"
)

const (
	MaxLoginAttempts = 5
	LockoutWindow    = 15 * time.Minute
	OTPLength        = 6
	OTPTTL           = 10 * time.Minute
)

type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error)
	// SendResetCode issues a fresh OTP, replacing any earlier one. It serves both
	// forgot-password and resend-otp.
	SendResetCode(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, req *models.ResetPasswordRequest) error
}

type ITokenService interface {
	GenerateToken(user *models.User) (string, error)
}

type authServiceImpl struct {
	users      repository.UserRepository
	tokens     ITokenService
	mailer     Mailer
	metrics    *awspkg.MetricsClient
	logger     *zap.Logger
	now        func() time.Time
	newCode    func() string
	bcryptCost int
}

func NewAuthService(users repository.UserRepository, tokens ITokenService, mailer Mailer, metrics *awspkg.MetricsClient, logger *zap.Logger) AuthService {
	return &authServiceImpl{
		users:      users,
		tokens:     tokens,
		mailer:     mailer,
		metrics:    metrics,
		logger:     logger,
		now:        time.Now,
		newCode:    func() string { return GenerateRandomCode(OTPLength) },
		bcryptCost: bcrypt.DefaultCost,
	}
}

func (s *authServiceImpl) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {
	email := strings.TrimSpace(req.Email)
	if len(email) > 100 {
		return nil, apperrors.Validation("email must be at most 100 characters")
	}
	if len(req.Password) < 6 {
		return nil, apperrors.Validation("password must be at least 6 characters")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, apperrors.Internal("failed to hash password", err)
	}

	user := &models.User{
		Name:      strings.TrimSpace(req.Name),
		Email:     email,
		Mobile:    strings.TrimSpace(req.Mobile),
		Password:  string(hashed),
		UserLevel: models.LevelBuyer,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Validation("an account with this email already exists")
		}
		return nil, apperrors.Internal("failed to create account", err)
	}

	token, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, apperrors.Internal("failed to issue token", err)
	}
	s.logger.Info("User registered", zap.String("user_id", user.ID.Hex()))
	return &models.AuthResponse{Token: token, User: user}, nil
}

func (s *authServiceImpl) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.users.FindByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Unauthorized("invalid email or password")
		}
		return nil, apperrors.Internal("failed to look up user", err)
	}

	now := s.now()
	withinWindow := user.LastLoginAttempt != nil && now.Sub(*user.LastLoginAttempt) < LockoutWindow
	if withinWindow && user.LoginAttempts >= MaxLoginAttempts {
		if s.metrics.IsEnabled() {
			_ = s.metrics.RecordCount(ctx, awspkg.MetricLoginLockouts, nil)
		}
		s.logger.Warn("Login locked out", zap.String("user_id", user.ID.Hex()))
		return nil, apperrors.TooManyRequests("too many failed login attempts, try again later")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		attempts := 1
		if withinWindow {
			attempts = user.LoginAttempts + 1
		}
		if err := s.users.RecordLoginFailure(ctx, user.ID, attempts, now); err != nil {
			s.logger.Error("Failed to record login failure", zap.Error(err))
		}
		return nil, apperrors.Unauthorized("invalid email or password")
	}

	if user.LoginAttempts > 0 {
		if err := s.users.ResetLoginAttempts(ctx, user.ID); err != nil {
			s.logger.Error("Failed to reset login attempts", zap.Error(err))
		}
		user.LoginAttempts = 0
		user.LastLoginAttempt = nil
	}

	token, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, apperrors.Internal("failed to issue token", err)
	}
	return &models.AuthResponse{Token: token, User: user}, nil
}

func (s *authServiceImpl) SendResetCode(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("no account found with this email")
		}
		return apperrors.Internal("failed to look up user", err)
	}

	// A code that cannot be mailed must not replace the one the user already has.
	if s.mailer == nil {
		return apperrors.Internal("email is not configured", nil)
	}

	code := s.newCode()
	hashed, err := bcrypt.GenerateFromPassword([]byte(code), s.bcryptCost)
	if err != nil {
		return apperrors.Internal("failed to hash reset code", err)
	}
	if err := s.users.SetResetToken(ctx, user.ID, string(hashed), s.now().Add(OTPTTL)); err != nil {
		return apperrors.Internal("failed to store reset code", err)
	}

	data := map[string]interface{}{
		"Name":             user.Name,
		"Code":             code,
		"ExpiresInMinutes": int(OTPTTL.Minutes()),
	}
	if err := s.mailer.Send(ctx, sender.TemplatePasswordOTP, user.Email, data); err != nil {
		return apperrors.Internal("failed to send reset code", err)
	}
	s.logger.Info("Password reset code sent", zap.String("user_id", user.ID.Hex()))
	return nil
}

func (s *authServiceImpl) ResetPassword(ctx context.Context, req *models.ResetPasswordRequest) error {
	if len(req.NewPassword) < 6 {
		return apperrors.Validation("password must be at least 6 characters")
	}

	user, err := s.users.FindByActiveResetToken(ctx, strings.TrimSpace(req.Email), s.now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.Validation("invalid or expired reset code")
		}
		return apperrors.Internal("failed to look up reset code", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.ResetPasswordToken), []byte(req.OTP)); err != nil {
		return apperrors.Validation("invalid or expired reset code")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.bcryptCost)
	if err != nil {
		return apperrors.Internal("failed to hash password", err)
	}
	if err := s.users.CompletePasswordReset(ctx, user.ID, string(hashed)); err != nil {
		return apperrors.Internal("failed to reset password", err)
	}
	s.logger.Info("Password reset", zap.String("user_id", user.ID.Hex()))
	return nil
}
