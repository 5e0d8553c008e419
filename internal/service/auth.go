package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sendmenow/sendmenow/internal/mail"
	"github.com/sendmenow/sendmenow/internal/model"
	"github.com/sendmenow/sendmenow/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
	ErrUserNotFound       = errors.New("user not found")
)

type AuthService struct {
	userRepository  repository.UserRepository
	tokenRepository repository.ResetTokenRepository
	mailer          *mail.Mailer
	jwtSecret       string
	jwtExpiry       time.Duration
	resetExpiry     time.Duration
	frontendURL     string
}

func NewAuthService(
	userRepository repository.UserRepository,
	tokenRepository repository.ResetTokenRepository,
	mailer *mail.Mailer,
	jwtSecret string,
	jwtExpiry time.Duration,
	resetExpiry time.Duration,
	frontendURL string,
) *AuthService {
	return &AuthService{
		userRepository:  userRepository,
		tokenRepository: tokenRepository,
		mailer:          mailer,
		jwtSecret:       jwtSecret,
		jwtExpiry:       jwtExpiry,
		resetExpiry:     resetExpiry,
		frontendURL:     frontendURL,
	}
}

// Register creates the user and sends a best-effort welcome email. A failed
// send is logged and swallowed so it never fails the registration.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	user := &model.User{
		Name:      name,
		Email:     email,
		Password:  password,
		CreatedAt: time.Now(),
	}

	err := s.userRepository.Create(user)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	_, err = s.mailer.Send(ctx, mail.Welcome(name, email, s.frontendURL))
	if err != nil {
		slog.Warn("failed to send welcome email", "error", err, "email", email)
	}

	slog.Info("user registered", "user_id", user.ID, "name", name)
	return user, nil
}

// Login looks the user up by name and checks the password. The response is
// uniform regardless of which part was wrong.
func (s *AuthService) Login(name, password string) (*model.User, string, error) {
	user, err := s.userRepository.ByName(name)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to get user: %w", err)
	}

	if !credentialMatch(password, user.Password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.GenerateJWT(user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	slog.Info("user logged in", "user_id", user.ID, "name", name)
	return user, token, nil
}

// credentialMatch compares a provided password against the stored value.
// Passwords are stored as provided; this is the single seam to swap in a
// hashed scheme without touching any call site.
func credentialMatch(provided, stored string) bool {
	return subtle.ConstantTimeCompare([]byte(provided), []byte(stored)) == 1
}

func (s *AuthService) GenerateJWT(user *model.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"name":    user.Name,
		"email":   user.Email,
		"exp":     time.Now().Add(s.jwtExpiry).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func (s *AuthService) VerifyJWT(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}

func generateResetToken() (string, error) {
	bytes := make([]byte, 32)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// ForgotPassword always succeeds from the caller's point of view so the
// endpoint cannot be used to enumerate accounts. When the email matches a
// user it replaces any prior token for that email and sends the reset link.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepository.ByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			slog.Info("forgot password requested for non-existent email", "email", email)
			return nil
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}

	// At most one live token per email: delete-then-insert
	err = s.tokenRepository.DeleteByEmail(user.Email)
	if err != nil {
		slog.Warn("failed to delete old reset tokens", "error", err, "email", user.Email)
	}

	resetToken, err := generateResetToken()
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}

	token := &model.ResetToken{
		UserEmail: user.Email,
		Token:     resetToken,
		ExpiresAt: time.Now().Add(s.resetExpiry),
	}
	err = s.tokenRepository.Create(token)
	if err != nil {
		return fmt.Errorf("failed to create token: %w", err)
	}

	resetLink := fmt.Sprintf("%s/reset-password?token=%s&email=%s",
		s.frontendURL, resetToken, url.QueryEscape(user.Email))

	msg := mail.PasswordReset(user.Name, resetLink)
	msg.To = user.Email

	_, err = s.mailer.Send(ctx, msg)
	if err != nil {
		// Logged only; the generic success response is still returned
		slog.Error("failed to send password reset email", "error", err, "email", user.Email)
	}

	slog.Info("password reset link issued", "email", user.Email)
	return nil
}

// ResetPassword consumes a live token and updates the password in place.
// Token deletion after the update is best-effort.
func (s *AuthService) ResetPassword(token, email, newPassword string) error {
	_, err := s.tokenRepository.ByTokenAndEmail(token, email)
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("failed to verify reset token: %w", err)
	}

	rows, err := s.userRepository.UpdatePasswordByEmail(email, newPassword)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if rows == 0 {
		return ErrUserNotFound
	}

	err = s.tokenRepository.DeleteByToken(token)
	if err != nil {
		slog.Warn("failed to delete used reset token", "error", err, "email", email)
	}

	slog.Info("password reset completed", "email", email)
	return nil
}
