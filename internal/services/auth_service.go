package services

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ace-TI85/dev-connector/internal/gravatar"
	"github.com/ace-TI85/dev-connector/internal/models"
	"github.com/ace-TI85/dev-connector/internal/queue/tasks"
	"github.com/ace-TI85/dev-connector/internal/repository"
	"github.com/ace-TI85/dev-connector/internal/token"
	appErr "github.com/ace-TI85/dev-connector/pkg/errors"
	"github.com/ace-TI85/dev-connector/pkg/logger"
)

type AuthService interface {
	// Register creates the account and immediately issues a token, so the
	// client is signed in right after sign-up.
	Register(ctx context.Context, name, email, password string) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
	CurrentUser(ctx context.Context, userID uuid.UUID) (*models.User, error)
	// DeleteAccount removes the profile (if any) and the user record.
	// Cleanup of the departing user's posts and reactions is best-effort
	// and runs in the background worker.
	DeleteAccount(ctx context.Context, userID uuid.UUID) error
}

type authService struct {
	users    repository.UserRepository
	profiles repository.ProfileRepository
	tokens   *token.Service
	queue    *asynq.Client // nil when Redis is not configured
}

func NewAuthService(users repository.UserRepository, profiles repository.ProfileRepository, tokens *token.Service, queue *asynq.Client) AuthService {
	return &authService{users: users, profiles: profiles, tokens: tokens, queue: queue}
}

func (s *authService) Register(ctx context.Context, name, email, password string) (string, error) {
	var existing models.User
	err := s.users.GetByEmail(ctx, email, &existing)
	if err == nil {
		return "", appErr.New(appErr.CodeAlreadyExists, "User already exists")
	}
	if !appErr.IsCode(err, appErr.CodeNotFound) {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", appErr.Wrap(err, appErr.CodeInternal, "hash password failed")
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		AvatarURL:    gravatar.URL(email),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return "", err
	}

	return s.tokens.Issue(user.ID)
}

func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	var user models.User
	if err := s.users.GetByEmail(ctx, email, &user); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return "", appErr.New(appErr.CodeInvalid, "Invalid credentials.")
		}
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", appErr.New(appErr.CodeInvalid, "Invalid credentials.")
	}
	return s.tokens.Issue(user.ID)
}

func (s *authService) CurrentUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.users.GetByID(ctx, userID, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *authService) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	if err := s.profiles.DeleteByUser(ctx, userID); err != nil && !appErr.IsCode(err, appErr.CodeNotFound) {
		return err
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}
	s.enqueueCleanup(ctx, userID)
	return nil
}

// enqueueCleanup schedules removal of the departing user's posts, likes and
// comments. Failure here never fails the deletion itself.
func (s *authService) enqueueCleanup(ctx context.Context, userID uuid.UUID) {
	if s.queue == nil {
		logger.L().Warn("cleanup queue disabled, leaving user content behind", zap.String("user_id", userID.String()))
		return
	}
	payload, err := json.Marshal(tasks.AccountCleanupPayload{UserID: userID.String()})
	if err != nil {
		logger.L().Error("marshal cleanup payload failed", zap.Error(err))
		return
	}
	t := asynq.NewTask(tasks.TypeAccountCleanup, payload)
	if _, err := s.queue.EnqueueContext(ctx, t); err != nil {
		logger.L().Error("enqueue account cleanup failed", zap.String("user_id", userID.String()), zap.Error(err))
	}
}
