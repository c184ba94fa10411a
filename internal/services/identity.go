package services

import (
	"errors"
	"strings"

	"github.com/taskflow-dev/taskflow/internal/apperrors"
	"github.com/taskflow-dev/taskflow/internal/auth"
	"github.com/taskflow-dev/taskflow/internal/models"
	"github.com/taskflow-dev/taskflow/internal/slug"
	"gorm.io/gorm"
)

// invalidCredentials is shared by every login failure path so the response
// never reveals whether the email or the password was wrong.
const invalidCredentials = "Invalid email or password"

const slugAttempts = 3

type IdentityService struct {
	db *gorm.DB
}

func NewIdentityService(db *gorm.DB) *IdentityService {
	return &IdentityService{db: db}
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

// Register creates a user and issues a session token. There is no existence
// pre-check: the insert runs and a unique violation on the email index maps
// to Conflict, so two concurrent registrations with the same email resolve
// to exactly one success.
func (s *IdentityService) Register(in RegisterInput) (*models.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" {
		return nil, "", apperrors.Validation("Email is required", nil)
	}

	passwordHash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, "", apperrors.Internal(err)
	}

	base := slug.Make(in.Name)
	if in.Name == "" {
		base = slug.Make(localPart(email))
	}

	user := &models.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: passwordHash,
	}

	candidate := base

	for attempt := 0; ; attempt++ {
		user.Slug = candidate

		err := s.db.Create(user).Error
		if err == nil {
			break
		}

		if !isUniqueViolation(err) {
			return nil, "", apperrors.Internal(err)
		}

		var count int64
		if err := s.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return nil, "", apperrors.Internal(err)
		}
		if count > 0 {
			return nil, "", apperrors.Conflict("User", "email")
		}

		if attempt >= slugAttempts {
			return nil, "", apperrors.Conflict("User", "slug")
		}

		candidate = slug.WithSuffix(base)
	}

	token, err := auth.GenerateJWT(user.ID, user.Email)
	if err != nil {
		return nil, "", apperrors.Internal(err)
	}

	return user, token, nil
}

func (s *IdentityService) Login(email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User

	err := s.db.Where("email = ?", email).First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", apperrors.Authentication(invalidCredentials)
		}
		return nil, "", apperrors.Internal(err)
	}

	if !auth.VerifyPassword(user.PasswordHash, password) {
		return nil, "", apperrors.Authentication(invalidCredentials)
	}

	token, err := auth.GenerateJWT(user.ID, user.Email)
	if err != nil {
		return nil, "", apperrors.Internal(err)
	}

	return &user, token, nil
}

// Authenticate resolves a bearer token back to its user. Malformed and
// expired tokens, and tokens whose subject no longer exists, all fail the
// same way.
func (s *IdentityService) Authenticate(tokenString string) (*models.User, error) {
	token, err := auth.VerifyJWT(tokenString)
	if err != nil {
		return nil, apperrors.Authentication("Invalid or expired token")
	}

	userID, err := auth.SubjectUserID(token)
	if err != nil {
		return nil, apperrors.Authentication("Invalid or expired token")
	}

	var user models.User

	if err := s.db.Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Authentication("Invalid or expired token")
		}
		return nil, apperrors.Internal(err)
	}

	return &user, nil
}

func localPart(email string) string {
	if at := strings.IndexByte(email, '@'); at > 0 {
		return email[:at]
	}
	return email
}
