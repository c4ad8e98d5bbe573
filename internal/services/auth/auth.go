// Package auth содержит логику регистрации и аутентификации пользователей.
package auth

import (
	"context"
	"errors"

	"github.com/SalekhM8/BrainBooster-sub000/internal/lib/jwt"
	"github.com/SalekhM8/BrainBooster-sub000/internal/lib/password"
	"github.com/SalekhM8/BrainBooster-sub000/internal/models"
)

// ErrInvalidCredentials возвращается при неверной паре email/пароль.
// Наружу уходит одинаковый ответ для неизвестного email и неверного
// пароля, чтобы не раскрывать существование учетной записи.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя и возвращает его uid.
	CreateUser(ctx context.Context, user models.User) (string, error)
	// FindUserByEmail возвращает пользователя по email или ошибку, если не найден.
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// AuthService отвечает за регистрацию, авторизацию и валидацию JWT.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
}

// New создает новый экземпляр AuthService.
func New(users UserRepository, jwtMaker jwt.Maker) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
	}
}

// RegisterRequest данные самостоятельной регистрации ученика.
type RegisterRequest struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	YearGroup models.YearGroup
	Subjects  []models.Subject
}

// Register создает нового пользователя с хэшированием пароля и ролью STUDENT.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (string, error) {
	hashed, err := password.GetHash(req.Password)
	if err != nil {
		return "", err
	}
	user := models.User{
		Email:        req.Email,
		PasswordHash: hashed,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         models.RoleStudent,
		IsActive:     true,
		Subjects:     req.Subjects,
		YearGroup:    req.YearGroup,
	}
	return s.users.CreateUser(ctx, user)
}

// Login проверяет пароль пользователя и генерирует JWT.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (token, role string, err error) {
	user, err := s.users.FindUserByEmail(ctx, email)
	if err != nil {
		return "", "", ErrInvalidCredentials
	}
	if !user.IsActive {
		return "", "", ErrInvalidCredentials
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", "", ErrInvalidCredentials
	}
	token, err = s.jwtMaker.GenerateToken(user.Email, string(user.Role), user.UID)
	if err != nil {
		return "", "", err
	}
	return token, string(user.Role), nil
}

// ValidateToken проверяет JWT и возвращает данные пользователя из claims.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*models.User, bool, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, false, err
	}
	user := &models.User{
		UID:   claims.UserUID,
		Email: claims.Email,
		Role:  models.Role(claims.Role),
	}
	return user, true, nil
}
