package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/SalekhM8/BrainBooster-sub000/internal/models"
)

// CreateUser сохраняет нового пользователя и возвращает его uid.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO users (email, password_hash, first_name, last_name, role,
			      is_active, subjects, year_group)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING uid`
	var newUID string
	err := s.DB.QueryRowContext(ctx, query,
		user.Email, user.PasswordHash, user.FirstName, user.LastName, user.Role,
		user.IsActive, joinSubjects(user.Subjects), user.YearGroup).Scan(&newUID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// FindUserByEmail возвращает пользователя по email.
// Если пользователь не найден, возвращает ErrUserNotFound.
func (s *Storage) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.FindUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, password_hash, first_name, last_name, role,
			      is_active, subjects, year_group, created_at
			  FROM users WHERE email = $1`
	row := s.DB.QueryRowContext(ctx, query, email)

	var result models.User
	var subjects string
	if err := row.Scan(&result.UID, &result.Email, &result.PasswordHash, &result.FirstName,
		&result.LastName, &result.Role, &result.IsActive, &subjects,
		&result.YearGroup, &result.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	result.Subjects = splitSubjects(subjects)
	return &result, nil
}

// FindUserByUID возвращает пользователя по uid.
// Если пользователь не найден, возвращает ErrUserNotFound.
func (s *Storage) FindUserByUID(ctx context.Context, uid string) (*models.User, error) {
	const op = "storage.FindUserByUID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, password_hash, first_name, last_name, role,
			      is_active, subjects, year_group, created_at
			  FROM users WHERE uid = $1`
	row := s.DB.QueryRowContext(ctx, query, uid)

	var result models.User
	var subjects string
	if err := row.Scan(&result.UID, &result.Email, &result.PasswordHash, &result.FirstName,
		&result.LastName, &result.Role, &result.IsActive, &subjects,
		&result.YearGroup, &result.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	result.Subjects = splitSubjects(subjects)
	return &result, nil
}

// DeactivateUser помечает учетную запись неактивной. Пользователи
// физически не удаляются.
func (s *Storage) DeactivateUser(ctx context.Context, uid string) (int, error) {
	const op = "storage.DeactivateUser"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users SET is_active = false WHERE uid = $1`
	result, err := s.DB.ExecContext(ctx, query, uid)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// CountUsersByRole возвращает число активных пользователей с заданной ролью.
func (s *Storage) CountUsersByRole(ctx context.Context, role models.Role) (int, error) {
	const op = "storage.CountUsersByRole"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COUNT(*) FROM users WHERE role = $1 AND is_active = true`
	var count int
	if err := s.DB.QueryRowContext(ctx, query, role).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// ListRecentUsers возвращает последних зарегистрированных пользователей.
func (s *Storage) ListRecentUsers(ctx context.Context, limit int) ([]*models.User, error) {
	const op = "storage.ListRecentUsers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, password_hash, first_name, last_name, role,
			      is_active, subjects, year_group, created_at
			  FROM users
			  ORDER BY created_at DESC
			  LIMIT $1`
	rows, err := s.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.User
	for rows.Next() {
		var item models.User
		var subjects string
		if err := rows.Scan(&item.UID, &item.Email, &item.PasswordHash, &item.FirstName,
			&item.LastName, &item.Role, &item.IsActive, &subjects,
			&item.YearGroup, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		item.Subjects = splitSubjects(subjects)
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

func joinSubjects(subjects []models.Subject) string {
	parts := make([]string, 0, len(subjects))
	for _, s := range subjects {
		parts = append(parts, string(s))
	}
	return strings.Join(parts, ",")
}

func splitSubjects(serialized string) []models.Subject {
	if serialized == "" {
		return nil
	}
	parts := strings.Split(serialized, ",")
	result := make([]models.Subject, 0, len(parts))
	for _, p := range parts {
		result = append(result, models.Subject(p))
	}
	return result
}
