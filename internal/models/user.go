// Package models содержит доменные структуры сервиса BrainBooster:
// пользователей, подписки, уведомления и тарифные планы.
package models

import "time"

// Role роль пользователя в системе.
type Role string

// Возможные роли пользователя.
const (
	RoleStudent Role = "STUDENT"
	RoleTeacher Role = "TEACHER"
	RoleAdmin   Role = "ADMIN"
)

// YearGroup учебная ступень ученика.
type YearGroup string

// Возможные учебные ступени.
const (
	YearGroupKS3    YearGroup = "KS3"
	YearGroupGCSE   YearGroup = "GCSE"
	YearGroupALevel YearGroup = "A_LEVEL"
)

// Subject учебный предмет.
type Subject string

// Возможные предметы.
const (
	SubjectMaths     Subject = "MATHS"
	SubjectEnglish   Subject = "ENGLISH"
	SubjectScience   Subject = "SCIENCE"
	SubjectHistory   Subject = "HISTORY"
	SubjectGeography Subject = "GEOGRAPHY"
)

// User представляет учетную запись пользователя.
// Пользователи никогда не удаляются физически, только деактивируются.
type User struct {
	UID          string     // Уникальный идентификатор пользователя
	Email        string     // Электронная почта (уникальная)
	PasswordHash string     // Хэш пароля
	FirstName    string     // Имя
	LastName     string     // Фамилия
	Role         Role       // Роль пользователя
	IsActive     bool       // Признак активной учетной записи
	Subjects     []Subject  // Предметы ученика
	YearGroup    YearGroup  // Учебная ступень
	CreatedAt    time.Time  // Дата создания
}
