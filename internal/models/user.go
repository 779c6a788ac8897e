// Package models содержит доменную модель пользователя системы,
// включающую данные учётной записи, хэш пароля и привязку к компании.
// Структура используется в бизнес‑логике и при работе с хранилищем.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
type User struct {
	UID          string     // Уникальный идентификатор пользователя
	Email        string     // Электронная почта
	Username     string     // Имя пользователя (уникальное)
	PasswordHash string     // Хэш пароля, пустой для OAuth-учеток
	Role         Role       // Роль пользователя
	CompanyID    *int       // ID компании, nil для пользователей без компании
	Name         string     // Отображаемое имя
	CreatedAt    time.Time  // Дата регистрации
	LastLoginAt  *time.Time // Дата последнего входа
}

// Identity — каноническое представление "кто вошел в систему".
//
// Собирается слиянием двух независимых источников аутентификации
// (локальный JWT и OAuth-сессия) и живет только в рамках запроса.
type Identity struct {
	UID       string `json:"uid"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	CompanyID *int   `json:"company_id,omitempty"`
	Name      string `json:"name,omitempty"`
}
