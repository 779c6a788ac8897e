// Package models содержит доменные структуры FeedbackHub: роли, учетные записи,
// компании, тарифные планы, сообщения и наборы прав доступа.
package models

import "strings"

// Role — закрытое перечисление ролей пользователей системы.
//
// Строка роли нормализуется один раз на границе (ParseRole), дальше по коду
// сравниваются только значения перечисления.
type Role string

const (
	// RoleUser — обычный пользователь (отправитель сообщений).
	RoleUser Role = "user"
	// RoleCompany — учетная запись компании.
	RoleCompany Role = "company"
	// RoleAdmin — администратор сервиса.
	RoleAdmin Role = "admin"
	// RoleSuperAdmin — главный администратор.
	RoleSuperAdmin Role = "super_admin"
)

// ParseRole нормализует строку роли без учета регистра.
//
// Возвращает false, если роль не входит в перечисление. Вызывается один раз
// при слиянии источников аутентификации, а не при каждом сравнении.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleUser:
		return RoleUser, true
	case RoleCompany:
		return RoleCompany, true
	case RoleAdmin:
		return RoleAdmin, true
	case RoleSuperAdmin:
		return RoleSuperAdmin, true
	}
	return "", false
}

// HomePath возвращает домашний маршрут для роли.
//
// Используется при отказе в доступе: пользователь перенаправляется
// в свой раздел, а не получает сообщение об ошибке.
func (r Role) HomePath() string {
	switch r {
	case RoleCompany:
		return "/company"
	case RoleAdmin, RoleSuperAdmin:
		return "/admin"
	default:
		return "/"
	}
}

// IsAdmin сообщает, относится ли роль к административным.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}
