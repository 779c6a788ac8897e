// Package session реализует слияние двух независимых источников
// аутентификации в одну каноническую личность.
//
// Источник A — локально выданный JWT (cookie или заголовок Authorization),
// источник B — сторонняя OAuth-сессия. Источники независимы: выход из
// OAuth не означает выход из локальной сессии, и наоборот. Каноническая
// личность пуста только когда не аутентифицирован ни один источник.
package session

import (
	"github.com/feedbackhub/backend/internal/models"
)

// LocalSession — состояние локального источника аутентификации.
type LocalSession struct {
	Authenticated bool
	User          *models.Identity
	Loading       bool
}

// OAuthSession — состояние стороннего OAuth-источника.
//
// Поля провайдера проецируются в каноническую форму при слиянии.
type OAuthSession struct {
	Authenticated bool
	Subject       string // Идентификатор пользователя у провайдера
	Email         string
	Name          string
	Role          string // Строка роли провайдера, нормализуется при проекции
	CompanyID     *int
	Loading       bool
}

// Resolved — каноническое представление "кто вошел в систему".
type Resolved struct {
	HasAuth bool
	User    *models.Identity
	Loading bool
}

// Resolve сливает два источника аутентификации.
//
// Правила:
//   - HasAuth — дизъюнкция источников: валидная локальная сессия не
//     сбрасывается, даже если OAuth сообщает "не аутентифицирован";
//   - личность берется из локального источника, OAuth — запасной вариант;
//   - Loading — дизъюнкция: пока любой источник не готов, решения по
//     канонической личности принимать нельзя.
func Resolve(local LocalSession, oauth OAuthSession) Resolved {
	resolved := Resolved{
		HasAuth: local.Authenticated || oauth.Authenticated,
		Loading: local.Loading || oauth.Loading,
	}

	switch {
	case local.Authenticated && local.User != nil:
		resolved.User = local.User
	case oauth.Authenticated:
		resolved.User = projectOAuth(oauth)
	}
	return resolved
}

// projectOAuth проецирует поля провайдера в каноническую личность.
//
// Неизвестная или пустая роль провайдера нормализуется в RoleUser —
// повышение прав возможно только через локальную учетку.
func projectOAuth(oauth OAuthSession) *models.Identity {
	role, ok := models.ParseRole(oauth.Role)
	if !ok {
		role = models.RoleUser
	}
	return &models.Identity{
		UID:       oauth.Subject,
		Email:     oauth.Email,
		Role:      role,
		CompanyID: oauth.CompanyID,
		Name:      oauth.Name,
	}
}
