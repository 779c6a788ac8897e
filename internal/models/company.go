// Package models содержит доменную модель компании — получателя сообщений.
// Компания идентифицируется коротким кодом, по которому анонимные
// пользователи отправляют обратную связь.
package models

import "time"

// CompanyStatus — статус компании в сервисе.
type CompanyStatus string

const (
	// CompanyStatusActive — компания с действующим оплаченным планом.
	CompanyStatusActive CompanyStatus = "Active"
	// CompanyStatusTrial — компания на пробном периоде.
	CompanyStatusTrial CompanyStatus = "Trial"
	// CompanyStatusBlocked — компания заблокирована администратором.
	CompanyStatusBlocked CompanyStatus = "Blocked"
)

// Company представляет компанию, принимающую обратную связь.
//
// Поле Plan хранит название тарифа в свободной форме (возможно,
// локализованное) — сопоставление с каталогом выполняет пакет entitlement.
type Company struct {
	ID           int           `json:"id"`
	Code         string        `json:"code"`   // Короткий код для отправки сообщений
	Name         string        `json:"name"`   // Название компании
	Email        string        `json:"email"`  // Контактная почта для уведомлений
	Status       CompanyStatus `json:"status"` // Active | Trial | Blocked
	Plan         string        `json:"plan"`   // Название тарифа в свободной форме
	TrialEndDate *time.Time    `json:"trial_end_date,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
}

// IsBlocked сообщает, заблокирована ли компания.
func (c *Company) IsBlocked() bool {
	return c != nil && c.Status == CompanyStatusBlocked
}
