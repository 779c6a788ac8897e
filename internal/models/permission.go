// Package models содержит набор прав доступа, производный от тарифа компании.
package models

// PermissionSet — набор возможностей, доступных компании на текущем тарифе.
//
// Чистое производное значение: пересчитывается на каждый запрос из
// (Company, каталог тарифов) и нигде не хранится. Бэкенд — единственный
// авторитет этих правил, клиент использует их только для отрисовки UI.
type PermissionSet struct {
	CanReply                 bool `json:"can_reply"`
	CanChangeStatus          bool `json:"can_change_status"`
	CanViewBasicAnalytics    bool `json:"can_view_basic_analytics"`
	CanViewExtendedAnalytics bool `json:"can_view_extended_analytics"`
	CanViewReports           bool `json:"can_view_reports"`
	CanViewGrowth            bool `json:"can_view_growth"`
	CanViewTeamMood          bool `json:"can_view_team_mood"`
	IsReadOnly               bool `json:"is_read_only"`
}
