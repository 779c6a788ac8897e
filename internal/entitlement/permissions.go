package entitlement

import "github.com/feedbackhub/backend/internal/models"

// ReadOnly возвращает полностью закрытый набор прав.
//
// Это безопасное значение по умолчанию: неразрешенный тариф, пустой каталог
// и любая ошибка загрузки данных сводятся к нему.
func ReadOnly() models.PermissionSet {
	return models.PermissionSet{IsReadOnly: true}
}

// Permissions вычисляет набор прав для разрешенного тарифа.
//
// Чистая функция без побочных эффектов, безопасна для вызова на каждый
// запрос. Бесплатный тариф закрыт на запись независимо от состояния
// пробного периода. Неизвестный ID тарифа дает закрытый набор.
func Permissions(planID string, trialExpired bool) models.PermissionSet {
	switch planID {
	case PlanStandard:
		return models.PermissionSet{
			CanReply:              true,
			CanChangeStatus:       true,
			CanViewBasicAnalytics: true,
			CanViewGrowth:         true,
		}
	case PlanPro:
		return models.PermissionSet{
			CanReply:                 true,
			CanChangeStatus:          true,
			CanViewBasicAnalytics:    true,
			CanViewExtendedAnalytics: true,
			CanViewReports:           true,
			CanViewGrowth:            true,
			CanViewTeamMood:          true,
		}
	case PlanFree:
		// Пробный период закрыт на запись и до, и после истечения.
		return ReadOnly()
	default:
		return ReadOnly()
	}
}

// ForCompany разрешает тариф компании по каталогу и возвращает набор прав
// вместе с записью каталога (nil, если тариф не разрешен).
func ForCompany(company *models.Company, catalog []models.Plan, trialExpired bool) (models.PermissionSet, *models.Plan) {
	if company == nil || len(catalog) == 0 {
		return ReadOnly(), nil
	}
	planID := ResolvePlanID(company.Plan, catalog)
	if planID == "" {
		return ReadOnly(), nil
	}
	perms := Permissions(planID, trialExpired)
	for i := range catalog {
		if catalog[i].ID == planID {
			return perms, &catalog[i]
		}
	}
	// Бесплатный тариф мог быть разрешен через псевдоним, отсутствуя в каталоге.
	return perms, nil
}
