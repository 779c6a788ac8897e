// Package entitlement реализует разрешение тарифного плана компании
// и вычисление набора прав доступа.
//
// Компания хранит название тарифа в свободной форме (возможно, на русском,
// английском или казахском), поэтому сопоставление с каталогом идет по
// названию, а не по ID. Таблица псевдонимов бесплатного тарифа вынесена
// в конфигурационную таблицу пакета, а не разбросана по коду.
package entitlement

import (
	"strings"
	"time"

	"github.com/feedbackhub/backend/internal/models"
)

// Идентификаторы тарифов каталога.
const (
	// PlanFree — бесплатный (пробный) тариф.
	PlanFree = "free"
	// PlanStandard — тариф "Стандарт".
	PlanStandard = "standard"
	// PlanPro — тариф "Про".
	PlanPro = "pro"
)

// freePlanAliases — таблица многоязычных названий бесплатного/пробного тарифа.
//
// Бесплатный тариф не всегда присутствует в каталоге под совпадающим
// названием, поэтому эти псевдонимы разрешаются до обращения к каталогу.
var freePlanAliases = []string{
	// ru
	"Пробный",
	"Бесплатный",
	// en
	"Trial",
	"Free",
	// kk
	"Сынақ",
	"Тегін",
}

// ResolvePlanID сопоставляет название тарифа компании с каталогом.
//
// Порядок разрешения:
//  1. название из таблицы псевдонимов бесплатного тарифа — сразу PlanFree;
//  2. совпадение с основным или локализованным названием записи каталога;
//  3. нет совпадения — пустая строка (тариф не разрешен).
//
// Функция тотальна: никогда не возвращает ошибку и не паникует.
func ResolvePlanID(planName string, catalog []models.Plan) string {
	name := strings.TrimSpace(planName)
	if name == "" {
		return ""
	}

	for _, alias := range freePlanAliases {
		if strings.EqualFold(name, alias) {
			return PlanFree
		}
	}

	for i := range catalog {
		for _, n := range catalog[i].Names() {
			if strings.EqualFold(name, n) {
				return catalog[i].ID
			}
		}
	}
	return ""
}

// IsTrialExpired сообщает, истек ли пробный период компании на момент now.
//
// Отсутствующая дата окончания трактуется как неистекший период: компания
// с неполными данными о пробном периоде не должна терять доступ.
func IsTrialExpired(company *models.Company, now time.Time) bool {
	if company == nil || company.TrialEndDate == nil {
		return false
	}
	return now.After(*company.TrialEndDate)
}
