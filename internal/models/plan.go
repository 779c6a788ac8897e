// Package models содержит каталог тарифных планов.
// Каталог неизменяемый, загружается из хранилища и кешируется.
package models

// LocalizedName — локализованное название тарифа.
type LocalizedName struct {
	Ru string `json:"ru"`
	En string `json:"en"`
	Kk string `json:"kk"`
}

// Plan — запись каталога тарифных планов.
//
// Name — основное (англоязычное) название, NameLocalized — переводы.
// Сопоставление компании с тарифом идет по названию, а не по ID:
// компания хранит название в свободной форме (см. entitlement.ResolvePlanID).
type Plan struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	NameLocalized  *LocalizedName `json:"name_localized,omitempty"`
	Price          int            `json:"price"` // Цена за месяц в тенге
	IsFree         bool           `json:"is_free"`
	FreePeriodDays int            `json:"free_period_days,omitempty"`
	Features       []string       `json:"features,omitempty"`
}

// Names возвращает все варианты названия тарифа: основное и локализованные.
func (p *Plan) Names() []string {
	names := make([]string, 0, 4)
	if p.Name != "" {
		names = append(names, p.Name)
	}
	if p.NameLocalized != nil {
		for _, n := range []string{p.NameLocalized.Ru, p.NameLocalized.En, p.NameLocalized.Kk} {
			if n != "" {
				names = append(names, n)
			}
		}
	}
	return names
}
