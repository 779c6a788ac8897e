// Package guard реализует правила допуска к защищенным маршрутам.
//
// Решение — чистая функция от канонической личности, требуемых ролей,
// статуса блокировки компании и текущего пути. Состояния: пока данные
// не загружены — Loading, затем терминально Allowed или Redirecting.
// Пакет не знает про HTTP: применение решения лежит на middleware.
package guard

import (
	"github.com/feedbackhub/backend/internal/models"
)

// State — состояние проверки допуска.
type State int

const (
	// StateLoading — данные аутентификации или компании еще загружаются,
	// решение не принимается.
	StateLoading State = iota
	// StateAllowed — доступ разрешен.
	StateAllowed
	// StateRedirecting — доступ запрещен, пользователь перенаправляется.
	StateRedirecting
)

// CompanyRoot — маршрут кабинета компании. Заблокированная компания
// допускается только сюда.
const CompanyRoot = "/company"

// Decision — результат проверки допуска.
type Decision struct {
	State  State
	Target string // Цель перенаправления, заполнена при StateRedirecting
}

// Input — входные данные проверки допуска к маршруту.
type Input struct {
	Identity       *models.Identity // Каноническая личность, nil если не вошел
	AuthLoading    bool             // Источники аутентификации еще не готовы
	RequiredRoles  []models.Role    // Допустимые роли, пусто — любой вошедший
	Company        *models.Company  // Запись компании, только для роли company
	CompanyLoading bool             // Запись компании еще загружается
	Path           string           // Текущий маршрут
}

func allow() Decision {
	return Decision{State: StateAllowed}
}

func redirect(target string) Decision {
	return Decision{State: StateRedirecting, Target: target}
}

// Decide принимает решение о допуске. Правила применяются по порядку:
//
//  1. данные еще загружаются — решение откладывается, перенаправлений нет;
//  2. загрузка завершена, личности нет — перенаправление на "/";
//  3. роль не входит в требуемый набор — перенаправление в домашний раздел роли;
//  4. роль company, компания заблокирована и путь не корень кабинета —
//     перенаправление на корень кабинета;
//  5. иначе доступ разрешен.
//
// Функция вызывается на каждый запрос, решения никогда не принимаются
// по неполным данным.
func Decide(in Input) Decision {
	if in.AuthLoading {
		return Decision{State: StateLoading}
	}
	if in.Identity == nil {
		return redirect("/")
	}

	if len(in.RequiredRoles) > 0 {
		matched := false
		for _, r := range in.RequiredRoles {
			if in.Identity.Role == r {
				matched = true
				break
			}
		}
		if !matched {
			return redirect(in.Identity.Role.HomePath())
		}
	}

	if in.Identity.Role == models.RoleCompany && requiresCompany(in.RequiredRoles) {
		if in.CompanyLoading {
			return Decision{State: StateLoading}
		}
		if in.Company.IsBlocked() && in.Path != CompanyRoot {
			return redirect(CompanyRoot)
		}
	}

	return allow()
}

func requiresCompany(roles []models.Role) bool {
	for _, r := range roles {
		if r == models.RoleCompany {
			return true
		}
	}
	return false
}
