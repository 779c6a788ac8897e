package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/feedbackhub/backend/internal/models"
)

// CustomClaims описывает пользовательские данные, хранящиеся в JWT.
type CustomClaims struct {
	Username             string `json:"username"`             // Имя пользователя
	Email                string `json:"email"`                // Электронная почта
	Role                 string `json:"role"`                 // Роль пользователя
	CompanyID            *int   `json:"company_id,omitempty"` // ID компании, если есть
	jwt.RegisteredClaims        // Встроенные стандартные claims JWT (ExpiresAt, IssuedAt и пр.)
}

// GenerateToken создает JWT токен для канонической личности,
// подписывая его секретным ключом.
//
// Время жизни токена определяется полем tokenTTL.
func (j *MakerImpl) GenerateToken(ident models.Identity) (string, error) {
	claims := CustomClaims{
		Username:  ident.Name,
		Email:     ident.Email,
		Role:      string(ident.Role),
		CompanyID: ident.CompanyID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   ident.UID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(j.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

// ParseToken парсит JWT токен, проверяет его подпись и валидность,
// возвращает CustomClaims с данными, если токен корректен.
func (j *MakerImpl) ParseToken(tokenStr string) (*CustomClaims, error) {
	const op = "jwt.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, func(_ *jwt.Token) (any, error) {
		return []byte(j.secretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: invalid token", op)
	}
	return claims, nil
}

// Identity восстанавливает каноническую личность из claims.
//
// Роль нормализуется здесь — это граница, после которой по коду
// ходят только значения перечисления. Неизвестная роль — ошибка.
func (c *CustomClaims) Identity() (*models.Identity, error) {
	const op = "jwt.Identity"
	role, ok := models.ParseRole(c.Role)
	if !ok {
		return nil, fmt.Errorf("%s: unknown role %q", op, c.Role)
	}
	return &models.Identity{
		UID:       c.Subject,
		Email:     c.Email,
		Role:      role,
		CompanyID: c.CompanyID,
		Name:      c.Username,
	}, nil
}
