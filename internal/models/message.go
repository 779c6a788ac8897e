// Package models содержит доменные структуры сообщений обратной связи,
// а также вспомогательные типы для работы с данными из внешних источников (например, JSON-запросы).
package models

import "time"

// MessageStatus — статус обработки сообщения компанией.
type MessageStatus string

const (
	// MessageStatusNew — новое, не просмотренное сообщение.
	MessageStatusNew MessageStatus = "new"
	// MessageStatusInProgress — сообщение взято в работу.
	MessageStatusInProgress MessageStatus = "in_progress"
	// MessageStatusResolved — сообщение обработано.
	MessageStatusResolved MessageStatus = "resolved"
	// MessageStatusRejected — сообщение отклонено модерацией.
	MessageStatusRejected MessageStatus = "rejected"
)

// ParseMessageStatus проверяет строку статуса сообщения.
func ParseMessageStatus(s string) (MessageStatus, bool) {
	switch MessageStatus(s) {
	case MessageStatusNew, MessageStatusInProgress, MessageStatusResolved, MessageStatusRejected:
		return MessageStatus(s), true
	}
	return "", false
}

// Message — сообщение обратной связи, отправленное компании.
//
// Отправитель анонимен: контакт указывается по желанию и используется
// только для ответного письма.
type Message struct {
	ID            string        `json:"id"`
	CompanyID     int           `json:"company_id"`
	Text          string        `json:"text"`
	SenderContact string        `json:"sender_contact,omitempty"` // Почта отправителя, опционально
	Status        MessageStatus `json:"status"`
	Reply         *string       `json:"reply,omitempty"`
	RepliedAt     *time.Time    `json:"replied_at,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}

// DummyMessage используется для приёма данных из JSON-запроса,
// прежде чем конвертировать их в Message.
type DummyMessage struct {
	CompanyCode   string `json:"company_code" validate:"required"`          // Код компании-получателя
	Text          string `json:"text" validate:"required,min=3,max=4000"`   // Текст сообщения
	SenderContact string `json:"sender_contact" validate:"omitempty,email"` // Контакт для ответа
}

// MessageEvent — событие о новом сообщении для очереди уведомлений.
type MessageEvent struct {
	MessageID    string    `json:"message_id"`
	CompanyID    int       `json:"company_id"`
	CompanyEmail string    `json:"company_email"`
	CompanyName  string    `json:"company_name"`
	Text         string    `json:"text"`
	CreatedAt    time.Time `json:"created_at"`
}
