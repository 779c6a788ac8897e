package rabbitmq

import (
	"github.com/streadway/amqp"

	"github.com/feedbackhub/backend/internal/models"
)

// Notifier публикует доменные события обратной связи в RabbitMQ.
type Notifier struct {
	ch *amqp.Channel
}

// NewNotifier создает новый Notifier поверх открытого канала.
func NewNotifier(ch *amqp.Channel) *Notifier {
	return &Notifier{ch: ch}
}

// PublishMessageCreated публикует событие "новое сообщение".
func (n *Notifier) PublishMessageCreated(event models.MessageEvent) error {
	return PublishMessage(n.ch, Exchange, RoutingKeyMessageCreated, event)
}
