package rabbitmq

// QueueConfig описывает очередь и ключ маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// Exchange — обменник событий обратной связи.
const Exchange = "feedback"

// RoutingKeyMessageCreated — ключ маршрутизации события "новое сообщение".
const RoutingKeyMessageCreated = "message.created"

// GetNotificationQueues возвращает очереди уведомлений для воркера-отправителя.
func GetNotificationQueues(notificationQueue string) []QueueConfig {
	return []QueueConfig{
		{QueueName: notificationQueue, RoutingKey: RoutingKeyMessageCreated},
	}
}
