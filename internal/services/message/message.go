// Package services содержит бизнес-логику сообщений обратной связи:
// анонимная отправка по коду компании, триаж компанией с проверкой прав
// текущего тарифа и модерация администратором.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/feedbackhub/backend/internal/models"
	"github.com/feedbackhub/backend/internal/storage/repository"
)

// ErrReadOnly возвращается, когда тариф компании не дает право на операцию.
var ErrReadOnly = errors.New("plan is read-only")

// ErrCompanyBlocked возвращается при отправке сообщения заблокированной компании.
var ErrCompanyBlocked = errors.New("company is blocked")

// MessageRepository определяет методы для работы с сообщениями в хранилище.
type MessageRepository interface {
	CreateMessage(ctx context.Context, msg models.Message) (string, error)
	GetMessage(ctx context.Context, id string) (*models.Message, error)
	ListMessages(ctx context.Context, companyID, limit, offset int) ([]*models.Message, error)
	ListAllMessages(ctx context.Context, limit, offset int) ([]*models.Message, error)
	UpdateMessageStatus(ctx context.Context, id string, status models.MessageStatus) error
	SetMessageReply(ctx context.Context, id, reply string, at time.Time) error
	RemoveMessage(ctx context.Context, id string) (int, error)
	CountMessagesByStatus(ctx context.Context, companyID int) (map[models.MessageStatus]int, error)
	CountMessagesByDay(ctx context.Context, companyID int, since time.Time) (map[string]int, error)
}

// Companies отдает компании и их права доступа.
type Companies interface {
	GetByCode(ctx context.Context, code string) (*models.Company, error)
	Permissions(ctx context.Context, companyID int) (models.PermissionSet, *models.Plan)
}

// EventPublisher публикует событие о новом сообщении для воркера уведомлений.
type EventPublisher interface {
	PublishMessageCreated(event models.MessageEvent) error
}

// MessageService реализует бизнес-логику работы с сообщениями.
type MessageService struct {
	repo      MessageRepository
	companies Companies
	events    EventPublisher
	log       *slog.Logger
}

// NewMessageService создает новый экземпляр MessageService.
func NewMessageService(repo MessageRepository, companies Companies, events EventPublisher, log *slog.Logger) *MessageService {
	return &MessageService{
		repo:      repo,
		companies: companies,
		events:    events,
		log:       log,
	}
}

// Create принимает анонимное сообщение по коду компании и возвращает его ID.
//
// После сохранения публикуется событие для почтового уведомления компании;
// сбой публикации не откатывает сообщение.
func (s *MessageService) Create(ctx context.Context, req models.DummyMessage) (string, error) {
	const op = "message.Create"

	company, err := s.companies.GetByCode(ctx, req.CompanyCode)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if company.IsBlocked() {
		return "", ErrCompanyBlocked
	}

	msg := models.Message{
		CompanyID:     company.ID,
		Text:          req.Text,
		SenderContact: req.SenderContact,
		Status:        models.MessageStatusNew,
	}
	id, err := s.repo.CreateMessage(ctx, msg)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("created new message", slog.String("id", id), slog.Int("company_id", company.ID))

	if s.events != nil {
		event := models.MessageEvent{
			MessageID:    id,
			CompanyID:    company.ID,
			CompanyEmail: company.Email,
			CompanyName:  company.Name,
			Text:         req.Text,
			CreatedAt:    time.Now().UTC(),
		}
		if err := s.events.PublishMessageCreated(event); err != nil {
			s.log.Warn("failed to publish message event", slog.String("id", id), slog.Any("err", err))
		}
	}
	return id, nil
}

// List возвращает сообщения компании с пагинацией.
func (s *MessageService) List(ctx context.Context, companyID, limit, offset int) ([]*models.Message, error) {
	return s.repo.ListMessages(ctx, companyID, limit, offset)
}

// ListAll возвращает сообщения всех компаний (модерация).
func (s *MessageService) ListAll(ctx context.Context, limit, offset int) ([]*models.Message, error) {
	return s.repo.ListAllMessages(ctx, limit, offset)
}

// Reply сохраняет ответ компании на сообщение.
//
// Операция требует права CanReply текущего тарифа.
func (s *MessageService) Reply(ctx context.Context, companyID int, messageID, reply string) error {
	const op = "message.Reply"

	perms, _ := s.companies.Permissions(ctx, companyID)
	if !perms.CanReply {
		return ErrReadOnly
	}

	msg, err := s.repo.GetMessage(ctx, messageID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if msg.CompanyID != companyID {
		// Чужое сообщение неотличимо от несуществующего.
		return fmt.Errorf("%s: %w", op, repository.ErrNotFound)
	}

	if err := s.repo.SetMessageReply(ctx, messageID, reply, time.Now().UTC()); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("message replied", slog.String("id", messageID))
	return nil
}

// UpdateStatus меняет статус обработки сообщения.
//
// Операция требует права CanChangeStatus текущего тарифа.
func (s *MessageService) UpdateStatus(ctx context.Context, companyID int, messageID string, status models.MessageStatus) error {
	const op = "message.UpdateStatus"

	perms, _ := s.companies.Permissions(ctx, companyID)
	if !perms.CanChangeStatus {
		return ErrReadOnly
	}

	msg, err := s.repo.GetMessage(ctx, messageID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if msg.CompanyID != companyID {
		return fmt.Errorf("%s: %w", op, repository.ErrNotFound)
	}

	if err := s.repo.UpdateMessageStatus(ctx, messageID, status); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Remove удаляет сообщение (модерация администратором).
func (s *MessageService) Remove(ctx context.Context, messageID string) (int, error) {
	return s.repo.RemoveMessage(ctx, messageID)
}

// Stats возвращает базовую аналитику компании: счетчики по статусам.
func (s *MessageService) Stats(ctx context.Context, companyID int) (map[models.MessageStatus]int, error) {
	return s.repo.CountMessagesByStatus(ctx, companyID)
}

// StatsByDay возвращает расширенную аналитику: сообщения по дням за период.
func (s *MessageService) StatsByDay(ctx context.Context, companyID int, days int) (map[string]int, error) {
	since := time.Now().UTC().AddDate(0, 0, -days)
	return s.repo.CountMessagesByDay(ctx, companyID, since)
}
