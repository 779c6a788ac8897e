package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/feedbackhub/backend/internal/models"
)

// CreateMessage сохраняет новое сообщение обратной связи и возвращает его ID.
func (s *Storage) CreateMessage(ctx context.Context, msg models.Message) (string, error) {
	const op = "storage.CreateMessage"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID string
	query := `INSERT INTO messages (company_id, text, sender_contact, status)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		msg.CompanyID, msg.Text, msg.SenderContact, msg.Status).Scan(&newID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetMessage возвращает сообщение по его ID.
func (s *Storage) GetMessage(ctx context.Context, id string) (*models.Message, error) {
	const op = "storage.GetMessage"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, company_id, text, sender_contact, status, reply, replied_at, created_at
			  FROM messages
			  WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)
	m, err := scanMessageRow(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return m, nil
}

// ListMessages возвращает сообщения компании с пагинацией, новые первыми.
func (s *Storage) ListMessages(ctx context.Context, companyID, limit, offset int) ([]*models.Message, error) {
	const op = "storage.ListMessages"
	query := `SELECT id, company_id, text, sender_contact, status, reply, replied_at, created_at
			  FROM messages
			  WHERE company_id = $1
			  ORDER BY created_at DESC
			  LIMIT $2 OFFSET $3`
	return s.listMessages(ctx, op, query, companyID, limit, offset)
}

// ListAllMessages возвращает сообщения всех компаний (для модерации).
func (s *Storage) ListAllMessages(ctx context.Context, limit, offset int) ([]*models.Message, error) {
	const op = "storage.ListAllMessages"
	query := `SELECT id, company_id, text, sender_contact, status, reply, replied_at, created_at
			  FROM messages
			  ORDER BY created_at DESC
			  LIMIT $1 OFFSET $2`
	return s.listMessages(ctx, op, query, limit, offset)
}

// UpdateMessageStatus обновляет статус обработки сообщения.
func (s *Storage) UpdateMessageStatus(ctx context.Context, id string, status models.MessageStatus) error {
	const op = "storage.UpdateMessageStatus"
	query := `UPDATE messages SET status = $1 WHERE id = $2`
	res, err := s.DB.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// SetMessageReply сохраняет ответ компании на сообщение.
func (s *Storage) SetMessageReply(ctx context.Context, id, reply string, at time.Time) error {
	const op = "storage.SetMessageReply"
	query := `UPDATE messages SET reply = $1, replied_at = $2 WHERE id = $3`
	res, err := s.DB.ExecContext(ctx, query, reply, at, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// RemoveMessage удаляет сообщение (модерация) и возвращает число удаленных записей.
func (s *Storage) RemoveMessage(ctx context.Context, id string) (int, error) {
	const op = "storage.RemoveMessage"
	query := `DELETE FROM messages WHERE id = $1`
	res, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(n), nil
}

// CountMessagesByStatus возвращает счетчики сообщений компании по статусам.
func (s *Storage) CountMessagesByStatus(ctx context.Context, companyID int) (map[models.MessageStatus]int, error) {
	const op = "storage.CountMessagesByStatus"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT status, COUNT(*)
			  FROM messages
			  WHERE company_id = $1
			  GROUP BY status`
	rows, err := s.DB.QueryContext(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make(map[models.MessageStatus]int)
	for rows.Next() {
		var status string
		var count int
		if err = rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result[models.MessageStatus(status)] = count
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CountMessagesByDay возвращает число сообщений компании по дням за период
// (расширенная аналитика).
func (s *Storage) CountMessagesByDay(ctx context.Context, companyID int, since time.Time) (map[string]int, error) {
	const op = "storage.CountMessagesByDay"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT created_at::DATE, COUNT(*)
			  FROM messages
			  WHERE company_id = $1 AND created_at >= $2
			  GROUP BY created_at::DATE
			  ORDER BY created_at::DATE`
	rows, err := s.DB.QueryContext(ctx, query, companyID, since)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make(map[string]int)
	for rows.Next() {
		var day time.Time
		var count int
		if err = rows.Scan(&day, &count); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result[day.Format("2006-01-02")] = count
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

func (s *Storage) listMessages(ctx context.Context, op, query string, args ...any) ([]*models.Message, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Message
	for rows.Next() {
		m, err := scanMessageRow(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

func scanMessageRow(scan func(dest ...any) error) (*models.Message, error) {
	m := &models.Message{}
	var status string
	var senderContact, reply sql.NullString
	var repliedAt sql.NullTime
	if err := scan(&m.ID, &m.CompanyID, &m.Text, &senderContact, &status,
		&reply, &repliedAt, &m.CreatedAt); err != nil {
		return nil, err
	}
	m.Status = models.MessageStatus(status)
	m.SenderContact = senderContact.String
	if reply.Valid {
		m.Reply = &reply.String
	}
	if repliedAt.Valid {
		m.RepliedAt = &repliedAt.Time
	}
	return m, nil
}
