package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/feedbackhub/backend/internal/migrations"
	"github.com/feedbackhub/backend/internal/models"
)

func setupTestStorage(t *testing.T) *Storage {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForAll(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2),
				wait.ForListeningPort(nat.Port("5432/tcp")),
			).WithStartupTimeoutDefault(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := sql.Open("pgx", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	migrationsPath, err := filepath.Abs("../../../migrations")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(db, migrationsPath))

	return &Storage{DB: db}
}

func createTestCompany(t *testing.T, s *Storage, code, name string, status models.CompanyStatus) *models.Company {
	t.Helper()
	trialEnd := time.Now().UTC().AddDate(0, 0, 14)
	company := models.Company{
		Code:         code,
		Name:         name,
		Email:        code + "@example.com",
		Status:       status,
		Plan:         "Пробный",
		TrialEndDate: &trialEnd,
	}
	id, err := s.CreateCompany(context.Background(), company)
	require.NoError(t, err)
	company.ID = id
	return &company
}

func TestStorage_Companies(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()

	created := createTestCompany(t, s, "acme1", "Acme", models.CompanyStatusTrial)

	t.Run("получение по ID", func(t *testing.T) {
		got, err := s.GetCompany(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Acme", got.Name)
		assert.Equal(t, models.CompanyStatusTrial, got.Status)
		assert.Equal(t, "Пробный", got.Plan)
		require.NotNil(t, got.TrialEndDate)
	})

	t.Run("получение по коду", func(t *testing.T) {
		got, err := s.GetCompanyByCode(ctx, "acme1")
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
	})

	t.Run("несуществующая компания", func(t *testing.T) {
		_, err := s.GetCompany(ctx, 99999)
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = s.GetCompanyByCode(ctx, "no-such-code")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("публичный список исключает заблокированных", func(t *testing.T) {
		createTestCompany(t, s, "beta1", "Beta", models.CompanyStatusActive)
		blocked := createTestCompany(t, s, "gamma1", "Gamma", models.CompanyStatusActive)
		require.NoError(t, s.UpdateCompanyStatus(ctx, blocked.ID, models.CompanyStatusBlocked))

		list, err := s.ListPublicCompanies(ctx, 50, 0)
		require.NoError(t, err)

		codes := make([]string, 0, len(list))
		for _, c := range list {
			codes = append(codes, c.Code)
		}
		assert.Contains(t, codes, "acme1")
		assert.Contains(t, codes, "beta1")
		assert.NotContains(t, codes, "gamma1")
	})

	t.Run("смена статуса", func(t *testing.T) {
		require.NoError(t, s.UpdateCompanyStatus(ctx, created.ID, models.CompanyStatusBlocked))
		got, err := s.GetCompany(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, models.CompanyStatusBlocked, got.Status)

		err = s.UpdateCompanyStatus(ctx, 99999, models.CompanyStatusActive)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("смена тарифа активирует компанию", func(t *testing.T) {
		require.NoError(t, s.UpdateCompanyPlan(ctx, created.ID, "Стандарт", models.CompanyStatusActive))
		got, err := s.GetCompany(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Стандарт", got.Plan)
		assert.Equal(t, models.CompanyStatusActive, got.Status)

		err = s.UpdateCompanyPlan(ctx, 99999, "Про", models.CompanyStatusActive)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestStorage_Users(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()

	company := createTestCompany(t, s, "acme2", "Acme", models.CompanyStatusActive)

	user := models.User{
		Email:        "owner@acme.com",
		Username:     "acme_owner",
		PasswordHash: "hashed",
		Role:         models.RoleCompany,
		CompanyID:    &company.ID,
		Name:         "Acme",
	}
	uid, err := s.RegisterUser(ctx, user)
	require.NoError(t, err)
	require.NotEmpty(t, uid)

	t.Run("поиск по имени", func(t *testing.T) {
		got, err := s.GetUserByUsername(ctx, "acme_owner")
		require.NoError(t, err)
		assert.Equal(t, uid, got.UID)
		assert.Equal(t, models.RoleCompany, got.Role)
		require.NotNil(t, got.CompanyID)
		assert.Equal(t, company.ID, *got.CompanyID)
	})

	t.Run("поиск по почте", func(t *testing.T) {
		got, err := s.GetUserByEmail(ctx, "owner@acme.com")
		require.NoError(t, err)
		assert.Equal(t, uid, got.UID)
	})

	t.Run("поиск по UID", func(t *testing.T) {
		got, err := s.GetUser(ctx, uid)
		require.NoError(t, err)
		assert.Equal(t, "acme_owner", got.Username)
	})

	t.Run("несуществующий пользователь", func(t *testing.T) {
		_, err := s.GetUserByUsername(ctx, "ghost")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("отметка последнего входа", func(t *testing.T) {
		at := time.Now().UTC()
		require.NoError(t, s.TouchLastLogin(ctx, uid, at))

		got, err := s.GetUser(ctx, uid)
		require.NoError(t, err)
		require.NotNil(t, got.LastLoginAt)
		assert.WithinDuration(t, at, *got.LastLoginAt, time.Second)
	})
}

func TestStorage_Plans(t *testing.T) {
	s := setupTestStorage(t)

	plans, err := s.ListPlans(context.Background())
	require.NoError(t, err)
	require.Len(t, plans, 3)

	byID := map[string]models.Plan{}
	for _, p := range plans {
		byID[p.ID] = p
	}

	free, ok := byID["free"]
	require.True(t, ok)
	assert.True(t, free.IsFree)
	assert.Equal(t, "Бесплатный", free.NameLocalized.Ru)
	assert.Equal(t, "Тегін", free.NameLocalized.Kk)
	assert.Contains(t, free.Features, "view_messages")

	pro, ok := byID["pro"]
	require.True(t, ok)
	assert.False(t, pro.IsFree)
	assert.Contains(t, pro.Features, "extended_analytics")
	assert.Contains(t, pro.Features, "team_mood")
}

func TestStorage_Messages(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()

	company := createTestCompany(t, s, "acme3", "Acme", models.CompanyStatusActive)
	other := createTestCompany(t, s, "beta3", "Beta", models.CompanyStatusActive)

	newMessage := func(text string, companyID int) string {
		id, err := s.CreateMessage(ctx, models.Message{
			CompanyID:     companyID,
			Text:          text,
			SenderContact: "sender@example.com",
			Status:        models.MessageStatusNew,
		})
		require.NoError(t, err)
		return id
	}

	id1 := newMessage("первое сообщение", company.ID)
	id2 := newMessage("второе сообщение", company.ID)
	newMessage("чужое сообщение", other.ID)

	t.Run("чтение сообщения", func(t *testing.T) {
		got, err := s.GetMessage(ctx, id1)
		require.NoError(t, err)
		assert.Equal(t, "первое сообщение", got.Text)
		assert.Equal(t, models.MessageStatusNew, got.Status)
		assert.Nil(t, got.Reply)
	})

	t.Run("список по компании", func(t *testing.T) {
		list, err := s.ListMessages(ctx, company.ID, 50, 0)
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})

	t.Run("общий список", func(t *testing.T) {
		list, err := s.ListAllMessages(ctx, 50, 0)
		require.NoError(t, err)
		assert.Len(t, list, 3)
	})

	t.Run("смена статуса", func(t *testing.T) {
		require.NoError(t, s.UpdateMessageStatus(ctx, id1, models.MessageStatusInProgress))
		got, err := s.GetMessage(ctx, id1)
		require.NoError(t, err)
		assert.Equal(t, models.MessageStatusInProgress, got.Status)
	})

	t.Run("сохранение ответа", func(t *testing.T) {
		at := time.Now().UTC()
		require.NoError(t, s.SetMessageReply(ctx, id2, "спасибо, разбираемся", at))

		got, err := s.GetMessage(ctx, id2)
		require.NoError(t, err)
		require.NotNil(t, got.Reply)
		assert.Equal(t, "спасибо, разбираемся", *got.Reply)
		require.NotNil(t, got.RepliedAt)
	})

	t.Run("счетчики по статусам", func(t *testing.T) {
		counts, err := s.CountMessagesByStatus(ctx, company.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, counts[models.MessageStatusInProgress])
		assert.Equal(t, 1, counts[models.MessageStatusNew])
	})

	t.Run("счетчики по дням", func(t *testing.T) {
		since := time.Now().UTC().AddDate(0, 0, -7)
		byDay, err := s.CountMessagesByDay(ctx, company.ID, since)
		require.NoError(t, err)

		total := 0
		for _, n := range byDay {
			total += n
		}
		assert.Equal(t, 2, total)
	})

	t.Run("удаление", func(t *testing.T) {
		removed, err := s.RemoveMessage(ctx, id1)
		require.NoError(t, err)
		assert.Equal(t, 1, removed)

		_, err = s.GetMessage(ctx, id1)
		assert.ErrorIs(t, err, ErrNotFound)

		removed, err = s.RemoveMessage(ctx, id1)
		require.NoError(t, err)
		assert.Equal(t, 0, removed)
	})
}

func TestStorage_CheckDatabaseReady(t *testing.T) {
	s := setupTestStorage(t)
	assert.NoError(t, s.CheckDatabaseReady(context.Background()))
}
