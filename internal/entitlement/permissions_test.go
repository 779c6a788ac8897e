package entitlement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feedbackhub/backend/internal/models"
)

func TestPermissions_Free_ReadOnlyRegardlessOfTrial(t *testing.T) {
	for _, expired := range []bool{false, true} {
		got := Permissions(PlanFree, expired)
		assert.True(t, got.IsReadOnly, "expired=%v", expired)
		assert.False(t, got.CanReply)
		assert.False(t, got.CanChangeStatus)
		assert.False(t, got.CanViewBasicAnalytics)
	}
}

func TestPermissions_Standard(t *testing.T) {
	got := Permissions(PlanStandard, false)

	assert.True(t, got.CanReply)
	assert.True(t, got.CanChangeStatus)
	assert.True(t, got.CanViewBasicAnalytics)
	assert.True(t, got.CanViewGrowth)

	assert.False(t, got.CanViewExtendedAnalytics)
	assert.False(t, got.CanViewReports)
	assert.False(t, got.CanViewTeamMood)
	assert.False(t, got.IsReadOnly)
}

func TestPermissions_Pro_Everything(t *testing.T) {
	got := Permissions(PlanPro, false)

	assert.True(t, got.CanReply)
	assert.True(t, got.CanChangeStatus)
	assert.True(t, got.CanViewBasicAnalytics)
	assert.True(t, got.CanViewExtendedAnalytics)
	assert.True(t, got.CanViewReports)
	assert.True(t, got.CanViewGrowth)
	assert.True(t, got.CanViewTeamMood)
	assert.False(t, got.IsReadOnly)
}

func TestPermissions_UnknownPlanIsReadOnly(t *testing.T) {
	assert.Equal(t, ReadOnly(), Permissions("enterprise", false))
	assert.Equal(t, ReadOnly(), Permissions("", false))
}

func TestForCompany(t *testing.T) {
	catalog := testCatalog()

	t.Run("стандартный тариф разрешается вместе с записью каталога", func(t *testing.T) {
		company := &models.Company{Plan: "Стандарт"}
		perms, plan := ForCompany(company, catalog, false)

		assert.True(t, perms.CanReply)
		require.NotNil(t, plan)
		assert.Equal(t, PlanStandard, plan.ID)
	})

	t.Run("пробный тариф дает read-only и запись free", func(t *testing.T) {
		company := &models.Company{Plan: "Пробный"}
		perms, plan := ForCompany(company, catalog, false)

		assert.True(t, perms.IsReadOnly)
		require.NotNil(t, plan)
		assert.Equal(t, PlanFree, plan.ID)
	})

	t.Run("нет компании — закрытый набор", func(t *testing.T) {
		perms, plan := ForCompany(nil, catalog, false)
		assert.Equal(t, ReadOnly(), perms)
		assert.Nil(t, plan)
	})

	t.Run("пустой каталог — закрытый набор", func(t *testing.T) {
		perms, plan := ForCompany(&models.Company{Plan: "Стандарт"}, nil, false)
		assert.Equal(t, ReadOnly(), perms)
		assert.Nil(t, plan)
	})

	t.Run("неразрешенный тариф — закрытый набор", func(t *testing.T) {
		perms, plan := ForCompany(&models.Company{Plan: "Enterprise"}, catalog, false)
		assert.Equal(t, ReadOnly(), perms)
		assert.Nil(t, plan)
	})
}
