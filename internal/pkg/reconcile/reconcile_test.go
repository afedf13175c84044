package reconcile

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sochai/sochai-web/app/models"
	"github.com/sochai/sochai-web/internal/pkg/database"
)

func exercise(t *testing.T, l Ledger) {
	ctx := context.Background()
	row := &models.PaymentReconciliation{PlanID: "monthly", APIPlanID: "pro", PaymentID: "pay_1", OrderID: "order_1", FailureReason: "status 500"}
	require.NoError(t, l.Record(ctx, row))
	require.NoError(t, l.Record(ctx, &models.PaymentReconciliation{PlanID: "monthly", APIPlanID: "pro", PaymentID: "pay_1", OrderID: "order_1"}))
	require.NoError(t, l.Record(ctx, &models.PaymentReconciliation{PlanID: "annual", APIPlanID: "enterprise", PaymentID: "pay_2", OrderID: "order_2"}))

	pending, err := l.ListPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "pay_1", pending[0].PaymentID)
	assert.Equal(t, "status 500", pending[0].FailureReason)

	require.NoError(t, l.MarkResolved(ctx, pending[0].ID))
	assert.ErrorIs(t, l.MarkResolved(ctx, pending[0].ID), ErrNotFound)

	pending, err = l.ListPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "pay_2", pending[0].PaymentID)
}

func TestMemoryLedger(t *testing.T) {
	exercise(t, NewMemoryLedger())
}

func TestStoreAgainstMySQL(t *testing.T) {
	dsn := os.Getenv("RECONCILE_TEST_DSN")
	if dsn == "" {
		t.Skip("Skipping integration test that requires a MySQL database (set RECONCILE_TEST_DSN)")
	}
	db, err := database.Open(dsn)
	require.NoError(t, err)
	require.NoError(t, db.Migrator().DropTable(&models.PaymentReconciliation{}))
	require.NoError(t, db.AutoMigrate(&models.PaymentReconciliation{}))

	exercise(t, NewStore(db))
}
