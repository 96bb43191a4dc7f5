package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/bwmarrin/snowflake"
	"github.com/dev-arif67/restro-saas-sub000/internal/clock"
	"github.com/dev-arif67/restro-saas-sub000/internal/config"
	invoicedomain "github.com/dev-arif67/restro-saas-sub000/internal/invoice/domain"
	"github.com/dev-arif67/restro-saas-sub000/pkg/db"
	"github.com/dev-arif67/restro-saas-sub000/pkg/db/dbtest"
	"github.com/sourcegraph/conc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestSequencer(t *testing.T, now time.Time, tz string) (*gorm.DB, invoicedomain.Sequencer) {
	t.Helper()
	conn := dbtest.Open(t, &invoicedomain.InvoiceCounter{})
	seq := NewSequencer(SequencerParam{
		DB:     conn,
		Log:    zap.NewNop(),
		Clock:  clock.NewFakeClock(now),
		Config: config.Config{BusinessTimezone: tz},
	})
	return conn, seq
}

func generate(t *testing.T, conn *gorm.DB, seq invoicedomain.Sequencer, tenantID snowflake.ID) invoicedomain.InvoiceNumber {
	t.Helper()
	var out invoicedomain.InvoiceNumber
	err := db.RunInTx(context.Background(), conn, func(tx *db.Tx) error {
		var err error
		out, err = seq.Generate(context.Background(), tx, tenantID)
		return err
	})
	require.NoError(t, err)
	return out
}

var march = time.Date(2025, time.March, 14, 10, 0, 0, 0, time.UTC)

func TestGenerateRequiresTransaction(t *testing.T) {
	_, seq := newTestSequencer(t, march, "UTC")

	_, err := seq.Generate(context.Background(), nil, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, invoicedomain.ErrPrecondition)

	var precondition *invoicedomain.PreconditionError
	require.ErrorAs(t, err, &precondition)
	assert.Equal(t, "not in a transaction", precondition.Reason)
}

func TestGenerateRejectsInvalidTenant(t *testing.T) {
	conn, seq := newTestSequencer(t, march, "UTC")

	err := db.RunInTx(context.Background(), conn, func(tx *db.Tx) error {
		_, err := seq.Generate(context.Background(), tx, 0)
		return err
	})
	assert.ErrorIs(t, err, invoicedomain.ErrInvalidTenant)
}

func TestGenerateCreatesCounterLazilyAndIncrements(t *testing.T) {
	conn, seq := newTestSequencer(t, march, "UTC")

	peek, err := seq.Peek(context.Background(), 5)
	require.NoError(t, err)
	assert.Zero(t, peek)

	first := generate(t, conn, seq, 5)
	assert.Equal(t, "INV-5-202503-000001", first.Formatted)
	assert.Equal(t, int64(1), first.Sequence)
	assert.Equal(t, "202503", first.Period)
	assert.Equal(t, snowflake.ID(5), first.TenantID)

	second := generate(t, conn, seq, 5)
	assert.Equal(t, "INV-5-202503-000002", second.Formatted)

	peek, err = seq.Peek(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(2), peek)
}

func TestGenerateIsolatesTenants(t *testing.T) {
	conn, seq := newTestSequencer(t, march, "UTC")

	for i := 0; i < 3; i++ {
		generate(t, conn, seq, 1)
	}
	other := generate(t, conn, seq, 2)
	assert.Equal(t, int64(1), other.Sequence)
	assert.Equal(t, "INV-2-202503-000001", other.Formatted)

	next := generate(t, conn, seq, 1)
	assert.Equal(t, int64(4), next.Sequence)
}

func TestGenerateRollsBackWithTransaction(t *testing.T) {
	conn, seq := newTestSequencer(t, march, "UTC")
	generate(t, conn, seq, 9)

	errAbort := errors.New("order insert failed")
	err := db.RunInTx(context.Background(), conn, func(tx *db.Tx) error {
		n, err := seq.Generate(context.Background(), tx, 9)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n.Sequence)
		return errAbort
	})
	require.ErrorIs(t, err, errAbort)

	peek, err := seq.Peek(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, int64(1), peek)

	again := generate(t, conn, seq, 9)
	assert.Equal(t, int64(2), again.Sequence)
}

func TestGenerateRollbackOfFirstInvoiceRemovesCounter(t *testing.T) {
	conn, seq := newTestSequencer(t, march, "UTC")

	_ = db.RunInTx(context.Background(), conn, func(tx *db.Tx) error {
		_, err := seq.Generate(context.Background(), tx, 4)
		require.NoError(t, err)
		return errors.New("abort")
	})

	var count int64
	require.NoError(t, conn.Model(&invoicedomain.InvoiceCounter{}).Where("tenant_id = ?", 4).Count(&count).Error)
	assert.Zero(t, count)

	assert.Equal(t, int64(1), generate(t, conn, seq, 4).Sequence)
}

func TestGenerateConcurrentCallsAreUniqueAndGapless(t *testing.T) {
	conn, seq := newTestSequencer(t, march, "UTC")
	const calls = 50

	var (
		mu     sync.Mutex
		got    []int64
		failed []error
	)
	var wg conc.WaitGroup
	for i := 0; i < calls; i++ {
		wg.Go(func() {
			var n invoicedomain.InvoiceNumber
			err := db.RunInTx(context.Background(), conn, func(tx *db.Tx) error {
				var err error
				n, err = seq.Generate(context.Background(), tx, 77)
				return err
			})
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed = append(failed, err)
				return
			}
			got = append(got, n.Sequence)
		})
	}
	wg.Wait()

	require.Empty(t, failed)
	require.Len(t, got, calls)
	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
	for i, v := range got {
		assert.Equal(t, int64(i+1), v)
	}

	peek, err := seq.Peek(context.Background(), 77)
	require.NoError(t, err)
	assert.Equal(t, int64(calls), peek)
}

func TestGenerateUsesBusinessTimezoneForPeriod(t *testing.T) {
	// 20:00 UTC on Jan 31 is already February in Dhaka (UTC+6).
	lateJanuary := time.Date(2025, time.January, 31, 20, 0, 0, 0, time.UTC)
	conn, seq := newTestSequencer(t, lateJanuary, "Asia/Dhaka")

	n := generate(t, conn, seq, 3)
	assert.Equal(t, "202502", n.Period)
	assert.Equal(t, "INV-3-202502-000001", n.Formatted)
}

func TestGenerateWidthGrowsPastSixDigits(t *testing.T) {
	conn, seq := newTestSequencer(t, march, "UTC")
	require.NoError(t, conn.Create(&invoicedomain.InvoiceCounter{
		TenantID:          8,
		LastInvoiceNumber: 999_999,
		CreatedAt:         march,
		UpdatedAt:         march,
	}).Error)

	n := generate(t, conn, seq, 8)
	assert.Equal(t, "INV-8-202503-1000000", n.Formatted)
}

func TestGenerateHonorsCanceledContext(t *testing.T) {
	conn, seq := newTestSequencer(t, march, "UTC")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := db.RunInTx(ctx, conn, func(tx *db.Tx) error {
		_, err := seq.Generate(ctx, tx, 1)
		return err
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
