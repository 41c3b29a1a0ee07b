package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/amoylab/lokal/internal/common/cnst"
	"github.com/amoylab/lokal/internal/common/config"
	"github.com/amoylab/lokal/internal/database"
	"github.com/amoylab/lokal/internal/profile"
	"github.com/amoylab/lokal/pkg/metrics"
)

type fixture struct {
	db     database.Database
	ledger *Ledger
	ctx    context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.NewDatabase(&config.DatabaseConfig{Type: "sqlite", DBName: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return &fixture{db: db, ledger: New(db, zap.NewNop(), nil), ctx: context.Background()}
}

func (f *fixture) business(t *testing.T, name string) *database.Business {
	b := &database.Business{Name: name, Category: string(cnst.CategoryFood), IsActive: true}
	require.NoError(t, f.db.CreateBusiness(f.ctx, b))
	return b
}

func (f *fixture) deal(t *testing.T, businessID string) *database.Deal {
	d := &database.Deal{BusinessID: businessID, Title: "Pizza", Discount: "BOGO", IsActive: true}
	require.NoError(t, f.db.CreateDeal(f.ctx, d))
	return d
}

func (f *fixture) user(t *testing.T, id string, points int) profile.Identity {
	require.NoError(t, f.db.CreateProfile(f.ctx, &database.Profile{ID: id, Email: id + "@mail.com", Role: string(cnst.RoleConsumer), Points: points}))
	return profile.Identity{UserID: id, Email: id + "@mail.com"}
}

func (f *fixture) points(t *testing.T, id string) int {
	p, err := f.db.GetProfile(f.ctx, id)
	require.NoError(t, err)
	return p.Points
}

func TestCommissionDue(t *testing.T) {
	assert.Equal(t, "2.00", CommissionDue(decimal.NewFromInt(5)).StringFixed(2))
	assert.Equal(t, "4.00", CommissionDue(decimal.NewFromInt(10)).StringFixed(2))
	assert.True(t, CommissionDue(decimal.Zero).IsZero())
	assert.Equal(t, "1.00", CommissionDue(decimal.RequireFromString("2.5")).StringFixed(2))
}

func TestRedeemDeal_WithoutContract(t *testing.T) {
	f := newFixture(t)
	b1 := f.business(t, "B1")
	d := f.deal(t, b1.ID)
	u1 := f.user(t, "u1", 0)

	receipt, err := f.ledger.RedeemDeal(f.ctx, u1, d.ID)
	require.NoError(t, err)
	assert.True(t, receipt.CommissionDue.IsZero())
	assert.Equal(t, cnst.PointsPerRedemption, receipt.PointsAwarded)
	assert.Equal(t, 50, f.points(t, "u1"))

	usage, err := f.db.ListUsage(f.ctx)
	require.NoError(t, err)
	require.Len(t, usage, 1)
	assert.Equal(t, "Pizza - BOGO", usage[0].DealSnapshot)
	assert.Equal(t, "u1@mail.com", usage[0].ConsumerEmail)
	assert.True(t, usage[0].CommissionDue.IsZero())
	assert.False(t, usage[0].AmountReceived.Valid)

	n, err := f.ledger.RedemptionCount(f.ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestRedeemDeal_WithContract(t *testing.T) {
	f := newFixture(t)
	b2 := f.business(t, "B2")
	d := f.deal(t, b2.ID)
	u := f.user(t, "u2", 10)
	require.NoError(t, f.db.CreateContract(f.ctx, &database.Contract{
		BusinessID:           b2.ID,
		CommissionPercentage: decimal.NewFromInt(10),
		Status:               cnst.ContractStatusActive,
	}))

	receipt, err := f.ledger.RedeemDeal(f.ctx, u, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "4.00", receipt.CommissionDue.StringFixed(2))

	usage, err := f.db.ListUsage(f.ctx)
	require.NoError(t, err)
	require.Len(t, usage, 1)
	assert.Equal(t, "4.00", usage[0].CommissionDue.StringFixed(2))
	assert.Equal(t, b2.ID, usage[0].BusinessID)
}

func TestRedeemDeal_RepeatAwardsEachTime(t *testing.T) {
	f := newFixture(t)
	d := f.deal(t, f.business(t, "B").ID)
	u := f.user(t, "u1", 0)

	for i := 0; i < 2; i++ {
		_, err := f.ledger.RedeemDeal(f.ctx, u, d.ID)
		require.NoError(t, err)
	}
	assert.Equal(t, 100, f.points(t, "u1"))

	n, err := f.ledger.RedemptionCount(f.ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestRedeemDeal_MissingDealHasNoSideEffects(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "u1", 0)

	_, err := f.ledger.RedeemDeal(f.ctx, u, "missing")
	assert.ErrorIs(t, err, ErrDealNotFound)

	usage, err := f.db.ListUsage(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, usage)
	assert.Zero(t, f.points(t, "u1"))
}

func TestRedeemDeal_WithoutProfileKeepsRedemption(t *testing.T) {
	f := newFixture(t)
	d := f.deal(t, f.business(t, "B").ID)

	receipt, err := f.ledger.RedeemDeal(f.ctx, profile.Identity{UserID: "ghost"}, d.ID)
	require.NoError(t, err)
	assert.Zero(t, receipt.PointsAwarded)
	assert.NotEmpty(t, receipt.UsageID)

	usage, err := f.db.ListUsage(f.ctx)
	require.NoError(t, err)
	assert.Len(t, usage, 1)
	n, err := f.ledger.RedemptionCount(f.ctx, "ghost")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

// brokenPoints fails every points increment after the inserts went through
type brokenPoints struct {
	database.Database
}

func (brokenPoints) AddPoints(context.Context, string, int) error {
	return errors.New("disk full")
}

func TestRedeemDeal_FailureRollsBack(t *testing.T) {
	f := newFixture(t)
	d := f.deal(t, f.business(t, "B").ID)
	u := f.user(t, "u1", 0)
	f.ledger = New(brokenPoints{f.db}, zap.NewNop(), nil)

	_, err := f.ledger.RedeemDeal(f.ctx, u, d.ID)
	require.Error(t, err)

	usage, err := f.db.ListUsage(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, usage)
	n, err := f.ledger.RedemptionCount(f.ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, f.points(t, "u1"))
}

func TestRedeemDeal_Metrics(t *testing.T) {
	f := newFixture(t)
	m := metrics.New(config.MetricsConfig{Enabled: true, Namespace: "test"})
	f.ledger = New(f.db, zap.NewNop(), m)
	d := f.deal(t, f.business(t, "B").ID)
	u := f.user(t, "u1", 0)

	_, err := f.ledger.RedeemDeal(f.ctx, u, d.ID)
	require.NoError(t, err)

	count, err := testutil.GatherAndCount(m.Registry(), "test_redemptions_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
