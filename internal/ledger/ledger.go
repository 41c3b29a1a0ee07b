package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/amoylab/lokal/internal/common/cnst"
	"github.com/amoylab/lokal/internal/database"
	"github.com/amoylab/lokal/internal/profile"
	"github.com/amoylab/lokal/pkg/metrics"
)

// ErrDealNotFound is returned when the redeemed deal does not exist
var ErrDealNotFound = errors.New("deal not found")

var basketValue = decimal.NewFromInt(cnst.AssumedBasketValue)

// Receipt describes one committed redemption
type Receipt struct {
	RedemptionID  string          `json:"redemption_id"`
	UsageID       string          `json:"usage_id"`
	DealID        string          `json:"deal_id"`
	PointsAwarded int             `json:"points_awarded"`
	CommissionDue decimal.Decimal `json:"commission_due"`
	RedeemedAt    time.Time       `json:"redeemed_at"`
}

// Ledger records deal redemptions together with their commission and points
type Ledger struct {
	db      database.Database
	logger  *zap.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

func New(db database.Database, logger *zap.Logger, m *metrics.Metrics) *Ledger {
	return &Ledger{
		db:      db,
		logger:  logger.Named("ledger"),
		metrics: m,
		now:     time.Now,
	}
}

// CommissionDue is the commission owed on one redemption at the given
// percentage of the assumed basket value.
func CommissionDue(percentage decimal.Decimal) decimal.Decimal {
	return percentage.Mul(basketValue).Div(decimal.NewFromInt(100))
}

// RedeemDeal writes the usage row, the redemption and the points increment in
// one transaction. A missing deal fails before anything is written. The same
// deal may be redeemed repeatedly and earns points every time. A user without
// a profile row keeps the redemption but is awarded no points.
func (l *Ledger) RedeemDeal(ctx context.Context, id profile.Identity, dealID string) (*Receipt, error) {
	deal, err := l.db.GetDeal(ctx, dealID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrDealNotFound
		}
		return nil, fmt.Errorf("failed to load deal: %w", err)
	}

	commission := decimal.Zero
	contract, err := l.db.GetActiveContract(ctx, deal.BusinessID)
	switch {
	case err == nil:
		commission = CommissionDue(contract.CommissionPercentage)
	case !errors.Is(err, database.ErrNotFound):
		return nil, fmt.Errorf("failed to load contract: %w", err)
	}

	receipt := &Receipt{
		DealID:        deal.ID,
		PointsAwarded: cnst.PointsPerRedemption,
		CommissionDue: commission,
		RedeemedAt:    l.now(),
	}
	err = l.db.Transaction(ctx, func(ctx context.Context) error {
		usage := &database.ConsumerUsage{
			DealID:        deal.ID,
			BusinessID:    deal.BusinessID,
			UserID:        id.UserID,
			DealSnapshot:  fmt.Sprintf("%s - %s", deal.Title, deal.Discount),
			ConsumerEmail: id.Email,
			RedeemedAt:    receipt.RedeemedAt,
			CommissionDue: commission,
		}
		if err := l.db.CreateUsage(ctx, usage); err != nil {
			return fmt.Errorf("usage: %w", err)
		}
		receipt.UsageID = usage.ID

		redemption := &database.Redemption{UserID: id.UserID, DealID: deal.ID}
		if err := l.db.CreateRedemption(ctx, redemption); err != nil {
			return fmt.Errorf("redemption: %w", err)
		}
		receipt.RedemptionID = redemption.ID

		err := l.db.AddPoints(ctx, id.UserID, cnst.PointsPerRedemption)
		switch {
		case err == nil:
		case errors.Is(err, database.ErrNotFound):
			l.logger.Warn("profile missing, no points awarded",
				zap.String("user_id", id.UserID),
				zap.String("deal_id", deal.ID))
			receipt.PointsAwarded = 0
		default:
			return fmt.Errorf("points: %w", err)
		}
		return nil
	})
	if err != nil {
		l.logger.Error("redemption rolled back",
			zap.String("deal_id", dealID),
			zap.String("user_id", id.UserID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to redeem deal: %w", err)
	}

	due, _ := commission.Float64()
	l.metrics.Redeemed(due)
	l.logger.Info("deal redeemed",
		zap.String("deal_id", deal.ID),
		zap.String("user_id", id.UserID),
		zap.String("commission_due", commission.StringFixed(2)))
	return receipt, nil
}

// RedemptionCount returns how many times the user redeemed any deal
func (l *Ledger) RedemptionCount(ctx context.Context, userID string) (int64, error) {
	n, err := l.db.CountRedemptions(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count redemptions: %w", err)
	}
	return n, nil
}
