package sale

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/sale"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrCommitInProgress is returned when another request holding the same
// idempotency key has not finished yet.
var ErrCommitInProgress = shared.NewDomainError("COMMIT_IN_PROGRESS", "A commit with this idempotency key is still running")

// CommitReplayStore remembers which sale an idempotency key produced so a
// retried request does not commit twice.
type CommitReplayStore interface {
	// Reserve claims key. When the key already resolved to a sale it returns
	// that id with reserved=false; a key claimed but not completed returns
	// (0, false, nil).
	Reserve(ctx context.Context, key string, ttl time.Duration) (saleID int64, reserved bool, err error)
	// Complete records the sale produced for a reserved key
	Complete(ctx context.Context, key string, saleID int64, ttl time.Duration) error
	// Release drops a reservation after a failed commit
	Release(ctx context.Context, key string) error
}

// CoordinatorConfig tunes the commit unit of work.
type CoordinatorConfig struct {
	// CommitTimeout bounds the whole unit of work, lock waits included
	CommitTimeout time.Duration
	// ReplayTTL is how long an idempotency key is remembered
	ReplayTTL time.Duration
}

// DefaultCoordinatorConfig returns the defaults used by the server
func DefaultCoordinatorConfig() CoordinatorConfig {
	return CoordinatorConfig{
		CommitTimeout: 10 * time.Second,
		ReplayTTL:     24 * time.Hour,
	}
}

// Coordinator turns a cart into a committed sale. The sale header, its line
// items and the stock decrements are written in one unit of work.
type Coordinator struct {
	scope   TransactionScope
	ledger  sale.Ledger
	replay  CommitReplayStore
	metrics *telemetry.SaleMetrics
	config  CoordinatorConfig
	now     func() time.Time
	logger  *zap.Logger
}

// NewCoordinator creates a Coordinator. ledger is used outside the unit of
// work to answer replayed commits.
func NewCoordinator(scope TransactionScope, ledger sale.Ledger, config CoordinatorConfig, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	defaults := DefaultCoordinatorConfig()
	if config.CommitTimeout <= 0 {
		config.CommitTimeout = defaults.CommitTimeout
	}
	if config.ReplayTTL <= 0 {
		config.ReplayTTL = defaults.ReplayTTL
	}
	return &Coordinator{
		scope:  scope,
		ledger: ledger,
		config: config,
		now:    time.Now,
		logger: logger.Named("sale_coordinator"),
	}
}

// SetReplayStore enables idempotency-key handling in CommitWithKey
func (c *Coordinator) SetReplayStore(store CommitReplayStore) {
	c.replay = store
}

// SetSaleMetrics sets the metrics recorder (optional)
func (c *Coordinator) SetSaleMetrics(m *telemetry.SaleMetrics) {
	c.metrics = m
}

// SetClock overrides the time source used for sale timestamps
func (c *Coordinator) SetClock(now func() time.Time) {
	c.now = now
}

// Commit validates the cart and, in one unit of work, prices every line at
// the current catalog price, inserts the sale and its line items, and
// decrements stock. Any error leaves the store unchanged.
func (c *Coordinator) Commit(ctx context.Context, in CommitInput) (*CommitResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "sale", "Commit")
	defer span.End()
	start := time.Now()

	result, err := c.commit(ctx, in)

	outcome := commitOutcome(err)
	if c.metrics != nil {
		c.metrics.RecordCommit(ctx, outcome, time.Since(start), result.totalOrZero())
	}
	if err != nil {
		telemetry.RecordError(span, err)
		c.logCommitFailure(in, outcome, err)
		return nil, err
	}
	telemetry.SetAttributes(span, "sale.id", result.SaleID, "sale.lines", result.LineCount)
	telemetry.SetOK(span)

	c.logger.Info("Sale committed",
		zap.Int64("sale_id", result.SaleID),
		zap.String("vendor", in.Vendor),
		zap.String("total", result.Total.StringFixed(2)),
		zap.Int("lines", result.LineCount),
	)
	return result, nil
}

func (c *Coordinator) commit(ctx context.Context, in CommitInput) (*CommitResult, error) {
	// Shape checks happen before any store access.
	if err := sale.ValidateCart(in.Lines); err != nil {
		return nil, err
	}
	if err := sale.ValidateVendor(in.Vendor); err != nil {
		return nil, err
	}
	if in.ClientID != nil && *in.ClientID <= 0 {
		return nil, sale.NewValidationError("client_id", "client id must be positive")
	}
	lines := sale.MergeCart(in.Lines)

	// The unit of work is detached from caller cancellation: once started it
	// either commits or rolls back, bounded only by CommitTimeout.
	txCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.config.CommitTimeout)
	defer cancel()

	var result *CommitResult
	err := c.scope.Execute(txCtx, func(repos TransactionalRepositories) error {
		if in.ClientID != nil {
			if _, err := repos.Parties().ClientByID(txCtx, *in.ClientID); err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return sale.NewValidationError("client_id", fmt.Sprintf("client %d does not exist", *in.ClientID))
				}
				return err
			}
		}

		priced, err := priceLines(txCtx, repos.Products(), lines)
		if err != nil {
			return err
		}

		s, err := sale.NewSale(in.ClientID, in.Vendor, priced, c.now())
		if err != nil {
			return err
		}
		if _, err := repos.Ledger().InsertSale(txCtx, s); err != nil {
			return err
		}
		for _, line := range priced {
			item := s.LineItemFor(line)
			if _, err := repos.Ledger().InsertLineItem(txCtx, &item); err != nil {
				return err
			}
		}

		// Decrement in product id order so concurrent commits over the same
		// products take row locks in the same order.
		byProduct := make([]sale.PricedLine, len(priced))
		copy(byProduct, priced)
		sort.Slice(byProduct, func(i, j int) bool { return byProduct[i].ProductID < byProduct[j].ProductID })
		for _, line := range byProduct {
			if err := repos.Products().AdjustStock(txCtx, line.ProductID, -line.Quantity); err != nil {
				return err
			}
		}

		result = &CommitResult{
			SaleID:    s.ID,
			Total:     s.Total,
			CreatedAt: s.CreatedAt,
			LineCount: len(priced),
		}
		return nil
	})
	if err != nil {
		return nil, classifyCommitError(txCtx, err)
	}
	return result, nil
}

// priceLines reads every product, checks its stock and captures its price.
func priceLines(ctx context.Context, products catalog.ProductCatalog, lines []sale.CartLine) ([]sale.PricedLine, error) {
	priced := make([]sale.PricedLine, 0, len(lines))
	for i, line := range lines {
		p, err := products.GetByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, sale.NewValidationError(
					fmt.Sprintf("lines[%d].product_id", i),
					fmt.Sprintf("product %d does not exist", line.ProductID),
				)
			}
			return nil, err
		}
		if !p.CanSupply(line.Quantity) {
			return nil, &sale.InsufficientStockError{ProductID: p.ID, Requested: line.Quantity}
		}
		priced = append(priced, sale.PricedLine{
			ProductID: p.ID,
			Quantity:  line.Quantity,
			UnitPrice: p.Price,
		})
	}
	return priced, nil
}

// CommitWithKey commits at most once per idempotency key. A repeated key
// returns the sale produced by the first successful commit. An empty key
// behaves like Commit.
func (c *Coordinator) CommitWithKey(ctx context.Context, key string, in CommitInput) (*CommitResult, error) {
	if key == "" || c.replay == nil {
		return c.Commit(ctx, in)
	}
	// Reject malformed carts without consuming the key.
	if err := sale.ValidateCart(in.Lines); err != nil {
		return nil, err
	}

	existing, reserved, err := c.replay.Reserve(ctx, key, c.config.ReplayTTL)
	if err != nil {
		return nil, &sale.PersistenceError{Op: "reserve idempotency key", Retryable: true, Err: err}
	}
	if !reserved {
		if existing == 0 {
			return nil, ErrCommitInProgress
		}
		s, err := c.ledger.FindSaleByID(ctx, existing)
		if err != nil {
			return nil, err
		}
		c.logger.Info("Replayed sale commit", zap.String("idempotency_key", key), zap.Int64("sale_id", s.ID))
		return &CommitResult{SaleID: s.ID, Total: s.Total, CreatedAt: s.CreatedAt, Replayed: true}, nil
	}

	result, err := c.Commit(ctx, in)
	if err != nil {
		if relErr := c.replay.Release(context.WithoutCancel(ctx), key); relErr != nil {
			c.logger.Warn("Failed to release idempotency key", zap.String("idempotency_key", key), zap.Error(relErr))
		}
		return nil, err
	}
	if err := c.replay.Complete(context.WithoutCancel(ctx), key, result.SaleID, c.config.ReplayTTL); err != nil {
		// The sale is committed; only replay protection for this key is lost.
		c.logger.Warn("Failed to record idempotency key", zap.String("idempotency_key", key), zap.Error(err))
	}
	return result, nil
}

// classifyCommitError makes sure every failure leaving the unit of work is
// one of the typed sale errors.
func classifyCommitError(ctx context.Context, err error) error {
	var (
		ve *sale.ValidationError
		se *sale.InsufficientStockError
		pe *sale.PersistenceError
	)
	switch {
	case errors.As(err, &ve), errors.As(err, &se), errors.As(err, &pe):
		return err
	case errors.Is(err, context.DeadlineExceeded), ctx.Err() != nil:
		return &sale.PersistenceError{Op: "commit sale", Retryable: true, Err: err}
	default:
		return &sale.PersistenceError{Op: "commit sale", Err: err}
	}
}

func commitOutcome(err error) string {
	var se *sale.InsufficientStockError
	var ve *sale.ValidationError
	switch {
	case err == nil:
		return telemetry.CommitOutcomeSuccess
	case errors.As(err, &ve):
		return telemetry.CommitOutcomeRejected
	case errors.As(err, &se):
		return telemetry.CommitOutcomeInsufficientStock
	case sale.IsRetryable(err):
		return telemetry.CommitOutcomeRetryable
	default:
		return telemetry.CommitOutcomeFailed
	}
}

func (c *Coordinator) logCommitFailure(in CommitInput, outcome string, err error) {
	fields := []zap.Field{
		zap.String("outcome", outcome),
		zap.String("vendor", in.Vendor),
		zap.Int("lines", len(in.Lines)),
		zap.Error(err),
	}
	switch outcome {
	case telemetry.CommitOutcomeFailed:
		c.logger.Error("Sale commit failed", fields...)
	case telemetry.CommitOutcomeRetryable:
		c.logger.Warn("Sale commit failed, retryable", fields...)
	default:
		c.logger.Info("Sale commit rejected", fields...)
	}
}

func (r *CommitResult) totalOrZero() decimal.Decimal {
	if r == nil {
		return decimal.Zero
	}
	return r.Total
}
