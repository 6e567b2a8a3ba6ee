package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when no meter is supplied
var ErrMeterNil = errors.New("telemetry: meter is nil")

// Commit outcomes recorded on pos_sale_commits_total
const (
	CommitOutcomeSuccess           = "success"
	CommitOutcomeRejected          = "rejected"
	CommitOutcomeInsufficientStock = "insufficient_stock"
	CommitOutcomeRetryable         = "retryable"
	CommitOutcomeFailed            = "failed"
)

// Render outcomes recorded on pos_receipt_renders_total
const (
	RenderOutcomeSuccess = "success"
	RenderOutcomeFailed  = "failed"
)

// SaleMetrics records sale commit and receipt render activity.
type SaleMetrics struct {
	commits        metric.Int64Counter
	commitDuration metric.Float64Histogram
	salesAmount    metric.Float64Counter
	renders        metric.Int64Counter
	renderDuration metric.Float64Histogram
}

// NewSaleMetrics registers the sale instruments on meter.
func NewSaleMetrics(meter metric.Meter) (*SaleMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	m := &SaleMetrics{}
	var err error

	if m.commits, err = meter.Int64Counter("pos_sale_commits_total",
		metric.WithDescription("Sale commit attempts by outcome"),
		metric.WithUnit("{commits}")); err != nil {
		return nil, err
	}
	if m.commitDuration, err = meter.Float64Histogram("pos_sale_commit_duration_seconds",
		metric.WithDescription("Sale commit latency including lock waits"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10)); err != nil {
		return nil, err
	}
	if m.salesAmount, err = meter.Float64Counter("pos_sales_amount_total",
		metric.WithDescription("Sum of committed sale totals"),
		metric.WithUnit("{currency}")); err != nil {
		return nil, err
	}
	if m.renders, err = meter.Int64Counter("pos_receipt_renders_total",
		metric.WithDescription("Receipt renders by outcome"),
		metric.WithUnit("{renders}")); err != nil {
		return nil, err
	}
	if m.renderDuration, err = meter.Float64Histogram("pos_receipt_render_duration_seconds",
		metric.WithDescription("Receipt render latency"),
		metric.WithUnit("s")); err != nil {
		return nil, err
	}
	return m, nil
}

// RecordCommit records one commit attempt. total is only added to the
// sales amount for successful commits.
func (m *SaleMetrics) RecordCommit(ctx context.Context, outcome string, d time.Duration, total decimal.Decimal) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	m.commits.Add(ctx, 1, attrs)
	m.commitDuration.Record(ctx, d.Seconds(), attrs)
	if outcome == CommitOutcomeSuccess {
		m.salesAmount.Add(ctx, total.InexactFloat64())
	}
}

// RecordRender records one receipt render
func (m *SaleMetrics) RecordRender(ctx context.Context, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	m.renders.Add(ctx, 1, attrs)
	m.renderDuration.Record(ctx, d.Seconds(), attrs)
}
