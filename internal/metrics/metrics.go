package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
)

// Metrics holds the business counters recorded by the checkout
// workflow. A nil *Metrics is valid and records nothing, so callers
// never need to branch on whether metrics are enabled.
type Metrics struct {
	OrdersPlaced      metric.Int64Counter
	OrdersCancelled   metric.Int64Counter
	Revenue           metric.Float64Counter
	CouponRedemptions metric.Int64Counter
	StockConflicts    metric.Int64Counter
}

// Init sets up an OTLP/HTTP meter provider and the application
// counters. Returns a shutdown func to flush on exit.
func Init(ctx context.Context, serviceName, endpoint string) (*Metrics, func(context.Context) error, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceName(serviceName)),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("create resource: %w", err)
	}

	exporter, err := otlpmetrichttp.New(ctx,
		otlpmetrichttp.WithEndpoint(endpoint),
		otlpmetrichttp.WithInsecure(),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("create otlp exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter,
			sdkmetric.WithInterval(15*time.Second))),
	)
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	m := &Metrics{}
	if m.OrdersPlaced, err = meter.Int64Counter("orders.placed",
		metric.WithDescription("Orders successfully placed")); err != nil {
		return nil, nil, err
	}
	if m.OrdersCancelled, err = meter.Int64Counter("orders.cancelled",
		metric.WithDescription("Orders cancelled")); err != nil {
		return nil, nil, err
	}
	if m.Revenue, err = meter.Float64Counter("orders.revenue",
		metric.WithDescription("Grand total of placed orders")); err != nil {
		return nil, nil, err
	}
	if m.CouponRedemptions, err = meter.Int64Counter("coupons.redemptions",
		metric.WithDescription("Successful coupon redemptions")); err != nil {
		return nil, nil, err
	}
	if m.StockConflicts, err = meter.Int64Counter("checkout.stock_conflicts",
		metric.WithDescription("Checkouts rejected for insufficient stock")); err != nil {
		return nil, nil, err
	}

	return m, provider.Shutdown, nil
}

// RecordOrderPlaced counts a placed order and its revenue.
func (m *Metrics) RecordOrderPlaced(ctx context.Context, total float64, paymentMethod string) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("payment.method", paymentMethod))
	m.OrdersPlaced.Add(ctx, 1, attrs)
	m.Revenue.Add(ctx, total, attrs)
}

// RecordOrderCancelled counts a cancellation.
func (m *Metrics) RecordOrderCancelled(ctx context.Context) {
	if m == nil {
		return
	}
	m.OrdersCancelled.Add(ctx, 1)
}

// RecordCouponRedemption counts a successful redemption.
func (m *Metrics) RecordCouponRedemption(ctx context.Context, code string) {
	if m == nil {
		return
	}
	m.CouponRedemptions.Add(ctx, 1, metric.WithAttributes(attribute.String("coupon.code", code)))
}

// RecordStockConflict counts a checkout lost to concurrent stock.
func (m *Metrics) RecordStockConflict(ctx context.Context) {
	if m == nil {
		return
	}
	m.StockConflicts.Add(ctx, 1)
}
