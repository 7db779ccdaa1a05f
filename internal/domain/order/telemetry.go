package order

import (
	"context"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

const instrumentationName = "github.com/xenking/storefront/internal/domain/order"

// Option configures a Service.
type Option func(*options)

type options struct {
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
}

// WithTracerProvider sets the tracer provider used for checkout spans.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		if tp != nil {
			o.tracerProvider = tp
		}
	}
}

// WithMeterProvider sets the meter provider used for business counters.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) {
		if mp != nil {
			o.meterProvider = mp
		}
	}
}

// metrics holds the business counters updated after each checkout.
type metrics struct {
	orders   metric.Int64Counter
	redeemed metric.Int64Counter
	issued   metric.Int64Counter
	revenue  metric.Float64Counter
}

func newMetrics(m metric.Meter) (*metrics, error) {
	orders, err := m.Int64Counter("storefront.orders.completed",
		metric.WithDescription("Completed checkouts"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "orders counter")
	}
	redeemed, err := m.Int64Counter("storefront.discount.redeemed",
		metric.WithDescription("Discount codes applied at checkout"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "redeemed counter")
	}
	issued, err := m.Int64Counter("storefront.discount.issued",
		metric.WithDescription("Discount codes issued by the every-Nth-order rule"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "issued counter")
	}
	revenue, err := m.Float64Counter("storefront.revenue",
		metric.WithDescription("Order totals after discounts"),
		metric.WithUnit("{USD}"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "revenue counter")
	}
	return &metrics{
		orders:   orders,
		redeemed: redeemed,
		issued:   issued,
		revenue:  revenue,
	}, nil
}

func (m *metrics) observe(ctx context.Context, res *CheckoutResult) {
	attrs := metric.WithAttributes(attribute.Bool("discounted", res.Order.DiscountCode != ""))
	m.orders.Add(ctx, 1, attrs)
	m.revenue.Add(ctx, res.Order.Total.InexactFloat64(), attrs)
	if res.Order.DiscountCode != "" {
		m.redeemed.Add(ctx, 1)
	}
	if res.NewDiscountCode != nil {
		m.issued.Add(ctx, 1)
	}
}

func defaultOptions() options {
	return options{
		tracerProvider: tracenoop.NewTracerProvider(),
		meterProvider:  metricnoop.NewMeterProvider(),
	}
}
