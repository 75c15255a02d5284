package app

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/order-reports/internal/dataset"
	"github.com/xenking/order-reports/internal/domain/product"
	"github.com/xenking/order-reports/internal/redemption"
	"github.com/xenking/order-reports/internal/render"
	"github.com/xenking/order-reports/internal/report"
)

const instrumentationName = "github.com/xenking/order-reports/internal/app"

// Run computes every report over the configured dataset and prints them to
// standard output. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	r, err := NewRunner(lg, m.TracerProvider(), m.MeterProvider(), cfg)
	if err != nil {
		return err
	}
	return r.Run(ctx, os.Stdout)
}

// Runner loads a dataset, computes the reports concurrently and renders them
// in a fixed order.
type Runner struct {
	lg     *zap.Logger
	cfg    *Config
	tracer trace.Tracer
	now    func() time.Time

	computed metric.Int64Counter
	duration metric.Float64Histogram
}

// NewRunner creates a Runner reporting spans and metrics to the given
// providers.
func NewRunner(lg *zap.Logger, tp trace.TracerProvider, mp metric.MeterProvider, cfg *Config) (*Runner, error) {
	meter := mp.Meter(instrumentationName)

	computed, err := meter.Int64Counter("reports.computed",
		metric.WithDescription("Number of reports computed"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create computed counter")
	}
	duration, err := meter.Float64Histogram("reports.duration",
		metric.WithDescription("Time spent computing a report"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create duration histogram")
	}

	return &Runner{
		lg:       lg,
		cfg:      cfg,
		tracer:   tp.Tracer(instrumentationName),
		now:      time.Now,
		computed: computed,
		duration: duration,
	}, nil
}

// Run executes one reporting run and writes the result to w.
func (r *Runner) Run(ctx context.Context, w io.Writer) error {
	lg := r.lg.With(zap.String("run_id", uuid.NewString()))
	ctx = zctx.Base(ctx, lg)

	ds, err := r.loadDataset()
	if err != nil {
		return errors.Wrap(err, "load dataset")
	}
	lg.Info("Dataset loaded",
		zap.String("source", r.datasetSource()),
		zap.Int("users", len(ds.Users)),
		zap.Int("products", len(ds.Products)),
		zap.Int("orders", len(ds.Orders)),
	)

	registry := redemption.NewRegistry(redemption.Options{
		Capacity:          r.cfg.Registry.Capacity,
		FalsePositiveRate: r.cfg.Registry.FalsePositiveRate,
	})
	for _, code := range ds.UsedCodes {
		registry.Use(code)
	}
	if err := r.redeem(lg, ds, registry); err != nil {
		return errors.Wrap(err, "redeem")
	}

	target, ok := ds.Product(r.cfg.AverageAgeProduct)
	if !ok {
		return errors.Errorf("average age product %q not found in dataset", r.cfg.AverageAgeProduct)
	}

	summary, err := r.compute(ctx, ds, registry, target)
	if err != nil {
		return errors.Wrap(err, "compute reports")
	}

	if err := render.Write(w, render.Format(r.cfg.Format), summary); err != nil {
		return errors.Wrap(err, "render")
	}
	lg.Info("Reports written", zap.String("format", r.cfg.Format))
	return nil
}

func (r *Runner) loadDataset() (*dataset.Dataset, error) {
	if r.cfg.Dataset == "" {
		return dataset.Default()
	}
	return dataset.LoadFile(r.cfg.Dataset)
}

func (r *Runner) datasetSource() string {
	if r.cfg.Dataset == "" {
		return "built-in"
	}
	return r.cfg.Dataset
}

// redeem redeems the configured virtual products. A used or expired code is
// logged and skipped; an unknown or non-virtual product fails the run.
func (r *Runner) redeem(lg *zap.Logger, ds *dataset.Dataset, registry *redemption.Registry) error {
	for _, id := range r.cfg.Redeem {
		p, ok := ds.Product(id)
		if !ok {
			return errors.Errorf("product %q not found in dataset", id)
		}
		v, ok := p.(product.Virtual)
		if !ok {
			return errors.Errorf("product %q is %s, not virtual", id, p.Kind())
		}

		err := registry.Redeem(v, r.now())
		switch {
		case err == nil:
			lg.Info("Code redeemed", zap.String("product", id), zap.String("code", v.Code()))
		case errors.Is(err, redemption.ErrCodeUsed), errors.Is(err, redemption.ErrCodeExpired):
			lg.Warn("Code not redeemed", zap.String("product", id), zap.Error(err))
		default:
			return err
		}
	}
	return nil
}

// compute runs every report concurrently. Each report writes only its own
// Summary field. The first failing report cancels the run.
func (r *Runner) compute(
	ctx context.Context,
	ds *dataset.Dataset,
	registry *redemption.Registry,
	target product.Product,
) (*report.Summary, error) {
	var (
		s      report.Summary
		orders = ds.Orders
	)

	jobs := []job{
		{name: "code_check", fn: func() error {
			s.Code = report.CodeCheck{Code: r.cfg.CheckCode, Used: registry.IsUsed(r.cfg.CheckCode)}
			return nil
		}},
		{name: "most_expensive", fn: func() error {
			// Summary.MostExpensive stays nil when nothing was ordered.
			if p, ok := report.MostExpensive(orders); ok {
				s.MostExpensive = p
			}
			return nil
		}},
		{name: "most_popular", fn: func() (err error) {
			s.MostPopular, err = report.MostPopular(orders)
			return err
		}},
		{name: "average_age", fn: func() error {
			age, err := report.AverageAge(target, orders)
			if err != nil {
				return err
			}
			s.AverageAge = report.AgeReport{Product: target, Age: age}
			return nil
		}},
		{name: "product_buyers", fn: func() error {
			s.Buyers = report.Buyers(orders)
			return nil
		}},
		{name: "products_by_price", fn: func() error {
			s.ProductsByPrice = report.SortProductsByPrice(ds.Products)
			return nil
		}},
		{name: "orders_by_age_desc", fn: func() error {
			s.OrdersByAgeDesc = report.SortOrdersByAgeDesc(orders)
			return nil
		}},
		{name: "order_weights", fn: func() error {
			s.Weights = report.Weights(orders)
			return nil
		}},
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Workers)
	for _, j := range jobs {
		g.Go(r.runJob(ctx, j))
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &s, nil
}

// job is a single report computation.
type job struct {
	name string
	fn   func() error
}

func (r *Runner) runJob(ctx context.Context, j job) func() error {
	return func() error {
		if err := ctx.Err(); err != nil {
			return err
		}

		ctx, span := r.tracer.Start(ctx, "report."+j.name)
		defer span.End()

		start := time.Now()
		err := j.fn()
		took := time.Since(start)

		attrs := metric.WithAttributes(
			attribute.String("report", j.name),
			attribute.Bool("ok", err == nil),
		)
		r.computed.Add(ctx, 1, attrs)
		r.duration.Record(ctx, took.Seconds(), attrs)

		lg := zctx.From(ctx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			lg.Error("Report failed", zap.String("report", j.name), zap.Error(err))
			return errors.Wrap(err, j.name)
		}

		lg.Debug("Report computed", zap.String("report", j.name), zap.Duration("took", took))
		return nil
	}
}
