package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	recalcRuns     metric.Int64Counter
	recalcDuration metric.Float64Histogram
	recalcLines    metric.Int64Histogram
	recalcPending  metric.Int64Histogram
	importedRows   metric.Int64Counter
	exports        metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	if log != nil {
		log.Info("metrics initialized",
			zap.String("endpoint", cfg.ExporterEndpoint),
			zap.String("protocol", cfg.ExporterProtocol),
		)
	}

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "liquidador"
	}
	meter := provider.Meter(name)

	recalcRuns, err := meter.Int64Counter("liquidador_settlement_recalcs_total")
	if err != nil {
		return nil, err
	}
	recalcDuration, err := meter.Float64Histogram("liquidador_settlement_recalc_duration_seconds")
	if err != nil {
		return nil, err
	}
	recalcLines, err := meter.Int64Histogram("liquidador_settlement_lines")
	if err != nil {
		return nil, err
	}
	recalcPending, err := meter.Int64Histogram("liquidador_settlement_pending_lines")
	if err != nil {
		return nil, err
	}
	importedRows, err := meter.Int64Counter("liquidador_production_rows_imported_total")
	if err != nil {
		return nil, err
	}
	exports, err := meter.Int64Counter("liquidador_exports_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		recalcRuns:     recalcRuns,
		recalcDuration: recalcDuration,
		recalcLines:    recalcLines,
		recalcPending:  recalcPending,
		importedRows:   importedRows,
		exports:        exports,
	}, nil
}

// RecordRecalc records one completed settlement recalculation.
func (m *Metrics) RecordRecalc(ctx context.Context, period string, duration time.Duration, lines, pending int) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("period", strings.TrimSpace(period)))
	opts := metric.WithAttributes(attrs...)
	m.recalcRuns.Add(ctx, 1, opts)
	m.recalcDuration.Record(ctx, duration.Seconds(), opts)
	m.recalcLines.Record(ctx, int64(lines), opts)
	m.recalcPending.Record(ctx, int64(pending), opts)
}

// RecordImport counts production rows accepted from a source batch.
func (m *Metrics) RecordImport(ctx context.Context, source string, rows int) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("source", strings.TrimSpace(source)))
	m.importedRows.Add(ctx, int64(rows), metric.WithAttributes(attrs...))
}

// RecordExport counts generated settlement exports by format.
func (m *Metrics) RecordExport(ctx context.Context, format string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("format", strings.TrimSpace(format)))
	m.exports.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	switch protocol {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}

var allowedLabelKeys = map[attribute.Key]struct{}{
	"period":      {},
	"source":      {},
	"format":      {},
	"status_code": {},
	"endpoint":    {},
	"reason":      {},
}

// FilterAttributes strips disallowed labels to keep metrics low-cardinality.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}
