package telemetry

import (
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database tracing.
type DBTracingConfig struct {
	Enabled    bool
	LogFullSQL bool // include full SQL statements in spans (dev only)
}

// RegisterDBTracing registers the otelgorm plugin plus a callback that marks
// row counts and errors on the active query span. Slow query logging lives
// in the zap GORM logger, not here.
func RegisterDBTracing(db *gorm.DB, cfg DBTracingConfig, logger *zap.Logger) error {
	if !cfg.Enabled {
		logger.Debug("Database tracing disabled, skipping otelgorm registration")
		return nil
	}

	opts := []otelgorm.Option{
		otelgorm.WithDBName("postgresql"),
	}
	if !cfg.LogFullSQL {
		// Keep query parameters out of spans
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}

	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	registrations := []func() error{
		func() error {
			return db.Callback().Create().After("gorm:create").Register("otel_annotate:create", annotateSpan)
		},
		func() error {
			return db.Callback().Query().After("gorm:query").Register("otel_annotate:query", annotateSpan)
		},
		func() error {
			return db.Callback().Update().After("gorm:update").Register("otel_annotate:update", annotateSpan)
		},
		func() error {
			return db.Callback().Delete().After("gorm:delete").Register("otel_annotate:delete", annotateSpan)
		},
		func() error {
			return db.Callback().Raw().After("gorm:raw").Register("otel_annotate:raw", annotateSpan)
		},
	}
	for _, register := range registrations {
		if err := register(); err != nil {
			return err
		}
	}

	logger.Info("Database tracing enabled", zap.Bool("log_full_sql", cfg.LogFullSQL))

	return nil
}

// annotateSpan adds row counts and error status to the query span.
func annotateSpan(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}

	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}

	if db.Statement.RowsAffected >= 0 {
		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	}
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}

	if db.Error != nil && db.Error != gorm.ErrRecordNotFound {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}
}
