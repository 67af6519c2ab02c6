package telemetry

import (
	"context"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/rcarvalho-pb/kyc_deposit-go/internal/domain/charge"
)

const tracerName = "github.com/rcarvalho-pb/kyc_deposit-go/charge"

// TracedCharges wraps a charge.Service with one span per call.
type TracedCharges struct {
	Next     charge.Service
	Provider trace.TracerProvider
}

func (t *TracedCharges) CreatePix(ctx context.Context, amount decimal.Decimal) (charge.Charge, error) {
	ctx, span := t.tracer().Start(ctx, "charge.CreatePix",
		trace.WithAttributes(attribute.String("charge.amount", amount.String())),
	)
	defer span.End()

	c, err := t.Next.CreatePix(ctx, amount)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return c, err
	}

	span.SetAttributes(attribute.String("charge.transaction_id", c.TransactionID))
	return c, nil
}

func (t *TracedCharges) CheckStatus(ctx context.Context, transactionID string) (charge.StatusResult, error) {
	ctx, span := t.tracer().Start(ctx, "charge.CheckStatus",
		trace.WithAttributes(attribute.String("charge.transaction_id", transactionID)),
	)
	defer span.End()

	res, err := t.Next.CheckStatus(ctx, transactionID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return res, err
	}

	span.SetAttributes(attribute.String("charge.status", string(res.Status)))
	return res, nil
}

func (t *TracedCharges) tracer() trace.Tracer {
	if t.Provider == nil {
		return otel.Tracer(tracerName)
	}
	return t.Provider.Tracer(tracerName)
}
