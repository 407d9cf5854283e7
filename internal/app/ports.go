package app

import (
	"context"

	"github.com/shopspring/decimal"
)

// RateResolver picks the applicable rate for a user, optionally on a project.
type RateResolver interface {
	ResolveRate(ctx context.Context, userID, organizationID string, projectID *string) (*decimal.Decimal, error)
}

// ReportBuilder assembles live report data for a viewer.
type ReportBuilder interface {
	BuildReport(ctx context.Context, organizationID string, filter ReportFilter, viewer *Viewer) (*ReportResponse, error)
}
