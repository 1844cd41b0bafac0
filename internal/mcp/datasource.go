package mcp

import (
	"context"

	"github.com/meltforce/gymplan/internal/plans"
)

// DataSource abstracts plan generation for MCP tools. Both *plans.Service
// (local) and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	GenerateForProfile(ctx context.Context, req plans.ProfileRequest) (*plans.Result, error)
	GenerateForUser(ctx context.Context, userID int, seed *uint64) (*plans.Result, error)
	History(ctx context.Context, userID, days int) (*plans.HistoryReport, error)
	UserPlans(ctx context.Context, userID, limit int) ([]plans.StoredPlan, error)
	RecoveryPolicy(ctx context.Context) (*plans.PolicyView, error)
}

// Compile-time check: *plans.Service satisfies DataSource.
var _ DataSource = (*plans.Service)(nil)
