package mcp

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type contextKey int

const userIDKey contextKey = iota

// UserIDFromContext extracts the user ID injected by the transport layer.
func UserIDFromContext(ctx context.Context) int {
	if id, ok := ctx.Value(userIDKey).(int); ok {
		return id
	}
	return 1
}

// WithUserID returns a context with the given user ID.
func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("GymPlan", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("GymPlan weekly routine generator. Build seven-day gym plans from a trainee profile, adjust them to recent attendance, and inspect the muscle recovery policy. Stored users and plans are scoped to the authenticated user."),
	)

	h := &handlers{ds: ds, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGeneratePlanForProfile, Handler: h.generatePlanForProfile},
		server.ServerTool{Tool: toolGenerateMyPlan, Handler: h.generateMyPlan},
		server.ServerTool{Tool: toolGetTrainingHistory, Handler: h.getTrainingHistory},
		server.ServerTool{Tool: toolGetMyPlans, Handler: h.getMyPlans},
		server.ServerTool{Tool: toolGetRecoveryPolicy, Handler: h.getRecoveryPolicy},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resRecoveryPolicy, Handler: h.recoveryPolicy},
		server.ServerResource{Resource: resRecentPlans, Handler: h.recentPlans},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resRecoveryPolicy = mcp.NewResource(
	"gymplan://recovery_policy",
	"Recovery Policy",
	mcp.WithResourceDescription("Rest days and size class per muscle group, plus the training level table"),
	mcp.WithMIMEType("application/json"),
)

var resRecentPlans = mcp.NewResource(
	"gymplan://recent_plans",
	"Recent Plans",
	mcp.WithResourceDescription("The five most recent weekly plans generated for the user"),
	mcp.WithMIMEType("application/json"),
)
