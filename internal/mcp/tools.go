package mcp

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/meltforce/gymplan/internal/plans"
)

// --- Tool definitions ---

var toolGeneratePlanForProfile = mcp.NewTool("generate_plan_for_profile",
	mcp.WithDescription("Generate a seven-day gym routine for a trainee profile. The level is predicted from the body metrics unless given. Returns the muscle groups and exercises (reps and sets) for each day, rest days included."),
	mcp.WithString("gender", mcp.Required(), mcp.Description("Trainee gender"), mcp.Enum("male", "female")),
	mcp.WithNumber("age", mcp.Required(), mcp.Description("Age in years (16-80)")),
	mcp.WithNumber("weight_kg", mcp.Required(), mcp.Description("Body weight in kg (30-200)")),
	mcp.WithNumber("height_m", mcp.Required(), mcp.Description("Height in meters (1.2-2.5); values above 10 are read as centimeters")),
	mcp.WithString("goal", mcp.Required(), mcp.Description("Body-composition goal"), mcp.Enum("weight_gain", "weight_loss")),
	mcp.WithString("level", mcp.Description("Training level override"), mcp.Enum("beginner", "intermediate", "advanced")),
	mcp.WithString("seed", mcp.Description("Random seed for a reproducible plan, as returned in a previous plan (decimal, up to 20 digits)")),
)

var toolGenerateMyPlan = mcp.NewTool("generate_my_plan",
	mcp.WithDescription("Generate and store a seven-day routine for the authenticated user, adjusted to the sessions attended recently. Muscles trained in the last two days get fewer sets and reps."),
	mcp.WithString("seed", mcp.Description("Random seed for a reproducible plan, as returned in a previous plan (decimal, up to 20 digits)")),
)

var toolGetTrainingHistory = mcp.NewTool("get_training_history",
	mcp.WithDescription("Recent attended sessions with weekly frequency, average attendance, most frequent level, top muscle groups and coaching recommendations."),
	mcp.WithNumber("days", mcp.Description("Days to look back. Defaults to the server's lookback window.")),
)

var toolGetMyPlans = mcp.NewTool("get_my_plans",
	mcp.WithDescription("List weekly plans previously generated for the authenticated user, newest first."),
	mcp.WithNumber("limit", mcp.Description("Maximum number of plans. Defaults to 10.")),
)

var toolGetRecoveryPolicy = mcp.NewTool("get_recovery_policy",
	mcp.WithDescription("Rest days required between sessions for each muscle group, their size class, and the per-level training configuration."),
)

// --- Tool handlers ---

func (h *handlers) generatePlanForProfile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	gender, err := req.RequireString("gender")
	if err != nil {
		return mcp.NewToolResultError("gender parameter is required"), nil
	}
	goal, err := req.RequireString("goal")
	if err != nil {
		return mcp.NewToolResultError("goal parameter is required"), nil
	}
	age, err := req.RequireFloat("age")
	if err != nil {
		return mcp.NewToolResultError("age parameter is required"), nil
	}
	weight, err := req.RequireFloat("weight_kg")
	if err != nil {
		return mcp.NewToolResultError("weight_kg parameter is required"), nil
	}
	height, err := req.RequireFloat("height_m")
	if err != nil {
		return mcp.NewToolResultError("height_m parameter is required"), nil
	}

	seed, err := seedArg(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res, err := h.ds.GenerateForProfile(ctx, plans.ProfileRequest{
		Gender:   gender,
		Age:      int(age),
		WeightKg: weight,
		HeightM:  height,
		Goal:     goal,
		Level:    req.GetString("level", ""),
		Seed:     seed,
	})
	if err != nil {
		h.log.Error("mcp generate_plan_for_profile", "error", err)
		return mcp.NewToolResultError("generation failed: " + err.Error()), nil
	}
	return jsonResult(res)
}

func (h *handlers) generateMyPlan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	seed, err := seedArg(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	uid := UserIDFromContext(ctx)
	res, err := h.ds.GenerateForUser(ctx, uid, seed)
	if err != nil {
		h.log.Error("mcp generate_my_plan", "user_id", uid, "error", err)
		return mcp.NewToolResultError("generation failed: " + err.Error()), nil
	}
	return jsonResult(res)
}

func (h *handlers) getTrainingHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	days := req.GetInt("days", 0)
	if days < 0 {
		return mcp.NewToolResultError("days must not be negative"), nil
	}
	report, err := h.ds.History(ctx, UserIDFromContext(ctx), days)
	if err != nil {
		h.log.Error("mcp get_training_history", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(report)
}

func (h *handlers) getMyPlans(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", 10)
	list, err := h.ds.UserPlans(ctx, UserIDFromContext(ctx), limit)
	if err != nil {
		h.log.Error("mcp get_my_plans", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(list)
}

func (h *handlers) getRecoveryPolicy(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	view, err := h.ds.RecoveryPolicy(ctx)
	if err != nil {
		h.log.Error("mcp get_recovery_policy", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(view)
}

// maxExactSeed is the largest seed a JSON number carries without rounding.
const maxExactSeed = 1 << 53

// seedArg returns nil when no seed was passed so the plan gets a fresh one.
// Seeds use all 64 bits, so they are passed as decimal strings. Numbers are
// accepted only while they are exact.
func seedArg(req mcp.CallToolRequest) (*uint64, error) {
	var seed uint64
	switch v := req.GetArguments()["seed"].(type) {
	case nil:
		return nil, nil
	case string:
		v = strings.TrimSpace(v)
		if v == "" {
			return nil, nil
		}
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("seed must be an unsigned decimal integer: %q", v)
		}
		seed = n
	case float64:
		if v < 0 || v > maxExactSeed || v != math.Trunc(v) {
			return nil, fmt.Errorf("seed %v is not exact as a number, pass it as a string", v)
		}
		seed = uint64(v)
	default:
		return nil, fmt.Errorf("seed must be a decimal string")
	}
	return &seed, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
