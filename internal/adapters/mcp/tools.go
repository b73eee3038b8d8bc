package mcpadapter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/campuscare/support-triage/internal/core/domain"
)

func (s *Server) registerTools() {
	routeTool := mcp.NewTool("route_category",
		mcp.WithDescription("Route a classified support category to its handling branch with confidence-aware warnings"),
		mcp.WithString("category",
			mcp.Required(),
			mcp.Description("Classified category name, e.g. 'Mental health'"),
		),
		mcp.WithNumber("confidence",
			mcp.Description("Classifier confidence between 0 and 1; omit when unavailable"),
		),
		mcp.WithString("user_input",
			mcp.Description("Original user text that produced the classification"),
		),
	)
	s.mcpServer.AddTool(routeTool, s.handleRouteCategory)

	validateTool := mcp.NewTool("validate_facilities",
		mcp.WithDescription("Score facility recommendations for reliability and attach warnings, a report and a disclaimer"),
		mcp.WithString("facilities_json",
			mcp.Required(),
			mcp.Description("JSON array of facility objects with name, city, state, score and optional dimension scores"),
		),
	)
	s.mcpServer.AddTool(validateTool, s.handleValidateFacilities)
}

func (s *Server) handleRouteCategory(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category := request.GetString("category", "")
	if category == "" {
		return mcp.NewToolResultError("category parameter required"), nil
	}

	// Absent confidence disables the confidence overlays, so presence has
	// to be checked on the raw arguments rather than a zero default.
	var confidence *float64
	if raw, ok := request.GetArguments()["confidence"]; ok {
		value, ok := raw.(float64)
		if !ok {
			return mcp.NewToolResultError("confidence must be a number"), nil
		}
		if value < 0 || value > 1 {
			return mcp.NewToolResultError("confidence must be between 0 and 1"), nil
		}
		confidence = &value
	}

	isOurs, decision := s.router.ClassifyWithCareLevel(domain.ClassificationInput{
		Category:   category,
		Confidence: confidence,
		UserInput:  request.GetString("user_input", ""),
	})

	payload, err := json.MarshalIndent(map[string]any{
		"is_ours":  isOurs,
		"decision": decision,
	}, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode decision: %v", err)), nil
	}
	return mcp.NewToolResultText(string(payload)), nil
}

func (s *Server) handleValidateFacilities(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw := request.GetString("facilities_json", "")
	if raw == "" {
		return mcp.NewToolResultError("facilities_json parameter required"), nil
	}

	var facilities []domain.Facility
	if err := json.Unmarshal([]byte(raw), &facilities); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("facilities_json must be a JSON array of facilities: %v", err)), nil
	}
	if len(facilities) == 0 {
		return mcp.NewToolResultError("at least one facility is required"), nil
	}

	validated := s.validator.AttachBadges(facilities)
	report, err := s.validator.WarningReport(validated)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to build report: %v", err)), nil
	}
	disclaimer, err := s.validator.Disclaimer(validated)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to build disclaimer: %v", err)), nil
	}

	payload, err := json.MarshalIndent(map[string]any{
		"facilities": validated,
		"report":     report,
		"disclaimer": disclaimer,
	}, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode validation result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(payload)), nil
}
