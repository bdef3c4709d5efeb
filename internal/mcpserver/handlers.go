package mcpserver

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"wakeplay/internal/config"
	"wakeplay/internal/formatting"
	"wakeplay/internal/orchestrator"
	"wakeplay/internal/target"
	"wakeplay/pkg/logging"
)

// handleLaunch starts a launch and optionally waits for its outcome.
func (s *Server) handleLaunch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	targetID, err := request.RequireString("target")
	if err != nil {
		return mcp.NewToolResultError("target argument is required"), nil
	}

	args := request.GetArguments()
	contentType := target.Episode
	if raw, ok := args["content_type"].(string); ok && raw != "" {
		contentType, err = target.ParseContentType(raw)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	ids, err := parseIdentifiers(args["identifiers"])
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	req := target.Request{Target: targetID, ContentType: contentType, Identifiers: ids}
	if err := req.Validate(); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid launch request: %v", err)), nil
	}

	h := s.launches.Start(s.launchContext(), req)
	logging.Info(subsystem, "Launch %s requested for %s", h.ID, targetID)

	wait := true
	if raw, ok := args["wait"].(bool); ok {
		wait = raw
	}
	if !wait {
		return s.statusResult(h.Status())
	}

	timeout := DefaultWaitTimeout
	if raw, ok := args["timeout_seconds"].(float64); ok && raw > 0 {
		timeout = time.Duration(raw * float64(time.Second))
	}
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, err := h.Wait(waitCtx)
	if err != nil {
		// The launch keeps running; the caller can poll launch_status.
		logging.Debug(subsystem, "Stopped waiting for launch %s: %v", h.ID, err)
		return s.statusResult(h.Status())
	}

	jsonData := formatting.PrettyJSON(formatting.NewOutcomeView(h.ID, targetID, out, nil))
	if orchestrator.Kind(out) != "success" {
		return mcp.NewToolResultError(jsonData), nil
	}
	return mcp.NewToolResultText(jsonData), nil
}

// handleLaunchStatus reports one launch or all tracked launches.
func (s *Server) handleLaunchStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, _ := request.GetArguments()["id"].(string)
	if id == "" {
		return mcp.NewToolResultText(formatting.PrettyJSON(formatting.LaunchViews(s.launches.List(), s.now()))), nil
	}

	h, ok := s.launches.Get(id)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("Launch not found: %s", id)), nil
	}
	return s.statusResult(h.Status())
}

// handleCancelLaunch cancels a running launch.
func (s *Server) handleCancelLaunch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id argument is required"), nil
	}
	if !s.launches.Cancel(id) {
		return mcp.NewToolResultError(fmt.Sprintf("Launch %s is not running", id)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Cancelled launch %s", id)), nil
}

// handleListTargets lists every known target profile.
func (s *Server) handleListTargets(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap := config.SnapshotOrEmpty(ctx, s.source)
	return mcp.NewToolResultText(formatting.PrettyJSON(formatting.ProfileViews(snap))), nil
}

func (s *Server) statusResult(status orchestrator.Status) (*mcp.CallToolResult, error) {
	views := formatting.LaunchViews([]orchestrator.Status{status}, s.now())
	return mcp.NewToolResultText(formatting.PrettyJSON(views[0])), nil
}

// parseIdentifiers accepts a JSON object whose values are strings or
// numbers. Episode and season numbers commonly arrive as numbers.
func parseIdentifiers(raw interface{}) (target.Identifiers, error) {
	ids := target.Identifiers{}
	if raw == nil {
		return ids, nil
	}
	obj, ok := raw.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("identifiers must be a JSON object")
	}
	for name, v := range obj {
		switch val := v.(type) {
		case string:
			ids[name] = val
		case float64:
			ids[name] = strconv.FormatFloat(val, 'f', -1, 64)
		case bool:
			ids[name] = strconv.FormatBool(val)
		case nil:
		default:
			return nil, fmt.Errorf("identifier %q must be a string or number", name)
		}
	}
	return ids, nil
}
