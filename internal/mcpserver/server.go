package mcpserver

import (
	"context"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"wakeplay/internal/config"
	"wakeplay/internal/orchestrator"
	"wakeplay/internal/target"
	"wakeplay/pkg/logging"
)

const subsystem = "MCPServer"

// DefaultWaitTimeout bounds how long the launch tool blocks when wait is set.
const DefaultWaitTimeout = 2 * time.Minute

// Launches is the part of the orchestrator the server drives.
type Launches interface {
	Start(ctx context.Context, req target.Request) *orchestrator.Handle
	Get(id string) (*orchestrator.Handle, bool)
	Cancel(id string) bool
	List() []orchestrator.Status
}

// Server serves wakeplay tools to MCP clients.
type Server struct {
	launches  Launches
	source    config.Source
	mcpServer *server.MCPServer
	now       func() time.Time

	mu      sync.Mutex
	baseCtx context.Context
}

// New creates a server named after the binary version and registers its
// tools. source may be nil, in which case only built-in profiles are listed.
func New(launches Launches, source config.Source, version string) *Server {
	if version == "" {
		version = "dev"
	}
	mcpServer := server.NewMCPServer(
		"wakeplay",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithPromptCapabilities(false),
	)

	s := &Server{
		launches:  launches,
		source:    source,
		mcpServer: mcpServer,
		now:       time.Now,
		baseCtx:   context.Background(),
	}
	s.registerTools()
	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// Start serves over stdin/stdout until the client disconnects. Launches
// started by tools are cancelled when ctx ends.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	s.baseCtx = ctx
	s.mu.Unlock()

	logging.Info(subsystem, "Serving MCP over stdio")
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) launchContext() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.baseCtx
}

func (s *Server) registerTools() {
	launchTool := mcp.NewTool("launch",
		mcp.WithDescription("Launch content on a streaming app on the connected device"),
		mcp.WithString("target",
			mcp.Required(),
			mcp.Description("Target app id or package name, for example netflix"),
		),
		mcp.WithString("content_type",
			mcp.Description("episode, movie or live (default: episode)"),
		),
		mcp.WithObject("identifiers",
			mcp.Description("Content identifiers such as episodeId, titleId, showName or query (JSON object with string values)"),
		),
		mcp.WithBoolean("wait",
			mcp.Description("Wait for the launch to finish (default: true)"),
		),
		mcp.WithNumber("timeout_seconds",
			mcp.Description("How long to wait before returning the launch id instead of the outcome (default: 120)"),
		),
	)
	s.mcpServer.AddTool(launchTool, s.handleLaunch)

	statusTool := mcp.NewTool("launch_status",
		mcp.WithDescription("Show a tracked launch, or every tracked launch when id is omitted"),
		mcp.WithString("id",
			mcp.Description("Launch id returned by launch"),
		),
	)
	s.mcpServer.AddTool(statusTool, s.handleLaunchStatus)

	cancelTool := mcp.NewTool("cancel_launch",
		mcp.WithDescription("Cancel a running launch"),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Launch id returned by launch"),
		),
	)
	s.mcpServer.AddTool(cancelTool, s.handleCancelLaunch)

	targetsTool := mcp.NewTool("list_targets",
		mcp.WithDescription("List the target apps wakeplay knows how to launch"),
	)
	s.mcpServer.AddTool(targetsTool, s.handleListTargets)
}
