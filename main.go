package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/heretto-labs/heretto-mcp/internal/cache"
	herettocli "github.com/heretto-labs/heretto-mcp/internal/cli"
	"github.com/heretto-labs/heretto-mcp/internal/config"
	"github.com/heretto-labs/heretto-mcp/internal/registry"
	"github.com/heretto-labs/heretto-mcp/internal/tools"
	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	// Import all tool packages to register them
	_ "github.com/heretto-labs/heretto-mcp/internal/imports"
)

// Version information (set during build)
var (
	Version   = "0.1.0"
	Commit    = "none"
	BuildDate = "unknown"
)

// Global resources that need cleanup
// Using atomic operations to prevent race conditions between signal handlers and cleanup
var (
	debugLogFile atomic.Pointer[os.File]
	isStdioMode  atomic.Bool
)

// parseLogLevel parses the LOG_LEVEL environment variable and returns the
// appropriate logrus level. Defaults to WarnLevel if not set or invalid.
func parseLogLevel() logrus.Level {
	logLevelStr := os.Getenv("LOG_LEVEL")
	if logLevelStr == "" {
		return logrus.WarnLevel
	}

	switch strings.ToLower(strings.TrimSpace(logLevelStr)) {
	case "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	case "panic":
		return logrus.PanicLevel
	default:
		return logrus.WarnLevel
	}
}

func main() {
	// Create context with signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env before anything reads the environment. A missing file is
	// fine; production deployments set real environment variables.
	_ = godotenv.Load()

	// Create a logger with default configuration
	// Initially discard output - it is reconfigured per command once the transport mode is known
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logger.SetLevel(parseLogLevel())
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	// Load the Heretto defaults, then initialise the tool registry
	config.Init(logger)
	registry.Init(logger)

	// Ensure cleanup runs on normal exit OR signal
	defer performCleanup()

	app := &cli.App{
		Name:    "heretto-mcp",
		Usage:   "MCP server for the Heretto Deploy API",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "transport",
				Aliases: []string{"t"},
				Value:   "stdio",
				Usage:   "Transport type (stdio, sse, or http)",
			},
			&cli.StringFlag{
				Name:  "port",
				Value: "18080",
				Usage: "Port to use for HTTP transports (SSE and Streamable HTTP)",
			},
			&cli.StringFlag{
				Name:  "base-url",
				Value: "http://localhost",
				Usage: "Base URL for HTTP transports",
			},
			&cli.StringFlag{
				Name:  "auth-token",
				Usage: "Bearer token for Streamable HTTP transport (optional)",
			},
			&cli.StringFlag{
				Name:  "endpoint-path",
				Value: "/http",
				Usage: "Endpoint path for Streamable HTTP transport",
			},
			&cli.DurationFlag{
				Name:  "session-timeout",
				Value: 30 * time.Minute,
				Usage: "Session timeout for Streamable HTTP transport",
			},
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"d"},
				Usage:   "Enable debug logging regardless of LOG_LEVEL",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "version",
				Usage: "Print version information",
				Action: func(c *cli.Context) error {
					fmt.Printf("heretto-mcp version %s\n", Version)
					fmt.Printf("Commit: %s\n", Commit)
					fmt.Printf("Built: %s\n", BuildDate)
					return nil
				},
			},
			{
				Name:      "tools",
				Usage:     "List Heretto tools, or run one in-process without an MCP client",
				ArgsUsage: "[tool-name] [--param value | --param=value | '{json}' ...]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Emit machine-readable JSON instead of formatted text",
					},
				},
				Action: func(c *cli.Context) error {
					// Tool results print to stdout, so logs go to stderr
					logger.SetOutput(os.Stderr)
					if c.Bool("debug") {
						logger.SetLevel(logrus.DebugLevel)
					}

					output := herettocli.OutputText
					if c.Bool("json") {
						output = herettocli.OutputJSON
					}
					runner := herettocli.NewRunner(logger, registry.GetCache(), output)

					rest := c.Args().Slice()
					if len(rest) == 0 {
						return runner.ListTools()
					}

					name, toolArgs := rest[0], rest[1:]
					if slices.Contains(toolArgs, "--help") || slices.Contains(toolArgs, "-h") {
						return runner.HelpTool(name)
					}
					return runner.RunTool(c.Context, name, toolArgs)
				},
			},
		},
		Action: func(c *cli.Context) error {
			transport := c.String("transport")
			port := c.String("port")
			baseURL := c.String("base-url")

			// Track stdio mode for error handling (atomic to prevent races with signal handlers)
			isStdioMode.Store(transport == "stdio")

			configureLogging(logger, c.Bool("debug"))

			// Only log startup info for non-stdio transports
			if transport != "stdio" {
				logger.Infof("Starting heretto-mcp version %s (commit: %s, built: %s)",
					Version, Commit, BuildDate)
			}

			warnMissingDefaults(logger)

			if err := tools.InitErrorLog(logger); err != nil {
				logger.WithError(err).Warn("Tool error logging unavailable")
			}

			// Reload the config when its file changes so long-lived servers
			// pick up token or default changes without a restart
			if err := config.Watch(c.Context, logger); err != nil {
				logger.WithError(err).Debug("Config file watching unavailable")
			}

			logger.Debug("Creating MCP server")
			mcpSrv := mcpserver.NewMCPServer("heretto-deploy-mcp", Version,
				mcpserver.WithInstructions(serverInstructions()),
			)

			enabledTools := registry.GetEnabledTools()
			logger.WithField("tool_count", len(enabledTools)).Debug("MCP server created, registering tools")

			// Register tools - capture loop variables for the handler closures
			for toolName, toolImpl := range enabledTools {
				name := toolName
				tool := toolImpl

				if transport != "stdio" {
					logger.Infof("Registering tool: %s", name)
				}

				mcpSrv.AddTool(tool.Definition(), func(toolCtx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
					// Get fresh reference from registry to ensure consistency
					currentTool, ok := registry.GetTool(name)
					if !ok {
						return nil, fmt.Errorf("tool not found: %s", name)
					}

					args, ok := request.Params.Arguments.(map[string]any)
					if !ok {
						return nil, fmt.Errorf("invalid arguments type: expected map[string]interface{}, got %T", request.Params.Arguments)
					}

					result, err := currentTool.Execute(toolCtx, registry.GetLogger(), registry.GetCache(), args)
					if err != nil {
						// Log to stderr for debugging (won't interfere with stdio)
						if transport != "stdio" {
							logger.WithError(err).Errorf("Tool execution failed: %s", name)
						}
						tools.GetErrorLog().Record(name, args, err, transport)
						return nil, fmt.Errorf("tool execution failed: %w", err)
					}

					return result, nil
				})
			}

			logger.WithField("transport", transport).Debug("Starting server")
			switch transport {
			case "stdio":
				return mcpserver.ServeStdio(mcpSrv)
			case "sse":
				logger.WithField("port", port).Debug("Starting SSE server")
				sseServer := mcpserver.NewSSEServer(mcpSrv, mcpserver.WithBaseURL(baseURL+"/sse"))
				return sseServer.Start(":" + port)
			case "http":
				return startStreamableHTTPServer(c, mcpSrv, logger)
			default:
				return fmt.Errorf("unsupported transport: %s", transport)
			}
		},
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		// In stdio mode we must NOT write to stdout or stderr as it breaks
		// the MCP protocol, even for initialisation errors
		if !isStdioMode.Load() {
			logger.Fatalf("Error: %v", err)
		}
		os.Exit(1)
	}
}

// configureLogging routes all server logging to a file so the stdio protocol
// stream stays clean. When the log file cannot be opened, stdio mode discards
// logs entirely and the other transports fall back to stderr.
func configureLogging(logger *logrus.Logger, debug bool) {
	level := parseLogLevel()
	if debug {
		level = logrus.DebugLevel
	}

	var output io.Writer = os.Stderr
	if isStdioMode.Load() {
		output = io.Discard
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		logDir := filepath.Join(homeDir, ".heretto-mcp", "logs")
		if err := os.MkdirAll(logDir, 0700); err == nil {
			logFile := filepath.Join(logDir, "heretto-mcp.log")
			if file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600); err == nil {
				// Store file handle for cleanup on shutdown
				debugLogFile.Store(file)
				output = file
			}
		}
	}

	// Minimum warn level in stdio mode unless debug was explicitly requested
	if isStdioMode.Load() && !debug && level < logrus.WarnLevel {
		level = logrus.WarnLevel
	}

	logger.SetOutput(output)
	logrus.SetOutput(output)
	logger.SetLevel(level)
	logrus.SetLevel(level)
	logger.WithField("level", level.String()).Debug("Logging configured")
}

// warnMissingDefaults surfaces configuration gaps at startup the same way the
// server reports them later, so misconfiguration is visible before the first
// tool call fails.
func warnMissingDefaults(logger *logrus.Logger) {
	cfg := config.Get()
	if cfg.DeployToken == "" {
		logger.Warn("HERETTO_DEPLOY_TOKEN is not set - upstream API calls will be unauthenticated")
	}
	if cfg.OrgID == "" {
		logger.Info("HERETTO_DEFAULT_ORG_ID is not set - tool calls must pass organization_id explicitly")
	}
	if cfg.DeploymentID == "" {
		logger.Info("HERETTO_DEFAULT_DEPLOYMENT_ID is not set - tool calls must pass deployment_id explicitly")
	}
	if cfg.PortalBaseURL == "" {
		logger.Info("HERETTO_PORTAL_BASE_URL is not set - results will not carry portal URLs")
	}
}

// serverInstructions tells MCP clients how to drive the documentation tools.
func serverInstructions() string {
	return `You have access to the Heretto Deploy API for searching and retrieving documentation.

IMPORTANT RULES:
1. When users ask ANY QUESTION, ALWAYS use the Heretto Deploy tools to search for and retrieve the most accurate information.
2. ALWAYS include portal URLs in your responses when available. Format them clearly as "Document Title: URL" and provide them proactively rather than waiting to be asked.
3. When providing multiple results, list all relevant URLs, one "Title: URL" line per document.

WORKFLOW:
1. ALWAYS START with search_deployment to find relevant content.
2. Use get_content to retrieve full details for the most relevant results.
3. Include ALL portal URLs in your response.
4. If the initial search finds nothing, retry with the alternative keywords the tool suggests.
5. Suggest related documentation that might be helpful.

CONFIGURATION:
organization_id and deployment_id default to HERETTO_DEFAULT_ORG_ID and HERETTO_DEFAULT_DEPLOYMENT_ID, so they can usually be omitted. Portal URLs appear only when HERETTO_PORTAL_BASE_URL is configured.

The documentation system contains technical guides, API docs, help content, and procedures for virtually all types of user questions. ALWAYS prefer information from Heretto over general knowledge when available.`
}

// performCleanup releases global resources on shutdown
func performCleanup() {
	_ = tools.GetErrorLog().Close()

	// Close the debug log file if it was opened (atomic load to prevent races)
	if file := debugLogFile.Load(); file != nil {
		// Silently close - stdio mode forbids output and the logger may be
		// writing to this very file
		_ = file.Close()
	}
}

// startStreamableHTTPServer configures and starts the Streamable HTTP transport
func startStreamableHTTPServer(c *cli.Context, mcpServer *mcpserver.MCPServer, logger *logrus.Logger) error {
	port := c.String("port")
	authToken := c.String("auth-token")
	endpointPath := c.String("endpoint-path")
	sessionTimeout := c.Duration("session-timeout")

	logger.Infof("Starting Streamable HTTP server on port %s with endpoint %s", port, endpointPath)

	opts := []mcpserver.StreamableHTTPOption{
		mcpserver.WithEndpointPath(endpointPath),
	}

	if sessionTimeout > 0 {
		opts = append(opts, mcpserver.WithSessionIdManager(newTimeoutSessionManager(sessionTimeout, logger)))
	}

	if authToken != "" {
		opts = append(opts, mcpserver.WithHTTPContextFunc(authMiddleware(authToken, logger)))
		logger.Info("Bearer token authentication enabled")
	}

	// Heartbeats keep idle connections alive; derive the interval from the
	// session timeout so sessions are pinged well before they expire
	heartbeatInterval := 30 * time.Second
	if sessionTimeout > 0 {
		heartbeatInterval = sessionTimeout / 4
	}
	opts = append(opts, mcpserver.WithHeartbeatInterval(heartbeatInterval))
	opts = append(opts, mcpserver.WithLogger(&logrusAdapter{logger: logger}))

	httpServer := mcpserver.NewStreamableHTTPServer(mcpServer, opts...)

	logger.Infof("Heartbeat interval: %v", heartbeatInterval)
	return httpServer.Start(":" + port)
}

// authMiddleware creates an HTTP context function that validates the
// Authorization header against the configured bearer token. Failed requests
// are logged but passed through; the MCP layer rejects unauthenticated calls.
func authMiddleware(expectedToken string, logger *logrus.Logger) mcpserver.HTTPContextFunc {
	return func(ctx context.Context, req *http.Request) context.Context {
		authHeader := req.Header.Get("Authorization")
		if authHeader == "" {
			logger.Warn("Request missing Authorization header")
			return ctx
		}

		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			logger.Warn("Invalid authorization format, expected Bearer token")
			return ctx
		}

		if token := strings.TrimPrefix(authHeader, bearerPrefix); token != expectedToken {
			logger.Warn("Invalid authentication token")
			return ctx
		}

		logger.Debug("Request authenticated successfully")
		return ctx
	}
}

// timeoutSessionManager implements mcpserver.SessionIdManager with an idle
// timeout: sessions not seen within the timeout validate as terminated.
type timeoutSessionManager struct {
	logger   *logrus.Logger
	sessions *cache.Cache
}

func newTimeoutSessionManager(timeout time.Duration, logger *logrus.Logger) *timeoutSessionManager {
	return &timeoutSessionManager{
		logger:   logger,
		sessions: cache.New(timeout),
	}
}

func (m *timeoutSessionManager) Generate() string {
	id := "session-" + uuid.NewString()
	m.sessions.Set(id, time.Now())
	return id
}

func (m *timeoutSessionManager) Validate(sessionID string) (bool, error) {
	if sessionID == "" {
		return false, fmt.Errorf("empty session ID")
	}

	if _, ok := m.sessions.Get(sessionID); !ok {
		// Unknown and expired IDs count as terminated rather than invalid
		// so a restarted server prompts existing clients to re-initialise
		m.logger.Debugf("Session expired: %s", sessionID)
		return true, nil
	}

	// Refresh the idle timer on every validated request
	m.sessions.Set(sessionID, time.Now())
	return false, nil
}

func (m *timeoutSessionManager) Terminate(sessionID string) (bool, error) {
	m.sessions.Delete(sessionID)
	m.logger.Debugf("Session terminated: %s", sessionID)
	return false, nil
}

// logrusAdapter adapts logrus.Logger to the mcp-go util.Logger interface
type logrusAdapter struct {
	logger *logrus.Logger
}

func (l *logrusAdapter) Debugf(format string, args ...any) {
	l.logger.Debugf(format, args...)
}

func (l *logrusAdapter) Infof(format string, args ...any) {
	l.logger.Infof(format, args...)
}

func (l *logrusAdapter) Warnf(format string, args ...any) {
	l.logger.Warnf(format, args...)
}

func (l *logrusAdapter) Errorf(format string, args ...any) {
	l.logger.Errorf(format, args...)
}
