// routes.go - Route and middleware registration
package api

import (
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// ProcessPdfPath is the URL the ProcessPdf RPC is served on.
const ProcessPdfPath = "/rpc/PdfProcessorService/ProcessPdf"

// HealthPath is the health check URL.
const HealthPath = "/api/health"

// Dependencies holds all handler dependencies
type Dependencies struct {
	Processor RequestProcessor
	Pool      WorkerPool
	Version   string
}

// Handlers holds all handler instances
type Handlers struct {
	Health HealthHandler
	RPC    RPCHandler
}

// NewHandlers creates all handler instances
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		Health: NewHealthHandler(deps.Version, deps.Pool),
		RPC:    NewRPCHandler(deps.Processor, deps.Pool),
	}
}

// RegisterRoutes registers all routes with the Echo instance
func RegisterRoutes(e *echo.Echo, handlers *Handlers) {
	e.GET(HealthPath, handlers.Health.HandleHealth)
	e.POST(ProcessPdfPath, handlers.RPC.HandleProcessPdf)
}

// MiddlewareOptions controls SetupMiddleware
type MiddlewareOptions struct {
	BodyLimit      string // echo size string such as "2G"; empty disables the limit
	RequestLogging bool
}

// SetupMiddleware configures common middleware
func SetupMiddleware(e *echo.Echo, opts MiddlewareOptions) {
	e.HTTPErrorHandler = ErrorHandler

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))

	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			if !opts.RequestLogging {
				return true
			}
			return strings.HasSuffix(c.Request().URL.Path, HealthPath)
		},
	}))

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 1024 * 4,
	}))

	if opts.BodyLimit != "" {
		e.Use(middleware.BodyLimit(opts.BodyLimit))
	}
}
