// interfaces.go - Handler interface definitions for clean separation of concerns
package api

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/pdf-processor/backend/internal/models"
)

// RPCHandler serves the PdfProcessorService methods
type RPCHandler interface {
	HandleProcessPdf(c echo.Context) error
}

// HealthHandler handles health check operations
type HealthHandler interface {
	HandleHealth(c echo.Context) error
}

// RequestProcessor turns one upload into its result without failing.
// This allows mocking in tests
type RequestProcessor interface {
	Handle(req models.UploadRequest) models.UploadResult
}

// WorkerPool bounds concurrent request handling
type WorkerPool interface {
	Do(ctx context.Context, fn func()) error
	Capacity() int
	InFlight() int
}
