// handlers_rpc.go - PdfProcessorService RPC handlers
package api

import (
	"github.com/labstack/echo/v4"
	"github.com/pdf-processor/backend/internal/models"
)

// RPCHandlerImpl implements the RPCHandler interface
type RPCHandlerImpl struct {
	processor RequestProcessor
	pool      WorkerPool
}

// NewRPCHandler creates a new RPC handler instance
func NewRPCHandler(processor RequestProcessor, pool WorkerPool) RPCHandler {
	return &RPCHandlerImpl{
		processor: processor,
		pool:      pool,
	}
}

// HandleProcessPdf decodes an UploadRequest, runs it on the worker pool and
// returns the UploadResult with 200 whether or not the save worked.
func (h *RPCHandlerImpl) HandleProcessPdf(c echo.Context) error {
	req, codec, err := decodeProcessPdfRequest(c)
	if err != nil {
		return err
	}

	var result models.UploadResult
	if err := h.pool.Do(c.Request().Context(), func() {
		result = h.processor.Handle(req)
	}); err != nil {
		return NewServiceUnavailableError("no worker available", err)
	}

	return writeResult(c, responseCodec(c.Request().Header.Get(echo.HeaderAccept), codec), result)
}
