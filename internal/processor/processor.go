// Package processor implements the ProcessPdf request handler: save the
// upload, run the processing strategy, report the outcome.
package processor

import (
	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
	"github.com/pdf-processor/backend/internal/models"
	"github.com/pdf-processor/backend/internal/storage"
)

// Processor handles ProcessPdf requests. It holds no per-request state and is
// safe for concurrent use.
type Processor struct {
	store      storage.Store
	summarizer Summarizer
	logger     *log.Logger
}

// NewProcessor creates a new request processor. A nil logger gets a default
// one with the "processor" prefix.
func NewProcessor(store storage.Store, summarizer Summarizer, logger *log.Logger) *Processor {
	if summarizer == nil {
		summarizer = NewSimulatedSummarizer(DefaultSimulatedDelay)
	}
	if logger == nil {
		logger = log.New("processor")
	}
	return &Processor{
		store:      store,
		summarizer: summarizer,
		logger:     logger,
	}
}

// Handle saves the document and builds its result. Failures are reported in
// the result, never returned.
func (p *Processor) Handle(req models.UploadRequest) models.UploadResult {
	tag := uuid.NewString()[:8]
	p.logger.Infof("[ProcessPdf %s] Received '%s' (%d bytes)", tag, req.Filename, len(req.Content))

	result := models.UploadResult{
		OriginalFilename: req.Filename,
		SaveAttempted:    true,
	}

	savedName, err := p.store.Save(req.Filename, req.Content)
	if err != nil {
		p.logger.Errorf("[ProcessPdf %s] Failed to save '%s': %v", tag, req.Filename, err)
		result.ErrorInfo = "Failed to save PDF file on server: " + err.Error()
	} else {
		p.logger.Infof("[ProcessPdf %s] Saved as '%s'", tag, savedName)
		result.SavedSuccessfully = true
		result.SavedFilenameServer = savedName
	}

	// Runs on failure too; the delay models work that happens either way.
	summaryName := savedName
	if summaryName == "" {
		summaryName = req.Filename
	}
	result.Summary = p.summarizer.Summarize(summaryName, req.Content)
	result.ProcessingStatus = models.StatusFor(result.SavedSuccessfully)

	p.logger.Infof("[ProcessPdf %s] Finished '%s': %s", tag, req.Filename, result.ProcessingStatus)
	return result
}
