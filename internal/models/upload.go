package models

// ProcessingStatus reports what happened to an uploaded document.
type ProcessingStatus string

const (
	StatusSimulatedComplete ProcessingStatus = "simulated_complete"
	StatusErrorSavingFile   ProcessingStatus = "error_saving_file"
)

// UploadRequest is a single document handed to ProcessPdf.
type UploadRequest struct {
	Filename string `json:"filename" msgpack:"filename"`
	Content  []byte `json:"pdf_content" msgpack:"pdf_content"`
}

// UploadResult is returned for every request, whether the save worked or not.
type UploadResult struct {
	OriginalFilename    string           `json:"original_filename" msgpack:"original_filename"`
	SaveAttempted       bool             `json:"save_attempted" msgpack:"save_attempted"`
	SavedSuccessfully   bool             `json:"saved_successfully" msgpack:"saved_successfully"`
	SavedFilenameServer string           `json:"saved_filename_server" msgpack:"saved_filename_server"`
	ProcessingStatus    ProcessingStatus `json:"processing_status" msgpack:"processing_status"`
	Summary             string           `json:"simulated_text_summary" msgpack:"simulated_text_summary"`
	ErrorInfo           string           `json:"error_info" msgpack:"error_info"`
}

// StatusFor maps a save outcome to its processing status.
func StatusFor(saved bool) ProcessingStatus {
	if saved {
		return StatusSimulatedComplete
	}
	return StatusErrorSavingFile
}
