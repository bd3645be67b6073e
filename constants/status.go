package constants

// PipelineStatus is the canonical state of a chat session's document pipeline.
type PipelineStatus string

// Stable values (logged as these exact strings).
const (
	StatusIdle        PipelineStatus = "IDLE"         // no document selected yet
	StatusExtracting  PipelineStatus = "EXTRACTING"   // text-layer extraction in progress
	StatusOCRFallback PipelineStatus = "OCR_FALLBACK" // no text layer; OCR in progress
	StatusReady       PipelineStatus = "READY"        // corpus extracted, questions allowed
	StatusProcessing  PipelineStatus = "PROCESSING"   // a completion request is in flight
	StatusError       PipelineStatus = "ERROR"        // terminal until a new file is selected
)
