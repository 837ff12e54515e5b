// SPDX-License-Identifier: MIT

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldRequestID     = "request_id"
	FieldCorrelationID = "correlation_id"
	FieldSubmissionID  = "submission_id"

	// Process fields
	FieldEvent     = "event"
	FieldComponent = "component"

	// Domain fields
	FieldPackage  = "package"
	FieldService  = "service_type"
	FieldSessions = "sessions"
	FieldCacheKey = "cache_key"
	FieldRecords  = "records"

	// Path / URL fields
	FieldPath       = "path"
	FieldContentDir = "content_dir"
)
