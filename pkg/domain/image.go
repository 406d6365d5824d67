package domain

import (
	"path/filepath"
	"strings"
)

// FileState represents the lifecycle state of a single image file as it moves
// through the pipeline. Every file ends in exactly one of the terminal states
// (quarantined, transformed, skipped or failed) within a run.
type FileState string

const (
	// FileStateDiscovered indicates the file was listed by the scanner but not
	// yet touched.
	FileStateDiscovered FileState = "DISCOVERED"
	// FileStateExtracted indicates text extraction finished and produced a
	// non-empty result.
	FileStateExtracted FileState = "EXTRACTED"
	// FileStateClassified indicates a moderation verdict was obtained.
	FileStateClassified FileState = "CLASSIFIED"
	// FileStateQuarantined is the terminal state for flagged files that were
	// moved into the quarantine folder.
	FileStateQuarantined FileState = "QUARANTINED"
	// FileStateTransformed is the terminal state for files that went through
	// the geometric transform (including a no-op transform).
	FileStateTransformed FileState = "TRANSFORMED"
	// FileStateSkipped is the terminal state for files that produced no text
	// and therefore could not be evaluated.
	FileStateSkipped FileState = "SKIPPED"
	// FileStateFailed is the terminal state for files whose processing was
	// aborted by an unexpected error caught at the file boundary.
	FileStateFailed FileState = "FAILED"
)

// Outcome is the result of applying the geometric transform to one image.
type Outcome string

const (
	// OutcomeCropped indicates the image was replaced by a cropped sub-region.
	OutcomeCropped Outcome = "CROPPED"
	// OutcomeDeleted indicates the image was removed because of an unusual
	// aspect ratio.
	OutcomeDeleted Outcome = "DELETED"
	// OutcomeUnchanged indicates no transformation was attempted, typically
	// because the image geometry could not be read.
	OutcomeUnchanged Outcome = "UNCHANGED"
	// OutcomeFailed indicates the transform was attempted but did not
	// complete; the original file is left in place.
	OutcomeFailed Outcome = "FAILED"
)

// imageExtensions is the fixed allow-list of file extensions the pipeline
// considers images. Comparison is case-insensitive.
var imageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".bmp":  {},
}

// IsImageFile reports whether the path carries one of the supported image
// extensions.
func IsImageFile(path string) bool {
	_, ok := imageExtensions[strings.ToLower(filepath.Ext(path))]

	return ok
}

// RunStats aggregates the counters of a single pipeline run. It is owned by
// the orchestrator, mutated only by the single execution stream and returned
// as a value when the run finishes.
type RunStats struct {
	// Found is the number of image files discovered by the scanner.
	Found int
	// Processed is the number of files that obtained a moderation verdict
	// (quarantined or transformed). Skipped and failed files are not counted.
	Processed int
	// Quarantined is the number of files successfully moved into the
	// quarantine folder.
	Quarantined int
	// Skipped is the number of files that produced no extractable text.
	Skipped int
	// Failed is the number of files whose processing was aborted by an error
	// caught at the file boundary.
	Failed int
}
