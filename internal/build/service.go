// Package build orchestrates generative build recommendations: it keeps the
// cache artifacts fresh, ships them to the generative content service, and
// drives the contextual exchange that produces the build.
package build

import (
	"context"
	"fmt"
)

// FileState is the processing state of an uploaded artifact.
type FileState string

const (
	StateUploaded   FileState = "UPLOADED"
	StateProcessing FileState = "PROCESSING"
	StateActive     FileState = "ACTIVE"
	StateFailed     FileState = "FAILED"
)

// FileRef is the handle the generative service returns for an uploaded
// artifact.
type FileRef struct {
	Name        string
	DisplayName string
	URI         string
	MIMEType    string
	State       FileState
}

// Reply is the outcome of one contextual exchange. BlockReason is set when
// the service declined to answer for policy reasons; that is a normal result
// variant, not an error.
type Reply struct {
	Text        string
	BlockReason string
}

// GenerativeService is the capability surface of the external generative
// content API. Implementations must be safe for concurrent use.
type GenerativeService interface {
	// Upload ships a local file and returns its handle.
	Upload(ctx context.Context, path, mimeType, displayName string) (FileRef, error)
	// FileState looks up the current processing state of an uploaded file.
	FileState(ctx context.Context, name string) (FileRef, error)
	// Converse opens an exchange seeded with the uploaded files and submits
	// the prompt as the user turn.
	Converse(ctx context.Context, files []FileRef, prompt string) (*Reply, error)
}

// FileProcessingError reports that an uploaded artifact reached a terminal
// non-active state. It is fatal to the build request that uploaded it.
type FileProcessingError struct {
	File string
}

func (e *FileProcessingError) Error() string {
	return fmt.Sprintf("file %s failed to process", e.File)
}
