// Package errors provides standardized error handling for pdfmerge.
// It defines the error kinds surfaced to users (capacity, empty merge,
// merge failure) along with helpers for creating, wrapping and inspecting
// them across the file list, dispatcher and front ends.
package errors

import (
	"errors"
	"fmt"
)

// Standard errors package errors that we re-export for convenience
var (
	// Unwrap unwraps an error to access the underlying error
	Unwrap = errors.Unwrap
	// Is reports whether any error in err's chain matches target
	Is = errors.Is
	// As finds the first error in err's chain that matches target
	As = errors.As
)

// ErrorKind represents the kind of error
type ErrorKind int

// Error kinds
const (
	Unknown ErrorKind = iota
	// File error kinds
	FileNotFound
	FileAccessDenied
	InvalidPath
	NotPDF
	// File list kinds
	CapacityExceeded
	EmptyFileList
	// Merge kinds
	MergeInProgress
	MergeFailed
	// Config error kinds
	InvalidConfig
	ConfigNotFound
)

var kindNames = map[ErrorKind]string{
	Unknown:          "unknown",
	FileNotFound:     "file_not_found",
	FileAccessDenied: "file_access_denied",
	InvalidPath:      "invalid_path",
	NotPDF:           "not_pdf",
	CapacityExceeded: "capacity_exceeded",
	EmptyFileList:    "empty_file_list",
	MergeInProgress:  "merge_in_progress",
	MergeFailed:      "merge_failed",
	InvalidConfig:    "invalid_config",
	ConfigNotFound:   "config_not_found",
}

// String returns a stable, log-friendly name for the kind.
func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Common error values for frequently occurring errors
var (
	ErrNotPDF           = NewFileError("not a PDF file", "", NotPDF, nil)
	ErrEmptyFileList    = NewKind("no PDF files to merge", EmptyFileList)
	ErrMergeInProgress  = NewKind("a merge is already running", MergeInProgress)
	ErrCapacityExceeded = NewKind("file list is full", CapacityExceeded)
)

// ApplicationError is the base error type for all application errors
type ApplicationError struct {
	msg  string
	err  error
	kind ErrorKind
}

// Error returns the error message
func (e *ApplicationError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

// Unwrap returns the wrapped error
func (e *ApplicationError) Unwrap() error {
	return e.err
}

// Kind returns the kind of error
func (e *ApplicationError) Kind() ErrorKind {
	return e.kind
}

// FileError represents errors related to a specific file
type FileError struct {
	ApplicationError
	path string
}

// NewFileError creates a new file error
func NewFileError(msg string, path string, kind ErrorKind, err error) *FileError {
	return &FileError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		path: path,
	}
}

// Error returns the file error message
func (e *FileError) Error() string {
	if e.path != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.path, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.path)
	}
	return e.ApplicationError.Error()
}

// Path returns the file path associated with the error
func (e *FileError) Path() string {
	return e.path
}

// ConfigError represents errors related to configuration
type ConfigError struct {
	ApplicationError
	param string
}

// NewConfigError creates a new configuration error
func NewConfigError(msg string, param string, kind ErrorKind, err error) *ConfigError {
	return &ConfigError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		param: param,
	}
}

// Error returns the config error message
func (e *ConfigError) Error() string {
	if e.param != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.param, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.param)
	}
	return e.ApplicationError.Error()
}

// Param returns the configuration parameter associated with the error
func (e *ConfigError) Param() string {
	return e.param
}

// MergeError is returned when the merge routine fails for a destination.
type MergeError struct {
	ApplicationError
	destination string
}

// NewMergeError creates a new merge error for the given destination
func NewMergeError(destination string, err error) *MergeError {
	return &MergeError{
		ApplicationError: ApplicationError{
			msg:  "merge failed",
			err:  err,
			kind: MergeFailed,
		},
		destination: destination,
	}
}

// Error returns the merge error message
func (e *MergeError) Error() string {
	if e.destination != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.destination, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.destination)
	}
	return e.ApplicationError.Error()
}

// Destination returns the output path the merge was writing to
func (e *MergeError) Destination() string {
	return e.destination
}

// New creates a new error with a message
func New(msg string) error {
	return &ApplicationError{
		msg:  msg,
		kind: Unknown,
	}
}

// Newf creates a new error with a formatted message
func Newf(format string, args ...interface{}) error {
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		kind: Unknown,
	}
}

// NewKind creates a new error of the given kind
func NewKind(msg string, kind ErrorKind) *ApplicationError {
	return &ApplicationError{
		msg:  msg,
		kind: kind,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  msg,
		err:  err,
		kind: Unknown,
	}
}

// Wrapf wraps an existing error with additional formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		err:  err,
		kind: Unknown,
	}
}

type kinded interface {
	Kind() ErrorKind
}

// KindOf returns the kind of the outermost kinded error in err's chain,
// or Unknown when there is none.
func KindOf(err error) ErrorKind {
	var k kinded
	if errors.As(err, &k) {
		return k.Kind()
	}
	return Unknown
}

// HasKind reports whether any error in err's chain carries the given kind.
func HasKind(err error, kind ErrorKind) bool {
	for err != nil {
		if k, ok := err.(kinded); ok && k.Kind() == kind {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

// IsFileNotFound checks if the error is a file not found error
func IsFileNotFound(err error) bool {
	return HasKind(err, FileNotFound)
}

// IsFileAccessDenied checks if the error is a file access denied error
func IsFileAccessDenied(err error) bool {
	return HasKind(err, FileAccessDenied)
}

// IsNotPDF checks if the error rejects a non-PDF path
func IsNotPDF(err error) bool {
	return HasKind(err, NotPDF)
}

// IsCapacityExceeded checks if the error signals a full file list
func IsCapacityExceeded(err error) bool {
	return HasKind(err, CapacityExceeded)
}

// IsEmptyFileList checks if the error signals a merge with no inputs
func IsEmptyFileList(err error) bool {
	return HasKind(err, EmptyFileList)
}

// IsMergeInProgress checks if the error signals a concurrent merge attempt
func IsMergeInProgress(err error) bool {
	return HasKind(err, MergeInProgress)
}

// IsMergeFailed checks if the error came from the merge routine
func IsMergeFailed(err error) bool {
	return HasKind(err, MergeFailed)
}

// IsInvalidConfig checks if the error is an invalid configuration error
func IsInvalidConfig(err error) bool {
	return HasKind(err, InvalidConfig)
}

// IsWarning reports whether err should be shown as a warning rather than
// an error: the user asked for something the list cannot do right now.
func IsWarning(err error) bool {
	switch KindOf(err) {
	case CapacityExceeded, EmptyFileList, MergeInProgress, NotPDF:
		return true
	}
	return false
}
