package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	err := New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())

	err = Newf("formatted %s", "error")
	assert.NotNil(t, err)
	assert.Equal(t, "formatted error", err.Error())

	var appErr *ApplicationError
	assert.True(t, As(err, &appErr))
	assert.Equal(t, "formatted error", appErr.Error())
	assert.Equal(t, Unknown, appErr.Kind())
}

func TestWrapping(t *testing.T) {
	origErr := New("original error")
	wrappedErr := Wrap(origErr, "wrapped")
	assert.NotNil(t, wrappedErr)
	assert.Equal(t, "wrapped: original error", wrappedErr.Error())

	assert.Equal(t, origErr, Unwrap(wrappedErr))

	wrappedFormatted := Wrapf(origErr, "formatted %s", "wrapper")
	assert.Equal(t, "formatted wrapper: original error", wrappedFormatted.Error())

	// Wrapping nil returns nil
	assert.Nil(t, Wrap(nil, "wrapper"))
	assert.Nil(t, Wrapf(nil, "formatted %s", "wrapper"))

	deepWrapped := Wrap(wrappedErr, "deeper")
	assert.Equal(t, "deeper: wrapped: original error", deepWrapped.Error())
	assert.True(t, Is(deepWrapped, origErr))
}

func TestFileError(t *testing.T) {
	fileErr := NewFileError("cannot access", "/path/to/file.pdf", FileAccessDenied, nil)
	assert.Equal(t, "cannot access: /path/to/file.pdf", fileErr.Error())
	assert.Equal(t, "/path/to/file.pdf", fileErr.Path())
	assert.Equal(t, FileAccessDenied, fileErr.Kind())

	origErr := fmt.Errorf("permission denied")
	fileErr = NewFileError("cannot access", "/path/to/file.pdf", FileAccessDenied, origErr)
	assert.Equal(t, "cannot access: /path/to/file.pdf: permission denied", fileErr.Error())
	assert.Equal(t, origErr, Unwrap(fileErr))

	assert.Equal(t, "not a PDF file", ErrNotPDF.Error())
	assert.Equal(t, NotPDF, ErrNotPDF.Kind())

	notFoundErr := NewFileError("file not found", "/missing.pdf", FileNotFound, nil)
	assert.True(t, IsFileNotFound(notFoundErr))
	assert.False(t, IsFileNotFound(fileErr))
	assert.True(t, IsFileAccessDenied(fileErr))

	notPDF := NewFileError("not a PDF file", "/notes.txt", NotPDF, nil)
	assert.True(t, IsNotPDF(notPDF))
	assert.True(t, IsWarning(notPDF))
}

func TestConfigError(t *testing.T) {
	configErr := NewConfigError("invalid value", "gui.width", InvalidConfig, nil)
	assert.Equal(t, "invalid value: gui.width", configErr.Error())
	assert.Equal(t, "gui.width", configErr.Param())
	assert.True(t, IsInvalidConfig(configErr))
	assert.False(t, IsInvalidConfig(New("some other error")))

	var ce *ConfigError
	assert.True(t, As(Wrap(configErr, "loading"), &ce))
	assert.Equal(t, "gui.width", ce.Param())
}

func TestMergeError(t *testing.T) {
	cause := fmt.Errorf("disk full")
	mergeErr := NewMergeError("/out/merged.pdf", cause)
	assert.Equal(t, "merge failed: /out/merged.pdf: disk full", mergeErr.Error())
	assert.Equal(t, "/out/merged.pdf", mergeErr.Destination())
	assert.True(t, IsMergeFailed(mergeErr))
	assert.True(t, Is(mergeErr, cause))
	assert.False(t, IsWarning(mergeErr))
}

func TestListKinds(t *testing.T) {
	assert.True(t, IsCapacityExceeded(ErrCapacityExceeded))
	assert.True(t, IsEmptyFileList(Wrap(ErrEmptyFileList, "merge")))
	assert.True(t, IsMergeInProgress(ErrMergeInProgress))

	for _, err := range []error{ErrCapacityExceeded, ErrEmptyFileList, ErrMergeInProgress} {
		assert.True(t, IsWarning(err), err.Error())
	}
	assert.False(t, IsWarning(nil))
	assert.Equal(t, Unknown, KindOf(errors.New("plain")))
}

func TestErrorChains(t *testing.T) {
	baseErr := errors.New("base error")
	fileErr := NewFileError("file error", "/path/a.pdf", FileNotFound, baseErr)
	mergeErr := NewMergeError("/out.pdf", fileErr)

	assert.Equal(t, "merge failed: /out.pdf: file error: /path/a.pdf: base error", mergeErr.Error())
	assert.True(t, Is(mergeErr, baseErr))

	var fe *FileError
	assert.True(t, As(mergeErr, &fe))
	assert.Equal(t, "/path/a.pdf", fe.Path())

	// The outer kind wins for KindOf; HasKind sees the whole chain.
	assert.Equal(t, MergeFailed, KindOf(mergeErr))
	assert.True(t, IsFileNotFound(mergeErr))
	assert.True(t, IsMergeFailed(mergeErr))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "capacity_exceeded", CapacityExceeded.String())
	assert.Equal(t, "kind(99)", ErrorKind(99).String())
}
