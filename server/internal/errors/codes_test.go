package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEngineErrorMessage(t *testing.T) {
	err := InvalidArgument("limit must be a positive integer")
	assert.Equal(t, "[INVALID_ARGUMENT] limit must be a positive integer", err.Error())

	cause := errors.New("connection refused")
	wrapped := StorageUnavailable("failed to list experiences", cause)
	assert.Equal(t, "[STORAGE_UNAVAILABLE] failed to list experiences: connection refused", wrapped.Error())
	assert.Equal(t, cause, errors.Unwrap(wrapped))
}

func TestErrorCodeClassification(t *testing.T) {
	err := Wrap(errors.New("disk full"), ErrCodeStorageUnavailable, "fold failed")
	assert.True(t, IsCode(err, ErrCodeStorageUnavailable))
	assert.False(t, IsCode(err, ErrCodeInvalidArgument))
	assert.Equal(t, ErrCodeStorageUnavailable, GetCodeFromError(err, ErrCodeInvalidArgument))

	// Plain errors fall back to the default class.
	plain := errors.New("boom")
	assert.False(t, IsCode(plain, ErrCodeStorageUnavailable))
	assert.Equal(t, ErrCodeStorageUnavailable, GetCodeFromError(plain, ErrCodeStorageUnavailable))
}
