package logger

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"syscall"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockLogLevel is a valid zapcore.Level value for testing.
const mockLogLevel int8 = 0 // zapcore.InfoLevel

func TestGetReturnsSameInstanceOnSubsequentCalls(t *testing.T) {
	logger1 := Get(mockLogLevel)
	logger2 := Get(mockLogLevel)
	require.NotNil(t, logger1)
	assert.Same(t, logger1, logger2)
}

func TestSetupAfterGetIgnoresNewOptions(t *testing.T) {
	first := Get(mockLogLevel)
	second, err := Setup(Options{Level: -1, Path: filepath.Join(t.TempDir(), "ignored.log")})
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestGetReturnsNoopLoggerIfGlobalLoggerNil(t *testing.T) {
	Get(mockLogLevel)
	orig := globalLogrLogger
	globalLogrLogger = nil
	defer func() { globalLogrLogger = orig }()

	assert.Same(t, &defaultNoopLogger, Get(mockLogLevel))
}

func TestWithLoggerAddsLoggerToContext(t *testing.T) {
	logger := Get(mockLogLevel)
	ctx := WithLogger(context.Background(), logger)
	assert.Same(t, logger, FromContext(ctx))
}

func TestWithLoggerReturnsSameContextIfLoggerAlreadySet(t *testing.T) {
	logger := Get(mockLogLevel)
	ctx := WithLogger(context.Background(), logger)
	assert.Equal(t, ctx, WithLogger(ctx, logger))
}

func TestWithLoggerReplacesLoggerIfDifferent(t *testing.T) {
	ctx := WithLogger(context.Background(), Get(mockLogLevel))
	other := logr.Discard()
	assert.Same(t, &other, FromContext(WithLogger(ctx, &other)))
}

func TestFromContextFallsBackToGlobal(t *testing.T) {
	global := Get(mockLogLevel)
	assert.Same(t, global, FromContext(context.Background()))
}

func TestFromContextReturnsNoopLoggerIfNothingConfigured(t *testing.T) {
	orig := globalLogrLogger
	globalLogrLogger = nil
	defer func() { globalLogrLogger = orig }()

	assert.Same(t, &defaultNoopLogger, FromContext(context.Background()))
	assert.Same(t, &defaultNoopLogger, GetGlobalLogger())
}

func TestSyncDoesNotPanicWhenGlobalZapLoggerIsNil(t *testing.T) {
	orig := globalZapLogger
	globalZapLogger = nil
	defer func() { globalZapLogger = orig }()

	assert.NotPanics(t, Sync)
}

func TestGetNoopLoggerIsNoop(t *testing.T) {
	assert.NotPanics(t, func() { GetNoopLogger().Info("This should do nothing") })
}

func TestWithValuesReturnsNewLogger(t *testing.T) {
	logger := Get(mockLogLevel)
	newLogger := WithValues(logger, "testKey", "testValue")
	require.NotNil(t, newLogger)
	assert.NotSame(t, logger, newLogger)
}

func TestWithValuesHandlesNilLogger(t *testing.T) {
	var logger *logr.Logger
	assert.Panics(t, func() { _ = WithValues(logger, "key", "value") })
}

func TestOpenLogFileCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "searchbar.log")
	f, err := openLogFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, path, f.Name())
}

func TestDefaultLogPath(t *testing.T) {
	path := DefaultLogPath()
	assert.True(t, strings.HasSuffix(path, filepath.Join("searchbar", "searchbar.log")), path)
}

func TestIsIgnorableSyncError(t *testing.T) {
	assert.True(t, isIgnorableSyncError(syscall.ENOTTY))
	assert.True(t, isIgnorableSyncError(errors.New("sync /dev/stderr: The handle is invalid.")))
	assert.False(t, isIgnorableSyncError(errors.New("disk full")))
}
