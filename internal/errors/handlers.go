package errors

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// ErrorHandler provides interface-specific error handling
type ErrorHandler interface {
	HandleError(err error) *AppError
	FormatError(err error) string
}

// CLIErrorHandler formats the fatal errors reported before the TUI starts
type CLIErrorHandler struct {
	Logger *logrus.Logger
}

// NewCLIErrorHandler creates a new CLI error handler
func NewCLIErrorHandler(logger *logrus.Logger) *CLIErrorHandler {
	return &CLIErrorHandler{Logger: logger}
}

// HandleError logs err and returns it as an AppError
func (h *CLIErrorHandler) HandleError(err error) *AppError {
	appErr := GetAppError(err)
	logError(h.Logger, appErr)
	return appErr
}

// FormatError formats an error for terminal display
func (h *CLIErrorHandler) FormatError(err error) string {
	appErr := GetAppError(err)

	switch appErr.Severity {
	case SeverityCritical:
		return fmt.Sprintf("CRITICAL: %s", describe(appErr))
	case SeverityError:
		return fmt.Sprintf("ERROR: %s", describe(appErr))
	case SeverityWarning:
		return fmt.Sprintf("WARNING: %s", describe(appErr))
	default:
		return describe(appErr)
	}
}

// TUIErrorHandler turns errors into banner text for the session
type TUIErrorHandler struct {
	Logger      *logrus.Logger
	ShowDetails bool
}

// NewTUIErrorHandler creates a new TUI error handler
func NewTUIErrorHandler(logger *logrus.Logger, showDetails bool) *TUIErrorHandler {
	return &TUIErrorHandler{
		Logger:      logger,
		ShowDetails: showDetails,
	}
}

// HandleError logs err and returns it as an AppError
func (h *TUIErrorHandler) HandleError(err error) *AppError {
	appErr := GetAppError(err)
	logError(h.Logger, appErr)
	return appErr
}

// FormatError formats an error for the banner line
func (h *TUIErrorHandler) FormatError(err error) string {
	appErr := GetAppError(err)

	message := appErr.Message
	if h.ShowDetails && appErr.Details != "" {
		message = fmt.Sprintf("%s (%s)", message, appErr.Details)
	}
	return message
}

// GetErrorStyle returns an icon and a color for the banner based on severity
func (h *TUIErrorHandler) GetErrorStyle(err error) (string, string) {
	appErr := GetAppError(err)

	switch appErr.Severity {
	case SeverityCritical:
		return "✗", "#ff0000"
	case SeverityError:
		return "✗", "#ff6b6b"
	case SeverityWarning:
		return "!", "#feca57"
	case SeverityInfo:
		return "i", "#48cae4"
	default:
		return "✗", "#ff6b6b"
	}
}

func describe(appErr *AppError) string {
	if appErr.Cause != nil && appErr.Code == ErrCodeStartupFailure {
		return fmt.Sprintf("%s: %v", appErr.Message, appErr.Cause)
	}
	return appErr.Message
}

func logError(logger *logrus.Logger, appErr *AppError) {
	if logger == nil {
		return
	}

	entry := logger.WithFields(logrus.Fields{
		"code":     appErr.Code,
		"category": appErr.Category,
		"severity": appErr.Severity,
	})
	if appErr.Cause != nil {
		entry = entry.WithField("cause", appErr.Cause.Error())
	}
	for k, v := range appErr.Context {
		entry = entry.WithField(k, v)
	}

	switch appErr.Severity {
	case SeverityInfo:
		entry.Info(appErr.Message)
	case SeverityWarning:
		entry.Warn(appErr.Message)
	default:
		entry.Error(appErr.Message)
	}
}
