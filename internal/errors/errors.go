// Package errors defines the error taxonomy shared across the gateway.
package errors

import (
	"errors"
	"fmt"
)

// Predefined errors
var (
	ErrMalformedFrame     = errors.New("malformed frame")
	ErrChannelUnavailable = errors.New("inference channel unavailable")
	ErrChannelClosed      = errors.New("inference channel is closed")
	ErrDuplicateSession   = errors.New("session already exists")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
	ErrQueueFull          = errors.New("frame queue is full")
	ErrClientNotConnected = errors.New("inference client not connected")
)

// FrameError wraps a frame decode or encode failure.
type FrameError struct {
	Type    string
	Message string
	Cause   error
}

func (e *FrameError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("frame error [%s]: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("frame error [%s]: %s", e.Type, e.Message)
}

func (e *FrameError) Unwrap() error {
	return e.Cause
}

// NewFrameError creates a frame error.
func NewFrameError(frameType, message string, cause error) *FrameError {
	return &FrameError{
		Type:    frameType,
		Message: message,
		Cause:   cause,
	}
}

// SessionError wraps a session lifecycle failure.
type SessionError struct {
	SessionID string
	Message   string
	Cause     error
}

func (e *SessionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("session error [%s]: %s: %v", e.SessionID, e.Message, e.Cause)
	}
	return fmt.Sprintf("session error [%s]: %s", e.SessionID, e.Message)
}

func (e *SessionError) Unwrap() error {
	return e.Cause
}

// NewSessionError creates a session error.
func NewSessionError(sessionID, message string, cause error) *SessionError {
	return &SessionError{
		SessionID: sessionID,
		Message:   message,
		Cause:     cause,
	}
}

// ChannelError wraps an inference channel failure.
type ChannelError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *ChannelError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("channel error [%s]: %s: %v", e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("channel error [%s]: %s", e.Operation, e.Message)
}

func (e *ChannelError) Unwrap() error {
	return e.Cause
}

// NewChannelError creates a channel error.
func NewChannelError(operation, message string, cause error) *ChannelError {
	return &ChannelError{
		Operation: operation,
		Message:   message,
		Cause:     cause,
	}
}

// WrapMalformedFrame attaches a cause to ErrMalformedFrame.
func WrapMalformedFrame(message string, cause error) error {
	if cause == nil {
		return fmt.Errorf("%w: %s", ErrMalformedFrame, message)
	}
	return fmt.Errorf("%w: %s: %v", ErrMalformedFrame, message, cause)
}

// WrapChannelUnavailable attaches a cause to ErrChannelUnavailable.
func WrapChannelUnavailable(message string, cause error) error {
	if cause == nil {
		return fmt.Errorf("%w: %s", ErrChannelUnavailable, message)
	}
	return fmt.Errorf("%w: %s: %v", ErrChannelUnavailable, message, cause)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain matching target.
func As(err error, target any) bool {
	return errors.As(err, target)
}
