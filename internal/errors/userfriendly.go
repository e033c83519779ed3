package errors

import (
	"fmt"
	"strings"
)

// UserFriendlyError provides user-friendly error messages with context and hints
type UserFriendlyError struct {
	Message string
	Reason  string
	Hint    string
	Try     string
	Err     error
}

func (e UserFriendlyError) Error() string {
	var buf strings.Builder
	buf.WriteString(e.Message)
	if e.Reason != "" {
		buf.WriteString("\n  Reason: " + e.Reason)
	}
	if e.Hint != "" {
		buf.WriteString("\n  Hint: " + e.Hint)
	}
	if e.Try != "" {
		buf.WriteString("\n  Try: " + e.Try)
	}
	if e.Err != nil {
		buf.WriteString("\n  Details: " + e.Err.Error())
	}
	return buf.String()
}

func (e UserFriendlyError) Unwrap() error {
	return e.Err
}

// WrapConfigError wraps configuration loading/validation errors with
// user-friendly context.
func WrapConfigError(err error, configPath string) error {
	if err == nil {
		return nil
	}

	return UserFriendlyError{
		Message: fmt.Sprintf("Configuration error in %s", configPath),
		Reason:  err.Error(),
		Hint:    "Check admin/persist/program/limits/scan/snapshot/log sections against the documented schema",
		Try:     fmt.Sprintf("ladderctl serve --config %s", configPath),
		Err:     err,
	}
}

// WrapProgramLoadError wraps program-document decode/load errors.
func WrapProgramLoadError(err error, programPath string) error {
	if err == nil {
		return nil
	}

	return UserFriendlyError{
		Message: fmt.Sprintf("Failed to load ladder program from %s", programPath),
		Reason:  extractProgramReason(err),
		Hint:    "The program document must be valid JSON with a \"nodes\" array and a \"linkData\" array",
		Try:     fmt.Sprintf("ladderctl load --addr <host:port> %s", programPath),
		Err:     err,
	}
}

// WrapAddressError wraps a memory-address resolution failure.
func WrapAddressError(err error, address string) error {
	if err == nil {
		return nil
	}

	return UserFriendlyError{
		Message: fmt.Sprintf("Invalid memory address %q", address),
		Reason:  err.Error(),
		Hint:    "Addresses take the form M<n>, I<n>, Q<n>, D<n>, D<n>.<bit>, T<n>, or C<n>",
		Try:     "Check the address against the program document's node/link records",
		Err:     err,
	}
}

// WrapAdminProtocolError wraps a malformed or unexpected admin-transport
// command line.
func WrapAdminProtocolError(err error, line string) error {
	if err == nil {
		return nil
	}

	return UserFriendlyError{
		Message: "Malformed admin command",
		Reason:  err.Error(),
		Hint:    "Expected RUN, STOP, RESET, /load, SET <ADDR> <VALUE>, or PROGRAM followed by one JSON line",
		Try:     fmt.Sprintf("Check the offending line: %q", line),
		Err:     err,
	}
}

// WrapRemoteDeployError wraps an SSH/SFTP program transfer failure (used by
// both deploy and fetch).
func WrapRemoteDeployError(err error, target string) error {
	if err == nil {
		return nil
	}

	return UserFriendlyError{
		Message: fmt.Sprintf("Failed to transfer program to or from %s", target),
		Reason:  extractTransportReason(err),
		Hint:    "Verify SSH credentials, host key, and that the remote program path is accessible",
		Try:     fmt.Sprintf("ladderctl deploy|fetch --ssh %s --remote-path <path> <local-program.json>", target),
		Err:     err,
	}
}

func extractProgramReason(err error) string {
	errStr := err.Error()

	if strings.Contains(errStr, "unexpected end of JSON") || strings.Contains(errStr, "invalid character") {
		return "The program document is not valid JSON"
	}
	if strings.Contains(errStr, "duplicate") {
		return "The program document has a duplicate node or link id"
	}
	if strings.Contains(errStr, "capacity") || strings.Contains(errStr, "exceeds") {
		return "The program document exceeds a configured memory/node/link capacity"
	}

	return "Program document could not be loaded"
}

func extractTransportReason(err error) string {
	errStr := err.Error()

	if strings.Contains(errStr, "timeout") || strings.Contains(errStr, "deadline exceeded") {
		return "Connection timeout - the remote host may be offline or unreachable"
	}
	if strings.Contains(errStr, "connection refused") {
		return "Connection refused - the remote host may not be listening for SSH"
	}
	if strings.Contains(errStr, "no authentication methods") {
		return "No usable SSH credentials - configure an agent, key file, or password"
	}
	if strings.Contains(errStr, "handshake") {
		return "SSH handshake failed - check host key and protocol compatibility"
	}

	return "Remote deploy failed"
}
