package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestUserFriendlyError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      UserFriendlyError
		contains []string
	}{
		{
			name:     "message only",
			err:      UserFriendlyError{Message: "something broke"},
			contains: []string{"something broke"},
		},
		{
			name: "all fields",
			err: UserFriendlyError{
				Message: "connection failed",
				Reason:  "timeout",
				Hint:    "check network",
				Try:     "ping host",
				Err:     fmt.Errorf("dial tcp: timeout"),
			},
			contains: []string{"connection failed", "Reason: timeout", "Hint: check network", "Try: ping host", "Details: dial tcp: timeout"},
		},
		{
			name: "no reason",
			err: UserFriendlyError{
				Message: "failed",
				Hint:    "hint here",
			},
			contains: []string{"failed", "Hint: hint here"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("Error() = %q, want to contain %q", msg, s)
				}
			}
		})
	}
}

func TestUserFriendlyError_ErrorOmitsEmptyFields(t *testing.T) {
	err := UserFriendlyError{Message: "msg"}
	msg := err.Error()
	if strings.Contains(msg, "Reason:") || strings.Contains(msg, "Hint:") || strings.Contains(msg, "Try:") || strings.Contains(msg, "Details:") {
		t.Errorf("Error() = %q, should not contain empty fields", msg)
	}
}

func TestUserFriendlyError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("root cause")
	err := UserFriendlyError{Message: "wrapper", Err: inner}

	if !errors.Is(err, inner) {
		t.Error("Unwrap should return the inner error")
	}

	var nilErr UserFriendlyError
	if nilErr.Unwrap() != nil {
		t.Error("Unwrap on nil Err should return nil")
	}
}

func TestWrapConfigError(t *testing.T) {
	t.Run("nil error returns nil", func(t *testing.T) {
		if WrapConfigError(nil, "config.yaml") != nil {
			t.Error("expected nil")
		}
	})

	t.Run("wraps config error", func(t *testing.T) {
		err := WrapConfigError(fmt.Errorf("invalid yaml"), "ladderctl.yaml")
		ufe := err.(UserFriendlyError)
		if !strings.Contains(ufe.Message, "ladderctl.yaml") {
			t.Errorf("message should contain config path, got %q", ufe.Message)
		}
		if ufe.Reason != "invalid yaml" {
			t.Errorf("reason should be inner error message, got %q", ufe.Reason)
		}
		if !strings.Contains(ufe.Hint, "admin/persist/program") {
			t.Errorf("hint should reference config sections, got %q", ufe.Hint)
		}
	})
}

func TestWrapProgramLoadError(t *testing.T) {
	t.Run("nil error returns nil", func(t *testing.T) {
		if WrapProgramLoadError(nil, "program.json") != nil {
			t.Error("expected nil")
		}
	})

	t.Run("malformed JSON", func(t *testing.T) {
		err := WrapProgramLoadError(fmt.Errorf("invalid character '}' looking for beginning of value"), "program.json")
		ufe := err.(UserFriendlyError)
		if !strings.Contains(ufe.Message, "program.json") {
			t.Errorf("message should contain program path, got %q", ufe.Message)
		}
		if !strings.Contains(ufe.Reason, "not valid JSON") {
			t.Errorf("reason should mention invalid JSON, got %q", ufe.Reason)
		}
	})

	t.Run("duplicate id", func(t *testing.T) {
		err := WrapProgramLoadError(fmt.Errorf("duplicate node id N1"), "program.json")
		ufe := err.(UserFriendlyError)
		if !strings.Contains(ufe.Reason, "duplicate") {
			t.Errorf("reason should mention duplicate, got %q", ufe.Reason)
		}
	})

	t.Run("capacity exceeded", func(t *testing.T) {
		err := WrapProgramLoadError(fmt.Errorf("node count exceeds max_nodes"), "program.json")
		ufe := err.(UserFriendlyError)
		if !strings.Contains(ufe.Reason, "capacity") {
			t.Errorf("reason should mention capacity, got %q", ufe.Reason)
		}
	})

	t.Run("generic error", func(t *testing.T) {
		err := WrapProgramLoadError(fmt.Errorf("something else"), "program.json")
		ufe := err.(UserFriendlyError)
		if ufe.Reason != "Program document could not be loaded" {
			t.Errorf("unexpected reason: %q", ufe.Reason)
		}
	})
}

func TestWrapAddressError(t *testing.T) {
	t.Run("nil error returns nil", func(t *testing.T) {
		if WrapAddressError(nil, "M5") != nil {
			t.Error("expected nil")
		}
	})

	t.Run("wraps address error", func(t *testing.T) {
		err := WrapAddressError(fmt.Errorf("unknown bank prefix X"), "X5")
		ufe := err.(UserFriendlyError)
		if !strings.Contains(ufe.Message, "X5") {
			t.Errorf("message should contain the address, got %q", ufe.Message)
		}
	})
}

func TestWrapAdminProtocolError(t *testing.T) {
	t.Run("nil error returns nil", func(t *testing.T) {
		if WrapAdminProtocolError(nil, "GARBAGE") != nil {
			t.Error("expected nil")
		}
	})

	t.Run("wraps protocol error", func(t *testing.T) {
		err := WrapAdminProtocolError(fmt.Errorf("unknown command"), "GARBAGE")
		ufe := err.(UserFriendlyError)
		if !strings.Contains(ufe.Try, "GARBAGE") {
			t.Errorf("try should quote the offending line, got %q", ufe.Try)
		}
	})
}

func TestWrapRemoteDeployError(t *testing.T) {
	t.Run("nil error returns nil", func(t *testing.T) {
		if WrapRemoteDeployError(nil, "plc-floor-3") != nil {
			t.Error("expected nil")
		}
	})

	t.Run("timeout error", func(t *testing.T) {
		err := WrapRemoteDeployError(fmt.Errorf("dial tcp: i/o timeout"), "plc-floor-3")
		ufe := err.(UserFriendlyError)
		if !strings.Contains(ufe.Message, "plc-floor-3") {
			t.Errorf("message should contain target, got %q", ufe.Message)
		}
		if !strings.Contains(ufe.Reason, "timeout") {
			t.Errorf("reason should mention timeout, got %q", ufe.Reason)
		}
	})

	t.Run("no auth methods", func(t *testing.T) {
		err := WrapRemoteDeployError(fmt.Errorf("no authentication methods available"), "plc-floor-3")
		ufe := err.(UserFriendlyError)
		if !strings.Contains(ufe.Reason, "credentials") {
			t.Errorf("reason should mention credentials, got %q", ufe.Reason)
		}
	})

	t.Run("generic error", func(t *testing.T) {
		err := WrapRemoteDeployError(fmt.Errorf("something else"), "plc-floor-3")
		ufe := err.(UserFriendlyError)
		if ufe.Reason != "Remote deploy failed" {
			t.Errorf("unexpected reason: %q", ufe.Reason)
		}
	})
}
