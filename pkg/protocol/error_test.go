package protocol

import "testing"

func TestErrorMessageRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		em   *ErrorMessage
	}{
		{
			name: "non_fatal",
			em:   NewError(ErrUnknownTarget, "no element \"ghost-1\""),
		},
		{
			name: "fatal",
			em:   NewFatalError(ErrServerError, "session worker panicked"),
		},
		{
			name: "empty_message",
			em:   NewError(ErrInvalidFrame, ""),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			decoded, err := DecodeErrorMessage(EncodeErrorMessage(tc.em))
			if err != nil {
				t.Fatalf("DecodeErrorMessage() error = %v", err)
			}

			if decoded.Code != tc.em.Code {
				t.Errorf("Code = %v, want %v", decoded.Code, tc.em.Code)
			}
			if decoded.Message != tc.em.Message {
				t.Errorf("Message = %q, want %q", decoded.Message, tc.em.Message)
			}
			if decoded.Fatal != tc.em.Fatal {
				t.Errorf("Fatal = %v, want %v", decoded.Fatal, tc.em.Fatal)
			}
		})
	}
}

func TestErrorMessageError(t *testing.T) {
	em := NewError(ErrUnknownOverlay, "ov-9 not bound")
	if got := em.Error(); got != "UnknownOverlay: ov-9 not bound" {
		t.Errorf("Error() = %q", got)
	}
	if em.IsFatal() {
		t.Error("IsFatal() = true for NewError")
	}

	fatal := NewFatalError(ErrServerError, "boom")
	if got := fatal.Error(); got != "fatal: ServerError: boom" {
		t.Errorf("Error() = %q", got)
	}
	if !fatal.IsFatal() {
		t.Error("IsFatal() = false for NewFatalError")
	}
}

func TestDecodeErrorMessageTruncated(t *testing.T) {
	full := EncodeErrorMessage(NewError(ErrInvalidEvent, "bad"))

	for i := 0; i < len(full); i++ {
		if _, err := DecodeErrorMessage(full[:i]); err == nil {
			t.Errorf("DecodeErrorMessage(%d of %d bytes) succeeded, want error", i, len(full))
		}
	}
}

func TestErrorCodeString(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want string
	}{
		{ErrUnknown, "Unknown"},
		{ErrInvalidFrame, "InvalidFrame"},
		{ErrInvalidEvent, "InvalidEvent"},
		{ErrInvalidBind, "InvalidBind"},
		{ErrUnknownTarget, "UnknownTarget"},
		{ErrUnknownOverlay, "UnknownOverlay"},
		{ErrServerError, "ServerError"},
		{ErrorCode(0x7777), "Unknown"},
	}

	for _, tc := range tests {
		if got := tc.code.String(); got != tc.want {
			t.Errorf("ErrorCode(0x%04X).String() = %q, want %q", uint16(tc.code), got, tc.want)
		}
	}
}
