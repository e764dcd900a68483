package errors

import (
	"strings"
	"testing"
)

func TestSafeExecute(t *testing.T) {
	tests := []struct {
		name      string
		fn        func() error
		wantErr   bool
		wantPanic bool
	}{
		{
			name:    "successful execution",
			fn:      func() error { return nil },
			wantErr: false,
		},
		{
			name:    "ordinary error passes through",
			fn:      func() error { return New("fit failed") },
			wantErr: true,
		},
		{
			name:      "panic converted to error",
			fn:        func() error { panic("index out of range") },
			wantErr:   true,
			wantPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := SafeExecute("estimator fit", tt.fn)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SafeExecute() error = %v, wantErr %v", err, tt.wantErr)
			}

			if tt.wantPanic {
				var pErr *PanicError
				if !As(err, &pErr) {
					t.Fatalf("expected *PanicError, got %T: %v", err, err)
				}
				if pErr.Operation != "estimator fit" {
					t.Errorf("Operation = %q, want %q", pErr.Operation, "estimator fit")
				}
				if pErr.StackTrace == "" {
					t.Error("StackTrace is empty")
				}
			}
		})
	}
}

func TestRecoverWrapsExistingError(t *testing.T) {
	run := func() (err error) {
		defer Recover(&err, "scoring")
		err = New("original failure")
		panic("secondary panic")
	}

	err := run()
	if err == nil {
		t.Fatal("expected error after panic")
	}
	msg := err.Error()
	if !strings.Contains(msg, "secondary panic") || !strings.Contains(msg, "original failure") {
		t.Errorf("wrapped message %q should mention both the panic and the original error", msg)
	}
}
