package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestIndexError(t *testing.T) {
	tests := []struct {
		name     string
		err      *IndexError
		wantMsg  string
		wantBase error
	}{
		{
			name:     "insert",
			err:      &IndexError{Op: "insert", Index: 42, Length: 10},
			wantMsg:  "insert: index 42 out of range for length 10",
			wantBase: ErrIndexOutOfRange,
		},
		{
			name:     "remove negative",
			err:      &IndexError{Op: "remove", Index: -1, Length: 5},
			wantMsg:  "remove: index -1 out of range for length 5",
			wantBase: ErrIndexOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
			if got := tt.err.Unwrap(); !errors.Is(got, tt.wantBase) {
				t.Errorf("Unwrap() = %v, want %v", got, tt.wantBase)
			}
		})
	}
}

func TestOrphanError(t *testing.T) {
	tests := []struct {
		name    string
		err     *OrphanError
		wantMsg string
	}{
		{
			name:    "run with name",
			err:     &OrphanError{Kind: "run", Name: "r1"},
			wantMsg: "orphaned run: r1",
		},
		{
			name:    "paragraph without name",
			err:     &OrphanError{Kind: "paragraph"},
			wantMsg: "orphaned paragraph",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
			if got := tt.err.Unwrap(); !errors.Is(got, ErrOrphaned) {
				t.Errorf("Unwrap() = %v, want %v", got, ErrOrphaned)
			}
		})
	}
}

func TestDuplicateNameError(t *testing.T) {
	err := NewDuplicateName("bookmark1")
	if got := err.Error(); got != "duplicate name: bookmark1" {
		t.Errorf("Error() = %q, want %q", got, "duplicate name: bookmark1")
	}
	if !errors.Is(err, ErrDuplicateName) {
		t.Errorf("errors.Is(err, ErrDuplicateName) = false, want true")
	}
}

func TestArgumentError(t *testing.T) {
	tests := []struct {
		name    string
		err     *ArgumentError
		wantMsg string
	}{
		{
			name:    "with field",
			err:     &ArgumentError{Field: "find", Message: "must not be empty"},
			wantMsg: "invalid argument find: must not be empty",
		},
		{
			name:    "without field",
			err:     &ArgumentError{Message: "start must precede end"},
			wantMsg: "invalid argument: start must precede end",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
			if got := tt.err.Unwrap(); !errors.Is(got, ErrInvalidArgument) {
				t.Errorf("Unwrap() = %v, want %v", got, ErrInvalidArgument)
			}
		})
	}

	// An explicit underlying error takes precedence over the sentinel
	t.Run("with underlying error", func(t *testing.T) {
		underlying := fmt.Errorf("bad rune")
		err := &ArgumentError{Field: "text", Message: "not valid UTF-8", Err: underlying}
		if got := err.Unwrap(); got != underlying {
			t.Errorf("Unwrap() = %v, want %v", got, underlying)
		}
	})
}

func TestNotFoundError(t *testing.T) {
	err := NewNotFound("bookmark", "b1")
	if got := err.Error(); got != "bookmark not found: b1" {
		t.Errorf("Error() = %q, want %q", got, "bookmark not found: b1")
	}
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("errors.Is(err, ErrNotFound) = false, want true")
	}
}

func TestWrap(t *testing.T) {
	if got := Wrap(nil, "context"); got != nil {
		t.Errorf("Wrap(nil) = %v, want nil", got)
	}

	base := NewIndex("split", 7, 3)
	wrapped := Wrap(base, "splitting run")
	if wrapped == nil {
		t.Fatal("Wrap() = nil, want error")
	}
	if got := wrapped.Error(); got != "splitting run: split: index 7 out of range for length 3" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(wrapped, ErrIndexOutOfRange) {
		t.Error("wrapped error lost its sentinel")
	}

	var idxErr *IndexError
	if !As(wrapped, &idxErr) {
		t.Fatal("As() failed to recover *IndexError")
	}
	if idxErr.Index != 7 {
		t.Errorf("Index = %d, want 7", idxErr.Index)
	}
}

func TestWrapf(t *testing.T) {
	if got := Wrapf(nil, "op %d", 1); got != nil {
		t.Errorf("Wrapf(nil) = %v, want nil", got)
	}

	wrapped := Wrapf(ErrOrphaned, "paragraph %d", 3)
	if got := wrapped.Error(); got != "paragraph 3: orphaned node" {
		t.Errorf("Error() = %q", got)
	}
	if !Is(wrapped, ErrOrphaned) {
		t.Error("Is() = false, want true")
	}
}
