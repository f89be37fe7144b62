package postgres

import (
	"database/sql"
	"testing"

	"github.com/lib/pq"
)

func TestIsNotFound(t *testing.T) {
	if !isNotFound(sql.ErrNoRows) {
		t.Fatalf("expected true for sql.ErrNoRows")
	}
	if isNotFound(fakeErr("pq: relation picks does not exist")) {
		t.Fatalf("expected false for unrelated error")
	}
}

func TestIsUniqueViolation(t *testing.T) {
	t.Run("matches 23505", func(t *testing.T) {
		err := &pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"}
		if !isUniqueViolation(err) {
			t.Fatalf("expected true for unique violation")
		}
	})

	t.Run("ignores other codes", func(t *testing.T) {
		err := &pq.Error{Code: "23503", Message: "foreign key violation"}
		if isUniqueViolation(err) {
			t.Fatalf("expected false for foreign key violation")
		}
	})

	t.Run("ignores plain errors", func(t *testing.T) {
		if isUniqueViolation(fakeErr("boom")) {
			t.Fatalf("expected false for plain error")
		}
	})
}

func TestOptionalString(t *testing.T) {
	if optionalString("") != nil {
		t.Fatalf("empty string should map to nil")
	}
	if got := optionalString("venmo"); got == nil || *got != "venmo" {
		t.Fatalf("unexpected pointer value: %v", got)
	}
	if derefString(nil) != "" {
		t.Fatalf("nil pointer should deref to empty string")
	}
}

type fakeErr string

func (e fakeErr) Error() string { return string(e) }
