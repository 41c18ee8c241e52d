package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsUniqueViolation(t *testing.T) {
	if IsUniqueViolation(nil) {
		t.Fatal("nil error must not be a unique violation")
	}
	err := errors.New(`duplicate key value violates unique constraint "uq_draft_orders_slot"`)
	if !IsUniqueViolation(err) {
		t.Fatal("expected generic duplicate key detection")
	}
	if !IsUniqueViolation(errors.New("UNIQUE constraint failed: product_synonyms.term")) {
		t.Fatal("expected sqlite duplicate detection")
	}
	if !IsUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})) {
		t.Fatal("expected pg error code detection")
	}
	if IsUniqueViolation(&pgconn.PgError{Code: "40001"}) {
		t.Fatal("serialization failure is not a unique violation")
	}
	if IsUniqueViolation(errors.New("record not found")) {
		t.Fatal("unrelated errors must not match")
	}
}

func TestIsLockContention(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("record not found"), false},
		{errors.New("pq: deadlock detected"), true},
		{errors.New("database is locked"), true},
		{fmt.Errorf("commit: %w", &pgconn.PgError{Code: "40001"}), true},
		{&pgconn.PgError{Code: "55P03"}, true},
		{&pgconn.PgError{Code: "23505"}, false},
	}
	for i, tc := range cases {
		if got := IsLockContention(tc.err); got != tc.want {
			t.Fatalf("case %d: IsLockContention(%v) = %v, want %v", i, tc.err, got, tc.want)
		}
	}
}
