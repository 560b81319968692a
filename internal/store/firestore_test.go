package store

import (
	"errors"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/money-tracker/internal/errs"
)

func TestMapCreateErr(t *testing.T) {
	if err := mapCreateErr(nil, "failed to create account", "account already exists"); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}

	err := mapCreateErr(status.Error(codes.AlreadyExists, "document already exists"), "failed to create account", "account already exists")
	var exists *errs.AlreadyExistsError
	if !errors.As(err, &exists) || exists.Message != "account already exists" {
		t.Fatalf("expected AlreadyExistsError, got %v", err)
	}

	err = mapCreateErr(status.Error(codes.Unavailable, "try later"), "failed to create account", "account already exists")
	var dbErr *errs.DatabaseError
	if !errors.As(err, &dbErr) || dbErr.Operation != "create" {
		t.Fatalf("expected create DatabaseError, got %v", err)
	}
}
