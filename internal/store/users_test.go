package store

import (
	"context"
	"testing"

	"github.com/buildright/matreq/internal/db"
)

func TestCreateAndGetUser(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	company, err := CreateCompany(ctx, database, "BuildRight Construction")
	if err != nil {
		t.Fatalf("CreateCompany: %v", err)
	}

	user, err := CreateUser(ctx, database, "John Builder", "john@construction.co", "hash", company.ID)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if user.ID == "" {
		t.Error("expected server-assigned user id")
	}
	if user.CompanyName != "BuildRight Construction" {
		t.Errorf("expected joined company name, got %q", user.CompanyName)
	}

	byEmail, err := GetUserByEmail(ctx, database, "john@construction.co")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if byEmail == nil || byEmail.ID != user.ID {
		t.Error("expected lookup by email to find the user")
	}
}

func TestGetUserMissing(t *testing.T) {
	database := db.NewTestDB(t)

	user, err := GetUser(context.Background(), database, "missing")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if user != nil {
		t.Error("expected nil for missing user")
	}
}

func TestDuplicateEmailRejected(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	company, _ := CreateCompany(ctx, database, "BuildRight Construction")
	if _, err := CreateUser(ctx, database, "John", "john@construction.co", "hash", company.ID); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if _, err := CreateUser(ctx, database, "Jane", "john@construction.co", "hash", company.ID); err == nil {
		t.Error("expected unique index to reject duplicate email")
	}
}

func TestUpdateUserPassword(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	company, _ := CreateCompany(ctx, database, "BuildRight Construction")
	user, _ := CreateUser(ctx, database, "John", "john@construction.co", "old", company.ID)

	if err := UpdateUserPassword(ctx, database, user.ID, "new"); err != nil {
		t.Fatalf("UpdateUserPassword: %v", err)
	}

	got, _ := GetUser(ctx, database, user.ID)
	if got.PasswordHash != "new" {
		t.Errorf("expected updated hash, got %q", got.PasswordHash)
	}
}
