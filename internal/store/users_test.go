package store

import (
	"context"
	"errors"
	"testing"

	"github.com/janmarn/selitev/internal/db"
)

func TestCreateAndGetUser(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user, err := CreateUser(ctx, database, "ana@example.com", "hash123", "Ana", "Novak")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if user.Email != "ana@example.com" {
		t.Errorf("expected email 'ana@example.com', got %q", user.Email)
	}

	got, err := GetUser(ctx, database, user.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.FirstName != "Ana" || got.LastName != "Novak" {
		t.Errorf("expected name round-trip, got %q %q", got.FirstName, got.LastName)
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateUser(ctx, database, "ana@example.com", "hash", "Ana", "Novak")

	_, err := CreateUser(ctx, database, "ana@example.com", "hash", "Other", "Person")
	if !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for duplicate email, got %v", err)
	}
}

func TestGetUserByEmail(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateUser(ctx, database, "ana@example.com", "hash", "Ana", "Novak")

	user, err := GetUserByEmail(ctx, database, "ana@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if user == nil {
		t.Fatal("expected user, got nil")
	}

	missing, err := GetUserByEmail(ctx, database, "bob@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for missing user")
	}
}

func TestUpdateUser(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user, _ := CreateUser(ctx, database, "ana@example.com", "oldhash", "Ana", "Novak")
	CreateUser(ctx, database, "taken@example.com", "hash", "Other", "Person")

	hash := "newhash"
	first := "Anja"
	updated, err := UpdateUser(ctx, database, user.ID, UpdateUserParams{
		PasswordHash: &hash,
		FirstName:    &first,
	})
	if err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	if updated.FirstName != "Anja" {
		t.Errorf("expected first name 'Anja', got %q", updated.FirstName)
	}
	if updated.PasswordHash != "newhash" {
		t.Errorf("expected password hash 'newhash', got %q", updated.PasswordHash)
	}
	// Untouched fields survive.
	if updated.LastName != "Novak" {
		t.Errorf("expected last name untouched, got %q", updated.LastName)
	}

	// Changing to an email another user holds is rejected.
	taken := "taken@example.com"
	if _, err := UpdateUser(ctx, database, user.ID, UpdateUserParams{Email: &taken}); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for taken email, got %v", err)
	}

	// Re-submitting the current email is fine.
	own := "ana@example.com"
	if _, err := UpdateUser(ctx, database, user.ID, UpdateUserParams{Email: &own}); err != nil {
		t.Errorf("expected own email to be accepted, got %v", err)
	}
}
