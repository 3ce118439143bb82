package service

import (
	"context"
	"errors"
	"testing"

	"github.com/fxlso/StockPrediction-Team1-Fall2025/internal/identity"
	"github.com/fxlso/StockPrediction-Team1-Fall2025/internal/models"
)

func strPtr(s string) *string { return &s }

func TestRegister(t *testing.T) {
	repos := setupRepos(t)
	svc := NewUserService(repos.users)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{UserID: "u1", Email: "a@b.com", Username: strPtr(" alice ")})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if user.Username == nil || *user.Username != "alice" {
		t.Errorf("username = %v, want alice", user.Username)
	}
	if !user.NotificationEnabled {
		t.Error("notifications should default to enabled")
	}

	tests := []struct {
		name    string
		input   RegisterInput
		wantErr error
	}{
		{name: "duplicate id", input: RegisterInput{UserID: "u1", Email: "other@b.com"}, wantErr: ErrConflict},
		{name: "duplicate email", input: RegisterInput{UserID: "u2", Email: "a@b.com"}, wantErr: ErrEmailTaken},
		{name: "duplicate username", input: RegisterInput{UserID: "u3", Email: "c@d.com", Username: strPtr("alice")}, wantErr: ErrConflict},
		{name: "missing id", input: RegisterInput{Email: "x@y.com"}, wantErr: ErrValidation},
		{name: "missing email", input: RegisterInput{UserID: "u4"}, wantErr: ErrValidation},
		{name: "invalid email", input: RegisterInput{UserID: "u5", Email: "not-an-email"}, wantErr: ErrValidation},
		{name: "blank username", input: RegisterInput{UserID: "u6", Email: "e@f.com", Username: strPtr(" ")}, wantErr: ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Register(ctx, tt.input); !errors.Is(err, tt.wantErr) {
				t.Errorf("Register() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetUserAndSetNotifications(t *testing.T) {
	repos := setupRepos(t)
	svc := NewUserService(repos.users)
	ctx := context.Background()
	registerUser(t, repos, "u1", "a@b.com")

	if err := svc.SetNotifications(ctx, "u1", false); err != nil {
		t.Fatalf("SetNotifications() error = %v", err)
	}
	user, err := svc.GetUser(ctx, "u1")
	if err != nil {
		t.Fatalf("GetUser() error = %v", err)
	}
	if user.NotificationEnabled {
		t.Error("notifications should be disabled")
	}

	if _, err := svc.GetUser(ctx, "ghost"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("GetUser() error = %v, want ErrUserNotFound", err)
	}
	if err := svc.SetNotifications(ctx, "ghost", true); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("SetNotifications() error = %v, want ErrUserNotFound", err)
	}
}

func TestEnsureUser(t *testing.T) {
	repos := setupRepos(t)
	svc := NewUserService(repos.users)
	ctx := context.Background()

	claims := identity.Claims{Subject: "auth0|u1", Email: "a@b.com", Username: "alice"}
	created, err := svc.EnsureUser(ctx, claims)
	if err != nil {
		t.Fatalf("EnsureUser() error = %v", err)
	}
	if created.ID != "auth0|u1" || created.Username == nil || *created.Username != "alice" {
		t.Errorf("created user = %+v", created)
	}

	// Later logins return the stored row untouched.
	if err := svc.SetNotifications(ctx, "auth0|u1", false); err != nil {
		t.Fatalf("SetNotifications() error = %v", err)
	}
	again, err := svc.EnsureUser(ctx, identity.Claims{Subject: "auth0|u1", Email: "changed@b.com"})
	if err != nil {
		t.Fatalf("second EnsureUser() error = %v", err)
	}
	if again.Email != "a@b.com" || again.NotificationEnabled {
		t.Errorf("existing user should be untouched, got %+v", again)
	}

	var count int64
	repos.db.Model(&models.User{}).Count(&count)
	if count != 1 {
		t.Errorf("users = %d, want 1", count)
	}

	_, err = svc.EnsureUser(ctx, identity.Claims{Subject: "auth0|u2", Email: "a@b.com"})
	if !errors.Is(err, ErrConflict) {
		t.Errorf("EnsureUser() with taken email error = %v, want ErrConflict", err)
	}
}
