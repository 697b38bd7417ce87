package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/arklim/social-platform-messaging/internal/infra/security"
	"github.com/arklim/social-platform-messaging/internal/repository"
)

const strongRegistrationPassword = "Sup3r!SecurePass#7890"

func validRegisterInput() RegisterInput {
	return RegisterInput{
		Username:  "alice",
		Password:  strongRegistrationPassword,
		FirstName: "Alice",
		LastName:  "Anderson",
		Phone:     "+15551234567",
	}
}

func TestRegisterUserSuccess(t *testing.T) {
	users := &mockUserRepository{}
	events := &mockEventPublisher{}
	svc := NewRegistrationService(users, security.DefaultPasswordValidator(8, 2), events)

	user, err := svc.RegisterUser(context.Background(), validRegisterInput())
	if err != nil {
		t.Fatalf("RegisterUser returned error: %v", err)
	}

	if users.createCalls != 1 {
		t.Fatalf("expected one create call, got %d", users.createCalls)
	}
	if user.PasswordHash != "" {
		t.Fatalf("expected returned record to carry no password hash")
	}
	if users.createdUser.PasswordHash == "" || users.createdUser.PasswordHash == strongRegistrationPassword {
		t.Fatalf("expected stored password to be hashed")
	}
	if !strings.HasPrefix(users.createdUser.PasswordHash, "argon2id$") {
		t.Fatalf("expected argon2id hash, got %q", users.createdUser.PasswordHash)
	}

	ok, err := security.VerifyPassword(strongRegistrationPassword, users.createdUser.PasswordHash)
	if err != nil || !ok {
		t.Fatalf("expected stored hash to verify, ok=%v err=%v", ok, err)
	}

	if user.JoinAt.IsZero() || !user.JoinAt.Equal(user.LastLoginAt) {
		t.Fatalf("expected join and last login stamped with the same time")
	}
	if len(events.registeredEvents) != 1 || events.registeredEvents[0].Username != "alice" {
		t.Fatalf("expected a user registered event for alice")
	}
}

func TestRegisterUserMissingFields(t *testing.T) {
	svc := NewRegistrationService(&mockUserRepository{}, security.DefaultPasswordValidator(8, 0), nil)

	cases := map[string]func(*RegisterInput){
		"username":   func(in *RegisterInput) { in.Username = " " },
		"password":   func(in *RegisterInput) { in.Password = "" },
		"first_name": func(in *RegisterInput) { in.FirstName = "" },
		"last_name":  func(in *RegisterInput) { in.LastName = "" },
		"phone":      func(in *RegisterInput) { in.Phone = "" },
	}

	for field, mutate := range cases {
		in := validRegisterInput()
		mutate(&in)
		if _, err := svc.RegisterUser(context.Background(), in); !errors.Is(err, ErrValidation) {
			t.Fatalf("expected ErrValidation for missing %s, got %v", field, err)
		}
	}
}

func TestRegisterUserWeakPassword(t *testing.T) {
	users := &mockUserRepository{}
	svc := NewRegistrationService(users, security.DefaultPasswordValidator(8, 2), nil)

	in := validRegisterInput()
	in.Password = "password"

	if _, err := svc.RegisterUser(context.Background(), in); !errors.Is(err, ErrPasswordPolicy) {
		t.Fatalf("expected ErrPasswordPolicy, got %v", err)
	}
	if users.createCalls != 0 {
		t.Fatalf("expected no create call for rejected password")
	}
}

func TestRegisterUserDuplicateUsername(t *testing.T) {
	users := &mockUserRepository{createErr: repository.ErrDuplicate}
	svc := NewRegistrationService(users, security.DefaultPasswordValidator(8, 0), nil)

	if _, err := svc.RegisterUser(context.Background(), validRegisterInput()); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestRegisterUserEventFailureDoesNotFailRegistration(t *testing.T) {
	users := &mockUserRepository{}
	events := &mockEventPublisher{publishErr: errBackend}
	svc := NewRegistrationService(users, security.DefaultPasswordValidator(8, 0), events)

	if _, err := svc.RegisterUser(context.Background(), validRegisterInput()); err != nil {
		t.Fatalf("expected registration to succeed despite publish failure, got %v", err)
	}
}

func TestRegisterUserTrimsWhitespace(t *testing.T) {
	users := &mockUserRepository{}
	svc := NewRegistrationService(users, security.DefaultPasswordValidator(8, 0), nil)

	in := validRegisterInput()
	in.Username = "  alice  "
	in.FirstName = " Alice "

	user, err := svc.RegisterUser(context.Background(), in)
	if err != nil {
		t.Fatalf("RegisterUser returned error: %v", err)
	}
	if user.Username != "alice" || user.FirstName != "Alice" {
		t.Fatalf("expected trimmed fields, got %q %q", user.Username, user.FirstName)
	}
}
