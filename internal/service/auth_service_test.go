package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/buildingops/maintenance-service/internal/auth"
	"github.com/buildingops/maintenance-service/internal/domain"
	apperrors "github.com/buildingops/maintenance-service/pkg/util"
)

func newAuthService() (*AuthService, *fakeUserRepo) {
	users := newFakeUserRepo()
	svc := NewAuthService(AuthDependencies{
		UserRepo:   users,
		Tokens:     auth.NewTokenManager("test-secret", 60),
		BcryptCost: 4,
		Logger:     zap.NewNop(),
	})
	return svc, users
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{
		Username: "pat",
		Email:    "Pat@Example.com",
		FullName: "Pat Lee",
		Password: "hunter2hunter2",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Role != domain.RoleTenant {
		t.Fatalf("default role = %s, want TENANT", user.Role)
	}
	if user.Email != "pat@example.com" {
		t.Fatalf("email not normalized: %s", user.Email)
	}
	if user.PasswordHash == "hunter2hunter2" {
		t.Fatal("password stored in plaintext")
	}

	result, err := svc.Login(ctx, "pat", "hunter2hunter2")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.Token == "" {
		t.Fatal("empty token")
	}
	if result.User.ID != user.ID {
		t.Fatalf("login user = %s, want %s", result.User.ID, user.ID)
	}

	if _, err := svc.Login(ctx, "pat", "wrong-password"); err == nil {
		t.Fatal("wrong password accepted")
	}
	if _, err := svc.Login(ctx, "nobody", "hunter2hunter2"); err == nil {
		t.Fatal("unknown user accepted")
	}
}

func TestRegisterUniqueness(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	input := RegisterInput{
		Username: "pat", Email: "pat@example.com",
		FullName: "Pat Lee", Password: "hunter2hunter2",
	}
	if _, err := svc.Register(ctx, input); err != nil {
		t.Fatalf("Register: %v", err)
	}

	var domainErr *apperrors.DomainError

	dupUsername := input
	dupUsername.Email = "other@example.com"
	_, err := svc.Register(ctx, dupUsername)
	if !errors.As(err, &domainErr) || domainErr.Code != "CONFLICT" {
		t.Fatalf("duplicate username = %v, want CONFLICT", err)
	}

	dupEmail := input
	dupEmail.Username = "other"
	_, err = svc.Register(ctx, dupEmail)
	if !errors.As(err, &domainErr) || domainErr.Code != "CONFLICT" {
		t.Fatalf("duplicate email = %v, want CONFLICT", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	var domainErr *apperrors.DomainError
	_, err := svc.Register(ctx, RegisterInput{
		Username: "pat", Email: "not-an-email",
		FullName: "Pat Lee", Password: "short",
	})
	if !errors.As(err, &domainErr) || domainErr.Code != "VALIDATION_FAILED" {
		t.Fatalf("error = %v, want VALIDATION_FAILED", err)
	}
	if _, ok := domainErr.Details["email"]; !ok {
		t.Fatal("missing email detail")
	}
	if _, ok := domainErr.Details["password"]; !ok {
		t.Fatal("missing password detail")
	}
}

func TestDeactivatedAccountCannotLogin(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{
		Username: "dana", Email: "dana@example.com",
		FullName: "Dana Fox", Password: "hunter2hunter2",
		Role: domain.RoleTechnician,
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := svc.SetUserActive(ctx, user.ID, false); err != nil {
		t.Fatalf("SetUserActive: %v", err)
	}

	var domainErr *apperrors.DomainError
	_, err = svc.Login(ctx, "dana", "hunter2hunter2")
	if !errors.As(err, &domainErr) || domainErr.Code != "FORBIDDEN" {
		t.Fatalf("deactivated login = %v, want FORBIDDEN", err)
	}
}

func TestListTechniciansFiltersRoleAndActive(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	tech, err := svc.Register(ctx, RegisterInput{
		Username: "dana", Email: "dana@example.com",
		FullName: "Dana Fox", Password: "hunter2hunter2",
		Role: domain.RoleTechnician,
	})
	if err != nil {
		t.Fatalf("Register tech: %v", err)
	}
	if _, err := svc.Register(ctx, RegisterInput{
		Username: "pat", Email: "pat@example.com",
		FullName: "Pat Lee", Password: "hunter2hunter2",
	}); err != nil {
		t.Fatalf("Register tenant: %v", err)
	}
	inactive, err := svc.Register(ctx, RegisterInput{
		Username: "sam", Email: "sam@example.com",
		FullName: "Sam Roe", Password: "hunter2hunter2",
		Role: domain.RoleTechnician,
	})
	if err != nil {
		t.Fatalf("Register inactive tech: %v", err)
	}
	if _, err := svc.SetUserActive(ctx, inactive.ID, false); err != nil {
		t.Fatalf("SetUserActive: %v", err)
	}

	technicians, err := svc.ListTechnicians(ctx)
	if err != nil {
		t.Fatalf("ListTechnicians: %v", err)
	}
	if len(technicians) != 1 || technicians[0].ID != tech.ID {
		t.Fatalf("technicians = %v, want only %s", technicians, tech.ID)
	}
}
