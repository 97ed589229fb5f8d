package service

import (
	"errors"
	"testing"

	"github.com/apparel-shop/internal/config"
	"github.com/apparel-shop/internal/constants"
	"github.com/apparel-shop/internal/models"
	"github.com/apparel-shop/internal/repository"
)

func setupAuthService(t *testing.T) (*AuthService, *models.Admin) {
	t.Helper()
	env := setupServiceTest(t)
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("hash password failed: %v", err)
	}
	admin := &models.Admin{Username: "owner", PasswordHash: hash, StoreID: "store-a", Role: constants.RoleStoreOwner}
	repo := repository.NewAdminRepository(env.db)
	if err := repo.Create(admin); err != nil {
		t.Fatalf("create admin failed: %v", err)
	}
	svc := NewAuthService(config.JWTConfig{SecretKey: "unit-test-secret", ExpireHours: 1, Issuer: "apparel-shop"}, repo)
	return svc, admin
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	svc, admin := setupAuthService(t)

	got, token, expiresAt, err := svc.Login(t.Context(), " owner ", "s3cret-pass")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if got.ID != admin.ID || got.LastLoginAt == nil || expiresAt.IsZero() {
		t.Fatalf("unexpected login result: %+v", got)
	}
	claims, err := svc.ParseJWT(token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if claims.AdminID != admin.ID || claims.StoreID != "store-a" || claims.Role != constants.RoleStoreOwner || claims.Issuer != "apparel-shop" {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	state, err := svc.ResolveAdmin(t.Context(), claims)
	if err != nil || state.StoreID != "store-a" {
		t.Fatalf("resolve admin failed: %+v err=%v", state, err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := setupAuthService(t)
	if _, _, _, err := svc.Login(t.Context(), "owner", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("want ErrInvalidCredentials got %v", err)
	}
	if _, _, _, err := svc.Login(t.Context(), "ghost", "s3cret-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user should fail, got %v", err)
	}
}

func TestParseJWTRejectsForeignSignature(t *testing.T) {
	svc, admin := setupAuthService(t)
	other := NewAuthService(config.JWTConfig{SecretKey: "another-secret", ExpireHours: 1}, nil)
	token, _, err := other.GenerateJWT(admin)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if _, err := svc.ParseJWT(token); err == nil {
		t.Fatalf("token signed with another secret must be rejected")
	}
}
