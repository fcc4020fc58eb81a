package auth

import (
	"testing"
	"time"

	"github.com/stacked-time/stacked_time/internal/config"
	"github.com/stacked-time/stacked_time/internal/identity"
)

func testConfig() config.Config {
	return config.Config{
		JWTSecret:       "access-secret",
		RefreshSecret:   "refresh-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
	}
}

func TestLoginAndVerify(t *testing.T) {
	svc := NewService(testConfig())

	pair, err := svc.Login(identity.User{ID: "user-1", Email: "a@x.com"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if pair.ExpiresIn != int64((15 * time.Minute).Seconds()) {
		t.Fatalf("unexpected expires_in %d", pair.ExpiresIn)
	}

	sub, err := svc.VerifyAccess(pair.AccessToken)
	if err != nil {
		t.Fatalf("verify access: %v", err)
	}
	if sub != "user-1" {
		t.Fatalf("expected subject user-1, got %s", sub)
	}

	// Access and refresh secrets are distinct; tokens must not cross over.
	if _, err := svc.VerifyAccess(pair.RefreshToken); err == nil {
		t.Fatalf("refresh token accepted as access token")
	}
}

func TestRefresh(t *testing.T) {
	svc := NewService(testConfig())

	pair, err := svc.Login(identity.User{ID: "user-1"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	access, exp, err := svc.Refresh(pair.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if exp <= 0 {
		t.Fatalf("expected positive expiry, got %d", exp)
	}
	if sub, err := svc.VerifyAccess(access); err != nil || sub != "user-1" {
		t.Fatalf("refreshed access token invalid: sub=%s err=%v", sub, err)
	}

	if _, _, err := svc.Refresh(pair.AccessToken); err == nil {
		t.Fatalf("access token accepted as refresh token")
	}
	if _, _, err := svc.Refresh("not-a-token"); err == nil {
		t.Fatalf("garbage token accepted")
	}
}
