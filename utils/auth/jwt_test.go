package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/fedpoffa/cbt-api/model"
)

func testJWTManager(expiry time.Duration) *JWTManager {
	return NewJWTManager(JWTConfig{
		Secret:        "test-secret-key",
		Expiry:        expiry,
		RefreshExpiry: 7 * 24 * time.Hour,
		Issuer:        "test-issuer",
	})
}

func testUser() *model.User {
	deptID := uint(3)
	return &model.User{
		Email:        "jdoe@fedpoffa.edu.ng",
		MatricNumber: "FPO/CS/2024/00123",
		Role:         model.RoleStudent,
		DepartmentID: &deptID,
		TokenVersion: 2,
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	manager := testJWTManager(30 * time.Minute)
	user := testUser()
	user.ID = 42

	token, jti, err := manager.GenerateAccessToken(user)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}
	if jti == "" {
		t.Fatal("expected a non-empty JTI")
	}

	claims, err := manager.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}

	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Email != user.Email {
		t.Errorf("Email = %q, want %q", claims.Email, user.Email)
	}
	if claims.MatricNumber != user.MatricNumber {
		t.Errorf("MatricNumber = %q, want %q", claims.MatricNumber, user.MatricNumber)
	}
	if claims.Role != model.RoleStudent {
		t.Errorf("Role = %q, want %q", claims.Role, model.RoleStudent)
	}
	if claims.TokenType != TokenTypeAccess {
		t.Errorf("TokenType = %q, want %q", claims.TokenType, TokenTypeAccess)
	}
	if claims.TokenVersion != 2 {
		t.Errorf("TokenVersion = %d, want 2", claims.TokenVersion)
	}
	if claims.ID != jti {
		t.Errorf("claims JTI = %q, want %q", claims.ID, jti)
	}
	if claims.Issuer != "test-issuer" {
		t.Errorf("Issuer = %q, want test-issuer", claims.Issuer)
	}
}

func TestTokenPurposeIsolation(t *testing.T) {
	manager := testJWTManager(30 * time.Minute)
	user := testUser()

	accessToken, _, err := manager.GenerateAccessToken(user)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}
	refreshToken, _, err := manager.GenerateRefreshToken(user)
	if err != nil {
		t.Fatalf("GenerateRefreshToken failed: %v", err)
	}

	// A refresh token must not pass where an access token is expected
	if _, err := manager.VerifyToken(refreshToken, TokenTypeAccess); !errors.Is(err, ErrWrongTokenUse) {
		t.Errorf("expected ErrWrongTokenUse for refresh-as-access, got %v", err)
	}

	// And vice versa
	if _, err := manager.VerifyToken(accessToken, TokenTypeRefresh); !errors.Is(err, ErrWrongTokenUse) {
		t.Errorf("expected ErrWrongTokenUse for access-as-refresh, got %v", err)
	}

	if _, err := manager.VerifyToken(accessToken, TokenTypeAccess); err != nil {
		t.Errorf("access token failed its own purpose check: %v", err)
	}
	if _, err := manager.VerifyToken(refreshToken, TokenTypeRefresh); err != nil {
		t.Errorf("refresh token failed its own purpose check: %v", err)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	manager := testJWTManager(-1 * time.Minute)
	user := testUser()

	token, _, err := manager.GenerateAccessToken(user)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	if _, err := manager.ValidateToken(token); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("expected ErrExpiredToken, got %v", err)
	}
}

func TestTamperedTokenRejected(t *testing.T) {
	manager := testJWTManager(30 * time.Minute)
	other := testJWTManager(30 * time.Minute)
	other.config.Secret = "a-different-secret"

	token, _, err := other.GenerateAccessToken(testUser())
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	if _, err := manager.ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for wrong signature, got %v", err)
	}

	if _, err := manager.ValidateToken("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for garbage input, got %v", err)
	}
}

func TestRefreshAccessToken(t *testing.T) {
	manager := testJWTManager(30 * time.Minute)
	user := testUser()
	user.ID = 7

	refreshToken, _, err := manager.GenerateRefreshToken(user)
	if err != nil {
		t.Fatalf("GenerateRefreshToken failed: %v", err)
	}

	newAccess, jti, err := manager.RefreshAccessToken(refreshToken, user)
	if err != nil {
		t.Fatalf("RefreshAccessToken failed: %v", err)
	}
	if jti == "" {
		t.Fatal("expected a JTI on the refreshed token")
	}

	claims, err := manager.VerifyToken(newAccess, TokenTypeAccess)
	if err != nil {
		t.Fatalf("refreshed token failed verification: %v", err)
	}
	if claims.UserID != 7 {
		t.Errorf("UserID = %d, want 7", claims.UserID)
	}

	// An access token cannot drive the refresh flow
	accessToken, _, _ := manager.GenerateAccessToken(user)
	if _, _, err := manager.RefreshAccessToken(accessToken, user); !errors.Is(err, ErrWrongTokenUse) {
		t.Errorf("expected ErrWrongTokenUse refreshing with an access token, got %v", err)
	}
}

func TestGetJTIAndExpiry(t *testing.T) {
	manager := testJWTManager(30 * time.Minute)

	token, jti, err := manager.GenerateAccessToken(testUser())
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	extracted, err := manager.GetJTI(token)
	if err != nil {
		t.Fatalf("GetJTI failed: %v", err)
	}
	if extracted != jti {
		t.Errorf("GetJTI = %q, want %q", extracted, jti)
	}

	expiry, err := manager.GetTokenExpiry(token)
	if err != nil {
		t.Fatalf("GetTokenExpiry failed: %v", err)
	}
	if time.Until(expiry) > 30*time.Minute || time.Until(expiry) < 29*time.Minute {
		t.Errorf("expiry %v not within the configured 30m window", expiry)
	}

	if manager.IsTokenExpired(token) {
		t.Error("fresh token reported as expired")
	}
}
