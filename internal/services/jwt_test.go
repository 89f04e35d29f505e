package services_test

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"creaturegrove-backend/internal/services"
)

func TestJWTRoundTrip(t *testing.T) {
	jwtService := services.NewJWTService("test-secret")
	userID := uuid.New()

	token, err := jwtService.GenerateToken(userID, time.Hour)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	claims, err := jwtService.ValidateToken(token)
	if err != nil {
		t.Fatalf("failed to validate token: %v", err)
	}

	if claims.UserID != userID {
		t.Errorf("expected user id %s, got %s", userID, claims.UserID)
	}
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	token, err := services.NewJWTService("secret-a").GenerateToken(uuid.New(), time.Hour)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	if _, err := services.NewJWTService("secret-b").ValidateToken(token); err == nil {
		t.Error("token signed with another secret should not validate")
	}
}

func TestJWTRejectsExpiredToken(t *testing.T) {
	jwtService := services.NewJWTService("test-secret")

	token, err := jwtService.GenerateToken(uuid.New(), -time.Minute)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	if _, err := jwtService.ValidateToken(token); err == nil {
		t.Error("expired token should not validate")
	}
}
