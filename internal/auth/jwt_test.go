package auth

import (
	"testing"
	"time"

	"libraryLoanManagement/models"
)

const testSecret = "test-secret"

func TestIssueAndParseToken(t *testing.T) {
	signed, err := IssueToken(testSecret, 7, "Alice", models.RoleAdmin, "jti-1", time.Hour)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	p, err := ParseToken(signed, testSecret)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if p.UserID != 7 || p.Name != "Alice" || p.Role != models.RoleAdmin || p.TokenID != "jti-1" {
		t.Fatalf("principal mismatch: %+v", p)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	signed, err := IssueToken(testSecret, 1, "Bob", models.RoleMember, "jti-2", time.Hour)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if _, err := ParseToken(signed, "wrong"); err == nil {
		t.Fatalf("expected error for wrong secret")
	}
}

func TestParseToken_Expired(t *testing.T) {
	signed, err := IssueToken(testSecret, 1, "Bob", models.RoleMember, "jti-3", -time.Minute)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if _, err := ParseToken(signed, testSecret); err == nil {
		t.Fatalf("expected error for expired token")
	}
}

func TestParseToken_MissingClaims(t *testing.T) {
	signed, err := IssueToken(testSecret, 1, "", models.RoleMember, "jti-4", time.Hour)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if _, err := ParseToken(signed, testSecret); err == nil {
		t.Fatalf("expected invalid claims error")
	}
}

func TestBearerFromHeader(t *testing.T) {
	if _, err := BearerFromHeader(""); err == nil {
		t.Fatalf("expected error for empty header")
	}
	if _, err := BearerFromHeader("Basic abc"); err == nil {
		t.Fatalf("expected error for non-bearer scheme")
	}
	tok, err := BearerFromHeader("Bearer abc.def.ghi")
	if err != nil || tok != "abc.def.ghi" {
		t.Fatalf("bearer extraction: %q %v", tok, err)
	}
	// Scheme compare is case-insensitive.
	tok, err = BearerFromHeader("bearer xyz")
	if err != nil || tok != "xyz" {
		t.Fatalf("lowercase scheme: %q %v", tok, err)
	}
}

func TestRoleCan(t *testing.T) {
	if !RoleCan(models.RoleSuperAdmin, PermConfirmReturn) {
		t.Fatalf("Super Admin should confirm returns")
	}
	if !RoleCan(models.RoleAdmin, PermConfirmReturn) {
		t.Fatalf("Admin should confirm returns")
	}
	if RoleCan(models.RoleMember, PermConfirmReturn) {
		t.Fatalf("Member must not confirm returns")
	}
	if RoleCan("Unknown", PermViewAllLoans) {
		t.Fatalf("unknown role must hold nothing")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !CheckPassword(hash, "s3cret") {
		t.Fatalf("correct password rejected")
	}
	if CheckPassword(hash, "wrong") {
		t.Fatalf("wrong password accepted")
	}
}
