package secret

import (
	"bytes"
	"testing"
)

func TestDeriveIsDeterministic(t *testing.T) {
	a := New("root secret")
	b := New("root secret")

	if !bytes.Equal(a.Derive(PurposeAdminToken), b.Derive(PurposeAdminToken)) {
		t.Fatalf("same secret and purpose must derive the same bytes")
	}
}

func TestDerivePurposesAreIndependent(t *testing.T) {
	s := New("root secret")

	admin := s.Derive(PurposeAdminToken)
	invite := s.Derive(PurposeInviteMakingToken)
	signing := s.Derive(PurposeSigningKey)

	if bytes.Equal(admin, invite) || bytes.Equal(admin, signing) || bytes.Equal(invite, signing) {
		t.Fatalf("distinct purposes must derive distinct secrets")
	}
	if len(admin) != 32 {
		t.Fatalf("derived secret must be 32 bytes, got %d", len(admin))
	}
}

func TestDeriveDependsOnRoot(t *testing.T) {
	a := New("root one")
	b := New("root two")

	if bytes.Equal(a.Derive(PurposeAdminToken), b.Derive(PurposeAdminToken)) {
		t.Fatalf("different roots must derive different secrets")
	}
}

func TestNewRandomIsUnique(t *testing.T) {
	a := NewRandom()
	b := NewRandom()

	if bytes.Equal(a.Derive(PurposeAdminToken), b.Derive(PurposeAdminToken)) {
		t.Fatalf("random secrets should not collide")
	}
}

func TestFromEnvValue(t *testing.T) {
	s := FromEnvValue("configured")
	if !bytes.Equal(s.Derive(PurposeAdminToken), New("configured").Derive(PurposeAdminToken)) {
		t.Fatalf("configured value must be used as-is")
	}

	// Empty value falls back to a random per-boot secret.
	a := FromEnvValue("")
	b := FromEnvValue("")
	if bytes.Equal(a.Derive(PurposeAdminToken), b.Derive(PurposeAdminToken)) {
		t.Fatalf("fallback secrets should not collide")
	}
}
