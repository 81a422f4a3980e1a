package auth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/metastable-void/alarkhabil-server/internal/crypto"
	"github.com/metastable-void/alarkhabil-server/internal/secret"
	"github.com/metastable-void/alarkhabil-server/internal/store"
	"github.com/metastable-void/alarkhabil-server/internal/store/sqlite"
	"github.com/metastable-void/alarkhabil-server/internal/validate"
)

func newTestService(t *testing.T, sec secret.PrimarySecret) *Service {
	t.Helper()
	st, err := sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return NewService(st, sec)
}

func TestTokensAreDeterministic(t *testing.T) {
	a := newTestService(t, secret.New("root"))
	b := NewService(nil, secret.New("root"))

	if a.AdminToken() != b.AdminToken() {
		t.Fatalf("admin token not deterministic")
	}
	if a.InviteMakingToken() != b.InviteMakingToken() {
		t.Fatalf("invite-making token not deterministic")
	}
	if a.AdminToken() == a.InviteMakingToken() {
		t.Fatalf("purposes must yield distinct tokens")
	}
}

func TestVerifyTokens(t *testing.T) {
	s := newTestService(t, secret.New("root"))

	if err := s.VerifyAdminToken(s.AdminToken()); err != nil {
		t.Fatalf("valid admin token rejected: %v", err)
	}
	if err := s.VerifyInviteMakingToken(s.InviteMakingToken()); err != nil {
		t.Fatalf("valid invite-making token rejected: %v", err)
	}

	// Cross-purpose use must fail.
	if err := s.VerifyAdminToken(s.InviteMakingToken()); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	// Truncated and empty tokens must fail without panicking.
	admin := s.AdminToken()
	if err := s.VerifyAdminToken(admin[:len(admin)-2]); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for truncated token, got %v", err)
	}
	if err := s.VerifyAdminToken(""); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for empty token, got %v", err)
	}
}

func TestInviteRoundTrip(t *testing.T) {
	s := newTestService(t, secret.New("root"))

	token, err := s.NewInvite()
	if err != nil {
		t.Fatalf("new invite: %v", err)
	}
	uuid, err := s.RedeemInvite(context.Background(), token, "alice", 1700000000, crypto.AlgoEd25519, []byte("alice-public-key-32-bytes-long!!"))
	if err != nil {
		t.Fatalf("redeem invite: %v", err)
	}
	if !isCanonicalV4(uuid) {
		t.Fatalf("account uuid is not canonical v4: %q", uuid)
	}
}

func TestInviteIsSingleUse(t *testing.T) {
	s := newTestService(t, secret.New("root"))

	token, err := s.NewInvite()
	if err != nil {
		t.Fatalf("new invite: %v", err)
	}
	if _, err := s.RedeemInvite(context.Background(), token, "alice", 1, crypto.AlgoEd25519, []byte("key-a")); err != nil {
		t.Fatalf("first redemption: %v", err)
	}
	_, err = s.RedeemInvite(context.Background(), token, "mallory", 2, crypto.AlgoEd25519, []byte("key-b"))
	if !errors.Is(err, store.ErrAccountExists) {
		t.Fatalf("expected ErrAccountExists on replay, got %v", err)
	}
}

func TestInviteConcurrentRedemption(t *testing.T) {
	s := newTestService(t, secret.New("root"))

	token, err := s.NewInvite()
	if err != nil {
		t.Fatalf("new invite: %v", err)
	}

	const racers = 8
	errs := make([]error, racers)
	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := []byte(fmt.Sprintf("racer-key-%d", i))
			_, errs[i] = s.RedeemInvite(context.Background(), token, fmt.Sprintf("racer-%d", i), int64(i), crypto.AlgoEd25519, key)
		}(i)
	}
	wg.Wait()

	won := 0
	for i, err := range errs {
		if err == nil {
			won++
			continue
		}
		if !errors.Is(err, store.ErrAccountExists) {
			t.Fatalf("racer %d: expected ErrAccountExists, got %v", i, err)
		}
	}
	if won != 1 {
		t.Fatalf("expected exactly one winning redemption, got %d", won)
	}
}

func TestRedeemInviteNameTooLong(t *testing.T) {
	s := newTestService(t, secret.New("root"))

	token, err := s.NewInvite()
	if err != nil {
		t.Fatalf("new invite: %v", err)
	}
	name := strings.Repeat("x", validate.MaxItemNameSize+1)
	_, err = s.RedeemInvite(context.Background(), token, name, 1, crypto.AlgoEd25519, []byte("key"))
	if !errors.Is(err, validate.ErrNameTooLong) {
		t.Fatalf("expected ErrNameTooLong, got %v", err)
	}
}

func TestInviteTamperDetected(t *testing.T) {
	s := newTestService(t, secret.New("root"))

	token, err := s.NewInvite()
	if err != nil {
		t.Fatalf("new invite: %v", err)
	}
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		t.Fatalf("decode invite: %v", err)
	}
	var envelope struct {
		Algo string `json:"algo"`
		Pubk string `json:"pubk"`
		Sig  string `json:"sig"`
		Msg  string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	envelope.Msg = base64.StdEncoding.EncodeToString([]byte(`{"command":"registration_invite","uuid":"aaaaaaaa-aaaa-4aaa-8aaa-aaaaaaaaaaaa"}`))
	forged, _ := json.Marshal(envelope)

	_, err = s.RedeemInvite(context.Background(), base64.StdEncoding.EncodeToString(forged), "mallory", 1, crypto.AlgoEd25519, []byte("key"))
	if !errors.Is(err, ErrInvalidInvite) {
		t.Fatalf("expected ErrInvalidInvite for tampered payload, got %v", err)
	}
}

func TestInviteFromDifferentRootRejected(t *testing.T) {
	issuer := newTestService(t, secret.New("other-root"))
	s := newTestService(t, secret.New("root"))

	token, err := issuer.NewInvite()
	if err != nil {
		t.Fatalf("new invite: %v", err)
	}
	_, err = s.RedeemInvite(context.Background(), token, "mallory", 1, crypto.AlgoEd25519, []byte("key"))
	if !errors.Is(err, ErrInvalidInvite) {
		t.Fatalf("expected ErrInvalidInvite, got %v", err)
	}
}

func TestInviteGarbageRejected(t *testing.T) {
	s := newTestService(t, secret.New("root"))

	for _, token := range []string{"", "not base64 !!!", base64.StdEncoding.EncodeToString([]byte("not json"))} {
		if _, err := s.RedeemInvite(context.Background(), token, "x", 1, crypto.AlgoEd25519, []byte("key")); !errors.Is(err, ErrInvalidInvite) {
			t.Fatalf("token %q: expected ErrInvalidInvite, got %v", token, err)
		}
	}
}

func TestIsCanonicalV4(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"aaaaaaaa-aaaa-4aaa-8aaa-aaaaaaaaaaaa", true},
		{"AAAAAAAA-AAAA-4AAA-8AAA-AAAAAAAAAAAA", false},
		{"urn:uuid:aaaaaaaa-aaaa-4aaa-8aaa-aaaaaaaaaaaa", false},
		{"aaaaaaaa-aaaa-1aaa-8aaa-aaaaaaaaaaaa", false},
		{"aaaaaaaaaaaa4aaa8aaaaaaaaaaaaaaa", false},
		{"not-a-uuid", false},
		{"", false},
	}
	for _, c := range cases {
		if got := isCanonicalV4(c.in); got != c.want {
			t.Errorf("isCanonicalV4(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestChangeCredentials(t *testing.T) {
	s := newTestService(t, secret.New("root"))

	oldKey, err := crypto.NewPrivateKey(crypto.AlgoEd25519)
	if err != nil {
		t.Fatalf("new key: %v", err)
	}
	// Sign an empty message to learn the old public key.
	probe, err := crypto.Sign(oldKey, nil)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	oldPub, err := probe.PublicKey()
	if err != nil {
		t.Fatalf("public key: %v", err)
	}

	token, err := s.NewInvite()
	if err != nil {
		t.Fatalf("new invite: %v", err)
	}
	if _, err := s.RedeemInvite(context.Background(), token, "alice", 1, oldKey.Algo(), oldPub); err != nil {
		t.Fatalf("redeem invite: %v", err)
	}

	newKey, err := crypto.NewPrivateKey(crypto.AlgoEd25519)
	if err != nil {
		t.Fatalf("new key: %v", err)
	}
	proof, err := crypto.Sign(newKey, oldPub)
	if err != nil {
		t.Fatalf("sign proof: %v", err)
	}
	if err := s.ChangeCredentials(context.Background(), oldPub, proof); err != nil {
		t.Fatalf("change credentials: %v", err)
	}

	// A proof over the wrong key must not rotate anything.
	badProof, err := crypto.Sign(newKey, []byte("some other key"))
	if err != nil {
		t.Fatalf("sign bad proof: %v", err)
	}
	newPub, _ := proof.PublicKey()
	if err := s.ChangeCredentials(context.Background(), newPub, badProof); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
