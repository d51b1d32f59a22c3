package credentials

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/vedran77/orbit/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerify(t *testing.T) {
	t.Parallel()
	m := New(bcrypt.MinCost, 2)
	ctx := context.Background()

	hash, err := m.Hash(ctx, "Sup3rSecret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "Sup3rSecret" || !strings.HasPrefix(hash, "$2a$") {
		t.Fatalf("unexpected hash form: %q", hash)
	}

	ok, err := m.Verify(ctx, "Sup3rSecret", hash)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !ok {
		t.Fatal("correct password rejected")
	}

	ok, err = m.Verify(ctx, "wrong", hash)
	if err != nil {
		t.Fatalf("mismatch must not be an error: %v", err)
	}
	if ok {
		t.Fatal("wrong password accepted")
	}
}

func TestHash_SaltsEachCall(t *testing.T) {
	t.Parallel()
	m := New(bcrypt.MinCost, 2)
	ctx := context.Background()

	first, err := m.Hash(ctx, "Sup3rSecret")
	if err != nil {
		t.Fatal(err)
	}
	second, err := m.Hash(ctx, "Sup3rSecret")
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Fatal("two hashes of the same password must differ")
	}
}

func TestNew_InvalidCostFallsBack(t *testing.T) {
	t.Parallel()

	if m := New(99, 1); m.cost != bcrypt.DefaultCost {
		t.Fatalf("cost = %d, want %d", m.cost, bcrypt.DefaultCost)
	}
	if m := New(-1, 1); m.cost != bcrypt.DefaultCost {
		t.Fatalf("cost = %d, want %d", m.cost, bcrypt.DefaultCost)
	}
}

func TestChange(t *testing.T) {
	t.Parallel()
	m := New(bcrypt.MinCost, 2)
	ctx := context.Background()

	current, err := m.Hash(ctx, "Sup3rSecret")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := m.Change(ctx, current, "not-it", "NewSecret1"); !errors.Is(err, domain.ErrIncorrectPassword) {
		t.Fatalf("got %v, want ErrIncorrectPassword", err)
	}

	next, err := m.Change(ctx, current, "Sup3rSecret", "NewSecret1")
	if err != nil {
		t.Fatalf("change: %v", err)
	}
	ok, err := m.Verify(ctx, "NewSecret1", next)
	if err != nil || !ok {
		t.Fatalf("new hash does not verify: ok=%v err=%v", ok, err)
	}
}

func TestCancelledContext(t *testing.T) {
	t.Parallel()
	m := New(bcrypt.MinCost, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := m.Hash(ctx, "Sup3rSecret"); err == nil {
		t.Fatal("hash with a cancelled context should fail")
	}
	if _, err := m.Verify(ctx, "Sup3rSecret", "$2a$04$aaaaaaaaaaaaaaaaaaaaaa"); err == nil {
		t.Fatal("verify with a cancelled context should fail")
	}
}
