package search

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/vedran77/orbit/internal/domain"
)

func indexAccount(t *testing.T, idx *Index, username, firstName, lastName, email string) uuid.UUID {
	t.Helper()
	a := &domain.Account{
		ID:        uuid.New(),
		Username:  username,
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
	}
	if err := idx.Index(context.Background(), a); err != nil {
		t.Fatal(err)
	}
	return a.ID
}

func TestSearch(t *testing.T) {
	t.Parallel()
	idx := New()

	alice := indexAccount(t, idx, "alice", "Alice", "Anders", "alice@x.com")
	bob := indexAccount(t, idx, "bob", "Bob", "Alicedotter", "bob@x.com")
	indexAccount(t, idx, "carol", "Carol", "Chen", "carol@x.com")

	// Matches any field, case-insensitively, ordered by username.
	got := idx.Search("ALICE")
	if len(got) != 2 || got[0] != alice || got[1] != bob {
		t.Fatalf("Search(ALICE) = %v, want [%s %s]", got, alice, bob)
	}

	if got := idx.Search("chen"); len(got) != 1 {
		t.Fatalf("Search(chen) = %v, want one hit", got)
	}
	if got := idx.Search("zzz"); got != nil {
		t.Fatalf("Search(zzz) = %v, want nil", got)
	}
	if got := idx.Search("   "); got != nil {
		t.Fatalf("blank query = %v, want nil", got)
	}
}

func TestIndex_Reindex(t *testing.T) {
	t.Parallel()
	idx := New()

	a := &domain.Account{ID: uuid.New(), Username: "alice", Email: "alice@x.com"}
	if err := idx.Index(context.Background(), a); err != nil {
		t.Fatal(err)
	}

	a.Username = "alicia"
	if err := idx.Index(context.Background(), a); err != nil {
		t.Fatal(err)
	}

	if got := idx.Search("alicia"); len(got) != 1 || got[0] != a.ID {
		t.Fatalf("new username not searchable: %v", got)
	}
	// The old document is replaced, not shadowed; only the email still
	// matches "alice".
	if got := idx.Search("alice@"); len(got) != 1 {
		t.Fatalf("stale document left behind: %v", got)
	}
}

func TestRemove(t *testing.T) {
	t.Parallel()
	idx := New()

	id := indexAccount(t, idx, "alice", "Alice", "Anders", "alice@x.com")

	if err := idx.Remove(context.Background(), id); err != nil {
		t.Fatal(err)
	}
	if got := idx.Search("alice"); got != nil {
		t.Fatalf("removed account still indexed: %v", got)
	}

	// Removing twice is harmless.
	if err := idx.Remove(context.Background(), id); err != nil {
		t.Fatal(err)
	}
}
