package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/Wyydra/teleguild/internal/core/domain"
)

func openTemp(t *testing.T) (*PortalRepository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "directory.db")
	repo, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo, path
}

func TestUpsertKeepsCallIDsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	repo, path := openTemp(t)
	a := domain.Room{ID: domain.NewRoomID(), Name: "alpha"}
	b := domain.Room{ID: domain.NewRoomID(), Name: "bravo"}

	if err := repo.Upsert(ctx, []domain.Room{a}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	a.Name = "alpha two"
	if err := repo.Upsert(ctx, []domain.Room{b, a}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	repo.Close()

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	list, err := reopened.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("List = %+v", list)
	}
	if list[0].CallID != 1 || list[0].Room.ID != a.ID || list[0].Room.Name != "alpha two" {
		t.Fatalf("first = %+v", list[0])
	}
	if list[1].CallID != 2 || list[1].Room.ID != b.ID {
		t.Fatalf("second = %+v", list[1])
	}
}

func TestReplaceAndLookups(t *testing.T) {
	ctx := context.Background()
	repo, _ := openTemp(t)
	a := domain.Room{ID: domain.NewRoomID(), Name: "alpha"}
	b := domain.Room{ID: domain.NewRoomID(), Name: "bravo"}
	repo.Upsert(ctx, []domain.Room{a})

	if err := repo.Replace(ctx, []domain.Portal{{CallID: 1, Room: b}, {CallID: 2, Room: a}}); err != nil {
		t.Fatalf("replace: %v", err)
	}

	p, err := repo.ByCallID(ctx, 1)
	if err != nil || p.Room.ID != b.ID || p.Room.Name != "bravo" {
		t.Fatalf("ByCallID(1) = %+v, %v", p, err)
	}
	p, err = repo.ByRoomID(ctx, a.ID)
	if err != nil || p.CallID != 2 {
		t.Fatalf("ByRoomID(a) = %+v, %v", p, err)
	}
	if _, err := repo.ByCallID(ctx, 9); !errors.Is(err, domain.ErrRoomNotFound) {
		t.Fatalf("err = %v, want ErrRoomNotFound", err)
	}
	if _, err := repo.ByRoomID(ctx, domain.NewRoomID()); !errors.Is(err, domain.ErrRoomNotFound) {
		t.Fatalf("err = %v, want ErrRoomNotFound", err)
	}
}
