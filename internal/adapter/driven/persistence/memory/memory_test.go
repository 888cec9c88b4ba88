package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/Wyydra/teleguild/internal/core/domain"
)

func TestMessageRepositoryKeepsNewest(t *testing.T) {
	ctx := context.Background()
	repo := NewMessageRepository()
	room, other := domain.NewRoomID(), domain.NewRoomID()

	for _, content := range []string{"one", "two", "three"} {
		if err := repo.Save(ctx, domain.Message{ID: domain.NewMessageID(), RoomID: room, Content: content}); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	repo.Save(ctx, domain.Message{ID: domain.NewMessageID(), RoomID: other, Content: "elsewhere"})

	msgs, err := repo.ListByRoom(ctx, room, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(msgs) != 2 || msgs[0].Content != "two" || msgs[1].Content != "three" {
		t.Fatalf("ListByRoom = %+v", msgs)
	}
}

func TestPortalRepositoryUpsertKeepsCallIDs(t *testing.T) {
	ctx := context.Background()
	repo := NewPortalRepository()
	a := domain.Room{ID: domain.NewRoomID(), Name: "alpha"}
	b := domain.Room{ID: domain.NewRoomID(), Name: "bravo"}

	repo.Upsert(ctx, []domain.Room{a})
	renamed := a
	renamed.Name = "alpha two"
	repo.Upsert(ctx, []domain.Room{b, renamed})

	list, _ := repo.List(ctx)
	if len(list) != 2 {
		t.Fatalf("List = %+v", list)
	}
	if list[0].CallID != 1 || list[0].Room.Name != "alpha two" {
		t.Fatalf("first portal = %+v", list[0])
	}
	if list[1].CallID != 2 || list[1].Room.ID != b.ID {
		t.Fatalf("second portal = %+v", list[1])
	}

	p, err := repo.ByRoomID(ctx, b.ID)
	if err != nil || p.CallID != 2 {
		t.Fatalf("ByRoomID = %+v, %v", p, err)
	}
}

func TestPortalRepositoryReplace(t *testing.T) {
	ctx := context.Background()
	repo := NewPortalRepository()
	a := domain.Room{ID: domain.NewRoomID(), Name: "alpha"}
	b := domain.Room{ID: domain.NewRoomID(), Name: "bravo"}
	repo.Upsert(ctx, []domain.Room{a})

	repo.Replace(ctx, []domain.Portal{{CallID: 7, Room: b}})

	if _, err := repo.ByRoomID(ctx, a.ID); !errors.Is(err, domain.ErrRoomNotFound) {
		t.Fatalf("replaced room still present: %v", err)
	}
	p, err := repo.ByCallID(ctx, 7)
	if err != nil || p.Room.ID != b.ID {
		t.Fatalf("ByCallID = %+v, %v", p, err)
	}
	if _, err := repo.ByCallID(ctx, 1); !errors.Is(err, domain.ErrRoomNotFound) {
		t.Fatalf("err = %v, want ErrRoomNotFound", err)
	}
}
