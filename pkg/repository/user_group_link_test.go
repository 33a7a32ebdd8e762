package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/nggurbanov/curator-helper/pkg/domain"
)

func TestLinkSetAndGet(t *testing.T) {
	repo := NewUserGroupLinkRepository(newTestStore(t))
	ctx := context.Background()

	if err := repo.Set(ctx, 7, -100500); err != nil {
		t.Fatalf("Set: %v", err)
	}

	groupID, err := repo.Get(ctx, 7)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if groupID != -100500 {
		t.Errorf("expected -100500, got %d", groupID)
	}
}

func TestLinkSetReplacesExisting(t *testing.T) {
	repo := NewUserGroupLinkRepository(newTestStore(t))
	ctx := context.Background()

	if err := repo.Set(ctx, 7, -1); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := repo.Set(ctx, 7, -2); err != nil {
		t.Fatalf("Set: %v", err)
	}

	groupID, err := repo.Get(ctx, 7)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if groupID != -2 {
		t.Errorf("expected replacement link -2, got %d", groupID)
	}
}

func TestLinkSetRejectsZeroIDs(t *testing.T) {
	repo := NewUserGroupLinkRepository(newTestStore(t))
	ctx := context.Background()

	if err := repo.Set(ctx, 0, -1); err == nil {
		t.Error("expected error for zero user id")
	}
	if err := repo.Set(ctx, 7, 0); err == nil {
		t.Error("expected error for zero group id")
	}
}

func TestLinkGetUnknownUser(t *testing.T) {
	repo := NewUserGroupLinkRepository(newTestStore(t))

	_, err := repo.Get(context.Background(), 404)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLinkRemoveIsIdempotent(t *testing.T) {
	repo := NewUserGroupLinkRepository(newTestStore(t))
	ctx := context.Background()

	if err := repo.Set(ctx, 7, -1); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := repo.Remove(ctx, 7); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := repo.Get(ctx, 7); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected link gone, got %v", err)
	}

	if err := repo.Remove(ctx, 7); err != nil {
		t.Errorf("second Remove failed: %v", err)
	}
	if err := repo.Remove(ctx, 404); err != nil {
		t.Errorf("Remove of never-linked user failed: %v", err)
	}
}

func TestLinkRemoveKeepsOtherUsers(t *testing.T) {
	repo := NewUserGroupLinkRepository(newTestStore(t))
	ctx := context.Background()

	if err := repo.Set(ctx, 7, -1); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := repo.Set(ctx, 8, -2); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := repo.Remove(ctx, 7); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	groupID, err := repo.Get(ctx, 8)
	if err != nil || groupID != -2 {
		t.Errorf("unrelated link damaged: %d, %v", groupID, err)
	}
}
