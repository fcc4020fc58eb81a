package category

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestCreateRejectsDuplicateName(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()
	owner := uuid.NewString()

	if _, err := svc.Create(ctx, CreateInput{UserID: owner, Name: "Work", Color: "#ff0000"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Duplicate check is case-insensitive.
	if _, err := svc.Create(ctx, CreateInput{UserID: owner, Name: "work", Color: "#00ff00"}); err != ErrDuplicateName {
		t.Fatalf("expected ErrDuplicateName, got %v", err)
	}

	// A different user may reuse the name.
	if _, err := svc.Create(ctx, CreateInput{UserID: uuid.NewString(), Name: "Work", Color: "#0000ff"}); err != nil {
		t.Fatalf("create for other user: %v", err)
	}
}

func TestListOrderedByName(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()
	owner := uuid.NewString()

	for _, name := range []string{"Writing", "Admin", "Deep Work"} {
		if _, err := svc.Create(ctx, CreateInput{UserID: owner, Name: name, Color: "#123456"}); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}

	categories, err := svc.List(ctx, owner)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(categories) != 3 {
		t.Fatalf("expected 3 categories, got %d", len(categories))
	}
	for i, want := range []string{"Admin", "Deep Work", "Writing"} {
		if categories[i].Name != want {
			t.Fatalf("position %d: expected %s got %s", i, want, categories[i].Name)
		}
	}
}

func TestDeleteScopedToOwner(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()
	owner := uuid.NewString()

	cat, err := svc.Create(ctx, CreateInput{UserID: owner, Name: "Work", Color: "#ff0000"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(ctx, uuid.NewString(), cat.ID); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for foreign delete, got %v", err)
	}
	if err := svc.Delete(ctx, owner, cat.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
}
