package item

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/nestdo/backend/domain"
)

const owner = "user-1"

func ptr(s string) *string { return &s }

func newTestUseCase(s *memStore, maxDepth int) *UseCase {
	return New(&memItemRepo{s}, &memListRepo{s}, nil, zap.NewNop(), Config{MaxDepth: maxDepth})
}

func wantCode(t *testing.T, err error, code domain.ErrorCode) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	if !domain.IsDomainError(err, code) {
		t.Fatalf("expected %s error, got %v", code, err)
	}
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("appends to the end of the sibling group", func(t *testing.T) {
		store := newMemStore()
		uc := newTestUseCase(store, 3)
		listID := store.addList(owner)

		first, err := uc.Create(ctx, owner, CreateParams{ListID: listID, Title: "first"})
		if err != nil {
			t.Fatal(err)
		}
		second, err := uc.Create(ctx, owner, CreateParams{ListID: listID, Title: "second"})
		if err != nil {
			t.Fatal(err)
		}
		if first.Order != 0 || second.Order != 1 {
			t.Fatalf("root orders = %d, %d; want 0, 1", first.Order, second.Order)
		}

		child, err := uc.Create(ctx, owner, CreateParams{ListID: listID, ParentID: &first.ID, Title: "child"})
		if err != nil {
			t.Fatal(err)
		}
		if child.Order != 0 {
			t.Fatalf("first child order = %d, want 0", child.Order)
		}
	})

	t.Run("requires a title", func(t *testing.T) {
		store := newMemStore()
		uc := newTestUseCase(store, 3)
		listID := store.addList(owner)

		_, err := uc.Create(ctx, owner, CreateParams{ListID: listID})
		wantCode(t, err, domain.ErrCodeInvalid)
	})

	t.Run("rejects unknown priority", func(t *testing.T) {
		store := newMemStore()
		uc := newTestUseCase(store, 3)
		listID := store.addList(owner)

		_, err := uc.Create(ctx, owner, CreateParams{ListID: listID, Title: "x", Priority: "whenever"})
		wantCode(t, err, domain.ErrCodeInvalid)
	})

	t.Run("rejects a parent from another list", func(t *testing.T) {
		store := newMemStore()
		uc := newTestUseCase(store, 3)
		listA := store.addList(owner)
		listB := store.addList(owner)
		parentID := store.addItem(listB, nil, 0, false)

		_, err := uc.Create(ctx, owner, CreateParams{ListID: listA, ParentID: &parentID, Title: "x"})
		wantCode(t, err, domain.ErrCodeCrossList)
	})

	t.Run("rejects a missing parent", func(t *testing.T) {
		store := newMemStore()
		uc := newTestUseCase(store, 3)
		listID := store.addList(owner)

		_, err := uc.Create(ctx, owner, CreateParams{ListID: listID, ParentID: ptr("nope"), Title: "x"})
		wantCode(t, err, domain.ErrCodeNotFound)
	})

	t.Run("enforces the nesting cap", func(t *testing.T) {
		store := newMemStore()
		uc := newTestUseCase(store, 3)
		listID := store.addList(owner)
		a := store.addItem(listID, nil, 0, false)
		b := store.addItem(listID, &a, 0, false)

		c, err := uc.Create(ctx, owner, CreateParams{ListID: listID, ParentID: &b, Title: "deepest"})
		if err != nil {
			t.Fatalf("creating at the last allowed level: %v", err)
		}

		_, err = uc.Create(ctx, owner, CreateParams{ListID: listID, ParentID: &c.ID, Title: "too deep"})
		wantCode(t, err, domain.ErrCodeMaxDepth)
	})

	t.Run("cap of zero allows arbitrary nesting", func(t *testing.T) {
		store := newMemStore()
		uc := newTestUseCase(store, 0)
		listID := store.addList(owner)

		parentID := (*string)(nil)
		for i := 0; i < 6; i++ {
			it, err := uc.Create(ctx, owner, CreateParams{ListID: listID, ParentID: parentID, Title: "level"})
			if err != nil {
				t.Fatalf("level %d: %v", i, err)
			}
			parentID = &it.ID
		}
	})

	t.Run("child under a completed parent uncompletes the chain", func(t *testing.T) {
		store := newMemStore()
		uc := newTestUseCase(store, 3)
		listID := store.addList(owner)
		a := store.addItem(listID, nil, 0, true)
		b := store.addItem(listID, &a, 0, true)

		if _, err := uc.Create(ctx, owner, CreateParams{ListID: listID, ParentID: &b, Title: "new work"}); err != nil {
			t.Fatal(err)
		}
		if store.get(b).Completed {
			t.Error("parent should be uncompleted")
		}
		if store.get(a).Completed {
			t.Error("grandparent should be uncompleted")
		}
	})

	t.Run("rejects lists owned by someone else", func(t *testing.T) {
		store := newMemStore()
		uc := newTestUseCase(store, 3)
		listID := store.addList("someone-else")

		_, err := uc.Create(ctx, owner, CreateParams{ListID: listID, Title: "x"})
		wantCode(t, err, domain.ErrCodeForbidden)
	})

	t.Run("rejects unknown lists", func(t *testing.T) {
		store := newMemStore()
		uc := newTestUseCase(store, 3)

		_, err := uc.Create(ctx, owner, CreateParams{ListID: "nope", Title: "x"})
		wantCode(t, err, domain.ErrCodeNotFound)
	})
}

func TestToggleComplete(t *testing.T) {
	ctx := context.Background()

	t.Run("completing cascades down the subtree", func(t *testing.T) {
		store := newMemStore()
		uc := newTestUseCase(store, 3)
		listID := store.addList(owner)
		a := store.addItem(listID, nil, 0, false)
		b := store.addItem(listID, &a, 0, false)
		c := store.addItem(listID, &b, 0, false)

		it, affected, err := uc.ToggleComplete(ctx, owner, a)
		if err != nil {
			t.Fatal(err)
		}
		if !it.Completed {
			t.Error("toggled item should be completed")
		}
		for _, id := range []string{b, c} {
			if !store.get(id).Completed {
				t.Errorf("descendant %s should be completed", id)
			}
		}
		if len(affected) != 3 {
			t.Errorf("affected = %d ids, want 3", len(affected))
		}
	})

	t.Run("last sibling completion bubbles up regardless of order", func(t *testing.T) {
		for name, first := range map[string]int{"b first": 0, "c first": 1} {
			t.Run(name, func(t *testing.T) {
				store := newMemStore()
				uc := newTestUseCase(store, 3)
				listID := store.addList(owner)
				a := store.addItem(listID, nil, 0, false)
				children := []string{
					store.addItem(listID, &a, 0, false),
					store.addItem(listID, &a, 1, false),
				}

				if _, _, err := uc.ToggleComplete(ctx, owner, children[first]); err != nil {
					t.Fatal(err)
				}
				if store.get(a).Completed {
					t.Fatal("parent completed too early")
				}

				if _, _, err := uc.ToggleComplete(ctx, owner, children[1-first]); err != nil {
					t.Fatal(err)
				}
				if !store.get(a).Completed {
					t.Fatal("parent should auto-complete after last child")
				}
			})
		}
	})

	t.Run("auto-completion keeps climbing", func(t *testing.T) {
		store := newMemStore()
		uc := newTestUseCase(store, 3)
		listID := store.addList(owner)
		a := store.addItem(listID, nil, 0, false)
		b := store.addItem(listID, &a, 0, false)
		c := store.addItem(listID, &b, 0, false)

		if _, _, err := uc.ToggleComplete(ctx, owner, c); err != nil {
			t.Fatal(err)
		}
		if !store.get(b).Completed || !store.get(a).Completed {
			t.Error("completing the only leaf should complete the whole chain")
		}
	})

	t.Run("uncompleting ripples up the ancestor chain", func(t *testing.T) {
		store := newMemStore()
		uc := newTestUseCase(store, 3)
		listID := store.addList(owner)
		a := store.addItem(listID, nil, 0, true)
		b := store.addItem(listID, &a, 0, true)
		c := store.addItem(listID, &b, 0, true)

		it, affected, err := uc.ToggleComplete(ctx, owner, c)
		if err != nil {
			t.Fatal(err)
		}
		if it.Completed {
			t.Error("toggled item should be incomplete")
		}
		if store.get(b).Completed || store.get(a).Completed {
			t.Error("ancestors should be uncompleted")
		}
		if len(affected) != 3 {
			t.Errorf("affected = %d ids, want 3", len(affected))
		}
	})

	t.Run("uncompleting leaves descendants alone", func(t *testing.T) {
		store := newMemStore()
		uc := newTestUseCase(store, 3)
		listID := store.addList(owner)
		a := store.addItem(listID, nil, 0, true)
		b := store.addItem(listID, &a, 0, true)

		if _, _, err := uc.ToggleComplete(ctx, owner, a); err != nil {
			t.Fatal(err)
		}
		if !store.get(b).Completed {
			t.Error("child completion should survive the parent toggle")
		}
	})
}

func TestToggleCollapsed(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	uc := newTestUseCase(store, 3)
	listID := store.addList(owner)
	a := store.addItem(listID, nil, 0, false)

	it, err := uc.ToggleCollapsed(ctx, owner, a)
	if err != nil {
		t.Fatal(err)
	}
	if !it.Collapsed {
		t.Error("expected collapsed after first toggle")
	}

	it, err = uc.ToggleCollapsed(ctx, owner, a)
	if err != nil {
		t.Fatal(err)
	}
	if it.Collapsed {
		t.Error("expected expanded after second toggle")
	}
}

func TestMoveToParent(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects moving under itself", func(t *testing.T) {
		store := newMemStore()
		uc := newTestUseCase(store, 3)
		listID := store.addList(owner)
		a := store.addItem(listID, nil, 0, false)

		_, err := uc.MoveToParent(ctx, owner, a, &a)
		wantCode(t, err, domain.ErrCodeCycle)
	})

	t.Run("rejects moving under a descendant and leaves the tree intact", func(t *testing.T) {
		store := newMemStore()
		uc := newTestUseCase(store, 3)
		listID := store.addList(owner)
		a := store.addItem(listID, nil, 0, false)
		b := store.addItem(listID, &a, 0, false)
		c := store.addItem(listID, &b, 0, false)

		_, err := uc.MoveToParent(ctx, owner, a, &c)
		wantCode(t, err, domain.ErrCodeCycle)

		if got := store.get(a); got.ParentID != nil {
			t.Error("rejected move must not change the parent")
		}
	})

	t.Run("depth check covers the moved subtree", func(t *testing.T) {
		store := newMemStore()
		uc := newTestUseCase(store, 3)
		listID := store.addList(owner)
		a := store.addItem(listID, nil, 0, false)
		b := store.addItem(listID, &a, 0, false)
		x := store.addItem(listID, nil, 1, false)
		y := store.addItem(listID, &x, 0, false)

		// x carries one level below it; under b that bottoms out past the cap.
		_, err := uc.MoveToParent(ctx, owner, x, &b)
		wantCode(t, err, domain.ErrCodeMaxDepth)

		if got := store.get(x); got.ParentID != nil {
			t.Error("rejected move must not change the parent")
		}
		if got := store.get(y); got.ParentID == nil || *got.ParentID != x {
			t.Error("descendant must stay under the moved item")
		}

		// Under a there is exactly room for both levels.
		if _, err := uc.MoveToParent(ctx, owner, x, &a); err != nil {
			t.Fatalf("move within the cap: %v", err)
		}
	})

	t.Run("appends to the new sibling group", func(t *testing.T) {
		store := newMemStore()
		uc := newTestUseCase(store, 3)
		listID := store.addList(owner)
		a := store.addItem(listID, nil, 0, false)
		store.addItem(listID, &a, 0, false)
		store.addItem(listID, &a, 1, false)
		x := store.addItem(listID, nil, 1, false)

		moved, err := uc.MoveToParent(ctx, owner, x, &a)
		if err != nil {
			t.Fatal(err)
		}
		if moved.Order != 2 {
			t.Errorf("moved order = %d, want 2", moved.Order)
		}
		if moved.ParentID == nil || *moved.ParentID != a {
			t.Error("moved item should hang under the new parent")
		}
	})

	t.Run("same parent is a no-op", func(t *testing.T) {
		store := newMemStore()
		uc := newTestUseCase(store, 3)
		listID := store.addList(owner)
		a := store.addItem(listID, nil, 0, false)
		b := store.addItem(listID, &a, 0, false)

		moved, err := uc.MoveToParent(ctx, owner, b, &a)
		if err != nil {
			t.Fatal(err)
		}
		if moved.Order != 0 {
			t.Error("no-op move must not reassign order")
		}
	})

	t.Run("removing the last incomplete child completes the old parent", func(t *testing.T) {
		store := newMemStore()
		uc := newTestUseCase(store, 3)
		listID := store.addList(owner)
		p := store.addItem(listID, nil, 0, false)
		store.addItem(listID, &p, 0, true)
		x := store.addItem(listID, &p, 1, false)

		if _, err := uc.MoveToParent(ctx, owner, x, nil); err != nil {
			t.Fatal(err)
		}
		if !store.get(p).Completed {
			t.Error("old parent should complete once only done children remain")
		}
	})

	t.Run("an incomplete arrival uncompletes the new chain", func(t *testing.T) {
		store := newMemStore()
		uc := newTestUseCase(store, 3)
		listID := store.addList(owner)
		p := store.addItem(listID, nil, 0, true)
		store.addItem(listID, &p, 0, true)
		x := store.addItem(listID, nil, 1, false)

		if _, err := uc.MoveToParent(ctx, owner, x, &p); err != nil {
			t.Fatal(err)
		}
		if store.get(p).Completed {
			t.Error("new parent should lose completion")
		}
	})

	t.Run("rejects a parent from another list", func(t *testing.T) {
		store := newMemStore()
		uc := newTestUseCase(store, 3)
		listA := store.addList(owner)
		listB := store.addList(owner)
		x := store.addItem(listA, nil, 0, false)
		foreign := store.addItem(listB, nil, 0, false)

		_, err := uc.MoveToParent(ctx, owner, x, &foreign)
		wantCode(t, err, domain.ErrCodeCrossList)
	})
}

func TestMoveToList(t *testing.T) {
	ctx := context.Background()

	t.Run("only roots may change lists", func(t *testing.T) {
		store := newMemStore()
		uc := newTestUseCase(store, 3)
		listA := store.addList(owner)
		listB := store.addList(owner)
		a := store.addItem(listA, nil, 0, false)
		b := store.addItem(listA, &a, 0, false)

		_, err := uc.MoveToList(ctx, owner, b, listB)
		wantCode(t, err, domain.ErrCodeRootOnly)
	})

	t.Run("moves the whole subtree and appends at the target roots", func(t *testing.T) {
		store := newMemStore()
		uc := newTestUseCase(store, 3)
		listA := store.addList(owner)
		listB := store.addList(owner)
		a := store.addItem(listA, nil, 0, false)
		b := store.addItem(listA, &a, 0, false)
		c := store.addItem(listA, &b, 0, false)
		store.addItem(listB, nil, 0, false)

		moved, err := uc.MoveToList(ctx, owner, a, listB)
		if err != nil {
			t.Fatal(err)
		}
		if moved.ListID != listB {
			t.Error("root should land in the target list")
		}
		if moved.Order != 1 {
			t.Errorf("root order = %d, want 1", moved.Order)
		}
		for _, id := range []string{b, c} {
			if store.get(id).ListID != listB {
				t.Errorf("descendant %s should follow into the target list", id)
			}
		}
		if got := store.get(b); got.ParentID == nil || *got.ParentID != a {
			t.Error("subtree structure must survive the move")
		}
	})

	t.Run("same list is a no-op", func(t *testing.T) {
		store := newMemStore()
		uc := newTestUseCase(store, 3)
		listA := store.addList(owner)
		a := store.addItem(listA, nil, 0, false)

		moved, err := uc.MoveToList(ctx, owner, a, listA)
		if err != nil {
			t.Fatal(err)
		}
		if moved.Order != 0 {
			t.Error("no-op move must not reassign order")
		}
	})

	t.Run("target list must belong to the actor", func(t *testing.T) {
		store := newMemStore()
		uc := newTestUseCase(store, 3)
		listA := store.addList(owner)
		listB := store.addList("someone-else")
		a := store.addItem(listA, nil, 0, false)

		_, err := uc.MoveToList(ctx, owner, a, listB)
		wantCode(t, err, domain.ErrCodeForbidden)
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("cascades through the subtree and reports the count", func(t *testing.T) {
		store := newMemStore()
		uc := newTestUseCase(store, 3)
		listID := store.addList(owner)
		a := store.addItem(listID, nil, 0, false)
		b := store.addItem(listID, &a, 0, false)
		store.addItem(listID, &b, 0, false)
		keeper := store.addItem(listID, nil, 1, false)

		deleted, err := uc.Delete(ctx, owner, a)
		if err != nil {
			t.Fatal(err)
		}
		if deleted != 3 {
			t.Errorf("deleted = %d, want 3", deleted)
		}
		if store.get(keeper).ID == "" {
			t.Error("unrelated sibling must survive")
		}
	})

	t.Run("unknown item", func(t *testing.T) {
		store := newMemStore()
		uc := newTestUseCase(store, 3)

		_, err := uc.Delete(ctx, owner, "nope")
		wantCode(t, err, domain.ErrCodeNotFound)
	})
}

func TestGetTree(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	uc := newTestUseCase(store, 3)
	listID := store.addList(owner)
	a := store.addItem(listID, nil, 0, false)
	store.addItem(listID, &a, 0, false)
	store.addItem(listID, nil, 1, false)

	forest, err := uc.GetTree(ctx, owner, listID)
	if err != nil {
		t.Fatal(err)
	}
	if len(forest) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(forest))
	}
	if len(forest[0].Children) != 1 {
		t.Fatal("expected child under the first root")
	}

	if _, err := uc.GetTree(ctx, "someone-else", listID); !domain.IsDomainError(err, domain.ErrCodeForbidden) {
		t.Fatalf("expected FORBIDDEN for foreign reader, got %v", err)
	}
}

func TestGetSubtree(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	uc := newTestUseCase(store, 3)
	listID := store.addList(owner)
	a := store.addItem(listID, nil, 0, false)
	b := store.addItem(listID, &a, 0, false)
	store.addItem(listID, &b, 0, false)

	node, err := uc.GetSubtree(ctx, owner, b)
	if err != nil {
		t.Fatal(err)
	}
	if node.ID != b {
		t.Fatalf("subtree root = %s, want %s", node.ID, b)
	}
	if node.Depth != 0 {
		t.Errorf("subtree root depth = %d, want 0", node.Depth)
	}
	if len(node.Children) != 1 {
		t.Errorf("expected 1 child, got %d", len(node.Children))
	}
}

func TestItemOwnership(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	uc := newTestUseCase(store, 3)
	listID := store.addList("someone-else")
	a := store.addItem(listID, nil, 0, false)

	if _, _, err := uc.ToggleComplete(ctx, owner, a); !domain.IsDomainError(err, domain.ErrCodeForbidden) {
		t.Fatalf("expected FORBIDDEN, got %v", err)
	}
	if _, err := uc.Update(ctx, owner, a, UpdateParams{}); !domain.IsDomainError(err, domain.ErrCodeForbidden) {
		t.Fatalf("expected FORBIDDEN, got %v", err)
	}
	if _, err := uc.Delete(ctx, owner, a); !domain.IsDomainError(err, domain.ErrCodeForbidden) {
		t.Fatalf("expected FORBIDDEN, got %v", err)
	}
}
