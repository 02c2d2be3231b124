package domain

import (
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }

func flatItem(id string, parentID *string, order int) Item {
	return Item{
		ID:        id,
		ListID:    "list-1",
		ParentID:  parentID,
		Title:     "item " + id,
		Order:     order,
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestAssembleForest(t *testing.T) {
	t.Run("nests children under parents", func(t *testing.T) {
		items := []Item{
			flatItem("a", nil, 0),
			flatItem("b", strPtr("a"), 0),
			flatItem("c", strPtr("b"), 0),
			flatItem("d", nil, 1),
		}

		forest := AssembleForest(items)
		if len(forest) != 2 {
			t.Fatalf("expected 2 roots, got %d", len(forest))
		}
		if forest[0].ID != "a" || forest[1].ID != "d" {
			t.Fatalf("unexpected root order: %s, %s", forest[0].ID, forest[1].ID)
		}
		if len(forest[0].Children) != 1 || forest[0].Children[0].ID != "b" {
			t.Fatal("expected b under a")
		}
		if len(forest[0].Children[0].Children) != 1 || forest[0].Children[0].Children[0].ID != "c" {
			t.Fatal("expected c under b")
		}
	})

	t.Run("assigns depths from zero", func(t *testing.T) {
		items := []Item{
			flatItem("a", nil, 0),
			flatItem("b", strPtr("a"), 0),
			flatItem("c", strPtr("b"), 0),
		}

		forest := AssembleForest(items)
		if forest[0].Depth != 0 {
			t.Errorf("root depth = %d, want 0", forest[0].Depth)
		}
		if got := forest[0].Children[0].Depth; got != 1 {
			t.Errorf("child depth = %d, want 1", got)
		}
		if got := forest[0].Children[0].Children[0].Depth; got != 2 {
			t.Errorf("grandchild depth = %d, want 2", got)
		}
	})

	t.Run("orders siblings by order then created_at then id", func(t *testing.T) {
		early := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		late := early.Add(time.Hour)

		items := []Item{
			{ID: "x", ListID: "l", Order: 1, CreatedAt: early},
			{ID: "y", ListID: "l", Order: 0, CreatedAt: late},
			{ID: "z", ListID: "l", Order: 0, CreatedAt: early},
		}

		forest := AssembleForest(items)
		got := []string{forest[0].ID, forest[1].ID, forest[2].ID}
		want := []string{"z", "y", "x"}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("sibling order = %v, want %v", got, want)
			}
		}
	})

	t.Run("promotes dangling parent references to roots", func(t *testing.T) {
		items := []Item{
			flatItem("a", nil, 0),
			flatItem("orphan", strPtr("gone"), 0),
		}

		forest := AssembleForest(items)
		if len(forest) != 2 {
			t.Fatalf("expected orphan to surface as root, got %d roots", len(forest))
		}
	})

	t.Run("surfaces cycle members instead of dropping them", func(t *testing.T) {
		items := []Item{
			flatItem("a", strPtr("b"), 0),
			flatItem("b", strPtr("a"), 0),
			flatItem("c", nil, 0),
		}

		forest := AssembleForest(items)
		total := len(FlattenForest(forest))
		if total != 3 {
			t.Fatalf("expected all 3 items renderable, got %d", total)
		}
	})

	t.Run("empty input yields empty forest", func(t *testing.T) {
		if got := AssembleForest(nil); len(got) != 0 {
			t.Fatalf("expected empty forest, got %d roots", len(got))
		}
	})
}

func TestFlattenForest(t *testing.T) {
	items := []Item{
		flatItem("a", nil, 0),
		flatItem("b", strPtr("a"), 0),
		flatItem("c", strPtr("a"), 1),
		flatItem("d", nil, 1),
	}

	flat := FlattenForest(AssembleForest(items))
	if len(flat) != len(items) {
		t.Fatalf("expected %d items, got %d", len(items), len(flat))
	}

	want := []string{"a", "b", "c", "d"}
	for i := range want {
		if flat[i].ID != want[i] {
			t.Fatalf("pre-order = %v..., want %v", flat[i].ID, want)
		}
	}
}
