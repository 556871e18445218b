package storage

import "testing"

func TestBPlusTreeInsertGet(t *testing.T) {
	tree := NewBPlusTree[int64, string](4)
	tree.Insert(1, "a")
	tree.Insert(2, "b")
	tree.Insert(3, "c")

	if v, ok := tree.Get(2); !ok || v != "b" {
		t.Fatalf("expected (b, true), got (%q, %v)", v, ok)
	}
	if _, ok := tree.Get(99); ok {
		t.Fatalf("expected key 99 to be absent")
	}
}

func TestBPlusTreeOverwrite(t *testing.T) {
	tree := NewBPlusTree[int64, string](4)
	tree.Insert(1, "a")
	tree.Insert(1, "z")
	if v, _ := tree.Get(1); v != "z" {
		t.Fatalf("expected overwrite to take effect, got %q", v)
	}
}

func TestBPlusTreeSplitShape(t *testing.T) {
	// order=4 -> maxKeys=3. Inserting 0..8 should split the root into
	// three separator keys [2, 4, 6] over four leaves, matching the
	// canonical worked example for this fan-out.
	tree := NewBPlusTree[int64, int64](4)
	for i := int64(0); i <= 8; i++ {
		tree.Insert(i, i*10)
	}

	root, ok := tree.root.(*bpInternal[int64, int64])
	if !ok {
		t.Fatalf("expected root to have split into an internal node")
	}
	wantKeys := []int64{2, 4, 6}
	if len(root.keys) != len(wantKeys) {
		t.Fatalf("expected root keys %v, got %v", wantKeys, root.keys)
	}
	for i, k := range wantKeys {
		if root.keys[i] != k {
			t.Fatalf("expected root keys %v, got %v", wantKeys, root.keys)
		}
	}

	wantLeaves := [][]int64{{0, 1}, {2, 3}, {4, 5}, {6, 7, 8}}
	for i, child := range root.children {
		leaf := child.(*bpLeaf[int64, int64])
		want := wantLeaves[i]
		if len(leaf.keys) != len(want) {
			t.Fatalf("leaf %d: expected keys %v, got %v", i, want, leaf.keys)
		}
		for j, k := range want {
			if leaf.keys[j] != k {
				t.Fatalf("leaf %d: expected keys %v, got %v", i, want, leaf.keys)
			}
		}
	}
}

func TestBPlusTreeAllOrdered(t *testing.T) {
	tree := NewBPlusTree[int64, int64](4)
	inserted := []int64{5, 1, 9, 3, 7, 0, 8, 2, 6, 4}
	for _, k := range inserted {
		tree.Insert(k, k)
	}

	var got []int64
	for k := range tree.All() {
		got = append(got, k)
	}
	for i := range got {
		if got[i] != int64(i) {
			t.Fatalf("expected ascending 0..9, got %v", got)
		}
	}
}

func TestBPlusTreeDelete(t *testing.T) {
	tree := NewBPlusTree[int64, int64](4)
	for i := int64(0); i <= 8; i++ {
		tree.Insert(i, i)
	}
	tree.Delete(3)
	if _, ok := tree.Get(3); ok {
		t.Fatalf("expected key 3 to be gone after delete")
	}
	if v, ok := tree.Get(4); !ok || v != 4 {
		t.Fatalf("expected sibling key 4 to survive delete of 3")
	}
}

func TestBPlusTreeAllStopsEarly(t *testing.T) {
	tree := NewBPlusTree[int64, int64](4)
	for i := int64(0); i <= 8; i++ {
		tree.Insert(i, i)
	}
	var got []int64
	for k := range tree.All() {
		got = append(got, k)
		if k == 3 {
			break
		}
	}
	if len(got) != 4 {
		t.Fatalf("expected iteration to stop after yielding 4 keys, got %v", got)
	}
}
