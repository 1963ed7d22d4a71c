package container

import (
	"fmt"
	"testing"
)

func TestStringMapPutGetRoundTrip(t *testing.T) {
	m := NewStringMap()
	m.Put("foo", 1)
	m.Put("bar", 2)
	if v, ok := m.Get("foo"); !ok || v.(int) != 1 {
		t.Fatalf("Get(foo) = %v, %v", v, ok)
	}
	if v, ok := m.Get("bar"); !ok || v.(int) != 2 {
		t.Fatalf("Get(bar) = %v, %v", v, ok)
	}
	if _, ok := m.Get("baz"); ok {
		t.Fatal("Get(baz) unexpectedly found a value")
	}
}

func TestStringMapOverwrite(t *testing.T) {
	m := NewStringMap()
	m.Put("k", 1)
	m.Put("k", 2)
	if v, _ := m.Get("k"); v.(int) != 2 {
		t.Fatalf("Get(k) = %v, want 2", v)
	}
	if m.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", m.Len())
	}
}

func TestStringMapRemoveDeletesEntry(t *testing.T) {
	m := NewStringMap()
	m.Put("k", 1)
	m.Remove("k")
	if _, ok := m.Get("k"); ok {
		t.Fatal("Get found a value after Remove")
	}
	if m.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", m.Len())
	}
	m.Remove("missing") // no-op, must not panic
}

func TestStringMapParentFallthrough(t *testing.T) {
	parent := NewStringMap()
	parent.Put("shared", "parent-value")
	child := NewStringMapChild(parent)
	child.Put("local", "child-value")

	if v, ok := child.Get("shared"); !ok || v != "parent-value" {
		t.Fatalf("Get(shared) via child = %v, %v", v, ok)
	}
	if v, ok := child.Get("local"); !ok || v != "child-value" {
		t.Fatalf("Get(local) via child = %v, %v", v, ok)
	}
	if _, ok := parent.Get("local"); ok {
		t.Fatal("parent sees a key only the child defines")
	}
}

func TestStringMapChildShadowsParentWithoutMutatingIt(t *testing.T) {
	parent := NewStringMap()
	parent.Put("x", "outer")
	child := NewStringMapChild(parent)
	child.Put("x", "inner")

	if v, _ := child.Get("x"); v != "inner" {
		t.Fatalf("child Get(x) = %v, want inner", v)
	}
	if v, _ := parent.Get("x"); v != "outer" {
		t.Fatalf("parent Get(x) = %v, want outer (should be unaffected by child Put)", v)
	}
}

func TestStringMapSurvivesRehashAcrossManyInserts(t *testing.T) {
	m := NewStringMap()
	const n = 500
	for i := 0; i < n; i++ {
		m.Put(fmt.Sprintf("key-%d", i), i)
	}
	if m.Len() != n {
		t.Fatalf("Len() = %d, want %d", m.Len(), n)
	}
	for i := 0; i < n; i++ {
		key := fmt.Sprintf("key-%d", i)
		v, ok := m.Get(key)
		if !ok || v.(int) != i {
			t.Fatalf("Get(%s) = %v, %v, want %d, true", key, v, ok, i)
		}
	}
}
