package stack

import (
	"testing"
)

func TestStack_New(t *testing.T) {
	s := New[int]()

	if !s.IsEmpty() {
		t.Error("New() stack should be empty")
	}

	if s.Size() != 0 {
		t.Errorf("New() stack size = %d, want 0", s.Size())
	}
}

func TestStack_PushAndPop(t *testing.T) {
	s := New[int]()

	s.Push(1)
	s.Push(2)
	s.Push(3)

	if s.Size() != 3 {
		t.Errorf("Push() stack size = %d, want 3", s.Size())
	}

	// LIFO order
	for _, want := range []int{3, 2, 1} {
		val, ok := s.Pop()
		if !ok || val != want {
			t.Errorf("Pop() = %d, %t, want %d, true", val, ok, want)
		}
	}

	val, ok := s.Pop()
	if ok || val != 0 {
		t.Errorf("Pop() from empty stack = %d, %t, want 0, false", val, ok)
	}

	if !s.IsEmpty() {
		t.Error("Pop() stack should be empty after popping all elements")
	}
}

func TestStack_Peek(t *testing.T) {
	s := New[string]()

	val, ok := s.Peek()
	if ok || val != "" {
		t.Errorf("Peek() on empty stack = %q, %t, want \"\", false", val, ok)
	}

	s.Push("first")
	s.Push("second")

	val, ok = s.Peek()
	if !ok || val != "second" {
		t.Errorf("Peek() = %q, %t, want \"second\", true", val, ok)
	}

	// Ensure peek doesn't modify stack
	if s.Size() != 2 {
		t.Errorf("Peek() changed stack size to %d, want 2", s.Size())
	}
}

func TestStack_ToSlice(t *testing.T) {
	s := New[int]()
	s.Push(1)
	s.Push(2)
	s.Push(3)

	slice := s.ToSlice()

	expected := []int{1, 2, 3}
	if len(slice) != len(expected) {
		t.Errorf("ToSlice() length = %d, want %d", len(slice), len(expected))
	}

	for i, val := range expected {
		if slice[i] != val {
			t.Errorf("ToSlice()[%d] = %d, want %d", i, slice[i], val)
		}
	}

	// Ensure modifying slice doesn't affect stack
	slice[0] = 999

	bottomSlice := s.ToSlice()
	if bottomSlice[0] != 1 {
		t.Errorf("After modifying ToSlice() result, original stack changed: got %d, want 1", bottomSlice[0])
	}
}
