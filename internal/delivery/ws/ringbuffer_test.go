package ws

import (
	"bytes"
	"testing"
)

func TestRingBuffer_New(t *testing.T) {
	rb := NewRingBuffer[[]byte](10)

	if rb.Len() != 0 {
		t.Errorf("Expected empty buffer, got %d elements", rb.Len())
	}
	if len(rb.data) != 10 {
		t.Errorf("Expected capacity 10, got %d", len(rb.data))
	}
	if rb.GetAll() != nil {
		t.Errorf("Expected nil from empty buffer")
	}
}

func TestRingBuffer_ZeroCapacity(t *testing.T) {
	rb := NewRingBuffer[int](0)
	rb.Add(1)
	rb.Add(2)

	all := rb.GetAll()
	if len(all) != 1 || all[0] != 2 {
		t.Errorf("Expected [2], got %v", all)
	}
}

func TestRingBuffer_AddAndGetAll(t *testing.T) {
	rb := NewRingBuffer[[]byte](5)

	rb.Add([]byte("born-1"))
	rb.Add([]byte("born-2"))
	rb.Add([]byte("supernova-1"))

	if rb.Len() != 3 {
		t.Fatalf("Expected 3 elements, got %d", rb.Len())
	}

	all := rb.GetAll()
	if len(all) != 3 {
		t.Fatalf("Expected 3 events, got %d", len(all))
	}
	if !bytes.Equal(all[0], []byte("born-1")) {
		t.Errorf("Expected born-1 first, got %s", all[0])
	}
	if !bytes.Equal(all[2], []byte("supernova-1")) {
		t.Errorf("Expected supernova-1 last, got %s", all[2])
	}
}

func TestRingBuffer_Overflow(t *testing.T) {
	rb := NewRingBuffer[string](3)

	for _, s := range []string{"e1", "e2", "e3", "e4", "e5"} {
		rb.Add(s)
	}

	if rb.Len() != 3 {
		t.Fatalf("Expected 3 elements (capped), got %d", rb.Len())
	}

	all := rb.GetAll()
	want := []string{"e3", "e4", "e5"}
	for i := range want {
		if all[i] != want[i] {
			t.Errorf("Position %d: expected %s, got %s", i, want[i], all[i])
		}
	}
}

func TestRingBuffer_Clear(t *testing.T) {
	rb := NewRingBuffer[string](3)
	rb.Add("e1")
	rb.Add("e2")
	rb.Clear()

	if rb.Len() != 0 {
		t.Errorf("Expected empty buffer after clear, got %d", rb.Len())
	}

	rb.Add("e3")
	all := rb.GetAll()
	if len(all) != 1 || all[0] != "e3" {
		t.Errorf("Expected [e3] after clear, got %v", all)
	}
}
