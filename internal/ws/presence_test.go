package ws

import (
	"fmt"
	"sync"
	"testing"
)

func TestRegistrySetSemantics(t *testing.T) {
	r := NewRegistry()

	if r.IsPresent("a@x.io") {
		t.Fatal("empty registry reports presence")
	}

	r.Join("a@x.io", "conn-1")
	r.Join("a@x.io", "conn-2")
	if got := r.Connections("a@x.io"); got != 2 {
		t.Fatalf("connections = %d, want 2", got)
	}

	// One of two clients disconnecting keeps the user present.
	r.Leave("a@x.io", "conn-1")
	if !r.IsPresent("a@x.io") {
		t.Fatal("user with one remaining connection is not present")
	}

	r.Leave("a@x.io", "conn-2")
	if r.IsPresent("a@x.io") {
		t.Fatal("user with no connections is still present")
	}

	// Leaving twice or for an unknown identity must not panic.
	r.Leave("a@x.io", "conn-2")
	r.Leave("ghost@x.io", "conn-x")
}

func TestRegistryDuplicateJoin(t *testing.T) {
	r := NewRegistry()

	r.Join("a@x.io", "conn-1")
	r.Join("a@x.io", "conn-1")
	if got := r.Connections("a@x.io"); got != 1 {
		t.Fatalf("duplicate join counted twice: %d", got)
	}

	r.Leave("a@x.io", "conn-1")
	if r.IsPresent("a@x.io") {
		t.Fatal("user still present after leaving its only connection")
	}
}

func TestRegistryConcurrentJoinLeave(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			conn := fmt.Sprintf("conn-%d", n)
			r.Join("a@x.io", conn)
			r.Leave("a@x.io", conn)
		}(i)
	}
	r.Join("a@x.io", "keeper")
	wg.Wait()

	if !r.IsPresent("a@x.io") {
		t.Fatal("identity with a live connection lost presence under concurrency")
	}
	if got := r.Connections("a@x.io"); got != 1 {
		t.Fatalf("connections = %d, want 1", got)
	}
}

func TestUserRoom(t *testing.T) {
	if got := UserRoom("a@x.io"); got != "user:a@x.io" {
		t.Fatalf("UserRoom = %q", got)
	}
}
