package registry

import (
	"fmt"
	"testing"
)

type testItem struct {
	ID   string
	Name string
}

func TestBaseRegistry_Register(t *testing.T) {
	reg := NewBaseRegistry[testItem]()

	tests := []struct {
		name    string
		item    testItem
		wantErr bool
	}{
		{
			name:    "register valid item",
			item:    testItem{ID: "test-1", Name: "Test Item 1"},
			wantErr: false,
		},
		{
			name:    "register item with empty name",
			item:    testItem{ID: "", Name: "Test Item"},
			wantErr: true,
		},
		{
			name:    "register duplicate item",
			item:    testItem{ID: "test-1", Name: "Test Item 2"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := reg.Register(tt.item.ID, tt.item)
			if (err != nil) != tt.wantErr {
				t.Errorf("BaseRegistry.Register() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestBaseRegistry_Replace(t *testing.T) {
	reg := NewBaseRegistry[testItem]()

	if replaced := reg.Replace("a", testItem{ID: "a", Name: "first"}); replaced {
		t.Errorf("BaseRegistry.Replace() on fresh name reported replaced = true")
	}
	if replaced := reg.Replace("a", testItem{ID: "a", Name: "second"}); !replaced {
		t.Errorf("BaseRegistry.Replace() on existing name reported replaced = false")
	}

	item, ok := reg.Get("a")
	if !ok || item.Name != "second" {
		t.Errorf("BaseRegistry.Get() after replace = %v, %v; want second, true", item, ok)
	}
	if count := reg.Count(); count != 1 {
		t.Errorf("BaseRegistry.Count() after replace = %d, want 1", count)
	}
}

func TestBaseRegistry_OrderPreserved(t *testing.T) {
	reg := NewBaseRegistry[testItem]()

	ids := []string{"charlie", "alpha", "bravo"}
	for _, id := range ids {
		if err := reg.Register(id, testItem{ID: id}); err != nil {
			t.Fatalf("Failed to register %s: %v", id, err)
		}
	}

	// Replace must not move an item from its slot.
	reg.Replace("alpha", testItem{ID: "alpha", Name: "updated"})

	names := reg.Names()
	if len(names) != len(ids) {
		t.Fatalf("BaseRegistry.Names() length = %d, want %d", len(names), len(ids))
	}
	for i, id := range ids {
		if names[i] != id {
			t.Errorf("BaseRegistry.Names()[%d] = %s, want %s", i, names[i], id)
		}
	}

	items := reg.List()
	for i, id := range ids {
		if items[i].ID != id {
			t.Errorf("BaseRegistry.List()[%d].ID = %s, want %s", i, items[i].ID, id)
		}
	}
}

func TestBaseRegistry_Remove(t *testing.T) {
	reg := NewBaseRegistry[testItem]()

	if err := reg.Register("test-1", testItem{ID: "test-1"}); err != nil {
		t.Fatalf("Failed to register test item: %v", err)
	}
	if err := reg.Register("test-2", testItem{ID: "test-2"}); err != nil {
		t.Fatalf("Failed to register test item: %v", err)
	}

	if err := reg.Remove("test-1"); err != nil {
		t.Errorf("BaseRegistry.Remove() error = %v", err)
	}
	if err := reg.Remove("missing"); err == nil {
		t.Errorf("BaseRegistry.Remove() on missing item, want error")
	}

	if _, exists := reg.Get("test-1"); exists {
		t.Errorf("BaseRegistry.Get() item still exists after removal")
	}
	names := reg.Names()
	if len(names) != 1 || names[0] != "test-2" {
		t.Errorf("BaseRegistry.Names() after removal = %v, want [test-2]", names)
	}
}

func TestBaseRegistry_Clear(t *testing.T) {
	reg := NewBaseRegistry[testItem]()

	for i := 0; i < 3; i++ {
		id := fmt.Sprintf("test-%d", i)
		if err := reg.Register(id, testItem{ID: id}); err != nil {
			t.Fatalf("Failed to register %s: %v", id, err)
		}
	}

	reg.Clear()

	if count := reg.Count(); count != 0 {
		t.Errorf("BaseRegistry.Count() after clear = %d, want 0", count)
	}
	if names := reg.Names(); len(names) != 0 {
		t.Errorf("BaseRegistry.Names() after clear = %v, want empty", names)
	}
}

func TestBaseRegistry_Concurrency(t *testing.T) {
	reg := NewBaseRegistry[testItem]()

	done := make(chan bool, 2)

	go func() {
		defer func() { done <- true }()
		for i := 0; i < 100; i++ {
			id := fmt.Sprintf("concurrent-%d", i)
			_ = reg.Register(id, testItem{ID: id})
		}
	}()

	go func() {
		defer func() { done <- true }()
		for i := 0; i < 100; i++ {
			reg.Get(fmt.Sprintf("concurrent-%d", i))
			reg.Count()
			reg.Names()
		}
	}()

	<-done
	<-done

	if count := reg.Count(); count != 100 {
		t.Errorf("BaseRegistry.Count() after concurrent access = %d, want 100", count)
	}
}
