package vault

import (
	"errors"
	"testing"
	"time"
)

func newUnlockedVault(t *testing.T) *Vault {
	t.Helper()
	v := newTestVault(t)
	onboard(t, v, "alice", "hunter2222")
	if err := v.AttemptLogin("hunter2222"); err != nil {
		t.Fatalf("AttemptLogin failed: %v", err)
	}
	return v
}

func addTestItem(t *testing.T, v *Vault, tag string) int64 {
	t.Helper()
	id, err := v.AddItem(&Item{
		Tag:      tag,
		Type:     TypePassword,
		Username: "alice@example.com",
		Password: "Abcdefgh12345!",
		Webpage:  "https://example.com",
	})
	if err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}
	return id
}

func TestItemOperationsRequireUnlock(t *testing.T) {
	v := newTestVault(t)
	onboard(t, v, "alice", "hunter2222")

	if _, err := v.AddItem(&Item{Tag: "x", Type: TypeNote}); !errors.Is(err, ErrSessionLocked) {
		t.Errorf("AddItem err = %v, want ErrSessionLocked", err)
	}
	if _, err := v.ListItems(); !errors.Is(err, ErrSessionLocked) {
		t.Errorf("ListItems err = %v, want ErrSessionLocked", err)
	}
	if err := v.TrashItem(1); !errors.Is(err, ErrSessionLocked) {
		t.Errorf("TrashItem err = %v, want ErrSessionLocked", err)
	}
}

func TestAddItemValidation(t *testing.T) {
	v := newUnlockedVault(t)

	if _, err := v.AddItem(&Item{Tag: "x", Type: "Login"}); !errors.Is(err, ErrInvalidItemType) {
		t.Errorf("err = %v, want ErrInvalidItemType", err)
	}
	if _, err := v.AddItem(&Item{Tag: "  ", Type: TypeNote}); !errors.Is(err, ErrNameRequired) {
		t.Errorf("err = %v, want ErrNameRequired", err)
	}
}

func TestAddAndGetItem(t *testing.T) {
	v := newUnlockedVault(t)

	id, err := v.AddItem(&Item{
		Tag:        "visa",
		Type:       TypeCard,
		CardNumber: "4111111111111111",
		Expiry:     "12/27",
		CVV:        "123",
		Notes:      "personal card",
	})
	if err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}

	item, err := v.GetItem(id)
	if err != nil {
		t.Fatalf("GetItem failed: %v", err)
	}
	if item.Tag != "visa" || item.Type != TypeCard || item.CardNumber != "4111111111111111" {
		t.Errorf("unexpected item: %+v", item)
	}
	if item.DateAccessed.IsZero() {
		t.Error("DateAccessed not set")
	}
}

func TestGetItemTouchesDateAccessed(t *testing.T) {
	v := newUnlockedVault(t)
	id := addTestItem(t, v, "login")

	first, err := v.GetItem(id)
	if err != nil {
		t.Fatalf("GetItem failed: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	second, err := v.GetItem(id)
	if err != nil {
		t.Fatalf("GetItem failed: %v", err)
	}
	if !second.DateAccessed.After(first.DateAccessed) {
		t.Errorf("DateAccessed not advanced: %v -> %v", first.DateAccessed, second.DateAccessed)
	}
}

func TestGetItemNotFound(t *testing.T) {
	v := newUnlockedVault(t)
	if _, err := v.GetItem(42); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("err = %v, want ErrItemNotFound", err)
	}
}

func TestAddItemRecordsComplexity(t *testing.T) {
	v := newUnlockedVault(t)

	id, err := v.AddItem(&Item{Tag: "weak", Type: TypePassword, Password: "abcdefgh"})
	if err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}
	rec, err := v.GetSecurity(id)
	if err != nil {
		t.Fatalf("GetSecurity failed: %v", err)
	}
	if rec.Complexity != 1 {
		t.Errorf("complexity = %d, want 1", rec.Complexity)
	}
	if rec.Compromised {
		t.Error("new item marked compromised")
	}
}

func TestListItemsExcludesTrash(t *testing.T) {
	v := newUnlockedVault(t)
	id1 := addTestItem(t, v, "keep")
	id2 := addTestItem(t, v, "toss")

	if err := v.TrashItem(id2); err != nil {
		t.Fatalf("TrashItem failed: %v", err)
	}

	items, err := v.ListItems()
	if err != nil {
		t.Fatalf("ListItems failed: %v", err)
	}
	if len(items) != 1 || items[0].ObjectID != id1 {
		t.Errorf("ListItems = %+v, want only item %d", items, id1)
	}

	trash, err := v.ListTrash()
	if err != nil {
		t.Fatalf("ListTrash failed: %v", err)
	}
	if len(trash) != 1 || trash[0].ObjectID != id2 {
		t.Errorf("ListTrash = %+v, want only item %d", trash, id2)
	}
	if trash[0].TrashedDate.IsZero() {
		t.Error("TrashedDate not set")
	}
}

func TestTrashItemTwice(t *testing.T) {
	v := newUnlockedVault(t)
	id := addTestItem(t, v, "login")

	if err := v.TrashItem(id); err != nil {
		t.Fatalf("TrashItem failed: %v", err)
	}
	if err := v.TrashItem(id); !errors.Is(err, ErrItemTrashed) {
		t.Errorf("second trash err = %v, want ErrItemTrashed", err)
	}
}

func TestTrashItemNotFound(t *testing.T) {
	v := newUnlockedVault(t)
	if err := v.TrashItem(42); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("err = %v, want ErrItemNotFound", err)
	}
}

func TestRestoreItem(t *testing.T) {
	v := newUnlockedVault(t)
	id := addTestItem(t, v, "login")

	if err := v.TrashItem(id); err != nil {
		t.Fatalf("TrashItem failed: %v", err)
	}
	if err := v.RestoreItem(id); err != nil {
		t.Fatalf("RestoreItem failed: %v", err)
	}

	items, err := v.ListItems()
	if err != nil {
		t.Fatalf("ListItems failed: %v", err)
	}
	if len(items) != 1 || items[0].ObjectID != id {
		t.Errorf("restored item missing from ListItems: %+v", items)
	}
}

func TestRestoreItemNotTrashed(t *testing.T) {
	v := newUnlockedVault(t)
	id := addTestItem(t, v, "login")
	if err := v.RestoreItem(id); !errors.Is(err, ErrItemNotTrashed) {
		t.Errorf("err = %v, want ErrItemNotTrashed", err)
	}
}

func TestPurgeItem(t *testing.T) {
	v := newUnlockedVault(t)
	id := addTestItem(t, v, "login")

	// Must be trashed first.
	if err := v.PurgeItem(id); !errors.Is(err, ErrItemNotTrashed) {
		t.Errorf("purge of active item err = %v, want ErrItemNotTrashed", err)
	}

	if err := v.TrashItem(id); err != nil {
		t.Fatalf("TrashItem failed: %v", err)
	}
	if err := v.PurgeItem(id); err != nil {
		t.Fatalf("PurgeItem failed: %v", err)
	}

	if _, err := v.GetItem(id); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("GetItem after purge err = %v, want ErrItemNotFound", err)
	}
	if _, err := v.GetSecurity(id); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("GetSecurity after purge err = %v, want ErrItemNotFound", err)
	}
	trash, err := v.ListTrash()
	if err != nil {
		t.Fatalf("ListTrash failed: %v", err)
	}
	if len(trash) != 0 {
		t.Errorf("trash not empty after purge: %+v", trash)
	}
}

func TestMarkCompromised(t *testing.T) {
	v := newUnlockedVault(t)
	id := addTestItem(t, v, "login")

	if err := v.MarkCompromised(id, true); err != nil {
		t.Fatalf("MarkCompromised failed: %v", err)
	}
	rec, err := v.GetSecurity(id)
	if err != nil {
		t.Fatalf("GetSecurity failed: %v", err)
	}
	if !rec.Compromised {
		t.Error("compromised flag not set")
	}

	if err := v.MarkCompromised(id, false); err != nil {
		t.Fatalf("MarkCompromised failed: %v", err)
	}
	rec, err = v.GetSecurity(id)
	if err != nil {
		t.Fatalf("GetSecurity failed: %v", err)
	}
	if rec.Compromised {
		t.Error("compromised flag not cleared")
	}
}

func TestMarkCompromisedNotFound(t *testing.T) {
	v := newUnlockedVault(t)
	if err := v.MarkCompromised(42, true); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("err = %v, want ErrItemNotFound", err)
	}
}

func TestItemsSurviveRelock(t *testing.T) {
	v := newUnlockedVault(t)
	id := addTestItem(t, v, "login")

	v.Lock()
	if err := v.AttemptLogin("hunter2222"); err != nil {
		t.Fatalf("AttemptLogin failed: %v", err)
	}

	item, err := v.GetItem(id)
	if err != nil {
		t.Fatalf("GetItem after relock failed: %v", err)
	}
	if item.Tag != "login" {
		t.Errorf("tag = %q, want login", item.Tag)
	}
}
