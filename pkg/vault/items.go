package vault

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/passguard/passguard/pkg/audit"
	"github.com/passguard/passguard/pkg/strength"
)

// ItemType is the kind of credential an item holds.
type ItemType string

const (
	TypeCard     ItemType = "Card"
	TypeNote     ItemType = "Note"
	TypePassword ItemType = "Password"
)

// timeLayout is the stored representation of DATETIME columns.
const timeLayout = time.RFC3339Nano

// Item is a stored credential. Fields that do not apply to the item's type
// are empty strings.
type Item struct {
	ObjectID     int64
	DateAccessed time.Time
	Tag          string
	Type         ItemType
	Username     string
	Password     string
	Webpage      string
	CardNumber   string
	Expiry       string
	CVV          string
	Notes        string
}

// SecurityRecord is the per-item security assessment.
type SecurityRecord struct {
	ObjectID    int64
	Complexity  int
	Compromised bool
}

// TrashEntry is a trashed item together with when it was trashed.
type TrashEntry struct {
	Item
	TrashedDate time.Time
}

// validateItemType rejects anything outside the three stored kinds.
func validateItemType(t ItemType) error {
	switch t {
	case TypeCard, TypeNote, TypePassword:
		return nil
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidItemType, t)
	}
}

// requireUnlocked returns the store handle if the session is unlocked.
// Callers hold v.mu.
func (v *Vault) requireUnlocked() (*sql.DB, error) {
	if !v.storeExists() {
		return nil, ErrAccountNotFound
	}
	if !v.unlocked {
		return nil, ErrSessionLocked
	}
	return v.openDB()
}

// AddItem stores a new credential together with its security assessment.
// The complexity score is computed from the item's password at insert time;
// the compromised flag starts cleared. Returns the new ObjectID.
func (v *Vault) AddItem(item *Item) (int64, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	db, err := v.requireUnlocked()
	if err != nil {
		return 0, err
	}
	if err := validateItemType(item.Type); err != nil {
		return 0, err
	}
	if strings.TrimSpace(item.Tag) == "" {
		return 0, fmt.Errorf("%w: item tag", ErrNameRequired)
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("vault: failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	res, err := tx.Exec(`
		INSERT INTO CredentialTable(DateAccessed, Tag, ObjectType, Username, Password,
			Webpage, CardNumber, Expiry, CVV, Notes)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		now.Format(timeLayout), item.Tag, string(item.Type), item.Username, item.Password,
		item.Webpage, item.CardNumber, item.Expiry, item.CVV, item.Notes)
	if err != nil {
		return 0, fmt.Errorf("vault: failed to insert item: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("vault: failed to read new item id: %w", err)
	}

	_, err = tx.Exec(
		"INSERT INTO SecurityTable(ObjectID, Complexity, Compromised) VALUES(?, ?, 0)",
		id, strength.Score(item.Password))
	if err != nil {
		return 0, fmt.Errorf("vault: failed to insert security record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("vault: failed to commit transaction: %w", err)
	}

	item.ObjectID = id
	item.DateAccessed = now
	_ = v.audit.LogSuccess(audit.OpItemAdd, audit.SourceCLI, item.Tag)
	return id, nil
}

// GetItem returns an item by id and touches its DateAccessed timestamp.
func (v *Vault) GetItem(id int64) (*Item, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	db, err := v.requireUnlocked()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	res, err := db.Exec("UPDATE CredentialTable SET DateAccessed = ? WHERE ObjectID = ?",
		now.Format(timeLayout), id)
	if err != nil {
		return nil, fmt.Errorf("vault: failed to touch item: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrItemNotFound
	}

	row := db.QueryRow(`
		SELECT ObjectID, DateAccessed, Tag, ObjectType, Username, Password,
			Webpage, CardNumber, Expiry, CVV, Notes
		FROM CredentialTable WHERE ObjectID = ?`, id)
	item, err := scanItem(row)
	if err != nil {
		return nil, err
	}
	return item, nil
}

// ListItems returns all items that are not in the trash, most recently
// accessed first.
func (v *Vault) ListItems() ([]Item, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	db, err := v.requireUnlocked()
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(`
		SELECT c.ObjectID, c.DateAccessed, c.Tag, c.ObjectType, c.Username, c.Password,
			c.Webpage, c.CardNumber, c.Expiry, c.CVV, c.Notes
		FROM CredentialTable c
		LEFT JOIN TrashTable t ON t.ObjectID = c.ObjectID
		WHERE t.ObjectID IS NULL
		ORDER BY c.DateAccessed DESC`)
	if err != nil {
		return nil, fmt.Errorf("vault: failed to list items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("vault: failed to list items: %w", err)
	}
	return items, nil
}

// ListTrash returns all trashed items, most recently trashed first.
func (v *Vault) ListTrash() ([]TrashEntry, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	db, err := v.requireUnlocked()
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(`
		SELECT c.ObjectID, c.DateAccessed, c.Tag, c.ObjectType, c.Username, c.Password,
			c.Webpage, c.CardNumber, c.Expiry, c.CVV, c.Notes, t.TrashedDate
		FROM CredentialTable c
		JOIN TrashTable t ON t.ObjectID = c.ObjectID
		ORDER BY t.TrashedDate DESC`)
	if err != nil {
		return nil, fmt.Errorf("vault: failed to list trash: %w", err)
	}
	defer rows.Close()

	var entries []TrashEntry
	for rows.Next() {
		var entry TrashEntry
		var accessed, trashed string
		err := rows.Scan(&entry.ObjectID, &accessed, &entry.Tag, (*string)(&entry.Type),
			&entry.Username, &entry.Password, &entry.Webpage, &entry.CardNumber,
			&entry.Expiry, &entry.CVV, &entry.Notes, &trashed)
		if err != nil {
			return nil, fmt.Errorf("vault: failed to scan trash entry: %w", err)
		}
		entry.DateAccessed, _ = time.Parse(timeLayout, accessed)
		entry.TrashedDate, _ = time.Parse(timeLayout, trashed)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("vault: failed to list trash: %w", err)
	}
	return entries, nil
}

// TrashItem moves an item to the trash. The item record itself is kept;
// only a trash marker is added.
func (v *Vault) TrashItem(id int64) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	db, err := v.requireUnlocked()
	if err != nil {
		return err
	}
	if err := v.itemState(db, id, false); err != nil {
		return err
	}

	_, err = db.Exec("INSERT INTO TrashTable(ObjectID, TrashedDate) VALUES(?, ?)",
		id, time.Now().UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("vault: failed to trash item: %w", err)
	}
	_ = v.audit.LogSuccess(audit.OpItemTrash, audit.SourceCLI, "")
	return nil
}

// RestoreItem moves a trashed item back into the active set.
func (v *Vault) RestoreItem(id int64) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	db, err := v.requireUnlocked()
	if err != nil {
		return err
	}
	if err := v.itemState(db, id, true); err != nil {
		return err
	}

	if _, err := db.Exec("DELETE FROM TrashTable WHERE ObjectID = ?", id); err != nil {
		return fmt.Errorf("vault: failed to restore item: %w", err)
	}
	_ = v.audit.LogSuccess(audit.OpItemRestore, audit.SourceCLI, "")
	return nil
}

// PurgeItem permanently deletes a trashed item. The item must already be
// in the trash; the credential, trash marker, and security record are all
// removed in one transaction.
func (v *Vault) PurgeItem(id int64) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	db, err := v.requireUnlocked()
	if err != nil {
		return err
	}
	if err := v.itemState(db, id, true); err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("vault: failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		"DELETE FROM SecurityTable WHERE ObjectID = ?",
		"DELETE FROM TrashTable WHERE ObjectID = ?",
		"DELETE FROM CredentialTable WHERE ObjectID = ?",
	} {
		if _, err := tx.Exec(stmt, id); err != nil {
			return fmt.Errorf("vault: failed to purge item: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("vault: failed to commit transaction: %w", err)
	}
	_ = v.audit.LogSuccess(audit.OpItemPurge, audit.SourceCLI, "")
	return nil
}

// MarkCompromised sets or clears the compromised flag on an item's
// security record.
func (v *Vault) MarkCompromised(id int64, compromised bool) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	db, err := v.requireUnlocked()
	if err != nil {
		return err
	}

	flag := 0
	if compromised {
		flag = 1
	}
	res, err := db.Exec("UPDATE SecurityTable SET Compromised = ? WHERE ObjectID = ?", flag, id)
	if err != nil {
		return fmt.Errorf("vault: failed to update security record: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrItemNotFound
	}
	_ = v.audit.LogSuccess(audit.OpItemFlag, audit.SourceCLI, "")
	return nil
}

// GetSecurity returns the security record for an item.
func (v *Vault) GetSecurity(id int64) (*SecurityRecord, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	db, err := v.requireUnlocked()
	if err != nil {
		return nil, err
	}

	rec := &SecurityRecord{ObjectID: id}
	var flag int
	err = db.QueryRow("SELECT Complexity, Compromised FROM SecurityTable WHERE ObjectID = ?", id).
		Scan(&rec.Complexity, &flag)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("vault: failed to read security record: %w", err)
	}
	rec.Compromised = flag == 1
	return rec, nil
}

// itemState verifies an item exists and matches the wanted trash state.
// Callers hold v.mu.
func (v *Vault) itemState(db *sql.DB, id int64, wantTrashed bool) error {
	var exists int
	err := db.QueryRow("SELECT COUNT(*) FROM CredentialTable WHERE ObjectID = ?", id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("vault: failed to look up item: %w", err)
	}
	if exists == 0 {
		return ErrItemNotFound
	}

	var trashed int
	err = db.QueryRow("SELECT COUNT(*) FROM TrashTable WHERE ObjectID = ?", id).Scan(&trashed)
	if err != nil {
		return fmt.Errorf("vault: failed to look up trash state: %w", err)
	}
	if wantTrashed && trashed == 0 {
		return ErrItemNotTrashed
	}
	if !wantTrashed && trashed > 0 {
		return ErrItemTrashed
	}
	return nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for scanItem.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*Item, error) {
	var item Item
	var accessed string
	err := row.Scan(&item.ObjectID, &accessed, &item.Tag, (*string)(&item.Type),
		&item.Username, &item.Password, &item.Webpage, &item.CardNumber,
		&item.Expiry, &item.CVV, &item.Notes)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("vault: failed to scan item: %w", err)
	}
	item.DateAccessed, _ = time.Parse(timeLayout, accessed)
	return &item, nil
}
