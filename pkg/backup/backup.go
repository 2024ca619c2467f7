// Package backup exports and restores vault contents as a single encrypted
// file. The payload is sealed with AES-256-GCM under a key derived from a
// backup password with Argon2id; the salt travels in the plaintext header.
package backup

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/passguard/passguard/pkg/crypto"
	"github.com/passguard/passguard/pkg/vault"
)

// Magic number for backup files: "PGRD_BKP"
var MagicNumber = [8]byte{'P', 'G', 'R', 'D', '_', 'B', 'K', 'P'}

// FormatVersion is the current backup format version.
const FormatVersion = 1

// Backup errors
var (
	ErrInvalidMagic       = errors.New("backup: magic number mismatch")
	ErrUnsupportedVersion = errors.New("backup: unsupported format version")
	ErrEmptyPassword      = errors.New("backup: password cannot be empty")
	ErrWrongPassword      = errors.New("backup: wrong password or corrupted file")
)

// Header is the plaintext metadata at the front of a backup file.
type Header struct {
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	Salt      []byte    `json:"salt"`
	ItemCount int       `json:"item_count"`
}

// payload is the encrypted body of a backup.
type payload struct {
	AccountName string       `json:"account_name"`
	Items       []backupItem `json:"items"`
}

// backupItem carries one credential with its security and trash state.
type backupItem struct {
	Item        vault.Item `json:"item"`
	Complexity  int        `json:"complexity"`
	Compromised bool       `json:"compromised"`
	Trashed     bool       `json:"trashed"`
	TrashedDate time.Time  `json:"trashed_date,omitempty"`
}

// RestoreResult reports what a restore added.
type RestoreResult struct {
	ItemsRestored int
	ItemsTrashed  int
}

// Export writes an encrypted backup of every item in the vault, active and
// trashed, to w. The vault must be unlocked.
func Export(v *vault.Vault, w io.Writer, password string) error {
	if password == "" {
		return ErrEmptyPassword
	}

	items, err := v.ListItems()
	if err != nil {
		return err
	}
	trash, err := v.ListTrash()
	if err != nil {
		return err
	}
	name, err := v.GetAccountName()
	if err != nil {
		return err
	}

	body := payload{AccountName: name}
	for _, item := range items {
		entry := backupItem{Item: item}
		if rec, err := v.GetSecurity(item.ObjectID); err == nil {
			entry.Complexity = rec.Complexity
			entry.Compromised = rec.Compromised
		}
		body.Items = append(body.Items, entry)
	}
	for _, t := range trash {
		entry := backupItem{Item: t.Item, Trashed: true, TrashedDate: t.TrashedDate}
		if rec, err := v.GetSecurity(t.ObjectID); err == nil {
			entry.Complexity = rec.Complexity
			entry.Compromised = rec.Compromised
		}
		body.Items = append(body.Items, entry)
	}

	salt, err := crypto.NewSalt()
	if err != nil {
		return err
	}
	key := crypto.DeriveKey([]byte(password), salt)
	defer crypto.SecureWipe(key)

	plaintext, err := json.Marshal(&body)
	if err != nil {
		return fmt.Errorf("backup: failed to marshal payload: %w", err)
	}
	sealed, err := crypto.Seal(key, plaintext)
	crypto.SecureWipe(plaintext)
	if err != nil {
		return err
	}

	header := Header{
		Version:   FormatVersion,
		CreatedAt: time.Now().UTC(),
		Salt:      salt,
		ItemCount: len(body.Items),
	}
	if err := writeHeader(w, &header); err != nil {
		return err
	}
	if _, err := w.Write(sealed); err != nil {
		return fmt.Errorf("backup: failed to write payload: %w", err)
	}
	return nil
}

// ReadHeader reads and validates the header of a backup file without
// decrypting anything.
func ReadHeader(r io.Reader) (*Header, error) {
	var magic [8]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, fmt.Errorf("backup: failed to read magic number: %w", err)
	}
	if magic != MagicNumber {
		return nil, ErrInvalidMagic
	}

	var headerLen uint32
	if err := binary.Read(r, binary.BigEndian, &headerLen); err != nil {
		return nil, fmt.Errorf("backup: failed to read header length: %w", err)
	}
	if headerLen > 1024*1024 {
		return nil, fmt.Errorf("backup: header too large: %d bytes", headerLen)
	}

	headerJSON := make([]byte, headerLen)
	if _, err := io.ReadFull(r, headerJSON); err != nil {
		return nil, fmt.Errorf("backup: failed to read header: %w", err)
	}
	var header Header
	if err := json.Unmarshal(headerJSON, &header); err != nil {
		return nil, fmt.Errorf("backup: failed to unmarshal header: %w", err)
	}
	if header.Version > FormatVersion {
		return nil, fmt.Errorf("%w: got %d, max supported %d",
			ErrUnsupportedVersion, header.Version, FormatVersion)
	}
	return &header, nil
}

// Restore decrypts a backup and re-inserts its items into the vault. The
// vault must be unlocked. Items receive fresh ObjectIDs; trash membership
// and compromised flags are reapplied.
func Restore(v *vault.Vault, r io.Reader, password string) (*RestoreResult, error) {
	if password == "" {
		return nil, ErrEmptyPassword
	}

	header, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}
	sealed, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("backup: failed to read payload: %w", err)
	}

	key := crypto.DeriveKey([]byte(password), header.Salt)
	defer crypto.SecureWipe(key)

	plaintext, err := crypto.Open(key, sealed)
	if err != nil {
		return nil, ErrWrongPassword
	}
	defer crypto.SecureWipe(plaintext)

	var body payload
	if err := json.Unmarshal(plaintext, &body); err != nil {
		return nil, fmt.Errorf("backup: failed to unmarshal payload: %w", err)
	}

	result := &RestoreResult{}
	for i := range body.Items {
		entry := &body.Items[i]
		item := entry.Item
		id, err := v.AddItem(&item)
		if err != nil {
			return result, fmt.Errorf("backup: failed to restore item %q: %w", entry.Item.Tag, err)
		}
		if entry.Compromised {
			if err := v.MarkCompromised(id, true); err != nil {
				return result, err
			}
		}
		if entry.Trashed {
			if err := v.TrashItem(id); err != nil {
				return result, err
			}
			result.ItemsTrashed++
		}
		result.ItemsRestored++
	}
	return result, nil
}

func writeHeader(w io.Writer, header *Header) error {
	if _, err := w.Write(MagicNumber[:]); err != nil {
		return fmt.Errorf("backup: failed to write magic number: %w", err)
	}
	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("backup: failed to marshal header: %w", err)
	}
	if err := binary.Write(w, binary.BigEndian, uint32(len(headerJSON))); err != nil {
		return fmt.Errorf("backup: failed to write header length: %w", err)
	}
	if _, err := w.Write(headerJSON); err != nil {
		return fmt.Errorf("backup: failed to write header: %w", err)
	}
	return nil
}
