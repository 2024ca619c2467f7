// Package vault provides the single-account credential store and its
// session lifecycle. An account is onboarded once, after which the session
// moves between Locked and Unlocked; three failed logins disable the
// session until the process restarts.
package vault

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/text/unicode/norm"

	"github.com/passguard/passguard/pkg/audit"

	_ "modernc.org/sqlite"
)

// Constants
const (
	DBFileName  = "passguard.db"
	FileMode    = 0600 // Owner read/write only
	DirMode     = 0700 // Owner read/write/execute only
	MaxAttempts = 3    // Failed logins before the session is disabled
)

// State describes the session lifecycle.
type State int

const (
	// StateUninitialized means no account has been onboarded.
	StateUninitialized State = iota
	// StateLocked means an account exists but the session is not authenticated.
	StateLocked
	// StateUnlocked means the session is authenticated.
	StateUnlocked
	// StateDisabled means login attempts are exhausted for this session.
	StateDisabled
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLocked:
		return "locked"
	case StateUnlocked:
		return "unlocked"
	case StateDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}

// Vault manages the account store and session state.
type Vault struct {
	path         string // vault directory (e.g. ~/.passguard)
	mu           sync.Mutex
	db           *sql.DB
	unlocked     bool
	attemptsLeft int
	maxAttempts  int
	digestMode   DigestMode
	audit        *audit.Logger
}

// Option configures a Vault.
type Option func(*Vault)

// WithDigestMode sets the digest mode used when onboarding a new account.
// Stored digests are self-describing, so this does not affect login.
func WithDigestMode(mode DigestMode) Option {
	return func(v *Vault) { v.digestMode = mode }
}

// WithMaxAttempts overrides the number of failed logins allowed per session.
func WithMaxAttempts(n int) Option {
	return func(v *Vault) {
		if n > 0 {
			v.maxAttempts = n
		}
	}
}

// New creates a Vault rooted at the given directory.
func New(path string, opts ...Option) *Vault {
	v := &Vault{
		path:        path,
		maxAttempts: MaxAttempts,
		digestMode:  DigestLegacy,
		audit:       audit.NewLogger(filepath.Join(path, "audit")),
	}
	for _, opt := range opts {
		opt(v)
	}
	v.attemptsLeft = v.maxAttempts
	return v
}

// Path returns the vault directory.
func (v *Vault) Path() string {
	return v.path
}

// Audit exposes the vault's audit logger for chain verification and
// supplementary event logging. The logger's key is set on onboard and on
// successful login.
func (v *Vault) Audit() *audit.Logger {
	return v.audit
}

// dbPath returns the path of the store file.
func (v *Vault) dbPath() string {
	return filepath.Join(v.path, DBFileName)
}

// storeExists reports whether the store file is present on disk.
func (v *Vault) storeExists() bool {
	_, err := os.Stat(v.dbPath())
	return err == nil
}

// openDB opens the store, creating the connection lazily. The pool is
// pinned to a single connection: SQLite DDL/DML against one file is not
// designed for interleaved writers.
func (v *Vault) openDB() (*sql.DB, error) {
	if v.db != nil {
		return v.db, nil
	}
	db, err := sql.Open("sqlite", v.dbPath())
	if err != nil {
		return nil, fmt.Errorf("vault: failed to open store: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	v.db = db
	return db, nil
}

// closeDB closes the store connection if open.
func (v *Vault) closeDB() {
	if v.db != nil {
		v.db.Close()
		v.db = nil
	}
}

// State returns the current session state.
func (v *Vault) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.stateLocked()
}

func (v *Vault) stateLocked() State {
	switch {
	case !v.storeExists():
		return StateUninitialized
	case v.unlocked:
		return StateUnlocked
	case v.attemptsLeft == 0:
		return StateDisabled
	default:
		return StateLocked
	}
}

// AttemptsRemaining returns the number of login attempts left this session.
func (v *Vault) AttemptsRemaining() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.attemptsLeft
}

// normalizeName canonicalizes an account name: surrounding whitespace is
// trimmed and the text is NFC-normalized so visually identical names
// compare equal.
func normalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// Onboard creates the account store and inserts the single account record.
// It fails without touching the store if an account already exists, if the
// name is blank after trimming, if the password is blank, or if the
// confirmation does not match.
func (v *Vault) Onboard(name, password, confirm string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	name = normalizeName(name)
	if name == "" {
		return ErrNameRequired
	}
	if password == "" {
		return ErrPasswordRequired
	}
	if password != confirm {
		return ErrPasswordMismatch
	}

	storeExisted := v.storeExists()

	if err := os.MkdirAll(v.path, DirMode); err != nil {
		return fmt.Errorf("vault: failed to create vault directory: %w", err)
	}

	db, err := v.openDB()
	if err != nil {
		return err
	}

	// A failed onboard must leave no trace: when the store file did not
	// exist on entry, every error path below discards it so the vault
	// reads as uninitialized afterwards.
	fail := func(err error) error {
		v.closeDB()
		if !storeExisted {
			if rmErr := os.Remove(v.dbPath()); rmErr != nil && !os.IsNotExist(rmErr) {
				fmt.Fprintf(os.Stderr, "warning: failed to remove partial store: %v\n", rmErr)
			}
		}
		return err
	}

	if err := createTables(db); err != nil {
		return fail(fmt.Errorf("vault: failed to create tables: %w", err))
	}

	digest, err := computeDigest(v.digestMode, password)
	if err != nil {
		return fail(err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fail(fmt.Errorf("vault: failed to begin transaction: %w", err))
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRow("SELECT COUNT(*) FROM AccountTable").Scan(&count); err != nil {
		return fail(fmt.Errorf("vault: failed to check for existing account: %w", err))
	}
	if count > 0 {
		// Only a pre-existing store can hold an account row.
		return ErrAccountExists
	}

	if _, err := tx.Exec("INSERT INTO AccountTable(Name, Password) VALUES(?, ?)", name, digest); err != nil {
		return fail(fmt.Errorf("vault: failed to insert account: %w", err))
	}
	if err := tx.Commit(); err != nil {
		return fail(fmt.Errorf("vault: failed to commit transaction: %w", err))
	}

	if err := os.Chmod(v.dbPath(), FileMode); err != nil {
		return fail(fmt.Errorf("vault: failed to set store permissions: %w", err))
	}

	v.unlocked = false
	v.attemptsLeft = v.maxAttempts

	// Audit logging is best-effort: failures are warned, never fatal.
	if err := v.audit.SetKey([]byte(digest)); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to initialize audit logger: %v\n", err)
	} else {
		_ = v.audit.LogSuccess(audit.OpAccountOnboard, audit.SourceCLI, name)
	}

	return nil
}

// AttemptLogin authenticates the session with the master password. A wrong
// password decrements the per-session attempt counter and returns an
// AuthError carrying the remaining count. Once the counter reaches zero the
// session is disabled and further calls are rejected before any digest
// work.
func (v *Vault) AttemptLogin(password string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.storeExists() {
		return ErrAccountNotFound
	}
	if v.unlocked {
		return nil
	}
	if v.attemptsLeft == 0 {
		return ErrSessionDisabled
	}

	stored, err := v.storedDigest()
	if err != nil {
		return err
	}

	if !verifyDigest(stored, password) {
		v.attemptsLeft--
		_ = v.audit.LogError(audit.OpAccountLoginFailed, audit.SourceCLI, "", "AUTH_FAILED", "invalid master password")
		if v.attemptsLeft == 0 {
			_ = v.audit.LogError(audit.OpAccountLockout, audit.SourceCLI, "", "LOCKOUT", "login attempts exhausted")
		}
		return &AuthError{Remaining: v.attemptsLeft}
	}

	v.unlocked = true
	v.attemptsLeft = v.maxAttempts

	if err := v.audit.SetKey([]byte(stored)); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to initialize audit logger: %v\n", err)
	} else {
		_ = v.audit.LogSuccess(audit.OpAccountLogin, audit.SourceCLI, "")
	}

	return nil
}

// Lock returns an unlocked session to the Locked state. Locking a session
// that is not unlocked is a no-op.
func (v *Vault) Lock() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.unlocked = false
}

// CheckExists reports whether an account has been onboarded. It is a pure
// read valid in any state.
func (v *Vault) CheckExists() (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.storeExists() {
		return false, nil
	}
	db, err := v.openDB()
	if err != nil {
		return false, err
	}

	var count int
	err = db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'AccountTable'").Scan(&count)
	if err != nil {
		return false, fmt.Errorf("vault: failed to inspect store: %w", err)
	}
	if count == 0 {
		return false, nil
	}

	if err := db.QueryRow("SELECT COUNT(*) FROM AccountTable").Scan(&count); err != nil {
		return false, fmt.Errorf("vault: failed to count accounts: %w", err)
	}
	return count > 0, nil
}

// GetAccountName returns the stored display name. It errors if no account
// has been onboarded.
func (v *Vault) GetAccountName() (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.storeExists() {
		return "", ErrAccountNotFound
	}
	db, err := v.openDB()
	if err != nil {
		return "", err
	}

	var name string
	err = db.QueryRow("SELECT Name FROM AccountTable LIMIT 1").Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrAccountNotFound
	}
	if err != nil {
		return "", fmt.Errorf("vault: failed to read account name: %w", err)
	}
	return name, nil
}

// DeleteAccount irreversibly removes the entire store: all four tables are
// dropped in one transaction, then the store file is removed. Any failure
// surfaces as an error and the store is left as it was. Valid from Locked
// or Unlocked.
func (v *Vault) DeleteAccount() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.storeExists() {
		return ErrAccountNotFound
	}
	db, err := v.openDB()
	if err != nil {
		return err
	}

	_ = v.audit.LogSuccess(audit.OpAccountDelete, audit.SourceCLI, "")

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("vault: failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range allTables {
		if _, err := tx.Exec("DROP TABLE IF EXISTS " + table); err != nil {
			return fmt.Errorf("vault: failed to drop %s: %w", table, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("vault: failed to commit transaction: %w", err)
	}

	v.closeDB()
	if err := os.Remove(v.dbPath()); err != nil {
		return fmt.Errorf("vault: failed to remove store file: %w", err)
	}

	v.unlocked = false
	v.attemptsLeft = v.maxAttempts
	return nil
}

// Close releases the store connection. The session state is unchanged.
func (v *Vault) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closeDB()
}

// storedDigest reads the account digest. Callers hold v.mu.
func (v *Vault) storedDigest() (string, error) {
	db, err := v.openDB()
	if err != nil {
		return "", err
	}
	var digest string
	err = db.QueryRow("SELECT Password FROM AccountTable LIMIT 1").Scan(&digest)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrAccountNotFound
	}
	if err != nil {
		return "", fmt.Errorf("vault: failed to read account digest: %w", err)
	}
	return digest, nil
}
