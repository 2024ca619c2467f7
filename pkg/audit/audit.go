// Package audit provides append-only audit logging with an HMAC chain for
// tamper detection. Events are written as JSON lines to monthly files; each
// record carries a sequence number, the previous record's HMAC, and its own
// HMAC, so truncation, reordering, and edits are all detectable.
package audit

import (
	"bufio"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/hkdf"
)

// Operation types recorded in the audit log.
const (
	// Account lifecycle
	OpAccountOnboard     = "account.onboard"
	OpAccountLogin       = "account.login"
	OpAccountLoginFailed = "account.login_failed"
	OpAccountLockout     = "account.lockout"
	OpAccountDelete      = "account.delete"

	// Item operations
	OpItemAdd     = "item.add"
	OpItemTrash   = "item.trash"
	OpItemRestore = "item.restore"
	OpItemPurge   = "item.purge"
	OpItemFlag    = "item.flag"

	// Backup operations
	OpBackupExport  = "backup.export"
	OpBackupRestore = "backup.restore"
)

// Source identifies where the operation originated.
const (
	SourceCLI = "cli"
	SourceMCP = "mcp"
)

// Result indicates the outcome of an operation.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// ErrKeyNotSet is returned when logging is attempted before SetKey.
var ErrKeyNotSet = errors.New("audit: HMAC key not set")

// chainGenesis is the PrevHash of the first record in a chain.
const chainGenesis = "genesis"

// Event is a single audit log record.
type Event struct {
	Version   int    `json:"v"`
	ID        string `json:"id"`
	Timestamp string `json:"ts"` // RFC 3339 nanosecond precision

	Operation string `json:"op"`
	// Subject is the HMAC of the item tag or account name the operation
	// touched, when there is one. Plaintext subjects never reach the log.
	Subject string `json:"subject,omitempty"`

	Source    string `json:"source"`
	SessionID string `json:"session_id"`

	Result string     `json:"result"`
	Error  *ErrorInfo `json:"error,omitempty"`

	Chain Chain `json:"chain"`
}

// ErrorInfo carries error details for failed operations.
type ErrorInfo struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// Chain links a record to its predecessor.
type Chain struct {
	Sequence int64  `json:"seq"`
	PrevHash string `json:"prev"`
	HMAC     string `json:"hmac"`
}

// Logger writes HMAC-chained audit events.
type Logger struct {
	path      string
	sessionID string

	mu       sync.Mutex
	hmacKey  []byte
	sequence int64
	prevHash string
}

// NewLogger creates a logger that writes under path. The logger is inert
// until SetKey provides the HMAC key material.
func NewLogger(path string) *Logger {
	return &Logger{
		path:      path,
		sessionID: uuid.NewString(),
		prevHash:  chainGenesis,
	}
}

// SetKey derives the HMAC key from secret material using HKDF-SHA256 and
// loads any persisted chain state so new records extend the existing chain.
func (l *Logger) SetKey(secret []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	r := hkdf.New(sha256.New, secret, nil, []byte("passguard-audit-v1"))
	l.hmacKey = make([]byte, 32)
	if _, err := r.Read(l.hmacKey); err != nil {
		return fmt.Errorf("audit: failed to derive HMAC key: %w", err)
	}

	if err := l.loadChainState(); err != nil {
		// First run or missing metadata: start a fresh chain.
		l.sequence = 0
		l.prevHash = chainGenesis
	}
	return nil
}

// Log records an audit event. subject, when non-empty, is stored as an HMAC
// so the log never contains plaintext tags or names.
func (l *Logger) Log(op, source, result, subject string, errInfo *ErrorInfo) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.hmacKey == nil {
		return ErrKeyNotSet
	}

	if err := os.MkdirAll(l.path, 0700); err != nil {
		return fmt.Errorf("audit: failed to create directory: %w", err)
	}

	event := Event{
		Version:   1,
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Operation: op,
		Source:    source,
		SessionID: l.sessionID,
		Result:    result,
		Error:     errInfo,
	}
	if subject != "" {
		mac := hmac.New(sha256.New, l.hmacKey)
		mac.Write([]byte(subject))
		event.Subject = hex.EncodeToString(mac.Sum(nil))
	}

	l.sequence++
	event.Chain.Sequence = l.sequence
	event.Chain.PrevHash = l.prevHash

	mac := hmac.New(sha256.New, l.hmacKey)
	mac.Write(recordData(&event))
	event.Chain.HMAC = hex.EncodeToString(mac.Sum(nil))
	l.prevHash = event.Chain.HMAC

	if err := l.writeEvent(&event); err != nil {
		return err
	}
	return l.saveChainState()
}

// LogSuccess records a successful operation.
func (l *Logger) LogSuccess(op, source, subject string) error {
	return l.Log(op, source, ResultSuccess, subject, nil)
}

// LogError records a failed operation.
func (l *Logger) LogError(op, source, subject, code, message string) error {
	return l.Log(op, source, ResultError, subject, &ErrorInfo{Code: code, Message: message})
}

// recordData serializes the fields covered by a record's HMAC.
func recordData(event *Event) []byte {
	errorData := ""
	if event.Error != nil {
		errorData = event.Error.Code + "|" + event.Error.Message
	}
	data := fmt.Sprintf("%d|%s|%s|%s|%s|%s|%s|%s|%s|%d|%s",
		event.Version,
		event.ID,
		event.Timestamp,
		event.Operation,
		event.Subject,
		event.Source,
		event.SessionID,
		event.Result,
		errorData,
		event.Chain.Sequence,
		event.Chain.PrevHash,
	)
	return []byte(data)
}

// writeEvent appends an event to the current month's log file.
func (l *Logger) writeEvent(event *Event) error {
	name := time.Now().UTC().Format("2006-01") + ".jsonl"
	f, err := os.OpenFile(filepath.Join(l.path, name), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("audit: failed to open log file: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("audit: failed to marshal event: %w", err)
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("audit: failed to write event: %w", err)
	}
	return nil
}

// chainState is the persisted tail of the chain.
type chainState struct {
	Sequence int64  `json:"seq"`
	PrevHash string `json:"prev"`
}

func (l *Logger) loadChainState() error {
	data, err := os.ReadFile(filepath.Join(l.path, "audit.meta"))
	if err != nil {
		return err
	}
	var state chainState
	if err := json.Unmarshal(data, &state); err != nil {
		return err
	}
	l.sequence = state.Sequence
	l.prevHash = state.PrevHash
	return nil
}

func (l *Logger) saveChainState() error {
	data, err := json.Marshal(chainState{Sequence: l.sequence, PrevHash: l.prevHash})
	if err != nil {
		return fmt.Errorf("audit: failed to marshal chain state: %w", err)
	}
	if err := os.WriteFile(filepath.Join(l.path, "audit.meta"), data, 0600); err != nil {
		return fmt.Errorf("audit: failed to save chain state: %w", err)
	}
	return nil
}

// VerifyResult reports the outcome of a chain verification pass.
type VerifyResult struct {
	Valid        bool
	RecordsTotal int
	Errors       []string
}

// Verify walks every log file in chronological order and checks sequence
// continuity, chain linkage, and per-record HMACs.
func (l *Logger) Verify() (*VerifyResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.hmacKey == nil {
		return nil, ErrKeyNotSet
	}

	files, err := filepath.Glob(filepath.Join(l.path, "*.jsonl"))
	if err != nil {
		return nil, fmt.Errorf("audit: failed to list log files: %w", err)
	}
	// YYYY-MM.jsonl names sort chronologically.
	sort.Strings(files)

	result := &VerifyResult{Valid: true}
	expectedPrev := chainGenesis
	var expectedSeq int64 = 1

	for _, file := range files {
		events, err := readLogFile(file)
		if err != nil {
			return nil, fmt.Errorf("audit: failed to read %s: %w", file, err)
		}
		for i := range events {
			event := &events[i]
			result.RecordsTotal++

			if event.Chain.Sequence != expectedSeq {
				result.Valid = false
				result.Errors = append(result.Errors, fmt.Sprintf(
					"sequence gap at record %s: expected %d, got %d",
					event.ID, expectedSeq, event.Chain.Sequence))
			}
			if event.Chain.PrevHash != expectedPrev {
				result.Valid = false
				result.Errors = append(result.Errors, fmt.Sprintf(
					"chain broken at record %s: expected prev %s, got %s",
					event.ID, expectedPrev, event.Chain.PrevHash))
			}

			mac := hmac.New(sha256.New, l.hmacKey)
			mac.Write(recordData(event))
			if event.Chain.HMAC != hex.EncodeToString(mac.Sum(nil)) {
				result.Valid = false
				result.Errors = append(result.Errors, fmt.Sprintf(
					"HMAC mismatch at record %s: possible tampering", event.ID))
			}

			expectedPrev = event.Chain.HMAC
			expectedSeq++
		}
	}
	return result, nil
}

func readLogFile(path string) ([]Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var events []Event
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var event Event
		if err := json.Unmarshal(line, &event); err != nil {
			return nil, fmt.Errorf("malformed record: %w", err)
		}
		events = append(events, event)
	}
	return events, scanner.Err()
}
