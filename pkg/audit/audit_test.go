package audit

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestLogger(t *testing.T) *Logger {
	t.Helper()
	l := NewLogger(filepath.Join(t.TempDir(), "audit"))
	if err := l.SetKey([]byte("test-secret-material")); err != nil {
		t.Fatalf("SetKey failed: %v", err)
	}
	return l
}

func TestLogBeforeSetKey(t *testing.T) {
	l := NewLogger(filepath.Join(t.TempDir(), "audit"))
	if err := l.LogSuccess(OpAccountLogin, SourceCLI, ""); !errors.Is(err, ErrKeyNotSet) {
		t.Errorf("err = %v, want ErrKeyNotSet", err)
	}
	if _, err := l.Verify(); !errors.Is(err, ErrKeyNotSet) {
		t.Errorf("Verify err = %v, want ErrKeyNotSet", err)
	}
}

func TestLogWritesJSONL(t *testing.T) {
	l := newTestLogger(t)

	if err := l.LogSuccess(OpAccountOnboard, SourceCLI, "alice"); err != nil {
		t.Fatalf("LogSuccess failed: %v", err)
	}

	name := time.Now().UTC().Format("2006-01") + ".jsonl"
	data, err := os.ReadFile(filepath.Join(l.path, name))
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}

	var event Event
	if err := json.Unmarshal(data[:len(data)-1], &event); err != nil {
		t.Fatalf("failed to unmarshal event: %v", err)
	}
	if event.Operation != OpAccountOnboard {
		t.Errorf("op = %q, want %q", event.Operation, OpAccountOnboard)
	}
	if event.Result != ResultSuccess {
		t.Errorf("result = %q, want %q", event.Result, ResultSuccess)
	}
	if event.Chain.Sequence != 1 {
		t.Errorf("sequence = %d, want 1", event.Chain.Sequence)
	}
	if event.Chain.PrevHash != "genesis" {
		t.Errorf("prev = %q, want genesis", event.Chain.PrevHash)
	}
	if event.SessionID == "" {
		t.Error("session ID is empty")
	}
}

func TestSubjectIsNeverPlaintext(t *testing.T) {
	l := newTestLogger(t)

	const subject = "my-bank-login"
	if err := l.LogSuccess(OpItemAdd, SourceCLI, subject); err != nil {
		t.Fatalf("LogSuccess failed: %v", err)
	}

	name := time.Now().UTC().Format("2006-01") + ".jsonl"
	data, err := os.ReadFile(filepath.Join(l.path, name))
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if strings.Contains(string(data), subject) {
		t.Error("log file contains the plaintext subject")
	}
}

func TestLogError(t *testing.T) {
	l := newTestLogger(t)

	if err := l.LogError(OpAccountLoginFailed, SourceCLI, "", "AUTH_FAILED", "invalid master password"); err != nil {
		t.Fatalf("LogError failed: %v", err)
	}

	res, err := l.Verify()
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if !res.Valid || res.RecordsTotal != 1 {
		t.Errorf("Verify = %+v, want valid with 1 record", res)
	}
}

func TestChainLinksSequentialRecords(t *testing.T) {
	l := newTestLogger(t)

	ops := []string{OpAccountOnboard, OpAccountLogin, OpItemAdd, OpItemTrash, OpItemPurge}
	for _, op := range ops {
		if err := l.LogSuccess(op, SourceCLI, ""); err != nil {
			t.Fatalf("LogSuccess(%s) failed: %v", op, err)
		}
	}

	res, err := l.Verify()
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if !res.Valid {
		t.Errorf("chain invalid: %v", res.Errors)
	}
	if res.RecordsTotal != len(ops) {
		t.Errorf("records = %d, want %d", res.RecordsTotal, len(ops))
	}
}

func TestChainSurvivesReload(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "audit")
	secret := []byte("persistent-secret")

	l1 := NewLogger(dir)
	if err := l1.SetKey(secret); err != nil {
		t.Fatalf("SetKey failed: %v", err)
	}
	if err := l1.LogSuccess(OpAccountOnboard, SourceCLI, ""); err != nil {
		t.Fatalf("LogSuccess failed: %v", err)
	}

	// A new logger in the same directory must extend, not restart, the chain.
	l2 := NewLogger(dir)
	if err := l2.SetKey(secret); err != nil {
		t.Fatalf("SetKey failed: %v", err)
	}
	if err := l2.LogSuccess(OpAccountLogin, SourceCLI, ""); err != nil {
		t.Fatalf("LogSuccess failed: %v", err)
	}

	res, err := l2.Verify()
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if !res.Valid {
		t.Errorf("chain invalid after reload: %v", res.Errors)
	}
	if res.RecordsTotal != 2 {
		t.Errorf("records = %d, want 2", res.RecordsTotal)
	}
}

func TestVerifyDetectsTampering(t *testing.T) {
	l := newTestLogger(t)

	for i := 0; i < 3; i++ {
		if err := l.LogSuccess(OpItemAdd, SourceCLI, ""); err != nil {
			t.Fatalf("LogSuccess failed: %v", err)
		}
	}

	// Flip the result of the second record.
	name := time.Now().UTC().Format("2006-01") + ".jsonl"
	path := filepath.Join(l.path, name)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	tampered := strings.Replace(string(data), `"result":"success"`, `"result":"error"`, 2)
	tampered = strings.Replace(tampered, `"result":"error"`, `"result":"success"`, 1)
	if err := os.WriteFile(path, []byte(tampered), 0600); err != nil {
		t.Fatalf("failed to write tampered log: %v", err)
	}

	res, err := l.Verify()
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if res.Valid {
		t.Error("Verify accepted a tampered log")
	}
}

func TestVerifyDetectsTruncation(t *testing.T) {
	l := newTestLogger(t)

	for i := 0; i < 3; i++ {
		if err := l.LogSuccess(OpItemAdd, SourceCLI, ""); err != nil {
			t.Fatalf("LogSuccess failed: %v", err)
		}
	}

	// Drop the first record.
	name := time.Now().UTC().Format("2006-01") + ".jsonl"
	path := filepath.Join(l.path, name)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	lines := strings.SplitN(string(data), "\n", 2)
	if err := os.WriteFile(path, []byte(lines[1]), 0600); err != nil {
		t.Fatalf("failed to truncate log: %v", err)
	}

	res, err := l.Verify()
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if res.Valid {
		t.Error("Verify accepted a truncated log")
	}
}

func TestVerifyEmptyLog(t *testing.T) {
	l := newTestLogger(t)
	res, err := l.Verify()
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if !res.Valid || res.RecordsTotal != 0 {
		t.Errorf("Verify of empty log = %+v, want valid with 0 records", res)
	}
}
