package importer

import (
	"testing"

	"github.com/passguard/passguard/pkg/vault"
)

func TestNewParser(t *testing.T) {
	tests := []struct {
		source  string
		want    Source
		wantErr bool
	}{
		{"bitwarden", SourceBitwarden, false},
		{"LastPass", SourceLastPass, false},
		{"1password", Source1Password, false},
		{"keepass", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		p, err := NewParser(tt.source)
		if tt.wantErr {
			if err == nil {
				t.Errorf("NewParser(%q) expected error", tt.source)
			}
			continue
		}
		if err != nil {
			t.Errorf("NewParser(%q) unexpected error: %v", tt.source, err)
			continue
		}
		if p.Source() != tt.want {
			t.Errorf("NewParser(%q).Source() = %v, want %v", tt.source, p.Source(), tt.want)
		}
	}
}

func TestBitwardenParse(t *testing.T) {
	data := []byte(`{
		"items": [
			{"type": 1, "name": "GitHub", "login": {
				"uris": [{"uri": "https://github.com"}],
				"username": "alice", "password": "pw1"
			}},
			{"type": 2, "name": "Recovery Codes", "notes": "aaaa bbbb"},
			{"type": 3, "name": "Visa", "card": {
				"number": "4111111111111111", "expMonth": "12", "expYear": "2027", "code": "123"
			}},
			{"type": 4, "name": "Me"}
		]
	}`)

	result, err := (&BitwardenParser{}).Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(result.Items) != 3 {
		t.Fatalf("items = %d, want 3", len(result.Items))
	}

	login := result.Items[0]
	if login.Type != vault.TypePassword || login.Tag != "GitHub" ||
		login.Username != "alice" || login.Webpage != "https://github.com" {
		t.Errorf("login item = %+v", login)
	}

	note := result.Items[1]
	if note.Type != vault.TypeNote || note.Notes != "aaaa bbbb" {
		t.Errorf("note item = %+v", note)
	}

	card := result.Items[2]
	if card.Type != vault.TypeCard || card.CardNumber != "4111111111111111" ||
		card.Expiry != "12/2027" || card.CVV != "123" {
		t.Errorf("card item = %+v", card)
	}

	if len(result.Skipped) != 1 || result.Skipped[0].Name != "Me" {
		t.Errorf("skipped = %+v, want the identity item", result.Skipped)
	}
}

func TestBitwardenParseInvalidJSON(t *testing.T) {
	if _, err := (&BitwardenParser{}).Parse([]byte("{not json")); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestLastPassParse(t *testing.T) {
	data := []byte("url,username,password,totp,extra,name,grouping,fav\n" +
		"https://example.com,alice,pw1,,some notes,Example,Work,0\n" +
		"http://sn,,,,note body,My Note,Personal,0\n")

	result, err := (&LastPassParser{}).Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(result.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(result.Items))
	}

	login := result.Items[0]
	if login.Type != vault.TypePassword || login.Tag != "Example" ||
		login.Username != "alice" || login.Notes != "some notes" {
		t.Errorf("login item = %+v", login)
	}

	note := result.Items[1]
	if note.Type != vault.TypeNote || note.Tag != "My Note" || note.Notes != "note body" {
		t.Errorf("note item = %+v", note)
	}
	if note.Webpage != "" {
		t.Errorf("secure note kept sentinel URL %q", note.Webpage)
	}
}

func TestLastPassParseMissingNameColumn(t *testing.T) {
	if _, err := (&LastPassParser{}).Parse([]byte("url,username\nx,y\n")); err == nil {
		t.Error("expected error for missing name column")
	}
}

func TestLastPassParseBOMAndBlankName(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte(
		"url,username,password,totp,extra,name,grouping,fav\n"+
			"https://x.test,u,p,,,,,0\n")...)

	result, err := (&LastPassParser{}).Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(result.Items) != 1 || result.Items[0].Tag != "imported-1" {
		t.Errorf("items = %+v, want fallback tag imported-1", result.Items)
	}
}

func TestOnePasswordParse(t *testing.T) {
	data := []byte("Title,Website,Username,Password,OTPAuth,Favorite,Archived,Tags,Notes\n" +
		"GitHub,https://github.com,alice,pw1,,false,false,dev,\n" +
		"Shopping List,,,,,false,false,,milk and eggs\n")

	result, err := (&OnePasswordParser{}).Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(result.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(result.Items))
	}
	if result.Items[0].Type != vault.TypePassword || result.Items[0].Tag != "GitHub" {
		t.Errorf("login item = %+v", result.Items[0])
	}
	if result.Items[1].Type != vault.TypeNote || result.Items[1].Notes != "milk and eggs" {
		t.Errorf("note item = %+v", result.Items[1])
	}
}

func TestCSVRowWarnings(t *testing.T) {
	data := []byte("url,username,password,totp,extra,name,grouping,fav\n" +
		"only,two\n" +
		"https://x.test,u,p,,,Ok,,0\n")

	result, err := (&LastPassParser{}).Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(result.Items) != 1 {
		t.Errorf("items = %d, want 1", len(result.Items))
	}
	if len(result.Warnings) != 1 {
		t.Errorf("warnings = %v, want one column-count warning", result.Warnings)
	}
}
