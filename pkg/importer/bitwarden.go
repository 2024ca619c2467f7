package importer

import (
	"encoding/json"
	"fmt"

	"github.com/passguard/passguard/pkg/vault"
)

// BitwardenParser parses Bitwarden JSON export files.
type BitwardenParser struct{}

// Bitwarden item types.
const (
	bitwardenTypeLogin      = 1
	bitwardenTypeSecureNote = 2
	bitwardenTypeCard       = 3
	bitwardenTypeIdentity   = 4
)

type bitwardenExport struct {
	Items []bitwardenItem `json:"items"`
}

type bitwardenItem struct {
	Type  int             `json:"type"`
	Name  string          `json:"name"`
	Notes string          `json:"notes"`
	Login *bitwardenLogin `json:"login"`
	Card  *bitwardenCard  `json:"card"`
}

type bitwardenLogin struct {
	URIs     []bitwardenURI `json:"uris"`
	Username string         `json:"username"`
	Password string         `json:"password"`
}

type bitwardenURI struct {
	URI string `json:"uri"`
}

type bitwardenCard struct {
	Number   string `json:"number"`
	ExpMonth string `json:"expMonth"`
	ExpYear  string `json:"expYear"`
	Code     string `json:"code"`
}

// Source returns the source type for this parser.
func (p *BitwardenParser) Source() Source {
	return SourceBitwarden
}

// Parse parses Bitwarden JSON data. Logins, secure notes, and cards map to
// the three item types; identities have no counterpart and are skipped.
func (p *BitwardenParser) Parse(data []byte) (*Result, error) {
	var export bitwardenExport
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, fmt.Errorf("importer: failed to parse Bitwarden JSON: %w", err)
	}

	result := &Result{}
	counter := 1
	for _, bw := range export.Items {
		item := vault.Item{
			Tag:   sanitizeTag(bw.Name, &counter),
			Notes: bw.Notes,
		}
		switch bw.Type {
		case bitwardenTypeLogin:
			item.Type = vault.TypePassword
			if bw.Login != nil {
				item.Username = bw.Login.Username
				item.Password = bw.Login.Password
				if len(bw.Login.URIs) > 0 {
					item.Webpage = bw.Login.URIs[0].URI
				}
			}
		case bitwardenTypeSecureNote:
			item.Type = vault.TypeNote
		case bitwardenTypeCard:
			item.Type = vault.TypeCard
			if bw.Card != nil {
				item.CardNumber = bw.Card.Number
				item.CVV = bw.Card.Code
				if bw.Card.ExpMonth != "" || bw.Card.ExpYear != "" {
					item.Expiry = bw.Card.ExpMonth + "/" + bw.Card.ExpYear
				}
			}
		case bitwardenTypeIdentity:
			result.Skipped = append(result.Skipped, SkippedItem{
				Name: bw.Name, Reason: "identity items are not supported",
			})
			continue
		default:
			result.Skipped = append(result.Skipped, SkippedItem{
				Name: bw.Name, Reason: fmt.Sprintf("unknown item type %d", bw.Type),
			})
			continue
		}
		result.Items = append(result.Items, item)
	}
	return result, nil
}
