package importer

import (
	"strings"

	"github.com/passguard/passguard/pkg/vault"
)

// LastPassParser parses LastPass CSV export files with the layout
// url,username,password,totp,extra,name,grouping,fav.
type LastPassParser struct{}

// Source returns the source type for this parser.
func (p *LastPassParser) Source() Source {
	return SourceLastPass
}

// Parse parses LastPass CSV data. Secure notes export with the sentinel
// URL "http://sn" and become Note items; everything else is a Password.
func (p *LastPassParser) Parse(data []byte) (*Result, error) {
	table, err := readCSV(data, "name")
	if err != nil {
		return nil, err
	}

	result := &Result{Warnings: table.warnings}
	counter := 1
	for _, row := range table.rows {
		item := vault.Item{
			Tag:      sanitizeTag(table.field(row, "name"), &counter),
			Username: table.field(row, "username"),
			Password: table.field(row, "password"),
			Webpage:  table.field(row, "url"),
			Notes:    table.field(row, "extra"),
		}
		if strings.EqualFold(item.Webpage, "http://sn") {
			item.Type = vault.TypeNote
			item.Webpage = ""
			item.Username = ""
			item.Password = ""
		} else {
			item.Type = vault.TypePassword
		}
		result.Items = append(result.Items, item)
	}
	return result, nil
}
