package importer

import "github.com/passguard/passguard/pkg/vault"

// OnePasswordParser parses 1Password CSV export files with the layout
// Title,Website,Username,Password,OTPAuth,Favorite,Archived,Tags,Notes.
type OnePasswordParser struct{}

// Source returns the source type for this parser.
func (p *OnePasswordParser) Source() Source {
	return Source1Password
}

// Parse parses 1Password CSV data. Rows without credentials become Note
// items; the rest are Passwords.
func (p *OnePasswordParser) Parse(data []byte) (*Result, error) {
	table, err := readCSV(data, "title")
	if err != nil {
		return nil, err
	}

	result := &Result{Warnings: table.warnings}
	counter := 1
	for _, row := range table.rows {
		item := vault.Item{
			Tag:      sanitizeTag(table.field(row, "title"), &counter),
			Username: table.field(row, "username"),
			Password: table.field(row, "password"),
			Webpage:  table.field(row, "website"),
			Notes:    table.field(row, "notes"),
		}
		if item.Username == "" && item.Password == "" && item.Webpage == "" {
			item.Type = vault.TypeNote
		} else {
			item.Type = vault.TypePassword
		}
		result.Items = append(result.Items, item)
	}
	return result, nil
}
