package vault

import "database/sql"

// Table creation statements. The shape matches stores written by earlier
// releases, so an existing database file opens without migration.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS AccountTable (
		Name TEXT PRIMARY KEY,
		Password TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS CredentialTable (
		ObjectID INTEGER PRIMARY KEY,
		DateAccessed DATETIME,
		Tag TEXT,
		ObjectType TEXT CHECK(ObjectType IN ('Card', 'Note', 'Password')),
		Username TEXT,
		Password TEXT,
		Webpage TEXT,
		CardNumber TEXT,
		Expiry TEXT,
		CVV TEXT,
		Notes TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS TrashTable (
		ObjectID INTEGER PRIMARY KEY,
		TrashedDate DATETIME,
		FOREIGN KEY(ObjectID) REFERENCES CredentialTable(ObjectID)
	)`,
	`CREATE TABLE IF NOT EXISTS SecurityTable (
		ObjectID INTEGER PRIMARY KEY,
		Complexity INTEGER,
		Compromised INTEGER CHECK(Compromised IN (0, 1)),
		FOREIGN KEY(ObjectID) REFERENCES CredentialTable(ObjectID)
	)`,
}

// allTables lists every table in drop order for DeleteAccount.
var allTables = []string{"SecurityTable", "TrashTable", "CredentialTable", "AccountTable"}

// createTables creates the schema if it does not already exist.
func createTables(db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
