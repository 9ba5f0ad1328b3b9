package sqlite

// SQL statements for SQLite catalog introspection.
const (
	// sqlite_% names are reserved for the engine (sqlite_sequence, sqlite_stat1, ...).
	queryListTables = `
		SELECT name
		FROM sqlite_master
		WHERE type = 'table'
		  AND name NOT LIKE 'sqlite\_%' ESCAPE '\'
		ORDER BY name`

	queryGetColumns = `
		SELECT name, type
		FROM pragma_table_info(?)
		ORDER BY cid`

	// Reading the catalog forces SQLite to parse the file header, which
	// is what rejects files that are not databases.
	queryProbe = `SELECT count(*) FROM sqlite_master`
)
