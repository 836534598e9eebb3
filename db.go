package dancingstar

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// ListingDB caches generated data tables keyed by the CRC of the source
// image so unchanged images are not converted again on every scan.
type ListingDB struct {
	db *sql.DB
}

func NewListingDB(file string) (*ListingDB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS listing (crc TEXT PRIMARY KEY NOT NULL, data BLOB NOT NULL)"); err != nil {
		return nil, err
	}

	return &ListingDB{
		db: db,
	}, nil
}

func (db *ListingDB) Close() error {
	return db.db.Close()
}

// FindByCRC returns the cached tables for crc, or nil when absent.
func (db *ListingDB) FindByCRC(crc string) ([]byte, error) {
	var data []byte
	switch err := db.db.QueryRow("SELECT data FROM listing WHERE crc = ?", crc).Scan(&data); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		return data, nil
	default:
		return nil, err
	}
}

// Store records the generated tables for crc, replacing any previous
// entry.
func (db *ListingDB) Store(crc string, data []byte) error {
	if _, err := db.db.Exec("INSERT OR REPLACE INTO listing (crc, data) VALUES (?, ?)", crc, data); err != nil {
		return err
	}
	return nil
}
