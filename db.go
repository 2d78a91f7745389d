package psptex

import (
	"crypto/sha1"
	"database/sql"
	"fmt"
	"io/fs"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"

	"github.com/bodgit/psptex/decode"
	"github.com/bodgit/psptex/loader"
	"github.com/h2non/filetype"
	_ "github.com/mattn/go-sqlite3"
)

// PackDB is an asset pack: encoded images stored in a SQLite database under
// their cache key. It is a Source, so a Server can load from it instead of
// the filesystem.
type PackDB struct {
	db     *sql.DB
	logger *log.Logger
}

// NewPackDB opens or creates the asset pack in file.
func NewPackDB(file string, logger *log.Logger) (*PackDB, error) {
	if logger == nil {
		logger = log.New(ioutil.Discard, "", 0)
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS asset (id INTEGER PRIMARY KEY NOT NULL, name TEXT NOT NULL UNIQUE, sha1 TEXT NOT NULL, width INTEGER NOT NULL, height INTEGER NOT NULL, data BLOB NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	return &PackDB{
		db:     db,
		logger: logger,
	}, nil
}

// Close closes the database.
func (db *PackDB) Close() error {
	return db.db.Close()
}

// Import stores the encoded image b under the key of name, replacing any
// different image already stored under that key. The image header is
// validated first.
func (db *PackDB) Import(name string, b []byte) (int64, error) {
	cfg, _, err := decode.Config(b)
	if err != nil {
		return 0, err
	}

	key := Key(name)
	sha := fmt.Sprintf("%X", sha1.Sum(b))

	var id int64
	var existing string
	switch err := db.db.QueryRow("SELECT id, sha1 FROM asset WHERE name = ?", key).Scan(&id, &existing); err {
	case sql.ErrNoRows:
		result, err := db.db.Exec("INSERT INTO asset (name, sha1, width, height, data) VALUES (?, ?, ?, ?, ?)", key, sha, cfg.Width, cfg.Height, b)
		if err != nil {
			return 0, err
		}
		return result.LastInsertId()
	case nil:
		if existing == sha {
			return id, nil
		}
		db.logger.Printf("Replacing \"%s\" (%s -> %s)\n", key, existing, sha)
		if _, err := db.db.Exec("UPDATE asset SET sha1 = ?, width = ?, height = ?, data = ? WHERE id = ?", sha, cfg.Width, cfg.Height, b, id); err != nil {
			return 0, err
		}
		return id, nil
	default:
		return 0, err
	}
}

// ImportFile imports the image in file.
func (db *PackDB) ImportFile(file string) (int64, error) {
	f, err := os.Open(file)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	b, err := ioutil.ReadAll(f)
	if err != nil {
		return 0, err
	}

	return db.Import(filepath.Base(file), b)
}

// ImportDir walks dir and imports every image found, skipping hidden files
// and directories. It returns the number of files imported.
func (db *PackDB) ImportDir(dir string) (int, error) {
	var n int
	err := filepath.Walk(dir, func(file string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		// Ignore any hidden files or directories
		if info.Name()[0] == '.' && file != dir {
			if info.Mode().IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if !info.Mode().IsRegular() {
			return nil
		}

		b, err := ioutil.ReadFile(file)
		if err != nil {
			return err
		}

		// Anything recognisable that isn't an image is skipped quietly
		if kind, _ := filetype.Match(b); kind != filetype.Unknown && !filetype.IsImage(b) {
			return nil
		}

		if _, err := db.Import(filepath.Base(file), b); err != nil {
			db.logger.Printf("Skipping \"%s\": %v\n", file, err)
			return nil
		}
		n++

		return nil
	})
	return n, err
}

// ReadFile returns the encoded image stored under the key of name. A missing
// image is reported as a *loader.IoError wrapping fs.ErrNotExist.
func (db *PackDB) ReadFile(name string) ([]byte, error) {
	var b []byte
	switch err := db.db.QueryRow("SELECT data FROM asset WHERE name = ?", Key(name)).Scan(&b); err {
	case sql.ErrNoRows:
		return nil, &loader.IoError{Path: name, Stage: loader.StageOpen, Size: -1, Err: fs.ErrNotExist}
	case nil:
		return b, nil
	default:
		return nil, &loader.IoError{Path: name, Stage: loader.StageRead, Size: -1, Err: err}
	}
}

// Entry describes one image in the pack.
type Entry struct {
	Name   string
	SHA1   string
	Width  int
	Height int
	Size   int
}

// Entries lists the pack in name order.
func (db *PackDB) Entries() ([]Entry, error) {
	rows, err := db.db.Query("SELECT name, sha1, width, height, length(data) FROM asset ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Name, &e.SHA1, &e.Width, &e.Height, &e.Size); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
