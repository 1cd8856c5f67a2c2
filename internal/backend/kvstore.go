package backend

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	_ "github.com/mattn/go-sqlite3"

	"github.com/gg582/skkfe/internal/jisyo"
	"github.com/gg582/skkfe/internal/types"
)

const kvSchema = `CREATE TABLE IF NOT EXISTS candidates (
	okuri INTEGER NOT NULL,
	word TEXT NOT NULL,
	body TEXT NOT NULL,
	PRIMARY KEY (okuri, word)
)`

// KVStore keeps jisyo entries in SQLite, one row per headword with the
// candidates in jisyo "/c1/c2/" form.
type KVStore struct {
	db   *sql.DB
	path string
}

func OpenKVStore(path string) (*KVStore, error) {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open kv store %s: %w", path, err)
	}
	db.SetMaxOpenConns(1) // sqlite
	if _, err := db.Exec(kvSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create kv schema: %w", err)
	}
	return &KVStore{db: db, path: path}, nil
}

func (kv *KVStore) Name() string { return "kvstore:" + filepath.Base(kv.path) }

func (kv *KVStore) Close() error { return kv.db.Close() }

// Import copies every entry of j into the store, replacing existing rows.
func (kv *KVStore) Import(ctx context.Context, j *jisyo.Jisyo) error {
	tx, err := kv.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO candidates (okuri, word, body) VALUES (?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, okuri := range []types.OkuriType{types.OkuriAri, types.OkuriNasi} {
		for _, word := range j.Headwords(okuri) {
			body := "/" + strings.Join(j.Get(okuri, word), "/") + "/"
			if _, err := stmt.ExecContext(ctx, int(okuri), word, body); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("import %q: %w", word, err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	tracer().Infof("imported %d headwords into %s", j.Len(), kv.path)
	return nil
}

func (kv *KVStore) Lookup(ctx context.Context, okuri types.OkuriType, word string) []string {
	var body string
	err := kv.db.QueryRowContext(ctx, `SELECT body FROM candidates WHERE okuri = ? AND word = ?`, int(okuri), word).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		tracer().Errorf("kv lookup %q: %v", word, err)
		return nil
	}
	return splitBody(body)
}

func (kv *KVStore) Complete(ctx context.Context, prefix string) []jisyo.Entry {
	if prefix == "" {
		return nil
	}
	rows, err := kv.db.QueryContext(ctx,
		`SELECT word, body FROM candidates WHERE okuri = ? AND substr(word, 1, ?) = ? ORDER BY word`,
		int(types.OkuriNasi), utf8.RuneCountInString(prefix), prefix)
	if err != nil {
		tracer().Errorf("kv completion %q: %v", prefix, err)
		return nil
	}
	defer rows.Close()

	var out []jisyo.Entry
	for rows.Next() {
		var word, body string
		if err := rows.Scan(&word, &body); err != nil {
			tracer().Errorf("kv completion scan: %v", err)
			return out
		}
		out = append(out, jisyo.Entry{Word: word, Candidates: splitBody(body)})
	}
	if err := rows.Err(); err != nil {
		tracer().Errorf("kv completion rows: %v", err)
	}
	return out
}

func splitBody(body string) []string {
	var out []string
	for _, part := range strings.Split(strings.Trim(body, "/"), "/") {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
