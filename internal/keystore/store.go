// Package keystore: sqlite persistence for authority keypairs and issued
// responder certificates, so a server keeps its identity across restarts.
package keystore

import (
	"crypto/ed25519"
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"dev.c0redev.sv2/internal/noise"
)

// DB wraps sqlite.
type DB struct {
	*sql.DB
}

// Open opens the db at path, runs migrations.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, err
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &DB{db}, nil
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS authorities (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			public_key BLOB NOT NULL,
			private_key BLOB NOT NULL,
			created_at TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS certificates (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			authority_id INTEGER NOT NULL REFERENCES authorities(id),
			static_public BLOB NOT NULL,
			static_private BLOB NOT NULL,
			version INTEGER NOT NULL,
			valid_from INTEGER NOT NULL,
			not_valid_after INTEGER NOT NULL,
			signature BLOB NOT NULL,
			created_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_certs_authority ON certificates(authority_id, not_valid_after);
	`)
	return err
}

// Authority: a named ed25519 signing identity.
type Authority struct {
	ID        int64
	Name      string
	KeyPair   noise.AuthorityKeyPair
	CreatedAt time.Time
}

// CreateAuthority inserts a keypair under name; err if name exists.
func (db *DB) CreateAuthority(name string, kp *noise.AuthorityKeyPair) (int64, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := db.Exec(
		"INSERT INTO authorities (name, public_key, private_key, created_at) VALUES (?, ?, ?, ?)",
		name, []byte(kp.Public), []byte(kp.Private), now)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// AuthorityByName returns the authority or nil.
func (db *DB) AuthorityByName(name string) (*Authority, error) {
	var a Authority
	var pub, priv []byte
	var t string
	err := db.QueryRow(
		"SELECT id, name, public_key, private_key, created_at FROM authorities WHERE name = ?",
		name).Scan(&a.ID, &a.Name, &pub, &priv, &t)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	a.KeyPair.Public = ed25519.PublicKey(pub)
	a.KeyPair.Private = ed25519.PrivateKey(priv)
	a.CreatedAt, _ = time.Parse(time.RFC3339, t)
	return &a, nil
}

// StoredCertificate: a certified responder static key.
type StoredCertificate struct {
	ID          int64
	AuthorityID int64
	Static      noise.StaticKeyPair
	Cert        noise.Certificate
	CreatedAt   time.Time
}

// SaveCertificate stores a certified static keypair for the authority.
func (db *DB) SaveCertificate(authorityID int64, static *noise.StaticKeyPair, cert noise.Certificate) (int64, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := db.Exec(
		`INSERT INTO certificates
		 (authority_id, static_public, static_private, version, valid_from, not_valid_after, signature, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		authorityID, static.Public[:], static.Private[:],
		cert.Version, cert.ValidFrom, cert.NotValidAfter, cert.Signature[:], now)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ActiveCertificate returns the newest certificate still valid at now, or
// nil when none is.
func (db *DB) ActiveCertificate(authorityID int64, now time.Time) (*StoredCertificate, error) {
	var c StoredCertificate
	var pub, priv, sig []byte
	var t string
	err := db.QueryRow(
		`SELECT id, authority_id, static_public, static_private, version, valid_from, not_valid_after, signature, created_at
		 FROM certificates
		 WHERE authority_id = ? AND valid_from <= ? AND not_valid_after >= ?
		 ORDER BY id DESC LIMIT 1`,
		authorityID, now.Unix(), now.Unix()).Scan(
		&c.ID, &c.AuthorityID, &pub, &priv,
		&c.Cert.Version, &c.Cert.ValidFrom, &c.Cert.NotValidAfter, &sig, &t)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	copy(c.Static.Public[:], pub)
	copy(c.Static.Private[:], priv)
	copy(c.Cert.Signature[:], sig)
	c.CreatedAt, _ = time.Parse(time.RFC3339, t)
	return &c, nil
}
