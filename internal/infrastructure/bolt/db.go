package bolt

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	bbolt "go.etcd.io/bbolt"
)

// Open initializes the BoltDB file and ensures the given top-level buckets exist.
func Open(path string, buckets ...string) (*bbolt.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("bolt: empty database path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bbolt.Tx) error {
		for _, name := range buckets {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// PathFromURL extracts the file path from bolt://relative/path.db or
// bolt:///absolute/path.db.
func PathFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme != "bolt" {
		return "", fmt.Errorf("bolt: unexpected scheme %q", u.Scheme)
	}
	path := u.Host + u.Path
	if u.Opaque != "" {
		path = u.Opaque
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("bolt: missing database path in %q", raw)
	}
	return path, nil
}
