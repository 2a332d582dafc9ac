package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fact_resolution/pkg/core/ingest"
)

// FactCache stores fact collections keyed by accession number so the
// upstream retrieval/parsing pipeline only has to run once per filing.
// Hybrid vault: DB primary, file system fallback for local work.
type FactCache struct {
	pool    *pgxpool.Pool
	fileDir string
}

// NewFactCache creates a cache instance. A nil pool falls back to a
// file-based cache in dir; an empty dir defaults to .cache/facts.
func NewFactCache(pool *pgxpool.Pool, dir string) *FactCache {
	if pool == nil && dir == "" {
		dir = filepath.Join(".cache", "facts")
	}
	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			fmt.Printf("[WARNING] Check FactCache dir: %v\n", err)
		}
	}
	return &FactCache{pool: pool, fileDir: dir}
}

// CacheEntry wraps a stored fact collection with identity metadata.
type CacheEntry struct {
	ID              string           `json:"id"`
	Ticker          string           `json:"ticker"`
	CIK             string           `json:"cik"`
	AccessionNumber string           `json:"accession_number"`
	DocumentDate    string           `json:"document_date,omitempty"`
	CachedAt        time.Time        `json:"cached_at"`
	Collection      *ingest.FactFile `json:"collection"`
}

// Schema assumption:
// CREATE TABLE IF NOT EXISTS fact_collections (
//   accession_number TEXT PRIMARY KEY,
//   entry_id TEXT,
//   ticker TEXT,
//   cik TEXT,
//   collection_json JSONB,
//   cached_at TIMESTAMPTZ
// );

// Put stores a fact collection under its accession number.
func (c *FactCache) Put(ctx context.Context, accession string, ff *ingest.FactFile) error {
	if accession == "" {
		return fmt.Errorf("accession number must not be empty")
	}
	if ff == nil {
		return fmt.Errorf("fact collection must not be nil")
	}

	entry := CacheEntry{
		ID:              uuid.NewString(),
		Ticker:          ff.Ticker,
		CIK:             ff.CIK,
		AccessionNumber: accession,
		DocumentDate:    ff.DocumentDate,
		CachedAt:        time.Now(),
		Collection:      ff,
	}

	if c.pool != nil {
		data, err := json.Marshal(ff)
		if err != nil {
			return fmt.Errorf("failed to marshal fact collection: %w", err)
		}
		query := `
			INSERT INTO fact_collections (accession_number, entry_id, ticker, cik, collection_json, cached_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (accession_number)
			DO UPDATE SET entry_id = $2, ticker = $3, cik = $4, collection_json = $5, cached_at = $6
		`
		_, err = c.pool.Exec(ctx, query, accession, entry.ID, entry.Ticker, entry.CIK, data, entry.CachedAt)
		if err == nil {
			return nil
		}
		fmt.Printf("[WARNING] FactCache DB write failed, falling back to file: %v\n", err)
	}

	if c.fileDir == "" {
		return fmt.Errorf("fact cache has no backing store")
	}
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}
	path := filepath.Join(c.fileDir, fileNameFor(accession))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	return nil
}

// GetByAccession loads a cached fact collection. Returns (nil, nil) on a
// clean miss.
func (c *FactCache) GetByAccession(ctx context.Context, accession string) (*ingest.FactFile, error) {
	if c.pool != nil {
		var data []byte
		query := `SELECT collection_json FROM fact_collections WHERE accession_number = $1`
		err := c.pool.QueryRow(ctx, query, accession).Scan(&data)
		if err == nil {
			var ff ingest.FactFile
			if err := json.Unmarshal(data, &ff); err != nil {
				return nil, fmt.Errorf("failed to unmarshal cached collection: %w", err)
			}
			return &ff, nil
		}
		if err != pgx.ErrNoRows {
			fmt.Printf("[WARNING] FactCache DB read failed, trying file: %v\n", err)
		}
	}

	if c.fileDir == "" {
		return nil, nil
	}
	path := filepath.Join(c.fileDir, fileNameFor(accession))
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}
	var entry CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache file: %w", err)
	}
	return entry.Collection, nil
}

// fileNameFor sanitizes an accession number into a file name
// (accessions contain dashes and occasionally slashes from upstream).
func fileNameFor(accession string) string {
	safe := strings.NewReplacer("/", "_", "\\", "_", " ", "_").Replace(accession)
	return safe + ".json"
}
