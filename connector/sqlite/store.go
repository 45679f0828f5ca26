package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/kbukum/streamkit/encryption"
	"github.com/kbukum/streamkit/logger"
)

// Batch is a stored batch of items awaiting replay.
type Batch struct {
	// ID is the unique identifier of the batch.
	ID string
	// Data is the batch payload, decrypted when a codec is configured.
	Data []byte
	// Size is the number of items in the batch.
	Size int
	// PushedAt is when the batch was spilled.
	PushedAt time.Time
	// ClaimedTimes counts how often the batch has been claimed.
	ClaimedTimes int
}

// Stats summarizes the store contents.
type Stats struct {
	// Batches is the number of stored batches.
	Batches int
	// Items is the total item count across all batches.
	Items int
}

// StoreOption configures Open.
type StoreOption func(*Store)

// WithEncryptor seals batch payloads at rest with the given codec.
func WithEncryptor(enc encryption.Encryptor) StoreOption {
	return func(s *Store) { s.codec = enc }
}

// Store is the durable batch store. All methods are safe for concurrent
// use; claiming is atomic, so concurrent replayers never process the
// same batch twice.
type Store struct {
	cfg   Config
	db    *sql.DB
	codec encryption.Encryptor
	log   *logger.Logger

	mu     sync.Mutex
	closed bool
}

// Open opens (creating if needed) the spill store.
func Open(cfg Config, log *logger.Logger, opts ...StoreOption) (*Store, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("sqlite store config: %w", err)
	}
	if !cfg.Enabled {
		return nil, fmt.Errorf("sqlite is disabled")
	}

	db, err := open(&cfg)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	if err := setup(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("setup: %w", err)
	}

	s := &Store{
		cfg: cfg,
		db:  db,
		log: log.WithComponent("sqlite"),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.log.Info("Spill store opened", map[string]interface{}{
		"path":      cfg.Path,
		"encrypted": s.codec != nil,
	})
	return s, nil
}

// Push stores one batch payload of size items and returns its id.
func (s *Store) Push(ctx context.Context, data []byte, size int) (string, error) {
	if s.codec != nil {
		sealed, err := s.codec.Encrypt(data)
		if err != nil {
			return "", fmt.Errorf("seal batch: %w", err)
		}
		data = sealed
	}

	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`insert into spill (id, data, size, pushed_at, claimed, claimed_times, cooldown_end)
		 values (:id, :data, :size, :pushed_at, 0, 0, 0)`,
		sql.Named("id", id),
		sql.Named("data", data),
		sql.Named("size", size),
		sql.Named("pushed_at", time.Now().UnixNano()),
	)
	if err != nil {
		return "", fmt.Errorf("push batch: %w", err)
	}
	return id, nil
}

// Claim atomically marks up to ClaimLimit eligible batches as claimed
// and returns them, oldest first. Claimed batches are invisible to
// other claimers until released or deleted.
func (s *Store) Claim(ctx context.Context) ([]Batch, error) {
	now := time.Now().UnixNano()
	rows, err := s.db.QueryContext(ctx,
		`update spill
		 set claimed = 1, claimed_times = claimed_times + 1
		 where id in (
			select id from spill
			where claimed = 0 and cooldown_end <= :now
			order by pushed_at asc
			limit :limit
		 )
		 returning id, data, size, pushed_at, claimed_times`,
		sql.Named("now", now),
		sql.Named("limit", s.cfg.ClaimLimit),
	)
	if err != nil {
		return nil, fmt.Errorf("claim: %w", err)
	}
	defer rows.Close()

	var batches []Batch
	for rows.Next() {
		var (
			b        Batch
			pushedAt int64
		)
		if err := rows.Scan(&b.ID, &b.Data, &b.Size, &pushedAt, &b.ClaimedTimes); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		b.PushedAt = time.Unix(0, pushedAt)
		if s.codec != nil {
			plain, err := s.codec.Decrypt(b.Data)
			if err != nil {
				return nil, fmt.Errorf("open batch %s: %w", b.ID, err)
			}
			b.Data = plain
		}
		batches = append(batches, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("claim: %w", err)
	}
	return batches, nil
}

// Release returns claimed batches to the queue, applying the configured
// cooldown before they become claimable again.
func (s *Store) Release(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	var cooldownEnd int64
	if d := s.cfg.CooldownValue(); d > 0 {
		cooldownEnd = time.Now().Add(d).UnixNano()
	}
	_, err := s.db.ExecContext(ctx,
		`update spill
		 set claimed = 0, cooldown_end = :cooldown_end
		 where id in (select value from json_each(:ids))`,
		sql.Named("cooldown_end", cooldownEnd),
		sql.Named("ids", jsonIDs(ids)),
	)
	if err != nil {
		return fmt.Errorf("release: %w", err)
	}
	return nil
}

// Delete permanently removes batches, typically after successful replay.
func (s *Store) Delete(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		`delete from spill where id in (select value from json_each(:ids))`,
		sql.Named("ids", jsonIDs(ids)),
	)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return nil
}

// Stats reports the number of stored batches and items.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	err := s.db.QueryRowContext(ctx,
		`select coalesce(count(*), 0), coalesce(sum(size), 0) from spill`,
	).Scan(&st.Batches, &st.Items)
	if err != nil {
		return Stats{}, fmt.Errorf("stats: %w", err)
	}
	return st, nil
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database. Safe to call more than once.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.log.Info("Spill store closing")
	return s.db.Close()
}

func open(cfg *Config) (*sql.DB, error) {
	params := url.Values{}
	params.Set("_txlock", "immediate")
	params.Set("_timeout", "5000")

	path := cfg.Path
	if path == Memory {
		// A named shared-cache memory database, so the pool's
		// connections all see the same store.
		path = uuid.NewString()
		params.Set("mode", "memory")
		params.Set("cache", "shared")
	} else {
		params.Set("_journal", "wal")
		params.Set("_sync", "normal")
	}

	db, err := sql.Open("sqlite3", "file:"+path+"?"+params.Encode())
	if err != nil {
		return nil, err
	}

	db.SetConnMaxIdleTime(0)
	db.SetConnMaxLifetime(0)
	if params.Get("mode") == "memory" {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	} else {
		db.SetMaxOpenConns(cfg.MaxConns)
		db.SetMaxIdleConns(cfg.MaxConns)
	}
	return db, nil
}

// jsonIDs encodes ids for sqlite's json_each, which sidesteps building
// a placeholder list per call.
func jsonIDs(ids []string) string {
	data, _ := json.Marshal(ids)
	return string(data)
}

func setup(db *sql.DB) error {
	if _, err := db.Exec(
		`create table if not exists spill (
			id            text primary key,
			data          blob not null,
			size          int not null,
			pushed_at     int not null,
			claimed       int not null,
			claimed_times int not null,
			cooldown_end  int not null
		) strict`,
	); err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	if _, err := db.Exec(
		`create index if not exists idx_spill_claimable
		 on spill (pushed_at, cooldown_end, id)
		 where claimed = 0`,
	); err != nil {
		return fmt.Errorf("create index: %w", err)
	}

	// A previous process may have died holding claims.
	if _, err := db.Exec(`update spill set claimed = 0`); err != nil {
		return fmt.Errorf("release stale claims: %w", err)
	}
	return nil
}
