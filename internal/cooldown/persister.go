package cooldown

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"

	domain "github.com/donaldgifford/stock-tracker/pkg/types"
)

const snapshotVersion = 1

// Snapshot is the serialized form of both cooldown domains.
type Snapshot struct {
	Version int               `json:"version"`
	SavedAt time.Time         `json:"savedAt"`
	Stock   []domain.Cooldown `json:"stock"`
	Basket  []domain.Cooldown `json:"basket"`
}

// Persister is the durable backend of a Store.
type Persister interface {
	// Load returns the last saved snapshot, or (nil, nil) when none exists.
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snap *Snapshot) error
}

func encode(snap *Snapshot) ([]byte, error) {
	out := *snap
	out.Version = snapshotVersion
	if out.SavedAt.IsZero() {
		out.SavedAt = time.Now().UTC()
	}
	data, err := json.MarshalIndent(&out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding cooldown snapshot: %w", err)
	}
	return data, nil
}

func decode(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decoding cooldown snapshot: %w", err)
	}
	if snap.Version > snapshotVersion {
		return nil, fmt.Errorf("cooldown snapshot version %d is newer than supported %d", snap.Version, snapshotVersion)
	}
	return &snap, nil
}

// FilePersister stores the snapshot as a JSON file.
type FilePersister struct {
	path string
}

// NewFilePersister creates a persister writing to path.
func NewFilePersister(path string) *FilePersister {
	return &FilePersister{path: path}
}

// Path returns the snapshot file location.
func (p *FilePersister) Path() string {
	return p.path
}

// Load reads the snapshot file. A missing file is not an error.
func (p *FilePersister) Load(_ context.Context) (*Snapshot, error) {
	data, err := os.ReadFile(p.path) //nolint:gosec // path from trusted config
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading cooldown file: %w", err)
	}
	return decode(data)
}

// Save writes the snapshot through a temp file and rename so a crash never
// leaves a truncated file behind.
func (p *FilePersister) Save(_ context.Context, snap *Snapshot) error {
	data, err := encode(snap)
	if err != nil {
		return err
	}

	dir := filepath.Dir(p.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating cooldown directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(p.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp cooldown file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // gone after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing cooldown file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing cooldown file: %w", err)
	}
	if err := os.Rename(tmp.Name(), p.path); err != nil {
		return fmt.Errorf("replacing cooldown file: %w", err)
	}
	return nil
}

// RedisPersister stores the snapshot as one JSON value under a key.
type RedisPersister struct {
	client redis.Cmdable
	key    string
}

// NewRedisPersister creates a persister using key on client.
func NewRedisPersister(client redis.Cmdable, key string) *RedisPersister {
	return &RedisPersister{client: client, key: key}
}

// Load fetches the snapshot. A missing key is not an error.
func (p *RedisPersister) Load(ctx context.Context) (*Snapshot, error) {
	data, err := p.client.Get(ctx, p.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading cooldowns from redis: %w", err)
	}
	return decode(data)
}

// Save overwrites the snapshot key.
func (p *RedisPersister) Save(ctx context.Context, snap *Snapshot) error {
	data, err := encode(snap)
	if err != nil {
		return err
	}
	if err := p.client.Set(ctx, p.key, data, 0).Err(); err != nil {
		return fmt.Errorf("writing cooldowns to redis: %w", err)
	}
	return nil
}
