package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// Storage entry names.
const (
	UserKey  = "user"
	TokenKey = "token"
)

// Entries is the persisted pair. An empty field means the entry is absent.
type Entries struct {
	User  string `json:"user,omitempty"`
	Token string `json:"token,omitempty"`
}

// Complete reports whether both halves are present.
func (e Entries) Complete() bool { return e.User != "" && e.Token != "" }

// Empty reports whether both halves are absent.
func (e Entries) Empty() bool { return e.User == "" && e.Token == "" }

// Storage persists the pair. Save and Clear must write both entries or neither.
type Storage interface {
	Load(ctx context.Context) (Entries, error)
	Save(ctx context.Context, e Entries) error
	Clear(ctx context.Context) error
}

// MemoryStorage keeps the pair in process memory.
type MemoryStorage struct {
	mu      sync.Mutex
	entries Entries
}

func NewMemoryStorage() *MemoryStorage { return &MemoryStorage{} }

func (m *MemoryStorage) Load(context.Context) (Entries, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries, nil
}

func (m *MemoryStorage) Save(_ context.Context, e Entries) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = e
	return nil
}

func (m *MemoryStorage) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = Entries{}
	return nil
}

// FileStorage keeps the pair in one JSON document. Writes go to a temp file that is renamed
// over the document, so a reader sees the old pair or the new pair, never a mix.
type FileStorage struct {
	mu   sync.Mutex
	path string
	key  []byte
}

func NewFileStorage(path string) *FileStorage { return &FileStorage{path: path} }

// NewEncryptedFileStorage is a FileStorage whose document is sealed with AES-GCM under a key
// derived from passphrase.
func NewEncryptedFileStorage(path, passphrase string) *FileStorage {
	return &FileStorage{path: path, key: deriveKey(passphrase)}
}

func (f *FileStorage) Load(context.Context) (Entries, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return Entries{}, nil
	}
	if err != nil {
		return Entries{}, fmt.Errorf("read session file: %w", err)
	}
	if f.key != nil {
		if b, err = unseal(f.key, b); err != nil {
			return Entries{}, err
		}
	}
	var e Entries
	if err := json.Unmarshal(b, &e); err != nil {
		return Entries{}, fmt.Errorf("decode session file: %w", err)
	}
	return e, nil
}

func (f *FileStorage) Save(_ context.Context, e Entries) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	if f.key != nil {
		if b, err = seal(f.key, b); err != nil {
			return err
		}
	}
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return fmt.Errorf("create temp session file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("write session file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close session file: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}

func (f *FileStorage) Clear(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

// RedisStorage keeps the pair under two keys, written and deleted in one MULTI/EXEC.
type RedisStorage struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStorage stores entries under prefix+"user" and prefix+"token". A zero ttl never expires.
func NewRedisStorage(client *redis.Client, prefix string, ttl time.Duration) *RedisStorage {
	return &RedisStorage{client: client, prefix: prefix, ttl: ttl}
}

func (r *RedisStorage) keys() (string, string) {
	return r.prefix + UserKey, r.prefix + TokenKey
}

func (r *RedisStorage) Load(ctx context.Context) (Entries, error) {
	userKey, tokenKey := r.keys()
	vals, err := r.client.MGet(ctx, userKey, tokenKey).Result()
	if err != nil {
		return Entries{}, fmt.Errorf("load session: %w", err)
	}
	var e Entries
	if s, ok := vals[0].(string); ok {
		e.User = s
	}
	if s, ok := vals[1].(string); ok {
		e.Token = s
	}
	return e, nil
}

func (r *RedisStorage) Save(ctx context.Context, e Entries) error {
	userKey, tokenKey := r.keys()
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, userKey, e.User, r.ttl)
		pipe.Set(ctx, tokenKey, e.Token, r.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *RedisStorage) Clear(ctx context.Context) error {
	userKey, tokenKey := r.keys()
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, userKey, tokenKey)
		return nil
	})
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
