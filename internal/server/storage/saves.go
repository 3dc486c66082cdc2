// Package storage holds the external collaborators of the room state
// machine. The save store keeps account-keyed lists of game snapshots;
// it never touches live room state.
package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"
)

const savesKeyPrefix = "saves:"

// SaveStore persists save snapshots in redis, one JSON array per account.
// Snapshots are opaque blobs; only their "id" and "timestamp" fields are
// peeked, for upsert identity and ordering.
type SaveStore struct {
	client *redis.Client
}

// NewSaveStore creates a save store.
func NewSaveStore(client *redis.Client) *SaveStore {
	return &SaveStore{client: client}
}

// snapshotMeta is the part of a snapshot the store understands.
type snapshotMeta struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"timestamp"`
}

// accountKeyHash derives the storage key from the account key, so raw
// credentials never appear as storage keys.
func accountKeyHash(accountKey string) string {
	sum := sha256.Sum256([]byte(accountKey))
	return hex.EncodeToString(sum[:])
}

func savesKey(accountKey string) string {
	return savesKeyPrefix + accountKeyHash(accountKey)
}

// Load returns the account's snapshots. found is false for an account
// that has never saved anything.
func (s *SaveStore) Load(ctx context.Context, accountKey string) (saves []json.RawMessage, found bool, err error) {
	data, err := s.client.Get(ctx, savesKey(accountKey)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	if err := json.Unmarshal(data, &saves); err != nil {
		return nil, false, fmt.Errorf("corrupt save list: %w", err)
	}
	return saves, true, nil
}

// Upsert inserts or replaces a snapshot by its id, re-sorts the list by
// descending timestamp, persists it and returns it.
func (s *SaveStore) Upsert(ctx context.Context, accountKey string, snapshot json.RawMessage) ([]json.RawMessage, error) {
	saves, _, err := s.Load(ctx, accountKey)
	if err != nil {
		return nil, err
	}

	meta := peekMeta(snapshot)
	replaced := false
	for i, raw := range saves {
		if peekMeta(raw).ID == meta.ID {
			saves[i] = snapshot
			replaced = true
			break
		}
	}
	if !replaced {
		saves = append(saves, snapshot)
	}

	sort.SliceStable(saves, func(i, j int) bool {
		return peekMeta(saves[i]).Timestamp > peekMeta(saves[j]).Timestamp
	})

	if err := s.persist(ctx, accountKey, saves); err != nil {
		return nil, err
	}
	return saves, nil
}

// Delete removes the snapshot with the given id and returns the
// remaining list. found is false for an account that has never saved.
func (s *SaveStore) Delete(ctx context.Context, accountKey, saveID string) ([]json.RawMessage, bool, error) {
	saves, found, err := s.Load(ctx, accountKey)
	if err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, nil
	}

	filtered := saves[:0]
	for _, raw := range saves {
		if peekMeta(raw).ID != saveID {
			filtered = append(filtered, raw)
		}
	}

	if err := s.persist(ctx, accountKey, filtered); err != nil {
		return nil, false, err
	}
	return filtered, true, nil
}

func (s *SaveStore) persist(ctx context.Context, accountKey string, saves []json.RawMessage) error {
	if saves == nil {
		saves = []json.RawMessage{}
	}
	data, err := json.Marshal(saves)
	if err != nil {
		return fmt.Errorf("serialize save list: %w", err)
	}
	return s.client.Set(ctx, savesKey(accountKey), data, 0).Err()
}

// peekMeta extracts id/timestamp; a malformed snapshot yields zero meta
// and simply sorts last.
func peekMeta(raw json.RawMessage) snapshotMeta {
	var meta snapshotMeta
	_ = json.Unmarshal(raw, &meta)
	return meta
}
