package repository

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"

	"github.com/nggurbanov/curator-helper/pkg/domain"
	"github.com/nggurbanov/curator-helper/pkg/logger"
)

type chatConfigRepository struct {
	store    *Store
	defaults domain.ChatConfig
}

// NewChatConfigRepository layers per-chat override records on top of the
// default settings loaded at startup. Only explicitly set keys are ever
// persisted; the full default set is never materialized into the store.
func NewChatConfigRepository(store *Store, defaults domain.ChatConfig) *chatConfigRepository {
	return &chatConfigRepository{store: store, defaults: defaults}
}

// Get returns defaults merged with the chat's stored overrides, overrides
// winning per key. It never fails: store errors and missing records both
// degrade to a pure-defaults view. The result is a fresh copy the caller
// may mutate.
func (r *chatConfigRepository) Get(ctx context.Context, chatID int64) domain.ChatConfig {
	defer r.store.lock()()

	overrides, err := r.readOverrides(ctx, chatID)
	if err != nil {
		slog.ErrorContext(ctx, "reading chat config, using defaults", "chatID", chatID, logger.Err(err))
		return r.defaults.Clone()
	}

	return r.defaults.Merged(overrides)
}

// Update replaces the chat's whole override record with cfg verbatim. No
// merge happens here: callers that want to keep existing overrides must
// fetch, merge in memory and then call Update. On failure the previously
// stored record is left intact.
func (r *chatConfigRepository) Update(ctx context.Context, chatID int64, cfg domain.ChatConfig) error {
	defer r.store.lock()()

	value, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	return r.store.put(ctx, chatKey(chatID), value)
}

// SetSetting updates a single key in the chat's override record, creating
// the record if the chat has none yet. All other keys are left untouched.
func (r *chatConfigRepository) SetSetting(ctx context.Context, chatID int64, key string, value any) error {
	defer r.store.lock()()

	overrides, err := r.readOverrides(ctx, chatID)
	if err != nil {
		return err
	}
	if overrides == nil {
		overrides = domain.ChatConfig{}
	}
	overrides[key] = value

	raw, err := json.Marshal(overrides)
	if err != nil {
		return err
	}
	return r.store.put(ctx, chatKey(chatID), raw)
}

// Delete removes the chat's override record entirely; subsequent reads
// revert to pure defaults. Deleting a chat with no record is a no-op.
func (r *chatConfigRepository) Delete(ctx context.Context, chatID int64) error {
	defer r.store.lock()()

	return r.store.delete(ctx, chatKey(chatID))
}

// KnownChatIDs enumerates every chat with a stored override record. The
// reserved user-group-link key and any non-numeric key are skipped, never
// reported as errors.
func (r *chatConfigRepository) KnownChatIDs(ctx context.Context) ([]int64, error) {
	defer r.store.lock()()

	keys, err := r.store.keys(ctx)
	if err != nil {
		return nil, err
	}

	chatIDs := make([]int64, 0, len(keys))
	for _, key := range keys {
		if key == domain.UserGroupLinksKey {
			continue
		}
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			slog.WarnContext(ctx, "skipping non-numeric store key", "key", key)
			continue
		}
		chatIDs = append(chatIDs, id)
	}
	return chatIDs, nil
}

// readOverrides expects the store lock to be held by the caller.
func (r *chatConfigRepository) readOverrides(ctx context.Context, chatID int64) (domain.ChatConfig, error) {
	raw, ok, err := r.store.get(ctx, chatKey(chatID))
	if err != nil || !ok {
		return nil, err
	}

	var overrides domain.ChatConfig
	if err := json.Unmarshal(raw, &overrides); err != nil {
		return nil, err
	}
	return overrides, nil
}

func chatKey(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}
