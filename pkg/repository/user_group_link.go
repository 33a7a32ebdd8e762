package repository

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"

	"github.com/nggurbanov/curator-helper/pkg/domain"
	"github.com/nggurbanov/curator-helper/pkg/logger"
)

type userGroupLinkRepository struct {
	store *Store
}

// NewUserGroupLinkRepository maps each user to at most one group chat for
// the anonymous-question relay. The whole table lives under the single
// reserved key in the same store file as the chat configs, and every
// mutation rewrites it as one unit.
func NewUserGroupLinkRepository(store *Store) *userGroupLinkRepository {
	return &userGroupLinkRepository{store: store}
}

// Set links userID to groupID, silently replacing any prior link. Zero
// identifiers are precondition violations, not transient errors.
func (r *userGroupLinkRepository) Set(ctx context.Context, userID, groupID int64) error {
	if userID == 0 || groupID == 0 {
		return domain.ErrNotFound
	}

	defer r.store.lock()()

	links, err := r.readLinks(ctx)
	if err != nil {
		return err
	}
	links[linkKey(userID)] = groupID
	return r.writeLinks(ctx, links)
}

// Get returns the linked group id, or ErrNotFound when the user has none.
func (r *userGroupLinkRepository) Get(ctx context.Context, userID int64) (int64, error) {
	defer r.store.lock()()

	links, err := r.readLinks(ctx)
	if err != nil {
		return 0, err
	}
	groupID, ok := links[linkKey(userID)]
	if !ok {
		return 0, domain.ErrNotFound
	}
	return groupID, nil
}

// Remove deletes the user's link. Removing an absent link is success: the
// postcondition already holds.
func (r *userGroupLinkRepository) Remove(ctx context.Context, userID int64) error {
	defer r.store.lock()()

	links, err := r.readLinks(ctx)
	if err != nil {
		return err
	}
	if _, ok := links[linkKey(userID)]; !ok {
		return nil
	}
	delete(links, linkKey(userID))
	return r.writeLinks(ctx, links)
}

// readLinks expects the store lock to be held by the caller. A corrupt or
// unreadable table degrades to empty rather than failing every caller.
func (r *userGroupLinkRepository) readLinks(ctx context.Context) (map[string]int64, error) {
	raw, ok, err := r.store.get(ctx, domain.UserGroupLinksKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return map[string]int64{}, nil
	}

	var links map[string]int64
	if err := json.Unmarshal(raw, &links); err != nil {
		slog.ErrorContext(ctx, "corrupt user-group link table, starting empty", logger.Err(err))
		return map[string]int64{}, nil
	}
	return links, nil
}

func (r *userGroupLinkRepository) writeLinks(ctx context.Context, links map[string]int64) error {
	raw, err := json.Marshal(links)
	if err != nil {
		return err
	}
	return r.store.put(ctx, domain.UserGroupLinksKey, raw)
}

func linkKey(userID int64) string {
	return strconv.FormatInt(userID, 10)
}
