package controllers

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"medialog/internal/models"
)

// ListController owns the per-user list state machine: each item id
// appears at most once per media type and lives in exactly one status
// bucket. Mutations run as a load-modify-save sequence against the
// record store, serialized per user.
type ListController struct {
	db     *models.Database
	logger *logrus.Logger

	mu        sync.Mutex
	userLocks map[string]*sync.Mutex
}

// NewListController creates a new list controller
func NewListController(db *models.Database, logger *logrus.Logger) *ListController {
	return &ListController{
		db:        db,
		logger:    logger,
		userLocks: make(map[string]*sync.Mutex),
	}
}

// userLock returns the mutex serializing mutations for one user,
// creating it on first access
func (c *ListController) userLock(userID string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()

	lock, ok := c.userLocks[userID]
	if !ok {
		lock = &sync.Mutex{}
		c.userLocks[userID] = lock
	}
	return lock
}

// GetLists returns a deep copy of the user's current lists. Reads are
// not serialized against writers; the snapshot may be concurrently stale.
func (c *ListController) GetLists(userID string) (models.UserLists, error) {
	record, err := c.db.FindUserByID(userID)
	if err != nil {
		return nil, err
	}
	return record.Lists.Clone(), nil
}

// AddItem files a new item under the given status (or the media type's
// intake status when none is given). The id must not already exist in
// any bucket of that media type.
func (c *ListController) AddItem(userID string, mediaType models.MediaType, item *models.ListItem, status models.Status) (*models.ListItem, error) {
	statuses, err := models.StatusesFor(mediaType)
	if err != nil {
		return nil, err
	}
	if item == nil || item.ID == "" {
		return nil, models.ErrInvalidItem
	}
	if status == "" {
		status, _ = models.DefaultStatusFor(mediaType)
	} else if !models.IsValidStatus(mediaType, status) {
		return nil, fmt.Errorf("%w: %s", models.ErrInvalidStatus, status)
	}

	lock := c.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	record, err := c.db.FindUserByID(userID)
	if err != nil {
		return nil, err
	}
	ensureBuckets(record, mediaType)

	for _, s := range statuses {
		for _, existing := range record.Lists[mediaType][s] {
			if existing.ID == item.ID {
				return nil, fmt.Errorf("%w: %s", models.ErrDuplicateItem, item.ID)
			}
		}
	}

	stored := item.Clone()
	stored.AddedAt = time.Now()
	record.Lists[mediaType][status] = append(record.Lists[mediaType][status], stored)

	if err := c.db.SaveUser(record); err != nil {
		return nil, err
	}

	return stored.Clone(), nil
}

// UpdateItem applies a partial update to an item, moving it between
// buckets when the status changes. Fields absent from the update are
// left untouched; a status equal to the current bucket is a no-op move.
func (c *ListController) UpdateItem(userID string, mediaType models.MediaType, itemID models.ItemID, update models.ItemUpdate) (*models.ListItem, error) {
	statuses, err := models.StatusesFor(mediaType)
	if err != nil {
		return nil, err
	}

	lock := c.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	record, err := c.db.FindUserByID(userID)
	if err != nil {
		return nil, err
	}
	ensureBuckets(record, mediaType)

	var (
		item    *models.ListItem
		current models.Status
		index   int
	)
	for _, s := range statuses {
		for i, candidate := range record.Lists[mediaType][s] {
			if candidate.ID == itemID {
				item, current, index = candidate, s, i
				break
			}
		}
		if item != nil {
			break
		}
	}
	if item == nil {
		return nil, fmt.Errorf("%w: %s", models.ErrItemNotFound, itemID)
	}

	if update.Score != nil {
		score := *update.Score
		item.Score = &score
	}
	if update.Progress != nil {
		item.Progress = append(json.RawMessage(nil), update.Progress...)
	}

	if update.Status != nil && *update.Status != current {
		if !models.IsValidStatus(mediaType, *update.Status) {
			return nil, fmt.Errorf("%w: %s", models.ErrInvalidStatus, *update.Status)
		}
		bucket := record.Lists[mediaType][current]
		record.Lists[mediaType][current] = append(bucket[:index], bucket[index+1:]...)
		record.Lists[mediaType][*update.Status] = append(record.Lists[mediaType][*update.Status], item)
	}

	if err := c.db.SaveUser(record); err != nil {
		return nil, err
	}

	return item.Clone(), nil
}

// RemoveItem deletes an item from whichever bucket holds it
func (c *ListController) RemoveItem(userID string, mediaType models.MediaType, itemID models.ItemID) error {
	statuses, err := models.StatusesFor(mediaType)
	if err != nil {
		return err
	}

	lock := c.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	record, err := c.db.FindUserByID(userID)
	if err != nil {
		return err
	}
	ensureBuckets(record, mediaType)

	for _, s := range statuses {
		for i, candidate := range record.Lists[mediaType][s] {
			if candidate.ID == itemID {
				bucket := record.Lists[mediaType][s]
				record.Lists[mediaType][s] = append(bucket[:i], bucket[i+1:]...)
				return c.db.SaveUser(record)
			}
		}
	}

	return fmt.Errorf("%w: %s", models.ErrItemNotFound, itemID)
}

// ensureBuckets guards against records persisted before a media type or
// bucket existed in the schema
func ensureBuckets(record *models.UserRecord, mediaType models.MediaType) {
	if record.Lists == nil {
		record.Lists = models.UserLists{}
	}
	if record.Lists[mediaType] == nil {
		record.Lists[mediaType] = models.NewStatusBuckets(mediaType)
	}
}
