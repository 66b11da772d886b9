package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// MediaType represents the category of tracked media
type MediaType string

const (
	MediaTypeMovie  MediaType = "movie"
	MediaTypeSeries MediaType = "series"
	MediaTypeAnime  MediaType = "anime"
	MediaTypeManga  MediaType = "manga"
	MediaTypeNovel  MediaType = "novel"
	MediaTypeGame   MediaType = "game"
)

// Status represents a per-type consumption state an item is filed under
type Status string

const (
	StatusWatching   Status = "watching"
	StatusReading    Status = "reading"
	StatusPlaying    Status = "playing"
	StatusCompleted  Status = "completed"
	StatusOnHold     Status = "on_hold"
	StatusDropped    Status = "dropped"
	StatusPlanToWatch Status = "plan_to_watch"
	StatusPlanToRead  Status = "plan_to_read"
	StatusPlanToPlay  Status = "plan_to_play"
)

// ItemID is the canonical form of an external catalogue identifier.
// Providers send ids as JSON numbers or strings; everything is normalized
// to a string at ingestion so lookups use plain equality.
type ItemID string

// UnmarshalJSON accepts both string and numeric ids
func (id *ItemID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = ItemID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("item id must be a string or number: %s", string(data))
	}
	*id = ItemID(n.String())
	return nil
}

// ListItem represents one media entry a user is tracking
type ListItem struct {
	ID       ItemID
	Title    string
	Image    string
	Score    *float64
	Progress json.RawMessage // provider-defined shape, stored as sent
	AddedAt  time.Time       // set once when the item enters a list

	// Extra carries any other provider-supplied fields untouched
	Extra map[string]json.RawMessage
}

// known JSON keys that map to named ListItem fields; everything else
// round-trips through Extra
var listItemKeys = map[string]bool{
	"id":       true,
	"title":    true,
	"image":    true,
	"score":    true,
	"progress": true,
	"added_at": true,
}

// MarshalJSON flattens Extra back into the item object
func (i ListItem) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(i.Extra)+6)
	for k, v := range i.Extra {
		out[k] = v
	}

	out["id"] = i.ID
	out["title"] = i.Title
	if i.Image != "" {
		out["image"] = i.Image
	}
	if i.Score != nil {
		out["score"] = *i.Score
	}
	if len(i.Progress) > 0 {
		out["progress"] = i.Progress
	}
	if !i.AddedAt.IsZero() {
		out["added_at"] = i.AddedAt
	}

	return json.Marshal(out)
}

// UnmarshalJSON pulls the named fields out and keeps the rest in Extra
func (i *ListItem) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if v, ok := raw["id"]; ok {
		if err := json.Unmarshal(v, &i.ID); err != nil {
			return err
		}
	}
	if v, ok := raw["title"]; ok {
		if err := json.Unmarshal(v, &i.Title); err != nil {
			return err
		}
	}
	if v, ok := raw["image"]; ok {
		// tolerate null images from providers
		var s *string
		if err := json.Unmarshal(v, &s); err != nil {
			return err
		}
		if s != nil {
			i.Image = *s
		}
	}
	if v, ok := raw["score"]; ok {
		if err := json.Unmarshal(v, &i.Score); err != nil {
			return err
		}
	}
	if v, ok := raw["progress"]; ok && string(v) != "null" {
		i.Progress = append(json.RawMessage(nil), v...)
	}
	if v, ok := raw["added_at"]; ok && string(v) != "null" {
		if err := json.Unmarshal(v, &i.AddedAt); err != nil {
			return err
		}
	}

	for k, v := range raw {
		if listItemKeys[k] {
			continue
		}
		if i.Extra == nil {
			i.Extra = make(map[string]json.RawMessage)
		}
		i.Extra[k] = append(json.RawMessage(nil), v...)
	}

	return nil
}

// Clone returns a deep copy of the item
func (i *ListItem) Clone() *ListItem {
	c := *i
	if i.Score != nil {
		score := *i.Score
		c.Score = &score
	}
	if i.Progress != nil {
		c.Progress = append(json.RawMessage(nil), i.Progress...)
	}
	if i.Extra != nil {
		c.Extra = make(map[string]json.RawMessage, len(i.Extra))
		for k, v := range i.Extra {
			c.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return &c
}

// UserLists holds one user's full type -> status -> items structure.
// Within a media type an item id lives in at most one status bucket.
type UserLists map[MediaType]map[Status][]*ListItem

// Clone returns a deep copy of the lists
func (l UserLists) Clone() UserLists {
	if l == nil {
		return nil
	}
	out := make(UserLists, len(l))
	for mediaType, buckets := range l {
		cloned := make(map[Status][]*ListItem, len(buckets))
		for status, items := range buckets {
			copied := make([]*ListItem, 0, len(items))
			for _, item := range items {
				copied = append(copied, item.Clone())
			}
			cloned[status] = copied
		}
		out[mediaType] = cloned
	}
	return out
}

// UserRecord is one registered user with their lists
type UserRecord struct {
	ID           string `boltholdKey:"ID" json:"id"`
	Username     string `boltholdIndex:"Username" json:"username"`
	Email        string `boltholdIndex:"Email" json:"email"`
	PasswordHash string `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	Lists     UserLists `json:"lists"`
}

// ItemUpdate carries the fields of a partial item update. Nil fields are
// left untouched on the stored item.
type ItemUpdate struct {
	Status   *Status         `json:"status"`
	Score    *float64        `json:"score"`
	Progress json.RawMessage `json:"progress"`
}

// TrendingEntry is one ranked item in the local popularity aggregation
type TrendingEntry struct {
	Item  *ListItem `json:"item"`
	Count int       `json:"count"`
}

// CatalogueItem is a normalized search result from an external provider
type CatalogueItem struct {
	ID          ItemID    `json:"id"`
	Title       string    `json:"title"`
	Image       string    `json:"image,omitempty"`
	Description string    `json:"description,omitempty"`
	Type        MediaType `json:"type"`
	Score       *float64  `json:"score,omitempty"`
}
