package models

import "fmt"

// mediaTypeOrder fixes the iteration order used for aggregation and status output
var mediaTypeOrder = []MediaType{
	MediaTypeMovie,
	MediaTypeSeries,
	MediaTypeAnime,
	MediaTypeManga,
	MediaTypeNovel,
	MediaTypeGame,
}

// statusSchema lists the valid buckets per media type, in display order
var statusSchema = map[MediaType][]Status{
	MediaTypeMovie:  {StatusWatching, StatusCompleted, StatusOnHold, StatusDropped, StatusPlanToWatch},
	MediaTypeSeries: {StatusWatching, StatusCompleted, StatusOnHold, StatusDropped, StatusPlanToWatch},
	MediaTypeAnime:  {StatusWatching, StatusCompleted, StatusOnHold, StatusDropped, StatusPlanToWatch},
	MediaTypeManga:  {StatusReading, StatusCompleted, StatusOnHold, StatusDropped, StatusPlanToRead},
	MediaTypeNovel:  {StatusReading, StatusCompleted, StatusOnHold, StatusDropped, StatusPlanToRead},
	MediaTypeGame:   {StatusPlaying, StatusCompleted, StatusOnHold, StatusDropped, StatusPlanToPlay},
}

// defaultStatus is the intake bucket used when an item is added without
// an explicit status
var defaultStatus = map[MediaType]Status{
	MediaTypeMovie:  StatusPlanToWatch,
	MediaTypeSeries: StatusPlanToWatch,
	MediaTypeAnime:  StatusPlanToWatch,
	MediaTypeManga:  StatusPlanToRead,
	MediaTypeNovel:  StatusPlanToRead,
	MediaTypeGame:   StatusPlanToPlay,
}

// MediaTypes returns all known media types in schema order
func MediaTypes() []MediaType {
	return append([]MediaType(nil), mediaTypeOrder...)
}

// StatusesFor returns the valid status buckets for a media type
func StatusesFor(mediaType MediaType) ([]Status, error) {
	statuses, ok := statusSchema[mediaType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidMediaType, mediaType)
	}
	return append([]Status(nil), statuses...), nil
}

// DefaultStatusFor returns the intake status for a media type
func DefaultStatusFor(mediaType MediaType) (Status, error) {
	status, ok := defaultStatus[mediaType]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrInvalidMediaType, mediaType)
	}
	return status, nil
}

// IsValidStatus reports whether status is a valid bucket for mediaType
func IsValidStatus(mediaType MediaType, status Status) bool {
	for _, s := range statusSchema[mediaType] {
		if s == status {
			return true
		}
	}
	return false
}

// NewStatusBuckets returns an empty bucket map for one media type
func NewStatusBuckets(mediaType MediaType) map[Status][]*ListItem {
	buckets := make(map[Status][]*ListItem, len(statusSchema[mediaType]))
	for _, status := range statusSchema[mediaType] {
		buckets[status] = []*ListItem{}
	}
	return buckets
}

// NewUserLists returns a full lists structure with every bucket present
// and empty, the shape a user record starts with at registration
func NewUserLists() UserLists {
	lists := make(UserLists, len(mediaTypeOrder))
	for _, mediaType := range mediaTypeOrder {
		lists[mediaType] = NewStatusBuckets(mediaType)
	}
	return lists
}
