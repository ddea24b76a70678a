package blobstore

import (
	"fmt"
	"strconv"
)

// ContentKind classifies what a stored object belongs to.
type ContentKind string

// Content kind constants (typed).
const (
	KindFilm    ContentKind = "film"
	KindEpisode ContentKind = "episode"
	KindImage   ContentKind = "image"
)

// Quality is a video quality variant. Non-video objects carry no quality.
type Quality string

// Quality constants (typed).
const (
	Quality360p  Quality = "360p"
	Quality480p  Quality = "480p"
	Quality720p  Quality = "720p"
	Quality1080p Quality = "1080p"
)

// VideoQualities is the full ladder of variants stored per video asset.
var VideoQualities = []Quality{Quality360p, Quality480p, Quality720p, Quality1080p}

// ValidQuality reports whether q is a known quality variant.
func ValidQuality(q Quality) bool {
	switch q {
	case Quality360p, Quality480p, Quality720p, Quality1080p:
		return true
	}
	return false
}

// ObjectKey addresses one blob: one object per (content, kind, quality)
// tuple. Content IDs are never reused across distinct logical assets, so a
// deleted key is never recreated pointing at different content.
type ObjectKey struct {
	ContentID int64
	Kind      ContentKind
	Quality   Quality
}

// String renders the key layout shared with every backend:
// {kind}/{content_id}/{quality}, with quality omitted for non-video
// objects. The rendering is deterministic across calls and restarts.
func (k ObjectKey) String() string {
	if k.Quality == "" {
		return fmt.Sprintf("%s/%d", k.Kind, k.ContentID)
	}
	return fmt.Sprintf("%s/%d/%s", k.Kind, k.ContentID, k.Quality)
}

// Prefix returns the listing prefix covering every variant of one asset.
func Prefix(kind ContentKind, contentID int64) string {
	return string(kind) + "/" + strconv.FormatInt(contentID, 10) + "/"
}

// VariantKeys computes the object keys for all quality variants of a
// video asset.
func VariantKeys(kind ContentKind, contentID int64, qualities []Quality) []ObjectKey {
	keys := make([]ObjectKey, 0, len(qualities))
	for _, q := range qualities {
		keys = append(keys, ObjectKey{ContentID: contentID, Kind: kind, Quality: q})
	}
	return keys
}

// CoverKey returns the key of the cover image stored for an asset.
func CoverKey(contentID int64) ObjectKey {
	return ObjectKey{ContentID: contentID, Kind: KindImage}
}
