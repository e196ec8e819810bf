// Copyright (c) 2026 Innkeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package blob

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/taibuivan/innkeep/internal/platform/constants"
	"github.com/taibuivan/innkeep/pkg/slug"
)

// maxNameLength bounds the human-readable part of a key.
const maxNameLength = 48

// BuildKey returns the object key for an uploaded photo:
//
//	guesthouse-<id>/<unix-nanos>-<sha256[:16]>-<slugged-name><ext>
//
// The timestamp and content hash make keys collision-free without a lookup;
// the slug keeps them readable in bucket listings. ext comes from content
// sniffing, not from the client's file name.
func BuildKey(guesthouseID, fileName, ext string, content []byte, now time.Time) string {
	sum := sha256.Sum256(content)

	base := strings.TrimSuffix(fileName, path.Ext(fileName))
	name := slug.Truncate(slug.From(base), maxNameLength)
	if name == "" {
		name = "photo"
	}

	return fmt.Sprintf("%s%s/%d-%s-%s%s",
		constants.BlobKeyPrefix, guesthouseID,
		now.UnixNano(), hex.EncodeToString(sum[:])[:16], name, strings.ToLower(ext),
	)
}

// KeyTime extracts the upload timestamp embedded by [BuildKey].
func KeyTime(key string) (time.Time, bool) {
	file := path.Base(key)
	stamp, _, found := strings.Cut(file, "-")
	if !found {
		return time.Time{}, false
	}

	nanos, err := strconv.ParseInt(stamp, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.Unix(0, nanos), true
}
