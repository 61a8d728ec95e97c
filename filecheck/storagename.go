package filecheck

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/halcyon-labs/reqguard/sanitize"
)

const (
	userPrefixLen   = 8
	randomSuffixLen = 8
	baseNameMax     = 40
)

// StorageName derives a collision-free storage key from the owning user and
// the client-supplied name:
//
//	{shortUserPrefix}_{sanitizedBaseName}_{timestampMillis}_{randomSuffix}{ext}
//
// Uniqueness comes from the timestamp plus random suffix, so the key is safe
// regardless of what the client named the file.
func StorageName(userID, originalName string) string {
	clean := sanitize.FileName(originalName)
	ext := strings.ToLower(path.Ext(clean))
	base := strings.TrimSuffix(clean, ext)
	if base == "" {
		base = "file"
	}
	if len(base) > baseNameMax {
		base = base[:baseNameMax]
	}

	prefix := strings.ToLower(userID)
	if len(prefix) > userPrefixLen {
		prefix = prefix[:userPrefixLen]
	}
	if prefix == "" {
		prefix = "anon"
	}

	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:randomSuffixLen]

	return fmt.Sprintf("%s_%s_%d_%s%s", prefix, base, time.Now().UnixMilli(), suffix, ext)
}
