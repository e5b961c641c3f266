package storage

import (
	"fmt"
	"strings"
	"time"
)

const unknownOwner = "unknown"

// SanitizeFilename replaces spaces with underscores and strips every
// character outside [A-Za-z0-9._-].
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, " ", "_")
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '_' || r == '-':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// DocumentKey builds the storage key for a primary document file:
// {userID|"unknown"}/{epochMillis}-{sanitizedName}. The millisecond prefix is
// the only collision avoidance; identical names uploaded by the same user in
// the same millisecond would collide.
func DocumentKey(userID, filename string, now time.Time) string {
	return fmt.Sprintf("%s/%d-%s", owner(userID), now.UnixMilli(), SanitizeFilename(filename))
}

// CoverKey builds the storage key for a cover image:
// {userID|"unknown"}/covers/{epochMillis}-{sanitizedName}.
func CoverKey(userID, filename string, now time.Time) string {
	return fmt.Sprintf("%s/covers/%d-%s", owner(userID), now.UnixMilli(), SanitizeFilename(filename))
}

// Extension returns the lowercased substring after the last dot of the key,
// or "" when the key has no extension.
func Extension(key string) string {
	idx := strings.LastIndexByte(key, '.')
	if idx < 0 || idx == len(key)-1 {
		return ""
	}
	return strings.ToLower(key[idx+1:])
}

func owner(userID string) string {
	if strings.TrimSpace(userID) == "" {
		return unknownOwner
	}
	return userID
}
