package domain

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UploadsPath is the URL prefix under which clip audio is served.
const UploadsPath = "/uploads/"

// SafeFilename replaces every byte outside [A-Za-z0-9._-] with '_'.
func SafeFilename(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '.', c == '_', c == '-':
			b.WriteByte(c)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// ClipURL returns the public URL of a stored clip file.
func ClipURL(filename string) string {
	return UploadsPath + filename
}

// BlobFilename names a newly stored audio file: the creation time in unix
// milliseconds, a random UUID and the sanitized base name. Two calls never
// return the same name, even within one millisecond.
func BlobFilename(at time.Time, base string) string {
	return strconv.FormatInt(at.UnixMilli(), 10) + "-" + uuid.NewString() + "-" + SafeFilename(base)
}
