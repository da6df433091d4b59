package models

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ImagePath builds the storage path of an uploaded image: the upload date
// followed by a random name that keeps the original extension.
func ImagePath(filename string, now time.Time) string {
	name := strings.ReplaceAll(uuid.NewString(), "-", "")
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "." {
		ext = ""
	}
	return fmt.Sprintf("%d/%d/%d/%s%s", now.Year(), int(now.Month()), now.Day(), name, ext)
}
