package store

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"tunefolder/internal/folder"
)

// Build is one persisted assembly of a folder. Digest covers the assembled
// folder JSON so unchanged rebuilds can be detected across source formats.
type Build struct {
	ID         string        `json:"id"`
	FolderName string        `json:"folderName"`
	SourcePath string        `json:"sourcePath"`
	Format     string        `json:"format"`
	Digest     string        `json:"digest"`
	Folder     folder.Folder `json:"folder"`
	BuiltAt    time.Time     `json:"builtAt"`
}

// Summary describes a build without its folder payload.
type Summary struct {
	ID         string    `json:"id"`
	FolderName string    `json:"folderName"`
	SourcePath string    `json:"sourcePath"`
	Format     string    `json:"format"`
	Digest     string    `json:"digest"`
	Sections   int       `json:"sections"`
	Sets       int       `json:"sets"`
	Tunes      int       `json:"tunes"`
	BuiltAt    time.Time `json:"builtAt"`
}

// Digest returns the hex SHA-256 of content.
func Digest(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
