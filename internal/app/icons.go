package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/wanhsuan/healthstash/internal/constants"
	"github.com/wanhsuan/healthstash/internal/models"
)

// ImportIcon copies an image file into the app-private icon directory next
// to the database and returns an external icon referencing the copy. The
// copied file gets a random name so user file names never collide.
func ImportIcon(configPath, srcPath string) (models.Icon, error) {
	src, err := os.Open(srcPath)
	if err != nil {
		return models.Icon{}, fmt.Errorf("failed to open image: %w", err)
	}
	defer src.Close()

	iconDir := filepath.Join(filepath.Dir(configPath), constants.ImageDirName)
	if err := os.MkdirAll(iconDir, 0o700); err != nil {
		return models.Icon{}, fmt.Errorf("failed to create icon directory: %w", err)
	}

	name := uuid.NewString() + filepath.Ext(srcPath)
	dstPath := filepath.Join(iconDir, name)
	dst, err := os.Create(dstPath)
	if err != nil {
		return models.Icon{}, fmt.Errorf("failed to create icon file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dstPath)
		return models.Icon{}, fmt.Errorf("failed to copy image: %w", err)
	}
	return models.ExternalIcon(dstPath), nil
}

// RemoveIcon deletes a previously imported icon file. Bundled and absent
// icons are left alone.
func RemoveIcon(icon models.Icon) {
	if icon.Kind != models.IconKindExternal || icon.Ref == "" {
		return
	}
	os.Remove(icon.Ref)
}
