package filestorage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/pkg/errors"
	"github.com/yigit/placement/internal/pkg/logger"
)

const (
	defaultStem  = "resume"
	maxStemRunes = 80
	maxExtLen    = 10
)

// LocalStorage handles saving files to the local filesystem.
type LocalStorage struct {
	basePath string
	now      func() time.Time
}

var _ FileStorage = (*LocalStorage)(nil)

// NewLocalStorage creates the base directory if needed.
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, errors.Wrapf(err, "failed to create storage directory %s", basePath)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{basePath: basePath, now: time.Now}, nil
}

// StoredName builds "{ownerID}_{unix}_{slug}{ext}" from an uploaded file name.
// Path components are dropped and the stem is reduced to a URL safe slug.
func StoredName(ownerID int64, original string, at time.Time) string {
	base := filepath.Base(strings.ReplaceAll(original, "\\", "/"))
	ext := strings.ToLower(filepath.Ext(base))
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	if len(ext) > maxExtLen || !isAlnumExt(ext) {
		ext = ""
	}

	s := slug.Make(stem)
	if r := []rune(s); len(r) > maxStemRunes {
		s = strings.Trim(string(r[:maxStemRunes]), "-")
	}
	if s == "" {
		s = defaultStem
	}

	return fmt.Sprintf("%d_%d_%s%s", ownerID, at.Unix(), s, ext)
}

func isAlnumExt(ext string) bool {
	if len(ext) < 2 || ext[0] != '.' {
		return false
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

// SaveUpload copies the upload into the base directory under StoredName.
func (ls *LocalStorage) SaveUpload(ownerID int64, fileHeader *multipart.FileHeader) (string, error) {
	if fileHeader == nil {
		return "", errors.New("no file uploaded")
	}

	src, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return "", errors.Wrap(err, "failed to open uploaded file")
	}
	defer src.Close()

	name := StoredName(ownerID, fileHeader.Filename, ls.now())
	dstPath := filepath.Join(ls.basePath, name)

	dst, err := os.OpenFile(dstPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return "", errors.Wrap(err, "failed to create destination file")
	}

	if _, err = io.Copy(dst, src); err != nil {
		dst.Close()
		_ = os.Remove(dstPath)
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to copy uploaded file content")
		return "", errors.Wrap(err, "failed to save file content")
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(dstPath)
		return "", errors.Wrap(err, "failed to flush file")
	}

	logger.Info().Int64("ownerID", ownerID).Str("saved_as", name).Msg("File saved successfully")
	return dstPath, nil
}

// fullPath maps a stored path back into the base directory, refusing anything
// that would escape it.
func (ls *LocalStorage) fullPath(filePath string) (string, bool) {
	name := filepath.Base(filePath)
	if name == "" || name == "." || name == string(filepath.Separator) || name == ".." {
		return "", false
	}
	return filepath.Join(ls.basePath, name), true
}

// DeleteFile removes a stored file. Deleting a missing file succeeds.
func (ls *LocalStorage) DeleteFile(filePath string) error {
	if filePath == "" {
		return nil
	}

	physicalPath, ok := ls.fullPath(filePath)
	if !ok {
		return errors.Errorf("invalid file path: %s", filePath)
	}

	if err := os.Remove(physicalPath); err != nil {
		if os.IsNotExist(err) {
			logger.Warn().Str("path", physicalPath).Msg("File to delete does not exist")
			return nil
		}
		logger.Error().Err(err).Str("path", physicalPath).Msg("Failed to delete file")
		return errors.Wrap(err, "failed to delete file")
	}

	logger.Info().Str("path", physicalPath).Msg("File deleted successfully")
	return nil
}

// Exists reports whether the stored path resolves to a regular file.
func (ls *LocalStorage) Exists(filePath string) bool {
	if filePath == "" {
		return false
	}
	physicalPath, ok := ls.fullPath(filePath)
	if !ok {
		return false
	}
	info, err := os.Stat(physicalPath)
	return err == nil && info.Mode().IsRegular()
}
