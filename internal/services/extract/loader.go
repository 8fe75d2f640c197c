package extract

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ternarybob/scrutor/internal/models"
)

// LoadFile reads a document from disk, detecting its media type from the
// filename extension. Used by the console entry point; the HTTP entry point
// builds SourceDocuments from multipart uploads instead.
func LoadFile(path string) (*models.SourceDocument, error) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil, fmt.Errorf("%w: %s", models.ErrFileNotFound, path)
	}

	mediaType, err := models.DetectMediaType(path, "")
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", models.ErrFileNotFound, path, err)
	}

	return &models.SourceDocument{
		Name:      filepath.Base(path),
		MediaType: mediaType,
		Data:      data,
	}, nil
}
