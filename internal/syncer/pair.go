package syncer

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/starford/mindsync/internal/apperr"
	"github.com/starford/mindsync/internal/models"
	"github.com/starford/mindsync/internal/storage"
)

// PairName derives a pair's logical name from its text path: the base name
// up to its first dot.
func PairName(textPath string) string {
	name, _, _ := strings.Cut(filepath.Base(textPath), ".")
	return name
}

// NewPair pairs textPath with <graphFolder>/<name>.<graphExt>.
func NewPair(textPath, graphFolder, graphExt string) (models.Pair, error) {
	name := PairName(textPath)
	if name == "" {
		return models.Pair{}, fmt.Errorf("syncer: %q has no base name: %w", textPath, apperr.ErrInvalidPair)
	}
	ext := strings.TrimPrefix(graphExt, ".")
	return models.Pair{
		Name:      name,
		TextPath:  textPath,
		GraphPath: filepath.Join(graphFolder, name+"."+ext),
	}, nil
}

// LoadPairs reads the tracked-files list (one text path per line) and
// returns the pairs in list order. Blank lines are ignored.
func LoadPairs(store storage.Provider, listPath, graphFolder, graphExt string) ([]models.Pair, error) {
	data, err := store.Read(listPath)
	if err != nil {
		return nil, fmt.Errorf("syncer: read tracked list: %w", err)
	}
	var pairs []models.Pair
	for _, line := range strings.Split(string(data), "\n") {
		entry := strings.TrimSpace(line)
		if entry == "" {
			continue
		}
		p, err := NewPair(entry, graphFolder, graphExt)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, p)
	}
	return pairs, nil
}
