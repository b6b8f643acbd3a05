package frames

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"scroll-stitch/internal/domain/entity"
	"scroll-stitch/internal/domain/port"
	"scroll-stitch/internal/infrastructure/vision"
)

var imageExts = map[string]bool{".png": true, ".jpg": true, ".jpeg": true}

// DirSource отдаёт скриншоты из каталога в лексикографическом порядке имён
type DirSource struct {
	paths []string
	pos   int
	hint  entity.Edge
}

// NewDirSource читает список кадров каталога. Все кадры получают одну подсказку края.
func NewDirSource(dir string, hint entity.Edge) (*DirSource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read frames dir: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !imageExts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)

	return &DirSource{paths: paths, hint: hint}, nil
}

// Len количество кадров в каталоге
func (s *DirSource) Len() int {
	return len(s.paths)
}

// Remaining сколько кадров ещё не выдано
func (s *DirSource) Remaining() int {
	return len(s.paths) - s.pos
}

// Next возвращает следующий кадр; io.EOF когда кадры закончились
func (s *DirSource) Next(ctx context.Context) (image.Image, entity.Edge, error) {
	if err := ctx.Err(); err != nil {
		return nil, s.hint, err
	}
	if s.pos >= len(s.paths) {
		return nil, s.hint, io.EOF
	}

	path := s.paths[s.pos]
	s.pos++

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, s.hint, fmt.Errorf("read frame: %w", err)
	}
	img, err := vision.DecodeImage(data)
	if err != nil {
		return nil, s.hint, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	return img, s.hint, nil
}

var _ port.FrameSource = (*DirSource)(nil)
