package render

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// ErrScreenshot wraps every failure to produce a capture file
var ErrScreenshot = errors.New("screenshot failed")

// maxCaptures bounds the capture_NNN numbering
const maxCaptures = 1000

// Screenshotter writes frames to numbered PNG files in Dir
type Screenshotter struct {
	Dir string

	mu   sync.Mutex
	next int
}

// NewScreenshotter creates a screenshotter writing into dir, "" is the working directory
func NewScreenshotter(dir string) *Screenshotter {
	if dir == "" {
		dir = "."
	}
	return &Screenshotter{Dir: dir}
}

// Capture writes img to the next free capture_NNN.png and returns its path
func (s *Screenshotter) Capture(img image.Image) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.nextPath()
	if err != nil {
		return "", err
	}
	if err := writePNG(path, img); err != nil {
		return "", err
	}
	s.next++
	return path, nil
}

// nextPath skips numbers already taken on disk so earlier runs are never overwritten
func (s *Screenshotter) nextPath() (string, error) {
	for ; s.next < maxCaptures; s.next++ {
		path := filepath.Join(s.Dir, fmt.Sprintf("capture_%03d.png", s.next))
		_, err := os.Stat(path)
		if errors.Is(err, fs.ErrNotExist) {
			return path, nil
		}
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrScreenshot, err)
		}
	}
	return "", fmt.Errorf("%w: all %d capture names in %s are taken", ErrScreenshot, maxCaptures, s.Dir)
}

func writePNG(path string, img image.Image) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrScreenshot, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: close %s: %w", ErrScreenshot, path, cerr)
		}
		// a partial file would hold this number forever
		if err != nil {
			os.Remove(path)
		}
	}()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("%w: encode %s: %w", ErrScreenshot, path, err)
	}
	return nil
}
