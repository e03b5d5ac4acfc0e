package tui

import (
	"fmt"
	"image"
	"os"

	"github.com/charmbracelet/lipgloss"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// Bound is the box a cover thumbnail must fit inside.
type Bound struct {
	Width  int
	Height int
}

var (
	DetailBound = Bound{Width: 250, Height: 400}
	ListBound   = Bound{Width: 60, Height: 90}
)

type Cover struct {
	Width  int
	Height int
	OK     bool
}

type coverKey struct {
	path  string
	bound Bound
}

// CoverCache memoizes decoded cover dimensions per (path, bound) so a
// repeated request never re-reads the file. Missing or undecodable
// files are cached as a failed decode and render as "no cover".
type CoverCache struct {
	covers map[coverKey]Cover
}

func NewCoverCache() *CoverCache {
	return &CoverCache{covers: map[coverKey]Cover{}}
}

func (c *CoverCache) Get(path string, bound Bound) Cover {
	key := coverKey{path: path, bound: bound}
	if cover, ok := c.covers[key]; ok {
		return cover
	}
	cover := decodeCover(path, bound)
	c.covers[key] = cover
	return cover
}

// Len reports how many (path, bound) entries are cached.
func (c *CoverCache) Len() int {
	return len(c.covers)
}

var coverFrame = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	Padding(0, 1)

// Render returns a framed placeholder for the cover at path, scaled to
// fit bound.
func (c *CoverCache) Render(path string, bound Bound) string {
	cover := c.Get(path, bound)
	if !cover.OK {
		return coverFrame.Render("no cover")
	}
	return coverFrame.Render(fmt.Sprintf("cover %dx%d", cover.Width, cover.Height))
}

// decodeCover reads only the image header; the pixel data is never
// loaded.
func decodeCover(path string, bound Bound) Cover {
	if path == "" {
		return Cover{}
	}

	file, err := os.Open(path)
	if err != nil {
		return Cover{}
	}
	defer func() { _ = file.Close() }()

	cfg, _, err := image.DecodeConfig(file)
	if err != nil || cfg.Width <= 0 || cfg.Height <= 0 {
		return Cover{}
	}

	width, height := scaleToFit(cfg.Width, cfg.Height, bound)
	return Cover{Width: width, Height: height, OK: true}
}

// scaleToFit shrinks (never grows) width x height to fit inside bound,
// preserving aspect ratio.
func scaleToFit(width, height int, bound Bound) (int, int) {
	if width <= bound.Width && height <= bound.Height {
		return width, height
	}

	scale := float64(bound.Width) / float64(width)
	if vertical := float64(bound.Height) / float64(height); vertical < scale {
		scale = vertical
	}

	scaledWidth := int(float64(width) * scale)
	scaledHeight := int(float64(height) * scale)
	if scaledWidth < 1 {
		scaledWidth = 1
	}
	if scaledHeight < 1 {
		scaledHeight = 1
	}
	return scaledWidth, scaledHeight
}
