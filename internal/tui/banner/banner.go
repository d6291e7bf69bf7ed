// Package banner renders short words as large block art using half-block
// characters.
package banner

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// DevanagariFonts are the system fonts tried, in order, by New.
var DevanagariFonts = []string{
	// macOS
	"/System/Library/Fonts/Supplemental/DevanagariMT.ttc",
	"/System/Library/Fonts/Kohinoor.ttc",
	"/Library/Fonts/Arial Unicode.ttf",
	// Linux
	"/usr/share/fonts/truetype/noto/NotoSansDevanagari-Regular.ttf",
	"/usr/share/fonts/opentype/noto/NotoSansDevanagari-Regular.ttf",
	"/usr/share/fonts/noto/NotoSansDevanagari-Regular.ttf",
	"/usr/share/fonts/truetype/lohit-devanagari/Lohit-Devanagari.ttf",
	"/usr/share/fonts/truetype/fonts-deva-extra/chandas1-2.ttf",
	// Windows
	"C:\\Windows\\Fonts\\Nirmala.ttf",
	"C:\\Windows\\Fonts\\mangal.ttf",
}

const (
	fontSize  = 64
	padding   = 4
	threshold = 40
)

// Banner renders and caches block art for one font face.
type Banner struct {
	font *opentype.Font
	face font.Face

	mu    sync.Mutex
	buf   sfnt.Buffer
	cache map[cacheKey]string
}

type cacheKey struct {
	text          string
	rows, maxCols int
}

// New loads the first readable font among paths. When none loads it falls
// back to the embedded Go font, which covers Latin transliterations only.
func New(paths []string) (*Banner, error) {
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if b, err := load(data); err == nil {
			return b, nil
		}
	}

	b, err := load(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("loading fallback font: %w", err)
	}
	return b, nil
}

func load(data []byte) (*Banner, error) {
	fnt, err := parseFont(data)
	if err != nil {
		return nil, err
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{Size: fontSize, DPI: 72})
	if err != nil {
		return nil, err
	}
	return &Banner{font: fnt, face: face, cache: make(map[cacheKey]string)}, nil
}

func parseFont(data []byte) (*opentype.Font, error) {
	// Try parsing as font collection first
	if coll, err := opentype.ParseCollection(data); err == nil && coll.NumFonts() > 0 {
		if fnt, err := coll.Font(0); err == nil {
			return fnt, nil
		}
	}
	return opentype.Parse(data)
}

// Supports reports whether the font has a glyph for every rune of text.
func (b *Banner) Supports(text string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.supports(text)
}

func (b *Banner) supports(text string) bool {
	for _, r := range text {
		if r == ' ' {
			continue
		}
		// Index 0 is .notdef.
		if gi, err := b.font.GlyphIndex(&b.buf, r); err != nil || gi == 0 {
			return false
		}
	}
	return text != ""
}

// Render draws text rows terminal cells tall, keeping the aspect ratio but
// never wider than maxCols. It returns "" for unsupported text.
func (b *Banner) Render(text string, rows, maxCols int) string {
	if rows < 1 || maxCols < 1 {
		return ""
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.supports(text) {
		return ""
	}

	key := cacheKey{text, rows, maxCols}
	if cached, ok := b.cache[key]; ok {
		return cached
	}

	rendered := b.render(text, rows, maxCols)
	b.cache[key] = rendered
	return rendered
}

func (b *Banner) render(text string, rows, maxCols int) string {
	bounds, advance := font.BoundString(b.face, text)
	width := max(advance.Ceil(), (bounds.Max.X-bounds.Min.X).Ceil()) + padding*2
	height := (bounds.Max.Y-bounds.Min.Y).Ceil() + padding*2

	src := image.NewGray(image.Rect(0, 0, width, height))
	draw.Draw(src, src.Bounds(), &image.Uniform{color.Black}, image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  src,
		Src:  image.White,
		Face: b.face,
		Dot:  fixed.P(padding-bounds.Min.X.Floor(), padding-bounds.Min.Y.Floor()),
	}
	d.DrawString(text)

	// Half blocks give two pixels per cell vertically and cells are about
	// twice as tall as wide, so pixels come out roughly square.
	px := rows * 2
	cols := min(max(width*px/height, 1), maxCols)

	return halfBlocks(scaleDown(src, cols, px), cols, rows)
}

// scaleDown scales a grayscale image using area averaging.
func scaleDown(src *image.Gray, dstWidth, dstHeight int) *image.Gray {
	sw, sh := src.Bounds().Max.X, src.Bounds().Max.Y
	dst := image.NewGray(image.Rect(0, 0, dstWidth, dstHeight))

	xRatio := float64(sw) / float64(dstWidth)
	yRatio := float64(sh) / float64(dstHeight)

	for dy := range dstHeight {
		for dx := range dstWidth {
			sx1, sy1 := int(float64(dx)*xRatio), int(float64(dy)*yRatio)
			sx2 := min(max(int(float64(dx+1)*xRatio), sx1+1), sw)
			sy2 := min(max(int(float64(dy+1)*yRatio), sy1+1), sh)

			var sum, count int
			for sy := sy1; sy < sy2; sy++ {
				for sx := sx1; sx < sx2; sx++ {
					sum += int(src.GrayAt(sx, sy).Y)
					count++
				}
			}
			if count > 0 {
				dst.SetGray(dx, dy, color.Gray{Y: uint8(sum / count)})
			}
		}
	}

	return dst
}

// halfBlocks converts a grayscale image to half-block art, two pixel rows
// per line.
func halfBlocks(img *image.Gray, cols, rows int) string {
	var out strings.Builder

	for row := range rows {
		for col := range cols {
			top := brightness(img, col, row*2) > threshold
			bottom := brightness(img, col, row*2+1) > threshold

			switch {
			case top && bottom:
				out.WriteRune('█')
			case top:
				out.WriteRune('▀')
			case bottom:
				out.WriteRune('▄')
			default:
				out.WriteRune(' ')
			}
		}
		if row < rows-1 {
			out.WriteRune('\n')
		}
	}

	return out.String()
}

func brightness(img *image.Gray, x, y int) uint8 {
	if !(image.Point{x, y}).In(img.Bounds()) {
		return 0
	}
	return img.GrayAt(x, y).Y
}
