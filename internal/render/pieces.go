package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"
	"sync"

	nchess "github.com/corentings/chess/v2"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// Piece glyphs are generated as SVG in code and rasterized on demand.
// The shapes are deliberately plain; the renderer exists for report
// snapshots, not for play.
var pieceShapes = map[nchess.PieceType]string{
	nchess.Pawn: `<circle cx="22.5" cy="14" r="6"/>` +
		`<path d="M16 36 L18 23 Q22.5 19 27 23 L29 36 Z"/>` +
		`<rect x="13" y="36" width="19" height="4" rx="1"/>`,
	nchess.Rook: `<path d="M14 13 L14 7 L18 7 L18 10 L21 10 L21 7 L24 7 L24 10 L27 10 L27 7 L31 7 L31 13 Z"/>` +
		`<rect x="16" y="13" width="13" height="21"/>` +
		`<rect x="12" y="34" width="21" height="5" rx="1"/>`,
	nchess.Knight: `<path d="M14 38 Q13 26 19 20 Q24 16 24 10 L28 14 Q33 17 33 27 L33 38 Z"/>` +
		`<rect x="12" y="38" width="23" height="4" rx="1"/>`,
	nchess.Bishop: `<circle cx="22.5" cy="9" r="2.5"/>` +
		`<path d="M22.5 12 Q29 19 29 26 Q29 32 22.5 33 Q16 32 16 26 Q16 19 22.5 12 Z"/>` +
		`<rect x="14" y="35" width="17" height="4" rx="1"/>`,
	nchess.Queen: `<path d="M12 30 L10 13 L17 21 L22.5 9 L28 21 L35 13 L33 30 Z"/>` +
		`<rect x="12" y="32" width="21" height="5" rx="1"/>`,
	nchess.King: `<rect x="21" y="5" width="3" height="10"/>` +
		`<rect x="18" y="8" width="9" height="3"/>` +
		`<path d="M15 36 Q13 24 22.5 17 Q32 24 30 36 Z"/>` +
		`<rect x="13" y="36" width="19" height="4" rx="1"/>`,
}

type pieceCacheKey struct {
	piece nchess.Piece
	size  int
}

var (
	pieceCache   = map[pieceCacheKey]image.Image{}
	pieceCacheMu sync.RWMutex
)

func renderPieceImage(piece nchess.Piece, size int) (image.Image, error) {
	key := pieceCacheKey{piece: piece, size: size}

	pieceCacheMu.RLock()
	if img, ok := pieceCache[key]; ok {
		pieceCacheMu.RUnlock()
		return img, nil
	}
	pieceCacheMu.RUnlock()

	svg, err := pieceSVG(piece)
	if err != nil {
		return nil, err
	}

	icon, err := oksvg.ReadIconStream(strings.NewReader(svg))
	if err != nil {
		return nil, fmt.Errorf("parse piece svg: %w", err)
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Transparent), image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)

	pieceCacheMu.Lock()
	pieceCache[key] = img
	pieceCacheMu.Unlock()

	return img, nil
}

func pieceSVG(piece nchess.Piece) (string, error) {
	shapes, ok := pieceShapes[piece.Type()]
	if !ok {
		return "", fmt.Errorf("no glyph for piece type %v", piece.Type())
	}
	fill, stroke := "#f8f8f4", "#2b2b28"
	if piece.Color() == nchess.Black {
		fill, stroke = "#2f2f2c", "#0c0c0a"
	}
	return fmt.Sprintf(
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 45 45"><g fill="%s" stroke="%s" stroke-width="1.5">%s</g></svg>`,
		fill, stroke, shapes,
	), nil
}
