package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	imagedraw "image/draw"
	"image/png"
	"strings"

	nchess "github.com/corentings/chess/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// BoardRenderer rasterizes a chess board state, used to attach position
// snapshots to benchmark reports.
type BoardRenderer interface {
	RenderPNG(ctx context.Context, fen string) ([]byte, error)
}

type svgBoardRenderer struct{}

func NewBoardRenderer() BoardRenderer {
	return &svgBoardRenderer{}
}

var (
	lightSquare         = color.RGBA{233, 207, 163, 255}
	darkSquare          = color.RGBA{187, 136, 96, 255}
	marginColor         = color.RGBA{40, 36, 30, 255}
	coordinateTextColor = color.NRGBA{R: 236, G: 239, B: 255, A: 255}
)

func (r *svgBoardRenderer) RenderPNG(ctx context.Context, fen string) ([]byte, error) {
	opt, err := nchess.FEN(strings.TrimSpace(fen))
	if err != nil {
		return nil, fmt.Errorf("parse fen: %w", err)
	}
	board := nchess.NewGame(opt).Position().Board()

	const (
		squareSize   = 64
		boardSquares = 8
		boardSize    = squareSize * boardSquares
		margin       = 24
	)

	totalSize := boardSize + margin*2
	origin := image.Point{X: margin, Y: margin}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	img := image.NewRGBA(image.Rect(0, 0, totalSize, totalSize))
	imagedraw.Draw(img, img.Bounds(), image.NewUniform(marginColor), image.Point{}, imagedraw.Src)

	drawSquares(img, squareSize, origin)
	if err := drawPieces(img, board, squareSize, origin); err != nil {
		return nil, err
	}
	drawCoordinates(img, squareSize, origin, margin)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	boardRanks = []nchess.Rank{nchess.Rank8, nchess.Rank7, nchess.Rank6, nchess.Rank5, nchess.Rank4, nchess.Rank3, nchess.Rank2, nchess.Rank1}
	boardFiles = []nchess.File{nchess.FileA, nchess.FileB, nchess.FileC, nchess.FileD, nchess.FileE, nchess.FileF, nchess.FileG, nchess.FileH}
)

func drawSquares(dst imagedraw.Image, squareSize int, origin image.Point) {
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			x := origin.X + col*squareSize
			y := origin.Y + row*squareSize
			clr := lightSquare
			if (row+col)%2 == 1 {
				clr = darkSquare
			}
			imagedraw.Draw(dst, image.Rect(x, y, x+squareSize, y+squareSize), image.NewUniform(clr), image.Point{}, imagedraw.Src)
		}
	}
}

func drawPieces(dst imagedraw.Image, board *nchess.Board, squareSize int, origin image.Point) error {
	boardMap := board.SquareMap()
	for row, rank := range boardRanks {
		for col, file := range boardFiles {
			piece := boardMap[nchess.NewSquare(file, rank)]
			if piece == nchess.NoPiece {
				continue
			}
			img, err := renderPieceImage(piece, squareSize)
			if err != nil {
				return err
			}
			x := origin.X + col*squareSize
			y := origin.Y + row*squareSize
			imagedraw.Draw(dst, image.Rect(x, y, x+squareSize, y+squareSize), img, image.Point{}, imagedraw.Over)
		}
	}
	return nil
}

func drawCoordinates(img *image.RGBA, squareSize int, origin image.Point, margin int) {
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(coordinateTextColor),
		Face: basicfont.Face7x13,
	}
	for col := 0; col < 8; col++ {
		label := string(rune('a' + col))
		x := origin.X + col*squareSize + squareSize/2 - 3
		y := origin.Y + 8*squareSize + margin/2 + 4
		drawer.Dot = fixed.P(x, y)
		drawer.DrawString(label)
	}
	for row := 0; row < 8; row++ {
		label := string(rune('8' - row))
		x := margin/2 - 3
		y := origin.Y + row*squareSize + squareSize/2 + 4
		drawer.Dot = fixed.P(x, y)
		drawer.DrawString(label)
	}
}
