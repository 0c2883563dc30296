package libadg

import (
	"io"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/manybody/adg/adg"
	"github.com/pkg/errors"
)

// MatrixDump is the parsed form of a file written by WriteMatrices.
type MatrixDump struct {
	Blocks []*MatrixBlock `EOL* @@*`
}

// MatrixBlock is one "Diagram n: <index>" header and the rows that follow it.
type MatrixBlock struct {
	Pos   lexer.Position
	Index int          `"Diagram" "n" ":" @Int EOL+`
	Rows  []*MatrixRow `@@+`
}

type MatrixRow struct {
	Cells []int `@Int+ EOL*`
}

var sMatrixLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Ident", Pattern: `[A-Za-z]+`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Punct", Pattern: `:`},
	{Name: "EOL", Pattern: `\r?\n`},
	{Name: "whitespace", Pattern: `[ \t]+`},
})

var sMatrixParser = participle.MustBuild[MatrixDump](
	participle.Lexer(sMatrixLexer),
	participle.Elide("whitespace"),
)

// IndexedMatrix is a matrix read back from a dump along with its 1-based diagram index.
type IndexedMatrix struct {
	Index  int
	Matrix Matrix
}

// ParseMatrices reads adjacency matrices in the format written by WriteMatrices.
func ParseMatrices(r io.Reader) ([]IndexedMatrix, error) {
	dump, err := sMatrixParser.Parse("", r)
	if err != nil {
		return nil, errors.Wrap(adg.ErrBadMatrixDump, err.Error())
	}

	mats := make([]IndexedMatrix, 0, len(dump.Blocks))
	for _, block := range dump.Blocks {
		rows := make([][]int, len(block.Rows))
		for i, row := range block.Rows {
			rows[i] = row.Cells
		}
		M, err := MatrixFromRows(rows)
		if err != nil {
			return nil, errors.Wrapf(err, "diagram %d at line %d", block.Index, block.Pos.Line)
		}
		mats = append(mats, IndexedMatrix{
			Index:  block.Index,
			Matrix: M,
		})
	}
	return mats, nil
}
