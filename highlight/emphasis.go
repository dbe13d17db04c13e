package highlight

import "github.com/hupe1980/vizsync/model"

// Level is the visual emphasis of a row.
type Level int

const (
	// LevelNormal means nothing is dimmed.
	LevelNormal Level = iota
	// LevelEmphasized marks a highlighted or selected row.
	LevelEmphasized
	// LevelDimmed marks a row outside the active highlight or selection.
	LevelDimmed
)

func (l Level) String() string {
	switch l {
	case LevelEmphasized:
		return "emphasized"
	case LevelDimmed:
		return "dimmed"
	default:
		return "normal"
	}
}

// Membership is the read side of a selection.
type Membership interface {
	Contains(model.Key) bool
	Empty() bool
}

// Emphasis resolves the emphasis of row. A non-empty highlight wins;
// otherwise a non-empty selection decides; otherwise nothing is dimmed.
func Emphasis(h State, sel Membership, row model.Row) Level {
	if !h.Empty() {
		if h.Matches(row) {
			return LevelEmphasized
		}
		return LevelDimmed
	}
	if sel != nil && !sel.Empty() {
		if sel.Contains(row.Key) {
			return LevelEmphasized
		}
		return LevelDimmed
	}
	return LevelNormal
}
