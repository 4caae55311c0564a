package domain

// Style is the fill pattern of the symbols printed on a card.
type Style string

const (
	StyleSolid   Style = "solid"
	StyleStriped Style = "striped"
	StyleOutline Style = "outline"
)

// Shape is the symbol printed on a card.
type Shape string

const (
	ShapeDiamond  Shape = "diamond"
	ShapeOval     Shape = "oval"
	ShapeSquiggle Shape = "squiggle"
)

// Color is the ink color of the symbols on a card.
type Color string

const (
	ColorGreen  Color = "green"
	ColorPurple Color = "purple"
	ColorRed    Color = "red"
)

// Count is how many symbols a card shows (1..3).
type Count int

// Attribute domains. Generation samples every dimension from its own list.
var (
	Styles = []Style{StyleSolid, StyleStriped, StyleOutline}
	Shapes = []Shape{ShapeDiamond, ShapeOval, ShapeSquiggle}
	Colors = []Color{ColorGreen, ColorPurple, ColorRed}
	Counts = []Count{1, 2, 3}
)

func validStyle(s Style) bool {
	for _, v := range Styles {
		if v == s {
			return true
		}
	}
	return false
}

func validShape(s Shape) bool {
	for _, v := range Shapes {
		if v == s {
			return true
		}
	}
	return false
}

func validColor(c Color) bool {
	for _, v := range Colors {
		if v == c {
			return true
		}
	}
	return false
}

func validCount(n Count) bool {
	for _, v := range Counts {
		if v == n {
			return true
		}
	}
	return false
}
