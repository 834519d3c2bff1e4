package arena2d

// UnitKind discriminates the three forms a layout unit can take.
type UnitKind uint8

const (
	UnitAuto UnitKind = iota
	UnitPixels
	UnitPercent
)

// Unit is a layout dimension: a finite pixel number, the auto token, or a
// percentage resolved against the containing block's content-axis size.
type Unit struct {
	Kind  UnitKind
	Value float64 // pixels for UnitPixels, 0-100 for UnitPercent
}

// Auto is the zero-value "defer to content" unit.
var Auto = Unit{Kind: UnitAuto}

// Px returns a fixed pixel unit.
func Px(v float64) Unit { return Unit{Kind: UnitPixels, Value: v} }

// Pct returns a percentage unit (resolved against the container's content
// size for the matching axis).
func Pct(v float64) Unit { return Unit{Kind: UnitPercent, Value: v} }

// Resolve converts u to pixels given the containing block's size along the
// relevant axis. ok is false for UnitAuto, since callers must fall back to
// intrinsic content sizing in that case.
func (u Unit) Resolve(containingSize float64) (px float64, ok bool) {
	switch u.Kind {
	case UnitPixels:
		return u.Value, true
	case UnitPercent:
		return containingSize * u.Value / 100, true
	default:
		return 0, false
	}
}

// LayoutMode selects how a node's parent positions it.
type LayoutMode uint8

const (
	LayoutManual LayoutMode = iota
	LayoutFlex
	LayoutAnchor
)

// FlexDirection is the main axis of a flex container.
type FlexDirection uint8

const (
	FlexRow FlexDirection = iota
	FlexColumn
)

// Justify distributes free space along the main axis.
type Justify uint8

const (
	JustifyStart Justify = iota
	JustifyCenter
	JustifyEnd
	JustifySpaceBetween
	JustifySpaceAround
)

// Align distributes a child along the cross axis.
type Align uint8

const (
	AlignStart Align = iota
	AlignCenter
	AlignEnd
	AlignStretch
)

// FlexWrap controls whether a flex line overflows or wraps.
type FlexWrap uint8

const (
	FlexNoWrap FlexWrap = iota
	FlexWrapOn
)

// Edges holds four numeric insets in top/right/bottom/left order, matching
// the CSS box-model convention.
type Edges struct {
	Top, Right, Bottom, Left float64
}

// Style carries the subset of a node's appearance that the layout resolver
// (component F) consumes. It is a plain value — mutating any field does not
// itself mark anything dirty; callers use MarkStyleDirty after bulk edits.
type Style struct {
	Display LayoutMode

	FlexDirection  FlexDirection
	JustifyContent Justify
	AlignItems     Align
	FlexWrap       FlexWrap
	Gap            float64

	FlexGrow   float64
	FlexShrink float64
	FlexBasis  Unit
	AlignSelf  *Align // nil means "use the container's AlignItems"

	Width, Height                     Unit
	MinWidth, MaxWidth                *Unit
	MinHeight, MaxHeight              *Unit

	Padding Edges
	Margin  Edges

	// Top, Left, Right, Bottom are anchor-mode edge constraints. A nil
	// pointer means that edge is unanchored.
	Top, Left, Right, Bottom *Unit

	// OverflowClip is a plain flag: neither the layout resolver nor the
	// paint walker reads it, so setting it does not clip anything. Paint
	// clipping comes only from Node.ClipContent.
	OverflowClip bool
}

// defaultStyle returns the zero-valued style with its documented defaults:
// manual display, shrink factor 1, width/height/basis auto.
func defaultStyle() Style {
	return Style{
		Display:    LayoutManual,
		FlexShrink: 1,
		FlexBasis:  Auto,
		Width:      Auto,
		Height:     Auto,
	}
}
