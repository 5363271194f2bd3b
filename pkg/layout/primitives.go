package layout

// Color is a packed RGBA color in [0,1] per channel, matching the GPU
// pipeline's instance color field (spec §4.5).
type Color struct {
	R, G, B, A float32
}

// LineStyle discriminates solid/dashed/dotted line rendering.
type LineStyle int

const (
	LineSolid LineStyle = iota
	LineDashed
	LineDotted
)

// SolidRect, RoundedRect, Circle, LineSegment, Polyline, TextRun, Border,
// Shadow, and ImagePrimitive mirror the ubershader pipeline's instance
// kinds one-to-one (spec §4.5 "Each instance is 64 bytes"; §4.6
// "Primitives include SolidRect, RoundedRect, Circle, Line, Polyline,
// TextRun, Border, Shadow, Image").
type SolidRect struct {
	Rect     Rect
	Color    Color
	ClipRect *Rect
}

type RoundedRect struct {
	Rect         Rect
	CornerRadius float32
	Color        Color
	ClipRect     *Rect
}

type Circle struct {
	Center   Point
	Radius   float32
	Color    Color
	ClipRect *Rect
}

type LineSegment struct {
	P1, P2    Point
	Thickness float32
	Color     Color
	Style     LineStyle
	ClipRect  *Rect
}

type Polyline struct {
	Points    []Point
	Thickness float32
	Color     Color
	Style     LineStyle
	ClipRect  *Rect
}

type TextRun struct {
	Text     string
	Position Point
	Color    Color
	FontSize float32
	CacheKey *uint64
	ClipRect *Rect
	Bold     bool
	Italic   bool
}

type Border struct {
	Rect         Rect
	CornerRadius float32
	BorderWidth  float32
	Color        Color
	ClipRect     *Rect
}

type Shadow struct {
	Rect         Rect
	CornerRadius float32
	BlurRadius   float32
	Color        Color
	ClipRect     *Rect
}

// ImageHandle identifies an entry in the image atlas.
type ImageHandle uint64

type ImagePrimitive struct {
	Rect         Rect
	Handle       ImageHandle
	CornerRadius float32
	Tint         Color
	ClipRect     *Rect
}

// clipEverything is the sentinel clip rect that still activates the
// shader's per-instance clip check but clips the entire instance, used when
// a clip-stack intersection degenerates to empty (spec §4.6 "An empty or
// degenerate intersection maps to a 'clip everything' sentinel").
var clipEverything = Rect{X: -1, Y: -1, Width: 0, Height: 0}

// PrimitiveBatch is the direct GPU instance path: primitives added here map
// one-to-one onto ubershader instances, bypassing the widget/container
// layer entirely (spec §4.6 "PrimitiveBatch is the direct GPU path").
type PrimitiveBatch struct {
	SolidRects   []SolidRect
	RoundedRects []RoundedRect
	Circles      []Circle
	Lines        []LineSegment
	Polylines    []Polyline
	TextRuns     []TextRun
	Borders      []Border
	Shadows      []Shadow
	Images       []ImagePrimitive

	clipStack []Rect
}

// NewPrimitiveBatch returns an empty batch.
func NewPrimitiveBatch() *PrimitiveBatch {
	return &PrimitiveBatch{}
}

// Clear empties every primitive list and the clip stack, ready for the next
// frame (spec §3 "A layout snapshot lives exactly one frame").
func (b *PrimitiveBatch) Clear() {
	b.SolidRects = b.SolidRects[:0]
	b.RoundedRects = b.RoundedRects[:0]
	b.Circles = b.Circles[:0]
	b.Lines = b.Lines[:0]
	b.Polylines = b.Polylines[:0]
	b.TextRuns = b.TextRuns[:0]
	b.Borders = b.Borders[:0]
	b.Shadows = b.Shadows[:0]
	b.Images = b.Images[:0]
	b.clipStack = b.clipStack[:0]
}

// PushClip pushes a clip rectangle; subsequently added primitives are
// clipped to the intersection of all active clip rects.
func (b *PrimitiveBatch) PushClip(rect Rect) {
	b.clipStack = append(b.clipStack, rect)
}

// PopClip removes the most recently pushed clip rectangle.
func (b *PrimitiveBatch) PopClip() {
	if len(b.clipStack) > 0 {
		b.clipStack = b.clipStack[:len(b.clipStack)-1]
	}
}

// CurrentClip returns the intersection of all active clip-stack entries, or
// nil if no clip is active. A degenerate intersection returns the
// clip-everything sentinel rather than nil (spec §4.6).
func (b *PrimitiveBatch) CurrentClip() *Rect {
	if len(b.clipStack) == 0 {
		return nil
	}
	clip := b.clipStack[0]
	for _, r := range b.clipStack[1:] {
		inter, ok := intersect(clip, r)
		if !ok {
			c := clipEverything
			return &c
		}
		clip = inter
	}
	if clip.Width <= 0 || clip.Height <= 0 {
		c := clipEverything
		return &c
	}
	return &clip
}

func intersect(a, b Rect) (Rect, bool) {
	x0 := maxInt(a.X, b.X)
	y0 := maxInt(a.Y, b.Y)
	x1 := minInt(a.Right(), b.Right())
	y1 := minInt(a.Bottom(), b.Bottom())
	if x1 <= x0 || y1 <= y0 {
		return Rect{}, false
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}, true
}

func (b *PrimitiveBatch) AddSolidRect(rect Rect, color Color) {
	b.SolidRects = append(b.SolidRects, SolidRect{Rect: rect, Color: color, ClipRect: b.CurrentClip()})
}

func (b *PrimitiveBatch) AddRoundedRect(rect Rect, cornerRadius float32, color Color) {
	b.RoundedRects = append(b.RoundedRects, RoundedRect{Rect: rect, CornerRadius: cornerRadius, Color: color, ClipRect: b.CurrentClip()})
}

func (b *PrimitiveBatch) AddCircle(center Point, radius float32, color Color) {
	b.Circles = append(b.Circles, Circle{Center: center, Radius: radius, Color: color, ClipRect: b.CurrentClip()})
}

func (b *PrimitiveBatch) AddLine(p1, p2 Point, thickness float32, color Color, style LineStyle) {
	b.Lines = append(b.Lines, LineSegment{P1: p1, P2: p2, Thickness: thickness, Color: color, Style: style, ClipRect: b.CurrentClip()})
}

func (b *PrimitiveBatch) AddPolyline(points []Point, thickness float32, color Color, style LineStyle) {
	b.Polylines = append(b.Polylines, Polyline{Points: points, Thickness: thickness, Color: color, Style: style, ClipRect: b.CurrentClip()})
}

func (b *PrimitiveBatch) AddTextRun(text string, pos Point, color Color, fontSize float32, cacheKey *uint64, bold, italic bool) {
	b.TextRuns = append(b.TextRuns, TextRun{Text: text, Position: pos, Color: color, FontSize: fontSize, CacheKey: cacheKey, ClipRect: b.CurrentClip(), Bold: bold, Italic: italic})
}

func (b *PrimitiveBatch) AddBorder(rect Rect, cornerRadius, borderWidth float32, color Color) {
	b.Borders = append(b.Borders, Border{Rect: rect, CornerRadius: cornerRadius, BorderWidth: borderWidth, Color: color, ClipRect: b.CurrentClip()})
}

func (b *PrimitiveBatch) AddShadow(rect Rect, cornerRadius, blurRadius float32, color Color) {
	b.Shadows = append(b.Shadows, Shadow{Rect: rect, CornerRadius: cornerRadius, BlurRadius: blurRadius, Color: color, ClipRect: b.CurrentClip()})
}

func (b *PrimitiveBatch) AddImage(rect Rect, handle ImageHandle, cornerRadius float32, tint Color) {
	b.Images = append(b.Images, ImagePrimitive{Rect: rect, Handle: handle, CornerRadius: cornerRadius, Tint: tint, ClipRect: b.CurrentClip()})
}
