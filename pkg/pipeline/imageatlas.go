package pipeline

import (
	"bytes"
	"fmt"
	"image"
	"sync"

	nximage "github.com/Deep-ai-inc/nexus-sub000/pkg/image"
	"github.com/Deep-ai-inc/nexus-sub000/pkg/value"
	"github.com/disintegration/imaging"
)

// approxCellPixels is the assumed pixel footprint of one terminal cell,
// used only to give imaging.Fit a target box before handing off to the
// protocol-specific renderer (which re-derives the precise box from actual
// terminal cell-pixel metrics).
const approxCellPixelsW, approxCellPixelsH = 8, 16

// ImageAtlas is the cell-rasterizer's stand-in for the GPU image atlas: a
// shelf-packed RGBA texture in the original design (spec §4.5 "Image
// atlas: shelf-packed RGBA texture, growable"). Here, entries are handles
// into the teacher's terminal-image renderer/cache rather than texture
// rects, since the final "upload" is a protocol escape sequence (Kitty,
// Sixel, iTerm2, or half-block fallback) rather than a GPU texture region.
// Pending loads/unloads still drain once per frame (spec §4.5 "deferred
// upload queue ... drained once per frame").
type ImageAtlas struct {
	renderer *nximage.Renderer

	mu       sync.Mutex
	next     ImageHandle
	entries  map[ImageHandle]*imageEntry
	pending  []pendingLoad
	unloads  []ImageHandle
}

// ImageHandle identifies one atlas-managed image load. pkg/layout has its
// own ImageHandle for primitive batches; the two are distinct types and
// nothing converts between them.
type ImageHandle uint64

type imageEntry struct {
	handle   ImageHandle
	rendered string // terminal escape sequence ready to emit
	cols     int
	rows     int
	loaded   bool
}

type pendingLoad struct {
	handle ImageHandle
	media  *value.Media
	cols   int
	rows   int
}

// NewImageAtlas wraps renderer for atlas-managed image loads.
func NewImageAtlas(renderer *nximage.Renderer) *ImageAtlas {
	return &ImageAtlas{
		renderer: renderer,
		entries:  make(map[ImageHandle]*imageEntry),
	}
}

// Load queues media for decoding at the given cell size and returns a
// handle immediately; the actual image render happens in Drain. Returns the
// zero handle and an error if media's content type cannot be decoded at
// all (format sniffing failure), since that can be reported synchronously.
func (a *ImageAtlas) Load(media *value.Media, cols, rows int) (ImageHandle, error) {
	if media == nil {
		return 0, fmt.Errorf("pipeline: nil media")
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(media.Data)); err != nil {
		return 0, fmt.Errorf("pipeline: decode media config: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.next++
	h := a.next
	a.entries[h] = &imageEntry{handle: h, cols: cols, rows: rows}
	a.pending = append(a.pending, pendingLoad{handle: h, media: media, cols: cols, rows: rows})
	return h, nil
}

// Unload marks handle for removal; actual deletion happens in Drain.
func (a *ImageAtlas) Unload(handle ImageHandle) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.unloads = append(a.unloads, handle)
}

// Rendered returns the ready-to-emit escape sequence for handle, if loaded.
func (a *ImageAtlas) Rendered(handle ImageHandle) (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	e, ok := a.entries[handle]
	if !ok || !e.loaded {
		return "", false
	}
	return e.rendered, true
}

// Drain processes every pending load and unload exactly once, called once
// per frame from the pipeline's Prepare pass (spec §4.5 "pending
// loads/unloads drained once per frame"). Decode errors are swallowed per
// entry — a failed image simply never becomes "loaded" and the caller
// renders nothing for its handle, matching the teacher's tolerant-failure
// image handling in pkg/image/renderer.go.
func (a *ImageAtlas) Drain() {
	a.mu.Lock()
	loads := a.pending
	a.pending = nil
	unloads := a.unloads
	a.unloads = nil
	a.mu.Unlock()

	for _, u := range unloads {
		a.mu.Lock()
		delete(a.entries, u)
		a.mu.Unlock()
	}

	for _, p := range loads {
		img, _, err := image.Decode(bytes.NewReader(p.media.Data))
		if err != nil {
			continue
		}
		targetW := p.cols * approxCellPixelsW
		targetH := p.rows * approxCellPixelsH
		if targetW > 0 && targetH > 0 {
			img = imaging.Fit(img, targetW, targetH, imaging.Lanczos)
		}
		rendered, err := a.renderer.Render(img, p.cols, p.rows)
		if err != nil {
			continue
		}
		a.mu.Lock()
		if e, ok := a.entries[p.handle]; ok {
			e.rendered = rendered
			e.loaded = true
		}
		a.mu.Unlock()
	}
}

// Len reports the number of live (loaded or pending) entries.
func (a *ImageAtlas) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.entries)
}
