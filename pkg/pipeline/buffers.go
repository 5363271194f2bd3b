package pipeline

// slotCount is the number of cycled buffer slots: three, so CPU writes to
// the next frame's slot can proceed while a prior frame's slot is still
// being consumed (spec §4.5 "Triple-buffered instance + uniform buffers:
// three slots cycled by frame_index % 3").
const slotCount = 3

// Uniforms carries the per-frame globals that would otherwise live in a
// GPU uniform buffer: viewport size and frame counter.
type Uniforms struct {
	ViewportW, ViewportH int
	FrameIndex           uint64
}

// slot holds one triple-buffer generation's worth of gathered instances by
// layer, plus its uniforms.
type slot struct {
	layers   [4][]Instance
	uniforms Uniforms
}

func newSlot() *slot {
	return &slot{}
}

func (s *slot) reset() {
	for i := range s.layers {
		s.layers[i] = s.layers[i][:0]
	}
}

// Buffers is the triple-buffered instance/uniform store. Prepare writes
// into frameIndex%3's slot; Render reads back the same slot. Because Prepare
// and Render are always called in lockstep for a given frame in this
// single-threaded cell rasterizer (spec §3.4 "glyph atlas, image atlas, and
// shape cache are single-threaded (UI thread only)"), no locking is needed
// — the rotation exists to preserve the original design's shape, and so a
// future concurrent renderer can read a settled slot while the next frame
// is gathered.
type Buffers struct {
	slots      [slotCount]*slot
	frameIndex uint64
}

// NewBuffers returns a Buffers with all three slots allocated.
func NewBuffers() *Buffers {
	b := &Buffers{}
	for i := range b.slots {
		b.slots[i] = newSlot()
	}
	return b
}

// CurrentSlot returns the slot for the current frame index.
func (b *Buffers) CurrentSlot() *slot {
	return b.slots[b.frameIndex%slotCount]
}

// Advance bumps the frame index and resets the new current slot for
// writing, returning it.
func (b *Buffers) Advance() *slot {
	b.frameIndex++
	s := b.CurrentSlot()
	s.reset()
	return s
}

// FrameIndex returns the current frame counter.
func (b *Buffers) FrameIndex() uint64 { return b.frameIndex }

// Push appends inst to layer in the current slot.
func (s *slot) push(layer Layer, inst Instance) {
	inst.DrawIndex = len(s.layers[layer])
	s.layers[layer] = append(s.layers[layer], inst)
}

// Instances returns a layer's gathered instances in draw order.
func (s *slot) Instances(layer Layer) []Instance {
	return s.layers[layer]
}
