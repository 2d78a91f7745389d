package cache

func (e *entry) acquire() *Handle {
	e.strong++
	return &Handle{e: e}
}

// Handle is a strong reference to a cached texture. The texture stays in the
// cache at least until the handle is released. Handles must not be copied;
// use Clone. All methods are safe to call on a nil Handle.
type Handle struct {
	e *entry
}

// Name returns the cache key of the texture, or "" once released.
func (h *Handle) Name() string {
	if h == nil || h.e == nil {
		return ""
	}
	return h.e.name
}

// Texture returns the texture, or nil once released.
func (h *Handle) Texture() *Texture {
	if h == nil || h.e == nil {
		return nil
	}
	return h.e.tex
}

// Width returns the logical width in pixels.
func (h *Handle) Width() int {
	if t := h.Texture(); t != nil {
		return t.Width
	}
	return 0
}

// Height returns the height in pixels.
func (h *Handle) Height() int {
	if t := h.Texture(); t != nil {
		return t.Height
	}
	return 0
}

// Pitch returns the padded row length in pixels.
func (h *Handle) Pitch() int {
	if t := h.Texture(); t != nil {
		return t.Pitch
	}
	return 0
}

// Bytes returns the swizzled texture data for upload. The slice must not be
// modified.
func (h *Handle) Bytes() []byte {
	if t := h.Texture(); t != nil {
		return t.Data
	}
	return nil
}

// Clone returns another strong handle to the same texture, or nil once
// released.
func (h *Handle) Clone() *Handle {
	if h == nil || h.e == nil {
		return nil
	}
	return h.e.acquire()
}

// Downgrade returns a weak observer of the texture, or nil once released.
func (h *Handle) Downgrade() *Weak {
	if h == nil || h.e == nil {
		return nil
	}
	h.e.weak++
	return &Weak{e: h.e}
}

// Release drops the handle's strong reference. Releasing twice is a no-op.
func (h *Handle) Release() {
	if h == nil || h.e == nil {
		return
	}
	h.e.strong--
	h.e = nil
}

// Weak observes a cached texture without holding a strong reference. It must
// be upgraded before the texture can be used.
type Weak struct {
	e *entry
}

// Upgrade returns a strong handle if the texture is still cached. It fails
// after the entry has been swept or the observer released, in which case the
// caller should draw untextured.
func (w *Weak) Upgrade() (*Handle, bool) {
	if w == nil || w.e == nil || !w.e.live {
		return nil, false
	}
	return w.e.acquire(), true
}

// Clone returns another weak observer of the same entry, or nil once
// released.
func (w *Weak) Clone() *Weak {
	if w == nil || w.e == nil {
		return nil
	}
	w.e.weak++
	return &Weak{e: w.e}
}

// Release drops the observer. Releasing twice is a no-op.
func (w *Weak) Release() {
	if w == nil || w.e == nil {
		return
	}
	w.e.weak--
	w.e = nil
}
