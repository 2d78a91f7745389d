package psptex

import "github.com/bodgit/psptex/cache"

// Material binds a texture to scene objects through a weak handle, so it
// never keeps the texture loaded by itself. Materials are cheap to clone;
// every clone shares the observed texture.
type Material struct {
	texture *cache.Weak
}

// NewMaterial returns a Material observing the texture of h. A nil h gives
// an untextured Material.
func NewMaterial(h *cache.Handle) *Material {
	if h == nil {
		return &Material{}
	}
	return &Material{texture: h.Downgrade()}
}

// Texture returns a strong handle to the bound texture for the duration of a
// draw. It returns false if the Material is untextured or its texture has
// been evicted, in which case the object should be drawn untextured. The
// handle must be released once the frame's draw list has been submitted.
func (m *Material) Texture() (*cache.Handle, bool) {
	return m.texture.Upgrade()
}

// Clone returns a Material observing the same texture.
func (m *Material) Clone() *Material {
	return &Material{texture: m.texture.Clone()}
}

// Release drops the Material's weak handle.
func (m *Material) Release() {
	m.texture.Release()
	m.texture = nil
}
