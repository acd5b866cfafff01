//go:build !linux && !darwin && !freebsd

package arena

// Mapped falls back to a Go-heap reservation where anonymous mappings are
// not available.
type Mapped = Mem

// NewMapped returns a Mem region of limit bytes.
func NewMapped(limit int) (*Mapped, error) {
	return NewMem(limit), nil
}
