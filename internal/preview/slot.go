package preview

import "github.com/Shruti1238/sentiment-frontend/internal/ports"

// Slot enforces the one-outstanding-handle discipline for a logical input
// position (the pending upload, or the current recorded clip): swapping in a
// new preview releases the previous one first.
type Slot struct {
	previews ports.Previewer
	url      string
}

// NewSlot creates an empty slot backed by previews.
func NewSlot(previews ports.Previewer) *Slot {
	return &Slot{previews: previews}
}

// Swap releases the slot's current handle, allocates a new one for data, and
// returns the new URL.
func (s *Slot) Swap(name string, data []byte) (string, error) {
	url, err := s.previews.Allocate(name, data)
	if err != nil {
		return "", err
	}
	if s.url != "" {
		s.previews.Release(s.url)
	}
	s.url = url
	return url, nil
}

// URL returns the currently held handle, or "" when the slot is empty.
func (s *Slot) URL() string {
	return s.url
}

// Clear releases the held handle, if any.
func (s *Slot) Clear() {
	if s.url == "" {
		return
	}
	s.previews.Release(s.url)
	s.url = ""
}
