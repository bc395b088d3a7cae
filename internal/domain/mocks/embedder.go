package mocks

import "context"

// Embedder is a mock implementation of ports.Embedder.
type Embedder struct {
	Vector []float32
	Err    error

	CallCount int
	LastText  string
}

// Embed records the text and returns Vector.
func (m *Embedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.CallCount++
	m.LastText = text
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Vector, nil
}
