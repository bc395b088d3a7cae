package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/okriashvili/draftdeck/internal/domain/ports"
)

// TextGenerator is a mock implementation of ports.TextGenerator.
// FailFirst makes the first N calls fail with Err before succeeding.
type TextGenerator struct {
	PostText    string
	ImprovedFmt string // format with one %s verb for the instruction; optional
	Err         error
	FailFirst   int

	mu           sync.Mutex
	PostCalls    int
	ImproveCalls int
}

// GeneratePost returns PostText.
func (m *TextGenerator) GeneratePost(_ context.Context, _ string, _ ports.PostOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.PostCalls++
	if m.Err != nil && (m.FailFirst == 0 || m.PostCalls <= m.FailFirst) {
		return "", m.Err
	}
	return m.PostText, nil
}

// ImproveText returns ImprovedFmt formatted with the instruction, or the
// PostText when no format is set.
func (m *TextGenerator) ImproveText(_ context.Context, _ string, instruction string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ImproveCalls++
	if m.Err != nil && (m.FailFirst == 0 || m.ImproveCalls <= m.FailFirst) {
		return "", m.Err
	}
	if m.ImprovedFmt != "" {
		return fmt.Sprintf(m.ImprovedFmt, instruction), nil
	}
	return m.PostText, nil
}

// Calls returns the total number of generation calls.
func (m *TextGenerator) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.PostCalls + m.ImproveCalls
}

// ImageGenerator is a mock implementation of ports.ImageGenerator.
type ImageGenerator struct {
	ImageRef  string
	Err       error
	FailFirst int

	mu        sync.Mutex
	CallCount int
}

// GenerateImage returns ImageRef.
func (m *ImageGenerator) GenerateImage(_ context.Context, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CallCount++
	if m.Err != nil && (m.FailFirst == 0 || m.CallCount <= m.FailFirst) {
		return "", m.Err
	}
	return m.ImageRef, nil
}

// Calls returns the number of generation calls.
func (m *ImageGenerator) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CallCount
}
