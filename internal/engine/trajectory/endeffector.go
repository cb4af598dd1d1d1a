package trajectory

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/Faultbox/urdf-viewer/internal/config"
)

var (
	ErrEmptyLink     = errors.New("end effector link is empty")
	ErrDuplicateLink = errors.New("end effector link already tracked")
)

// EndEffector is one tracked link.
type EndEffector struct {
	Link    string
	Name    string // Display name, defaults to Link
	Color   color.RGBA
	Enabled bool
}

// EndEffectors is an ordered list of tracked links with unique names.
type EndEffectors struct {
	rows []EndEffector
}

// Add appends a row. An empty name uses the link name; an empty or invalid
// color picks the next palette entry.
func (s *EndEffectors) Add(link, name, colorHex string, enabled bool) error {
	if link == "" {
		return ErrEmptyLink
	}
	if s.Contains(link) {
		return fmt.Errorf("%w: %s", ErrDuplicateLink, link)
	}
	if name == "" {
		name = link
	}
	s.rows = append(s.rows, EndEffector{
		Link:    link,
		Name:    name,
		Color:   PickColor(len(s.rows), colorHex),
		Enabled: enabled,
	})
	return nil
}

// Update replaces the row at index. The link may change if it stays unique.
func (s *EndEffectors) Update(index int, link, name, colorHex string, enabled bool) error {
	if index < 0 || index >= len(s.rows) {
		return fmt.Errorf("end effector index %d out of range", index)
	}
	if link == "" {
		return ErrEmptyLink
	}
	for i, r := range s.rows {
		if i != index && r.Link == link {
			return fmt.Errorf("%w: %s", ErrDuplicateLink, link)
		}
	}
	if name == "" {
		name = link
	}
	s.rows[index] = EndEffector{
		Link:    link,
		Name:    name,
		Color:   PickColor(index, colorHex),
		Enabled: enabled,
	}
	return nil
}

// Remove deletes the row at index.
func (s *EndEffectors) Remove(index int) {
	if index < 0 || index >= len(s.rows) {
		return
	}
	s.rows = append(s.rows[:index], s.rows[index+1:]...)
}

// Contains reports whether link is already listed.
func (s *EndEffectors) Contains(link string) bool {
	for _, r := range s.rows {
		if r.Link == link {
			return true
		}
	}
	return false
}

// Rows returns a copy of the rows.
func (s *EndEffectors) Rows() []EndEffector {
	return append([]EndEffector(nil), s.rows...)
}

// Len returns the number of rows.
func (s *EndEffectors) Len() int { return len(s.rows) }

// EndEffectorsFromConfig builds rows from configuration, returning the first
// invalid entry as an error.
func EndEffectorsFromConfig(cfgs []config.EndEffectorConfig) (*EndEffectors, error) {
	s := &EndEffectors{}
	for i, c := range cfgs {
		if err := s.Add(c.Link, c.Name, c.Color, c.Enabled); err != nil {
			return nil, fmt.Errorf("end effector %d: %w", i, err)
		}
	}
	return s, nil
}

// Config converts rows back to their configuration form.
func (s *EndEffectors) Config() []config.EndEffectorConfig {
	out := make([]config.EndEffectorConfig, len(s.rows))
	for i, r := range s.rows {
		out[i] = config.EndEffectorConfig{Link: r.Link, Name: r.Name, Color: Hex(r.Color), Enabled: r.Enabled}
	}
	return out
}
