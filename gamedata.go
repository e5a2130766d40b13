package coge

import (
	"encoding/json"
	"fmt"
)

// GameData is a named bag of typed variables. Int, float and string arrays
// are 1-indexed and sized independently; the byte buffer has a fixed
// capacity and a separate used length.
type GameData struct {
	Name string

	ints    []int
	floats  []float64
	strs    []string
	buf     []byte
	bufUsed int
}

// NewGameData creates a block with the given array counts and buffer size.
func NewGameData(name string, ints, floats, strs, bufSize int) *GameData {
	d := &GameData{Name: name}
	d.SetIntCount(ints)
	d.SetFloatCount(floats)
	d.SetStringCount(strs)
	if bufSize > 0 {
		d.buf = make([]byte, bufSize)
	}
	return d
}

// SetIntCount resizes the int array, keeping existing values.
func (d *GameData) SetIntCount(n int) { d.ints = resize(d.ints, n) }

// SetFloatCount resizes the float array, keeping existing values.
func (d *GameData) SetFloatCount(n int) { d.floats = resize(d.floats, n) }

// SetStringCount resizes the string array, keeping existing values.
func (d *GameData) SetStringCount(n int) { d.strs = resize(d.strs, n) }

// IntCount returns the number of int slots.
func (d *GameData) IntCount() int { return len(d.ints) }

// FloatCount returns the number of float slots.
func (d *GameData) FloatCount() int { return len(d.floats) }

// StringCount returns the number of string slots.
func (d *GameData) StringCount() int { return len(d.strs) }

// Int returns slot i (1-based), or 0 when i is out of range.
func (d *GameData) Int(i int) int {
	if i < 1 || i > len(d.ints) {
		return 0
	}
	return d.ints[i-1]
}

// SetInt stores v in slot i (1-based).
func (d *GameData) SetInt(i, v int) bool {
	if i < 1 || i > len(d.ints) {
		logger.Warn("int index out of range", "data", d.Name, "index", i, "count", len(d.ints))
		return false
	}
	d.ints[i-1] = v
	return true
}

// Float returns slot i (1-based), or 0 when i is out of range.
func (d *GameData) Float(i int) float64 {
	if i < 1 || i > len(d.floats) {
		return 0
	}
	return d.floats[i-1]
}

// SetFloat stores v in slot i (1-based).
func (d *GameData) SetFloat(i int, v float64) bool {
	if i < 1 || i > len(d.floats) {
		logger.Warn("float index out of range", "data", d.Name, "index", i, "count", len(d.floats))
		return false
	}
	d.floats[i-1] = v
	return true
}

// String returns slot i (1-based), or "" when i is out of range.
func (d *GameData) String(i int) string {
	if i < 1 || i > len(d.strs) {
		return ""
	}
	return d.strs[i-1]
}

// SetString stores v in slot i (1-based).
func (d *GameData) SetString(i int, v string) bool {
	if i < 1 || i > len(d.strs) {
		logger.Warn("string index out of range", "data", d.Name, "index", i, "count", len(d.strs))
		return false
	}
	d.strs[i-1] = v
	return true
}

// BufferSize returns the buffer capacity in bytes.
func (d *GameData) BufferSize() int { return len(d.buf) }

// Buffer returns the used part of the byte buffer.
func (d *GameData) Buffer() []byte { return d.buf[:d.bufUsed] }

// WriteBuffer copies p into the buffer, replacing its contents. It fails when
// p does not fit.
func (d *GameData) WriteBuffer(p []byte) bool {
	if len(p) > len(d.buf) {
		logger.Warn("buffer overflow", "data", d.Name, "size", len(p), "capacity", len(d.buf))
		return false
	}
	d.bufUsed = copy(d.buf, p)
	return true
}

// Clear zeroes every slot and empties the buffer without changing counts.
func (d *GameData) Clear() {
	clear(d.ints)
	clear(d.floats)
	clear(d.strs)
	clear(d.buf)
	d.bufUsed = 0
}

// gameDataRecord is the persisted form of a GameData block.
type gameDataRecord struct {
	Ints    []int     `json:"ints"`
	Floats  []float64 `json:"floats"`
	Strings []string  `json:"strings"`
	BufSize int       `json:"bufSize"`
	Buffer  []byte    `json:"buffer,omitempty"`
}

// MarshalJSON encodes counts and values.
func (d *GameData) MarshalJSON() ([]byte, error) {
	return json.Marshal(gameDataRecord{
		Ints:    d.ints,
		Floats:  d.floats,
		Strings: d.strs,
		BufSize: len(d.buf),
		Buffer:  d.Buffer(),
	})
}

// UnmarshalJSON replaces counts and values with the encoded ones.
func (d *GameData) UnmarshalJSON(p []byte) error {
	var rec gameDataRecord
	if err := json.Unmarshal(p, &rec); err != nil {
		return fmt.Errorf("decode game data %q: %w", d.Name, err)
	}
	if len(rec.Buffer) > rec.BufSize {
		return fmt.Errorf("decode game data %q: buffer %d exceeds size %d", d.Name, len(rec.Buffer), rec.BufSize)
	}
	d.ints = rec.Ints
	d.floats = rec.Floats
	d.strs = rec.Strings
	d.buf = make([]byte, rec.BufSize)
	d.bufUsed = copy(d.buf, rec.Buffer)
	return nil
}

func resize[T any](s []T, n int) []T {
	if n < 0 {
		n = 0
	}
	if n <= cap(s) {
		old := len(s)
		s = s[:n]
		if n > old {
			var zero T
			for i := old; i < n; i++ {
				s[i] = zero
			}
		}
		return s
	}
	out := make([]T, n)
	copy(out, s)
	return out
}
