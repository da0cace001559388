package sequence

import (
	"encoding/binary"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/moshbrosh/config"
)

const (
	snapshotMagic   = "MOSH"
	snapshotVersion = 1
	snapshotSize    = 32

	flagConfigured = 1 << 0
)

// Snapshot is the persistent part of a cache: the parameter snapshot, the
// analysis state and the established frame size. Frames are not persisted.
type Snapshot struct {
	Configured bool
	Params     config.Params
	State      AnalysisState
	Width      int
	Height     int
}

// MarshalBinary encodes the snapshot as a fixed 32 byte record.
//
// Format: [magic "MOSH" (4)][version (1)][flags (1)][state (1)][reserved (1)]
// [mosh_start (4)][duration (4)][block_size (4)][search_range (4)]
// [width (4)][height (4)], integers big endian.
func (s Snapshot) MarshalBinary() ([]byte, error) {
	data := make([]byte, snapshotSize)
	copy(data[0:4], snapshotMagic)
	data[4] = snapshotVersion
	if s.Configured {
		data[5] |= flagConfigured
	}
	data[6] = byte(s.State)

	fields := []int{s.Params.MoshStart, s.Params.Duration, s.Params.BlockSize, s.Params.SearchRange, s.Width, s.Height}
	for i, v := range fields {
		if v < 0 || int64(v) > int64(^uint32(0)>>1) {
			return nil, fmt.Errorf("%w: field %d value %d out of range", ErrInvalidSnapshot, i, v)
		}
		binary.BigEndian.PutUint32(data[8+4*i:12+4*i], uint32(v))
	}
	return data, nil
}

// UnmarshalBinary decodes a record produced by MarshalBinary.
func (s *Snapshot) UnmarshalBinary(data []byte) error {
	if len(data) != snapshotSize {
		return fmt.Errorf("%w: %d bytes, want %d", ErrInvalidSnapshot, len(data), snapshotSize)
	}
	if string(data[0:4]) != snapshotMagic {
		return fmt.Errorf("%w: bad magic %q", ErrInvalidSnapshot, data[0:4])
	}
	if data[4] != snapshotVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrInvalidSnapshot, data[4])
	}
	state := AnalysisState(data[6])
	if state > Invalid {
		return fmt.Errorf("%w: unknown state %d", ErrInvalidSnapshot, data[6])
	}

	var v [6]int
	for i := range v {
		v[i] = int(binary.BigEndian.Uint32(data[8+4*i : 12+4*i]))
	}

	*s = Snapshot{
		Configured: data[5]&flagConfigured != 0,
		Params: config.Params{
			MoshStart:   v[0],
			Duration:    v[1],
			BlockSize:   v[2],
			SearchRange: v[3],
		},
		State:  state,
		Width:  v[4],
		Height: v[5],
	}
	return nil
}

// Snapshot captures the persistent state of the cache.
func (c *Cache) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Snapshot{
		Configured: c.configured,
		Params:     c.params,
		State:      c.state,
		Width:      c.width,
		Height:     c.height,
	}
}

// Restore replaces the cache contents with s. Cached frames are dropped and
// the state is always NotStarted, since chain outputs are not persisted; the
// established frame size is kept so mismatched frames are still rejected.
func (c *Cache) Restore(s Snapshot) error {
	if s.Configured {
		if err := s.Params.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
		}
	}
	if s.Width < 0 || s.Height < 0 || (s.Width == 0) != (s.Height == 0) {
		return fmt.Errorf("%w: frame size %dx%d", ErrInvalidSnapshot, s.Width, s.Height)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.clearLocked()
	c.configured = s.Configured
	c.params = config.Params{}
	if s.Configured {
		c.params = s.Params
		c.width, c.height = s.Width, s.Height
	}

	logrus.WithFields(logrus.Fields{
		"function":    "Cache.Restore",
		"configured":  s.Configured,
		"saved_state": s.State.String(),
		"width":       c.width,
		"height":      c.height,
	}).Info("Restored sequence snapshot")
	return nil
}
