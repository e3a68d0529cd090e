package grid

import (
	"errors"
	"fmt"

	"github.com/apex/log"
	"github.com/san-kum/lifelab/internal/compute"
)

// ErrZeroDimension is returned for a width or height of zero.
var ErrZeroDimension = errors.New("grid: zero dimension")

// Store owns the two generation buffers. Generation g reads buffer g%2 and
// writes buffer (g+1)%2.
type Store struct {
	backend    compute.Backend
	log        log.Interface
	width      int
	height     int
	buffers    [2]compute.Buffer
	generation uint64
	revision   uint64
	pool       *cellPool
}

func New(backend compute.Backend, logger log.Interface) *Store {
	if logger == nil {
		logger = log.Log
	}
	return &Store{backend: backend, log: logger}
}

// Initialize allocates both buffers and seeds generation 0. Prior buffers
// are released only once the new ones exist.
func (s *Store) Initialize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrZeroDimension, width, height)
	}

	n := width * height
	a, err := s.backend.Alloc(n)
	if err != nil {
		return fmt.Errorf("grid: allocate %dx%d: %w", width, height, err)
	}
	b, err := s.backend.Alloc(n)
	if err != nil {
		a.Release()
		return fmt.Errorf("grid: allocate %dx%d: %w", width, height, err)
	}

	s.release()
	s.width, s.height = width, height
	s.buffers = [2]compute.Buffer{a, b}
	s.generation = 0
	s.revision++
	s.pool = newCellPool(n)

	s.buffers[0].Write(0, Seed(width, height))

	s.log.WithFields(log.Fields{
		"width":   width,
		"height":  height,
		"backend": s.backend.Name(),
	}).Info("grid allocated")
	return nil
}

// Resize discards all cell state and reseeds at the new size. A zero
// dimension leaves the current grid untouched.
func (s *Store) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		s.log.WithFields(log.Fields{"width": width, "height": height}).Warn("ignoring resize to zero dimension")
		return fmt.Errorf("%w: %dx%d", ErrZeroDimension, width, height)
	}
	return s.Initialize(width, height)
}

func (s *Store) release() {
	for i, b := range s.buffers {
		if b != nil {
			b.Release()
			s.buffers[i] = nil
		}
	}
}

// Release frees the device buffers.
func (s *Store) Release() {
	s.release()
	s.width, s.height = 0, 0
}

func (s *Store) Width() int               { return s.width }
func (s *Store) Height() int              { return s.height }
func (s *Store) Cells() int               { return s.width * s.height }
func (s *Store) Generation() uint64       { return s.generation }
func (s *Store) Backend() compute.Backend { return s.backend }
func (s *Store) Initialized() bool        { return s.buffers[0] != nil }
func (s *Store) Input() compute.Buffer    { return s.buffers[s.generation%2] }
func (s *Store) Output() compute.Buffer   { return s.buffers[(s.generation+1)%2] }
func (s *Store) InBounds(x, y int) bool   { return x >= 0 && y >= 0 && x < s.width && y < s.height }
func (s *Store) Index(x, y int) int       { return y*s.width + x }

// Revision changes whenever the input buffer's contents may have: on every
// advance, rewind, edit or reallocation. Hosts compare it to skip readbacks.
func (s *Store) Revision() uint64 { return s.revision }

func (s *Store) Advance() {
	s.generation++
	s.revision++
}

// Rewind undoes n advances, for a batch the backend refused.
func (s *Store) Rewind(n uint64) {
	s.generation -= min(n, s.generation)
	s.revision++
}

// WriteCell sets one cell of the current input buffer. Out-of-range
// coordinates are ignored.
func (s *Store) WriteCell(x, y int, v float32) {
	if !s.Initialized() || !s.InBounds(x, y) {
		return
	}
	s.Input().Write(s.Index(x, y), []float32{v})
	s.revision++
}

func (s *Store) writeSpan(x0, x1, y int, v float32) {
	x0, x1 = max(x0, 0), min(x1, s.width-1)
	if y < 0 || y >= s.height || x0 > x1 {
		return
	}
	row := make([]float32, x1-x0+1)
	for i := range row {
		row[i] = v
	}
	s.Input().Write(s.Index(x0, y), row)
	s.revision++
}

// Snapshot copies the most recently completed generation to the host. It
// blocks on all submitted work.
func (s *Store) Snapshot() ([]float32, error) {
	dst := make([]float32, s.Cells())
	if err := s.SnapshotInto(dst); err != nil {
		return nil, err
	}
	return dst, nil
}

func (s *Store) SnapshotInto(dst []float32) error {
	if !s.Initialized() {
		return fmt.Errorf("grid: not initialized")
	}
	return s.Input().Read(dst)
}

// LiveCount reads the grid back and counts cells above 0.5.
func (s *Store) LiveCount() (int, error) {
	if !s.Initialized() {
		return 0, fmt.Errorf("grid: not initialized")
	}
	cells := s.pool.Get()
	defer s.pool.Put(cells)

	if err := s.Input().Read(cells); err != nil {
		return 0, err
	}
	return CountAlive(cells), nil
}

func CountAlive(cells []float32) int {
	n := 0
	for _, v := range cells {
		if v > 0.5 {
			n++
		}
	}
	return n
}
