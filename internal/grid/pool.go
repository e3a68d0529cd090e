package grid

import "sync"

// cellPool recycles host-side readback slices of one grid size.
type cellPool struct {
	pool sync.Pool
	size int
}

func newCellPool(size int) *cellPool {
	return &cellPool{
		size: size,
		pool: sync.Pool{
			New: func() interface{} {
				return make([]float32, size)
			},
		},
	}
}

func (p *cellPool) Get() []float32 {
	return p.pool.Get().([]float32)
}

func (p *cellPool) Put(cells []float32) {
	if len(cells) == p.size {
		p.pool.Put(cells)
	}
}
