package genetic

import (
	"runtime"
	"sync"
)

// parallelThreshold is the minimum population size to use parallel scoring.
// Below this, single-threaded is faster due to goroutine overhead.
const parallelThreshold = 8

// workChunk represents a range of population slots for a worker to score.
type workChunk struct {
	start, end int
}

// scorePool runs fitness evaluation on persistent worker goroutines.
// Workers write to disjoint slot ranges, so scoring needs no locks.
type scorePool struct {
	numWorkers int
	eval       func(start, end int)

	workChan chan workChunk // sends work to workers
	doneChan chan struct{}  // workers signal completion
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup
	running  bool
}

// newScorePool sizes the pool. workers <= 0 means one per CPU. A nil
// pool is returned when a single worker is requested; callers score
// inline in that case.
func newScorePool(workers int, eval func(start, end int)) *scorePool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers == 1 {
		return nil
	}
	return &scorePool{numWorkers: workers, eval: eval}
}

// start launches persistent worker goroutines.
func (p *scorePool) start() {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// stop signals all workers to exit and waits for them.
func (p *scorePool) stop() {
	if p == nil || !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

func (p *scorePool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			p.eval(chunk.start, chunk.end)
			p.doneChan <- struct{}{}
		}
	}
}

// scoreAll splits n slots across the pool and blocks until every chunk
// is done.
func (p *scorePool) scoreAll(n int) {
	if !p.running {
		p.start()
	}

	chunkSize := (n + p.numWorkers - 1) / p.numWorkers
	dispatched := 0
	for w := 0; w < p.numWorkers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}
		p.workChan <- workChunk{start: start, end: end}
		dispatched++
	}

	for i := 0; i < dispatched; i++ {
		<-p.doneChan
	}
}
