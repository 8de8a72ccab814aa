package game

import (
	"sync"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/swarmsort/components"
	"github.com/pthm-cable/swarmsort/systems"
)

// searchChunk is a range of origins for a worker to search.
type searchChunk struct {
	start, end int
}

// parallelSearch fans read-only target searches out to a persistent worker
// pool. Claims are committed afterwards by the targeting system in ship
// order, so results match a serial pass.
type parallelSearch struct {
	numWorkers int
	scratches  [][]ecs.Entity // per-worker query buffers

	// Current batch. Written before chunks are sent, read by workers after
	// they receive one.
	sys     *systems.TargetingSystem
	origins []components.Position
	out     []systems.Proposal

	// Worker pool channels
	workChan chan searchChunk // sends work to workers
	doneChan chan struct{}    // workers signal completion
	stopChan chan struct{}    // signals workers to exit
	wg       sync.WaitGroup   // tracks active workers
	running  bool             // true if workers are running
}

func newParallelSearch(numWorkers int) *parallelSearch {
	if numWorkers < 1 {
		numWorkers = 1
	}
	scratches := make([][]ecs.Entity, numWorkers)
	for i := range scratches {
		scratches[i] = make([]ecs.Entity, 0, 256)
	}
	return &parallelSearch{
		numWorkers: numWorkers,
		scratches:  scratches,
	}
}

// startWorkers launches persistent worker goroutines.
func (p *parallelSearch) startWorkers() {
	if p.running {
		return
	}

	p.workChan = make(chan searchChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// stopWorkers signals all workers to exit and waits for them.
func (p *parallelSearch) stopWorkers() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

// worker runs in a goroutine, processing chunks until stopped.
func (p *parallelSearch) worker(workerID int) {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			scratch := p.scratches[workerID]
			for i := chunk.start; i < chunk.end; i++ {
				p.out[i], scratch = p.sys.Propose(p.origins[i], scratch)
			}
			p.scratches[workerID] = scratch
			p.doneChan <- struct{}{}
		}
	}
}

// SearchBatch fills out[i] with the proposal for origins[i].
func (p *parallelSearch) SearchBatch(s *systems.TargetingSystem, origins []components.Position, out []systems.Proposal) {
	n := len(origins)
	if n == 0 {
		return
	}

	// Ensure workers are running
	if !p.running {
		p.startWorkers()
	}

	p.sys = s
	p.origins = origins
	p.out = out

	chunkSize := (n + p.numWorkers - 1) / p.numWorkers

	// Dispatch chunks to workers
	chunksDispatched := 0
	for w := 0; w < p.numWorkers; w++ {
		start := w * chunkSize
		end := min(start+chunkSize, n)
		if start >= end {
			continue
		}

		p.workChan <- searchChunk{start: start, end: end}
		chunksDispatched++
	}

	// Wait for all chunks to complete
	for i := 0; i < chunksDispatched; i++ {
		<-p.doneChan
	}

	p.sys = nil
	p.origins = nil
	p.out = nil
}
