package scheduler

// worker is one execution slot. busyUntil is the time left until it frees
// up; zero means idle.
type worker struct {
	busyUntil int
	task      string
}

func (w *worker) idle() bool { return w.busyUntil == 0 }

// completion is a task that finished on a given worker.
type completion struct {
	worker int
	task   string
}

// pool is the fixed-size worker arena for one run.
type pool struct {
	workers []worker
}

func newPool(size int) *pool {
	return &pool{workers: make([]worker, size)}
}

// nextDelta is the time until the earliest busy worker frees up, or zero
// when no worker is busy.
func (p *pool) nextDelta() int {
	delta := 0
	for i := range p.workers {
		b := p.workers[i].busyUntil
		if b > 0 && (delta == 0 || b < delta) {
			delta = b
		}
	}
	return delta
}

// advance moves every worker forward by delta and returns the tasks that
// finished, in worker index order.
func (p *pool) advance(delta int) []completion {
	var done []completion
	for i := range p.workers {
		w := &p.workers[i]
		if w.busyUntil-delta > 0 {
			w.busyUntil -= delta
			continue
		}
		w.busyUntil = 0
		if w.task != "" {
			done = append(done, completion{worker: i, task: w.task})
			w.task = ""
		}
	}
	return done
}

func (p *pool) assign(i int, task string, duration int) {
	p.workers[i] = worker{busyUntil: duration, task: task}
}

func (p *pool) busyCount() int {
	n := 0
	for i := range p.workers {
		if !p.workers[i].idle() {
			n++
		}
	}
	return n
}

func (p *pool) allIdle() bool {
	return p.busyCount() == 0
}

// idleSlots returns the indexes of idle workers in ascending order.
func (p *pool) idleSlots() []int {
	var slots []int
	for i := range p.workers {
		if p.workers[i].idle() {
			slots = append(slots, i)
		}
	}
	return slots
}
