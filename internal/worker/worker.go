package worker

import "sync"

// Task 是交給 pool 執行的一個工作
type Task func()

// Pool 定義固定大小的 worker pool；Stop 會等待已送出的工作完成
type Pool interface {
	Submit(Task)
	Stop()
}

// QueueSize 是每個 worker 可排隊的工作數；佇列滿時 Submit 才會阻塞
const QueueSize = 64

// NewPool 建立 n 個 worker，n<=0 時使用 1
func NewPool(n int) Pool {
	if n <= 0 {
		n = 1
	}
	p := &pool{jobs: make(chan Task, n*QueueSize)}
	p.wg.Add(n)
	for i := 0; i < n; i++ {
		go p.run()
	}
	return p
}

type pool struct {
	jobs chan Task
	wg   sync.WaitGroup
	once sync.Once
}

func (p *pool) run() {
	defer p.wg.Done()
	for job := range p.jobs {
		if job != nil {
			job()
		}
	}
}

func (p *pool) Submit(t Task) {
	p.jobs <- t
}

func (p *pool) Stop() {
	p.once.Do(func() { close(p.jobs) })
	p.wg.Wait()
}

// SyncPool 在呼叫端 goroutine 直接執行工作，供測試使用
type SyncPool struct {
	mu      sync.Mutex
	stopped bool
}

func (s *SyncPool) Submit(t Task) {
	s.mu.Lock()
	stopped := s.stopped
	s.mu.Unlock()
	if stopped {
		panic("submit on stopped pool")
	}
	if t != nil {
		t()
	}
}

func (s *SyncPool) Stop() {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()
}
