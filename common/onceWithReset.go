package common

import (
	"sync"
	"sync/atomic"
)

// OnceWithReset 与 sync.Once 类似，Reset 之后可以再次触发。
// 用于"条件持续不满足时只提示一次，条件恢复后重新计数"的场景。
type OnceWithReset struct {
	mu   sync.Mutex
	done atomic.Bool
}

func NewOnceWithReset() *OnceWithReset {
	return &OnceWithReset{}
}

// Do 在未触发状态下执行 fn，fn panic 时同样视为已触发
func (o *OnceWithReset) Do(fn func()) {
	if o.done.Load() {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.done.Load() {
		return
	}
	defer o.done.Store(true)
	fn()
}

// Reset 恢复到未触发状态
func (o *OnceWithReset) Reset() {
	o.done.Store(false)
}

func (o *OnceWithReset) IsTriggered() bool {
	return o.done.Load()
}
