package common

import (
	"errors"
	"fmt"
	"sync"
)

// CleanupFunc 定义清理函数类型
type CleanupFunc func() error

type namedCleanup struct {
	name string
	fn   CleanupFunc
}

// ResourceCleaner 按后进先出顺序释放资源，类似 defer
type ResourceCleaner struct {
	mu       sync.Mutex
	cleanups []namedCleanup
}

// NewResourceCleaner 创建新的资源清理器
func NewResourceCleaner() *ResourceCleaner {
	return &ResourceCleaner{}
}

// Add 添加一个带名称的清理函数，名称只用于错误信息
func (rc *ResourceCleaner) Add(name string, cleanup CleanupFunc) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.cleanups = append(rc.cleanups, namedCleanup{name: name, fn: cleanup})
}

// Execute 反向执行所有清理函数并清空，返回合并后的错误
func (rc *ResourceCleaner) Execute() error {
	rc.mu.Lock()
	cleanups := rc.cleanups
	rc.cleanups = nil
	rc.mu.Unlock()

	var errs []error
	for i := len(cleanups) - 1; i >= 0; i-- {
		if err := safeExecute(cleanups[i].fn); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", cleanups[i].name, err))
		}
	}
	return errors.Join(errs...)
}

// Count 返回当前清理函数的数量
func (rc *ResourceCleaner) Count() int {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return len(rc.cleanups)
}

// safeExecute 安全执行清理函数，捕获 panic
func safeExecute(cleanup CleanupFunc) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during cleanup: %v", r)
		}
	}()
	return cleanup()
}
