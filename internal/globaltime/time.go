package globaltime

import (
	"sync"
	"time"
)

var (
	mu      sync.RWMutex
	nowFunc = time.Now
)

func Now() time.Time {
	mu.RLock()
	defer mu.RUnlock()
	return nowFunc()
}

func UTC() time.Time {
	return Now().UTC()
}

// Freeze pins the clock to a fixed instant. Tests must call Reset when done.
func Freeze(t time.Time) {
	mu.Lock()
	defer mu.Unlock()
	nowFunc = func() time.Time { return t }
}

func Reset() {
	mu.Lock()
	defer mu.Unlock()
	nowFunc = time.Now
}
