package cache

import (
	"container/list"
	"sync"
	"time"
)

type item[K comparable, V any] struct {
	key      K
	value    V
	deadline time.Time
}

// TTL 은 만료 시간과 최대 크기를 갖는 LRU 캐시다.
// 지오코딩 결과와 요청 제한 카운터 양쪽에서 쓰인다.
type TTL[K comparable, V any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	maxSize int
	order   *list.List
	index   map[K]*list.Element
}

// NewTTL 는 TTL 캐시를 생성한다.
func NewTTL[K comparable, V any](maxSize int, ttl time.Duration) *TTL[K, V] {
	if maxSize <= 0 {
		maxSize = 1
	}
	if ttl <= 0 {
		ttl = time.Second
	}
	return &TTL[K, V]{
		ttl:     ttl,
		maxSize: maxSize,
		order:   list.New(),
		index:   make(map[K]*list.Element, maxSize),
	}
}

// Get 는 키에 해당하는 값을 반환한다. 만료된 항목은 제거 후 miss 처리한다.
func (c *TTL[K, V]) Get(key K) (V, bool) {
	var zero V
	c.mu.Lock()
	defer c.mu.Unlock()

	element, ok := c.index[key]
	if !ok {
		return zero, false
	}
	it := element.Value.(*item[K, V])
	if time.Now().After(it.deadline) {
		c.remove(element)
		return zero, false
	}
	c.order.MoveToFront(element)
	return it.value, true
}

// Set 는 값을 저장하고 TTL 을 갱신한다.
func (c *TTL[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setLocked(key, value)
}

// Modify 는 현재 값(없으면 zero)을 fn 에 넘겨 새 값으로 교체한다.
// 요청 제한 카운터 증가처럼 read-modify-write 가 원자적이어야 할 때 쓴다.
func (c *TTL[K, V]) Modify(key K, fn func(current V, exists bool) V) (V, bool) {
	var zero V
	if fn == nil {
		return zero, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	current := zero
	exists := false
	if element, ok := c.index[key]; ok {
		it := element.Value.(*item[K, V])
		if now.After(it.deadline) {
			c.remove(element)
		} else {
			current = it.value
			exists = true
		}
	}

	next := fn(current, exists)
	c.setLocked(key, next)
	return next, true
}

// Delete 는 키를 제거한다.
func (c *TTL[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if element, ok := c.index[key]; ok {
		c.remove(element)
	}
}

// Len 는 만료 여부와 무관한 현재 항목 수다.
func (c *TTL[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.index)
}

func (c *TTL[K, V]) setLocked(key K, value V) {
	deadline := time.Now().Add(c.ttl)
	if element, ok := c.index[key]; ok {
		it := element.Value.(*item[K, V])
		it.value = value
		it.deadline = deadline
		c.order.MoveToFront(element)
		return
	}

	element := c.order.PushFront(&item[K, V]{key: key, value: value, deadline: deadline})
	c.index[key] = element
	for len(c.index) > c.maxSize {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		c.remove(oldest)
	}
}

func (c *TTL[K, V]) remove(element *list.Element) {
	c.order.Remove(element)
	it := element.Value.(*item[K, V])
	delete(c.index, it.key)
}
