// 고정 윈도우 인메모리 rate limiter
//
// 외부 저장소 없이 프로세스 내에서만 동작하고, 키 수에 상한을 둬서
// 악의적인 키 폭주로 메모리가 무한히 자라지 않게 함
// 상한에 도달하면 만료된 키를 먼저 비우고, 그래도 가득 차면
// 가장 오래 전에 갱신된 키를 쫓아냄

package ratelimit

import (
	"sync"
	"time"
)

type bucket struct {
	windowStart time.Time
	count       int
}

type Limiter struct {
	mu      sync.Mutex
	window  time.Duration
	max     int
	maxKeys int
	now     func() time.Time
	buckets map[string]*bucket
}

func New(window time.Duration, max, maxKeys int) *Limiter {
	if window <= 0 {
		window = time.Minute
	}
	if max <= 0 {
		max = 60
	}
	if maxKeys <= 0 {
		maxKeys = 10000
	}
	return &Limiter{
		window:  window,
		max:     max,
		maxKeys: maxKeys,
		now:     time.Now,
		buckets: make(map[string]*bucket),
	}
}

// Allow - key의 현재 윈도우 내 요청을 1건 소비. 한도 초과 시 false
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	b, ok := l.buckets[key]
	if ok && now.Sub(b.windowStart) >= l.window {
		// 윈도우가 지났으면 새 윈도우로 리셋
		b.windowStart = now
		b.count = 0
	}
	if !ok {
		if len(l.buckets) >= l.maxKeys {
			l.evictLocked(now)
		}
		b = &bucket{windowStart: now}
		l.buckets[key] = b
	}

	if b.count >= l.max {
		return false
	}
	b.count++
	return true
}

// evictLocked - 만료된 키를 제거하고, 빈자리가 없으면 가장 오래된 키를 1개 제거
func (l *Limiter) evictLocked(now time.Time) {
	for key, b := range l.buckets {
		if now.Sub(b.windowStart) >= l.window {
			delete(l.buckets, key)
		}
	}
	if len(l.buckets) < l.maxKeys {
		return
	}

	var oldestKey string
	var oldest time.Time
	for key, b := range l.buckets {
		if oldestKey == "" || b.windowStart.Before(oldest) {
			oldestKey = key
			oldest = b.windowStart
		}
	}
	if oldestKey != "" {
		delete(l.buckets, oldestKey)
	}
}
