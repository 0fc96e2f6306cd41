package auth

import (
	"fmt"
	"log"
	"sync"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// SessionStore 会话缓存
type SessionStore interface {
	// Load 返回缓存的会话，没有时返回 (nil, nil)
	Load() (*Session, error)
	Save(s *Session) error
	Clear() error
}

// MemorySessionStore 进程内会话缓存
type MemorySessionStore struct {
	mu      sync.Mutex
	session *Session
}

// Load 实现 SessionStore
func (m *MemorySessionStore) Load() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil, nil
	}
	s := *m.session
	return &s, nil
}

// Save 实现 SessionStore
func (m *MemorySessionStore) Save(s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s == nil {
		m.session = nil
		return nil
	}
	c := *s
	m.session = &c
	return nil
}

// Clear 实现 SessionStore
func (m *MemorySessionStore) Clear() error {
	return m.Save(nil)
}

// 存储路径常量
const (
	sessionObject   = "session"
	sessionProperty = "cachedUser"
)

// GDataSessionStore 基于 gdata 的会话缓存
// gdataManager 为 nil 时降级为进程内缓存
type GDataSessionStore struct {
	gdataManager *gdata.Manager
	fallback     MemorySessionStore
}

// NewGDataSessionStore 创建会话缓存
func NewGDataSessionStore(gdataManager *gdata.Manager) *GDataSessionStore {
	return &GDataSessionStore{gdataManager: gdataManager}
}

// Load 实现 SessionStore
func (g *GDataSessionStore) Load() (*Session, error) {
	if g.gdataManager == nil {
		return g.fallback.Load()
	}
	if !g.gdataManager.ObjectPropExists(sessionObject, sessionProperty) {
		return nil, nil
	}
	data, err := g.gdataManager.LoadObjectProp(sessionObject, sessionProperty)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	var s Session
	if err := yaml.Unmarshal(data, &s); err != nil {
		// 损坏的缓存直接丢弃
		log.Printf("[Auth] Warning: discarding corrupt cached session: %v", err)
		_ = g.Clear()
		return nil, nil
	}
	return &s, nil
}

// Save 实现 SessionStore
func (g *GDataSessionStore) Save(s *Session) error {
	if g.gdataManager == nil {
		return g.fallback.Save(s)
	}
	if s == nil {
		return g.Clear()
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := g.gdataManager.SaveObjectProp(sessionObject, sessionProperty, data); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Clear 实现 SessionStore
// 写入空内容代替删除，Load 把空内容视为没有会话
func (g *GDataSessionStore) Clear() error {
	if g.gdataManager == nil {
		return g.fallback.Clear()
	}
	if !g.gdataManager.ObjectPropExists(sessionObject, sessionProperty) {
		return nil
	}
	if err := g.gdataManager.SaveObjectProp(sessionObject, sessionProperty, []byte{}); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
