package session

import (
	"sync"
	"time"

	"quality-audit/internal/i18n"
	"quality-audit/internal/util"

	"github.com/google/uuid"
)

// Manager 管理会话生命周期：创建、按 token 找回、空闲过期
type Manager struct {
	secret        string
	idle          time.Duration
	defaultLocale string
	now           func() time.Time

	mu        sync.Mutex
	sessions  map[string]*Session
	lastSweep time.Time
}

func NewManager(secret string, idle time.Duration, defaultLocale string) *Manager {
	if idle <= 0 {
		idle = 4 * time.Hour
	}
	if !i18n.Supported(defaultLocale) {
		defaultLocale = i18n.LangZH
	}
	return &Manager{
		secret:        secret,
		idle:          idle,
		defaultLocale: defaultLocale,
		now:           time.Now,
		sessions:      make(map[string]*Session),
	}
}

// DefaultLocale 新会话的默认语言
func (m *Manager) DefaultLocale() string {
	return m.defaultLocale
}

// Create 新建会话；locale 不受支持时用默认语言
func (m *Manager) Create(locale string) *Session {
	if !i18n.Supported(locale) {
		locale = m.defaultLocale
	}
	now := m.now()
	s := &Session{ID: uuid.NewString(), locale: locale, lastSeen: now}

	m.mu.Lock()
	defer m.mu.Unlock()
	// 清理按间隔进行，不在每次创建时遍历全表
	if now.Sub(m.lastSweep) >= m.sweepEvery() {
		m.sweepLocked(now)
		m.lastSweep = now
	}
	m.sessions[s.ID] = s
	return s
}

// Get 按 ID 查找并刷新活跃时间
func (m *Manager) Get(id string) (*Session, bool) {
	now := m.now()

	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok && s.idleSince(now) > m.idle {
		delete(m.sessions, id)
		ok = false
	}
	m.mu.Unlock()

	if !ok {
		return nil, false
	}
	s.touch(now)
	return s, true
}

// Token 签发会话 cookie，有效期等于空闲超时
func (m *Manager) Token(s *Session) (string, error) {
	return util.GenerateTokenAt(m.secret, s.ID, m.idle, m.now())
}

// Resolve 校验 cookie 并找回会话
func (m *Manager) Resolve(token string) (*Session, bool) {
	s, _, ok := m.Resume(token)
	return s, ok
}

// Resume 同 Resolve；token 剩余有效期不足空闲超时的一半时重新签发，
// renewed 非空表示调用方需要下发新 token。持续活跃的会话因此不会过期。
func (m *Manager) Resume(token string) (s *Session, renewed string, ok bool) {
	if token == "" {
		return nil, "", false
	}
	now := m.now()
	claims, err := util.ParseTokenAt(m.secret, token, now)
	if err != nil {
		return nil, "", false
	}
	s, ok = m.Get(claims.SessionID)
	if !ok {
		return nil, "", false
	}
	if claims.ExpiresAt == nil || claims.ExpiresAt.Time.Sub(now) < m.idle/2 {
		if renewed, err = m.Token(s); err != nil {
			// 旧 token 仍然有效，下次请求再续
			renewed = ""
		}
	}
	return s, renewed, true
}

// Len 当前会话数
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) sweepEvery() time.Duration {
	return m.idle / 4
}

func (m *Manager) sweepLocked(now time.Time) {
	for id, s := range m.sessions {
		if s.idleSince(now) > m.idle {
			delete(m.sessions, id)
		}
	}
}
