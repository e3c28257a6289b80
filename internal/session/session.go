// Package session keeps the per-browser state of the form tool: the chosen
// language profile and the records submitted during the session.
package session

import (
	"sync"
	"time"

	"quality-audit/internal/models"
)

// Status 记录在本次会话中的持久化状态
type Status string

const (
	StatusSaved  Status = "saved"
	StatusFailed Status = "failed"
)

// Entry 会话里的一条记录。写入失败的记录也保留，方便用户手动重试。
type Entry struct {
	Record models.Record `json:"record"`
	Status Status        `json:"status"`
	Error  string        `json:"error,omitempty"`
}

// Session 由 Manager 持有，handler 通过上下文拿到并显式传递
type Session struct {
	ID string

	mu       sync.Mutex
	locale   string
	entries  []Entry
	lastSeen time.Time
}

// Locale 当前语言
func (s *Session) Locale() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locale
}

// SetLocale 切换语言，只影响显示，不影响存储列
func (s *Session) SetLocale(lang string) {
	s.mu.Lock()
	s.locale = lang
	s.mu.Unlock()
}

// Add 追加一条记录
func (s *Session) Add(rec models.Record, status Status, errMsg string) {
	s.mu.Lock()
	s.entries = append(s.entries, Entry{Record: rec, Status: status, Error: errMsg})
	s.mu.Unlock()
}

// SetStatus 更新某条记录的状态，找不到返回 false
func (s *Session) SetStatus(submissionID string, status Status, errMsg string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if s.entries[i].Record.SubmissionID == submissionID {
			s.entries[i].Status = status
			s.entries[i].Error = errMsg
			return true
		}
	}
	return false
}

// Find 按提交编号查找
func (s *Session) Find(submissionID string) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e.Record.SubmissionID == submissionID {
			return e, true
		}
	}
	return Entry{}, false
}

// Entries 返回副本，按提交顺序
func (s *Session) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Entry(nil), s.entries...)
}

// Saved 已成功写入存储的记录，按提交顺序
func (s *Session) Saved() []models.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Record
	for _, e := range s.entries {
		if e.Status == StatusSaved {
			out = append(out, e.Record)
		}
	}
	return out
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}
