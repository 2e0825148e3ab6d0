// pkg/ai/mock_client.go

package ai

import (
	"context"
	"sync"
)

// Mock replays canned replies in order, then repeats the last one. With no replies it
// returns Err (ErrNotConfigured by default), which is how the offline provider behaves.
type Mock struct {
	mu      sync.Mutex
	Replies []string
	Err     error
	Prompts []string
}

func NewMock() *Mock { return &Mock{Err: ErrNotConfigured} }

// NewReplying returns a mock that answers every call with the given replies.
func NewReplying(replies ...string) *Mock { return &Mock{Replies: replies} }

func (m *Mock) Complete(_ context.Context, _ string, prompt string) (string, error) {
	return m.next(prompt)
}

func (m *Mock) AnalyzeImage(_ context.Context, prompt string, _ Image) (string, error) {
	return m.next(prompt)
}

func (m *Mock) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Prompts)
}

func (m *Mock) next(prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.Prompts)
	m.Prompts = append(m.Prompts, prompt)
	if len(m.Replies) == 0 {
		if m.Err == nil {
			return "", ErrNotConfigured
		}
		return "", m.Err
	}
	if n >= len(m.Replies) {
		n = len(m.Replies) - 1
	}
	return m.Replies[n], nil
}
