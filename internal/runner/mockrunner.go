package runner

import (
	"context"
	"sync"
	"time"
)

type MockRunner struct {
	mu        sync.Mutex
	Commands  []MockCommand
	Responses map[string]MockResponse
	StartErr  error
}

type MockCommand struct {
	Name     string
	Args     []string
	Timeout  time.Duration
	Mode     Mode
	Detached bool
}

type MockResponse struct {
	Output []byte
	Error  error
}

func NewMockRunner() *MockRunner {
	return &MockRunner{
		Commands:  []MockCommand{},
		Responses: make(map[string]MockResponse),
	}
}

func (m *MockRunner) Run(
	ctx context.Context,
	timeout time.Duration,
	mode Mode,
	name string,
	args ...string,
) ([]byte, error) {
	m.mu.Lock()
	m.Commands = append(m.Commands, MockCommand{
		Name:    name,
		Args:    args,
		Timeout: timeout,
		Mode:    mode,
	})
	resp, ok := m.Responses[cmdKey(name, args...)]
	m.mu.Unlock()

	if ok {
		return resp.Output, resp.Error
	}
	return []byte{}, nil
}

func (m *MockRunner) Start(name string, args ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Commands = append(m.Commands, MockCommand{
		Name:     name,
		Args:     args,
		Detached: true,
	})
	return m.StartErr
}

func (m *MockRunner) AddResponse(key string, output []byte, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Responses[key] = MockResponse{
		Output: output,
		Error:  err,
	}
}

// AddExitCode makes name+args fail the way ExecRunner reports a non-zero exit.
func (m *MockRunner) AddExitCode(code int, name string, args ...string) {
	var err error
	if code != 0 {
		err = &ExitError{Name: name, Code: code}
	}
	m.AddResponse(cmdKey(name, args...), nil, err)
}

func cmdKey(name string, args ...string) string {
	key := name
	for _, arg := range args {
		key += "|" + arg
	}
	return key
}

func (m *MockRunner) VerifyCommand(name string, args ...string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, cmd := range m.Commands {
		if cmd.Name == name && argsEqual(cmd.Args, args) {
			return true
		}
	}
	return false
}

func (m *MockRunner) VerifyRunCount(name string, count int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	runCount := 0
	for _, cmd := range m.Commands {
		if cmd.Name == name {
			runCount++
		}
	}
	return runCount == count
}

func (m *MockRunner) Last() (MockCommand, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Commands) == 0 {
		return MockCommand{}, false
	}
	return m.Commands[len(m.Commands)-1], true
}

func argsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
