// Package cleanup collects compensating actions during a workflow and runs
// them after the primary outcome is decided.
//
// A workflow adds a task for every side effect it commits (for example an
// image stored before the database write). On failure it calls Run: every
// task is executed best-effort — once, concurrently, recover-wrapped — so one
// failing cleanup can never affect another task or the already-decided
// response. Failures are logged, never returned.
//
//	comp := cleanup.New("product create")
//	comp.Add("delete image "+ref, func() error { return assets.Remove(ref) })
//	if err := repo.Create(&p); err != nil {
//	    comp.Run()
//	    return err
//	}
package cleanup

import (
	"fmt"
	"sync"

	"github.com/shashiranjanraj/roastery/pkg/logger"
)

// Task is one compensating action.
type Task struct {
	Label string
	Fn    func() error
}

// Stack accumulates compensating actions for a single workflow run.
// It is not safe for concurrent Add; workflows are single-goroutine.
type Stack struct {
	scope string
	tasks []Task
}

// New creates an empty stack. scope names the workflow for log context.
func New(scope string) *Stack {
	return &Stack{scope: scope}
}

// Add registers a compensating action.
func (s *Stack) Add(label string, fn func() error) {
	s.tasks = append(s.tasks, Task{Label: label, Fn: fn})
}

// Len returns the number of registered tasks.
func (s *Stack) Len() int { return len(s.tasks) }

// Run executes every task concurrently and waits for all of them.
// Each task runs at most once; afterwards the stack is empty.
func (s *Stack) Run() {
	tasks := s.tasks
	s.tasks = nil
	if len(tasks) == 0 {
		return
	}

	var wg sync.WaitGroup
	for _, t := range tasks {
		t := t
		wg.Add(1)
		go func() {
			defer wg.Done()
			runOne(s.scope, t)
		}()
	}
	wg.Wait()
}

func runOne(scope string, t Task) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("compensation panicked", "scope", scope, "task", t.Label,
				"panic", fmt.Sprintf("%v", r))
		}
	}()
	if err := t.Fn(); err != nil {
		logger.Warn("compensation failed", "scope", scope, "task", t.Label, "error", err)
	}
}
