package schedule

import (
	"fmt"
	"time"

	"ingaggio/internal/domain"
)

// CommandKind discriminates the closed set of schedule mutations.
type CommandKind int

const (
	KindAddTask CommandKind = iota
	KindRemoveTask
	KindMoveTask
)

func (k CommandKind) String() string {
	switch k {
	case KindAddTask:
		return "add_task"
	case KindRemoveTask:
		return "remove_task"
	case KindMoveTask:
		return "move_task"
	default:
		return fmt.Sprintf("command_kind(%d)", int(k))
	}
}

// Command is one recorded, undoable schedule mutation. It is a tagged
// variant dispatched on Kind rather than an interface hierarchy. A
// move command captures the task's pre-move start/end at construction
// time so Undo can restore them exactly. Commands operate only on the
// schedule's task collection; keeping any Manager index in sync
// afterwards is the caller's responsibility.
type Command struct {
	Kind     CommandKind
	Schedule *Schedule
	Task     *domain.Task

	// Move state. PrevStart/PrevEnd are captured when the command is
	// built, NewStart/NewEnd are applied on Execute.
	PrevStart time.Time
	PrevEnd   time.Time
	NewStart  time.Time
	NewEnd    time.Time

	executed bool
	undone   bool
}

// AddTask builds a command that inserts t into s.
func AddTask(s *Schedule, t *domain.Task) *Command {
	return &Command{Kind: KindAddTask, Schedule: s, Task: t}
}

// RemoveTask builds a command that removes t from s.
func RemoveTask(s *Schedule, t *domain.Task) *Command {
	return &Command{Kind: KindRemoveTask, Schedule: s, Task: t}
}

// MoveTask builds a command that rewrites t's start/end, capturing the
// current values for undo.
func MoveTask(s *Schedule, t *domain.Task, newStart, newEnd time.Time) *Command {
	return &Command{
		Kind:      KindMoveTask,
		Schedule:  s,
		Task:      t,
		PrevStart: t.Start,
		PrevEnd:   t.End,
		NewStart:  newStart,
		NewEnd:    newEnd,
	}
}

// Executed reports whether the command has run and not been undone.
func (c *Command) Executed() bool { return c.executed && !c.undone }

// Execute applies the mutation. Executing twice is an error.
func (c *Command) Execute() error {
	if c.executed && !c.undone {
		return fmt.Errorf("%s command already executed", c.Kind)
	}
	switch c.Kind {
	case KindAddTask:
		c.Schedule.AddTask(c.Task)
	case KindRemoveTask:
		c.Schedule.RemoveTask(c.Task)
	case KindMoveTask:
		c.Task.Start = c.NewStart
		c.Task.End = c.NewEnd
	default:
		return fmt.Errorf("unknown command kind %d", int(c.Kind))
	}
	c.executed = true
	c.undone = false
	return nil
}

// Undo inverts an executed command.
func (c *Command) Undo() error {
	if !c.executed || c.undone {
		return fmt.Errorf("cannot undo %s command that has not executed", c.Kind)
	}
	switch c.Kind {
	case KindAddTask:
		c.Schedule.RemoveTask(c.Task)
	case KindRemoveTask:
		c.Schedule.AddTask(c.Task)
	case KindMoveTask:
		c.Task.Start = c.PrevStart
		c.Task.End = c.PrevEnd
	default:
		return fmt.Errorf("unknown command kind %d", int(c.Kind))
	}
	c.undone = true
	return nil
}

// Changeset groups an ordered sequence of commands applied to one
// schedule, timestamped at creation. Commands execute in the order
// added and undo in reverse order; each carries a monotonic order
// number for the audit record.
type Changeset struct {
	ID        string
	Schedule  *Schedule
	CreatedAt time.Time
	commands  []*Command
}

func NewChangeset(id string, s *Schedule) *Changeset {
	return &Changeset{ID: id, Schedule: s, CreatedAt: time.Now().UTC()}
}

// Add appends c and returns its order number (0-based).
func (cs *Changeset) Add(c *Command) int {
	cs.commands = append(cs.commands, c)
	return len(cs.commands) - 1
}

// Commands returns the commands in execution order.
func (cs *Changeset) Commands() []*Command { return cs.commands }

// Execute runs every command in order. On failure the commands already
// executed are undone in reverse, so a changeset never half-applies.
func (cs *Changeset) Execute() error {
	for i, c := range cs.commands {
		if err := c.Execute(); err != nil {
			for j := i - 1; j >= 0; j-- {
				_ = cs.commands[j].Undo()
			}
			return fmt.Errorf("executing command %d (%s): %w", i, c.Kind, err)
		}
	}
	return nil
}

// Undo reverts the whole changeset in reverse order of execution.
func (cs *Changeset) Undo() error {
	for i := len(cs.commands) - 1; i >= 0; i-- {
		if err := cs.commands[i].Undo(); err != nil {
			return fmt.Errorf("undoing command %d (%s): %w", i, cs.commands[i].Kind, err)
		}
	}
	return nil
}
