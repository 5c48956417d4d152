package tracing

import (
	"sync"

	"github.com/sarchlab/schedsim/datarecording"
	"github.com/sarchlab/schedsim/sim"
	"github.com/tebeka/atexit"
)

// TraceTableName is the table that DBTracer writes completed tasks into.
const TraceTableName = "trace"

type taskTableEntry struct {
	ID        string
	ParentID  string
	Kind      string
	What      string
	Location  string
	StartTime int64
	EndTime   int64
}

// DBTracer is a tracer that can store tasks into a database.
type DBTracer struct {
	mu         sync.Mutex
	timeTeller sim.TimeTeller
	backend    datarecording.DataRecorder

	tracingTasks map[string]Task
}

// NewDBTracer creates a new DBTracer and the trace table in the backend.
func NewDBTracer(
	timeTeller sim.TimeTeller,
	dataRecorder datarecording.DataRecorder,
) *DBTracer {
	t := &DBTracer{
		timeTeller:   timeTeller,
		backend:      dataRecorder,
		tracingTasks: make(map[string]Task),
	}

	dataRecorder.CreateTable(TraceTableName, taskTableEntry{})

	atexit.Register(func() {
		t.Terminate()
	})

	return t
}

// StartTask marks the start of a task.
func (t *DBTracer) StartTask(task Task) {
	t.mu.Lock()
	defer t.mu.Unlock()

	startingTaskMustBeValid(task)

	task.StartTime = t.timeTeller.CurrentTime()
	t.tracingTasks[task.ID] = task
}

func startingTaskMustBeValid(task Task) {
	if task.ID == "" {
		panic("task ID must be set")
	}

	if task.Kind == "" {
		panic("task kind must be set")
	}

	if task.What == "" {
		panic("task what must be set")
	}

	if task.Where == "" {
		panic("task location must be set")
	}
}

// EndTask marks the end of a task and writes it to the backend.
func (t *DBTracer) EndTask(task Task) {
	t.mu.Lock()
	defer t.mu.Unlock()

	originalTask, ok := t.tracingTasks[task.ID]
	if !ok {
		return
	}

	originalTask.EndTime = t.timeTeller.CurrentTime()
	delete(t.tracingTasks, task.ID)

	t.write(originalTask)
}

// Terminate writes the unfinished tasks with the current time as the end time
// and flushes the backend.
func (t *DBTracer) Terminate() {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.timeTeller.CurrentTime()
	for id, task := range t.tracingTasks {
		task.EndTime = now
		t.write(task)
		delete(t.tracingTasks, id)
	}

	t.backend.Flush()
}

func (t *DBTracer) write(task Task) {
	entry := taskTableEntry{
		ID:        task.ID,
		ParentID:  task.ParentID,
		Kind:      task.Kind,
		What:      task.What,
		Location:  task.Where,
		StartTime: int64(task.StartTime),
		EndTime:   int64(task.EndTime),
	}

	t.backend.InsertData(TraceTableName, entry)
}
