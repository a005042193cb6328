// Package strategy holds the per-agent bounded task queue under planner
// control (spec.md §4.H): the Task/TaskSlot model, task state machine and
// the Strategy container for all 16 agents.
package strategy

// TasksMax is the compile-time-sized per-agent task queue capacity.
const TasksMax = 8

// NumAgents is the fixed roster size: 16 agents split into two teams of 8.
const NumAgents = 16

// TaskType enumerates the atomic plan actions a task can represent.
type TaskType uint8

const (
	TaskNone TaskType = iota
	TaskBuyItem
	TaskRetrieve
	TaskCraftItem
	TaskCraftAssist
	TaskDeliverItem
	TaskCharge
	TaskVisit
)

func (t TaskType) String() string {
	switch t {
	case TaskNone:
		return "NONE"
	case TaskBuyItem:
		return "BUY_ITEM"
	case TaskRetrieve:
		return "RETRIEVE"
	case TaskCraftItem:
		return "CRAFT_ITEM"
	case TaskCraftAssist:
		return "CRAFT_ASSIST"
	case TaskDeliverItem:
		return "DELIVER_ITEM"
	case TaskCharge:
		return "CHARGE"
	case TaskVisit:
		return "VISIT"
	default:
		return "UNKNOWN"
	}
}

// TaskState tracks an in-progress task's micro-state between sleeps.
type TaskState uint8

const (
	StateNotArrived      TaskState = 0
	StateExecuting       TaskState = 1
	StateAssistStaged    TaskState = 2
	StateAwaitingRestock TaskState = 3
	StateCompleted       TaskState = 0xff
)

// ErrCode is the planner-error plane (spec.md §7); these never reach the
// server directly, they drive strategy repair edits.
type ErrCode uint8

const (
	Success ErrCode = iota
	OutOfBattery
	CraftNoItem
	CraftNoTool
	NoCrafterFound
	NotInInventory
	NotValidForJob
	NoSuchJob
)

func (e ErrCode) String() string {
	switch e {
	case Success:
		return "SUCCESS"
	case OutOfBattery:
		return "OUT_OF_BATTERY"
	case CraftNoItem:
		return "CRAFT_NO_ITEM"
	case CraftNoTool:
		return "CRAFT_NO_TOOL"
	case NoCrafterFound:
		return "NO_CRAFTER_FOUND"
	case NotInInventory:
		return "NOT_IN_INVENTORY"
	case NotValidForJob:
		return "NOT_VALID_FOR_JOB"
	case NoSuchJob:
		return "NO_SUCH_JOB"
	default:
		return "UNKNOWN"
	}
}

// ItemStack is a quantity of one interned item id.
type ItemStack struct {
	Item   uint8
	Amount uint8
}

// Task is one atomic unit of an agent's plan.
type Task struct {
	ID       uint16
	Type     TaskType
	WhereID  uint8 // facility id
	JobID    uint16
	CrafterID uint8 // agent slot, for CRAFT_ASSIST
	Item     ItemStack
}

// TaskResult is the outcome the forward simulator recorded the last time it
// evaluated this task.
type TaskResult struct {
	Time   int32
	Err    ErrCode
	ErrArg ItemStack
}

// TaskSlot pairs a task with its last simulated result.
type TaskSlot struct {
	Task   Task
	Result TaskResult
}

// Queue is one agent's fixed-capacity task ring.
type Queue struct {
	Slots [TasksMax]TaskSlot
	Len   int
}

// PushBack appends a task to the queue if there is room.
func (q *Queue) PushBack(t Task) bool {
	if q.Len >= TasksMax {
		return false
	}
	q.Slots[q.Len] = TaskSlot{Task: t}
	q.Len++
	return true
}

// InsertAt inserts a task at index i, shifting later tasks right; returns
// false if the queue is already full.
func (q *Queue) InsertAt(i int, t Task) bool {
	if q.Len >= TasksMax {
		return false
	}
	copy(q.Slots[i+1:q.Len+1], q.Slots[i:q.Len])
	q.Slots[i] = TaskSlot{Task: t}
	q.Len++
	return true
}

// RemoveAt removes the task at index i, shifting later tasks left.
func (q *Queue) RemoveAt(i int) {
	if i < 0 || i >= q.Len {
		return
	}
	copy(q.Slots[i:q.Len-1], q.Slots[i+1:q.Len])
	q.Len--
}

// FirstFailure returns the index of the first task slot with a non-success
// result, or -1 if every slot (up to Len) simulated cleanly.
func (q *Queue) FirstFailure() int {
	for i := 0; i < q.Len; i++ {
		if q.Slots[i].Result.Err != Success {
			return i
		}
	}
	return -1
}

// Strategy is the full plan: one bounded Queue per agent slot, plus the
// monotonic task-id counter.
type Strategy struct {
	Tasks  [NumAgents]Queue
	NextID uint16
}

// NewTaskID allocates and returns the next unique task id.
func (s *Strategy) NewTaskID() uint16 {
	id := s.NextID
	s.NextID++
	return id
}

// Clone deep-copies the strategy (fixed-size arrays, so a plain struct copy
// already does the right thing; this exists for readability at call sites
// that want an explicit "this is a snapshot" signal).
func (s Strategy) Clone() Strategy {
	return s
}
