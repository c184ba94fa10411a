package types

// TaskStatus is the canonical three-state task lifecycle. There is no
// transition graph: any status may replace any other via update.
type TaskStatus string

const (
	TaskStatusOpen       TaskStatus = "OPEN"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusDone       TaskStatus = "DONE"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusOpen, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

// TaskPriority is the five-level task priority.
type TaskPriority string

const (
	TaskPriorityVeryHigh TaskPriority = "VERY_HIGH"
	TaskPriorityHigh     TaskPriority = "HIGH"
	TaskPriorityMedium   TaskPriority = "MEDIUM"
	TaskPriorityLow      TaskPriority = "LOW"
	TaskPriorityVeryLow  TaskPriority = "VERY_LOW"
)

// DefaultTaskPriority applies when a create request omits the priority.
const DefaultTaskPriority = TaskPriorityMedium

func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityVeryHigh, TaskPriorityHigh, TaskPriorityMedium, TaskPriorityLow, TaskPriorityVeryLow:
		return true
	}
	return false
}
