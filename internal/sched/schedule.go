package sched

import (
	"errors"
	"fmt"
)

var (
	// ErrInfeasible: расписание нарушает ограничения. Ожидаемый исход, а не сбой.
	ErrInfeasible = errors.New("schedule is infeasible")
	// ErrDependencyCycle: цепочка зависимостей замкнута.
	ErrDependencyCycle = errors.New("dependency cycle")
)

// Mode задаёт строгость проверки зависимостей.
type Mode string

const (
	// ModePresence: зависимость должна лишь присутствовать в расписании.
	ModePresence Mode = "presence"
	// ModePrecedence: зависимость должна стоять в расписании раньше зависимой работы.
	ModePrecedence Mode = "precedence"
)

func (m Mode) Validate() error {
	switch m {
	case ModePresence, ModePrecedence:
		return nil
	default:
		return fmt.Errorf("unknown dependency mode %q", m)
	}
}

// Assignment задаёт пару (работа, ресурс) идентификаторами.
type Assignment struct {
	JobID      int `yaml:"job" json:"job"`
	ResourceID int `yaml:"resource" json:"resource"`
}

// Порядок назначений в Schedule является порядком выполнения.
type Schedule []Assignment

func (s Schedule) Clone() Schedule {
	if s == nil {
		return nil
	}
	return append(Schedule(nil), s...)
}

type Reason string

const (
	ReasonUnknownJob       Reason = "unknown_job"
	ReasonUnknownResource  Reason = "unknown_resource"
	ReasonDuplicateJob     Reason = "duplicate_job"
	ReasonMissingJob       Reason = "missing_job"
	ReasonCapacity         Reason = "capacity"
	ReasonDependencyOrder  Reason = "dependency_order"
	ReasonDependencyCycled Reason = "dependency_cycle"
)

type InfeasibleError struct {
	Reason Reason
	// Работа или ресурс, на котором проверка остановилась.
	ID int
}

func (e *InfeasibleError) Error() string {
	return fmt.Sprintf("%s: %s (id %d)", ErrInfeasible, e.Reason, e.ID)
}

func (e *InfeasibleError) Unwrap() []error {
	if e.Reason == ReasonDependencyCycled {
		return []error{ErrInfeasible, ErrDependencyCycle}
	}
	return []error{ErrInfeasible}
}

func infeasible(r Reason, id int) error {
	return &InfeasibleError{Reason: r, ID: id}
}

type Entry struct {
	JobID      int
	ResourceID int
	Start      int
	End        int
}

type Timeline struct {
	Entries  []Entry
	Makespan int
}

func (t Timeline) Entry(jobID int) (Entry, bool) {
	for _, e := range t.Entries {
		if e.JobID == jobID {
			return e, true
		}
	}
	return Entry{}, false
}
