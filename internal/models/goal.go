package models

import "time"

type GoalStatus string

const (
	GoalPending   GoalStatus = "pending"
	GoalCorrect   GoalStatus = "correct"
	GoalFulfilled GoalStatus = "fulfilled"
	GoalSucceeded GoalStatus = "succeeded"
)

func (s GoalStatus) Valid() bool {
	switch s {
	case GoalPending, GoalCorrect, GoalFulfilled, GoalSucceeded:
		return true
	}
	return false
}

// Elevated statuses require an admin or editor caller.
func (s GoalStatus) Elevated() bool {
	return s == GoalCorrect || s == GoalFulfilled || s == GoalSucceeded
}

type TaskGoal struct {
	ID        string     `json:"_id"`
	ChatID    string     `json:"chatId"`
	Title     string     `json:"title"`
	Status    GoalStatus `json:"status"`
	CreatedBy string     `json:"createdBy"`
	CreatedAt time.Time  `json:"createdAt"`
}
