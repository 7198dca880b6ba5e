package domain

import "time"

// Workout represents a single training session owned by one user.
type Workout struct {
	ID     int64     `json:"id"`
	UserID int64     `json:"user_id"`
	Date   time.Time `json:"date"` // calendar date; time component is ignored
	Note   string    `json:"note"`

	// ExerciseCount is derived for list views; not persisted.
	ExerciseCount int `json:"exercise_count"`
}

// DateISO returns the workout date in YYYY-MM-DD form.
func (w *Workout) DateISO() string {
	return w.Date.Format("2006-01-02")
}
