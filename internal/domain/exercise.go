package domain

// Exercise is one performed exercise inside a workout (name, sets, reps and
// an optional weight in kilograms).
type Exercise struct {
	ID        int64    `json:"id"`
	WorkoutID int64    `json:"workout_id"`
	Name      string   `json:"name"`
	Sets      int      `json:"sets"`
	Reps      int      `json:"reps"`
	Weight    *float64 `json:"weight"`
}

// Validation bounds for exercise fields.
const (
	ExerciseNameMinLen = 2
	ExerciseNameMaxLen = 120
	SetsMin            = 1
	SetsMax            = 20
	RepsMin            = 1
	RepsMax            = 100
)

// Defaults applied when sets/reps are omitted on creation.
const (
	DefaultSets = 3
	DefaultReps = 10
)
