package engine

// Direction represents one of the four movement headings
type Direction string

const (
	DirUp    Direction = "up"
	DirDown  Direction = "down"
	DirLeft  Direction = "left"
	DirRight Direction = "right"
)

// GameStatus represents the lifecycle state of a game
type GameStatus string

const (
	StatusIdle     GameStatus = "idle"
	StatusPlaying  GameStatus = "playing"
	StatusPaused   GameStatus = "paused"
	StatusGameOver GameStatus = "game_over"
)

// GameOverCause identifies which collision ended a run
type GameOverCause string

const (
	CauseWall GameOverCause = "wall"
	CauseSelf GameOverCause = "self"
)

const (
	// Validation constants
	MinGridSize       = 8
	MaxGridSize       = 64
	MinTickIntervalMs = 20
	MaxTickIntervalMs = 2000

	// Defaults for the classic rules
	DefaultGridSize       = 20
	DefaultInitialSpeedMs = 200
	DefaultMinSpeedMs     = 80
	DefaultSpeedStepMs    = 10
	DefaultFoodScore      = 10
	DefaultInitialLength  = 3

	WebSocketBufferSize = 256
)

// Point represents x,y grid coordinates
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// GameConfig represents a rules configuration loaded from JSON
type GameConfig struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	GridSize       int    `json:"grid_size"`
	InitialSpeedMs int    `json:"initial_speed_ms"`
	MinSpeedMs     int    `json:"min_speed_ms"`
	SpeedStepMs    int    `json:"speed_step_ms"`
	FoodScore      int    `json:"food_score"`
	InitialLength  int    `json:"initial_length"`
	Messages       struct {
		Welcome      string `json:"welcome"`
		Started      string `json:"started"`
		Paused       string `json:"paused"`
		Resumed      string `json:"resumed"`
		FoodEaten    string `json:"food_eaten"`
		NewHighScore string `json:"new_high_score"`
		GameOverWall string `json:"game_over_wall"`
		GameOverSelf string `json:"game_over_self"`
	} `json:"messages"`
}

// GameState represents the complete game state.
//
// Snake is ordered head first, tail last. Direction is the buffered heading
// applied on the next tick; LastApplied is the heading used by the most
// recently executed tick and is the authority for reversal checks. Speed is
// the tick interval in milliseconds and only shrinks while playing.
type GameState struct {
	Snake       []Point       `json:"snake"`
	Food        Point         `json:"food"`
	Direction   Direction     `json:"direction"`
	LastApplied Direction     `json:"last_applied_direction"`
	Status      GameStatus    `json:"status"`
	Score       int           `json:"score"`
	HighScore   int           `json:"high_score"`
	Speed       int           `json:"speed_ms"`
	GridSize    int           `json:"grid_size"`
	Ticks       uint64        `json:"ticks"`
	RunID       string        `json:"run_id,omitempty"`
	Cause       GameOverCause `json:"game_over_cause,omitempty"`
	Message     string        `json:"message"`
	ConfigName  string        `json:"config_name"`

	// Runs tracks finished runs cumulatively. Like HighScore it survives a
	// start reset while every live field above is reinitialized.
	Runs       []RunRecord `json:"runs"`
	TotalGames int         `json:"total_games"`
}

// RunRecord represents a single finished run in the cumulative ledger
type RunRecord struct {
	RunID     string        `json:"run_id"`
	RunNumber int           `json:"run_number"`
	Score     int           `json:"score"`
	Ticks     uint64        `json:"ticks"`
	Length    int           `json:"length"`
	Cause     GameOverCause `json:"cause"`
	EndedAt   int64         `json:"ended_at"`
}

// Snapshot is the read-only projection of GameState handed across the render
// boundary. The snake slice is a copy; consumers never mutate engine state
// through it.
type Snapshot struct {
	RunID       string        `json:"run_id,omitempty"`
	Status      GameStatus    `json:"status"`
	GridSize    int           `json:"grid_size"`
	Snake       []Point       `json:"snake"`
	Food        Point         `json:"food"`
	Direction   Direction     `json:"direction"`
	LastApplied Direction     `json:"last_applied_direction"`
	Score       int           `json:"score"`
	HighScore   int           `json:"high_score"`
	Speed       int           `json:"speed_ms"`
	Ticks       uint64        `json:"ticks"`
	Cause       GameOverCause `json:"game_over_cause,omitempty"`
	Message     string        `json:"message,omitempty"`
}
