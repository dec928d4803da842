package models

import "time"

// Move quality categories, ordered by increasing severity.
const (
	CategoryAccurate   = "accurate"
	CategoryGood       = "good"
	CategoryInaccuracy = "inaccuracy"
	CategoryMistake    = "mistake"
	CategoryBlunder    = "blunder"
)

// Player colors as they appear in API responses.
const (
	ColorWhite = "white"
	ColorBlack = "black"
)

// Player identifies one side of a game. Rating is absent when the source
// reports "?" or nothing at all.
type Player struct {
	Username string `json:"username"`
	Rating   *int   `json:"rating,omitempty"`
}

// GameRecord is a fetched game: metadata plus the ordered SAN move list.
type GameRecord struct {
	GameID  string   `json:"game_id"`
	White   Player   `json:"white"`
	Black   Player   `json:"black"`
	PGN     string   `json:"pgn"`
	Opening string   `json:"opening,omitempty"`
	Result  string   `json:"result"`
	Moves   []string `json:"moves"`
}

// MoveRecord is one analyzed half-move. Ply is 1-based; White plays odd
// plies. DeltaCP and DeltaMate carry the evaluation change from the mover's
// perspective; at most one is set.
type MoveRecord struct {
	Ply       int       `json:"ply"`
	Move      string    `json:"move"`
	Player    string    `json:"player"`
	Before    CloudEval `json:"before_eval"`
	After     CloudEval `json:"after_eval"`
	DeltaCP   *int      `json:"delta_cp,omitempty"`
	DeltaMate *int      `json:"delta_mate,omitempty"`
	Category  string    `json:"category"`
	BestMove  string    `json:"best_move,omitempty"`
	Summary   string    `json:"summary"`
}

// AnalysisReport is the full result of analyzing one game.
type AnalysisReport struct {
	GameID        string       `json:"game_id"`
	Game          GameRecord   `json:"game_data"`
	Moves         []MoveRecord `json:"evaluations"`
	TotalMoves    int          `json:"total_moves"`
	WhiteMistakes int          `json:"white_mistakes"`
	BlackMistakes int          `json:"black_mistakes"`
	WhiteBlunders int          `json:"white_blunders"`
	BlackBlunders int          `json:"black_blunders"`
	CreatedAt     time.Time    `json:"created_at"`
}

// PlayerStats aggregates per-category counts for one side, computed from an
// eval-annotated PGN.
type PlayerStats struct {
	Accurate   int     `json:"accurate"`
	Good       int     `json:"good"`
	Inaccuracy int     `json:"inaccuracy"`
	Mistake    int     `json:"mistake"`
	Blunder    int     `json:"blunder"`
	Total      int     `json:"total_moves"`
	Accuracy   float64 `json:"average_accuracy"`
	Assessment string  `json:"overall_assessment"`
}

// GameStats pairs both sides' stats for the stats endpoint.
type GameStats struct {
	GameID     string      `json:"game_id"`
	White      PlayerStats `json:"white"`
	Black      PlayerStats `json:"black"`
	TotalMoves int         `json:"total_moves"`
}

// MoveEvalDetail is the single-ply view served by the eval endpoint: the
// annotated evaluations around one move, with the delta already expressed
// from the mover's perspective.
type MoveEvalDetail struct {
	GameID     string `json:"game_id"`
	Ply        int    `json:"ply"`
	Move       string `json:"move"`
	Player     string `json:"player"`
	BeforeCP   *int   `json:"before_cp,omitempty"`
	BeforeMate *int   `json:"before_mate,omitempty"`
	AfterCP    *int   `json:"after_cp,omitempty"`
	AfterMate  *int   `json:"after_mate,omitempty"`
	DeltaCP    *int   `json:"delta_cp,omitempty"`
	DeltaMate  *int   `json:"delta_mate,omitempty"`
	Category   string `json:"category"`
	FENBefore  string `json:"fen_before"`
	FENAfter   string `json:"fen_after"`
}

// AnnotatedMove is one half-move carrying the evaluation embedded in the PGN
// comment that follows it. Ply 0 is reserved for the pre-game evaluation
// node when present.
type AnnotatedMove struct {
	Ply  int
	SAN  string
	CP   *int
	Mate *int
}

// ResearchResult reports how a position was mirrored into the external
// analysis board: via a live browser session or as a URL for the caller to
// open.
type ResearchResult struct {
	GameID string `json:"game_id"`
	Ply    int    `json:"ply"`
	URL    string `json:"url"`
	Method string `json:"method"`
}

// CaptureResult carries the board-image URL for a position.
type CaptureResult struct {
	GameID string `json:"game_id"`
	Ply    int    `json:"ply"`
	FEN    string `json:"fen"`
	URL    string `json:"url"`
}

// ReportFilter selects archived reports. Player matches either side of the
// board; a zero Limit falls back to the archive default.
type ReportFilter struct {
	Player string
	Limit  int
}

// ReportSummary is one row of the archive listing, without the full
// per-move evaluations.
type ReportSummary struct {
	GameID        string    `json:"game_id"`
	White         string    `json:"white"`
	Black         string    `json:"black"`
	Result        string    `json:"result"`
	Opening       string    `json:"opening,omitempty"`
	TotalMoves    int       `json:"total_moves"`
	WhiteMistakes int       `json:"white_mistakes"`
	BlackMistakes int       `json:"black_mistakes"`
	WhiteBlunders int       `json:"white_blunders"`
	BlackBlunders int       `json:"black_blunders"`
	CreatedAt     time.Time `json:"created_at"`
}
