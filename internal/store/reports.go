package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/replaylens/replaylens/internal/apperr"
	"github.com/replaylens/replaylens/internal/logger"
	"github.com/replaylens/replaylens/internal/models"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// SaveReport upserts a finished report. The full report is stored as a
// JSON blob alongside the columns the archive listing filters on.
func (s *Store) SaveReport(ctx context.Context, report models.AnalysisReport) error {
	log := logger.FromContext(ctx).WithPrefix("store")
	log.Debug("saving report: game_id=%s, moves=%d", report.GameID, report.TotalMoves)

	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now().UTC()
	}
	blob, err := json.Marshal(report)
	if err != nil {
		log.Error("failed to marshal report: %v", err)
		return err
	}

	_, err = s.ExecContext(ctx, `
INSERT INTO reports (
    game_id, white, black, result, opening, total_moves,
    white_mistakes, black_mistakes, white_blunders, black_blunders,
    report_json, created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(game_id) DO UPDATE SET
    white = excluded.white,
    black = excluded.black,
    result = excluded.result,
    opening = excluded.opening,
    total_moves = excluded.total_moves,
    white_mistakes = excluded.white_mistakes,
    black_mistakes = excluded.black_mistakes,
    white_blunders = excluded.white_blunders,
    black_blunders = excluded.black_blunders,
    report_json = excluded.report_json,
    created_at = excluded.created_at
`, report.GameID, report.Game.White.Username, report.Game.Black.Username, report.Game.Result, report.Game.Opening,
		report.TotalMoves, report.WhiteMistakes, report.BlackMistakes, report.WhiteBlunders, report.BlackBlunders,
		string(blob), report.CreatedAt)
	if err != nil {
		log.Error("failed to save report: %v", err)
		return err
	}

	s.cache.Add(report.GameID, report)
	log.Debug("report saved: game_id=%s", report.GameID)
	return nil
}

// GetReport returns an archived report. Recently written or read reports
// come from the in-memory cache without touching disk.
func (s *Store) GetReport(ctx context.Context, gameID string) (*models.AnalysisReport, error) {
	log := logger.FromContext(ctx).WithPrefix("store")

	if report, ok := s.cache.Get(gameID); ok {
		log.Debug("report cache hit: game_id=%s", gameID)
		return &report, nil
	}

	var blob string
	err := s.QueryRowContext(ctx, `SELECT report_json FROM reports WHERE game_id = ?`, gameID).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("report not found: game_id=%s", gameID)
		return nil, apperr.NewNotFoundError("report", gameID)
	}
	if err != nil {
		log.Error("failed to get report: %v", err)
		return nil, err
	}

	var report models.AnalysisReport
	if err := json.Unmarshal([]byte(blob), &report); err != nil {
		log.Error("failed to decode report %s: %v", gameID, err)
		return nil, fmt.Errorf("decode report %s: %w", gameID, err)
	}
	s.cache.Add(gameID, report)
	return &report, nil
}

// ListReports returns archive summaries, newest first. Player matches
// either side of the board.
func (s *Store) ListReports(ctx context.Context, filter models.ReportFilter) ([]models.ReportSummary, error) {
	log := logger.FromContext(ctx).WithPrefix("store")
	log.Debug("listing reports: player=%s, limit=%d", filter.Player, filter.Limit)

	query := sqlBuilder.Select(
		"game_id", "white", "black", "result", "opening", "total_moves",
		"white_mistakes", "black_mistakes", "white_blunders", "black_blunders", "created_at",
	).From("reports")

	if filter.Player != "" {
		query = query.Where(squirrel.Or{
			squirrel.Eq{"white": filter.Player},
			squirrel.Eq{"black": filter.Player},
		})
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	query = query.OrderBy("created_at DESC").Limit(uint64(limit))

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := s.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list reports: %v", err)
		return nil, err
	}
	defer rows.Close()

	summaries := make([]models.ReportSummary, 0)
	for rows.Next() {
		var r models.ReportSummary
		if err := rows.Scan(&r.GameID, &r.White, &r.Black, &r.Result, &r.Opening, &r.TotalMoves,
			&r.WhiteMistakes, &r.BlackMistakes, &r.WhiteBlunders, &r.BlackBlunders, &r.CreatedAt); err != nil {
			log.Error("failed to scan report row: %v", err)
			return nil, err
		}
		summaries = append(summaries, r)
	}
	log.Debug("found %d reports", len(summaries))
	return summaries, rows.Err()
}
