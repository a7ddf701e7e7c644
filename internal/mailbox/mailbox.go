// Package mailbox persists approved dispatches and department
// proposals in a local SQLite database.
package mailbox

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"boardbrief/internal/core"
	"boardbrief/internal/tailor"
)

// Store is the SQLite-backed mailbox.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (or creates) the mailbox database under dataDir.
func NewStore(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "boardbrief.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return store, nil
}

func (s *Store) initialize() error {
	dispatchesTable := `
	CREATE TABLE IF NOT EXISTS dispatches (
		id TEXT PRIMARY KEY,
		department_id TEXT NOT NULL,
		item TEXT NOT NULL,
		tailored_summary TEXT,
		tailored INTEGER NOT NULL DEFAULT 0,
		approved_at DATETIME NOT NULL
	);`

	proposalsTable := `
	CREATE TABLE IF NOT EXISTS proposals (
		id TEXT PRIMARY KEY,
		department_id TEXT NOT NULL,
		article_title TEXT,
		action_text TEXT,
		review TEXT,
		submitted_at DATETIME NOT NULL
	);`

	dispatchIndex := `
	CREATE INDEX IF NOT EXISTS idx_dispatches_department
	ON dispatches (department_id, approved_at);`

	for _, stmt := range []string{dispatchesTable, proposalsTable, dispatchIndex} {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// StoredDispatch is one persisted department inbox entry.
type StoredDispatch struct {
	ID              string         `json:"id"`
	DepartmentID    string         `json:"department_id"`
	Item            core.BriefItem `json:"item"`
	TailoredSummary string         `json:"tailored_summary"`
	Tailored        bool           `json:"tailored"`
	ApprovedAt      time.Time      `json:"approved_at"`
}

// AppendDispatches persists the fan-out of one approved item and
// returns the stored records with their assigned IDs.
func (s *Store) AppendDispatches(dispatches []tailor.Dispatch) ([]StoredDispatch, error) {
	stored := make([]StoredDispatch, 0, len(dispatches))
	for _, d := range dispatches {
		itemJSON, err := json.Marshal(d.Item)
		if err != nil {
			return stored, fmt.Errorf("failed to encode dispatch item: %w", err)
		}

		rec := StoredDispatch{
			ID:              uuid.NewString(),
			DepartmentID:    string(d.DepartmentID),
			Item:            d.Item,
			TailoredSummary: d.TailoredSummary,
			Tailored:        d.Tailored,
			ApprovedAt:      d.ApprovedAt,
		}

		_, err = s.db.Exec(`
			INSERT INTO dispatches (id, department_id, item, tailored_summary, tailored, approved_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			rec.ID, rec.DepartmentID, string(itemJSON), rec.TailoredSummary, rec.Tailored, rec.ApprovedAt)
		if err != nil {
			return stored, fmt.Errorf("failed to store dispatch for %s: %w", rec.DepartmentID, err)
		}
		stored = append(stored, rec)
	}
	return stored, nil
}

// ListByDepartment returns a department's inbox, newest first.
func (s *Store) ListByDepartment(departmentID string) ([]StoredDispatch, error) {
	rows, err := s.db.Query(`
		SELECT id, department_id, item, tailored_summary, tailored, approved_at
		FROM dispatches
		WHERE department_id = ?
		ORDER BY approved_at DESC`, departmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query dispatches: %w", err)
	}
	defer rows.Close()

	var out []StoredDispatch
	for rows.Next() {
		var (
			rec      StoredDispatch
			itemJSON string
		)
		if err := rows.Scan(&rec.ID, &rec.DepartmentID, &itemJSON, &rec.TailoredSummary, &rec.Tailored, &rec.ApprovedAt); err != nil {
			return nil, fmt.Errorf("failed to scan dispatch: %w", err)
		}
		if err := json.Unmarshal([]byte(itemJSON), &rec.Item); err != nil {
			return nil, fmt.Errorf("failed to decode dispatch item %s: %w", rec.ID, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// StoredProposal is one persisted department proposal with its board
// screening.
type StoredProposal struct {
	ID           string        `json:"id"`
	DepartmentID string        `json:"department_id"`
	ArticleTitle string        `json:"article_title"`
	ActionText   string        `json:"action_text"`
	Review       tailor.Review `json:"review"`
	SubmittedAt  time.Time     `json:"submitted_at"`
}

// AppendProposal persists one screened proposal.
func (s *Store) AppendProposal(departmentID, articleTitle, actionText string, review tailor.Review) (StoredProposal, error) {
	reviewJSON, err := json.Marshal(review)
	if err != nil {
		return StoredProposal{}, fmt.Errorf("failed to encode proposal review: %w", err)
	}

	rec := StoredProposal{
		ID:           uuid.NewString(),
		DepartmentID: departmentID,
		ArticleTitle: articleTitle,
		ActionText:   actionText,
		Review:       review,
		SubmittedAt:  time.Now().UTC(),
	}

	_, err = s.db.Exec(`
		INSERT INTO proposals (id, department_id, article_title, action_text, review, submitted_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.DepartmentID, rec.ArticleTitle, rec.ActionText, string(reviewJSON), rec.SubmittedAt)
	if err != nil {
		return StoredProposal{}, fmt.Errorf("failed to store proposal: %w", err)
	}
	return rec, nil
}

// ListProposals returns all proposals, newest first, optionally scoped
// to one department with a non-empty departmentID.
func (s *Store) ListProposals(departmentID string) ([]StoredProposal, error) {
	query := `
		SELECT id, department_id, article_title, action_text, review, submitted_at
		FROM proposals`
	args := []any{}
	if departmentID != "" {
		query += ` WHERE department_id = ?`
		args = append(args, departmentID)
	}
	query += ` ORDER BY submitted_at DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query proposals: %w", err)
	}
	defer rows.Close()

	var out []StoredProposal
	for rows.Next() {
		var (
			rec        StoredProposal
			reviewJSON string
		)
		if err := rows.Scan(&rec.ID, &rec.DepartmentID, &rec.ArticleTitle, &rec.ActionText, &reviewJSON, &rec.SubmittedAt); err != nil {
			return nil, fmt.Errorf("failed to scan proposal: %w", err)
		}
		if err := json.Unmarshal([]byte(reviewJSON), &rec.Review); err != nil {
			return nil, fmt.Errorf("failed to decode proposal review %s: %w", rec.ID, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
