package comments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/textboard/textboard-backend/internal/storage"
)

// Repo performs workspace-scoped CRUD on comments.
type Repo struct {
	db storage.PgxPool
}

func NewRepo(db storage.PgxPool) *Repo {
	return &Repo{db: db}
}

func scanComment(row pgx.Row) (*Comment, error) {
	var c Comment
	err := row.Scan(&c.ID, &c.WorkspaceID, &c.TextID, &c.Content, &c.Author, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repo) collect(rows pgx.Rows) ([]Comment, error) {
	defer rows.Close()

	out := make([]Comment, 0, 16)
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.WorkspaceID, &c.TextID, &c.Content, &c.Author, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repo) ListByWorkspace(ctx context.Context, workspaceID string) ([]Comment, error) {
	const q = `SELECT id, workspace_id, text_id, content, author, created_by, created_at, updated_at
FROM comments
WHERE workspace_id = $1
ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, q, workspaceID)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

func (r *Repo) ListByText(ctx context.Context, workspaceID, textID string) ([]Comment, error) {
	const q = `SELECT id, workspace_id, text_id, content, author, created_by, created_at, updated_at
FROM comments
WHERE workspace_id = $1 AND text_id = $2
ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, q, workspaceID, textID)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

// GetByID returns the comment, or nil when absent.
func (r *Repo) GetByID(ctx context.Context, id, workspaceID string) (*Comment, error) {
	const q = `SELECT id, workspace_id, text_id, content, author, created_by, created_at, updated_at
FROM comments
WHERE id = $1 AND workspace_id = $2`

	c, err := scanComment(r.db.QueryRow(ctx, q, id, workspaceID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *Repo) Create(ctx context.Context, workspaceID string, data CreateComment) (*Comment, error) {
	const q = `INSERT INTO comments (id, workspace_id, text_id, content, author, created_by, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
RETURNING id, workspace_id, text_id, content, author, created_by, created_at, updated_at`

	id := uuid.NewString()
	return scanComment(r.db.QueryRow(ctx, q, id, workspaceID, data.TextID, data.Content, data.Author, data.CreatedBy))
}

// Update applies only the provided fields; an empty update reads back the
// current state.
func (r *Repo) Update(ctx context.Context, id, workspaceID string, data UpdateComment) (*Comment, error) {
	fields := make([]string, 0, 2)
	values := make([]any, 0, 4)
	idx := 1

	if data.Content != nil {
		fields = append(fields, fmt.Sprintf("content = $%d", idx))
		values = append(values, *data.Content)
		idx++
	}
	if data.Author != nil {
		fields = append(fields, fmt.Sprintf("author = $%d", idx))
		values = append(values, *data.Author)
		idx++
	}

	if len(fields) == 0 {
		return r.GetByID(ctx, id, workspaceID)
	}

	fields = append(fields, "updated_at = NOW()")
	values = append(values, id, workspaceID)

	q := fmt.Sprintf(`UPDATE comments
SET %s
WHERE id = $%d AND workspace_id = $%d
RETURNING id, workspace_id, text_id, content, author, created_by, created_at, updated_at`,
		strings.Join(fields, ", "), idx, idx+1)

	c, err := scanComment(r.db.QueryRow(ctx, q, values...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *Repo) Delete(ctx context.Context, id, workspaceID string) (bool, error) {
	const q = `DELETE FROM comments WHERE id = $1 AND workspace_id = $2`

	ct, err := r.db.Exec(ctx, q, id, workspaceID)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

func (r *Repo) Count(ctx context.Context, workspaceID string) (int, error) {
	const q = `SELECT COUNT(*) FROM comments WHERE workspace_id = $1`

	var count int64
	if err := r.db.QueryRow(ctx, q, workspaceID).Scan(&count); err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *Repo) CountByText(ctx context.Context, workspaceID, textID string) (int, error) {
	const q = `SELECT COUNT(*) FROM comments WHERE workspace_id = $1 AND text_id = $2`

	var count int64
	if err := r.db.QueryRow(ctx, q, workspaceID, textID).Scan(&count); err != nil {
		return 0, err
	}
	return int(count), nil
}

// CountOrphans returns per-workspace counts of comments whose text no longer
// exists. Used by the maintenance audit; orphans are tolerated, not removed.
func (r *Repo) CountOrphans(ctx context.Context) (map[string]int, error) {
	const q = `SELECT c.workspace_id, COUNT(*)
FROM comments c
WHERE NOT EXISTS (
    SELECT 1 FROM texts t
    WHERE t.id = c.text_id AND t.workspace_id = c.workspace_id
)
GROUP BY c.workspace_id`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var workspaceID string
		var count int64
		if err := rows.Scan(&workspaceID, &count); err != nil {
			return nil, err
		}
		out[workspaceID] = int(count)
	}
	return out, rows.Err()
}
