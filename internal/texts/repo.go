package texts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/textboard/textboard-backend/internal/storage"
)

// Repo performs workspace-scoped CRUD on texts. Every query filters on
// workspace_id in addition to the entity id, so a leaked id from another
// workspace resolves to nothing.
type Repo struct {
	db storage.PgxPool
}

func NewRepo(db storage.PgxPool) *Repo {
	return &Repo{db: db}
}

const textColumns = "id, workspace_id, title, content, created_by, created_at, updated_at"

func scanText(row pgx.Row) (*Text, error) {
	var t Text
	err := row.Scan(&t.ID, &t.WorkspaceID, &t.Title, &t.Content, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *Repo) ListByWorkspace(ctx context.Context, workspaceID string) ([]Text, error) {
	const q = `SELECT id, workspace_id, title, content, created_by, created_at, updated_at
FROM texts
WHERE workspace_id = $1
ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, q, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Text, 0, 16)
	for rows.Next() {
		var t Text
		if err := rows.Scan(&t.ID, &t.WorkspaceID, &t.Title, &t.Content, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// GetByID returns the text, or nil when absent. Absence is not an error;
// callers decide the semantics.
func (r *Repo) GetByID(ctx context.Context, id, workspaceID string) (*Text, error) {
	const q = `SELECT id, workspace_id, title, content, created_by, created_at, updated_at
FROM texts
WHERE id = $1 AND workspace_id = $2`

	t, err := scanText(r.db.QueryRow(ctx, q, id, workspaceID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Create assigns the id and timestamps server-side and returns the persisted
// row.
func (r *Repo) Create(ctx context.Context, workspaceID string, data CreateText) (*Text, error) {
	const q = `INSERT INTO texts (id, workspace_id, title, content, created_by, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
RETURNING id, workspace_id, title, content, created_by, created_at, updated_at`

	id := uuid.NewString()
	return scanText(r.db.QueryRow(ctx, q, id, workspaceID, data.Title, data.Content, data.CreatedBy))
}

// Update applies only the provided fields and refreshes updated_at. An empty
// update behaves as a read of the current state. Returns nil when the row is
// absent.
func (r *Repo) Update(ctx context.Context, id, workspaceID string, data UpdateText) (*Text, error) {
	fields := make([]string, 0, 2)
	values := make([]any, 0, 4)
	idx := 1

	if data.Title != nil {
		fields = append(fields, fmt.Sprintf("title = $%d", idx))
		values = append(values, *data.Title)
		idx++
	}
	if data.Content != nil {
		fields = append(fields, fmt.Sprintf("content = $%d", idx))
		values = append(values, *data.Content)
		idx++
	}

	if len(fields) == 0 {
		return r.GetByID(ctx, id, workspaceID)
	}

	fields = append(fields, "updated_at = NOW()")
	values = append(values, id, workspaceID)

	q := fmt.Sprintf(`UPDATE texts
SET %s
WHERE id = $%d AND workspace_id = $%d
RETURNING id, workspace_id, title, content, created_by, created_at, updated_at`,
		strings.Join(fields, ", "), idx, idx+1)

	t, err := scanText(r.db.QueryRow(ctx, q, values...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Delete physically removes the row and reports whether one was removed.
func (r *Repo) Delete(ctx context.Context, id, workspaceID string) (bool, error) {
	const q = `DELETE FROM texts WHERE id = $1 AND workspace_id = $2`

	ct, err := r.db.Exec(ctx, q, id, workspaceID)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

func (r *Repo) Count(ctx context.Context, workspaceID string) (int, error) {
	const q = `SELECT COUNT(*) FROM texts WHERE workspace_id = $1`

	var count int64
	if err := r.db.QueryRow(ctx, q, workspaceID).Scan(&count); err != nil {
		return 0, err
	}
	return int(count), nil
}
