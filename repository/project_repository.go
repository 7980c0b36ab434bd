package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	models "my-social/model"
)

const (
	thumbnailService     = "https://image.thum.io/get/"
	thumbnailPlaceholder = "https://via.placeholder.com/400x300?text=No+Preview"
)

type ProjectRepository interface {
	List(ctx context.Context, status models.ProjectStatus) ([]models.Project, error)
	GetByID(ctx context.Context, projectID int64) (*models.Project, error)
}

type projectRepository struct {
	db *sqlx.DB
}

func NewProjectRepository(db *sqlx.DB) ProjectRepository {
	return &projectRepository{db: db}
}

const projectColumns = `id, title, description, status, progress, role, start_date, expected_end_date, members, detail_url, created_at`

// List returns projects newest first. An empty status or ProjectAll
// disables the status filter.
func (r *projectRepository) List(ctx context.Context, status models.ProjectStatus) ([]models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects`
	args := []interface{}{}

	if status != "" && status != models.ProjectAll {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	projects := []models.Project{}
	if err := r.db.SelectContext(ctx, &projects, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	for i := range projects {
		projects[i].ThumbnailURL = ThumbnailURL(projects[i].DetailURL)
	}
	return projects, nil
}

func (r *projectRepository) GetByID(ctx context.Context, projectID int64) (*models.Project, error) {
	var project models.Project
	err := r.db.GetContext(ctx, &project, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, projectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("project %d: %w", projectID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	project.ThumbnailURL = ThumbnailURL(project.DetailURL)
	return &project, nil
}

// ThumbnailURL returns a screenshot URL for the project site, or a
// placeholder when the project has none.
func ThumbnailURL(detailURL *string) string {
	if detailURL == nil || *detailURL == "" {
		return thumbnailPlaceholder
	}
	return thumbnailService + *detailURL
}
