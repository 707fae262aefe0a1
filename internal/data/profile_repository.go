package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// aboutMeID is the primary key of the only about_me row.
const aboutMeID = 1

// AboutRepository handles the about_me singleton.
type AboutRepository struct {
	db *sqlx.DB
}

// NewAboutRepository creates a new AboutRepository.
func NewAboutRepository(db *sqlx.DB) *AboutRepository {
	return &AboutRepository{db: db}
}

// Get returns the about_me row or ErrNotFound.
func (r *AboutRepository) Get(ctx context.Context) (*AboutMe, error) {
	var about AboutMe
	query := `SELECT id, name, hometown, email, user_id FROM about_me WHERE id = ?`
	if err := r.db.GetContext(ctx, &about, query, aboutMeID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get about me: %w", err)
	}
	return &about, nil
}

// Upsert replaces the about_me row, creating it on first use. The fixed
// primary key, checked by the schema, keeps the table at one row.
func (r *AboutRepository) Upsert(ctx context.Context, about *AboutMe) error {
	about.ID = aboutMeID
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var n int
		if err := tx.GetContext(ctx, &n, `SELECT COUNT(*) FROM about_me WHERE id = ?`, aboutMeID); err != nil {
			return fmt.Errorf("failed to check about me: %w", err)
		}
		query := `INSERT INTO about_me (id, name, hometown, email, user_id) VALUES (:id, :name, :hometown, :email, :user_id)`
		if n > 0 {
			query = `UPDATE about_me SET name = :name, hometown = :hometown, email = :email, user_id = :user_id WHERE id = :id`
		}
		if _, err := tx.NamedExecContext(ctx, query, about); err != nil {
			return fmt.Errorf("failed to save about me: %w", translateError(err))
		}
		return nil
	})
}

// WorkRepository handles work experiences and their projects.
type WorkRepository struct {
	db *sqlx.DB
}

// NewWorkRepository creates a new WorkRepository.
func NewWorkRepository(db *sqlx.DB) *WorkRepository {
	return &WorkRepository{db: db}
}

// Create inserts a work experience and sets its ID.
func (r *WorkRepository) Create(ctx context.Context, work *WorkExperience) error {
	query := `INSERT INTO work_experiences (company_name, start_date, end_date, user_id) VALUES (:company_name, :start_date, :end_date, :user_id)`
	id, err := insert(ctx, r.db, query, work)
	if err != nil {
		return fmt.Errorf("failed to create work experience: %w", err)
	}
	work.ID = id
	return nil
}

// List returns all work experiences, most recent first.
func (r *WorkRepository) List(ctx context.Context) ([]*WorkExperience, error) {
	works := []*WorkExperience{}
	query := `SELECT id, company_name, start_date, end_date, user_id FROM work_experiences ORDER BY start_date DESC, id DESC`
	if err := r.db.SelectContext(ctx, &works, query); err != nil {
		return nil, fmt.Errorf("failed to list work experiences: %w", err)
	}
	return works, nil
}

// GetByID retrieves a work experience by ID.
func (r *WorkRepository) GetByID(ctx context.Context, id int64) (*WorkExperience, error) {
	var work WorkExperience
	query := `SELECT id, company_name, start_date, end_date, user_id FROM work_experiences WHERE id = ?`
	if err := r.db.GetContext(ctx, &work, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get work experience: %w", err)
	}
	return &work, nil
}

// Delete removes a work experience that has no projects. The existence check
// and the delete are one statement, so a project inserted concurrently either
// lands before it (and blocks the delete) or fails its foreign key.
// Returns ErrReferenced while projects exist and ErrNotFound for unknown IDs.
func (r *WorkRepository) Delete(ctx context.Context, id int64) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `DELETE FROM work_experiences WHERE id = ? AND NOT EXISTS (SELECT 1 FROM work_projects WHERE work_experience_id = ?)`
		res, err := tx.ExecContext(ctx, query, id, id)
		if err != nil {
			return fmt.Errorf("failed to delete work experience: %w", translateError(err))
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if n > 0 {
			return nil
		}

		var exists int
		if err := tx.GetContext(ctx, &exists, `SELECT COUNT(*) FROM work_experiences WHERE id = ?`, id); err != nil {
			return fmt.Errorf("failed to check work experience: %w", err)
		}
		if exists == 0 {
			return ErrNotFound
		}
		return ErrReferenced
	})
}

// CreateProject inserts a project under an existing work experience.
// An unknown parent results in ErrNotFound.
func (r *WorkRepository) CreateProject(ctx context.Context, project *WorkProject) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var exists int
		if err := tx.GetContext(ctx, &exists, `SELECT COUNT(*) FROM work_experiences WHERE id = ?`, project.WorkExperienceID); err != nil {
			return fmt.Errorf("failed to check work experience: %w", err)
		}
		if exists == 0 {
			return ErrNotFound
		}

		query := `INSERT INTO work_projects (work_experience_id, project_name, achievement) VALUES (:work_experience_id, :project_name, :achievement)`
		id, err := insert(ctx, tx, query, project)
		if err != nil {
			if errors.Is(err, ErrReferenced) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to create project: %w", err)
		}
		project.ID = id
		return nil
	})
}

// ListProjects returns every project.
func (r *WorkRepository) ListProjects(ctx context.Context) ([]*WorkProject, error) {
	projects := []*WorkProject{}
	query := `SELECT id, work_experience_id, project_name, achievement FROM work_projects ORDER BY work_experience_id, id`
	if err := r.db.SelectContext(ctx, &projects, query); err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// ListProjectsByWork returns the projects of one work experience.
func (r *WorkRepository) ListProjectsByWork(ctx context.Context, workID int64) ([]*WorkProject, error) {
	projects := []*WorkProject{}
	query := `SELECT id, work_experience_id, project_name, achievement FROM work_projects WHERE work_experience_id = ? ORDER BY id`
	if err := r.db.SelectContext(ctx, &projects, query, workID); err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// DeleteProject removes a project.
func (r *WorkRepository) DeleteProject(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, "work_projects", id)
}

// EducationRepository handles education experiences.
type EducationRepository struct {
	db *sqlx.DB
}

// NewEducationRepository creates a new EducationRepository.
func NewEducationRepository(db *sqlx.DB) *EducationRepository {
	return &EducationRepository{db: db}
}

// Create inserts an education experience and sets its ID.
func (r *EducationRepository) Create(ctx context.Context, edu *EducationExperience) error {
	query := `INSERT INTO education_experiences (school_name, start_date, end_date, learn_details, user_id) VALUES (:school_name, :start_date, :end_date, :learn_details, :user_id)`
	id, err := insert(ctx, r.db, query, edu)
	if err != nil {
		return fmt.Errorf("failed to create education experience: %w", err)
	}
	edu.ID = id
	return nil
}

// List returns all education experiences, most recent first.
func (r *EducationRepository) List(ctx context.Context) ([]*EducationExperience, error) {
	edus := []*EducationExperience{}
	query := `SELECT id, school_name, start_date, end_date, learn_details, user_id FROM education_experiences ORDER BY start_date DESC, id DESC`
	if err := r.db.SelectContext(ctx, &edus, query); err != nil {
		return nil, fmt.Errorf("failed to list education experiences: %w", err)
	}
	return edus, nil
}

// Delete removes an education experience.
func (r *EducationRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, "education_experiences", id)
}

// SkillRepository handles skills.
type SkillRepository struct {
	db *sqlx.DB
}

// NewSkillRepository creates a new SkillRepository.
func NewSkillRepository(db *sqlx.DB) *SkillRepository {
	return &SkillRepository{db: db}
}

// Create inserts a skill and sets its ID.
func (r *SkillRepository) Create(ctx context.Context, skill *Skill) error {
	query := `INSERT INTO skills (category, title, description, user_id) VALUES (:category, :title, :description, :user_id)`
	id, err := insert(ctx, r.db, query, skill)
	if err != nil {
		return fmt.Errorf("failed to create skill: %w", err)
	}
	skill.ID = id
	return nil
}

// List returns all skills.
func (r *SkillRepository) List(ctx context.Context) ([]*Skill, error) {
	skills := []*Skill{}
	query := `SELECT id, category, title, description, user_id FROM skills ORDER BY id`
	if err := r.db.SelectContext(ctx, &skills, query); err != nil {
		return nil, fmt.Errorf("failed to list skills: %w", err)
	}
	return skills, nil
}

// ListByCategory returns the skills of one category.
func (r *SkillRepository) ListByCategory(ctx context.Context, category SkillCategory) ([]*Skill, error) {
	skills := []*Skill{}
	query := `SELECT id, category, title, description, user_id FROM skills WHERE category = ? ORDER BY id`
	if err := r.db.SelectContext(ctx, &skills, query, category); err != nil {
		return nil, fmt.Errorf("failed to list skills: %w", err)
	}
	return skills, nil
}

// Delete removes a skill.
func (r *SkillRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, "skills", id)
}

// namedExecer is satisfied by both *sqlx.DB and *sqlx.Tx.
type namedExecer interface {
	NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
}

func insert(ctx context.Context, db namedExecer, query string, arg interface{}) (int64, error) {
	res, err := db.NamedExecContext(ctx, query, arg)
	if err != nil {
		return 0, translateError(err)
	}
	return res.LastInsertId()
}

// deleteByID removes one row from table. The table name is always a constant
// supplied by this package.
func deleteByID(ctx context.Context, db *sqlx.DB, table string, id int64) error {
	res, err := db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table, translateError(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// withTx runs fn in a transaction, committing on success.
func withTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
