package service

import (
	"context"
	"go-portfolio-app/internal/data"
	"time"
)

// UserRepository defines the database operations the user service relies on.
type UserRepository interface {
	Create(ctx context.Context, user *data.User) error
	GetByID(ctx context.Context, id int64) (*data.User, error)
	GetByUsername(ctx context.Context, username string) (*data.User, error)
	GetByEmail(ctx context.Context, email string) (*data.User, error)
	GetByUsernameOrEmail(ctx context.Context, identifier string) (*data.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// CommentRepository defines the database operations on comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *data.Comment) error
	GetActiveByID(ctx context.Context, id int64) (*data.Comment, error)
	ListActiveByPage(ctx context.Context, page string, limit, offset int) ([]*data.Comment, error)
	CountActiveByPage(ctx context.Context, page string) (int, error)
	MarkDeleted(ctx context.Context, id int64) error
}

// AboutRepository stores the single AboutMe row.
type AboutRepository interface {
	Get(ctx context.Context) (*data.AboutMe, error)
	Upsert(ctx context.Context, about *data.AboutMe) error
}

// WorkRepository stores work experiences and their projects.
type WorkRepository interface {
	Create(ctx context.Context, work *data.WorkExperience) error
	List(ctx context.Context) ([]*data.WorkExperience, error)
	GetByID(ctx context.Context, id int64) (*data.WorkExperience, error)
	Delete(ctx context.Context, id int64) error
	CreateProject(ctx context.Context, project *data.WorkProject) error
	ListProjects(ctx context.Context) ([]*data.WorkProject, error)
	ListProjectsByWork(ctx context.Context, workID int64) ([]*data.WorkProject, error)
	DeleteProject(ctx context.Context, id int64) error
}

// EducationRepository stores education experiences.
type EducationRepository interface {
	Create(ctx context.Context, edu *data.EducationExperience) error
	List(ctx context.Context) ([]*data.EducationExperience, error)
	Delete(ctx context.Context, id int64) error
}

// SkillRepository stores skills.
type SkillRepository interface {
	Create(ctx context.Context, skill *data.Skill) error
	List(ctx context.Context) ([]*data.Skill, error)
	ListByCategory(ctx context.Context, category data.SkillCategory) ([]*data.Skill, error)
	Delete(ctx context.Context, id int64) error
}

// KVCache is the subset of the render cache used by the markdown renderer.
type KVCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

var (
	_ UserRepository      = (*data.UserRepository)(nil)
	_ CommentRepository   = (*data.CommentRepository)(nil)
	_ AboutRepository     = (*data.AboutRepository)(nil)
	_ WorkRepository      = (*data.WorkRepository)(nil)
	_ EducationRepository = (*data.EducationRepository)(nil)
	_ SkillRepository     = (*data.SkillRepository)(nil)
)
