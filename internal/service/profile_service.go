package service

import (
	"context"
	"errors"
	"fmt"
	"go-portfolio-app/internal/data"
	"strings"

	"github.com/go-playground/validator/v10"
)

// AboutMeInput is the about me form.
type AboutMeInput struct {
	Name     string `form:"name" validate:"required,max=100"`
	Hometown string `form:"hometown" validate:"max=100"`
	Email    string `form:"email" validate:"omitempty,email,max=120"`
}

// WorkInput is the work experience form. Dates are YYYY-MM-DD or YYYY/MM/DD.
type WorkInput struct {
	CompanyName string `form:"company_name" validate:"required,max=100"`
	StartDate   string `form:"start_date" validate:"required"`
	EndDate     string `form:"end_date"`
}

// ProjectInput is the work project form.
type ProjectInput struct {
	WorkExperienceID int64  `form:"work_experience_id" validate:"required,gt=0"`
	ProjectName      string `form:"project_name" validate:"required,max=100"`
	Achievement      string `form:"achievement" validate:"max=500"`
}

// EducationInput is the education experience form.
type EducationInput struct {
	SchoolName   string `form:"school_name" validate:"required,max=100"`
	StartDate    string `form:"start_date" validate:"required"`
	EndDate      string `form:"end_date"`
	LearnDetails string `form:"learn_details" validate:"max=500"`
}

// SkillInput is the skill form.
type SkillInput struct {
	Category    string `form:"category" validate:"required,skillcat"`
	Title       string `form:"title" validate:"required,max=100"`
	Description string `form:"description" validate:"required"`
}

// SkillGroup is the skills of one category in display order.
type SkillGroup struct {
	Category data.SkillCategory
	Skills   []*data.Skill
}

// WorkHistory is one work experience with its projects.
type WorkHistory struct {
	Work     *data.WorkExperience
	Projects []*data.WorkProject
}

// ProfileServicer defines the profile operations used by the handlers.
type ProfileServicer interface {
	SaveAboutMe(ctx context.Context, in AboutMeInput, ownerID int64) (*data.AboutMe, error)
	GetAboutMe(ctx context.Context) (*data.AboutMe, error)
	AddWork(ctx context.Context, in WorkInput, ownerID int64) (*data.WorkExperience, error)
	ListWork(ctx context.Context) ([]*data.WorkExperience, error)
	DeleteWork(ctx context.Context, id int64) (bool, error)
	AddProject(ctx context.Context, in ProjectInput) (*data.WorkProject, error)
	ListProjects(ctx context.Context) ([]*data.WorkProject, error)
	WorkHistory(ctx context.Context) ([]WorkHistory, error)
	DeleteProject(ctx context.Context, id int64) (bool, error)
	AddEducation(ctx context.Context, in EducationInput, ownerID int64) (*data.EducationExperience, error)
	ListEducation(ctx context.Context) ([]*data.EducationExperience, error)
	DeleteEducation(ctx context.Context, id int64) (bool, error)
	AddSkill(ctx context.Context, in SkillInput, ownerID int64) (*data.Skill, error)
	ListSkills(ctx context.Context) ([]*data.Skill, error)
	SkillsByCategory(ctx context.Context) ([]SkillGroup, error)
	DeleteSkill(ctx context.Context, id int64) (bool, error)
	DeleteRecord(ctx context.Context, model string, id int64) (bool, error)
}

// ProfileService manages the portfolio records edited from the management page.
type ProfileService struct {
	about     AboutRepository
	work      WorkRepository
	education EducationRepository
	skills    SkillRepository
	renderer  *Renderer
	validate  *validator.Validate
}

// NewProfileService creates a new ProfileService. renderer may be nil, in
// which case skill descriptions are not rendered.
func NewProfileService(about AboutRepository, work WorkRepository, education EducationRepository, skills SkillRepository, renderer *Renderer) *ProfileService {
	return &ProfileService{
		about:     about,
		work:      work,
		education: education,
		skills:    skills,
		renderer:  renderer,
		validate:  newValidator(),
	}
}

// SaveAboutMe replaces the single about me record.
func (s *ProfileService) SaveAboutMe(ctx context.Context, in AboutMeInput, ownerID int64) (*data.AboutMe, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Hometown = strings.TrimSpace(in.Hometown)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validateStruct(s.validate, in); err != nil {
		return nil, err
	}

	about := &data.AboutMe{
		Name:     in.Name,
		Hometown: in.Hometown,
		Email:    in.Email,
		UserID:   ownerID,
	}
	if err := s.about.Upsert(ctx, about); err != nil {
		return nil, fmt.Errorf("failed to save about me: %w", err)
	}
	return about, nil
}

// GetAboutMe returns the about me record, or nil when none was saved yet.
func (s *ProfileService) GetAboutMe(ctx context.Context) (*data.AboutMe, error) {
	about, err := s.about.Get(ctx)
	if errors.Is(err, data.ErrNotFound) {
		return nil, nil
	}
	return about, err
}

// AddWork stores a work experience.
func (s *ProfileService) AddWork(ctx context.Context, in WorkInput, ownerID int64) (*data.WorkExperience, error) {
	in.CompanyName = strings.TrimSpace(in.CompanyName)
	if err := validateStruct(s.validate, in); err != nil {
		return nil, err
	}
	start, end, err := parseRange(in.StartDate, in.EndDate)
	if err != nil {
		return nil, err
	}

	work := &data.WorkExperience{
		CompanyName: in.CompanyName,
		StartDate:   start,
		EndDate:     end,
		UserID:      ownerID,
	}
	if err := s.work.Create(ctx, work); err != nil {
		return nil, fmt.Errorf("failed to add work experience: %w", err)
	}
	return work, nil
}

// ListWork returns every work experience.
func (s *ProfileService) ListWork(ctx context.Context) ([]*data.WorkExperience, error) {
	return s.work.List(ctx)
}

// DeleteWork removes a work experience. It fails with ErrIntegrity while
// projects still reference it.
func (s *ProfileService) DeleteWork(ctx context.Context, id int64) (bool, error) {
	err := s.work.Delete(ctx, id)
	if errors.Is(err, data.ErrReferenced) {
		return false, ErrIntegrity
	}
	return deleted(err)
}

// AddProject stores a project under an existing work experience.
func (s *ProfileService) AddProject(ctx context.Context, in ProjectInput) (*data.WorkProject, error) {
	in.ProjectName = strings.TrimSpace(in.ProjectName)
	in.Achievement = strings.TrimSpace(in.Achievement)
	if err := validateStruct(s.validate, in); err != nil {
		return nil, err
	}

	if _, err := s.work.GetByID(ctx, in.WorkExperienceID); err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	project := &data.WorkProject{
		WorkExperienceID: in.WorkExperienceID,
		ProjectName:      in.ProjectName,
		Achievement:      in.Achievement,
	}
	if err := s.work.CreateProject(ctx, project); err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to add project: %w", err)
	}
	return project, nil
}

// ListProjects returns every work project.
func (s *ProfileService) ListProjects(ctx context.Context) ([]*data.WorkProject, error) {
	return s.work.ListProjects(ctx)
}

// WorkHistory returns every work experience, newest first, each with its projects.
func (s *ProfileService) WorkHistory(ctx context.Context) ([]WorkHistory, error) {
	work, err := s.work.List(ctx)
	if err != nil {
		return nil, err
	}
	history := make([]WorkHistory, 0, len(work))
	for _, w := range work {
		projects, err := s.work.ListProjectsByWork(ctx, w.ID)
		if err != nil {
			return nil, err
		}
		history = append(history, WorkHistory{Work: w, Projects: projects})
	}
	return history, nil
}

// DeleteProject removes a work project.
func (s *ProfileService) DeleteProject(ctx context.Context, id int64) (bool, error) {
	return deleted(s.work.DeleteProject(ctx, id))
}

// AddEducation stores an education experience.
func (s *ProfileService) AddEducation(ctx context.Context, in EducationInput, ownerID int64) (*data.EducationExperience, error) {
	in.SchoolName = strings.TrimSpace(in.SchoolName)
	in.LearnDetails = strings.TrimSpace(in.LearnDetails)
	if err := validateStruct(s.validate, in); err != nil {
		return nil, err
	}
	start, end, err := parseRange(in.StartDate, in.EndDate)
	if err != nil {
		return nil, err
	}

	edu := &data.EducationExperience{
		SchoolName:   in.SchoolName,
		StartDate:    start,
		EndDate:      end,
		LearnDetails: in.LearnDetails,
		UserID:       ownerID,
	}
	if err := s.education.Create(ctx, edu); err != nil {
		return nil, fmt.Errorf("failed to add education experience: %w", err)
	}
	return edu, nil
}

// ListEducation returns every education experience.
func (s *ProfileService) ListEducation(ctx context.Context) ([]*data.EducationExperience, error) {
	return s.education.List(ctx)
}

// DeleteEducation removes an education experience.
func (s *ProfileService) DeleteEducation(ctx context.Context, id int64) (bool, error) {
	return deleted(s.education.Delete(ctx, id))
}

// AddSkill stores a skill. The description is markdown.
func (s *ProfileService) AddSkill(ctx context.Context, in SkillInput, ownerID int64) (*data.Skill, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if err := validateStruct(s.validate, in); err != nil {
		return nil, err
	}

	skill := &data.Skill{
		Category:    data.SkillCategory(in.Category),
		Title:       in.Title,
		Description: in.Description,
		UserID:      ownerID,
	}
	if err := s.skills.Create(ctx, skill); err != nil {
		return nil, fmt.Errorf("failed to add skill: %w", err)
	}
	return skill, nil
}

// ListSkills returns every skill.
func (s *ProfileService) ListSkills(ctx context.Context) ([]*data.Skill, error) {
	return s.skills.List(ctx)
}

// SkillsByCategory returns one group per known category, with descriptions
// rendered to HTML.
func (s *ProfileService) SkillsByCategory(ctx context.Context) ([]SkillGroup, error) {
	groups := make([]SkillGroup, 0, len(data.SkillCategories))
	for _, category := range data.SkillCategories {
		skills, err := s.skills.ListByCategory(ctx, category)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", category, err)
		}
		if s.renderer != nil {
			for _, skill := range skills {
				skill.HTMLDescription = s.renderer.Render(ctx, skill.Description)
			}
		}
		groups = append(groups, SkillGroup{Category: category, Skills: skills})
	}
	return groups, nil
}

// DeleteSkill removes a skill.
func (s *ProfileService) DeleteSkill(ctx context.Context, id int64) (bool, error) {
	return deleted(s.skills.Delete(ctx, id))
}

// DeleteRecord dispatches a delete by model name: skill, work, education or project.
func (s *ProfileService) DeleteRecord(ctx context.Context, model string, id int64) (bool, error) {
	switch model {
	case "skill":
		return s.DeleteSkill(ctx, id)
	case "work":
		return s.DeleteWork(ctx, id)
	case "education":
		return s.DeleteEducation(ctx, id)
	case "project":
		return s.DeleteProject(ctx, id)
	}
	return false, fieldError("model", "Invalid record type.")
}

func parseRange(startValue, endValue string) (data.Date, *data.Date, error) {
	start, err := parseDateField("start_date", startValue)
	if err != nil {
		return data.Date{}, nil, err
	}
	end, err := parseOptionalDateField("end_date", endValue)
	if err != nil {
		return data.Date{}, nil, err
	}
	if err := checkDateRange(start, end); err != nil {
		return data.Date{}, nil, err
	}
	return start, end, nil
}

// deleted maps a repository delete result onto (found, err).
func deleted(err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, data.ErrNotFound):
		return false, nil
	}
	return false, err
}
