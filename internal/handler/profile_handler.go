package handler

import (
	"errors"
	"go-portfolio-app/internal/data"
	"go-portfolio-app/internal/logger"
	"go-portfolio-app/internal/middleware"
	"go-portfolio-app/internal/service"
	"go-portfolio-app/internal/session"
	"go-portfolio-app/internal/view"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// ProfileHandler serves the portfolio pages and the admin management routes.
type ProfileHandler struct {
	base
	profile service.ProfileServicer
}

// NewProfileHandler creates a new ProfileHandler with the given dependencies.
func NewProfileHandler(ps service.ProfileServicer, sm session.Manager, v *view.View, log logger.Logger) *ProfileHandler {
	return &ProfileHandler{
		base:    base{view: v, sessions: sm, log: log},
		profile: ps,
	}
}

// home renders the landing page.
func (h *ProfileHandler) home(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	about, err := h.profile.GetAboutMe(r.Context())
	if err != nil {
		return serviceError(err)
	}
	return h.render(w, r, http.StatusOK, "home.html", map[string]interface{}{"About": about})
}

// about renders the profile with work and education history.
func (h *ProfileHandler) about(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	ctx := r.Context()
	about, err := h.profile.GetAboutMe(ctx)
	if err != nil {
		return serviceError(err)
	}
	history, err := h.profile.WorkHistory(ctx)
	if err != nil {
		return serviceError(err)
	}
	education, err := h.profile.ListEducation(ctx)
	if err != nil {
		return serviceError(err)
	}
	return h.render(w, r, http.StatusOK, "about.html", map[string]interface{}{
		"About":       about,
		"History":     history,
		"Education":   education,
		"CommentPage": "about",
	})
}

// saveAbout upserts the about me record.
func (h *ProfileHandler) saveAbout(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	user := middleware.GetUserInfo(r.Context())
	if _, err := h.profile.SaveAboutMe(r.Context(), aboutInput(r), user.ID); err != nil {
		return serviceError(err)
	}
	return h.redirectWithFlash(w, r, "/about", flashSuccess, "About me saved.")
}

// skills renders skills grouped by category.
func (h *ProfileHandler) skills(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	groups, err := h.profile.SkillsByCategory(r.Context())
	if err != nil {
		return serviceError(err)
	}
	return h.render(w, r, http.StatusOK, "skills.html", map[string]interface{}{
		"Groups":      groups,
		"CommentPage": "skills",
	})
}

// management renders the admin forms and record lists.
func (h *ProfileHandler) management(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	return h.renderManagement(w, r, http.StatusOK, nil)
}

// submitForm dispatches one of the management forms by its form_submit value.
func (h *ProfileHandler) submitForm(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	ctx := r.Context()
	owner := middleware.GetUserInfo(ctx).ID

	var err error
	var message string
	switch r.PostFormValue("form_submit") {
	case "submit_about_me":
		_, err = h.profile.SaveAboutMe(ctx, aboutInput(r), owner)
		message = "About me saved."
	case "submit_work_experience":
		_, err = h.profile.AddWork(ctx, service.WorkInput{
			CompanyName: r.PostFormValue("company_name"),
			StartDate:   r.PostFormValue("start_date"),
			EndDate:     r.PostFormValue("end_date"),
		}, owner)
		message = "Work experience added."
	case "submit_education_experience":
		_, err = h.profile.AddEducation(ctx, service.EducationInput{
			SchoolName:   r.PostFormValue("school_name"),
			StartDate:    r.PostFormValue("start_date"),
			EndDate:      r.PostFormValue("end_date"),
			LearnDetails: r.PostFormValue("learn_details"),
		}, owner)
		message = "Education experience added."
	case "submit_skill":
		_, err = h.profile.AddSkill(ctx, service.SkillInput{
			Category:    r.PostFormValue("category"),
			Title:       r.PostFormValue("title"),
			Description: r.PostFormValue("description"),
		}, owner)
		message = "Skill added."
	default:
		return &middleware.AppError{Message: "Unknown form.", Code: http.StatusBadRequest}
	}

	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			return h.renderManagement(w, r, http.StatusBadRequest, verr.Fields)
		}
		return serviceError(err)
	}
	return h.redirectWithFlash(w, r, "/management_page", flashSuccess, message)
}

// addProject adds a project to a work experience.
func (h *ProfileHandler) addProject(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	workID, _ := strconv.ParseInt(r.PostFormValue("work_experience_id"), 10, 64)
	_, err := h.profile.AddProject(r.Context(), service.ProjectInput{
		WorkExperienceID: workID,
		ProjectName:      r.PostFormValue("project_name"),
		Achievement:      r.PostFormValue("achievement"),
	})
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			return h.renderManagement(w, r, http.StatusBadRequest, verr.Fields)
		}
		return serviceError(err)
	}
	return h.redirectWithFlash(w, r, "/management_page", flashSuccess, "Project added.")
}

// deleteRecord removes a skill, work, education or project record and answers in JSON.
func (h *ProfileHandler) deleteRecord(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id, appErr := idParam(r, "id")
	if appErr != nil {
		return appErr
	}
	return h.deleted(w, r, chi.URLParam(r, "model"), id)
}

// deleteProject removes a work project and answers in JSON.
func (h *ProfileHandler) deleteProject(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id, appErr := idParam(r, "id")
	if appErr != nil {
		return appErr
	}
	return h.deleted(w, r, "project", id)
}

func (h *ProfileHandler) deleted(w http.ResponseWriter, r *http.Request, model string, id int64) *middleware.AppError {
	ok, err := h.profile.DeleteRecord(r.Context(), model, id)
	switch {
	case errors.Is(err, service.ErrValidation):
		return &middleware.AppError{Error: err, Message: "Invalid record type or record not found.", Code: http.StatusBadRequest}
	case err != nil:
		return serviceError(err)
	case !ok:
		return &middleware.AppError{Message: "Invalid record type or record not found.", Code: http.StatusNotFound}
	}
	middleware.WriteJSON(w, http.StatusOK, middleware.OK("Record deleted successfully!"))
	return nil
}

func (h *ProfileHandler) renderManagement(w http.ResponseWriter, r *http.Request, status int, errs map[string]string) *middleware.AppError {
	pageData, err := h.profileData(r)
	if err != nil {
		return serviceError(err)
	}
	skills, err := h.profile.ListSkills(r.Context())
	if err != nil {
		return serviceError(err)
	}
	pageData["Skills"] = skills
	pageData["Categories"] = data.SkillCategories
	pageData["Errors"] = errs
	return h.render(w, r, status, "management_page.html", pageData)
}

// profileData loads the about me record, work, projects and education for the management page.
func (h *ProfileHandler) profileData(r *http.Request) (map[string]interface{}, error) {
	ctx := r.Context()
	about, err := h.profile.GetAboutMe(ctx)
	if err != nil {
		return nil, err
	}
	work, err := h.profile.ListWork(ctx)
	if err != nil {
		return nil, err
	}
	projects, err := h.profile.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	education, err := h.profile.ListEducation(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"About":     about,
		"Work":      work,
		"Projects":  projects,
		"Education": education,
	}, nil
}

func aboutInput(r *http.Request) service.AboutMeInput {
	return service.AboutMeInput{
		Name:     r.PostFormValue("name"),
		Hometown: r.PostFormValue("hometown"),
		Email:    r.PostFormValue("email"),
	}
}
