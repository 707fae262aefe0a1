package data

import (
	"html/template"
	"time"
)

// User is a registered account. Users are never deleted.
type User struct {
	ID           int64  `db:"id"`
	Username     string `db:"username"`
	Email        string `db:"email"`
	PasswordHash string `db:"password_hash"`
	IsAdmin      bool   `db:"is_admin"`
}

// CommentState is the lifecycle state of a comment.
type CommentState string

const (
	CommentActive  CommentState = "active"
	CommentDeleted CommentState = "deleted"
)

// CanTransitionTo reports whether a comment in state s may move to next.
// The only legal transition is active -> deleted; deleted is terminal.
func (s CommentState) CanTransitionTo(next CommentState) bool {
	return s == CommentActive && next == CommentDeleted
}

// Comment is a message posted on a page namespace such as "about" or "skills".
type Comment struct {
	ID         int64        `db:"id"`
	Content    string       `db:"content"`
	DatePosted time.Time    `db:"date_posted"`
	UserID     int64        `db:"user_id"`
	Page       string       `db:"page"`
	State      CommentState `db:"state"`
	Username   string       `db:"username"`
}

// AboutMe is the single profile record shown on the about page.
type AboutMe struct {
	ID       int64  `db:"id"`
	Name     string `db:"name"`
	Hometown string `db:"hometown"`
	Email    string `db:"email"`
	UserID   int64  `db:"user_id"`
}

// WorkExperience is a job entry. It owns zero or more WorkProjects.
type WorkExperience struct {
	ID          int64  `db:"id"`
	CompanyName string `db:"company_name"`
	StartDate   Date   `db:"start_date"`
	EndDate     *Date  `db:"end_date"`
	UserID      int64  `db:"user_id"`
}

// WorkProject is a project carried out during a WorkExperience.
type WorkProject struct {
	ID               int64  `db:"id"`
	WorkExperienceID int64  `db:"work_experience_id"`
	ProjectName      string `db:"project_name"`
	Achievement      string `db:"achievement"`
}

// EducationExperience is a school entry.
type EducationExperience struct {
	ID           int64  `db:"id"`
	SchoolName   string `db:"school_name"`
	StartDate    Date   `db:"start_date"`
	EndDate      *Date  `db:"end_date"`
	LearnDetails string `db:"learn_details"`
	UserID       int64  `db:"user_id"`
}

// SkillCategory groups skills on the skills page.
type SkillCategory string

const (
	CategoryComputer     SkillCategory = "Computer Skills"
	CategorySnowboarding SkillCategory = "Snowboarding Skills"
)

// SkillCategories lists the categories in display order.
var SkillCategories = []SkillCategory{CategoryComputer, CategorySnowboarding}

// Valid reports whether c is one of the known categories.
func (c SkillCategory) Valid() bool {
	for _, known := range SkillCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Skill is a titled skill with a markdown description.
type Skill struct {
	ID              int64         `db:"id"`
	Category        SkillCategory `db:"category"`
	Title           string        `db:"title"`
	Description     string        `db:"description"`
	HTMLDescription template.HTML `db:"-"`
	UserID          int64         `db:"user_id"`
}
