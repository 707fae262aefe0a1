//go:build unit

package service

import (
	"context"
	"go-portfolio-app/internal/data"
	"sort"
	"sync"
	"time"
)

// mockUserRepository is an in-memory implementation of UserRepository.
type mockUserRepository struct {
	users        []*data.User
	errToReturn  error
	createCalled bool
}

var _ UserRepository = (*mockUserRepository)(nil)

func (m *mockUserRepository) Create(ctx context.Context, user *data.User) error {
	m.createCalled = true
	if m.errToReturn != nil {
		return m.errToReturn
	}
	user.ID = int64(len(m.users) + 1)
	cp := *user
	m.users = append(m.users, &cp)
	return nil
}

func (m *mockUserRepository) find(match func(*data.User) bool) (*data.User, error) {
	if m.errToReturn != nil {
		return nil, m.errToReturn
	}
	for _, u := range m.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, data.ErrNotFound
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*data.User, error) {
	return m.find(func(u *data.User) bool { return u.ID == id })
}

func (m *mockUserRepository) GetByUsername(ctx context.Context, username string) (*data.User, error) {
	return m.find(func(u *data.User) bool { return u.Username == username })
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*data.User, error) {
	return m.find(func(u *data.User) bool { return u.Email == email })
}

func (m *mockUserRepository) GetByUsernameOrEmail(ctx context.Context, identifier string) (*data.User, error) {
	return m.find(func(u *data.User) bool { return u.Username == identifier || u.Email == identifier })
}

func (m *mockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	u, err := m.find(func(u *data.User) bool { return u.Username == username })
	return u != nil, ignoreNotFound(err)
}

func (m *mockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	u, err := m.find(func(u *data.User) bool { return u.Email == email })
	return u != nil, ignoreNotFound(err)
}

func ignoreNotFound(err error) error {
	if err == data.ErrNotFound {
		return nil
	}
	return err
}

// mockCommentRepository keeps comments in memory, including deleted ones.
type mockCommentRepository struct {
	mu       sync.Mutex
	comments []*data.Comment
}

var _ CommentRepository = (*mockCommentRepository)(nil)

func (m *mockCommentRepository) Create(ctx context.Context, c *data.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = int64(len(m.comments) + 1)
	c.State = data.CommentActive
	cp := *c
	m.comments = append(m.comments, &cp)
	return nil
}

func (m *mockCommentRepository) GetActiveByID(ctx context.Context, id int64) (*data.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.comments {
		if c.ID == id && c.State == data.CommentActive {
			cp := *c
			return &cp, nil
		}
	}
	return nil, data.ErrNotFound
}

func (m *mockCommentRepository) active(page string) []*data.Comment {
	var out []*data.Comment
	for _, c := range m.comments {
		if c.Page == page && c.State == data.CommentActive {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DatePosted.Equal(out[j].DatePosted) {
			return out[i].DatePosted.After(out[j].DatePosted)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (m *mockCommentRepository) ListActiveByPage(ctx context.Context, page string, limit, offset int) ([]*data.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.active(page)
	if offset >= len(all) {
		return []*data.Comment{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (m *mockCommentRepository) CountActiveByPage(ctx context.Context, page string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.active(page)), nil
}

func (m *mockCommentRepository) MarkDeleted(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.comments {
		if c.ID == id && c.State == data.CommentActive {
			c.State = data.CommentDeleted
			return nil
		}
	}
	return data.ErrNotFound
}

func (m *mockCommentRepository) state(id int64) data.CommentState {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.comments {
		if c.ID == id {
			return c.State
		}
	}
	return ""
}

type mockAboutRepository struct {
	row *data.AboutMe
}

func (m *mockAboutRepository) Get(ctx context.Context) (*data.AboutMe, error) {
	if m.row == nil {
		return nil, data.ErrNotFound
	}
	cp := *m.row
	return &cp, nil
}

func (m *mockAboutRepository) Upsert(ctx context.Context, about *data.AboutMe) error {
	about.ID = 1
	cp := *about
	m.row = &cp
	return nil
}

type mockWorkRepository struct {
	works    map[int64]*data.WorkExperience
	projects map[int64]*data.WorkProject
	nextID   int64
}

func newMockWorkRepository() *mockWorkRepository {
	return &mockWorkRepository{
		works:    make(map[int64]*data.WorkExperience),
		projects: make(map[int64]*data.WorkProject),
	}
}

func (m *mockWorkRepository) Create(ctx context.Context, w *data.WorkExperience) error {
	m.nextID++
	w.ID = m.nextID
	m.works[w.ID] = w
	return nil
}

func (m *mockWorkRepository) List(ctx context.Context) ([]*data.WorkExperience, error) {
	var out []*data.WorkExperience
	for _, w := range m.works {
		out = append(out, w)
	}
	return out, nil
}

func (m *mockWorkRepository) GetByID(ctx context.Context, id int64) (*data.WorkExperience, error) {
	w, ok := m.works[id]
	if !ok {
		return nil, data.ErrNotFound
	}
	return w, nil
}

func (m *mockWorkRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.works[id]; !ok {
		return data.ErrNotFound
	}
	for _, p := range m.projects {
		if p.WorkExperienceID == id {
			return data.ErrReferenced
		}
	}
	delete(m.works, id)
	return nil
}

func (m *mockWorkRepository) CreateProject(ctx context.Context, p *data.WorkProject) error {
	if _, ok := m.works[p.WorkExperienceID]; !ok {
		return data.ErrNotFound
	}
	m.nextID++
	p.ID = m.nextID
	m.projects[p.ID] = p
	return nil
}

func (m *mockWorkRepository) ListProjects(ctx context.Context) ([]*data.WorkProject, error) {
	var out []*data.WorkProject
	for _, p := range m.projects {
		out = append(out, p)
	}
	return out, nil
}

func (m *mockWorkRepository) ListProjectsByWork(ctx context.Context, workID int64) ([]*data.WorkProject, error) {
	out := []*data.WorkProject{}
	for _, p := range m.projects {
		if p.WorkExperienceID == workID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockWorkRepository) DeleteProject(ctx context.Context, id int64) error {
	if _, ok := m.projects[id]; !ok {
		return data.ErrNotFound
	}
	delete(m.projects, id)
	return nil
}

type mockEducationRepository struct {
	rows []*data.EducationExperience
}

func (m *mockEducationRepository) Create(ctx context.Context, e *data.EducationExperience) error {
	e.ID = int64(len(m.rows) + 1)
	m.rows = append(m.rows, e)
	return nil
}

func (m *mockEducationRepository) List(ctx context.Context) ([]*data.EducationExperience, error) {
	return m.rows, nil
}

func (m *mockEducationRepository) Delete(ctx context.Context, id int64) error {
	for i, e := range m.rows {
		if e.ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return data.ErrNotFound
}

type mockSkillRepository struct {
	rows []*data.Skill
}

func (m *mockSkillRepository) Create(ctx context.Context, s *data.Skill) error {
	s.ID = int64(len(m.rows) + 1)
	m.rows = append(m.rows, s)
	return nil
}

func (m *mockSkillRepository) List(ctx context.Context) ([]*data.Skill, error) {
	return m.rows, nil
}

func (m *mockSkillRepository) ListByCategory(ctx context.Context, category data.SkillCategory) ([]*data.Skill, error) {
	var out []*data.Skill
	for _, s := range m.rows {
		if s.Category == category {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockSkillRepository) Delete(ctx context.Context, id int64) error {
	for i, s := range m.rows {
		if s.ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return data.ErrNotFound
}

// mockCache is a map backed KVCache that counts hits.
type mockCache struct {
	values map[string][]byte
	hits   int
}

func newMockCache() *mockCache {
	return &mockCache{values: make(map[string][]byte)}
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	v, ok := m.values[key]
	if ok {
		m.hits++
	}
	return v, nil
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.values[key] = value
	return nil
}
