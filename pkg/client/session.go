package client

import "sync"

// Session is a per-login view of the caller's projects and tasks. It is
// constructed explicitly for an authenticated session rather than living as
// a package-level global, and Reset clears it on logout.
//
// The lists are caches with no consistency protocol beyond refetch: every
// mutator calls the API first and touches the local copy only on success, so
// a failed call leaves the previously displayed state intact.
type Session struct {
	mu       sync.Mutex
	api      *Client
	token    string
	projects []Project
	tasks    []Task
}

func NewSession(api *Client, token string) *Session {
	return &Session{api: api, token: token}
}

// LoadProjects refetches the project list, replacing the local mirror.
func (s *Session) LoadProjects() error {
	projects, err := s.api.ListProjects(s.token)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects = projects
	return nil
}

func (s *Session) Projects() []Project {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Project, len(s.projects))
	copy(out, s.projects)
	return out
}

func (s *Session) ProjectByID(id uint) (Project, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.projects {
		if p.ID == id {
			return p, true
		}
	}
	return Project{}, false
}

func (s *Session) ProjectBySlug(slug string) (Project, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.projects {
		if p.Slug == slug {
			return p, true
		}
	}
	return Project{}, false
}

// AddProject creates the project and, on success, inserts it at the head of
// the mirror (the server lists most-recently-updated first).
func (s *Session) AddProject(in CreateProjectInput) (*Project, error) {
	project, err := s.api.CreateProject(s.token, in)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects = append([]Project{*project}, s.projects...)
	return project, nil
}

func (s *Session) UpdateProject(id uint, in UpdateProjectInput) (*Project, error) {
	project, err := s.api.UpdateProject(s.token, id, in)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.projects {
		if s.projects[i].ID == id {
			s.projects[i] = *project
			break
		}
	}
	return project, nil
}

// RemoveProject deletes the project and drops it, plus its cached tasks,
// from the mirror on success.
func (s *Session) RemoveProject(id uint) error {
	if err := s.api.DeleteProject(s.token, id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.projects[:0]
	for _, p := range s.projects {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	s.projects = kept

	keptTasks := s.tasks[:0]
	for _, t := range s.tasks {
		if t.ProjectID != id {
			keptTasks = append(keptTasks, t)
		}
	}
	s.tasks = keptTasks

	return nil
}

// LoadTasks refetches the task list, optionally scoped to one project.
func (s *Session) LoadTasks(projectID *uint) error {
	tasks, err := s.api.ListTasks(s.token, projectID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = tasks
	return nil
}

func (s *Session) Tasks() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

func (s *Session) TaskByID(id uint) (Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

func (s *Session) AddTask(in CreateTaskInput) (*Task, error) {
	task, err := s.api.CreateTask(s.token, in)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append([]Task{*task}, s.tasks...)
	return task, nil
}

func (s *Session) UpdateTask(id uint, in UpdateTaskInput) (*Task, error) {
	task, err := s.api.UpdateTask(s.token, id, in)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks[i] = *task
			break
		}
	}
	return task, nil
}

func (s *Session) RemoveTask(id uint) error {
	if err := s.api.DeleteTask(s.token, id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.tasks[:0]
	for _, t := range s.tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	s.tasks = kept
	return nil
}

// Reset clears the session mirrors on logout.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.projects = nil
	s.tasks = nil
}
