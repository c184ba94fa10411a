// Package client is the Go consumer of the TaskFlow API: a thin HTTP client
// plus a session-scoped store mirroring the server-side project and task
// lists for a single authenticated session.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type User struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Project struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Slug        string    `json:"slug"`
	UserID      uint      `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Task struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Slug        string    `json:"slug"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	ProjectID   uint      `json:"projectId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type AuthResponse struct {
	User        User   `json:"user"`
	AccessToken string `json:"access_token"`
}

type RegisterInput struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreateProjectInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type UpdateProjectInput struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

type CreateTaskInput struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	ProjectID   uint   `json:"projectId"`
	Priority    string `json:"priority,omitempty"`
}

type UpdateTaskInput struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
	Priority    *string `json:"priority,omitempty"`
}

// APIError is the decoded form of the server's error envelope.
type APIError struct {
	StatusCode int
	ErrorName  string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.StatusCode, e.ErrorName, e.Message)
}

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) do(method, path, token string, body, out interface{}) error {
	var reader io.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeAPIError(resp)
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}

	return nil
}

func decodeAPIError(resp *http.Response) error {
	envelope := struct {
		StatusCode int    `json:"statusCode"`
		ErrorName  string `json:"error"`
		Message    string `json:"message"`
	}{}

	data, _ := io.ReadAll(resp.Body)

	if err := json.Unmarshal(data, &envelope); err != nil || envelope.Message == "" {
		envelope.Message = "An error occurred"
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		ErrorName:  envelope.ErrorName,
		Message:    envelope.Message,
	}
}

func (c *Client) Register(in RegisterInput) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.do(http.MethodPost, "/auth/register", "", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Login(email, password string) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.do(http.MethodPost, "/auth/login", "", LoginInput{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Me(token string) (*User, error) {
	var out struct {
		User User `json:"user"`
	}
	if err := c.do(http.MethodGet, "/auth/me", token, nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *Client) Health() error {
	return c.do(http.MethodGet, "/health", "", nil, nil)
}

func (c *Client) CreateProject(token string, in CreateProjectInput) (*Project, error) {
	var out Project
	if err := c.do(http.MethodPost, "/projects", token, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListProjects(token string) ([]Project, error) {
	var out []Project
	if err := c.do(http.MethodGet, "/projects", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetProject(token string, id uint) (*Project, error) {
	var out Project
	if err := c.do(http.MethodGet, fmt.Sprintf("/projects/%d", id), token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetProjectBySlug(token, slug string) (*Project, error) {
	var out Project
	if err := c.do(http.MethodGet, "/projects/slug/"+slug, token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProject(token string, id uint, in UpdateProjectInput) (*Project, error) {
	var out Project
	if err := c.do(http.MethodPatch, fmt.Sprintf("/projects/%d", id), token, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteProject(token string, id uint) error {
	return c.do(http.MethodDelete, fmt.Sprintf("/projects/%d", id), token, nil, nil)
}

func (c *Client) CreateTask(token string, in CreateTaskInput) (*Task, error) {
	var out Task
	if err := c.do(http.MethodPost, "/tasks", token, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListTasks(token string, projectID *uint) ([]Task, error) {
	path := "/tasks"
	if projectID != nil {
		path = fmt.Sprintf("/tasks?projectId=%d", *projectID)
	}

	var out []Task
	if err := c.do(http.MethodGet, path, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetTask(token string, id uint) (*Task, error) {
	var out Task
	if err := c.do(http.MethodGet, fmt.Sprintf("/tasks/%d", id), token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetTaskBySlug(token, slug string, projectID uint) (*Task, error) {
	var out Task
	if err := c.do(http.MethodGet, fmt.Sprintf("/tasks/slug/%s?projectId=%d", slug, projectID), token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateTask(token string, id uint, in UpdateTaskInput) (*Task, error) {
	var out Task
	if err := c.do(http.MethodPatch, fmt.Sprintf("/tasks/%d", id), token, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteTask(token string, id uint) error {
	return c.do(http.MethodDelete, fmt.Sprintf("/tasks/%d", id), token, nil, nil)
}
