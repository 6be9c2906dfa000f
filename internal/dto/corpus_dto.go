package dto

type GraphResponse struct {
	Project        string `json:"project"`
	Description    string `json:"description"`
	Language       string `json:"language"`
	ComponentCount int    `json:"component_count"`
	TopicCount     int    `json:"topic_count"`
	Summary        string `json:"summary"`
}

type ComponentResponse struct {
	Id           string   `json:"id"`
	Name         string   `json:"name"`
	Purpose      string   `json:"purpose"`
	Category     string   `json:"category"`
	Path         string   `json:"path"`
	Dependencies []string `json:"dependencies,omitempty"`
	Dependents   []string `json:"dependents,omitempty"`
}

type ComponentDetailResponse struct {
	ComponentResponse
	Markdown string `json:"markdown"`
}

type ArticleResponse struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

type TopicResponse struct {
	Id          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Components  []string          `json:"components,omitempty"`
	Articles    []ArticleResponse `json:"articles,omitempty"`
}

type ReloadResponse struct {
	Components int `json:"components"`
	Topics     int `json:"topics"`
}
