package models

// BoardType distinguishes shared team boards from personal ones
type BoardType string

const (
	BoardTypeTeam     BoardType = "team"
	BoardTypePersonal BoardType = "personal"
)

// Board represents a tracker board, read-only reference data
type Board struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Type        BoardType `json:"type"`
}

// TeamMember represents a tracker user that issues can be assigned to
type TeamMember struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Label represents a board-scoped label
type Label struct {
	ID      string `json:"id"`
	BoardID string `json:"board_id"`
	Name    string `json:"name"`
	Color   string `json:"color"`
}
