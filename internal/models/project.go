package models

import "time"

type ProjectMember struct {
	User string `json:"user"`
	Role Role   `json:"role"`
}

type Project struct {
	ID        string          `json:"_id"`
	Name      string          `json:"name"`
	CreatedBy string          `json:"createdBy"`
	Members   []ProjectMember `json:"members"`
	CreatedAt time.Time       `json:"createdAt"`
}

// HasMember reports project-level membership. The creator is an implicit
// admin even when absent from the members list.
func (p *Project) HasMember(userID string) bool {
	if p.CreatedBy == userID {
		return true
	}
	for _, m := range p.Members {
		if m.User == userID {
			return true
		}
	}
	return false
}

func (p *Project) RoleOf(userID string) (Role, bool) {
	if p.CreatedBy == userID {
		return RoleAdmin, true
	}
	for _, m := range p.Members {
		if m.User == userID {
			return m.Role, true
		}
	}
	return "", false
}
