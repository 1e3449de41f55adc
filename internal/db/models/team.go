package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Team progress codes.
const (
	ProgressRecruiting = 1
	ProgressInProgress = 2
	ProgressCompleted  = 3
)

// Team member role codes.
const (
	RoleTeamLeader = 1
	RoleTeamMember = 2
	RoleVolunteer  = 3
)

// ValidProgress reports whether p is a known progress code.
func ValidProgress(p int) bool {
	return p >= ProgressRecruiting && p <= ProgressCompleted
}

// ValidRole reports whether r is a known role code.
func ValidRole(r int) bool {
	return r >= RoleTeamLeader && r <= RoleVolunteer
}

// RoleName returns the policy subject name for a role code.
func RoleName(r int) string {
	switch r {
	case RoleTeamLeader:
		return "TEAM_LEADER"
	case RoleTeamMember:
		return "TEAM_MEMBER"
	case RoleVolunteer:
		return "VOLUNTEER"
	default:
		return "UNKNOWN"
	}
}

// Team is a group recruiting for, or working on, one contest.
type Team struct {
	bun.BaseModel `bun:"table:teams,alias:t"`

	ID          int64     `bun:"id,pk,autoincrement"`
	ContestID   string    `bun:"contest_id,notnull,type:uuid"`
	Title       string    `bun:"title,notnull"`
	Description string    `bun:"description"`
	Location    string    `bun:"location"`
	Headcount   int       `bun:"headcount,notnull,default:0"`
	Progress    int       `bun:"progress,notnull,default:1"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt   time.Time `bun:"updated_at,notnull,default:current_timestamp"`

	Contest *Contest    `bun:"rel:belongs-to,join:contest_id=id"`
	Members []*TeamUser `bun:"rel:has-many,join:id=team_id"`
}

// Leader returns the first TEAM_LEADER membership, or nil.
func (t *Team) Leader() *TeamUser {
	for _, m := range t.Members {
		if m.Role == RoleTeamLeader {
			return m
		}
	}
	return nil
}

// MembersWithRole returns memberships holding role.
func (t *Team) MembersWithRole(role int) []*TeamUser {
	var out []*TeamUser
	for _, m := range t.Members {
		if m.Role == role {
			out = append(out, m)
		}
	}
	return out
}

// TeamUser is a user's membership in a team.
type TeamUser struct {
	bun.BaseModel `bun:"table:team_users,alias:tu"`

	ID        int64     `bun:"id,pk,autoincrement"`
	TeamID    int64     `bun:"team_id,notnull,unique:team_users_pair"`
	UserID    int64     `bun:"user_id,notnull,unique:team_users_pair"`
	Role      int       `bun:"role,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`

	User *User `bun:"rel:belongs-to,join:user_id=id"`
}
