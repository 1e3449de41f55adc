package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Contest is a public competition teams are formed around.
type Contest struct {
	bun.BaseModel `bun:"table:contests,alias:c"`

	ID           string    `bun:"id,pk,type:uuid"`
	Title        string    `bun:"title,notnull"`
	Company      string    `bun:"company"`
	Types        int       `bun:"types,notnull"`
	RecruitStart time.Time `bun:"recruit_start,notnull"`
	RecruitEnd   time.Time `bun:"recruit_end,notnull"`
	TeamNum      int       `bun:"team_num,notnull,default:0"`
	ImageURL     string    `bun:"image_url"`
	Description  string    `bun:"description"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
