package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// User is a registered member. Profile list fields are stored as JSON arrays.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID            int64      `bun:"id,pk,autoincrement"`
	Email         string     `bun:"email,notnull,unique"`
	PasswordHash  string     `bun:"password_hash,notnull"`
	Username      string     `bun:"username,notnull"`
	Location      string     `bun:"location"`
	Major         string     `bun:"major"`
	Task          string     `bun:"task"`
	SelfIntroduce string     `bun:"self_introduce"`
	Internships   StringList `bun:"internships,type:jsonb"`
	Tools         StringList `bun:"tools,type:jsonb"`
	Certificates  StringList `bun:"certificates,type:jsonb"`
	TicketCount   int        `bun:"ticket_count,notnull,default:0"`
	CreatedAt     time.Time  `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt     time.Time  `bun:"updated_at,notnull,default:current_timestamp"`

	Awards []*Award `bun:"rel:has-many,join:id=user_id"`
}

// AwardNames returns the award names in insertion order.
func (u *User) AwardNames() []string {
	names := make([]string, 0, len(u.Awards))
	for _, a := range u.Awards {
		names = append(names, a.AwardName)
	}
	return names
}

// Award is one line of a user's award history.
type Award struct {
	bun.BaseModel `bun:"table:user_awards,alias:ua"`

	ID        int64     `bun:"id,pk,autoincrement"`
	UserID    int64     `bun:"user_id,notnull"`
	AwardName string    `bun:"award_name,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// UserTicketSpend records that UserID spent a ticket to unlock PurchaseUserID.
type UserTicketSpend struct {
	bun.BaseModel `bun:"table:user_ticket_spends,alias:uts"`

	ID             int64     `bun:"id,pk,autoincrement"`
	UserID         int64     `bun:"user_id,notnull,unique:user_ticket_spends_pair"`
	PurchaseUserID int64     `bun:"purchase_user_id,notnull,unique:user_ticket_spends_pair"`
	CreatedAt      time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// StringList is a JSON-encoded list of strings.
type StringList []string

// Scan implements sql.Scanner.
func (l *StringList) Scan(value any) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*l = StringList{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("failed to scan StringList: unexpected type %T", value)
	}
	if len(raw) == 0 {
		*l = StringList{}
		return nil
	}
	return json.Unmarshal(raw, l)
}

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
