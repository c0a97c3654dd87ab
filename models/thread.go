package models

import "time"

// Post is one message inside a discussion thread.
type Post struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// Thread is a class discussion thread scoped to one university.
type Thread struct {
	ID         string    `json:"id"`
	Class      string    `json:"class"`
	Title      string    `json:"title"`
	University string    `json:"university"`
	Posts      []Post    `json:"posts"`
	CreatedAt  time.Time `json:"createdAt"`
}
