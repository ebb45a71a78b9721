package database

import "time"

type User struct {
	Id           int
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

type Message struct {
	Id         int
	SenderId   int
	ReceiverId int
	Content    string
	Read       bool
	CreatedAt  time.Time
}

type CreateAccountParams struct {
	Username     string
	PasswordHash string
}
