package database

type ChatRepository interface {
	Ping() error
	CreateAccount(params CreateAccountParams) (User, error)
	GetAccountById(accountId int) (User, error)
	GetAccountByUsername(username string) (User, error)
	ListAccounts() ([]User, error)
	CreateMessage(senderId, receiverId int, content string) (Message, error)
	GetConversation(userA, userB int) ([]Message, error)
	CountUnread(receiverId, senderId int) (int, error)
	MarkAllRead(receiverId, senderId int) (int, error)
}
