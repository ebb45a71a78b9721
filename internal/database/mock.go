package database

import (
	"github.com/stretchr/testify/mock"
)

type MockChatRepository struct {
	mock.Mock
}

func (m *MockChatRepository) Ping() error {
	args := m.Called()
	return args.Error(0)
}
func (m *MockChatRepository) CreateAccount(params CreateAccountParams) (User, error) {
	args := m.Called(params)
	return args.Get(0).(User), args.Error(1)
}
func (m *MockChatRepository) GetAccountById(accountId int) (User, error) {
	args := m.Called(accountId)
	return args.Get(0).(User), args.Error(1)
}
func (m *MockChatRepository) GetAccountByUsername(username string) (User, error) {
	args := m.Called(username)
	return args.Get(0).(User), args.Error(1)
}
func (m *MockChatRepository) ListAccounts() ([]User, error) {
	args := m.Called()
	return args.Get(0).([]User), args.Error(1)
}
func (m *MockChatRepository) CreateMessage(senderId, receiverId int, content string) (Message, error) {
	args := m.Called(senderId, receiverId, content)
	return args.Get(0).(Message), args.Error(1)
}
func (m *MockChatRepository) GetConversation(userA, userB int) ([]Message, error) {
	args := m.Called(userA, userB)
	return args.Get(0).([]Message), args.Error(1)
}
func (m *MockChatRepository) CountUnread(receiverId, senderId int) (int, error) {
	args := m.Called(receiverId, senderId)
	return args.Int(0), args.Error(1)
}
func (m *MockChatRepository) MarkAllRead(receiverId, senderId int) (int, error) {
	args := m.Called(receiverId, senderId)
	return args.Int(0), args.Error(1)
}
