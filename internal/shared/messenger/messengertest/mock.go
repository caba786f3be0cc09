package messengertest

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/mock"
)

// Mock is a testify mock of messenger.Client.
type Mock struct {
	mock.Mock
}

func (m *Mock) SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	args := m.Called(params)
	msg, _ := args.Get(0).(*models.Message)
	return msg, args.Error(1)
}

func (m *Mock) CopyMessage(ctx context.Context, params *bot.CopyMessageParams) (*models.MessageID, error) {
	args := m.Called(params)
	id, _ := args.Get(0).(*models.MessageID)
	return id, args.Error(1)
}

func (m *Mock) DeleteMessages(ctx context.Context, params *bot.DeleteMessagesParams) (bool, error) {
	args := m.Called(params)
	return args.Bool(0), args.Error(1)
}

func (m *Mock) GetChatMember(ctx context.Context, params *bot.GetChatMemberParams) (*models.ChatMember, error) {
	args := m.Called(params)
	member, _ := args.Get(0).(*models.ChatMember)
	return member, args.Error(1)
}

func (m *Mock) AnswerCallbackQuery(ctx context.Context, params *bot.AnswerCallbackQueryParams) (bool, error) {
	args := m.Called(params)
	return args.Bool(0), args.Error(1)
}
