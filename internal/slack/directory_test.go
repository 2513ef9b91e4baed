package slack

import (
	"context"
	"errors"
	"testing"

	slackapi "github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
)

type fakeAPI struct {
	userCalls    int
	channelCalls int
	user         *slackapi.User
	channel      *slackapi.Channel
	err          error
}

func (f *fakeAPI) GetUserInfoContext(context.Context, string) (*slackapi.User, error) {
	f.userCalls++
	return f.user, f.err
}

func (f *fakeAPI) GetConversationInfoContext(context.Context, *slackapi.GetConversationInfoInput) (*slackapi.Channel, error) {
	f.channelCalls++
	return f.channel, f.err
}

func TestUserNamePrefersRealName(t *testing.T) {
	api := &fakeAPI{user: &slackapi.User{RealName: "Jane Doe", Name: "jane"}}
	d := NewDirectory(api)
	assert.Equal(t, "Jane Doe", d.UserName(context.Background(), "U123"))
}

func TestUserNameFallsBackToHandle(t *testing.T) {
	api := &fakeAPI{user: &slackapi.User{Name: "jane"}}
	d := NewDirectory(api)
	assert.Equal(t, "jane", d.UserName(context.Background(), "U123"))
}

func TestUserNameCachesSuccess(t *testing.T) {
	api := &fakeAPI{user: &slackapi.User{RealName: "Jane Doe"}}
	d := NewDirectory(api)
	d.UserName(context.Background(), "U123")
	d.UserName(context.Background(), "U123")
	assert.Equal(t, 1, api.userCalls)
}

func TestUserNameFailureReturnsIDWithoutCaching(t *testing.T) {
	api := &fakeAPI{err: errors.New("rate limited")}
	d := NewDirectory(api)
	assert.Equal(t, "U123", d.UserName(context.Background(), "U123"))

	// Once the API recovers the real name wins.
	api.err = nil
	api.user = &slackapi.User{RealName: "Jane Doe"}
	assert.Equal(t, "Jane Doe", d.UserName(context.Background(), "U123"))
}

func TestChannelName(t *testing.T) {
	api := &fakeAPI{channel: &slackapi.Channel{}}
	api.channel.Name = "general"
	d := NewDirectory(api)
	assert.Equal(t, "general", d.ChannelName(context.Background(), "C123"))
	d.ChannelName(context.Background(), "C123")
	assert.Equal(t, 1, api.channelCalls)
}

func TestChannelNameFailureReturnsID(t *testing.T) {
	api := &fakeAPI{err: errors.New("not allowed")}
	d := NewDirectory(api)
	assert.Equal(t, "C123", d.ChannelName(context.Background(), "C123"))
}

func TestEmptyIDsResolveToUnknown(t *testing.T) {
	d := NewDirectory(&fakeAPI{})
	assert.Equal(t, "unknown", d.UserName(context.Background(), "  "))
	assert.Equal(t, "unknown", d.ChannelName(context.Background(), ""))
}
