package middleware_test

import (
	"testing"

	"github.com/mymmrac/telego"
	"github.com/stretchr/testify/require"

	"threestar/internal/transport/bot/middleware"
)

func TestIsAdmin(t *testing.T) {
	const admin = int64(42)

	tests := []struct {
		name   string
		update telego.Update
		want   bool
	}{
		{
			name:   "Admin message",
			update: telego.Update{Message: &telego.Message{From: &telego.User{ID: admin}, Chat: telego.Chat{ID: 1}}},
			want:   true,
		},
		{
			name:   "Admin chat",
			update: telego.Update{Message: &telego.Message{From: &telego.User{ID: 7}, Chat: telego.Chat{ID: admin}}},
			want:   true,
		},
		{
			name:   "Stranger",
			update: telego.Update{Message: &telego.Message{From: &telego.User{ID: 7}, Chat: telego.Chat{ID: 7}}},
		},
		{
			name:   "Channel post without sender",
			update: telego.Update{Message: &telego.Message{Chat: telego.Chat{ID: 7}}},
		},
		{
			name:   "Admin callback",
			update: telego.Update{CallbackQuery: &telego.CallbackQuery{From: telego.User{ID: admin}}},
			want:   true,
		},
		{
			name: "Empty update",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, middleware.IsAdmin(tc.update, admin))
		})
	}
}
