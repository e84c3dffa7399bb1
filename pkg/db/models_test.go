package db

import "testing"

func TestConversationID(t *testing.T) {
	tests := []struct {
		name  string
		userA int64
		userB int64
		want  string
	}{
		{"ordered pair", 3, 9, "conv_3_9"},
		{"reversed pair", 9, 3, "conv_3_9"},
		{"same user", 5, 5, "conv_5_5"},
		{"large ids", 1000001, 42, "conv_42_1000001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ConversationID(tt.userA, tt.userB); got != tt.want {
				t.Errorf("db:models_test - ConversationID(%d, %d) = %q, want %q", tt.userA, tt.userB, got, tt.want)
			}
		})
	}
}

func TestConversationID_Symmetric(t *testing.T) {
	// Both participants must derive the same ID regardless of argument order.
	pairs := [][2]int64{{1, 2}, {7, 7}, {100, 3}}
	for _, p := range pairs {
		if ConversationID(p[0], p[1]) != ConversationID(p[1], p[0]) {
			t.Errorf("db:models_test - ConversationID not symmetric for %v", p)
		}
	}
}
