package cel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvaluator(t *testing.T) {
	eval, err := NewEvaluator()
	require.NoError(t, err)
	assert.NotNil(t, eval)
}

func TestValidateConditionExpression(t *testing.T) {
	eval, err := NewEvaluator()
	require.NoError(t, err)

	tests := []struct {
		name      string
		expr      string
		wantError bool
	}{
		{
			name:      "valid event comparison",
			expr:      `event == "guildMemberAdd"`,
			wantError: false,
		},
		{
			name:      "valid slot field lookup",
			expr:      `member.nickname == "ops"`,
			wantError: false,
		},
		{
			name:      "valid count comparison",
			expr:      `count > 5`,
			wantError: false,
		},
		{
			name:      "invalid syntax",
			expr:      `invalid syntax here!!!`,
			wantError: true,
		},
		{
			name:      "undefined variable",
			expr:      `undefinedVar == "test"`,
			wantError: true,
		},
		{
			name:      "non-bool output",
			expr:      `detail`,
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := eval.ValidateConditionExpression(tt.expr)
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEvaluateCondition(t *testing.T) {
	eval, err := NewEvaluator()
	require.NoError(t, err)

	ctx := context.Background()

	vars := map[string]interface{}{
		"event":     "messageReactionAdd",
		"tenant_id": "guild-1",
		"user":      map[string]interface{}{},
		"member": map[string]interface{}{
			"id":       "user-1",
			"tag":      "alice#1234",
			"bot":      false,
			"nickname": "alice",
		},
		"channel":  map[string]interface{}{},
		"message":  map[string]interface{}{},
		"role":     map[string]interface{}{},
		"reaction": map[string]interface{}{"emoji": "👍", "message_id": "msg-1"},
		"emoji":    map[string]interface{}{},
		"change":   map[string]interface{}{},
		"detail":   "",
		"count":    0,
	}

	tests := []struct {
		name      string
		expr      string
		want      bool
		wantError bool
	}{
		{
			name: "empty expression matches unconditionally",
			expr: "",
			want: true,
		},
		{
			name: "event name match",
			expr: `event == "messageReactionAdd"`,
			want: true,
		},
		{
			name: "event name mismatch",
			expr: `event == "guildMemberAdd"`,
			want: false,
		},
		{
			name: "member field match",
			expr: `member.nickname == "alice"`,
			want: true,
		},
		{
			name: "reaction emoji match",
			expr: `reaction.emoji == "👍"`,
			want: true,
		},
		{
			name:      "field lookup on empty slot errors",
			expr:      `channel.name == "general"`,
			wantError: true,
		},
		{
			name: "presence check on empty slot",
			expr: `"name" in channel`,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := eval.EvaluateCondition(ctx, tt.expr, vars)
			if tt.wantError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompileExpression(t *testing.T) {
	eval, err := NewEvaluator()
	require.NoError(t, err)

	program, err := eval.CompileExpression(`event == "message"`)
	require.NoError(t, err)
	assert.NotNil(t, program)

	_, err = eval.CompileExpression(`not valid cel!!!`)
	assert.Error(t, err)
}
