package button

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStepTransitions(t *testing.T) {
	tests := []struct {
		name      string
		state     State
		in        Input
		wantState State
		wantAct   Action
	}{
		{"idle stays idle while low", Idle, Input{}, Idle, 0},
		{"idle press", Idle, Input{Level: true, Edge: true}, ConfirmHigh, RearmDebounce | OpenWindow | Count},
		{"confirm high waits", ConfirmHigh, Input{Level: true}, ConfirmHigh, 0},
		{"confirm high bounce", ConfirmHigh, Input{Level: false, Edge: true}, ConfirmHigh, RearmDebounce},
		{"confirm high bounce beats expiry", ConfirmHigh, Input{Level: true, Edge: true, DebounceDone: true}, ConfirmHigh, RearmDebounce},
		{"confirm high settled", ConfirmHigh, Input{Level: true, DebounceDone: true}, ConfirmFalling, 0},
		{"confirm falling held", ConfirmFalling, Input{Level: true}, ConfirmFalling, 0},
		{"confirm falling released", ConfirmFalling, Input{Level: false, Edge: true}, ConfirmLow, RearmDebounce},
		{"confirm low bounce", ConfirmLow, Input{Level: true, Edge: true}, ConfirmLow, RearmDebounce},
		{"confirm low waits", ConfirmLow, Input{}, ConfirmLow, 0},
		{"confirm low settled", ConfirmLow, Input{DebounceDone: true}, WindowOpen, Release},
		{"window waits", WindowOpen, Input{}, WindowOpen, 0},
		{"window closes", WindowOpen, Input{WindowDone: true}, Idle, CloseWindow},
		{"window closes before late press", WindowOpen, Input{Level: true, WindowDone: true}, Idle, CloseWindow},
		{"window second press", WindowOpen, Input{Level: true, Edge: true}, ConfirmHigh, RearmDebounce | Count},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotState, gotAct := Step(tt.state, tt.in)
			assert.Equal(t, tt.wantState, gotState)
			assert.Equal(t, tt.wantAct, gotAct)
		})
	}
}

func TestStepNeverTouchesWindowOnBounce(t *testing.T) {
	for _, s := range []State{ConfirmHigh, ConfirmLow} {
		_, act := Step(s, Input{Level: true, Edge: true})
		assert.False(t, act.Has(OpenWindow), s.String())
		assert.False(t, act.Has(CloseWindow), s.String())
		assert.False(t, act.Has(Count), s.String())
	}
}

func TestClassify(t *testing.T) {
	assert.Equal(t, None, Classify(0))
	assert.Equal(t, Once, Classify(1))
	assert.Equal(t, Twice, Classify(2))
	for n := 3; n <= MaxPresses; n++ {
		assert.Equal(t, Many, Classify(n))
	}
}

func TestStateAndEventStrings(t *testing.T) {
	assert.Equal(t, "CONFIRM_LOW", ConfirmLow.String())
	assert.Equal(t, "UNKNOWN", State(99).String())
	assert.Equal(t, "TWICE", Twice.String())
}
