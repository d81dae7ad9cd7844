package button

// Step advances the debouncer by one poll.
//
// Edges seen while confirming a level restart only the debounce timer; the
// event window and the press count are never touched by bounce.
func Step(s State, in Input) (State, Action) {
	switch s {
	case Idle:
		if in.Level {
			return ConfirmHigh, RearmDebounce | OpenWindow | Count
		}

	case ConfirmHigh:
		if in.Edge {
			return ConfirmHigh, RearmDebounce
		}
		if in.DebounceDone {
			return ConfirmFalling, 0
		}

	case ConfirmFalling:
		if !in.Level {
			return ConfirmLow, RearmDebounce
		}

	case ConfirmLow:
		if in.Edge {
			return ConfirmLow, RearmDebounce
		}
		if in.DebounceDone {
			return WindowOpen, Release
		}

	case WindowOpen:
		if in.WindowDone {
			return Idle, CloseWindow
		}
		if in.Level {
			return ConfirmHigh, RearmDebounce | Count
		}
	}
	return s, 0
}
