package ggbot

const (
	// CheckFail means the probe found the target broken.
	// Any FAIL check makes the whole platform BROKEN.
	CheckFail CheckStatus = iota

	// CheckPass means the probe succeeded.
	CheckPass

	// CheckWarn means the target works but something looks off, like a server that never restarted.
	CheckWarn
)

// CheckStatus is the result of a single HealthCheck.
type CheckStatus int8

// ParseCheckStatus parses status string.
//
// Unsupported strings are parsed as CheckFail.
func ParseCheckStatus(raw string) CheckStatus {
	switch raw {
	case "PASS":
		return CheckPass
	case "WARN":
		return CheckWarn
	default:
		return CheckFail
	}
}

// String is make CheckStatus a string.
func (s CheckStatus) String() string {
	switch s {
	case CheckPass:
		return "PASS"
	case CheckWarn:
		return "WARN"
	default:
		return "FAIL"
	}
}

// MarshalText is marshal CheckStatus as text.
func (s CheckStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText is unmarshal text as CheckStatus.
//
// This function always returns nil.
func (s *CheckStatus) UnmarshalText(text []byte) error {
	*s = ParseCheckStatus(string(text))
	return nil
}

const (
	StateHealthy BotState = iota
	StateDegraded
	StateBroken
)

// BotState is the overall platform state that the Business Bot reports.
type BotState int8

// ParseBotState parses state string.
// The second value is false if the string is not a known state.
func ParseBotState(raw string) (BotState, bool) {
	switch raw {
	case "HEALTHY":
		return StateHealthy, true
	case "DEGRADED":
		return StateDegraded, true
	case "BROKEN":
		return StateBroken, true
	default:
		return StateBroken, false
	}
}

func (s BotState) String() string {
	switch s {
	case StateHealthy:
		return "HEALTHY"
	case StateDegraded:
		return "DEGRADED"
	default:
		return "BROKEN"
	}
}

func (s BotState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *BotState) UnmarshalText(text []byte) error {
	st, ok := ParseBotState(string(text))
	if !ok {
		return ErrUnknownState
	}
	*s = st
	return nil
}

// Emoji returns the traffic light for the state.
func (s BotState) Emoji() string {
	switch s {
	case StateHealthy:
		return "🟢"
	case StateDegraded:
		return "🟡"
	default:
		return "🔴"
	}
}

const (
	OutputReadyButIdle OutputState = iota
	OutputProducing
	OutputStalled
	OutputMisaligned
)

// OutputState is the productivity state that the Autonomous Output Engine reports.
type OutputState int8

func ParseOutputState(raw string) (OutputState, bool) {
	switch raw {
	case "PRODUCING":
		return OutputProducing, true
	case "READY_BUT_IDLE":
		return OutputReadyButIdle, true
	case "STALLED":
		return OutputStalled, true
	case "MISALIGNED":
		return OutputMisaligned, true
	default:
		return OutputReadyButIdle, false
	}
}

func (s OutputState) String() string {
	switch s {
	case OutputProducing:
		return "PRODUCING"
	case OutputStalled:
		return "STALLED"
	case OutputMisaligned:
		return "MISALIGNED"
	default:
		return "READY_BUT_IDLE"
	}
}

func (s OutputState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *OutputState) UnmarshalText(text []byte) error {
	st, ok := ParseOutputState(string(text))
	if !ok {
		return ErrUnknownState
	}
	*s = st
	return nil
}

func (s OutputState) Emoji() string {
	switch s {
	case OutputProducing:
		return "🟢"
	case OutputStalled:
		return "🔴"
	case OutputMisaligned:
		return "🟠"
	default:
		return "🟡"
	}
}

// Category is the kind of work an OutputEvent or a NextAction belongs to.
type Category string

const (
	CategoryProduct  Category = "product"
	CategoryGrowth   Category = "growth"
	CategoryBusiness Category = "business"
)

// Impact is the estimated weight of an OutputEvent.
type Impact string

const (
	ImpactLow    Impact = "low"
	ImpactMedium Impact = "medium"
	ImpactHigh   Impact = "high"
)

// Priority of a NextAction.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

func (p Priority) Emoji() string {
	switch p {
	case PriorityCritical:
		return "🚨"
	case PriorityHigh:
		return "⚡"
	case PriorityMedium:
		return "📌"
	default:
		return "💡"
	}
}
