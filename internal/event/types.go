package event

// Kind is a discrete, edge-triggered input event.
type Kind uint8

const (
	Jump Kind = iota + 1
	Emote
	Fire
)

func (k Kind) String() string {
	switch k {
	case Jump:
		return "jump"
	case Emote:
		return "emote"
	case Fire:
		return "fire"
	default:
		return "unknown"
	}
}

// Parse maps a configuration or console name to a Kind.
func Parse(name string) (Kind, bool) {
	switch name {
	case "jump":
		return Jump, true
	case "emote":
		return Emote, true
	case "fire":
		return Fire, true
	default:
		return 0, false
	}
}
