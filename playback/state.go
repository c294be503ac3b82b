package playback

import "time"

// State is the transport state of a player.
type State int

const (
	Stopped State = iota
	Playing
	Paused
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	}
	return "unknown"
}

type EventKind int

const (
	EventPlay EventKind = iota
	EventPause
	EventEnded
)

func (k EventKind) String() string {
	switch k {
	case EventPlay:
		return "play"
	case EventPause:
		return "pause"
	case EventEnded:
		return "ended"
	}
	return "unknown"
}

// Event is a transport change.
type Event struct {
	Kind EventKind
	At   time.Time
}
