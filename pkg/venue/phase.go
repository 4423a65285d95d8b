package venue

type Phase int32

const (
	Disconnected Phase = iota
	Connecting
	SnapshotFetch
	Bridging
	Steady
)

func (p Phase) String() string {
	switch p {
	case Connecting:
		return "connecting"
	case SnapshotFetch:
		return "snapshot_fetch"
	case Bridging:
		return "bridging"
	case Steady:
		return "steady"
	default:
		return "disconnected"
	}
}
