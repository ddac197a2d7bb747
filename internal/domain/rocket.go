package domain

// Range is the operational range a rocket is certified for.
type Range string

const (
	RangeLEO  Range = "LEO"
	RangeMoon Range = "MOON"
	RangeMars Range = "MARS"
)

// ParseRange maps a raw string onto a known range. Empty input is allowed
// (range is optional on a rocket).
func ParseRange(raw string) (Range, bool) {
	switch Range(raw) {
	case RangeLEO, RangeMoon, RangeMars:
		return Range(raw), true
	case "":
		return "", true
	default:
		return "", false
	}
}

type Rocket struct {
	ID       string
	Name     string
	Capacity int
	Range    Range
	Speed    float64
}
