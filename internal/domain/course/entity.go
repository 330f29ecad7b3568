package course

type Course struct {
	ID            string
	Name          string
	Description   string
	DurationHours int
	Cost          float64
	Provider      string
	URL           string
	BridgesTo     []string
	BridgesFrom   []string
}

func (c Course) Free() bool {
	return c.Cost == 0
}
