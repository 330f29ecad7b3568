package skill

type Category string

const (
	CategoryHard Category = "hard"
	CategorySoft Category = "soft"
)

type Skill struct {
	ID       string
	Name     string
	Category Category
	Keywords []string
}

// Set is the result of one extraction call. Each list holds an identifier at
// most once, in ontology order.
type Set struct {
	HardSkills []string `json:"hard_skills"`
	SoftSkills []string `json:"soft_skills"`
}

func NewSet() Set {
	return Set{HardSkills: []string{}, SoftSkills: []string{}}
}

// All returns hard skills followed by soft skills.
func (s Set) All() []string {
	out := make([]string, 0, len(s.HardSkills)+len(s.SoftSkills))
	out = append(out, s.HardSkills...)
	out = append(out, s.SoftSkills...)
	return out
}

func (s Set) Len() int {
	return len(s.HardSkills) + len(s.SoftSkills)
}

func (s Set) Clone() Set {
	return Set{
		HardSkills: append([]string{}, s.HardSkills...),
		SoftSkills: append([]string{}, s.SoftSkills...),
	}
}

// Unique drops empty and repeated identifiers, keeping first-seen order.
func Unique(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func Index(ids []string) map[string]struct{} {
	m := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return m
}
