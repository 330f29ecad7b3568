package extractor

import (
	"reflect"
	"testing"

	"skill-bridge/internal/domain/skill"
)

type staticSkills []skill.Skill

func (s staticSkills) Skills() []skill.Skill { return s }

func testSkills() staticSkills {
	return staticSkills{
		{ID: "python", Name: "Python", Category: skill.CategoryHard, Keywords: []string{"python", "py"}},
		{ID: "sql", Name: "SQL", Category: skill.CategoryHard, Keywords: []string{"sql", "postgres"}},
		{ID: "r_lang", Name: "R", Category: skill.CategoryHard, Keywords: []string{" r "}},
		{ID: "communication", Name: "Communication", Category: skill.CategorySoft, Keywords: []string{"communicat", "presentation"}},
		{ID: "leadership", Name: "Leadership", Category: skill.CategorySoft, Keywords: []string{"led a team", "leadership"}},
	}
}

func TestExtract_KeywordAndSynonymYieldOneIdentifier(t *testing.T) {
	e := NewSubstringExtractor(testSkills())

	got := e.Extract("I use Python and py scripts")
	if !reflect.DeepEqual(got.HardSkills, []string{"python"}) {
		t.Fatalf("expected hard_skills [python], got %v", got.HardSkills)
	}
	if len(got.SoftSkills) != 0 {
		t.Fatalf("expected no soft skills, got %v", got.SoftSkills)
	}
}

func TestExtract_CaseInsensitiveAndOntologyOrder(t *testing.T) {
	e := NewSubstringExtractor(testSkills())

	got := e.Extract("LEADERSHIP of a POSTGRES migration; strong Communication; PYTHON tooling")
	if !reflect.DeepEqual(got.HardSkills, []string{"python", "sql"}) {
		t.Fatalf("expected [python sql], got %v", got.HardSkills)
	}
	if !reflect.DeepEqual(got.SoftSkills, []string{"communication", "leadership"}) {
		t.Fatalf("expected [communication leadership], got %v", got.SoftSkills)
	}
}

func TestExtract_SubstringCollisionIsReported(t *testing.T) {
	e := NewSubstringExtractor(testSkills())

	// "py" is a substring of "happy"; containment matching reports it.
	got := e.Extract("a happy teammate")
	if !reflect.DeepEqual(got.HardSkills, []string{"python"}) {
		t.Fatalf("expected substring collision to report python, got %v", got.HardSkills)
	}
}

func TestExtract_EmptyText(t *testing.T) {
	e := NewSubstringExtractor(testSkills())

	got := e.Extract("")
	if got.HardSkills == nil || got.SoftSkills == nil {
		t.Fatalf("expected non-nil empty lists")
	}
	if got.Len() != 0 {
		t.Fatalf("expected empty set, got %+v", got)
	}
}

func TestExtract_Deterministic(t *testing.T) {
	e := NewSubstringExtractor(testSkills())
	text := "python, sql, presentation skills, led a team"

	first := e.Extract(text)
	for i := 0; i < 10; i++ {
		if got := e.Extract(text); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d differs: %+v vs %+v", i, got, first)
		}
	}
}
