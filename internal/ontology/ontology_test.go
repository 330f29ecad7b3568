package ontology

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"skill-bridge/internal/domain/skill"
)

func testDocument() Document {
	return Document{
		HardSkills: []Entry{
			{ID: "python", Name: "Python", Keywords: []string{"Python", "py"}},
			{ID: "sql", Name: "SQL", Keywords: []string{"sql", "postgres"}},
		},
		SoftSkills: []Entry{
			{ID: "communication", Name: "Communication", Keywords: []string{"communicat"}},
		},
	}
}

func TestFromDocument_OrderAndCategories(t *testing.T) {
	o, err := FromDocument(testDocument())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	skills := o.Skills()
	if len(skills) != 3 {
		t.Fatalf("expected 3 skills, got %d", len(skills))
	}
	if skills[0].ID != "python" || skills[0].Category != skill.CategoryHard {
		t.Fatalf("unexpected first skill: %+v", skills[0])
	}
	if skills[2].ID != "communication" || skills[2].Category != skill.CategorySoft {
		t.Fatalf("unexpected last skill: %+v", skills[2])
	}
	if skills[0].Keywords[0] != "python" {
		t.Fatalf("expected keywords lower-cased, got %v", skills[0].Keywords)
	}
}

func TestNames_FallsBackToIdentifier(t *testing.T) {
	o, err := FromDocument(testDocument())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	got := o.Names([]string{"python", "rust", "communication"})
	want := []string{"Python", "rust", "Communication"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if u := o.Unknown([]string{"python", "rust"}); !reflect.DeepEqual(u, []string{"rust"}) {
		t.Fatalf("unexpected unknown ids: %v", u)
	}
	if !o.IsSkillName("Python") || o.IsSkillName("rust") || o.IsSkillName("python") {
		t.Fatalf("IsSkillName should match display names only")
	}
}

func TestFromDocument_RejectsDuplicatesAndEmptyKeywords(t *testing.T) {
	doc := testDocument()
	doc.SoftSkills = append(doc.SoftSkills,
		Entry{ID: "python", Name: "Again", Keywords: []string{"x"}},
		Entry{ID: "empty", Name: "Empty", Keywords: []string{"  "}},
	)
	if _, err := FromDocument(doc); !errors.Is(err, ErrInvalidOntology) {
		t.Fatalf("expected ErrInvalidOntology, got %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, ErrInvalidOntology) {
		t.Fatalf("expected ErrInvalidOntology, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected wrapped os.ErrNotExist, got %v", err)
	}
}
