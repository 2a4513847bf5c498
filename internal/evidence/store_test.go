package evidence

import "testing"

func TestStore_AddDeduplicates(t *testing.T) {
	s := NewStore()

	ev := Evidence{Skill: "Python", Quote: "пишу на Python", T: 1.5, Confidence: 1.0}
	if !s.Add(ev) {
		t.Fatal("Expected first add to succeed")
	}
	if s.Add(ev) {
		t.Error("Expected duplicate add to be a no-op")
	}
	if s.Len() != 1 {
		t.Errorf("Expected 1 record, got %d", s.Len())
	}
}

func TestStore_FirstOccurrenceWins(t *testing.T) {
	s := NewStore()

	s.Add(Evidence{Skill: "Python", Quote: "пишу на Python", T: 1.5})
	s.Add(Evidence{Skill: "Python", Quote: "пишу на Python", T: 99.0})

	items := s.List()
	if len(items) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(items))
	}
	if items[0].T != 1.5 {
		t.Errorf("Expected first occurrence kept, got T=%v", items[0].T)
	}
}

func TestStore_KeyIgnoresQuoteEdgeWhitespace(t *testing.T) {
	s := NewStore()

	s.Add(Evidence{Skill: "Python", Quote: "пишу на Python"})
	if s.Add(Evidence{Skill: "Python", Quote: "  пишу на Python  "}) {
		t.Error("Expected whitespace-trimmed quotes to collide")
	}
}

func TestStore_DifferentSkillsSameQuote(t *testing.T) {
	s := NewStore()

	quote := "делала NLP и сервисы на kubernetes"
	s.Add(Evidence{Skill: "Kubernetes", Quote: quote})
	s.Add(Evidence{Skill: "NLP", Quote: quote})

	if s.Len() != 2 {
		t.Errorf("Expected 2 records for distinct skills, got %d", s.Len())
	}
}

func TestStore_InsertionOrderPreserved(t *testing.T) {
	s := NewStore()

	s.Add(Evidence{Skill: "Python", Quote: "a"})
	s.Add(Evidence{Skill: "Docker", Quote: "b"})
	s.Add(Evidence{Skill: "Git", Quote: "c"})

	items := s.List()
	want := []string{"Python", "Docker", "Git"}
	for i, skill := range want {
		if items[i].Skill != skill {
			t.Errorf("Position %d: expected %q, got %q", i, skill, items[i].Skill)
		}
	}
}

func TestStore_Reset(t *testing.T) {
	s := NewStore()

	s.Add(Evidence{Skill: "Python", Quote: "a"})
	s.Reset()

	if s.Len() != 0 {
		t.Errorf("Expected empty store after reset, got %d", s.Len())
	}
	if !s.Add(Evidence{Skill: "Python", Quote: "a"}) {
		t.Error("Expected add to succeed after reset")
	}
}

func TestStore_ListIsACopy(t *testing.T) {
	s := NewStore()
	s.Add(Evidence{Skill: "Python", Quote: "a"})

	items := s.List()
	items[0].Skill = "mutated"

	if s.List()[0].Skill != "Python" {
		t.Error("Expected List to return a copy")
	}
}
