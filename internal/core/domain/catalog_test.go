package domain

import "testing"

func TestDefaultCatalogPartitionsAreDisjoint(t *testing.T) {
	catalog, err := DefaultCatalog()
	if err != nil {
		t.Fatalf("DefaultCatalog() error = %v", err)
	}

	branches := []Branch{BranchGroup3, BranchGroup4, BranchOther}
	seen := make(map[string]Branch)
	total := 0
	for _, branch := range branches {
		for _, name := range catalog.Categories(branch) {
			if prev, ok := seen[name]; ok {
				t.Fatalf("category %q in both %s and %s", name, prev, branch)
			}
			seen[name] = branch
			total++
		}
	}
	if total != catalog.Size() {
		t.Fatalf("branch sets cover %d categories, catalog has %d", total, catalog.Size())
	}

	counts := catalog.BranchCounts()
	if counts[BranchGroup3] != 26 || counts[BranchGroup4] != 6 || counts[BranchOther] != 24 {
		t.Fatalf("unexpected branch counts: %+v", counts)
	}

	careCounts := catalog.CareLevelCounts()
	if careCounts[CareLevelUrgent] != 5 || careCounts[CareLevelModerate] != 20 || careCounts[CareLevelLow] != 2 {
		t.Fatalf("unexpected care level counts: %+v", careCounts)
	}
}

func TestCatalogLookupTrimsWhitespace(t *testing.T) {
	catalog, err := DefaultCatalog()
	if err != nil {
		t.Fatalf("DefaultCatalog() error = %v", err)
	}

	if got := catalog.Branch("  Mental health  "); got != BranchGroup3 {
		t.Fatalf("Branch() = %s, want %s", got, BranchGroup3)
	}
	if got := catalog.CareLevel("Crisis counseling"); got != CareLevelUrgent {
		t.Fatalf("CareLevel() = %s, want %s", got, CareLevelUrgent)
	}
}

func TestCatalogUnknownCategoryFallsBack(t *testing.T) {
	catalog, err := DefaultCatalog()
	if err != nil {
		t.Fatalf("DefaultCatalog() error = %v", err)
	}

	if got := catalog.Branch("Quantum healing"); got != BranchUnknown {
		t.Fatalf("Branch() = %s, want %s", got, BranchUnknown)
	}
	if got := catalog.CareLevel("Quantum healing"); got != "" {
		t.Fatalf("CareLevel() = %q, want empty", got)
	}
	if got := catalog.Branch(""); got != BranchUnknown {
		t.Fatalf("Branch(empty) = %s, want %s", got, BranchUnknown)
	}
}

func TestLoadCatalogRejectsBranchOverlap(t *testing.T) {
	data := []byte(`
branches:
  group3: [Counseling]
  group4: [Counseling]
  other: []
care_levels:
  urgent: []
  moderate: []
  low: []
`)
	if _, err := LoadCatalog(data); err == nil {
		t.Fatalf("expected error for category in two branch sets")
	} else if !IsKind(err, ErrCatalogInvalid) {
		t.Fatalf("expected ErrCatalogInvalid, got %v", err)
	}
}

func TestLoadCatalogRejectsDuplicateCareLevel(t *testing.T) {
	data := []byte(`
branches:
  group3: [Counseling]
  group4: []
  other: []
care_levels:
  urgent: [Counseling]
  moderate: [Counseling]
  low: []
`)
	if _, err := LoadCatalog(data); err == nil {
		t.Fatalf("expected error for category with two care levels")
	}
}

func TestLoadCatalogRejectsCareLevelOutsideVocabulary(t *testing.T) {
	data := []byte(`
branches:
  group3: [Counseling]
  group4: []
  other: []
care_levels:
  urgent: [Telepathy]
  moderate: []
  low: []
`)
	if _, err := LoadCatalog(data); err == nil {
		t.Fatalf("expected error for care level naming unknown category")
	}
}
