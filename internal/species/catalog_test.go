package species

import "testing"

func TestCatalogIntegrity(t *testing.T) {
	seen := map[ID]bool{}
	for _, sp := range Catalog() {
		if sp.ID == "" || sp.Name == "" {
			t.Fatalf("entry with empty id or name: %+v", sp)
		}
		if seen[sp.ID] {
			t.Fatalf("duplicate species id %q", sp.ID)
		}
		seen[sp.ID] = true

		prev := 0.0
		for i, bt := range sp.BaseGrowthTimes {
			if bt <= prev {
				t.Fatalf("%s: stage %d base time %v not increasing", sp.ID, i, bt)
			}
			prev = bt
		}
		if sp.Difficulty < 1 || sp.Difficulty > 5 {
			t.Fatalf("%s: difficulty %d out of range", sp.ID, sp.Difficulty)
		}
		if sp.HarvestCycleSec <= 0 {
			t.Fatalf("%s: non-positive harvest cycle", sp.ID)
		}
		for _, y := range sp.Yield {
			if y.Amount <= 0 {
				t.Fatalf("%s: non-positive base yield for %s", sp.ID, y.Resource)
			}
		}
	}
}

func TestGet(t *testing.T) {
	if sp, ok := Get("oak"); !ok || sp.Name != "Oak" {
		t.Fatalf("expected oak, got %+v ok=%v", sp, ok)
	}
	if _, ok := Get("dragonfruit"); ok {
		t.Fatal("expected miss for unknown id")
	}
}

func TestResolve(t *testing.T) {
	cases := []struct {
		in   string
		want ID
		ok   bool
	}{
		{"oak", "oak", true},
		{" OAK ", "oak", true},
		{"Apple Tree", "apple", true},
		{"aple", "apple", true},
		{"pien", "pine", true},
		{"frostwilow", "frostwillow", true},
		{"", "", false},
		{"zzzzzz", "", false},
	}
	for _, c := range cases {
		sp, ok := Resolve(c.in)
		if ok != c.ok {
			t.Fatalf("Resolve(%q): ok=%v, want %v", c.in, ok, c.ok)
		}
		if ok && sp.ID != c.want {
			t.Fatalf("Resolve(%q) = %s, want %s", c.in, sp.ID, c.want)
		}
	}
}

func TestGrowthDivisor(t *testing.T) {
	if d := GrowthDivisor(1); d != 1.0 {
		t.Fatalf("difficulty 1 divisor = %v", d)
	}
	if d := GrowthDivisor(5); d != 3.0 {
		t.Fatalf("difficulty 5 divisor = %v", d)
	}
	if d := GrowthDivisor(42); d != 1.0 {
		t.Fatalf("unknown difficulty must fall back to 1.0, got %v", d)
	}
}

func TestTierByID(t *testing.T) {
	if tier := TierByID("hardcore"); tier.YieldMult != 0.8 || tier.GrowthScalar != 0.85 {
		t.Fatalf("hardcore tier wrong: %+v", tier)
	}
	neutral := TierByID("creative")
	if neutral.YieldMult != 1.0 || neutral.GrowthScalar != 1.0 {
		t.Fatalf("unknown tier must be neutral: %+v", neutral)
	}
}
