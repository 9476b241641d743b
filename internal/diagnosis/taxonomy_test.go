package diagnosis

import "testing"

func TestAllMisconceptions_Count(t *testing.T) {
	if got := len(AllMisconceptions()); got != 14 {
		t.Errorf("got %d misconceptions, want 14", got)
	}
}

func TestGetMisconception(t *testing.T) {
	m := GetMisconception("grad-intercept-swap")
	if m == nil {
		t.Fatal("GetMisconception(grad-intercept-swap) returned nil")
	}
	if m.Topic != "11.3" {
		t.Errorf("topic = %q, want 11.3", m.Topic)
	}
	if m.Label == "" || m.Description == "" {
		t.Error("label and description must be set")
	}
	if GetMisconception("nonexistent") != nil {
		t.Error("GetMisconception(nonexistent) should be nil")
	}
}

func TestMisconceptionsByTopic(t *testing.T) {
	tests := []struct {
		lesson string
		want   int
	}{
		{"Start", 2},
		{"11.1", 3},
		{"11.2_WB", 3},
		{"11.3", 3},
		{"11.4_WB", 3},
		{"CheckProgress", 0},
	}
	for _, tt := range tests {
		if got := len(MisconceptionsByTopic(tt.lesson)); got != tt.want {
			t.Errorf("MisconceptionsByTopic(%q) = %d, want %d", tt.lesson, got, tt.want)
		}
	}
}

func TestMisconceptionIDsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, m := range seedMisconceptions {
		if seen[m.ID] {
			t.Errorf("duplicate misconception id %q", m.ID)
		}
		seen[m.ID] = true
		if len(m.Examples) == 0 {
			t.Errorf("%s has no examples", m.ID)
		}
	}
}

func TestAllMisconceptions_SeedOrder(t *testing.T) {
	all := AllMisconceptions()
	for i, m := range all {
		if m.ID != seedMisconceptions[i].ID {
			t.Fatalf("entry %d = %q, want %q", i, m.ID, seedMisconceptions[i].ID)
		}
	}
	all[0] = nil
	if AllMisconceptions()[0] == nil {
		t.Error("callers must not be able to modify the taxonomy order")
	}
}
