package rule

import "testing"

func TestKindNext(t *testing.T) {
	tests := []struct {
		name      string
		kind      Kind
		self      bool
		neighbors []bool
		want      bool
	}{
		{"xor no neighbors", Xor, true, nil, true},
		{"xor even parity", Xor, true, []bool{true}, false},
		{"xor odd parity", Xor, false, []bool{true, true, true}, true},
		{"and all true", And, true, []bool{true, true}, true},
		{"and self false", And, false, []bool{true, true}, false},
		{"and neighbor false", And, true, []bool{true, false}, false},
		{"or all false", Or, false, []bool{false, false}, false},
		{"or self true", Or, true, []bool{false}, true},
		{"or neighbor true", Or, false, []bool{false, true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.kind.Next(tt.self, tt.neighbors); got != tt.want {
				t.Errorf("%s.Next(%v, %v) = %v, want %v", tt.kind, tt.self, tt.neighbors, got, tt.want)
			}
		})
	}
}

func TestKindNextOrderIndependent(t *testing.T) {
	forward := []bool{true, false, false, true, true}
	reversed := []bool{true, true, false, false, true}
	for _, k := range Kinds {
		for _, self := range []bool{false, true} {
			if k.Next(self, forward) != k.Next(self, reversed) {
				t.Errorf("%s depends on neighbor order (self=%v)", k, self)
			}
		}
	}
}

func TestKindName(t *testing.T) {
	for k, want := range map[Kind]string{Xor: "xor", And: "and", Or: "or", Kind(7): "kind(7)"} {
		if got := k.Name(); got != want {
			t.Errorf("Kind(%d).Name() = %q, want %q", int(k), got, want)
		}
	}
}
