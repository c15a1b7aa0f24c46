package chunk

import (
	"slices"
	"testing"
)

func TestOf(t *testing.T) {
	tests := []struct {
		name string
		l    int
		n    int
	}{
		{"empty", 0, 20},
		{"shorter than size", 3, 20},
		{"exact multiple", 40, 20},
		{"remainder", 33, 20},
		{"size one", 5, 1},
		{"size fifteen", 33, 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := make([]int, tt.l)
			for i := range in {
				in[i] = i
			}

			var groups [][]int
			for g := range Of(in, tt.n) {
				groups = append(groups, g)
			}

			if len(groups) != Count(tt.l, tt.n) {
				t.Fatalf("groups = %d, want %d", len(groups), Count(tt.l, tt.n))
			}
			for i, g := range groups {
				if i < len(groups)-1 && len(g) != tt.n {
					t.Errorf("group %d len = %d, want %d", i, len(g), tt.n)
				}
				if len(g) == 0 || len(g) > tt.n {
					t.Errorf("group %d len = %d, want 1..%d", i, len(g), tt.n)
				}
			}
			if got := slices.Concat(groups...); !slices.Equal(got, in) {
				t.Errorf("concat = %v, want %v", got, in)
			}
		})
	}
}

func TestOfRestartable(t *testing.T) {
	seq := Of([]string{"a", "b", "c"}, 2)

	first := slices.Collect(seq)
	second := slices.Collect(seq)
	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("len = %d, %d, want 2, 2", len(first), len(second))
	}
	if !slices.Equal(first[1], []string{"c"}) || !slices.Equal(second[1], []string{"c"}) {
		t.Errorf("last group = %v / %v, want [c]", first[1], second[1])
	}
}

func TestOfStopsEarly(t *testing.T) {
	calls := 0
	for range Of(make([]int, 100), 10) {
		calls++
		if calls == 3 {
			break
		}
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestOfAppendDoesNotClobber(t *testing.T) {
	in := []int{1, 2, 3, 4}
	for g := range Of(in, 2) {
		_ = append(g, 99)
	}
	if !slices.Equal(in, []int{1, 2, 3, 4}) {
		t.Errorf("input mutated: %v", in)
	}
}

func TestOfPanicsOnNonPositiveSize(t *testing.T) {
	for _, n := range []int{0, -1} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("Of(_, %d) did not panic", n)
				}
			}()
			Of([]int{1}, n)
		}()
	}
}
