package dice

import (
	"reflect"
	"sync"
	"testing"
)

func TestRecombine(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want Pools
	}{
		{name: "hunger replaces normal dice", req: Request{Pool: 5, Hunger: 2}, want: Pools{Normal: 3, Hunger: 2}},
		{name: "hunger capped at pool", req: Request{Pool: 3, Hunger: 5}, want: Pools{Normal: 0, Hunger: 3}},
		{name: "no hunger", req: Request{Pool: 4}, want: Pools{Normal: 4, Hunger: 0}},
		{name: "empty pool", req: Request{Hunger: 3}, want: Pools{}},
		{name: "all hunger", req: Request{Pool: 2, Hunger: 2}, want: Pools{Normal: 0, Hunger: 2}},
		{name: "negative treated as empty", req: Request{Pool: -1, Hunger: -4}, want: Pools{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Recombine(tt.req); got != tt.want {
				t.Errorf("Recombine(%+v) = %+v, want %+v", tt.req, got, tt.want)
			}
		})
	}
}

func TestRecombine_Bounds(t *testing.T) {
	for b := 0; b <= 12; b++ {
		for h := 0; h <= 12; h++ {
			p := Recombine(Request{Pool: b, Hunger: h})
			if p.Normal+p.Hunger > b {
				t.Fatalf("B=%d H=%d: pools %+v exceed base pool", b, h, p)
			}
			if h <= b && p.Normal+p.Hunger != b {
				t.Fatalf("B=%d H=%d: pools %+v do not sum to base pool", b, h, p)
			}
			if h > b && p.Hunger != b {
				t.Fatalf("B=%d H=%d: hunger pool %d not clamped to %d", b, h, p.Hunger, b)
			}
		}
	}
}

func TestRollPools_Order(t *testing.T) {
	rolls := RollPools(Pools{Normal: 3, Hunger: 2}, NewSequence(8, 3, 6, 2, 10))

	if !reflect.DeepEqual(rolls.Normal, []int{8, 3, 6}) {
		t.Errorf("Normal = %v, want [8 3 6]", rolls.Normal)
	}
	if !reflect.DeepEqual(rolls.Hunger, []int{2, 10}) {
		t.Errorf("Hunger = %v, want [2 10]", rolls.Hunger)
	}
}

func TestRollPools_EmptyPools(t *testing.T) {
	rolls := RollPools(Pools{}, NewSequence(5))
	if rolls.Normal == nil || rolls.Hunger == nil {
		t.Fatalf("expected empty, non-nil slices, got %+v", rolls)
	}
	if len(rolls.Normal) != 0 || len(rolls.Hunger) != 0 {
		t.Fatalf("expected no dice, got %+v", rolls)
	}
}

func TestCount(t *testing.T) {
	tests := []struct {
		name          string
		rolls         Rolls
		wantSuccesses int
		wantCriticals int
		wantFailures  int
	}{
		{name: "single critical", rolls: Rolls{Normal: []int{8, 3, 6}, Hunger: []int{2, 10}}, wantSuccesses: 3, wantCriticals: 1},
		{name: "critical pair", rolls: Rolls{Normal: []int{10, 10, 7, 6}}, wantSuccesses: 6, wantCriticals: 2},
		{name: "three criticals pay one pair", rolls: Rolls{Normal: []int{10, 10}, Hunger: []int{10}}, wantSuccesses: 5, wantCriticals: 3},
		{name: "four criticals pay two pairs", rolls: Rolls{Normal: []int{10, 10}, Hunger: []int{10, 10}}, wantSuccesses: 8, wantCriticals: 4},
		{name: "normal ones are not failures", rolls: Rolls{Normal: []int{1, 1}, Hunger: []int{1, 5}}, wantFailures: 1},
		{name: "empty", rolls: Rolls{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Count(tt.rolls)
			if got.Successes != tt.wantSuccesses {
				t.Errorf("Successes = %d, want %d", got.Successes, tt.wantSuccesses)
			}
			if got.Criticals != tt.wantCriticals {
				t.Errorf("Criticals = %d, want %d", got.Criticals, tt.wantCriticals)
			}
			if got.Hunger.Failures != tt.wantFailures {
				t.Errorf("Hunger.Failures = %d, want %d", got.Hunger.Failures, tt.wantFailures)
			}
			if got.Normal.Failures != 0 {
				t.Errorf("Normal.Failures = %d, want 0", got.Normal.Failures)
			}
		})
	}
}

func TestCount_DoesNotAliasRolls(t *testing.T) {
	normal := []int{6, 7}
	tally := Count(Rolls{Normal: normal})
	normal[0] = 1

	if tally.Normal.Rolls[0] != 6 {
		t.Fatalf("tally shares storage with input rolls: %v", tally.Normal.Rolls)
	}
}

func TestCount_CriticalBonusIsEven(t *testing.T) {
	src := NewSeededSource(7)
	for i := 0; i < 500; i++ {
		tally := Count(RollPools(Pools{Normal: i % 9, Hunger: i % 5}, src))
		bonus := tally.Successes - (tally.Normal.Successes + tally.Hunger.Successes)
		if bonus < 0 || bonus%2 != 0 {
			t.Fatalf("bonus %d is not a non-negative even number for %+v", bonus, tally)
		}
	}
}

func TestResolve_Scenarios(t *testing.T) {
	tests := []struct {
		name        string
		req         Request
		faces       []int
		wantPools   Pools
		wantSucc    int
		wantOutcome Outcome
	}{
		{
			name:        "success with a lone critical",
			req:         Request{Pool: 5, Hunger: 2, Difficulty: 3},
			faces:       []int{8, 3, 6, 2, 10},
			wantPools:   Pools{Normal: 3, Hunger: 2},
			wantSucc:    3,
			wantOutcome: OutcomeSuccess,
		},
		{
			name:        "hunger larger than pool rolls only hunger dice",
			req:         Request{Pool: 3, Hunger: 5, Difficulty: 1},
			faces:       []int{7, 4, 2},
			wantPools:   Pools{Normal: 0, Hunger: 3},
			wantSucc:    1,
			wantOutcome: OutcomeSuccess,
		},
		{
			name:        "hunger ones on a failed roll",
			req:         Request{Pool: 4, Hunger: 2, Difficulty: 3},
			faces:       []int{7, 2, 1, 1},
			wantPools:   Pools{Normal: 2, Hunger: 2},
			wantSucc:    1,
			wantOutcome: OutcomeMessyFailure,
		},
		{
			name:        "critical pair",
			req:         Request{Pool: 4, Hunger: 0, Difficulty: 2},
			faces:       []int{10, 10, 7, 6},
			wantPools:   Pools{Normal: 4},
			wantSucc:    6,
			wantOutcome: OutcomeCriticalSuccess,
		},
		{
			name:        "critical pair with a hunger ten",
			req:         Request{Pool: 3, Hunger: 1, Difficulty: 4},
			faces:       []int{10, 3, 10},
			wantPools:   Pools{Normal: 2, Hunger: 1},
			wantSucc:    4,
			wantOutcome: OutcomeMessyCriticalSuccess,
		},
		{
			name:        "plain failure",
			req:         Request{Pool: 2, Hunger: 1, Difficulty: 2},
			faces:       []int{3, 6},
			wantPools:   Pools{Normal: 1, Hunger: 1},
			wantSucc:    1,
			wantOutcome: OutcomeFailure,
		},
		{
			name:        "zero difficulty always succeeds",
			req:         Request{Pool: 0, Hunger: 0, Difficulty: 0},
			faces:       []int{1},
			wantPools:   Pools{},
			wantSucc:    0,
			wantOutcome: OutcomeSuccess,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.req, NewSequence(tt.faces...))
			if got.Pools != tt.wantPools {
				t.Errorf("Pools = %+v, want %+v", got.Pools, tt.wantPools)
			}
			if got.Tally.Successes != tt.wantSucc {
				t.Errorf("Successes = %d, want %d", got.Tally.Successes, tt.wantSucc)
			}
			if got.Outcome != tt.wantOutcome {
				t.Errorf("Outcome = %v, want %v", got.Outcome, tt.wantOutcome)
			}
			if got.Request != tt.req {
				t.Errorf("Request = %+v, want %+v", got.Request, tt.req)
			}
		})
	}
}

func TestResolve_DiceInRange(t *testing.T) {
	src, err := NewRandSource()
	if err != nil {
		t.Fatalf("NewRandSource() error = %v", err)
	}

	result := Resolve(Request{Pool: 200, Hunger: 50}, src)
	for _, pool := range [][]int{result.Tally.Normal.Rolls, result.Tally.Hunger.Rolls} {
		for i, r := range pool {
			if r < 1 || r > Sides {
				t.Fatalf("die %d = %d, out of range [1, %d]", i, r, Sides)
			}
		}
	}
	if len(result.Tally.Normal.Rolls) != 150 || len(result.Tally.Hunger.Rolls) != 50 {
		t.Fatalf("unexpected pool sizes: %d normal, %d hunger",
			len(result.Tally.Normal.Rolls), len(result.Tally.Hunger.Rolls))
	}
}

func TestResolve_Concurrent(t *testing.T) {
	src := NewSeededSource(99)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r := Resolve(Request{Pool: 6, Hunger: 2, Difficulty: 3}, src)
				if len(r.Tally.Normal.Rolls)+len(r.Tally.Hunger.Rolls) != 6 {
					t.Errorf("rolled %d dice, want 6", len(r.Tally.Normal.Rolls)+len(r.Tally.Hunger.Rolls))
					return
				}
			}
		}()
	}
	wg.Wait()
}
