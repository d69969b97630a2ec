package engine

import (
	"math/rand"
	"testing"

	"kda-engine/internal/domain"
)

// seqSource replays a fixed sequence of draws, cycling when exhausted.
type seqSource struct {
	vals []float64
	i    int
}

func (s *seqSource) Float64() float64 {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v
}

func TestComputeRatio(t *testing.T) {
	tests := []struct {
		name    string
		kills   int
		deaths  int
		assists int
		want    float64
	}{
		{
			name: "all zero",
			want: 0,
		},
		{
			name:    "typical match",
			kills:   10,
			deaths:  2,
			assists: 5,
			want:    7.5,
		},
		{
			name:    "zero deaths floors denominator to one",
			kills:   3,
			deaths:  0,
			assists: 4,
			want:    7,
		},
		{
			name:   "deaths only",
			deaths: 7,
			want:   0,
		},
		{
			name:    "one death",
			kills:   1,
			deaths:  1,
			assists: 1,
			want:    2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeRatio(tt.kills, tt.deaths, tt.assists)
			if got != tt.want {
				t.Errorf("ComputeRatio(%d, %d, %d) = %v, want %v", tt.kills, tt.deaths, tt.assists, got, tt.want)
			}
			if got < 0 {
				t.Errorf("ratio must never be negative, got %v", got)
			}
			// Pure function: a second call must agree.
			if again := ComputeRatio(tt.kills, tt.deaths, tt.assists); again != got {
				t.Errorf("repeated call returned %v, first returned %v", again, got)
			}
		})
	}
}

func TestFormatRatio(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.00"},
		{7.5, "7.50"},
		{2.0 / 3.0 * 4, "2.67"},
		{12, "12.00"},
	}

	for _, tt := range tests {
		if got := FormatRatio(tt.in); got != tt.want {
			t.Errorf("FormatRatio(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSuggestGoal(t *testing.T) {
	tests := []struct {
		name        string
		stats       domain.MatchStats
		target      float64
		wantMet     bool
		wantKills   int
		wantAssists int
	}{
		{
			name:    "goal already met",
			stats:   domain.MatchStats{Kills: 10, Deaths: 2, Assists: 5},
			target:  5, // required 5*2=10 <= current 15
			wantMet: true,
		},
		{
			name:    "goal met exactly",
			stats:   domain.MatchStats{Kills: 5, Deaths: 1},
			target:  5, // required 5, current 5, missing 0
			wantMet: true,
		},
		{
			name:      "fresh player needs five kills",
			stats:     domain.MatchStats{Deaths: 1},
			target:    5, // missing 5, no assists to discount
			wantKills: 5,
		},
		{
			name:        "assists discount the kill demand",
			stats:       domain.MatchStats{Kills: 2, Deaths: 4, Assists: 3},
			target:      3, // missing 7, kills ceil(7-1.8)=6, assists ceil(7-6)=1
			wantKills:   6,
			wantAssists: 1,
		},
		{
			name:      "zero deaths uses unit denominator",
			stats:     domain.MatchStats{Kills: 1, Deaths: 0, Assists: 0},
			target:    4, // required 4*1=4, missing 3
			wantKills: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SuggestGoal(tt.stats, tt.target)
			if tt.wantMet {
				if got.Message != GoalMetMessage {
					t.Errorf("message = %q, want %q", got.Message, GoalMetMessage)
				}
				if got.NeedKills != 0 || got.NeedAssists != 0 {
					t.Errorf("met goal must need nothing, got kills=%d assists=%d", got.NeedKills, got.NeedAssists)
				}
				return
			}
			if got.NeedKills != tt.wantKills {
				t.Errorf("NeedKills = %d, want %d", got.NeedKills, tt.wantKills)
			}
			if got.NeedAssists != tt.wantAssists {
				t.Errorf("NeedAssists = %d, want %d", got.NeedAssists, tt.wantAssists)
			}
			if got.Message == "" || got.Message == GoalMetMessage {
				t.Errorf("unexpected message %q for unmet goal", got.Message)
			}
		})
	}
}

func TestSimulateDeterministic(t *testing.T) {
	base := domain.MatchStats{Kills: 10, Deaths: 2, Assists: 5}

	// All draws at 0.5: kills round(10+0.6)=11, deaths round(2+0)=2,
	// assists round(5+1.2)=6, ratio (11+6)/2 = 8.5.
	src := &seqSource{vals: []float64{0.5}}
	got := Simulate(base, 3, src)

	if len(got) != 3 {
		t.Fatalf("got %d matches, want 3", len(got))
	}
	for i, m := range got {
		if m.Position != i+1 {
			t.Errorf("match %d: position = %d, want %d", i, m.Position, i+1)
		}
		if m.Kills != 11 || m.Deaths != 2 || m.Assists != 6 {
			t.Errorf("match %d: stats = %d/%d/%d, want 11/2/6", i, m.Kills, m.Deaths, m.Assists)
		}
		if m.Ratio != 8.5 {
			t.Errorf("match %d: ratio = %v, want 8.5", i, m.Ratio)
		}
	}
}

func TestSimulateFloorsNegativeDrawsAtZero(t *testing.T) {
	// Zero base with minimal draws pushes every stat below zero before the
	// floor: kills round(-0.9), deaths round(-1), assists round(-0.8).
	src := &seqSource{vals: []float64{0}}
	got := Simulate(domain.MatchStats{}, 1, src)

	if len(got) != 1 {
		t.Fatalf("got %d matches, want 1", len(got))
	}
	m := got[0]
	if m.Kills != 0 || m.Deaths != 0 || m.Assists != 0 {
		t.Errorf("stats = %d/%d/%d, want 0/0/0", m.Kills, m.Deaths, m.Assists)
	}
	if m.Ratio != 0 {
		t.Errorf("ratio = %v, want 0", m.Ratio)
	}
}

func TestSimulateShape(t *testing.T) {
	src := rand.New(rand.NewSource(42))
	base := domain.MatchStats{Kills: 8, Deaths: 3, Assists: 2}

	for _, count := range []int{1, 7, 20} {
		got := Simulate(base, count, src)
		if len(got) != count {
			t.Errorf("count %d: got %d matches", count, len(got))
		}
		for i, m := range got {
			if m.Kills < 0 || m.Deaths < 0 || m.Assists < 0 {
				t.Errorf("count %d, match %d: negative stat %d/%d/%d", count, i, m.Kills, m.Deaths, m.Assists)
			}
			if m.Ratio != ComputeRatio(m.Kills, m.Deaths, m.Assists) {
				t.Errorf("count %d, match %d: ratio %v does not match stats", count, i, m.Ratio)
			}
		}
	}
}
