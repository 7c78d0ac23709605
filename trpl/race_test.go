package trpl

import (
	"context"
	"testing"
	"time"
)

func TestRace(t *testing.T) {
	t.Parallel()

	quick := func(ctx context.Context) string {
		return "quick"
	}
	never := func(ctx context.Context) string {
		<-ctx.Done()
		return "never"
	}

	tests := []struct {
		desc   string
		first  Func[string]
		second Func[string]
		want   Either[string, string]
	}{
		{
			desc:   "first wins",
			first:  quick,
			second: never,
			want:   Left[string, string]("quick"),
		},
		{
			desc:   "second wins",
			first:  never,
			second: quick,
			want:   Right[string, string]("quick"),
		},
	}

	for _, test := range tests {
		got := Race(context.Background(), test.first, test.second)
		if got != test.want {
			t.Errorf("TestRace(%s): got %v, want %v", test.desc, got, test.want)
		}
	}
}

func TestRaceCancelsLoser(t *testing.T) {
	t.Parallel()

	loserStopped := make(chan struct{})
	got := Race(context.Background(),
		func(ctx context.Context) int {
			return 1
		},
		func(ctx context.Context) int {
			<-ctx.Done()
			close(loserStopped)
			return 0
		},
	)
	if want := Left[int, int](1); got != want {
		t.Fatalf("TestRaceCancelsLoser: got %v, want %v", got, want)
	}

	select {
	case <-loserStopped:
	case <-time.After(5 * time.Second):
		t.Errorf("TestRaceCancelsLoser: loser never saw its context end")
	}
}
