package results

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return d
}

func res(key, event, day_ string, d time.Duration, source string) Result {
	return Result{
		Swimmer:    key,
		SwimmerKey: key,
		Event:      event,
		Sex:        "M",
		YearDigits: "08",
		Date:       day(day_),
		Time:       d,
		SourcePath: source,
	}
}

func TestDedupeKeepsMinimumTime(t *testing.T) {
	slow := res("GARCIA JUAN", "400m Libre", "2005-06-01", 4*time.Minute+32*time.Second+100*time.Millisecond, "a")
	fast := res("GARCIA JUAN", "400m Libre", "2005-06-01", 4*time.Minute+30*time.Second, "b")

	for _, in := range [][]Result{{slow, fast}, {fast, slow}} {
		out := Dedupe(in)
		require.Len(t, out, 1)
		assert.Equal(t, fast.Time, out[0].Time)
		assert.Equal(t, "b", out[0].SourcePath)
	}
}

func TestDedupeTieKeepsFirst(t *testing.T) {
	a := res("GARCIA JUAN", "50m Libre", "2005-06-01", 29*time.Second, "first")
	b := res("GARCIA JUAN", "50m Libre", "2005-06-01", 29*time.Second, "second")

	out := Dedupe([]Result{a, b})
	require.Len(t, out, 1)
	assert.Equal(t, "first", out[0].SourcePath)
}

func TestDedupeDistinctDaysKept(t *testing.T) {
	a := res("GARCIA JUAN", "50m Libre", "2005-06-01", 29*time.Second, "a")
	b := res("GARCIA JUAN", "50m Libre", "2005-06-02", 30*time.Second, "a")

	out := Dedupe([]Result{a, b})
	assert.Len(t, out, 2)
}

func TestDedupePreservesFirstOccurrenceOrder(t *testing.T) {
	in := []Result{
		res("A", "50m Libre", "2005-06-01", 30*time.Second, "a"),
		res("B", "50m Libre", "2005-06-01", 31*time.Second, "a"),
		res("A", "50m Libre", "2005-06-01", 29*time.Second, "a"),
	}
	out := Dedupe(in)
	require.Len(t, out, 2)
	assert.Equal(t, "A", out[0].SwimmerKey)
	assert.Equal(t, 29*time.Second, out[0].Time)
	assert.Equal(t, "B", out[1].SwimmerKey)
}

func TestDedupeEmptyAndSingle(t *testing.T) {
	assert.Empty(t, Dedupe(nil))
	one := []Result{res("A", "50m Libre", "2005-06-01", 30*time.Second, "a")}
	assert.Equal(t, one, Dedupe(one))
}
