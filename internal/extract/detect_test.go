package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreResultsReport(t *testing.T) {
	ok, score := IsResults([]byte(sampleDoc))
	assert.True(t, ok)
	assert.GreaterOrEqual(t, score, ResultsThreshold)
}

func TestScoreStartList(t *testing.T) {
	doc := `Inscripciones - Splash Meet Manager
Serie 1, calle 4: GARCIA, Juan
Serie 1, calle 5: SANTANA, Pedro
`
	ok, score := IsResults([]byte(doc))
	assert.False(t, ok)
	assert.Less(t, score, ResultsThreshold)
}

func TestScoreEmptyAndBinary(t *testing.T) {
	ok, score := IsResults(nil)
	assert.False(t, ok)
	assert.Zero(t, score)

	ok, _ = IsResults([]byte{0x25, 0x50, 0x44, 0x46, 0x00, 0x01})
	assert.False(t, ok)
}

func TestScoreCountsRankedLines(t *testing.T) {
	var b strings.Builder
	b.WriteString("RESULTADOS\n")
	b.WriteString("PRUEBA 1 MASC., 50 LIBRE\n")
	for i := 0; i < 10; i++ {
		b.WriteString("1. GARCIA, Juan 08 C.N. Telde 1:02.35\n")
	}
	score := Score([]byte(b.String()))

	// 2 for the title, 2 for the event marker, rank hits capped at 6.
	assert.Equal(t, 10, score)
}
