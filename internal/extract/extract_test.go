package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = `Resultados - Splash Meet Manager
LIGA CANARIA DE INVIERNO
Las Palmas, 01/06/2005
CLASIFICACIÓN TIEMPO
PRUEBA 12 MASC., 400m Libre ABSOLUTO
1. GARCIA PEREZ, Juan 08 C.N. Las Palmas 4:32.10 512
2. RODRIGUEZ, Pedro 07 C.N. Telde 4:45,32 498
DSQ MARTIN, Luis 08 C.N. Sur
Página 1 de 3
PRUEBA 13 FEM., 100 ESPALDA JUNIOR
1. SANTANA, Lola12A.D. Norte 1:09,87 +0,72
2. DIAZ, Carla 11 C.N. Metropole 1:12.3 -
`

func collect(doc, source string) ([]RawResult, []string) {
	var reasons []string
	var rows []RawResult
	for r := range Results([]byte(doc), source, func(_, reason string) {
		reasons = append(reasons, reason)
	}) {
		rows = append(rows, r)
	}
	return rows, reasons
}

func TestResultsParsesSplashReport(t *testing.T) {
	rows, reasons := collect(sampleDoc, "liga/jornada1.txt")
	require.Len(t, rows, 4)
	assert.Empty(t, reasons)

	first := rows[0]
	assert.Equal(t, "GARCIA PEREZ, Juan", first.Swimmer)
	assert.Equal(t, "08", first.YearDigits)
	assert.Equal(t, "400m Libre", first.Event)
	assert.Equal(t, "ABSOLUTO", first.EventCategory)
	assert.Equal(t, "12", first.EventNum)
	assert.Equal(t, "MASC", first.Sex)
	assert.Equal(t, "01/06/2005", first.Date)
	assert.Equal(t, "4:32.10", first.Time)
	assert.Equal(t, "liga/jornada1.txt", first.Source)

	// Comma decimal folded to dot, trailing points stripped.
	assert.Equal(t, "4:45.32", rows[1].Time)

	// Second event switches sex, event and category.
	third := rows[2]
	assert.Equal(t, "100m Espalda", third.Event)
	assert.Equal(t, "JUNIOR", third.EventCategory)
	assert.Equal(t, "FEM", third.Sex)

	// Column glue "Lola12A.D." is re-spaced before the year split.
	assert.Equal(t, "SANTANA, Lola", third.Swimmer)
	assert.Equal(t, "12", third.YearDigits)
	assert.Equal(t, "1:09.87", third.Time)

	// Trailing dash placeholder stripped.
	assert.Equal(t, "1:12.3", rows[3].Time)
}

func TestResultsSkipsNoiseSilently(t *testing.T) {
	doc := `Informe de participación
Club: C.N. Las Palmas
Total nadadores: 45
`
	rows, reasons := collect(doc, "doc")
	assert.Empty(t, rows)
	assert.Empty(t, reasons)
}

func TestResultsEmptyDocument(t *testing.T) {
	rows, reasons := collect("", "doc")
	assert.Empty(t, rows)
	assert.Empty(t, reasons)
}

func TestResultsDropsRowMissingYearDigits(t *testing.T) {
	doc := `Las Palmas, 01/06/2005
PRUEBA 1 MASC., 50 LIBRE
1. GARCIA, Juan C.N. Telde 29.87
`
	rows, reasons := collect(doc, "doc")
	assert.Empty(t, rows)
	require.Len(t, reasons, 1)
	assert.Equal(t, ReasonNoYearDigits, reasons[0])
}

func TestResultsDropsRowWithoutEventHeader(t *testing.T) {
	doc := `Las Palmas, 01/06/2005
1. GARCIA, Juan 08 C.N. Telde 29.87
`
	rows, reasons := collect(doc, "doc")
	assert.Empty(t, rows)
	require.Len(t, reasons, 1)
	assert.Equal(t, ReasonNoEventHeader, reasons[0])
}

func TestResultsSequenceStopsEarly(t *testing.T) {
	n := 0
	for range Results([]byte(sampleDoc), "doc", nil) {
		n++
		break
	}
	assert.Equal(t, 1, n)
}

func TestSplitMultiSwimmer(t *testing.T) {
	line := "1. GARCIA, Juan 08 29.87 SANTANA, Pedro 07 30.12"
	parts := splitMultiSwimmer(line)
	require.Len(t, parts, 2)
	// The first part keeps the rank prefix.
	assert.Equal(t, "1. GARCIA, Juan 08 29.87", parts[0])
	assert.Equal(t, "SANTANA, Pedro 07 30.12", parts[1])
}

func TestResultsMultiSwimmerLine(t *testing.T) {
	doc := `Las Palmas, 01/06/2005
PRUEBA 5 MASC., 50 LIBRE
1. GARCIA, Juan 08 29.87 SANTANA, Pedro 07 30.12
`
	rows, reasons := collect(doc, "doc")
	require.Len(t, rows, 2)
	assert.Empty(t, reasons)

	assert.Equal(t, "GARCIA, Juan", rows[0].Swimmer)
	assert.Equal(t, "08", rows[0].YearDigits)
	assert.Equal(t, "29.87", rows[0].Time)

	assert.Equal(t, "SANTANA, Pedro", rows[1].Swimmer)
	assert.Equal(t, "07", rows[1].YearDigits)
	assert.Equal(t, "30.12", rows[1].Time)

	for _, r := range rows {
		assert.Equal(t, "50m Libre", r.Event)
		assert.Equal(t, "MASC", r.Sex)
	}
}

func TestResultsDropsRowWithoutRankPrefix(t *testing.T) {
	doc := `Las Palmas, 01/06/2005
PRUEBA 1 MASC., 50 LIBRE
GARCIA, Juan 08 C.N. Telde 29.87
`
	rows, reasons := collect(doc, "doc")
	assert.Empty(t, rows)
	require.Len(t, reasons, 1)
	assert.Equal(t, ReasonNoRankPrefix, reasons[0])
}

func TestSplitNameYearDigits(t *testing.T) {
	name, yy := splitNameYearDigits("1. GARCIA PEREZ, Juan 08 C.N. Las Palmas")
	assert.Equal(t, "GARCIA PEREZ, Juan", name)
	assert.Equal(t, "08", yy)

	name, yy = splitNameYearDigits("2. SANTANA, Lola12A.D. Norte")
	assert.Equal(t, "SANTANA, Lola", name)
	assert.Equal(t, "12", yy)

	name, yy = splitNameYearDigits("3. MARTIN, Luis C.N. Sur")
	assert.Equal(t, "MARTIN, Luis C.N. Sur", name)
	assert.Equal(t, "", yy)

	// Single-digit year token is zero-padded.
	name, yy = splitNameYearDigits("4. VEGA, Ana 9 C.N. Norte")
	assert.Equal(t, "VEGA, Ana", name)
	assert.Equal(t, "09", yy)
}
