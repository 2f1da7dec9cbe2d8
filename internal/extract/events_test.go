package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEvent(t *testing.T) {
	cases := []struct {
		in, label string
		dist      int
		stroke    string
	}{
		{"400m Libre", "400m Libre", 400, "LIBRE"},
		{"400 LIBRES", "400m Libre", 400, "LIBRE"},
		{"100 ESPALDA", "100m Espalda", 100, "ESPALDA"},
		{"50 FREESTYLE", "50m Libre", 50, "LIBRE"},
		{"200M BRAZA", "200m Braza", 200, "BRAZA"},
		{"100 FLY", "100m Mariposa", 100, "MARIPOSA"},
		{"200 estilos", "200m Estilos", 200, "ESTILOS"},
	}
	for _, tc := range cases {
		label, dist, stroke := NormalizeEvent(tc.in)
		assert.Equal(t, tc.label, label, tc.in)
		assert.Equal(t, tc.dist, dist, tc.in)
		assert.Equal(t, tc.stroke, stroke, tc.in)
	}
}

func TestNormalizeEventUnknownStroke(t *testing.T) {
	label, dist, stroke := NormalizeEvent("  100   APNEA ")
	assert.Equal(t, "100 APNEA", label)
	assert.Equal(t, 100, dist)
	assert.Equal(t, "", stroke)
}

func TestSplitEventCategory(t *testing.T) {
	cases := []struct {
		in, event, category string
	}{
		{"400m Libre ABSOLUTO", "400m Libre", "ABSOLUTO"},
		{"ALEVIN 100 ESPALDA", "100m Espalda", "ALEVIN"},
		{"100 ESPALDA", "100m Espalda", ""},
		{"INFANTIL 200 ESTILOS B", "200m Estilos", "INFANTIL B"},
	}
	for _, tc := range cases {
		event, category := SplitEventCategory(tc.in)
		assert.Equal(t, tc.event, event, tc.in)
		assert.Equal(t, tc.category, category, tc.in)
	}
}
