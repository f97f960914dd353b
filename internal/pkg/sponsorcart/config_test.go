package sponsorcart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeType(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"single letter code", "P", TypePanchayat},
		{"lowercase letter code", "m", TypeMunicipality},
		{"full word", "Corporation", TypeCorporation},
		{"lowercase word", "municipality", TypeMunicipality},
		{"regional spelling", "Panchayath", TypePanchayat},
		{"padded input", "  corporation  ", TypeCorporation},
		{"all marker", "all", TypeAll},
		{"empty defaults to panchayat", "", TypePanchayat},
		{"unknown takes first letter", "Township", "T"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeType(tt.input))
		})
	}
}

func TestMaxExecutivesFor(t *testing.T) {
	assert.Equal(t, 1, MaxExecutivesFor("P"))
	assert.Equal(t, 3, MaxExecutivesFor("Municipality"))
	assert.Equal(t, 5, MaxExecutivesFor("corporation"))

	// All spans every type, so it yields the largest bound.
	assert.Equal(t, 5, MaxExecutivesFor(TypeAll))

	// Unknown codes get the strictest bound.
	assert.Equal(t, 1, MaxExecutivesFor("Township"))
}

func TestTypeLabel(t *testing.T) {
	assert.Equal(t, "Panchayat", TypeLabel("P"))
	assert.Equal(t, "Municipality", TypeLabel("m"))
	assert.Equal(t, "Corporation", TypeLabel("Corp"))
	assert.Equal(t, "All Types", TypeLabel("All"))
}
