package spotcode

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateBasic(t *testing.T) {
	tests := []struct {
		room      string
		container string
		label     string
		want      string
	}{
		{"Camera da letto", "Armadio grande", "Cassetto 1", "CAM-ARM-C1"},
		{"Camera da letto", "Armadio grande", "Mensola alta", "CAM-ARM-MA"},
		{"Cucina", "Credenza", "Ripiano 3", "CUC-CRE-R3"},
		{"Cucina", "Credenza", "Primo scaffale", "CUC-CRE-PS"},
		{"Studio", "Libreria", "Scomparto", "STU-LIB-SC"},
		{"Garage", "Scaffale metallico", "Terzo ripiano da sinistra", "GAR-SCA-TRD"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := Generate(tt.room, tt.container, tt.label, nil)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a := Generate("Camera", "Armadio", "Cassetto 1", nil)
	b := Generate("Camera", "Armadio", "Cassetto 1", nil)
	assert.Equal(t, a, b)
}

func TestGenerateCollisionSuffix(t *testing.T) {
	existing := []string{}
	first := Generate("Camera da letto", "Armadio grande", "Cassetto 1", existing)
	require.Equal(t, "CAM-ARM-C1", first)

	existing = append(existing, first)
	second := Generate("Camera da letto", "Armadio grande", "Cassetto 1", existing)
	assert.Equal(t, "CAM-ARM-C12", second)

	existing = append(existing, second)
	third := Generate("Camera da letto", "Armadio grande", "Cassetto 1", existing)
	assert.Equal(t, "CAM-ARM-C13", third)
}

func TestGenerateNeverReturnsExisting(t *testing.T) {
	var existing []string
	for i := 0; i < 50; i++ {
		code := Generate("Bagno", "Mobiletto", "Ripiano 2", existing)
		for _, e := range existing {
			require.NotEqual(t, e, code, "iteration %d", i)
		}
		existing = append(existing, code)
	}
}

func TestGenerateAccents(t *testing.T) {
	// The accent table folds lowercase vowels; capitals are lowercased
	// first so they fold identically.
	assert.Equal(t, "ING-SCA-CCP", Generate("Ingresso", "Scarpiera", "Cassetto chiavi più piccolo", nil))
	got := Generate("Però", "Càntina", "Scaffale", nil)
	assert.Equal(t, "PER-CAN-SC", got)
	assert.Equal(t, "ERA-ARM-SC", Generate("È raro", "Armadio", "Scomparto", nil))
}

func TestGenerateApostrophes(t *testing.T) {
	// "L'ingresso" normalizes to "lingresso".
	assert.Equal(t, "LIN-MOB-CA", Generate("L'ingresso", "Mobile", "Cassetto", nil))
}

func TestGenerateShortAndEmptyInputs(t *testing.T) {
	assert.Equal(t, "AB-CD-EF", Generate("ab", "cd", "ef", nil))
	// Empty inputs degrade to empty segments, still a well-formed string.
	assert.Equal(t, "--", Generate("", "", "", nil))
	assert.Equal(t, "CAM--C1", Generate("Camera", "", "Cassetto 1", nil))
}

func TestGenerateNumericSecondWord(t *testing.T) {
	assert.Equal(t, "SOF-COM-C12", Generate("Soffitta", "Comò", "Cassetto 12", nil))
	// Non-numeric second word falls back to two initials.
	assert.Equal(t, "SOF-COM-CB", Generate("Soffitta", "Comò", "Cassetto basso", nil))
}

func TestIsValid(t *testing.T) {
	valid := []string{"CAM-ARM-C1", "CAM-ARM-C12", "CUC-CRE-MA", "A-B-C", "GAR-SCA-TRD2"}
	for _, code := range valid {
		assert.True(t, IsValid(code), code)
	}

	invalid := []string{"", "camarmc1", "CAM-ARM", "CAM_ARM_C1", "CAMERA-ARM-C1", "CAM-ARM-", "cam-arm-c1"}
	for _, code := range invalid {
		assert.False(t, IsValid(code), code)
	}
}

func TestGeneratedCodesAreValid(t *testing.T) {
	rooms := []string{"Camera da letto", "Cucina", "Studio", "Garage"}
	containers := []string{"Armadio grande", "Credenza", "Libreria"}
	labels := []string{"Cassetto 1", "Mensola alta", "Scomparto", "Terzo ripiano da sinistra"}

	for _, r := range rooms {
		for _, c := range containers {
			for _, l := range labels {
				code := Generate(r, c, l, nil)
				assert.True(t, IsValid(code), fmt.Sprintf("%s/%s/%s -> %s", r, c, l, code))
			}
		}
	}
}
