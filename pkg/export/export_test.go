package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pairingDataset() Dataset {
	return Dataset{
		Title:   "Pairing suggestions",
		Headers: []string{"tutor", "student", "similarity"},
		Rows: []map[string]string{
			{"tutor": "Ana", "student": "Budi", "similarity": "0.9821"},
			{"student": "Citra"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(pairingDataset())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	assert.Equal(t, []string{"tutor,student,similarity", "Ana,Budi,0.9821", ",Citra,"}, lines)
}

func TestPDFExporterRender(t *testing.T) {
	exporter := NewPDFExporter("tutor-pairing-api")
	out, err := exporter.Render(pairingDataset())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
	assert.Equal(t, "application/pdf", exporter.ContentType())
}

func TestExportersRequireHeaders(t *testing.T) {
	for _, r := range []Renderer{NewCSVExporter(), NewPDFExporter("")} {
		_, err := r.Render(Dataset{Title: "empty"})
		assert.Error(t, err, r.Extension())
	}
}
