package resume

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestExtractTextMissingFile(t *testing.T) {
	reader := NewPDFReader(zap.NewNop())

	_, err := reader.ExtractText(filepath.Join(t.TempDir(), "missing.pdf"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not accessible")
}

func TestExtractTextInvalidPDF(t *testing.T) {
	reader := NewPDFReader(zap.NewNop())

	path := filepath.Join(t.TempDir(), "bogus.pdf")
	if err := os.WriteFile(path, []byte("not a pdf"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := reader.ExtractText(path)
	assert.Error(t, err)
}
