package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPDFExt(t *testing.T) {
	cases := []struct {
		ext  string
		want bool
	}{
		{".pdf", true},
		{"pdf", true},
		{".PDF", true},
		{".Pdf", true},
		{".txt", false},
		{".pdfx", false},
		{"", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, IsPDFExt(tc.ext), "ext %q", tc.ext)
	}
}

func TestNormalizeExt(t *testing.T) {
	assert.Equal(t, "pdf", NormalizeExt(".PDF"))
	assert.Equal(t, "png", NormalizeExt("png"))
	assert.Equal(t, "", NormalizeExt("."))
}
