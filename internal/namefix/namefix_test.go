package namefix

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRepair(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"clean ascii", "report.psd", "report.psd"},
		{"kana kept", "レポート.psd", "レポート.psd"},
		{"kanji kept", "資料.csv", "資料.csv"},
		{"control stripped", "rep\x01ort\x7f.psd", "report.psd"},
		{"c1 control stripped", "report\u0085.psd", "report.psd"},
		{"surrounding space trimmed", "  report.psd  ", "report.psd"},
		{"question marks keep ascii stem", "??report.psd", "??report.psd"},
		{"latin1 garbled", "café.psd", "caf.psd"},
		{"garbled extension lowered", "??image.PNG", "??image.png"},
		{"garbled no ascii stem", "ÄÖÜ.json", "unknown_file.json"},
		{"garbled unknown extension", "??report.exe", "unknown_file.psd"},
		{"garbled no extension", "??", "unknown_file.psd"},
		{"invalid utf8", "\x83\x65.psd", "e.psd"},
		{"mixed kanji and question marks", "日本語??.json", "??.json"},
		{"empty", "", "unknown_file.psd"},
		{"dot leading", ".hidden", "unknown_file.hidden"},
		{"only extension", ".PSD", "unknown_file.psd"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Repair(tt.input))
		})
	}
}

func TestRepairUnknownExtensionIsExact(t *testing.T) {
	for _, name := range []string{"??a.bin", "ß.docx", "データé.zip"} {
		assert.Equal(t, "unknown_file.psd", Repair(name), name)
	}
}

func TestGarbled(t *testing.T) {
	assert.False(t, Garbled("report.psd"))
	assert.False(t, Garbled("レポート.psd"))
	assert.False(t, Garbled("rep\x01ort.psd"))
	assert.True(t, Garbled("??report.psd"))
	assert.True(t, Garbled("café.psd"))
	assert.True(t, Garbled("\xff.psd"))
}
