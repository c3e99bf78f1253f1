package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleDocument() Document {
	return Document{
		Title:    "Rekap Kehadiran Guru",
		Subtitle: "Filter: DAILY 2024-03-15",
		Datasets: []Dataset{
			{
				Name:    "Per Kelas",
				Headers: []string{"Kelas", "Hadir", "Rate"},
				Rows: []map[string]string{
					{"Kelas": "VII A", "Hadir": "7", "Rate": "70"},
					{"Kelas": "VII B", "Hadir": "0", "Rate": "0"},
				},
			},
			{
				Name:    "Per Guru",
				Headers: []string{"Guru", "Rate"},
				Rows:    []map[string]string{{"Guru": "Dra. Sri Hayati", "Rate": "100"}},
			},
		},
	}
}

func TestForFormat(t *testing.T) {
	for _, format := range []Format{FormatCSV, FormatPDF, FormatXLSX} {
		exp, err := ForFormat(format)
		require.NoError(t, err)
		assert.Equal(t, string(format), exp.Extension())
	}
	_, err := ForFormat("docx")
	assert.Error(t, err)
}

func TestCSVExporterRendersSections(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDocument())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	assert.Equal(t, "Per Kelas", lines[0])
	assert.Equal(t, "Kelas,Hadir,Rate", lines[1])
	assert.Equal(t, "VII A,7,70", lines[2])
	assert.Contains(t, string(out), "Per Guru\nGuru,Rate\nDra. Sri Hayati,100")
}

func TestCSVExporterSingleDatasetHasNoSectionRow(t *testing.T) {
	doc := sampleDocument()
	doc.Datasets = doc.Datasets[:1]
	out, err := NewCSVExporter().Render(doc)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "Kelas,Hadir,Rate\n"))
}

func TestExportersRejectEmptyDocuments(t *testing.T) {
	_, err := NewCSVExporter().Render(Document{})
	assert.Error(t, err)
	_, err = NewPDFExporter().Render(Document{Datasets: []Dataset{{Name: "x"}}})
	assert.Error(t, err)
}

func TestPDFExporterProducesPDF(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleDocument())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestXLSXExporterWritesOneSheetPerDataset(t *testing.T) {
	out, err := NewXLSXExporter().Render(sampleDocument())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Per Kelas", "Per Guru"}, f.GetSheetList())
	header, err := f.GetCellValue("Per Kelas", "A4")
	require.NoError(t, err)
	assert.Equal(t, "Kelas", header)
	value, err := f.GetCellValue("Per Kelas", "C5")
	require.NoError(t, err)
	assert.Equal(t, "70", value)
}

func TestSheetNameDeduplicates(t *testing.T) {
	used := map[string]int{}
	assert.Equal(t, "Per Kelas", sheetName("Per Kelas", 0, used))
	assert.Equal(t, "Per Kelas 2", sheetName("Per Kelas", 1, used))
	assert.Equal(t, "Data 3", sheetName("", 2, used))
	assert.Equal(t, "A B", sheetName("A/B", 3, used))
}

func TestICSExporterRendersAllDayEvents(t *testing.T) {
	stamp := time.Date(2024, 4, 1, 8, 0, 0, 0, time.UTC)
	out, err := NewICSExporter("-//SIAP GURU//Agenda//ID").Render([]CalendarEntry{
		{UID: "ev-1", Date: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), Summary: "Hari Buruh", Category: "LIBUR", Transparent: true},
		{UID: "ev-2", Date: time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC), Summary: "Rapat", Description: "Jam terdampak: 3, 4", Category: "JAM_KHUSUS"},
	}, stamp)
	require.NoError(t, err)

	body := string(out)
	assert.Contains(t, body, "BEGIN:VCALENDAR")
	assert.Contains(t, body, "UID:ev-1")
	assert.Contains(t, body, "SUMMARY:Hari Buruh")
	assert.Contains(t, body, "20240501")
	assert.Contains(t, body, "TRANSP:TRANSPARENT")
	assert.Contains(t, body, "TRANSP:OPAQUE")
	assert.Equal(t, 2, strings.Count(body, "BEGIN:VEVENT"))
}

func TestICSExporterRequiresUID(t *testing.T) {
	_, err := NewICSExporter("x").Render([]CalendarEntry{{Summary: "no id"}}, time.Now())
	assert.Error(t, err)
}
