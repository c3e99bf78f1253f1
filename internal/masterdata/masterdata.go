// Package masterdata holds the static school reference data used to seed the record store
// and to fill in gaps when the store returns empty tables.
package masterdata

import (
	"sort"

	"github.com/noah-isme/siap-guru-api/internal/models"
)

// Default settings applied until the record store provides its own.
const (
	DefaultAcademicYear = "2025/2026"
	DefaultSemester     = models.SemesterEven
)

var classes = []models.ClassInfo{
	{ID: "7A", Name: "VII A"}, {ID: "7B", Name: "VII B"}, {ID: "7C", Name: "VII C"},
	{ID: "8A", Name: "VIII A"}, {ID: "8B", Name: "VIII B"}, {ID: "8C", Name: "VIII C"},
	{ID: "9A", Name: "IX A"}, {ID: "9B", Name: "IX B"}, {ID: "9C", Name: "IX C"},
}

var teachers = []models.Teacher{
	{ID: "SH", Name: "Dra. Sri Hayati", Subjects: []string{"Bahasa Indonesia"}},
	{ID: "BR", Name: "Bakhtiar Rifai, SE", Subjects: []string{"Ilmu Pengetahuan Sosial"}},
	{ID: "MH", Name: "Moch. Husain Rifai Hamzah, S.Pd.", Subjects: []string{"Penjas Orkes"}},
	{ID: "RH", Name: "Rudi Hermawan, S.Pd.I", Subjects: []string{"Pendidikan Agama Islam"}},
	{ID: "OD", Name: "Okha Devi Anggraini, S.Pd.", Subjects: []string{"Bimbingan Konseling"}},
	{ID: "EH", Name: "Eka Hariyati, S. Pd.", Subjects: []string{"PPKn"}},
	{ID: "MW", Name: "Mikoe Wahyudi Putra, ST., S. Pd.", Subjects: []string{"Bimbingan Konseling"}},
	{ID: "PU", Name: "Purnadi, S. Pd.", Subjects: []string{"Matematika"}},
	{ID: "MU", Name: "Israfin Maria Ulfa, S.Pd", Subjects: []string{"Ilmu Pengetahuan Sosial"}},
	{ID: "SB", Name: "Syadam Budi Satrianto, S.Pd", Subjects: []string{"Bahasa Jawa"}},
	{ID: "RB", Name: "Rebby Dwi Prataopu, S.Si", Subjects: []string{"Ilmu Pengetahuan Alam"}},
	{ID: "MY", Name: "Mukhamad Yunus, S.Pd", Subjects: []string{"Ilmu Pengetahuan Alam", "Informatika"}},
	{ID: "FW", Name: "Fahmi Wahyuni, S.Pd", Subjects: []string{"Bahasa Indonesia"}},
	{ID: "FA", Name: "Fakhita Madury, S.Sn", Subjects: []string{"Seni (Seni Rupa)", "Informatika"}},
	{ID: "RN", Name: "Retno Nawangwulan, S. Pd.", Subjects: []string{"Bahasa Inggris"}},
	{ID: "EM", Name: "Emilia Kartika Sari, S.Pd", Subjects: []string{"Matematika", "Informatika"}},
	{ID: "AH", Name: "Akhmad Hariadi, S.Pd", Subjects: []string{"Bahasa Inggris", "Informatika"}},
}

var subjectNames = map[string]string{
	"BIN":  "Bahasa Indonesia",
	"IPS":  "Ilmu Pengetahuan Sosial",
	"PJOK": "Penjas Orkes",
	"PAI":  "Pendidikan Agama Islam",
	"BK":   "Bimbingan Konseling",
	"PKN":  "PPKn",
	"MAT":  "Matematika",
	"BAJA": "Bahasa Jawa",
	"IPA":  "Ilmu Pengetahuan Alam",
	"INF":  "Informatika",
	"SENI": "Seni (Seni Rupa)",
	"BIG":  "Bahasa Inggris",
}

var noteChoices = []string{
	models.DefaultPresentNote,
	"Memberi tugas via WA",
	"Tugas mandiri (LKS/Buku)",
	"Siswa di Perpustakaan",
	"Rapat Dinas/MGMP",
	"Terlambat masuk kelas",
	"Izin tanpa keterangan",
	"Sakit dengan surat",
}

var periods = []string{"0", "1", "2", "3", "4", "5", "6", "7", "8"}

// Classes returns the class groups in display order.
func Classes() []models.ClassInfo {
	return append([]models.ClassInfo(nil), classes...)
}

// ClassByID looks up a class group.
func ClassByID(id string) (models.ClassInfo, bool) {
	for _, c := range classes {
		if c.ID == id {
			return c, true
		}
	}
	return models.ClassInfo{}, false
}

// Teachers returns a fresh copy of the seed roster.
func Teachers() []models.Teacher {
	out := make([]models.Teacher, len(teachers))
	for i, t := range teachers {
		t.Subjects = append([]string(nil), t.Subjects...)
		out[i] = t
	}
	return out
}

// SubjectName resolves a subject code to its display name, falling back to the code.
func SubjectName(code string) string {
	if name, ok := subjectNames[code]; ok {
		return name
	}
	return code
}

// SubjectNames returns a copy of the code to name table.
func SubjectNames() map[string]string {
	out := make(map[string]string, len(subjectNames))
	for k, v := range subjectNames {
		out[k] = v
	}
	return out
}

// SubjectCodes returns the known subject codes sorted alphabetically.
func SubjectCodes() []string {
	codes := make([]string, 0, len(subjectNames))
	for code := range subjectNames {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// NoteChoices lists the canned notes offered with a status.
func NoteChoices() []string {
	return append([]string(nil), noteChoices...)
}

// Periods lists the period ids of a school day.
func Periods() []string {
	return append([]string(nil), periods...)
}

// IsPeriod reports whether id is a known period.
func IsPeriod(id string) bool {
	for _, p := range periods {
		if p == id {
			return true
		}
	}
	return false
}

// DefaultSettings returns the settings aggregate used before the store answers.
func DefaultSettings() models.AppSettings {
	return models.AppSettings{
		ID:           models.SettingsRecordID,
		AcademicYear: DefaultAcademicYear,
		Semester:     DefaultSemester,
		Events:       []models.CalendarEvent{},
	}
}
