package models

// Block is a run of consecutive periods of one class that share teacher, subject and lock state.
// It is the unit a class representative fills in.
type Block struct {
	Periods     []string         `json:"jams"`
	TeacherID   string           `json:"id_guru"`
	TeacherName string           `json:"nama_guru"`
	Subject     string           `json:"mapel"`
	Status      AttendanceStatus `json:"status"`
	Note        string           `json:"catatan"`
	AdminLocked bool             `json:"admin_locked"`
}

// FirstPeriod returns the opening period of the block.
func (b Block) FirstPeriod() string {
	if len(b.Periods) == 0 {
		return ""
	}
	return b.Periods[0]
}
