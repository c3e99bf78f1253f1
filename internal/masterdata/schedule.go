package masterdata

import (
	"strings"

	"github.com/noah-isme/siap-guru-api/internal/models"
)

// Schedule returns a fresh copy of the seed weekly timetable.
func Schedule() []models.ScheduleSlot {
	return []models.ScheduleSlot{
		slot("SENIN", "0", "06.30 - 06.45", "Persiapan Upacara Bendera", ""),
		slot("SENIN", "1", "06.45 - 07.40", "Upacara Bendera", ""),
		slot("SENIN", "2", "07.40 - 08.20", "KBM", "7A:SENI-FA 7B:IPA-RB 7C:BIN-FW 8A:BIG-RN 8B:IPA-MY 8C:IPS-BR 9A:INF-EM 9B:IPS-MU 9C:BIN-SH"),
		slot("SENIN", "3", "08.20 - 09.00", "KBM", "7A:SENI-FA 7B:IPA-RB 7C:BIN-FW 8A:BIG-RN 8B:IPA-MY 8C:IPS-BR 9A:INF-EM 9B:IPS-MU 9C:BIN-SH"),
		slot("SENIN", "4", "09.20 - 10.00", "KBM", "7A:PAI-RH 7B:IPA-RB 7C:BIN-FW 8A:BAJA-SB 8B:MAT-PU 8C:BIG-RN 9A:INF-EM 9B:PJOK-MH 9C:BIN-SH"),
		slot("SENIN", "5", "10.00 - 10.40", "KBM", "7A:PAI-RH 7B:IPS-MU 7C:BIG-AH 8A:BAJA-SB 8B:MAT-PU 8C:BIG-RN 9A:SENI-FA 9B:PJOK-MH 9C:BK-OD"),
		slot("SENIN", "6", "10.40 - 11.20", "KBM", "7A:PAI-RH 7B:IPS-MU 7C:BIG-AH 8A:INF-MY 8B:BIN-FW 8C:MAT-PU 9A:SENI-FA 9B:PJOK-MH 9C:PKN-EH"),
		slot("SENIN", "7", "11.50 - 12.25", "KBM", "7A:IPS-MU 7B:BAJA-SB 7C:MAT-EM 8A:INF-MY 8B:BIN-FW 8C:MAT-PU 9A:BIG-RN 9B:BIN-SH 9C:PKN-EH"),
		slot("SENIN", "8", "12.25 - 13.00", "KBM", "7A:IPS-MU 7B:BAJA-SB 7C:MAT-EM 8A:INF-MY 8B:BIN-FW 8C:MAT-PU 9A:BIG-RN 9B:BIN-SH 9C:PKN-EH"),

		slot("SELASA", "0", "06.30 - 07.00", "Apel Pagi / Ar-Rahman", ""),
		slot("SELASA", "1", "07.00 - 07.40", "KBM", "7A:PJOK-MH 7B:PAI-RH 7C:INF-FA 8A:BIN-FW 8B:BIG-RN 8C:BAJA-SB 9A:PKN-EH 9B:MAT-PU 9C:BIN-SH"),
		slot("SELASA", "2", "07.40 - 08.20", "KBM", "7A:PJOK-MH 7B:PAI-RH 7C:INF-FA 8A:BIN-FW 8B:BIG-RN 8C:BAJA-SB 9A:PKN-EH 9B:MAT-PU 9C:BIN-SH"),
		slot("SELASA", "3", "08.20 - 09.00", "KBM", "7A:PJOK-MH 7B:PAI-RH 7C:INF-FA 8A:BIN-FW 8B:BK-MW 8C:INF-EM 9A:PKN-EH 9B:MAT-PU 9C:BIN-SH"),
		slot("SELASA", "4", "09.20 - 10.00", "KBM", "7A:INF-FA 7B:PJOK-MH 7C:IPS-MU 8A:IPA-MY 8B:BIN-FW 8C:INF-EM 9A:IPA-RB 9B:BK-OD 9C:BAJA-SB"),
		slot("SELASA", "5", "10.00 - 10.40", "KBM", "7A:INF-FA 7B:PJOK-MH 7C:IPS-MU 8A:IPA-MY 8B:BIN-FW 8C:INF-EM 9A:IPA-RB 9B:BIN-SH 9C:BAJA-SB"),
		slot("SELASA", "6", "10.40 - 11.20", "KBM", "7A:INF-FA 7B:PJOK-MH 7C:PAI-RH 8A:IPA-MY 8B:BIN-FW 8C:PKN-EH 9A:IPA-RB 9B:BIN-SH 9C:INF-AH"),
		slot("SELASA", "7", "11.50 - 12.25", "KBM", "7A:IPA-RB 7B:SENI-FA 7C:PAI-RH 8A:BIG-RN 8B:IPS-BR 8C:PKN-EH 9A:IPS-MU 9B:BAJA-SB 9C:INF-AH"),
		slot("SELASA", "8", "12.25 - 13.00", "KBM", "7A:IPA-RB 7B:SENI-FA 7C:PAI-RH 8A:BIG-RN 8B:IPS-BR 8C:PKN-EH 9A:IPS-MU 9B:BAJA-SB 9C:INF-AH"),

		slot("RABU", "0", "06.30 - 07.00", "Apel Pagi / Al-Waqi'ah", ""),
		slot("RABU", "1", "07.00 - 07.40", "KBM", "7A:BIN-FW 7B:INF-FA 7C:PJOK-MH 8A:PAI-RH 8B:INF-MY 8C:BIN-SH 9A:MAT-PU 9B:PKN-EH 9C:IPA-RB"),
		slot("RABU", "2", "07.40 - 08.20", "KBM", "7A:BIN-FW 7B:INF-FA 7C:PJOK-MH 8A:PAI-RH 8B:INF-MY 8C:BIN-SH 9A:MAT-PU 9B:PKN-EH 9C:IPA-RB"),
		slot("RABU", "3", "08.20 - 09.00", "KBM", "7A:BIN-FW 7B:INF-FA 7C:PJOK-MH 8A:PAI-RH 8B:INF-MY 8C:BIN-SH 9A:MAT-PU 9B:PKN-EH 9C:IPA-RB"),
		slot("RABU", "4", "09.20 - 10.00", "KBM", "7A:IPA-RB 7B:PKN-EH 7C:BIN-FW 8A:PJOK-MH 8B:SENI-FA 8C:BIG-RN 9A:IPS-MU 9B:INF-AH 9C:MAT-PU"),
		slot("RABU", "5", "10.00 - 10.40", "KBM", "7A:IPA-RB 7B:PKN-EH 7C:BIN-FW 8A:PJOK-MH 8B:SENI-FA 8C:BIG-RN 9A:IPS-MU 9B:INF-AH 9C:MAT-PU"),
		slot("RABU", "6", "10.40 - 11.20", "KBM", "7A:IPA-RB 7B:PKN-EH 7C:BIN-FW 8A:PJOK-MH 8B:PAI-RH 8C:IPA-MY 9A:BIN-SH 9B:INF-AH 9C:MAT-PU"),
		slot("RABU", "7", "11.50 - 12.25", "KBM", "7A:BIG-AH 7B:IPA-RB 7C:SENI-FA 8A:IPS-BR 8B:PAI-RH 8C:IPA-MY 9A:BIN-SH 9B:IPS-MU 9C:MAT-PU"),
		slot("RABU", "8", "12.25 - 13.00", "KBM", "7A:BIG-AH 7B:IPA-RB 7C:SENI-FA 8A:IPS-BR 8B:PAI-RH 8C:IPA-MY 9A:BIN-SH 9B:IPS-MU 9C:MAT-PU"),

		slot("KAMIS", "0", "06.30 - 07.00", "Apel Pagi / Istighotsah", ""),
		slot("KAMIS", "1", "07.00 - 07.40", "KBM", "7A:BIN-FW 7B:BK-OD 7C:MAT-EM 8A:IPA-MY 8B:IPS-BR 8C:PAI-RH 9A:PJOK-MH 9B:IPA-RB 9C:BIG-RN"),
		slot("KAMIS", "2", "07.40 - 08.20", "KBM", "7A:BIN-FW 7B:BIG-AH 7C:MAT-EM 8A:IPA-MY 8B:IPS-BR 8C:PAI-RH 9A:PJOK-MH 9B:IPA-RB 9C:BIG-RN"),
		slot("KAMIS", "3", "08.20 - 09.00", "KBM", "7A:BIN-FW 7B:BIG-AH 7C:MAT-EM 8A:PKN-EH 8B:IPA-MY 8C:PAI-RH 9A:PJOK-MH 9B:MAT-PU 9C:IPA-RB"),
		slot("KAMIS", "4", "09.20 - 10.00", "KBM", "7A:MAT-EM 7B:BIN-FW 7C:IPS-MU 8A:PKN-EH 8B:IPA-MY 8C:PJOK-MH 9A:PAI-RH 9B:MAT-PU 9C:IPA-RB"),
		slot("KAMIS", "5", "10.00 - 10.40", "KBM", "7A:MAT-EM 7B:BIN-FW 7C:IPS-MU 8A:PKN-EH 8B:IPA-MY 8C:PJOK-MH 9A:PAI-RH 9B:BIG-RN 9C:SENI-FA"),
		slot("KAMIS", "6", "10.40 - 11.20", "KBM", "7A:MAT-EM 7B:BIN-FW 7C:PKN-EH 8A:BK-MW 8B:MAT-PU 8C:PJOK-MH 9A:PAI-RH 9B:BIG-RN 9C:SENI-FA"),
		slot("KAMIS", "7", "11.50 - 12.25", "KBM", "7A:BIG-AH 7B:MAT-EM 7C:PKN-EH 8A:SENI-FA 8B:MAT-PU 8C:IPS-BR 9A:IPA-RB 9B:BIN-SH 9C:BIG-RN"),
		slot("KAMIS", "8", "12.25 - 13.00", "KBM", "7A:BIG-AH 7B:MAT-EM 7C:PKN-EH 8A:SENI-FA 8B:MAT-PU 8C:IPS-BR 9A:IPA-RB 9B:BIN-SH 9C:BIG-RN"),

		slot("JUM'AT", "0", "06.30 - 07.00", "Apel Pagi / Yasin", ""),
		slot("JUM'AT", "1", "07.00 - 07.40", "KBM", "7A:MAT-EM 7B:IPS-MU 7C:BIG-AH 8A:IPS-BR 8B:PKN-EH 8C:IPA-MY 9A:BAJA-SB 9B:BIG-RN 9C:PJOK-MH"),
		slot("JUM'AT", "2", "07.40 - 08.20", "KBM", "7A:MAT-EM 7B:IPS-MU 7C:BIG-AH 8A:IPS-BR 8B:PKN-EH 8C:IPA-MY 9A:BAJA-SB 9B:BIG-RN 9C:PJOK-MH"),
		slot("JUM'AT", "3", "08.20 - 09.00", "KBM", "7A:BAJA-SB 7B:BIN-FW 7C:BK-OD 8A:MAT-EM 8B:PKN-EH 8C:BK-MW 9A:BIN-SH 9B:PAI-RH 9C:PJOK-MH"),
		slot("JUM'AT", "4", "09.20 - 10.00", "KBM", "7A:BAJA-SB 7B:BIN-FW 7C:IPA-MY 8A:MAT-EM 8B:BIG-RN 8C:MAT-PU 9A:BIN-SH 9B:PAI-RH 9C:IPS-MU"),
		slot("JUM'AT", "5", "10.00 - 10.40", "KBM", "7A:BK-OD 7B:BIN-FW 7C:IPA-MY 8A:MAT-EM 8B:BIG-RN 8C:MAT-PU 9A:BIN-SH 9B:PAI-RH 9C:IPS-MU"),

		slot("SABTU", "0", "06.30 - 07.00", "Apel Pagi / Asmaul Husna", ""),
		slot("SABTU", "1", "07.00 - 07.40", "Sabtu Sehat Jiwa Raga", ""),
		slot("SABTU", "2", "07.40 - 08.20", "KBM", "7A:PKN-EH 7B:BIG-AH 7C:BAJA-SB 8A:MAT-EM 8B:PJOK-MH 8C:SENI-FA 9A:MAT-PU 9B:IPA-RB 9C:IPS-MU"),
		slot("SABTU", "3", "08.20 - 09.00", "KBM", "7A:PKN-EH 7B:BIG-AH 7C:BAJA-SB 8A:MAT-EM 8B:PJOK-MH 8C:SENI-FA 9A:MAT-PU 9B:IPA-RB 9C:IPS-MU"),
		slot("SABTU", "4", "09.20 - 10.00", "KBM", "7A:PKN-EH 7B:MAT-EM 7C:IPA-MY 8A:BIN-FW 8B:PJOK-MH 8C:BIN-SH 9A:BK-OD 9B:IPA-RB 9C:PAI-RH"),
		slot("SABTU", "5", "10.00 - 10.40", "KBM", "7A:IPS-MU 7B:MAT-EM 7C:IPA-MY 8A:BIN-FW 8B:BAJA-SB 8C:BIN-SH 9A:BIG-RN 9B:SENI-FA 9C:PAI-RH"),
		slot("SABTU", "6", "10.40 - 11.20", "KBM", "7A:IPS-MU 7B:MAT-EM 7C:IPA-MY 8A:BIN-FW 8B:BAJA-SB 8C:BIN-SH 9A:BIG-RN 9B:SENI-FA 9C:PAI-RH"),
	}
}

// slot builds a timetable row from a compact "CLASS:SUBJECT-TEACHER ..." mapping string.
func slot(day, period, timeRange, activity, mapping string) models.ScheduleSlot {
	entries := make(map[string]string)
	for _, field := range strings.Fields(mapping) {
		classID, value, ok := strings.Cut(field, ":")
		if ok {
			entries[classID] = value
		}
	}
	return models.ScheduleSlot{
		ID:        models.SlotID(day, period),
		Day:       day,
		Period:    period,
		TimeRange: timeRange,
		Activity:  activity,
		Mapping:   entries,
	}
}
