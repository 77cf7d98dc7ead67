package media

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	yearPattern  = regexp.MustCompile(`^\d{4}$`)
	monthPattern = regexp.MustCompile(`^\d{2}-[A-Za-z]+$`) // e.g. "04-April"

	// Backup folder names encode a date with '-' or '_' separators:
	// MM-DD-YY, MM-DD-YYYY, YYYY-MM-DD (day precision),
	// YYYY-MM, MM-YYYY (month precision).
	backupPattern = regexp.MustCompile(
		`^(?:\d{1,2}[-_]\d{1,2}[-_]\d{2}(?:\d{2})?|\d{4}[-_]\d{1,2}[-_]\d{1,2}|\d{4}[-_]\d{1,2}|\d{1,2}[-_]\d{4})$`)
)

// ClassifyFolderName classifies a folder basename. It is a pure function of
// the name and never inspects the filesystem.
func (t Types) ClassifyFolderName(name string) FolderClass {
	switch {
	case t.generated[name]:
		return FolderGenerated
	case yearPattern.MatchString(name):
		return FolderYear
	case monthPattern.MatchString(name):
		return FolderMonth
	case backupPattern.MatchString(name):
		return FolderBackup
	default:
		return FolderUnclassified
	}
}

// MatchesBackupName reports whether the name fits the backup grammar,
// independent of whether its components form a valid calendar date.
func MatchesBackupName(name string) bool {
	return backupPattern.MatchString(name)
}

// BackupDate is a date parsed from a backup folder name. DayKnown is false
// for month-precision names, where Day defaults to 1.
type BackupDate struct {
	Date     Date
	DayKnown bool
}

// ParseBackupDate parses a backup folder name into a calendar date.
// It returns ok=false when the name does not fit the grammar or its
// components do not form a valid date (e.g. month 13).
func ParseBackupDate(name string) (BackupDate, bool) {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '-' || r == '_'
	})

	switch len(parts) {
	case 3:
		nums, ok := atoiAll(parts)
		if !ok {
			return BackupDate{}, false
		}
		var d Date
		if len(parts[0]) == 4 {
			// YYYY-MM-DD
			d = Date{Year: nums[0], Month: time.Month(nums[1]), Day: nums[2]}
		} else {
			// MM-DD-YY or MM-DD-YYYY; two-digit years live in the 2000s
			year := nums[2]
			if year < 100 {
				year += 2000
			}
			d = Date{Year: year, Month: time.Month(nums[0]), Day: nums[1]}
		}
		if !d.Valid() {
			return BackupDate{}, false
		}
		return BackupDate{Date: d, DayKnown: true}, true

	case 2:
		nums, ok := atoiAll(parts)
		if !ok {
			return BackupDate{}, false
		}
		// Try year-month first, then month-year.
		if len(parts[0]) == 4 && validMonth(nums[1]) {
			return BackupDate{Date: Date{Year: nums[0], Month: time.Month(nums[1]), Day: 1}}, true
		}
		if len(parts[1]) == 4 && validMonth(nums[0]) {
			return BackupDate{Date: Date{Year: nums[1], Month: time.Month(nums[0]), Day: 1}}, true
		}
		return BackupDate{}, false

	default:
		return BackupDate{}, false
	}
}

func atoiAll(parts []string) ([]int, bool) {
	nums := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, false
		}
		nums[i] = n
	}
	return nums, true
}

func validMonth(m int) bool { return m >= 1 && m <= 12 }
