package scoring

const (
	PointsPerPrayer = 100
	// RoutinePoints is the flat award for a completed routine item or task.
	RoutinePoints = 10
)

const (
	Fajr    = "fajr"
	Dhuhr   = "dhuhr"
	Asr     = "asr"
	Maghrib = "maghrib"
	Isha    = "isha"
)

var Prayers = []string{Fajr, Dhuhr, Asr, Maghrib, Isha}

type PrayerFlags struct {
	Fajr    bool
	Dhuhr   bool
	Asr     bool
	Maghrib bool
	Isha    bool
}

func IsPrayer(name string) bool {
	switch name {
	case Fajr, Dhuhr, Asr, Maghrib, Isha:
		return true
	}
	return false
}

// Set marks one prayer and reports whether the name was recognised.
// Unknown names leave the flags untouched.
func (f *PrayerFlags) Set(name string, value bool) bool {
	switch name {
	case Fajr:
		f.Fajr = value
	case Dhuhr:
		f.Dhuhr = value
	case Asr:
		f.Asr = value
	case Maghrib:
		f.Maghrib = value
	case Isha:
		f.Isha = value
	default:
		return false
	}
	return true
}

func (f PrayerFlags) Count() int {
	n := 0
	for _, done := range []bool{f.Fajr, f.Dhuhr, f.Asr, f.Maghrib, f.Isha} {
		if done {
			n++
		}
	}
	return n
}

func SpiritualScore(f PrayerFlags) int {
	return PointsPerPrayer * f.Count()
}
