package booking

import "github.com/santhokumarp/salonhub/internal/model"

// FindContiguousRun walks the day's templates (ordered by start time)
// forward from the template carrying the requested start slot, summing
// each template's duration until the running total covers requiredMin.
// It returns the minimal prefix of template ids, or ok=false when the
// start template is absent or the remaining templates cannot cover the
// required duration.
func FindContiguousRun(templates []model.SlotTemplate, startTemplateID uint64, requiredMin int) ([]uint64, bool) {
	start := -1
	for i, t := range templates {
		if t.ID == startTemplateID {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, false
	}
	var run []uint64
	total := 0
	for _, t := range templates[start:] {
		run = append(run, t.ID)
		total += t.DurationMinutes()
		if total >= requiredMin {
			return run, true
		}
	}
	return nil, false
}

// RequiredMinutes sums the snapshot duration of every booking line,
// weighted by quantity.
func RequiredMinutes(lines []model.BookingLine) int {
	total := 0
	for _, l := range lines {
		total += l.DurationMin * l.Quantity
	}
	return total
}
