package tempus

// Component is a field of a date or time collected by the parser.
type Component uint64

const (
	ComponentYear Component = 1 << iota
	ComponentMonth
	ComponentDay
	ComponentDOY
	ComponentDOW

	ComponentHour
	ComponentHour12
	ComponentAMPM
	ComponentMinute
	ComponentSecond

	ComponentTZ

	ComponentTimeMask = (ComponentHour | ComponentMinute | ComponentSecond)
	ComponentDateMask = (ComponentDay | ComponentMonth | ComponentYear)
)
