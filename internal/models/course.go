package models

import "strings"

// LessonSlot is a named time-of-day interval in the teaching day.
type LessonSlot struct {
	Name      string `json:"name"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	// TermDays is "all" or a comma-separated weekday subset, e.g. "Sat, Sun".
	TermDays string `json:"term_days"`
	Seasonal string `json:"seasonal,omitempty"`
	Break    bool   `json:"break"`
}

// AppliesOn reports whether the slot is offered on the given weekday name.
func (s LessonSlot) AppliesOn(day string) bool {
	if s.TermDays == "all" || s.TermDays == "" {
		return true
	}
	for _, d := range strings.Split(s.TermDays, ",") {
		if strings.EqualFold(strings.TrimSpace(d), day) ||
			strings.EqualFold(strings.TrimSpace(d), day[:3]) {
			return true
		}
	}
	return false
}

// LessonSlotTable is the ordered slot configuration for a term. Slot names are
// unique; break slots are never schedulable.
type LessonSlotTable struct {
	Slots []LessonSlot `json:"slots"`
}

// SchedulableNames returns the non-break slot names in table order.
func (t LessonSlotTable) SchedulableNames() []string {
	names := make([]string, 0, len(t.Slots))
	for _, slot := range t.Slots {
		if !slot.Break {
			names = append(names, slot.Name)
		}
	}
	return names
}

// Find returns the slot with the given name.
func (t LessonSlotTable) Find(name string) (LessonSlot, bool) {
	for _, slot := range t.Slots {
		if slot.Name == name {
			return slot, true
		}
	}
	return LessonSlot{}, false
}

// Default slot names. lesson_slot_5 doubles as the weekday evening class slot.
const (
	SlotLesson1   = "lesson_slot_1"
	SlotLesson2   = "lesson_slot_2"
	SlotLesson3   = "lesson_slot_3"
	SlotLesson4   = "lesson_slot_4"
	SlotLesson5   = "lesson_slot_5"
	ClassSlotName = SlotLesson5
)

// DefaultLessonSlots returns the standard daily slot table: five two-hour
// teaching slots separated by breaks, with the two late slots also offered on
// weekends.
func DefaultLessonSlots() LessonSlotTable {
	return LessonSlotTable{Slots: []LessonSlot{
		{Name: SlotLesson1, StartTime: "08:00", EndTime: "10:00", TermDays: "all"},
		{Name: "break_am", StartTime: "10:00", EndTime: "10:15", TermDays: "all", Break: true},
		{Name: SlotLesson2, StartTime: "10:15", EndTime: "12:15", TermDays: "all"},
		{Name: "break_lunch", StartTime: "12:15", EndTime: "13:15", TermDays: "all", Break: true},
		{Name: SlotLesson3, StartTime: "13:15", EndTime: "15:15", TermDays: "all"},
		{Name: "break_pm", StartTime: "15:15", EndTime: "15:45", TermDays: "all", Break: true},
		{Name: SlotLesson4, StartTime: "15:45", EndTime: "17:45", TermDays: "all"},
		{Name: SlotLesson5, StartTime: "18:00", EndTime: "20:00", TermDays: "all"},
	}}
}

// WeekendSlotNames are the slots also offered on Saturday and Sunday.
var WeekendSlotNames = []string{SlotLesson4, SlotLesson5}

// CourseVariant selects one of the published course structures.
type CourseVariant string

const (
	CourseVariantStandard   CourseVariant = "standard"
	CourseVariantCompressed CourseVariant = "compressed"
)

// OrientationConfig describes the single opening session.
type OrientationConfig struct {
	MaxStudents int `json:"max_students"`
	Duration    int `json:"duration"`
}

// DrivingSessionsConfig describes the behind-the-wheel programme.
type DrivingSessionsConfig struct {
	// Pairs lists the drive numbers taught together each week; the final
	// entry is the lone eleventh drive.
	Pairs               [][]int `json:"pairs"`
	StudentsPerDrive    int     `json:"students_per_drive"`
	Duration            int     `json:"duration"`
	MinDaysBetweenPairs int     `json:"min_days_between_pairs"`
	MaxDaysBetweenPairs int     `json:"max_days_between_pairs"`
}

// ClassSessionsConfig describes the classroom lecture series.
type ClassSessionsConfig struct {
	TotalSessions  int      `json:"total_sessions"`
	MaxStudents    int      `json:"max_students"`
	Duration       int      `json:"duration"`
	ClassesPerWeek int      `json:"classes_per_week"`
	ClassDays      []string `json:"class_days"`
}

// SequenceConfig carries ordering and length constraints.
type SequenceConfig struct {
	OrientationFirst      bool `json:"orientation_first"`
	MinDaysBetweenClasses int  `json:"min_days_between_classes"`
	MaxDaysBetweenClasses int  `json:"max_days_between_classes"`
	MinCourseLength       int  `json:"min_course_length"`
}

// CourseStructure is the immutable configuration bundle passed into every
// scheduling component.
type CourseStructure struct {
	Variant         CourseVariant         `json:"variant"`
	Orientation     OrientationConfig     `json:"orientation"`
	DrivingSessions DrivingSessionsConfig `json:"driving_sessions"`
	ClassSessions   ClassSessionsConfig   `json:"class_sessions"`
	Sequence        SequenceConfig        `json:"sequence"`
}

func baseDrivingSessions() DrivingSessionsConfig {
	return DrivingSessionsConfig{
		Pairs: [][]int{
			{1, 2},
			{3, 4},
			{5, 6},
			{7, 8},
			{9, 10},
			{11},
		},
		StudentsPerDrive:    2,
		Duration:            2,
		MinDaysBetweenPairs: 1,
		MaxDaysBetweenPairs: 7,
	}
}

// StandardCourseStructure is the eight-week programme with two evening
// classes per week.
func StandardCourseStructure() CourseStructure {
	return CourseStructure{
		Variant:         CourseVariantStandard,
		Orientation:     OrientationConfig{MaxStudents: 30, Duration: 2},
		DrivingSessions: baseDrivingSessions(),
		ClassSessions: ClassSessionsConfig{
			TotalSessions:  15,
			MaxStudents:    30,
			Duration:       2,
			ClassesPerWeek: 2,
			ClassDays:      []string{"Tuesday", "Thursday"},
		},
		Sequence: SequenceConfig{
			OrientationFirst:      true,
			MinDaysBetweenClasses: 1,
			MaxDaysBetweenClasses: 7,
			MinCourseLength:       56,
		},
	}
}

// CompressedCourseStructure is the seven-week programme with three classes
// per week.
func CompressedCourseStructure() CourseStructure {
	return CourseStructure{
		Variant:         CourseVariantCompressed,
		Orientation:     OrientationConfig{MaxStudents: 30, Duration: 2},
		DrivingSessions: baseDrivingSessions(),
		ClassSessions: ClassSessionsConfig{
			TotalSessions:  15,
			MaxStudents:    30,
			Duration:       2,
			ClassesPerWeek: 3,
			ClassDays:      []string{"Monday", "Wednesday", "Friday"},
		},
		Sequence: SequenceConfig{
			OrientationFirst:      true,
			MinDaysBetweenClasses: 1,
			MaxDaysBetweenClasses: 7,
			MinCourseLength:       49,
		},
	}
}

// CourseStructureFor resolves a variant name, defaulting to standard.
func CourseStructureFor(variant CourseVariant) CourseStructure {
	if variant == CourseVariantCompressed {
		return CompressedCourseStructure()
	}
	return StandardCourseStructure()
}
