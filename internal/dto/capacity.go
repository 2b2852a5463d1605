package dto

// WeeklyCapacity is the slot supply for one program week.
type WeeklyCapacity struct {
	Week  int `json:"week"`
	Slots int `json:"slots"`
}

// CapacityResponse summarises drive-slot supply for a candidate start date.
type CapacityResponse struct {
	School         string           `json:"school"`
	StartDate      string           `json:"startDate"`
	Weekly         []WeeklyCapacity `json:"weekly"`
	MaxWeeklySlots int              `json:"maxWeeklySlots"`
	AverageSlots   float64          `json:"averageSlots"`
	MaxStudents    int              `json:"maxStudents"`
}

// CapacityQuery filters GET /capacity.
type CapacityQuery struct {
	School    string `form:"school" json:"school" validate:"required"`
	StartDate string `form:"startDate" json:"startDate" validate:"required,datetime=2006-01-02"`
	Variant   string `form:"variant" json:"variant" validate:"omitempty,oneof=standard compressed"`
}

// CapacityReportQuery bounds the rolling CSV capacity report.
type CapacityReportQuery struct {
	School string `form:"school" json:"school" validate:"required"`
	Days   int    `form:"days" json:"days" validate:"omitempty,min=7,max=365"`
}
