package rezerwujkort

// Field matching is case-insensitive; the API has shipped both PascalCase and camelCase.
type dailyCalendar struct {
	Date   string  `json:"date"`
	Courts []court `json:"courts"`
}

type court struct {
	CourtID           int    `json:"courtId"`
	CourtName         string `json:"courtName"`
	CourtNameWWW      string `json:"courtNameWww"`
	CourtDescription  string `json:"courtDescription"`
	OnlineReservation bool   `json:"onlineReservation"`
	Hours             []hour `json:"hours"`
}

type hour struct {
	HourID                int    `json:"hourId"`
	HourName              string `json:"hourName"`
	HourStatus            string `json:"hourStatus"`
	PossibleHalfHourSlots []int  `json:"possibleHalfHourSlots"`
}
