package tournamentsoftware

type tournamentEnvelope struct {
	Tournament tournamentItem `json:"tournament"`
}

type tournamentListEnvelope struct {
	Tournaments []tournamentItem `json:"tournaments"`
	NextPage    *int             `json:"next_page"`
}

type tournamentItem struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Season      int    `json:"season"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	LastUpdated string `json:"last_updated"`
}

type eventListEnvelope struct {
	Events []eventItem `json:"events"`
}

type eventItem struct {
	Code   string     `json:"code"`
	Name   string     `json:"name"`
	Gender string     `json:"gender"`
	Level  int        `json:"level"`
	Draws  []drawItem `json:"draws"`
}

type drawItem struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Type string `json:"type"`
	Size int    `json:"size"`
}

type teamListEnvelope struct {
	Teams []teamItem `json:"teams"`
}

type teamItem struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	ClubName  string `json:"club_name"`
	Gender    string `json:"gender"`
	Country   string `json:"country"`
	Number    *int   `json:"number"`
	Strength  *int   `json:"strength"`
	EventCode string `json:"event_code"`
	Season    int    `json:"season"`
}
