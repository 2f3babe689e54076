package model

type Player struct {
	ID       string
	Color    Color
	TimeLeft int
}

type ClientPlayer struct {
	ID       string `json:"name"`
	Color    Color  `json:"color"`
	TimeLeft int    `json:"timeLeft"`
}
