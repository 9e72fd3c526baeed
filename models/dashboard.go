package models

type DashboardStats struct {
	UsersTotal     int `json:"users_total"`
	AdminsTotal    int `json:"admins_total"`
	EventsTotal    int `json:"events_total"`
	UpcomingEvents int `json:"upcoming_events"`
	GamesTotal     int `json:"games_total"`
	PendingGames   int `json:"pending_games"`
	ReviewsTotal   int `json:"reviews_total"`
	PhotosTotal    int `json:"photos_total"`
}
