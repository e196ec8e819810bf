package dashboard

// Stats are the headline counts of the dashboard. Users is only set for admins.
type Stats struct {
	Guesthouses int  `json:"guesthouses"`
	Rooms       int  `json:"rooms"`
	Photos      int  `json:"photos"`
	Users       *int `json:"users,omitempty"`
}
