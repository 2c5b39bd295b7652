package model

// All returns every model in migration order
func All() []interface{} {
	return []interface{}{
		&User{},
		&Tenant{},
		&Manager{},
		&Payment{},
		&Event{},
		&EventDocument{},
		&EventRSVP{},
		&Room{},
		&Booking{},
		&ServiceRequest{},
		&Message{},
		&DirectoryEntry{},
	}
}
