package myuuid

import "github.com/google/uuid"

// RealUUIDer hands out time-ordered (version 7) uuids, so ids of basket lines sort by creation
type RealUUIDer struct{}

func (u RealUUIDer) Create() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
