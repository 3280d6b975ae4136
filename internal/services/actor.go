package services

import (
	"encoding/json"

	"plateada-backend/internal/models"

	"gorm.io/datatypes"
)

// Actor is the authenticated caller of a core operation, passed explicitly
// instead of read from shared state.
type Actor struct {
	UserID    uint
	Role      models.Role
	RequestID string
	IP        string
	UserAgent string
}

// SystemActor is used for grants the platform makes on its own behalf.
var SystemActor = Actor{}

func (a Actor) metadata() datatypes.JSON {
	m := map[string]interface{}{}
	if a.UserID != 0 {
		m["operator_id"] = a.UserID
	} else {
		m["operator"] = "system"
	}
	if a.RequestID != "" {
		m["request_id"] = a.RequestID
	}
	if a.IP != "" {
		m["ip"] = a.IP
	}
	if a.UserAgent != "" {
		m["user_agent"] = a.UserAgent
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil
	}
	return datatypes.JSON(data)
}
