package system

// heartbeatResponse mirrors the server's heartbeat payload; the field name
// with a space is the server's, not ours.
type heartbeatResponse struct {
	Nanosecond int64 `json:"nanosecond heartbeat"`
}

type identityResponse struct {
	UserID    string   `json:"user_id"`
	Tenant    string   `json:"tenant"`
	Databases []string `json:"databases"`
}

type preFlightResponse struct {
	MaxBatchSize int `json:"max_batch_size"`
}

type nameRequest struct {
	Name string `json:"name"`
}

type tenantDTO struct {
	Name string `json:"name"`
}

type databaseDTO struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Tenant string `json:"tenant"`
}

func databaseFromDTO(d databaseDTO) Database {
	return Database{ID: d.ID, Name: d.Name, Tenant: d.Tenant}
}
