package presence_dto

type HeartbeatRequest struct {
	PhotoURL *string `json:"photo_url"`
}
