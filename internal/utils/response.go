package utils

// Response is the envelope of every JSON body the API returns.
type Response struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

func NewResponse(status int, message string, data interface{}) Response {
	return Response{
		Status:  status,
		Message: message,
		Data:    data,
	}
}

// NewSuccessResponse defaults status to 200.
func NewSuccessResponse(message string, data interface{}) Response {
	return NewResponse(200, message, data)
}

// NewErrorResponse carries no data.
func NewErrorResponse(status int, message string) Response {
	return NewResponse(status, message, nil)
}
